package usage

import "fmt"

// Backend names accepted by NewRecorder
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// NewRecorder builds the recorder for a backend name. The returned Store is
// nil for BackendNone.
func NewRecorder(backend, redisAddr string) (Recorder, Store, error) {
	switch backend {
	case "", BackendNone:
		return Nop{}, nil, nil
	case BackendMemory:
		s := NewMemoryStore()
		return NewCountingRecorder(s), s, nil
	case BackendRedis:
		if redisAddr == "" {
			return nil, nil, fmt.Errorf("redis usage backend needs an address")
		}
		s := NewRedisStore(redisAddr)
		return NewCountingRecorder(s), s, nil
	default:
		return nil, nil, fmt.Errorf("unknown usage backend: %s", backend)
	}
}
