// Package usage records which calculators are opened. The calculator engine
// reports each mount to a Recorder and never waits on or inspects the outcome.
package usage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Recorder receives one call per calculator mount
type Recorder interface {
	RecordCalculatorUsage(ctx context.Context, calculatorID string) error
}

// RecorderFunc adapts a function to Recorder
type RecorderFunc func(ctx context.Context, calculatorID string) error

func (f RecorderFunc) RecordCalculatorUsage(ctx context.Context, calculatorID string) error {
	return f(ctx, calculatorID)
}

// Nop discards usage
type Nop struct{}

func (Nop) RecordCalculatorUsage(context.Context, string) error { return nil }

// Store keeps per-calculator counters
type Store interface {
	Increment(ctx context.Context, calculatorID string) (int64, error)
	Counts(ctx context.Context) (map[string]int64, error)
}

// ErrEmptyID is returned when a recorder is handed a blank calculator id
var ErrEmptyID = errors.New("calculator id is empty")

// CountingRecorder increments a Store counter for every mount
type CountingRecorder struct {
	store Store
}

// NewCountingRecorder records into store
func NewCountingRecorder(store Store) *CountingRecorder {
	return &CountingRecorder{store: store}
}

func (r *CountingRecorder) RecordCalculatorUsage(ctx context.Context, calculatorID string) error {
	id := strings.TrimSpace(calculatorID)
	if id == "" {
		return ErrEmptyID
	}
	if _, err := r.store.Increment(ctx, id); err != nil {
		return fmt.Errorf("record usage of %s: %w", id, err)
	}
	return nil
}

// MemoryStore is an in-process Store
type MemoryStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: make(map[string]int64)}
}

func (m *MemoryStore) Increment(_ context.Context, calculatorID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[calculatorID]++
	return m.counts[calculatorID], nil
}

func (m *MemoryStore) Counts(context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out, nil
}

// Count is one row of a usage report
type Count struct {
	CalculatorID string `json:"calculatorId" yaml:"calculatorId"`
	Uses         int64  `json:"uses" yaml:"uses"`
}

// Ranked sorts counts by uses descending, then by id
func Ranked(counts map[string]int64) []Count {
	out := make([]Count, 0, len(counts))
	for id, n := range counts {
		out = append(out, Count{CalculatorID: id, Uses: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Uses != out[j].Uses {
			return out[i].Uses > out[j].Uses
		}
		return out[i].CalculatorID < out[j].CalculatorID
	})
	return out
}
