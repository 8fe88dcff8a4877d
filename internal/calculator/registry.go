package calculator

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rgehrsitz/fincalc/internal/usage"
	"github.com/rgehrsitz/fincalc/internal/validation"
)

// Definition is a registered calculator: its inputs, rules and formula
type Definition struct {
	ID           string                                  `json:"id" yaml:"id"`
	Name         string                                  `json:"name" yaml:"name"`
	Description  string                                  `json:"description" yaml:"description"`
	Fields       []Field                                 `json:"fields" yaml:"fields"`
	Rules        map[string][]validation.Rule            `json:"-" yaml:"-"`
	Dependencies validation.Dependencies                 `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Compute      func(validation.Values) (Result, error) `json:"-" yaml:"-"`
}

// Field looks up an input by key
func (d Definition) Field(key string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Keys lists input keys in display order
func (d Definition) Keys() []string {
	keys := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		keys[i] = f.Key
	}
	return keys
}

// InitialValues returns the field defaults
func (d Definition) InitialValues() validation.Values {
	v := make(validation.Values, len(d.Fields))
	for _, f := range d.Fields {
		v[f.Key] = f.Default
	}
	return v.Clone()
}

// Parsers returns the parser of every field that has one
func (d Definition) Parsers() map[string]Parser {
	out := make(map[string]Parser, len(d.Fields))
	for _, f := range d.Fields {
		if p := f.Parser(); p != nil {
			out[f.Key] = p
		}
	}
	return out
}

// Option adjusts the engine built by NewEngine
type Option func(*Config[Result])

// WithRecorder reports the mount to rec
func WithRecorder(rec usage.Recorder) Option {
	return func(c *Config[Result]) { c.Recorder = rec }
}

// WithRecordTimeout bounds the mount report
func WithRecordTimeout(d time.Duration) Option {
	return func(c *Config[Result]) { c.RecordTimeout = d }
}

// WithLogger routes engine logging to l
func WithLogger(l Logger) Option {
	return func(c *Config[Result]) { c.Logger = l }
}

// WithRules appends rules to a field, after the built-in ones
func WithRules(field string, rules ...validation.Rule) Option {
	return func(c *Config[Result]) {
		merged := make(map[string][]validation.Rule, len(c.Rules)+1)
		for k, v := range c.Rules {
			merged[k] = v
		}
		merged[field] = append(append([]validation.Rule{}, merged[field]...), rules...)
		c.Rules = merged
	}
}

// WithDependencies adds dependency edges
func WithDependencies(deps validation.Dependencies) Option {
	return func(c *Config[Result]) {
		merged := validation.Dependencies{}
		for k, v := range c.Dependencies {
			merged[k] = append([]string{}, v...)
		}
		for k, v := range deps {
			merged[k] = append(merged[k], v...)
		}
		c.Dependencies = merged
	}
}

// WithInitialValues overrides field defaults. Each value goes through the
// field's parser; a value that fails is kept raw and its parser message is
// reported when the engine first validates.
func WithInitialValues(values validation.Values) Option {
	return func(c *Config[Result]) {
		merged := c.InitialValues.Clone()
		if merged == nil {
			merged = validation.Values{}
		}
		bad := initialParseErrors(c.InitialParseErrors)
		for k, raw := range values {
			delete(bad, k)
			if p, ok := c.Parsers[k]; ok {
				parsed, err := p(raw)
				if err != nil {
					bad[k] = err.Error()
				} else {
					raw = parsed
				}
			}
			merged[k] = raw
		}
		c.InitialValues = merged
		c.InitialParseErrors = bad
	}
}

// Config returns the engine configuration for the definition
func (d Definition) Config(opts ...Option) Config[Result] {
	id := d.ID
	compute := d.Compute
	cfg := Config[Result]{
		ID:            id,
		InitialValues: d.InitialValues(),
		Rules:         d.Rules,
		Order:         d.Keys(),
		Dependencies:  d.Dependencies,
		Parsers:       d.Parsers(),
		Compute: func(v validation.Values) (Result, error) {
			res, err := compute(v)
			if err != nil {
				return Result{}, err
			}
			res.Calculator = id
			return res, nil
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// NewEngine mounts an engine for the definition
func (d Definition) NewEngine(opts ...Option) *Engine[Result] {
	return New(d.Config(opts...))
}

// Registry holds calculator definitions by id
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds a definition. Ids must be unique and a compute func present.
func (r *Registry) Register(d Definition) error {
	if d.ID == "" {
		return fmt.Errorf("calculator id is required")
	}
	if d.Compute == nil {
		return fmt.Errorf("calculator %s has no compute function", d.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.defs[d.ID]; dup {
		return fmt.Errorf("calculator %s already registered", d.ID)
	}
	r.defs[d.ID] = d
	return nil
}

// Get returns the definition for id
func (r *Registry) Get(id string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[id]
	return d, ok
}

// IDs lists registered ids alphabetically
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.defs))
	for id := range r.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// List returns definitions ordered by id
func (r *Registry) List() []Definition {
	ids := r.IDs()
	out := make([]Definition, 0, len(ids))
	for _, id := range ids {
		d, _ := r.Get(id)
		out = append(out, d)
	}
	return out
}

// NewEngine mounts the calculator registered under id
func (r *Registry) NewEngine(id string, opts ...Option) (*Engine[Result], error) {
	d, ok := r.Get(id)
	if !ok {
		return nil, fmt.Errorf("unknown calculator: %s", id)
	}
	return d.NewEngine(opts...), nil
}

// Default returns a registry holding every built-in calculator
func Default() *Registry {
	r := NewRegistry()
	for _, d := range Builtins() {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
	return r
}
