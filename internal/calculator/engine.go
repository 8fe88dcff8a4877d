// Package calculator is the state engine behind every calculator: it owns
// field values, runs validation on each change, and recomputes the result
// only while every field is valid.
package calculator

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/rgehrsitz/fincalc/internal/usage"
	"github.com/rgehrsitz/fincalc/internal/validation"
)

// DefaultRecordTimeout bounds a single usage report
const DefaultRecordTimeout = 2 * time.Second

// Parser converts a raw field input into the stored value
type Parser func(raw any) (any, error)

// Config describes one calculator instance
type Config[R any] struct {
	ID            string
	InitialValues validation.Values
	// InitialParseErrors holds parser messages for initial values that
	// could not be parsed. They are reported on the first validation.
	InitialParseErrors map[string]string

	// Rules and Order feed validation.NewSet; Dependencies widens the
	// re-validation done by ValidateField.
	Rules        map[string][]validation.Rule
	Order        []string
	Dependencies validation.Dependencies

	Parsers map[string]Parser
	Compute func(values validation.Values) (R, error)

	Recorder      usage.Recorder
	RecordTimeout time.Duration
	Logger        Logger
}

// State is a snapshot of an engine. Result is nil whenever IsValid is false
// or the last computation failed.
type State[R any] struct {
	Values  validation.Values  `json:"values" yaml:"values"`
	Errors  []validation.Error `json:"errors" yaml:"errors"`
	IsValid bool               `json:"isValid" yaml:"isValid"`
	IsDirty bool               `json:"isDirty" yaml:"isDirty"`
	Result  *R                 `json:"result" yaml:"result"`
}

// Engine holds one calculator's state. Calls are serialized; every mutation
// validates and recomputes before it returns.
type Engine[R any] struct {
	id       string
	initial  validation.Values
	badInit  map[string]string
	rules    *validation.Set
	parsers  map[string]Parser
	compute  func(validation.Values) (R, error)
	logger   Logger
	recorded chan struct{}

	mu          sync.Mutex
	values      validation.Values
	errors      []validation.Error
	parseErrors map[string]string
	dirty       bool
	result      *R

	subMu       sync.Mutex
	subscribers map[int]func(State[R])
	nextSub     int
}

// New builds an engine in the clean state and reports the mount to the
// configured recorder in the background.
func New[R any](cfg Config[R]) *Engine[R] {
	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	initial := cfg.InitialValues.Clone()
	if initial == nil {
		initial = validation.Values{}
	}

	e := &Engine[R]{
		id:          cfg.ID,
		initial:     initial,
		badInit:     initialParseErrors(cfg.InitialParseErrors),
		rules:       validation.NewSet(cfg.Rules, cfg.Dependencies, cfg.Order),
		parsers:     cfg.Parsers,
		compute:     cfg.Compute,
		logger:      logger,
		recorded:    make(chan struct{}),
		values:      initial.Clone(),
		errors:      []validation.Error{},
		parseErrors: initialParseErrors(cfg.InitialParseErrors),
		subscribers: map[int]func(State[R]){},
	}

	timeout := cfg.RecordTimeout
	if timeout <= 0 {
		timeout = DefaultRecordTimeout
	}
	go e.recordUsage(cfg.Recorder, timeout, logger)
	return e
}

func initialParseErrors(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for field, msg := range src {
		out[field] = msg
	}
	return out
}

func (e *Engine[R]) recordUsage(rec usage.Recorder, timeout time.Duration, logger Logger) {
	defer close(e.recorded)
	if rec == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Debugf("usage recorder panicked for %s: %v", e.id, r)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := rec.RecordCalculatorUsage(ctx, e.id); err != nil {
		logger.Debugf("usage recorder failed for %s: %v", e.id, err)
	}
}

// SetLogger replaces the logger used for compute failures; nil restores
// NopLogger. The mount report keeps the logger the engine was built with.
func (e *Engine[R]) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	e.mu.Lock()
	e.logger = l
	e.mu.Unlock()
}

// Recorded is closed once the mount report has finished, successfully or not
func (e *Engine[R]) Recorded() <-chan struct{} {
	return e.recorded
}

// ID returns the calculator id
func (e *Engine[R]) ID() string {
	return e.id
}

// UpdateField parses raw with the field's parser, stores it, and
// revalidates and recomputes.
func (e *Engine[R]) UpdateField(field string, raw any) State[R] {
	e.mu.Lock()
	e.store(field, raw)
	e.dirty = true
	e.refresh()
	snap := e.snapshot()
	e.mu.Unlock()

	e.notify(snap)
	return snap
}

// SetValues applies every entry of partial as one change: validation and
// computation run once, after all fields are stored.
func (e *Engine[R]) SetValues(partial validation.Values) State[R] {
	e.mu.Lock()
	for field, raw := range partial {
		e.store(field, raw)
	}
	e.dirty = true
	e.refresh()
	snap := e.snapshot()
	e.mu.Unlock()

	e.notify(snap)
	return snap
}

// ValidateField re-checks field and every field depending on it. It reports
// whether field itself is now free of errors.
func (e *Engine[R]) ValidateField(field string) bool {
	e.mu.Lock()
	e.errors = e.rules.Revalidate(e.errors, field, e.values)
	e.errors = e.overlayParseErrors(e.errors)
	e.recompute()
	_, failed := validation.FieldError(e.errors, field)
	snap := e.snapshot()
	e.mu.Unlock()

	e.notify(snap)
	return !failed
}

// Validate runs every rule and recomputes; it reports overall validity
func (e *Engine[R]) Validate() bool {
	e.mu.Lock()
	e.refresh()
	snap := e.snapshot()
	e.mu.Unlock()

	e.notify(snap)
	return snap.IsValid
}

// Reset restores the initial values and clears errors, dirty flag and result
func (e *Engine[R]) Reset() State[R] {
	e.mu.Lock()
	e.values = e.initial.Clone()
	e.errors = []validation.Error{}
	e.parseErrors = initialParseErrors(e.badInit)
	e.dirty = false
	e.result = nil
	snap := e.snapshot()
	e.mu.Unlock()

	e.notify(snap)
	return snap
}

// State returns a snapshot; its Values are a copy
func (e *Engine[R]) State() State[R] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// Field returns the stored value for key
func (e *Engine[R]) Field(key string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.values[key]
	if !ok {
		return nil, false
	}
	return validation.Values{key: v}.Clone()[key], true
}

// OnChange registers fn to receive the state after every mutation. The
// returned func unsubscribes.
func (e *Engine[R]) OnChange(fn func(State[R])) func() {
	e.subMu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subscribers[id] = fn
	e.subMu.Unlock()

	return func() {
		e.subMu.Lock()
		delete(e.subscribers, id)
		e.subMu.Unlock()
	}
}

func (e *Engine[R]) store(field string, raw any) {
	delete(e.parseErrors, field)
	value := raw
	if p, ok := e.parsers[field]; ok && p != nil {
		parsed, err := p(raw)
		if err != nil {
			e.parseErrors[field] = err.Error()
		} else {
			value = parsed
		}
	}
	e.values[field] = value
}

// refresh validates everything, then recomputes
func (e *Engine[R]) refresh() {
	e.errors = e.overlayParseErrors(e.rules.ValidateAll(e.values))
	e.recompute()
}

// overlayParseErrors replaces any rule error of a field that failed to parse
// with the parse error.
func (e *Engine[R]) overlayParseErrors(errs []validation.Error) []validation.Error {
	out := make([]validation.Error, 0, len(errs)+len(e.parseErrors))
	for _, err := range errs {
		if _, bad := e.parseErrors[err.Field]; !bad {
			out = append(out, err)
		}
	}
	for field, msg := range e.parseErrors {
		out = append(out, validation.Error{Field: field, Message: msg})
	}
	sortErrors(out, e.rules.Fields())
	return out
}

func (e *Engine[R]) recompute() {
	e.result = nil
	if len(e.errors) > 0 || e.compute == nil {
		return
	}
	res, err := e.safeCompute(e.values.Clone())
	if err != nil {
		e.logger.Warnf("calculator %s: compute failed: %v", e.id, err)
		return
	}
	e.result = &res
}

func (e *Engine[R]) safeCompute(values validation.Values) (res R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return e.compute(values)
}

func (e *Engine[R]) snapshot() State[R] {
	var result *R
	if e.result != nil {
		r := *e.result
		result = &r
	}
	return State[R]{
		Values:  e.values.Clone(),
		Errors:  append([]validation.Error{}, e.errors...),
		IsValid: len(e.errors) == 0,
		IsDirty: e.dirty,
		Result:  result,
	}
}

func (e *Engine[R]) notify(s State[R]) {
	e.subMu.Lock()
	ids := make([]int, 0, len(e.subscribers))
	for id := range e.subscribers {
		ids = append(ids, id)
	}
	subs := make([]func(State[R]), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		subs = append(subs, e.subscribers[id])
	}
	e.subMu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

// sortErrors orders errors by the rule set's field order; fields outside it
// go last, alphabetically.
func sortErrors(errs []validation.Error, order []string) {
	pos := make(map[string]int, len(order))
	for i, f := range order {
		pos[f] = i
	}
	rank := func(field string) int {
		if i, ok := pos[field]; ok {
			return i
		}
		return len(order)
	}
	sort.SliceStable(errs, func(i, j int) bool {
		ri, rj := rank(errs[i].Field), rank(errs[j].Field)
		if ri != rj {
			return ri < rj
		}
		return ri == len(order) && errs[i].Field < errs[j].Field
	})
}
