package validation

import (
	"reflect"
	"sort"
)

// Error is the active failure for one field
type Error struct {
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
}

func (e Error) Error() string {
	return e.Field + ": " + e.Message
}

// Dependencies maps a field to the fields whose rules read it and must be
// re-checked when it changes.
type Dependencies map[string][]string

// Affected walks the dependency graph breadth-first from field and returns
// field followed by every transitively dependent field, each once.
func (d Dependencies) Affected(field string) []string {
	seen := map[string]bool{field: true}
	out := []string{field}
	queue := []string{field}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range d[cur] {
			if seen[next] {
				continue
			}
			seen[next] = true
			out = append(out, next)
			queue = append(queue, next)
		}
	}
	return out
}

// Set is the ordered rule list for every field of a calculator
type Set struct {
	rules map[string][]Rule
	order []string
	deps  Dependencies
}

// NewSet builds a rule set. order fixes the order in which errors are
// reported; fields with rules that are missing from order follow in
// alphabetical order.
func NewSet(rules map[string][]Rule, deps Dependencies, order []string) *Set {
	s := &Set{rules: make(map[string][]Rule, len(rules)), deps: Dependencies{}}
	for field, rs := range rules {
		s.rules[field] = append([]Rule(nil), rs...)
	}
	for field, ds := range deps {
		s.deps[field] = append([]string(nil), ds...)
	}

	listed := make(map[string]bool, len(order))
	for _, f := range order {
		if !listed[f] {
			listed[f] = true
			s.order = append(s.order, f)
		}
	}
	var rest []string
	for f := range s.rules {
		if !listed[f] {
			rest = append(rest, f)
		}
	}
	sort.Strings(rest)
	s.order = append(s.order, rest...)
	return s
}

// Add appends rules to a field and returns the set
func (s *Set) Add(field string, rules ...Rule) *Set {
	if _, ok := s.rules[field]; !ok {
		s.order = append(s.order, field)
	}
	s.rules[field] = append(s.rules[field], rules...)
	return s
}

// DependOn declares that field's rules read each of sources
func (s *Set) DependOn(field string, sources ...string) *Set {
	for _, src := range sources {
		s.deps[src] = append(s.deps[src], field)
	}
	return s
}

// Rules returns the rules registered for field
func (s *Set) Rules(field string) []Rule {
	return s.rules[field]
}

// Fields lists fields with rules in reporting order
func (s *Set) Fields() []string {
	return append([]string(nil), s.order...)
}

// Dependencies returns the set's dependency graph
func (s *Set) Dependencies() Dependencies {
	return s.deps
}

// CheckField evaluates field's rules in order and returns the first failure
func (s *Set) CheckField(field string, all Values) (Error, bool) {
	value := all[field]
	for _, r := range s.rules[field] {
		if !r.Validate(value, all) {
			return Error{Field: field, Message: r.MessageFor(value)}, false
		}
	}
	return Error{}, true
}

// ValidateAll checks every field and returns at most one error per field
func (s *Set) ValidateAll(all Values) []Error {
	var errs []Error
	for _, field := range s.order {
		if e, ok := s.CheckField(field, all); !ok {
			errs = append(errs, e)
		}
	}
	return errs
}

// Revalidate re-checks field and every field that depends on it. Prior
// errors for those fields are dropped and fresh ones appended; errors for
// other fields are kept. prev is not modified.
func (s *Set) Revalidate(prev []Error, field string, all Values) []Error {
	affected := s.deps.Affected(field)
	touched := make(map[string]bool, len(affected))
	for _, f := range affected {
		touched[f] = true
	}

	next := make([]Error, 0, len(prev)+len(affected))
	for _, e := range prev {
		if !touched[e.Field] {
			next = append(next, e)
		}
	}
	for _, f := range affected {
		if e, ok := s.CheckField(f, all); !ok {
			next = append(next, e)
		}
	}
	return next
}

// FieldError returns the error reported for field, if any
func FieldError(errs []Error, field string) (string, bool) {
	for _, e := range errs {
		if e.Field == field {
			return e.Message, true
		}
	}
	return "", false
}

func length(value any) (int, bool) {
	if value == nil {
		return 0, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}
