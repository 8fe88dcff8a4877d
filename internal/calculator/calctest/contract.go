// Package calctest checks the behavior every registered calculator must
// share, so each calculator's own tests only cover its formula.
package calctest

import (
	"testing"

	"github.com/rgehrsitz/fincalc/internal/calculator"
	"github.com/rgehrsitz/fincalc/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunContract runs the shared engine contract against def:
//   - a new engine is clean with the field defaults and no result
//   - the defaults validate and compute
//   - computation is deterministic across engines
//   - blanking a required field invalidates the form and drops the result
//   - reset restores the initial state after any edits
func RunContract(t *testing.T, def calculator.Definition) {
	t.Helper()

	t.Run("fields", func(t *testing.T) {
		require.NotEmpty(t, def.Fields, "calculator declares no fields")
		seen := map[string]bool{}
		for _, f := range def.Fields {
			assert.NotEmpty(t, f.Key)
			assert.NotEmpty(t, f.Label, "field %s has no label", f.Key)
			assert.False(t, seen[f.Key], "duplicate field %s", f.Key)
			seen[f.Key] = true
		}
		for field := range def.Rules {
			assert.True(t, seen[field], "rules for undeclared field %s", field)
		}
	})

	t.Run("starts clean", func(t *testing.T) {
		e := def.NewEngine()
		s := e.State()
		assert.Equal(t, def.InitialValues(), s.Values)
		assert.Empty(t, s.Errors)
		assert.False(t, s.IsDirty)
		assert.Nil(t, s.Result)
		assert.Equal(t, def.ID, e.ID())
	})

	t.Run("defaults compute", func(t *testing.T) {
		e := def.NewEngine()
		require.True(t, e.Validate(), "defaults invalid: %v", e.State().Errors)
		s := e.State()
		require.NotNil(t, s.Result)
		assert.Equal(t, def.ID, s.Result.Calculator)
		assert.NotEmpty(t, s.Result.Metrics)
		for _, m := range s.Result.Metrics {
			assert.NotEmpty(t, m.Formatted(), "metric %s renders empty", m.Key)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		a, b := def.NewEngine(), def.NewEngine()
		a.Validate()
		b.SetValues(def.InitialValues())
		require.NotNil(t, a.State().Result)
		require.NotNil(t, b.State().Result)
		assert.Equal(t, a.State().Result.Metrics, b.State().Result.Metrics)
	})

	t.Run("required fields", func(t *testing.T) {
		for _, field := range requiredFields(def) {
			e := def.NewEngine()
			s := e.UpdateField(field, "")
			assert.False(t, s.IsValid, "blank %s accepted", field)
			assert.Nil(t, s.Result)
			_, failed := validation.FieldError(s.Errors, field)
			assert.True(t, failed, "no error reported for blank %s", field)
		}
	})

	t.Run("reset", func(t *testing.T) {
		e := def.NewEngine()
		for _, f := range def.Fields {
			e.UpdateField(f.Key, "")
		}
		e.SetValues(validation.Values{"unrelated": 1})

		s := e.Reset()
		assert.Equal(t, def.InitialValues(), s.Values)
		assert.Empty(t, s.Errors)
		assert.True(t, s.IsValid)
		assert.False(t, s.IsDirty)
		assert.Nil(t, s.Result)
	})
}

func requiredFields(def calculator.Definition) []string {
	required := validation.Required("")
	var out []string
	for _, key := range def.Keys() {
		for _, r := range def.Rules[key] {
			if r.Name == required.Name {
				out = append(out, key)
				break
			}
		}
	}
	return out
}
