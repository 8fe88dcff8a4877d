package integration

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rgehrsitz/fincalc/internal/calculator"
	"github.com/rgehrsitz/fincalc/internal/config"
	"github.com/rgehrsitz/fincalc/internal/output"
	"github.com/rgehrsitz/fincalc/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const planFile = "../testdata/household_plan.yaml"

// runPlan loads the sample plan and evaluates every run the way `fincalc run` does
func runPlan(t *testing.T) *output.Report {
	t.Helper()
	registry := calculator.Default()
	file, err := config.NewInputParser(registry).LoadFromFile(planFile)
	require.NoError(t, err)

	report := output.NewReport("household plan")
	for _, run := range file.Runs {
		def, ok := registry.Get(run.Calculator)
		require.True(t, ok, run.Calculator)
		opts, err := config.EngineOptions(run)
		require.NoError(t, err)
		engine := def.NewEngine(opts...)
		engine.Validate()
		report.Add(run.Name, run.Calculator, engine.State())
	}
	return report
}

func TestEndToEndCalculation(t *testing.T) {
	report := runPlan(t)
	require.Len(t, report.Entries, 3)

	home := report.Entries[0]
	require.True(t, home.Valid())
	assert.InDelta(t, 1678.74, home.Result.Value("monthly_payment"), 0.005)

	stretch := report.Entries[1]
	assert.False(t, stretch.Valid())
	assert.Contains(t, stretch.Errors, validation.Error{
		Field:   "down_payment",
		Message: "Down payment cannot exceed the home price",
	})

	cards := report.Entries[2]
	require.True(t, cards.Valid())
	assert.Greater(t, cards.Result.Value("total_interest"), 0.0)
}

func TestOutputGeneration(t *testing.T) {
	report := runPlan(t)

	for _, name := range output.AvailableFormatterNames() {
		t.Run(name, func(t *testing.T) {
			f := output.GetFormatterByName(name)
			require.NotNil(t, f)
			out, err := f.Format(report)
			require.NoError(t, err)
			assert.Contains(t, string(out), "first home")
		})
	}

	out, err := output.GetFormatterByName("json").Format(report)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Len(t, decoded["entries"], 3)
}

func TestDataConsistency(t *testing.T) {
	csv := output.GetFormatterByName("csv")
	first, err := csv.Format(runPlan(t))
	require.NoError(t, err)
	second, err := csv.Format(runPlan(t))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second), "same inputs must format identically")
}
