package calculation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateIRR(t *testing.T) {
	tests := []struct {
		name      string
		cashflows []float64
		expected  float64
	}{
		{"single period", []float64{-1000, 1100}, 10},
		{"three periods", []float64{-1000, 300, 400, 500}, 8.8963},
		{"level returns", []float64{-100, 50, 50, 50}, 23.3752},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateIRR(tt.cashflows, DefaultIRRGuess)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 0.0001)
		})
	}
}

func TestCalculateIRR_NPVIsZeroAtRoot(t *testing.T) {
	flows := []float64{-5000, 1200, 1500, 1800, 2100}
	rate, err := CalculateIRR(flows, DefaultIRRGuess)
	require.NoError(t, err)

	npv, err := CalculateNPV(rate, flows)
	require.NoError(t, err)
	assert.InDelta(t, 0, npv, 0.01)
}

func TestCalculateIRR_InvalidInput(t *testing.T) {
	_, err := CalculateIRR([]float64{-1000}, DefaultIRRGuess)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = CalculateIRR([]float64{100, 200, 300}, DefaultIRRGuess)
	assert.True(t, errors.Is(err, ErrInvalidInput), "no sign change means no rate exists")
}

func TestCalculateIRR_FailsLoudlyWithoutConvergence(t *testing.T) {
	// The only root is near -63%; the first Newton step from 10% overshoots
	// below -100%.
	_, err := CalculateIRR([]float64{-1000, 100, 100}, DefaultIRRGuess)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoConvergence))

	var calcErr *CalculationError
	require.True(t, errors.As(err, &calcErr))
	assert.Equal(t, "irr", calcErr.Operation)
}

func TestCalculateIRR_StopsAtIterationCap(t *testing.T) {
	// Newton's method oscillates without settling on these flows.
	for _, flows := range [][]float64{
		{13, -74, 73, 121},
		{82, -88, -95, 102},
	} {
		_, err := CalculateIRR(flows, 10)
		require.Error(t, err, "%v", flows)
		assert.True(t, errors.Is(err, ErrNoConvergence))
		assert.Contains(t, err.Error(), "no root found within 100 iterations")
	}
	assert.Equal(t, 100, IRRMaxIterations)
}

func TestCalculateNPV(t *testing.T) {
	npv, err := CalculateNPV(10, []float64{-1000, 300, 400, 500})
	require.NoError(t, err)
	assert.Equal(t, -21.04, npv)

	_, err = CalculateNPV(-100, []float64{-1, 2})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
