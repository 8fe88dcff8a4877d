package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxBracket_MarshalJSON(t *testing.T) {
	brackets := []TaxBracket{
		{Min: 0, Max: 11925, Rate: 0.10},
		{Min: 626350, Max: math.Inf(1), Rate: 0.37},
	}

	data, err := json.Marshal(brackets)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"min": 0, "max": 11925, "rate": 0.1},
		{"min": 626350, "max": null, "rate": 0.37}
	]`, string(data))
}

func TestTaxBracket_UnboundedRoundTripLeavesZeroMax(t *testing.T) {
	data, err := json.Marshal(TaxBracket{Min: 100, Max: math.Inf(1), Rate: 0.2})
	require.NoError(t, err)

	var back TaxBracket
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 100.0, back.Min)
	assert.Zero(t, back.Max, "a null max decodes to zero; ParseBrackets reopens the top bracket")
}
