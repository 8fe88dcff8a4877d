package transform

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/fincalc/internal/calculator"
	"github.com/rgehrsitz/fincalc/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mortgageValues() validation.Values {
	return validation.Values{
		"home_price":      350000.0,
		"down_payment":    70000.0,
		"interest_rate":   6.0,
		"loan_term_years": 30,
	}
}

func TestApplyTransforms_NilValues(t *testing.T) {
	_, err := ApplyTransforms(nil, []ValueTransform{&SetValue{Field: "x", Value: 1.0}})
	assert.Error(t, err)
}

func TestApplyTransforms_EmptyReturnsCopy(t *testing.T) {
	base := mortgageValues()
	out, err := ApplyTransforms(base, nil)
	require.NoError(t, err)
	assert.Equal(t, base, out)

	out["home_price"] = 1.0
	assert.Equal(t, 350000.0, base["home_price"])
}

func TestApplyTransforms_Chain(t *testing.T) {
	base := mortgageValues()
	out, err := ApplyTransforms(base, []ValueTransform{
		&AdjustValue{Field: "interest_rate", Delta: decimal.RequireFromString("1.25")},
		&ScaleValue{Field: "home_price", Factor: decimal.RequireFromString("1.1")},
		&AdjustValue{Field: "loan_term_years", Delta: decimal.NewFromInt(-15)},
		&SetValue{Field: "down_payment", Value: "50,000"},
	})
	require.NoError(t, err)

	assert.InDelta(t, 7.25, out["interest_rate"], 1e-9)
	assert.InDelta(t, 385000.0, out["home_price"], 1e-6)
	assert.Equal(t, 15, out["loan_term_years"])
	assert.Equal(t, "50,000", out["down_payment"])

	assert.Equal(t, 6.0, base["interest_rate"], "base must not change")
}

func TestApplyTransforms_Errors(t *testing.T) {
	tests := []struct {
		name      string
		transform ValueTransform
		reason    string
	}{
		{"unknown field", &AdjustValue{Field: "nope", Delta: decimal.NewFromInt(1)}, "no such field"},
		{"missing field name", &SetValue{Value: 1.0}, "field is required"},
		{"negative factor", &ScaleValue{Field: "home_price", Factor: decimal.NewFromInt(-1)}, "factor cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplyTransforms(mortgageValues(), []ValueTransform{tt.transform})
			require.Error(t, err)
			var te *TransformError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.reason, te.Reason)
		})
	}

	_, err := ApplyTransforms(mortgageValues(), []ValueTransform{nil})
	assert.ErrorContains(t, err, "index 0 is nil")
}

func TestAdjustValue_NonNumeric(t *testing.T) {
	base := validation.Values{"strategy": "avalanche"}
	_, err := ApplyTransforms(base, []ValueTransform{&AdjustValue{Field: "strategy", Delta: decimal.NewFromInt(1)}})
	assert.ErrorContains(t, err, "is not a number")
}

func TestRegistry_ParseTransformSpec(t *testing.T) {
	r := NewTransformRegistry()
	assert.Equal(t, []string{"add", "pct", "scale", "set"}, r.List())

	tr, err := r.ParseTransformSpec("add:field=interest_rate,delta=-0.5")
	require.NoError(t, err)
	assert.Equal(t, &AdjustValue{Field: "interest_rate", Delta: decimal.RequireFromString("-0.5")}, tr)
	assert.Equal(t, "interest_rate -0.5", tr.Description())

	tr, err = r.ParseTransformSpec("pct: field = home_price , percent = 10")
	require.NoError(t, err)
	scale, ok := tr.(*ScaleValue)
	require.True(t, ok)
	assert.Equal(t, "home_price", scale.Field)
	assert.True(t, scale.Factor.Equal(decimal.RequireFromString("1.1")))

	for _, bad := range []string{
		"add",
		"add:field",
		"add:field=interest_rate",
		"add:field=interest_rate,delta=abc",
		"scale:factor=2",
		"set:field=x",
		"boost:field=x",
	} {
		_, err := r.ParseTransformSpec(bad)
		assert.Error(t, err, bad)
	}
}

func TestRegistry_ParseTransformSpecs(t *testing.T) {
	r := NewTransformRegistry()
	ts, err := r.ParseTransformSpecs([]string{"set:field=strategy,value=snowball", "scale:field=extra_payment,factor=2"})
	require.NoError(t, err)
	require.Len(t, ts, 2)
	assert.Equal(t, "set strategy to snowball; extra_payment x2", Describe(ts))

	_, err = r.ParseTransformSpecs([]string{"set:field=a,value=1", "oops"})
	assert.Error(t, err)
}

func TestTemplates(t *testing.T) {
	def, ok := calculator.Default().Get("mortgage")
	require.True(t, ok)

	templates := TemplatesFor(def)
	assert.Equal(t, []string{"amount_down_10", "amount_up_10", "rates_down_1", "rates_up_1", "rates_up_2"}, templates.List())

	tmpl, ok := templates.Get("RATES_UP_2")
	require.True(t, ok)
	out, err := ApplyTransforms(mortgageValues(), tmpl.Transforms)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, out["interest_rate"], 1e-9)

	tmpl, ok = templates.Get("amount_down_10")
	require.True(t, ok)
	out, err = ApplyTransforms(mortgageValues(), tmpl.Transforms)
	require.NoError(t, err)
	assert.InDelta(t, 315000.0, out["home_price"], 1e-6)
}

func TestCreateBuiltInTemplates_SkipsMissingFields(t *testing.T) {
	assert.Empty(t, CreateBuiltInTemplates("", "").List())
	assert.Equal(t, []string{"amount_down_10", "amount_up_10"}, CreateBuiltInTemplates("", "balance").List())
}
