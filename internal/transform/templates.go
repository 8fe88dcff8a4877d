package transform

import (
	"sort"
	"strings"

	"github.com/rgehrsitz/fincalc/internal/calculator"
	"github.com/shopspring/decimal"
)

// TemplateRegistry holds named what-if presets
type TemplateRegistry struct {
	templates map[string]Template
}

// Template is a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ValueTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns the registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates returns rate and amount shocks for the given
// fields. An empty field name skips that family.
func CreateBuiltInTemplates(rateField, amountField string) *TemplateRegistry {
	registry := NewTemplateRegistry()

	if rateField != "" {
		for _, pts := range []int64{1, 2, -1} {
			delta := decimal.NewFromInt(pts)
			name, desc := "rates_up_", "Raise "
			if pts < 0 {
				name, desc = "rates_down_", "Lower "
			}
			registry.Register(Template{
				Name:        name + delta.Abs().String(),
				Description: desc + rateField + " by " + delta.Abs().String() + " percentage point(s)",
				Transforms:  []ValueTransform{&AdjustValue{Field: rateField, Delta: delta}},
			})
		}
	}

	if amountField != "" {
		registry.Register(Template{
			Name:        "amount_up_10",
			Description: "Increase " + amountField + " by 10%",
			Transforms:  []ValueTransform{&ScaleValue{Field: amountField, Factor: decimal.RequireFromString("1.1")}},
		})
		registry.Register(Template{
			Name:        "amount_down_10",
			Description: "Decrease " + amountField + " by 10%",
			Transforms:  []ValueTransform{&ScaleValue{Field: amountField, Factor: decimal.RequireFromString("0.9")}},
		})
	}

	return registry
}

// TemplatesFor picks the first percent field and the first currency field
// of a calculator as the targets of its built-in templates.
func TemplatesFor(def calculator.Definition) *TemplateRegistry {
	var rateField, amountField string
	for _, f := range def.Fields {
		switch {
		case f.Kind == calculator.KindPercent && rateField == "":
			rateField = f.Key
		case f.Kind == calculator.KindCurrency && amountField == "":
			amountField = f.Key
		}
	}
	return CreateBuiltInTemplates(rateField, amountField)
}
