package domain

// CalculatorFile is a YAML or TOML document listing calculator runs
type CalculatorFile struct {
	Version string          `json:"version,omitempty" yaml:"version,omitempty" toml:"version"`
	Runs    []CalculatorRun `json:"runs" yaml:"runs" toml:"runs" validate:"required,min=1,dive"`
}

// CalculatorRun feeds one registered calculator with values and optional
// extra rules.
type CalculatorRun struct {
	Name         string              `json:"name" yaml:"name" toml:"name" validate:"required"`
	Calculator   string              `json:"calculator" yaml:"calculator" toml:"calculator" validate:"required"`
	Values       map[string]any      `json:"values" yaml:"values" toml:"values"`
	Rules        []RuleSpec          `json:"rules,omitempty" yaml:"rules,omitempty" toml:"rules" validate:"dive"`
	Dependencies map[string][]string `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies"`
}

// RuleSpec is a CEL expression checked against one field. The expression
// sees `value` (the field) and `values` (all fields).
type RuleSpec struct {
	Field   string `json:"field" yaml:"field" toml:"field" validate:"required"`
	Expr    string `json:"expr" yaml:"expr" toml:"expr" validate:"required"`
	Message string `json:"message,omitempty" yaml:"message,omitempty" toml:"message"`
}
