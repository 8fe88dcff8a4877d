package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/rgehrsitz/fincalc/internal/calculator"
	"github.com/rgehrsitz/fincalc/internal/domain"
	"github.com/rgehrsitz/fincalc/internal/validation"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of calculator files
type InputParser struct {
	registry *calculator.Registry
	validate *validator.Validate
}

// NewInputParser creates a parser that checks runs against registry
func NewInputParser(registry *calculator.Registry) *InputParser {
	if registry == nil {
		registry = calculator.Default()
	}
	return &InputParser{registry: registry, validate: validator.New()}
}

// LoadFromFile loads a calculator file. The format follows the extension:
// .toml is TOML, anything else is YAML (which also accepts JSON).
func (ip *InputParser) LoadFromFile(filename string) (*domain.CalculatorFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	file, err := ip.Parse(data, formatFor(filename))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return file, nil
}

// Parse decodes and validates a calculator file in the given format
func (ip *InputParser) Parse(data []byte, format string) (*domain.CalculatorFile, error) {
	var file domain.CalculatorFile
	switch format {
	case "toml":
		if _, err := toml.Decode(string(data), &file); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	if err := ip.ValidateFile(&file); err != nil {
		return nil, fmt.Errorf("calculator file validation failed: %w", err)
	}
	return &file, nil
}

// ValidateFile checks struct constraints, then that every run names a known
// calculator, refers only to its fields, and has rules that compile.
func (ip *InputParser) ValidateFile(file *domain.CalculatorFile) error {
	if err := ip.validate.Struct(file); err != nil {
		return describeValidation(err)
	}

	names := make(map[string]bool, len(file.Runs))
	for i := range file.Runs {
		run := &file.Runs[i]
		if names[run.Name] {
			return fmt.Errorf("run %d: duplicate name %q", i, run.Name)
		}
		names[run.Name] = true
		if err := ip.validateRun(run); err != nil {
			return fmt.Errorf("run %d (%s): %w", i, run.Name, err)
		}
	}
	return nil
}

func (ip *InputParser) validateRun(run *domain.CalculatorRun) error {
	def, ok := ip.registry.Get(run.Calculator)
	if !ok {
		return fmt.Errorf("unknown calculator %q", run.Calculator)
	}
	for key := range run.Values {
		if _, ok := def.Field(key); !ok {
			return fmt.Errorf("calculator %s has no field %q", def.ID, key)
		}
	}
	for j, r := range run.Rules {
		if _, ok := def.Field(r.Field); !ok {
			return fmt.Errorf("rule %d: calculator %s has no field %q", j, def.ID, r.Field)
		}
		if _, err := validation.CompileExpr(r.Expr, r.Message); err != nil {
			return fmt.Errorf("rule %d: %w", j, err)
		}
	}
	for src, targets := range run.Dependencies {
		for _, key := range append([]string{src}, targets...) {
			if _, ok := def.Field(key); !ok {
				return fmt.Errorf("dependency: calculator %s has no field %q", def.ID, key)
			}
		}
	}
	return nil
}

// EngineOptions turns a run's values, rules and dependencies into engine
// options. Values become the engine's initial values.
func EngineOptions(run domain.CalculatorRun) ([]calculator.Option, error) {
	var opts []calculator.Option
	if len(run.Values) > 0 {
		opts = append(opts, calculator.WithInitialValues(validation.Values(run.Values)))
	}
	for j, r := range run.Rules {
		rule, err := validation.CompileExpr(r.Expr, r.Message)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", j, err)
		}
		opts = append(opts, calculator.WithRules(r.Field, rule))
	}
	if len(run.Dependencies) > 0 {
		opts = append(opts, calculator.WithDependencies(validation.Dependencies(run.Dependencies)))
	}
	return opts, nil
}

// ParseAssignments parses "key=value" pairs as given on the command line
func ParseAssignments(pairs []string) (validation.Values, error) {
	out := validation.Values{}
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected key=value", p)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

func formatFor(filename string) string {
	if strings.EqualFold(filepath.Ext(filename), ".toml") {
		return "toml"
	}
	return "yaml"
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
