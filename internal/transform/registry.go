package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// TransformRegistry builds transforms from CLI specs
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory creates a transform from spec parameters
type TransformFactory func(params map[string]string) (ValueTransform, error)

// NewTransformRegistry creates a registry with the built-in transforms
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}
	registry.Register("set", createSetValue)
	registry.Register("add", createAdjustValue)
	registry.Register("scale", createScaleValue)
	registry.Register("pct", createPercentChange)
	return registry
}

// Register adds or replaces a factory
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create builds a transform by name
func (r *TransformRegistry) Create(name string, params map[string]string) (ValueTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s (available: %s)", name, strings.Join(r.List(), ", "))
	}
	return factory(params)
}

// List returns the registered names, sorted
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses "name:param=value,param=value".
// Example: "add:field=interest_rate,delta=1"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ValueTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, pair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(pair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", pair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}
	return r.Create(name, params)
}

// ParseTransformSpecs parses each spec in order
func (r *TransformRegistry) ParseTransformSpecs(specs []string) ([]ValueTransform, error) {
	out := make([]ValueTransform, 0, len(specs))
	for _, spec := range specs {
		t, err := r.ParseTransformSpec(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func createSetValue(params map[string]string) (ValueTransform, error) {
	field, ok := params["field"]
	if !ok {
		return nil, fmt.Errorf("set requires 'field' parameter")
	}
	value, ok := params["value"]
	if !ok {
		return nil, fmt.Errorf("set requires 'value' parameter")
	}
	return &SetValue{Field: field, Value: value}, nil
}

func createAdjustValue(params map[string]string) (ValueTransform, error) {
	field, ok := params["field"]
	if !ok {
		return nil, fmt.Errorf("add requires 'field' parameter")
	}
	delta, err := decimalParam("add", "delta", params)
	if err != nil {
		return nil, err
	}
	return &AdjustValue{Field: field, Delta: delta}, nil
}

func createScaleValue(params map[string]string) (ValueTransform, error) {
	field, ok := params["field"]
	if !ok {
		return nil, fmt.Errorf("scale requires 'field' parameter")
	}
	factor, err := decimalParam("scale", "factor", params)
	if err != nil {
		return nil, err
	}
	return &ScaleValue{Field: field, Factor: factor}, nil
}

// createPercentChange is scale expressed as a percent change: pct=10 is x1.1
func createPercentChange(params map[string]string) (ValueTransform, error) {
	field, ok := params["field"]
	if !ok {
		return nil, fmt.Errorf("pct requires 'field' parameter")
	}
	pct, err := decimalParam("pct", "percent", params)
	if err != nil {
		return nil, err
	}
	factor := decimal.NewFromInt(1).Add(pct.Div(decimal.NewFromInt(100)))
	return &ScaleValue{Field: field, Factor: factor}, nil
}

func decimalParam(name, key string, params map[string]string) (decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s requires '%s' parameter", name, key)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}
