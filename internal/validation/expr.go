package validation

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/shopspring/decimal"
)

// exprCostLimit bounds the runtime cost of a single rule evaluation
const exprCostLimit = 100000

var (
	envOnce sync.Once
	env     *cel.Env
	envErr  error
)

// exprEnv declares `value` (the field being checked) and `values` (every
// field of the calculator) as dynamic variables.
func exprEnv() (*cel.Env, error) {
	envOnce.Do(func() {
		env, envErr = cel.NewEnv(
			cel.Variable("value", cel.DynType),
			cel.Variable("values", cel.MapType(cel.StringType, cel.DynType)),
		)
		if envErr != nil {
			envErr = fmt.Errorf("failed to create CEL environment: %w", envErr)
		}
	})
	return env, envErr
}

// CompileExpr type-checks a CEL expression and returns it as a Rule. The
// expression must evaluate to a bool; numbers are always doubles, so write
// `values.down_payment <= values.home_price * 0.5` or `value >= 1.0`.
// An expression that fails at evaluation time (missing key, wrong type)
// fails the rule.
func CompileExpr(expression, msg string) (Rule, error) {
	e, err := exprEnv()
	if err != nil {
		return Rule{}, err
	}
	ast, issues := e.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return Rule{}, fmt.Errorf("compile %q: %w", expression, issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return Rule{}, fmt.Errorf("expression %q must return bool, got %s", expression, out)
	}
	prog, err := e.Program(ast, cel.CostLimit(exprCostLimit))
	if err != nil {
		return Rule{}, fmt.Errorf("program %q: %w", expression, err)
	}
	if msg == "" {
		msg = fmt.Sprintf("Must satisfy %s", expression)
	}

	return Rule{
		Name:    "expr",
		Message: msg,
		Check: func(value any, all Values) bool {
			out, _, err := prog.Eval(map[string]any{
				"value":  normalize(value),
				"values": normalizeMap(all),
			})
			if err != nil {
				return false
			}
			ok, isBool := out.Value().(bool)
			return isBool && ok
		},
	}, nil
}

// MustCompileExpr is CompileExpr for expressions known at build time
func MustCompileExpr(expression, msg string) Rule {
	r, err := CompileExpr(expression, msg)
	if err != nil {
		panic(err)
	}
	return r
}

func normalizeMap(all Values) map[string]any {
	out := make(map[string]any, len(all))
	for k, v := range all {
		out[k] = normalize(v)
	}
	return out
}

// normalize turns field values into the plain shapes CEL understands:
// float64 for every number, and lists and maps of those. Structured values
// such as debt lists go through their JSON form.
func normalize(v any) any {
	switch x := v.(type) {
	case nil, bool, string, float64:
		return x
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	case decimal.Decimal:
		return x.InexactFloat64()
	case map[string]any:
		return normalizeMap(x)
	case Values:
		return normalizeMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
