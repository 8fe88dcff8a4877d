package calculator

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rgehrsitz/fincalc/internal/domain"
	"github.com/rgehrsitz/fincalc/internal/money"
	"github.com/rgehrsitz/fincalc/internal/validation"
)

// Kind tells front ends how to render and parse a field
type Kind string

const (
	KindNumber    Kind = "number"
	KindCurrency  Kind = "currency"
	KindPercent   Kind = "percent"
	KindInteger   Kind = "integer"
	KindChoice    Kind = "choice"
	KindDebts     Kind = "debts"
	KindCashflows Kind = "cashflows"
	KindBrackets  Kind = "brackets"
)

// Field describes one input of a calculator
type Field struct {
	Key     string   `json:"key" yaml:"key"`
	Label   string   `json:"label" yaml:"label"`
	Kind    Kind     `json:"kind" yaml:"kind"`
	Default any      `json:"default,omitempty" yaml:"default,omitempty"`
	Help    string   `json:"help,omitempty" yaml:"help,omitempty"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// Parser returns the parser matching the field's kind
func (f Field) Parser() Parser {
	switch f.Kind {
	case KindNumber, KindCurrency, KindPercent:
		return ParseNumber
	case KindInteger:
		return ParseInteger
	case KindChoice:
		return ParseChoice(f.Options...)
	case KindDebts:
		return ParseDebts
	case KindCashflows:
		return ParseCashflows
	case KindBrackets:
		return ParseBrackets
	}
	return nil
}

// ParseNumber accepts numbers, decimals and numeric strings ("1,250.50",
// "$99") and stores a float64. Blank input is stored as "" so Required can
// report it.
func ParseNumber(raw any) (any, error) {
	if validation.IsEmpty(raw) {
		return "", nil
	}
	if b, ok := raw.(bool); ok {
		return nil, fmt.Errorf("expected a number, got %v", b)
	}
	d, err := money.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("Enter a valid number")
	}
	return d.InexactFloat64(), nil
}

// ParseInteger is ParseNumber that rejects fractional input
func ParseInteger(raw any) (any, error) {
	v, err := ParseNumber(raw)
	if err != nil {
		return nil, err
	}
	f, ok := v.(float64)
	if !ok {
		return v, nil
	}
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("Enter a whole number")
	}
	return int(f), nil
}

// ParseChoice accepts one of options, case-insensitively
func ParseChoice(options ...string) Parser {
	return func(raw any) (any, error) {
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected one of %s", strings.Join(options, ", "))
		}
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			return "", nil
		}
		for _, o := range options {
			if strings.ToLower(o) == s {
				return o, nil
			}
		}
		return nil, fmt.Errorf("Choose one of %s", strings.Join(options, ", "))
	}
}

// ParseDebts accepts a []domain.Debt, a list of maps (as decoded from JSON
// or YAML), or the compact form "name:balance:rate:minimum;...". Debts
// without an id are given one.
func ParseDebts(raw any) (any, error) {
	var debts []domain.Debt
	switch x := raw.(type) {
	case []domain.Debt:
		debts = append([]domain.Debt{}, x...)
	case string:
		parsed, err := parseDebtList(x)
		if err != nil {
			return nil, err
		}
		debts = parsed
	case []any, []map[string]any:
		if err := viaJSON(x, &debts); err != nil {
			return nil, fmt.Errorf("invalid debt list: %w", err)
		}
	case nil:
		return []domain.Debt{}, nil
	default:
		return nil, fmt.Errorf("unsupported debt list type %T", raw)
	}

	for i := range debts {
		if debts[i].ID == "" {
			debts[i].ID = uuid.NewString()
		}
		if debts[i].Name == "" {
			debts[i].Name = fmt.Sprintf("Debt %d", i+1)
		}
	}
	if debts == nil {
		debts = []domain.Debt{}
	}
	return debts, nil
}

func parseDebtList(s string) ([]domain.Debt, error) {
	debts := []domain.Debt{}
	for i, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) != 4 {
			return nil, fmt.Errorf("debt %d: expected name:balance:rate:minimum, got %q", i+1, entry)
		}
		nums := make([]float64, 3)
		for j, p := range parts[1:] {
			d, err := money.Parse(strings.TrimSuffix(strings.TrimSpace(p), "%"))
			if err != nil {
				return nil, fmt.Errorf("debt %d: %w", i+1, err)
			}
			nums[j] = d.InexactFloat64()
		}
		debts = append(debts, domain.Debt{
			Name:           strings.TrimSpace(parts[0]),
			Balance:        nums[0],
			InterestRate:   nums[1],
			MinimumPayment: nums[2],
		})
	}
	return debts, nil
}

// ParseCashflows accepts []float64, a list of numbers, or a comma or space
// separated string.
func ParseCashflows(raw any) (any, error) {
	switch x := raw.(type) {
	case []float64:
		return append([]float64{}, x...), nil
	case []any:
		out := make([]float64, 0, len(x))
		for i, v := range x {
			f, ok := validation.ToFloat(v)
			if !ok {
				return nil, fmt.Errorf("cashflow %d is not a number", i+1)
			}
			out = append(out, f)
		}
		return out, nil
	case string:
		fields := strings.FieldsFunc(x, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == ';'
		})
		out := make([]float64, 0, len(fields))
		for i, f := range fields {
			d, err := money.Parse(f)
			if err != nil {
				return nil, fmt.Errorf("cashflow %d: %w", i+1, err)
			}
			out = append(out, d.InexactFloat64())
		}
		return out, nil
	case nil:
		return []float64{}, nil
	}
	return nil, fmt.Errorf("unsupported cashflow list type %T", raw)
}

// ParseBrackets accepts []domain.TaxBracket, a list of maps with fractional
// rates, or "min-max:percent,..." where the last range may be open ("626350+:37").
// A final bracket with no upper bound gets Max = +Inf.
func ParseBrackets(raw any) (any, error) {
	var brackets []domain.TaxBracket
	switch x := raw.(type) {
	case []domain.TaxBracket:
		brackets = append([]domain.TaxBracket{}, x...)
	case []any, []map[string]any:
		if err := viaJSON(x, &brackets); err != nil {
			return nil, fmt.Errorf("invalid bracket list: %w", err)
		}
	case string:
		parsed, err := parseBracketList(x)
		if err != nil {
			return nil, err
		}
		brackets = parsed
	default:
		return nil, fmt.Errorf("unsupported bracket list type %T", raw)
	}
	if n := len(brackets); n > 0 && brackets[n-1].Max <= brackets[n-1].Min {
		brackets[n-1].Max = math.Inf(1)
	}
	return brackets, nil
}

func parseBracketList(s string) ([]domain.TaxBracket, error) {
	var out []domain.TaxBracket
	for i, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		rng, pct, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("bracket %d: expected min-max:percent, got %q", i+1, entry)
		}
		rate, err := money.Parse(strings.TrimSuffix(strings.TrimSpace(pct), "%"))
		if err != nil {
			return nil, fmt.Errorf("bracket %d rate: %w", i+1, err)
		}
		b := domain.TaxBracket{Rate: money.Float(money.Div(rate, money.Hundred)), Max: math.Inf(1)}
		lo, hi, bounded := strings.Cut(strings.TrimSuffix(strings.TrimSpace(rng), "+"), "-")
		min, err := money.Parse(lo)
		if err != nil {
			return nil, fmt.Errorf("bracket %d min: %w", i+1, err)
		}
		b.Min = min.InexactFloat64()
		if bounded {
			max, err := money.Parse(hi)
			if err != nil {
				return nil, fmt.Errorf("bracket %d max: %w", i+1, err)
			}
			b.Max = max.InexactFloat64()
		}
		out = append(out, b)
	}
	return out, nil
}

// FormatInput renders a stored value in the text form its parser accepts, so
// that front ends can show it in an editable box.
func FormatInput(v any) string {
	num := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return num(x)
	case int:
		return strconv.Itoa(x)
	case []float64:
		parts := make([]string, len(x))
		for i, f := range x {
			parts[i] = num(f)
		}
		return strings.Join(parts, ", ")
	case []domain.Debt:
		parts := make([]string, len(x))
		for i, d := range x {
			parts[i] = fmt.Sprintf("%s:%s:%s:%s", d.Name, num(d.Balance), num(d.InterestRate), num(d.MinimumPayment))
		}
		return strings.Join(parts, "; ")
	case []domain.TaxBracket:
		parts := make([]string, len(x))
		for i, b := range x {
			pct := money.Of(b.Rate).Mul(money.Hundred).InexactFloat64()
			if math.IsInf(b.Max, 1) {
				parts[i] = fmt.Sprintf("%s+:%s", num(b.Min), num(pct))
			} else {
				parts[i] = fmt.Sprintf("%s-%s:%s", num(b.Min), num(b.Max), num(pct))
			}
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v)
}

func viaJSON(in, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
