package resolve

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aidanlsb/cmdforge/internal/catalog"
)

// Values maps argument ids to raw input values. Values may be strings,
// booleans or numbers; strings are coerced to the argument type.
type Values map[string]any

// Value is a normalized argument value.
type Value struct {
	Type    catalog.ArgType
	Present bool
	Bool    bool
	Text    string
	Number  float64
}

// Interface returns the value as a plain Go value: bool for checkboxes,
// float64 for numbers, string otherwise, and nil when absent.
func (v Value) Interface() any {
	if !v.Present {
		return nil
	}
	switch v.Type {
	case catalog.ArgTypeCheckbox:
		return v.Bool
	case catalog.ArgTypeNumber:
		return v.Number
	default:
		return v.Text
	}
}

// String renders the value as it would appear before quoting.
func (v Value) String() string {
	switch v.Type {
	case catalog.ArgTypeCheckbox:
		return strconv.FormatBool(v.Bool)
	case catalog.ArgTypeNumber:
		if !v.Present {
			return ""
		}
		return formatNumber(v.Number)
	default:
		return v.Text
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// Normalized holds the normalized value of every declared argument.
type Normalized map[string]Value

// Present reports whether the argument is meaningfully supplied.
func (n Normalized) Present(id string) bool {
	return n[id].Present
}

// PresentOnly returns the subset of present values.
func (n Normalized) PresentOnly() Normalized {
	out := make(Normalized, len(n))
	for id, v := range n {
		if v.Present {
			out[id] = v
		}
	}
	return out
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseValues turns "id=value" pairs into Values. A pair without "=" sets
// the id to "true", which is how checkboxes are usually switched on.
func ParseValues(pairs []string) (Values, error) {
	values := make(Values, len(pairs))
	for _, pair := range pairs {
		id, value, ok := strings.Cut(pair, "=")
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("invalid argument %q: expected id=value", pair)
		}
		if !ok {
			value = "true"
		}
		values[id] = value
	}
	return values, nil
}

func coerceBool(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		s := strings.TrimSpace(strings.ToLower(v))
		switch s {
		case "", "no", "off":
			return false
		case "yes", "on":
			return true
		}
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
		return true
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}

func coerceString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return formatNumber(v)
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// coerceNumber returns the number, whether one was supplied, and
// whether the input could be parsed.
func coerceNumber(raw any) (n float64, defined bool, ok bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false, true
	case int:
		return float64(v), true, true
	case int32:
		return float64(v), true, true
	case int64:
		return float64(v), true, true
	case uint:
		return float64(v), true, true
	case uint64:
		return float64(v), true, true
	case float32:
		return finite(float64(v))
	case float64:
		return finite(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, true, false
		}
		return finite(f)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, true, false
		}
		return finite(f)
	default:
		return 0, true, false
	}
}

func finite(f float64) (float64, bool, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, true, false
	}
	return f, true, true
}
