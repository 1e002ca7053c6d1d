package drafts

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Draft is a loosely typed draft record as decoded from JSON.
//
// Values are expected to be the types produced by encoding/json when decoding
// into any (string, float64, bool, nil, []any, map[string]any). Values built
// in Go code may also use int, int64, json.Number, []string and Draft.
type Draft map[string]any

// ID returns the normalized identity of d, or "" if it has none.
func (d Draft) ID() string {
	return NormalizeID(d["id"])
}

// Clone returns a shallow copy of d.
func (d Draft) Clone() Draft {
	out := make(Draft, len(d)+4)
	for k, v := range d {
		out[k] = v
	}

	return out
}

// NormalizeID converts an id-like value to its comparable string key.
// nil maps to "", which is never a valid id.
func NormalizeID(value any) string {
	if value == nil {
		return ""
	}

	return stringify(value)
}

// text returns the field as text if it is set, "" otherwise.
func (d Draft) text(key string) string {
	return textOf(d[key])
}

// first returns the first set value among keys. When none is set it returns
// the value of the last key, mirroring a chain of "a || b || c".
func (d Draft) first(keys ...string) any {
	var v any

	for _, key := range keys {
		v = d[key]
		if truthy(v) {
			return v
		}
	}

	return v
}

func textOf(v any) string {
	if !truthy(v) {
		return ""
	}

	return stringify(v)
}

// truthy reports whether v counts as set. nil, false, "", 0 and NaN do not.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	case int:
		return x != 0
	case int64:
		return x != 0
	case int32:
		return x != 0
	case uint64:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return x != ""
		}

		return f != 0
	default:
		return true
	}
}

// stringify renders v the way the upstream client renders field values:
// shortest number form, comma-joined arrays, "[object Object]" for objects.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return formatNumber(x)
	case float32:
		return formatNumber(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return x.String()
		}

		return formatNumber(f)
	case []string:
		return strings.Join(x, ",")
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = stringify(e)
		}

		return strings.Join(parts, ",")
	case map[string]any, Draft:
		return "[object Object]"
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}

		return strings.Trim(string(b), `"`)
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// 1e-07 -> 1e-7
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")

		return mant + "e" + sign + digits
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}

// number converts v to a float64 the way loose numeric coercion does:
// missing values are 0, numeric strings parse, anything else is NaN.
func number(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case bool:
		if x {
			return 1
		}

		return 0
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case int32:
		return float64(x)
	case uint64:
		return float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return math.NaN()
		}

		return f
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}

		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}

		return f
	default:
		return math.NaN()
	}
}

// object returns v as a JSON object if it is one.
func object(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case map[string]any:
		return x, x != nil
	case Draft:
		return map[string]any(x), x != nil
	default:
		return nil, false
	}
}

// list returns v as a JSON array if it is one.
func list(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}

		return out, true
	case []map[string]any:
		out := make([]any, len(x))
		for i, m := range x {
			out[i] = m
		}

		return out, true
	case []Draft:
		out := make([]any, len(x))
		for i, d := range x {
			out[i] = d
		}

		return out, true
	default:
		return nil, false
	}
}
