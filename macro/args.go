package macro

import (
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/goccy/go-yaml"
)

// ArgType selects how a raw argument token is converted before a directive
// receives it.
type ArgType int

const (
	ArgString ArgType = iota // string
	ArgBool                  // bool
	ArgInt                   // int
	ArgFloat                 // float
	ArgJSON                  // json
	ArgExpr                  // expr
)

var argTypeName = [...]string{
	ArgString: "string",
	ArgBool:   "bool",
	ArgInt:    "int",
	ArgFloat:  "float",
	ArgJSON:   "json",
	ArgExpr:   "expr",
}

func (t ArgType) String() string {
	if t >= 0 && int(t) < len(argTypeName) {
		return argTypeName[t]
	}

	return "ArgType(" + strconv.Itoa(int(t)) + ")"
}

// ParseArgType returns the ArgType named s.
func ParseArgType(s string) (ArgType, error) {
	for t, name := range argTypeName {
		if strings.EqualFold(s, name) {
			return ArgType(t), nil
		}
	}

	return ArgString, ErrArgType.Wrapf("%q", s)
}

// UnmarshalText implements [encoding.TextUnmarshaler] so that argument types
// can be named in module definitions.
func (t *ArgType) UnmarshalText(text []byte) error {
	v, err := ParseArgType(string(text))
	if err != nil {
		return err
	}

	*t = v

	return nil
}

// Args holds the arguments of one statement: the raw tokens and their
// converted values. Positions without a declared type keep the raw token.
type Args struct {
	raw  []string
	vals []any
}

// MakeArgs returns Args whose values are the raw tokens.
func MakeArgs(raw ...string) Args {
	vals := make([]any, len(raw))
	for i, s := range raw {
		vals[i] = s
	}

	return Args{raw: raw, vals: vals}
}

// Len returns the number of arguments.
func (a Args) Len() int { return len(a.raw) }

// Raw returns the unconverted argument tokens.
func (a Args) Raw() []string { return a.raw }

// Words returns the raw tokens joined by single spaces.
func (a Args) Words() string { return strings.Join(a.raw, " ") }

// Value returns the converted value at position i, or nil if absent.
func (a Args) Value(i int) any {
	if i < 0 || i >= len(a.vals) {
		return nil
	}

	return a.vals[i]
}

// String returns argument i as a string, or def if it is absent.
func (a Args) String(i int, def string) string {
	switch v := a.Value(i).(type) {
	case nil:
		return def
	case string:
		return v
	default:
		return a.raw[i]
	}
}

// Int returns argument i as an int, or def if it is absent or not an integer.
func (a Args) Int(i, def int) int {
	switch v := a.Value(i).(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}

	return def
}

// Float returns argument i as a float64, or def if it is absent or not a
// number.
func (a Args) Float(i int, def float64) float64 {
	switch v := a.Value(i).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}

	return def
}

// Bool returns argument i as a bool, or def if it is absent.
func (a Args) Bool(i int, def bool) bool {
	switch v := a.Value(i).(type) {
	case bool:
		return v
	case nil:
		return def
	default:
		return a.raw[i] != "false"
	}
}

// Rest returns the raw tokens from position i onward.
func (a Args) Rest(i int) []string {
	if i >= len(a.raw) {
		return nil
	}

	return a.raw[i:]
}

// coerce converts raw according to types.
func (cx *Context) coerce(types []ArgType, raw []string) (Args, error) {
	args := MakeArgs(raw...)

	for i, s := range raw {
		if i >= len(types) {
			break
		}

		v, err := cx.convert(types[i], s)
		if err != nil {
			return Args{}, ErrArgument.Wrapf("argument %d (%s) %q: %w", i+1, types[i], s, err)
		}

		args.vals[i] = v
	}

	return args, nil
}

func (cx *Context) convert(t ArgType, s string) (any, error) {
	switch t {
	case ArgString:
		return s, nil

	case ArgBool:
		return s != "false", nil

	case ArgInt:
		return strconv.Atoi(s)

	case ArgFloat:
		return strconv.ParseFloat(s, 64)

	case ArgJSON:
		var v any
		if err := yaml.Unmarshal([]byte(s), &v); err != nil {
			return nil, err
		}

		return normalize(v), nil

	case ArgExpr:
		if !cx.allowExpr {
			return nil, ErrExprDisabled
		}

		v, err := expr.Eval(s, cx.scope.env())
		if err != nil {
			return nil, err
		}

		return normalize(v), nil

	default:
		return nil, ErrArgType.Wrapf("%d", int(t))
	}
}

// normalize converts decoded numbers to int or float64 and maps to
// map[string]any, recursively.
func normalize(v any) any {
	switch x := v.(type) {
	case int64:
		return int(x)
	case uint64:
		return int(x)
	case int32:
		return int(x)
	case uint32:
		return int(x)
	case uint:
		return int(x)
	case float32:
		return float64(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}

		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}

		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[toString(k)] = normalize(e)
		}

		return out
	default:
		return v
	}
}
