package macro

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
)

var (
	placeholderPath = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z0-9_]+)*$`)
	identifier      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// interpolate replaces each "${name}" in text with the value of the scope
// variable name. A dotted name ("${pos.x}", "${list.0}") indexes into
// structured values. With expression arguments enabled, a placeholder that is
// not a name is evaluated as an expression over the visible variables.
//
// Text is returned unchanged when no variable is in scope.
func (cx *Context) interpolate(text string) (string, error) {
	if !strings.Contains(text, "${") || cx.scope.empty() {
		return text, nil
	}

	var b strings.Builder

	for {
		i := strings.Index(text, "${")
		if i < 0 {
			b.WriteString(text)

			return b.String(), nil
		}

		j := strings.IndexByte(text[i+2:], '}')
		if j < 0 {
			return "", ErrTemplate.Wrapf("unterminated placeholder in %q", text[i:])
		}

		v, err := cx.resolve(strings.TrimSpace(text[i+2 : i+2+j]))
		if err != nil {
			return "", err
		}

		b.WriteString(text[:i])
		b.WriteString(render(v))

		text = text[i+2+j+1:]
	}
}

func (cx *Context) resolve(name string) (any, error) {
	if !placeholderPath.MatchString(name) {
		if !cx.allowExpr {
			return nil, ErrTemplate.Wrapf("%q is not a variable name", name)
		}

		v, err := expr.Eval(name, cx.scope.env())
		if err != nil {
			return nil, ErrTemplate.Wrap(err)
		}

		return v, nil
	}

	path := strings.Split(name, ".")

	v, ok := cx.scope.lookup(path[0])
	if !ok {
		return nil, ErrTemplate.Wrapf("undefined variable %q", path[0])
	}

	for _, key := range path[1:] {
		next, ok := index(v, key)
		if !ok {
			return nil, ErrTemplate.Wrapf("%q has no element %q", name, key)
		}

		v = next
	}

	return v, nil
}

func index(v any, key string) (any, bool) {
	switch x := v.(type) {
	case map[string]any:
		e, ok := x[key]

		return e, ok

	case []any:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(x) {
			return nil, false
		}

		return x[i], true

	case []string:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(x) {
			return nil, false
		}

		return x[i], true

	default:
		return nil, false
	}
}

// render formats a scope value for emission.
func render(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	case map[string]any, []any, []string, []int:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}

		return string(data)
	default:
		return toString(normalize(v))
	}
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// IsIdentifier reports whether s can name a scope variable.
func IsIdentifier(s string) bool { return identifier.MatchString(s) }
