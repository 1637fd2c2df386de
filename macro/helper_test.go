package macro

import (
	"context"
	"testing"

	"github.com/ardnew/mcmacros/lang"
	"github.com/ardnew/mcmacros/log"
)

// testDirectives is a minimal directive set for exercising the engine.
func testDirectives() map[string]Directive {
	return map[string]Directive{
		"fn": CommandFunc(func(cx *Context, args Args) error {
			ns, name, err := cx.SplitFunctionName(args.String(0, ""))
			if err != nil {
				return err
			}

			if err := cx.SwitchFunction(ns, name); err != nil {
				return err
			}

			if args.Bool(1, false) {
				return cx.SetInitialFunction(ns, name)
			}

			return nil
		}, ArgString, ArgBool),
		"let": CommandFunc(func(cx *Context, args Args) error {
			cx.Set(args.String(0, ""), args.Value(1))

			return nil
		}, ArgString, ArgJSON),
		"times": &times{},
		"sub":   &sub{},
		"scope": scopeOnly{},
	}
}

// times repeats its block n times, binding i to the iteration index.
type times struct{}

type timesKey struct{}

func (*times) ArgTypes() []ArgType { return []ArgType{ArgInt} }

func (*times) BlockBegin(cx *Context, _ Args) error {
	cx.SetState(timesKey{}, new(int))

	return nil
}

func (*times) BlockRepeat(cx *Context, args Args) (bool, error) {
	v, _ := cx.State(timesKey{})
	i := v.(*int)

	if *i >= args.Int(0, 0) {
		return false, nil
	}

	cx.Set("i", *i)
	*i++

	return true, nil
}

// sub wraps its block in an anonymous function.
type sub struct{}

func (*sub) ArgTypes() []ArgType { return nil }

func (*sub) BlockBegin(cx *Context, _ Args) error { return cx.EnterAnonymousFunction() }

func (*sub) BlockEnd(cx *Context, _ Args) error {
	cx.ExitFunction()

	return nil
}

type scopeOnly struct{}

func (scopeOnly) ArgTypes() []ArgType { return nil }

func newTestContext(t *testing.T, opts ...Option) *Context {
	t.Helper()

	opts = append([]Option{
		WithLogger(log.Make(nil)),
		WithDirectives(testDirectives()),
	}, opts...)

	cx, err := NewContext("test.mcm", opts...)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	return cx
}

func compile(t *testing.T, src string, opts ...Option) (*Context, error) {
	t.Helper()

	tree, err := lang.ParseString(context.Background(), "test.mcm", src,
		lang.WithLogger(log.Make(nil)))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	cx := newTestContext(t, opts...)

	return cx, cx.Process(context.Background(), tree)
}

func body(t *testing.T, cx *Context, id string) string {
	t.Helper()

	b, ok := cx.Output().Lookup(id)
	if !ok {
		t.Fatalf("function %s not produced; have %v", id, cx.Output().Functions())
	}

	return b.String()
}
