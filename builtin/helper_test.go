package builtin

import (
	"context"
	"strings"
	"testing"

	"github.com/ardnew/mcmacros/lang"
	"github.com/ardnew/mcmacros/log"
	"github.com/ardnew/mcmacros/macro"
)

func compile(t *testing.T, lines ...string) (*macro.Context, error) {
	t.Helper()

	tree, err := lang.ParseString(context.Background(), "test.mcm",
		strings.Join(lines, "\n"), lang.WithLogger(log.Make(nil)))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	cx, err := macro.NewContext("test.mcm",
		macro.WithLogger(log.Make(nil)),
		macro.WithDirectives(Defaults()))
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	return cx, cx.Process(context.Background(), tree)
}

func mustCompile(t *testing.T, lines ...string) *macro.Context {
	t.Helper()

	cx, err := compile(t, lines...)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	return cx
}

func bodies(cx *macro.Context) map[string]string {
	out := map[string]string{}

	for _, id := range cx.Output().Functions() {
		b, _ := cx.Output().Lookup(id)
		out[id] = b.String()
	}

	return out
}
