package plugin

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/mcmacros/lang"
	"github.com/ardnew/mcmacros/log"
	"github.com/ardnew/mcmacros/macro"
)

var registered = &macro.Module{
	Name:   "plugin-test",
	Origin: "test",
	Directives: map[string]macro.Directive{
		"ping": macro.CommandFunc(func(cx *macro.Context, _ macro.Args) error {
			return cx.AppendLine("say pong")
		}),
	},
}

func init() { macro.RegisterModule(registered) }

const greetModule = `
init:
  - scoreboard objectives add greeted dummy
directives:
  hello:
    types: [string, int]
    command:
      - tellraw ${arg1} "hello ${arg2}"
      - say ${words}
  everyone:
    types: [int]
    block:
      prefix: execute as @a at @s run
      anonymous: true
      begin:
        - scoreboard players add @s greeted 1
      end:
        - execute if score @s greeted matches ..${arg1} run function ${self}
  wrap:
    command:
      - say begin ${words}
    block:
      end:
        - say end ${arg1}
`

func writeFile(t *testing.T, path, data string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func compile(t *testing.T, source string, l *Loader, lines ...string) (*macro.Context, error) {
	t.Helper()

	tree, err := lang.ParseString(context.Background(), source,
		strings.Join(lines, "\n"), lang.WithLogger(log.Make(nil)))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	cx, err := macro.NewContext(source,
		macro.WithLogger(log.Make(nil)),
		macro.WithLoader(l),
		macro.WithDirectives(map[string]macro.Directive{
			"fn": macro.CommandFunc(func(cx *macro.Context, args macro.Args) error {
				ns, name, err := cx.SplitFunctionName(args.String(0, ""))
				if err != nil {
					return err
				}

				if err := cx.SwitchFunction(ns, name); err != nil {
					return err
				}

				return cx.SetInitialFunction(ns, name)
			}, macro.ArgString),
			"require": macro.CommandFunc(func(cx *macro.Context, args macro.Args) error {
				return cx.Require(args.String(0, ""))
			}, macro.ArgString),
		}))
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	return cx, cx.Process(context.Background(), tree)
}

func body(cx *macro.Context, id string) string {
	b, ok := cx.Output().Lookup(id)
	if !ok {
		return "<missing>"
	}

	return b.String()
}

func TestLoader_YAMLModule(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "greet.yaml"), greetModule)

	l := NewLoader(WithEnvPath(""), WithLogger(log.Make(nil)))

	cx, err := compile(t, filepath.Join(dir, "main.mcm"), l,
		"fn demo:main",
		"require greet",
		"hello @p 3",
		"everyone 2",
		"  say hi ${self}",
		"wrap x y",
		"  say middle",
	)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	want := "scoreboard objectives add greeted dummy\n" +
		`tellraw @p "hello 3"` + "\n" +
		"say @p 3\n" +
		"execute as @a at @s run function demo:anon/0_0\n" +
		"say begin x y\n" +
		"say middle\n" +
		"say end x\n"

	if diff := cmp.Diff(want, body(cx, "demo:main")); diff != "" {
		t.Errorf("main mismatch (-want +got):\n%s", diff)
	}

	wantAnon := "scoreboard players add @s greeted 1\n" +
		"say hi demo:anon/0_0\n" +
		"execute if score @s greeted matches ..2 run function demo:anon/0_0\n"

	if diff := cmp.Diff(wantAnon, body(cx, "demo:anon/0_0")); diff != "" {
		t.Errorf("anon mismatch (-want +got):\n%s", diff)
	}

	if _, ok := cx.Lookup("words"); ok {
		t.Error("template variables leaked into the unit scope")
	}
}

func TestLoader_SearchOrder(t *testing.T) {
	src, extra, extra2, env := t.TempDir(), t.TempDir(), t.TempDir(), t.TempDir()
	missing := filepath.Join(src, "missing")

	writeFile(t, filepath.Join(src, "local.yaml"), "directives: {l: {command: [say src]}}")
	writeFile(t, filepath.Join(extra, "local.yaml"), "directives: {l: {command: [say extra]}}")
	writeFile(t, filepath.Join(extra, "mod.yml"), "directives: {m: {command: [say extra]}}")
	writeFile(t, filepath.Join(extra2, "mod.yaml"), "directives: {m: {command: [say extra2]}}")
	writeFile(t, filepath.Join(env, "mod.yaml"), "directives: {m: {command: [say env]}}")
	writeFile(t, filepath.Join(env, "other.yaml"), "directives: {o: {command: [say other]}}")

	l := NewLoader(
		WithPath(missing, extra, extra2),
		WithEnvPath(env),
		WithLogger(log.Make(nil)))

	want := []string{src, extra, extra2, env}
	if diff := cmp.Diff(want, l.SearchPath(filepath.Join(src, "main.mcm"))); diff != "" {
		t.Errorf("SearchPath mismatch (-want +got):\n%s", diff)
	}

	cx, err := compile(t, filepath.Join(src, "main.mcm"), l,
		"fn demo:main", "require local", "require mod", "require other", "l", "m", "o")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	if got := body(cx, "demo:main"); got != "say src\nsay extra\nsay other\n" {
		t.Errorf("main = %q", got)
	}
}

func TestLoader_RegisteredFirst(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "plugin-test.yaml"), "directives: {ping: {command: [say shadowed]}}")

	cx, err := compile(t, filepath.Join(dir, "main.mcm"),
		NewLoader(WithEnvPath(""), WithLogger(log.Make(nil))),
		"fn demo:main", "require plugin-test", "ping")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	if got := body(cx, "demo:main"); got != "say pong\n" {
		t.Errorf("main = %q", got)
	}
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "greet.yaml"), greetModule)
	writeFile(t, filepath.Join(dir, "broken.yaml"), "directives: [not, a, map]")
	writeFile(t, filepath.Join(dir, "unknown.yaml"), "direktives: {}")
	writeFile(t, filepath.Join(dir, "empty.yaml"), "directives: {e: {}}")
	writeFile(t, filepath.Join(dir, "prefix.yaml"), "directives: {p: {block: {prefix: execute}}}")
	writeFile(t, filepath.Join(dir, "types.yaml"), "directives: {t: {types: [integer], command: [x]}}")

	tests := []struct {
		module string
		want   error
	}{
		{"gret", macro.ErrModuleNotFound},
		{"../greet", macro.ErrModuleNotFound},
		{"broken", macro.ErrModuleLoad},
		{"unknown", macro.ErrModuleLoad},
		{"empty", ErrEmptyTemplate},
		{"prefix", ErrPrefix},
		{"types", macro.ErrModuleLoad},
	}

	l := NewLoader(WithEnvPath(""), WithLogger(log.Make(nil)))

	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			_, err := compile(t, filepath.Join(dir, "main.mcm"), l,
				"fn demo:main", "require "+tt.module)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoader_NotFoundMessage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "greet.yaml"), greetModule)

	_, err := compile(t, filepath.Join(dir, "main.mcm"),
		NewLoader(WithEnvPath(""), WithLogger(log.Make(nil))),
		"require gret")
	if err == nil {
		t.Fatal("expected an error")
	}

	msg := err.Error()
	for _, want := range []string{
		filepath.Join(dir, "gret.yaml"),
		filepath.Join(dir, "gret.yml"),
		`did you mean "greet"?`,
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}
