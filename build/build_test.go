package build

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

func source(name string, lines ...string) Source {
	return Source{Name: name, Reader: strings.NewReader(strings.Join(lines, "\n"))}
}

func quiet() Config { return Config{Logger: log.Make(nil), Jobs: 2} }

const storeLine = "execute unless entity 0-0-0-0-0 run summon minecraft:armor_stand ~ ~ ~ " +
	"{UUID: [I; 0, 0, 0, 0], Marker: 1b, Invisible: 1b}\n"

func TestRun_Merge(t *testing.T) {
	res, err := Run(context.Background(), quiet(), []Source{
		source("a.mcm",
			"namespace demo",
			"mcfunction init load",
			"require scoreboard",
			"var hp",
			"say init a",
			"mcfunction main tick",
			"anon",
			"  say from a",
		),
		source("b.mcm",
			"namespace demo",
			"mcfunction init load",
			"require scoreboard",
			"var hp",
			"var mp",
			"say init b",
			"mcfunction main",
			"anon",
			"  say from b",
		),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := map[string]string{
		"demo:init": storeLine +
			"scoreboard objectives add hp dummy\n" +
			"say init a\n" +
			"scoreboard objectives add mp dummy\n" +
			"say init b\n",
		"demo:main":     "function demo:anon/0_0\nfunction demo:anon/1_0\n",
		"demo:anon/0_0": "say from a\n",
		"demo:anon/1_0": "say from b\n",
	}

	if diff := cmp.Diff(want, res.Functions); diff != "" {
		t.Errorf("functions mismatch (-want +got):\n%s", diff)
	}

	wantOrder := []string{"demo:init", "demo:main", "demo:anon/0_0", "demo:anon/1_0"}
	if diff := cmp.Diff(wantOrder, res.Order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	wantTags := map[string][]string{
		macro.TagLoad: {"demo:init"},
		macro.TagTick: {"demo:main"},
	}
	if diff := cmp.Diff(wantTags, res.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_FailFast(t *testing.T) {
	res, err := Run(context.Background(), quiet(), []Source{
		source("good.mcm", "mcfunction demo:main", "say ok"),
		source("bad.mcm", "  mcfunction demo:main", "say indented"),
	})
	if !errors.Is(err, lang.ErrIndent) {
		t.Fatalf("err = %v, want %v", err, lang.ErrIndent)
	}

	if res != nil {
		t.Errorf("result = %+v, want nil", res)
	}
}

func TestRun_KeepGoing(t *testing.T) {
	cfg := quiet()
	cfg.KeepGoing = true

	res, err := Run(context.Background(), cfg, []Source{
		source("bad.mcm", "mcfunction demo:main", "recursive"),
		source("good.mcm", "mcfunction demo:main", "say ok"),
	})
	if err == nil {
		t.Fatal("expected the failing unit's error")
	}

	var le *lang.Error
	if !errors.As(err, &le) || le.Position() != (lang.Position{Source: "bad.mcm", Line: 2}) {
		t.Errorf("err = %v, want error at bad.mcm:2", err)
	}

	if res == nil {
		t.Fatal("result = nil")
	}

	if diff := cmp.Diff(map[string]string{"demo:main": "say ok\n"}, res.Functions); diff != "" {
		t.Errorf("functions mismatch (-want +got):\n%s", diff)
	}

	if res.Units[0].Err == nil || res.Units[1].Err != nil {
		t.Errorf("units = %+v", res.Units)
	}
}

func TestRun_ReadsFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.mcm")

	if err := os.WriteFile(path, []byte("mcfunction demo:main\nsay file\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Run(context.Background(), quiet(), []Source{{Name: path}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := res.Functions["demo:main"]; got != "say file\n" {
		t.Errorf("main = %q", got)
	}

	_, err = Run(context.Background(), quiet(), []Source{{Name: filepath.Join(dir, "missing.mcm")}})
	if !errors.Is(err, lang.ErrReadInput) {
		t.Errorf("err = %v, want %v", err, lang.ErrReadInput)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, quiet(), []Source{source("a.mcm", "mcfunction demo:main", "say x")})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want %v", err, context.Canceled)
	}
}
