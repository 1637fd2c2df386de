package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"
)

func resolveFlag(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	val, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
	if err != nil {
		t.Fatalf("Resolve(%q): %v", name, err)
	}

	return val
}

func TestResolve_Section(t *testing.T) {
	doc := `
config:
  log_level: debug
  log-format: json
  jobs: 4
  keep-going: true
  plugin-path: [./a, ./b]
other:
  foo: bar
`

	r, err := resolve("config")(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log_level", "debug"},
		{"log-level", "debug"},
		{"log-format", "json"},
		{"jobs", "4"},
		{"keep-going", true},
		{"plugin-path", "./a,./b"},
		{"foo", nil},
	}

	for _, tt := range tests {
		if got := resolveFlag(t, r, tt.flag); got != tt.want {
			t.Errorf("%s = %#v, want %#v", tt.flag, got, tt.want)
		}
	}
}

func TestResolve_Ignored(t *testing.T) {
	tests := map[string]string{
		"empty":           ``,
		"missing section": "existing:\n  foo: bar\n",
		"scalar section":  "config: 3\n",
		"invalid":         "config: [unterminated\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			r, err := resolve("config")(strings.NewReader(doc))
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}

			if got := resolveFlag(t, r, "foo"); got != nil {
				t.Errorf("foo = %#v, want nil", got)
			}
		})
	}
}

func TestResolve_Kong(t *testing.T) {
	var cli struct {
		Jobs      int `default:"1"`
		Format    string
		KeepGoing bool
		Path      []string
	}

	doc := "config:\n  jobs: 8\n  format: yaml\n  keep_going: true\n  path: [x, y]\n"

	r, err := resolve("config")(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	parser, err := kong.New(&cli, kong.Resolvers(r))
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}

	if _, err := parser.Parse([]string{"--format=json"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cli.Jobs != 8 || !cli.KeepGoing {
		t.Errorf("jobs = %d, keep-going = %v", cli.Jobs, cli.KeepGoing)
	}

	if cli.Format != "json" {
		t.Errorf("format = %q, command line should override config", cli.Format)
	}

	if diff := cmp.Diff([]string{"x", "y"}, cli.Path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
}
