package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/mcmacros/log"
)

// resolve returns a [kong.ConfigurationLoader] reading flag values from the
// mapping under key name of a YAML document:
//
//	config:
//	  log-level: debug
//	  keep_going: true
//	  plugin-path: [./modules, /usr/share/mcmacros]
//
// Keys may spell a flag's hyphens as underscores. Numbers are passed to kong as
// strings and sequences as comma-separated lists. A document that is not valid
// YAML, or has no mapping under name, configures nothing.
//
// Command-line flags override config file values.
func resolve(name string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&doc); err != nil && err != io.EOF {
			log.Warn("ignoring invalid configuration", slog.String("error", err.Error()))

			return config{}, nil
		}

		section, ok := doc[name].(map[string]any)
		if !ok {
			return config{}, nil
		}

		cfg := make(config, len(section))
		for key, val := range section {
			cfg[key] = flagValue(val)
		}

		return cfg, nil
	}
}

// flagValue converts a decoded YAML value to a form kong parses.
func flagValue(v any) any {
	switch v := v.(type) {
	case int, int64, uint64, float64:
		return fmt.Sprint(v)

	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = fmt.Sprint(item)
		}

		return strings.Join(items, ",")

	default:
		return v
	}
}

// config implements [kong.Resolver] over a flat map of flag values.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}
