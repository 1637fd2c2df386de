package cmd

import (
	"context"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/mcmacros/log"
	"github.com/ardnew/mcmacros/profile"
)

// defaultConfigIndent is the indent width of the generated configuration.
const defaultConfigIndent = 2

// configFileMode is the permission mode of the generated configuration.
var configFileMode os.FileMode = 0o600

// ignoredFlags are the name prefixes of flags never written to the
// configuration.
var ignoredFlags = []string{"help", "version", "force", profile.Tag}

// Init writes the current value of every flag to the configuration file.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalWithOptions(
		yaml.MapSlice{{Key: ConfigIdentifier, Value: i.flags(ktx)}},
		yaml.Indent(defaultConfigIndent),
		yaml.IndentSequence(true),
	)
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	if err := os.WriteFile(confPath, data, configFileMode); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath))

	return nil
}

// flags returns the name and value of every configurable flag in the model,
// in the order kong declares them. Unset strings and empty lists are omitted.
func (i *Init) flags(ktx *kong.Context) yaml.MapSlice {
	var (
		out  yaml.MapSlice
		seen = map[string]bool{}
	)

	var visit func(*kong.Node)

	visit = func(node *kong.Node) {
		for _, flag := range node.Flags {
			if flag.Hidden || seen[flag.Name] ||
				slices.ContainsFunc(ignoredFlags, func(s string) bool {
					return strings.HasPrefix(flag.Name, s)
				}) {
				continue
			}

			seen[flag.Name] = true

			if v := configValue(flag.Target); v != nil {
				out = append(out, yaml.MapItem{Key: flag.Name, Value: v})
			}
		}

		for _, child := range node.Children {
			visit(child)
		}
	}

	visit(ktx.Model.Node)

	return out
}

// configValue returns v as a plain YAML scalar or sequence, or nil if v is
// empty or has no plain form.
func configValue(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Bool:
		return v.Bool()

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint()

	case reflect.Float32, reflect.Float64:
		return v.Float()

	case reflect.String:
		if v.Len() == 0 {
			return nil
		}

		return v.String()

	case reflect.Slice:
		if v.Len() == 0 {
			return nil
		}

		items := make([]any, 0, v.Len())
		for k := range v.Len() {
			if item := configValue(v.Index(k)); item != nil {
				items = append(items, item)
			}
		}

		return items

	default:
		return nil
	}
}
