package cmd

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/mcmacros/lang"
	"github.com/ardnew/mcmacros/log"
)

// Tree prints the statement tree of a script without compiling it.
type Tree struct {
	Format string `default:"native" enum:"native,json,yaml" help:"Output format (${enum})." short:"o"`
	Indent int    `default:"2"                               help:"Indent width of nested statements." short:"i"`

	Source string `arg:"" default:"-" help:"Script file, or '-' for stdin." name:"source"`

	stdin  io.Reader `kong:"-"`
	stdout io.Writer `kong:"-"`
}

// Run executes the tree command.
func (t *Tree) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	name, r := stdinName, t.stdin
	if r == nil {
		r = os.Stdin
	}

	if t.Source != stdinSource {
		file, err := os.Open(t.Source)
		if err != nil {
			return lang.ErrReadInput.Wrap(err).WithPosition(lang.Position{Source: t.Source})
		}
		defer file.Close()

		name, r = t.Source, file
	}

	tree, err := lang.Parse(ctx, name, bufio.NewReader(r), lang.WithLogger(log.Default()))
	if err != nil {
		return lang.WrapError(err).With(slog.String("command", "tree"))
	}

	w := t.stdout
	if w == nil {
		w = os.Stdout
	}

	switch t.Format {
	case "native":
		return tree.Format(ctx, w, t.Indent)
	case "json":
		return tree.FormatJSON(ctx, w, t.Indent)
	case "yaml":
		return tree.FormatYAML(ctx, w, t.Indent)
	default:
		return ErrFormat.Wrapf("%q", t.Format)
	}
}
