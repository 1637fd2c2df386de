// Package build compiles a set of scripts in parallel and merges their output
// into one datapack's worth of functions and tags.
package build

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/mcmacros/builtin"
	"github.com/ardnew/mcmacros/lang"
	"github.com/ardnew/mcmacros/log"
	"github.com/ardnew/mcmacros/macro"
)

// Source is one compilation unit. If Reader is nil the file Name is read.
type Source struct {
	Reader io.Reader
	Name   string
}

// Config controls a build.
type Config struct {
	Logger log.Logger
	// Loader resolves "require"; nil allows only registered modules.
	Loader macro.ModuleLoader
	// Directives are installed in every unit; nil means builtin.Defaults.
	Directives map[string]macro.Directive
	// Jobs limits the units compiled at once; zero or less means GOMAXPROCS.
	Jobs int
	// KeepGoing merges the units that compiled when others fail.
	KeepGoing bool
	// UnsafeExpr enables expression evaluation in scripts.
	UnsafeExpr bool
}

// Unit is the outcome of compiling one source.
type Unit struct {
	Output *macro.Output
	Err    error
	Source string
}

// Result is the merged output of a build.
type Result struct {
	// Functions maps resource locations to function bodies.
	Functions map[string]string
	// Tags maps tag names to functions, in unit order.
	Tags map[string][]string
	// Order lists the resource locations in order of first appearance.
	Order []string
	Units []Unit
}

// Run compiles sources concurrently, each in its own context, and merges the
// output of successful units in input order.
//
// By default the first failure cancels the remaining units and Run returns
// only that error. With KeepGoing every unit runs, the successful ones are
// merged, and the failures are returned joined alongside the result.
func Run(ctx context.Context, cfg Config, sources []Source) (*Result, error) {
	if cfg.Logger.Logger == nil {
		cfg.Logger = log.Default()
	}

	if cfg.Directives == nil {
		cfg.Directives = builtin.Defaults()
	}

	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	units := make([]Unit, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, src := range sources {
		g.Go(func() error {
			out, err := compile(gctx, cfg, i, src)
			units[i] = Unit{Source: src.Name, Output: out, Err: err}

			if err != nil && !cfg.KeepGoing {
				return err
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := merge(units)

	var errs []error

	for _, u := range units {
		if u.Err != nil {
			errs = append(errs, u.Err)
		}
	}

	cfg.Logger.InfoContext(ctx, "build finished",
		slog.Int("units", len(units)),
		slog.Int("failed", len(errs)),
		slog.Int("functions", len(res.Order)))

	return res, errors.Join(errs...)
}

func compile(ctx context.Context, cfg Config, index int, src Source) (*macro.Output, error) {
	pos := lang.Position{Source: src.Name}

	r := src.Reader
	if r == nil {
		f, err := os.Open(src.Name)
		if err != nil {
			return nil, lang.ErrReadInput.Wrap(err).WithPosition(pos)
		}
		defer f.Close()

		r = f
	}

	logger := cfg.Logger.With(slog.String("source", src.Name))

	tree, err := lang.Parse(ctx, src.Name, r, lang.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	cx, err := macro.NewContext(src.Name,
		macro.WithUnit(index),
		macro.WithLogger(cfg.Logger),
		macro.WithLoader(cfg.Loader),
		macro.WithUnsafeExpr(cfg.UnsafeExpr),
		macro.WithDirectives(cfg.Directives))
	if err != nil {
		return nil, err
	}

	if err := cx.Process(ctx, tree); err != nil {
		logger.DebugContext(ctx, "unit failed", slog.Any("error", err))

		return nil, err
	}

	return cx.Output(), nil
}

// merge concatenates function bodies and tag lists of successful units in
// unit order. A once-keyed segment is kept only where its key first appears.
func merge(units []Unit) *Result {
	res := &Result{
		Functions: map[string]string{},
		Tags:      map[string][]string{},
		Units:     units,
	}

	bodies := map[string]*strings.Builder{}
	seen := map[string]bool{}

	for _, u := range units {
		if u.Output == nil {
			continue
		}

		for _, id := range u.Output.Functions() {
			sb, ok := bodies[id]
			if !ok {
				sb = &strings.Builder{}
				bodies[id] = sb
				res.Order = append(res.Order, id)
			}

			b, _ := u.Output.Lookup(id)
			for _, seg := range b.Segments() {
				if seg.Once != "" {
					if seen[seg.Once] {
						continue
					}

					seen[seg.Once] = true
				}

				sb.WriteString(seg.Text)
			}
		}

		for _, tag := range macro.Tags {
			for _, id := range u.Output.Tag(tag) {
				if !slices.Contains(res.Tags[tag], id) {
					res.Tags[tag] = append(res.Tags[tag], id)
				}
			}
		}
	}

	for id, sb := range bodies {
		res.Functions[id] = sb.String()
	}

	return res
}
