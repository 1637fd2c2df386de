package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/ardnew/mcmacros/build"
	"github.com/ardnew/mcmacros/datapack"
	"github.com/ardnew/mcmacros/log"
	"github.com/ardnew/mcmacros/macro"
	"github.com/ardnew/mcmacros/plugin"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	ruleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Compile compiles scripts into the functions and tags of a datapack.
type Compile struct {
	Verbose     bool     `                             help:"Print every file written and its content."                 short:"v"`
	KeepGoing   bool     `                             help:"Write the output of scripts that compile when others fail."`
	UnsafeExpr  bool     `                             help:"Evaluate expressions in scripts."`
	DryRun      bool     `                             help:"Compile without writing any file."                         short:"n"`
	Jobs        int      `default:"0"                  help:"Scripts compiled at once (0: one per CPU)."                short:"j"`
	PluginPath  []string `                             help:"Directories searched for YAML modules."                                type:"path"`
	PackFormat  int      `default:"${packFormat}"      help:"pack_format of a new pack.mcmeta."`
	Description string   `default:"${packDescription}" help:"Description of a new pack.mcmeta."`

	Datapack string   `arg:"" help:"Datapack directory."              type:"path"`
	Sources  []string `arg:"" help:"Script files, or '-' for stdin." name:"source"`

	stdout io.Writer `kong:"-"`
}

// CompileVars returns the kong variables interpolated into the flag defaults
// of [Compile].
func CompileVars() kong.Vars {
	return kong.Vars{
		"packFormat":      strconv.Itoa(datapack.DefaultPackFormat),
		"packDescription": datapack.DefaultDescription,
	}
}

// Run executes the compile command.
func (c *Compile) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := sources(c.Sources)
	if err != nil {
		return err
	}

	logger := log.Default()

	docs := datapack.Load(c.Datapack, macro.Tags,
		datapack.WithPackFormat(c.PackFormat),
		datapack.WithDescription(c.Description),
		datapack.WithLogger(logger))

	res, buildErr := build.Run(ctx, build.Config{
		Logger: logger,
		Loader: plugin.NewLoader(
			plugin.WithPath(c.PluginPath...),
			plugin.WithLogger(logger)),
		Jobs:       c.Jobs,
		KeepGoing:  c.KeepGoing,
		UnsafeExpr: c.UnsafeExpr,
	}, srcs)
	if res == nil {
		return buildErr
	}

	docs.MergeTags(res.Tags)

	functions, err := datapack.FunctionFiles(res.Functions)
	if err != nil {
		return err
	}

	if c.Verbose {
		meta, err := docs.Files()
		if err != nil {
			return err
		}

		c.show(functions, meta)
	}

	if c.DryRun {
		logger.InfoContext(ctx, "dry run",
			slog.Int("functions", len(functions)),
			slog.Int("tags", len(docs.Tags)))

		return buildErr
	}

	written, err := datapack.WriteFiles(c.Datapack, functions)
	if err != nil {
		return err
	}

	meta, err := docs.Write(c.Datapack)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "datapack written",
		slog.String("dir", c.Datapack),
		slog.Int("files", len(written)+len(meta)))

	return buildErr
}

// show prints each of the given files and its content, ordered by path.
func (c *Compile) show(sets ...map[string]string) {
	w := c.stdout
	if w == nil {
		w = os.Stdout
	}

	styled := isTerminal(w)

	files := make(map[string]string)
	for _, set := range sets {
		maps.Copy(files, set)
	}

	for _, path := range slices.Sorted(maps.Keys(files)) {
		rule := "# " + strings.Repeat("=", 40)
		header := "# File: " + path

		if styled {
			rule, header = ruleStyle.Render(rule), headerStyle.Render(header)
		}

		fmt.Fprintln(w, rule)
		fmt.Fprintln(w, header)
		fmt.Fprintln(w, files[path])
	}
}

// isTerminal reports whether w is a terminal that accepts styled text.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
