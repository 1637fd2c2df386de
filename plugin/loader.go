package plugin

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/mung"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/mcmacros/log"
	"github.com/ardnew/mcmacros/macro"
)

// EnvPath is the environment variable listing additional module directories.
const EnvPath = "MCMACROS_PATH"

// Extensions are the file extensions of YAML modules, in search order.
var Extensions = []string{".yaml", ".yml"}

// Loader implements [macro.ModuleLoader].
type Loader struct {
	logger log.Logger
	dirs   []string
	env    string
}

// Option configures a [Loader].
type Option func(*Loader)

// WithPath appends directories to the module search path.
func WithPath(dirs ...string) Option {
	return func(l *Loader) { l.dirs = append(l.dirs, dirs...) }
}

// WithEnvPath replaces the value read from [EnvPath].
func WithEnvPath(value string) Option { return func(l *Loader) { l.env = value } }

// WithLogger sets the logger for module resolution.
func WithLogger(logger log.Logger) Option { return func(l *Loader) { l.logger = logger } }

// NewLoader returns a Loader searching the configured directories.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		logger: log.Default(),
		env:    os.Getenv(EnvPath),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// SearchPath returns the existing directories searched for modules required
// by the script at source, in search order.
func (l *Loader) SearchPath(source string) []string {
	prefix := make([]string, 0, len(l.dirs)+1)
	if source != "" {
		prefix = append(prefix, filepath.Dir(source))
	}

	prefix = append(prefix, l.dirs...)

	// mung leads the result with the trailing prefix item.
	slices.Reverse(prefix)

	path := mung.Make(
		mung.WithSubjectItems(l.env),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(isDir),
	).String()

	return filepath.SplitList(path)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// Load returns the module registered under name or, failing that, the first
// YAML module named name on the search path of the requiring unit.
func (l *Loader) Load(cx *macro.Context, name string) (*macro.Module, error) {
	if m, ok := macro.LookupModule(name); ok {
		return m, nil
	}

	if name == "" || filepath.IsAbs(name) || slices.Contains(strings.Split(filepath.ToSlash(name), "/"), "..") {
		return nil, macro.ErrModuleNotFound.Wrapf("invalid module name %q", name)
	}

	var tried []string

	for _, dir := range l.SearchPath(cx.Source()) {
		for _, ext := range Extensions {
			path := filepath.Join(dir, name+ext)
			tried = append(tried, path)

			data, err := os.ReadFile(path)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			if err != nil {
				return nil, macro.ErrModuleLoad.Wrap(err)
			}

			l.logger.Debug("module found",
				slog.String("module", name),
				slog.String("path", path))

			return Decode(name, path, data)
		}
	}

	return nil, macro.ErrModuleNotFound.Wrapf("%q (searched %s)%s",
		name, strings.Join(tried, ", "),
		macro.Suggest(name, l.available(cx.Source())))
}

// available lists the names of every module the unit could require.
func (l *Loader) available(source string) []string {
	names := macro.Modules()

	for _, dir := range l.SearchPath(source) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, e := range entries {
			ext := filepath.Ext(e.Name())
			if !e.IsDir() && slices.Contains(Extensions, ext) {
				names = append(names, strings.TrimSuffix(e.Name(), ext))
			}
		}
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// File is the document structure of a YAML module.
type File struct {
	Init       []string            `yaml:"init"`
	Directives map[string]Template `yaml:"directives"`
}

// Decode parses the YAML module read from path.
func Decode(name, path string, data []byte) (*macro.Module, error) {
	var f File
	if err := yaml.UnmarshalWithOptions(data, &f, yaml.DisallowUnknownField()); err != nil {
		return nil, macro.ErrModuleLoad.Wrapf("%s: %w", path, err)
	}

	m := &macro.Module{
		Name:       name,
		Origin:     path,
		Directives: make(map[string]macro.Directive, len(f.Directives)),
	}

	for key, t := range f.Directives {
		d, err := t.directive()
		if err != nil {
			return nil, macro.ErrModuleLoad.Wrapf("%s: directive %q: %w", path, key, err)
		}

		m.Directives[key] = d
	}

	if len(f.Init) > 0 {
		lines := f.Init
		m.Init = func(cx *macro.Context) error {
			for i, line := range lines {
				if err := cx.AppendInitialOnce(initKey(name, i), line); err != nil {
					return err
				}
			}

			return nil
		}
	}

	return m, nil
}

func initKey(module string, i int) string {
	return "plugin:" + module + ":" + strconv.Itoa(i)
}
