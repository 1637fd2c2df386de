package macro

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/mcmacros/lang"
	"github.com/ardnew/mcmacros/log"
)

// DefaultNamespace is the namespace of a unit that never declares one.
const DefaultNamespace = "unknown"

// AnonymousDir is the directory, relative to a namespace's functions, that
// holds generated anonymous functions.
const AnonymousDir = "anon"

// Tag names a function can be added to.
const (
	TagLoad = "load"
	TagTick = "tick"
)

// Tags lists the supported datapack function tags.
var Tags = []string{TagLoad, TagTick}

var (
	namespacePattern = regexp.MustCompile(`^[a-z0-9_.-]+$`)
	pathPattern      = regexp.MustCompile(`^[a-z0-9_.-]+(/[a-z0-9_.-]+)*$`)
)

// target is an output function and its resource location.
type target struct {
	b  *Builder
	id string
}

// Context is the state of one compilation unit: the active namespace, the
// function receiving output, suspended enclosing functions, lexical scope,
// and the directives available to the unit.
//
// A Context is used by a single goroutine.
type Context struct {
	logger    log.Logger
	registry  *Registry
	loader    ModuleLoader
	output    *Output
	node      *lang.Node
	initial   *Builder
	scores    map[string]bool
	loaded    map[string]bool
	sets      []map[string]Directive
	source    string
	namespace string
	current   target
	stack     []target
	scope     scope
	unit      int
	anon      int
	allowExpr bool
}

// Option configures a [Context].
type Option func(*Context)

// WithUnit sets the unit's index among the units of a run. It keeps generated
// anonymous function names distinct between units.
func WithUnit(i int) Option { return func(cx *Context) { cx.unit = i } }

// WithLogger sets the logger for compiler diagnostics.
func WithLogger(l log.Logger) Option { return func(cx *Context) { cx.logger = l } }

// WithLoader sets the loader used by [Context.Require]. Without one, only
// modules registered with [RegisterModule] can be required.
func WithLoader(l ModuleLoader) Option { return func(cx *Context) { cx.loader = l } }

// WithUnsafeExpr enables "expr" arguments and expression placeholders, which
// evaluate script-supplied expressions.
func WithUnsafeExpr(enable bool) Option { return func(cx *Context) { cx.allowExpr = enable } }

// WithDirectives registers a set of directives in the unit's registry.
func WithDirectives(set map[string]Directive) Option {
	return func(cx *Context) { cx.sets = append(cx.sets, set) }
}

// NewContext returns the context for compiling the unit read from source.
func NewContext(source string, opts ...Option) (*Context, error) {
	cx := &Context{
		logger:    log.Default(),
		registry:  NewRegistry(),
		output:    NewOutput(),
		scores:    map[string]bool{},
		loaded:    map[string]bool{},
		source:    source,
		namespace: DefaultNamespace,
		scope:     newScope(),
	}

	for _, opt := range opts {
		opt(cx)
	}

	cx.logger = cx.logger.With(slog.String("source", source), slog.Int("unit", cx.unit))

	for _, set := range cx.sets {
		if err := cx.registry.RegisterAll(set); err != nil {
			return nil, err
		}
	}

	cx.sets = nil

	return cx, nil
}

// Source returns the name of the unit's input.
func (cx *Context) Source() string { return cx.source }

// Unit returns the unit's index.
func (cx *Context) Unit() int { return cx.unit }

// Logger returns the unit's logger.
func (cx *Context) Logger() log.Logger { return cx.logger }

// Registry returns the unit's directive registry.
func (cx *Context) Registry() *Registry { return cx.registry }

// Register adds a directive to the unit's registry. It takes effect for the
// statements that follow.
func (cx *Context) Register(name string, d Directive) error {
	return cx.registry.Register(name, d)
}

// Output returns the unit's output.
func (cx *Context) Output() *Output { return cx.output }

// Node returns the statement being dispatched.
func (cx *Context) Node() *lang.Node { return cx.node }

// Position returns the source position of the statement being dispatched.
func (cx *Context) Position() lang.Position {
	pos := lang.Position{Source: cx.source}
	if cx.node != nil {
		pos.Line = cx.node.Line
	}

	return pos
}

// UnsafeExpr reports whether expression evaluation is enabled.
func (cx *Context) UnsafeExpr() bool { return cx.allowExpr }

// Namespace returns the namespace used for unqualified function names.
func (cx *Context) Namespace() string { return cx.namespace }

// SetNamespace sets the namespace used for unqualified function names.
func (cx *Context) SetNamespace(ns string) error {
	if !namespacePattern.MatchString(ns) {
		return ErrNamespace.Wrapf("%q", ns)
	}

	cx.namespace = ns

	return nil
}

// EnterScope opens a nested scope.
func (cx *Context) EnterScope() { cx.scope.enter() }

// ExitScope discards the innermost scope. It panics if no nested scope is
// open.
func (cx *Context) ExitScope() { cx.scope.exit() }

// Set binds name to v in the innermost scope.
func (cx *Context) Set(name string, v any) { cx.scope.set(name, v) }

// Lookup returns the value bound to name in the innermost scope defining it.
func (cx *Context) Lookup(name string) (any, bool) { return cx.scope.lookup(name) }

// Vars returns every visible variable.
func (cx *Context) Vars() map[string]any { return cx.scope.env() }

// SetState binds private directive state in the innermost scope. Keys should
// be values of an unexported type. State is invisible to placeholders.
func (cx *Context) SetState(key, v any) { cx.scope.setState(key, v) }

// State returns the state bound to key in the innermost scope defining it.
func (cx *Context) State(key any) (any, bool) { return cx.scope.state(key) }

// ResolveFunction returns the resource location of name in namespace ns, or
// in the current namespace if ns is empty.
func (cx *Context) ResolveFunction(ns, name string) string {
	if ns == "" {
		ns = cx.namespace
	}

	return ns + ":" + name
}

// SplitFunctionName splits "namespace:path" or "path" into its namespace and
// path, using the current namespace for the latter.
func (cx *Context) SplitFunctionName(s string) (ns, name string, err error) {
	parts := strings.Split(s, ":")

	switch len(parts) {
	case 1:
		ns, name = cx.namespace, parts[0]
	case 2:
		if parts[0] == "" {
			return "", "", ErrFunctionName.Wrapf("%q", s)
		}

		ns, name = parts[0], parts[1]
	default:
		return "", "", ErrFunctionName.Wrapf("%q", s)
	}

	if _, err := cx.functionID(ns, name); err != nil {
		return "", "", err
	}

	return ns, name, nil
}

func (cx *Context) functionID(ns, name string) (string, error) {
	if ns == "" {
		ns = cx.namespace
	}

	if !namespacePattern.MatchString(ns) || !pathPattern.MatchString(name) {
		return "", ErrFunctionName.Wrapf("%q", ns+":"+name)
	}

	return ns + ":" + name, nil
}

func (cx *Context) target(ns, name string) (target, error) {
	id, err := cx.functionID(ns, name)
	if err != nil {
		return target{}, err
	}

	return target{id: id, b: cx.output.Function(id)}, nil
}

// CurrentFunction returns the resource location of the function receiving
// output, or "" if none is selected.
func (cx *Context) CurrentFunction() string { return cx.current.id }

// InAnonymousFunction reports whether output is redirected into a nested
// function.
func (cx *Context) InAnonymousFunction() bool { return len(cx.stack) > 0 }

// SwitchFunction directs output to function ns:name. It fails inside a
// nested function.
func (cx *Context) SwitchFunction(ns, name string) error {
	if cx.InAnonymousFunction() {
		return ErrNestedRedirect
	}

	t, err := cx.target(ns, name)
	if err != nil {
		return err
	}

	cx.current = t

	cx.logger.Debug("output function", slog.String("function", t.id))

	return nil
}

// EnterFunction suspends the current function and directs output to ns:name
// until the matching [Context.ExitFunction].
func (cx *Context) EnterFunction(ns, name string) error {
	t, err := cx.target(ns, name)
	if err != nil {
		return err
	}

	cx.stack = append(cx.stack, cx.current)
	cx.current = t

	return nil
}

// ExitFunction resumes the function suspended by the most recent
// [Context.EnterFunction]. It panics if there is none.
func (cx *Context) ExitFunction() {
	n := len(cx.stack)
	if n == 0 {
		panic("macro: ExitFunction without matching EnterFunction")
	}

	cx.current = cx.stack[n-1]
	cx.stack = cx.stack[:n-1]
}

// NextAnonymousName returns a function path, unique within the run, for a
// generated function.
func (cx *Context) NextAnonymousName() string {
	name := AnonymousDir + "/" + strconv.Itoa(cx.unit) + "_" + strconv.Itoa(cx.anon)
	cx.anon++

	return name
}

// EnterAnonymousFunction emits a call to a new anonymous function and enters
// it. The function is created in the namespace of the function calling it.
func (cx *Context) EnterAnonymousFunction() error {
	if cx.current.b == nil {
		return ErrNoFunction
	}

	ns, _, _ := strings.Cut(cx.current.id, ":")
	name := cx.NextAnonymousName()

	if err := cx.AppendLine("function", cx.ResolveFunction(ns, name)); err != nil {
		return err
	}

	return cx.EnterFunction(ns, name)
}

// SetInitialFunction designates ns:name as the function receiving
// initialization commands.
func (cx *Context) SetInitialFunction(ns, name string) error {
	t, err := cx.target(ns, name)
	if err != nil {
		return err
	}

	cx.initial = t.b

	return nil
}

// HasInitialFunction reports whether an initial function is designated.
func (cx *Context) HasInitialFunction() bool { return cx.initial != nil }

// AppendInitial adds a command line to the initial function.
func (cx *Context) AppendInitial(text ...string) error {
	return cx.AppendInitialOnce("", text...)
}

// AppendInitialOnce adds a command line to the initial function unless a line
// with the same key was added before, by any unit of the run.
func (cx *Context) AppendInitialOnce(key string, text ...string) error {
	if cx.initial == nil {
		return ErrNoInitialFunction
	}

	cx.initial.AppendOnce(key, strings.Join(text, " ")+"\n")

	return nil
}

// RegisterScore records that objective name is defined. It reports whether
// the objective was new to the unit. Objectives are tracked per unit.
func (cx *Context) RegisterScore(name string) bool {
	if cx.scores[name] {
		return false
	}

	cx.scores[name] = true

	return true
}

// AddScore registers objective name and, if it is new, adds its creation to
// the initial function. Units declaring the same objective each add the
// line, keyed once on the objective, so merging units keeps a single copy.
func (cx *Context) AddScore(name string) (bool, error) {
	if cx.scores[name] {
		return false, nil
	}

	if err := cx.AppendInitialOnce("objective:"+name,
		"scoreboard", "objectives", "add", name, "dummy"); err != nil {
		return false, err
	}

	return cx.RegisterScore(name), nil
}

// AddTag adds the current function to datapack tag.
func (cx *Context) AddTag(tag string) error {
	if !isTag(tag) {
		return ErrUnknownTag.Wrapf("%q%s", tag, Suggest(tag, Tags))
	}

	if cx.current.b == nil {
		return ErrNoFunction
	}

	cx.output.AddTag(tag, cx.current.id)

	return nil
}

func isTag(s string) bool {
	for _, t := range Tags {
		if s == t {
			return true
		}
	}

	return false
}

// Append joins text with spaces, substitutes placeholders, and adds the result
// to the current function.
func (cx *Context) Append(text ...string) error {
	if cx.current.b == nil {
		return ErrNoFunction
	}

	s, err := cx.interpolate(strings.Join(text, " "))
	if err != nil {
		return err
	}

	cx.current.b.Append(s)

	return nil
}

// AppendLine is like [Context.Append] and terminates the line.
func (cx *Context) AppendLine(text ...string) error {
	return cx.Append(strings.Join(text, " ") + "\n")
}

// Suggest returns a " (did you mean ...?)" hint naming the candidate closest
// to s, or "" if none is close.
func Suggest(s string, candidates []string) string {
	if s == "" {
		return ""
	}

	matches := fuzzy.Find(s, candidates)
	if len(matches) == 0 {
		return ""
	}

	return " (did you mean " + strconv.Quote(matches[0].Str) + "?)"
}
