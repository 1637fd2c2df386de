package macro

import (
	"maps"
	"slices"
	"strings"
)

// Directive is a named macro command. ArgTypes declares how leading arguments
// are converted; it may return nil to receive raw tokens only.
//
// The work a directive performs is defined by which of the role interfaces it
// implements: [Commander], [BlockBeginner], [BlockRepeater], and [BlockEnder].
// A directive implementing none of them only opens a scope for its block.
type Directive interface {
	ArgTypes() []ArgType
}

// Commander runs once when its statement is reached.
type Commander interface {
	Directive
	Command(cx *Context, args Args) error
}

// BlockBeginner runs before the statement's indented block, inside the block's
// new scope.
type BlockBeginner interface {
	Directive
	BlockBegin(cx *Context, args Args) error
}

// BlockRepeater decides how many times the block is traversed. The block is
// traversed again each time BlockRepeat returns true.
type BlockRepeater interface {
	Directive
	BlockRepeat(cx *Context, args Args) (bool, error)
}

// BlockEnder runs after the statement's indented block, before its scope is
// discarded.
type BlockEnder interface {
	Directive
	BlockEnd(cx *Context, args Args) error
}

// Role is a set of directive capabilities.
type Role uint8

const (
	RoleCommand Role = 1 << iota
	RoleBlockBegin
	RoleBlockRepeat
	RoleBlockEnd
)

// Has reports whether r includes every role in q.
func (r Role) Has(q Role) bool { return r&q == q }

func (r Role) String() string {
	var names []string

	for _, x := range []struct {
		role Role
		name string
	}{
		{RoleCommand, "command"},
		{RoleBlockBegin, "begin"},
		{RoleBlockRepeat, "repeat"},
		{RoleBlockEnd, "end"},
	} {
		if r.Has(x.role) {
			names = append(names, x.name)
		}
	}

	if len(names) == 0 {
		return "scope"
	}

	return strings.Join(names, "|")
}

// inferRoles determines the roles of d from the interfaces it implements.
func inferRoles(d Directive) Role {
	var r Role

	if _, ok := d.(Commander); ok {
		r |= RoleCommand
	}

	if _, ok := d.(BlockBeginner); ok {
		r |= RoleBlockBegin
	}

	if _, ok := d.(BlockRepeater); ok {
		r |= RoleBlockRepeat
	}

	if _, ok := d.(BlockEnder); ok {
		r |= RoleBlockEnd
	}

	return r
}

// Entry is a registered directive.
type Entry struct {
	Directive Directive
	Name      string
	Types     []ArgType
	Roles     Role
}

// Registry maps command names to directives. Each compilation unit owns one;
// it is not safe for concurrent use.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: map[string]Entry{}}
}

// Register adds d under name, replacing any directive already registered
// under that name.
func (r *Registry) Register(name string, d Directive) error {
	if name == "" || strings.ContainsAny(name, " \t") {
		return ErrDirective.Wrapf("invalid name %q", name)
	}

	if d == nil {
		return ErrDirective.Wrapf("%s: nil directive", name)
	}

	r.entries[name] = Entry{
		Directive: d,
		Name:      name,
		Types:     d.ArgTypes(),
		Roles:     inferRoles(d),
	}

	return nil
}

// RegisterAll registers every directive in set, in name order.
func (r *Registry) RegisterAll(set map[string]Directive) error {
	for _, name := range slices.Sorted(maps.Keys(set)) {
		if err := r.Register(name, set[name]); err != nil {
			return err
		}
	}

	return nil
}

// Lookup returns the directive registered under name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.entries[name]

	return e, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.entries))
}

// CommandFunc adapts a function to a [Commander] with the given argument
// types.
func CommandFunc(fn func(cx *Context, args Args) error, types ...ArgType) Directive {
	return commandFunc{fn: fn, types: types}
}

type commandFunc struct {
	fn    func(*Context, Args) error
	types []ArgType
}

func (c commandFunc) ArgTypes() []ArgType { return c.types }

func (c commandFunc) Command(cx *Context, args Args) error { return c.fn(cx, args) }
