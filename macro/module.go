package macro

import (
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// Module is a named set of directives that a script loads with "require".
type Module struct {
	// Init runs once per unit when the module is first required, before its
	// directives are registered.
	Init       func(cx *Context) error
	Directives map[string]Directive
	Name       string
	// Origin describes where the module was loaded from.
	Origin string
}

// ModuleLoader finds the module a unit requires by name.
type ModuleLoader interface {
	Load(cx *Context, name string) (*Module, error)
}

var (
	modulesMu sync.RWMutex
	modules   = map[string]*Module{}
)

// RegisterModule makes a built-in module available by its name. It panics if
// m is nil, unnamed, or already registered.
func RegisterModule(m *Module) {
	modulesMu.Lock()
	defer modulesMu.Unlock()

	if m == nil || m.Name == "" {
		panic("macro: RegisterModule of nil or unnamed module")
	}

	if _, dup := modules[m.Name]; dup {
		panic("macro: RegisterModule called twice for module " + m.Name)
	}

	modules[m.Name] = m
}

// LookupModule returns the registered module with the given name.
func LookupModule(name string) (*Module, bool) {
	modulesMu.RLock()
	defer modulesMu.RUnlock()

	m, ok := modules[name]

	return m, ok
}

// Modules returns the names of the registered modules in sorted order.
func Modules() []string {
	modulesMu.RLock()
	defer modulesMu.RUnlock()

	return slices.Sorted(maps.Keys(modules))
}

// Require loads module name into the unit: its Init runs, then its directives
// are registered. Requiring a module already loaded by the unit does nothing.
func (cx *Context) Require(name string) error {
	if cx.loaded[name] {
		return nil
	}

	var (
		m   *Module
		err error
	)

	if cx.loader != nil {
		m, err = cx.loader.Load(cx, name)
	} else if rm, ok := LookupModule(name); ok {
		m = rm
	} else {
		err = ErrModuleNotFound.Wrapf("%q%s", name, Suggest(name, Modules()))
	}

	if err != nil {
		return err
	}

	cx.loaded[name] = true

	cx.logger.Debug("require",
		slog.String("module", name),
		slog.String("origin", m.Origin),
		slog.Int("directives", len(m.Directives)))

	if m.Init != nil {
		if err := m.Init(cx); err != nil {
			return ErrModuleLoad.Wrapf("%s: init: %w", name, err)
		}
	}

	if err := cx.registry.RegisterAll(m.Directives); err != nil {
		return ErrModuleLoad.Wrapf("%s: %w", name, err)
	}

	return nil
}
