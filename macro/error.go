package macro

import "github.com/ardnew/mcmacros/lang"

// Sentinel errors reported while compiling a command tree. Every error that
// escapes [Context.Process] carries the source position of the statement
// that raised it.
var (
	ErrNoFunction        = lang.NewError("no output function selected (use mcfunction first)")
	ErrNestedRedirect    = lang.NewError("cannot redirect output from within a nested block")
	ErrNoInitialFunction = lang.NewError(`no function tagged with "load" (e.g. "mcfunction init load")`)
	ErrFunctionName      = lang.NewError("illegal function name")
	ErrNamespace         = lang.NewError("illegal namespace")
	ErrUnknownTag        = lang.NewError("unknown datapack tag")
	ErrArgument          = lang.NewError("invalid argument")
	ErrArgType           = lang.NewError("unknown argument type")
	ErrTemplate          = lang.NewError("template substitution failed")
	ErrExprDisabled      = lang.NewError("expression arguments are disabled (use --unsafe-expr)")
	ErrUnexpectedBlock   = lang.NewError("indented block under a command that is not a directive")
	ErrMissingBlock      = lang.NewError("directive requires an indented block")
	ErrDirective         = lang.NewError("invalid directive")
	ErrModuleNotFound    = lang.NewError("module not found")
	ErrModuleLoad        = lang.NewError("failed to load module")
)
