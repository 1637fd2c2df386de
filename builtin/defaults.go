// Package builtin provides the directives available to every script and the
// built-in modules a script can require.
package builtin

import (
	"github.com/ardnew/mcmacros/lang"
	"github.com/ardnew/mcmacros/macro"
)

var ErrNotAnonymous = lang.NewError("recursive is only allowed inside an anonymous function")

// Defaults returns the directives registered in every compilation unit.
func Defaults() map[string]macro.Directive {
	return map[string]macro.Directive{
		"namespace":      macro.CommandFunc(namespace, macro.ArgString),
		"require":        macro.CommandFunc(require, macro.ArgString),
		"mcfunction":     macro.CommandFunc(mcfunction, macro.ArgString),
		"datapacktag":    macro.CommandFunc(datapackTag, macro.ArgString),
		"anon":           anonymous{},
		"recursive":      macro.CommandFunc(recursive),
		"define":         macro.CommandFunc(define, macro.ArgString, macro.ArgString),
		"init_objective": macro.CommandFunc(initObjective, macro.ArgString),
		"switch":         switchDirective{},
		"case":           caseDirective{},
	}
}

func usage(args macro.Args, n int, text string) error {
	if args.Len() < n {
		return macro.ErrArgument.Wrapf("usage: %s", text)
	}

	return nil
}

// namespace <ns>
func namespace(cx *macro.Context, args macro.Args) error {
	if err := usage(args, 1, "namespace <namespace>"); err != nil {
		return err
	}

	return cx.SetNamespace(args.String(0, ""))
}

// require <module>
func require(cx *macro.Context, args macro.Args) error {
	if err := usage(args, 1, "require <module>"); err != nil {
		return err
	}

	return cx.Require(args.String(0, ""))
}

// mcfunction <[ns:]name> [load|tick]...
//
// Output that follows goes to the named function. Each tag argument adds the
// function to that datapack tag; the first function tagged "load" receives
// initialization commands.
func mcfunction(cx *macro.Context, args macro.Args) error {
	if err := usage(args, 1, "mcfunction <[namespace:]name> [load|tick]..."); err != nil {
		return err
	}

	ns, name, err := cx.SplitFunctionName(args.String(0, ""))
	if err != nil {
		return err
	}

	if err := cx.SwitchFunction(ns, name); err != nil {
		return err
	}

	for _, tag := range args.Rest(1) {
		if err := cx.AddTag(tag); err != nil {
			return err
		}

		if tag == macro.TagLoad && !cx.HasInitialFunction() {
			if err := cx.SetInitialFunction(ns, name); err != nil {
				return err
			}
		}
	}

	return nil
}

// datapacktag <load|tick>
func datapackTag(cx *macro.Context, args macro.Args) error {
	if err := usage(args, 1, "datapacktag <load|tick>"); err != nil {
		return err
	}

	return cx.AddTag(args.String(0, ""))
}

// anonymous moves its block into a new function called from the current one.
type anonymous struct{}

func (anonymous) ArgTypes() []macro.ArgType { return nil }

func (anonymous) BlockBegin(cx *macro.Context, _ macro.Args) error {
	return cx.EnterAnonymousFunction()
}

func (anonymous) BlockEnd(cx *macro.Context, _ macro.Args) error {
	cx.ExitFunction()

	return nil
}

// recursive calls the enclosing anonymous function.
func recursive(cx *macro.Context, _ macro.Args) error {
	if !cx.InAnonymousFunction() {
		return ErrNotAnonymous
	}

	return cx.AppendLine("function", cx.CurrentFunction())
}

// define <name> <value>
func define(cx *macro.Context, args macro.Args) error {
	if err := usage(args, 2, "define <name> <value>"); err != nil {
		return err
	}

	name := args.String(0, "")
	if !macro.IsIdentifier(name) {
		return macro.ErrArgument.Wrapf("%q is not a valid variable name", name)
	}

	cx.Set(name, lang.Unquote(args.String(1, "")))

	return nil
}

// init_objective <objective>
func initObjective(cx *macro.Context, args macro.Args) error {
	if err := usage(args, 1, "init_objective <objective>"); err != nil {
		return err
	}

	_, err := cx.AddScore(args.String(0, ""))

	return err
}
