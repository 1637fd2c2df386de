// Package macro compiles a command tree from package lang into function
// bodies.
//
// A [Context] holds the state of one compilation unit. [Context.Process]
// walks the tree depth-first. A statement whose command names a registered
// [Directive] is dispatched to it; any other statement is copied to the
// current output function as written.
//
// # Directives
//
// A directive declares argument types with ArgTypes and implements any of the
// role interfaces:
//
//	Commander      runs when the statement is reached
//	BlockBeginner  runs before the statement's block, in the block's scope
//	BlockRepeater  re-runs the block while it returns true
//	BlockEnder     runs after the block
//
// The registry infers a directive's roles once, at registration.
//
// # Scope
//
// Each block runs in a new scope. Variables bound with [Context.Set] are
// visible to nested blocks and are substituted into emitted text wherever it
// contains "${name}". Directives keep private bookkeeping with
// [Context.SetState].
//
// # Output
//
// Text is appended to the current function. [Context.SwitchFunction] selects
// it at top level; [Context.EnterFunction] and [Context.ExitFunction] nest
// generated functions. Initialization commands go to the function designated
// with [Context.SetInitialFunction]; lines added with
// [Context.AppendInitialOnce] appear once per run even when several units add
// them.
//
// # Modules
//
// A script loads additional directives with "require". Built-in modules
// register themselves with [RegisterModule]; a [ModuleLoader] can supply
// others.
package macro
