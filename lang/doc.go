// Package lang reads command scripts: plain text files of game commands whose
// structure is given by indentation.
//
// # Syntax
//
// Each non-blank line that does not start with '#' is a statement. A
// statement is a command word followed by arguments, split at spaces that are
// outside of brackets and quotes (see [Tokenize]):
//
//	mcfunction demo:main load
//	tellraw @a {"text": "hello world"}
//
// A statement indented deeper than the one before it starts a block owned by
// that statement. Blocks may nest to any depth, and a dedent must return to the
// depth of some enclosing block:
//
//	switch @s score
//	  case 1
//	    say one
//	  case 2..
//	    say many
//
// Indentation is counted in spaces; tabs are rejected.
//
// The form "execute <prefix...> run <command> <args...>" is recognized so that
// <command> can be a macro directive while the prefix is emitted unchanged.
//
// # Output
//
// [Parse] returns a [Tree]. The tree can be written back as a script with
// [Tree.Format], or dumped as JSON or YAML.
package lang
