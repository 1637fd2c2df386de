package macro

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/mcmacros/lang"
)

// Process compiles tree into the unit's output, dispatching each statement in
// document order. It stops at the first error, which carries the position of
// the innermost failing statement, or when ctx is cancelled.
func (cx *Context) Process(ctx context.Context, tree *lang.Tree) error {
	if err := cx.process(ctx, tree.Nodes); err != nil {
		return err
	}

	cx.logger.DebugContext(ctx, "unit compiled",
		slog.Int("functions", len(cx.output.Functions())),
		slog.Int("anonymous", cx.anon))

	return nil
}

func (cx *Context) process(ctx context.Context, nodes []*lang.Node) error {
	for _, node := range nodes {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := cx.dispatch(ctx, node); err != nil {
			return lang.Locate(err, lang.Position{Source: cx.source, Line: node.Line})
		}
	}

	return nil
}

func (cx *Context) dispatch(ctx context.Context, node *lang.Node) error {
	cx.node = node

	if node.Execute != nil {
		prefix := make([]string, 0, len(node.Execute)+2)
		prefix = append(prefix, "execute")
		prefix = append(prefix, node.Execute...)
		prefix = append(prefix, "run")

		if err := cx.Append(strings.Join(prefix, " ") + " "); err != nil {
			return err
		}
	}

	entry, ok := cx.registry.Lookup(node.Command)
	if !ok {
		if node.HasBlock() {
			return ErrUnexpectedBlock.Wrapf("%q%s",
				node.Command, Suggest(node.Command, cx.registry.Names()))
		}

		return cx.AppendLine(append([]string{node.Command}, node.Args...)...)
	}

	cx.logger.TraceContext(ctx, "dispatch",
		slog.Int("line", node.Line),
		slog.String("directive", entry.Name),
		slog.String("roles", entry.Roles.String()))

	args, err := cx.coerce(entry.Types, node.Args)
	if err != nil {
		return err
	}

	if entry.Roles.Has(RoleCommand) {
		if err := entry.Directive.(Commander).Command(cx, args); err != nil {
			return err
		}
	}

	if !node.HasBlock() {
		if entry.Roles&RoleCommand == 0 &&
			entry.Roles&(RoleBlockBegin|RoleBlockRepeat|RoleBlockEnd) != 0 {
			return ErrMissingBlock.Wrapf("%q", entry.Name)
		}

		return nil
	}

	return cx.block(ctx, node, entry, args)
}

// block runs the lifecycle of a statement's indented block inside a new
// scope.
func (cx *Context) block(
	ctx context.Context,
	node *lang.Node,
	entry Entry,
	args Args,
) error {
	cx.EnterScope()
	defer cx.ExitScope()

	if entry.Roles.Has(RoleBlockBegin) {
		cx.node = node
		if err := entry.Directive.(BlockBeginner).BlockBegin(cx, args); err != nil {
			return err
		}
	}

	if entry.Roles.Has(RoleBlockRepeat) {
		for {
			cx.node = node

			more, err := entry.Directive.(BlockRepeater).BlockRepeat(cx, args)
			if err != nil {
				return err
			}

			if !more {
				break
			}

			if err := cx.process(ctx, node.Children); err != nil {
				return err
			}
		}
	} else if err := cx.process(ctx, node.Children); err != nil {
		return err
	}

	if entry.Roles.Has(RoleBlockEnd) {
		cx.node = node

		return entry.Directive.(BlockEnder).BlockEnd(cx, args)
	}

	return nil
}
