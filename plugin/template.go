package plugin

import (
	"strconv"

	"github.com/ardnew/mcmacros/lang"
	"github.com/ardnew/mcmacros/macro"
)

var (
	ErrEmptyTemplate = lang.NewError("directive has neither command nor block")
	ErrPrefix        = lang.NewError("block prefix requires an anonymous block")
)

// Template is a directive defined by lines of script text.
type Template struct {
	Types   []macro.ArgType `yaml:"types"`
	Command []string        `yaml:"command"`
	Block   *Block          `yaml:"block"`
}

// Block describes what a template directive emits around its block.
type Block struct {
	// Prefix is emitted before the call to the anonymous function.
	Prefix string `yaml:"prefix"`
	// Anonymous moves the block into a new function.
	Anonymous bool     `yaml:"anonymous"`
	Begin     []string `yaml:"begin"`
	End       []string `yaml:"end"`
}

func (t Template) directive() (macro.Directive, error) {
	cmd := commandTemplate{types: t.Types, lines: t.Command}

	if t.Block == nil {
		if len(t.Command) == 0 {
			return nil, ErrEmptyTemplate
		}

		return cmd, nil
	}

	if t.Block.Prefix != "" && !t.Block.Anonymous {
		return nil, ErrPrefix
	}

	blk := blockTemplate{types: t.Types, block: *t.Block}

	if len(t.Command) == 0 {
		return blk, nil
	}

	return commandBlockTemplate{cmd, blk}, nil
}

// bind defines the template variables for args in the current scope.
func bind(cx *macro.Context, args macro.Args) {
	cx.Set("words", args.Words())

	for i := range args.Len() {
		cx.Set("arg"+strconv.Itoa(i+1), args.Value(i))
	}
}

func emit(cx *macro.Context, lines []string) error {
	for _, line := range lines {
		if err := cx.AppendLine(line); err != nil {
			return err
		}
	}

	return nil
}

type commandTemplate struct {
	types []macro.ArgType
	lines []string
}

func (c commandTemplate) ArgTypes() []macro.ArgType { return c.types }

// Command emits the command lines in a scope of their own.
func (c commandTemplate) Command(cx *macro.Context, args macro.Args) error {
	cx.EnterScope()
	defer cx.ExitScope()

	bind(cx, args)

	return emit(cx, c.lines)
}

type blockTemplate struct {
	types []macro.ArgType
	block Block
}

func (b blockTemplate) ArgTypes() []macro.ArgType { return b.types }

func (b blockTemplate) BlockBegin(cx *macro.Context, args macro.Args) error {
	bind(cx, args)

	if b.block.Anonymous {
		if b.block.Prefix != "" {
			if err := cx.Append(b.block.Prefix + " "); err != nil {
				return err
			}
		}

		if err := cx.EnterAnonymousFunction(); err != nil {
			return err
		}

		cx.Set("self", cx.CurrentFunction())
	}

	return emit(cx, b.block.Begin)
}

func (b blockTemplate) BlockEnd(cx *macro.Context, _ macro.Args) error {
	if err := emit(cx, b.block.End); err != nil {
		return err
	}

	if b.block.Anonymous {
		cx.ExitFunction()
	}

	return nil
}

type commandBlockTemplate struct {
	commandTemplate
	blockTemplate
}

func (c commandBlockTemplate) ArgTypes() []macro.ArgType { return c.commandTemplate.types }
