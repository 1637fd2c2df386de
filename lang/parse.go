package lang

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/mcmacros/log"
)

// Option configures [Parse].
type Option func(*parser)

// WithLogger sets the logger that receives per-statement trace records.
func WithLogger(logger log.Logger) Option {
	return func(p *parser) { p.logger = logger }
}

// Parse reads a command script from r and builds its [Tree]. The name is
// recorded as the tree's source and in the position of every error.
//
// Blank lines and lines whose first non-blank character is '#' are ignored.
// A statement's depth is its count of leading spaces. A statement deeper than
// the previous one opens a block under it; a shallower statement must return
// to exactly the depth of an enclosing block.
func Parse(
	ctx context.Context,
	name string,
	r io.Reader,
	opts ...Option,
) (*Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.WithPosition(Position{Source: name}).Wrap(err)
	}

	return ParseString(ctx, name, string(data), opts...)
}

// ParseString builds a [Tree] from the script s. See [Parse].
func ParseString(
	ctx context.Context,
	name, s string,
	opts ...Option,
) (*Tree, error) {
	p := &parser{
		tree:   &Tree{Source: name},
		logger: log.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.stack = []block{{nodes: &p.tree.Nodes}}

	for i, line := range strings.Split(s, "\n") {
		if err := p.line(ctx, i+1, strings.TrimSuffix(line, "\r")); err != nil {
			return nil, err
		}
	}

	p.logger.DebugContext(ctx, "parse complete",
		slog.String("source", name),
		slog.Int("statements", p.tree.Len()))

	return p.tree, nil
}

// block is an open indentation level: the list receiving new statements and
// the depth of those statements.
type block struct {
	nodes *[]*Node
	depth int
}

type parser struct {
	logger    log.Logger
	tree      *Tree
	last      *Node
	stack     []block
	lastDepth int
}

func (p *parser) line(ctx context.Context, num int, line string) error {
	text := strings.TrimLeft(line, " \t")
	if text == "" || text[0] == '#' || strings.TrimSpace(text) == "" {
		return nil
	}

	pos := Position{Source: p.tree.Source, Line: num}

	indent := line[:len(line)-len(text)]
	if strings.ContainsRune(indent, '\t') {
		return ErrIndentTab.WithPosition(pos)
	}

	depth := len(indent)

	switch {
	case depth > p.lastDepth:
		if p.last == nil {
			return ErrIndent.WithPosition(pos).
				Wrapf("indented statement has no parent")
		}

		p.stack = append(p.stack, block{nodes: &p.last.Children, depth: depth})

	case depth < p.lastDepth:
		k := len(p.stack) - 1
		for k >= 0 && p.stack[k].depth != depth {
			k--
		}

		if k < 0 {
			return ErrIndent.WithPosition(pos).
				Wrapf("dedent to column %d matches no enclosing block", depth)
		}

		p.stack = p.stack[:k+1]
	}

	node := newNode(num, text)

	top := p.stack[len(p.stack)-1]
	*top.nodes = append(*top.nodes, node)

	p.last, p.lastDepth = node, depth

	p.logger.TraceContext(ctx, "statement",
		slog.Int("line", num),
		slog.Int("depth", len(p.stack)-1),
		slog.String("command", node.Command))

	return nil
}

func newNode(line int, text string) *Node {
	tokens := Tokenize(text)
	node := &Node{Line: line, Command: tokens[0], Args: tokens[1:]}

	if node.Command != "execute" {
		return node
	}

	run := slices.Index(tokens, "run")
	if run < 0 || run+1 >= len(tokens) {
		return node
	}

	node.Execute = append([]string{}, tokens[1:run]...)
	node.Command = tokens[run+1]
	node.Args = tokens[run+2:]

	return node
}
