package lang

import (
	"iter"
	"strings"
)

// Node is one statement of a command script together with the statements
// indented beneath it.
type Node struct {
	// Execute holds the tokens between "execute" and "run" when the statement
	// has the form "execute <prefix...> run <command> <args...>". It is nil
	// for every other statement.
	Execute  []string `json:"execute,omitempty"  yaml:"execute,omitempty"`
	Command  string   `json:"command"            yaml:"command"`
	Args     []string `json:"args,omitempty"     yaml:"args,omitempty"`
	Children []*Node  `json:"children,omitempty" yaml:"children,omitempty"`
	Line     int      `json:"line"               yaml:"line"`
}

// HasBlock reports whether the node has an indented block.
func (n *Node) HasBlock() bool { return len(n.Children) > 0 }

// Words returns the arguments joined by single spaces.
func (n *Node) Words() string { return strings.Join(n.Args, " ") }

// String returns the statement text without indentation.
func (n *Node) String() string {
	var parts []string

	if n.Execute != nil {
		parts = append(parts, "execute")
		parts = append(parts, n.Execute...)
		parts = append(parts, "run")
	}

	parts = append(parts, n.Command)
	parts = append(parts, n.Args...)

	return strings.Join(parts, " ")
}

// Tree is the parsed form of one command script.
type Tree struct {
	Source string  `json:"source"          yaml:"source"`
	Nodes  []*Node `json:"nodes,omitempty" yaml:"nodes,omitempty"`
}

// Walk yields every node of t in document order along with its depth, where
// top-level nodes have depth 0.
func (t *Tree) Walk() iter.Seq2[int, *Node] {
	return func(yield func(int, *Node) bool) {
		walk(t.Nodes, 0, yield)
	}
}

func walk(nodes []*Node, depth int, yield func(int, *Node) bool) bool {
	for _, n := range nodes {
		if !yield(depth, n) || !walk(n.Children, depth+1, yield) {
			return false
		}
	}

	return true
}

// Len returns the total number of nodes in t.
func (t *Tree) Len() int {
	n := 0
	for range t.Walk() {
		n++
	}

	return n
}
