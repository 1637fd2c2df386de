package builtin

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/mcmacros/lang"
	"github.com/ardnew/mcmacros/macro"
)

var (
	ErrFanout            = lang.NewError("switch fanout must be at least 2")
	ErrSwitchChild       = lang.NewError("switch block may only contain case statements")
	ErrDuplicateCase     = lang.NewError("duplicate case label")
	ErrCaseOrder         = lang.NewError("case ranges must be ascending and disjoint")
	ErrCaseOutsideSwitch = lang.NewError("case outside of switch")
	ErrRange             = lang.NewError("invalid range")
)

// Range is an inclusive integer interval as written in a score test: "5",
// "1..9", "10.." or "..-1". A missing bound is unbounded.
type Range struct {
	Min, Max int
}

const (
	unboundedMin = math.MinInt
	unboundedMax = math.MaxInt
)

// ParseRange parses s.
func ParseRange(s string) (Range, error) {
	lo, hi, isRange := strings.Cut(s, "..")
	if !isRange {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Range{}, ErrRange.Wrapf("%q", s)
		}

		return Range{Min: n, Max: n}, nil
	}

	r := Range{Min: unboundedMin, Max: unboundedMax}

	if lo == "" && hi == "" {
		return Range{}, ErrRange.Wrapf("%q has no bounds", s)
	}

	var err error

	if lo != "" {
		if r.Min, err = strconv.Atoi(lo); err != nil {
			return Range{}, ErrRange.Wrapf("%q", s)
		}
	}

	if hi != "" {
		if r.Max, err = strconv.Atoi(hi); err != nil {
			return Range{}, ErrRange.Wrapf("%q", s)
		}
	}

	if r.Min > r.Max {
		return Range{}, ErrRange.Wrapf("%q is empty", s)
	}

	return r, nil
}

// Contains reports whether n lies in r.
func (r Range) Contains(n int) bool { return n >= r.Min && n <= r.Max }

// Union returns the smallest range covering r and q.
func (r Range) Union(q Range) Range {
	return Range{Min: min(r.Min, q.Min), Max: max(r.Max, q.Max)}
}

func (r Range) String() string {
	if r.Min == r.Max {
		return strconv.Itoa(r.Min)
	}

	var lo, hi string
	if r.Min != unboundedMin {
		lo = strconv.Itoa(r.Min)
	}

	if r.Max != unboundedMax {
		hi = strconv.Itoa(r.Max)
	}

	return lo + ".." + hi
}

// Partition is the dispatch record of one case: the guards leading to its
// body, outermost first, and the number of enclosing guard functions, beyond
// its own innermost one, that are closed after its body.
type Partition struct {
	Ranges []string
	Exits  int
}

// DispatchTable maps each case label to its partition.
type DispatchTable map[string]*Partition

// BuildDispatchTable arranges labels, which must be ascending and disjoint
// ranges, into a tree of score tests with the given fanout. Each test splits
// its cases into fanout contiguous groups; a group of one case is a leaf and
// a larger group is tested by its covering range and split again.
//
// Emitting every case in label order, each entering one nested function per
// range of its partition and leaving Exits+1 of them after its body, keeps the
// function stack balanced.
func BuildDispatchTable(fanout int, labels []string) (DispatchTable, error) {
	if fanout < 2 {
		return nil, ErrFanout.Wrapf("got %d", fanout)
	}

	ranges := make([]Range, len(labels))

	for i, label := range labels {
		r, err := ParseRange(label)
		if err != nil {
			return nil, err
		}

		if slices.Index(labels, label) != i {
			return nil, ErrDuplicateCase.Wrapf("%q", label)
		}

		if i > 0 {
			prev := ranges[i-1]
			if prev.Max == unboundedMax || r.Min == unboundedMin || r.Min <= prev.Max {
				return nil, ErrCaseOrder.Wrapf("%q after %q", label, labels[i-1])
			}
		}

		ranges[i] = r
	}

	table := DispatchTable{}
	if len(labels) > 0 {
		buildTree(fanout, labels, ranges, table, &Partition{Exits: -1})
	}

	return table, nil
}

func buildTree(
	fanout int,
	labels []string,
	ranges []Range,
	table DispatchTable,
	parent *Partition,
) {
	n := len(labels)
	size := (n + fanout - 1) / fanout
	exits := 0

	for begin := 0; begin < n; begin += size {
		end := min(begin+size, n)
		single := end-begin == 1

		cover := labels[begin]
		if !single {
			r := ranges[begin]
			for _, q := range ranges[begin+1 : end] {
				r = r.Union(q)
			}

			cover = r.String()
		}

		var part *Partition

		switch {
		case begin == 0:
			// The first group continues the parent's partition: its guard is
			// opened inside the parent's innermost guard function.
			exits = parent.Exits
			parent.Exits = 0
			parent.Ranges = append(parent.Ranges, cover)
			part = parent

		case end < n:
			part = &Partition{Ranges: []string{cover}}

		default:
			// The last group also closes the functions the parent's first
			// group left open.
			part = &Partition{Exits: exits + 1, Ranges: []string{cover}}
		}

		if single {
			table[labels[begin]] = part
		} else {
			buildTree(fanout, labels[begin:end], ranges[begin:end], table, part)
		}
	}
}

// switchState is the dispatch table of the enclosing switch statement.
type switchState struct {
	node    *lang.Node
	table   DispatchTable
	targets string
	score   string
}

type switchKey struct{}

// switchDirective compiles
//
//	switch <targets> <objective> [fanout]
//	  case <range>
//	    ...
//
// into a balanced tree of "execute if score" tests.
type switchDirective struct{}

func (switchDirective) ArgTypes() []macro.ArgType {
	return []macro.ArgType{macro.ArgString, macro.ArgString, macro.ArgInt}
}

func (switchDirective) Command(_ *macro.Context, args macro.Args) error {
	if args.Len() < 2 {
		return macro.ErrArgument.Wrapf("usage: switch <targets> <objective> [fanout]")
	}

	if n := args.Int(2, 2); n < 2 {
		return ErrFanout.Wrapf("got %d", n)
	}

	return nil
}

func (switchDirective) BlockBegin(cx *macro.Context, args macro.Args) error {
	node := cx.Node()
	labels := make([]string, len(node.Children))

	for i, child := range node.Children {
		if child.Command != "case" || child.Execute != nil || len(child.Args) != 1 {
			return lang.Locate(
				ErrSwitchChild.Wrapf("found %q", child.String()),
				lang.Position{Source: cx.Source(), Line: child.Line},
			)
		}

		labels[i] = lang.Unquote(child.Args[0])
	}

	table, err := BuildDispatchTable(args.Int(2, 2), labels)
	if err != nil {
		return err
	}

	cx.SetState(switchKey{}, &switchState{
		node:    node,
		table:   table,
		targets: args.String(0, ""),
		score:   args.String(1, ""),
	})

	return nil
}

// caseDirective emits the guards leading to one case of the enclosing switch
// and binds ${range} to its label within its block.
type caseDirective struct{}

func (caseDirective) ArgTypes() []macro.ArgType { return []macro.ArgType{macro.ArgString} }

func (caseDirective) partition(cx *macro.Context, args macro.Args) (*Partition, error) {
	v, ok := cx.State(switchKey{})
	if !ok {
		return nil, ErrCaseOutsideSwitch
	}

	st := v.(*switchState)
	if !slices.Contains(st.node.Children, cx.Node()) {
		return nil, ErrCaseOutsideSwitch.Wrapf("case is nested in another case")
	}

	part, ok := st.table[lang.Unquote(args.String(0, ""))]
	if !ok {
		return nil, ErrCaseOutsideSwitch
	}

	return part, nil
}

func (c caseDirective) Command(cx *macro.Context, args macro.Args) error {
	part, err := c.partition(cx, args)
	if err != nil {
		return err
	}

	v, _ := cx.State(switchKey{})
	st := v.(*switchState)

	for _, r := range part.Ranges {
		guard := "execute if score " + st.targets + " " + st.score + " matches " + r + " run "
		if err := cx.Append(guard); err != nil {
			return err
		}

		if err := cx.EnterAnonymousFunction(); err != nil {
			return err
		}
	}

	if !cx.Node().HasBlock() {
		exitFunctions(cx, part.Exits+1)
	}

	return nil
}

func (caseDirective) BlockBegin(cx *macro.Context, args macro.Args) error {
	cx.Set("range", lang.Unquote(args.String(0, "")))

	return nil
}

func (c caseDirective) BlockEnd(cx *macro.Context, args macro.Args) error {
	part, err := c.partition(cx, args)
	if err != nil {
		return err
	}

	exitFunctions(cx, part.Exits+1)

	return nil
}

func exitFunctions(cx *macro.Context, n int) {
	for range n {
		cx.ExitFunction()
	}
}
