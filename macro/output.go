package macro

import (
	"slices"
	"strings"
)

// Segment is a run of text in a function body. A segment with a non-empty
// Once key is emitted at most once per run, across all compilation units.
type Segment struct {
	Once string
	Text string
}

// Builder accumulates the body of one function.
type Builder struct {
	segments []Segment
}

// Append adds text to the body.
func (b *Builder) Append(text string) {
	if text == "" {
		return
	}

	if n := len(b.segments); n > 0 && b.segments[n-1].Once == "" {
		b.segments[n-1].Text += text

		return
	}

	b.segments = append(b.segments, Segment{Text: text})
}

// AppendOnce adds text under key. Text under a key already present in b is
// dropped; the run-level merge drops it across builders.
func (b *Builder) AppendOnce(key, text string) {
	if key == "" {
		b.Append(text)

		return
	}

	if slices.ContainsFunc(b.segments, func(s Segment) bool { return s.Once == key }) {
		return
	}

	b.segments = append(b.segments, Segment{Once: key, Text: text})
}

// Segments returns the body's segments in order.
func (b *Builder) Segments() []Segment { return b.segments }

// String returns the body text.
func (b *Builder) String() string {
	var sb strings.Builder
	for _, s := range b.segments {
		sb.WriteString(s.Text)
	}

	return sb.String()
}

// Output is everything one compilation unit produced: function bodies keyed
// by resource location ("namespace:path") and datapack tag membership.
type Output struct {
	functions map[string]*Builder
	order     []string
	tags      map[string][]string
}

// NewOutput returns an empty Output.
func NewOutput() *Output {
	return &Output{
		functions: map[string]*Builder{},
		tags:      map[string][]string{},
	}
}

// Function returns the builder for id, creating it if needed.
func (o *Output) Function(id string) *Builder {
	b, ok := o.functions[id]
	if !ok {
		b = &Builder{}
		o.functions[id] = b
		o.order = append(o.order, id)
	}

	return b
}

// Lookup returns the builder for id if it exists.
func (o *Output) Lookup(id string) (*Builder, bool) {
	b, ok := o.functions[id]

	return b, ok
}

// Functions returns the function ids in creation order.
func (o *Output) Functions() []string { return o.order }

// AddTag adds function id to tag unless already present.
func (o *Output) AddTag(tag, id string) {
	if !slices.Contains(o.tags[tag], id) {
		o.tags[tag] = append(o.tags[tag], id)
	}
}

// Tag returns the functions added to tag, in order.
func (o *Output) Tag(tag string) []string { return o.tags[tag] }
