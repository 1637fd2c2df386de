package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes t as a command script, indenting each block by indent spaces
// (2 if indent is not positive). Parsing the result yields an equivalent tree
// apart from line numbers.
func (t *Tree) Format(_ context.Context, w io.Writer, indent int) error {
	if indent <= 0 {
		indent = 2
	}

	for depth, n := range t.Walk() {
		_, err := fmt.Fprintln(w, strings.Repeat(" ", depth*indent)+n.String())
		if err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes t as JSON, compact when indent is not positive.
func (t *Tree) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(t, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(t)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes t as YAML, in flow style when indent is not positive.
func (t *Tree) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent), yaml.IndentSequence(true))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, t, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}
