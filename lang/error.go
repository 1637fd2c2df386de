package lang

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Sentinel errors raised while building a command tree.
var (
	ErrReadInput = NewError("failed to read input")
	ErrIndent    = NewError("inconsistent indentation")
	ErrIndentTab = NewError("tab character in indentation")
)

// Position identifies a line of a named source.
type Position struct {
	Source string
	Line   int
}

// String returns "source:line", omitting whichever part is unset.
func (p Position) String() string {
	switch {
	case p.Source == "" && p.Line <= 0:
		return ""
	case p.Line <= 0:
		return p.Source
	case p.Source == "":
		return "line " + strconv.Itoa(p.Line)
	default:
		return p.Source + ":" + strconv.Itoa(p.Line)
	}
}

// Error represents an error with an optional source position and structured
// logging attributes. It implements both error and [slog.LogValuer].
//
// Errors derived from a sentinel with [Error.Wrap], [Error.With], or
// [Error.WithPosition] still match that sentinel with [errors.Is].
type Error struct {
	kind  *Error
	msg   string
	err   error
	pos   Position
	attrs []slog.Attr
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.kind = e

	return e
}

// WrapError wraps a standard error into an Error. If err already is an Error,
// it is returned unchanged.
func WrapError(err error) *Error {
	if ee, ok := err.(*Error); ok {
		return ee
	}

	e := &Error{err: err}
	e.kind = e

	return e
}

// Error implements the error interface.
//
//	"<pos>: <msg>: <err>"
//
// Each part is omitted when unset.
func (e *Error) Error() string {
	part := make([]string, 0, 3)

	if s := e.pos.String(); s != "" {
		part = append(part, s)
	}

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && (t == e || (t.kind != nil && t.kind == e.kind))
}

// Position returns the source position, if any.
func (e *Error) Position() Position { return e.pos }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.pos.Source != "" {
		attrs = append(attrs, slog.String("source", e.pos.Source))
	}

	if e.pos.Line > 0 {
		attrs = append(attrs, slog.Int("line", e.pos.Line))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

func (e *Error) clone() *Error {
	c := *e

	return &c
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// Wrapf wraps a formatted message as the cause.
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// WithPosition returns a copy of e located at pos. A position already set on
// e is kept.
func (e *Error) WithPosition(pos Position) *Error {
	if e.pos != (Position{}) {
		return e
	}

	c := e.clone()
	c.pos = pos

	return c
}

// With adds attributes to the error for structured logging.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = make([]slog.Attr, 0, len(e.attrs)+len(attrs))
	c.attrs = append(c.attrs, e.attrs...)
	c.attrs = append(c.attrs, attrs...)

	return c
}

// Locate attaches pos to err. Errors that are not [*Error] are wrapped first.
func Locate(err error, pos Position) error {
	if err == nil {
		return nil
	}

	return WrapError(err).WithPosition(pos)
}
