package lang

import "strings"

const (
	openers = "[{("
	closers = "]})"
)

func isSeparator(c byte) bool { return c == ' ' || c == '\t' }

// Tokenize splits a command line into tokens at unbracketed, unquoted spaces
// and tabs. Tokens keep their delimiters verbatim, so
//
//	tp @s {"a": [1, 2]} "x y"
//
// yields ["tp", "@s", `{"a": [1, 2]}`, `"x y"`].
//
// Brackets nest, quotes may appear inside brackets, and a backslash inside a
// quoted string escapes the next character. An unclosed bracket or quote
// extends its token to the end of the line.
func Tokenize(line string) []string {
	var tokens []string

	for i := 0; i < len(line); {
		if isSeparator(line[i]) {
			i++

			continue
		}

		end := scanToken(line, i, 0)
		tokens = append(tokens, line[i:end])
		i = end
	}

	return tokens
}

// scanToken returns the offset just past the region starting at begin. With
// close == 0 the region is a top-level token ending at a separator; otherwise
// it ends just after the matching close byte.
func scanToken(line string, begin int, close byte) int {
	i := begin
	for i < len(line) {
		c := line[i]

		switch {
		case close != 0 && c == close:
			return i + 1
		case close == 0 && isSeparator(c):
			return i
		case c == '"' || c == '\'':
			i = scanQuoted(line, i+1, c)
		default:
			if k := strings.IndexByte(openers, c); k >= 0 {
				i = scanToken(line, i+1, closers[k])
			} else {
				i++
			}
		}
	}

	return len(line)
}

func scanQuoted(line string, begin int, quote byte) int {
	for i := begin; i < len(line); i++ {
		switch line[i] {
		case quote:
			return i + 1
		case '\\':
			i++
		}
	}

	return len(line)
}

// Unquote removes one layer of matching single or double quotes from s.
// Backslash escapes inside the quotes are resolved. Any other input is
// returned unchanged.
func Unquote(s string) string {
	if len(s) < 2 {
		return s
	}

	q := s[0]
	if (q != '"' && q != '\'') || s[len(s)-1] != q {
		return s
	}

	var b strings.Builder

	body := s[1 : len(s)-1]
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
		}

		b.WriteByte(body[i])
	}

	return b.String()
}
