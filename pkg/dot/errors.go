package dot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParseError reports malformed description text. Line and Near are filled in
// when the underlying parser's diagnostic carries them; Line is zero when the
// location is unknown.
type ParseError struct {
	Line int    // 1-based source line, 0 if unknown
	Near string // offending token, "" if unknown
	Msg  string // diagnostic text
}

// Error renders the diagnostic with whatever location information is known.
func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Near != "":
		return fmt.Sprintf("parse error at line %d near %q: %s", e.Line, e.Near, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Msg)
	default:
		return "parse error: " + e.Msg
	}
}

var (
	lineRe = regexp.MustCompile(`line (\d+)`)
	nearRe = regexp.MustCompile(`near '([^']*)'`)
)

// parseErrorFrom extracts location details from a parser diagnostic. Graphviz
// reports syntax errors as "... syntax error in line N near 'tok'"; anything
// it does not recognize is kept verbatim as the message.
func parseErrorFrom(err error) *ParseError {
	msg := strings.TrimSpace(err.Error())
	pe := &ParseError{Msg: msg}
	if m := lineRe.FindStringSubmatch(msg); m != nil {
		if n, convErr := strconv.Atoi(m[1]); convErr == nil {
			pe.Line = n
		}
	}
	if m := nearRe.FindStringSubmatch(msg); m != nil {
		pe.Near = m[1]
	}
	return pe
}
