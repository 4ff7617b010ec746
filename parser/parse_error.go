package parser

import (
	"fmt"
	"strings"

	"sheetengine/token"
)

// SyntaxError is an engineering error (spec.md §7, axis 1): malformed
// formula text surfaced synchronously from Parse, never an evaluator-time
// value.
type SyntaxError struct {
	Message string
	Token   token.Token
}

func (e *SyntaxError) Error() string {
	return e.Message
}

// FormatSyntaxErrors renders a caret-under-the-offending-column diagnostic
// for each error, in the teacher's parse-error format.
func FormatSyntaxErrors(errs []SyntaxError, source string) string {
	if len(errs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, formatSyntaxError(err, source))
	}
	return strings.Join(parts, "\n")
}

func formatSyntaxError(err SyntaxError, source string) string {
	if err.Token.Line == 0 || source == "" {
		return "parse error: " + err.Message
	}
	lines := strings.Split(source, "\n")
	line := err.Token.Line
	col := err.Token.Column
	if line < 1 || line > len(lines) {
		return "parse error: " + err.Message
	}
	lineText := strings.TrimRight(lines[line-1], "\r")
	if col < 1 {
		col = 1
	}
	if col > len(lineText)+1 {
		col = len(lineText) + 1
	}
	caret := strings.Repeat(" ", col-1) + "^"
	return fmt.Sprintf(
		"parse error: %s\n  at %d:%d\n  %d | %s\n    | %s",
		err.Message, line, col, line, lineText, caret,
	)
}
