// Package diagnostics implements the compiler's three fatal error
// categories and renders them with source context, in the style of
// go-dws's internal/errors package: a file:line:column header, the
// offending source line, and a caret pointing at the column.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/jacklang/jackc/internal/token"
)

// Category is the closed set of fatal diagnostic kinds the compiler
// can report: an exact token value mismatch, a token-kind/grammar-slot
// mismatch, or a name that resolved in neither symbol table.
type Category int

const (
	TokenValueMismatch Category = iota
	TokenKindMismatch
	UndefinedSymbol
)

// Error is a single fatal compiler diagnostic. Compilation has no
// recovery path: the engine panics with an *Error on the first
// violation, Engine.Compile recovers it into a returned error, and the
// driver turns that error into an exit code.
type Error struct {
	Category Category
	Message  string
	Pos      token.Position
	File     string
	Source   string
}

func (e *Error) Error() string {
	return e.Message
}

// NewTokenValueError reports that the parser expected a specific
// token value and received a different one.
func NewTokenValueError(expected string, actual token.Token, file, source string) *Error {
	return &Error{
		Category: TokenValueMismatch,
		Message:  fmt.Sprintf("Expected token: %s. Got: %s", expected, actual),
		Pos:      actual.Pos,
		File:     file,
		Source:   source,
	}
}

// NewTokenKindError reports that the parser expected any token of a
// kind (or a named set, e.g. "var type") and received something else.
func NewTokenKindError(expectedName string, actual token.Token, file, source string) *Error {
	return &Error{
		Category: TokenKindMismatch,
		Message:  fmt.Sprintf("Expected token of type: %s. Got: %s", expectedName, actual),
		Pos:      actual.Pos,
		File:     file,
		Source:   source,
	}
}

// NewUndefinedSymbolError reports an identifier that resolved in
// neither symbol table.
func NewUndefinedSymbolError(name string, at token.Token, file, source string) *Error {
	return &Error{
		Category: UndefinedSymbol,
		Message:  fmt.Sprintf("Undefined symbol: %s", name),
		Pos:      at.Pos,
		File:     file,
		Source:   source,
	}
}

// Format renders the diagnostic with a file:line:column header, the
// source line, and a caret under the offending column. When useColor
// is true the caret and message are bolded/colored, matching the gate
// cmd/jackc applies via go-isatty before calling Format.
func (e *Error) Format(useColor bool) string {
	var b strings.Builder

	header := fmt.Sprintf("Error in %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Column)
	if useColor {
		header = color.New(color.Bold).Sprint(header)
	}
	b.WriteString(header)

	if line := sourceLine(e.Source, e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteString("\n")

		caret := strings.Repeat(" ", len(prefix)+e.Pos.Column-1) + "^"
		if useColor {
			caret = color.New(color.FgRed, color.Bold).Sprint(caret)
		}
		b.WriteString(caret)
		b.WriteString("\n")
	}

	msg := e.Message
	if useColor {
		msg = color.New(color.Bold).Sprint(msg)
	}
	b.WriteString(msg)

	return b.String()
}

func sourceLine(src string, line int) string {
	if line < 1 {
		return ""
	}
	lines := strings.Split(src, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}
