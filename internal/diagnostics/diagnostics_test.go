package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jacklang/jackc/internal/token"
)

func TestTokenValueErrorMessage(t *testing.T) {
	actual := token.Token{Kind: token.Symbol, Text: ",", Pos: token.Position{Line: 3, Column: 5}}
	err := NewTokenValueError(";", actual, "Main.jack", "do foo(),\n")
	assert.Equal(t, `Expected token: ;. Got: symbol ","`, err.Error())
	assert.Equal(t, TokenValueMismatch, err.Category)
}

func TestTokenKindErrorMessage(t *testing.T) {
	actual := token.Token{Kind: token.IntConst, Text: "5", Pos: token.Position{Line: 1, Column: 1}}
	err := NewTokenKindError("identifier", actual, "Main.jack", "5 + 1;")
	assert.Equal(t, `Expected token of type: identifier. Got: integerConstant "5"`, err.Error())
}

func TestUndefinedSymbolErrorMessage(t *testing.T) {
	at := token.Token{Kind: token.Identifier, Text: "unknownVar", Pos: token.Position{Line: 2, Column: 9}}
	err := NewUndefinedSymbolError("unknownVar", at, "Main.jack", "let x = unknownVar;")
	assert.Equal(t, "Undefined symbol: unknownVar", err.Error())
	assert.Equal(t, UndefinedSymbol, err.Category)
}

func TestFormatIncludesSourceLineAndCaret(t *testing.T) {
	source := "class Main {\n  let x = ;\n}"
	actual := token.Token{Kind: token.Symbol, Text: ";", Pos: token.Position{Line: 2, Column: 11}}
	err := NewTokenKindError("term", actual, "Main.jack", source)

	out := err.Format(false)
	assert.Contains(t, out, "Main.jack:2:11")
	assert.Contains(t, out, "let x = ;")
	assert.Contains(t, out, "^")
	assert.Contains(t, out, "Expected token of type: term")
}
