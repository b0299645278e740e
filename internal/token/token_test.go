package token

import "testing"

func TestIntValue(t *testing.T) {
	tests := []struct {
		text string
		want int
		ok   bool
	}{
		{"0", 0, true},
		{"32767", 32767, true},
		{"007", 7, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		tok := Token{Kind: IntConst, Text: tt.text}
		got, ok := tok.IntValue()
		if ok != tt.ok || got != tt.want {
			t.Errorf("Token{%q}.IntValue() = %d, %v; want %d, %v", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIntValueWrongKind(t *testing.T) {
	tok := Token{Kind: Identifier, Text: "42"}
	if _, ok := tok.IntValue(); ok {
		t.Errorf("IntValue() on non-IntConst token should fail")
	}
}

func TestIs(t *testing.T) {
	sym := Token{Kind: Symbol, Text: ";"}
	if !sym.Is(";") {
		t.Errorf("expected symbol token to match its own text")
	}
	ident := Token{Kind: Identifier, Text: ";"}
	if ident.Is(";") {
		t.Errorf("an identifier with text \";\" must not satisfy Is(\";\") — Is is for symbols/keywords only")
	}
}

func TestIsAny(t *testing.T) {
	kw := Token{Kind: Keyword, Text: "return"}
	if !kw.IsAny("let", "return", "do") {
		t.Errorf("expected IsAny to find a match in the set")
	}
	if kw.IsAny("let", "do") {
		t.Errorf("expected IsAny to report no match")
	}
}
