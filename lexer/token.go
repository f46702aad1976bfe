// Package lexer tokenizes Poke source text for the parser (spec.md §4.6).
//
// Grounded on the teacher's flat, single-pass style (internal/tdp/vm's
// register-threaded dispatch loop reads one decision at a time off a
// cursor over a byte buffer; this lexer does the same over source text
// instead of wire bytes).
package lexer

// Kind identifies a token's lexical class.
type Kind uint8

const (
	EOF Kind = iota
	Ident
	IntLit
	StrLit
	AlienIdent // a "$foo"-style token, possibly routed through the alien hook
	Keyword
	Punct
	Error
)

// Token is one lexical unit: its kind, literal text, and source position.
type Token struct {
	Kind Kind
	Text string
	Line, Col int

	// IntVal/Base are populated for IntLit.
	IntVal int64
	Base   int

	// Resolved is set by the alien-token hook (lexical cuckolding,
	// spec.md §4.6) when it recognizes an AlienIdent; the parser treats a
	// resolved alien token as an ordinary identifier bound to this text.
	Resolved string
}

var keywords = map[string]bool{
	"if": true, "else": true, "while": true, "for": true, "in": true,
	"where": true, "break": true, "continue": true, "return": true,
	"try": true, "catch": true, "until": true, "raise": true,
	"struct": true, "union": true, "enum": true, "fun": true, "var": true,
	"print": true, "printf": true, "load": true, "type": true, "method": true,
	"pinned": true, "isa": true, "defer": true,
}

// IsKeyword reports whether s is reserved.
func IsKeyword(s string) bool { return keywords[s] }
