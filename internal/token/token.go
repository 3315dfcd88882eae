package token

import (
	"scriptkit/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
	// NewlineBefore is set when a line terminator precedes the token;
	// statement termination relies on it.
	NewlineBefore bool
}

// Is reports whether the token is an identifier or keyword spelled s.
func (t Token) Is(s string) bool {
	return (t.Kind == Ident || t.Kind.IsKeyword()) && t.Text == s
}

// IsIdentLike reports whether the token can serve as a property name.
func (t Token) IsIdentLike() bool {
	return t.Kind == Ident || t.Kind.IsKeyword()
}

// IsLiteral reports whether the token is a literal value.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Number, String, Regex, NoSubstTemplate, KwTrue, KwFalse, KwNull:
		return true
	default:
		return false
	}
}
