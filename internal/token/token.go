// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines formula token types.
package token

// Token represents a formula token type.
type Token int

const (
	EOF Token = iota
	ILLEGAL
	NUMBER
	IDENT

	// Operators and punctuation
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	CARET  // ^
	LPAREN // (
	RPAREN // )
	COMMA  // ,
)

// Punctuation runes.
const (
	RunePlus   = '+'
	RuneMinus  = '-'
	RuneStar   = '*'
	RuneSlash  = '/'
	RuneCaret  = '^'
	RuneLParen = '('
	RuneRParen = ')'
	RuneComma  = ','
)

// IsOperator returns true if the rune is a single-rune operator or
// punctuation token.
func IsOperator(r rune) bool {
	return TokenFromRune(r) != ILLEGAL
}

// TokenFromRune returns the token type for an operator rune.
func TokenFromRune(r rune) Token {
	switch r {
	case RunePlus:
		return PLUS
	case RuneMinus:
		return MINUS
	case RuneStar:
		return STAR
	case RuneSlash:
		return SLASH
	case RuneCaret:
		return CARET
	case RuneLParen:
		return LPAREN
	case RuneRParen:
		return RPAREN
	case RuneComma:
		return COMMA
	}
	return ILLEGAL
}

// String returns the string representation of a token.
func (t Token) String() string {
	switch t {
	case EOF:
		return "EOF"
	case ILLEGAL:
		return "ILLEGAL"
	case NUMBER:
		return "NUMBER"
	case IDENT:
		return "IDENT"
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case SLASH:
		return "/"
	case CARET:
		return "^"
	case LPAREN:
		return "("
	case RPAREN:
		return ")"
	case COMMA:
		return ","
	}
	return "UNKNOWN"
}

// IsAdditive returns true for + and -.
func (t Token) IsAdditive() bool {
	return t == PLUS || t == MINUS
}

// IsMultiplicative returns true for * and /.
func (t Token) IsMultiplicative() bool {
	return t == STAR || t == SLASH
}
