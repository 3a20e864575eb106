// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides a streaming Unicode-aware lexer for formulas.
package scanner

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"nickandperla.net/fieldgen/internal/token"
)

// Scanner tokenizes formula input rune-by-rune.
type Scanner struct {
	reader *bufio.Reader
	buf    strings.Builder
	peeked *Item
	pos    int // Offset in runes of the next unread rune
}

// Item represents a scanned token with its value.
type Item struct {
	Token token.Token
	Value string
	Pos   int // Rune offset where this token started
}

// New creates a new Scanner from an io.Reader.
func New(r io.Reader) *Scanner {
	return &Scanner{reader: bufio.NewReader(r)}
}

// NewFromString creates a new Scanner from a string.
func NewFromString(s string) *Scanner {
	return New(strings.NewReader(s))
}

// Pos returns the rune offset of the next unread rune.
func (s *Scanner) Pos() int {
	return s.pos
}

// Peek returns the next item without consuming it.
func (s *Scanner) Peek() (*Item, error) {
	if s.peeked != nil {
		return s.peeked, nil
	}
	item, err := s.Next()
	if err != nil {
		return nil, err
	}
	s.peeked = item
	return item, nil
}

// Next returns the next token from the input.
func (s *Scanner) Next() (*Item, error) {
	if s.peeked != nil {
		item := s.peeked
		s.peeked = nil
		return item, nil
	}

	if err := s.skipWhitespace(); err != nil {
		return nil, err
	}

	start := s.pos
	r, err := s.read()
	if err == io.EOF {
		return &Item{Token: token.EOF, Pos: start}, nil
	}
	if err != nil {
		return nil, err
	}

	switch {
	case token.IsOperator(r):
		return &Item{Token: token.TokenFromRune(r), Value: string(r), Pos: start}, nil
	case isDigit(r) || r == '.':
		s.unread()
		value, err := s.scanNumber()
		if err != nil {
			return nil, err
		}
		return &Item{Token: token.NUMBER, Value: value, Pos: start}, nil
	case isIdentStart(r):
		s.unread()
		value, err := s.scanIdent()
		if err != nil {
			return nil, err
		}
		return &Item{Token: token.IDENT, Value: value, Pos: start}, nil
	}
	return &Item{Token: token.ILLEGAL, Value: string(r), Pos: start}, nil
}

func (s *Scanner) read() (rune, error) {
	r, _, err := s.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	s.pos++
	return r, nil
}

func (s *Scanner) unread() {
	if s.reader.UnreadRune() == nil {
		s.pos--
	}
}

// isIdentStart returns true if the rune may begin an identifier.
func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

// isIdentChar returns true if the rune is valid in an identifier (letter, digit, underscore).
func isIdentChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// scanIdent reads identifier characters.
func (s *Scanner) scanIdent() (string, error) {
	s.buf.Reset()
	for {
		r, err := s.read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if !isIdentChar(r) {
			s.unread()
			break
		}
		s.buf.WriteRune(r)
	}
	return s.buf.String(), nil
}

// scanNumber reads a decimal literal with an optional exponent, such as
// 12, 0.5, .5, 1e-3 or 2.5E+10. Validation is left to strconv.
func (s *Scanner) scanNumber() (string, error) {
	s.buf.Reset()
	inExponent := false
	for {
		r, err := s.read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch {
		case isDigit(r) || r == '.':
			s.buf.WriteRune(r)
			continue
		case (r == 'e' || r == 'E') && !inExponent:
			inExponent = true
			s.buf.WriteRune(r)
			sign, err := s.read()
			if err == io.EOF {
				return s.buf.String(), nil
			}
			if err != nil {
				return "", err
			}
			if sign == '+' || sign == '-' || isDigit(sign) {
				s.buf.WriteRune(sign)
			} else {
				s.unread()
			}
			continue
		}
		s.unread()
		break
	}
	return s.buf.String(), nil
}

// skipWhitespace consumes and discards whitespace.
func (s *Scanner) skipWhitespace() error {
	for {
		r, err := s.read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !unicode.IsSpace(r) {
			s.unread()
			return nil
		}
	}
}
