// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package factory

import (
	"errors"
	"fmt"
	"strconv"

	"nickandperla.net/fieldgen/internal/field"
	"nickandperla.net/fieldgen/internal/scanner"
	"nickandperla.net/fieldgen/internal/token"
)

// ParseError reports a malformed formula.
type ParseError struct {
	Formula string
	Pos     int // Rune offset of the offending token
	Msg     string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %q at %d: %s: %v", e.Formula, e.Pos, e.Msg, e.Err)
	}
	return fmt.Sprintf("parse %q at %d: %s", e.Formula, e.Pos, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsArity returns true if err is a parse failure caused by a bad child count.
func IsArity(err error) bool {
	var ae *field.ArityError
	return errors.As(err, &ae)
}

// parser is a recursive-descent parser:
//
//	expr    := term (('+'|'-') term)*
//	term    := unary (('*'|'/') unary)*
//	unary   := '-' unary | power
//	power   := primary ('^' unary)?
//	primary := NUMBER | IDENT ['(' args ')'] | '(' expr ')'
type parser struct {
	f       *Factory
	formula string
	scan    *scanner.Scanner
}

func newParser(f *Factory, formula string) *parser {
	return &parser{f: f, formula: formula, scan: scanner.NewFromString(formula)}
}

func (p *parser) errorf(pos int, format string, args ...any) error {
	return &ParseError{Formula: p.formula, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) peek() (*scanner.Item, error) {
	item, err := p.scan.Peek()
	if err != nil {
		return nil, &ParseError{Formula: p.formula, Pos: p.scan.Pos(), Msg: "read failed", Err: err}
	}
	return item, nil
}

func (p *parser) next() (*scanner.Item, error) {
	item, err := p.scan.Next()
	if err != nil {
		return nil, &ParseError{Formula: p.formula, Pos: p.scan.Pos(), Msg: "read failed", Err: err}
	}
	return item, nil
}

// advance consumes the token returned by the last peek. Peeked tokens are
// buffered, so this cannot fail.
func (p *parser) advance() {
	_, _ = p.scan.Next()
}

func (p *parser) expect(tok token.Token) (*scanner.Item, error) {
	item, err := p.next()
	if err != nil {
		return nil, err
	}
	if item.Token != tok {
		return nil, p.errorf(item.Pos, "expected %s, got %s", tok, describe(item))
	}
	return item, nil
}

func describe(item *scanner.Item) string {
	if item.Token == token.EOF {
		return "end of input"
	}
	return strconv.Quote(item.Value)
}

func (p *parser) parse() (field.Generator, error) {
	g, err := p.expr()
	if err != nil {
		return nil, err
	}
	item, err := p.next()
	if err != nil {
		return nil, err
	}
	if item.Token != token.EOF {
		return nil, p.errorf(item.Pos, "unexpected %s after expression", describe(item))
	}
	return g, nil
}

func (p *parser) expr() (field.Generator, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		item, err := p.peek()
		if err != nil {
			return nil, err
		}
		if !item.Token.IsAdditive() {
			return left, nil
		}
		p.advance()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		if left, err = p.operator(item, left, right); err != nil {
			return nil, err
		}
	}
}

func (p *parser) term() (field.Generator, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		item, err := p.peek()
		if err != nil {
			return nil, err
		}
		if !item.Token.IsMultiplicative() {
			return left, nil
		}
		p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		if left, err = p.operator(item, left, right); err != nil {
			return nil, err
		}
	}
}

func (p *parser) unary() (field.Generator, error) {
	item, err := p.peek()
	if err != nil {
		return nil, err
	}
	if item.Token == token.MINUS {
		p.advance()
		arg, err := p.unary()
		if err != nil {
			return nil, err
		}
		return field.Neg(arg), nil
	}
	return p.power()
}

func (p *parser) power() (field.Generator, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	item, err := p.peek()
	if err != nil {
		return nil, err
	}
	if item.Token != token.CARET {
		return base, nil
	}
	p.advance()
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return p.operator(item, base, exp)
}

func (p *parser) operator(op *scanner.Item, left, right field.Generator) (field.Generator, error) {
	proto, ok := field.NewOperator(op.Value)
	if !ok {
		return nil, p.errorf(op.Pos, "unknown operator %q", op.Value)
	}
	return proto.Bind([]field.Generator{left, right})
}

func (p *parser) primary() (field.Generator, error) {
	item, err := p.next()
	if err != nil {
		return nil, err
	}
	switch item.Token {
	case token.NUMBER:
		v, err := strconv.ParseFloat(item.Value, 64)
		if err != nil {
			return nil, &ParseError{Formula: p.formula, Pos: item.Pos, Msg: "invalid number " + strconv.Quote(item.Value), Err: err}
		}
		return field.NewConstant(v), nil
	case token.LPAREN:
		g, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return g, nil
	case token.IDENT:
		return p.call(item)
	}
	return nil, p.errorf(item.Pos, "unexpected %s", describe(item))
}

// call resolves name or name(args...) and binds its prototype.
func (p *parser) call(name *scanner.Item) (field.Generator, error) {
	proto, ok := p.f.Lookup(name.Value)
	if !ok {
		return nil, p.errorf(name.Pos, "unknown name %q", name.Value)
	}

	var args []field.Generator
	item, err := p.peek()
	if err != nil {
		return nil, err
	}
	if item.Token == token.LPAREN {
		p.advance()
		if args, err = p.args(); err != nil {
			return nil, err
		}
	}

	g, err := proto.Bind(args)
	if err != nil {
		return nil, &ParseError{Formula: p.formula, Pos: name.Pos, Msg: "in call to " + name.Value, Err: err}
	}
	return g, nil
}

// args parses a comma-separated list after '(' up to and including ')'.
func (p *parser) args() ([]field.Generator, error) {
	item, err := p.peek()
	if err != nil {
		return nil, err
	}
	if item.Token == token.RPAREN {
		p.advance()
		return []field.Generator{}, nil
	}

	var args []field.Generator
	for {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		item, err := p.next()
		if err != nil {
			return nil, err
		}
		switch item.Token {
		case token.COMMA:
			continue
		case token.RPAREN:
			return args, nil
		}
		return nil, p.errorf(item.Pos, "expected , or ), got %s", describe(item))
	}
}
