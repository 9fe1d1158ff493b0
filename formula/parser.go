package formula

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/midbel/gridcalc/formula/op"
	"github.com/midbel/gridcalc/layout"
	"github.com/midbel/gridcalc/value"
)

type Parser struct {
	scan *Scanner
	curr Token
	peek Token

	grammar *Grammar
}

// ParseFormula parses the raw text of a formula cell, with or without its
// leading '='.
func ParseFormula(raw string) (Expr, error) {
	p := NewParser(FormulaGrammar())
	return p.ParseString(value.Expression(raw))
}

func NewParser(g *Grammar) *Parser {
	return &Parser{
		grammar: g,
	}
}

func (p *Parser) ParseString(str string) (Expr, error) {
	p.scan = Scan(str)
	p.next()
	p.next()
	return p.parseFormula()
}

func (p *Parser) parseFormula() (Expr, error) {
	if p.done() {
		return nil, p.makeError("empty formula")
	}
	expr, err := p.parse(powLowest)
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, p.makeError(fmt.Sprintf("unexpected %s after expression", p.curr))
	}
	if _, ok := expr.(rangeAddr); ok {
		return nil, p.makeError("range only allowed as function argument")
	}
	return expr, nil
}

func (p *Parser) parse(pow int) (Expr, error) {
	fn, err := p.prefix()
	if err != nil {
		return nil, err
	}
	left, err := fn(p)
	if err != nil {
		return nil, err
	}
	for !p.done() && pow < p.pow(p.curr.Type) {
		fn, err := p.infix()
		if err != nil {
			return nil, err
		}
		left, err = fn(p, left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) next() {
	p.curr = p.peek
	p.peek = p.scan.Scan()
}

func (p *Parser) done() bool {
	return p.is(op.EOF)
}

func (p *Parser) is(kind op.Op) bool {
	return p.curr.Type == kind
}

func (p *Parser) currentLiteral() string {
	return p.curr.Literal
}

func (p *Parser) pow(kind op.Op) int {
	return p.grammar.Pow(kind)
}

func (p *Parser) prefix() (PrefixFunc, error) {
	fn, err := p.grammar.Prefix(p.curr)
	if err != nil {
		err = fmt.Errorf("%w: %w", value.ErrSyntax, err)
	}
	return fn, err
}

func (p *Parser) infix() (InfixFunc, error) {
	fn, err := p.grammar.Infix(p.curr)
	if err != nil {
		err = fmt.Errorf("%w: %w", value.ErrSyntax, err)
	}
	return fn, err
}

func (p *Parser) makeError(msg string) error {
	return fmt.Errorf("%w: (%s) %d: %s", value.ErrSyntax, p.grammar.Context(), p.curr.Offset, msg)
}

func parseCall(p *Parser) (Expr, error) {
	name := p.currentLiteral()
	if p.peek.Type != op.BegGrp {
		return nil, fmt.Errorf("%w: %s is neither a function call nor a cell", value.ErrName, name)
	}
	p.next()
	p.next()

	var args []Expr
	if p.is(op.EndGrp) {
		p.next()
		return NewCall(name, args), nil
	}
	for {
		arg, err := p.parse(powLowest)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		switch p.curr.Type {
		case op.Comma:
			p.next()
			continue
		case op.EndGrp:
			p.next()
			return NewCall(name, args), nil
		default:
			return nil, p.makeError("unexpected character in function call")
		}
	}
}

func parseBinary(p *Parser, left Expr) (Expr, error) {
	oper := p.curr.Type
	p.next()
	right, err := p.parse(p.pow(oper))
	if err != nil {
		return nil, err
	}
	return NewBinary(left, right, oper), nil
}

func parseUnary(p *Parser) (Expr, error) {
	oper := p.curr.Type
	p.next()
	right, err := p.parse(powUnary)
	if err != nil {
		return nil, err
	}
	return NewUnary(right, oper), nil
}

func parseGroup(p *Parser) (Expr, error) {
	p.next()
	expr, err := p.parse(powLowest)
	if err != nil {
		return nil, err
	}
	if !p.is(op.EndGrp) {
		return nil, p.makeError("missing ')' at end of expression")
	}
	if _, ok := expr.(rangeAddr); ok {
		return nil, p.makeError("range only allowed as function argument")
	}
	p.next()
	return expr, nil
}

func parseNumber(p *Parser) (Expr, error) {
	defer p.next()

	x, err := strconv.ParseFloat(p.currentLiteral(), 64)
	if err != nil {
		return nil, p.makeError(fmt.Sprintf("invalid number %q", p.currentLiteral()))
	}
	return NewNumber(x), nil
}

func parseAddress(p *Parser) (Expr, error) {
	pos, err := layout.ParsePosition(strings.ToUpper(p.currentLiteral()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", value.ErrSyntax, err)
	}
	p.next()
	return NewAddress(pos), nil
}

func parseRangeAddress(p *Parser, left Expr) (Expr, error) {
	p.next()

	start, ok := left.(cellAddr)
	if !ok {
		return nil, p.makeError("range: address expected")
	}
	if !p.is(op.Cell) {
		return nil, p.makeError("range: address expected")
	}
	addr, err := parseAddress(p)
	if err != nil {
		return nil, err
	}
	end, ok := addr.(cellAddr)
	if !ok {
		return nil, p.makeError("range: address expected")
	}
	return NewRange(start, end), nil
}
