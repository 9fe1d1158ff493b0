package formula

import (
	"fmt"

	"github.com/midbel/gridcalc/formula/op"
)

const (
	powLowest = iota
	powAdd
	powMul
	powUnary
	powRange
)

type (
	PrefixFunc func(*Parser) (Expr, error)
	InfixFunc  func(*Parser, Expr) (Expr, error)
)

type Grammar struct {
	name string

	prefix   map[op.Op]PrefixFunc
	infix    map[op.Op]InfixFunc
	bindings map[op.Op]int
}

func NewGrammar(name string) *Grammar {
	return &Grammar{
		name:     name,
		prefix:   make(map[op.Op]PrefixFunc),
		infix:    make(map[op.Op]InfixFunc),
		bindings: make(map[op.Op]int),
	}
}

// FormulaGrammar accepts the arithmetic expressions stored in cells after
// their leading '='.
func FormulaGrammar() *Grammar {
	g := NewGrammar("formula")

	g.RegisterPrefix(op.Cell, parseAddress)
	g.RegisterPrefix(op.Ident, parseCall)
	g.RegisterPrefix(op.Number, parseNumber)
	g.RegisterPrefix(op.Sub, parseUnary)
	g.RegisterPrefix(op.Add, parseUnary)
	g.RegisterPrefix(op.BegGrp, parseGroup)

	g.RegisterInfix(op.RangeRef, parseRangeAddress)
	g.RegisterInfix(op.Add, parseBinary)
	g.RegisterInfix(op.Sub, parseBinary)
	g.RegisterInfix(op.Mul, parseBinary)
	g.RegisterInfix(op.Div, parseBinary)

	g.RegisterBinding(op.Add, powAdd)
	g.RegisterBinding(op.Sub, powAdd)
	g.RegisterBinding(op.Mul, powMul)
	g.RegisterBinding(op.Div, powMul)
	g.RegisterBinding(op.RangeRef, powRange)

	return g
}

var defaultBindings = FormulaGrammar().bindings

func (g *Grammar) Context() string {
	return g.name
}

func (g *Grammar) Pow(kind op.Op) int {
	pow, ok := g.bindings[kind]
	if !ok {
		pow = powLowest
	}
	return pow
}

func (g *Grammar) Prefix(tok Token) (PrefixFunc, error) {
	fn, ok := g.prefix[tok.Type]
	if !ok {
		return nil, fmt.Errorf("(%d) %s: unsupported prefix operator (%s)", tok.Offset, g.name, tok)
	}
	return fn, nil
}

func (g *Grammar) Infix(tok Token) (InfixFunc, error) {
	fn, ok := g.infix[tok.Type]
	if !ok {
		return nil, fmt.Errorf("(%d) %s: unsupported infix operator (%s)", tok.Offset, g.name, tok)
	}
	return fn, nil
}

func (g *Grammar) RegisterPrefix(kd op.Op, fn PrefixFunc) {
	g.prefix[kd] = fn
}

func (g *Grammar) RegisterInfix(kd op.Op, fn InfixFunc) {
	g.infix[kd] = fn
}

func (g *Grammar) RegisterBinding(kd op.Op, pow int) {
	g.bindings[kd] = pow
}
