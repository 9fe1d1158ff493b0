package formula

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/midbel/gridcalc/formula/op"
	"github.com/midbel/gridcalc/layout"
	"github.com/midbel/gridcalc/value"
)

type Expr interface {
	fmt.Stringer
}

type binary struct {
	left  Expr
	right Expr
	op    op.Op
}

func NewBinary(left, right Expr, oper op.Op) Expr {
	return binary{
		left:  left,
		right: right,
		op:    oper,
	}
}

func (b binary) String() string {
	var (
		pow   = defaultBindings[b.op]
		left  = b.left.String()
		right = b.right.String()
	)
	if x, ok := b.left.(binary); ok && defaultBindings[x.op] < pow {
		left = "(" + left + ")"
	}
	if x, ok := b.right.(binary); ok && defaultBindings[x.op] <= pow {
		right = "(" + right + ")"
	}
	return fmt.Sprintf("%s %s %s", left, op.Symbol(b.op), right)
}

type unary struct {
	right Expr
	op    op.Op
}

func NewUnary(right Expr, oper op.Op) Expr {
	return unary{
		right: right,
		op:    oper,
	}
}

func (u unary) String() string {
	str := u.right.String()
	if _, ok := u.right.(binary); ok {
		str = "(" + str + ")"
	}
	return op.Symbol(u.op) + str
}

type number struct {
	value float64
}

func NewNumber(f float64) Expr {
	return number{
		value: f,
	}
}

func (n number) String() string {
	return strconv.FormatFloat(n.value, 'f', -1, 64)
}

type call struct {
	ident string
	args  []Expr
}

func NewCall(ident string, args []Expr) Expr {
	return call{
		ident: ident,
		args:  args,
	}
}

func (c call) String() string {
	var args []string
	for i := range c.args {
		args = append(args, c.args[i].String())
	}
	return fmt.Sprintf("%s(%s)", strings.ToUpper(c.ident), strings.Join(args, ", "))
}

type cellAddr struct {
	layout.Position
}

func NewAddress(pos layout.Position) Expr {
	return cellAddr{
		Position: pos,
	}
}

func (a cellAddr) String() string {
	return a.Position.Addr()
}

type rangeAddr struct {
	startAddr cellAddr
	endAddr   cellAddr
}

func NewRange(start, end cellAddr) Expr {
	return rangeAddr{
		startAddr: start,
		endAddr:   end,
	}
}

func (a rangeAddr) Range() *layout.Range {
	return layout.NewRange(a.startAddr.Position, a.endAddr.Position)
}

func (a rangeAddr) String() string {
	return fmt.Sprintf("%s:%s", a.startAddr.String(), a.endAddr.String())
}

// References lists the cells an expression points to directly, ranges
// expanded.
func References(expr Expr) []layout.Position {
	var list []layout.Position
	switch e := expr.(type) {
	case binary:
		list = append(list, References(e.left)...)
		list = append(list, References(e.right)...)
	case unary:
		list = append(list, References(e.right)...)
	case call:
		for i := range e.args {
			list = append(list, References(e.args[i])...)
		}
	case cellAddr:
		list = append(list, e.Position)
	case rangeAddr:
		for pos := range e.Range().Positions() {
			list = append(list, pos)
		}
	}
	return list
}

// Shift moves every reference of expr by the given count of lines and
// columns. It fails when a reference would leave the grid.
func Shift(expr Expr, lines, columns int) (Expr, error) {
	switch e := expr.(type) {
	case binary:
		left, err := Shift(e.left, lines, columns)
		if err != nil {
			return nil, err
		}
		right, err := Shift(e.right, lines, columns)
		if err != nil {
			return nil, err
		}
		return NewBinary(left, right, e.op), nil
	case unary:
		right, err := Shift(e.right, lines, columns)
		if err != nil {
			return nil, err
		}
		return NewUnary(right, e.op), nil
	case call:
		args := make([]Expr, 0, len(e.args))
		for i := range e.args {
			a, err := Shift(e.args[i], lines, columns)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		return NewCall(e.ident, args), nil
	case cellAddr:
		return e.shift(lines, columns)
	case rangeAddr:
		start, err := e.startAddr.shift(lines, columns)
		if err != nil {
			return nil, err
		}
		end, err := e.endAddr.shift(lines, columns)
		if err != nil {
			return nil, err
		}
		return NewRange(start, end), nil
	default:
		return expr, nil
	}
}

func (a cellAddr) shift(lines, columns int) (cellAddr, error) {
	pos := a.Offset(lines, columns)
	if !pos.Valid() {
		return a, fmt.Errorf("%w: %s moved outside of grid", value.ErrRef, a)
	}
	return cellAddr{Position: pos}, nil
}
