package formula

import (
	"errors"
	"fmt"
	"strings"

	"github.com/midbel/gridcalc/formula/op"
	"github.com/midbel/gridcalc/layout"
	"github.com/midbel/gridcalc/value"
)

var ErrEval = errors.New("expression can not be evaluated")

// Source gives the evaluator read access to the raw text of the grid.
type Source interface {
	Raw(layout.Position) string
	Contains(layout.Position) bool
}

// Visited holds the cells of the current evaluation path.
type Visited map[layout.Position]struct{}

func NewVisited() Visited {
	return make(Visited)
}

func (v Visited) Has(pos layout.Position) bool {
	_, ok := v[pos]
	return ok
}

func (v Visited) enter(pos layout.Position) {
	v[pos] = struct{}{}
}

func (v Visited) leave(pos layout.Position) {
	delete(v, pos)
}

type Evaluator struct {
	source Source
	cache  map[string]Expr
}

func NewEvaluator(src Source) *Evaluator {
	return &Evaluator{
		source: src,
		cache:  make(map[string]Expr),
	}
}

// Eval computes the value of the cell at pos starting a new evaluation path.
func (e *Evaluator) Eval(pos layout.Position) (float64, bool) {
	f, err := e.EvalCell(pos, NewVisited())
	return f, err == nil
}

// EvalCell computes the value of the cell at pos. A cell already present in
// visited is a circular reference. pos is part of visited only for the
// duration of the call.
func (e *Evaluator) EvalCell(pos layout.Position, visited Visited) (float64, error) {
	if !e.source.Contains(pos) {
		return 0, fmt.Errorf("%w: %s out of grid", value.ErrRef, pos)
	}
	if visited.Has(pos) {
		return 0, fmt.Errorf("%w: %s", value.ErrCycle, pos)
	}
	visited.enter(pos)
	defer visited.leave(pos)

	raw := strings.TrimSpace(e.source.Raw(pos))
	switch value.KindOf(raw) {
	case value.KindEmpty:
		return 0, nil
	case value.KindLiteral:
		return value.CastToFloat(raw)
	default:
	}
	expr, err := e.parse(raw)
	if err != nil {
		return 0, err
	}
	return e.eval(expr, visited)
}

func (e *Evaluator) parse(raw string) (Expr, error) {
	if expr, ok := e.cache[raw]; ok {
		return expr, nil
	}
	expr, err := ParseFormula(raw)
	if err != nil {
		return nil, err
	}
	e.cache[raw] = expr
	return expr, nil
}

func (e *Evaluator) eval(expr Expr, visited Visited) (float64, error) {
	switch x := expr.(type) {
	case number:
		return x.value, nil
	case cellAddr:
		return e.EvalCell(x.Position, visited)
	case unary:
		return e.evalUnary(x, visited)
	case binary:
		return e.evalBinary(x, visited)
	case call:
		return e.evalCall(x, visited)
	case rangeAddr:
		return 0, fmt.Errorf("%w: range %s outside of function call", value.ErrValue, x)
	default:
		return 0, ErrEval
	}
}

func (e *Evaluator) evalUnary(u unary, visited Visited) (float64, error) {
	f, err := e.eval(u.right, visited)
	if err != nil {
		return 0, err
	}
	switch u.op {
	case op.Sub:
		return -f, nil
	case op.Add:
		return f, nil
	default:
		return 0, ErrEval
	}
}

func (e *Evaluator) evalBinary(b binary, visited Visited) (float64, error) {
	left, err := e.eval(b.left, visited)
	if err != nil {
		return 0, err
	}
	right, err := e.eval(b.right, visited)
	if err != nil {
		return 0, err
	}
	switch b.op {
	case op.Add:
		return left + right, nil
	case op.Sub:
		return left - right, nil
	case op.Mul:
		return left * right, nil
	case op.Div:
		if right == 0 {
			return 0, value.ErrDiv0
		}
		return left / right, nil
	default:
		return 0, ErrEval
	}
}

func (e *Evaluator) evalCall(c call, visited Visited) (float64, error) {
	fn, err := Lookup(c.ident)
	if err != nil {
		return 0, err
	}
	var values []float64
	for _, a := range c.args {
		if rg, ok := a.(rangeAddr); ok {
			for pos := range rg.Range().Positions() {
				f, err := e.EvalCell(pos, visited)
				if err != nil {
					return 0, err
				}
				values = append(values, f)
			}
			continue
		}
		f, err := e.eval(a, visited)
		if err != nil {
			return 0, err
		}
		values = append(values, f)
	}
	return fn(values)
}
