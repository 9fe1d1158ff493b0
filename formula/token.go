package formula

import (
	"fmt"

	"github.com/midbel/gridcalc/formula/op"
)

type Token struct {
	Literal string
	Type    op.Op
	Offset  int
}

func (t Token) String() string {
	var str string
	switch t.Type {
	case op.Invalid:
		return fmt.Sprintf("<invalid(%s)>", t.Literal)
	case op.EOF:
		return "<eof>"
	case op.Ident:
		str = "identifier"
	case op.Cell:
		str = "cell"
	case op.Number:
		str = "number"
	case op.Add:
		return "<add>"
	case op.Sub:
		return "<subtract>"
	case op.Mul:
		return "<multiply>"
	case op.Div:
		return "<divide>"
	case op.Comma:
		return "<comma>"
	case op.BegGrp:
		return "<beg-group>"
	case op.EndGrp:
		return "<end-group>"
	case op.RangeRef:
		return "<range>"
	}
	return fmt.Sprintf("%s(%s)", str, t.Literal)
}
