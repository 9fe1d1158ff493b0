package grid

import (
	"github.com/midbel/gridcalc/formula"
	"github.com/midbel/gridcalc/layout"
	"github.com/midbel/gridcalc/value"
)

type Report struct {
	Cells    int
	Formulas int
	Failures []Failure
}

type Failure struct {
	layout.Position
	Err error
}

func (r Report) Failed() int {
	return len(r.Failures)
}

// Recalculate refreshes the displayed text of every cell of the sheet. Empty
// cells display nothing, literals are echoed as is and formulas are evaluated
// each on its own path. Failed formulas display the error marker.
func (s *Sheet) Recalculate() Report {
	var (
		rpt  Report
		eval = formula.NewEvaluator(s)
	)
	for _, pos := range s.positions() {
		c := s.cells[pos]
		rpt.Cells++
		if !value.IsFormula(c.Raw) {
			c.Displayed = c.Raw
			continue
		}
		rpt.Formulas++
		c.Displayed = s.evaluate(eval, pos, &rpt)
	}
	return rpt
}

func (s *Sheet) evaluate(eval *formula.Evaluator, pos layout.Position, rpt *Report) string {
	res, err := eval.EvalCell(pos, formula.NewVisited())
	if err != nil {
		rpt.Failures = append(rpt.Failures, Failure{Position: pos, Err: err})
		return s.marker
	}
	str, err := s.formatter.Format(res)
	if err != nil {
		rpt.Failures = append(rpt.Failures, Failure{Position: pos, Err: err})
		return s.marker
	}
	return str
}
