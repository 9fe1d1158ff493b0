package grid

import (
	"fmt"
	"strings"

	"github.com/midbel/gridcalc/layout"
)

type CopyMode int

const (
	CopyFormula CopyMode = 1 << iota
	CopyValue
)

func CopyModeFromString(str string) (CopyMode, error) {
	var mode CopyMode
	switch str {
	case "", "formula", "raw":
		mode = CopyFormula
	case "value":
		mode = CopyValue
	default:
		return mode, fmt.Errorf("%s invalid value for copy mode", str)
	}
	return mode, nil
}

// Copy serializes rg as tab separated lines. CopyFormula gives the raw text of
// the cells, CopyValue their displayed text.
func (s *Sheet) Copy(rg *layout.Range, mode CopyMode) string {
	get := s.Raw
	if mode == CopyValue {
		get = s.Displayed
	}
	var (
		x     = rg.Normalize()
		lines []string
	)
	for i := x.Starts.Line; i <= x.Ends.Line; i++ {
		var fields []string
		for j := x.Starts.Column; j <= x.Ends.Column; j++ {
			fields = append(fields, get(layout.NewPosition(i, j)))
		}
		lines = append(lines, strings.Join(fields, "\t"))
	}
	return strings.Join(lines, "\n")
}

// Paste writes the tab separated text at pos, growing the sheet as needed.
// Empty lines after the first one are skipped. It returns the range written.
func (s *Sheet) Paste(at layout.Position, text string) *layout.Range {
	if text == "" || !at.Valid() {
		return nil
	}
	var (
		end    = at
		offset int
	)
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if i > 0 && line == "" {
			continue
		}
		for j, field := range strings.Split(line, "\t") {
			pos := at.Offset(offset, j)
			s.Resize(layout.Dimension{Lines: pos.Line + 1, Columns: pos.Column + 1})
			s.setRaw(pos, field)
			s.Show(pos, field)

			end.Line = max(end.Line, pos.Line)
			end.Column = max(end.Column, pos.Column)
		}
		offset++
	}
	return layout.NewRange(at, end)
}
