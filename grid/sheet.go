package grid

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/midbel/gridcalc/format"
	"github.com/midbel/gridcalc/layout"
	"github.com/midbel/gridcalc/value"
)

const (
	DefaultLines   = 50
	DefaultColumns = 16
)

func DefaultSize() layout.Dimension {
	return layout.Dimension{
		Lines:   DefaultLines,
		Columns: DefaultColumns,
	}
}

type Option func(*Sheet)

func WithFormatter(f format.Formatter) Option {
	return func(s *Sheet) {
		if f != nil {
			s.formatter = f
		}
	}
}

func WithMarker(marker string) Option {
	return func(s *Sheet) {
		if marker != "" {
			s.marker = marker
		}
	}
}

type Sheet struct {
	name string
	size layout.Dimension

	cells map[layout.Position]*Cell

	formatter format.Formatter
	marker    string
}

func NewSheet(name string, size layout.Dimension, options ...Option) *Sheet {
	s := Sheet{
		name:      name,
		size:      size.Max(layout.Dimension{Lines: 1, Columns: 1}),
		cells:     make(map[layout.Position]*Cell),
		formatter: format.General(format.DefaultDigits),
		marker:    value.Marker,
	}
	for _, o := range options {
		o(&s)
	}
	return &s
}

func (s *Sheet) Name() string {
	return s.name
}

func (s *Sheet) Rename(name string) {
	s.name = name
}

func (s *Sheet) Size() layout.Dimension {
	return s.size
}

func (s *Sheet) Contains(pos layout.Position) bool {
	return s.size.Contains(pos)
}

func (s *Sheet) Raw(pos layout.Position) string {
	c, ok := s.cells[pos]
	if !ok {
		return ""
	}
	return c.Raw
}

func (s *Sheet) Displayed(pos layout.Position) string {
	c, ok := s.cells[pos]
	if !ok {
		return ""
	}
	return c.Displayed
}

// SetRaw stores text as the raw content of the cell at pos. The displayed
// text is left untouched until the next recalculation.
func (s *Sheet) SetRaw(pos layout.Position, text string) error {
	if !s.Contains(pos) {
		return fmt.Errorf("%w: %s", ErrOutOfGrid, pos)
	}
	s.setRaw(pos, text)
	return nil
}

// Show sets the displayed text of the cell at pos without evaluating it.
func (s *Sheet) Show(pos layout.Position, text string) {
	if c, ok := s.cells[pos]; ok {
		c.Displayed = text
	}
}

func (s *Sheet) setRaw(pos layout.Position, text string) {
	if text == "" {
		delete(s.cells, pos)
		return
	}
	c, ok := s.cells[pos]
	if !ok {
		c = &Cell{Position: pos}
		s.cells[pos] = c
	}
	c.Raw = text
}

// Cells yields the occupied cells in row major order.
func (s *Sheet) Cells() iter.Seq2[layout.Position, string] {
	return func(yield func(layout.Position, string) bool) {
		for _, pos := range s.positions() {
			if !yield(pos, s.cells[pos].Raw) {
				return
			}
		}
	}
}

func (s *Sheet) positions() []layout.Position {
	list := slices.Collect(maps.Keys(s.cells))
	slices.SortFunc(list, func(a, b layout.Position) int {
		if a.Line != b.Line {
			return a.Line - b.Line
		}
		return a.Column - b.Column
	})
	return list
}

// Bounds returns the smallest range holding every non empty cell starting at
// A1. It is nil for an empty sheet.
func (s *Sheet) Bounds() *layout.Range {
	if len(s.cells) == 0 {
		return nil
	}
	var end layout.Position
	for pos := range s.cells {
		end.Line = max(end.Line, pos.Line)
		end.Column = max(end.Column, pos.Column)
	}
	return layout.NewRange(layout.NewPosition(0, 0), end)
}

// Rows yields the raw grid trimmed to its bounds.
func (s *Sheet) Rows() iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		rg := s.Bounds()
		if rg == nil {
			return
		}
		for i := 0; i <= rg.Ends.Line; i++ {
			row := make([]string, rg.Ends.Column+1)
			for j := range row {
				row[j] = s.Raw(layout.NewPosition(i, j))
			}
			if !yield(row) {
				return
			}
		}
	}
}

// Load replaces the content of the sheet with rows. The sheet is sized to fit
// rows but never smaller than minimum.
func (s *Sheet) Load(rows [][]string, minimum layout.Dimension) {
	size := layout.Dimension{
		Lines: len(rows),
	}
	for i := range rows {
		size.Columns = max(size.Columns, len(rows[i]))
	}
	clear(s.cells)
	s.size = size.Max(minimum).Max(layout.Dimension{Lines: 1, Columns: 1})
	for i := range rows {
		for j := range rows[i] {
			pos := layout.NewPosition(i, j)
			s.setRaw(pos, rows[i][j])
			s.Show(pos, rows[i][j])
		}
	}
}

// LoadCells replaces the content of the sheet with the given cells. The sheet
// is sized to hold them but never smaller than minimum. Cells beyond XFD1048576
// are refused and leave the sheet untouched.
func (s *Sheet) LoadCells(cells map[layout.Position]string, minimum layout.Dimension) error {
	size := minimum.Max(layout.Dimension{Lines: 1, Columns: 1})
	for pos := range cells {
		if !pos.Valid() || pos.Line >= layout.MaxLines || pos.Column >= layout.MaxColumns {
			return fmt.Errorf("%w: line %d, column %d", ErrOutOfGrid, pos.Line+1, pos.Column+1)
		}
		size = size.Max(layout.Dimension{Lines: pos.Line + 1, Columns: pos.Column + 1})
	}
	clear(s.cells)
	s.size = size
	for pos, raw := range cells {
		s.setRaw(pos, raw)
		s.Show(pos, raw)
	}
	return nil
}

func (s *Sheet) Reset(size layout.Dimension) {
	clear(s.cells)
	s.size = size.Max(layout.Dimension{Lines: 1, Columns: 1})
}

func (s *Sheet) Resize(size layout.Dimension) {
	s.size = s.size.Max(size)
}

func (s *Sheet) AddRow() {
	s.size.Lines++
}

func (s *Sheet) AddColumn() {
	s.size.Columns++
}

func (s *Sheet) InsertRow(ix int) error {
	if ix < 0 || ix > s.size.Lines {
		return fmt.Errorf("%w: row %d", ErrOutOfGrid, ix+1)
	}
	s.shift(func(pos layout.Position) (layout.Position, bool) {
		if pos.Line >= ix {
			pos.Line++
		}
		return pos, true
	})
	s.size.Lines++
	return nil
}

func (s *Sheet) InsertColumn(ix int) error {
	if ix < 0 || ix > s.size.Columns {
		return fmt.Errorf("%w: column %s", ErrOutOfGrid, layout.ColumnName(ix))
	}
	s.shift(func(pos layout.Position) (layout.Position, bool) {
		if pos.Column >= ix {
			pos.Column++
		}
		return pos, true
	})
	s.size.Columns++
	return nil
}

func (s *Sheet) DeleteRow(ix int) error {
	if s.size.Lines <= 1 {
		return ErrShrink
	}
	if ix < 0 || ix >= s.size.Lines {
		return fmt.Errorf("%w: row %d", ErrOutOfGrid, ix+1)
	}
	s.shift(func(pos layout.Position) (layout.Position, bool) {
		if pos.Line == ix {
			return pos, false
		}
		if pos.Line > ix {
			pos.Line--
		}
		return pos, true
	})
	s.size.Lines--
	return nil
}

func (s *Sheet) DeleteColumn(ix int) error {
	if s.size.Columns <= 1 {
		return ErrShrink
	}
	if ix < 0 || ix >= s.size.Columns {
		return fmt.Errorf("%w: column %s", ErrOutOfGrid, layout.ColumnName(ix))
	}
	s.shift(func(pos layout.Position) (layout.Position, bool) {
		if pos.Column == ix {
			return pos, false
		}
		if pos.Column > ix {
			pos.Column--
		}
		return pos, true
	})
	s.size.Columns--
	return nil
}

func (s *Sheet) shift(move func(layout.Position) (layout.Position, bool)) {
	cells := make(map[layout.Position]*Cell, len(s.cells))
	for pos, c := range s.cells {
		pos, keep := move(pos)
		if !keep {
			continue
		}
		c.Position = pos
		cells[pos] = c
	}
	s.cells = cells
}

// Clear empties the raw and displayed text of every cell of rg.
func (s *Sheet) Clear(rg *layout.Range) {
	for pos := range rg.Positions() {
		delete(s.cells, pos)
	}
}
