package store

import (
	"errors"
	"fmt"

	"github.com/midbel/gridcalc/grid"
	"github.com/midbel/gridcalc/layout"
)

var (
	ErrFound   = errors.New("sheet not found")
	ErrCorrupt = errors.New("corrupted document")
)

// cellsOf collects the non empty cells of view with their positions.
func cellsOf(view grid.View) map[layout.Position]string {
	var (
		cells = make(map[layout.Position]string)
		line  int
	)
	for row := range view.Rows() {
		for col, raw := range row {
			if raw == "" {
				continue
			}
			cells[layout.NewPosition(line, col)] = raw
		}
		line++
	}
	return cells
}

// checkSize refuses a recorded size beyond the addressable cells.
func checkSize(size layout.Dimension) error {
	if size.Lines < 0 || size.Columns < 0 || size.Lines > layout.MaxLines || size.Columns > layout.MaxColumns {
		return fmt.Errorf("%w: invalid sheet size %dx%d", ErrCorrupt, size.Lines, size.Columns)
	}
	return nil
}
