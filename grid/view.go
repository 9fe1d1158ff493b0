package grid

import (
	"errors"
	"iter"

	"github.com/midbel/gridcalc/layout"
)

var (
	ErrOutOfGrid = errors.New("position out of grid")
	ErrShrink    = errors.New("sheet needs at least one row and one column")
)

type Encoder interface {
	EncodeSheet(View) error
}

type Decoder interface {
	DecodeSheet(*Sheet) error
}

// View is the read only face of a sheet handed to the persistence
// collaborators.
type View interface {
	Name() string
	Size() layout.Dimension
	Bounds() *layout.Range
	Rows() iter.Seq[[]string]
}

type Cell struct {
	layout.Position

	Raw       string
	Displayed string
}
