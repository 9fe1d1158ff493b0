package layout

import (
	"fmt"
	"iter"
	"strings"
)

type Range struct {
	Starts Position
	Ends   Position
}

func NewRange(starts, ends Position) *Range {
	return &Range{
		Starts: starts,
		Ends:   ends,
	}
}

func ParseRange(str string) (*Range, error) {
	fst, lst, ok := strings.Cut(str, ":")
	starts, err := ParsePosition(strings.TrimSpace(fst))
	if err != nil {
		return nil, err
	}
	ends := starts
	if ok {
		if ends, err = ParsePosition(strings.TrimSpace(lst)); err != nil {
			return nil, err
		}
	}
	return NewRange(starts, ends).Normalize(), nil
}

func (r *Range) Contains(pos Position) bool {
	x := r.Normalize()
	ok := pos.Line >= x.Starts.Line && pos.Line <= x.Ends.Line
	if !ok {
		return false
	}
	return pos.Column >= x.Starts.Column && pos.Column <= x.Ends.Column
}

// Width and Height count cells, bounds included.
func (r *Range) Width() int {
	x := r.Normalize()
	return x.Ends.Column - x.Starts.Column + 1
}

func (r *Range) Height() int {
	x := r.Normalize()
	return x.Ends.Line - x.Starts.Line + 1
}

func (r *Range) Size() Dimension {
	return Dimension{
		Lines:   r.Height(),
		Columns: r.Width(),
	}
}

func (r *Range) String() string {
	if r.Starts.Equal(r.Ends) {
		return r.Starts.Addr()
	}
	return fmt.Sprintf("%s:%s", r.Starts.Addr(), r.Ends.Addr())
}

func (r *Range) Normalize() *Range {
	x := NewRange(r.Starts, r.Ends)
	x.Starts.Line = min(r.Starts.Line, r.Ends.Line)
	x.Starts.Column = min(r.Starts.Column, r.Ends.Column)
	x.Ends.Line = max(r.Starts.Line, r.Ends.Line)
	x.Ends.Column = max(r.Starts.Column, r.Ends.Column)
	return x
}

// Positions yields every position of the normalized range, row by row.
func (r *Range) Positions() iter.Seq[Position] {
	x := r.Normalize()
	it := func(yield func(Position) bool) {
		for line := x.Starts.Line; line <= x.Ends.Line; line++ {
			for col := x.Starts.Column; col <= x.Ends.Column; col++ {
				if !yield(NewPosition(line, col)) {
					return
				}
			}
		}
	}
	return it
}
