package layout

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Selection picks the zero-based columns of a range.
type Selection interface {
	Indices(*Range) []int
}

// SelectionFromString parses a list of columns separated by ';'. Each item is
// either a single column (B), or a span (A:C) with an optional step (A:E:2).
// A span with an empty end runs to the edge of the range: "C:" or ":C".
func SelectionFromString(str string) (Selection, error) {
	var list []Selection
	for _, str := range strings.Split(str, ";") {
		parts := strings.Split(strings.TrimSpace(str), ":")
		switch n := len(parts); n {
		case 1:
			ix, err := ParseColumn(parts[0])
			if err != nil {
				return nil, err
			}
			list = append(list, SelectSingle(ix))
		case 2, 3:
			lo, err := parseBound(parts[0])
			if err != nil {
				return nil, err
			}
			hi, err := parseBound(parts[1])
			if err != nil {
				return nil, err
			}
			step := 1
			if n == 3 && parts[2] != "" {
				step, err = strconv.Atoi(parts[2])
				if err != nil {
					return nil, fmt.Errorf("selection: %q: invalid step", str)
				}
			}
			list = append(list, SelectSpan(lo, hi, step))
		default:
			return nil, fmt.Errorf("selection: %q: invalid syntax", str)
		}
	}
	if len(list) == 1 {
		return list[0], nil
	}
	return combinedRef{list: list}, nil
}

func parseBound(str string) (int, error) {
	if str = strings.TrimSpace(str); str == "" {
		return -1, nil
	}
	return ParseColumn(str)
}

type columnRef struct {
	Index int
}

func SelectSingle(ix int) Selection {
	return columnRef{
		Index: ix,
	}
}

func (c columnRef) Indices(rg *Range) []int {
	if rg == nil {
		return nil
	}
	x := rg.Normalize()
	if c.Index >= x.Starts.Column && c.Index <= x.Ends.Column {
		return []int{c.Index}
	}
	return nil
}

type columnSpan struct {
	Starts int
	Ends   int
	Step   int
}

// SelectSpan selects the columns from..to. A negative bound stands for the edge
// of the range and a negative step walks the columns backward.
func SelectSpan(from, to, step int) Selection {
	if step == 0 {
		step++
	}
	return columnSpan{
		Starts: from,
		Ends:   to,
		Step:   step,
	}
}

func (c columnSpan) Indices(rg *Range) []int {
	if rg == nil {
		return nil
	}
	var (
		all     []int
		x       = rg.Normalize()
		starts  = c.Starts
		ends    = c.Ends
		forward = c.Step > 0
	)
	if starts < 0 {
		starts = x.Starts.Column
		if !forward {
			starts = x.Ends.Column
		}
	}
	if ends < 0 {
		ends = x.Ends.Column
		if !forward {
			ends = x.Starts.Column
		}
	}
	if forward {
		starts = max(starts, x.Starts.Column)
		ends = min(ends, x.Ends.Column)
		for i := starts; i <= ends; i += c.Step {
			all = append(all, i)
		}
	} else {
		starts = min(starts, x.Ends.Column)
		ends = max(ends, x.Starts.Column)
		for i := starts; i >= ends; i += c.Step {
			all = append(all, i)
		}
	}
	return all
}

type combinedRef struct {
	list []Selection
}

func (r combinedRef) Indices(rg *Range) []int {
	var all []int
	for i := range r.list {
		all = slices.Concat(all, r.list[i].Indices(rg))
	}
	return all
}
