package layout

import (
	"slices"
	"testing"
)

func TestSelection(t *testing.T) {
	rg := NewRange(NewPosition(0, 0), NewPosition(9, 5))
	tests := []struct {
		Input string
		Want  []int
	}{
		{Input: "A", Want: []int{0}},
		{Input: "c", Want: []int{2}},
		{Input: "Z", Want: nil},
		{Input: "A:C", Want: []int{0, 1, 2}},
		{Input: "B:Z", Want: []int{1, 2, 3, 4, 5}},
		{Input: "D:", Want: []int{3, 4, 5}},
		{Input: ":B", Want: []int{0, 1}},
		{Input: "A:F:2", Want: []int{0, 2, 4}},
		{Input: "F:A:-2", Want: []int{5, 3, 1}},
		{Input: "A:C;E", Want: []int{0, 1, 2, 4}},
		{Input: "F; A", Want: []int{5, 0}},
	}
	for _, c := range tests {
		sel, err := SelectionFromString(c.Input)
		if err != nil {
			t.Errorf("%s: fail to parse selection: %s", c.Input, err)
			continue
		}
		got := sel.Indices(rg)
		if !slices.Equal(got, c.Want) {
			t.Errorf("%s: indices mismatched! want %v, got %v", c.Input, c.Want, got)
		}
	}
}

func TestSelectionInvalid(t *testing.T) {
	for _, str := range []string{"", "1", "A1", "A:B:C:D", "A:C:x", "A;;B"} {
		if _, err := SelectionFromString(str); err == nil {
			t.Errorf("%q: expected error", str)
		}
	}
}

func TestSelectionEmptyRange(t *testing.T) {
	sel, err := SelectionFromString("A:C")
	if err != nil {
		t.Fatalf("fail to parse selection: %s", err)
	}
	if got := sel.Indices(nil); got != nil {
		t.Errorf("nil range should select nothing, got %v", got)
	}
}
