package grid

import (
	"errors"
	"slices"
	"testing"

	"github.com/midbel/gridcalc/layout"
)

func mustPos(t *testing.T, addr string) layout.Position {
	t.Helper()
	pos, err := layout.ParsePosition(addr)
	if err != nil {
		t.Fatalf("%s: invalid address: %s", addr, err)
	}
	return pos
}

func mustRange(t *testing.T, str string) *layout.Range {
	t.Helper()
	rg, err := layout.ParseRange(str)
	if err != nil {
		t.Fatalf("%s: invalid range: %s", str, err)
	}
	return rg
}

func sheetWith(t *testing.T, cells map[string]string) *Sheet {
	t.Helper()
	sh := NewSheet("test", DefaultSize())
	for addr, raw := range cells {
		if err := sh.SetRaw(mustPos(t, addr), raw); err != nil {
			t.Fatalf("%s: fail to set raw: %s", addr, err)
		}
	}
	return sh
}

func TestRecalculate(t *testing.T) {
	tests := []struct {
		Cells map[string]string
		Cell  string
		Want  string
	}{
		{
			Cells: map[string]string{"A1": "=2+3*4"},
			Cell:  "A1",
			Want:  "14",
		},
		{
			Cells: map[string]string{"A1": "=(2+3)*4"},
			Cell:  "A1",
			Want:  "20",
		},
		{
			Cells: map[string]string{"A1": "=10/4"},
			Cell:  "A1",
			Want:  "2.5",
		},
		{
			Cells: map[string]string{"A1": "=10/0"},
			Cell:  "A1",
			Want:  "#ERR",
		},
		{
			Cells: map[string]string{"A1": "1", "A2": "2", "A3": "3", "B1": "=SUM(A1:A3)"},
			Cell:  "B1",
			Want:  "6",
		},
		{
			Cells: map[string]string{"A1": "1", "A2": "2", "A3": "3", "B1": "=AVG(A1:A3)"},
			Cell:  "B1",
			Want:  "2",
		},
		{
			Cells: map[string]string{"A1": "1", "A2": "2", "A3": "3", "B1": "=MIN(A3:A1)"},
			Cell:  "B1",
			Want:  "1",
		},
		{
			Cells: map[string]string{"A1": "=A1"},
			Cell:  "A1",
			Want:  "#ERR",
		},
		{
			Cells: map[string]string{"A1": "=B1", "B1": "=A1"},
			Cell:  "B1",
			Want:  "#ERR",
		},
		{
			Cells: map[string]string{"A1": "=B1+C1", "B1": "=D1", "C1": "=D1", "D1": "5"},
			Cell:  "A1",
			Want:  "10",
		},
		{
			Cells: map[string]string{"A1": "=FOO(1)"},
			Cell:  "A1",
			Want:  "#ERR",
		},
		{
			Cells: map[string]string{"A1": "=1+1 x"},
			Cell:  "A1",
			Want:  "#ERR",
		},
		{
			Cells: map[string]string{"A1": "hello"},
			Cell:  "A1",
			Want:  "hello",
		},
		{
			Cells: map[string]string{"A1": " =1+1"},
			Cell:  "A1",
			Want:  " =1+1",
		},
		{
			Cells: map[string]string{"A1": "=1/3"},
			Cell:  "A1",
			Want:  "0.333333333333333",
		},
		{
			Cells: map[string]string{"A1": "hello", "B1": "=A1+1"},
			Cell:  "B1",
			Want:  "#ERR",
		},
	}
	for _, c := range tests {
		sh := sheetWith(t, c.Cells)
		sh.Recalculate()
		if got := sh.Displayed(mustPos(t, c.Cell)); got != c.Want {
			t.Errorf("%s: displayed mismatched! want %s, got %s", c.Cell, c.Want, got)
		}
	}
}

func TestRecalculateIdempotent(t *testing.T) {
	sh := sheetWith(t, map[string]string{
		"A1": "1",
		"A2": "=A1*2",
		"A3": "=A3",
		"B1": "text",
		"B2": "=SUM(A1:A2)",
	})
	first := sh.Recalculate()
	before := displayed(sh)

	second := sh.Recalculate()
	after := displayed(sh)

	if !slices.Equal(before, after) {
		t.Errorf("recalculation changed displayed texts: %v != %v", before, after)
	}
	if first.Cells != 5 || first.Formulas != 3 || first.Failed() != 1 {
		t.Errorf("unexpected report: %+v", first)
	}
	if second.Failed() != first.Failed() {
		t.Errorf("failures mismatched! want %d, got %d", first.Failed(), second.Failed())
	}
	if pos := first.Failures[0].Position; pos.Addr() != "A3" {
		t.Errorf("failure reported at wrong cell: %s", pos)
	}
}

func displayed(sh *Sheet) []string {
	var list []string
	for pos := range sh.Cells() {
		list = append(list, sh.Displayed(pos))
	}
	return list
}

func TestRecalculateGrowth(t *testing.T) {
	sh := NewSheet("test", layout.Dimension{Lines: 2, Columns: 2})
	sh.SetRaw(mustPos(t, "A1"), "=B3+1")
	sh.Recalculate()
	if got := sh.Displayed(mustPos(t, "A1")); got != "#ERR" {
		t.Errorf("reference out of grid should fail, got %s", got)
	}
	sh.AddRow()
	sh.Recalculate()
	if got := sh.Displayed(mustPos(t, "A1")); got != "1" {
		t.Errorf("reference within grid should succeed, got %s", got)
	}
}

func TestSetRawOutOfGrid(t *testing.T) {
	sh := NewSheet("test", layout.Dimension{Lines: 2, Columns: 2})
	err := sh.SetRaw(layout.NewPosition(2, 0), "1")
	if !errors.Is(err, ErrOutOfGrid) {
		t.Errorf("expected %s, got %v", ErrOutOfGrid, err)
	}
}

func TestBoundsAndRows(t *testing.T) {
	sh := NewSheet("test", DefaultSize())
	if rg := sh.Bounds(); rg != nil {
		t.Fatalf("empty sheet should have no bounds, got %s", rg)
	}
	sh.SetRaw(mustPos(t, "B1"), "x")
	sh.SetRaw(mustPos(t, "A3"), "=B1")

	rg := sh.Bounds()
	if rg == nil || rg.String() != "A1:B3" {
		t.Fatalf("bounds mismatched! want A1:B3, got %v", rg)
	}
	want := [][]string{
		{"", "x"},
		{"", ""},
		{"=B1", ""},
	}
	var got [][]string
	for row := range sh.Rows() {
		got = append(got, row)
	}
	if !slices.EqualFunc(want, got, slices.Equal) {
		t.Errorf("rows mismatched! want %q, got %q", want, got)
	}
}

func TestLoad(t *testing.T) {
	sh := NewSheet("test", DefaultSize())
	sh.SetRaw(mustPos(t, "P50"), "old")
	rows := [][]string{
		{"1", "2"},
		{"=A1+B1"},
	}
	sh.Load(rows, DefaultSize())
	if sh.Raw(mustPos(t, "P50")) != "" {
		t.Errorf("previous content should be cleared")
	}
	if size := sh.Size(); size != DefaultSize() {
		t.Errorf("size mismatched! want %v, got %v", DefaultSize(), size)
	}
	sh.Recalculate()
	if got := sh.Displayed(mustPos(t, "A2")); got != "3" {
		t.Errorf("A2: want 3, got %s", got)
	}

	wide := make([]string, 20)
	wide[19] = "z"
	sh.Load([][]string{wide}, DefaultSize())
	if size := sh.Size(); size.Columns != 20 || size.Lines != DefaultLines {
		t.Errorf("sheet should grow to fit rows, got %v", size)
	}
}

func TestLoadCells(t *testing.T) {
	sh := NewSheet("test", DefaultSize())
	sh.SetRaw(mustPos(t, "B2"), "old")
	cells := map[layout.Position]string{
		mustPos(t, "A1"):         "2",
		mustPos(t, "XFD1048576"): "=A1*3",
	}
	if err := sh.LoadCells(cells, DefaultSize()); err != nil {
		t.Fatalf("fail to load cells: %s", err)
	}
	want := layout.Dimension{Lines: layout.MaxLines, Columns: layout.MaxColumns}
	if size := sh.Size(); size != want {
		t.Errorf("size mismatched! want %v, got %v", want, size)
	}
	if sh.Raw(mustPos(t, "B2")) != "" {
		t.Errorf("previous content should be cleared")
	}
	rpt := sh.Recalculate()
	if rpt.Cells != 2 || rpt.Formulas != 1 {
		t.Errorf("report mismatched! got %d cells, %d formulas", rpt.Cells, rpt.Formulas)
	}
	if got := sh.Displayed(mustPos(t, "XFD1048576")); got != "6" {
		t.Errorf("XFD1048576: want 6, got %s", got)
	}
}

func TestLoadCellsOutOfGrid(t *testing.T) {
	sh := sheetWith(t, map[string]string{"A1": "keep"})
	cells := map[layout.Position]string{
		layout.NewPosition(0, 0):               "1",
		layout.NewPosition(layout.MaxLines, 0): "2",
	}
	if err := sh.LoadCells(cells, DefaultSize()); !errors.Is(err, ErrOutOfGrid) {
		t.Errorf("loading beyond the last line should fail with %s, got %v", ErrOutOfGrid, err)
	}
	if got := sh.Raw(mustPos(t, "A1")); got != "keep" {
		t.Errorf("failed load should leave the sheet untouched, got %q", got)
	}
}

func TestStructuralEdits(t *testing.T) {
	sh := sheetWith(t, map[string]string{
		"A1": "a1",
		"A2": "a2",
		"B2": "b2",
	})
	if err := sh.InsertRow(1); err != nil {
		t.Fatalf("insert row: %s", err)
	}
	if sh.Raw(mustPos(t, "A3")) != "a2" || sh.Raw(mustPos(t, "A2")) != "" || sh.Raw(mustPos(t, "A1")) != "a1" {
		t.Errorf("insert row: cells not shifted")
	}
	if sh.Size().Lines != DefaultLines+1 {
		t.Errorf("insert row: size not updated")
	}
	if err := sh.InsertColumn(0); err != nil {
		t.Fatalf("insert column: %s", err)
	}
	if sh.Raw(mustPos(t, "C3")) != "b2" || sh.Raw(mustPos(t, "B1")) != "a1" {
		t.Errorf("insert column: cells not shifted")
	}
	if err := sh.DeleteRow(0); err != nil {
		t.Fatalf("delete row: %s", err)
	}
	if sh.Raw(mustPos(t, "B1")) != "" || sh.Raw(mustPos(t, "C2")) != "b2" {
		t.Errorf("delete row: cells not shifted")
	}
	if err := sh.DeleteColumn(0); err != nil {
		t.Fatalf("delete column: %s", err)
	}
	if sh.Raw(mustPos(t, "B2")) != "b2" || sh.Raw(mustPos(t, "A2")) != "a2" {
		t.Errorf("delete column: cells not shifted")
	}
	if size := sh.Size(); size != DefaultSize() {
		t.Errorf("size mismatched! want %v, got %v", DefaultSize(), size)
	}
}

func TestDeleteKeepsOneRowAndColumn(t *testing.T) {
	sh := NewSheet("test", layout.Dimension{Lines: 1, Columns: 1})
	if err := sh.DeleteRow(0); !errors.Is(err, ErrShrink) {
		t.Errorf("deleting last row should fail with %s, got %v", ErrShrink, err)
	}
	if err := sh.DeleteColumn(0); !errors.Is(err, ErrShrink) {
		t.Errorf("deleting last column should fail with %s, got %v", ErrShrink, err)
	}
	if size := sh.Size(); size.Lines != 1 || size.Columns != 1 {
		t.Errorf("sheet should keep one row and one column, got %v", size)
	}
}

func TestClear(t *testing.T) {
	sh := sheetWith(t, map[string]string{
		"A1": "1",
		"B2": "2",
		"C3": "3",
	})
	sh.Recalculate()
	sh.Clear(mustRange(t, "B2:A1"))
	if sh.Raw(mustPos(t, "A1")) != "" || sh.Displayed(mustPos(t, "B2")) != "" {
		t.Errorf("cells in range should be cleared")
	}
	if sh.Raw(mustPos(t, "C3")) != "3" {
		t.Errorf("cells outside range should be kept")
	}
}
