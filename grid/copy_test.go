package grid

import (
	"testing"

	"github.com/midbel/gridcalc/layout"
)

func TestCopy(t *testing.T) {
	sh := sheetWith(t, map[string]string{
		"A1": "1",
		"B1": "=A1*2",
		"B2": "x",
	})
	sh.Recalculate()

	tests := []struct {
		Range string
		Mode  CopyMode
		Want  string
	}{
		{Range: "A1:B2", Mode: CopyFormula, Want: "1\t=A1*2\n\tx"},
		{Range: "B2:A1", Mode: CopyFormula, Want: "1\t=A1*2\n\tx"},
		{Range: "A1:B1", Mode: CopyValue, Want: "1\t2"},
		{Range: "C3", Mode: CopyFormula, Want: ""},
	}
	for _, c := range tests {
		got := sh.Copy(mustRange(t, c.Range), c.Mode)
		if got != c.Want {
			t.Errorf("%s: copy mismatched! want %q, got %q", c.Range, c.Want, got)
		}
	}
}

func TestCopyModeFromString(t *testing.T) {
	tests := []struct {
		Input string
		Want  CopyMode
		Fail  bool
	}{
		{Input: "", Want: CopyFormula},
		{Input: "formula", Want: CopyFormula},
		{Input: "raw", Want: CopyFormula},
		{Input: "value", Want: CopyValue},
		{Input: "values", Fail: true},
	}
	for _, c := range tests {
		got, err := CopyModeFromString(c.Input)
		if c.Fail {
			if err == nil {
				t.Errorf("%q: expected error", c.Input)
			}
			continue
		}
		if err != nil || got != c.Want {
			t.Errorf("%q: mode mismatched! want %d, got %d (%v)", c.Input, c.Want, got, err)
		}
	}
}

func TestPaste(t *testing.T) {
	sh := NewSheet("test", layout.Dimension{Lines: 2, Columns: 2})
	rg := sh.Paste(mustPos(t, "B2"), "1\t2\n\n3\t=B2+C2\r\n")
	if rg == nil || rg.String() != "B2:C3" {
		t.Fatalf("pasted range mismatched! want B2:C3, got %v", rg)
	}
	if size := sh.Size(); size.Lines != 3 || size.Columns != 3 {
		t.Errorf("sheet should grow to 3x3, got %v", size)
	}
	want := map[string]string{
		"B2": "1",
		"C2": "2",
		"B3": "3",
		"C3": "=B2+C2",
	}
	for addr, raw := range want {
		if got := sh.Raw(mustPos(t, addr)); got != raw {
			t.Errorf("%s: raw mismatched! want %q, got %q", addr, raw, got)
		}
	}
	if got := sh.Displayed(mustPos(t, "C3")); got != "=B2+C2" {
		t.Errorf("pasted cells should display their raw text before recalculation, got %q", got)
	}
	sh.Recalculate()
	if got := sh.Displayed(mustPos(t, "C3")); got != "3" {
		t.Errorf("C3: want 3, got %s", got)
	}
}

func TestPasteEmpty(t *testing.T) {
	sh := NewSheet("test", DefaultSize())
	if rg := sh.Paste(mustPos(t, "A1"), ""); rg != nil {
		t.Errorf("pasting empty text should do nothing, got %s", rg)
	}
}

func TestCopyPasteRoundTrip(t *testing.T) {
	src := sheetWith(t, map[string]string{
		"A1": "1",
		"B1": "=A1+1",
		"A2": "text",
	})
	str := src.Copy(mustRange(t, "A1:B2"), CopyFormula)

	dst := NewSheet("copy", DefaultSize())
	dst.Paste(mustPos(t, "C5"), str)
	for pos, raw := range src.Cells() {
		if got := dst.Raw(pos.Offset(4, 2)); got != raw {
			t.Errorf("%s: raw mismatched! want %q, got %q", pos, raw, got)
		}
	}
}
