package csv

import (
	"bytes"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/midbel/gridcalc/grid"
	"github.com/midbel/gridcalc/layout"
)

func TestReader(t *testing.T) {
	tests := []struct {
		Input string
		Want  [][]string
	}{
		{
			Input: "a,b,c\n1,2,3\n",
			Want:  [][]string{{"a", "b", "c"}, {"1", "2", "3"}},
		},
		{
			Input: "a,b\r\n1,2",
			Want:  [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			Input: "a\rb\r",
			Want:  [][]string{{"a"}, {"b"}},
		},
		{
			Input: `"hello, world","say ""hi""",=SUM(A1:A3)` + "\n",
			Want:  [][]string{{"hello, world", `say "hi"`, "=SUM(A1:A3)"}},
		},
		{
			Input: "\"multi\nline\",x\n",
			Want:  [][]string{{"multi\nline", "x"}},
		},
		{
			Input: "a,\n\n,b\n",
			Want:  [][]string{{"a", ""}, {""}, {"", "b"}},
		},
		{
			Input: "",
			Want:  nil,
		},
	}
	for _, c := range tests {
		got, err := NewReader(strings.NewReader(c.Input)).ReadAll()
		if err != nil {
			t.Errorf("%q: unexpected error: %s", c.Input, err)
			continue
		}
		if !slices.EqualFunc(c.Want, got, slices.Equal) {
			t.Errorf("%q: records mismatched! want %q, got %q", c.Input, c.Want, got)
		}
	}
}

func TestReaderFieldsPerLine(t *testing.T) {
	rs := NewReader(strings.NewReader("a,b\nc\n"))
	rs.FieldsPerLine = 2
	if _, err := rs.ReadAll(); !errors.Is(err, ErrFields) {
		t.Errorf("expected %s, got %v", ErrFields, err)
	}
}

func TestWriter(t *testing.T) {
	tests := []struct {
		Input []string
		Want  string
	}{
		{
			Input: []string{"a", "b", ""},
			Want:  "a,b,\n",
		},
		{
			Input: []string{"1,5", `say "hi"`, "two\nlines", "cr\r"},
			Want:  "\"1,5\",\"say \"\"hi\"\"\",\"two\nlines\",\"cr\r\"\n",
		},
		{
			Input: []string{" padded ", "=A1+B1"},
			Want:  " padded ,=A1+B1\n",
		},
	}
	for _, c := range tests {
		var buf bytes.Buffer
		ws := NewWriter(&buf)
		if err := ws.WriteAll([][]string{c.Input}); err != nil {
			t.Errorf("%q: unexpected error: %s", c.Input, err)
			continue
		}
		if got := buf.String(); got != c.Want {
			t.Errorf("%q: output mismatched! want %q, got %q", c.Input, c.Want, got)
		}
	}
}

func TestEncodeTrimsToBounds(t *testing.T) {
	sheet := grid.NewSheet("test", grid.DefaultSize())
	sheet.SetRaw(layout.NewPosition(0, 1), "x,y")
	sheet.SetRaw(layout.NewPosition(2, 0), "=B1")

	var buf bytes.Buffer
	if err := NewEncoder(&buf).EncodeSheet(sheet); err != nil {
		t.Fatalf("fail to encode sheet: %s", err)
	}
	want := ",\"x,y\"\n,\n=B1,\n"
	if got := buf.String(); got != want {
		t.Errorf("output mismatched! want %q, got %q", want, got)
	}
}

func TestEncodeEmptySheet(t *testing.T) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).EncodeSheet(grid.NewSheet("empty", grid.DefaultSize())); err != nil {
		t.Fatalf("fail to encode sheet: %s", err)
	}
	if buf.Len() != 0 {
		t.Errorf("empty sheet should produce no output, got %q", buf.String())
	}
}

func TestFileRoundTrip(t *testing.T) {
	sheet := grid.NewSheet("test", grid.DefaultSize())
	cells := map[layout.Position]string{
		layout.NewPosition(0, 0): "1",
		layout.NewPosition(0, 1): "2",
		layout.NewPosition(1, 0): "=SUM(A1:B1)",
		layout.NewPosition(1, 2): "hello, \"world\"",
		layout.NewPosition(3, 1): "two\nlines",
	}
	for pos, raw := range cells {
		sheet.SetRaw(pos, raw)
	}
	file := filepath.Join(t.TempDir(), "data.csv")
	if err := WriteFile(file, sheet); err != nil {
		t.Fatalf("fail to write file: %s", err)
	}
	other, err := ReadFile(file)
	if err != nil {
		t.Fatalf("fail to read file: %s", err)
	}
	if other.Name() != "data" {
		t.Errorf("sheet name mismatched! want data, got %s", other.Name())
	}
	if size := other.Size(); size != grid.DefaultSize() {
		t.Errorf("loaded sheet should have the default size, got %v", size)
	}
	for pos, raw := range cells {
		if got := other.Raw(pos); got != raw {
			t.Errorf("%s: raw mismatched! want %q, got %q", pos, raw, got)
		}
	}
	other.Recalculate()
	if got := other.Displayed(layout.NewPosition(1, 0)); got != "3" {
		t.Errorf("A2: want 3, got %s", got)
	}
}
