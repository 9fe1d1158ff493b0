package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/midbel/gridcalc/grid"
	"github.com/midbel/gridcalc/layout"
)

func TestSplitAssignment(t *testing.T) {
	tests := []struct {
		Input string
		Addr  string
		Raw   string
		Fail  bool
	}{
		{Input: "A1=10", Addr: "A1", Raw: "10"},
		{Input: "B2==SUM(A1:A3)", Addr: "B2", Raw: "=SUM(A1:A3)"},
		{Input: "C3=", Addr: "C3", Raw: ""},
		{Input: "C3", Fail: true},
		{Input: "=1", Fail: true},
	}
	for _, tt := range tests {
		addr, raw, err := splitAssignment(tt.Input)
		if tt.Fail {
			if err == nil {
				t.Errorf("%s: expected error", tt.Input)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %s", tt.Input, err)
			continue
		}
		if addr != tt.Addr || raw != tt.Raw {
			t.Errorf("%s: want %s=%q, got %s=%q", tt.Input, tt.Addr, tt.Raw, addr, raw)
		}
	}
}

func TestDependencies(t *testing.T) {
	tests := []struct {
		Raw  string
		Want string
	}{
		{Raw: "10", Want: ""},
		{Raw: "=A1+B2", Want: "A1,B2"},
		{Raw: "=SUM(A1:A3)*C1", Want: "A1,A2,A3,C1"},
		{Raw: "=1+", Want: "#SYNTAX!"},
	}
	for _, tt := range tests {
		if got := dependencies(tt.Raw); got != tt.Want {
			t.Errorf("%s: want %q, got %q", tt.Raw, tt.Want, got)
		}
	}
}

func TestPrintSheet(t *testing.T) {
	sheet := grid.NewSheet("test", grid.DefaultSize())
	sheet.SetRaw(layout.NewPosition(0, 0), "1")
	sheet.SetRaw(layout.NewPosition(0, 1), "=A1*3")
	sheet.Recalculate()

	var (
		buf bytes.Buffer
		cmd = PrintSheetCommand{Width: 3, Sep: "|"}
	)
	if err := cmd.printSheet(&buf, sheet); err != nil {
		t.Fatalf("fail to print sheet: %s", err)
	}
	if got, want := buf.String(), " 1   | 3   \n"; got != want {
		t.Errorf("output mismatched! want %q, got %q", want, got)
	}
}

func TestPrintSheetColumns(t *testing.T) {
	sheet := grid.NewSheet("test", grid.DefaultSize())
	for j, raw := range []string{"a", "b", "c", "d", "e"} {
		sheet.SetRaw(layout.NewPosition(0, j), raw)
	}
	sheet.Recalculate()

	tests := []struct {
		Columns string
		Want    string
	}{
		{Columns: "", Want: " a | b | c | d | e \n"},
		{Columns: "A:C", Want: " a | b | c \n"},
		{Columns: "A:C;E", Want: " a | b | c | e \n"},
		{Columns: "D:", Want: " d | e \n"},
		{Columns: "E:A:-2", Want: " e | c | a \n"},
	}
	for _, c := range tests {
		var (
			buf bytes.Buffer
			cmd = PrintSheetCommand{Width: 1, Sep: "|", Columns: c.Columns}
		)
		if err := cmd.printSheet(&buf, sheet); err != nil {
			t.Errorf("%s: fail to print sheet: %s", c.Columns, err)
			continue
		}
		if got := buf.String(); got != c.Want {
			t.Errorf("%s: output mismatched! want %q, got %q", c.Columns, c.Want, got)
		}
	}
	cmd := PrintSheetCommand{Width: 1, Columns: "A1"}
	if err := cmd.printSheet(io.Discard, sheet); err == nil {
		t.Errorf("invalid column selection should fail")
	}
}
