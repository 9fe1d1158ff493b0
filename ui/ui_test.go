package ui

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/midbel/gridcalc/config"
	"github.com/midbel/gridcalc/layout"
	"github.com/midbel/gridcalc/workbench"
)

func char(c rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: c, Text: string(c)}
}

func special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		if m, ok = next.(Model); !ok {
			t.Fatalf("unexpected model type %T", next)
		}
	}
	return m
}

func createModel(t *testing.T) (Model, *workbench.Workbench) {
	t.Helper()
	wb, err := workbench.New(config.Default())
	if err != nil {
		t.Fatalf("fail to create workbench: %s", err)
	}
	return New(wb), wb
}

func TestMove(t *testing.T) {
	m, _ := createModel(t)
	m = send(t, m, char('l'), char('j'), special(tea.KeyDown), special(tea.KeyRight))
	if want := layout.NewPosition(2, 2); !m.cursor.Equal(want) {
		t.Errorf("cursor mismatched! want %s, got %s", want, m.cursor)
	}
	if m.status != "Cell C3" {
		t.Errorf("status mismatched! want Cell C3, got %s", m.status)
	}
	m = send(t, m, char('k'), char('k'), char('k'), char('h'), char('h'), char('h'))
	if want := layout.NewPosition(0, 0); !m.cursor.Equal(want) {
		t.Errorf("cursor should stay in the grid, got %s", m.cursor)
	}
}

func TestFormulaBar(t *testing.T) {
	m, wb := createModel(t)
	wb.Edit(layout.NewPosition(0, 0), "21")

	m = send(t, m, char('j'), special(tea.KeyEnter))
	if m.mode != modeEdit {
		t.Fatalf("enter should start editing")
	}
	m.bar.SetValue("=A1*2")
	m = send(t, m, special(tea.KeyEnter))
	if m.mode != modeNormal {
		t.Errorf("enter should commit the edit")
	}
	if got := wb.Sheet().Displayed(layout.NewPosition(1, 0)); got != "42" {
		t.Errorf("A2: want 42, got %s", got)
	}
	if want := layout.NewPosition(2, 0); !m.cursor.Equal(want) {
		t.Errorf("cursor should move down after commit, got %s", m.cursor)
	}
	m = send(t, m, char('k'))
	if got := m.bar.Value(); got != "=A1*2" {
		t.Errorf("formula bar should show the raw text, got %q", got)
	}
}

func TestCancelEdit(t *testing.T) {
	m, wb := createModel(t)
	m = send(t, m, special(tea.KeyEnter))
	m.bar.SetValue("10")
	m = send(t, m, special(tea.KeyEscape))
	if got := wb.Sheet().Raw(layout.NewPosition(0, 0)); got != "" {
		t.Errorf("cancelled edit should not change the cell, got %q", got)
	}
	if wb.Dirty() {
		t.Errorf("cancelled edit should not mark the session dirty")
	}
}

func TestCopyPaste(t *testing.T) {
	m, wb := createModel(t)
	wb.Edit(layout.NewPosition(0, 0), "1")
	wb.Edit(layout.NewPosition(0, 1), "=A1+1")

	m = send(t, m, char('v'), char('l'), char('Y'))
	if m.clip != "1\t2" {
		t.Fatalf("unexpected copied values: %q", m.clip)
	}
	m = send(t, m, char('y'))
	if m.clip != "1\t=A1+1" {
		t.Fatalf("unexpected copied text: %q", m.clip)
	}
	m = send(t, m, char('v'), char('j'), char('j'))
	m.paste()
	if got := wb.Sheet().Raw(layout.NewPosition(2, 2)); got == "" {
		t.Errorf("C3 should be pasted")
	}
}

func TestStructure(t *testing.T) {
	m, wb := createModel(t)
	size := wb.Sheet().Size()
	m = send(t, m, char('R'), char('C'))
	if got := wb.Sheet().Size(); got.Lines != size.Lines+1 || got.Columns != size.Columns+1 {
		t.Errorf("unexpected size after adding row and column: %v", got)
	}
	m = send(t, m, char('t'))
	if wb.AutoRecalc() {
		t.Errorf("auto recalc should be toggled off")
	}
}

func TestRender(t *testing.T) {
	m, wb := createModel(t)
	wb.Edit(layout.NewPosition(0, 0), "=1/0")
	m = send(t, m, tea.WindowSizeMsg{Width: 60, Height: 12})
	str := m.render()
	for _, want := range []string{"Spreadsheet*", "#ERR", "A", "Cell A1"} {
		if !strings.Contains(str, want) {
			t.Errorf("view should contain %q", want)
		}
	}
}
