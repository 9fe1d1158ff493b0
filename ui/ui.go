package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	"github.com/midbel/gridcalc/grid"
	"github.com/midbel/gridcalc/layout"
	"github.com/midbel/gridcalc/workbench"
)

const (
	cellWidth   = 10
	headerWidth = 5
	// title, formula bar, column headers, status and help lines
	chromeHeight = 5
)

const help = " hjkl move  enter edit  v select  y/Y copy  p paste  del clear  R/C add  i/I insert  D/X delete  ctrl+r recalc  t auto  ctrl+s save  q quit"

type mode int

const (
	modeNormal mode = iota
	modeEdit
)

// Model is the terminal front end of a workbench. The formula bar always
// shows the raw text of the cell under the cursor.
type Model struct {
	wb *workbench.Workbench

	cursor layout.Position
	anchor *layout.Position
	top    int
	left   int

	width  int
	height int

	mode mode
	bar  textinput.Model

	status string
	err    error

	// used when the system clipboard is not available
	clip string
}

func New(wb *workbench.Workbench) Model {
	bar := textinput.New()
	bar.Prompt = "fx "
	bar.Placeholder = "=SUM(A1:A8), =AVG(B1:B8), =A1*2"
	m := Model{
		wb:     wb,
		bar:    bar,
		width:  80,
		height: 24,
	}
	m.focus()
	return m
}

// Run starts the terminal workbench and blocks until the user quits.
func Run(wb *workbench.Workbench) error {
	_, err := tea.NewProgram(New(wb)).Run()
	if err != nil {
		return err
	}
	return wb.Close()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scroll()
		return m, nil
	case tea.KeyPressMsg:
		if m.mode == modeEdit {
			return m.updateEdit(msg)
		}
		return m.updateNormal(msg)
	}
	if m.mode == modeEdit {
		var cmd tea.Cmd
		m.bar, cmd = m.bar.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		m.move(0, -1)
	case "right", "l":
		m.move(0, 1)
	case "up", "k":
		m.move(-1, 0)
	case "down", "j":
		m.move(1, 0)
	case "tab":
		m.move(0, 1)
	case "shift+tab":
		m.move(0, -1)
	case "home":
		m.cursor.Column = 0
		m.focus()
	case "ctrl+home":
		m.cursor = layout.NewPosition(0, 0)
		m.focus()
	case "enter", "=":
		m.mode = modeEdit
		if msg.String() == "=" {
			m.bar.SetValue("=")
		}
		m.bar.CursorEnd()
		return m, m.bar.Focus()
	case "v":
		if m.anchor == nil {
			pos := m.cursor
			m.anchor = &pos
		} else {
			m.anchor = nil
		}
	case "esc":
		m.anchor = nil
	case "y":
		m.copy(grid.CopyFormula)
	case "Y":
		m.copy(grid.CopyValue)
	case "p":
		m.paste()
	case "delete", "backspace":
		m.wb.Clear(m.selection())
		m.anchor = nil
		m.focus()
	case "R":
		m.wb.AddRow()
	case "C":
		m.wb.AddColumn()
	case "i":
		m.check(m.wb.InsertRow(m.cursor.Line))
	case "I":
		m.check(m.wb.InsertColumn(m.cursor.Column))
	case "D":
		m.check(m.wb.DeleteRow(m.cursor.Line))
		m.clamp()
	case "X":
		m.check(m.wb.DeleteColumn(m.cursor.Column))
		m.clamp()
	case "ctrl+r", "f9":
		rpt := m.wb.Recalculate()
		m.status = fmt.Sprintf("%d formula(s), %d failure(s)", rpt.Formulas, rpt.Failed())
	case "t":
		m.wb.SetAutoRecalc(!m.wb.AutoRecalc())
		m.status = "auto recalc off"
		if m.wb.AutoRecalc() {
			m.status = "auto recalc on"
		}
	case "ctrl+n":
		m.wb.NewDocument()
		m.cursor = layout.NewPosition(0, 0)
		m.anchor = nil
		m.focus()
	case "ctrl+s":
		if m.check(m.wb.Save()) {
			m.status = "saved " + m.wb.Path()
		}
	}
	return m, nil
}

func (m Model) updateEdit(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.commit()
		m.move(1, 0)
		return m, nil
	case "tab":
		m.commit()
		m.move(0, 1)
		return m, nil
	case "esc":
		m.mode = modeNormal
		m.bar.Blur()
		m.focus()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.bar, cmd = m.bar.Update(msg)
	return m, cmd
}

func (m *Model) commit() {
	m.mode = modeNormal
	m.bar.Blur()
	m.check(m.wb.Apply(m.cursor, m.bar.Value()))
}

func (m *Model) copy(mode grid.CopyMode) {
	text := m.wb.Copy(m.selection(), mode)
	m.clip = text
	if err := clipboard.WriteAll(text); err != nil {
		m.status = "copied (local)"
		return
	}
	m.status = "copied " + m.selection().String()
}

func (m *Model) paste() {
	text, err := clipboard.ReadAll()
	if err != nil || text == "" {
		text = m.clip
	}
	if rg := m.wb.Paste(m.cursor, text); rg != nil {
		m.status = "pasted " + rg.String()
	}
	m.anchor = nil
	m.focus()
}

// selection gives the selected range or the cell under the cursor when
// nothing is selected.
func (m *Model) selection() *layout.Range {
	if m.anchor == nil {
		return layout.NewRange(m.cursor, m.cursor)
	}
	return layout.NewRange(*m.anchor, m.cursor).Normalize()
}

func (m *Model) check(err error) bool {
	m.err = err
	return err == nil
}

func (m *Model) move(lines, columns int) {
	pos := m.cursor.Offset(lines, columns)
	if !m.wb.Sheet().Contains(pos) {
		return
	}
	m.cursor = pos
	m.focus()
}

func (m *Model) clamp() {
	size := m.wb.Sheet().Size()
	m.cursor.Line = min(m.cursor.Line, size.Lines-1)
	m.cursor.Column = min(m.cursor.Column, size.Columns-1)
	m.focus()
}

// focus loads the raw text of the current cell in the formula bar.
func (m *Model) focus() {
	m.bar.SetValue(m.wb.Sheet().Raw(m.cursor))
	m.status = "Cell " + m.cursor.Addr()
	m.scroll()
}

func (m *Model) scroll() {
	var (
		rows = m.visibleRows()
		cols = m.visibleColumns()
	)
	if m.cursor.Line < m.top {
		m.top = m.cursor.Line
	}
	if m.cursor.Line >= m.top+rows {
		m.top = m.cursor.Line - rows + 1
	}
	if m.cursor.Column < m.left {
		m.left = m.cursor.Column
	}
	if m.cursor.Column >= m.left+cols {
		m.left = m.cursor.Column - cols + 1
	}
}

func (m Model) visibleRows() int {
	return max(1, m.height-chromeHeight)
}

func (m Model) visibleColumns() int {
	return max(1, (m.width-headerWidth)/(cellWidth+1))
}

func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	var (
		b     strings.Builder
		sheet = m.wb.Sheet()
		size  = sheet.Size()
		sel   = m.selection()
		rows  = min(m.top+m.visibleRows(), size.Lines)
		cols  = min(m.left+m.visibleColumns(), size.Columns)
	)
	b.WriteString(titleStyle.Render(" " + m.wb.Title()))
	b.WriteString("\n")
	b.WriteString(m.bar.View())
	b.WriteString("\n")

	b.WriteString(headerStyle.Render(strings.Repeat(" ", headerWidth)))
	for j := m.left; j < cols; j++ {
		b.WriteString(dimStyle.Render("│"))
		b.WriteString(headerStyle.Render(align(layout.ColumnName(j), cellWidth, true)))
	}
	b.WriteString("\n")

	for i := m.top; i < rows; i++ {
		b.WriteString(headerStyle.Render(align(fmt.Sprint(i+1), headerWidth, false)))
		for j := m.left; j < cols; j++ {
			var (
				pos  = layout.NewPosition(i, j)
				cell = align(sheet.Displayed(pos), cellWidth, false)
			)
			b.WriteString(dimStyle.Render("│"))
			switch {
			case pos.Equal(m.cursor):
				b.WriteString(cursorStyle.Render(cell))
			case m.anchor != nil && sel.Contains(pos):
				b.WriteString(selectedStyle.Render(cell))
			default:
				b.WriteString(cell)
			}
		}
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(" error: " + m.err.Error()))
	} else {
		b.WriteString(statusStyle.Render(" " + m.status))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(help))
	return b.String()
}

func align(str string, width int, center bool) string {
	n := utf8.RuneCountInString(str)
	if n > width {
		rs := []rune(str)
		return string(rs[:width-1]) + "…"
	}
	pad := width - n
	if center {
		return strings.Repeat(" ", pad/2) + str + strings.Repeat(" ", pad-pad/2)
	}
	return strings.Repeat(" ", pad) + str
}
