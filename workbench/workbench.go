package workbench

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/midbel/gridcalc/config"
	"github.com/midbel/gridcalc/doc"
	"github.com/midbel/gridcalc/format"
	"github.com/midbel/gridcalc/grid"
	"github.com/midbel/gridcalc/layout"
)

const DefaultTitle = "Spreadsheet"

var ErrPath = errors.New("no file associated with the sheet")

type Option func(*Workbench)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Workbench) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithSettingsFile gives the file where the settings are written back each
// time a document is opened or saved.
func WithSettingsFile(file string) Option {
	return func(w *Workbench) {
		w.settingsFile = file
	}
}

// Workbench is an editing session over a single sheet.
type Workbench struct {
	sheet *grid.Sheet
	path  string
	dirty bool

	settings     config.Settings
	settingsFile string
	options      []grid.Option

	logger *slog.Logger
}

func New(settings config.Settings, options ...Option) (*Workbench, error) {
	formatter, err := format.New(settings.NumberFormat, settings.Digits)
	if err != nil {
		return nil, err
	}
	w := Workbench{
		settings: settings,
		logger:   slog.New(slog.DiscardHandler),
		options: []grid.Option{
			grid.WithFormatter(formatter),
			grid.WithMarker(settings.ErrorMarker),
		},
	}
	for _, o := range options {
		o(&w)
	}
	w.NewDocument()
	return &w, nil
}

// Restore opens the last file of the previous session. It starts with an
// empty document when that file is gone.
func (w *Workbench) Restore() error {
	file := w.settings.LastFile
	if file == "" {
		return nil
	}
	if _, err := os.Stat(file); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return w.Open(file)
}

// Close records the current file as the one to restore in the next session.
func (w *Workbench) Close() error {
	if w.path == "" {
		return nil
	}
	w.settings.Remember(w.path)
	return w.persist()
}

func (w *Workbench) Sheet() *grid.Sheet {
	return w.sheet
}

func (w *Workbench) Settings() config.Settings {
	return w.settings
}

func (w *Workbench) Path() string {
	return w.path
}

func (w *Workbench) Dirty() bool {
	return w.dirty
}

func (w *Workbench) AutoRecalc() bool {
	return w.settings.Recalc()
}

func (w *Workbench) SetAutoRecalc(on bool) {
	w.settings.SetRecalc(on)
}

// Title gives the name of the session: the base name of the current file
// followed by a star when there are unsaved changes.
func (w *Workbench) Title() string {
	var str strings.Builder
	str.WriteString(DefaultTitle)
	if w.path != "" {
		str.WriteString(" - ")
		str.WriteString(filepath.Base(w.path))
	}
	if w.dirty {
		str.WriteString("*")
	}
	return str.String()
}

func (w *Workbench) NewDocument() {
	size := layout.Dimension{
		Lines:   w.settings.Lines,
		Columns: w.settings.Columns,
	}
	w.sheet = grid.NewSheet("", size, w.options...)
	w.sheet.Recalculate()
	w.path = ""
	w.dirty = false
}

// Open replaces the current sheet with the content of file. The format is
// selected from the extension of the file.
func (w *Workbench) Open(file string) error {
	sheet, err := w.read(file)
	if err != nil {
		w.logger.Error("fail to open file", "file", file, "err", err)
		return err
	}
	sheet.Resize(layout.Dimension{
		Lines:   w.settings.Lines,
		Columns: w.settings.Columns,
	})
	rpt := sheet.Recalculate()
	w.logger.Info("file opened", "file", file, "cells", rpt.Cells, "failures", rpt.Failed())

	w.sheet = sheet
	w.path = absPath(file)
	w.dirty = false
	w.settings.Remember(w.path)
	return w.persist()
}

func (w *Workbench) Save() error {
	if w.path == "" {
		return ErrPath
	}
	return w.SaveAs(w.path)
}

func (w *Workbench) SaveAs(file string) error {
	if err := w.write(file); err != nil {
		w.logger.Error("fail to save file", "file", file, "err", err)
		return err
	}
	w.logger.Info("file saved", "file", file)
	w.path = absPath(file)
	w.dirty = false
	w.settings.Remember(w.path)
	return w.persist()
}

// Edit sets the raw text of the cell at pos. When the automatic
// recalculation is disabled, the raw text is displayed as typed.
func (w *Workbench) Edit(pos layout.Position, raw string) error {
	if err := w.sheet.SetRaw(pos, raw); err != nil {
		return err
	}
	if !w.AutoRecalc() {
		w.sheet.Show(pos, raw)
	}
	w.changed()
	return nil
}

// Apply commits the content of the formula bar to the cell at pos.
func (w *Workbench) Apply(pos layout.Position, raw string) error {
	return w.Edit(pos, raw)
}

func (w *Workbench) AddRow() {
	w.sheet.AddRow()
	w.changed()
}

func (w *Workbench) AddColumn() {
	w.sheet.AddColumn()
	w.changed()
}

func (w *Workbench) InsertRow(ix int) error {
	return w.update(func() error {
		return w.sheet.InsertRow(ix)
	})
}

func (w *Workbench) InsertColumn(ix int) error {
	return w.update(func() error {
		return w.sheet.InsertColumn(ix)
	})
}

func (w *Workbench) DeleteRow(ix int) error {
	return w.update(func() error {
		return w.sheet.DeleteRow(ix)
	})
}

func (w *Workbench) DeleteColumn(ix int) error {
	return w.update(func() error {
		return w.sheet.DeleteColumn(ix)
	})
}

// Copy gives the raw text of the cells of rg as tab separated lines.
func (w *Workbench) Copy(rg *layout.Range, mode grid.CopyMode) string {
	return w.sheet.Copy(rg, mode)
}

func (w *Workbench) Paste(at layout.Position, text string) *layout.Range {
	rg := w.sheet.Paste(at, text)
	if rg != nil {
		w.changed()
	}
	return rg
}

func (w *Workbench) Clear(rg *layout.Range) {
	w.sheet.Clear(rg)
	w.changed()
}

func (w *Workbench) Recalculate() grid.Report {
	rpt := w.sheet.Recalculate()
	w.logger.Debug("sheet recalculated", "cells", rpt.Cells, "formulas", rpt.Formulas, "failures", rpt.Failed())
	return rpt
}

func (w *Workbench) update(fn func() error) error {
	if err := fn(); err != nil {
		return err
	}
	w.changed()
	return nil
}

func (w *Workbench) changed() {
	if w.AutoRecalc() {
		w.Recalculate()
	}
	w.dirty = true
}

func (w *Workbench) persist() error {
	if w.settingsFile == "" {
		return nil
	}
	if err := config.Save(w.settingsFile, w.settings); err != nil {
		w.logger.Warn("fail to save settings", "file", w.settingsFile, "err", err)
		return err
	}
	return nil
}

func (w *Workbench) read(file string) (*grid.Sheet, error) {
	return doc.ReadFile(file, w.options...)
}

func (w *Workbench) write(file string) error {
	if w.sheet.Name() == "" {
		w.sheet.Rename(doc.SheetName(file))
	}
	return doc.WriteFile(file, w.sheet)
}

func absPath(file string) string {
	if abs, err := filepath.Abs(file); err == nil {
		return abs
	}
	return file
}
