package oxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/midbel/gridcalc/grid"
)

const (
	FormulaNormal = "normal"
	FormulaShared = "shared"
)

const (
	TypeSharedStr = "s"
	TypeInlineStr = "inlineStr"
	TypeFormula   = "str"
	TypeError     = "e"
	TypeBool      = "b"
	TypeNumber    = "n"
)

var (
	ErrFile  = errors.New("invalid spreadsheet")
	ErrFound = errors.New("not found")
)

type SheetState int8

const (
	StateVisible SheetState = 1 << iota
	StateHidden
	StateVeryHidden
)

func (s SheetState) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	attr := xml.Attr{
		Name: name,
	}
	switch s {
	case StateHidden:
		attr.Value = "hidden"
	case StateVeryHidden:
		attr.Value = "veryHidden"
	default:
		attr.Value = "visible"
	}
	return attr, nil
}

func (s *SheetState) UnmarshalXMLAttr(attr xml.Attr) error {
	switch attr.Value {
	case "hidden":
		*s = StateHidden
	case "veryHidden":
		*s = StateVeryHidden
	default:
		*s = StateVisible
	}
	return nil
}

// SheetInfo describes a worksheet as listed by the workbook.
type SheetInfo struct {
	Id     string
	Name   string
	Index  int
	State  SheetState
	Active bool

	target string
}

// Sheets lists the worksheets of an xlsx file in workbook order.
func Sheets(file string) ([]SheetInfo, error) {
	r, err := readFile(file)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.readWorkbook()
}

// ReadFile imports the active worksheet of an xlsx file.
func ReadFile(file string, options ...grid.Option) (*grid.Sheet, error) {
	return ReadSheet(file, "", options...)
}

// ReadSheet imports the worksheet called name. An empty name selects the
// active worksheet. Formulas are imported with their leading '=', values as
// their text.
func ReadSheet(file, name string, options ...grid.Option) (*grid.Sheet, error) {
	r, err := readFile(file)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	infos, err := r.readWorkbook()
	if err != nil {
		return nil, err
	}
	info, err := selectSheet(infos, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	shared, err := r.readSharedStrings()
	if err != nil {
		return nil, err
	}
	sheet := grid.NewSheet(info.Name, grid.DefaultSize(), options...)
	if err := r.readWorksheet(info, shared, sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

// WriteFile exports view as the only worksheet of a new xlsx file.
func WriteFile(file string, view grid.View) error {
	w, err := writeFile(file)
	if err != nil {
		return err
	}
	if err := w.WriteSheet(view); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func selectSheet(infos []SheetInfo, name string) (SheetInfo, error) {
	if len(infos) == 0 {
		return SheetInfo{}, fmt.Errorf("%w: no worksheet", ErrFile)
	}
	for _, i := range infos {
		if name == "" && i.Active {
			return i, nil
		}
		if name != "" && strings.EqualFold(i.Name, name) {
			return i, nil
		}
	}
	if name == "" {
		return infos[0], nil
	}
	return SheetInfo{}, fmt.Errorf("%w: sheet %s", ErrFound, name)
}

func sheetName(view grid.View) string {
	name := view.Name()
	if name == "" {
		return "sheet1"
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}
