package oxml

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"slices"
	"strconv"
	"strings"

	sax "github.com/midbel/codecs/xml"
	"github.com/midbel/gridcalc/formula"
	"github.com/midbel/gridcalc/grid"
	"github.com/midbel/gridcalc/layout"
)

type reader struct {
	reader *zip.ReadCloser
	base   string
}

func readFile(name string) (*reader, error) {
	z, err := zip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFile, err)
	}
	r := reader{
		reader: z,
		base:   wbBaseDir,
	}
	return &r, nil
}

func (r *reader) Close() error {
	return r.reader.Close()
}

func (r *reader) readWorkbook() ([]SheetInfo, error) {
	addr, err := r.readWorkbookLocation()
	if err != nil {
		return nil, err
	}
	r.base = path.Dir(addr)

	var root xmlWorkbook
	if err := r.decodeXML(addr, &root); err != nil {
		return nil, err
	}
	relations, err := r.readRelationsForSheets(addr)
	if err != nil {
		return nil, err
	}
	var active int
	if len(root.Views) > 0 {
		active = root.Views[0].ActiveTab
	}
	var list []SheetInfo
	for i, xs := range root.Sheets {
		ix := slices.IndexFunc(relations, func(r xmlRelation) bool {
			return r.Id == xs.Id
		})
		if ix < 0 {
			return nil, fmt.Errorf("%w: no relation for sheet %s", ErrFile, xs.Name)
		}
		s := SheetInfo{
			Id:     xs.Id,
			Name:   xs.Name,
			Index:  xs.Index,
			State:  xs.State,
			Active: i == active,
			target: r.resolve(relations[ix].Target),
		}
		if s.State == 0 {
			s.State = StateVisible
		}
		list = append(list, s)
	}
	return list, nil
}

func (r *reader) readSharedStrings() ([]string, error) {
	name := r.resolve("sharedStrings.xml")
	if !r.exists(name) {
		return nil, nil
	}
	var root xmlSharedStrings
	if err := r.decodeXML(name, &root); err != nil {
		return nil, err
	}
	list := make([]string, 0, len(root.Values))
	for _, v := range root.Values {
		list = append(list, v.String())
	}
	return list, nil
}

func (r *reader) readWorksheet(info SheetInfo, shared []string, sheet *grid.Sheet) error {
	z, err := r.openFile(info.target)
	if err != nil {
		return err
	}
	defer z.Close()

	rs := loadSheet(z, shared)
	if err := rs.Load(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFile, info.Name, err)
	}
	if err := sheet.LoadCells(rs.cells, grid.DefaultSize()); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFile, info.Name, err)
	}
	return nil
}

func (r *reader) readWorkbookLocation() (string, error) {
	var root xmlRelations
	if err := r.decodeXML("_rels/.rels", &root); err != nil {
		return "", err
	}
	ix := slices.IndexFunc(root.Relations, func(r xmlRelation) bool {
		return strings.HasSuffix(r.Type, "relationships/officeDocument")
	})
	if ix < 0 {
		return "", fmt.Errorf("%w: workbook not found", ErrFile)
	}
	return strings.TrimPrefix(root.Relations[ix].Target, "/"), nil
}

func (r *reader) readRelationsForSheets(workbook string) ([]xmlRelation, error) {
	var (
		root xmlRelations
		name = path.Join(path.Dir(workbook), "_rels", path.Base(workbook)+".rels")
	)
	if err := r.decodeXML(name, &root); err != nil {
		return nil, err
	}
	return root.Relations, nil
}

func (r *reader) decodeXML(name string, ptr any) error {
	rs, err := r.openFile(name)
	if err != nil {
		return err
	}
	defer rs.Close()
	if err := xml.NewDecoder(rs).Decode(ptr); err != nil {
		return fmt.Errorf("%w: fail to read data from %s", ErrFile, name)
	}
	return nil
}

func (r *reader) exists(name string) bool {
	return slices.ContainsFunc(r.reader.File, func(f *zip.File) bool {
		return f.Name == name
	})
}

func (r *reader) openFile(name string) (io.ReadCloser, error) {
	ix := slices.IndexFunc(r.reader.File, func(f *zip.File) bool {
		return f.Name == name
	})
	if ix < 0 {
		return nil, fmt.Errorf("%w: %s missing", ErrFile, name)
	}
	return r.reader.File[ix].Open()
}

// resolve gives the archive name of a target relative to the workbook
// directory. Absolute targets start at the root of the archive.
func (r *reader) resolve(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(r.base, target)
}

type sharedFormula struct {
	layout.Position
	Expr formula.Expr
}

type sheetReader struct {
	reader         *sax.Reader
	sharedStrings  []string
	sharedFormulas map[string]sharedFormula

	cells map[layout.Position]string
	last  layout.Position
}

func loadSheet(r io.Reader, shared []string) *sheetReader {
	rs := sheetReader{
		reader:         sax.NewReader(r),
		sharedStrings:  shared,
		sharedFormulas: make(map[string]sharedFormula),
		cells:          make(map[layout.Position]string),
		last:           layout.NewPosition(-1, -1),
	}
	return &rs
}

func (r *sheetReader) Load() error {
	r.reader.Element(sax.LocalName("row"), r.onRow)
	r.reader.Element(sax.LocalName("c"), r.onCell)
	return r.reader.Start()
}

func (r *sheetReader) set(pos layout.Position, raw string) {
	if raw == "" {
		return
	}
	r.cells[pos] = raw
}

func (r *sheetReader) parseCellValue(pos layout.Position, kind, str string) error {
	if _, ok := r.cells[pos]; ok {
		return nil
	}
	switch kind {
	case TypeSharedStr:
		n, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			return fmt.Errorf("invalid shared string index: %s", str)
		}
		if n < 0 || n >= len(r.sharedStrings) {
			return fmt.Errorf("shared string index out of bounds")
		}
		r.set(pos, r.sharedStrings[n])
	case TypeBool:
		if str == "1" || strings.EqualFold(str, "true") {
			str = "1"
		} else {
			str = "0"
		}
		r.set(pos, str)
	default:
		r.set(pos, str)
	}
	return nil
}

func (r *sheetReader) parseCellFormula(pos layout.Position, el sax.E, rs *sax.Reader) error {
	var (
		kind  = el.GetAttributeValue("t")
		index = el.GetAttributeValue("si")
	)
	if sf, ok := r.sharedFormulas[index]; kind == FormulaShared && ok {
		expr, err := formula.Shift(sf.Expr, pos.Line-sf.Line, pos.Column-sf.Column)
		if err != nil {
			return err
		}
		r.set(pos, "="+expr.String())
	}
	if el.SelfClosed {
		return nil
	}
	rs.OnText(func(_ *sax.Reader, str string) error {
		if _, ok := r.sharedFormulas[index]; kind == FormulaShared && !ok {
			expr, err := formula.ParseFormula(str)
			if err == nil {
				r.sharedFormulas[index] = sharedFormula{
					Position: pos,
					Expr:     expr,
				}
			}
		}
		if _, ok := r.cells[pos]; !ok {
			r.set(pos, "="+str)
		}
		return nil
	})
	return nil
}

func (r *sheetReader) onCell(rs *sax.Reader, el sax.E) error {
	var (
		kind = el.GetAttributeValue("t")
		addr = el.GetAttributeValue("r")
	)
	pos := r.last.Offset(0, 1)
	if addr != "" {
		p, err := layout.ParsePosition(addr)
		if err != nil {
			return err
		}
		pos = p
	}
	r.last = pos
	rs.Element(sax.LocalName("f"), func(rs *sax.Reader, el sax.E) error {
		return r.parseCellFormula(pos, el, rs)
	})
	if kind == TypeInlineStr {
		rs.Element(sax.LocalName("t"), func(rs *sax.Reader, _ sax.E) error {
			rs.OnText(func(_ *sax.Reader, str string) error {
				return r.parseCellValue(pos, kind, str)
			})
			return nil
		})
		return nil
	}
	rs.Element(sax.LocalName("v"), func(rs *sax.Reader, _ sax.E) error {
		rs.OnText(func(_ *sax.Reader, str string) error {
			return r.parseCellValue(pos, kind, str)
		})
		return nil
	})
	return nil
}

// onRow positions the reader before the first cell of the row. Row and cell
// references are optional.
func (r *sheetReader) onRow(_ *sax.Reader, el sax.E) error {
	line := r.last.Line + 1
	if str := el.GetAttributeValue("r"); str != "" {
		n, err := strconv.Atoi(str)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid row number: %s", str)
		}
		line = n - 1
	}
	r.last = layout.NewPosition(line, -1)
	return nil
}
