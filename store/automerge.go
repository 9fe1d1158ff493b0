package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/automerge/automerge-go"
	"github.com/midbel/gridcalc/grid"
	"github.com/midbel/gridcalc/layout"
)

// Automerge stores a sheet as an automerge document:
//
//	{ "name": str, "lines": int, "columns": int, "rows": [[str, ...], ...] }
//
// rows holds the raw grid trimmed to its bounds.
type Automerge struct {
	Message string
}

func (a Automerge) Save(file string, view grid.View) error {
	doc, err := a.encode(view)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	return os.WriteFile(file, doc.Save(), 0o644)
}

func (a Automerge) Load(file string, options ...grid.Option) (*grid.Sheet, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	doc, err := automerge.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, file, err)
	}
	name := getStr(doc, "name")
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	size := layout.Dimension{
		Lines:   getInt(doc, "lines"),
		Columns: getInt(doc, "columns"),
	}
	if err := checkSize(size); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	rows, err := readRows(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	sheet := grid.NewSheet(name, size, options...)
	sheet.Load(rows, size)
	return sheet, nil
}

func (a Automerge) encode(view grid.View) (*automerge.Doc, error) {
	doc := automerge.New()
	size := view.Size()
	if err := doc.Path("name").Set(view.Name()); err != nil {
		return nil, err
	}
	if err := doc.Path("lines").Set(int64(size.Lines)); err != nil {
		return nil, err
	}
	if err := doc.Path("columns").Set(int64(size.Columns)); err != nil {
		return nil, err
	}
	if err := doc.Path("rows").Set(automerge.NewList()); err != nil {
		return nil, err
	}
	list := doc.Path("rows").List()
	var line int
	for row := range view.Rows() {
		if err := list.Append(automerge.NewList()); err != nil {
			return nil, err
		}
		values := make([]any, 0, len(row))
		for _, raw := range row {
			values = append(values, raw)
		}
		if err := doc.Path("rows", line).List().Append(values...); err != nil {
			return nil, err
		}
		line++
	}
	msg := a.Message
	if msg == "" {
		msg = "save sheet"
	}
	if _, err := doc.Commit(msg); err != nil {
		return nil, err
	}
	return doc, nil
}

func readRows(doc *automerge.Doc) ([][]string, error) {
	v, err := doc.Path("rows").Get()
	if err != nil {
		return nil, err
	}
	switch v.Kind() {
	case automerge.KindVoid:
		return nil, nil
	case automerge.KindList:
	default:
		return nil, fmt.Errorf("%w: rows is not a list", ErrCorrupt)
	}
	var (
		list = v.List()
		rows = make([][]string, 0, list.Len())
	)
	for i := 0; i < list.Len(); i++ {
		item, err := list.Get(i)
		if err != nil {
			return nil, err
		}
		if item.Kind() != automerge.KindList {
			return nil, fmt.Errorf("%w: row %d is not a list", ErrCorrupt, i+1)
		}
		cells := item.List()
		row := make([]string, cells.Len())
		for j := range row {
			c, err := cells.Get(j)
			if err != nil {
				return nil, err
			}
			row[j] = valueStr(c)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func valueStr(v *automerge.Value) string {
	switch v.Kind() {
	case automerge.KindStr:
		return v.Str()
	case automerge.KindText:
		str, _ := v.Text().Get()
		return str
	case automerge.KindInt64:
		return fmt.Sprint(v.Int64())
	case automerge.KindFloat64:
		return fmt.Sprint(v.Float64())
	default:
		return ""
	}
}

func getStr(doc *automerge.Doc, key string) string {
	v, err := doc.Path(key).Get()
	if err != nil {
		return ""
	}
	return valueStr(v)
}

func getInt(doc *automerge.Doc, key string) int {
	v, err := doc.Path(key).Get()
	if err != nil {
		return 0
	}
	switch v.Kind() {
	case automerge.KindInt64:
		return int(v.Int64())
	case automerge.KindUint64:
		return int(v.Uint64())
	case automerge.KindFloat64:
		return int(v.Float64())
	default:
		return 0
	}
}
