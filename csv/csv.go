package csv

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/midbel/gridcalc/grid"
	"github.com/midbel/gridcalc/layout"
)

type Encoder struct {
	writer *Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		writer: NewWriter(w),
	}
}

// EncodeSheet writes the raw text of the sheet trimmed to its bounds. An empty
// sheet produces no output.
func (e *Encoder) EncodeSheet(view grid.View) error {
	for row := range view.Rows() {
		if err := e.writer.Write(row); err != nil {
			return err
		}
	}
	return e.writer.Flush()
}

type Decoder struct {
	reader  *Reader
	minimum layout.Dimension
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		reader:  NewReader(r),
		minimum: grid.DefaultSize(),
	}
}

func (d *Decoder) DecodeSheet(sheet *grid.Sheet) error {
	rows, err := d.reader.ReadAll()
	if err != nil {
		return err
	}
	sheet.Load(rows, d.minimum)
	return nil
}

func ReadFile(file string, options ...grid.Option) (*grid.Sheet, error) {
	r, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	sheet := grid.NewSheet(sheetName(file), grid.DefaultSize(), options...)
	if err := NewDecoder(r).DecodeSheet(sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

func WriteFile(file string, view grid.View) error {
	w, err := os.Create(file)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := NewEncoder(w).EncodeSheet(view); err != nil {
		return err
	}
	return w.Close()
}

func sheetName(file string) string {
	name := filepath.Base(file)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
