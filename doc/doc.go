package doc

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/midbel/gridcalc/csv"
	"github.com/midbel/gridcalc/grid"
	"github.com/midbel/gridcalc/oxml"
	"github.com/midbel/gridcalc/store"
)

var ErrFormat = errors.New("unsupported format")

type Format int

const (
	Unknown Format = iota
	CSV
	OXML
	SQLite
	Automerge
)

func (f Format) String() string {
	switch f {
	case CSV:
		return "csv"
	case OXML:
		return "xlsx"
	case SQLite:
		return "sqlite"
	case Automerge:
		return "automerge"
	default:
		return "unknown"
	}
}

// FormatFromName selects a format from the extension of file.
func FormatFromName(file string) Format {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".csv", ".txt":
		return CSV
	case ".xlsx":
		return OXML
	case ".db", ".sqlite", ".sqlite3":
		return SQLite
	case ".am", ".automerge":
		return Automerge
	default:
		return Unknown
	}
}

// Detect gives the format of an existing file. The content of the file is
// checked when its extension is not known.
func Detect(file string) (Format, error) {
	if f := FormatFromName(file); f != Unknown {
		return f, nil
	}
	ok, err := isZip(file)
	if err != nil {
		return Unknown, err
	}
	if ok {
		return detectZip(file)
	}
	if ok, err = isSQLite(file); err != nil {
		return Unknown, err
	}
	if ok {
		return SQLite, nil
	}
	return Unknown, fmt.Errorf("%w: %s", ErrFormat, filepath.Ext(file))
}

func ReadFile(file string, options ...grid.Option) (*grid.Sheet, error) {
	format, err := Detect(file)
	if err != nil {
		return nil, err
	}
	switch format {
	case CSV:
		return csv.ReadFile(file, options...)
	case OXML:
		return oxml.ReadFile(file, options...)
	case SQLite:
		return readDatabase(file, options...)
	case Automerge:
		var am store.Automerge
		return am.Load(file, options...)
	default:
		return nil, fmt.Errorf("%w: %s", ErrFormat, file)
	}
}

// WriteFile writes view to file in the format given by its extension.
func WriteFile(file string, view grid.View) error {
	switch format := FormatFromName(file); format {
	case CSV:
		return csv.WriteFile(file, view)
	case OXML:
		return oxml.WriteFile(file, view)
	case SQLite:
		return writeDatabase(file, view)
	case Automerge:
		am := store.Automerge{
			Message: "save " + view.Name(),
		}
		return am.Save(file, view)
	default:
		return fmt.Errorf("%w: %s", ErrFormat, filepath.Ext(file))
	}
}

// SheetName is the name given to a sheet read from or written to file.
func SheetName(file string) string {
	file = filepath.Base(file)
	return strings.TrimSuffix(file, filepath.Ext(file))
}

// readDatabase loads the sheet named after file or the first sheet of the
// database when there is none with that name.
func readDatabase(file string, options ...grid.Option) (*grid.Sheet, error) {
	if _, err := os.Stat(file); err != nil {
		return nil, err
	}
	ctx := context.Background()
	db, err := store.OpenSQLite(ctx, file)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	sheet, err := db.Load(ctx, SheetName(file), options...)
	if err == nil || !errors.Is(err, store.ErrFound) {
		return sheet, err
	}
	names, err := db.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s: empty database", store.ErrFound, file)
	}
	return db.Load(ctx, names[0], options...)
}

func writeDatabase(file string, view grid.View) error {
	ctx := context.Background()
	db, err := store.OpenSQLite(ctx, file)
	if err != nil {
		return err
	}
	defer db.Close()

	name := view.Name()
	if name == "" {
		name = SheetName(file)
	}
	return db.Save(ctx, name, view)
}

func detectZip(file string) (Format, error) {
	z, err := zip.OpenReader(file)
	if err != nil {
		return Unknown, err
	}
	defer z.Close()
	for _, f := range z.File {
		switch f.Name {
		case "xl/workbook.xml", "[Content_Types].xml":
			return OXML, nil
		default:
		}
	}
	return Unknown, fmt.Errorf("%w: unknown archive", ErrFormat)
}

var (
	magicZipBytes = [][]byte{
		{0x50, 0x4b, 0x03, 0x04},
		{0x50, 0x4b, 0x05, 0x06},
		{0x50, 0x4b, 0x07, 0x08},
	}
	magicSQLite = []byte("SQLite format 3\x00")
)

func isZip(file string) (bool, error) {
	magic, err := readMagic(file, 4)
	if err != nil || magic == nil {
		return false, err
	}
	for _, mzb := range magicZipBytes {
		if bytes.Equal(magic, mzb) {
			return true, nil
		}
	}
	return false, nil
}

func isSQLite(file string) (bool, error) {
	magic, err := readMagic(file, len(magicSQLite))
	if err != nil || magic == nil {
		return false, err
	}
	return bytes.Equal(magic, magicSQLite), nil
}

// readMagic gives the first n bytes of file or nil when the file is shorter.
func readMagic(file string, n int) ([]byte, error) {
	r, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	magic := make([]byte, n)
	if _, err := io.ReadFull(r, magic); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, nil
		}
		return nil, err
	}
	return magic, nil
}
