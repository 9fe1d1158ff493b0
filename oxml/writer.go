package oxml

import (
	"archive/zip"
	"compress/flate"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/midbel/gridcalc/grid"
	"github.com/midbel/gridcalc/layout"
	"github.com/midbel/gridcalc/value"
)

const (
	sheetId     = "rId1"
	sheetTarget = "worksheets/sheet1.xml"
)

type writer struct {
	base   string
	writer *zip.Writer
	io.Closer

	err error
}

func writeFile(file string) (*writer, error) {
	w, err := os.Create(file)
	if err != nil {
		return nil, err
	}
	z := writer{
		base:   wbBaseDir,
		writer: zip.NewWriter(w),
		Closer: w,
	}
	z.writer.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})
	return &z, nil
}

func (z *writer) WriteSheet(view grid.View) error {
	z.writeWorksheet(view)
	z.writeWorkbook(view)
	z.writeRelationForSheets()
	z.writeRelations()
	z.writeStyles()
	z.writeContentTypes()
	return z.err
}

func (z *writer) Close() error {
	err := z.writer.Close()
	if e := z.Closer.Close(); err == nil {
		err = e
	}
	return err
}

func (z *writer) writeContentTypes() {
	if z.invalid() {
		return
	}
	type xmlDefault struct {
		XMLName     xml.Name `xml:"Default"`
		Extension   string   `xml:"Extension,attr"`
		ContentType string   `xml:"ContentType,attr"`
	}

	type xmlOverride struct {
		XMLName     xml.Name `xml:"Override"`
		PartName    string   `xml:"PartName,attr"`
		ContentType string   `xml:"ContentType,attr"`
	}

	root := struct {
		XMLName   xml.Name      `xml:"Types"`
		Xmlns     string        `xml:"xmlns,attr"`
		Defaults  []xmlDefault  `xml:"Default"`
		Overrides []xmlOverride `xml:"Override"`
	}{
		Xmlns: typeContent,
		Defaults: []xmlDefault{
			{
				Extension:   "rels",
				ContentType: mimeRels,
			},
			{
				Extension:   "xml",
				ContentType: mimeXml,
			},
		},
		Overrides: []xmlOverride{
			{
				PartName:    "/" + z.createTarget("workbook.xml"),
				ContentType: mimeWorkbook,
			},
			{
				PartName:    "/" + z.createTarget("styles.xml"),
				ContentType: mimeStyle,
			},
			{
				PartName:    "/" + z.createTarget(sheetTarget),
				ContentType: mimeWorksheet,
			},
		},
	}
	z.encodeXML("[Content_Types].xml", &root)
}

func (z *writer) writeStyles() {
	if z.invalid() {
		return
	}
	root := struct {
		XMLName xml.Name `xml:"styleSheet"`
		Xmlns   string   `xml:"xmlns,attr"`
	}{
		Xmlns: typeMainUrl,
	}
	z.encodeXML(z.createTarget("styles.xml"), root)
}

func (z *writer) writeRelations() {
	if z.invalid() {
		return
	}
	root := xmlRelations{
		Xmlns: typePkgRelUrl,
		Relations: []xmlRelation{
			{
				Id:     "rId1",
				Type:   typeDocUrl,
				Target: z.createTarget("workbook.xml"),
			},
		},
	}
	z.encodeXML("_rels/.rels", &root)
}

func (z *writer) writeRelationForSheets() {
	if z.invalid() {
		return
	}
	root := xmlRelations{
		Xmlns: typePkgRelUrl,
		Relations: []xmlRelation{
			{
				Id:     sheetId,
				Type:   typeSheetUrl,
				Target: sheetTarget,
			},
			{
				Id:     "rId2",
				Type:   typeStyleUrl,
				Target: "styles.xml",
			},
		},
	}
	z.encodeXML(z.createTarget("_rels", "workbook.xml.rels"), &root)
}

// writeWorksheet stores formulas without their leading '=', numbers as
// numeric values and any other text as inline strings.
func (z *writer) writeWorksheet(view grid.View) {
	if z.invalid() {
		return
	}
	root := struct {
		XMLName   xml.Name `xml:"worksheet"`
		Xmlns     string   `xml:"xmlns,attr"`
		RelXmlns  string   `xml:"xmlns:r,attr"`
		Dimension struct {
			Ref string `xml:"ref,attr"`
		} `xml:"dimension"`
		Rows []xmlRow `xml:"sheetData>row"`
	}{
		Xmlns:    typeMainUrl,
		RelXmlns: typeRelUrl,
	}
	root.Dimension.Ref = "A1"
	if rg := view.Bounds(); rg != nil {
		root.Dimension.Ref = rg.String()
	}
	var line int
	for row := range view.Rows() {
		rx := xmlRow{
			Line: line + 1,
		}
		for col, raw := range row {
			if raw == "" {
				continue
			}
			pos := layout.NewPosition(line, col)
			rx.Cells = append(rx.Cells, encodeCell(pos, raw))
		}
		line++
		if len(rx.Cells) > 0 {
			root.Rows = append(root.Rows, rx)
		}
	}
	z.encodeXML(z.createTarget(sheetTarget), &root)
}

func encodeCell(pos layout.Position, raw string) xmlCell {
	cell := xmlCell{
		Addr: pos.Addr(),
	}
	switch value.KindOf(raw) {
	case value.KindFormula:
		if value.IsFormula(raw) {
			cell.Formula = &xmlFormula{
				Expr: value.Expression(raw),
			}
			return cell
		}
	case value.KindLiteral:
		f, err := value.CastToFloat(raw)
		if err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) && raw == strings.TrimSpace(raw) {
			cell.Type = TypeNumber
			cell.Value = raw
			return cell
		}
	default:
	}
	cell.Type = TypeInlineStr
	cell.Inline = &xmlInline{
		Text: xmlText{
			Value: raw,
		},
	}
	if raw != strings.TrimSpace(raw) {
		cell.Inline.Text.Space = "preserve"
	}
	return cell
}

func (z *writer) writeWorkbook(view grid.View) {
	if z.invalid() {
		return
	}
	type xmlSheet struct {
		XMLName xml.Name   `xml:"sheet"`
		Id      string     `xml:"r:id,attr"`
		Name    string     `xml:"name,attr"`
		Index   int        `xml:"sheetId,attr"`
		State   SheetState `xml:"state,attr"`
	}

	root := struct {
		XMLName  xml.Name   `xml:"workbook"`
		Xmlns    string     `xml:"xmlns,attr"`
		RelXmlns string     `xml:"xmlns:r,attr"`
		Sheets   []xmlSheet `xml:"sheets>sheet"`
	}{
		Xmlns:    typeMainUrl,
		RelXmlns: typeRelUrl,
	}
	xs := xmlSheet{
		Id:    sheetId,
		Index: 1,
		Name:  sheetName(view),
		State: StateVisible,
	}
	root.Sheets = append(root.Sheets, xs)
	z.encodeXML(z.createTarget("workbook.xml"), root)
}

func (z *writer) encodeXML(name string, ptr any) {
	w, err := z.writer.Create(name)
	if err != nil {
		z.err = err
		return
	}
	io.WriteString(w, xml.Header)
	if err := xml.NewEncoder(w).Encode(ptr); err != nil {
		z.err = fmt.Errorf("%w: fail to write data to %s", err, name)
	}
}

func (z *writer) createTarget(parts ...string) string {
	parts = append([]string{z.base}, parts...)
	return strings.Join(parts, "/")
}

func (z *writer) invalid() bool {
	return z.err != nil
}
