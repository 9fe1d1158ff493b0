package oxml

import (
	"encoding/xml"
	"strings"
)

const wbBaseDir = "xl"

const (
	typeSheetUrl  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	typeDocUrl    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	typeMainUrl   = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	typeSharedUrl = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings"
	typeStyleUrl  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	typeRelUrl    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	typePkgRelUrl = "http://schemas.openxmlformats.org/package/2006/relationships"
	typeContent   = "http://schemas.openxmlformats.org/package/2006/content-types"
)

const (
	mimeRels         = "application/vnd.openxmlformats-package.relationships+xml"
	mimeXml          = "application/xml"
	mimeWorkbook     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	mimeWorksheet    = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	mimeStyle        = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	mimeSharedString = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
)

type xmlWorkbook struct {
	XMLName xml.Name `xml:"workbook"`
	Views   []struct {
		ActiveTab int `xml:"activeTab,attr"`
	} `xml:"bookViews>workbookView"`
	Sheets []xmlSheet `xml:"sheets>sheet"`
}

type xmlSheet struct {
	XMLName xml.Name   `xml:"sheet"`
	Id      string     `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	Name    string     `xml:"name,attr"`
	Index   int        `xml:"sheetId,attr"`
	State   SheetState `xml:"state,attr"`
}

type xmlRelations struct {
	XMLName   xml.Name      `xml:"Relationships"`
	Xmlns     string        `xml:"xmlns,attr"`
	Relations []xmlRelation `xml:"Relationship"`
}

type xmlRelation struct {
	XMLName xml.Name `xml:"Relationship"`
	Target  string   `xml:",attr"`
	Id      string   `xml:",attr"`
	Type    string   `xml:",attr"`
}

type xmlSharedStrings struct {
	XMLName   xml.Name          `xml:"sst"`
	Xmlns     string            `xml:"xmlns,attr"`
	Count     int               `xml:"count,attr"`
	UniqCount int               `xml:"uniqueCount,attr"`
	Values    []xmlSharedString `xml:"si"`
}

// xmlSharedString holds either a plain text or a list of rich text runs.
type xmlSharedString struct {
	Text string `xml:"t"`
	Runs []struct {
		Text string `xml:"t"`
	} `xml:"r"`
}

func (s xmlSharedString) String() string {
	if len(s.Runs) == 0 {
		return s.Text
	}
	var str strings.Builder
	for _, r := range s.Runs {
		str.WriteString(r.Text)
	}
	return str.String()
}

type xmlRow struct {
	XMLName xml.Name  `xml:"row"`
	Line    int       `xml:"r,attr"`
	Cells   []xmlCell `xml:"c"`
}

type xmlCell struct {
	XMLName xml.Name    `xml:"c"`
	Addr    string      `xml:"r,attr"`
	Type    string      `xml:"t,attr,omitempty"`
	Formula *xmlFormula `xml:"f,omitempty"`
	Value   string      `xml:"v,omitempty"`
	Inline  *xmlInline  `xml:"is,omitempty"`
}

type xmlInline struct {
	Text xmlText `xml:"t"`
}

type xmlText struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

type xmlFormula struct {
	XMLName xml.Name `xml:"f"`
	Type    string   `xml:"t,attr,omitempty"`
	Index   string   `xml:"si,attr,omitempty"`
	Ref     string   `xml:"ref,attr,omitempty"`
	Expr    string   `xml:",chardata"`
}
