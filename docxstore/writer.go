package docxstore

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/docforge/redline/model"
)

const nsW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// Write-side schema. Marshaling needs explicit w: prefixes; the reader-side
// structs cannot be reused because encoding/xml does not emit namespace
// prefixes from local names.

type docWriteXML struct {
	XMLName xml.Name     `xml:"w:document"`
	NS      string       `xml:"xmlns:w,attr"`
	Body    bodyWriteXML `xml:"w:body"`
}

type bodyWriteXML struct {
	Blocks []interface{}
}

func (b bodyWriteXML) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:body"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, block := range b.Blocks {
		if err := e.Encode(block); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

type paragraphWriteXML struct {
	XMLName    xml.Name                `xml:"w:p"`
	Properties *paragraphPropsWriteXML `xml:"w:pPr"`
	Runs       []runWriteXML
}

type paragraphPropsWriteXML struct {
	Style *valWriteXML `xml:"w:pStyle"`
}

type runWriteXML struct {
	XMLName    xml.Name         `xml:"w:r"`
	Properties *runPropsWriteXML `xml:"w:rPr"`
	Text       textWriteXML
}

type runPropsWriteXML struct {
	Fonts     *fontsWriteXML `xml:"w:rFonts"`
	Bold      *emptyWriteXML `xml:"w:b"`
	Italic    *emptyWriteXML `xml:"w:i"`
	Underline *valWriteXML   `xml:"w:u"`
	Color     *valWriteXML   `xml:"w:color"`
	Size      *valWriteXML   `xml:"w:sz"`
}

type textWriteXML struct {
	XMLName xml.Name `xml:"w:t"`
	Space   string   `xml:"xml:space,attr,omitempty"`
	Value   string   `xml:",chardata"`
}

type valWriteXML struct {
	Val string `xml:"w:val,attr"`
}

type emptyWriteXML struct{}

type fontsWriteXML struct {
	ASCII string `xml:"w:ascii,attr"`
	HAnsi string `xml:"w:hAnsi,attr"`
}

type tableWriteXML struct {
	XMLName    xml.Name           `xml:"w:tbl"`
	Properties tablePropsWriteXML `xml:"w:tblPr"`
	Rows       []tableRowWriteXML
}

type tablePropsWriteXML struct {
	Style valWriteXML `xml:"w:tblStyle"`
}

type tableRowWriteXML struct {
	XMLName xml.Name `xml:"w:tr"`
	Cells   []tableCellWriteXML
}

type tableCellWriteXML struct {
	XMLName    xml.Name `xml:"w:tc"`
	Paragraphs []paragraphWriteXML
}

const contentTypesXML = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`

const rootRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`

// save writes doc as a complete DOCX package at path.
func save(doc *model.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(rootRelsXML)},
		{"word/_rels/document.xml.rels", []byte(documentRelsXML)},
		{"word/document.xml", marshalDocument(doc)},
		{"word/styles.xml", marshalStyles(doc)},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			zw.Close()
			return fmt.Errorf("creating part %s: %w", p.name, err)
		}
		if _, err := w.Write(p.data); err != nil {
			zw.Close()
			return fmt.Errorf("writing part %s: %w", p.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	return nil
}

func marshalDocument(doc *model.Document) []byte {
	out := docWriteXML{NS: nsW}
	for _, b := range doc.Blocks {
		switch v := b.(type) {
		case *model.Paragraph:
			out.Body.Blocks = append(out.Body.Blocks, writeParagraph(v))
		case *model.Table:
			out.Body.Blocks = append(out.Body.Blocks, writeTable(v))
		}
	}
	data, _ := xml.Marshal(out)
	return append([]byte(xml.Header), data...)
}

func writeParagraph(p *model.Paragraph) paragraphWriteXML {
	out := paragraphWriteXML{}
	if p.StyleID != "" {
		out.Properties = &paragraphPropsWriteXML{
			Style: &valWriteXML{Val: p.StyleID},
		}
	}
	for _, r := range p.Runs {
		if r.Text == "" {
			continue
		}
		out.Runs = append(out.Runs, writeRun(r))
	}
	return out
}

func writeRun(r model.Run) runWriteXML {
	out := runWriteXML{
		Text: textWriteXML{Value: r.Text},
	}
	if r.Text != strings.TrimSpace(r.Text) {
		out.Text.Space = "preserve"
	}

	f := r.Format
	if f == (model.RunFormat{}) {
		return out
	}
	props := &runPropsWriteXML{}
	if f.Font != "" {
		props.Fonts = &fontsWriteXML{ASCII: f.Font, HAnsi: f.Font}
	}
	if f.Bold {
		props.Bold = &emptyWriteXML{}
	}
	if f.Italic {
		props.Italic = &emptyWriteXML{}
	}
	if f.Underline {
		props.Underline = &valWriteXML{Val: "single"}
	}
	if f.Color != "" {
		props.Color = &valWriteXML{Val: f.Color}
	}
	if f.Size > 0 {
		props.Size = &valWriteXML{Val: strconv.Itoa(int(f.Size * 2))}
	}
	out.Properties = props
	return out
}

func writeTable(t *model.Table) tableWriteXML {
	out := tableWriteXML{
		Properties: tablePropsWriteXML{Style: valWriteXML{Val: "TableGrid"}},
	}
	for _, row := range t.Rows {
		wr := tableRowWriteXML{}
		for _, cell := range row.Cells {
			wc := tableCellWriteXML{}
			for _, p := range cell.Paragraphs {
				wc.Paragraphs = append(wc.Paragraphs, writeParagraph(p))
			}
			if len(wc.Paragraphs) == 0 {
				wc.Paragraphs = []paragraphWriteXML{{}}
			}
			wr.Cells = append(wr.Cells, wc)
		}
		out.Rows = append(out.Rows, wr)
	}
	return out
}

// marshalStyles emits definitions for every style the document references,
// so a reopened package resolves headings the same way.
func marshalStyles(doc *model.Document) []byte {
	ids := map[string]bool{"Normal": true, "TableGrid": true}
	for id := range doc.KnownStyles {
		ids[id] = true
	}
	for _, b := range doc.Blocks {
		if p, ok := b.(*model.Paragraph); ok && p.StyleID != "" {
			ids[p.StyleID] = true
		}
	}

	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString(`<w:styles xmlns:w="` + nsW + `">`)
	for _, id := range sorted {
		sb.WriteString(`<w:style w:type="paragraph" w:styleId="` + id + `">`)
		sb.WriteString(`<w:name w:val="` + styleName(id) + `"/>`)
		if level, ok := builtinHeadings[strings.ToLower(id)]; ok && strings.HasPrefix(strings.ToLower(id), "heading") {
			sb.WriteString(`<w:pPr><w:outlineLvl w:val="` + strconv.Itoa(level-1) + `"/></w:pPr>`)
			sb.WriteString(`<w:rPr><w:b/></w:rPr>`)
		}
		sb.WriteString(`</w:style>`)
	}
	sb.WriteString(`</w:styles>`)
	return []byte(sb.String())
}

// styleName turns a style id like Heading2 into its display name.
func styleName(id string) string {
	lower := strings.ToLower(id)
	if strings.HasPrefix(lower, "heading") && len(id) > len("heading") {
		return "heading " + id[len("heading"):]
	}
	return id
}
