package docxstore

import (
	"encoding/xml"
	"io"
	"strings"
)

// Read-side schema. Attribute and element names match on local name, so the
// w: namespace prefix resolves transparently.

type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    bodyXML  `xml:"body"`
}

// blockXML is one ordered body element: a paragraph or a table.
type blockXML struct {
	Paragraph *paragraphXML
	Table     *tableXML
}

// bodyXML preserves the interleaving of paragraphs and tables, which a
// plain struct with two slices would lose.
type bodyXML struct {
	Blocks []blockXML
}

func (b *bodyXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "p":
				var p paragraphXML
				if err := d.DecodeElement(&p, &el); err != nil {
					return err
				}
				b.Blocks = append(b.Blocks, blockXML{Paragraph: &p})
			case "tbl":
				var t tableXML
				if err := d.DecodeElement(&t, &el); err != nil {
					return err
				}
				b.Blocks = append(b.Blocks, blockXML{Table: &t})
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if el.Name == start.Name {
				return nil
			}
		}
	}
}

type paragraphXML struct {
	Properties paragraphPropsXML `xml:"pPr"`
	Runs       []runXML          `xml:"r"`
}

type paragraphPropsXML struct {
	Style      valXML `xml:"pStyle"`
	OutlineLvl valXML `xml:"outlineLvl"`
}

// runXML decodes its children by hand so text, tabs and breaks keep their
// document order.
type runXML struct {
	Properties runPropsXML
	Text       string
}

func (r *runXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var sb strings.Builder
	for {
		tok, err := d.Token()
		if err == io.EOF {
			r.Text = sb.String()
			return nil
		}
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "rPr":
				if err := d.DecodeElement(&r.Properties, &el); err != nil {
					return err
				}
			case "t":
				var t textXML
				if err := d.DecodeElement(&t, &el); err != nil {
					return err
				}
				sb.WriteString(t.Value)
			case "tab":
				sb.WriteString("\t")
				if err := d.Skip(); err != nil {
					return err
				}
			case "br":
				sb.WriteString("\n")
				if err := d.Skip(); err != nil {
					return err
				}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if el.Name == start.Name {
				r.Text = sb.String()
				return nil
			}
		}
	}
}

type runPropsXML struct {
	Bold      *toggleXML `xml:"b"`
	Italic    *toggleXML `xml:"i"`
	Underline *valXML    `xml:"u"`
	Color     *valXML    `xml:"color"`
	Fonts     *fontsXML  `xml:"rFonts"`
	Size      *valXML    `xml:"sz"`
}

// toggleXML is an OOXML boolean property: present means on unless val says
// otherwise.
type toggleXML struct {
	Val string `xml:"val,attr"`
}

func (t *toggleXML) enabled() bool {
	return t != nil && t.Val != "false" && t.Val != "0"
}

type valXML struct {
	Val string `xml:"val,attr"`
}

type fontsXML struct {
	ASCII string `xml:"ascii,attr"`
}

type textXML struct {
	Space string `xml:"space,attr"`
	Value string `xml:",chardata"`
}

type tableXML struct {
	Rows []tableRowXML `xml:"tr"`
}

type tableRowXML struct {
	Cells []tableCellXML `xml:"tc"`
}

type tableCellXML struct {
	Paragraphs []paragraphXML `xml:"p"`
}

type stylesXML struct {
	XMLName xml.Name   `xml:"styles"`
	Styles  []styleXML `xml:"style"`
}

type styleXML struct {
	Type       string            `xml:"type,attr"`
	StyleID    string            `xml:"styleId,attr"`
	Name       valXML            `xml:"name"`
	Properties paragraphPropsXML `xml:"pPr"`
}
