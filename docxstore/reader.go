package docxstore

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/docforge/redline/model"
)

var (
	// ErrMissingDocument means the container has no word/document.xml.
	ErrMissingDocument = errors.New("docxstore: missing word/document.xml")
	// ErrMissingContentTypes means the container is not an OOXML package.
	ErrMissingContentTypes = errors.New("docxstore: missing [Content_Types].xml")
)

// builtinHeadings maps standard Word style ids to heading levels.
var builtinHeadings = map[string]int{
	"heading1": 1, "heading2": 2, "heading3": 3,
	"heading4": 4, "heading5": 5, "heading6": 6,
	"heading7": 7, "heading8": 8, "heading9": 9,
	"title": 1,
}

// reader parses one DOCX container into the document model.
type reader struct {
	document *documentXML
	styles   *stylesXML
}

// load opens the container at path and builds the model.
func load(path string) (*model.Document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	defer zr.Close()

	r := &reader{}
	if err := r.parse(&zr.Reader); err != nil {
		return nil, err
	}
	return r.build(), nil
}

func (r *reader) parse(zr *zip.Reader) error {
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}
	if files["[Content_Types].xml"] == nil {
		return ErrMissingContentTypes
	}
	docFile := files["word/document.xml"]
	if docFile == nil {
		return ErrMissingDocument
	}

	data, err := readZipFile(docFile)
	if err != nil {
		return fmt.Errorf("reading document.xml: %w", err)
	}
	r.document = &documentXML{}
	if err := xml.Unmarshal(data, r.document); err != nil {
		return fmt.Errorf("unmarshaling document.xml: %w", err)
	}

	// Styles are optional.
	if sf := files["word/styles.xml"]; sf != nil {
		if data, err := readZipFile(sf); err == nil {
			styles := &stylesXML{}
			if xml.Unmarshal(data, styles) == nil {
				r.styles = styles
			}
		}
	}
	return nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// build converts the parsed XML into the document model.
func (r *reader) build() *model.Document {
	doc := model.NewDocument()
	doc.KnownStyles = r.knownStyles()

	for _, b := range r.document.Body.Blocks {
		switch {
		case b.Paragraph != nil:
			doc.Append(r.buildParagraph(b.Paragraph))
		case b.Table != nil:
			doc.Append(r.buildTable(b.Table))
		}
	}
	return doc
}

func (r *reader) knownStyles() map[string]bool {
	if r.styles == nil {
		return nil
	}
	out := make(map[string]bool, len(r.styles.Styles))
	for _, s := range r.styles.Styles {
		if s.StyleID != "" {
			out[s.StyleID] = true
		}
	}
	return out
}

func (r *reader) buildParagraph(p *paragraphXML) *model.Paragraph {
	out := &model.Paragraph{StyleID: p.Properties.Style.Val}
	out.HeadingLevel = r.headingLevel(out.StyleID)

	for _, run := range p.Runs {
		if run.Text == "" {
			continue
		}
		out.Runs = append(out.Runs, model.Run{
			Text:   norm.NFC.String(run.Text),
			Format: runFormat(run.Properties),
		})
	}
	if len(out.Runs) == 0 {
		out.Runs = []model.Run{{}}
	}
	return out
}

func runFormat(p runPropsXML) model.RunFormat {
	f := model.RunFormat{
		Bold:      p.Bold.enabled(),
		Italic:    p.Italic.enabled(),
		Underline: p.Underline != nil && p.Underline.Val != "none",
	}
	if p.Color != nil && p.Color.Val != "auto" {
		f.Color = p.Color.Val
	}
	if p.Fonts != nil {
		f.Font = p.Fonts.ASCII
	}
	if p.Size != nil {
		// Font size is stored in half-points.
		if half, err := strconv.Atoi(p.Size.Val); err == nil {
			f.Size = float64(half) / 2
		}
	}
	return f
}

func (r *reader) buildTable(t *tableXML) *model.Table {
	out := &model.Table{Rows: make([]*model.Row, 0, len(t.Rows))}
	for _, row := range t.Rows {
		mr := &model.Row{Cells: make([]*model.Cell, 0, len(row.Cells))}
		for _, cell := range row.Cells {
			mc := &model.Cell{}
			for i := range cell.Paragraphs {
				mc.Paragraphs = append(mc.Paragraphs, r.buildParagraph(&cell.Paragraphs[i]))
			}
			if len(mc.Paragraphs) == 0 {
				mc.Paragraphs = []*model.Paragraph{model.NewParagraph("")}
			}
			mr.Cells = append(mr.Cells, mc)
		}
		out.Rows = append(out.Rows, mr)
	}
	return out
}

// headingLevel resolves a style id to a heading level, first through the
// built-in style names, then through the style's outline level.
func (r *reader) headingLevel(styleID string) int {
	if styleID == "" {
		return 0
	}
	if level, ok := builtinHeadings[strings.ToLower(styleID)]; ok {
		return level
	}
	if r.styles == nil {
		return 0
	}
	for _, s := range r.styles.Styles {
		if !strings.EqualFold(s.StyleID, styleID) {
			continue
		}
		if v := s.Properties.OutlineLvl.Val; v != "" {
			// Outline levels are 0-based.
			if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 8 {
				return n + 1
			}
		}
		if strings.Contains(strings.ToLower(s.Name.Val), "heading") {
			return 1
		}
	}
	return 0
}
