package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"resume-builder/resume/model"
)

// ContentTypePDF is the media type of every rendered document.
const ContentTypePDF = "application/pdf"

// Document is a rendered resume.
type Document struct {
	Data        []byte
	ContentType string
}

// Fixed document dates keep the output byte-for-byte reproducible.
var documentDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

const (
	sectionGap   = 10
	titleGap     = 14
	ruleWidth    = 1.5
	tabExpansion = "    "
)

type columnBox struct {
	x, width float64
}

// Render draws content with the given template style as a PDF. Unknown styles
// render as classic.
func Render(content model.ResumeContent, style model.TemplateStyle) (Document, error) {
	data, err := draw(Plan(content, style))
	if err != nil {
		return Document{}, err
	}
	return Document{Data: data, ContentType: ContentTypePDF}, nil
}

func draw(layout Layout) ([]byte, error) {
	tpl := layout.Template
	m := tpl.Margins

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(documentDate)
	pdf.SetModificationDate(documentDate)
	pdf.SetCreator("resume-builder", false)
	pdf.SetTitle(layout.Title, true)
	pdf.SetMargins(m.Left, m.Top, m.Right)
	pdf.SetAutoPageBreak(true, m.Bottom)

	// The translator keeps internal state, so each document gets its own.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	boxes := columnBoxes(tpl, m.Left, pageW-m.Left-m.Right)

	if tpl.FillFirstColumn && len(boxes) > 0 {
		bg := tpl.Palette.Background
		edge := boxes[0].x + boxes[0].width + tpl.ColumnGutter/2
		pdf.SetHeaderFunc(func() {
			pdf.SetFillColor(bg.R, bg.G, bg.B)
			pdf.Rect(0, 0, edge, pageH, "F")
		})
	}

	// Columns after the first continue on pages the earlier columns already
	// created before adding new ones.
	pdf.SetAcceptPageBreakFunc(func() bool {
		if pdf.PageNo() < pdf.PageCount() {
			left, top, _, _ := pdf.GetMargins()
			pdf.SetPage(pdf.PageNo() + 1)
			pdf.SetXY(left, top)
			return false
		}
		return true
	})

	pdf.AddPage()
	drawTitle(pdf, tr, tpl, layout.Title, pageW)

	startPage, startY := pdf.PageNo(), pdf.GetY()
	for i, col := range layout.Columns {
		box := boxes[i]
		pdf.SetPage(startPage)
		pdf.SetLeftMargin(box.x)
		pdf.SetRightMargin(pageW - box.x - box.width)
		pdf.SetXY(box.x, startY)
		for _, sec := range col.Sections {
			drawSection(pdf, tr, tpl, sec)
		}
	}
	pdf.SetPage(pdf.PageCount())

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render %s pdf: %w", tpl.Style, err)
	}
	return buf.Bytes(), nil
}

func columnBoxes(tpl Template, left, width float64) []columnBox {
	n := len(tpl.Columns)
	if n == 0 {
		return nil
	}
	usable := width - tpl.ColumnGutter*float64(n-1)
	boxes := make([]columnBox, n)
	x := left
	for i := range boxes {
		frac := 1 / float64(n)
		if i < len(tpl.ColumnWidths) {
			frac = tpl.ColumnWidths[i]
		}
		boxes[i] = columnBox{x: x, width: usable * frac}
		x += boxes[i].width + tpl.ColumnGutter
	}
	return boxes
}

func drawTitle(pdf *fpdf.Fpdf, tr func(string) string, tpl Template, title string, pageW float64) {
	p := tpl.Palette.Primary
	pdf.SetFont(tpl.Fonts.Title, "B", tpl.TitleSize)
	pdf.SetTextColor(p.R, p.G, p.B)
	pdf.MultiCell(0, tpl.TitleSize*1.25, tr(title), "", "C", false)

	if !tpl.TitleRule {
		pdf.Ln(titleGap)
		return
	}
	y := pdf.GetY() + 4
	pdf.SetDrawColor(p.R, p.G, p.B)
	pdf.SetLineWidth(ruleWidth)
	pdf.Line(tpl.Margins.Left, y, pageW-tpl.Margins.Right, y)
	pdf.SetY(y + titleGap)
}

func drawSection(pdf *fpdf.Fpdf, tr func(string) string, tpl Template, sec Section) {
	p, s := tpl.Palette.Primary, tpl.Palette.Secondary

	pdf.SetFont(tpl.Fonts.Header, "B", tpl.HeaderSize)
	pdf.SetTextColor(p.R, p.G, p.B)
	pdf.MultiCell(0, tpl.HeaderSize*1.3, tr(sec.Header), "", "L", false)

	pdf.SetFont(tpl.Fonts.Body, "", tpl.BodySize)
	pdf.SetTextColor(s.R, s.G, s.B)
	body := strings.ReplaceAll(sec.Body, "\t", tabExpansion)
	pdf.MultiCell(0, tpl.BodySize*1.4, tr(body), "", "L", false)
	pdf.Ln(sectionGap)
}
