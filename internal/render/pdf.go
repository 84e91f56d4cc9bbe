package render

import (
	"bytes"
	"fmt"
	"strconv"

	"billgen/pkg/models"
	"github.com/go-pdf/fpdf"
)

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

// PDFRenderer draws a receipt on a single fixed-size page with Helvetica core fonts.
type PDFRenderer struct {
	layout   Layout
	compress bool
}

// PDFOption configures a PDFRenderer.
type PDFOption func(*PDFRenderer)

// WithCompression toggles content stream compression. It is on by default.
func WithCompression(on bool) PDFOption {
	return func(r *PDFRenderer) {
		r.compress = on
	}
}

// NewPDFRenderer creates a PDF renderer for the given layout.
func NewPDFRenderer(layout Layout, opts ...PDFOption) *PDFRenderer {
	r := &PDFRenderer{layout: layout, compress: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Extension implements Renderer.
func (r *PDFRenderer) Extension() string {
	return "pdf"
}

// Render implements Renderer.
func (r *PDFRenderer) Render(receipt models.GeneratedReceipt) ([]byte, error) {
	l := r.layout

	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: l.PageWidth, Ht: l.PageHeight},
	})
	pdf.SetCompression(r.compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(l.Margin, l.Margin, l.Margin)
	pdf.SetTitle(fmt.Sprintf("Bill %d", receipt.SequenceNumber), true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string, x, y float64, a align) {
		s = tr(s)
		switch a {
		case alignCenter:
			x -= pdf.GetStringWidth(s) / 2
		case alignRight:
			x -= pdf.GetStringWidth(s)
		}
		pdf.Text(x, y, s)
	}
	rule := func(y float64) {
		pdf.Line(l.Margin, y, l.RuleEndX(), y)
	}

	// Header
	pdf.SetFont("Helvetica", "B", l.TitleSize)
	text(receipt.Restaurant.Name, l.CenterX(), l.NameY, alignCenter)

	pdf.SetFont("Helvetica", "", l.BodySize)
	text(receipt.Restaurant.Address, l.CenterX(), l.AddressY, alignCenter)
	text("PH:"+receipt.Restaurant.Phone, l.CenterX(), l.PhoneY, alignCenter)

	pdf.SetFont("Helvetica", "B", l.BodySize)
	text(l.Heading, l.Margin, l.HeadingY, alignLeft)

	// Bill details
	pdf.SetFont("Helvetica", "", l.BodySize)
	text(fmt.Sprintf("Bill : %d", receipt.SequenceNumber), l.Margin, l.MetaRow1Y, alignLeft)
	text("Time : "+receipt.Time, l.MetaRightX, l.MetaRow1Y, alignLeft)
	text("Date : "+receipt.DateLabel(), l.Margin, l.MetaRow2Y, alignLeft)
	text(fmt.Sprintf("Table : %d", receipt.TableNumber), l.MetaRightX, l.MetaRow2Y, alignLeft)
	rule(l.TopRuleY)

	// Item table
	colX, colW := l.Columns()
	pdf.SetFont("Helvetica", "B", l.BodySize)
	text("Item Name", colX[0], l.HeaderRowY, alignLeft)
	text("Qty.", colX[1]+colW[1]/2, l.HeaderRowY, alignCenter)
	text("Rate", colX[2]+colW[2]/2, l.HeaderRowY, alignCenter)
	text("Amount", colX[3]+colW[3], l.HeaderRowY, alignRight)
	rule(l.HeaderRuleY)

	pdf.SetFont("Helvetica", "", l.BodySize)
	y := l.FirstItemY
	for _, item := range receipt.Items {
		text(item.Name, colX[0], y, alignLeft)
		text(strconv.Itoa(item.Quantity), colX[1]+colW[1]/2, y, alignCenter)
		text(rupees(item.UnitRate), colX[2]+colW[2]/2, y, alignCenter)
		text(rupees(item.Amount), colX[3]+colW[3], y, alignRight)
		y += l.RowStep
	}

	// Totals
	rule(y)
	y += l.SubTotalGap
	text("Sub Total", l.Margin, y, alignLeft)
	text(rupeesFixed(receipt.SubTotal), l.TotalsRightX, y, alignRight)
	y += l.RowStep
	rule(y)
	y += l.GrossGap

	pdf.SetFont("Helvetica", "B", l.GrossSize)
	text("Gross Amount", l.Margin, y, alignLeft)
	text(rupeesFixed(receipt.GrossAmount), l.TotalsRightX, y, alignRight)
	y += l.RowStep
	rule(y)
	y += l.FooterGap

	pdf.SetFont("Helvetica", "", l.FooterSize)
	text(l.Footer, l.CenterX(), y, alignCenter)

	if pdf.Err() {
		return nil, fmt.Errorf("render: pdf layout failed for bill %d: %w", receipt.SequenceNumber, pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render: pdf output failed for bill %d: %w", receipt.SequenceNumber, err)
	}
	return buf.Bytes(), nil
}
