package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"billgen/pkg/models"
)

// textWidth is the character width of a plain text receipt.
const textWidth = 42

// TextRenderer produces a monospaced receipt with the same sections as the PDF.
type TextRenderer struct {
	layout Layout
}

// NewTextRenderer creates a text renderer. Only the column shares and strings of
// the layout are used.
func NewTextRenderer(layout Layout) *TextRenderer {
	return &TextRenderer{layout: layout}
}

// Extension implements Renderer.
func (r *TextRenderer) Extension() string {
	return "txt"
}

// Render implements Renderer. Cells are never cut: numeric columns grow to fit
// their widest value and the receipt widens when the name column cannot absorb it.
func (r *TextRenderer) Render(receipt models.GeneratedReceipt) ([]byte, error) {
	var b bytes.Buffer

	cells := [][4]string{{"Item Name", "Qty.", "Rate", "Amount"}}
	for _, item := range receipt.Items {
		cells = append(cells, [4]string{item.Name, strconv.Itoa(item.Quantity), rupees(item.UnitRate), rupees(item.Amount)})
	}
	widths := r.columnWidths(cells)
	width := widths[0] + widths[1] + widths[2] + widths[3]
	rule := strings.Repeat("-", width)

	row := func(c [4]string) {
		b.WriteString(pad(c[0], widths[0], alignLeft))
		b.WriteString(pad(c[1], widths[1], alignCenter))
		b.WriteString(pad(c[2], widths[2], alignCenter))
		b.WriteString(pad(c[3], widths[3], alignRight))
		b.WriteByte('\n')
	}
	pair := func(left, right string) {
		b.WriteString(pad(left, max(width/2, runeLen(left)+1), alignLeft))
		b.WriteString(right)
		b.WriteByte('\n')
	}
	total := func(label, value string) {
		b.WriteString(pad(label, max(width-runeLen(value), runeLen(label)+1), alignLeft))
		b.WriteString(value)
		b.WriteByte('\n')
	}
	center := func(s string) {
		b.WriteString(strings.TrimRight(pad(s, width, alignCenter), " "))
		b.WriteByte('\n')
	}

	center(receipt.Restaurant.Name)
	center(receipt.Restaurant.Address)
	center("PH:" + receipt.Restaurant.Phone)
	b.WriteString("\n" + r.layout.Heading + "\n\n")

	pair(fmt.Sprintf("Bill : %d", receipt.SequenceNumber), "Time : "+receipt.Time)
	pair("Date : "+receipt.DateLabel(), fmt.Sprintf("Table : %d", receipt.TableNumber))
	b.WriteString(rule + "\n")

	row(cells[0])
	b.WriteString(rule + "\n")
	for _, c := range cells[1:] {
		row(c)
	}
	b.WriteString(rule + "\n")

	total("Sub Total", rupeesFixed(receipt.SubTotal))
	b.WriteString(rule + "\n")
	total("Gross Amount", rupeesFixed(receipt.GrossAmount))
	b.WriteString(rule + "\n\n")

	center(r.layout.Footer)
	return b.Bytes(), nil
}

// columnWidths splits textWidth by the layout shares, then widens every column
// so that its widest cell keeps at least one space of separation.
func (r *TextRenderer) columnWidths(cells [][4]string) [4]int {
	var w [4]int
	used := 0
	for i := 1; i < 4; i++ {
		w[i] = int(float64(textWidth) * r.layout.ColumnShares[i])
		for _, c := range cells {
			w[i] = max(w[i], runeLen(c[i])+1)
		}
		used += w[i]
	}
	w[0] = max(textWidth-used, 0)
	for _, c := range cells {
		w[0] = max(w[0], runeLen(c[0])+1)
	}
	return w
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// pad fits s into width runes. Values that do not fit are returned unchanged.
func pad(s string, width int, a align) string {
	gap := width - runeLen(s)
	if gap <= 0 {
		return s
	}
	switch a {
	case alignCenter:
		return strings.Repeat(" ", gap/2) + s + strings.Repeat(" ", gap-gap/2)
	case alignRight:
		return strings.Repeat(" ", gap) + s
	default:
		return s + strings.Repeat(" ", gap)
	}
}
