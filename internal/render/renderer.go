// Package render draws receipts into printable documents.
package render

import "billgen/pkg/models"

// Renderer is implemented by every receipt format.
type Renderer interface {
	Render(receipt models.GeneratedReceipt) ([]byte, error)
	Extension() string
}

// New returns the renderer for a format name ("pdf" or "txt").
func New(format string, layout Layout) (Renderer, error) {
	switch format {
	case "pdf", "":
		return NewPDFRenderer(layout), nil
	case "txt":
		return NewTextRenderer(layout), nil
	default:
		return nil, &UnsupportedFormatError{Format: format}
	}
}

// UnsupportedFormatError is returned by New for unknown formats.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return "render: unsupported format " + e.Format + " (want pdf or txt)"
}

func rupees(m models.Money) string {
	return "Rs." + m.String()
}

func rupeesFixed(m models.Money) string {
	return "Rs." + m.Fixed()
}
