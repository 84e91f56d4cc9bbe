package output

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"billgen/internal/billing"
	"github.com/xuri/excelize/v2"
)

const manifestSheet = "Bills"

var manifestHeaders = []interface{}{
	"File", "Bill No", "Date", "Time", "Table", "Items", "Sub Total", "Gross Amount",
}

// Manifest records one workbook row per generated bill and saves it as .xlsx.
type Manifest struct {
	mu   sync.Mutex
	file *excelize.File
	row  int
}

// NewManifest starts an empty workbook with a bold header row.
func NewManifest() (*Manifest, error) {
	const op = "NewManifest"

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", manifestSheet); err != nil {
		return nil, fmt.Errorf("%s: failed to name sheet: %w", op, err)
	}
	if err := f.SetSheetRow(manifestSheet, "A1", &manifestHeaders); err != nil {
		return nil, fmt.Errorf("%s: failed to write headers: %w", op, err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create header style: %w", op, err)
	}
	if err := f.SetCellStyle(manifestSheet, "A1", "H1", style); err != nil {
		return nil, fmt.Errorf("%s: failed to style headers: %w", op, err)
	}
	if err := f.SetColWidth(manifestSheet, "A", "A", 28); err != nil {
		return nil, fmt.Errorf("%s: failed to size columns: %w", op, err)
	}

	return &Manifest{file: f, row: 1}, nil
}

// Observe implements billing.Observer.
func (m *Manifest) Observe(ctx context.Context, e billing.Emitted) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(e.Receipt.Items))
	for _, item := range e.Receipt.Items {
		names = append(names, fmt.Sprintf("%s x%d", item.Name, item.Quantity))
	}

	m.row++
	cell, err := excelize.CoordinatesToCellName(1, m.row)
	if err != nil {
		return fmt.Errorf("Observe: %w", err)
	}

	values := []interface{}{
		e.FileName,
		e.Receipt.SequenceNumber,
		e.Receipt.DateLabel(),
		e.Receipt.Time,
		e.Receipt.TableNumber,
		strings.Join(names, ", "),
		e.Receipt.SubTotal.Float(),
		e.Receipt.GrossAmount.Float(),
	}
	if err := m.file.SetSheetRow(manifestSheet, cell, &values); err != nil {
		return fmt.Errorf("Observe: failed to write manifest row %d: %w", m.row, err)
	}
	return nil
}

// Rows returns the number of bill rows recorded.
func (m *Manifest) Rows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.row - 1
}

// Save writes the workbook to path and releases it.
func (m *Manifest) Save(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.file.SaveAs(path); err != nil {
		return fmt.Errorf("Save: failed to write manifest %s: %w", path, err)
	}
	return m.file.Close()
}
