package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/freightops/invoice-audit/internal/entity"
)

// Service turns the accumulated result set into an XLSX workbook.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// Headers is the workbook's ordered column set. Every record field maps
// onto exactly one column; Total Charges is computed at export time.
var Headers = []string{
	"Source File",
	"Invoice Number",
	"Invoice Date",
	"Job Number",
	"Shipment Reference",
	"Terms of Invoice",
	"Shipment Mode",
	"Service Charges",
	"Loading & Unloading Charges",
	"Transportation Charges",
	"Own Charges",
	"Reimbursement Charges",
	"Total Charges",
	"Rate Check",
}

const sheet = "Invoices"

// ExportXLSX returns a workbook (as bytes) holding one row per record.
func (s *Service) ExportXLSX(records []entity.ExtractedRecord) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, r := range records {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.SourceFilename)
		write(2, r.InvoiceNumber)
		write(3, r.InvoiceDate)
		write(4, r.JobNumber)
		write(5, r.ShipmentReference)
		write(6, r.TermsOfInvoice)
		write(7, string(r.Mode))
		write(8, r.ServiceActual)
		write(9, r.LoadingActual)
		write(10, r.TransportationActual)
		write(11, r.OwnCharges)
		write(12, r.ReimbursementCharges)
		write(13, r.TotalCharges())
		write(14, string(r.Comparison))
	}

	// Widen the text-heavy columns.
	_ = f.SetColWidth(sheet, "A", "A", 32) // filename
	_ = f.SetColWidth(sheet, "B", "B", 18) // invoice number
	_ = f.SetColWidth(sheet, "C", "D", 14) // date, job
	_ = f.SetColWidth(sheet, "E", "F", 24) // reference, terms
	_ = f.SetColWidth(sheet, "H", "M", 14) // amounts
	_ = f.SetColWidth(sheet, "N", "N", 22) // verdict

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(records),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
