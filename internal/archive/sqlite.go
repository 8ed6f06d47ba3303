package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/freightops/invoice-audit/constants"
	"github.com/freightops/invoice-audit/internal/entity"
)

// SQLiteArchive is the embedded default archive. The modernc driver is
// pure Go, so a local file (or :memory:) works with no cgo toolchain.
type SQLiteArchive struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, dsn string) (*SQLiteArchive, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite archive: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create archive schema: %w", err)
	}
	return &SQLiteArchive{db: db}, nil
}

func (a *SQLiteArchive) SaveRecord(ctx context.Context, rec entity.ExtractedRecord) error {
	const insertSQL = `
INSERT OR IGNORE INTO extracted_records (
	id, source_filename, invoice_number, invoice_date, job_number,
	shipment_reference, terms_of_invoice, shipment_mode,
	service_actual, loading_actual, transportation_actual,
	own_charges, reimbursement_charges, comparison, archived_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := a.db.ExecContext(ctx, insertSQL,
		uuid.New().String(),
		rec.SourceFilename,
		rec.InvoiceNumber,
		rec.InvoiceDate,
		rec.JobNumber,
		rec.ShipmentReference,
		rec.TermsOfInvoice,
		string(rec.Mode),
		rec.ServiceActual,
		rec.LoadingActual,
		rec.TransportationActual,
		rec.OwnCharges,
		rec.ReimbursementCharges,
		string(rec.Comparison),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("archive record %s/%s: %w", rec.InvoiceNumber, rec.SourceFilename, err)
	}
	return nil
}

func (a *SQLiteArchive) ListRecords(ctx context.Context) ([]entity.ExtractedRecord, error) {
	rows, err := a.db.QueryContext(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("list archived records: %w", err)
	}
	defer rows.Close()

	var out []entity.ExtractedRecord
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (a *SQLiteArchive) Close() error {
	return a.db.Close()
}

// scanRecord maps one archive row back to a record. Shared by both
// backends since the column order is identical.
func scanRecord(scan func(dest ...any) error) (entity.ExtractedRecord, error) {
	var rec entity.ExtractedRecord
	var mode, comparison string
	err := scan(
		&rec.SourceFilename,
		&rec.InvoiceNumber,
		&rec.InvoiceDate,
		&rec.JobNumber,
		&rec.ShipmentReference,
		&rec.TermsOfInvoice,
		&mode,
		&rec.ServiceActual,
		&rec.LoadingActual,
		&rec.TransportationActual,
		&rec.OwnCharges,
		&rec.ReimbursementCharges,
		&comparison,
	)
	if err != nil {
		return entity.ExtractedRecord{}, fmt.Errorf("scan archived record: %w", err)
	}
	rec.Mode = constants.ParseMode(mode)
	rec.Comparison = entity.ComparisonStatus(comparison)
	return rec, nil
}
