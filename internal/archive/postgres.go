package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freightops/invoice-audit/internal/entity"
)

// PostgresArchive stores records in a shared Postgres database, for
// teams pooling extraction output across machines.
type PostgresArchive struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, dsn string) (*PostgresArchive, error) {
	pc, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse archive dsn: %w", err)
	}
	pc.MaxConns = 5
	pc.MaxConnLifetime = 30 * time.Minute
	pc.MaxConnIdleTime = 5 * time.Minute
	pc.ConnConfig.RuntimeParams["application_name"] = "invoice-audit"

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect archive: %w", err)
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create archive schema: %w", err)
	}
	return &PostgresArchive{pool: pool}, nil
}

func (a *PostgresArchive) SaveRecord(ctx context.Context, rec entity.ExtractedRecord) error {
	const insertSQL = `
INSERT INTO extracted_records (
	id, source_filename, invoice_number, invoice_date, job_number,
	shipment_reference, terms_of_invoice, shipment_mode,
	service_actual, loading_actual, transportation_actual,
	own_charges, reimbursement_charges, comparison, archived_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (invoice_number, source_filename) DO NOTHING`

	_, err := a.pool.Exec(ctx, insertSQL,
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

func (a *PostgresArchive) ListRecords(ctx context.Context) ([]entity.ExtractedRecord, error) {
	rows, err := a.pool.Query(ctx, listSQL)
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

func (a *PostgresArchive) Close() error {
	a.pool.Close()
	return nil
}
