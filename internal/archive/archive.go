// Package archive persists finished extraction records. It is an
// optional sink behind the in-memory result store: a session can run
// entirely without it, or point it at an embedded SQLite file or a
// Postgres database.
package archive

import (
	"context"
	"fmt"

	"github.com/freightops/invoice-audit/internal/entity"
)

// Archive persists extraction records across sessions. Inserts are
// idempotent on the (invoice_number, source_filename) pair, matching
// the result store's deduplication key.
type Archive interface {
	SaveRecord(ctx context.Context, rec entity.ExtractedRecord) error
	ListRecords(ctx context.Context) ([]entity.ExtractedRecord, error)
	Close() error
}

// Open builds an Archive for the configured driver.
func Open(ctx context.Context, driver, dsn string) (Archive, error) {
	switch driver {
	case "sqlite":
		return OpenSQLite(ctx, dsn)
	case "postgres":
		return OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown archive driver: %q", driver)
	}
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS extracted_records (
	id                    TEXT PRIMARY KEY,
	source_filename       TEXT NOT NULL,
	invoice_number        TEXT NOT NULL,
	invoice_date          TEXT NOT NULL DEFAULT '',
	job_number            TEXT NOT NULL DEFAULT '',
	shipment_reference    TEXT NOT NULL DEFAULT '',
	terms_of_invoice      TEXT NOT NULL DEFAULT '',
	shipment_mode         TEXT NOT NULL DEFAULT 'UNKNOWN',
	service_actual        DOUBLE PRECISION NOT NULL DEFAULT 0,
	loading_actual        DOUBLE PRECISION NOT NULL DEFAULT 0,
	transportation_actual DOUBLE PRECISION NOT NULL DEFAULT 0,
	own_charges           DOUBLE PRECISION NOT NULL DEFAULT 0,
	reimbursement_charges DOUBLE PRECISION NOT NULL DEFAULT 0,
	comparison            TEXT NOT NULL DEFAULT '',
	archived_at           TEXT NOT NULL,
	UNIQUE (invoice_number, source_filename)
)`

const listSQL = `
SELECT source_filename, invoice_number, invoice_date, job_number,
       shipment_reference, terms_of_invoice, shipment_mode,
       service_actual, loading_actual, transportation_actual,
       own_charges, reimbursement_charges, comparison
FROM extracted_records
ORDER BY archived_at, invoice_number`
