package archive

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightops/invoice-audit/constants"
	"github.com/freightops/invoice-audit/internal/entity"
)

func openTestArchive(t *testing.T) Archive {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "audit.db")
	arch, err := Open(context.Background(), "sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = arch.Close() })
	return arch
}

func archivedRecord(invoice, file string) entity.ExtractedRecord {
	rec := entity.ExtractedRecord{
		SourceFilename: file,
		Comparison:     entity.ComparisonMatched,
	}
	rec.InvoiceNumber = invoice
	rec.Mode = constants.ModeAir
	rec.OwnCharges = 350
	rec.ReimbursementCharges = 1000
	return rec
}

func TestSQLiteArchiveRoundTrip(t *testing.T) {
	arch := openTestArchive(t)
	ctx := context.Background()

	require.NoError(t, arch.SaveRecord(ctx, archivedRecord("INV-1", "a.pdf")))

	got, err := arch.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "INV-1", got[0].InvoiceNumber)
	assert.Equal(t, "a.pdf", got[0].SourceFilename)
	assert.Equal(t, constants.ModeAir, got[0].Mode)
	assert.Equal(t, entity.ComparisonMatched, got[0].Comparison)
	assert.Equal(t, 350.0, got[0].OwnCharges)
	assert.Equal(t, 1350.0, got[0].TotalCharges())
}

func TestSQLiteArchiveIgnoresDuplicates(t *testing.T) {
	arch := openTestArchive(t)
	ctx := context.Background()

	require.NoError(t, arch.SaveRecord(ctx, archivedRecord("INV-1", "a.pdf")))
	require.NoError(t, arch.SaveRecord(ctx, archivedRecord("INV-1", "a.pdf")))
	require.NoError(t, arch.SaveRecord(ctx, archivedRecord("INV-1", "b.pdf")))

	got, err := arch.ListRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "dsn")
	require.Error(t, err)
}
