package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/freightops/invoice-audit/internal/entity"
)

func rec(invoice, file string) entity.ExtractedRecord {
	r := entity.ExtractedRecord{SourceFilename: file}
	r.InvoiceNumber = invoice
	return r
}

func TestMemoryStoreDedup(t *testing.T) {
	s := NewMemoryStore()

	assert.True(t, s.Add(rec("INV-1", "a.pdf")))
	assert.False(t, s.Add(rec("INV-1", "a.pdf")))

	// Same invoice number out of a different file is a distinct record.
	assert.True(t, s.Add(rec("INV-1", "b.pdf")))
	assert.Equal(t, 2, s.Len())
}

func TestMemoryStoreAddAll(t *testing.T) {
	s := NewMemoryStore()
	added := s.AddAll([]entity.ExtractedRecord{
		rec("INV-1", "a.pdf"),
		rec("INV-2", "b.pdf"),
		rec("INV-1", "a.pdf"),
	})
	assert.Equal(t, 2, added)

	got := s.List()
	assert.Len(t, got, 2)
	assert.Equal(t, "INV-1", got[0].InvoiceNumber)
	assert.Equal(t, "INV-2", got[1].InvoiceNumber)
}

func TestMemoryStoreListIsACopy(t *testing.T) {
	s := NewMemoryStore()
	s.Add(rec("INV-1", "a.pdf"))

	got := s.List()
	got[0].InvoiceNumber = "mutated"
	assert.Equal(t, "INV-1", s.List()[0].InvoiceNumber)
}

func TestMemoryStoreClear(t *testing.T) {
	s := NewMemoryStore()
	s.Add(rec("INV-1", "a.pdf"))
	s.Clear()
	assert.Equal(t, 0, s.Len())

	// The dedup index resets with the records.
	assert.True(t, s.Add(rec("INV-1", "a.pdf")))
}
