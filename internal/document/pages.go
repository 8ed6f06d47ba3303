package document

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/freightops/invoice-audit/constants"
	"github.com/freightops/invoice-audit/internal/llm"
)

// FirstPages returns a copy of doc restricted to its first n pages.
// Invoices are analyzed from page one only and quotations from the
// first few pages; trimming the PDF before the model call makes that
// boundary physical instead of relying on the prompt alone.
//
// Non-PDF documents are single-page by nature and pass through
// untouched, as do PDFs already within the limit.
func FirstPages(doc llm.Document, n int) (llm.Document, error) {
	if n <= 0 {
		n = 1
	}
	if constants.MapExtToFormat(filepath.Ext(doc.Filename)) != constants.PDF {
		return doc, nil
	}

	count, err := api.PageCount(bytes.NewReader(doc.Bytes), nil)
	if err != nil {
		return doc, fmt.Errorf("page count %s: %w", doc.Filename, err)
	}
	if count <= n {
		return doc, nil
	}

	var buf bytes.Buffer
	sel := []string{fmt.Sprintf("1-%d", n)}
	if err := api.Trim(bytes.NewReader(doc.Bytes), &buf, sel, nil); err != nil {
		return doc, fmt.Errorf("trim %s to %d page(s): %w", doc.Filename, n, err)
	}

	return llm.Document{
		Filename:    doc.Filename,
		ContentType: doc.ContentType,
		Bytes:       buf.Bytes(),
	}, nil
}
