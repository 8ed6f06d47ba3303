package extract

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/freightops/invoice-audit/internal/common"
	"github.com/freightops/invoice-audit/internal/document"
	"github.com/freightops/invoice-audit/internal/entity"
	"github.com/freightops/invoice-audit/internal/llm"
)

// Orchestrator sequences the identification and charge-classification
// stages over one document and merges their outputs into a single
// record. Batches are processed one document at a time; a document's
// failure never disturbs the others.
type Orchestrator struct {
	fields  *FieldExtractor
	charges *ChargeClassifier
	logger  *slog.Logger

	// OnProgress, when set, is called after each document of a batch
	// settles (success or failure).
	OnProgress func(done, total int, filename string, err error)
}

func NewOrchestrator(model llm.Extractor, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		fields:  NewFieldExtractor(model, logger),
		charges: NewChargeClassifier(model, logger),
		logger:  logger,
	}
}

// Process extracts one invoice into a record. The two model calls are
// independent of each other's output and run concurrently. Failure of
// either stage fails the document with a *DocumentFailure naming the
// stage; the classifier only fails on transport-level errors, since
// malformed output already degraded inside Classify.
func (o *Orchestrator) Process(ctx context.Context, doc llm.Document) (*entity.ExtractedRecord, error) {
	start := time.Now()

	var (
		fields    entity.IdentificationFields
		breakdown RawBreakdown
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := o.fields.ExtractFields(gctx, doc)
		if err != nil {
			return &DocumentFailure{Filename: doc.Filename, Stage: "identify", Cause: err}
		}
		fields = f
		return nil
	})
	g.Go(func() error {
		b, err := o.charges.Classify(gctx, doc)
		if err != nil {
			return &DocumentFailure{Filename: doc.Filename, Stage: "classify", Cause: err}
		}
		breakdown = b
		return nil
	})
	if err := g.Wait(); err != nil {
		o.logger.Error("process.failed", "file", doc.Filename, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	rec := &entity.ExtractedRecord{
		IdentificationFields: fields,
		ChargeBreakdown:      reconcile(breakdown, doc.Filename, o.logger),
		SourceFilename:       doc.Filename,
	}

	o.logger.Info("process.ok",
		"file", doc.Filename,
		"invoice_number", rec.InvoiceNumber,
		"own_charges", rec.OwnCharges,
		"reimbursement_charges", rec.ReimbursementCharges,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, nil
}

// BatchResult is the per-item outcome of a batch run. Records holds
// every successful extraction in input order; Failures names each
// failed document with a cause. A batch call itself never errors.
type BatchResult struct {
	Records  []*entity.ExtractedRecord
	Failures []*DocumentFailure
}

// ProcessBatch runs Process over already-loaded documents, one at a
// time. Sequential on purpose: it bounds the load on the extraction
// capability and keeps per-file error attribution trivial.
func (o *Orchestrator) ProcessBatch(ctx context.Context, docs []llm.Document) BatchResult {
	batchID := uuid.New().String()
	ctx = common.WithBatchID(ctx, batchID)
	o.logger.Info("batch.start", "batch_id", batchID, "documents", len(docs))

	var res BatchResult
	for i, doc := range docs {
		rec, err := o.Process(ctx, doc)
		if err != nil {
			res.Failures = append(res.Failures, asDocumentFailure(doc.Filename, err))
		} else {
			res.Records = append(res.Records, rec)
		}
		o.report(i+1, len(docs), doc.Filename, err)
	}

	o.logger.Info("batch.done",
		"batch_id", batchID,
		"succeeded", len(res.Records),
		"failed", len(res.Failures),
	)
	return res
}

// ProcessFiles loads each path and processes it, folding read failures
// into the batch result alongside extraction failures.
func (o *Orchestrator) ProcessFiles(ctx context.Context, paths []string) BatchResult {
	batchID := uuid.New().String()
	ctx = common.WithBatchID(ctx, batchID)
	o.logger.Info("batch.start", "batch_id", batchID, "documents", len(paths))

	var res BatchResult
	for i, path := range paths {
		doc, err := document.Load(path)
		if err == nil {
			var rec *entity.ExtractedRecord
			rec, err = o.Process(ctx, doc)
			if err == nil {
				res.Records = append(res.Records, rec)
			}
		}
		if err != nil {
			res.Failures = append(res.Failures, asDocumentFailure(doc.Filename, err))
		}
		o.report(i+1, len(paths), path, err)
	}

	o.logger.Info("batch.done",
		"batch_id", batchID,
		"succeeded", len(res.Records),
		"failed", len(res.Failures),
	)
	return res
}

func (o *Orchestrator) report(done, total int, filename string, err error) {
	if o.OnProgress != nil {
		o.OnProgress(done, total, filename, err)
	}
}

func asDocumentFailure(filename string, err error) *DocumentFailure {
	var df *DocumentFailure
	if errors.As(err, &df) {
		return df
	}
	var re *document.ReadError
	if errors.As(err, &re) {
		return &DocumentFailure{Filename: re.Path, Stage: "read", Cause: re.Err}
	}
	return &DocumentFailure{Filename: filename, Stage: "read", Cause: err}
}
