package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/freightops/invoice-audit/internal/archive"
	"github.com/freightops/invoice-audit/internal/common"
	"github.com/freightops/invoice-audit/internal/document"
	"github.com/freightops/invoice-audit/internal/export"
	"github.com/freightops/invoice-audit/internal/extract"
	"github.com/freightops/invoice-audit/internal/llm/openai"
	"github.com/freightops/invoice-audit/internal/rates"
	"github.com/freightops/invoice-audit/internal/store"
)

// printError prints to stderr, falling back to stdout if stderr fails.
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir       = flag.String("dir", "", "directory of invoice documents to process (required)")
		quotation = flag.String("quotation", "", "rate quotation document; enables rate comparison")
		out       = flag.String("out", "", "output XLSX path (default: <dir parent>/invoice-audit.xlsx)")
		skipHide  = flag.Bool("skip-hidden", true, "skip hidden files and directories")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(2)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "invoice-audit.xlsx")
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(2)
	}

	ctx := context.Background()

	client := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	// Quotation first: the schedule must be active before any invoice
	// is compared. A quotation failure is fatal for the run; there is
	// no such thing as a partial rate schedule.
	scheduleCtx := rates.NewScheduleContext()
	if *quotation != "" {
		doc, err := document.Load(*quotation)
		if err != nil {
			printError("Error: load quotation: %v\n", err)
			os.Exit(1)
		}
		extractor := extract.NewQuotationRateExtractor(client, cfg.Quotation.MaxPages, logger)
		schedule, err := extractor.ExtractRates(ctx, doc)
		if err != nil {
			printError("Error: extract quotation rates: %v\n", err)
			os.Exit(1)
		}
		scheduleCtx.Set(schedule)
	}

	paths, err := document.ScanDirectory(*dir, *skipHide)
	if err != nil {
		printError("Error: scan %s: %v\n", *dir, err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		printError("Error: no invoice documents under %s\n", *dir)
		os.Exit(1)
	}

	orch := extract.NewOrchestrator(client, logger)
	orch.OnProgress = func(done, total int, filename string, err error) {
		if err != nil {
			fmt.Printf("[%d/%d] FAILED  %s: %v\n", done, total, filepath.Base(filename), err)
		} else {
			fmt.Printf("[%d/%d] ok      %s\n", done, total, filepath.Base(filename))
		}
	}

	result := orch.ProcessFiles(ctx, paths)

	var arch archive.Archive
	if cfg.Archive.Driver != "" {
		arch, err = archive.Open(ctx, cfg.Archive.Driver, cfg.Archive.DSN)
		if err != nil {
			printError("Error: open archive: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = arch.Close() }()
	}

	results := store.NewMemoryStore()
	for _, rec := range result.Records {
		compared := rec.WithComparison(rates.Compare(rec, scheduleCtx.Active()))
		results.Add(compared)
		if arch != nil {
			if err := arch.SaveRecord(ctx, compared); err != nil {
				logger.Warn("archive.save_failed", "file", compared.SourceFilename, "error", err)
			}
		}
	}

	xlsx, err := export.NewService(logger).ExportXLSX(results.List())
	if err != nil {
		printError("Error: export: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsx, 0o644); err != nil {
		printError("Error: write %s: %v\n", *out, err)
		os.Exit(1)
	}

	fmt.Printf("\nProcessed %d document(s): %d succeeded, %d failed\n",
		len(paths), len(result.Records), len(result.Failures))
	for _, f := range result.Failures {
		fmt.Printf("  failed: %s (%s stage): %v\n", filepath.Base(f.Filename), f.Stage, f.Cause)
	}
	fmt.Printf("Workbook written to %s\n", *out)

	// Individual document failures are part of the batch contract, not
	// a failed run.
}
