package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/apdesk/invoicelines/internal/common"
	"github.com/apdesk/invoicelines/internal/export"
	"github.com/apdesk/invoicelines/internal/invoice"
	"github.com/apdesk/invoicelines/internal/ocr"
	"github.com/apdesk/invoicelines/internal/parse"
	"github.com/apdesk/invoicelines/internal/pdf"
)

// Result is one completed run: the export schema, the projected rows, and
// the raw extracted text kept for preview.
type Result struct {
	Headers  []string
	Rows     [][]any
	RawText  string
	Pages    int
	Invoices int
}

// Pipeline drives pages (or pasted-text segments) through normalization,
// extraction and accumulation, then reconciles and projects once at the end.
// Processing is strictly sequential: the sticky invoice context depends on
// page order, so pages are never handled concurrently.
type Pipeline struct {
	logger *slog.Logger
	engine ocr.Engine
}

func New(logger *slog.Logger, engine ocr.Engine) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{logger: logger, engine: engine}
}

// Run processes every page of src in order. Per page it prefers the digital
// text layer; pages with too little digital text (or all pages under
// ForceOCR) are rasterized and recognized instead. Any page error aborts the
// whole run.
func (p *Pipeline) Run(ctx context.Context, src pdf.Source, opts Options) (Result, error) {
	start := time.Now()
	runID := uuid.New()
	acc := invoice.NewAccumulator()

	var raw string
	pages := src.PageCount()
	for i := 0; i < pages; i++ {
		pageText, method, err := p.pageText(ctx, src, i, opts)
		if err != nil {
			return Result{}, fmt.Errorf("page %d: %w", i+1, err)
		}
		raw += fmt.Sprintf("\n\n--- Page %d ---\n%s", i+1, pageText)

		applied := p.feed(acc, pageText, opts)
		p.logger.Debug("pipeline.page.ok",
			"run_id", runID.String(),
			"page", i+1, "of", pages,
			"method", method,
			"chars", len(pageText),
			"applied", applied,
		)
	}

	res, err := p.finalize(acc, raw, pages, opts)
	p.logger.Info("pipeline.run.done",
		"run_id", runID.String(),
		"pages", pages,
		"invoices", res.Invoices,
		"rows", len(res.Rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, err
}

// RunText handles the pasted-text path: the blob is normalized once, split
// into per-invoice segments on the boundary keywords, and each segment is
// fed as one chunk.
func (p *Pipeline) RunText(ctx context.Context, text string, opts Options) (Result, error) {
	runID := uuid.New()
	acc := invoice.NewAccumulator()

	segments := parse.SplitSegments(parse.Normalize(text))
	for _, seg := range segments {
		p.feed(acc, seg, opts)
	}
	res, err := p.finalize(acc, text, 0, opts)
	p.logger.Info("pipeline.text.done",
		"run_id", runID.String(),
		"segments", len(segments),
		"invoices", res.Invoices,
		"rows", len(res.Rows),
	)
	return res, err
}

// pageText acquires one page's text, deciding between the digital layer and
// OCR.
func (p *Pipeline) pageText(ctx context.Context, src pdf.Source, page int, opts Options) (string, string, error) {
	var text string
	if !opts.ForceOCR {
		t, err := src.PageText(ctx, page)
		if err != nil {
			return "", "", err
		}
		text = parse.Normalize(t)
	}
	if !opts.ForceOCR && len(text) >= opts.MinDigitalTextLen {
		return text, "pdf-text", nil
	}

	img, cleanup, err := src.RenderPage(ctx, page, opts.OCRScale)
	if err != nil {
		return "", "", err
	}
	defer cleanup()
	recognized, err := p.engine.Recognize(ctx, img)
	if err != nil {
		return "", "", err
	}
	return parse.Normalize(recognized), "pdf-ocr", nil
}

// feed runs the extractors over one normalized chunk and merges the captures
// into the accumulator. A chunk with no invoice context is skipped.
func (p *Pipeline) feed(acc *invoice.Accumulator, norm string, opts Options) bool {
	return acc.Apply(
		parse.FindInvoiceNo(norm),
		parse.ExtractHeader(norm),
		parse.ExtractLineItems(norm, opts.Layout),
		parse.ExtractTotals(norm),
		parse.FindGSTRate(norm),
	)
}

// finalize reconciles totals and projects rows exactly once, at the end of
// the run.
func (p *Pipeline) finalize(acc *invoice.Accumulator, raw string, pages int, opts Options) (Result, error) {
	invs := acc.Invoices()
	for _, inv := range invs {
		invoice.Reconcile(inv, opts.Layout)
	}

	rows := export.Project(invs, export.Options{
		Layout:              opts.Layout,
		ExcludeDraft:        opts.ExcludeDraftInvoices,
		NormalizeCurrencyTo: opts.NormalizeCurrencyTo,
	})
	res := Result{
		Headers:  export.Headers(opts.Layout),
		Rows:     rows,
		RawText:  raw,
		Pages:    pages,
		Invoices: len(invs),
	}
	if len(rows) == 0 {
		// distinct empty-result status, not a hard failure
		return res, common.ErrNoLineItems
	}
	return res, nil
}
