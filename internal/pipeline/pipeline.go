// Package pipeline drives the page-by-page extraction loop: rasterize,
// classify, segment, OCR, parse, validate, persist, and log progress. Pages
// are processed strictly in document order because the current-station
// context must follow the document's header/data structure.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/arvindh/rollscan/internal/home"
	"github.com/arvindh/rollscan/internal/providers"
	"github.com/arvindh/rollscan/internal/raster"
	"github.com/arvindh/rollscan/internal/store"
)

// Options configures a run. Zero values fall back to the documented
// defaults (all pages, 10 rows per segment, 2 retries).
type Options struct {
	DocumentPath string // recorded in the summary; the document itself arrives open
	DPI          int
	FromPage     int // 1-indexed, inclusive; 0 means first page
	ToPage       int // inclusive; 0 means last page
	SegmentRows  int
	MaxRetries   int     // retries for transient OCR/LLM failures
	MinTextChars int     // OCR text below this counts as an empty page/segment
	Temperature  float64 // sampling temperature for LLM parse calls
	RunID        string
}

func (o *Options) applyDefaults() {
	if o.DPI <= 0 {
		o.DPI = 300
	}
	if o.SegmentRows <= 0 {
		o.SegmentRows = 10
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.MinTextChars <= 0 {
		o.MinTextChars = 50
	}
}

// Summary is the user-visible result of a completed run.
type Summary struct {
	RunID          string `json:"run_id" yaml:"run_id"`
	Document       string `json:"document" yaml:"document"`
	PagesTotal     int    `json:"pages_total" yaml:"pages_total"`
	PagesCompleted int    `json:"pages_completed" yaml:"pages_completed"`
	PagesFailed    int    `json:"pages_failed" yaml:"pages_failed"`
	PagesSkipped   int    `json:"pages_skipped" yaml:"pages_skipped"`
	VotersInserted int    `json:"voters_inserted" yaml:"voters_inserted"`
	VotersRejected int    `json:"voters_rejected" yaml:"voters_rejected"`
	Duplicates     int    `json:"duplicate_epics" yaml:"duplicate_epics"`
	FailedPages    []int  `json:"failed_pages,omitempty" yaml:"failed_pages,omitempty"`
}

// Orchestrator owns one extraction run.
type Orchestrator struct {
	store  *store.Store
	doc    raster.Document
	ocr    providers.OCRProvider
	llm    providers.LLMClient
	home   *home.Dir
	logger *slog.Logger
	opts   Options

	// knobs are the per-page settings a config reload may adjust while
	// the run is in flight. Retune runs on the watcher's goroutine, so
	// reads go through the mutex.
	mu    sync.RWMutex
	knobs knobs

	// stationCtx is the most recently established polling station id. It
	// is loop state, never ambient: data pages fail without it, and on
	// resume it is reconstructed from the last header page preceding the
	// resume point.
	stationCtx int64

	// noHeaderBelow memoizes the floor of a failed backward header scan
	// so repeated context recoveries do not re-OCR the same pages.
	noHeaderBelow int
}

// New creates an orchestrator for a run. The caller opens and closes the
// document; the orchestrator only renders from it.
func New(st *store.Store, doc raster.Document, ocr providers.OCRProvider, llm providers.LLMClient, homeDir *home.Dir, logger *slog.Logger, opts Options) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	opts.applyDefaults()
	return &Orchestrator{
		store:  st,
		doc:    doc,
		ocr:    ocr,
		llm:    llm,
		home:   homeDir,
		logger: logger,
		opts:   opts,
		knobs: knobs{
			segmentRows:  opts.SegmentRows,
			maxRetries:   opts.MaxRetries,
			minTextChars: opts.MinTextChars,
		},
	}
}

// knobs are the settings Retune may change between pages.
type knobs struct {
	segmentRows  int
	maxRetries   int
	minTextChars int
}

// Retune adjusts the per-page knobs of a running extraction, typically from
// a config reload callback. Non-positive segmentRows/minTextChars and a
// negative maxRetries leave the current value in place, so callers can pin
// individual knobs (a CLI flag override) by passing the sentinel. The page
// range, DPI, and run identity stay fixed for the life of the run.
func (o *Orchestrator) Retune(segmentRows, maxRetries, minTextChars int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if segmentRows > 0 {
		o.knobs.segmentRows = segmentRows
	}
	if maxRetries >= 0 {
		o.knobs.maxRetries = maxRetries
	}
	if minTextChars > 0 {
		o.knobs.minTextChars = minTextChars
	}
	o.logger.Info("pipeline knobs updated",
		"segment_rows", o.knobs.segmentRows,
		"max_retries", o.knobs.maxRetries,
		"min_text_chars", o.knobs.minTextChars,
	)
}

func (o *Orchestrator) currentKnobs() knobs {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.knobs
}

// Run executes the page loop. Only unrecoverable resource errors (storage
// unreachable) return an error; page-level failures are logged in the
// ledger and the loop continues.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	from, to, err := o.pageRange(o.doc.PageCount())
	if err != nil {
		return nil, err
	}

	done, err := o.store.CompletedPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot read extraction log: %w", err)
	}

	if o.home != nil {
		if err := o.home.EnsurePageImagesDir(o.opts.RunID); err != nil {
			return nil, err
		}
	}

	summary := &Summary{
		RunID:      o.opts.RunID,
		Document:   o.opts.DocumentPath,
		PagesTotal: to - from + 1,
	}

	o.logger.Info("run started",
		"run_id", o.opts.RunID,
		"document", o.opts.DocumentPath,
		"pages", summary.PagesTotal,
		"from", from,
		"to", to,
	)

	for page := from; page <= to; page++ {
		// The run is interruptible at every page boundary; the ledger
		// row for the previous page is already flushed.
		if err := ctx.Err(); err != nil {
			o.logger.Info("run interrupted", "run_id", o.opts.RunID, "next_page", page)
			return summary, err
		}

		if done[page] {
			summary.PagesSkipped++
			o.logger.Debug("page already completed, skipping", "page", page)
			continue
		}

		if err := o.store.RecordPageStatus(ctx, page, store.StatusPending, ""); err != nil {
			return summary, fmt.Errorf("cannot write extraction log: %w", err)
		}

		res := o.processPage(ctx, page)
		if res.fatal != nil {
			// Flush the failure before halting so the ledger stays
			// consistent with what actually happened.
			_ = o.store.RecordPageStatus(ctx, page, store.StatusFailed, res.fatal.Error())
			return summary, res.fatal
		}

		summary.VotersInserted += res.inserted
		summary.VotersRejected += res.rejected
		summary.Duplicates += res.duplicates

		if err := o.store.RecordPageStatus(ctx, page, res.status, res.note); err != nil {
			return summary, fmt.Errorf("cannot write extraction log: %w", err)
		}

		switch res.status {
		case store.StatusCompleted:
			summary.PagesCompleted++
			o.logger.Info("page completed",
				"page", page,
				"voters_inserted", res.inserted,
				"voters_rejected", res.rejected,
				"note", res.note,
			)
		case store.StatusFailed:
			summary.PagesFailed++
			summary.FailedPages = append(summary.FailedPages, page)
			o.logger.Warn("page failed", "page", page, "reason", res.note)
		}
	}

	o.logger.Info("run finished",
		"run_id", o.opts.RunID,
		"pages_completed", summary.PagesCompleted,
		"pages_failed", summary.PagesFailed,
		"pages_skipped", summary.PagesSkipped,
		"voters_inserted", summary.VotersInserted,
		"voters_rejected", summary.VotersRejected,
		"duplicate_epics", summary.Duplicates,
	)
	return summary, nil
}

func (o *Orchestrator) pageRange(pageCount int) (int, int, error) {
	from := o.opts.FromPage
	if from < 1 {
		from = 1
	}
	to := o.opts.ToPage
	if to < 1 || to > pageCount {
		to = pageCount
	}
	if from > to {
		return 0, 0, fmt.Errorf("invalid page range: from %d, to %d (document has %d pages)",
			from, to, pageCount)
	}
	return from, to, nil
}
