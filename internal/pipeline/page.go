package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/arvindh/rollscan/internal/classify"
	"github.com/arvindh/rollscan/internal/parse"
	"github.com/arvindh/rollscan/internal/segment"
	"github.com/arvindh/rollscan/internal/store"
	"github.com/arvindh/rollscan/internal/validate"
)

// pageResult is the outcome of one page. fatal is set only for resource
// errors that must halt the run (storage unreachable); everything else is
// a page-level status.
type pageResult struct {
	status     string
	note       string
	inserted   int
	rejected   int
	duplicates int
	fatal      error
}

func failed(reason string) pageResult {
	return pageResult{status: store.StatusFailed, note: reason}
}

func (o *Orchestrator) processPage(ctx context.Context, page int) pageResult {
	image, err := o.doc.RenderPage(ctx, page, o.opts.DPI)
	if err != nil {
		if ctx.Err() != nil {
			return pageResult{fatal: ctx.Err()}
		}
		return failed(fmt.Sprintf("rasterize_error: %v", err))
	}
	o.cachePageImage(page, image)

	text, err := o.ocrWithRetry(ctx, image)
	if err != nil {
		if ctx.Err() != nil {
			return pageResult{fatal: ctx.Err()}
		}
		return failed(fmt.Sprintf("ocr_error: %v", err))
	}

	switch classify.Classify(text) {
	case classify.Header:
		return o.processHeaderPage(ctx, page, text)
	case classify.Data:
		return o.processDataPage(ctx, page, image)
	default:
		return failed("unclassified_page: neither header marker nor voter rows detected")
	}
}

// processHeaderPage parses station metadata and establishes the station
// context for subsequent data pages.
func (o *Orchestrator) processHeaderPage(ctx context.Context, page int, ocrText string) pageResult {
	response, err := o.completeWithRetry(ctx, parse.HeaderPrompt(ocrText))
	if err != nil {
		if ctx.Err() != nil {
			return pageResult{fatal: ctx.Err()}
		}
		return failed(fmt.Sprintf("llm_error: %v", err))
	}

	header, err := parse.ParseHeader(response)
	if err != nil {
		// The raw OCR text is a second chance: printed labels survive
		// OCR more often than the model reproduces them.
		if fallback, fbErr := parse.ParseHeader(ocrText); fbErr == nil {
			header = fallback
		} else {
			dump := o.dumpFailedPage(page, response)
			return failed(fmt.Sprintf("header_parse_error: %v%s", err, dump))
		}
	}

	stationID, err := o.store.UpsertStation(ctx, store.Station{
		BoothNo:              header.BoothNo,
		PartNo:               header.PartNo,
		SectionNo:            header.SectionNo,
		LocationName:         header.LocationName,
		AssemblyConstituency: header.AssemblyConstituency,
	})
	if err != nil {
		if errors.Is(err, store.ErrMissingStationKey) {
			return failed(fmt.Sprintf("header_parse_error: %v", err))
		}
		return pageResult{fatal: fmt.Errorf("cannot persist station: %w", err)}
	}

	o.stationCtx = stationID
	o.logger.Info("station context established",
		"page", page,
		"station_id", stationID,
		"part_no", header.PartNo,
		"section_no", header.SectionNo,
	)
	return pageResult{status: store.StatusCompleted}
}

// processDataPage segments the page, OCRs and parses each segment, and
// persists the accepted voters under the active station context.
func (o *Orchestrator) processDataPage(ctx context.Context, page int, image []byte) pageResult {
	if o.stationCtx == 0 {
		o.recoverStationContext(ctx, page)
	}
	if o.stationCtx == 0 {
		return failed("no_active_station: data page with no prior header")
	}

	segments, err := segment.Split(image, o.currentKnobs().segmentRows)
	if err != nil {
		return failed(fmt.Sprintf("segment_error: %v", err))
	}

	var (
		res         pageResult
		validSegs   int
		failedSegs  int
		diagnostics []string
	)
	res.status = store.StatusCompleted

	for _, seg := range segments {
		if err := ctx.Err(); err != nil {
			return pageResult{fatal: err}
		}

		candidates, segErr := o.processSegment(ctx, page, seg)
		if segErr != nil {
			failedSegs++
			diagnostics = append(diagnostics, fmt.Sprintf("segment %d: %v", seg.Index, segErr))
			continue
		}
		if candidates == nil {
			// Empty segment: no text, nothing to parse.
			continue
		}
		validSegs++

		accepted, rejections := validate.Batch(candidates)
		res.rejected += len(rejections)
		for _, rej := range rejections {
			o.logger.Warn("voter rejected",
				"page", page,
				"segment", seg.Index,
				"reason", rej.Reason,
				"epic", rej.Candidate.EPIC,
			)
		}

		for _, voter := range accepted {
			voter.PollingStationID = o.stationCtx
			if _, err := o.store.InsertVoter(ctx, voter); err != nil {
				if errors.Is(err, store.ErrDuplicateEPIC) {
					res.duplicates++
					o.logger.Warn("duplicate epic_number",
						"page", page,
						"epic", voter.EPICNumber,
					)
					continue
				}
				return pageResult{fatal: fmt.Errorf("cannot persist voter: %w", err)}
			}
			res.inserted++
		}
	}

	if failedSegs > 0 {
		if validSegs == 0 && res.inserted == 0 {
			return failed(fmt.Sprintf("all %d segments failed: %s",
				failedSegs, strings.Join(diagnostics, "; ")))
		}
		res.note = fmt.Sprintf("partial: %d of %d segments failed", failedSegs, len(segments))
	}
	return res
}

// processSegment OCRs one segment and parses the text into candidates.
// Returns (nil, nil) for an empty segment.
func (o *Orchestrator) processSegment(ctx context.Context, page int, seg segment.Segment) ([]parse.VoterCandidate, error) {
	text, err := o.ocrWithRetry(ctx, seg.PNG)
	if err != nil {
		return nil, fmt.Errorf("ocr: %w", err)
	}
	if len(strings.TrimSpace(text)) < o.currentKnobs().minTextChars {
		return nil, nil
	}

	response, err := o.completeWithRetry(ctx, parse.VoterPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}

	candidates, err := parse.ParseVoters(response)
	if err != nil {
		dump := o.dumpFailedPage(page, response)
		return nil, fmt.Errorf("parse: %w%s", err, dump)
	}
	return candidates, nil
}

// cachePageImage writes the rendered page into the run's work area for
// debugging and manual re-runs. Best effort.
func (o *Orchestrator) cachePageImage(page int, image []byte) {
	if o.home == nil {
		return
	}
	path := o.home.PageImagePath(o.opts.RunID, page)
	if err := os.WriteFile(path, image, 0o644); err != nil {
		o.logger.Warn("failed to cache page image", "page", page, "error", err)
	}
}

// dumpFailedPage saves a raw response that failed parsing and returns a
// note fragment referencing the dump path.
func (o *Orchestrator) dumpFailedPage(page int, raw string) string {
	if o.home == nil {
		return ""
	}
	path, err := o.home.WriteFailedDump(page, raw)
	if err != nil {
		o.logger.Warn("failed to write parse dump", "page", page, "error", err)
		return ""
	}
	return fmt.Sprintf(" (raw response saved to %s)", path)
}
