package pipeline

import (
	"context"

	"github.com/arvindh/rollscan/internal/classify"
	"github.com/arvindh/rollscan/internal/parse"
	"github.com/arvindh/rollscan/internal/store"
)

// recoverStationContext rebuilds the station context after a restart (or
// for a sharded page range) by re-reading the closest header page below
// the current one. Completed header pages are skipped by the main loop, so
// their context has to be reconstructed rather than remembered.
//
// The scan walks backward, OCRs each page, and stops at the first header
// it can parse. Station persistence is idempotent, so re-parsing a header
// that was already stored just resolves the existing id. A failed scan is
// memoized so later data pages do not re-OCR the same prefix.
func (o *Orchestrator) recoverStationContext(ctx context.Context, belowPage int) {
	if belowPage-1 <= o.noHeaderBelow {
		return
	}

	for page := belowPage - 1; page > o.noHeaderBelow; page-- {
		if ctx.Err() != nil {
			return
		}

		image, err := o.doc.RenderPage(ctx, page, o.opts.DPI)
		if err != nil {
			continue
		}
		text, err := o.ocrWithRetry(ctx, image)
		if err != nil {
			continue
		}
		if classify.Classify(text) != classify.Header {
			continue
		}

		header, err := o.parseHeaderText(ctx, text)
		if err != nil {
			o.logger.Warn("context recovery: header page unparseable",
				"page", page, "error", err)
			continue
		}

		stationID, err := o.store.UpsertStation(ctx, store.Station{
			BoothNo:              header.BoothNo,
			PartNo:               header.PartNo,
			SectionNo:            header.SectionNo,
			LocationName:         header.LocationName,
			AssemblyConstituency: header.AssemblyConstituency,
		})
		if err != nil {
			o.logger.Warn("context recovery: cannot resolve station",
				"page", page, "error", err)
			continue
		}

		o.stationCtx = stationID
		o.logger.Info("station context recovered",
			"header_page", page,
			"station_id", stationID,
			"part_no", header.PartNo,
			"section_no", header.SectionNo,
		)
		return
	}

	// Nothing below belowPage opens a section; remember that.
	o.noHeaderBelow = belowPage - 1
}

// parseHeaderText structures a header page's OCR text, preferring the LLM
// and falling back to printed-label matching.
func (o *Orchestrator) parseHeaderText(ctx context.Context, ocrText string) (parse.Header, error) {
	if response, err := o.completeWithRetry(ctx, parse.HeaderPrompt(ocrText)); err == nil {
		if header, err := parse.ParseHeader(response); err == nil {
			return header, nil
		}
	}
	return parse.ParseHeader(ocrText)
}
