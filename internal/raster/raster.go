// Package raster converts document pages into high-resolution images for
// OCR. Two PDF engines are available: go-fitz (MuPDF, in-process) and
// pdftoppm (poppler-utils, subprocess). A plain image file is treated as a
// one-page document.
package raster

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Document is an open document whose pages render on demand.
// Page numbers are 1-indexed.
type Document interface {
	// PageCount returns the total number of pages.
	PageCount() int

	// RenderPage rasterizes one page to PNG at the given DPI.
	RenderPage(ctx context.Context, pageNum, dpi int) ([]byte, error)

	// Close releases the underlying document.
	Close() error
}

// Open opens a document with the named engine ("fitz" or "pdftoppm").
// PNG/JPEG files open as single-page documents regardless of engine.
func Open(path, engine string) (Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return openImageFile(path)
	case ".pdf":
	default:
		return nil, fmt.Errorf("unsupported document type: %s", path)
	}

	switch engine {
	case "fitz", "":
		return openFitz(path)
	case "pdftoppm":
		return openPdftoppm(path)
	default:
		return nil, fmt.Errorf("unknown raster engine: %s", engine)
	}
}
