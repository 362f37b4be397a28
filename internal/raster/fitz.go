package raster

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"sync"

	"github.com/gen2brain/go-fitz"
)

// fitzDoc renders pages in-process through MuPDF.
type fitzDoc struct {
	mu  sync.Mutex // MuPDF documents are not concurrency-safe
	doc *fitz.Document
}

func openFitz(path string) (*fitzDoc, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return &fitzDoc{doc: doc}, nil
}

func (d *fitzDoc) PageCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.NumPage()
}

func (d *fitzDoc) RenderPage(ctx context.Context, pageNum, dpi int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = 300
	}

	d.mu.Lock()
	img, err := d.doc.ImageDPI(pageNum-1, float64(dpi))
	d.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", pageNum, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode page %d: %w", pageNum, err)
	}
	return buf.Bytes(), nil
}

func (d *fitzDoc) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Close()
}
