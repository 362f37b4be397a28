package raster

import (
	"context"
	"fmt"
	"os"
)

// imageDoc treats a single PNG/JPEG as a one-page document. The image is
// already rasterized, so DPI is ignored.
type imageDoc struct {
	data []byte
}

func openImageFile(path string) (*imageDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return &imageDoc{data: data}, nil
}

func (d *imageDoc) PageCount() int {
	return 1
}

func (d *imageDoc) RenderPage(ctx context.Context, pageNum, dpi int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if pageNum != 1 {
		return nil, fmt.Errorf("image document has a single page, requested %d", pageNum)
	}
	return d.data, nil
}

func (d *imageDoc) Close() error {
	return nil
}
