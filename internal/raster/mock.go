package raster

import (
	"context"
	"fmt"
)

// Mock is a Document for testing. Pages serves the PNG bytes per page
// (1-indexed); FailPages lists pages whose render fails.
type Mock struct {
	Pages     [][]byte
	FailPages map[int]bool
	Closed    bool
}

// NewMock creates a mock document with the given page images.
func NewMock(pages ...[]byte) *Mock {
	return &Mock{Pages: pages}
}

// PageCount returns the number of configured pages.
func (m *Mock) PageCount() int {
	return len(m.Pages)
}

// RenderPage returns the configured bytes for a page.
func (m *Mock) RenderPage(ctx context.Context, pageNum, dpi int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.FailPages[pageNum] {
		return nil, fmt.Errorf("mock render failure for page %d", pageNum)
	}
	if pageNum < 1 || pageNum > len(m.Pages) {
		return nil, fmt.Errorf("page %d out of range", pageNum)
	}
	return m.Pages[pageNum-1], nil
}

// Close marks the document closed.
func (m *Mock) Close() error {
	m.Closed = true
	return nil
}
