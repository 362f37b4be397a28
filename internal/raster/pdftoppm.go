package raster

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// pdftoppmDoc renders pages through poppler's pdftoppm. The page count
// comes from pdfcpu so opening the document also validates it.
type pdftoppmDoc struct {
	path      string
	pageCount int
}

func openPdftoppm(path string) (*pdftoppmDoc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	pageCount, err := api.PageCount(f, nil)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}
	return &pdftoppmDoc{path: path, pageCount: pageCount}, nil
}

func (d *pdftoppmDoc) PageCount() int {
	return d.pageCount
}

func (d *pdftoppmDoc) RenderPage(ctx context.Context, pageNum, dpi int) ([]byte, error) {
	if dpi <= 0 {
		dpi = 300
	}

	tmpDir, err := os.MkdirTemp("", "rollscan-page-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	outputPrefix := filepath.Join(tmpDir, "page")

	// -singlefile drops the page-number suffix so the output path is
	// predictable: <prefix>.png
	pageStr := fmt.Sprintf("%d", pageNum)
	cmd := exec.CommandContext(ctx, "pdftoppm",
		"-png",
		"-f", pageStr,
		"-l", pageStr,
		"-r", fmt.Sprintf("%d", dpi),
		"-singlefile",
		d.path,
		outputPrefix,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w (output: %s)", err, string(output))
	}

	data, err := os.ReadFile(outputPrefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("pdftoppm did not create expected output: %w", err)
	}
	return data, nil
}

func (d *pdftoppmDoc) Close() error {
	return nil
}
