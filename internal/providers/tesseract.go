package providers

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

const TesseractName = "tesseract"

// TesseractConfig holds configuration for the Tesseract OCR provider.
type TesseractConfig struct {
	Languages []string // e.g. ["eng", "tam"]; defaults to ["eng"]
}

// TesseractOCR implements OCRProvider over a local Tesseract install via
// gosseract. A fresh client per call keeps the provider safe for reuse;
// Tesseract clients are not concurrency-safe.
type TesseractOCR struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// NewTesseractOCR creates a Tesseract-backed OCR provider.
func NewTesseractOCR(cfg TesseractConfig) *TesseractOCR {
	langs := cfg.Languages
	if len(langs) == 0 {
		langs = []string{"eng"}
	}
	return &TesseractOCR{
		languages:     langs,
		clientFactory: gosseract.NewClient,
	}
}

// Name returns the provider identifier.
func (t *TesseractOCR) Name() string {
	return TesseractName
}

// ExtractText runs Tesseract over the image and returns the raw text.
func (t *TesseractOCR) ExtractText(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := t.clientFactory()
	defer client.Close()

	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	if err := client.SetLanguage(t.languages...); err != nil {
		return "", fmt.Errorf("failed to set languages: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("%w: tesseract: %v", ErrUnavailable, err)
	}
	return text, nil
}
