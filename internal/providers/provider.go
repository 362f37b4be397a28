// Package providers holds the external capability boundaries: OCR engines
// that turn images into raw text, and LLM clients that turn raw text into
// structured records. Both are narrow adapters; all parsing tolerance lives
// downstream in internal/parse, never here.
package providers

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable marks a transport-level failure (service down,
	// connection refused). Distinct from an empty-content response.
	ErrUnavailable = errors.New("provider unavailable")

	// ErrEmptyResponse marks a reply that carried no content. Treated as
	// transient by the orchestrator's retry policy.
	ErrEmptyResponse = errors.New("empty response")
)

// OCRProvider extracts raw text from a page or segment image. An empty
// string with a nil error means the image genuinely contains no text;
// unavailability is always an error.
type OCRProvider interface {
	// Name returns the provider identifier (e.g., "tesseract").
	Name() string

	// ExtractText runs OCR over a PNG/JPEG image.
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// LLMClient sends a completion request to a chat model. The pipeline uses
// it to structure OCR text into the record schema.
type LLMClient interface {
	// Name returns the client identifier (e.g., "openai").
	Name() string

	// Complete sends a single-turn completion request and returns the
	// model's text response.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest is a single-turn request to an LLM.
type CompletionRequest struct {
	Prompt      string
	Model       string  // uses the client default when empty
	Temperature float64 // 0 for deterministic parsing
}
