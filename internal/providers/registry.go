package providers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/arvindh/rollscan/internal/config"
)

// Registry holds the configured OCR provider and LLM client for a run.
type Registry struct {
	ocr    OCRProvider
	llm    LLMClient
	logger *slog.Logger
}

// NewRegistry instantiates providers from configuration.
func NewRegistry(cfg *config.Config, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{logger: logger}

	switch cfg.OCR.Type {
	case "tesseract", "":
		r.ocr = NewTesseractOCR(TesseractConfig{Languages: cfg.OCR.Languages})
	case "mock":
		r.ocr = NewMockOCR()
	default:
		return nil, fmt.Errorf("unknown ocr provider type: %s", cfg.OCR.Type)
	}

	switch cfg.LLM.Type {
	case "openai", "":
		r.llm = NewOpenAIClient(OpenAIConfig{
			APIKey:  cfg.ResolveLLMAPIKey(),
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		})
	case "mock":
		r.llm = NewMockLLM()
	default:
		return nil, fmt.Errorf("unknown llm client type: %s", cfg.LLM.Type)
	}

	logger.Info("providers configured",
		"ocr", r.ocr.Name(),
		"llm", r.llm.Name(),
		"llm_model", cfg.LLM.Model,
	)
	return r, nil
}

// OCR returns the configured OCR provider.
func (r *Registry) OCR() OCRProvider { return r.ocr }

// LLM returns the configured LLM client.
func (r *Registry) LLM() LLMClient { return r.llm }
