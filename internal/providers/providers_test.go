package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/arvindh/rollscan/internal/config"
)

func TestMockOCR(t *testing.T) {
	ctx := context.Background()

	t.Run("serves responses in order", func(t *testing.T) {
		m := NewMockOCR("first", "second")
		got1, _ := m.ExtractText(ctx, nil)
		got2, _ := m.ExtractText(ctx, nil)
		got3, _ := m.ExtractText(ctx, nil)
		if got1 != "first" || got2 != "second" || got3 != "second" {
			t.Errorf("unexpected sequence: %q %q %q", got1, got2, got3)
		}
		if m.Calls() != 3 {
			t.Errorf("expected 3 calls, got %d", m.Calls())
		}
	})

	t.Run("fails first N then recovers", func(t *testing.T) {
		m := NewMockOCR("ok")
		m.Err = ErrUnavailable
		m.FailFirstN = 2

		if _, err := m.ExtractText(ctx, nil); !errors.Is(err, ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", err)
		}
		if _, err := m.ExtractText(ctx, nil); !errors.Is(err, ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", err)
		}
		got, err := m.ExtractText(ctx, nil)
		if err != nil || got != "ok" {
			t.Errorf("expected recovery, got %q %v", got, err)
		}
	})
}

func TestMockLLM(t *testing.T) {
	ctx := context.Background()

	t.Run("empty script is an empty response", func(t *testing.T) {
		m := NewMockLLM()
		if _, err := m.Complete(ctx, CompletionRequest{Prompt: "parse"}); !errors.Is(err, ErrEmptyResponse) {
			t.Errorf("expected ErrEmptyResponse, got %v", err)
		}
	})

	t.Run("hook overrides script", func(t *testing.T) {
		m := NewMockLLM("scripted")
		m.Fn = func(req CompletionRequest) (string, error) {
			return "hooked: " + req.Prompt, nil
		}
		got, err := m.Complete(ctx, CompletionRequest{Prompt: "x"})
		if err != nil || got != "hooked: x" {
			t.Errorf("expected hook response, got %q %v", got, err)
		}
	})
}

func TestNewRegistry(t *testing.T) {
	t.Run("mock providers", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.OCR.Type = "mock"
		cfg.LLM.Type = "mock"

		r, err := NewRegistry(cfg, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.OCR().Name() != MockName || r.LLM().Name() != MockName {
			t.Errorf("expected mock providers, got %s/%s", r.OCR().Name(), r.LLM().Name())
		}
	})

	t.Run("default types", func(t *testing.T) {
		cfg := config.DefaultConfig()
		r, err := NewRegistry(cfg, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.OCR().Name() != TesseractName {
			t.Errorf("expected tesseract, got %s", r.OCR().Name())
		}
		if r.LLM().Name() != OpenAIName {
			t.Errorf("expected openai, got %s", r.LLM().Name())
		}
	})

	t.Run("unknown type is an error", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.OCR.Type = "carrier-pigeon"
		if _, err := NewRegistry(cfg, nil); err == nil {
			t.Error("expected error for unknown provider type")
		}
	})
}
