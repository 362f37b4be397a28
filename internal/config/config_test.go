package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Database.URL != "voter_data.db" {
		t.Errorf("expected sqlite default, got %s", cfg.Database.URL)
	}
	if cfg.Pipeline.SegmentRows != 10 {
		t.Errorf("expected segment_rows 10, got %d", cfg.Pipeline.SegmentRows)
	}
	if cfg.Pipeline.MaxRetries != 2 {
		t.Errorf("expected max_retries 2, got %d", cfg.Pipeline.MaxRetries)
	}
	if cfg.Raster.DPI != 300 {
		t.Errorf("expected dpi 300, got %d", cfg.Raster.DPI)
	}
	if cfg.LLM.Temperature != 0 {
		t.Errorf("expected deterministic LLM temperature, got %v", cfg.LLM.Temperature)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		os.Setenv("TEST_API_KEY", "secret123")
		defer os.Unsetenv("TEST_API_KEY")

		result := ResolveEnvVars("${TEST_API_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestResolveDatabaseURL(t *testing.T) {
	t.Run("DATABASE_URL overrides config", func(t *testing.T) {
		os.Setenv("DATABASE_URL", "postgres://db.example/voters")
		defer os.Unsetenv("DATABASE_URL")

		cfg := &Config{Database: DatabaseCfg{URL: "voter_data.db"}}
		if got := cfg.ResolveDatabaseURL(); got != "postgres://db.example/voters" {
			t.Errorf("expected env override, got %s", got)
		}
	})

	t.Run("falls back to configured value", func(t *testing.T) {
		cfg := &Config{Database: DatabaseCfg{URL: "voter_data.db"}}
		if got := cfg.ResolveDatabaseURL(); got != "voter_data.db" {
			t.Errorf("expected voter_data.db, got %s", got)
		}
	})
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")

		configContent := `
database:
  url: "test.db"
pipeline:
  segment_rows: 5
`
		if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.Database.URL != "test.db" {
			t.Errorf("expected test.db, got %s", cfg.Database.URL)
		}
		if cfg.Pipeline.SegmentRows != 5 {
			t.Errorf("expected segment_rows 5, got %d", cfg.Pipeline.SegmentRows)
		}
		// Unset keys keep defaults.
		if cfg.Pipeline.MaxRetries != 2 {
			t.Errorf("expected default max_retries 2, got %d", cfg.Pipeline.MaxRetries)
		}
	})
}

func TestWriteDefault(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("failed to write default config: %v", err)
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("failed to load written config: %v", err)
	}
	if mgr.Get().LLM.Model != "llama3.2:3b" {
		t.Errorf("round-tripped config lost llm model: %s", mgr.Get().LLM.Model)
	}
}
