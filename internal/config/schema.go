package config

// Config holds rollscan configuration.
// Loaded from ./config.yaml or ~/.rollscan/config.yaml.
type Config struct {
	Database DatabaseCfg `mapstructure:"database" yaml:"database"`
	OCR      OCRCfg      `mapstructure:"ocr" yaml:"ocr"`
	LLM      LLMCfg      `mapstructure:"llm" yaml:"llm"`
	Raster   RasterCfg   `mapstructure:"raster" yaml:"raster"`
	Pipeline PipelineCfg `mapstructure:"pipeline" yaml:"pipeline"`
}

// DatabaseCfg selects the storage backend.
type DatabaseCfg struct {
	// URL is a postgres:// DSN or a SQLite file path.
	// Supports ${ENV_VAR} syntax.
	URL string `mapstructure:"url" yaml:"url"`
}

// OCRCfg configures the Tesseract OCR provider.
type OCRCfg struct {
	Type      string   `mapstructure:"type" yaml:"type"`           // "tesseract"
	Languages []string `mapstructure:"languages" yaml:"languages"` // e.g. ["eng", "tam"]
}

// LLMCfg configures the record-parsing LLM client.
type LLMCfg struct {
	Type           string  `mapstructure:"type" yaml:"type"`         // "openai"
	BaseURL        string  `mapstructure:"base_url" yaml:"base_url"` // OpenAI-compatible endpoint (Ollama: http://localhost:11434/v1)
	Model          string  `mapstructure:"model" yaml:"model"`
	APIKey         string  `mapstructure:"api_key" yaml:"api_key"` // supports ${ENV_VAR} syntax
	Temperature    float64 `mapstructure:"temperature" yaml:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// RasterCfg configures page rasterization.
type RasterCfg struct {
	Engine string `mapstructure:"engine" yaml:"engine"` // "fitz" or "pdftoppm"
	DPI    int    `mapstructure:"dpi" yaml:"dpi"`
}

// PipelineCfg holds page-loop defaults.
type PipelineCfg struct {
	SegmentRows  int `mapstructure:"segment_rows" yaml:"segment_rows"`     // voter rows per OCR segment
	MaxRetries   int `mapstructure:"max_retries" yaml:"max_retries"`       // retries for transient OCR/LLM failures
	MinTextChars int `mapstructure:"min_text_chars" yaml:"min_text_chars"` // below this, a page/segment counts as empty
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseCfg{
			URL: "voter_data.db",
		},
		OCR: OCRCfg{
			Type:      "tesseract",
			Languages: []string{"eng"},
		},
		LLM: LLMCfg{
			Type:           "openai",
			BaseURL:        "http://localhost:11434/v1",
			Model:          "llama3.2:3b",
			APIKey:         "${ROLLSCAN_LLM_API_KEY}",
			Temperature:    0,
			TimeoutSeconds: 120,
		},
		Raster: RasterCfg{
			Engine: "fitz",
			DPI:    300,
		},
		Pipeline: PipelineCfg{
			SegmentRows:  10,
			MaxRetries:   2,
			MinTextChars: 50,
		},
	}
}
