package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/arvindh/rollscan/internal/cli"
	"github.com/arvindh/rollscan/internal/config"
	"github.com/arvindh/rollscan/internal/pipeline"
	"github.com/arvindh/rollscan/internal/providers"
	"github.com/arvindh/rollscan/internal/raster"
)

var (
	extractFrom        int
	extractTo          int
	extractSegmentRows int
	extractRetries     int
	extractDPI         int
	extractEngine      string
)

var extractCmd = &cobra.Command{
	Use:   "extract <document>",
	Short: "Run the extraction pipeline over a roll document",
	Long: `Extract processes a scanned electoral roll (PDF or single-page image)
page by page. Pages already marked COMPLETED in the extraction log are
skipped, so re-running after an interruption or a fix picks up exactly
where the previous run stopped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		cm, err := loadConfigManager()
		if err != nil {
			return err
		}
		cfg := cm.Get()

		homeDir, err := openHome()
		if err != nil {
			return err
		}

		st, err := openStore(cfg, logger)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Init(ctx); err != nil {
			return err
		}

		registry, err := providers.NewRegistry(cfg, logger)
		if err != nil {
			return err
		}

		engine := extractEngine
		if engine == "" {
			engine = cfg.Raster.Engine
		}
		doc, err := raster.Open(args[0], engine)
		if err != nil {
			return err
		}
		defer doc.Close()

		opts := pipeline.Options{
			DocumentPath: args[0],
			DPI:          cfg.Raster.DPI,
			FromPage:     extractFrom,
			ToPage:       extractTo,
			SegmentRows:  cfg.Pipeline.SegmentRows,
			MaxRetries:   cfg.Pipeline.MaxRetries,
			MinTextChars: cfg.Pipeline.MinTextChars,
			Temperature:  cfg.LLM.Temperature,
			RunID:        uuid.New().String(),
		}
		if cmd.Flags().Changed("dpi") {
			opts.DPI = extractDPI
		}
		if cmd.Flags().Changed("segment-rows") {
			opts.SegmentRows = extractSegmentRows
		}
		if cmd.Flags().Changed("retries") {
			opts.MaxRetries = extractRetries
		}

		orch := pipeline.New(st, doc, registry.OCR(), registry.LLM(), homeDir, logger, opts)

		// Config edits during a long run retune the page-loop knobs at the
		// next page boundary. Values pinned by a CLI flag stay pinned: the
		// sentinel tells Retune to keep the current value.
		cm.OnChange(func(c *config.Config) {
			segmentRows := c.Pipeline.SegmentRows
			if cmd.Flags().Changed("segment-rows") {
				segmentRows = 0
			}
			retries := c.Pipeline.MaxRetries
			if cmd.Flags().Changed("retries") {
				retries = -1
			}
			orch.Retune(segmentRows, retries, c.Pipeline.MinTextChars)
		})
		cm.WatchConfig()

		summary, runErr := orch.Run(ctx)

		// An interrupted run still has a partial summary worth showing;
		// the exit status reflects the error.
		if summary != nil {
			if outErr := cli.Output(summary); outErr != nil && runErr == nil {
				runErr = outErr
			}
		}
		if runErr != nil {
			return fmt.Errorf("extraction stopped: %w", runErr)
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().IntVar(&extractFrom, "from", 0, "first page to process (1-indexed)")
	extractCmd.Flags().IntVar(&extractTo, "to", 0, "last page to process (default: last page)")
	extractCmd.Flags().IntVar(&extractSegmentRows, "segment-rows", 0, "voter rows per OCR segment")
	extractCmd.Flags().IntVar(&extractRetries, "retries", 0, "retries for transient OCR/LLM failures")
	extractCmd.Flags().IntVar(&extractDPI, "dpi", 0, "rasterization DPI")
	extractCmd.Flags().StringVar(&extractEngine, "engine", "", "raster engine: fitz or pdftoppm")
}
