package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/arvindh/rollscan/internal/providers"
)

// isTransient reports whether an OCR/LLM failure is worth retrying.
// Parse and validation failures are deterministic given the same output
// and never come through here.
func isTransient(err error) bool {
	return errors.Is(err, providers.ErrUnavailable) ||
		errors.Is(err, providers.ErrEmptyResponse) ||
		errors.Is(err, context.DeadlineExceeded)
}

// ocrWithRetry runs OCR with the configured bounded retry on transient
// failures.
func (o *Orchestrator) ocrWithRetry(ctx context.Context, image []byte) (string, error) {
	return retry.DoWithData(
		func() (string, error) {
			return o.ocr.ExtractText(ctx, image)
		},
		o.retryOpts(ctx)...,
	)
}

// completeWithRetry runs an LLM completion with the same policy. At the
// default temperature of 0 the parse call is deterministic, so a retry only
// helps against transport failures and empty responses.
func (o *Orchestrator) completeWithRetry(ctx context.Context, prompt string) (string, error) {
	return retry.DoWithData(
		func() (string, error) {
			return o.llm.Complete(ctx, providers.CompletionRequest{
				Prompt:      prompt,
				Temperature: o.opts.Temperature,
			})
		},
		o.retryOpts(ctx)...,
	)
}

func (o *Orchestrator) retryOpts(ctx context.Context) []retry.Option {
	maxRetries := o.currentKnobs().maxRetries
	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(uint(maxRetries) + 1),
		retry.Delay(500 * time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(isTransient),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			o.logger.Warn("transient provider failure, retrying",
				"attempt", attempt+1,
				"max_attempts", maxRetries+1,
				"error", err,
			)
		}),
	}
}
