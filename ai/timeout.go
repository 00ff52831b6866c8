package ai

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// TimeoutEmbedder bounds every call to an underlying Embedder with a deadline.
// A call that runs past the deadline fails with ErrEmbeddingTimeout.
type TimeoutEmbedder struct {
	next    Embedder
	timeout time.Duration
}

var _ Embedder = (*TimeoutEmbedder)(nil)

// NewTimeoutEmbedder wraps next. A zero or negative timeout returns next unchanged.
func NewTimeoutEmbedder(next Embedder, timeout time.Duration) Embedder {
	if timeout <= 0 {
		return next
	}
	return &TimeoutEmbedder{next: next, timeout: timeout}
}

// EmbedText embeds a single text within the deadline.
func (t *TimeoutEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	err := t.run(ctx, func(ctx context.Context) error {
		var err error
		out, err = t.next.EmbedText(ctx, text)
		return err
	})
	return out, err
}

// EmbedTexts embeds a batch within the deadline.
func (t *TimeoutEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	err := t.run(ctx, func(ctx context.Context) error {
		var err error
		out, err = t.next.EmbedTexts(ctx, texts)
		return err
	})
	return out, err
}

// run executes fn under a derived deadline. The result of fn is abandoned
// if the deadline fires first; providers are expected to honor ctx.
func (t *TimeoutEmbedder) run(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
	}()

	select {
	case err := <-done:
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %v: %w", ErrEmbeddingTimeout, t.timeout, err)
		}
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %v", ErrEmbeddingTimeout, t.timeout)
		}
		return ctx.Err()
	}
}
