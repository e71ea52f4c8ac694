// Package batch splits large symbol universes into fixed-size windows for
// paged upstream requests and tracks progress of long-running downloads.
package batch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Batch size limits. The upstream bulk-fundamentals endpoint caps a single
// request at 1000 symbols.
const (
	DefaultSize = 200
	MinSize     = 1
	MaxSize     = 1000
)

// Common batch errors.
var (
	ErrInvalidSize = errors.New("batch size must be between 1 and 1000")
	ErrNilCallback = errors.New("batch callback cannot be nil")
	ErrEmptyItems  = errors.New("items slice cannot be empty")
)

// Callback processes one window of items. offset is the absolute index of
// the window's first item within the full slice, which doubles as the
// upstream pagination offset.
type Callback[T any] func(ctx context.Context, window []T, offset int) error

// Processor pages a slice through a callback in fixed-size windows.
type Processor[T any] struct {
	size int
}

// NewProcessor creates a processor with the given window size.
func NewProcessor[T any](size int) (*Processor[T], error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	return &Processor[T]{size: size}, nil
}

// Size returns the configured window size.
func (p *Processor[T]) Size() int {
	return p.size
}

// Process walks items window by window, stopping at the first callback error
// or context cancellation.
func (p *Processor[T]) Process(ctx context.Context, items []T, callback Callback[T]) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}
	if callback == nil {
		return ErrNilCallback
	}

	for offset := 0; offset < len(items); offset += p.size {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		end := offset + p.size
		if end > len(items) {
			end = len(items)
		}

		if err := callback(ctx, items[offset:end], offset); err != nil {
			return fmt.Errorf("batch at offset %d failed: %w", offset, err)
		}
	}

	return nil
}

// ProcessConcurrent runs the windows through the callback with at most
// workers in flight. Window order is not guaranteed; callbacks that share
// state must synchronize it themselves. The first error cancels the
// remaining windows.
func (p *Processor[T]) ProcessConcurrent(ctx context.Context, items []T, workers int, callback Callback[T]) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}
	if callback == nil {
		return ErrNilCallback
	}
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for offset := 0; offset < len(items); offset += p.size {
		end := offset + p.size
		if end > len(items) {
			end = len(items)
		}

		window := items[offset:end]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := callback(ctx, window, offset); err != nil {
				return fmt.Errorf("batch at offset %d failed: %w", offset, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// Offsets returns the pagination offsets Process would visit for a universe
// of n items.
func (p *Processor[T]) Offsets(n int) []int {
	if n <= 0 {
		return nil
	}
	offsets := make([]int, 0, (n+p.size-1)/p.size)
	for offset := 0; offset < n; offset += p.size {
		offsets = append(offsets, offset)
	}
	return offsets
}
