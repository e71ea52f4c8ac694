package batch

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProcessorSizeBounds(t *testing.T) {
	_, err := NewProcessor[int](0)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = NewProcessor[int](MaxSize + 1)
	assert.ErrorIs(t, err, ErrInvalidSize)

	proc, err := NewProcessor[int](DefaultSize)
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, proc.Size())
}

func TestProcessWindowsAndOffsets(t *testing.T) {
	proc, err := NewProcessor[int](3)
	require.NoError(t, err)

	items := []int{0, 1, 2, 3, 4, 5, 6}
	var offsets []int
	var sizes []int

	err = proc.Process(context.Background(), items, func(_ context.Context, window []int, offset int) error {
		offsets = append(offsets, offset)
		sizes = append(sizes, len(window))
		assert.Equal(t, offset, window[0], "window starts at its absolute offset")
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 3, 6}, offsets)
	assert.Equal(t, []int{3, 3, 1}, sizes, "last window is the remainder")
}

func TestProcessEmptyItems(t *testing.T) {
	proc, err := NewProcessor[string](10)
	require.NoError(t, err)

	err = proc.Process(context.Background(), nil, func(context.Context, []string, int) error { return nil })
	assert.ErrorIs(t, err, ErrEmptyItems)
}

func TestProcessNilCallback(t *testing.T) {
	proc, err := NewProcessor[string](10)
	require.NoError(t, err)

	err = proc.Process(context.Background(), []string{"a"}, nil)
	assert.ErrorIs(t, err, ErrNilCallback)
}

func TestProcessStopsOnCallbackError(t *testing.T) {
	proc, err := NewProcessor[int](2)
	require.NoError(t, err)

	boom := errors.New("boom")
	calls := 0
	err = proc.Process(context.Background(), []int{0, 1, 2, 3, 4, 5}, func(_ context.Context, _ []int, offset int) error {
		calls++
		if offset == 2 {
			return boom
		}
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "offset 2")
	assert.Equal(t, 2, calls, "no windows after the failing one")
}

func TestProcessHonorsContextCancellation(t *testing.T) {
	proc, err := NewProcessor[int](1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err = proc.Process(ctx, []int{0, 1, 2}, func(_ context.Context, _ []int, _ int) error {
		calls++
		cancel()
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestProcessConcurrentVisitsEveryWindow(t *testing.T) {
	proc, err := NewProcessor[int](2)
	require.NoError(t, err)

	items := []int{0, 1, 2, 3, 4}
	var mu sync.Mutex
	var offsets []int

	err = proc.ProcessConcurrent(context.Background(), items, 3, func(_ context.Context, window []int, offset int) error {
		mu.Lock()
		defer mu.Unlock()
		offsets = append(offsets, offset)
		assert.Equal(t, offset, window[0])
		return nil
	})
	require.NoError(t, err)

	sort.Ints(offsets)
	assert.Equal(t, []int{0, 2, 4}, offsets)
}

func TestProcessConcurrentPropagatesError(t *testing.T) {
	proc, err := NewProcessor[int](1)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = proc.ProcessConcurrent(context.Background(), []int{0, 1, 2}, 2, func(_ context.Context, _ []int, offset int) error {
		if offset == 1 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestOffsets(t *testing.T) {
	proc, err := NewProcessor[int](200)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 200, 400}, proc.Offsets(500))
	assert.Equal(t, []int{0}, proc.Offsets(200))
	assert.Nil(t, proc.Offsets(0))
}

func TestProgress(t *testing.T) {
	p := NewProgress(4)
	assert.Equal(t, 4, p.Total())
	assert.Equal(t, 0.0, p.PercentComplete())

	p.Add(false)
	p.Add(true)

	assert.Equal(t, 2, p.Processed())
	assert.Equal(t, 1, p.Failed())
	assert.InDelta(t, 50.0, p.PercentComplete(), 0.001)
	assert.GreaterOrEqual(t, p.Elapsed().Nanoseconds(), int64(0))
}
