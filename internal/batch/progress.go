package batch

import (
	"sync"
	"time"
)

// Progress tracks a long-running download across many symbols.
// Thread-safe; worker goroutines call Add concurrently.
type Progress struct {
	total     int
	processed int
	failed    int
	start     time.Time

	mu sync.RWMutex
}

// NewProgress creates a progress tracker for total items.
func NewProgress(total int) *Progress {
	return &Progress{
		total: total,
		start: time.Now(),
	}
}

// Add records one completed item. failed marks it as unsuccessful.
func (p *Progress) Add(failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processed++
	if failed {
		p.failed++
	}
}

// Total returns the number of items to process.
func (p *Progress) Total() int {
	return p.total
}

// Processed returns the number of items completed so far.
func (p *Progress) Processed() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.processed
}

// Failed returns the number of items that completed with an error.
func (p *Progress) Failed() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.failed
}

// PercentComplete returns the completion percentage (0-100).
func (p *Progress) PercentComplete() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.total == 0 {
		return 0
	}
	return float64(p.processed) / float64(p.total) * 100
}

// Elapsed returns the time since the tracker was created.
func (p *Progress) Elapsed() time.Duration {
	return time.Since(p.start)
}

// ItemsPerSecond returns the processing rate.
func (p *Progress) ItemsPerSecond() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	elapsed := time.Since(p.start).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(p.processed) / elapsed
}
