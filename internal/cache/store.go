package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Common cache errors.
var (
	ErrNotCached = errors.New("no cache entry within staleness window")
	ErrEmptyBase = errors.New("cache base directory cannot be empty")
)

// Snapshot is one dated cache entry for a dataset.
type Snapshot struct {
	Ref  Ref
	Date time.Time
	Path string
}

// Age returns how many whole days old the snapshot is relative to asOf.
func (s Snapshot) Age(asOf time.Time) int {
	return int(truncateDay(asOf).Sub(s.Date).Hours() / 24)
}

// Store reads and writes dataset snapshots below a base directory.
// Thread-safe for concurrent use; two concurrent writers for the same
// request converge on the same path and the last write wins.
type Store struct {
	base   string
	logger zerolog.Logger

	// mu protects concurrent access to file operations.
	mu sync.RWMutex
}

// StoreOption configures the Store.
type StoreOption func(*Store)

// WithLogger sets a logger.
func WithLogger(logger zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a snapshot store rooted at base. The directory is created
// if it does not exist.
func NewStore(base string, opts ...StoreOption) (*Store, error) {
	if base == "" {
		return nil, ErrEmptyBase
	}

	if err := os.MkdirAll(base, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	s := &Store{
		base:   base,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Base returns the store's base directory.
func (s *Store) Base() string {
	return s.base
}

// Find returns the newest snapshot for ref whose date lies inside
// [asOf-staleDays, asOf]. A zero asOf means today. Returns ErrNotCached when
// no snapshot falls inside the window, whether because nothing was ever
// cached or because everything cached is too old.
func (s *Store) Find(ref Ref, asOf time.Time, staleDays int) (Snapshot, error) {
	if err := ref.Validate(); err != nil {
		return Snapshot{}, err
	}

	asOf = defaultAsOf(asOf)
	oldest := asOf.AddDate(0, 0, -staleDays)

	s.mu.RLock()
	defer s.mu.RUnlock()

	dates, err := s.snapshotDates(ref)
	if err != nil {
		return Snapshot{}, err
	}

	var target time.Time
	for _, date := range dates {
		if date.After(asOf) {
			break
		}
		if !date.Before(oldest) {
			target = date
		}
	}
	if target.IsZero() {
		return Snapshot{}, ErrNotCached
	}

	return Snapshot{Ref: ref, Date: target, Path: ref.Path(s.base, target)}, nil
}

// Snapshots lists every snapshot cached for ref, oldest first.
func (s *Store) Snapshots(ref Ref) ([]Snapshot, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	dates, err := s.snapshotDates(ref)
	if err != nil {
		return nil, err
	}

	snaps := make([]Snapshot, 0, len(dates))
	for _, date := range dates {
		snaps = append(snaps, Snapshot{Ref: ref, Date: date, Path: ref.Path(s.base, date)})
	}
	return snaps, nil
}

// Read returns the contents of a snapshot.
func (s *Store) Read(snap Snapshot) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(snap.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	return data, nil
}

// Write stores data as the snapshot of ref for the asOf date (today when
// zero), overwriting any existing snapshot for that date. The write goes to
// a temporary file first and is renamed into place for atomicity.
func (s *Store) Write(ref Ref, asOf time.Time, data []byte) (Snapshot, error) {
	if err := ref.Validate(); err != nil {
		return Snapshot{}, err
	}

	asOf = defaultAsOf(asOf)

	s.mu.Lock()
	defer s.mu.Unlock()

	path := ref.Path(s.base, asOf)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return Snapshot{}, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return Snapshot{}, fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return Snapshot{}, fmt.Errorf("failed to rename cache file: %w", err)
	}

	s.logger.Debug().
		Str("kind", string(ref.Kind)).
		Str("path", path).
		Int("bytes", len(data)).
		Msg("cached snapshot")

	return Snapshot{Ref: ref, Date: asOf, Path: path}, nil
}

// Stats reports the number of snapshot files and their total size in bytes
// across the whole cache tree.
func (s *Store) Stats() (int, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	var size int64
	err := filepath.WalkDir(s.base, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return nil // Skip files we can't stat
		}
		count++
		size += info.Size()
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to walk cache directory: %w", err)
	}
	return count, size, nil
}

// RemoveEmptyDirs prunes empty directories left below the base path, for
// example after an interrupted download created a snapshot directory but no
// file. Returns the number of directories removed.
func (s *Store) RemoveEmptyDirs() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	// Repeat until a pass removes nothing, so directories that become empty
	// by a previous removal get cleaned up too.
	for {
		n, err := s.removeEmptyDirsOnce()
		if err != nil {
			return removed, err
		}
		removed += n
		if n == 0 {
			return removed, nil
		}
	}
}

func (s *Store) removeEmptyDirsOnce() (int, error) {
	var empty []string
	err := filepath.WalkDir(s.base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == s.base {
			return nil
		}
		entries, readErr := os.ReadDir(path)
		if readErr != nil {
			return readErr
		}
		if len(entries) == 0 {
			empty = append(empty, path)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to walk cache directory: %w", err)
	}

	for _, dir := range empty {
		if err := os.Remove(dir); err != nil {
			return 0, fmt.Errorf("failed to remove empty directory %s: %w", dir, err)
		}
	}
	return len(empty), nil
}

// snapshotDates lists the parseable snapshot date directories for ref,
// sorted ascending. A missing dataset directory is not an error; it simply
// yields no dates. Callers must hold at least a read lock.
func (s *Store) snapshotDates(ref Ref) ([]time.Time, error) {
	entries, err := os.ReadDir(ref.Dir(s.base))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read dataset directory: %w", err)
	}

	dates := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		date, parseErr := time.Parse(SnapshotDateLayout, entry.Name())
		if parseErr != nil {
			continue // Skip directories that are not snapshot dates
		}
		// Only count the date when the snapshot file actually exists.
		if _, statErr := os.Stat(ref.Path(s.base, date)); statErr != nil {
			continue
		}
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// defaultAsOf substitutes today for a zero as-of date and truncates to
// day granularity.
func defaultAsOf(asOf time.Time) time.Time {
	if asOf.IsZero() {
		asOf = time.Now()
	}
	return truncateDay(asOf)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
