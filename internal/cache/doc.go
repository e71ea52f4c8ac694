// Package cache provides file-based caching of downloaded datasets with a
// day-granular staleness policy.
//
// Each dataset (exchange list, symbol list, historical series, fundamentals)
// maps to a directory derived deterministically from its request parameters,
// and every successful download is written as a dated snapshot below it:
//
//	base/<dataset>/<params...>/<YYYYMMDD>/<dataset>_<YYYYMMDD>.<ext>
//
// A lookup walks the snapshot dates and returns the newest one that falls
// inside the caller's staleness window; anything older is superseded by a
// fresh download, never deleted. Stale snapshots accumulate on disk by
// design so historical as-of views stay reproducible.
package cache
