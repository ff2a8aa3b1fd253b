// Package watcher keeps the index current while the engine runs by
// turning raw filesystem events into debounced single-file updates.
//
// # Event Debouncing
//
// Raw events collapse into a per-path pending map where the last
// action wins:
//
//	Create, Write   -> ActionIndex
//	Remove, Rename  -> ActionRemove
//
// A Remove followed by an Index within one window nets out to a
// re-index; an Index followed by a Remove nets out to a removal. A
// background tick (1 s) drains the map, applies removals first, then
// re-indexes changed files through the same stale-check + parse +
// hash path the scanner uses, and commits at most once per tick.
// Committing per event instead of per window is what crushed the
// throughput of earlier designs.
//
// # Basic Usage
//
//	w := watcher.New(sc, cat, ix, logger)
//	go w.Run(ctx)
//
//	if err := w.UpdateWatchList([]string{"/home/user/docs"}); err != nil {
//	    log.Warn("watch failed", zap.Error(err))
//	}
//
// UpdateWatchList replaces the watch set atomically; an empty list
// drops the native watcher entirely. Run exits when the context is
// cancelled, after one final tick so queued work is committed.
//
// # Recursive Watches
//
// The underlying notifier (fsnotify) is not recursive, so a watch is
// registered for every subdirectory of each root at UpdateWatchList
// time. Directories created while watching are added on their Create
// event and their existing contents are queued for indexing, since
// files may land before the watch is in place.
//
// # Failure Semantics
//
// The watcher never dies: notifier errors, stale-check failures,
// batch failures, and commit failures are all logged and the loop
// keeps running. Files the catalog reports unchanged are dropped
// before parsing, so editors that fire spurious Write events cost
// nothing but a stat and a catalog read.
package watcher
