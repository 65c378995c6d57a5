// Package history is the bounded, most-recent-first log of visited pages.
package history

import (
	"time"

	"github.com/lotas/fenster/internal/applog"
	"github.com/lotas/fenster/internal/storage"
	"github.com/lotas/fenster/internal/types"
)

const storageKey = "browsingHistory"

// DefaultMax is the retention cap; the oldest entries are evicted first.
const DefaultMax = 500

// Log holds history entries newest-first and writes through to durable
// storage on every mutation. All methods run on the UI goroutine.
type Log struct {
	kv      *storage.Store
	entries []types.HistoryEntry
	max     int
}

// NewLog loads history from kv. A read or parse failure is logged and the
// log starts empty. max <= 0 selects DefaultMax.
func NewLog(kv *storage.Store, max int) *Log {
	if max <= 0 {
		max = DefaultMax
	}
	l := &Log{kv: kv, max: max}
	if kv == nil {
		return l
	}

	var entries []types.HistoryEntry
	found, err := kv.Get(storageKey, &entries)
	if err != nil {
		applog.Error("history.load", err)
		return l
	}
	if found {
		if len(entries) > max {
			entries = entries[:max]
		}
		l.entries = entries
	}
	return l
}

// Entries returns the log newest-first. The returned slice is the log's
// own; callers must not mutate it.
func (l *Log) Entries() []types.HistoryEntry {
	return l.entries
}

// Record prepends a visit. A visit to the same URL as the most recent
// entry is suppressed; entries beyond the cap are evicted from the tail.
func (l *Log) Record(title, url string) {
	if url == "" {
		return
	}
	if len(l.entries) > 0 && l.entries[0].URL == url {
		return
	}

	entry := types.HistoryEntry{Title: title, URL: url, Timestamp: time.Now()}
	l.entries = append([]types.HistoryEntry{entry}, l.entries...)
	if len(l.entries) > l.max {
		l.entries = l.entries[:l.max]
	}
	l.persist()
}

// Clear removes all entries.
func (l *Log) Clear() {
	l.entries = nil
	l.persist()
}

func (l *Log) persist() {
	if l.kv == nil {
		return
	}
	if err := l.kv.Put(storageKey, l.entries); err != nil {
		applog.Error("history.persist", err)
	}
}
