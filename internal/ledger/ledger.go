// Package ledger persists the identifiers of postings already reported, so a
// posting is reported at most once across runs.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"iisempleos/internal/config"
)

// Ledger is the seen-postings set. A run loads it once, checks and adds ids
// in memory, and persists once at the end; runs are sequential so there is
// no cross-process coordination.
type Ledger interface {
	Contains(id string) bool
	// Add records id with its first-seen time. Re-adding is a no-op.
	Add(id string, firstSeen time.Time)
	Len() int
	// Persist writes the whole ledger. Failure here is fatal for the run:
	// losing the set would re-report everything next time.
	Persist() error
	Close() error
}

// Open builds the backend selected in the config and loads existing state.
// A missing file or database on first run is an empty ledger, not an error.
func Open(cfg config.Ledger) (Ledger, error) {
	switch cfg.Backend {
	case "sqlite":
		return OpenSQLite(cfg.Path, retention(cfg))
	default:
		return OpenJSON(cfg.Path, retention(cfg))
	}
}

func retention(cfg config.Ledger) time.Duration {
	return time.Duration(cfg.RetentionDays) * 24 * time.Hour
}

type entry struct {
	ID        string    `json:"id"`
	FirstSeen time.Time `json:"first_seen"`
}

// JSONLedger keeps the seen set in a single JSON file.
type JSONLedger struct {
	mu   sync.Mutex
	path string
	seen map[string]time.Time
}

// OpenJSON loads the ledger file at path. Entries older than retention are
// dropped at load time; retention zero keeps everything.
func OpenJSON(path string, retention time.Duration) (*JSONLedger, error) {
	l := &JSONLedger{
		path: path,
		seen: make(map[string]time.Time),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse ledger: %w", err)
	}

	cutoff := time.Time{}
	if retention > 0 {
		cutoff = time.Now().Add(-retention)
	}
	for _, e := range entries {
		if e.FirstSeen.Before(cutoff) {
			continue
		}
		l.seen[e.ID] = e.FirstSeen
	}
	return l, nil
}

func (l *JSONLedger) Contains(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[id]
	return ok
}

func (l *JSONLedger) Add(id string, firstSeen time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.seen[id]; ok {
		return
	}
	l.seen[id] = firstSeen
}

func (l *JSONLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}

func (l *JSONLedger) Persist() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]entry, 0, len(l.seen))
	for id, ts := range l.seen {
		entries = append(entries, entry{ID: id, FirstSeen: ts})
	}
	// Stable on-disk order keeps the file diffable between runs.
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create ledger dir: %w", err)
		}
	}
	if err := os.WriteFile(l.path, data, 0644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}

func (l *JSONLedger) Close() error { return nil }
