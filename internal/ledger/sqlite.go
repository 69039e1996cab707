package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS seen_postings (
	id         TEXT PRIMARY KEY,
	first_seen TEXT NOT NULL
);`

// SQLiteLedger stores seen ids in a SQLite file. The whole set is loaded at
// open so Contains stays an in-memory lookup like the JSON backend.
type SQLiteLedger struct {
	mu      sync.Mutex
	db      *sql.DB
	seen    map[string]time.Time
	pending map[string]time.Time
}

func OpenSQLite(path string, retention time.Duration) (*SQLiteLedger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create ledger dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply ledger schema: %w", err)
	}

	l := &SQLiteLedger{
		db:      db,
		seen:    make(map[string]time.Time),
		pending: make(map[string]time.Time),
	}

	if retention > 0 {
		cutoff := time.Now().Add(-retention).UTC().Format(time.RFC3339)
		if _, err := db.Exec(`DELETE FROM seen_postings WHERE first_seen < ?`, cutoff); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("prune ledger: %w", err)
		}
	}

	rows, err := db.Query(`SELECT id, first_seen FROM seen_postings`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, ts string
		if err := rows.Scan(&id, &ts); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		firstSeen, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			// A mangled timestamp should not lose the suppression.
			firstSeen = time.Now()
		}
		l.seen[id] = firstSeen
	}
	if err := rows.Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return l, nil
}

func (l *SQLiteLedger) Contains(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[id]
	return ok
}

func (l *SQLiteLedger) Add(id string, firstSeen time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.seen[id]; ok {
		return
	}
	l.seen[id] = firstSeen
	l.pending[id] = firstSeen
}

func (l *SQLiteLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}

func (l *SQLiteLedger) Persist() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.pending) == 0 {
		return nil
	}

	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO seen_postings(id, first_seen) VALUES(?, ?) ON CONFLICT(id) DO NOTHING`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare ledger insert: %w", err)
	}
	defer stmt.Close()

	for id, ts := range l.pending {
		if _, err := stmt.Exec(id, ts.UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert ledger entry: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger: %w", err)
	}
	l.pending = make(map[string]time.Time)
	return nil
}

func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}
