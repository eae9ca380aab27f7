package memory

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS selector_stats (
	fingerprint  TEXT NOT NULL,
	role         TEXT NOT NULL,
	selector     TEXT NOT NULL,
	successes    INTEGER NOT NULL DEFAULT 0,
	failures     INTEGER NOT NULL DEFAULT 0,
	last_used    INTEGER NOT NULL DEFAULT 0,
	last_success INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (fingerprint, role, selector)
);`

// SQLiteStore is a Store backed by a SQLite file at the process boundary:
// statistics load once at open and flush back on demand. In between, all
// reads and writes hit the embedded in-memory store, so the hot path never
// touches the database.
type SQLiteStore struct {
	*Store
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the selector database at path and
// loads every persisted record into memory.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open selector db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create selector schema: %w", err)
	}

	s := &SQLiteStore{Store: New(), db: db}
	if err := s.loadAll(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) loadAll() error {
	rows, err := s.db.Query(`
		SELECT fingerprint, role, selector, successes, failures, last_used, last_success
		FROM selector_stats
		ORDER BY fingerprint, role, rowid`)
	if err != nil {
		return fmt.Errorf("load selector stats: %w", err)
	}
	defer rows.Close()

	type key struct{ fp, role string }
	grouped := make(map[key][]TargetStat)
	var order []key

	for rows.Next() {
		var k key
		var st TargetStat
		var used, success int64
		if err := rows.Scan(&k.fp, &k.role, &st.Selector, &st.Successes, &st.Failures, &used, &success); err != nil {
			return fmt.Errorf("scan selector stats: %w", err)
		}
		if used > 0 {
			st.LastUsed = time.Unix(0, used)
		}
		if success > 0 {
			st.LastSuccess = time.Unix(0, success)
		}
		if _, seen := grouped[k]; !seen {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], st)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load selector stats: %w", err)
	}

	for _, k := range order {
		s.Seed(k.fp, k.role, grouped[k])
	}
	return nil
}

// Flush writes every in-memory record back to the database in a single
// transaction, upserting by (fingerprint, role, selector).
func (s *SQLiteStore) Flush() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("flush selector stats: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO selector_stats
			(fingerprint, role, selector, successes, failures, last_used, last_success)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (fingerprint, role, selector) DO UPDATE SET
			successes = excluded.successes,
			failures = excluded.failures,
			last_used = excluded.last_used,
			last_success = excluded.last_success`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("flush selector stats: %w", err)
	}
	defer stmt.Close()

	var execErr error
	s.Walk(func(fp, role string, stats []TargetStat) {
		for _, st := range stats {
			var used, success int64
			if !st.LastUsed.IsZero() {
				used = st.LastUsed.UnixNano()
			}
			if !st.LastSuccess.IsZero() {
				success = st.LastSuccess.UnixNano()
			}
			if _, err := stmt.Exec(fp, role, st.Selector, st.Successes, st.Failures, used, success); err != nil && execErr == nil {
				execErr = err
			}
		}
	})
	if execErr != nil {
		tx.Rollback()
		return fmt.Errorf("flush selector stats: %w", execErr)
	}
	return tx.Commit()
}

// Close flushes pending statistics and closes the database.
func (s *SQLiteStore) Close() error {
	flushErr := s.Flush()
	if err := s.db.Close(); err != nil {
		return err
	}
	return flushErr
}
