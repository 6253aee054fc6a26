package alert

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteLedger persists fired records so restarts within a day don't
// re-fire alerts.
type SQLiteLedger struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteLedger opens (or creates) the ledger table in the given SQLite
// database file.
func NewSQLiteLedger(dbPath string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS alert_fired (
		rule_id TEXT NOT NULL,
		day     TEXT NOT NULL,
		PRIMARY KEY (rule_id, day)
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteLedger{db: db}, nil
}

func (l *SQLiteLedger) WasFired(ruleID, day string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var one int
	err := l.db.QueryRow(`SELECT 1 FROM alert_fired WHERE rule_id = ? AND day = ?`, ruleID, day).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (l *SQLiteLedger) MarkFired(ruleID, day string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.Exec(`INSERT OR IGNORE INTO alert_fired (rule_id, day) VALUES (?, ?)`, ruleID, day)
	return err
}

func (l *SQLiteLedger) Prune(before string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.Exec(`DELETE FROM alert_fired WHERE day < ?`, before)
	return err
}

func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}
