package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"housing-agent/utils"
)

// PostgresStore keeps the seen-set in a seen_listings table. The whole table
// is read once at open; Save inserts only the urls recorded since the last save.
type PostgresStore struct {
	*seenSet
	db     *sql.DB
	logger *utils.Logger
}

// OpenPostgresStore connects to PostgreSQL and loads the seen-set. An
// unreachable database is logged and leaves the store empty; the failure then
// surfaces on Save. Only an invalid DSN is returned as an error.
func OpenPostgresStore(dsn string, logger *utils.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	ps := &PostgresStore{seenSet: newSeenSet(), db: db, logger: logger}

	if err := ps.ping(5, 2*time.Second); err != nil {
		logger.Error("[store] Postgres unreachable, starting with empty seen-set: %v", err)
		return ps, nil
	}
	if err := ps.migrate(); err != nil {
		logger.Error("[store] Postgres migrate failed, starting with empty seen-set: %v", err)
		return ps, nil
	}
	if err := ps.loadAll(); err != nil {
		logger.Error("[store] Error loading seen listings, treating as empty: %v", err)
		ps.seenSet = newSeenSet()
		return ps, nil
	}

	logger.Info("[store] Loaded %d seen listings from Postgres", ps.Len())
	return ps, nil
}

func (ps *PostgresStore) ping(attempts int, wait time.Duration) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = ps.db.Ping(); err == nil {
			return nil
		}
		time.Sleep(wait)
	}
	return fmt.Errorf("ping failed after %d attempts: %w", attempts, err)
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS seen_listings (
			url        TEXT        PRIMARY KEY,
			first_seen TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	return err
}

func (ps *PostgresStore) loadAll() error {
	rows, err := ps.db.Query(`SELECT url, first_seen FROM seen_listings`)
	if err != nil {
		return fmt.Errorf("postgres: fetch seen: %w", err)
	}
	defer rows.Close()

	ps.mu.Lock()
	defer ps.mu.Unlock()
	for rows.Next() {
		var (
			url string
			at  time.Time
		)
		if err := rows.Scan(&url, &at); err != nil {
			return fmt.Errorf("postgres: scan row: %w", err)
		}
		ps.seenSet.load(url, at.UTC())
	}
	return rows.Err()
}

// SetClock replaces the time source used for new records.
func (ps *PostgresStore) SetClock(now func() time.Time) { ps.now = now }

// Save inserts pending urls in one transaction. Rows that already exist keep
// their first_seen. Pending urls survive a failed Save.
func (ps *PostgresStore) Save() error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if len(ps.pending) == 0 {
		return nil
	}

	tx, err := ps.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(ps.pending); i += batchSize {
		end := min(i+batchSize, len(ps.pending))
		if err := ps.insertBatch(tx, ps.pending[i:end]); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}

	ps.logger.Info("[store] Saved %d new listings to state (total: %d)", len(ps.pending), len(ps.first))
	ps.pending = nil
	return nil
}

func (ps *PostgresStore) insertBatch(tx *sql.Tx, batch []string) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*2)

	for idx, url := range batch {
		base := idx * 2
		valueStrings = append(valueStrings, fmt.Sprintf("($%d,$%d)", base+1, base+2))
		valueArgs = append(valueArgs, url, ps.first[url])
	}

	query := fmt.Sprintf(`
		INSERT INTO seen_listings (url, first_seen)
		VALUES %s
		ON CONFLICT (url) DO NOTHING
	`, strings.Join(valueStrings, ","))

	if _, err := tx.Exec(query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert seen: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
