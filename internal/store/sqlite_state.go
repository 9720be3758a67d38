package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"vagas-cli/internal/model"

	_ "modernc.org/sqlite"
)

const (
	sqliteFileName = "vagas.sqlite"
	legacyFileName = "vagas.json"

	// stateKey is the single durable key. Its value is the JSON array of
	// wire-format listings in current collection order.
	stateKey = "vagasDataV1"
)

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

func (s Store) legacyPath() string {
	return filepath.Join(s.Dir, legacyFileName)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness when a CLI command runs while the
	// TUI is open.
	pragmas := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA busy_timeout=5000;`,
		`PRAGMA synchronous=NORMAL;`,
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS state (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL
	);`)
	return err
}

// loadSQLite loads the collection from the sqlite state. If the state row is
// absent but a legacy vagas.json exists, it imports the legacy file once and
// loads from sqlite afterwards. Corrupt or unreadable state degrades to an
// empty collection rather than failing startup.
func (s Store) loadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return &DB{Listings: []model.Listing{}}, err
	}
	defer db.Close()

	if err := migrateSQLiteState(ctx, db); err != nil {
		return &DB{Listings: []model.Listing{}}, err
	}

	var raw string
	err = db.QueryRowContext(ctx, `SELECT v FROM state WHERE k = ?`, stateKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		// One-time import from the legacy JSON file if present.
		if b, rerr := os.ReadFile(s.legacyPath()); rerr == nil && len(b) > 0 {
			var wire []model.WireListing
			if jerr := json.Unmarshal(b, &wire); jerr == nil {
				out := &DB{Listings: listingsFromWire(wire)}
				if serr := s.saveSQLiteConn(ctx, db, out); serr != nil {
					return out, serr
				}
				return out, nil
			}
		}
		return &DB{Listings: []model.Listing{}}, nil
	}
	if err != nil {
		return &DB{Listings: []model.Listing{}}, err
	}

	var wire []model.WireListing
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		// Treat undecodable state as empty; the next save rewrites it.
		return &DB{Listings: []model.Listing{}}, nil
	}
	return &DB{Listings: listingsFromWire(wire)}, nil
}

func (s Store) saveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrateSQLiteState(ctx, db); err != nil {
		return err
	}
	return s.saveSQLiteConn(ctx, db, st)
}

func (s Store) saveSQLiteConn(ctx context.Context, db *sql.DB, st *DB) error {
	raw, err := json.Marshal(st.Listings)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state(k, v) VALUES(?, ?)`, stateKey, string(raw)); err != nil {
		return err
	}
	return tx.Commit()
}
