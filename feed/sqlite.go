package feed

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/mattn/go-sqlite3"
)

// Schema holds raw retrievals only; decisions are never written.
const Schema = `
CREATE TABLE IF NOT EXISTS series_cache (
	cache_key TEXT PRIMARY KEY,
	fetched_at DATETIME NOT NULL,
	payload BLOB NOT NULL
);
`

// SQLiteStore keeps entries in a SQLite file so they survive restarts.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM series_cache WHERE cache_key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}

	e, err := decodeEntry(payload)
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key string, e Entry) error {
	payload, err := encodeEntry(e)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO series_cache (cache_key, fetched_at, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET fetched_at = excluded.fetched_at, payload = excluded.payload`,
		key, e.FetchedAt.UTC(), payload,
	)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
