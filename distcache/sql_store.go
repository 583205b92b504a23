package distcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLConfig names the table a SQLStore keeps entries in.
type SQLConfig struct {
	// Table is created on first use if it does not exist.
	Table string

	// ValueType is the column type for the encoded values, e.g. BLOB or BYTEA.
	ValueType string
}

// DefaultSQLConfig returns a config suitable for SQLite and most other databases.
func DefaultSQLConfig() SQLConfig {
	return SQLConfig{Table: "memoize_entries", ValueType: "BLOB"}
}

// DefaultPostgresConfig returns a config for PostgreSQL.
func DefaultPostgresConfig() SQLConfig {
	return SQLConfig{Table: "memoize_entries", ValueType: "BYTEA"}
}

// Validate checks if the configuration values are valid. Both values end up in SQL
// text, so they must be plain identifiers.
func (c SQLConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Table, validation.Required, validation.Match(identifierPattern)),
		validation.Field(&c.ValueType, validation.Required, validation.Match(identifierPattern)),
	)
}

// SQLStore is a Store on a shared SQL table. The primary key on cache_key makes
// PutIfAbsent first-writer-wins across every process using the table.
//
// Statements use $n placeholders and ON CONFLICT, which PostgreSQL and SQLite accept.
type SQLStore struct {
	db    *sql.DB
	owned bool

	getQuery  string
	putQuery  string
	scanQuery string
}

// NewSQLStore prepares the table on db. The caller keeps ownership of db.
func NewSQLStore(ctx context.Context, db *sql.DB, cfg SQLConfig) (*SQLStore, error) {
	if err := validation.Validate(db, validation.NotNil); err != nil {
		return nil, fmt.Errorf("distcache: db %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	create := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (cache_key TEXT PRIMARY KEY, cache_value %s NOT NULL)",
		cfg.Table, cfg.ValueType,
	)
	if _, err := db.ExecContext(ctx, create); err != nil {
		return nil, fmt.Errorf("distcache: create table %s: %w", cfg.Table, err)
	}

	return &SQLStore{
		db:        db,
		getQuery:  fmt.Sprintf("SELECT cache_value FROM %s WHERE cache_key = $1", cfg.Table),
		putQuery:  fmt.Sprintf("INSERT INTO %s (cache_key, cache_value) VALUES ($1, $2) ON CONFLICT (cache_key) DO NOTHING", cfg.Table),
		scanQuery: fmt.Sprintf("SELECT cache_key, cache_value FROM %s ORDER BY cache_key", cfg.Table),
	}, nil
}

// Get implements Store.
func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, s.getQuery, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// PutIfAbsent implements Store.
func (s *SQLStore) PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.putQuery, key, value)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Scan implements Store.
func (s *SQLStore) Scan(ctx context.Context, fn func(key string, value []byte) bool) error {
	rows, err := s.db.QueryContext(ctx, s.scanQuery)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key   string
			value []byte
		)
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		if !fn(key, value) {
			return nil
		}
	}
	return rows.Err()
}

// Close closes the database if the store opened it itself.
func (s *SQLStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}
