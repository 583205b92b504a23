package distcache

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// OpenPostgres connects to PostgreSQL with lib/pq and prepares the cache table.
// The returned store owns the connection pool; Close releases it.
func OpenPostgres(ctx context.Context, dsn string, cfg SQLConfig) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("distcache: open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("distcache: ping postgres: %w", err)
	}

	store, err := NewSQLStore(ctx, db, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}
	store.owned = true
	return store, nil
}
