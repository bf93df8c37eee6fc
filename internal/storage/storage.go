package storage

import (
	"strings"

	"github.com/julianstephens/dailyhabits/internal/storage/postgres"
	"github.com/julianstephens/dailyhabits/internal/storage/sqlite"
)

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
)

// IsPostgres reports whether dsn is a PostgreSQL URL or key=value DSN rather than a SQLite path
func IsPostgres(dsn string) bool {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return true
	}
	return strings.Contains(dsn, "host=") || strings.Contains(dsn, "dbname=")
}

// New returns the store matching dsn: PostgreSQL for connection strings, SQLite otherwise.
// Nothing is opened until Init.
func New(dsn string) Provider {
	if IsPostgres(dsn) {
		return postgres.New(dsn)
	}
	return sqlite.NewStore(dsn)
}
