package dbx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect hides the differences between the supported SQL backends.
// Repositories write queries with '?' placeholders and standard
// ON CONFLICT upserts; the dialect adapts what remains.
type Dialect interface {
	// Name is the configuration name of the backend.
	Name() string
	// DriverName is the database/sql driver to open.
	DriverName() string
	// GooseDialect is the dialect name understood by goose.
	GooseDialect() string
	// Rebind rewrites '?' placeholders into the backend's bind syntax.
	Rebind(query string) string
	// IsUniqueViolation reports whether err is a unique/primary key conflict.
	IsUniqueViolation(err error) bool
}

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// DialectFor resolves a configured backend name.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case DialectPostgres, "pgx", "postgresql":
		return Postgres{}, nil
	case DialectSQLite, "sqlite3":
		return SQLite{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", name)
	}
}

// Postgres talks to PostgreSQL through pgx's database/sql adapter.
type Postgres struct{}

func (Postgres) Name() string         { return DialectPostgres }
func (Postgres) DriverName() string   { return "pgx" }
func (Postgres) GooseDialect() string { return "postgres" }

// Rebind turns '?' into $1, $2, ... Quoted literals are left alone.
func (Postgres) Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func (Postgres) IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// SQLite uses the pure-Go modernc driver.
type SQLite struct{}

func (SQLite) Name() string               { return DialectSQLite }
func (SQLite) DriverName() string         { return "sqlite" }
func (SQLite) GooseDialect() string       { return "sqlite3" }
func (SQLite) Rebind(query string) string { return query }

func (SQLite) IsUniqueViolation(err error) bool {
	var sqlErr *sqlite.Error
	if !errors.As(err, &sqlErr) {
		return false
	}
	code := sqlErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
