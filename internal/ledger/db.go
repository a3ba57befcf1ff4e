// Package ledger keeps categories, keywords and transactions in a relational
// database. SQLite is the default; PostgreSQL is reached through pgx.
package ledger

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"fjacquet/txcat/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// openDB opens a database/sql handle for driver without connecting.
func openDB(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case config.DriverPostgres:
		connConfig, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("parsing connection string: %w", err)
		}
		return stdlib.OpenDB(*connConfig), nil
	case config.DriverSQLite, "":
		return sql.Open("sqlite", dsn)
	default:
		return nil, fmt.Errorf("unsupported ledger driver %q", driver)
	}
}

// rebind rewrites "?" placeholders as "$1", "$2", ... for PostgreSQL.
func rebind(driver, query string) string {
	if driver != config.DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
