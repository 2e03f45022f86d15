// Package catalog discovers spatial tables in a PostGIS database.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/fmidev/mapdesc/internal/config"
	"github.com/fmidev/mapdesc/internal/tables"
)

const geometryTablesQuery = `
		SELECT DISTINCT f_table_schema, f_table_name
		FROM geometry_columns
		ORDER BY f_table_schema, f_table_name
	`

// Catalog lists the geometry tables of one database.
type Catalog struct {
	db     *sql.DB
	logger *slog.Logger
}

// New wraps an open database handle. If logger is nil, a discard logger is used.
func New(db *sql.DB, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Catalog{db: db, logger: logger}
}

// Open connects to the configured PostGIS target.
func Open(ctx context.Context, target *config.TargetConfig, logger *slog.Logger) (*Catalog, error) {
	if err := target.Validate(); err != nil {
		return nil, fmt.Errorf("invalid target configuration: %w", err)
	}
	c := New(nil, logger)

	c.logger.Debug("connecting to postgis", slog.String("host", target.Host), slog.String("database", target.Database))

	db, err := sql.Open("pgx", BuildDSN(target))
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	c.db = db
	return c, nil
}

// BuildDSN constructs a key=value PostgreSQL connection string.
func BuildDSN(t *config.TargetConfig) string {
	host := t.Host
	if host == "" {
		host = config.DefaultHost
	}
	port := t.Port
	if port == 0 {
		port = config.DefaultPort
	}
	sslmode := t.SSLMode
	if sslmode == "" {
		sslmode = config.DefaultSSLMode
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		dsnValue(host), port, dsnValue(t.Database), dsnValue(sslmode))
	if t.User != "" {
		dsn += " user=" + dsnValue(t.User)
	}
	if t.Password != "" {
		dsn += " password=" + dsnValue(t.Password)
	}
	return dsn
}

// dsnValue quotes v for a keyword=value connection string. Values that are
// empty or hold whitespace, quotes or backslashes are single-quoted with
// ' and \ escaped by a backslash.
func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\n\r'\\") {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// Tables returns the geometry tables as table-list rows, ordered by schema
// and table. A non-empty schemas list keeps only those schemas.
func (c *Catalog) Tables(ctx context.Context, schemas []string) ([]tables.Row, error) {
	if c.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	keep := make(map[string]bool, len(schemas))
	for _, s := range schemas {
		keep[s] = true
	}

	rows, err := c.db.QueryContext(ctx, geometryTablesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query geometry_columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []tables.Row
	for rows.Next() {
		var schema, table string
		if err := rows.Scan(&schema, &table); err != nil {
			return nil, fmt.Errorf("failed to scan geometry_columns row: %w", err)
		}
		if len(keep) > 0 && !keep[schema] {
			continue
		}
		result = append(result, tables.Row{Line: len(result) + 1, Schema: schema, Table: table})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read geometry_columns: %w", err)
	}

	c.logger.Debug("discovered tables", slog.Int("count", len(result)))
	return result, nil
}

// Close releases the database handle.
func (c *Catalog) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
