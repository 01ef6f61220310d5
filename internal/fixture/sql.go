package fixture

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
)

// Drivers accepted for SQL fixture sources. The driver packages are registered by main.
var Drivers = []string{"postgres", "mysql", "sqlserver"}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// rowScanner is the subset of *sql.Rows the loader reads from
type rowScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// SupportedDriver reports whether name is one of Drivers
func SupportedDriver(name string) bool {
	for _, d := range Drivers {
		if d == name {
			return true
		}
	}
	return false
}

// OpenDB connects to a fixture database and verifies the connection
func OpenDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if !SupportedDriver(driver) {
		return nil, fmt.Errorf("unsupported database type: %s", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// LoadSQL builds a Document from a table with the columns
// (resource, scenario, field, value)
func LoadSQL(ctx context.Context, db *sql.DB, table string) (*Document, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid fixture table name %q", table)
	}
	query := fmt.Sprintf("SELECT resource, scenario, field, value FROM %s", table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixture table: %w", err)
	}
	defer rows.Close()

	doc, err := fromRows(rows)
	if err != nil {
		return nil, err
	}
	doc.origin = "sql:" + table
	return doc, nil
}

func fromRows(rows rowScanner) (*Document, error) {
	root := map[string]interface{}{}
	for rows.Next() {
		var res, scenario, field string
		var value sql.NullString
		if err := rows.Scan(&res, &scenario, &field, &value); err != nil {
			return nil, fmt.Errorf("failed to scan fixture row: %w", err)
		}

		group, ok := root[res].(map[string]interface{})
		if !ok {
			group = map[string]interface{}{}
			root[res] = group
		}
		fields, ok := group[scenario].(map[string]interface{})
		if !ok {
			fields = map[string]interface{}{}
			group[scenario] = fields
		}
		if value.Valid {
			fields[field] = value.String
		} else {
			fields[field] = nil
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fixture rows: %w", err)
	}
	return &Document{root: root, origin: "sql"}, nil
}
