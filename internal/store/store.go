// Package store keeps a postal code reference table in a SQL database so a
// deployment can ship an updated table without rebuilding.
package store

import (
	"database/sql"
	"fmt"
)

// Store is a SQL-backed postal code table.
type Store interface {
	// Load reads every postal code and its city.
	Load() (map[uint32]string, error)
	// Save upserts all rows of table in one transaction.
	Save(table map[uint32]string) error
	// Size returns the number of stored postal codes.
	Size() int
	Close()
}

// New opens a store of the given type ("sqlite" or "mysql").
func New(dbType, dsn string) (Store, error) {
	switch dbType {
	case "sqlite":
		return NewSQLite(dsn)
	case "mysql":
		return NewMySQL(dsn)
	default:
		return nil, fmt.Errorf("unsupported table store type %q", dbType)
	}
}

func load(db *sql.DB) (map[uint32]string, error) {
	rows, err := db.Query("SELECT postal_code, city FROM postal_codes")
	if err != nil {
		return nil, fmt.Errorf("query postal codes: %w", err)
	}
	defer rows.Close()

	table := make(map[uint32]string)
	for rows.Next() {
		var code uint32
		var city string
		if err := rows.Scan(&code, &city); err != nil {
			return nil, fmt.Errorf("scan postal code: %w", err)
		}
		table[code] = city
	}
	return table, rows.Err()
}

func save(db *sql.DB, upsert string, table map[uint32]string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(upsert)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for code, city := range table {
		if _, err := stmt.Exec(code, city); err != nil {
			return fmt.Errorf("upsert %d: %w", code, err)
		}
	}
	return tx.Commit()
}

func size(db *sql.DB) int {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM postal_codes").Scan(&count); err != nil {
		return 0
	}
	return count
}
