package store

import (
	"database/sql"
	"log"

	_ "modernc.org/sqlite"
)

type sqliteStore struct {
	db   *sql.DB
	path string
}

func NewSQLite(dbPath string) (Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS postal_codes (
			postal_code INTEGER PRIMARY KEY,
			city        TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("[store] SQLite postal code table opened: %s", dbPath)
	return &sqliteStore{db: db, path: dbPath}, nil
}

func (s *sqliteStore) Load() (map[uint32]string, error) {
	return load(s.db)
}

func (s *sqliteStore) Save(table map[uint32]string) error {
	err := save(s.db,
		`INSERT INTO postal_codes (postal_code, city) VALUES (?, ?)
		 ON CONFLICT(postal_code) DO UPDATE SET city=excluded.city`,
		table)
	if err != nil {
		return err
	}
	log.Printf("[store] SQLite: saved %d postal codes to %s", len(table), s.path)
	return nil
}

func (s *sqliteStore) Size() int {
	return size(s.db)
}

func (s *sqliteStore) Close() {
	s.db.Close()
	log.Printf("[store] SQLite postal code table closed")
}
