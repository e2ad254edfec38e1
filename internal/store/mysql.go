package store

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

type mysqlStore struct {
	db *sql.DB
}

func NewMySQL(dsn string) (Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS postal_codes (
			postal_code INT UNSIGNED PRIMARY KEY,
			city        VARCHAR(100) NOT NULL
		) DEFAULT CHARSET=utf8mb4
	`); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("[store] MySQL postal code table opened")
	return &mysqlStore{db: db}, nil
}

func (s *mysqlStore) Load() (map[uint32]string, error) {
	return load(s.db)
}

func (s *mysqlStore) Save(table map[uint32]string) error {
	err := save(s.db,
		`INSERT INTO postal_codes (postal_code, city) VALUES (?, ?)
		 ON DUPLICATE KEY UPDATE city=VALUES(city)`,
		table)
	if err != nil {
		return err
	}
	log.Printf("[store] MySQL: saved %d postal codes", len(table))
	return nil
}

func (s *mysqlStore) Size() int {
	return size(s.db)
}

func (s *mysqlStore) Close() {
	s.db.Close()
	log.Printf("[store] MySQL postal code table closed")
}
