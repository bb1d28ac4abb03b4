package database

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool. The pool is bounded: once
// maxConns connections are in use, further operations block on acquisition
// until their context deadline fires.
func New(dataSourceName string, maxConns, maxIdleConns int) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+dataSourceName+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
// The UNIQUE constraint on email is the authoritative guard against duplicate
// registration; application-level pre-checks only improve the error message.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		referral_code TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_users_referral_code ON users(referral_code);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
