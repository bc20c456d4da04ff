package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// schema holds the DDL for the two application tables.  Reservations carry
// a denormalized location copy so the conflict query never needs a join,
// and the (table_id, date) index serves both the conflict window check and
// the daily availability lookups.  There is deliberately no foreign-key
// cascade from tables to reservations.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tables (
	    id     BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	    x      INT NOT NULL DEFAULT 0,
	    y      INT NOT NULL DEFAULT 0,
	    size   INT NOT NULL,
	    inside TINYINT(1) NOT NULL DEFAULT 1
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS reservations (
	    id       BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	    table_id BIGINT UNSIGNED NOT NULL,
	    how_many INT NOT NULL,
	    date     DATETIME NOT NULL,
	    location VARCHAR(16) NOT NULL,
	    user_id  BIGINT UNSIGNED NOT NULL,
	    KEY idx_reservations_table_date (table_id, date),
	    KEY idx_reservations_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the tables and reservations tables when they do not
// exist yet.  It is safe to call on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
