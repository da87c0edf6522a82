// Package database holds the schema for the postgres backend. The
// column set mirrors the legacy spreadsheet tabs one to one so either
// backend can serve the same gateway contract.
package database

import (
	"database/sql"

	"github.com/sirupsen/logrus"
)

// RunMigrations creates the three fee tables when missing. Statements
// are idempotent; running twice is harmless.
func RunMigrations(db *sql.DB, log *logrus.Logger) error {
	log.Info("running database migrations")

	statements := []string{
		`CREATE TABLE IF NOT EXISTS students (
			adm_no TEXT PRIMARY KEY,
			name   TEXT NOT NULL DEFAULT '',
			class  TEXT NOT NULL DEFAULT '',
			phone  TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS fee_heads (
			id       SERIAL PRIMARY KEY,
			class    TEXT NOT NULL,
			fee_head TEXT NOT NULL,
			amount   DOUBLE PRECISION NOT NULL DEFAULT 0,
			due_date TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id         SERIAL PRIMARY KEY,
			receipt_no TEXT NOT NULL,
			date       TEXT NOT NULL DEFAULT '',
			adm_no     TEXT NOT NULL,
			name       TEXT NOT NULL DEFAULT '',
			class      TEXT NOT NULL DEFAULT '',
			fee_head   TEXT NOT NULL,
			amount     DOUBLE PRECISION NOT NULL DEFAULT 0,
			fine       DOUBLE PRECISION NOT NULL DEFAULT 0,
			mode       TEXT NOT NULL DEFAULT '',
			void       TEXT NOT NULL DEFAULT '',
			remarks    TEXT NOT NULL DEFAULT '',
			client_ref TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_receipt_no ON transactions (receipt_no)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_adm_no ON transactions (adm_no)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Errorf("migration failed: %v", err)
			return err
		}
	}

	log.Info("database migrations completed")
	return nil
}
