package database

import (
	"database/sql"
	"strconv"

	"github.com/ayathanschool/fee-app/app/models"
)

// UpsertStudent inserts or updates one roster row keyed by admission
// number.
func UpsertStudent(db *sql.DB, s models.Student) error {
	query := `INSERT INTO students (adm_no, name, class, phone)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (adm_no) DO UPDATE
			  SET name = EXCLUDED.name, class = EXCLUDED.class, phone = EXCLUDED.phone`
	_, err := db.Exec(query, s.AdmNo, s.Name, s.Class, s.Phone)
	return err
}

// InsertFeeHead adds one schedule row. The schedule has no natural
// key, so seeding truncates first (see ClearFeeHeads).
func InsertFeeHead(db *sql.DB, h models.FeeHead) error {
	query := `INSERT INTO fee_heads (class, fee_head, amount, due_date)
			  VALUES ($1, $2, $3, $4)`
	_, err := db.Exec(query, h.Class, h.FeeHead, h.Amount, h.DueDate)
	return err
}

func ClearFeeHeads(db *sql.DB) error {
	_, err := db.Exec(`DELETE FROM fee_heads`)
	return err
}

// ParseAmount reads a seed-file amount; blank cells count as zero.
func ParseAmount(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
