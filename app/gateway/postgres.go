package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/ayathanschool/fee-app/app/models"
	"github.com/sirupsen/logrus"
)

// PostgresGateway serves the same contract from a local database, for
// schools that have moved off the spreadsheet. Join keys are compared
// whitespace-stripped and lowercased in SQL, matching how the rest of
// the system treats identity.
type PostgresGateway struct {
	DB  *sql.DB
	log *logrus.Logger
}

func NewPostgresGateway(db *sql.DB, log *logrus.Logger) *PostgresGateway {
	return &PostgresGateway{DB: db, log: log}
}

const normExpr = `lower(regexp_replace(%s, '\s', '', 'g'))`

func norm(col string) string {
	return fmt.Sprintf(normExpr, col)
}

func (g *PostgresGateway) ListStudents(ctx context.Context) ([]models.Student, error) {
	query := `SELECT adm_no, name, class, phone FROM students ORDER BY class, adm_no`
	rows, err := g.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Student
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(&s.AdmNo, &s.Name, &s.Class, &s.Phone); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (g *PostgresGateway) ListFeeHeads(ctx context.Context) ([]models.FeeHead, error) {
	query := `SELECT class, fee_head, amount, COALESCE(due_date, '') FROM fee_heads ORDER BY class, id`
	rows, err := g.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.FeeHead
	for rows.Next() {
		var h models.FeeHead
		if err := rows.Scan(&h.Class, &h.FeeHead, &h.Amount, &h.DueDate); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (g *PostgresGateway) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	query := `SELECT receipt_no, date, adm_no, name, class, fee_head, amount, fine, mode, COALESCE(void, '')
			  FROM transactions ORDER BY id`
	rows, err := g.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ReceiptNo, &t.Date, &t.AdmNo, &t.Name, &t.Class,
			&t.FeeHead, &t.Amount, &t.Fine, &t.Mode, &t.Void); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (g *PostgresGateway) CheckPaymentStatus(ctx context.Context, admNo, feeHead string) (CheckResult, error) {
	query := `SELECT date, receipt_no FROM transactions
			  WHERE ` + norm("adm_no") + ` = ` + norm("$1") + `
			    AND ` + norm("fee_head") + ` = ` + norm("$2") + `
			    AND upper(trim(COALESCE(void, ''))) NOT LIKE 'Y%'
			  ORDER BY date DESC`
	rows, err := g.DB.QueryContext(ctx, query, admNo, feeHead)
	if err != nil {
		return CheckResult{}, err
	}
	defer rows.Close()

	var res CheckResult
	for rows.Next() {
		var m PaidMatch
		if err := rows.Scan(&m.Date, &m.ReceiptNo); err != nil {
			return CheckResult{}, err
		}
		res.Matches = append(res.Matches, m)
	}
	res.IsPaid = len(res.Matches) > 0
	return res, rows.Err()
}

// SubmitPaymentBatch inserts every item under one receipt number inside
// a transaction, re-checking the paid state of each head first so two
// counters cannot settle the same head twice.
func (g *PostgresGateway) SubmitPaymentBatch(ctx context.Context, req BatchRequest) (BatchResult, error) {
	tx, err := g.DB.BeginTx(ctx, nil)
	if err != nil {
		return BatchResult{}, err
	}
	defer tx.Rollback()

	checkQuery := `SELECT 1 FROM transactions
				   WHERE ` + norm("adm_no") + ` = ` + norm("$1") + `
				     AND ` + norm("fee_head") + ` = ` + norm("$2") + `
				     AND upper(trim(COALESCE(void, ''))) NOT LIKE 'Y%'
				   LIMIT 1`
	var alreadyPaid []string
	for _, item := range req.Items {
		var one int
		err := tx.QueryRowContext(ctx, checkQuery, req.AdmNo, item.FeeHead).Scan(&one)
		switch {
		case err == sql.ErrNoRows:
		case err != nil:
			return BatchResult{}, err
		default:
			alreadyPaid = append(alreadyPaid, item.FeeHead)
		}
	}
	if len(alreadyPaid) > 0 {
		return BatchResult{}, &DuplicatePaymentError{PaidItems: alreadyPaid}
	}

	date := req.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	receiptNo := strconv.FormatInt(time.Now().Unix(), 10)

	insert := `INSERT INTO transactions
			   (receipt_no, date, adm_no, name, class, fee_head, amount, fine, mode, void, remarks, client_ref)
			   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, '', $10, $11)`
	for _, item := range req.Items {
		if _, err := tx.ExecContext(ctx, insert,
			receiptNo, date, req.AdmNo, req.Name, req.Class,
			item.FeeHead, item.Amount, item.Fine, req.Mode, req.Remarks, req.ClientRef,
		); err != nil {
			return BatchResult{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return BatchResult{}, err
	}

	g.log.WithFields(logrus.Fields{
		"receiptNo": receiptNo,
		"admNo":     req.AdmNo,
		"items":     len(req.Items),
	}).Info("payment batch saved")
	return BatchResult{ReceiptNo: receiptNo, Date: date}, nil
}

func (g *PostgresGateway) VoidReceipt(ctx context.Context, receiptNo string) error {
	return g.setVoid(ctx, receiptNo, "Y")
}

func (g *PostgresGateway) UnvoidReceipt(ctx context.Context, receiptNo string) error {
	return g.setVoid(ctx, receiptNo, "")
}

func (g *PostgresGateway) setVoid(ctx context.Context, receiptNo, flag string) error {
	res, err := g.DB.ExecContext(ctx, `UPDATE transactions SET void = $1 WHERE receipt_no = $2`, flag, receiptNo)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
