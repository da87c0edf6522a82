package reports

import (
	"strconv"
	"strings"
)

// CSV shapes are frozen: downstream spreadsheets import these exports,
// so field order and quoting (double-quote wrapping with internal
// quotes doubled on free-text fields) must not change.

var detailedHeader = []string{"Date", "Receipt", "AdmNo", "Name", "Class", "FeeHead", "Amount", "Fine", "Total", "Mode", "Voided"}

// DetailedCSV renders one line per transaction row.
func DetailedCSV(rows []Row, includeFine bool) string {
	lines := []string{strings.Join(detailedHeader, ",")}
	for _, r := range rows {
		total := r.Amount
		if includeFine {
			total += r.Fine
		}
		voided := ""
		if r.IsVoided() {
			voided = "Y"
		}
		lines = append(lines, strings.Join([]string{
			r.Date,
			r.ReceiptNo,
			r.AdmNo,
			quote(r.Name),
			r.Class,
			quote(r.FeeHead),
			num(r.Amount),
			num(r.Fine),
			num(total),
			r.Mode,
			voided,
		}, ","))
	}
	return strings.Join(lines, "\n")
}

var groupedHeader = []string{"Group", "Receipts", "Gross", "Fine", "Total"}

// GroupedCSV renders one line per group bucket.
func GroupedCSV(groups []GroupSummary) string {
	lines := []string{strings.Join(groupedHeader, ",")}
	for _, g := range groups {
		lines = append(lines, strings.Join([]string{
			quote(g.Key),
			strconv.Itoa(g.Receipts),
			num(g.Gross),
			num(g.Fine),
			num(g.Total),
		}, ","))
	}
	return strings.Join(lines, "\n")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
