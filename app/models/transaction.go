package models

import "strings"

// Transaction is one settled fee line. All line items of a single batch
// share one server-assigned receipt number. Voided rows stay stored and
// keep their receipt number; they are simply excluded from totals and
// from paid-status checks.
type Transaction struct {
	ReceiptNo string  `json:"receiptNo"`
	Date      string  `json:"date"`
	AdmNo     string  `json:"admNo"`
	Name      string  `json:"name"`
	Class     string  `json:"class"`
	FeeHead   string  `json:"feeHead"`
	Amount    float64 `json:"amount"`
	Fine      float64 `json:"fine"`
	Mode      string  `json:"mode"`
	Void      string  `json:"void"`
}

// IsVoided reports whether the row is excluded from collected totals.
// The legacy sheet stores the flag as free text, anything starting with
// "Y" (case-insensitive) counts as voided.
func (t Transaction) IsVoided() bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(t.Void)), "Y")
}

// Total is amount plus fine for the row.
func (t Transaction) Total() float64 {
	return t.Amount + t.Fine
}
