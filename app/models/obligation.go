package models

// Obligation is a derived, in-memory view over one (student, fee head)
// pair: what is owed, the computed fine, and whether it is already
// settled. It is rebuilt whenever the student, payment date or payment
// history changes and is never persisted directly.
type Obligation struct {
	FeeHead string  `json:"feeHead"`
	Amount  float64 `json:"amount"`
	Fine    float64 `json:"fine"`
	DueDate string  `json:"dueDate"`

	Selected   bool `json:"selected"`
	WaiveFine  bool `json:"waiveFine"`
	ManualFine bool `json:"manualFine"`

	// Paid state. Empty PaidDate means unpaid. Confirmed marks a
	// paid state that was verified against the server rather than
	// derived from the local transaction cache.
	PaidDate  string `json:"paidDate,omitempty"`
	ReceiptNo string `json:"receiptNo,omitempty"`
	Confirmed bool   `json:"confirmed,omitempty"`
}

// IsPaid reports whether the obligation is settled, locally or
// server-confirmed. A paid obligation must never be selectable.
func (o Obligation) IsPaid() bool {
	return o.PaidDate != "" || o.Confirmed
}

// Payable is the amount due for this obligation if collected now:
// amount plus fine, with the fine dropped when waived.
func (o Obligation) Payable() float64 {
	if o.WaiveFine {
		return o.Amount
	}
	return o.Amount + o.Fine
}
