package models

// FeeHead is one row of the class fee schedule: what a student of the
// given class owes under a named head, and when it falls due. Schedule
// data is static; the core never mutates it.
type FeeHead struct {
	Class   string  `json:"class"`
	FeeHead string  `json:"feeHead"`
	Amount  float64 `json:"amount"`
	DueDate string  `json:"dueDate"`
}
