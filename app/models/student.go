package models

// Student is immutable reference data loaded once per session.
// Identity is the admission number; comparisons on it must go through
// fees.NormKey so that case and stray whitespace never split a student
// into two identities.
type Student struct {
	AdmNo string `json:"admNo"`
	Name  string `json:"name"`
	Class string `json:"class"`
	Phone string `json:"phone"`
}
