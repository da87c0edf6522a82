package fees

import "math"

// FinePolicy controls the late-fee schedule: the fine grows by
// StepAmount for every started StepDays-long block past the due date.
type FinePolicy struct {
	StepDays   int
	StepAmount float64
}

// DefaultFinePolicy is the school's standard schedule: Rs 25 for every
// started 15-day block of lateness. Overridden from config at startup.
var DefaultFinePolicy = FinePolicy{StepDays: 15, StepAmount: 25}

// Calc computes the late fine for a payment made on payDate against a
// fee due on dueDate. A missing or unparseable due date, an
// unparseable payment date, or payment on or before the due date all
// yield zero. The fine increases in discrete steps, never
// continuously.
func (p FinePolicy) Calc(dueDate, payDate string) float64 {
	due, ok := ParseDate(dueDate)
	if !ok {
		return 0
	}
	pay, ok := ParseDate(payDate)
	if !ok || !pay.After(due) {
		return 0
	}
	daysLate := int(math.Ceil(pay.Sub(due).Hours() / 24))
	if daysLate <= 0 {
		return 0
	}
	buckets := (daysLate + p.StepDays - 1) / p.StepDays
	return float64(buckets) * p.StepAmount
}

// CalcFine applies the default policy.
func CalcFine(dueDate, payDate string) float64 {
	return DefaultFinePolicy.Calc(dueDate, payDate)
}
