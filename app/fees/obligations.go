package fees

import (
	"context"
	"sync"
	"time"

	"github.com/ayathanschool/fee-app/app/gateway"
	"github.com/ayathanschool/fee-app/app/models"
	"github.com/sirupsen/logrus"
)

// PlaceholderReceipt marks an obligation known to be paid without the
// server having told us the receipt number.
const PlaceholderReceipt = "Previously paid"

// ObligationList is the working list for one student on one payment
// date: every fee head of their class with amount, computed fine and
// paid state. Owned by a single request/session; not safe for
// concurrent mutation.
type ObligationList struct {
	Student     models.Student
	PaymentDate string
	Items       []models.Obligation

	policy FinePolicy
}

// ResolveObligations combines a student's class fee schedule with the
// local payment index into the actionable obligation list. Schedule
// rows of other classes are skipped (class compared normalized), paid
// state comes from the index, fines from the default policy for the
// given payment date.
func ResolveObligations(student models.Student, schedule []models.FeeHead, idx PaymentIndex, paymentDate string) *ObligationList {
	list := &ObligationList{
		Student:     student,
		PaymentDate: paymentDate,
		policy:      DefaultFinePolicy,
	}
	cls := NormKey(student.Class)
	for _, f := range schedule {
		if NormKey(f.Class) != cls {
			continue
		}
		ob := models.Obligation{
			FeeHead: f.FeeHead,
			Amount:  f.Amount,
			Fine:    list.policy.Calc(f.DueDate, paymentDate),
			DueDate: f.DueDate,
		}
		if rec, ok := idx.Lookup(f.FeeHead); ok {
			ob.PaidDate = rec.Date
			ob.ReceiptNo = rec.ReceiptNo
		}
		list.Items = append(list.Items, ob)
	}
	return list
}

// SetPaymentDate recomputes every fine for the new date. Manual edits
// and waivers are sticky: those rows keep their fine until explicitly
// reset.
func (l *ObligationList) SetPaymentDate(date string) {
	l.PaymentDate = date
	for i := range l.Items {
		if l.Items[i].WaiveFine || l.Items[i].ManualFine {
			continue
		}
		l.Items[i].Fine = l.policy.Calc(l.Items[i].DueDate, date)
	}
}

// Toggle flips the selection of item i. Paid obligations are never
// selectable; toggling one is a no-op and returns false. This is the
// invariant that prevents double billing.
func (l *ObligationList) Toggle(i int) bool {
	if i < 0 || i >= len(l.Items) || l.Items[i].IsPaid() {
		return false
	}
	l.Items[i].Selected = !l.Items[i].Selected
	return true
}

// SetAmount overrides the collected amount for item i (partial
// concession entered at the counter).
func (l *ObligationList) SetAmount(i int, amount float64) {
	if i < 0 || i >= len(l.Items) {
		return
	}
	l.Items[i].Amount = amount
}

// SetFine sets an arbitrary fine on item i and marks it manually
// edited, clearing any waiver.
func (l *ObligationList) SetFine(i int, fine float64) {
	if i < 0 || i >= len(l.Items) {
		return
	}
	l.Items[i].Fine = fine
	l.Items[i].ManualFine = true
	l.Items[i].WaiveFine = false
}

// Waive zeroes the fine on item i and clears the manual-edit flag.
func (l *ObligationList) Waive(i int) {
	if i < 0 || i >= len(l.Items) {
		return
	}
	l.Items[i].Fine = 0
	l.Items[i].WaiveFine = true
	l.Items[i].ManualFine = false
}

// Unwaive restores the calculator-derived fine for the current payment
// date.
func (l *ObligationList) Unwaive(i int) {
	if i < 0 || i >= len(l.Items) {
		return
	}
	l.Items[i].WaiveFine = false
	l.Items[i].Fine = l.policy.Calc(l.Items[i].DueDate, l.PaymentDate)
}

// ResetFine clears both override flags and recomputes the fine.
func (l *ObligationList) ResetFine(i int) {
	if i < 0 || i >= len(l.Items) {
		return
	}
	l.Items[i].ManualFine = false
	l.Items[i].WaiveFine = false
	l.Items[i].Fine = l.policy.Calc(l.Items[i].DueDate, l.PaymentDate)
}

// Selected returns the unpaid, selected obligations - the candidate
// payment batch.
func (l *ObligationList) Selected() []models.Obligation {
	var out []models.Obligation
	for _, ob := range l.Items {
		if ob.Selected && !ob.IsPaid() {
			out = append(out, ob)
		}
	}
	return out
}

// TotalSelected is the payable sum over the current selection.
func (l *ObligationList) TotalSelected() float64 {
	var sum float64
	for _, ob := range l.Selected() {
		sum += ob.Payable()
	}
	return sum
}

// MarkPaid flips the named fee heads to paid under the given receipt
// and deselects them, keeping the list consistent even when the
// transaction refresh behind it failed.
func (l *ObligationList) MarkPaid(feeHeads []string, date, receiptNo string) {
	heads := make(map[string]bool, len(feeHeads))
	for _, h := range feeHeads {
		heads[NormKey(h)] = true
	}
	for i := range l.Items {
		if !heads[NormKey(l.Items[i].FeeHead)] {
			continue
		}
		l.Items[i].PaidDate = date
		l.Items[i].ReceiptNo = receiptNo
		l.Items[i].Selected = false
	}
}

// ClearSelection deselects everything.
func (l *ObligationList) ClearSelection() {
	for i := range l.Items {
		l.Items[i].Selected = false
	}
}

// CheckFn is the authoritative single-obligation payment check.
type CheckFn func(ctx context.Context, admNo, feeHead string) (gateway.CheckResult, error)

// ConfirmAgainstServer reconciles the list against the source of
// truth: one independent check per locally-unpaid obligation, all in
// flight concurrently, merged without any ordering dependency. Each
// failing check is logged and isolated - the obligation simply keeps
// its prior state; nothing here is fatal.
func (l *ObligationList) ConfirmAgainstServer(ctx context.Context, check CheckFn, log *logrus.Logger) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	var wg sync.WaitGroup
	for i := range l.Items {
		if l.Items[i].IsPaid() {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := check(ctx, l.Student.AdmNo, l.Items[i].FeeHead)
			if err != nil {
				log.WithFields(logrus.Fields{
					"admNo":   l.Student.AdmNo,
					"feeHead": l.Items[i].FeeHead,
				}).Warnf("payment status check failed: %v", err)
				return
			}
			if !res.IsPaid {
				return
			}
			// Each goroutine writes only its own slot.
			ob := &l.Items[i]
			ob.PaidDate = time.Now().Format(ISODate)
			ob.ReceiptNo = PlaceholderReceipt
			if len(res.Matches) > 0 {
				if res.Matches[0].Date != "" {
					ob.PaidDate = res.Matches[0].Date
				}
				if res.Matches[0].ReceiptNo != "" {
					ob.ReceiptNo = res.Matches[0].ReceiptNo
				}
			}
			ob.Confirmed = true
			ob.Selected = false
		}(i)
	}
	wg.Wait()
}
