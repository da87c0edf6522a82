package fees

import (
	"sort"

	"github.com/ayathanschool/fee-app/app/models"
)

// PaidRecord is the settled state of one fee head: when it was last
// paid and under which receipt.
type PaidRecord struct {
	Date      string `json:"date"`
	ReceiptNo string `json:"receiptNo"`
}

// PaymentIndex maps a normalized fee head name to its latest effective
// payment for one student.
type PaymentIndex map[string]PaidRecord

// Lookup fetches the paid record for a fee head by its display name.
func (idx PaymentIndex) Lookup(feeHead string) (PaidRecord, bool) {
	rec, ok := idx[NormKey(feeHead)]
	return rec, ok
}

// BuildPaymentIndex folds the transaction history into the settled
// heads of one student. Voided rows never establish "paid". When the
// invariant of one effective row per (student, head) is violated, the
// row with the latest parseable date wins; ties are kept in input
// order rather than rejected.
func BuildPaymentIndex(txns []models.Transaction, admNo string) PaymentIndex {
	idx := make(PaymentIndex)
	adm := NormKey(admNo)
	if adm == "" {
		return idx
	}
	for _, t := range txns {
		if t.IsVoided() || NormKey(t.AdmNo) != adm {
			continue
		}
		key := NormKey(t.FeeHead)
		prev, exists := idx[key]
		if exists && !laterDate(t.Date, prev.Date) {
			continue
		}
		idx[key] = PaidRecord{Date: t.Date, ReceiptNo: t.ReceiptNo}
	}
	return idx
}

// BuildGlobalPaymentIndex maps every student (by normalized admission
// number) to the set of fee heads they have effectively paid. Used for
// bulk reminder computation where per-student indexes would be
// wasteful.
func BuildGlobalPaymentIndex(txns []models.Transaction) map[string]map[string]bool {
	out := make(map[string]map[string]bool)
	for _, t := range txns {
		if t.IsVoided() {
			continue
		}
		adm := NormKey(t.AdmNo)
		if adm == "" {
			continue
		}
		set, ok := out[adm]
		if !ok {
			set = make(map[string]bool)
			out[adm] = set
		}
		set[NormKey(t.FeeHead)] = true
	}
	return out
}

// DuplicateSettlement reports a (student, fee head) pair carrying more
// than one effective transaction - a race the server never prevents.
type DuplicateSettlement struct {
	AdmNo   string `json:"admNo"`
	FeeHead string `json:"feeHead"`
	Count   int    `json:"count"`
}

// FindDuplicateSettlements surfaces integrity violations instead of
// silently hiding them behind the latest-date-wins display policy.
func FindDuplicateSettlements(txns []models.Transaction) []DuplicateSettlement {
	type key struct{ adm, head string }
	counts := make(map[key]int)
	display := make(map[key][2]string)
	for _, t := range txns {
		if t.IsVoided() {
			continue
		}
		k := key{NormKey(t.AdmNo), NormKey(t.FeeHead)}
		if k.adm == "" {
			continue
		}
		counts[k]++
		if _, seen := display[k]; !seen {
			display[k] = [2]string{t.AdmNo, t.FeeHead}
		}
	}
	var dups []DuplicateSettlement
	for k, n := range counts {
		if n > 1 {
			d := display[k]
			dups = append(dups, DuplicateSettlement{AdmNo: d[0], FeeHead: d[1], Count: n})
		}
	}
	sort.Slice(dups, func(i, j int) bool {
		if dups[i].AdmNo != dups[j].AdmNo {
			return dups[i].AdmNo < dups[j].AdmNo
		}
		return dups[i].FeeHead < dups[j].FeeHead
	})
	return dups
}

// laterDate reports whether a is strictly later than b. Unparseable
// dates sort earliest so a dated row always beats an undated one.
func laterDate(a, b string) bool {
	at, aok := ParseDate(a)
	bt, bok := ParseDate(b)
	if !aok {
		return false
	}
	if !bok {
		return true
	}
	return at.After(bt)
}
