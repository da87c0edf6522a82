// Package store keeps an in-memory snapshot of the three reference
// datasets (roster, fee schedule, transaction history) so request
// handlers never block on the upstream for reads. Writes go through
// the gateway and are followed by a transaction refresh.
package store

import (
	"context"
	"strings"
	"sync"

	"github.com/ayathanschool/fee-app/app/fees"
	"github.com/ayathanschool/fee-app/app/gateway"
	"github.com/ayathanschool/fee-app/app/models"
	"github.com/sirupsen/logrus"
)

type Store struct {
	gw  gateway.Gateway
	log *logrus.Logger

	mu           sync.RWMutex
	students     []models.Student
	feeHeads     []models.FeeHead
	transactions []models.Transaction

	paidIndex map[string]map[string]bool // nil when dirty
}

func New(gw gateway.Gateway, log *logrus.Logger) *Store {
	return &Store{gw: gw, log: log}
}

// Load pulls all three datasets. Called at startup and by the
// scheduler; any failure leaves the previous snapshot intact.
func (s *Store) Load(ctx context.Context) error {
	students, err := s.gw.ListStudents(ctx)
	if err != nil {
		return err
	}
	feeHeads, err := s.gw.ListFeeHeads(ctx)
	if err != nil {
		return err
	}
	transactions, err := s.gw.ListTransactions(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.students = students
	s.feeHeads = feeHeads
	s.transactions = transactions
	s.paidIndex = nil
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"students":     len(students),
		"feeHeads":     len(feeHeads),
		"transactions": len(transactions),
	}).Info("datasets loaded")
	s.reportDuplicates(transactions)
	return nil
}

// RefreshTransactions reloads only the history, the dataset that
// changes during the day.
func (s *Store) RefreshTransactions(ctx context.Context) error {
	transactions, err := s.gw.ListTransactions(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.transactions = transactions
	s.paidIndex = nil
	s.mu.Unlock()
	s.reportDuplicates(transactions)
	return nil
}

// reportDuplicates surfaces double settlements in the history; they
// indicate the paid check was bypassed somewhere and need manual
// voiding.
func (s *Store) reportDuplicates(txns []models.Transaction) {
	for _, d := range fees.FindDuplicateSettlements(txns) {
		s.log.WithFields(logrus.Fields{
			"admNo":   d.AdmNo,
			"feeHead": d.FeeHead,
			"count":   d.Count,
		}).Warn("duplicate settlement in history")
	}
}

func (s *Store) Students() []models.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.students
}

func (s *Store) FeeHeads() []models.FeeHead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feeHeads
}

func (s *Store) Transactions() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transactions
}

// GlobalPaidIndex memoizes the roster-wide paid index; it is rebuilt
// lazily after each refresh.
func (s *Store) GlobalPaidIndex() map[string]map[string]bool {
	s.mu.RLock()
	idx := s.paidIndex
	s.mu.RUnlock()
	if idx != nil {
		return idx
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paidIndex == nil {
		s.paidIndex = fees.BuildGlobalPaymentIndex(s.transactions)
	}
	return s.paidIndex
}

// PaymentIndexFor builds the per-student index used by the obligation
// resolver.
func (s *Store) PaymentIndexFor(admNo string) fees.PaymentIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fees.BuildPaymentIndex(s.transactions, admNo)
}

// FindStudent looks a student up by normalized admission number.
func (s *Store) FindStudent(admNo string) (models.Student, bool) {
	key := fees.NormKey(admNo)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.students {
		if fees.NormKey(st.AdmNo) == key {
			return st, true
		}
	}
	return models.Student{}, false
}

// ScheduleForClass returns the fee heads applying to a class.
func (s *Store) ScheduleForClass(class string) []models.FeeHead {
	key := fees.NormKey(class)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.FeeHead
	for _, h := range s.feeHeads {
		if fees.NormKey(h.Class) == key {
			out = append(out, h)
		}
	}
	return out
}

// SearchStudents matches the query against admission number and name,
// case-insensitive substring. class restricts the result when set.
func (s *Store) SearchStudents(query, class string) []models.Student {
	q := strings.ToLower(strings.TrimSpace(query))
	classKey := fees.NormKey(class)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Student
	for _, st := range s.students {
		if classKey != "" && fees.NormKey(st.Class) != classKey {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(st.AdmNo), q) &&
			!strings.Contains(strings.ToLower(st.Name), q) {
			continue
		}
		out = append(out, st)
	}
	return out
}

// SearchTransactions matches the query against receipt number,
// admission number and name. class restricts when set.
func (s *Store) SearchTransactions(query, class string) []models.Transaction {
	q := strings.ToLower(strings.TrimSpace(query))
	classKey := fees.NormKey(class)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Transaction
	for _, t := range s.transactions {
		if classKey != "" && fees.NormKey(t.Class) != classKey {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(t.ReceiptNo), q) &&
			!strings.Contains(strings.ToLower(t.AdmNo), q) &&
			!strings.Contains(strings.ToLower(t.Name), q) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// CollectedTotal sums amount plus fine over non-voided transactions,
// optionally restricted to one class.
func (s *Store) CollectedTotal(class string) float64 {
	classKey := fees.NormKey(class)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, t := range s.transactions {
		if t.IsVoided() {
			continue
		}
		if classKey != "" && fees.NormKey(t.Class) != classKey {
			continue
		}
		total += t.Total()
	}
	return total
}
