package fees

import (
	"context"
	"time"

	"github.com/ayathanschool/fee-app/app/gateway"
	"github.com/ayathanschool/fee-app/app/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// WorkflowState is the submission lifecycle. Once Saving begins the
// only transitions are to a terminal state; a fresh Submit resets a
// terminal workflow back to Idle.
type WorkflowState int

const (
	StateIdle WorkflowState = iota
	StateSaving
	StateSuccess
	StateFailed
)

// ValidationError is a precondition failure caught before any gateway
// call. No side effects have happened when one is returned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// RefreshFn re-fetches the transaction history (and updates whatever
// cache sits behind it), returning the fresh rows.
type RefreshFn func(ctx context.Context) ([]models.Transaction, error)

// Workflow runs one payment batch submission against the gateway and
// reconciles local state from the outcome.
type Workflow struct {
	gw    gateway.Gateway
	log   *logrus.Logger
	state WorkflowState
}

// NewWorkflow builds an idle workflow over the given gateway.
func NewWorkflow(gw gateway.Gateway, log *logrus.Logger) *Workflow {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Workflow{gw: gw, log: log}
}

// State exposes the current lifecycle state.
func (w *Workflow) State() WorkflowState { return w.state }

// Submit validates the current selection of the list, submits it as a
// single atomic batch and interprets the outcome.
//
// Success: returns the receipt, refreshes the transaction history (a
// refresh failure is logged, never turned into a submission failure),
// and marks the submitted obligations paid so the list stays
// consistent even when the refresh failed.
//
// Duplicate payment: refreshes the history, re-resolves the list from
// it, marks the server-reported heads paid, and returns the
// duplicate error naming the conflicting heads.
//
// Any other failure: returned verbatim with no local mutation.
func (w *Workflow) Submit(ctx context.Context, list *ObligationList, schedule []models.FeeHead, mode, remarks string, refresh RefreshFn) (*models.Receipt, error) {
	if w.state == StateSaving {
		return nil, &ValidationError{Msg: "a submission is already in progress"}
	}
	w.state = StateIdle

	if NormKey(list.Student.AdmNo) == "" {
		return nil, &ValidationError{Msg: "select a student first"}
	}
	chosen := list.Selected()
	if len(chosen) == 0 {
		return nil, &ValidationError{Msg: "select at least one unpaid fee head"}
	}

	req := gateway.BatchRequest{
		Date:      list.PaymentDate,
		AdmNo:     list.Student.AdmNo,
		Name:      list.Student.Name,
		Class:     list.Student.Class,
		Mode:      mode,
		Remarks:   remarks,
		ClientRef: uuid.NewString(),
	}
	for _, ob := range chosen {
		fine := ob.Fine
		if ob.WaiveFine {
			fine = 0
		}
		req.Items = append(req.Items, gateway.BatchItem{
			FeeHead: ob.FeeHead,
			Amount:  ob.Amount,
			Fine:    fine,
		})
	}

	w.state = StateSaving
	res, err := w.gw.SubmitPaymentBatch(ctx, req)
	if err != nil {
		if dup, ok := gateway.IsDuplicatePayment(err); ok {
			w.state = StateFailed
			w.recoverFromDuplicate(ctx, list, schedule, dup, refresh)
			return nil, dup
		}
		// Hard failure: nothing happened server-side unless a
		// receipt came back, so mutate nothing locally and go back
		// to idle for the retry.
		w.state = StateIdle
		return nil, err
	}
	w.state = StateSuccess

	receipt := &models.Receipt{
		ReceiptNo: res.ReceiptNo,
		Date:      res.Date,
		Student:   list.Student,
		Mode:      mode,
		Remarks:   remarks,
	}
	heads := make([]string, 0, len(req.Items))
	for _, it := range req.Items {
		receipt.Items = append(receipt.Items, models.ReceiptItem{
			FeeHead: it.FeeHead,
			Amount:  it.Amount,
			Fine:    it.Fine,
			Ref:     it.Ref,
		})
		heads = append(heads, it.FeeHead)
	}

	if refresh != nil {
		if _, rerr := refresh(ctx); rerr != nil {
			w.log.Warnf("transaction refresh failed after save: %v", rerr)
		}
	}
	// The payment succeeded server-side; reflect it locally no
	// matter what the refresh did.
	list.MarkPaid(heads, res.Date, res.ReceiptNo)

	return receipt, nil
}

// recoverFromDuplicate is the partial-failure path that separates this
// workflow from a naive form submit: another client paid between
// list-load and submit, so re-sync before surfacing the error.
func (w *Workflow) recoverFromDuplicate(ctx context.Context, list *ObligationList, schedule []models.FeeHead, dup *gateway.DuplicatePaymentError, refresh RefreshFn) {
	if refresh != nil {
		txns, err := refresh(ctx)
		if err != nil {
			w.log.Warnf("failed to refresh data after duplicate payment: %v", err)
		} else {
			idx := BuildPaymentIndex(txns, list.Student.AdmNo)
			rebuilt := ResolveObligations(list.Student, schedule, idx, list.PaymentDate)
			list.Items = rebuilt.Items
		}
	}
	// The server named these heads as paid even if the refreshed
	// history has not caught up yet. Only fill the ones still
	// showing unpaid so a real receipt from the refresh is kept.
	named := make(map[string]bool, len(dup.PaidItems))
	for _, h := range dup.PaidItems {
		named[NormKey(h)] = true
	}
	for i := range list.Items {
		ob := &list.Items[i]
		if !named[NormKey(ob.FeeHead)] {
			continue
		}
		if !ob.IsPaid() {
			ob.PaidDate = time.Now().Format(ISODate)
			ob.ReceiptNo = PlaceholderReceipt
		}
		ob.Selected = false
	}
}
