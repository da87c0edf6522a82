package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ayathanschool/fee-app/app/models"
)

// Gateway is the persistence collaborator behind the fee core: bulk
// reads of the reference datasets, the authoritative per-head payment
// check, atomic batch submission, and the void toggle. Two
// implementations exist - the legacy Google Sheets web app and
// Postgres - and the core never cares which.
type Gateway interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	ListFeeHeads(ctx context.Context) ([]models.FeeHead, error)
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	CheckPaymentStatus(ctx context.Context, admNo, feeHead string) (CheckResult, error)
	SubmitPaymentBatch(ctx context.Context, req BatchRequest) (BatchResult, error)
	VoidReceipt(ctx context.Context, receiptNo string) error
	UnvoidReceipt(ctx context.Context, receiptNo string) error
}

// BatchItem is one fee head line inside a payment batch.
type BatchItem struct {
	FeeHead string  `json:"feeHead"`
	Amount  float64 `json:"amount"`
	Fine    float64 `json:"fine"`
	Ref     string  `json:"ref"`
}

// BatchRequest is a single atomic payment submission. All items share
// the one receipt number the server assigns.
type BatchRequest struct {
	Date      string      `json:"date"`
	AdmNo     string      `json:"admNo"`
	Name      string      `json:"name"`
	Class     string      `json:"cls"`
	Mode      string      `json:"mode"`
	Remarks   string      `json:"remarks"`
	ClientRef string      `json:"clientRef,omitempty"`
	Items     []BatchItem `json:"items"`
}

// BatchResult carries the server-assigned receipt identity.
type BatchResult struct {
	ReceiptNo string `json:"receiptNo"`
	Date      string `json:"date"`
}

// PaidMatch is one existing payment row reported by the authoritative
// check.
type PaidMatch struct {
	Date      string `json:"date"`
	ReceiptNo string `json:"receiptNo"`
}

// CheckResult is the outcome of the single-obligation authoritative
// payment check.
type CheckResult struct {
	IsPaid  bool        `json:"isPaid"`
	Matches []PaidMatch `json:"matchingRecords"`
}

// ErrNotFound is returned when a receipt number matches no rows.
var ErrNotFound = errors.New("not found")

// DuplicatePaymentError is the one discriminated error condition the
// core branches on: the server detected that some selected fee heads
// were already paid (another client won the race between list-load and
// submit). Every other upstream error message is opaque.
type DuplicatePaymentError struct {
	PaidItems []string
	Message   string
}

func (e *DuplicatePaymentError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "these fees have already been paid"
	}
	if len(e.PaidItems) > 0 {
		return fmt.Sprintf("%s: %s", msg, strings.Join(e.PaidItems, ", "))
	}
	return msg
}

// IsDuplicatePayment unwraps err looking for the duplicate-payment
// signal.
func IsDuplicatePayment(err error) (*DuplicatePaymentError, bool) {
	var dup *DuplicatePaymentError
	if errors.As(err, &dup) {
		return dup, true
	}
	return nil, false
}
