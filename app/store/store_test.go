package store

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/ayathanschool/fee-app/app/gateway"
	"github.com/ayathanschool/fee-app/app/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	students     []models.Student
	feeHeads     []models.FeeHead
	transactions []models.Transaction
	listErr      error
}

func (f *fakeGateway) ListStudents(ctx context.Context) ([]models.Student, error) {
	return f.students, f.listErr
}
func (f *fakeGateway) ListFeeHeads(ctx context.Context) ([]models.FeeHead, error) {
	return f.feeHeads, f.listErr
}
func (f *fakeGateway) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	return f.transactions, f.listErr
}
func (f *fakeGateway) CheckPaymentStatus(ctx context.Context, admNo, feeHead string) (gateway.CheckResult, error) {
	return gateway.CheckResult{}, nil
}
func (f *fakeGateway) SubmitPaymentBatch(ctx context.Context, req gateway.BatchRequest) (gateway.BatchResult, error) {
	return gateway.BatchResult{}, nil
}
func (f *fakeGateway) VoidReceipt(ctx context.Context, receiptNo string) error   { return nil }
func (f *fakeGateway) UnvoidReceipt(ctx context.Context, receiptNo string) error { return nil }

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func seededStore(t *testing.T) (*Store, *fakeGateway) {
	t.Helper()
	gw := &fakeGateway{
		students: []models.Student{
			{AdmNo: "101", Name: "Asha Rao", Class: "7A", Phone: "9876543210"},
			{AdmNo: "201", Name: "Chitra Iyer", Class: "10B"},
		},
		feeHeads: []models.FeeHead{
			{Class: "7A", FeeHead: "Tuition", Amount: 5000, DueDate: "2024-04-10"},
			{Class: "7 a", FeeHead: "Transport", Amount: 1200},
			{Class: "10B", FeeHead: "Tuition", Amount: 8000},
		},
		transactions: []models.Transaction{
			{ReceiptNo: "171001", Date: "2024-04-05", AdmNo: "101", Name: "Asha Rao", Class: "7A", FeeHead: "Tuition", Amount: 5000, Fine: 25},
			{ReceiptNo: "171002", Date: "2024-04-06", AdmNo: "201", Name: "Chitra Iyer", Class: "10B", FeeHead: "Tuition", Amount: 8000, Void: "Y"},
		},
	}
	s := New(gw, testLogger())
	require.NoError(t, s.Load(context.Background()))
	return s, gw
}

func TestLoadFailureKeepsSnapshot(t *testing.T) {
	s, gw := seededStore(t)
	gw.listErr = errors.New("upstream down")
	assert.Error(t, s.Load(context.Background()))
	assert.Len(t, s.Students(), 2, "previous snapshot survives a failed load")
}

func TestGlobalPaidIndexMemoizedAndInvalidated(t *testing.T) {
	s, gw := seededStore(t)

	idx := s.GlobalPaidIndex()
	assert.True(t, idx["101"]["tuition"])
	assert.False(t, idx["201"]["tuition"], "voided row never counts as paid")

	gw.transactions = append(gw.transactions, models.Transaction{
		ReceiptNo: "171003", Date: "2024-04-07", AdmNo: "201", Class: "10B", FeeHead: "Tuition", Amount: 8000,
	})
	require.NoError(t, s.RefreshTransactions(context.Background()))
	assert.True(t, s.GlobalPaidIndex()["201"]["tuition"], "refresh invalidates the memo")
}

func TestPaymentIndexFor(t *testing.T) {
	s, _ := seededStore(t)
	rec, ok := s.PaymentIndexFor("101").Lookup("TUITION")
	require.True(t, ok)
	assert.Equal(t, "171001", rec.ReceiptNo)
}

func TestFindStudentNormalizesAdmNo(t *testing.T) {
	s, _ := seededStore(t)
	st, ok := s.FindStudent(" 101 ")
	require.True(t, ok)
	assert.Equal(t, "Asha Rao", st.Name)

	_, ok = s.FindStudent("999")
	assert.False(t, ok)
}

func TestScheduleForClassNormalizes(t *testing.T) {
	s, _ := seededStore(t)
	heads := s.ScheduleForClass("7a")
	require.Len(t, heads, 2, `"7 a" spacing matches the class`)
}

func TestSearchStudents(t *testing.T) {
	s, _ := seededStore(t)
	assert.Len(t, s.SearchStudents("asha", ""), 1)
	assert.Len(t, s.SearchStudents("", "10b"), 1)
	assert.Empty(t, s.SearchStudents("asha", "10B"), "class restriction wins")
	assert.Len(t, s.SearchStudents("", ""), 2)
}

func TestSearchTransactions(t *testing.T) {
	s, _ := seededStore(t)
	assert.Len(t, s.SearchTransactions("171001", ""), 1)
	assert.Len(t, s.SearchTransactions("chitra", ""), 1)
	assert.Len(t, s.SearchTransactions("", "7A"), 1)
}

func TestCollectedTotalSkipsVoided(t *testing.T) {
	s, _ := seededStore(t)
	assert.Equal(t, 5025.0, s.CollectedTotal(""))
	assert.Equal(t, 5025.0, s.CollectedTotal("7A"))
	assert.Equal(t, 0.0, s.CollectedTotal("10B"))
}
