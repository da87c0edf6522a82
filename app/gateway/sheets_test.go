package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestListStudentsToleratesAliasColumns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "students", r.URL.Query().Get("action"))
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		io.WriteString(w, `{"ok":true,"data":[
			{"admNo":101,"studentName":"Asha Rao","cls":"7A","mobile":9876543210},
			{"admNo":"102","name":"Bilal Khan","class":"7A","phone":"9000000000"}
		]}`)
	}))
	defer srv.Close()

	c := NewSheetsClient(srv.URL, "secret", testLogger())
	students, err := c.ListStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "101", students[0].AdmNo)
	assert.Equal(t, "Asha Rao", students[0].Name)
	assert.Equal(t, "9876543210", students[0].Phone)
	assert.Equal(t, "7A", students[1].Class)
}

func TestListFeeHeadsStringAmounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":true,"data":[
			{"class":"7A","feeHead":"Tuition","amount":"5000","dueDate":"2024-04-10"},
			{"cls":"7A","head":"Transport","amount":1200,"dueDate":""}
		]}`)
	}))
	defer srv.Close()

	c := NewSheetsClient(srv.URL, "", testLogger())
	heads, err := c.ListFeeHeads(context.Background())
	require.NoError(t, err)
	require.Len(t, heads, 2)
	assert.Equal(t, 5000.0, heads[0].Amount)
	assert.Equal(t, "Transport", heads[1].FeeHead)
}

func TestListTransactionsErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":false,"error":"unauthorized"}`)
	}))
	defer srv.Close()

	c := NewSheetsClient(srv.URL, "", testLogger())
	_, err := c.ListTransactions(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")
}

func TestCheckPaymentStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "checkPayment", r.URL.Query().Get("action"))
		assert.Equal(t, "101", r.URL.Query().Get("admNo"))
		assert.Equal(t, "Tuition", r.URL.Query().Get("feeHead"))
		io.WriteString(w, `{"ok":true,"isPaid":true,"matchingRecords":[{"date":"2024-04-05","receiptNo":"171001"}]}`)
	}))
	defer srv.Close()

	c := NewSheetsClient(srv.URL, "", testLogger())
	res, err := c.CheckPaymentStatus(context.Background(), "101", "Tuition")
	require.NoError(t, err)
	assert.True(t, res.IsPaid)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, "171001", res.Matches[0].ReceiptNo)
}

func TestSubmitPaymentBatch(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "text/plain")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		io.WriteString(w, `{"ok":true,"receiptNo":"171234","date":"2024-04-05"}`)
	}))
	defer srv.Close()

	c := NewSheetsClient(srv.URL, "secret", testLogger())
	res, err := c.SubmitPaymentBatch(context.Background(), BatchRequest{
		Date:  "2024-04-05",
		AdmNo: "101",
		Name:  "Asha Rao",
		Class: "7A",
		Mode:  "Cash",
		Items: []BatchItem{{FeeHead: "Tuition", Amount: 5000, Fine: 25}},
	})
	require.NoError(t, err)
	assert.Equal(t, "171234", res.ReceiptNo)

	assert.Equal(t, "addPaymentBatch", gotBody["action"])
	assert.Equal(t, "secret", gotBody["key"])
	assert.Equal(t, "7A", gotBody["cls"], "class travels under the legacy cls field")
	assert.NotContains(t, gotBody, "class")
}

func TestSubmitPaymentBatchDuplicate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":false,"error":"duplicate_payment","paidItems":["Tuition"],"message":"already settled at the counter"}`)
	}))
	defer srv.Close()

	c := NewSheetsClient(srv.URL, "", testLogger())
	_, err := c.SubmitPaymentBatch(context.Background(), BatchRequest{
		AdmNo: "101",
		Items: []BatchItem{{FeeHead: "Tuition", Amount: 5000}},
	})
	require.Error(t, err)
	dup, ok := IsDuplicatePayment(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Tuition"}, dup.PaidItems)
	assert.Equal(t, "already settled at the counter", dup.Message)
	assert.Contains(t, dup.Error(), "already settled at the counter")
}

func TestVoidReceiptNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "voidReceipt", body["action"])
		assert.Equal(t, "999999", body["receiptNo"])
		io.WriteString(w, `{"ok":false,"error":"not_found"}`)
	}))
	defer srv.Close()

	c := NewSheetsClient(srv.URL, "", testLogger())
	err := c.VoidReceipt(context.Background(), "999999")
	assert.ErrorIs(t, err, ErrNotFound)
}
