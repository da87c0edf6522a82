package reports

import (
	"strings"
	"testing"

	"github.com/ayathanschool/fee-app/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetailedCSVVoidColumnAndTotals(t *testing.T) {
	rows := BuildRows([]models.Transaction{
		{ReceiptNo: "171001", Date: "2024-04-05", AdmNo: "101", Name: "Asha Rao", Class: "7A", FeeHead: "Tuition", Amount: 5000, Fine: 25, Mode: "Cash"},
		{ReceiptNo: "171002", Date: "2024-04-06", AdmNo: "102", Name: "Bilal Khan", Class: "7A", FeeHead: "Transport", Amount: 1200, Fine: 10, Mode: "UPI", Void: "Y"},
	})

	out := DetailedCSV(rows, true)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Receipt,AdmNo,Name,Class,FeeHead,Amount,Fine,Total,Mode,Voided", lines[0])
	assert.Equal(t, `2024-04-05,171001,101,"Asha Rao",7A,"Tuition",5000,25,5025,Cash,`, lines[1])
	assert.Equal(t, `2024-04-06,171002,102,"Bilal Khan",7A,"Transport",1200,10,1210,UPI,Y`, lines[2])

	// Fine excluded: total equals amount alone.
	lines = strings.Split(DetailedCSV(rows, false), "\n")
	assert.Equal(t, `2024-04-05,171001,101,"Asha Rao",7A,"Tuition",5000,25,5000,Cash,`, lines[1])
}

func TestCSVQuoteDoubling(t *testing.T) {
	rows := BuildRows([]models.Transaction{
		{ReceiptNo: "171003", Date: "2024-04-07", AdmNo: "103", Name: `Rehan "RJ" Joshi`, Class: "7A", FeeHead: "Lab Fee", Amount: 500},
	})
	out := DetailedCSV(rows, true)
	assert.Contains(t, out, `"Rehan ""RJ"" Joshi"`)
}

func TestGroupedCSV(t *testing.T) {
	groups := []GroupSummary{
		{Key: "7A", Receipts: 2, Gross: 6200, Fine: 35, Total: 6235},
		{Key: "10B", Receipts: 1, Gross: 8000, Fine: 0, Total: 8000},
	}
	lines := strings.Split(GroupedCSV(groups), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Group,Receipts,Gross,Fine,Total", lines[0])
	assert.Equal(t, `"7A",2,6200,35,6235`, lines[1])
	assert.Equal(t, `"10B",1,8000,0,8000`, lines[2])
}
