package models

import (
	"strings"

	"github.com/divan/num2words"
)

// ReceiptItem is one line of a payment batch as it appears on the
// printed receipt.
type ReceiptItem struct {
	FeeHead string  `json:"feeHead"`
	Amount  float64 `json:"amount"`
	Fine    float64 `json:"fine"`
	Ref     string  `json:"ref"`
}

// Receipt is the result of one successful batch submission. The number
// is assigned by the payment server and shared by every line item.
type Receipt struct {
	ReceiptNo string        `json:"receiptNo"`
	Date      string        `json:"date"`
	Student   Student       `json:"student"`
	Items     []ReceiptItem `json:"items"`
	Mode      string        `json:"mode"`
	Remarks   string        `json:"remarks"`
}

// Total sums amount plus fine over all line items.
func (r Receipt) Total() float64 {
	var sum float64
	for _, it := range r.Items {
		sum += it.Amount + it.Fine
	}
	return sum
}

// TotalInWords spells out the receipt total for the printed form,
// e.g. "Rupees Five Thousand Only".
func (r Receipt) TotalInWords() string {
	words := num2words.ConvertAnd(int(r.Total()))
	return "Rupees " + strings.Title(words) + " Only"
}
