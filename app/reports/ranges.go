package reports

import (
	"time"

	"github.com/ayathanschool/fee-app/app/fees"
)

// Quick range selectors. A selector only sets the from/to bounds; the
// date filter itself stays in FilterSet. Custom edits switch the mode
// to RangeCustom on the client.
const (
	RangeToday  = "today"
	RangeWeek   = "week"
	RangeMonth  = "month"
	RangeFY     = "fy"
	RangeCustom = "custom"
)

// IndianFY returns the fiscal year bounds containing now: April 1 to
// March 31, starting this calendar year when the month is April or
// later, the prior year otherwise.
func IndianFY(now time.Time) (start, end time.Time) {
	y := now.Year()
	if now.Month() < time.April {
		y--
	}
	start = time.Date(y, time.April, 1, 0, 0, 0, 0, now.Location())
	end = time.Date(y+1, time.March, 31, 0, 0, 0, 0, now.Location())
	return start, end
}

// QuickRange resolves a selector to from/to bounds in ISO form.
// RangeCustom (and anything unknown) returns empty bounds, leaving
// whatever the caller already has.
func QuickRange(kind string, now time.Time) (from, to string) {
	switch kind {
	case RangeToday:
		d := now.Format(fees.ISODate)
		return d, d
	case RangeWeek:
		// Monday-start week.
		offset := int(now.Weekday())
		if offset == 0 {
			offset = 7
		}
		monday := now.AddDate(0, 0, -(offset - 1))
		return monday.Format(fees.ISODate), now.Format(fees.ISODate)
	case RangeMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first.Format(fees.ISODate), now.Format(fees.ISODate)
	case RangeFY:
		start, end := IndianFY(now)
		return start.Format(fees.ISODate), end.Format(fees.ISODate)
	}
	return "", ""
}
