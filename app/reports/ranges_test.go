package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIndianFY(t *testing.T) {
	// Month >= April: FY starts this year.
	start, end := IndianFY(time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-04-01", start.Format("2006-01-02"))
	assert.Equal(t, "2025-03-31", end.Format("2006-01-02"))

	// Month < April: FY started last year.
	start, end = IndianFY(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-04-01", start.Format("2006-01-02"))
	assert.Equal(t, "2025-03-31", end.Format("2006-01-02"))
}

func TestQuickRange(t *testing.T) {
	// 2024-08-15 is a Thursday.
	now := time.Date(2024, time.August, 15, 10, 0, 0, 0, time.UTC)

	from, to := QuickRange(RangeToday, now)
	assert.Equal(t, "2024-08-15", from)
	assert.Equal(t, "2024-08-15", to)

	from, to = QuickRange(RangeWeek, now)
	assert.Equal(t, "2024-08-12", from, "week starts Monday")
	assert.Equal(t, "2024-08-15", to)

	from, to = QuickRange(RangeMonth, now)
	assert.Equal(t, "2024-08-01", from)
	assert.Equal(t, "2024-08-15", to)

	from, to = QuickRange(RangeFY, now)
	assert.Equal(t, "2024-04-01", from)
	assert.Equal(t, "2025-03-31", to)

	from, to = QuickRange(RangeCustom, now)
	assert.Empty(t, from)
	assert.Empty(t, to)
}

func TestQuickRangeWeekOnSunday(t *testing.T) {
	// Sunday belongs to the week that started the previous Monday.
	now := time.Date(2024, time.August, 18, 10, 0, 0, 0, time.UTC)
	from, _ := QuickRange(RangeWeek, now)
	assert.Equal(t, "2024-08-12", from)
}
