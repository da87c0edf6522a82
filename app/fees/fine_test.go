package fees

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalcFineZeroCases(t *testing.T) {
	assert.Zero(t, CalcFine("", "2024-05-01"))
	assert.Zero(t, CalcFine("not-a-date", "2024-05-01"))
	assert.Zero(t, CalcFine("2024-05-01", "garbage"))
	assert.Zero(t, CalcFine("2024-05-01", "2024-05-01"))
	assert.Zero(t, CalcFine("2024-05-01", "2024-04-30"))
}

func TestCalcFineBuckets(t *testing.T) {
	// One day late through fifteen days late is one bucket.
	for d := 2; d <= 16; d++ {
		pay := fmt.Sprintf("2024-05-%02d", d)
		assert.Equal(t, 25.0, CalcFine("2024-05-01", pay), "pay %s", pay)
	}
	// Sixteen through thirty days late is two buckets.
	assert.Equal(t, 50.0, CalcFine("2024-05-01", "2024-05-17"))
	assert.Equal(t, 50.0, CalcFine("2024-05-01", "2024-05-31"))
	assert.Equal(t, 75.0, CalcFine("2024-05-01", "2024-06-01"))
}

func TestCalcFineNonDecreasing(t *testing.T) {
	prev := 0.0
	for d := 0; d < 120; d++ {
		pay := addDays("2024-01-10", d)
		fine := CalcFine("2024-01-10", pay)
		assert.GreaterOrEqual(t, fine, prev, "day offset %d", d)
		prev = fine
	}
}

func TestCalcFineSlashDates(t *testing.T) {
	// The sheet emits D/M/YYYY; both forms must agree.
	assert.Equal(t, CalcFine("2024-05-01", "2024-05-20"), CalcFine("1/5/2024", "20/5/2024"))
}

func TestFinePolicyCustomSteps(t *testing.T) {
	p := FinePolicy{StepDays: 7, StepAmount: 10}
	assert.Equal(t, 10.0, p.Calc("2024-05-01", "2024-05-08"))
	assert.Equal(t, 20.0, p.Calc("2024-05-01", "2024-05-09"))
}

func addDays(iso string, n int) string {
	t, _ := ParseDate(iso)
	return t.AddDate(0, 0, n).Format(ISODate)
}
