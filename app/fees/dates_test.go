package fees

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDateForms(t *testing.T) {
	iso, ok := ParseDate("2024-03-05")
	assert.True(t, ok)
	slash, ok2 := ParseDate("5/3/2024")
	assert.True(t, ok2)
	assert.True(t, iso.Equal(slash))

	_, ok = ParseDate("")
	assert.False(t, ok)
	_, ok = ParseDate("31/2/2024")
	assert.False(t, ok)
	_, ok = ParseDate("soon")
	assert.False(t, ok)
}

func TestNormKey(t *testing.T) {
	assert.Equal(t, "7a", NormKey(" 7 A "))
	assert.Equal(t, NormKey("ADM 101"), NormKey("adm101"))
	assert.Equal(t, "", NormKey("   "))
}

func TestFormatINR(t *testing.T) {
	assert.Equal(t, "0", FormatINR(0))
	assert.Equal(t, "500", FormatINR(500))
	assert.Equal(t, "5,000", FormatINR(5000))
	assert.Equal(t, "1,23,456", FormatINR(123456))
	assert.Equal(t, "1,23,45,678", FormatINR(12345678))
	assert.Equal(t, "-5,000", FormatINR(-5000))
}

func TestFormatDisplayDate(t *testing.T) {
	assert.Equal(t, "05/03/2024", FormatDisplayDate("2024-03-05"))
	assert.Equal(t, "-", FormatDisplayDate(""))
	assert.Equal(t, "whenever", FormatDisplayDate("whenever"))
}
