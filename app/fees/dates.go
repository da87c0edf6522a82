package fees

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ISODate is the canonical wire format for dates.
const ISODate = "2006-01-02"

var slashDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)

// ParseDate parses a date in ISO (YYYY-MM-DD) or slash (D/M/YYYY)
// form, the two shapes the legacy sheet produces. Anything else is
// treated as "no date" rather than an error; fee logic fails soft on
// bad dates.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(ISODate, s, time.Local); err == nil {
		return t, true
	}
	if m := slashDate.FindStringSubmatch(s); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.Local)
		// Reject rollovers like 31/2/2024.
		if t.Day() != d || int(t.Month()) != mo {
			return time.Time{}, false
		}
		return t, true
	}
	// Last resort: timestamps the sheet sometimes emits.
	if t, err := time.ParseInLocation(time.RFC3339, s, time.Local); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// NormKey normalizes a join key (admission number, class) for
// comparison: all whitespace stripped, lowercased. Raw string equality
// is never used for identity.
func NormKey(v string) string {
	var b strings.Builder
	for _, r := range v {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// FormatDisplayDate renders a stored date as DD/MM/YYYY for receipts
// and reminder messages. Unparseable input comes back unchanged, empty
// input as "-".
func FormatDisplayDate(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format("02/01/2006")
}

// FormatINR renders an amount with Indian digit grouping and no
// decimals, e.g. 1234567 -> "12,34,567".
func FormatINR(n float64) string {
	v := int64(n + 0.5)
	if n < 0 {
		v = int64(n - 0.5)
	}
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	if len(s) > 3 {
		head, tail := s[:len(s)-3], s[len(s)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		parts = append([]string{head}, parts...)
		s = strings.Join(parts, ",") + "," + tail
	}
	if neg {
		return "-" + s
	}
	return s
}
