// Package reports filters, groups and summarizes the transaction
// history for the reports screen and its exports. Everything here is
// read-only over the rows it is given; source data is never mutated.
package reports

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ayathanschool/fee-app/app/fees"
	"github.com/ayathanschool/fee-app/app/models"
)

// Row is a transaction augmented with its parsed date. Rows are built
// once per report run and filtered on demand.
type Row struct {
	models.Transaction
	Parsed  time.Time
	HasDate bool
}

// Status filter values.
const (
	StatusValid  = "Valid"
	StatusVoided = "Voided"
	StatusAll    = "All"
)

// FilterSet is the conjunction of independent predicates applied to
// the row set. Empty or "All" fields do not filter.
type FilterSet struct {
	Status      string
	ViewerClass string // role scoping, applied regardless of Class
	From        string
	To          string
	Class       string
	FeeHead     string
	Mode        string
	Search      string
	MinAmount   *float64
	MaxAmount   *float64
	IncludeFine bool
}

// Summary is the rollup over a filtered row set.
type Summary struct {
	Gross     float64 `json:"gross"`
	Fine      float64 `json:"fine"`
	Included  float64 `json:"included"`
	VoidCount int     `json:"voidCount"`
	Count     int     `json:"count"`
}

// Grouping keys.
const (
	GroupNone    = "none"
	GroupClass   = "class"
	GroupFeeHead = "feeHead"
	GroupMode    = "mode"
	GroupDay     = "day"
	GroupMonth   = "month"
	GroupStudent = "student"
)

// GroupSummary is the rollup for one group bucket.
type GroupSummary struct {
	Key      string  `json:"key"`
	Receipts int     `json:"receipts"`
	Gross    float64 `json:"gross"`
	Fine     float64 `json:"fine"`
	Total    float64 `json:"total"`
}

// BuildRows parses dates up front so every later filter and grouping
// works off the same parse.
func BuildRows(txns []models.Transaction) []Row {
	rows := make([]Row, 0, len(txns))
	for _, t := range txns {
		parsed, ok := fees.ParseDate(t.Date)
		rows = append(rows, Row{Transaction: t, Parsed: parsed, HasDate: ok})
	}
	return rows
}

// Filter applies every predicate of f; the net effect is the
// intersection, independent of order.
func Filter(rows []Row, f FilterSet) []Row {
	from, hasFrom := fees.ParseDate(f.From)
	to, hasTo := fees.ParseDate(f.To)
	if hasTo {
		to = to.Add(24*time.Hour - time.Nanosecond) // inclusive end of day
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))

	var out []Row
	for _, r := range rows {
		switch f.Status {
		case StatusVoided:
			if !r.IsVoided() {
				continue
			}
		case StatusAll:
		default: // Valid
			if r.IsVoided() {
				continue
			}
		}
		if f.ViewerClass != "" && fees.NormKey(r.Class) != fees.NormKey(f.ViewerClass) {
			continue
		}
		if hasFrom && (!r.HasDate || r.Parsed.Before(from)) {
			continue
		}
		if hasTo && (!r.HasDate || r.Parsed.After(to)) {
			continue
		}
		if f.Class != "" && f.Class != "All" && fees.NormKey(r.Class) != fees.NormKey(f.Class) {
			continue
		}
		if f.FeeHead != "" && f.FeeHead != "All" && r.FeeHead != f.FeeHead {
			continue
		}
		if f.Mode != "" && f.Mode != "All" && r.Mode != f.Mode {
			continue
		}
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		amt := r.Amount
		if f.IncludeFine {
			amt += r.Fine
		}
		if f.MinAmount != nil && amt < *f.MinAmount {
			continue
		}
		if f.MaxAmount != nil && amt > *f.MaxAmount {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesSearch(r Row, q string) bool {
	return strings.Contains(strings.ToLower(r.AdmNo), q) ||
		strings.Contains(strings.ToLower(r.Name), q) ||
		strings.Contains(strings.ToLower(r.ReceiptNo), q)
}

// Summarize rolls a filtered row set into totals. Included is gross
// plus fine when includeFine, gross alone otherwise.
func Summarize(rows []Row, includeFine bool) Summary {
	var s Summary
	for _, r := range rows {
		s.Gross += r.Amount
		s.Fine += r.Fine
		if r.IsVoided() {
			s.VoidCount++
		}
	}
	s.Count = len(rows)
	s.Included = s.Gross
	if includeFine {
		s.Included += s.Fine
	}
	return s
}

// Group buckets rows by the chosen key and rolls each bucket up,
// sorted by total descending (key ascending on ties, for stable
// output). GroupNone yields a single "ALL" bucket.
func Group(rows []Row, groupBy string, includeFine bool) []GroupSummary {
	buckets := make(map[string]*GroupSummary)
	var order []string
	for _, r := range rows {
		k := groupKey(r, groupBy)
		g, ok := buckets[k]
		if !ok {
			g = &GroupSummary{Key: k}
			buckets[k] = g
			order = append(order, k)
		}
		g.Receipts++
		g.Gross += r.Amount
		g.Fine += r.Fine
	}
	out := make([]GroupSummary, 0, len(order))
	for _, k := range order {
		g := buckets[k]
		g.Total = g.Gross
		if includeFine {
			g.Total += g.Fine
		}
		out = append(out, *g)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func groupKey(r Row, groupBy string) string {
	switch groupBy {
	case GroupClass:
		return orDash(r.Class)
	case GroupFeeHead:
		return orDash(r.FeeHead)
	case GroupMode:
		return orDash(r.Mode)
	case GroupDay:
		return orDash(r.Date)
	case GroupMonth:
		if !r.HasDate {
			return "-"
		}
		return r.Parsed.Format("2006-01")
	case GroupStudent:
		return fmt.Sprintf("%s (%s)", r.Name, r.AdmNo)
	default:
		return "ALL"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Classes returns the sorted distinct class list of a student roster,
// for filter dropdowns.
func Classes(students []models.Student) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range students {
		if s.Class == "" || seen[s.Class] {
			continue
		}
		seen[s.Class] = true
		out = append(out, s.Class)
	}
	sort.Strings(out)
	return out
}

// Modes returns the sorted distinct payment modes present in the
// history.
func Modes(txns []models.Transaction) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range txns {
		m := strings.TrimSpace(t.Mode)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
