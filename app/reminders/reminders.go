// Package reminders builds the pending-fee reminder list from the
// roster, the fee schedule and the paid index, and renders per-student
// WhatsApp messages from a placeholder template.
package reminders

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/ayathanschool/fee-app/app/fees"
	"github.com/ayathanschool/fee-app/app/models"
)

// DefaultTemplate is the message sent when the school has not saved a
// custom one. Supported placeholders: {name} {admNo} {class} {feeHead}
// {amount} {dueDate} {lines} {total}.
const DefaultTemplate = "Dear Parent, the following fee payment for {name} ({admNo}, Class {class}) is pending:\n{lines}\nTotal due: ₹{total}\nKindly pay at the school office at the earliest. Ignore if already paid."

// Options restrict which schedule rows become reminder items.
type Options struct {
	Class       string    // limit to one class; empty means all
	OverdueOnly bool      // keep only heads whose due date has passed
	AsOf        time.Time // reference date for OverdueOnly; zero means now
}

// Item is one unpaid fee head for one student.
type Item struct {
	Student models.Student
	Head    models.FeeHead
}

// StudentGroup collects all of a student's unpaid heads so one message
// covers everything.
type StudentGroup struct {
	Student models.Student
	Heads   []models.FeeHead
}

// Total is the sum of the grouped head amounts. Fines are not included
// in reminders; they are settled at the counter.
func (g StudentGroup) Total() float64 {
	var t float64
	for _, h := range g.Heads {
		t += h.Amount
	}
	return t
}

// EarliestDue returns the earliest parseable due date among the
// grouped heads, empty when none parse.
func (g StudentGroup) EarliestDue() string {
	var best time.Time
	found := false
	for _, h := range g.Heads {
		d, ok := fees.ParseDate(h.DueDate)
		if !ok {
			continue
		}
		if !found || d.Before(best) {
			best = d
			found = true
		}
	}
	if !found {
		return ""
	}
	return best.Format(fees.ISODate)
}

// BuildItems crosses the roster with the schedule and keeps the pairs
// the paid index does not cover. paid is keyed by normalized admission
// number, then normalized fee head.
func BuildItems(students []models.Student, schedule []models.FeeHead, paid map[string]map[string]bool, opts Options) []Item {
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}
	classKey := fees.NormKey(opts.Class)

	var items []Item
	for _, s := range students {
		if classKey != "" && fees.NormKey(s.Class) != classKey {
			continue
		}
		studentPaid := paid[fees.NormKey(s.AdmNo)]
		for _, h := range schedule {
			if fees.NormKey(h.Class) != fees.NormKey(s.Class) {
				continue
			}
			if studentPaid[fees.NormKey(h.FeeHead)] {
				continue
			}
			if opts.OverdueOnly {
				due, ok := fees.ParseDate(h.DueDate)
				if !ok || !due.Before(asOf) {
					continue
				}
			}
			items = append(items, Item{Student: s, Head: h})
		}
	}
	return items
}

// GroupByStudent folds items into one group per student, preserving
// roster order. Heads within a group keep schedule order.
func GroupByStudent(items []Item) []StudentGroup {
	byAdm := make(map[string]int)
	var groups []StudentGroup
	for _, it := range items {
		key := fees.NormKey(it.Student.AdmNo)
		idx, ok := byAdm[key]
		if !ok {
			idx = len(groups)
			byAdm[key] = idx
			groups = append(groups, StudentGroup{Student: it.Student})
		}
		groups[idx].Heads = append(groups[idx].Heads, it.Head)
	}
	return groups
}

// RenderItem fills the template for a single unpaid head.
func RenderItem(tmpl string, it Item) string {
	r := strings.NewReplacer(
		"{name}", it.Student.Name,
		"{admNo}", it.Student.AdmNo,
		"{class}", it.Student.Class,
		"{feeHead}", it.Head.FeeHead,
		"{amount}", fees.FormatINR(it.Head.Amount),
		"{dueDate}", fees.FormatDisplayDate(it.Head.DueDate),
		"{lines}", headLine(it.Head),
		"{total}", fees.FormatINR(it.Head.Amount),
	)
	return r.Replace(tmpl)
}

// RenderGroup fills the template for all of a student's unpaid heads.
// {feeHead}, {amount} and {dueDate} refer to the first head when the
// template uses the single-head placeholders.
func RenderGroup(tmpl string, g StudentGroup) string {
	if len(g.Heads) == 0 {
		return ""
	}
	lines := make([]string, 0, len(g.Heads))
	for _, h := range g.Heads {
		lines = append(lines, headLine(h))
	}
	first := g.Heads[0]
	r := strings.NewReplacer(
		"{name}", g.Student.Name,
		"{admNo}", g.Student.AdmNo,
		"{class}", g.Student.Class,
		"{feeHead}", first.FeeHead,
		"{amount}", fees.FormatINR(first.Amount),
		"{dueDate}", fees.FormatDisplayDate(first.DueDate),
		"{lines}", strings.Join(lines, "\n"),
		"{total}", fees.FormatINR(g.Total()),
	)
	return r.Replace(tmpl)
}

func headLine(h models.FeeHead) string {
	line := h.FeeHead + ": ₹" + fees.FormatINR(h.Amount)
	if h.DueDate != "" {
		line += " (Due " + fees.FormatDisplayDate(h.DueDate) + ")"
	}
	return line
}

// CleanPhone normalizes an Indian mobile number to digits with the 91
// country code, or returns "" when the number is unusable.
func CleanPhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	switch {
	case len(d) == 10:
		return "91" + d
	case len(d) == 11 && strings.HasPrefix(d, "0"):
		return "91" + d[1:]
	case len(d) == 12 && strings.HasPrefix(d, "91"):
		return d
	}
	return ""
}

// WhatsAppLink builds a wa.me deep link, or "" when the phone number
// cannot be normalized.
func WhatsAppLink(phone, message string) string {
	p := CleanPhone(phone)
	if p == "" {
		return ""
	}
	return "https://wa.me/" + p + "?text=" + url.QueryEscape(message)
}

// SortGroups orders groups by class then admission number for stable
// digests.
func SortGroups(groups []StudentGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		ci, cj := fees.NormKey(groups[i].Student.Class), fees.NormKey(groups[j].Student.Class)
		if ci != cj {
			return ci < cj
		}
		return groups[i].Student.AdmNo < groups[j].Student.AdmNo
	})
}
