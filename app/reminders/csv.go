package reminders

import (
	"strconv"
	"strings"
)

var itemHeader = []string{"AdmNo", "Name", "Class", "Phone", "FeeHead", "Amount", "DueDate"}

// ItemsCSV renders one line per unpaid head, for mail-merge tools.
func ItemsCSV(items []Item) string {
	lines := []string{strings.Join(itemHeader, ",")}
	for _, it := range items {
		lines = append(lines, strings.Join([]string{
			it.Student.AdmNo,
			quote(it.Student.Name),
			it.Student.Class,
			it.Student.Phone,
			quote(it.Head.FeeHead),
			num(it.Head.Amount),
			it.Head.DueDate,
		}, ","))
	}
	return strings.Join(lines, "\n")
}

var groupHeader = []string{"AdmNo", "Name", "Class", "Phone", "Heads", "Total", "EarliestDue"}

// GroupsCSV renders one line per student with their pending heads
// joined by "; ".
func GroupsCSV(groups []StudentGroup) string {
	lines := []string{strings.Join(groupHeader, ",")}
	for _, g := range groups {
		heads := make([]string, 0, len(g.Heads))
		for _, h := range g.Heads {
			heads = append(heads, h.FeeHead)
		}
		lines = append(lines, strings.Join([]string{
			g.Student.AdmNo,
			quote(g.Student.Name),
			g.Student.Class,
			g.Student.Phone,
			quote(strings.Join(heads, "; ")),
			num(g.Total()),
			g.EarliestDue(),
		}, ","))
	}
	return strings.Join(lines, "\n")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
