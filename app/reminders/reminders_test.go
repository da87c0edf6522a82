package reminders

import (
	"strings"
	"testing"
	"time"

	"github.com/ayathanschool/fee-app/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	roster = []models.Student{
		{AdmNo: "101", Name: "Asha Rao", Class: "7A", Phone: "9876543210"},
		{AdmNo: "102", Name: "Bilal Khan", Class: "7A", Phone: ""},
		{AdmNo: "201", Name: "Chitra Iyer", Class: "10B", Phone: "09876500001"},
	}
	schedule = []models.FeeHead{
		{Class: "7A", FeeHead: "Tuition", Amount: 5000, DueDate: "2024-04-10"},
		{Class: "7 a", FeeHead: "Transport", Amount: 1200, DueDate: "2024-05-10"},
		{Class: "10B", FeeHead: "Tuition", Amount: 8000, DueDate: "2024-04-10"},
	}
)

func paidIndex() map[string]map[string]bool {
	return map[string]map[string]bool{
		"101": {"tuition": true},
	}
}

func TestBuildItemsSkipsPaid(t *testing.T) {
	items := BuildItems(roster, schedule, paidIndex(), Options{})
	require.Len(t, items, 4)

	// Asha paid tuition; her only item is transport (class matched
	// despite "7 a" spacing).
	assert.Equal(t, "101", items[0].Student.AdmNo)
	assert.Equal(t, "Transport", items[0].Head.FeeHead)
	// Bilal owes both.
	assert.Equal(t, "102", items[1].Student.AdmNo)
	assert.Equal(t, "102", items[2].Student.AdmNo)
	// Chitra owes tuition.
	assert.Equal(t, "201", items[3].Student.AdmNo)
}

func TestBuildItemsClassFilter(t *testing.T) {
	items := BuildItems(roster, schedule, paidIndex(), Options{Class: "10 b"})
	require.Len(t, items, 1)
	assert.Equal(t, "201", items[0].Student.AdmNo)
}

func TestBuildItemsOverdueOnly(t *testing.T) {
	asOf := time.Date(2024, time.April, 20, 0, 0, 0, 0, time.Local)
	items := BuildItems(roster, schedule, paidIndex(), Options{OverdueOnly: true, AsOf: asOf})
	for _, it := range items {
		assert.Equal(t, "Tuition", it.Head.FeeHead, "transport is not due yet")
	}
	require.Len(t, items, 2)
}

func TestGroupByStudent(t *testing.T) {
	groups := GroupByStudent(BuildItems(roster, schedule, paidIndex(), Options{}))
	require.Len(t, groups, 3)

	assert.Equal(t, "102", groups[1].Student.AdmNo)
	require.Len(t, groups[1].Heads, 2)
	assert.Equal(t, 6200.0, groups[1].Total())
	assert.Equal(t, "2024-04-10", groups[1].EarliestDue())
}

func TestRenderGroupPlaceholders(t *testing.T) {
	g := StudentGroup{
		Student: models.Student{AdmNo: "102", Name: "Bilal Khan", Class: "7A"},
		Heads: []models.FeeHead{
			{FeeHead: "Tuition", Amount: 5000, DueDate: "2024-04-10"},
			{FeeHead: "Transport", Amount: 1200, DueDate: "2024-05-10"},
		},
	}
	msg := RenderGroup(DefaultTemplate, g)
	assert.Contains(t, msg, "Bilal Khan (102, Class 7A)")
	assert.Contains(t, msg, "Tuition: ₹5,000 (Due 10/04/2024)")
	assert.Contains(t, msg, "Transport: ₹1,200 (Due 10/05/2024)")
	assert.Contains(t, msg, "Total due: ₹6,200")
}

func TestRenderItem(t *testing.T) {
	it := Item{
		Student: models.Student{AdmNo: "201", Name: "Chitra Iyer", Class: "10B"},
		Head:    models.FeeHead{FeeHead: "Tuition", Amount: 8000, DueDate: "2024-04-10"},
	}
	msg := RenderItem("{name}|{admNo}|{class}|{feeHead}|{amount}|{dueDate}", it)
	assert.Equal(t, "Chitra Iyer|201|10B|Tuition|8,000|10/04/2024", msg)
}

func TestCleanPhone(t *testing.T) {
	assert.Equal(t, "919876543210", CleanPhone("9876543210"))
	assert.Equal(t, "919876543210", CleanPhone("098765 43210"))
	assert.Equal(t, "919876543210", CleanPhone("+91 98765-43210"))
	assert.Equal(t, "", CleanPhone("12345"))
	assert.Equal(t, "", CleanPhone(""))
}

func TestWhatsAppLink(t *testing.T) {
	link := WhatsAppLink("9876543210", "Fee due: ₹5,000 & more")
	assert.True(t, strings.HasPrefix(link, "https://wa.me/919876543210?text="), link)
	assert.Contains(t, link, "%26", "ampersand must be escaped")
	assert.NotContains(t, link, " ")

	assert.Empty(t, WhatsAppLink("bad", "msg"))
}

func TestSortGroups(t *testing.T) {
	groups := GroupByStudent(BuildItems(roster, schedule, paidIndex(), Options{}))
	SortGroups(groups)
	assert.Equal(t, "201", groups[0].Student.AdmNo, "10b sorts before 7a")
}

func TestItemsCSV(t *testing.T) {
	items := []Item{{
		Student: models.Student{AdmNo: "101", Name: "Asha Rao", Class: "7A", Phone: "9876543210"},
		Head:    models.FeeHead{FeeHead: "Transport", Amount: 1200, DueDate: "2024-05-10"},
	}}
	lines := strings.Split(ItemsCSV(items), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "AdmNo,Name,Class,Phone,FeeHead,Amount,DueDate", lines[0])
	assert.Equal(t, `101,"Asha Rao",7A,9876543210,"Transport",1200,2024-05-10`, lines[1])
}

func TestGroupsCSV(t *testing.T) {
	groups := []StudentGroup{{
		Student: models.Student{AdmNo: "102", Name: "Bilal Khan", Class: "7A", Phone: "9000000000"},
		Heads: []models.FeeHead{
			{FeeHead: "Tuition", Amount: 5000, DueDate: "2024-04-10"},
			{FeeHead: "Transport", Amount: 1200, DueDate: "2024-05-10"},
		},
	}}
	lines := strings.Split(GroupsCSV(groups), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "AdmNo,Name,Class,Phone,Heads,Total,EarliestDue", lines[0])
	assert.Equal(t, `102,"Bilal Khan",7A,9000000000,"Tuition; Transport",6200,2024-04-10`, lines[1])
}
