package reminders

import (
	"strings"

	"github.com/ayathanschool/fee-app/app/config"
	"github.com/ayathanschool/fee-app/app/notify"
	"github.com/ayathanschool/fee-app/app/reminders"
	"github.com/ayathanschool/fee-app/app/routes/auth"
	"github.com/ayathanschool/fee-app/app/store"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func optionsFromQuery(c *fiber.Ctx) reminders.Options {
	opts := reminders.Options{
		Class:       c.Query("class"),
		OverdueOnly: c.Query("overdueOnly") == "true",
	}
	if restricted := auth.SessionFromCtx(c).RestrictedClass(); restricted != "" {
		opts.Class = restricted
	}
	return opts
}

// reminderView is one grouped reminder with the rendered message and
// its WhatsApp deep link.
type reminderView struct {
	AdmNo       string   `json:"admNo"`
	Name        string   `json:"name"`
	Class       string   `json:"class"`
	Phone       string   `json:"phone"`
	Heads       []string `json:"heads"`
	Total       float64  `json:"total"`
	EarliestDue string   `json:"earliestDue"`
	Message     string   `json:"message"`
	WhatsApp    string   `json:"whatsapp,omitempty"`
}

func buildViews(st *store.Store, opts reminders.Options, template string) []reminderView {
	if template == "" {
		template = reminders.DefaultTemplate
	}
	groups := reminders.GroupByStudent(
		reminders.BuildItems(st.Students(), st.FeeHeads(), st.GlobalPaidIndex(), opts))
	reminders.SortGroups(groups)

	views := make([]reminderView, 0, len(groups))
	for _, g := range groups {
		heads := make([]string, 0, len(g.Heads))
		for _, h := range g.Heads {
			heads = append(heads, h.FeeHead)
		}
		msg := reminders.RenderGroup(template, g)
		views = append(views, reminderView{
			AdmNo:       g.Student.AdmNo,
			Name:        g.Student.Name,
			Class:       g.Student.Class,
			Phone:       g.Student.Phone,
			Heads:       heads,
			Total:       g.Total(),
			EarliestDue: g.EarliestDue(),
			Message:     msg,
			WhatsApp:    reminders.WhatsAppLink(g.Student.Phone, msg),
		})
	}
	return views
}

// GetRemindersAPI returns the pending-fee list grouped per student,
// each with a rendered message and wa.me link.
func GetRemindersAPI(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"data":    buildViews(st, optionsFromQuery(c), c.Query("template")),
		})
	}
}

// ExportCSVAPI serves the reminder list as CSV, itemized by default or
// grouped per student with grouped=true.
func ExportCSVAPI(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		opts := optionsFromQuery(c)
		items := reminders.BuildItems(st.Students(), st.FeeHeads(), st.GlobalPaidIndex(), opts)

		var body, name string
		if c.Query("grouped") == "true" {
			groups := reminders.GroupByStudent(items)
			reminders.SortGroups(groups)
			body = reminders.GroupsCSV(groups)
			name = "reminders-grouped.csv"
		} else {
			body = reminders.ItemsCSV(items)
			name = "reminders.csv"
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
		return c.SendString(body)
	}
}

// SendDigestAPI mails the grouped reminder list to the configured
// address.
func SendDigestAPI(st *store.Store, sender *notify.Sender, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sender == nil || !sender.Configured() {
			return fiber.NewError(fiber.StatusServiceUnavailable, "mail is not configured")
		}
		to := config.AppConfig.SMTP.DigestTo
		if to == "" {
			return fiber.NewError(fiber.StatusServiceUnavailable, "no digest recipient configured")
		}

		views := buildViews(st, optionsFromQuery(c), "")
		var b strings.Builder
		for _, v := range views {
			b.WriteString(v.Message)
			b.WriteString("\n\n")
		}
		if err := sender.Send(to, "Pending fee reminders", b.String()); err != nil {
			log.Errorf("digest send failed: %v", err)
			return fiber.NewError(fiber.StatusBadGateway, "digest send failed")
		}
		return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"students": len(views)}})
	}
}
