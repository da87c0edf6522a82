package reminders

import (
	"github.com/ayathanschool/fee-app/app/notify"
	"github.com/ayathanschool/fee-app/app/routes/auth"
	"github.com/ayathanschool/fee-app/app/store"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func SetupRemindersRoutes(app *fiber.App, st *store.Store, sender *notify.Sender, log *logrus.Logger) {
	api := app.Group("/api/reminders")
	api.Use(auth.AuthMiddleware)

	api.Get("/", GetRemindersAPI(st))
	api.Get("/export.csv", ExportCSVAPI(st))
	api.Post("/digest", SendDigestAPI(st, sender, log))
}
