package payments

import (
	"github.com/ayathanschool/fee-app/app/gateway"
	"github.com/ayathanschool/fee-app/app/models"
	"github.com/ayathanschool/fee-app/app/routes/auth"
	"github.com/ayathanschool/fee-app/app/store"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func SetupPaymentsRoutes(app *fiber.App, st *store.Store, gw gateway.Gateway, log *logrus.Logger) {
	api := app.Group("/api/payments")
	api.Use(auth.AuthMiddleware)

	// Any signed-in role can look at obligations; collecting money is
	// for the office.
	api.Get("/obligations", GetObligationsAPI(st, gw, log))
	api.Get("/check", CheckPaymentAPI(gw))

	collect := auth.RoleMiddleware(models.RoleAdmin, models.RoleAccount)
	api.Post("/", collect, SubmitPaymentAPI(st, gw, log))
}
