package transactions

import (
	"github.com/ayathanschool/fee-app/app/gateway"
	"github.com/ayathanschool/fee-app/app/models"
	"github.com/ayathanschool/fee-app/app/routes/auth"
	"github.com/ayathanschool/fee-app/app/store"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func SetupTransactionsRoutes(app *fiber.App, st *store.Store, gw gateway.Gateway, log *logrus.Logger) {
	api := app.Group("/api/transactions")
	api.Use(auth.AuthMiddleware)

	api.Get("/", ListTransactionsAPI(st))
	api.Get("/collected", CollectedTotalAPI(st))
	api.Post("/refresh", RefreshAPI(st))

	manage := auth.RoleMiddleware(models.RoleAdmin, models.RoleAccount)
	api.Post("/:receiptNo/void", manage, SetVoidAPI(st, gw, log, true))
	api.Post("/:receiptNo/unvoid", manage, SetVoidAPI(st, gw, log, false))
}
