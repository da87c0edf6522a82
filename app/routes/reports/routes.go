package reports

import (
	"github.com/ayathanschool/fee-app/app/routes/auth"
	"github.com/ayathanschool/fee-app/app/store"
	"github.com/gofiber/fiber/v2"
)

func SetupReportsRoutes(app *fiber.App, st *store.Store) {
	api := app.Group("/api/reports")
	api.Use(auth.AuthMiddleware)

	api.Get("/", GetReportAPI(st))
	api.Get("/filters", GetFilterOptionsAPI(st))
	api.Get("/export.csv", ExportCSVAPI(st))
	api.Get("/export.xlsx", ExportXLSXAPI(st))
}
