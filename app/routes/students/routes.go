package students

import (
	"github.com/ayathanschool/fee-app/app/routes/auth"
	"github.com/ayathanschool/fee-app/app/store"
	"github.com/gofiber/fiber/v2"
)

func SetupStudentsRoutes(app *fiber.App, st *store.Store) {
	api := app.Group("/api/students")
	api.Use(auth.AuthMiddleware)
	api.Get("/", GetStudentsAPI(st))
	api.Get("/search", SearchStudentsAPI(st))
	api.Get("/classes", GetClassesAPI(st))
	api.Get("/:admNo", GetStudentAPI(st))
	api.Get("/:admNo/status", GetFeeStatusAPI(st))
}
