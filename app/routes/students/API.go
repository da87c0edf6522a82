package students

import (
	"github.com/ayathanschool/fee-app/app/fees"
	"github.com/ayathanschool/fee-app/app/reports"
	"github.com/ayathanschool/fee-app/app/routes/auth"
	"github.com/ayathanschool/fee-app/app/store"
	"github.com/gofiber/fiber/v2"
)

// effectiveClass collapses the requested class with the viewer's
// restriction; a class teacher only ever sees their own class.
func effectiveClass(c *fiber.Ctx, requested string) string {
	if restricted := auth.SessionFromCtx(c).RestrictedClass(); restricted != "" {
		return restricted
	}
	return requested
}

func GetStudentsAPI(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		class := effectiveClass(c, c.Query("class"))
		return c.JSON(fiber.Map{
			"success": true,
			"data":    st.SearchStudents("", class),
		})
	}
}

func SearchStudentsAPI(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		class := effectiveClass(c, c.Query("class"))
		return c.JSON(fiber.Map{
			"success": true,
			"data":    st.SearchStudents(c.Query("q"), class),
		})
	}
}

func GetClassesAPI(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if restricted := auth.SessionFromCtx(c).RestrictedClass(); restricted != "" {
			return c.JSON(fiber.Map{"success": true, "data": []string{restricted}})
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    reports.Classes(st.Students()),
		})
	}
}

func GetStudentAPI(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		student, ok := st.FindStudent(c.Params("admNo"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "student not found")
		}
		if restricted := auth.SessionFromCtx(c).RestrictedClass(); restricted != "" &&
			fees.NormKey(student.Class) != fees.NormKey(restricted) {
			return fiber.NewError(fiber.StatusForbidden, "student is not in your class")
		}
		return c.JSON(fiber.Map{"success": true, "data": student})
	}
}

// GetFeeStatusAPI resolves the student's obligations against the
// cached history, without the authoritative per-head server check;
// that check belongs to the payment flow.
func GetFeeStatusAPI(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		student, ok := st.FindStudent(c.Params("admNo"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "student not found")
		}
		if restricted := auth.SessionFromCtx(c).RestrictedClass(); restricted != "" &&
			fees.NormKey(student.Class) != fees.NormKey(restricted) {
			return fiber.NewError(fiber.StatusForbidden, "student is not in your class")
		}

		list := fees.ResolveObligations(student, st.FeeHeads(), st.PaymentIndexFor(student.AdmNo), "")
		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"student": student,
				"items":   list.Items,
			},
		})
	}
}
