package payments

import (
	"context"
	"errors"
	"time"

	"github.com/ayathanschool/fee-app/app/fees"
	"github.com/ayathanschool/fee-app/app/gateway"
	"github.com/ayathanschool/fee-app/app/models"
	"github.com/ayathanschool/fee-app/app/routes/auth"
	"github.com/ayathanschool/fee-app/app/store"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var validate = validator.New()

func resolveStudent(c *fiber.Ctx, st *store.Store, admNo string) (models.Student, error) {
	student, ok := st.FindStudent(admNo)
	if !ok {
		return models.Student{}, fiber.NewError(fiber.StatusNotFound, "student not found")
	}
	if restricted := auth.SessionFromCtx(c).RestrictedClass(); restricted != "" &&
		fees.NormKey(student.Class) != fees.NormKey(restricted) {
		return models.Student{}, fiber.NewError(fiber.StatusForbidden, "student is not in your class")
	}
	return student, nil
}

// GetObligationsAPI resolves the obligation list for a payment date and
// confirms the unpaid rows against the server before returning, so the
// counter sees the authoritative paid state.
func GetObligationsAPI(st *store.Store, gw gateway.Gateway, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		admNo := c.Query("admNo")
		if admNo == "" {
			return fiber.NewError(fiber.StatusBadRequest, "admNo is required")
		}
		student, err := resolveStudent(c, st, admNo)
		if err != nil {
			return err
		}

		date := c.Query("date")
		if date == "" {
			date = time.Now().Format(fees.ISODate)
		}
		if _, ok := fees.ParseDate(date); !ok {
			return fiber.NewError(fiber.StatusBadRequest, "invalid date")
		}

		list := fees.ResolveObligations(student, st.FeeHeads(), st.PaymentIndexFor(student.AdmNo), date)
		list.ConfirmAgainstServer(c.Context(), gw.CheckPaymentStatus, log)

		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"student":     student,
				"paymentDate": list.PaymentDate,
				"items":       list.Items,
			},
		})
	}
}

// CheckPaymentAPI is the single-head authoritative check, exposed for
// spot verification at the counter.
func CheckPaymentAPI(gw gateway.Gateway) fiber.Handler {
	return func(c *fiber.Ctx) error {
		admNo, feeHead := c.Query("admNo"), c.Query("feeHead")
		if admNo == "" || feeHead == "" {
			return fiber.NewError(fiber.StatusBadRequest, "admNo and feeHead are required")
		}
		res, err := gw.CheckPaymentStatus(c.Context(), admNo, feeHead)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "payment check failed")
		}
		return c.JSON(fiber.Map{"success": true, "data": res})
	}
}

type submitItem struct {
	FeeHead   string   `json:"feeHead" validate:"required"`
	Amount    *float64 `json:"amount" validate:"omitempty,gte=0"`
	Fine      *float64 `json:"fine" validate:"omitempty,gte=0"`
	WaiveFine bool     `json:"waiveFine"`
}

type submitRequest struct {
	AdmNo   string       `json:"admNo" validate:"required"`
	Date    string       `json:"date"`
	Mode    string       `json:"mode" validate:"required"`
	Remarks string       `json:"remarks"`
	Items   []submitItem `json:"items" validate:"required,min=1,dive"`
}

// SubmitPaymentAPI rebuilds the obligation list server-side, applies
// the client's selections and edits, and runs the submission workflow.
// The client never dictates paid state; it only names heads and edits.
func SubmitPaymentAPI(st *store.Store, gw gateway.Gateway, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req submitRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		student, err := resolveStudent(c, st, req.AdmNo)
		if err != nil {
			return err
		}

		date := req.Date
		if date == "" {
			date = time.Now().Format(fees.ISODate)
		}
		if _, ok := fees.ParseDate(date); !ok {
			return fiber.NewError(fiber.StatusBadRequest, "invalid date")
		}

		list := fees.ResolveObligations(student, st.FeeHeads(), st.PaymentIndexFor(student.AdmNo), date)
		for _, item := range req.Items {
			i := findObligation(list, item.FeeHead)
			if i < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "unknown fee head: "+item.FeeHead)
			}
			if !list.Toggle(i) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"success":   false,
					"error":     "these fees have already been paid",
					"paidItems": []string{item.FeeHead},
				})
			}
			if item.Amount != nil {
				list.SetAmount(i, *item.Amount)
			}
			if item.Fine != nil {
				list.SetFine(i, *item.Fine)
			}
			if item.WaiveFine {
				list.Waive(i)
			}
		}

		wf := fees.NewWorkflow(gw, log)
		refresh := func(ctx context.Context) ([]models.Transaction, error) {
			if err := st.RefreshTransactions(ctx); err != nil {
				return nil, err
			}
			return st.Transactions(), nil
		}

		receipt, err := wf.Submit(c.Context(), list, st.FeeHeads(), req.Mode, req.Remarks, refresh)
		if err != nil {
			var verr *fees.ValidationError
			if errors.As(err, &verr) {
				return fiber.NewError(fiber.StatusBadRequest, verr.Msg)
			}
			if dup, ok := gateway.IsDuplicatePayment(err); ok {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"success":   false,
					"error":     "these fees have already been paid",
					"paidItems": dup.PaidItems,
				})
			}
			log.Errorf("payment submission failed: %v", err)
			return fiber.NewError(fiber.StatusBadGateway, "payment could not be saved, nothing was charged")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"receipt":      receipt,
				"total":        receipt.Total(),
				"totalInWords": receipt.TotalInWords(),
			},
		})
	}
}

func findObligation(list *fees.ObligationList, feeHead string) int {
	key := fees.NormKey(feeHead)
	for i := range list.Items {
		if fees.NormKey(list.Items[i].FeeHead) == key {
			return i
		}
	}
	return -1
}
