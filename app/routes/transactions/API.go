package transactions

import (
	"errors"

	"github.com/ayathanschool/fee-app/app/gateway"
	"github.com/ayathanschool/fee-app/app/routes/auth"
	"github.com/ayathanschool/fee-app/app/store"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ListTransactionsAPI serves the cached history, scoped to the
// viewer's class and optionally filtered by a search query.
func ListTransactionsAPI(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		class := c.Query("class")
		if restricted := auth.SessionFromCtx(c).RestrictedClass(); restricted != "" {
			class = restricted
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    st.SearchTransactions(c.Query("q"), class),
		})
	}
}

func CollectedTotalAPI(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		class := c.Query("class")
		if restricted := auth.SessionFromCtx(c).RestrictedClass(); restricted != "" {
			class = restricted
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    fiber.Map{"collected": st.CollectedTotal(class)},
		})
	}
}

// RefreshAPI forces a history reload, for the manual refresh button.
func RefreshAPI(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := st.RefreshTransactions(c.Context()); err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "refresh failed")
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

// SetVoidAPI toggles the void flag on every row of a receipt. The
// follow-up refresh keeps the cache in step; its failure is logged but
// the toggle already happened server-side, so the call still succeeds.
func SetVoidAPI(st *store.Store, gw gateway.Gateway, log *logrus.Logger, void bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		receiptNo := c.Params("receiptNo")

		var err error
		if void {
			err = gw.VoidReceipt(c.Context(), receiptNo)
		} else {
			err = gw.UnvoidReceipt(c.Context(), receiptNo)
		}
		if err != nil {
			if errors.Is(err, gateway.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "receipt not found")
			}
			return fiber.NewError(fiber.StatusBadGateway, "void update failed")
		}

		if rerr := st.RefreshTransactions(c.Context()); rerr != nil {
			log.Warnf("transaction refresh failed after void toggle: %v", rerr)
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
