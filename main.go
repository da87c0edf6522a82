package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/ayathanschool/fee-app/app/config"
	"github.com/ayathanschool/fee-app/app/database"
	"github.com/ayathanschool/fee-app/app/fees"
	"github.com/ayathanschool/fee-app/app/gateway"
	"github.com/ayathanschool/fee-app/app/notify"
	"github.com/ayathanschool/fee-app/app/routes/auth"
	"github.com/ayathanschool/fee-app/app/routes/payments"
	"github.com/ayathanschool/fee-app/app/routes/reminders"
	"github.com/ayathanschool/fee-app/app/routes/reports"
	"github.com/ayathanschool/fee-app/app/routes/students"
	"github.com/ayathanschool/fee-app/app/routes/transactions"
	"github.com/ayathanschool/fee-app/app/services"
	"github.com/ayathanschool/fee-app/app/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/sirupsen/logrus"
)

// customErrorHandler returns JSON for /api paths and rendered pages
// for everything else.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	if len(c.Path()) >= 4 && c.Path()[:4] == "/api" {
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"code":    code,
		})
	}

	switch code {
	case 404:
		return c.Status(404).Render("404", fiber.Map{
			"Title": "Page Not Found - Fee Collection",
		})
	case 401:
		return c.Redirect("/auth/login")
	default:
		return c.Status(code).Render("error", fiber.Map{
			"Title":        "Error - Fee Collection",
			"ErrorCode":    code,
			"ErrorMessage": err.Error(),
		})
	}
}

// finePolicyFromConfig turns the FINE_STEP_* knobs into the policy
// every fine computation uses.
func finePolicyFromConfig(cfg *config.Config) fees.FinePolicy {
	return fees.FinePolicy{StepDays: cfg.FineStepDays, StepAmount: cfg.FineStepAmount}
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}
	return log
}

func main() {
	log := newLogger()

	// School time: everything date-based runs in IST.
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		log.Warnf("failed to load Asia/Kolkata, falling back to UTC+5:30: %v", err)
		time.Local = time.FixedZone("IST", 5*3600+1800)
	} else {
		time.Local = loc
	}

	cfg := config.Load(log)
	cfg.RequireServer(log)
	fees.DefaultFinePolicy = finePolicyFromConfig(cfg)

	var gw gateway.Gateway
	switch cfg.Backend {
	case config.BackendPostgres:
		cfg.InitDB(log)
		defer config.GetDB().Close()
		if err := database.RunMigrations(config.GetDB(), log); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
		gw = gateway.NewPostgresGateway(config.GetDB(), log)
	default:
		gw = gateway.NewSheetsClient(cfg.SheetsURL, cfg.SheetsAPIKey, log)
	}
	log.WithFields(logrus.Fields{"backend": cfg.Backend}).Info("gateway ready")

	st := store.New(gw, log)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := st.Load(ctx); err != nil {
		log.Fatalf("initial data load failed: %v", err)
	}
	cancel()

	sender := notify.NewSender(cfg.SMTP, log)
	scheduler := services.StartScheduler(st, sender, log)
	defer scheduler.Stop()

	engine := html.New("./app/templates", ".html")
	engine.AddFunc("json", func(v interface{}) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	})

	app := fiber.New(fiber.Config{
		Views:             engine,
		ViewsLayout:       "layouts/main",
		PassLocalsToViews: true,
		ErrorHandler:      customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	app.Static("/static", "./static")

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/auth/login")
	})

	auth.SetupAuthRoutes(app)
	students.SetupStudentsRoutes(app, st)
	payments.SetupPaymentsRoutes(app, st, gw, log)
	transactions.SetupTransactionsRoutes(app, st, gw, log)
	reports.SetupReportsRoutes(app, st)
	reminders.SetupRemindersRoutes(app, st, sender, log)

	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Page not found")
	})

	log.Infof("server starting on :%s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
