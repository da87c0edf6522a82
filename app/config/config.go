package config

import (
	"database/sql"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Backend selects where fee data lives.
const (
	BackendSheets   = "sheets"
	BackendPostgres = "postgres"
)

type Config struct {
	Port    string
	Backend string

	// Sheets backend
	SheetsURL    string
	SheetsAPIKey string

	// Postgres backend
	DBConn string
	DB     *sql.DB

	JWTSecret string

	// Access codes; the role is implied by which code matched.
	AdminCode   string
	AccountCode string
	TeacherCode string // prefix; the class follows the dash

	FineStepDays   int
	FineStepAmount float64

	SMTP SMTPConfig
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	DigestTo string
}

var AppConfig *Config

// Load reads .env when present and assembles the runtime config.
// Nothing is mandatory at this point; the server entry point calls
// RequireServer for the settings only it needs, so the migrate and
// seed tools can run with just a database URL.
func Load(log *logrus.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file, using process environment")
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Backend:        getEnv("FEE_BACKEND", BackendSheets),
		SheetsURL:      getEnv("SHEETS_URL", ""),
		SheetsAPIKey:   getEnv("SHEETS_API_KEY", ""),
		DBConn:         getEnv("DATABASE_URL", "host=localhost port=5432 user=postgres dbname=fees sslmode=disable"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		AdminCode:      getEnv("ADMIN_CODE", "principal-2025"),
		AccountCode:    getEnv("ACCOUNT_CODE", "account-2025"),
		TeacherCode:    getEnv("TEACHER_CODE_PREFIX", "teacher"),
		FineStepDays:   getEnvInt("FINE_STEP_DAYS", 15),
		FineStepAmount: float64(getEnvInt("FINE_STEP_AMOUNT", 25)),
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
			DigestTo: getEnv("DIGEST_TO", ""),
		},
	}
	AppConfig = cfg
	return cfg
}

// RequireServer enforces the settings the web server cannot run
// without.
func (c *Config) RequireServer(log *logrus.Logger) {
	if c.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	if c.Backend == BackendSheets && c.SheetsURL == "" {
		log.Fatal("SHEETS_URL is required with the sheets backend")
	}
}

// InitDB opens the connection pool for the postgres backend.
func (c *Config) InitDB(log *logrus.Logger) {
	db, err := sql.Open("postgres", c.DBConn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	c.DB = db
	log.Info("database connected")
}

func GetDB() *sql.DB {
	return AppConfig.DB
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
