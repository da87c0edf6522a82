package config

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// Load alone must never demand server-only settings; the migrate and
// seed tools run with nothing but a database URL.
func TestLoadWithoutServerSettings(t *testing.T) {
	for _, key := range []string{"PORT", "FEE_BACKEND", "JWT_SECRET", "SHEETS_URL", "FINE_STEP_DAYS", "FINE_STEP_AMOUNT"} {
		t.Setenv(key, "")
	}

	cfg := Load(testLogger())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendSheets, cfg.Backend)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, 15, cfg.FineStepDays)
	assert.Equal(t, 25.0, cfg.FineStepAmount)
	assert.Same(t, cfg, AppConfig)
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FEE_BACKEND", BackendPostgres)
	t.Setenv("FINE_STEP_DAYS", "7")
	t.Setenv("FINE_STEP_AMOUNT", "100")
	t.Setenv("ADMIN_CODE", "head-2026")

	cfg := Load(testLogger())
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, BackendPostgres, cfg.Backend)
	assert.Equal(t, 7, cfg.FineStepDays)
	assert.Equal(t, 100.0, cfg.FineStepAmount)
	assert.Equal(t, "head-2026", cfg.AdminCode)
}
