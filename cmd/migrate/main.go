// Applies the fee schema to the configured postgres database. Safe to
// run repeatedly.
package main

import (
	"github.com/ayathanschool/fee-app/app/config"
	"github.com/ayathanschool/fee-app/app/database"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()

	cfg := config.Load(log)
	cfg.InitDB(log)
	db := config.GetDB()
	defer db.Close()

	if err := database.RunMigrations(db, log); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}
	log.Info("schema is up to date")
}
