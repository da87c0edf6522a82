// Seeds the postgres backend from two CSV files exported from the
// legacy spreadsheet:
//
//	go run ./app/cmd/seed -students students.csv -feeheads feeheads.csv
//
// Student columns: AdmNo,Name,Class,Phone. Fee head columns:
// Class,FeeHead,Amount,DueDate. The fee schedule is replaced wholesale;
// students are upserted by admission number.
package main

import (
	"encoding/csv"
	"flag"
	"os"

	"github.com/ayathanschool/fee-app/app/config"
	"github.com/ayathanschool/fee-app/app/database"
	"github.com/ayathanschool/fee-app/app/models"
	"github.com/sirupsen/logrus"
)

func main() {
	studentsPath := flag.String("students", "", "students CSV path")
	feeHeadsPath := flag.String("feeheads", "", "fee heads CSV path")
	flag.Parse()

	log := logrus.New()
	cfg := config.Load(log)
	cfg.InitDB(log)
	db := config.GetDB()
	defer db.Close()

	if err := database.RunMigrations(db, log); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	if *studentsPath != "" {
		rows := readCSV(log, *studentsPath)
		count := 0
		for _, row := range rows {
			if len(row) < 3 || row[0] == "AdmNo" {
				continue
			}
			s := models.Student{AdmNo: row[0], Name: row[1], Class: row[2]}
			if len(row) > 3 {
				s.Phone = row[3]
			}
			if err := database.UpsertStudent(db, s); err != nil {
				log.Errorf("student %s: %v", s.AdmNo, err)
				continue
			}
			count++
		}
		log.Infof("seeded %d students", count)
	}

	if *feeHeadsPath != "" {
		rows := readCSV(log, *feeHeadsPath)
		if err := database.ClearFeeHeads(db); err != nil {
			log.Fatalf("clear fee heads: %v", err)
		}
		count := 0
		for _, row := range rows {
			if len(row) < 3 || row[0] == "Class" {
				continue
			}
			h := models.FeeHead{Class: row[0], FeeHead: row[1], Amount: database.ParseAmount(row[2])}
			if len(row) > 3 {
				h.DueDate = row[3]
			}
			if err := database.InsertFeeHead(db, h); err != nil {
				log.Errorf("fee head %s/%s: %v", h.Class, h.FeeHead, err)
				continue
			}
			count++
		}
		log.Infof("seeded %d fee heads", count)
	}
}

func readCSV(log *logrus.Logger, path string) [][]string {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}
	return rows
}
