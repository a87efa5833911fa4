package main

import (
	"fmt"
	"log"
	"os"

	"github.com/trezcool/schoolcrm/core"
	"github.com/trezcool/schoolcrm/core/attendance"
	"github.com/trezcool/schoolcrm/core/grading"
	"github.com/trezcool/schoolcrm/core/payroll"
	"github.com/trezcool/schoolcrm/core/roster"
	logsvc "github.com/trezcool/schoolcrm/services/logger"
	"github.com/trezcool/schoolcrm/storage/database"
	sqlxrepos "github.com/trezcool/schoolcrm/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	logger, err := logsvc.New(conf, "ADMIN")
	if err != nil {
		log.Fatalf("setting up logger: %v", err)
	}

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	validate, translator := core.NewValidator()
	attendance.InitValidators(validate, translator)
	rosters := sqlxrepos.NewRosterProvider(db)

	// start CLI
	cli := commandLine{
		db:         db,
		out:        os.Stdout,
		attendance: roster.NewService[attendance.Mark](rosters, sqlxrepos.NewRecordStore[attendance.Mark](db), attendance.Default, validate, logger),
		grading:    roster.NewService[grading.Grade](rosters, sqlxrepos.NewRecordStore[grading.Grade](db), grading.Default, validate, logger),
		payroll:    roster.NewService[payroll.Slip](rosters, sqlxrepos.NewRecordStore[payroll.Slip](db), payroll.Default, validate, logger),
		gradeScale: conf.GradeScale,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %s", err), err)
		}
		os.Exit(1)
	}
}
