package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/trezcool/schoolcrm/apps/api/echo"
	"github.com/trezcool/schoolcrm/core"
	"github.com/trezcool/schoolcrm/core/attendance"
	"github.com/trezcool/schoolcrm/core/billing"
	"github.com/trezcool/schoolcrm/core/grading"
	"github.com/trezcool/schoolcrm/core/payroll"
	"github.com/trezcool/schoolcrm/core/roster"
	logsvc "github.com/trezcool/schoolcrm/services/logger"
	"github.com/trezcool/schoolcrm/storage/database"
	dummydb "github.com/trezcool/schoolcrm/storage/database/dummy"
	sqlxrepos "github.com/trezcool/schoolcrm/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger, err := logsvc.New(conf, "API")
	if err != nil {
		log.Fatalf("setting up logger: %v", err)
	}
	dbLogger, err := logsvc.New(conf, "DB")
	if err != nil {
		log.Fatalf("setting up logger: %v", err)
	}

	// set up DB
	st, err := setUpStores(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = st.close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()
	attendance.InitValidators(validate, translator)

	// set up services
	attendanceSvc := roster.NewService[attendance.Mark](st.rosters, st.attendance, attendance.Default, validate, logger)
	gradingSvc := roster.NewService[grading.Grade](st.rosters, st.grading, grading.Default, validate, logger)
	payrollSvc := roster.NewService[payroll.Slip](st.rosters, st.payroll, payroll.Default, validate, logger)
	billingSvc := billing.NewService(st.invoices, logger)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Validate:   validate,
			Translator: translator,
			Attendance: attendanceSvc,
			Grading:    gradingSvc,
			Payroll:    payrollSvc,
			Billing:    billingSvc,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

type stores struct {
	rosters    roster.Provider
	attendance roster.Store[attendance.Mark]
	grading    roster.Store[grading.Grade]
	payroll    roster.Store[payroll.Slip]
	invoices   billing.Repository
	close      func() error
}

// setUpStores opens the configured database. The "memory" engine keeps everything in process.
func setUpStores(conf *core.Config) (*stores, error) {
	if conf.Database.Engine == database.EngineMemory {
		db, err := dummydb.Open()
		if err != nil {
			return nil, err
		}
		return &stores{
			rosters:    dummydb.NewRosterProvider(db),
			attendance: dummydb.NewRecordStore[attendance.Mark](db),
			grading:    dummydb.NewRecordStore[grading.Grade](db),
			payroll:    dummydb.NewRecordStore[payroll.Slip](db),
			invoices:   dummydb.NewInvoiceRepository(db),
			close:      func() error { return nil },
		}, nil
	}

	db, err := setUpDB(conf)
	if err != nil {
		return nil, err
	}
	return &stores{
		rosters:    sqlxrepos.NewRosterProvider(db),
		attendance: sqlxrepos.NewRecordStore[attendance.Mark](db),
		grading:    sqlxrepos.NewRecordStore[grading.Grade](db),
		payroll:    sqlxrepos.NewRecordStore[payroll.Slip](db),
		invoices:   sqlxrepos.NewInvoiceRepository(db),
		close:      db.Close,
	}, nil
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
