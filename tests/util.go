package testutil

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/trezcool/schoolcrm/core"
	"github.com/trezcool/schoolcrm/core/metric"
	"github.com/trezcool/schoolcrm/core/roster"
	"github.com/trezcool/schoolcrm/storage/database"
	sqlxrepos "github.com/trezcool/schoolcrm/storage/database/sqlx"
)

// TestConfig is the config of a migrated in-memory sqlite database.
func TestConfig() *core.Config {
	return &core.Config{
		AppName:  "SchoolCRM",
		Env:      "TEST",
		TestMode: true,
		Database: core.DatabaseConfig{Engine: database.EngineSQLite, Path: ":memory:"},
	}
}

// PrepareDB opens a fresh migrated in-memory database, closed with the test.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	goose.SetLogger(goose.NopLogger())

	db, err := database.Open(TestConfig())
	if err != nil {
		t.Fatalf("PrepareDB(): %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db); err != nil {
		t.Fatalf("PrepareDB(): %v", err)
	}
	return db
}

func SetRoster(t *testing.T, db *sqlx.DB, groupID string, members ...roster.Member) {
	t.Helper()
	if err := sqlxrepos.NewRosterProvider(db).SetRoster(context.Background(), groupID, members); err != nil {
		t.Fatalf("SetRoster(): %v", err)
	}
}

func CreateInvoices(t *testing.T, db *sqlx.DB, invoices ...metric.Invoice) {
	t.Helper()
	repo := sqlxrepos.NewInvoiceRepository(db)
	for _, inv := range invoices {
		if err := repo.CreateInvoice(context.Background(), inv); err != nil {
			t.Fatalf("CreateInvoices(): %v", err)
		}
	}
}
