package dummydb

import (
	"sync"

	"github.com/trezcool/schoolcrm/core/metric"
	"github.com/trezcool/schoolcrm/core/roster"
)

type (
	// DB is an in-memory database for tests and local runs.
	DB struct {
		records  *recordTable
		members  *memberTable
		invoices *invoiceTable
	}

	recordTable struct {
		sync.RWMutex
		table map[roster.Context]map[string][]byte // member id -> JSON payload
	}

	memberTable struct {
		sync.RWMutex
		table map[string][]roster.Member
	}

	invoiceTable struct {
		sync.RWMutex
		table []metric.Invoice
	}
)

func Open() (*DB, error) {
	db := &DB{
		records:  &recordTable{table: make(map[roster.Context]map[string][]byte)},
		members:  &memberTable{table: make(map[string][]roster.Member)},
		invoices: &invoiceTable{},
	}
	return db, nil
}
