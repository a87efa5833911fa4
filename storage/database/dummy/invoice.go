package dummydb

import (
	"cmp"
	"context"
	"slices"

	"github.com/trezcool/schoolcrm/core/billing"
	"github.com/trezcool/schoolcrm/core/metric"
)

type InvoiceRepository struct {
	db *invoiceTable
}

var _ billing.Repository = (*InvoiceRepository)(nil) // interface compliance check

func NewInvoiceRepository(db *DB) *InvoiceRepository {
	return &InvoiceRepository{db: db.invoices}
}

func (repo *InvoiceRepository) QueryInvoices(_ context.Context, filter billing.QueryFilter) ([]metric.Invoice, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	invoices := make([]metric.Invoice, 0, len(repo.db.table))
	for _, inv := range repo.db.table {
		if filter.ParentID != "" && inv.ParentID != filter.ParentID {
			continue
		}
		if filter.StudentID != "" && inv.StudentID != filter.StudentID {
			continue
		}
		invoices = append(invoices, inv)
	}
	// same order as the sql store
	slices.SortFunc(invoices, func(a, b metric.Invoice) int { return cmp.Compare(a.ID, b.ID) })
	return invoices, nil
}

func (repo *InvoiceRepository) CreateInvoice(_ context.Context, inv metric.Invoice) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table = append(repo.db.table, inv)
	return nil
}
