package sqlxrepos

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolcrm/core"
	"github.com/trezcool/schoolcrm/core/billing"
	"github.com/trezcool/schoolcrm/core/metric"
)

type InvoiceRepository struct {
	db *sqlx.DB
}

var _ billing.Repository = (*InvoiceRepository)(nil) // interface compliance check

func NewInvoiceRepository(db *sqlx.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

const invoiceColumns = `id, number, parent_id, student_id, issued_at, due_at, total_amount, paid_amount, remaining_amount, note`

// QueryInvoices applies AND operation on the set filter fields.
func (repo *InvoiceRepository) QueryInvoices(ctx context.Context, filter billing.QueryFilter) ([]metric.Invoice, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.ParentID != "" {
		where = append(where, "parent_id = ?")
		args = append(args, filter.ParentID)
	}
	if filter.StudentID != "" {
		where = append(where, "student_id = ?")
		args = append(args, filter.StudentID)
	}

	q := "SELECT " + invoiceColumns + " FROM invoices"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id"

	invoices := make([]metric.Invoice, 0)
	if err := repo.db.SelectContext(ctx, &invoices, repo.db.Rebind(q), args...); err != nil {
		return nil, core.NewPersistenceError(errors.Wrap(err, "selecting invoices"))
	}
	return invoices, nil
}

func (repo *InvoiceRepository) CreateInvoice(ctx context.Context, inv metric.Invoice) error {
	q := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES (:id, :number, :parent_id, :student_id, :issued_at, :due_at, :total_amount, :paid_amount, :remaining_amount, :note)`
	if _, err := repo.db.NamedExecContext(ctx, q, inv); err != nil {
		return core.NewPersistenceError(errors.Wrapf(err, "inserting invoice %d", inv.ID))
	}
	return nil
}
