package billing

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/trezcool/schoolcrm/core"
	"github.com/trezcool/schoolcrm/core/metric"
)

type (
	// QueryFilter applies AND operation on the set fields.
	QueryFilter struct {
		ParentID  string
		StudentID string
	}

	Repository interface {
		QueryInvoices(ctx context.Context, filter QueryFilter) ([]metric.Invoice, error)
	}

	Filter struct {
		QueryFilter
		Status      metric.InvoiceStatus
		OverdueOnly bool
	}

	// Row is an invoice with its derived fields.
	Row struct {
		metric.Invoice
		Remaining decimal.Decimal      `json:"remaining"`
		Status    metric.InvoiceStatus `json:"status"`
		Overdue   bool                 `json:"overdue"`
	}

	Service struct {
		repo   Repository
		logger core.Logger
		now    func() time.Time
	}
)

// DefaultOrdering lists the most urgent invoices first.
var DefaultOrdering = []metric.SortKey{{Field: "due_at"}, {Field: "id"}}

func NewService(repo Repository, logger core.Logger) *Service {
	if logger == nil {
		logger = core.NopLogger
	}
	return &Service{repo: repo, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

func (svc *Service) List(ctx context.Context, filter Filter, ordering []metric.SortKey) ([]Row, error) {
	invoices, err := svc.repo.QueryInvoices(ctx, filter.QueryFilter)
	if err != nil {
		if core.KindOf(err) == core.KindUnknown {
			err = core.NewPersistenceError(err)
		}
		return nil, errors.Wrap(err, "querying invoices")
	}

	now := svc.now()
	rows := make([]Row, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, Row{
			Invoice:   inv,
			Remaining: metric.Remaining(inv),
			Status:    metric.Status(inv),
			Overdue:   metric.Overdue(inv, now),
		})
	}
	rows = metric.Filter(rows, func(r Row) bool {
		return (filter.Status == "" || r.Status == filter.Status) && (!filter.OverdueOnly || r.Overdue)
	})

	if len(ordering) == 0 {
		ordering = DefaultOrdering
	}
	sorted, err := metric.Sort(rows, RowField, ordering...)
	if err != nil {
		return nil, core.NewValidationError(err, core.FieldError{Field: "ordering", Error: err.Error()})
	}
	return sorted, nil
}

// RowField exposes Row fields to metric.Sort.
func RowField(r Row, field string) (interface{}, bool) {
	switch field {
	case "id":
		return r.ID, true
	case "number":
		return r.Number, true
	case "parent_id":
		return r.ParentID, true
	case "student_id":
		return r.StudentID, true
	case "issued_at":
		return r.IssuedAt, true
	case "due_at":
		return r.DueAt, true
	case "total", "total_amount":
		return r.TotalAmount, true
	case "paid", "paid_amount":
		return r.PaidAmount, true
	case "remaining":
		return r.Remaining, true
	case "status":
		return string(r.Status), true
	}
	return nil, false
}
