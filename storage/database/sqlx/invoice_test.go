package sqlxrepos_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schoolcrm/core/billing"
	"github.com/trezcool/schoolcrm/core/metric"
	sqlxrepos "github.com/trezcool/schoolcrm/storage/database/sqlx"
	"github.com/trezcool/schoolcrm/tests"
)

func TestInvoiceRepository_QueryInvoices(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := sqlxrepos.NewInvoiceRepository(db)

	issued := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	d := decimal.RequireFromString
	testutil.CreateInvoices(t, db,
		metric.Invoice{ID: 1, Number: "INV-1", ParentID: "p1", StudentID: "s1", IssuedAt: issued, DueAt: issued.AddDate(0, 1, 0),
			TotalAmount: d("500"), PaidAmount: d("500")},
		metric.Invoice{ID: 2, Number: "INV-2", ParentID: "p1", StudentID: "s2", IssuedAt: issued, DueAt: issued.AddDate(0, 1, 0),
			TotalAmount: d("500"), PaidAmount: d("200"), RemainingAmount: decimal.NewNullDecimal(d("250")), Note: null.StringFrom("discount")},
		metric.Invoice{ID: 3, Number: "INV-3", ParentID: "p2", StudentID: "s3", IssuedAt: issued, DueAt: issued.AddDate(0, 1, 0),
			TotalAmount: d("120.5"), PaidAmount: d("0")},
	)

	all, err := repo.QueryInvoices(ctx, billing.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.False(t, all[0].RemainingAmount.Valid)
	assert.False(t, all[0].Note.Valid)
	assert.True(t, all[1].RemainingAmount.Valid)
	assert.True(t, d("250").Equal(all[1].RemainingAmount.Decimal))
	assert.Equal(t, "discount", all[1].Note.String)
	assert.True(t, d("120.5").Equal(all[2].TotalAmount))
	assert.True(t, issued.Equal(all[2].IssuedAt))

	assert.True(t, metric.Remaining(all[0]).IsZero())
	assert.True(t, d("250").Equal(metric.Remaining(all[1])))

	byParent, err := repo.QueryInvoices(ctx, billing.QueryFilter{ParentID: "p1", StudentID: "s2"})
	require.NoError(t, err)
	require.Len(t, byParent, 1)
	assert.Equal(t, "INV-2", byParent[0].Number)
}

func TestInvoiceRepository_WithService(t *testing.T) {
	db := testutil.PrepareDB(t)
	d := decimal.RequireFromString
	due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	testutil.CreateInvoices(t, db,
		metric.Invoice{ID: 1, Number: "A", ParentID: "p1", StudentID: "s1", IssuedAt: due, DueAt: due, TotalAmount: d("10"), PaidAmount: d("0")},
		metric.Invoice{ID: 2, Number: "B", ParentID: "p1", StudentID: "s1", IssuedAt: due, DueAt: due, TotalAmount: d("30"), PaidAmount: d("0")},
	)

	svc := billing.NewService(sqlxrepos.NewInvoiceRepository(db), nil)
	rows, err := svc.List(context.Background(), billing.Filter{}, metric.ParseOrdering("-remaining"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(2), rows[0].ID)
}
