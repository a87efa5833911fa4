package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schoolcrm/core/billing"
	"github.com/trezcool/schoolcrm/core/metric"
	"github.com/trezcool/schoolcrm/tests"
)

func Test_invoiceApi_query(t *testing.T) {
	app, db := setup(t)

	now := time.Now().UTC().Truncate(time.Second)
	dec := decimal.RequireFromString
	testutil.CreateInvoices(t, db,
		metric.Invoice{
			ID: 1, Number: "INV-001", ParentID: "p1", StudentID: "s1",
			IssuedAt: now.AddDate(0, -2, 0), DueAt: now.AddDate(0, -1, 0),
			TotalAmount: dec("100"), PaidAmount: dec("100"),
		},
		metric.Invoice{
			ID: 2, Number: "INV-002", ParentID: "p1", StudentID: "s2",
			IssuedAt: now.AddDate(0, -1, 0), DueAt: now.AddDate(0, 0, -10),
			TotalAmount: dec("200"), PaidAmount: dec("50"),
		},
		metric.Invoice{
			ID: 3, Number: "INV-003", ParentID: "p2", StudentID: "s3",
			IssuedAt: now, DueAt: now.AddDate(0, 1, 0),
			TotalAmount: dec("300"), PaidAmount: dec("0"),
		},
	)

	tests := []struct {
		name          string
		query         string
		wantIDs       []int64
		wantRemaining []string
	}{
		{name: "all, most urgent first", query: "", wantIDs: []int64{1, 2, 3}, wantRemaining: []string{"0", "150", "300"}},
		{name: "by parent", query: "?parent=p1", wantIDs: []int64{1, 2}, wantRemaining: []string{"0", "150"}},
		{name: "by student", query: "?student=s3", wantIDs: []int64{3}, wantRemaining: []string{"300"}},
		{name: "unpaid", query: "?status=unpaid", wantIDs: []int64{3}, wantRemaining: []string{"300"}},
		{name: "status is case insensitive", query: "?status=PARTIAL", wantIDs: []int64{2}, wantRemaining: []string{"150"}},
		{name: "overdue", query: "?overdue=true", wantIDs: []int64{2}, wantRemaining: []string{"150"}},
		{name: "largest balance first", query: "?ordering=-remaining,id", wantIDs: []int64{3, 2, 1}, wantRemaining: []string{"300", "150", "0"}},
		{name: "nothing", query: "?parent=p9", wantIDs: []int64{}, wantRemaining: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, "/v1/invoices"+tt.query)
			app.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var rows []billing.Row
			unmarchall(t, rec, &rows)
			require.Len(t, rows, len(tt.wantIDs))
			for i, row := range rows {
				assert.Equal(t, tt.wantIDs[i], row.ID)
				assert.True(t, dec(tt.wantRemaining[i]).Equal(row.Remaining), "remaining of %d = %s", row.ID, row.Remaining)
			}
		})
	}

	errTests := []httpTest{
		{
			name:     "invalid status",
			method:   http.MethodGet,
			path:     "/v1/invoices?status=late",
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"status": "status must be one of [paid partial unpaid]"}`),
		},
		{
			name:     "invalid overdue",
			method:   http.MethodGet,
			path:     "/v1/invoices?overdue=maybe",
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"overdue": "must be true or false"}`),
		},
		{
			name:     "unknown ordering field",
			method:   http.MethodGet,
			path:     "/v1/invoices?ordering=color",
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"ordering": "invariant violation: ordering: unknown field \"color\""}`),
		},
		{
			name:     "unknown ordering field with no matches",
			method:   http.MethodGet,
			path:     "/v1/invoices?parent=p9&ordering=color",
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"ordering": "invariant violation: ordering: unknown field \"color\""}`),
		},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
