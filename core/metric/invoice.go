package metric

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

type InvoiceStatus string

const (
	InvoicePaid    InvoiceStatus = "paid"
	InvoicePartial InvoiceStatus = "partial"
	InvoiceUnpaid  InvoiceStatus = "unpaid"
)

type Invoice struct {
	ID              int64               `json:"id" db:"id"`
	Number          string              `json:"number" db:"number"`
	ParentID        string              `json:"parent_id" db:"parent_id"`
	StudentID       string              `json:"student_id" db:"student_id"`
	IssuedAt        time.Time           `json:"issued_at" db:"issued_at"`
	DueAt           time.Time           `json:"due_at" db:"due_at"`
	TotalAmount     decimal.Decimal     `json:"total_amount" db:"total_amount"`
	PaidAmount      decimal.Decimal     `json:"paid_amount" db:"paid_amount"`
	RemainingAmount decimal.NullDecimal `json:"remaining_amount" db:"remaining_amount"`
	Note            null.String         `json:"note" db:"note"`
}

// Remaining returns the explicit remaining amount when set, Total - Paid otherwise.
func Remaining(inv Invoice) decimal.Decimal {
	if inv.RemainingAmount.Valid {
		return inv.RemainingAmount.Decimal
	}
	return inv.TotalAmount.Sub(inv.PaidAmount)
}

func Status(inv Invoice) InvoiceStatus {
	remaining := Remaining(inv)
	switch {
	case !remaining.IsPositive():
		return InvoicePaid
	case remaining.LessThan(inv.TotalAmount):
		return InvoicePartial
	default:
		return InvoiceUnpaid
	}
}

// Overdue reports whether inv still has something to pay after its due date.
func Overdue(inv Invoice, now time.Time) bool {
	return !inv.DueAt.IsZero() && now.After(inv.DueAt) && Remaining(inv).IsPositive()
}
