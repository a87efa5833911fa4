package payroll

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/trezcool/schoolcrm/core/metric"
	"github.com/trezcool/schoolcrm/core/roster"
)

// Slip is the payroll payload of one staff member for one pay period (YYYY-MM).
type Slip struct {
	BaseAmount decimal.Decimal   `json:"base_amount"`
	Items      []metric.LineItem `json:"items" validate:"dive"`
}

func Default() Slip {
	return Slip{BaseAmount: decimal.Zero}
}

// Clone returns a copy of s that shares no Items with it. Patch updaters that edit items should start from it.
func (s Slip) Clone() Slip {
	if s.Items != nil {
		s.Items = append(make([]metric.LineItem, 0, len(s.Items)), s.Items...)
	}
	return s
}

type (
	Row struct {
		MemberID    string           `json:"member_id"`
		DisplayName string           `json:"display_name"`
		Base        decimal.Decimal  `json:"base"`
		Allowances  metric.Breakdown `json:"allowances"`
		Deductions  metric.Breakdown `json:"deductions"`
		Net         decimal.Decimal  `json:"net"`
	}

	// Totals sums a report per category.
	Totals struct {
		Base       decimal.Decimal         `json:"base"`
		Allowances []metric.CategoryAmount `json:"allowances"`
		Deductions []metric.CategoryAmount `json:"deductions"`
		Net        decimal.Decimal         `json:"net"`
	}
)

// Report breaks every slip down into deduction and allowance categories.
func Report(set roster.MergedSet[Slip], deductions, allowances []metric.Matcher) ([]Row, error) {
	rows := make([]Row, 0, set.Len())
	for _, e := range set.Entries {
		ded, err := metric.NewBreakdown(e.Payload.Items, metric.Deduction, deductions)
		if err != nil {
			return nil, errors.Wrapf(err, "breaking down deductions of %q", e.MemberID)
		}
		alw, err := metric.NewBreakdown(e.Payload.Items, metric.Allowance, allowances)
		if err != nil {
			return nil, errors.Wrapf(err, "breaking down allowances of %q", e.MemberID)
		}
		rows = append(rows, Row{
			MemberID:    e.MemberID,
			DisplayName: e.DisplayName,
			Base:        e.Payload.BaseAmount,
			Allowances:  alw,
			Deductions:  ded,
			Net:         metric.NetPay(e.Payload.BaseAmount, e.Payload.Items),
		})
	}
	return rows, nil
}

func Sum(rows []Row) Totals {
	var totals Totals
	alw, ded := []metric.CategoryAmount{}, []metric.CategoryAmount{}
	totals.Base, totals.Net = decimal.Zero, decimal.Zero
	for _, r := range rows {
		totals.Base = totals.Base.Add(r.Base)
		totals.Net = totals.Net.Add(r.Net)
		alw = addCategories(alw, r.Allowances)
		ded = addCategories(ded, r.Deductions)
	}
	totals.Allowances, totals.Deductions = alw, ded
	return totals
}

func addCategories(acc []metric.CategoryAmount, bd metric.Breakdown) []metric.CategoryAmount {
	cats := append(append([]metric.CategoryAmount(nil), bd.Categories...), metric.CategoryAmount{
		Category: metric.OtherCategory,
		Amount:   bd.Other,
	})
	if acc == nil {
		return cats
	}
	for i := range acc {
		acc[i].Amount = acc[i].Amount.Add(cats[i].Amount)
	}
	return acc
}

// RowField exposes Row fields to metric.Sort. Category amounts are reachable as
// "deduction:<category>" and "allowance:<category>".
func RowField(r Row, field string) (interface{}, bool) {
	switch field {
	case "member_id", "id":
		return r.MemberID, true
	case "name", "display_name":
		return r.DisplayName, true
	case "base":
		return r.Base, true
	case "net":
		return r.Net, true
	case "allowances":
		return r.Allowances.Total, true
	case "deductions":
		return r.Deductions.Total, true
	}
	if cat, ok := strings.CutPrefix(field, "deduction:"); ok && cat != "" {
		return r.Deductions.Amount(cat), true
	}
	if cat, ok := strings.CutPrefix(field, "allowance:"); ok && cat != "" {
		return r.Allowances.Amount(cat), true
	}
	return nil, false
}
