package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schoolcrm/core/metric"
	"github.com/trezcool/schoolcrm/core/roster"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestReport(t *testing.T) {
	c := roster.Context{Kind: roster.KindPayroll, GroupID: "staff", Period: "2026-09"}
	members := []roster.Member{{ID: "t1", DisplayName: "Teacher 1"}, {ID: "t2", DisplayName: "Teacher 2"}}
	persisted := []roster.Record[Slip]{{
		MemberID: "t1",
		Payload: Slip{
			BaseAmount: dec("3000"),
			Items: []metric.LineItem{
				{Label: "غياب يوم", Amount: dec("100"), Kind: metric.Deduction},
				{Label: "تأخير", Amount: dec("25"), Kind: metric.Deduction},
				{Label: "سلفة", Amount: dec("200"), Kind: metric.Deduction},
				{Label: "ساعات إضافية", Amount: dec("150"), Kind: metric.Allowance},
			},
		},
	}}
	set, err := roster.Reconcile(c, members, persisted, Default)
	require.NoError(t, err)

	rows, err := Report(set, metric.DeductionMatchers, metric.AllowanceMatchers)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	r := rows[0]
	assert.True(t, dec("100").Equal(r.Deductions.Amount("absence")))
	assert.True(t, dec("25").Equal(r.Deductions.Amount("late")))
	assert.True(t, dec("200").Equal(r.Deductions.Other))
	assert.True(t, dec("150").Equal(r.Allowances.Amount("overtime")))
	assert.True(t, dec("2825").Equal(r.Net), r.Net.String())

	assert.True(t, rows[1].Net.IsZero())

	totals := Sum(rows)
	assert.True(t, dec("3000").Equal(totals.Base))
	assert.True(t, dec("2825").Equal(totals.Net))
	require.Len(t, totals.Deductions, 3) // absence, late, other
	assert.Equal(t, metric.OtherCategory, totals.Deductions[2].Category)
	assert.True(t, dec("200").Equal(totals.Deductions[2].Amount))

	sorted, err := metric.Sort(rows, RowField, metric.ParseOrdering("-deduction:absence")...)
	require.NoError(t, err)
	assert.Equal(t, "t1", sorted[0].MemberID)

	_, err = metric.Sort(rows, RowField, metric.SortKey{Field: "deduction:"})
	assert.Error(t, err)
}

func TestSum_Empty(t *testing.T) {
	totals := Sum(nil)
	assert.NotNil(t, totals.Allowances)
	assert.NotNil(t, totals.Deductions)
	assert.Empty(t, totals.Allowances)
	assert.True(t, totals.Net.IsZero())
}

func TestSlip_Clone(t *testing.T) {
	c := roster.Context{Kind: roster.KindPayroll, GroupID: "staff", Period: "2026-09"}
	set, err := roster.Reconcile(c, []roster.Member{{ID: "t1"}}, []roster.Record[Slip]{{
		MemberID: "t1",
		Payload:  Slip{BaseAmount: dec("1000"), Items: []metric.LineItem{{Label: "Overtime", Amount: dec("50"), Kind: metric.Allowance}}},
	}}, Default)
	require.NoError(t, err)

	patched, err := roster.Patch(set, "t1", func(s Slip) Slip {
		s = s.Clone()
		s.Items[0].Amount = dec("80")
		return s
	})
	require.NoError(t, err)
	assert.True(t, dec("80").Equal(patched.Entries[0].Payload.Items[0].Amount))
	assert.True(t, dec("50").Equal(set.Entries[0].Payload.Items[0].Amount))

	assert.Nil(t, Default().Clone().Items)
}
