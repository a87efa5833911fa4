package metric

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schoolcrm/core"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMatcher_Match(t *testing.T) {
	tests := []struct {
		name    string
		matcher Matcher
		label   string
		want    bool
	}{
		{name: "arabic keyword", matcher: DeductionMatchers[0], label: "خصم غياب يومين", want: true},
		{name: "case folded", matcher: DeductionMatchers[1], label: "LATE arrival x3", want: true},
		{name: "arabic phrase", matcher: AllowanceMatchers[0], label: "بدل ساعات إضافية", want: true},
		{name: "no match", matcher: AllowanceMatchers[0], label: "transport", want: false},
		{name: "empty keyword never matches", matcher: Matcher{Category: "x", Keywords: []string{""}}, label: "anything", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.matcher.Match(tt.label))
		})
	}
}

func TestNewBreakdown(t *testing.T) {
	items := []LineItem{
		{Label: "غياب", Amount: dec("50"), Kind: Deduction},
		{Label: "تأخير", Amount: dec("20.5"), Kind: Deduction},
		{Label: "Absence (2 days)", Amount: dec("30"), Kind: Deduction},
		{Label: "loan", Amount: dec("100"), Kind: Deduction},
		{Label: "ساعات إضافية", Amount: dec("75"), Kind: Allowance},
	}

	bd, err := NewBreakdown(items, Deduction, DeductionMatchers)
	require.NoError(t, err)
	assert.True(t, dec("80").Equal(bd.Amount("absence")), bd.Amount("absence").String())
	assert.True(t, dec("20.5").Equal(bd.Amount("late")))
	assert.True(t, dec("100").Equal(bd.Other))
	assert.True(t, dec("200.5").Equal(bd.Total))
	assert.Equal(t, []string{"absence", "late"}, []string{bd.Categories[0].Category, bd.Categories[1].Category})

	al, err := NewBreakdown(items, Allowance, AllowanceMatchers)
	require.NoError(t, err)
	assert.True(t, dec("75").Equal(al.Amount("overtime")))
	assert.True(t, al.Other.IsZero())
}

func TestNewBreakdown_FirstMatchWins(t *testing.T) {
	matchers := []Matcher{
		{Category: "absence", Keywords: []string{"absence"}},
		{Category: "penalty", Keywords: []string{"penalty"}},
	}
	items := []LineItem{{Label: "absence penalty", Amount: dec("40"), Kind: Deduction}}

	bd, err := NewBreakdown(items, Deduction, matchers)
	require.NoError(t, err)
	assert.True(t, dec("40").Equal(bd.Amount("absence")))
	assert.True(t, bd.Amount("penalty").IsZero(), "no double counting")
	assert.True(t, bd.Other.IsZero())

	// other + categories always add up to the total
	sum := bd.Other
	for _, c := range bd.Categories {
		sum = sum.Add(c.Amount)
	}
	assert.True(t, sum.Equal(bd.Total))
}

func TestNewBreakdown_InvalidMatchers(t *testing.T) {
	for _, matchers := range [][]Matcher{
		{{Category: "a"}, {Category: "a"}},
		{{Category: ""}},
		{{Category: OtherCategory}},
	} {
		_, err := NewBreakdown(nil, Deduction, matchers)
		assert.True(t, core.IsInvariantViolation(err))
	}
}

func TestNetPay(t *testing.T) {
	items := []LineItem{
		{Label: "overtime", Amount: dec("120"), Kind: Allowance},
		{Label: "late", Amount: dec("20"), Kind: Deduction},
	}
	assert.True(t, dec("1100").Equal(NetPay(dec("1000"), items)))
	assert.Equal(t, "late", Categorize("Late", DeductionMatchers))
	assert.Equal(t, OtherCategory, Categorize("bonus", AllowanceMatchers))
}
