package metric

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/trezcool/schoolcrm/core"
)

type ItemKind string

const (
	Allowance ItemKind = "allowance"
	Deduction ItemKind = "deduction"
)

// OtherCategory collects the amount of a kind no matcher claimed.
const OtherCategory = "other"

type (
	LineItem struct {
		Label  string          `json:"label" validate:"required,notblank"`
		Amount decimal.Decimal `json:"amount"`
		Kind   ItemKind        `json:"kind" validate:"required,oneof=allowance deduction"`
	}

	// Matcher claims the items whose label contains any of its keywords,
	// compared case-folded and NFC normalized.
	Matcher struct {
		Category string
		Keywords []string
	}

	CategoryAmount struct {
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
	}

	// Breakdown holds one amount per matcher category, in matcher order, plus Other.
	Breakdown struct {
		Kind       ItemKind         `json:"kind"`
		Categories []CategoryAmount `json:"categories"`
		Other      decimal.Decimal  `json:"other"`
		Total      decimal.Decimal  `json:"total"`
	}
)

var (
	DeductionMatchers = []Matcher{
		{Category: "absence", Keywords: []string{"غياب", "absence", "absent"}},
		{Category: "late", Keywords: []string{"تأخير", "late", "tardiness"}},
	}
	AllowanceMatchers = []Matcher{
		{Category: "overtime", Keywords: []string{"ساعات إضافية", "overtime"}},
	}
)

// fold builds a Caser per call since Casers are stateful.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

func (m Matcher) Match(label string) bool {
	l := fold(label)
	for _, kw := range m.Keywords {
		if kw = fold(kw); kw != "" && strings.Contains(l, kw) {
			return true
		}
	}
	return false
}

// Categorize returns the category of the first matcher that claims label, or OtherCategory.
func Categorize(label string, matchers []Matcher) string {
	for _, m := range matchers {
		if m.Match(label) {
			return m.Category
		}
	}
	return OtherCategory
}

// NewBreakdown sums the items of kind per category. Matchers are applied in order and the
// first one that matches wins, so an item never counts twice and
// Other = Total - sum(Categories).
func NewBreakdown(items []LineItem, kind ItemKind, matchers []Matcher) (Breakdown, error) {
	bd := Breakdown{Kind: kind, Categories: make([]CategoryAmount, 0, len(matchers))}
	index := make(map[string]int, len(matchers))
	for _, m := range matchers {
		if m.Category == "" || m.Category == OtherCategory {
			return Breakdown{}, core.NewInvariantViolation("payroll matcher: invalid category %q", m.Category)
		}
		if _, dup := index[m.Category]; dup {
			return Breakdown{}, core.NewInvariantViolation("payroll matcher: duplicate category %q", m.Category)
		}
		index[m.Category] = len(bd.Categories)
		bd.Categories = append(bd.Categories, CategoryAmount{Category: m.Category, Amount: decimal.Zero})
	}

	matched := decimal.Zero
	bd.Total = decimal.Zero
	for _, it := range items {
		if it.Kind != kind {
			continue
		}
		bd.Total = bd.Total.Add(it.Amount)
		if cat := Categorize(it.Label, matchers); cat != OtherCategory {
			i := index[cat]
			bd.Categories[i].Amount = bd.Categories[i].Amount.Add(it.Amount)
			matched = matched.Add(it.Amount)
		}
	}
	bd.Other = bd.Total.Sub(matched)
	return bd, nil
}

// Amount returns the amount of category, OtherCategory included.
func (bd Breakdown) Amount(category string) decimal.Decimal {
	if category == OtherCategory {
		return bd.Other
	}
	for _, c := range bd.Categories {
		if c.Category == category {
			return c.Amount
		}
	}
	return decimal.Zero
}

// Total sums the items of kind.
func Total(items []LineItem, kind ItemKind) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if it.Kind == kind {
			total = total.Add(it.Amount)
		}
	}
	return total
}

// NetPay is base + allowances - deductions.
func NetPay(base decimal.Decimal, items []LineItem) decimal.Decimal {
	return base.Add(Total(items, Allowance)).Sub(Total(items, Deduction))
}
