package roster

import (
	"github.com/trezcool/schoolcrm/core"
)

// Summary counts the entries of a MergedSet per category.
// It is a pure function of the set; recompute it instead of updating it.
type Summary[C comparable] struct {
	categories []C
	counts     map[C]int
}

type Bucket[C comparable] struct {
	Category C   `json:"category"`
	Count    int `json:"count"`
}

// Summarize folds set into per-category counts. Every declared category starts at 0;
// classify must return one of the declared categories.
func Summarize[S any, C comparable](set MergedSet[S], categories []C, classify func(S) C) (Summary[C], error) {
	sum := Summary[C]{
		categories: make([]C, 0, len(categories)),
		counts:     make(map[C]int, len(categories)),
	}
	if classify == nil {
		return sum, core.NewInvariantViolation("summarize %s: nil classifier", set.Context)
	}
	for _, cat := range categories {
		if _, dup := sum.counts[cat]; dup {
			return sum, core.NewInvariantViolation("summarize %s: duplicate category %v", set.Context, cat)
		}
		sum.categories = append(sum.categories, cat)
		sum.counts[cat] = 0
	}

	for _, e := range set.Entries {
		cat := classify(e.Payload)
		if _, ok := sum.counts[cat]; !ok {
			return sum, core.NewInvariantViolation("summarize %s: undeclared category %v for %q", set.Context, cat, e.MemberID)
		}
		sum.counts[cat]++
	}
	return sum, nil
}

func (s Summary[C]) Count(cat C) int {
	return s.counts[cat]
}

// Total is the sum of every bucket; it equals the size of the summarized set.
func (s Summary[C]) Total() int {
	var total int
	for _, n := range s.counts {
		total += n
	}
	return total
}

func (s Summary[C]) Categories() []C {
	return append([]C(nil), s.categories...)
}

// Counts returns a copy of the category -> count mapping.
func (s Summary[C]) Counts() map[C]int {
	counts := make(map[C]int, len(s.counts))
	for k, v := range s.counts {
		counts[k] = v
	}
	return counts
}

// Buckets returns the counts in declared category order.
func (s Summary[C]) Buckets() []Bucket[C] {
	buckets := make([]Bucket[C], 0, len(s.categories))
	for _, cat := range s.categories {
		buckets = append(buckets, Bucket[C]{Category: cat, Count: s.counts[cat]})
	}
	return buckets
}
