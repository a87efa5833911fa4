package metric

import (
	"github.com/trezcool/schoolcrm/core"
)

// GradeComponents are summed as is. Component maxima are a display convention and are not enforced.
type GradeComponents struct {
	Homework float64 `json:"homework"`
	Quiz     float64 `json:"quiz"`
	Midterm  float64 `json:"midterm"`
	Final    float64 `json:"final"`
}

func (g GradeComponents) Total() float64 {
	return g.Homework + g.Quiz + g.Midterm + g.Final
}

// Band is one (minInclusive, label) threshold.
type Band struct {
	Min   float64 `json:"min"`
	Label string  `json:"label"`
}

// GradeScale is a closed list of bands sorted by strictly descending Min.
type GradeScale struct {
	bands []Band
}

var (
	FineScale = MustGradeScale(
		Band{95, "A+"}, Band{90, "A"},
		Band{85, "B+"}, Band{80, "B"},
		Band{75, "C+"}, Band{70, "C"},
		Band{65, "D+"}, Band{60, "D"},
		Band{0, "F"},
	)
	CoarseScale = MustGradeScale(
		Band{90, "A"}, Band{80, "B"}, Band{70, "C"}, Band{60, "D"}, Band{0, "F"},
	)
)

// ScaleByName returns the shipped scale called name ("fine" or "coarse").
func ScaleByName(name string) (GradeScale, error) {
	switch core.CleanString(name, true) {
	case "fine", "":
		return FineScale, nil
	case "coarse":
		return CoarseScale, nil
	}
	return GradeScale{}, core.NewNotFoundError("grade scale", name)
}

func NewGradeScale(bands ...Band) (GradeScale, error) {
	if len(bands) == 0 {
		return GradeScale{}, core.NewInvariantViolation("grade scale: no bands")
	}
	seen := make(map[string]struct{}, len(bands))
	for i, b := range bands {
		if b.Label == "" {
			return GradeScale{}, core.NewInvariantViolation("grade scale: band %d has no label", i)
		}
		if _, dup := seen[b.Label]; dup {
			return GradeScale{}, core.NewInvariantViolation("grade scale: duplicate label %q", b.Label)
		}
		seen[b.Label] = struct{}{}
		if i > 0 && b.Min >= bands[i-1].Min {
			return GradeScale{}, core.NewInvariantViolation("grade scale: %q (%v) is not below %q (%v)", b.Label, b.Min, bands[i-1].Label, bands[i-1].Min)
		}
	}
	return GradeScale{bands: append([]Band(nil), bands...)}, nil
}

func MustGradeScale(bands ...Band) GradeScale {
	scale, err := NewGradeScale(bands...)
	if err != nil {
		panic(err)
	}
	return scale
}

func (s GradeScale) Bands() []Band {
	return append([]Band(nil), s.bands...)
}

// Labels returns the band labels, best first.
func (s GradeScale) Labels() []string {
	labels := make([]string, 0, len(s.bands))
	for _, b := range s.bands {
		labels = append(labels, b.Label)
	}
	return labels
}

// Letter returns the label of the first band whose Min the total meets.
// Totals below every band land in the lowest one; there is no upper clamp.
func (s GradeScale) Letter(total float64) string {
	if len(s.bands) == 0 {
		return ""
	}
	for _, b := range s.bands {
		if total >= b.Min {
			return b.Label
		}
	}
	return s.bands[len(s.bands)-1].Label
}

// Rank returns the index of label in the scale (0 is the best band), or -1.
func (s GradeScale) Rank(label string) int {
	for i, b := range s.bands {
		if b.Label == label {
			return i
		}
	}
	return -1
}

type GradeResult struct {
	GradeComponents
	Total  float64 `json:"total"`
	Letter string  `json:"letter"`
}

func (s GradeScale) Grade(g GradeComponents) GradeResult {
	total := g.Total()
	return GradeResult{GradeComponents: g, Total: total, Letter: s.Letter(total)}
}
