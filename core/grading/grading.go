package grading

import (
	"github.com/trezcool/schoolcrm/core/metric"
	"github.com/trezcool/schoolcrm/core/roster"
)

// Grade is the grading payload of one student for one class:subject period.
type Grade struct {
	metric.GradeComponents
	Comment string `json:"comment,omitempty" validate:"max=500"`
}

// Default is an ungraded student: every component at zero.
func Default() Grade {
	return Grade{}
}

type Row struct {
	MemberID    string        `json:"member_id"`
	DisplayName string        `json:"display_name"`
	Origin      roster.Origin `json:"origin"`
	metric.GradeResult
	Rank int `json:"rank"`
}

// Report derives total and letter of every entry, in roster order.
func Report(set roster.MergedSet[Grade], scale metric.GradeScale) []Row {
	rows := make([]Row, 0, set.Len())
	for _, e := range set.Entries {
		res := scale.Grade(e.Payload.GradeComponents)
		rows = append(rows, Row{
			MemberID:    e.MemberID,
			DisplayName: e.DisplayName,
			Origin:      e.Origin,
			GradeResult: res,
			Rank:        scale.Rank(res.Letter),
		})
	}
	return rows
}

// Summarize counts students per letter of scale.
func Summarize(set roster.MergedSet[Grade], scale metric.GradeScale) (roster.Summary[string], error) {
	return roster.Summarize(set, scale.Labels(), func(g Grade) string {
		return scale.Letter(g.Total())
	})
}

// RowField exposes Row fields to metric.Sort. "letter" orders by band rank.
func RowField(r Row, field string) (interface{}, bool) {
	switch field {
	case "member_id", "id":
		return r.MemberID, true
	case "name", "display_name":
		return r.DisplayName, true
	case "homework":
		return r.Homework, true
	case "quiz":
		return r.Quiz, true
	case "midterm":
		return r.Midterm, true
	case "final":
		return r.Final, true
	case "total":
		return r.Total, true
	case "letter", "rank":
		return r.Rank, true
	}
	return nil, false
}
