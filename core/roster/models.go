package roster

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Register kinds
const (
	KindStudentAttendance = "attendance:student"
	KindStaffAttendance   = "attendance:staff"
	KindTeacherAttendance = "attendance:teacher"
	KindGrading           = "grading"
	KindPayroll           = "payroll"
)

var Kinds = []string{
	KindStudentAttendance,
	KindStaffAttendance,
	KindTeacherAttendance,
	KindGrading,
	KindPayroll,
}

// Origin tells where the payload of a MergedEntry came from.
type Origin string

const (
	OriginPersisted Origin = "persisted"
	OriginDefault   Origin = "default"
)

type (
	// Member is one entry of a roster (student, staff member, teacher).
	Member struct {
		ID          string `json:"id" db:"member_id"`
		DisplayName string `json:"display_name" db:"display_name"`
	}

	// Context scopes a batch of records: the register family, the group and the period
	// (a date, a month, or a class:subject key depending on the family).
	Context struct {
		Kind    string `json:"kind" validate:"required,notblank"`
		GroupID string `json:"group_id" validate:"required,notblank"`
		Period  string `json:"period" validate:"required,period"`
	}

	// Record is the payload of one member in one context.
	Record[S any] struct {
		MemberID string `json:"member_id"`
		Payload  S      `json:"payload"`
	}

	MergedEntry[S any] struct {
		MemberID    string `json:"member_id"`
		DisplayName string `json:"display_name"`
		Payload     S      `json:"payload"`
		Origin      Origin `json:"origin"`
	}

	// MergedSet holds exactly one entry per roster member, in roster order.
	// Orphans are persisted records whose member is no longer on the roster; they are never committed.
	MergedSet[S any] struct {
		Context Context          `json:"context"`
		Entries []MergedEntry[S] `json:"entries"`
		Orphans []Record[S]      `json:"orphans"`
	}
)

func (c Context) String() string {
	return strings.Join([]string{c.Kind, c.GroupID, c.Period}, "/")
}

func (c Context) Validate(validate *validator.Validate) error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "validating context")
	}
	return nil
}

func (s MergedSet[S]) Len() int {
	return len(s.Entries)
}

// Get returns the entry of the member with the given id.
func (s MergedSet[S]) Get(memberID string) (MergedEntry[S], bool) {
	if i := s.index(memberID); i >= 0 {
		return s.Entries[i], true
	}
	return MergedEntry[S]{}, false
}

func (s MergedSet[S]) index(memberID string) int {
	for i, e := range s.Entries {
		if e.MemberID == memberID {
			return i
		}
	}
	return -1
}

// Records returns one Record per entry, in entry order.
func (s MergedSet[S]) Records() []Record[S] {
	records := make([]Record[S], 0, len(s.Entries))
	for _, e := range s.Entries {
		records = append(records, Record[S]{MemberID: e.MemberID, Payload: e.Payload})
	}
	return records
}
