package attendance

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolcrm/core"
	"github.com/trezcool/schoolcrm/core/roster"
)

type Status string

const (
	Present Status = "present"
	Absent  Status = "absent"
	Late    Status = "late"
	Excused Status = "excused"
)

// Statuses are the summary categories, in display order.
var Statuses = []Status{Present, Absent, Late, Excused}

var (
	statusTag  = "attendance_status"
	statusText = "must be one of: present, absent, late, excused"
)

// Mark is the attendance payload of one member for one day.
type Mark struct {
	Status Status `json:"status" validate:"required,attendance_status"`
	Note   string `json:"note,omitempty" validate:"max=255"`
}

// Default marks everyone present until told otherwise.
func Default() Mark {
	return Mark{Status: Present}
}

func Classify(m Mark) Status {
	return m.Status
}

func (s Status) Valid() bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

// ParseStatus is case-insensitive.
func ParseStatus(s string) (Status, error) {
	st := Status(core.CleanString(s, true))
	if !st.Valid() {
		return "", core.NewValidationError(
			errors.Errorf("invalid attendance status %q", s),
			core.FieldError{Field: "status", Error: statusText},
		)
	}
	return st, nil
}

func (m Mark) Validate(validate *validator.Validate) error {
	if err := validate.Struct(m); err != nil {
		return errors.Wrap(err, "validating mark")
	}
	return nil
}

// IsKind reports whether kind is an attendance register.
func IsKind(kind string) bool {
	return strings.HasPrefix(kind, "attendance:")
}

func Summarize(set roster.MergedSet[Mark]) (roster.Summary[Status], error) {
	return roster.Summarize(set, Statuses, Classify)
}

// InitValidators registers the attendance validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)
}
