// Package validation collects field-level input violations before any
// business logic runs.
package validation

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func MaxLen(field, value string, maxLen int, v Violations) {
	if len(value) > maxLen {
		v[field] = "too_long"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func NonNegativeInt(field string, val int, v Violations) {
	if val < 0 {
		v[field] = "must_not_be_negative"
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

// UUID rejects identifiers that are not valid UUID strings.
func UUID(field, value string, v Violations) {
	if value == "" {
		v[field] = "required"
		return
	}
	if _, err := uuid.Parse(value); err != nil {
		v[field] = "invalid_id"
	}
}

// OptionalUUID validates only when a value is present.
func OptionalUUID(field string, value *string, v Violations) {
	if value == nil || *value == "" {
		return
	}
	if _, err := uuid.Parse(*value); err != nil {
		v[field] = "invalid_id"
	}
}

func Email(field, value string, v Violations) {
	if value != "" && !emailRegex.MatchString(value) {
		v[field] = "invalid_email"
	}
}

// OneOf rejects values outside the allowed set; empty values pass so that
// callers can layer Required separately.
func OneOf(field, value string, allowed []string, v Violations) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v[field] = "invalid_value"
}
