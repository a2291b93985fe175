package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// Field-scoped messages returned to API clients.
const (
	MsgRequired           = "This field is required."
	MsgVaccinationDate    = "Vaccination date is required when pet is marked as vaccinated."
	MsgMicrochipNumber    = "Microchip number is required when pet is marked as microchipped."
	MsgRegistrationNumber = "Registration number is required when pet is KCI registered."
	MsgPhotoLimit         = "Maximum 5 photos allowed per pet."
	MsgMainPhotoTaken     = "Only one main photo allowed per pet."
	MsgVideoLimit         = "Maximum 2 videos allowed per pet."
	MsgNegative           = "Ensure this value is greater than or equal to 0."
	MsgUnknownReference   = "Invalid pk - object does not exist."
	MsgInvalidNumber      = "A valid number is required."
)

// ValidationError collects rule violations keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a single-field violation.
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// Add records a violation; the first message for a field wins.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = message
}

// Merge copies violations from another error that are not yet recorded.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for field, message := range other.Fields {
		e.Add(field, message)
	}
}

// Empty reports whether no violation was recorded.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// Err returns the receiver as an error, or nil when empty.
func (e *ValidationError) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	if e.Empty() {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e.Fields[key])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError unwraps a ValidationError from an error chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) && !v.Empty() {
		return v, true
	}
	return nil, false
}

// MaxLengthMessage mirrors the wording used for every bounded text field.
func MaxLengthMessage(limit int) string {
	return fmt.Sprintf("Ensure this field has no more than %d characters.", limit)
}

// InvalidChoiceMessage is used for scalar enumerations.
func InvalidChoiceMessage(value string) string {
	return fmt.Sprintf("%q is not a valid choice.", value)
}

func checkMaxLength(v *ValidationError, field, value string, limit int) {
	if utf8.RuneCountInString(value) > limit {
		v.Add(field, MaxLengthMessage(limit))
	}
}

// checkDecimal enforces a NUMERIC(digits, places) column.
func checkDecimal(v *ValidationError, field string, value *float64, digits, places int) {
	if value == nil {
		return
	}
	if math.IsNaN(*value) || math.IsInf(*value, 0) {
		v.Add(field, MsgInvalidNumber)
		return
	}
	if *value < 0 {
		v.Add(field, MsgNegative)
		return
	}
	scale := math.Pow10(places)
	scaled := *value * scale
	if math.Abs(scaled-math.Round(scaled)) > 1e-6 {
		v.Add(field, fmt.Sprintf("Ensure that there are no more than %d decimal places.", places))
		return
	}
	limit := math.Pow10(digits - places)
	if *value >= limit {
		v.Add(field, fmt.Sprintf("Ensure that there are no more than %d digits in total.", digits))
	}
}

func dedupe[T comparable](values []T) []T {
	if values == nil {
		return []T{}
	}
	seen := make(map[T]struct{}, len(values))
	out := make([]T, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
