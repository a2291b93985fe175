package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Breed is reference data owned by catalog administrators.
type Breed struct {
	ID           uuid.UUID
	Name         string
	Description  string
	SizeCategory Size
}

// Parent is a sire or dam referenced by pets for lineage.
type Parent struct {
	ID                 uuid.UUID
	Name               string
	Gender             Gender
	DateOfBirth        *time.Time
	RegistrationNumber string
}

// Validate checks the parent field rules.
func (p *Parent) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(p.Name) == "" {
		v.Add("name", MsgRequired)
	}
	checkMaxLength(v, "name", p.Name, NameMaxLength)
	checkMaxLength(v, "registration_number", p.RegistrationNumber, RegistrationMaxLength)
	if !p.Gender.Valid() {
		v.Add("gender", InvalidChoiceMessage(string(p.Gender)))
	}
	return v.Err()
}

// Clone returns a copy that does not share the date pointer.
func (p *Parent) Clone() *Parent {
	if p == nil {
		return nil
	}
	c := *p
	c.DateOfBirth = cloneTime(p.DateOfBirth)
	return &c
}
