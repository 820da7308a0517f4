package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the textual layout of a birth date.
const DateLayout = "2006-01-02"

// Person represents one row of the persons table. It is a plain value:
// the UI layer learns about changes through events rather than by
// binding to mutable fields.
type Person struct {
	// ID is zero until the store assigns it on a successful insert.
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	BirthDate time.Time `json:"birth_date"`
}

// NewPerson creates an unsaved Person with the given names and birth date.
// Names are trimmed and the birth date is truncated to a calendar date.
// Returns an error if validation fails.
func NewPerson(firstName, lastName string, birthDate time.Time) (*Person, error) {
	p := &Person{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		BirthDate: DateOnly(birthDate),
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate checks if the Person has valid data.
func (p *Person) Validate() error {
	if strings.TrimSpace(p.FirstName) == "" {
		return ErrEmptyFirstName
	}

	if strings.TrimSpace(p.LastName) == "" {
		return ErrEmptyLastName
	}

	if p.ID < 0 {
		return ErrInvalidPersonID
	}

	return nil
}

// IsPersisted reports whether the store has assigned an identifier.
func (p *Person) IsPersisted() bool {
	return p.ID > 0
}

// String formats the person as "first last (birth date)".
func (p Person) String() string {
	if p.BirthDate.IsZero() {
		return fmt.Sprintf("%s %s", p.FirstName, p.LastName)
	}
	return fmt.Sprintf("%s %s (%s)", p.FirstName, p.LastName, p.BirthDate.Format(DateLayout))
}

// DateOnly truncates t to midnight UTC of its calendar date. The zero time
// is returned unchanged.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD birth date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrValidation, s)
	}
	return t, nil
}
