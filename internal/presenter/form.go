package presenter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/persona/internal/domain"
)

var validate = validator.New()

// PersonForm is the raw input of the add form.
type PersonForm struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	BirthDate string `validate:"required,datetime=2006-01-02"`
}

// Person validates the form and builds an unsaved person from it.
func (f PersonForm) Person() (*domain.Person, error) {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.BirthDate = strings.TrimSpace(f.BirthDate)

	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, describe(err))
	}

	birth, err := domain.ParseDate(f.BirthDate)
	if err != nil {
		return nil, err
	}
	return domain.NewPerson(f.FirstName, f.LastName, birth)
}

// describe turns validator errors into a short user-facing sentence.
func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return "invalid input"
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s %s", fe.Field(), tagMessage(fe.Tag())))
	}
	return strings.Join(msgs, ", ")
}

func tagMessage(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "datetime":
		return "must be a date (YYYY-MM-DD)"
	default:
		return "is invalid"
	}
}
