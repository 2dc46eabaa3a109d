// Package validate checks user and model input before it reaches the store.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alexanderramin/geomingle/internal/domain"
)

// ErrInvalidInput wraps every rejection produced by this package.
var ErrInvalidInput = errors.New("invalid input")

// MinDescriptionLen is the shortest accepted activity description.
const MinDescriptionLen = 3

// ActivityInput is a manually entered activity.
type ActivityInput struct {
	Description string `json:"description" validate:"required,min=3"`
	Time        string `json:"time" validate:"required,clocktime"`
}

type proposedPlan struct {
	Activities []domain.ProposedActivity `json:"activities" validate:"min=1,dive"`
}

// Validator applies input rules for one clock format.
type Validator struct {
	v     *validator.Validate
	clock domain.Clock
}

// New builds a Validator accepting times in the given clock format.
func New(clock domain.Clock) *Validator {
	if clock == "" {
		clock = domain.Clock12h
	}
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	val := &Validator{v: v, clock: clock}
	v.RegisterValidation("clocktime", val.clockTime)
	return val
}

// Clock reports the accepted time format.
func (val *Validator) Clock() domain.Clock { return val.clock }

// Activity validates a manual add. Surrounding whitespace is trimmed.
func (val *Validator) Activity(in ActivityInput) (ActivityInput, error) {
	in.Description = strings.TrimSpace(in.Description)
	in.Time = strings.TrimSpace(in.Time)
	if err := val.v.Struct(in); err != nil {
		return in, val.wrap(err, "")
	}
	return in, nil
}

// Description validates an activity description on its own, as typed
// into a form field.
func (val *Validator) Description(d string) (string, error) {
	d = strings.TrimSpace(d)
	if err := val.v.Var(d, "required,min=3"); err != nil {
		return d, val.wrap(err, "description")
	}
	return d, nil
}

// Time validates a single time edit.
func (val *Validator) Time(t string) (string, error) {
	t = strings.TrimSpace(t)
	if err := val.v.Var(t, "required,clocktime"); err != nil {
		return t, val.wrap(err, "time")
	}
	return t, nil
}

// Plan validates a generated batch as a whole: at least one activity and
// every activity carrying a time and a description.
func (val *Validator) Plan(acts []domain.ProposedActivity) error {
	trimmed := make([]domain.ProposedActivity, len(acts))
	for i, a := range acts {
		a.Time = strings.TrimSpace(a.Time)
		a.Description = strings.TrimSpace(a.Description)
		trimmed[i] = a
	}
	if err := val.v.Struct(proposedPlan{Activities: trimmed}); err != nil {
		return val.wrap(err, "")
	}
	return nil
}

func (val *Validator) clockTime(fl validator.FieldLevel) bool {
	return domain.MatchesClock(fl.Field().String(), val.clock)
}

// wrap converts validator errors into ErrInvalidInput. name labels
// errors from Var, which carry no field name.
func (val *Validator) wrap(err error, name string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, val.message(fe, name))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

func (val *Validator) message(fe validator.FieldError, name string) string {
	field := fe.Field()
	if field == "" {
		field = name
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return field + " must not be empty"
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "clocktime":
		if val.clock == domain.Clock24h {
			return field + " must look like 14:30"
		}
		return field + " must look like 9:30 AM"
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
