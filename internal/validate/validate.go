package validate

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"free-rent/internal/models"
)

// Validator checks candidate records against the rules declared in their
// validate tags. It never touches the store.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

type Option func(*Validator)

// WithClock fixes the time used by the year and date bounds.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

func New(opts ...Option) *Validator {
	val := &Validator{
		v:   validator.New(validator.WithRequiredStructEnabled()),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(val)
	}

	val.v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	val.v.RegisterValidation("notfutureyear", val.notFutureYear)
	val.v.RegisterValidation("pastdate", val.pastDate)
	return val
}

// notFutureYear checks that an integer year is not after the current year.
func (val *Validator) notFutureYear(fl validator.FieldLevel) bool {
	return fl.Field().Int() <= int64(val.now().Year())
}

// pastDate checks that a date lies between models.EarliestDate and today.
func (val *Validator) pastDate(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	y, m, d := val.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(models.EarliestDate) && !day.After(today)
}

// Validate returns the column names of every failing field of e, in
// declaration order. An empty result means e may be persisted.
func (val *Validator) Validate(e models.Entity) []string {
	err := val.v.Struct(e)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"*"}
	}
	fields := make([]string, 0, len(verrs))
	seen := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		if seen[fe.Field()] {
			continue
		}
		seen[fe.Field()] = true
		fields = append(fields, fe.Field())
	}
	return fields
}

// Check is Validate reported as an error.
func (val *Validator) Check(e models.Entity) error {
	if fields := val.Validate(e); len(fields) > 0 {
		return &Error{Kind: e.Kind(), Fields: fields}
	}
	return nil
}

// Error is a rejected candidate record.
type Error struct {
	Kind   models.Kind `json:"kind"`
	Fields []string    `json:"fields"`
}

func (e *Error) Error() string {
	return "invalid " + string(e.Kind) + ": " + strings.Join(e.Fields, ", ")
}

func (e *Error) StatusCode() int {
	return http.StatusUnprocessableEntity
}
