package store

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"free-rent/internal/apperrors"
	"free-rent/internal/schema"
)

var (
	ErrPersistence         apperrors.Error = apperrors.New("persistence error").SetStatusCode(http.StatusInternalServerError)
	ErrNotFound            apperrors.Error = ErrPersistence.New("record not found").SetStatusCode(http.StatusNotFound)
	ErrConstraintViolation apperrors.Error = ErrPersistence.New("constraint violation").SetStatusCode(http.StatusConflict)
	ErrInvalidFilter       apperrors.Error = apperrors.New("invalid filter").SetStatusCode(http.StatusBadRequest)
)

// ConstraintError is a write rejected by a uniqueness or reference rule.
// Field names the offending column when it is known.
type ConstraintError struct {
	Field string
	err   apperrors.Error
}

func (e *ConstraintError) Error() string   { return e.err.Error() }
func (e *ConstraintError) Unwrap() error   { return e.err }
func (e *ConstraintError) StatusCode() int { return e.err.StatusCode() }

func constraintError(field, msg string, cause error) *ConstraintError {
	e := ErrConstraintViolation.Msg(msg)
	if cause != nil {
		e = e.Err(cause)
	}
	return &ConstraintError{Field: field, err: e}
}

// translate maps gorm and driver errors onto the store error family so
// callers never see a raw driver error.
func translate(table *schema.Table, err error) error {
	if err == nil {
		return nil
	}
	var ce *ConstraintError
	if errors.As(err, &ce) || errors.Is(err, ErrPersistence) {
		return err
	}

	msg := err.Error()
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound.Msg(fmt.Sprintf("%s not found", table.Kind)).Err(err)
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "duplicate key"):
		field := uniqueField(table, msg)
		return constraintError(field, fmt.Sprintf("%s %s already exists", table.Kind, field), err)
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		strings.Contains(msg, "FOREIGN KEY constraint failed"),
		strings.Contains(msg, "violates foreign key"):
		return constraintError("", fmt.Sprintf("%s references a missing or still referenced record", table.Kind), err)
	}
	return ErrPersistence.Err(err)
}

// uniqueField guesses which unique column a duplicate key error refers to.
func uniqueField(table *schema.Table, msg string) string {
	cols := table.UniqueColumns()
	for _, c := range cols {
		if strings.Contains(msg, c) {
			return c
		}
	}
	if len(cols) > 0 {
		return cols[0]
	}
	return ""
}
