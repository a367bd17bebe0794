package apperrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	ErrBaseErr := New("base error").SetStatusCode(http.StatusInternalServerError)
	assert.Equal(t, "base error", ErrBaseErr.Error())
	assert.Equal(t, "msg", ErrBaseErr.New("msg").Error())
	assert.ErrorIs(t, ErrBaseErr, ErrBaseErr)

	ErrFirstLevel := ErrBaseErr.New("first level").SetStatusCode(http.StatusNotFound)
	assert.Equal(t, "first level", ErrFirstLevel.Error())
	assert.Equal(t, http.StatusNotFound, ErrFirstLevel.StatusCode())
	assert.ErrorIs(t, ErrFirstLevel, ErrBaseErr)
	assert.NotErrorIs(t, ErrBaseErr, ErrFirstLevel)

	ErrAnotherErr := New("another error")
	ErrWrappedErr := ErrFirstLevel.Err(ErrAnotherErr)
	assert.Equal(t, "first level", ErrWrappedErr.Error())
	assert.Equal(t, "first level: another error", ErrWrappedErr.ErrorAll())
	assert.ErrorIs(t, ErrWrappedErr, ErrFirstLevel)
	assert.ErrorIs(t, ErrWrappedErr, ErrBaseErr)
	assert.ErrorIs(t, ErrWrappedErr, ErrAnotherErr)
	assert.Equal(t, http.StatusNotFound, ErrWrappedErr.StatusCode())

	err := errors.New("error")
	ErrWrappedErr = ErrFirstLevel.MsgErr("msg", err)
	assert.Equal(t, "msg", ErrWrappedErr.Error())
	assert.ErrorIs(t, ErrWrappedErr, ErrBaseErr)
	assert.ErrorIs(t, ErrWrappedErr, err)
}

func TestSentinelsAreNotModified(t *testing.T) {
	ErrBaseErr := New("base error")
	_ = ErrBaseErr.Msg("changed").Err(errors.New("cause"))

	assert.Equal(t, "base error", ErrBaseErr.Error())
	assert.Empty(t, ErrBaseErr.Unwrap())
}
