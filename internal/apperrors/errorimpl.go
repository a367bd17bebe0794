package apperrors

import "strings"

// appError implements the apperrors.Error interface. Values are never
// modified once created so package level sentinels stay safe to share.
type appError struct {
	msg           string
	base          Error
	wrappedErrors []error
	statuscode    int
}

func (e *appError) Error() string {
	return e.msg
}

func (e *appError) ErrorAll() string {
	if len(e.wrappedErrors) == 0 {
		return e.msg
	}
	msgs := make([]string, 0, len(e.wrappedErrors))
	for _, err := range e.wrappedErrors {
		msgs = append(msgs, err.Error())
	}
	return e.msg + ": " + strings.Join(msgs, ";")
}

func (e *appError) Unwrap() []error {
	return e.wrappedErrors
}

// New derives a child error that matches e with errors.Is.
func (e *appError) New(msg string) Error {
	return &appError{
		msg:        msg,
		statuscode: e.statuscode,
		base:       e,
	}
}

func (e *appError) Msg(msg string) Error {
	c := e.clone()
	c.msg = msg
	return c
}

func (e *appError) MsgErr(msg string, err ...error) Error {
	c := e.clone()
	c.msg = msg
	c.wrappedErrors = append(c.wrappedErrors, err...)
	return c
}

func (e *appError) Err(err ...error) Error {
	c := e.clone()
	c.wrappedErrors = append(c.wrappedErrors, err...)
	return c
}

func (e *appError) Is(target error) bool {
	if e == target || e.base == target {
		return true
	}
	if e.base != nil && e.base.Is(target) {
		return true
	}
	for _, err := range e.wrappedErrors {
		if err == target {
			return true
		}
	}
	return false
}

func (e *appError) SetStatusCode(code int) Error {
	c := e.clone()
	c.statuscode = code
	return c
}

func (e *appError) StatusCode() int {
	return e.statuscode
}

// clone returns a copy that matches e and everything e matches.
func (e *appError) clone() *appError {
	return &appError{
		msg:           e.msg,
		base:          e,
		wrappedErrors: append([]error(nil), e.wrappedErrors...),
		statuscode:    e.statuscode,
	}
}

func New(msg string) Error {
	return &appError{msg: msg}
}
