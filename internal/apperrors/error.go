package apperrors

// Error is an application error that remembers the sentinel it was derived
// from and the HTTP status it maps to.
type Error interface {
	Error() string
	ErrorAll() string
	New(msg string) Error
	Msg(msg string) Error
	MsgErr(msg string, err ...error) Error
	Err(err ...error) Error
	Unwrap() []error
	Is(target error) bool
	SetStatusCode(code int) Error
	StatusCode() int
}
