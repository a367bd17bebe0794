package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

type Error struct {
	Description string   `json:"description"`
	StatusCode  int      `json:"http_status_code"`
	Fields      []string `json:"fields,omitempty"`
}

type errorRsp struct {
	Result int      `json:"result"`
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

const Failure int = 0

func (e *Error) Send(w http.ResponseWriter) {
	if w == nil {
		return
	}
	rspJson, err := json.Marshal(&errorRsp{
		Result: Failure,
		Error:  e.Description,
		Fields: e.Fields,
	})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Unable to parse error"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	w.Write(rspJson)
}

func (e *Error) Error() string {
	return e.Description
}

func ErrReqMethodNotSupported() *Error {
	return &Error{
		Description: "Request Method Not Supported",
		StatusCode:  http.StatusMethodNotAllowed,
	}
}

func ErrUnableToParseReqData() *Error {
	return &Error{
		Description: "Unable to parse request data",
		StatusCode:  http.StatusBadRequest,
	}
}

func ErrInvalidRequest(msg ...string) *Error {
	description := "Invalid request"
	if len(msg) > 0 {
		description = strings.Join(msg, "; ")
	}
	return &Error{
		Description: description,
		StatusCode:  http.StatusBadRequest,
	}
}

func ErrUnAuthorized(msg ...string) *Error {
	description := "Unauthorized"
	if len(msg) > 0 {
		description = strings.Join(msg, "; ")
	}
	return &Error{
		Description: description,
		StatusCode:  http.StatusUnauthorized,
	}
}

func ErrNotFound(msg ...string) *Error {
	description := "Not found"
	if len(msg) > 0 {
		description = strings.Join(msg, "; ")
	}
	return &Error{
		Description: description,
		StatusCode:  http.StatusNotFound,
	}
}

func ErrApplicationError(msg ...string) *Error {
	description := "Unable to process request"
	if len(msg) > 0 {
		description = strings.Join(msg, "; ")
	}
	return &Error{
		Description: description,
		StatusCode:  http.StatusInternalServerError,
	}
}
