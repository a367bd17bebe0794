package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"free-rent/internal/apperrors"
	"free-rent/internal/store"
	"free-rent/internal/validate"
)

func GetRequestData(r *http.Request, data any) error {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		return ErrReqMethodNotSupported()
	}
	if r.Body == nil {
		log.Ctx(r.Context()).Error().Msg("Empty request body")
		return ErrUnableToParseReqData()
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(data); err != nil {
		log.Ctx(r.Context()).Debug().Err(err).Msg("Unable to decode request body")
		return ErrUnableToParseReqData()
	}
	return nil
}

type Response struct {
	StatusCode int
	Location   string
	Response   any
}

type RequestHandler func(r *http.Request) (*Response, error)

func WrapHttpRsp(handler RequestHandler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rsp, err := handler(r)
		if err != nil {
			errorFor(r, err).Send(w)
			return
		}
		if rsp == nil {
			ErrApplicationError().Send(w)
			return
		}
		if rsp.Location != "" {
			w.Header().Set("Location", rsp.Location)
		}
		SendJsonRsp(w, rsp.StatusCode, rsp.Response)
	})
}

// SendError writes the response for err.
func SendError(w http.ResponseWriter, r *http.Request, err error) {
	errorFor(r, err).Send(w)
}

// errorFor maps an application error to the response sent to clients.
// Storage failures are logged in full and reported without driver detail.
func errorFor(r *http.Request, err error) *Error {
	var httpErr *Error
	var verr *validate.Error
	var ce *store.ConstraintError
	var appErr apperrors.Error
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.As(err, &verr):
		return &Error{StatusCode: verr.StatusCode(), Description: verr.Error(), Fields: verr.Fields}
	case errors.As(err, &ce):
		e := &Error{StatusCode: ce.StatusCode(), Description: ce.Error()}
		if ce.Field != "" {
			e.Fields = []string{ce.Field}
		}
		return e
	case errors.As(err, &appErr):
		statusCode := appErr.StatusCode()
		if statusCode == 0 || statusCode >= http.StatusInternalServerError {
			log.Ctx(r.Context()).Error().Str("error", appErr.ErrorAll()).Msg("request failed")
			return ErrApplicationError()
		}
		return &Error{StatusCode: statusCode, Description: appErr.Error()}
	}
	log.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	return ErrApplicationError()
}

func SendJsonRsp(w http.ResponseWriter, statusCode int, data any) {
	if statusCode == http.StatusNoContent || data == nil {
		w.WriteHeader(statusCode)
		return
	}
	body, err := json.Marshal(data)
	if err != nil {
		ErrApplicationError("unable to encode response").Send(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(body)
}
