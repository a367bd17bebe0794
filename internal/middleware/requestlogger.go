package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"free-rent/internal/logtrace"
)

const RequestIdHeader = "X-Free-Rent-Request-ID"

// RequestLogger logs the request and attaches a request scoped logger
// carrying a fresh request id to the context.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := newRequestId()
		ctx := logtrace.WithRequestId(r.Context(), requestID)
		ctx = log.With().Str("request_id", requestID).Logger().WithContext(ctx)
		w.Header().Set(RequestIdHeader, requestID)

		log.Ctx(ctx).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_ip", r.RemoteAddr).
			Msg("request")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newRequestId() string {
	u, err := uuid.NewRandom()
	if err != nil {
		return ""
	}
	return u.String()
}
