package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"free-rent/internal/auth"
	"free-rent/internal/httpx"
)

// RequireOperator rejects requests without valid basic auth credentials and
// records the operator name on the context.
func RequireOperator(a *auth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, password, ok := r.BasicAuth()
			if !ok || a.Check(user, password) != nil {
				w.Header().Set("WWW-Authenticate", `Basic realm="free-rent"`)
				httpx.ErrUnAuthorized().Send(w)
				return
			}
			ctx := auth.WithOperator(r.Context(), user)
			ctx = log.Ctx(ctx).With().Str("operator", user).Logger().WithContext(ctx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
