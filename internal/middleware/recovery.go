// Package middleware provides HTTP middleware components.
package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/omnilingu/backend/internal/auth"
	"github.com/omnilingu/backend/internal/constants"
	"github.com/omnilingu/backend/internal/utils"
)

// Recovery recovers from panics in request handlers and answers with a
// 500 instead of dropping the connection.
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					requestID, _ := auth.GetRequestID(r)

					log.Error().
						Str("request_id", requestID).
						Interface("panic", err).
						Str("stack", string(debug.Stack())).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Str("remote_addr", r.RemoteAddr).
						Msg("Panic recovered in request handler")

					utils.Error(
						w,
						constants.StatusInternalServerError,
						constants.CodeInternalError,
						constants.MsgServerError,
						nil,
					)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
