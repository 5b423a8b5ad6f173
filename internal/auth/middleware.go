package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/omnilingu/backend/internal/constants"
	"github.com/omnilingu/backend/internal/utils"
)

// ContextKey is a custom type for context keys to prevent collisions.
type ContextKey string

// Context keys for authenticated user information and request metadata.
const (
	// UserIDContextKey is the context key for the authenticated user ID.
	UserIDContextKey ContextKey = constants.UserIDContextKey

	// EmailContextKey is the context key for the authenticated user's email.
	EmailContextKey ContextKey = constants.EmailContextKey

	// RequestIDContextKey is the context key for the unique request ID.
	RequestIDContextKey ContextKey = constants.RequestIDContextKey
)

// Authenticator checks a request and returns the authenticated user's
// identity if the request carries a valid credential.
type Authenticator interface {
	Authenticate(r *http.Request) (int64, string, error)
}

// TokenAuthenticator authenticates requests with an identity token
// carried in the X-Auth-Token header.
type TokenAuthenticator struct {
	tokens TokenValidator
}

// NewTokenAuthenticator creates a new TokenAuthenticator with the
// specified token validator.
func NewTokenAuthenticator(tokens TokenValidator) *TokenAuthenticator {
	return &TokenAuthenticator{
		tokens: tokens,
	}
}

// Authenticate implements the Authenticator interface. A missing header
// and an invalid token fail differently: the former produces the
// auth-required error, the latter the token-not-valid error.
func (a *TokenAuthenticator) Authenticate(r *http.Request) (int64, string, error) {
	token := r.Header.Get(constants.HeaderAuthToken)
	if token == "" {
		return 0, "", utils.NewUnauthorizedError(constants.MsgAuthRequired)
	}

	claims, err := a.tokens.ValidateToken(token)
	if err != nil {
		return 0, "", err
	}

	return claims.UserID, claims.Email, nil
}

// Middleware wraps an HTTP handler with authentication. The request
// only proceeds when the authenticator accepts it.
func Middleware(next http.Handler, authenticator Authenticator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
			r.Header.Set(constants.HeaderXRequestID, requestID)
		}

		ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)

		userID, email, err := authenticator.Authenticate(r)
		if err != nil {
			log.Info().
				Err(err).
				Str("request_id", requestID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("Authentication failed")

			var appErr *utils.AppError
			if errors.As(err, &appErr) {
				utils.ErrorFromAppError(w, appErr)
			} else {
				utils.Unauthorized(w, constants.MsgAuthRequired)
			}
			return
		}

		ctx = context.WithValue(ctx, UserIDContextKey, userID)
		ctx = context.WithValue(ctx, EmailContextKey, email)

		log.Debug().
			Int64("user_id", userID).
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("User authenticated")

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth returns a middleware function for HTTP routers that
// requires authentication on every wrapped route.
func RequireAuth(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return Middleware(next, authenticator)
	}
}

// GetUserID extracts the user ID from the request context.
func GetUserID(r *http.Request) (int64, bool) {
	userID, ok := r.Context().Value(UserIDContextKey).(int64)
	return userID, ok
}

// GetEmail extracts the email from the request context.
func GetEmail(r *http.Request) (string, bool) {
	email, ok := r.Context().Value(EmailContextKey).(string)
	return email, ok
}

// GetRequestID extracts the request ID from the request context.
func GetRequestID(r *http.Request) (string, bool) {
	requestID, ok := r.Context().Value(RequestIDContextKey).(string)
	return requestID, ok
}

// IsAuthenticated checks if the request carries an authenticated user.
func IsAuthenticated(r *http.Request) bool {
	_, ok := GetUserID(r)
	return ok
}
