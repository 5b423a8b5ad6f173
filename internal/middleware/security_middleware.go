package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/omnilingu/backend/internal/constants"
	"github.com/omnilingu/backend/internal/utils"
	"github.com/omnilingu/backend/internal/utils/ratelimit"
)

// Rate limit categories. Auth-sensitive endpoints carry tighter limits
// than the general API.
const (
	CategoryAPI  = "api"
	CategoryAuth = "auth"
)

// SecurityHeaders sets response headers that harden the API against
// sniffing, framing, and injection in browser clients.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := w.Header()
			header.Set(constants.HeaderXContentTypeOptions, constants.ContentTypeOptionsNoSniff)
			header.Set(constants.HeaderXFrameOptions, constants.FrameOptionsDeny)
			header.Set(constants.HeaderXXSSProtection, constants.XSSProtectionModeBlock)
			header.Set(constants.HeaderReferrerPolicy, constants.ReferrerPolicyStrictOrigin)
			header.Set(constants.HeaderContentSecurityPolicy, constants.CSPDefaultSrc)

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit limits request rates per client IP for the given category.
// Exceeding the limit answers 429 with a Retry-After hint.
func RateLimit(store *ratelimit.Store, category string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isExemptedPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := getClientIP(r)
			if !store.Allow(clientIP, category) {
				log.Warn().
					Str("client_ip", clientIP).
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Str("category", category).
					Msg("Rate limit exceeded")

				w.Header().Set("Retry-After", "60")
				utils.Error(w, constants.StatusTooManyRequests,
					constants.CodeRateLimited, constants.MsgRateLimited, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP address, honouring common proxy
// headers before falling back to the connection address.
func getClientIP(r *http.Request) string {
	if xForwardedFor := r.Header.Get("X-Forwarded-For"); xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		return strings.TrimSpace(ips[0])
	}

	if xRealIP := r.Header.Get("X-Real-IP"); xRealIP != "" {
		return xRealIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// isExemptedPath reports whether the path skips rate limiting, such as
// health checks and served static files.
func isExemptedPath(path string) bool {
	exemptPrefixes := []string{
		constants.HealthPath,
		constants.VersionPath,
		"/storage/",
		"/favicon.ico",
	}

	for _, prefix := range exemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}
