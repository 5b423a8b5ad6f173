// Package constants provides shared constant values used throughout the application.
package constants

// HTTP status codes used by the application.
const (
	StatusOK                  = 200
	StatusCreated             = 201
	StatusNoContent           = 204
	StatusBadRequest          = 400
	StatusUnauthorized        = 401
	StatusForbidden           = 403
	StatusNotFound            = 404
	StatusMethodNotAllowed    = 405
	StatusConflict            = 409
	StatusTooManyRequests     = 429
	StatusInternalServerError = 500
)

// Application-level response codes. These give clients a machine-readable
// category beyond the HTTP status code.
const (
	ResponseSuccess = true
	ResponseFailure = false

	CodeBadRequest         = "bad_request"
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeMethodNotAllowed   = "method_not_allowed"
	CodeConflict           = "conflict"
	CodeInternalError      = "internal_error"
	CodeValidationError    = "validation_error"
	CodeInvalidCredentials = "invalid_credentials"
	CodeTokenExpired       = "token_expired"
	CodeTokenInvalid       = "token_invalid"
	CodeResetExpired       = "reset_expired"
	CodeRateLimited        = "rate_limited"
)

// HTTP header names.
const (
	// HeaderAuthToken is the custom request header carrying the identity token.
	HeaderAuthToken = "X-Auth-Token"

	HeaderXRequestID            = "X-Request-ID"
	HeaderContentType           = "Content-Type"
	HeaderCacheControl          = "Cache-Control"
	HeaderXContentTypeOptions   = "X-Content-Type-Options"
	HeaderXFrameOptions         = "X-Frame-Options"
	HeaderXXSSProtection        = "X-XSS-Protection"
	HeaderReferrerPolicy        = "Referrer-Policy"
	HeaderContentSecurityPolicy = "Content-Security-Policy"
)

// Header values for security and content negotiation.
const (
	ContentTypeJSON            = "application/json"
	ContentTypeOptionsNoSniff  = "nosniff"
	FrameOptionsDeny           = "DENY"
	XSSProtectionModeBlock     = "1; mode=block"
	ReferrerPolicyStrictOrigin = "strict-origin-when-cross-origin"
	CSPDefaultSrc              = "default-src 'self'"
)
