// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file defines user-facing error messages. These are
// carefully worded so that they stay informative without revealing
// implementation details. A few of them deliberately never distinguish the
// underlying cause (see MsgResetLinkExpired).
package constants

const (
	// MsgAuthRequired is returned when no identity token accompanies a request.
	MsgAuthRequired = "Access Denied - You are unauthorised"

	// MsgTokenInvalid is returned when the supplied token fails verification,
	// is malformed, or has expired.
	MsgTokenInvalid = "Access Denied - Token not valid"

	// MsgNotAuthorised is returned on an ownership mismatch. The original
	// system renders this as 401, not 403, and we keep that contract.
	MsgNotAuthorised = "Not authorised"

	// MsgInvalidCredentials is returned on a failed login. It never says
	// whether the email or the password was wrong.
	MsgInvalidCredentials = "Invalid credentials"

	// MsgUserExists is returned when registering with a taken email.
	MsgUserExists = "User already exists"

	// MsgEmailNotRegistered is returned when a reset is requested for an
	// unknown email address.
	MsgEmailNotRegistered = "The provided email address is not registered"

	// MsgResetEmailSent acknowledges a reset request.
	MsgResetEmailSent = "An email has been sent. Please check your inbox."

	// MsgResetLinkExpired collapses both "token mismatch" and "token
	// expired" into a single message so callers cannot tell them apart.
	MsgResetLinkExpired = "Update failed. The link may have expired. Please try again."

	// MsgPasswordUpdated confirms a successful password reset.
	MsgPasswordUpdated = "Your password was successfully updated."

	MsgDeckNotFound  = "Deck not found"
	MsgCardNotFound  = "Card not found"
	MsgUserNotFound  = "User not found"
	MsgDeckRemoved   = "Deck was removed"
	MsgCardRemoved   = "Card was removed"
	MsgUserRemoved   = "User was removed"
	MsgRateLimited   = "Too many requests. Please try again later."
	MsgServerError   = "An internal server error occurred"
	MsgInvalidImage  = "Invalid file format. Only png, jpg, and jpeg are allowed."
	MsgInvalidStatus = "Status must be one of: easy, medium, hard"

	MsgRequestBodyTooLarge = "Request body too large"
	MsgEmptyRequestBody    = "Request body must not be empty"
	MsgMalformedJSON       = "Request body contains malformed JSON"
	MsgMethodNotAllowed    = "Method not allowed"
)
