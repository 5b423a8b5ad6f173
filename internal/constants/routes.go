// Package constants provides shared constant values used throughout the application.
package constants

// Base routes establish the URL hierarchy of the API.
const (
	// APIBasePath is the root path prefix for all API endpoints.
	APIBasePath = "/api"

	// HealthPath is the endpoint for health checks and system status.
	HealthPath = "/health"

	// VersionPath is the endpoint reporting the running version.
	VersionPath = "/version"
)

// URL parameters used in route definitions.
const (
	// ParamID is the URL parameter for generic resource identifiers.
	ParamID = "id"

	// ParamDeckID is the URL parameter for deck identifiers.
	ParamDeckID = "deckID"
)

// Form fields accepted by the multipart deck and card endpoints.
const (
	FormFieldTitle       = "title"
	FormFieldDescription = "description"
	FormFieldDeck        = "deck"
	FormFieldQuestion    = "question"
	FormFieldAnswerText  = "answerText"
	FormFieldStatus      = "status"
	FormFieldFile        = "file"
)
