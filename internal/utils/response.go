// Package utils provides utility functions and helpers for the application.
// This file implements a standardized API response system so that every
// endpoint answers in the same envelope:
//
//	{"success": true, "data": ...}
//	{"success": false, "error": {"code": ..., "message": ...}}
package utils

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/omnilingu/backend/internal/constants"
)

// Response represents a standardized API response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo represents error information in the response.
type ErrorInfo struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// JSON sends a JSON response with the given status code and data.
// The success flag is derived from the status code.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	response := Response{
		Success: statusCode >= 200 && statusCode < 300,
		Data:    data,
	}
	SendJSON(w, statusCode, response)
}

// Error sends an error response with the given status code and error information.
func Error(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	response := Response{
		Success: constants.ResponseFailure,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	SendJSON(w, statusCode, response)
}

// ErrorFromAppError sends an error response based on an AppError.
func ErrorFromAppError(w http.ResponseWriter, err *AppError) {
	errCode := constants.CodeInternalError
	switch err.Err {
	case ErrNotFound:
		errCode = constants.CodeNotFound
	case ErrBadRequest:
		errCode = constants.CodeBadRequest
	case ErrUnauthorized:
		errCode = constants.CodeUnauthorized
	case ErrForbidden:
		errCode = constants.CodeForbidden
	case ErrValidation:
		errCode = constants.CodeValidationError
	case ErrDuplicate:
		errCode = constants.CodeConflict
	case ErrInvalidCredentials:
		errCode = constants.CodeInvalidCredentials
	case ErrExpiredToken:
		errCode = constants.CodeTokenExpired
	case ErrInvalidToken:
		errCode = constants.CodeTokenInvalid
	case ErrResetExpired:
		errCode = constants.CodeResetExpired
	}

	var details map[string]string
	if err.Field != "" {
		details = map[string]string{
			err.Field: err.Message,
		}
	}
	if err.Details != nil {
		details = make(map[string]string, len(err.Details))
		for k, v := range err.Details {
			if s, ok := v.(string); ok {
				details[k] = s
			}
		}
	}

	if err.StatusCode >= 500 {
		log.Error().Str("dev_info", err.DevInfo).Msg(err.Message)
	}

	Error(w, err.StatusCode, errCode, err.Message, details)
}

// SendJSON is a helper function to send JSON data with proper headers.
func SendJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(statusCode)

	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		if _, err := w.Write([]byte(`{"success":false,"error":{"code":"internal_error","message":"Failed to generate response"}}`)); err != nil {
			log.Error().Err(err).Msg("Failed to write error response")
		}
		return
	}

	if _, err = w.Write(jsonData); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// NoContent sends a 204 No Content response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(constants.StatusNoContent)
}

// BadRequest sends a 400 Bad Request response with the given message.
func BadRequest(w http.ResponseWriter, message string, details map[string]string) {
	Error(w, constants.StatusBadRequest, constants.CodeBadRequest, message, details)
}

// Unauthorized sends a 401 Unauthorized response with the given message.
func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = constants.MsgAuthRequired
	}
	Error(w, constants.StatusUnauthorized, constants.CodeUnauthorized, message, nil)
}

// NotFound sends a 404 Not Found response with the given message.
func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "The requested resource could not be found"
	}
	Error(w, constants.StatusNotFound, constants.CodeNotFound, message, nil)
}

// MethodNotAllowed sends a 405 Method Not Allowed response.
func MethodNotAllowed(w http.ResponseWriter) {
	Error(w, constants.StatusMethodNotAllowed, constants.CodeMethodNotAllowed, constants.MsgMethodNotAllowed, nil)
}

// InternalServerError sends a 500 response. The underlying error is logged
// server-side only, never exposed to the client.
func InternalServerError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("Internal server error")
	Error(w, constants.StatusInternalServerError, constants.CodeInternalError, constants.MsgServerError, nil)
}

// ValidationError sends a 400 Bad Request response with field-level details.
func ValidationError(w http.ResponseWriter, errors map[string]string) {
	Error(w, constants.StatusBadRequest, constants.CodeValidationError, "Validation failed", errors)
}
