package handlers

import (
	"net/http"

	"github.com/omnilingu/backend/internal/auth"
	"github.com/omnilingu/backend/internal/constants"
	"github.com/omnilingu/backend/internal/models"
	"github.com/omnilingu/backend/internal/utils"
)

// AuthHandler handles login, current-account lookup, and the password
// reset flow.
type AuthHandler struct {
	userService  UserServiceInterface
	resetService ResetServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService UserServiceInterface, resetService ResetServiceInterface) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		resetService: resetService,
	}
}

// Login handles credential verification and token issuing.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.UserCredentials
	if err := utils.DecodeAndValidate(r, &creds); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	token, err := h.userService.Login(r.Context(), &creds)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, models.AuthResponse{Token: token})
}

// GetCurrentUser returns the authenticated account without sensitive
// fields.
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, user)
}

// ForgotPassword starts the reset flow. The success message is sent
// before the email has actually been delivered; delivery runs in the
// background.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.resetService.RequestReset(r.Context(), req.Email); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, map[string]string{
		"message": constants.MsgResetEmailSent,
	})
}

// ResetPassword completes the reset flow with the credential from the
// emailed link.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.resetService.ConfirmReset(r.Context(), &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, map[string]string{
		"message": constants.MsgPasswordUpdated,
	})
}
