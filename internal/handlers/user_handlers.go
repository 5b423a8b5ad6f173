package handlers

import (
	"net/http"

	"github.com/omnilingu/backend/internal/auth"
	"github.com/omnilingu/backend/internal/constants"
	"github.com/omnilingu/backend/internal/models"
	"github.com/omnilingu/backend/internal/utils"
)

// UserHandler handles account registration and deletion routes
type UserHandler struct {
	userService UserServiceInterface
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService UserServiceInterface) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Register handles creating a new account. The response carries an
// identity token so registration doubles as the first login.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg models.UserRegistration
	if err := utils.DecodeAndValidate(r, &reg); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	token, err := h.userService.Register(r.Context(), &reg)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusCreated, models.AuthResponse{Token: token})
}

// DeleteAccount handles deleting an account together with everything
// it owns. Only the account owner may delete it.
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	targetID, err := parseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.userService.DeleteAccount(r.Context(), userID, targetID); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, map[string]string{
		"message": constants.MsgUserRemoved,
	})
}
