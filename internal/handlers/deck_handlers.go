package handlers

import (
	"net/http"

	"github.com/omnilingu/backend/internal/auth"
	"github.com/omnilingu/backend/internal/constants"
	"github.com/omnilingu/backend/internal/models"
	"github.com/omnilingu/backend/internal/utils"
)

// DeckHandler handles deck routes. Create and update accept multipart
// forms so a thumbnail can ride along with the text fields.
type DeckHandler struct {
	deckService DeckServiceInterface
	files       FileSaver
}

// NewDeckHandler creates a new DeckHandler
func NewDeckHandler(deckService DeckServiceInterface, files FileSaver) *DeckHandler {
	return &DeckHandler{
		deckService: deckService,
		files:       files,
	}
}

// ListDecks returns the requester's decks, newest first.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	decks, err := h.deckService.ListDecks(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, decks)
}

// GetDeck returns a single deck owned by the requester.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	deckID, err := parseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	deck, err := h.deckService.GetDeck(r.Context(), deckID, userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, deck)
}

// CreateDeck creates a deck from a multipart form with an optional
// thumbnail image.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	if err := parseMultipart(r); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	title, _ := formValue(r, constants.FormFieldTitle)
	description, _ := formValue(r, constants.FormFieldDescription)

	filePath, err := saveUpload(r, h.files.SaveDeckImage)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	deck, err := h.deckService.CreateDeck(r.Context(), userID, title, description, filePath)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusCreated, deck)
}

// UpdateDeck applies partial changes from a multipart form. Absent
// fields stay untouched; a new thumbnail replaces the old one.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	deckID, err := parseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := parseMultipart(r); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	update := &models.DeckUpdate{}
	if title, ok := formValue(r, constants.FormFieldTitle); ok {
		update.Title = &title
	}
	if description, ok := formValue(r, constants.FormFieldDescription); ok {
		update.Description = &description
	}

	filePath, err := saveUpload(r, h.files.SaveDeckImage)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	deck, err := h.deckService.UpdateDeck(r.Context(), deckID, userID, update, filePath)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, deck)
}

// RemoveThumbnail unsets a deck's thumbnail and deletes the image.
func (h *DeckHandler) RemoveThumbnail(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	deckID, err := parseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	deck, err := h.deckService.RemoveThumbnail(r.Context(), deckID, userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, deck)
}

// DeleteDeck removes a deck with its cards and files.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	deckID, err := parseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.deckService.DeleteDeck(r.Context(), deckID, userID); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, map[string]string{
		"message": constants.MsgDeckRemoved,
	})
}
