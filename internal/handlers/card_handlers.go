package handlers

import (
	"net/http"
	"strconv"

	"github.com/omnilingu/backend/internal/auth"
	"github.com/omnilingu/backend/internal/constants"
	"github.com/omnilingu/backend/internal/models"
	"github.com/omnilingu/backend/internal/utils"
)

// CardHandler handles card routes, including the revision endpoint.
type CardHandler struct {
	cardService CardServiceInterface
	files       FileSaver
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cardService CardServiceInterface, files FileSaver) *CardHandler {
	return &CardHandler{
		cardService: cardService,
		files:       files,
	}
}

// CreateCard creates a card from a multipart form with an optional
// image or audio attachment. The deck field carries the target deck ID.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	if err := parseMultipart(r); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	deckField, _ := formValue(r, constants.FormFieldDeck)
	deckID, err := strconv.ParseInt(deckField, 10, 64)
	if err != nil || deckID <= 0 {
		utils.BadRequest(w, "Invalid deck field", nil)
		return
	}

	question, _ := formValue(r, constants.FormFieldQuestion)
	answerText, _ := formValue(r, constants.FormFieldAnswerText)
	status, _ := formValue(r, constants.FormFieldStatus)

	filePath, err := saveUpload(r, h.files.SaveCardFile)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	card, err := h.cardService.CreateCard(r.Context(), userID, deckID, question, answerText, status, filePath)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusCreated, card)
}

// ListCards returns all cards in a deck owned by the requester.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	deckID, err := parseIDParam(r, constants.ParamDeckID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	cards, err := h.cardService.ListCards(r.Context(), deckID, userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, cards)
}

// GetCard returns a single card owned by the requester.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	cardID, err := parseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	card, err := h.cardService.GetCard(r.Context(), cardID, userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, card)
}

// UpdateCard applies partial changes from a multipart form. Absent
// fields stay untouched; a new attachment replaces the old one.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	cardID, err := parseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := parseMultipart(r); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	update := &models.CardUpdate{}
	if question, ok := formValue(r, constants.FormFieldQuestion); ok {
		update.Question = &question
	}
	if answerText, ok := formValue(r, constants.FormFieldAnswerText); ok {
		update.AnswerText = &answerText
	}
	if status, ok := formValue(r, constants.FormFieldStatus); ok {
		update.Status = &status
	}

	filePath, err := saveUpload(r, h.files.SaveCardFile)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	card, err := h.cardService.UpdateCard(r.Context(), cardID, userID, update, filePath)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, card)
}

// RemoveFile unsets a card's attachment and deletes the file.
func (h *CardHandler) RemoveFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	cardID, err := parseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	card, err := h.cardService.RemoveFile(r.Context(), cardID, userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, card)
}

// DeleteCard removes a card along with its attachment.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	cardID, err := parseIDParam(r, constants.ParamID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), cardID, userID); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, map[string]string{
		"message": constants.MsgCardRemoved,
	})
}

// ReviseCard returns the next card to revise from a deck. A deck with
// no rated cards answers 200 with a null body so clients can end the
// session cleanly.
func (h *CardHandler) ReviseCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	deckID, err := parseIDParam(r, constants.ParamDeckID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	card, err := h.cardService.NextRevisionCard(r.Context(), deckID, userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if card == nil {
		utils.JSON(w, constants.StatusOK, nil)
		return
	}

	utils.JSON(w, constants.StatusOK, card)
}
