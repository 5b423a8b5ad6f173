package handlers

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"

	"github.com/omnilingu/backend/internal/auth"
	"github.com/omnilingu/backend/internal/models"
)

// Service fakes. Each method delegates to an optional func field so
// individual tests override only what they exercise.

type fakeUserService struct {
	RegisterFunc      func(ctx context.Context, reg *models.UserRegistration) (string, error)
	LoginFunc         func(ctx context.Context, creds *models.UserCredentials) (string, error)
	GetUserFunc       func(ctx context.Context, id int64) (*models.User, error)
	DeleteAccountFunc func(ctx context.Context, requesterID, targetID int64) error
}

func (f *fakeUserService) Register(ctx context.Context, reg *models.UserRegistration) (string, error) {
	return f.RegisterFunc(ctx, reg)
}

func (f *fakeUserService) Login(ctx context.Context, creds *models.UserCredentials) (string, error) {
	return f.LoginFunc(ctx, creds)
}

func (f *fakeUserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return f.GetUserFunc(ctx, id)
}

func (f *fakeUserService) DeleteAccount(ctx context.Context, requesterID, targetID int64) error {
	return f.DeleteAccountFunc(ctx, requesterID, targetID)
}

type fakeResetService struct {
	RequestResetFunc func(ctx context.Context, email string) error
	ConfirmResetFunc func(ctx context.Context, req *models.ResetPasswordRequest) error
}

func (f *fakeResetService) RequestReset(ctx context.Context, email string) error {
	return f.RequestResetFunc(ctx, email)
}

func (f *fakeResetService) ConfirmReset(ctx context.Context, req *models.ResetPasswordRequest) error {
	return f.ConfirmResetFunc(ctx, req)
}

type fakeDeckService struct {
	CreateDeckFunc      func(ctx context.Context, ownerID int64, title, description, filePath string) (*models.Deck, error)
	GetDeckFunc         func(ctx context.Context, deckID, ownerID int64) (*models.Deck, error)
	ListDecksFunc       func(ctx context.Context, ownerID int64) ([]*models.Deck, error)
	UpdateDeckFunc      func(ctx context.Context, deckID, ownerID int64, update *models.DeckUpdate, filePath string) (*models.Deck, error)
	RemoveThumbnailFunc func(ctx context.Context, deckID, ownerID int64) (*models.Deck, error)
	DeleteDeckFunc      func(ctx context.Context, deckID, ownerID int64) error
}

func (f *fakeDeckService) CreateDeck(ctx context.Context, ownerID int64, title, description, filePath string) (*models.Deck, error) {
	return f.CreateDeckFunc(ctx, ownerID, title, description, filePath)
}

func (f *fakeDeckService) GetDeck(ctx context.Context, deckID, ownerID int64) (*models.Deck, error) {
	return f.GetDeckFunc(ctx, deckID, ownerID)
}

func (f *fakeDeckService) ListDecks(ctx context.Context, ownerID int64) ([]*models.Deck, error) {
	return f.ListDecksFunc(ctx, ownerID)
}

func (f *fakeDeckService) UpdateDeck(ctx context.Context, deckID, ownerID int64, update *models.DeckUpdate, filePath string) (*models.Deck, error) {
	return f.UpdateDeckFunc(ctx, deckID, ownerID, update, filePath)
}

func (f *fakeDeckService) RemoveThumbnail(ctx context.Context, deckID, ownerID int64) (*models.Deck, error) {
	return f.RemoveThumbnailFunc(ctx, deckID, ownerID)
}

func (f *fakeDeckService) DeleteDeck(ctx context.Context, deckID, ownerID int64) error {
	return f.DeleteDeckFunc(ctx, deckID, ownerID)
}

type fakeCardService struct {
	CreateCardFunc       func(ctx context.Context, ownerID, deckID int64, question, answerText, status, filePath string) (*models.Card, error)
	GetCardFunc          func(ctx context.Context, cardID, ownerID int64) (*models.Card, error)
	ListCardsFunc        func(ctx context.Context, deckID, ownerID int64) ([]*models.Card, error)
	UpdateCardFunc       func(ctx context.Context, cardID, ownerID int64, update *models.CardUpdate, filePath string) (*models.Card, error)
	RemoveFileFunc       func(ctx context.Context, cardID, ownerID int64) (*models.Card, error)
	DeleteCardFunc       func(ctx context.Context, cardID, ownerID int64) error
	NextRevisionCardFunc func(ctx context.Context, deckID, ownerID int64) (*models.Card, error)
}

func (f *fakeCardService) CreateCard(ctx context.Context, ownerID, deckID int64, question, answerText, status, filePath string) (*models.Card, error) {
	return f.CreateCardFunc(ctx, ownerID, deckID, question, answerText, status, filePath)
}

func (f *fakeCardService) GetCard(ctx context.Context, cardID, ownerID int64) (*models.Card, error) {
	return f.GetCardFunc(ctx, cardID, ownerID)
}

func (f *fakeCardService) ListCards(ctx context.Context, deckID, ownerID int64) ([]*models.Card, error) {
	return f.ListCardsFunc(ctx, deckID, ownerID)
}

func (f *fakeCardService) UpdateCard(ctx context.Context, cardID, ownerID int64, update *models.CardUpdate, filePath string) (*models.Card, error) {
	return f.UpdateCardFunc(ctx, cardID, ownerID, update, filePath)
}

func (f *fakeCardService) RemoveFile(ctx context.Context, cardID, ownerID int64) (*models.Card, error) {
	return f.RemoveFileFunc(ctx, cardID, ownerID)
}

func (f *fakeCardService) DeleteCard(ctx context.Context, cardID, ownerID int64) error {
	return f.DeleteCardFunc(ctx, cardID, ownerID)
}

func (f *fakeCardService) NextRevisionCard(ctx context.Context, deckID, ownerID int64) (*models.Card, error) {
	return f.NextRevisionCardFunc(ctx, deckID, ownerID)
}

// fakeFileSaver records uploads and returns deterministic paths.
type fakeFileSaver struct {
	DeckSaves []string
	CardSaves []string
	Err       error
}

func (f *fakeFileSaver) SaveDeckImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	path := fmt.Sprintf("storage/decks/stored-%s", header.Filename)
	f.DeckSaves = append(f.DeckSaves, path)
	return path, nil
}

func (f *fakeFileSaver) SaveCardFile(file multipart.File, header *multipart.FileHeader) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	path := fmt.Sprintf("storage/cards/stored-%s", header.Filename)
	f.CardSaves = append(f.CardSaves, path)
	return path, nil
}

// withAuth attaches an authenticated user to the request context the
// same way the auth middleware does.
func withAuth(r *http.Request, userID int64) *http.Request {
	ctx := context.WithValue(r.Context(), auth.UserIDContextKey, userID)
	ctx = context.WithValue(ctx, auth.EmailContextKey, "test@example.com")
	return r.WithContext(ctx)
}

// withURLParam attaches a chi URL parameter to the request context.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// doRequest runs a handler and returns the recorder.
func doRequest(handler http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler(rec, r)
	return rec
}
