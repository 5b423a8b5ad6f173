// Package handlers implements the HTTP layer: request decoding,
// multipart handling, and response shaping. Business rules live in the
// service layer; handlers only translate between HTTP and services.
package handlers

import (
	"context"
	"mime/multipart"

	"github.com/omnilingu/backend/internal/models"
)

// UserServiceInterface defines the account operations used by handlers.
type UserServiceInterface interface {
	Register(ctx context.Context, reg *models.UserRegistration) (string, error)
	Login(ctx context.Context, creds *models.UserCredentials) (string, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	DeleteAccount(ctx context.Context, requesterID, targetID int64) error
}

// ResetServiceInterface defines the password reset operations used by handlers.
type ResetServiceInterface interface {
	RequestReset(ctx context.Context, email string) error
	ConfirmReset(ctx context.Context, req *models.ResetPasswordRequest) error
}

// DeckServiceInterface defines the deck operations used by handlers.
type DeckServiceInterface interface {
	CreateDeck(ctx context.Context, ownerID int64, title, description, filePath string) (*models.Deck, error)
	GetDeck(ctx context.Context, deckID, ownerID int64) (*models.Deck, error)
	ListDecks(ctx context.Context, ownerID int64) ([]*models.Deck, error)
	UpdateDeck(ctx context.Context, deckID, ownerID int64, update *models.DeckUpdate, filePath string) (*models.Deck, error)
	RemoveThumbnail(ctx context.Context, deckID, ownerID int64) (*models.Deck, error)
	DeleteDeck(ctx context.Context, deckID, ownerID int64) error
}

// CardServiceInterface defines the card operations used by handlers.
type CardServiceInterface interface {
	CreateCard(ctx context.Context, ownerID, deckID int64, question, answerText, status, filePath string) (*models.Card, error)
	GetCard(ctx context.Context, cardID, ownerID int64) (*models.Card, error)
	ListCards(ctx context.Context, deckID, ownerID int64) ([]*models.Card, error)
	UpdateCard(ctx context.Context, cardID, ownerID int64, update *models.CardUpdate, filePath string) (*models.Card, error)
	RemoveFile(ctx context.Context, cardID, ownerID int64) (*models.Card, error)
	DeleteCard(ctx context.Context, cardID, ownerID int64) error
	NextRevisionCard(ctx context.Context, deckID, ownerID int64) (*models.Card, error)
}

// FileSaver stores uploaded files. Satisfied by storage.FileStore.
type FileSaver interface {
	SaveDeckImage(file multipart.File, header *multipart.FileHeader) (string, error)
	SaveCardFile(file multipart.File, header *multipart.FileHeader) (string, error)
}
