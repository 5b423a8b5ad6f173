package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/omnilingu/backend/internal/constants"
	"github.com/omnilingu/backend/internal/models"
	"github.com/omnilingu/backend/internal/repository"
	"github.com/omnilingu/backend/internal/utils"
)

// DeckService handles deck CRUD and the deck deletion cascade.
type DeckService struct {
	deckRepo repository.DeckRepository
	cardRepo repository.CardRepository
	files    FileRemover
}

// NewDeckService creates a new DeckService
func NewDeckService(
	deckRepo repository.DeckRepository,
	cardRepo repository.CardRepository,
	files FileRemover,
) *DeckService {
	return &DeckService{
		deckRepo: deckRepo,
		cardRepo: cardRepo,
		files:    files,
	}
}

// getOwnedDeck fetches a deck and enforces the ownership guard. Every
// deck operation goes through here before touching anything.
func (s *DeckService) getOwnedDeck(ctx context.Context, deckID, ownerID int64) (*models.Deck, error) {
	deck, err := s.deckRepo.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.OwnerID != ownerID {
		return nil, utils.NewForbiddenError(constants.MsgNotAuthorised)
	}
	return deck, nil
}

// CreateDeck creates a deck for the given owner. filePath is the
// already-stored thumbnail path, or empty when no image was uploaded.
func (s *DeckService) CreateDeck(ctx context.Context, ownerID int64, title, description, filePath string) (*models.Deck, error) {
	deck := models.NewDeck(ownerID, title, description)
	deck.FilePath = filePath

	if err := utils.ValidateStruct(deck); err != nil {
		return nil, err
	}

	if err := s.deckRepo.Create(ctx, deck); err != nil {
		return nil, err
	}

	return deck, nil
}

// GetDeck retrieves a single deck owned by the requester.
func (s *DeckService) GetDeck(ctx context.Context, deckID, ownerID int64) (*models.Deck, error) {
	return s.getOwnedDeck(ctx, deckID, ownerID)
}

// ListDecks retrieves all decks owned by the requester, newest first.
func (s *DeckService) ListDecks(ctx context.Context, ownerID int64) ([]*models.Deck, error) {
	return s.deckRepo.ListByOwner(ctx, ownerID)
}

// UpdateDeck applies the given changes to a deck owned by the
// requester. A non-empty filePath replaces the thumbnail; the old
// image is removed from disk.
func (s *DeckService) UpdateDeck(ctx context.Context, deckID, ownerID int64, update *models.DeckUpdate, filePath string) (*models.Deck, error) {
	deck, err := s.getOwnedDeck(ctx, deckID, ownerID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		deck.Title = *update.Title
	}
	if update.Description != nil {
		deck.Description = *update.Description
	}

	oldFilePath := ""
	if filePath != "" && filePath != deck.FilePath {
		oldFilePath = deck.FilePath
		deck.FilePath = filePath
	}

	if err := utils.ValidateStruct(deck); err != nil {
		return nil, err
	}

	if err := s.deckRepo.Update(ctx, deck); err != nil {
		return nil, err
	}

	if oldFilePath != "" {
		s.files.Remove(oldFilePath)
	}

	return deck, nil
}

// RemoveThumbnail unsets a deck's thumbnail and removes the image from
// disk. A deck without a thumbnail is left unchanged.
func (s *DeckService) RemoveThumbnail(ctx context.Context, deckID, ownerID int64) (*models.Deck, error) {
	deck, err := s.getOwnedDeck(ctx, deckID, ownerID)
	if err != nil {
		return nil, err
	}

	if deck.FilePath == "" {
		return deck, nil
	}

	oldFilePath := deck.FilePath
	deck.FilePath = ""

	if err := s.deckRepo.Update(ctx, deck); err != nil {
		return nil, err
	}

	s.files.Remove(oldFilePath)

	return deck, nil
}

// DeleteDeck removes a deck, its cards, and their stored files. The
// card list is snapshotted before any row is deleted so every file
// path survives to the removal phase. Rows go first; file removal is
// best effort and never fails the operation.
func (s *DeckService) DeleteDeck(ctx context.Context, deckID, ownerID int64) error {
	deck, err := s.getOwnedDeck(ctx, deckID, ownerID)
	if err != nil {
		return err
	}

	cards, err := s.cardRepo.ListByDeck(ctx, deckID)
	if err != nil {
		return err
	}

	removedCards, err := s.cardRepo.DeleteByDeck(ctx, deckID)
	if err != nil {
		return err
	}

	if err := s.deckRepo.Delete(ctx, deckID); err != nil {
		return err
	}

	for _, card := range cards {
		s.files.Remove(card.FilePath)
	}
	s.files.Remove(deck.FilePath)

	log.Info().
		Int64("deck_id", deckID).
		Int64("cards_removed", removedCards).
		Msg("Deck deleted with cards")

	return nil
}
