package service

import (
	"context"
	"math/rand"

	"github.com/rs/zerolog/log"

	"github.com/omnilingu/backend/internal/constants"
	"github.com/omnilingu/backend/internal/models"
	"github.com/omnilingu/backend/internal/repository"
	"github.com/omnilingu/backend/internal/utils"
)

// revisionTiers is the order the revision selector walks difficulty
// statuses: hardest first, so struggling material always wins.
var revisionTiers = []string{
	constants.StatusHard,
	constants.StatusMedium,
	constants.StatusEasy,
}

// CardService handles card CRUD and the revision selector.
type CardService struct {
	cardRepo repository.CardRepository
	deckRepo repository.DeckRepository
	files    FileRemover

	// randIntn picks a uniform offset within a tier. Injected so tests
	// can pin the choice.
	randIntn func(n int) int
}

// NewCardService creates a new CardService
func NewCardService(
	cardRepo repository.CardRepository,
	deckRepo repository.DeckRepository,
	files FileRemover,
) *CardService {
	return &CardService{
		cardRepo: cardRepo,
		deckRepo: deckRepo,
		files:    files,
		randIntn: rand.Intn,
	}
}

// getOwnedCard fetches a card and enforces the ownership guard.
func (s *CardService) getOwnedCard(ctx context.Context, cardID, ownerID int64) (*models.Card, error) {
	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.OwnerID != ownerID {
		return nil, utils.NewForbiddenError(constants.MsgNotAuthorised)
	}
	return card, nil
}

// getOwnedDeck fetches a deck and enforces the ownership guard.
func (s *CardService) getOwnedDeck(ctx context.Context, deckID, ownerID int64) (*models.Deck, error) {
	deck, err := s.deckRepo.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.OwnerID != ownerID {
		return nil, utils.NewForbiddenError(constants.MsgNotAuthorised)
	}
	return deck, nil
}

// CreateCard creates a card inside a deck owned by the requester.
// filePath is the already-stored attachment path, or empty.
func (s *CardService) CreateCard(ctx context.Context, ownerID, deckID int64, question, answerText, status, filePath string) (*models.Card, error) {
	if _, err := s.getOwnedDeck(ctx, deckID, ownerID); err != nil {
		return nil, err
	}

	if err := utils.ValidateStatus(status); err != nil {
		return nil, err
	}

	card := models.NewCard(ownerID, deckID, question, answerText)
	card.Status = status
	card.FilePath = filePath

	if err := utils.ValidateStruct(card); err != nil {
		return nil, err
	}

	if err := s.cardRepo.Create(ctx, card); err != nil {
		return nil, err
	}

	return card, nil
}

// GetCard retrieves a single card owned by the requester.
func (s *CardService) GetCard(ctx context.Context, cardID, ownerID int64) (*models.Card, error) {
	return s.getOwnedCard(ctx, cardID, ownerID)
}

// ListCards retrieves all cards in a deck owned by the requester.
func (s *CardService) ListCards(ctx context.Context, deckID, ownerID int64) ([]*models.Card, error) {
	if _, err := s.getOwnedDeck(ctx, deckID, ownerID); err != nil {
		return nil, err
	}
	return s.cardRepo.ListByDeck(ctx, deckID)
}

// UpdateCard applies the given changes to a card owned by the
// requester. A non-empty filePath replaces the attachment; the old
// file is removed from disk.
func (s *CardService) UpdateCard(ctx context.Context, cardID, ownerID int64, update *models.CardUpdate, filePath string) (*models.Card, error) {
	card, err := s.getOwnedCard(ctx, cardID, ownerID)
	if err != nil {
		return nil, err
	}

	if update.Question != nil {
		card.Question = *update.Question
	}
	if update.AnswerText != nil {
		card.AnswerText = *update.AnswerText
	}
	if update.Status != nil {
		if err := utils.ValidateStatus(*update.Status); err != nil {
			return nil, err
		}
		card.Status = *update.Status
	}

	oldFilePath := ""
	if filePath != "" && filePath != card.FilePath {
		oldFilePath = card.FilePath
		card.FilePath = filePath
	}

	if err := utils.ValidateStruct(card); err != nil {
		return nil, err
	}

	if err := s.cardRepo.Update(ctx, card); err != nil {
		return nil, err
	}

	if oldFilePath != "" {
		s.files.Remove(oldFilePath)
	}

	return card, nil
}

// RemoveFile unsets a card's attachment and removes the file from
// disk. A card without an attachment is left unchanged.
func (s *CardService) RemoveFile(ctx context.Context, cardID, ownerID int64) (*models.Card, error) {
	card, err := s.getOwnedCard(ctx, cardID, ownerID)
	if err != nil {
		return nil, err
	}

	if card.FilePath == "" {
		return card, nil
	}

	oldFilePath := card.FilePath
	card.FilePath = ""

	if err := s.cardRepo.Update(ctx, card); err != nil {
		return nil, err
	}

	s.files.Remove(oldFilePath)

	return card, nil
}

// DeleteCard removes a card owned by the requester along with its
// stored attachment. The row goes first; file removal is best effort.
func (s *CardService) DeleteCard(ctx context.Context, cardID, ownerID int64) error {
	card, err := s.getOwnedCard(ctx, cardID, ownerID)
	if err != nil {
		return err
	}

	if err := s.cardRepo.Delete(ctx, cardID); err != nil {
		return err
	}

	s.files.Remove(card.FilePath)

	return nil
}

// NextRevisionCard picks the card to revise from a deck owned by the
// requester. Tiers are walked hardest first; within the first
// non-empty tier a uniformly random card is chosen. The count and the
// fetch are separate queries, so a concurrent deletion can leave the
// offset out of range; that tier is then treated as empty rather than
// failing the request. A deck with no rated cards yields a nil card
// with no error, which the handler renders as an empty 200.
func (s *CardService) NextRevisionCard(ctx context.Context, deckID, ownerID int64) (*models.Card, error) {
	if _, err := s.getOwnedDeck(ctx, deckID, ownerID); err != nil {
		return nil, err
	}

	for _, tier := range revisionTiers {
		count, err := s.cardRepo.CountByDeckAndStatus(ctx, deckID, tier)
		if err != nil {
			return nil, err
		}
		if count == 0 {
			continue
		}

		offset := s.randIntn(count)
		card, err := s.cardRepo.GetByDeckStatusOffset(ctx, deckID, tier, offset)
		if err != nil {
			if utils.IsNotFoundError(err) {
				log.Debug().
					Int64("deck_id", deckID).
					Str("tier", tier).
					Int("offset", offset).
					Msg("Revision tier shrank between count and fetch")
				continue
			}
			return nil, err
		}

		return card, nil
	}

	return nil, nil
}
