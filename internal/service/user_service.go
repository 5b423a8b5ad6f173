package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/omnilingu/backend/internal/auth"
	"github.com/omnilingu/backend/internal/constants"
	"github.com/omnilingu/backend/internal/models"
	"github.com/omnilingu/backend/internal/repository"
	"github.com/omnilingu/backend/internal/utils"
)

// FileRemover deletes a stored file by its relative path. Satisfied by
// storage.FileStore; faked in tests.
type FileRemover interface {
	Remove(relPath string)
}

// UserService handles account registration, login, and deletion.
type UserService struct {
	userRepo repository.UserRepository
	deckRepo repository.DeckRepository
	cardRepo repository.CardRepository
	files    FileRemover
	tokens   *auth.TokenService
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repository.UserRepository,
	deckRepo repository.DeckRepository,
	cardRepo repository.CardRepository,
	files FileRemover,
	tokens *auth.TokenService,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		deckRepo: deckRepo,
		cardRepo: cardRepo,
		files:    files,
		tokens:   tokens,
	}
}

// Register creates a new account and returns a signed identity token,
// so registration doubles as the first login.
func (s *UserService) Register(ctx context.Context, reg *models.UserRegistration) (string, error) {
	if err := utils.ValidatePassword(reg.Password); err != nil {
		return "", err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, reg.Email)
	if err != nil {
		return "", fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return "", utils.NewDuplicateError("User", "email", reg.Email)
	}

	passwordHash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(reg.Name, reg.Email)
	user.PasswordHash = passwordHash

	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", err
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	log.Info().
		Int64("user_id", user.ID).
		Msg("User registered")

	return token, nil
}

// Login verifies credentials and returns a signed identity token. The
// unknown-email and wrong-password cases produce the same error so a
// caller cannot probe which addresses are registered.
func (s *UserService) Login(ctx context.Context, creds *models.UserCredentials) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, creds.Email)
	if err != nil {
		if utils.IsNotFoundError(err) {
			return "", utils.NewInvalidCredentialsError()
		}
		return "", err
	}

	ok, err := auth.VerifyPassword(creds.Password, user.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return "", utils.NewInvalidCredentialsError()
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	log.Info().
		Int64("user_id", user.ID).
		Msg("User logged in")

	return token, nil
}

// GetUser retrieves the authenticated user's own profile.
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Sanitize(), nil
}

// DeleteAccount removes the account along with every deck, card, and
// stored file it owns. Only the account owner may do this. Rows go
// first, account before content, so a failure partway never leaves an
// orphaned login. File removal afterwards is best effort.
func (s *UserService) DeleteAccount(ctx context.Context, requesterID, targetID int64) error {
	if requesterID != targetID {
		return utils.NewForbiddenError(constants.MsgNotAuthorised)
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	// Snapshot file paths before the rows disappear
	decks, err := s.deckRepo.ListByOwner(ctx, targetID)
	if err != nil {
		return err
	}
	cards, err := s.cardRepo.ListByOwner(ctx, targetID)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return err
	}

	removedCards, err := s.cardRepo.DeleteByOwner(ctx, targetID)
	if err != nil {
		return err
	}
	removedDecks, err := s.deckRepo.DeleteByOwner(ctx, targetID)
	if err != nil {
		return err
	}

	for _, deck := range decks {
		s.files.Remove(deck.FilePath)
	}
	for _, card := range cards {
		s.files.Remove(card.FilePath)
	}

	log.Info().
		Int64("user_id", targetID).
		Int64("decks_removed", removedDecks).
		Int64("cards_removed", removedCards).
		Msg("Account deleted")

	return nil
}
