package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/omnilingu/backend/internal/auth"
	"github.com/omnilingu/backend/internal/config"
	"github.com/omnilingu/backend/internal/constants"
	"github.com/omnilingu/backend/internal/models"
	"github.com/omnilingu/backend/internal/repository"
	"github.com/omnilingu/backend/internal/utils"
)

// ResetService implements the password reset flow: issuing emailed
// reset credentials and consuming them to set a new password.
type ResetService struct {
	userRepo repository.UserRepository
	email    EmailSender
	cfg      *config.EmailSettings

	// now and newResetID are injectable for tests.
	now        func() time.Time
	newResetID func() string
}

// NewResetService creates a new ResetService
func NewResetService(userRepo repository.UserRepository, email EmailSender, cfg *config.EmailSettings) *ResetService {
	return &ResetService{
		userRepo:   userRepo,
		email:      email,
		cfg:        cfg,
		now:        time.Now,
		newResetID: func() string { return uuid.New().String() },
	}
}

// ResetLink builds the emailed reset URL. The link embeds the expiry
// as epoch milliseconds, then the email, then the reset ID.
func (s *ResetService) ResetLink(email, resetID string, expiry time.Time) string {
	return fmt.Sprintf("%s/reset/%d/%s/%s", s.cfg.ResetBaseURL, expiry.UnixMilli(), email, resetID)
}

// RequestReset issues a fresh reset credential for the account with
// the given email and mails the reset link. Issuing again before the
// previous credential is used overwrites it, so only the newest link
// works. The email is sent in the background; a delivery failure is
// logged but the request still succeeds.
func (s *ResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if utils.IsNotFoundError(err) {
			return utils.New(utils.ErrNotFound, http.StatusNotFound, constants.MsgEmailNotRegistered)
		}
		return err
	}

	resetID := s.newResetID()
	expiry := s.now().Add(constants.ResetTokenExpiry)

	if err := s.userRepo.SetResetCredential(ctx, user.ID, resetID, expiry); err != nil {
		return err
	}

	link := s.ResetLink(user.Email, resetID, expiry)

	go func() {
		if err := s.email.SendPasswordResetEmail(user.Email, user.Name, link); err != nil {
			log.Error().
				Err(err).
				Int64("user_id", user.ID).
				Msg("Failed to deliver password reset email")
		}
	}()

	log.Info().
		Int64("user_id", user.ID).
		Time("expiry", expiry).
		Msg("Password reset requested")

	return nil
}

// ConfirmReset sets a new password if the supplied reset credential
// matches and has not expired. Mismatch and expiry produce the same
// error so a caller cannot tell which check failed. On success the
// credential is cleared, making the link single use.
func (s *ResetService) ConfirmReset(ctx context.Context, req *models.ResetPasswordRequest) error {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	if !user.HasPendingReset() ||
		s.now().After(*user.ResetExpiry) ||
		req.ResetID != *user.ResetToken {
		return utils.NewResetExpiredError()
	}

	if err := utils.ValidatePassword(req.Password); err != nil {
		return err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.ChangePassword(ctx, user.ID, passwordHash); err != nil {
		return err
	}

	if err := s.userRepo.ClearResetCredential(ctx, user.ID); err != nil {
		return err
	}

	log.Info().
		Int64("user_id", user.ID).
		Msg("Password reset completed")

	return nil
}

// ClearExpired removes reset credentials whose expiry has passed. It
// is called periodically by the server's maintenance task.
func (s *ResetService) ClearExpired(ctx context.Context) (int64, error) {
	return s.userRepo.ClearExpiredResetCredentials(ctx, s.now())
}
