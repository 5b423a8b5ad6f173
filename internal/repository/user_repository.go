// Package repository implements data access for users, decks, and
// cards on top of the PostgreSQL connection pool. Every repository is
// defined as an interface so services can be tested with mocks.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/omnilingu/backend/internal/database"
	"github.com/omnilingu/backend/internal/models"
	"github.com/omnilingu/backend/internal/utils"
)

// UserRepository defines methods for interacting with user data
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	ChangePassword(ctx context.Context, id int64, passwordHash string) error
	SetResetCredential(ctx context.Context, id int64, token string, expiry time.Time) error
	ClearResetCredential(ctx context.Context, id int64) error
	ClearExpiredResetCredentials(ctx context.Context, now time.Time) (int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// PostgresUserRepository is a PostgreSQL implementation of UserRepository
type PostgresUserRepository struct {
	db *database.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *database.Pool) UserRepository {
	return &PostgresUserRepository{
		db: db,
	}
}

// Create adds a new user to the database
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	startTime := time.Now()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
        INSERT INTO users (name, email, password_hash, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING user_id
    `

	err := r.db.QueryRowContext(
		ctx,
		query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	utils.LogDBQuery(
		query,
		[]interface{}{user.Name, user.Email, "[REDACTED]", user.CreatedAt, user.UpdatedAt},
		time.Since(startTime),
		err,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return utils.NewDuplicateError("User", "email", user.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().
		Int64("user_id", user.ID).
		Str("email", user.Email).
		Msg("User created")

	return nil
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	startTime := time.Now()

	query := `
        SELECT user_id, name, email, password_hash, reset_token, reset_expiry, created_at, updated_at
        FROM users
        WHERE user_id = $1
    `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.ResetToken,
		&user.ResetExpiry,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", id)
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email address
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	startTime := time.Now()

	query := `
        SELECT user_id, name, email, password_hash, reset_token, reset_expiry, created_at, updated_at
        FROM users
        WHERE email = $1
    `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.ResetToken,
		&user.ResetExpiry,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	utils.LogDBQuery(query, []interface{}{email}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", email)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// Delete removes a user from the database
func (r *PostgresUserRepository) Delete(ctx context.Context, id int64) error {
	startTime := time.Now()

	query := `DELETE FROM users WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, id)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundError("User", id)
	}

	log.Info().
		Int64("user_id", id).
		Msg("User deleted")

	return nil
}

// ChangePassword updates a user's password hash
func (r *PostgresUserRepository) ChangePassword(ctx context.Context, id int64, passwordHash string) error {
	startTime := time.Now()

	query := `
        UPDATE users
        SET password_hash = $1, updated_at = $2
        WHERE user_id = $3
    `

	result, err := r.db.ExecContext(ctx, query, passwordHash, time.Now(), id)

	utils.LogDBQuery(
		query,
		[]interface{}{"[REDACTED]", time.Now(), id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundError("User", id)
	}

	log.Info().
		Int64("user_id", id).
		Msg("Password changed")

	return nil
}

// SetResetCredential stores a pending reset token and its expiry on the
// user's row. Issuing a new credential overwrites any previous one, so
// only the latest emailed link is usable.
func (r *PostgresUserRepository) SetResetCredential(ctx context.Context, id int64, token string, expiry time.Time) error {
	startTime := time.Now()

	query := `
        UPDATE users
        SET reset_token = $1, reset_expiry = $2, updated_at = $3
        WHERE user_id = $4
    `

	result, err := r.db.ExecContext(ctx, query, token, expiry, time.Now(), id)

	utils.LogDBQuery(
		query,
		[]interface{}{"[REDACTED]", expiry, time.Now(), id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to set reset credential: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundError("User", id)
	}

	return nil
}

// ClearResetCredential removes the reset token and expiry from the
// user's row. Both fields always clear together.
func (r *PostgresUserRepository) ClearResetCredential(ctx context.Context, id int64) error {
	startTime := time.Now()

	query := `
        UPDATE users
        SET reset_token = NULL, reset_expiry = NULL, updated_at = $1
        WHERE user_id = $2
    `

	_, err := r.db.ExecContext(ctx, query, time.Now(), id)

	utils.LogDBQuery(query, []interface{}{time.Now(), id}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to clear reset credential: %w", err)
	}

	return nil
}

// ClearExpiredResetCredentials removes reset credentials whose expiry
// has passed. It returns the number of accounts cleaned and is run
// periodically by the maintenance task.
func (r *PostgresUserRepository) ClearExpiredResetCredentials(ctx context.Context, now time.Time) (int64, error) {
	startTime := time.Now()

	query := `
        UPDATE users
        SET reset_token = NULL, reset_expiry = NULL
        WHERE reset_expiry IS NOT NULL AND reset_expiry < $1
    `

	result, err := r.db.ExecContext(ctx, query, now)

	utils.LogDBQuery(query, []interface{}{now}, time.Since(startTime), err)

	if err != nil {
		return 0, fmt.Errorf("failed to clear expired reset credentials: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected > 0 {
		log.Info().
			Int64("accounts", rowsAffected).
			Msg("Expired reset credentials cleared")
	}

	return rowsAffected, nil
}

// ExistsByEmail checks if a user with the given email exists
func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	startTime := time.Now()

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)

	utils.LogDBQuery(query, []interface{}{email}, time.Since(startTime), err)

	if err != nil {
		return false, fmt.Errorf("failed to check if email exists: %w", err)
	}

	return exists, nil
}
