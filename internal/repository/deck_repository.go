package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/omnilingu/backend/internal/database"
	"github.com/omnilingu/backend/internal/models"
	"github.com/omnilingu/backend/internal/utils"
)

// DeckRepository defines methods for interacting with deck data
type DeckRepository interface {
	Create(ctx context.Context, deck *models.Deck) error
	GetByID(ctx context.Context, id int64) (*models.Deck, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Deck, error)
	Update(ctx context.Context, deck *models.Deck) error
	Delete(ctx context.Context, id int64) error
	DeleteByOwner(ctx context.Context, ownerID int64) (int64, error)
}

// PostgresDeckRepository is a PostgreSQL implementation of DeckRepository
type PostgresDeckRepository struct {
	db *database.Pool
}

// NewDeckRepository creates a new DeckRepository
func NewDeckRepository(db *database.Pool) DeckRepository {
	return &PostgresDeckRepository{
		db: db,
	}
}

// Create adds a new deck to the database
func (r *PostgresDeckRepository) Create(ctx context.Context, deck *models.Deck) error {
	startTime := time.Now()

	now := time.Now()
	deck.CreatedAt = now
	deck.UpdatedAt = now

	query := `
        INSERT INTO decks (owner_id, title, description, file_path, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING deck_id
    `

	err := r.db.QueryRowContext(
		ctx,
		query,
		deck.OwnerID,
		deck.Title,
		deck.Description,
		deck.FilePath,
		deck.CreatedAt,
		deck.UpdatedAt,
	).Scan(&deck.ID)

	utils.LogDBQuery(
		query,
		[]interface{}{deck.OwnerID, deck.Title, deck.Description, deck.FilePath, deck.CreatedAt, deck.UpdatedAt},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to create deck: %w", err)
	}

	log.Info().
		Int64("deck_id", deck.ID).
		Int64("owner_id", deck.OwnerID).
		Msg("Deck created")

	return nil
}

// GetByID retrieves a deck by ID
func (r *PostgresDeckRepository) GetByID(ctx context.Context, id int64) (*models.Deck, error) {
	startTime := time.Now()

	query := `
        SELECT deck_id, owner_id, title, description, file_path, created_at, updated_at
        FROM decks
        WHERE deck_id = $1
    `

	deck := &models.Deck{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&deck.ID,
		&deck.OwnerID,
		&deck.Title,
		&deck.Description,
		&deck.FilePath,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Deck", id)
		}
		return nil, fmt.Errorf("failed to get deck by ID: %w", err)
	}

	return deck, nil
}

// ListByOwner retrieves all decks belonging to a user, newest first
func (r *PostgresDeckRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Deck, error) {
	startTime := time.Now()

	query := `
        SELECT deck_id, owner_id, title, description, file_path, created_at, updated_at
        FROM decks
        WHERE owner_id = $1
        ORDER BY created_at DESC
    `

	rows, err := r.db.QueryContext(ctx, query, ownerID)

	utils.LogDBQuery(query, []interface{}{ownerID}, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer rows.Close()

	decks := make([]*models.Deck, 0)
	for rows.Next() {
		deck := &models.Deck{}
		if err := rows.Scan(
			&deck.ID,
			&deck.OwnerID,
			&deck.Title,
			&deck.Description,
			&deck.FilePath,
			&deck.CreatedAt,
			&deck.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deck row: %w", err)
		}
		decks = append(decks, deck)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deck rows: %w", err)
	}

	return decks, nil
}

// Update saves a deck's mutable fields
func (r *PostgresDeckRepository) Update(ctx context.Context, deck *models.Deck) error {
	startTime := time.Now()

	deck.UpdatedAt = time.Now()

	query := `
        UPDATE decks
        SET title = $1, description = $2, file_path = $3, updated_at = $4
        WHERE deck_id = $5
    `

	result, err := r.db.ExecContext(
		ctx,
		query,
		deck.Title,
		deck.Description,
		deck.FilePath,
		deck.UpdatedAt,
		deck.ID,
	)

	utils.LogDBQuery(
		query,
		[]interface{}{deck.Title, deck.Description, deck.FilePath, deck.UpdatedAt, deck.ID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to update deck: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundError("Deck", deck.ID)
	}

	return nil
}

// Delete removes a deck from the database
func (r *PostgresDeckRepository) Delete(ctx context.Context, id int64) error {
	startTime := time.Now()

	query := `DELETE FROM decks WHERE deck_id = $1`

	result, err := r.db.ExecContext(ctx, query, id)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundError("Deck", id)
	}

	log.Info().
		Int64("deck_id", id).
		Msg("Deck deleted")

	return nil
}

// DeleteByOwner removes all decks belonging to a user and returns the
// number removed. Used during account deletion.
func (r *PostgresDeckRepository) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	startTime := time.Now()

	query := `DELETE FROM decks WHERE owner_id = $1`

	result, err := r.db.ExecContext(ctx, query, ownerID)

	utils.LogDBQuery(query, []interface{}{ownerID}, time.Since(startTime), err)

	if err != nil {
		return 0, fmt.Errorf("failed to delete decks by owner: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
