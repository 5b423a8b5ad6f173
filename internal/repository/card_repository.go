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

// CardRepository defines methods for interacting with card data
type CardRepository interface {
	Create(ctx context.Context, card *models.Card) error
	GetByID(ctx context.Context, id int64) (*models.Card, error)
	ListByDeck(ctx context.Context, deckID int64) ([]*models.Card, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Card, error)
	Update(ctx context.Context, card *models.Card) error
	Delete(ctx context.Context, id int64) error
	DeleteByDeck(ctx context.Context, deckID int64) (int64, error)
	DeleteByOwner(ctx context.Context, ownerID int64) (int64, error)
	CountByDeckAndStatus(ctx context.Context, deckID int64, status string) (int, error)
	GetByDeckStatusOffset(ctx context.Context, deckID int64, status string, offset int) (*models.Card, error)
}

// PostgresCardRepository is a PostgreSQL implementation of CardRepository
type PostgresCardRepository struct {
	db *database.Pool
}

// NewCardRepository creates a new CardRepository
func NewCardRepository(db *database.Pool) CardRepository {
	return &PostgresCardRepository{
		db: db,
	}
}

// Create adds a new card to the database
func (r *PostgresCardRepository) Create(ctx context.Context, card *models.Card) error {
	startTime := time.Now()

	now := time.Now()
	card.CreatedAt = now
	card.UpdatedAt = now

	query := `
        INSERT INTO cards (deck_id, owner_id, question, answer_text, status, file_path, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING card_id
    `

	err := r.db.QueryRowContext(
		ctx,
		query,
		card.DeckID,
		card.OwnerID,
		card.Question,
		card.AnswerText,
		card.Status,
		card.FilePath,
		card.CreatedAt,
		card.UpdatedAt,
	).Scan(&card.ID)

	utils.LogDBQuery(
		query,
		[]interface{}{card.DeckID, card.OwnerID, card.Question, card.AnswerText, card.Status, card.FilePath, card.CreatedAt, card.UpdatedAt},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}

	log.Info().
		Int64("card_id", card.ID).
		Int64("deck_id", card.DeckID).
		Msg("Card created")

	return nil
}

// GetByID retrieves a card by ID
func (r *PostgresCardRepository) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	startTime := time.Now()

	query := `
        SELECT card_id, deck_id, owner_id, question, answer_text, status, file_path, created_at, updated_at
        FROM cards
        WHERE card_id = $1
    `

	card := &models.Card{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&card.ID,
		&card.DeckID,
		&card.OwnerID,
		&card.Question,
		&card.AnswerText,
		&card.Status,
		&card.FilePath,
		&card.CreatedAt,
		&card.UpdatedAt,
	)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Card", id)
		}
		return nil, fmt.Errorf("failed to get card by ID: %w", err)
	}

	return card, nil
}

// ListByDeck retrieves all cards in a deck in insertion order
func (r *PostgresCardRepository) ListByDeck(ctx context.Context, deckID int64) ([]*models.Card, error) {
	startTime := time.Now()

	query := `
        SELECT card_id, deck_id, owner_id, question, answer_text, status, file_path, created_at, updated_at
        FROM cards
        WHERE deck_id = $1
        ORDER BY card_id
    `

	rows, err := r.db.QueryContext(ctx, query, deckID)

	utils.LogDBQuery(query, []interface{}{deckID}, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	return scanCards(rows)
}

// ListByOwner retrieves all cards belonging to a user across all decks
func (r *PostgresCardRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Card, error) {
	startTime := time.Now()

	query := `
        SELECT card_id, deck_id, owner_id, question, answer_text, status, file_path, created_at, updated_at
        FROM cards
        WHERE owner_id = $1
        ORDER BY card_id
    `

	rows, err := r.db.QueryContext(ctx, query, ownerID)

	utils.LogDBQuery(query, []interface{}{ownerID}, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list cards by owner: %w", err)
	}
	defer rows.Close()

	return scanCards(rows)
}

// scanCards reads card rows into a slice
func scanCards(rows *sql.Rows) ([]*models.Card, error) {
	cards := make([]*models.Card, 0)
	for rows.Next() {
		card := &models.Card{}
		if err := rows.Scan(
			&card.ID,
			&card.DeckID,
			&card.OwnerID,
			&card.Question,
			&card.AnswerText,
			&card.Status,
			&card.FilePath,
			&card.CreatedAt,
			&card.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating card rows: %w", err)
	}

	return cards, nil
}

// Update saves a card's mutable fields
func (r *PostgresCardRepository) Update(ctx context.Context, card *models.Card) error {
	startTime := time.Now()

	card.UpdatedAt = time.Now()

	query := `
        UPDATE cards
        SET question = $1, answer_text = $2, status = $3, file_path = $4, updated_at = $5
        WHERE card_id = $6
    `

	result, err := r.db.ExecContext(
		ctx,
		query,
		card.Question,
		card.AnswerText,
		card.Status,
		card.FilePath,
		card.UpdatedAt,
		card.ID,
	)

	utils.LogDBQuery(
		query,
		[]interface{}{card.Question, card.AnswerText, card.Status, card.FilePath, card.UpdatedAt, card.ID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundError("Card", card.ID)
	}

	return nil
}

// Delete removes a card from the database
func (r *PostgresCardRepository) Delete(ctx context.Context, id int64) error {
	startTime := time.Now()

	query := `DELETE FROM cards WHERE card_id = $1`

	result, err := r.db.ExecContext(ctx, query, id)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundError("Card", id)
	}

	log.Info().
		Int64("card_id", id).
		Msg("Card deleted")

	return nil
}

// DeleteByDeck removes all cards in a deck and returns the number
// removed. Used during deck deletion.
func (r *PostgresCardRepository) DeleteByDeck(ctx context.Context, deckID int64) (int64, error) {
	startTime := time.Now()

	query := `DELETE FROM cards WHERE deck_id = $1`

	result, err := r.db.ExecContext(ctx, query, deckID)

	utils.LogDBQuery(query, []interface{}{deckID}, time.Since(startTime), err)

	if err != nil {
		return 0, fmt.Errorf("failed to delete cards by deck: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// DeleteByOwner removes all cards belonging to a user and returns the
// number removed. Used during account deletion.
func (r *PostgresCardRepository) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	startTime := time.Now()

	query := `DELETE FROM cards WHERE owner_id = $1`

	result, err := r.db.ExecContext(ctx, query, ownerID)

	utils.LogDBQuery(query, []interface{}{ownerID}, time.Since(startTime), err)

	if err != nil {
		return 0, fmt.Errorf("failed to delete cards by owner: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// CountByDeckAndStatus counts the cards in a deck carrying the given
// difficulty status.
func (r *PostgresCardRepository) CountByDeckAndStatus(ctx context.Context, deckID int64, status string) (int, error) {
	startTime := time.Now()

	query := `SELECT COUNT(*) FROM cards WHERE deck_id = $1 AND status = $2`

	var count int
	err := r.db.QueryRowContext(ctx, query, deckID, status).Scan(&count)

	utils.LogDBQuery(query, []interface{}{deckID, status}, time.Since(startTime), err)

	if err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}

	return count, nil
}

// GetByDeckStatusOffset retrieves a single card at the given offset
// within a deck's status tier, ordered by card ID so the offset is
// stable between the count and the fetch.
func (r *PostgresCardRepository) GetByDeckStatusOffset(ctx context.Context, deckID int64, status string, offset int) (*models.Card, error) {
	startTime := time.Now()

	query := `
        SELECT card_id, deck_id, owner_id, question, answer_text, status, file_path, created_at, updated_at
        FROM cards
        WHERE deck_id = $1 AND status = $2
        ORDER BY card_id
        OFFSET $3
        LIMIT 1
    `

	card := &models.Card{}
	err := r.db.QueryRowContext(ctx, query, deckID, status, offset).Scan(
		&card.ID,
		&card.DeckID,
		&card.OwnerID,
		&card.Question,
		&card.AnswerText,
		&card.Status,
		&card.FilePath,
		&card.CreatedAt,
		&card.UpdatedAt,
	)

	utils.LogDBQuery(query, []interface{}{deckID, status, offset}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Card", fmt.Sprintf("deck %d status %s offset %d", deckID, status, offset))
		}
		return nil, fmt.Errorf("failed to get card by offset: %w", err)
	}

	return card, nil
}
