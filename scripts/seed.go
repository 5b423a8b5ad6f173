// Package scripts provides utility scripts for database and system
// management.
//
// This package implements database seeding for development
// environments. The seeding system works similarly to migrations,
// tracking executed seeds in a dedicated table so each seed runs only
// once, making the process idempotent and safe to run on both new and
// existing databases.
package scripts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/omnilingu/backend/internal/auth"
	"github.com/omnilingu/backend/internal/constants"
	"github.com/omnilingu/backend/internal/database"
)

// Demo account credentials created by the development seed.
const (
	DemoEmail    = "demo@omnilingu.app"
	DemoName     = "Demo"
	DemoPassword = "demo-password"
)

// Seeder populates the database with development data.
type Seeder struct {
	db *database.Pool
}

// NewSeeder creates a new seeder over the given pool.
func NewSeeder(db *database.Pool) *Seeder {
	return &Seeder{
		db: db,
	}
}

// SeedDatabase runs all seeds that haven't been executed yet. It
// creates the tracking table on first use.
func (s *Seeder) SeedDatabase(ctx context.Context) error {
	log.Info().Msg("Seeding database")
	startTime := time.Now()

	if err := s.createSeedsTable(ctx); err != nil {
		return fmt.Errorf("failed to create seeds table: %w", err)
	}

	executedSeeds, err := s.getExecutedSeeds(ctx)
	if err != nil {
		return fmt.Errorf("failed to get executed seeds: %w", err)
	}

	seeds := []struct {
		Name     string
		SeedFunc func(ctx context.Context, tx *sql.Tx) error
	}{
		{"demo_account", s.seedDemoAccount},
	}

	for _, seed := range seeds {
		if executedSeeds[seed.Name] {
			log.Debug().Str("seed", seed.Name).Msg("Seed already executed")
			continue
		}

		log.Info().Str("seed", seed.Name).Msg("Running seed")
		if err := s.runSeed(ctx, seed.Name, seed.SeedFunc); err != nil {
			return err
		}
	}

	log.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Database seeding completed")

	return nil
}

// createSeedsTable creates the tracking table if it doesn't exist.
func (s *Seeder) createSeedsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS seeds (
			name VARCHAR(255) PRIMARY KEY,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// getExecutedSeeds returns the set of executed seed names.
func (s *Seeder) getExecutedSeeds(ctx context.Context) (map[string]bool, error) {
	query := `SELECT name FROM seeds`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	seeds := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		seeds[name] = true
	}

	return seeds, rows.Err()
}

// runSeed runs a seed function within a transaction. If the seed fails,
// the transaction is rolled back.
func (s *Seeder) runSeed(ctx context.Context, name string, seedFunc func(ctx context.Context, tx *sql.Tx) error) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if err := seedFunc(ctx, tx); err != nil {
			return fmt.Errorf("seed %s failed: %w", name, err)
		}

		query := `INSERT INTO seeds (name) VALUES ($1)`
		if _, err := tx.ExecContext(ctx, query, name); err != nil {
			return fmt.Errorf("failed to record seed: %w", err)
		}

		return nil
	})
}

// seedDemoAccount creates a demo account with a starter deck and a few
// cards so a fresh development environment has something to show. The
// seed is skipped when the email is already taken.
func (s *Seeder) seedDemoAccount(ctx context.Context, tx *sql.Tx) error {
	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	if err := tx.QueryRowContext(ctx, checkQuery, DemoEmail).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check demo account: %w", err)
	}
	if exists {
		log.Debug().Msg("Demo account already present")
		return nil
	}

	passwordHash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	var userID int64
	userQuery := `
		INSERT INTO users (name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING user_id
	`
	now := time.Now()
	if err := tx.QueryRowContext(ctx, userQuery, DemoName, DemoEmail, passwordHash, now).Scan(&userID); err != nil {
		return fmt.Errorf("failed to insert demo user: %w", err)
	}

	var deckID int64
	deckQuery := `
		INSERT INTO decks (owner_id, title, description, file_path, created_at, updated_at)
		VALUES ($1, $2, $3, '', $4, $4)
		RETURNING deck_id
	`
	if err := tx.QueryRowContext(ctx, deckQuery, userID,
		"Spanish basics", "A starter deck of common Spanish words", now).Scan(&deckID); err != nil {
		return fmt.Errorf("failed to insert demo deck: %w", err)
	}

	cards := []struct {
		question, answer, status string
	}{
		{"hola", "hello", constants.StatusEasy},
		{"gracias", "thank you", constants.StatusMedium},
		{"desafortunadamente", "unfortunately", constants.StatusHard},
		{"manzana", "apple", ""},
	}

	cardQuery := `
		INSERT INTO cards (deck_id, owner_id, question, answer_text, status, file_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, '', $6, $6)
	`
	for _, card := range cards {
		if _, err := tx.ExecContext(ctx, cardQuery, deckID, userID,
			card.question, card.answer, card.status, now); err != nil {
			return fmt.Errorf("failed to insert demo card %q: %w", card.question, err)
		}
	}

	log.Info().
		Str("email", DemoEmail).
		Int("cards", len(cards)).
		Msg("Demo account seeded")

	return nil
}
