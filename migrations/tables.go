package migrations

import (
	"context"
	"database/sql"
)

// createUsersTable creates the users table. The reset_token and
// reset_expiry columns carry the pending password reset credential and
// are either both set or both null.
func createUsersTable() Migration {
	return Migration{
		Name:        "create_users_table",
		Description: "Creates the users table",
		TableName:   "users",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS users (
					user_id BIGSERIAL PRIMARY KEY,
					name VARCHAR(100) NOT NULL,
					email VARCHAR(255) NOT NULL,
					password_hash VARCHAR(255) NOT NULL,
					reset_token VARCHAR(255),
					reset_expiry TIMESTAMP,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT idx_users_email UNIQUE (email)
				)
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createDecksTable creates the decks table. Cross-table lifecycle is
// managed by the service layer, so decks and cards carry owner indexes
// but no foreign keys.
func createDecksTable() Migration {
	return Migration{
		Name:        "create_decks_table",
		Description: "Creates the decks table",
		TableName:   "decks",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS decks (
					deck_id BIGSERIAL PRIMARY KEY,
					owner_id BIGINT NOT NULL,
					title VARCHAR(200) NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					file_path VARCHAR(500) NOT NULL DEFAULT '',
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				);
				CREATE INDEX IF NOT EXISTS idx_decks_owner_id ON decks(owner_id);
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createCardsTable creates the cards table. The status column holds the
// difficulty rating and stays empty until the card is first revised.
func createCardsTable() Migration {
	return Migration{
		Name:        "create_cards_table",
		Description: "Creates the cards table",
		TableName:   "cards",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS cards (
					card_id BIGSERIAL PRIMARY KEY,
					deck_id BIGINT NOT NULL,
					owner_id BIGINT NOT NULL,
					question TEXT NOT NULL,
					answer_text TEXT NOT NULL DEFAULT '',
					status VARCHAR(10) NOT NULL DEFAULT '',
					file_path VARCHAR(500) NOT NULL DEFAULT '',
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				)
			`
			if _, err := tx.ExecContext(ctx, query); err != nil {
				return err
			}

			indexes := []string{
				`CREATE INDEX IF NOT EXISTS idx_cards_deck_id ON cards(deck_id)`,
				`CREATE INDEX IF NOT EXISTS idx_cards_owner_id ON cards(owner_id)`,
				`CREATE INDEX IF NOT EXISTS idx_cards_deck_status ON cards(deck_id, status)`,
			}

			for _, idx := range indexes {
				if _, err := tx.ExecContext(ctx, idx); err != nil {
					return err
				}
			}

			return nil
		},
	}
}
