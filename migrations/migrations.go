// Package migrations provides a framework for database schema management.
//
// This package implements a migration system that allows for reliable,
// idempotent database schema creation and updates. It tracks executed
// migrations in a dedicated migrations table and ensures all required
// tables exist before application startup.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/omnilingu/backend/internal/database"
)

// Migration represents a database migration. Each migration performs a
// specific schema change and is tracked to ensure it runs exactly once.
type Migration struct {
	// Name is a unique identifier for the migration
	Name string
	// Description is a human-readable explanation of what the migration does
	Description string
	// TableName is the table affected by this migration, used for existence checks
	TableName string
	// RunSQL is the function that executes the migration SQL within a transaction
	RunSQL func(ctx context.Context, tx *sql.Tx) error
}

// Migrator handles database migrations.
type Migrator struct {
	db *database.Pool
}

// NewMigrator creates a new migrator over the given pool.
func NewMigrator(db *database.Pool) *Migrator {
	return &Migrator{
		db: db,
	}
}

// RunMigrations runs all pending database migrations. It creates the
// migrations table if it doesn't exist, verifies all required tables
// exist, and runs any migrations that haven't been executed yet.
func (m *Migrator) RunMigrations(ctx context.Context) error {
	log.Info().Msg("Running database migrations")
	startTime := time.Now()

	if err := m.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	if err := m.verifyAllTablesExist(ctx); err != nil {
		return fmt.Errorf("failed to verify tables: %w", err)
	}

	executedMigrations, err := m.getExecutedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get executed migrations: %w", err)
	}

	migrations := GetMigrations()
	migrationsRun := 0

	for _, migration := range migrations {
		if _, ok := executedMigrations[migration.Name]; ok {
			continue
		}

		exists, err := m.tableExists(ctx, migration.TableName)
		if err != nil {
			return fmt.Errorf("failed to check if table %s exists: %w", migration.TableName, err)
		}

		if exists {
			log.Info().
				Str("migration", migration.Name).
				Str("table", migration.TableName).
				Msg("Table already exists, recording migration as completed")

			if err := m.recordMigration(ctx, migration.Name, migration.Description); err != nil {
				return fmt.Errorf("failed to record existing migration: %w", err)
			}
		} else {
			log.Info().
				Str("migration", migration.Name).
				Str("table", migration.TableName).
				Msg("Running migration")

			if err := m.runMigration(ctx, migration); err != nil {
				return err
			}
			migrationsRun++
		}
	}

	log.Info().
		Int("migrations_run", migrationsRun).
		Int("total_migrations", len(migrations)).
		Dur("duration", time.Since(startTime)).
		Msg("Database migrations completed")

	if err := m.ensureResetColumns(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to ensure password reset columns")
		// Don't fail startup over a column check on an existing schema
	}

	return nil
}

// verifyAllTablesExist checks that all required tables exist, and runs
// migrations for missing tables. This keeps the schema intact even if
// an earlier run was interrupted.
func (m *Migrator) verifyAllTablesExist(ctx context.Context) error {
	for _, migration := range GetMigrations() {
		if migration.TableName == "" {
			continue
		}

		exists, err := m.tableExists(ctx, migration.TableName)
		if err != nil {
			return fmt.Errorf("failed to check if table %s exists: %w", migration.TableName, err)
		}

		if !exists {
			log.Warn().
				Str("migration", migration.Name).
				Str("table", migration.TableName).
				Msg("Table doesn't exist but should. Running migration to create it.")

			if err := m.runMigration(ctx, migration); err != nil {
				return fmt.Errorf("failed to create missing table %s: %w", migration.TableName, err)
			}
		}
	}

	return nil
}

// createMigrationsTable creates the tracking table if it doesn't exist.
func (m *Migrator) createMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			name VARCHAR(255) PRIMARY KEY,
			description TEXT,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := m.db.ExecContext(ctx, query)
	return err
}

// getExecutedMigrations returns the set of executed migration names.
func (m *Migrator) getExecutedMigrations(ctx context.Context) (map[string]bool, error) {
	query := `SELECT name FROM migrations`
	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	executed := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		executed[name] = true
	}

	return executed, rows.Err()
}

// runMigration runs a migration within a transaction. If the migration
// fails, the transaction is rolled back.
func (m *Migrator) runMigration(ctx context.Context, migration Migration) error {
	return m.db.Transaction(ctx, func(tx *sql.Tx) error {
		if err := migration.RunSQL(ctx, tx); err != nil {
			return fmt.Errorf("migration %s failed: %w", migration.Name, err)
		}

		query := `INSERT INTO migrations (name, description) VALUES ($1, $2)`
		if _, err := tx.ExecContext(ctx, query, migration.Name, migration.Description); err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}

		return nil
	})
}

// recordMigration records a migration as completed without running the
// SQL. Used when a table already exists but the record is missing.
func (m *Migrator) recordMigration(ctx context.Context, name, description string) error {
	query := `INSERT INTO migrations (name, description) VALUES ($1, $2)`
	if _, err := m.db.ExecContext(ctx, query, name, description); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return nil
}

// tableExists checks if a table exists in the current database schema.
func (m *Migrator) tableExists(ctx context.Context, tableName string) (bool, error) {
	query := `
        SELECT EXISTS(SELECT 1
        FROM information_schema.tables
        WHERE table_schema = current_schema()
        AND table_name = $1)
    `
	var exists bool
	err := m.db.QueryRowContext(ctx, query, tableName).Scan(&exists)
	return exists, err
}

// ensureResetColumns ensures that the users table carries the password
// reset columns. This handles schema evolution for databases created
// before reset-by-email existed, without a full migration.
func (m *Migrator) ensureResetColumns(ctx context.Context) error {
	columns := map[string]string{
		"reset_token":  `ALTER TABLE users ADD COLUMN reset_token VARCHAR(255)`,
		"reset_expiry": `ALTER TABLE users ADD COLUMN reset_expiry TIMESTAMP`,
	}

	for column, alterQuery := range columns {
		var columnExists bool
		query := `
			SELECT EXISTS (
				SELECT 1
				FROM information_schema.columns
				WHERE table_name = 'users'
				AND column_name = $1
			)
		`

		if err := m.db.QueryRowContext(ctx, query, column).Scan(&columnExists); err != nil {
			return fmt.Errorf("failed to check if %s column exists: %w", column, err)
		}

		if !columnExists {
			log.Info().Str("column", column).Msg("Adding missing reset column to users table")

			if _, err := m.db.ExecContext(ctx, alterQuery); err != nil {
				return fmt.Errorf("failed to add %s column: %w", column, err)
			}
		}
	}

	return nil
}

// GetMigrations returns all migrations in execution order.
func GetMigrations() []Migration {
	return []Migration{
		createUsersTable(),
		createDecksTable(),
		createCardsTable(),
	}
}
