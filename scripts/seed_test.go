package scripts_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnilingu/backend/internal/database"
	"github.com/omnilingu/backend/scripts"
)

func newMockSeeder(t *testing.T) (*scripts.Seeder, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return scripts.NewSeeder(&database.Pool{DB: db}), mock
}

func TestSeedDatabase_AlreadyExecuted(t *testing.T) {
	seeder, mock := newMockSeeder(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS seeds").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT name FROM seeds").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("demo_account"))

	err := seeder.SeedDatabase(context.Background())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedDatabase_DemoAccountAlreadyPresent(t *testing.T) {
	seeder, mock := newMockSeeder(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS seeds").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT name FROM seeds").
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	mock.ExpectBegin()
	// The account exists, so the seed records itself without inserting
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(scripts.DemoEmail).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("INSERT INTO seeds").
		WithArgs("demo_account").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := seeder.SeedDatabase(context.Background())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedDatabase_CreateTableFails(t *testing.T) {
	seeder, mock := newMockSeeder(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS seeds").
		WillReturnError(errors.New("connection lost"))

	err := seeder.SeedDatabase(context.Background())

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedDatabase_FullDemoSeed(t *testing.T) {
	seeder, mock := newMockSeeder(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS seeds").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT name FROM seeds").
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(scripts.DemoEmail).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(1))
	mock.ExpectQuery("INSERT INTO decks").
		WillReturnRows(sqlmock.NewRows([]string{"deck_id"}).AddRow(1))
	for i := 0; i < 4; i++ {
		mock.ExpectExec("INSERT INTO cards").
			WillReturnResult(sqlmock.NewResult(int64(i+1), 1))
	}
	mock.ExpectExec("INSERT INTO seeds").
		WithArgs("demo_account").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := seeder.SeedDatabase(context.Background())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
