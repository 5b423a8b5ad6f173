package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnilingu/backend/internal/database"
	"github.com/omnilingu/backend/internal/models"
	"github.com/omnilingu/backend/internal/utils"
)

func setupDeckRepo(t *testing.T) (DeckRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDeckRepository(&database.Pool{DB: db}), mock
}

func deckColumns() []string {
	return []string{"deck_id", "owner_id", "title", "description", "file_path", "created_at", "updated_at"}
}

func TestDeckRepository_Create(t *testing.T) {
	repo, mock := setupDeckRepo(t)

	deck := models.NewDeck(7, "Spanish Verbs", "Irregulars")
	deck.FilePath = "storage/decks/abc.png"

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO decks")).
		WithArgs(deck.OwnerID, deck.Title, deck.Description, deck.FilePath, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"deck_id"}).AddRow(3))

	err := repo.Create(context.Background(), deck)

	require.NoError(t, err)
	assert.Equal(t, int64(3), deck.ID)
}

func TestDeckRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupDeckRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 42)

	require.Error(t, err)
	assert.True(t, utils.IsNotFoundError(err))
}

func TestDeckRepository_ListByOwner(t *testing.T) {
	repo, mock := setupDeckRepo(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(deckColumns()).
			AddRow(2, 7, "Newer", "", "", now, now).
			AddRow(1, 7, "Older", "", "", now.Add(-time.Hour), now.Add(-time.Hour)))

	decks, err := repo.ListByOwner(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, decks, 2)
	assert.Equal(t, "Newer", decks[0].Title)
	assert.Equal(t, "Older", decks[1].Title)
}

func TestDeckRepository_ListByOwner_Empty(t *testing.T) {
	repo, mock := setupDeckRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(deckColumns()))

	decks, err := repo.ListByOwner(context.Background(), 7)

	require.NoError(t, err)
	assert.NotNil(t, decks, "empty list must marshal as [], not null")
	assert.Empty(t, decks)
}

func TestDeckRepository_Update(t *testing.T) {
	repo, mock := setupDeckRepo(t)

	deck := &models.Deck{ID: 3, OwnerID: 7, Title: "Renamed", Description: "d", FilePath: "p"}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE decks")).
		WithArgs(deck.Title, deck.Description, deck.FilePath, sqlmock.AnyArg(), deck.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Update(context.Background(), deck))
}

func TestDeckRepository_Delete_NotFound(t *testing.T) {
	repo, mock := setupDeckRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM decks WHERE deck_id = $1")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 9)

	require.Error(t, err)
	assert.True(t, utils.IsNotFoundError(err))
}

func TestDeckRepository_DeleteByOwner(t *testing.T) {
	repo, mock := setupDeckRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM decks WHERE owner_id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 4))

	removed, err := repo.DeleteByOwner(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(4), removed)
}
