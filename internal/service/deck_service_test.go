package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnilingu/backend/internal/constants"
	"github.com/omnilingu/backend/internal/models"
	"github.com/omnilingu/backend/internal/utils"
)

type deckServiceFixture struct {
	decks   *MockDeckRepository
	cards   *MockCardRepository
	files   *MockFileRemover
	service *DeckService
}

func newDeckServiceFixture() *deckServiceFixture {
	f := &deckServiceFixture{
		decks: NewMockDeckRepository(),
		cards: NewMockCardRepository(),
		files: NewMockFileRemover(),
	}
	f.service = NewDeckService(f.decks, f.cards, f.files)
	return f
}

func TestDeckService_CreateAndGet(t *testing.T) {
	f := newDeckServiceFixture()
	ctx := context.Background()

	deck, err := f.service.CreateDeck(ctx, 7, "Spanish Verbs", "Irregulars", "storage/decks/x.png")
	require.NoError(t, err)
	require.NotZero(t, deck.ID)

	got, err := f.service.GetDeck(ctx, deck.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, "Spanish Verbs", got.Title)
	assert.Equal(t, "storage/decks/x.png", got.FilePath)
}

func TestDeckService_GetDeck_OwnershipGuard(t *testing.T) {
	f := newDeckServiceFixture()
	ctx := context.Background()

	deck, err := f.service.CreateDeck(ctx, 7, "Spanish Verbs", "", "")
	require.NoError(t, err)

	_, err = f.service.GetDeck(ctx, deck.ID, 8)

	require.Error(t, err)
	assert.Equal(t, 401, utils.StatusCode(err))
	assert.Equal(t, constants.MsgNotAuthorised, err.Error())
}

func TestDeckService_GetDeck_NotFound(t *testing.T) {
	f := newDeckServiceFixture()

	_, err := f.service.GetDeck(context.Background(), 99, 7)

	require.Error(t, err)
	assert.True(t, utils.IsNotFoundError(err))
}

func TestDeckService_UpdateDeck_ReplacesThumbnail(t *testing.T) {
	f := newDeckServiceFixture()
	ctx := context.Background()

	deck, err := f.service.CreateDeck(ctx, 7, "Spanish", "", "storage/decks/old.png")
	require.NoError(t, err)

	newTitle := "Spanish 2"
	updated, err := f.service.UpdateDeck(ctx, deck.ID, 7, &models.DeckUpdate{Title: &newTitle}, "storage/decks/new.png")
	require.NoError(t, err)

	assert.Equal(t, "Spanish 2", updated.Title)
	assert.Equal(t, "storage/decks/new.png", updated.FilePath)
	assert.Equal(t, []string{"storage/decks/old.png"}, f.files.Removed(), "old thumbnail must be removed")
}

func TestDeckService_UpdateDeck_NoNewFile(t *testing.T) {
	f := newDeckServiceFixture()
	ctx := context.Background()

	deck, err := f.service.CreateDeck(ctx, 7, "Spanish", "", "storage/decks/keep.png")
	require.NoError(t, err)

	desc := "now with a description"
	updated, err := f.service.UpdateDeck(ctx, deck.ID, 7, &models.DeckUpdate{Description: &desc}, "")
	require.NoError(t, err)

	assert.Equal(t, "storage/decks/keep.png", updated.FilePath)
	assert.Empty(t, f.files.Removed())
}

func TestDeckService_DeleteDeck_Cascade(t *testing.T) {
	f := newDeckServiceFixture()
	ctx := context.Background()

	deck, err := f.service.CreateDeck(ctx, 7, "Spanish", "", "storage/decks/thumb.png")
	require.NoError(t, err)

	first := models.NewCard(7, deck.ID, "hola", "hello")
	first.FilePath = "storage/cards/image/hola.png"
	require.NoError(t, f.cards.Create(ctx, first))

	second := models.NewCard(7, deck.ID, "adios", "goodbye")
	second.FilePath = "storage/cards/audio/adios.mp3"
	require.NoError(t, f.cards.Create(ctx, second))

	require.NoError(t, f.service.DeleteDeck(ctx, deck.ID, 7))

	_, err = f.decks.GetByID(ctx, deck.ID)
	assert.True(t, utils.IsNotFoundError(err))
	remaining, _ := f.cards.ListByDeck(ctx, deck.ID)
	assert.Empty(t, remaining)

	// N card files plus the thumbnail, thumbnail last
	assert.Equal(t, []string{
		"storage/cards/image/hola.png",
		"storage/cards/audio/adios.mp3",
		"storage/decks/thumb.png",
	}, f.files.Removed())
}

func TestDeckService_DeleteDeck_NoThumbnail(t *testing.T) {
	f := newDeckServiceFixture()
	ctx := context.Background()

	deck, err := f.service.CreateDeck(ctx, 7, "Plain", "", "")
	require.NoError(t, err)
	require.NoError(t, f.cards.Create(ctx, models.NewCard(7, deck.ID, "q", "a")))

	require.NoError(t, f.service.DeleteDeck(ctx, deck.ID, 7))

	// Attempts still cover every card and the deck; the empty paths
	// are no-ops inside the remover.
	assert.Equal(t, []string{"", ""}, f.files.Removed())
}

func TestDeckService_DeleteDeck_OwnershipGuard(t *testing.T) {
	f := newDeckServiceFixture()
	ctx := context.Background()

	deck, err := f.service.CreateDeck(ctx, 7, "Spanish", "", "")
	require.NoError(t, err)

	err = f.service.DeleteDeck(ctx, deck.ID, 8)

	require.Error(t, err)
	assert.Equal(t, 401, utils.StatusCode(err))

	// Nothing was deleted
	_, err = f.decks.GetByID(ctx, deck.ID)
	assert.NoError(t, err)
}

func TestDeckService_RemoveThumbnail(t *testing.T) {
	f := newDeckServiceFixture()
	ctx := context.Background()

	deck, err := f.service.CreateDeck(ctx, 7, "Spanish", "", "storage/decks/thumb.png")
	require.NoError(t, err)

	updated, err := f.service.RemoveThumbnail(ctx, deck.ID, 7)
	require.NoError(t, err)

	assert.Empty(t, updated.FilePath)
	assert.Equal(t, []string{"storage/decks/thumb.png"}, f.files.Removed())

	// Removing again is a no-op
	_, err = f.service.RemoveThumbnail(ctx, deck.ID, 7)
	require.NoError(t, err)
	assert.Len(t, f.files.Removed(), 1)
}

func TestDeckService_ListDecks(t *testing.T) {
	f := newDeckServiceFixture()
	ctx := context.Background()

	_, err := f.service.CreateDeck(ctx, 7, "Mine", "", "")
	require.NoError(t, err)
	_, err = f.service.CreateDeck(ctx, 8, "Theirs", "", "")
	require.NoError(t, err)

	decks, err := f.service.ListDecks(ctx, 7)

	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, "Mine", decks[0].Title)
}
