package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDeck(t *testing.T) {
	deck := NewDeck(7, "Spanish Verbs", "Common irregular verbs")

	assert.Equal(t, int64(7), deck.OwnerID)
	assert.Equal(t, "Spanish Verbs", deck.Title)
	assert.Equal(t, "Common irregular verbs", deck.Description)
	assert.Empty(t, deck.FilePath)
	assert.False(t, deck.CreatedAt.IsZero())
}

func TestDeck_TableName(t *testing.T) {
	assert.Equal(t, "decks", (&Deck{}).TableName())
}
