package models

import (
	"time"
)

// Card represents a single flashcard inside a deck. Status is the
// self-reported difficulty rating driving the revision selector; an
// empty status means the card has not been rated yet. FilePath points
// at an optional uploaded image or audio attachment.
type Card struct {
	ID         int64     `json:"id" db:"card_id"`
	DeckID     int64     `json:"deck_id" db:"deck_id"`
	OwnerID    int64     `json:"owner_id" db:"owner_id"`
	Question   string    `json:"question" db:"question" validate:"required,min=1,max=2000"`
	AnswerText string    `json:"answer_text" db:"answer_text" validate:"max=2000"`
	Status     string    `json:"status" db:"status" validate:"omitempty,oneof=easy medium hard"`
	FilePath   string    `json:"file_path" db:"file_path"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// NewCard creates a new Card in the given deck.
func NewCard(ownerID, deckID int64, question, answerText string) *Card {
	now := time.Now()
	return &Card{
		OwnerID:    ownerID,
		DeckID:     deckID,
		Question:   question,
		AnswerText: answerText,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// TableName returns the database table name for the Card model.
func (c *Card) TableName() string {
	return "cards"
}

// HasAttachment reports whether the card carries an uploaded file.
func (c *Card) HasAttachment() bool {
	return c.FilePath != ""
}

// CardUpdate represents the mutable fields of a card. A nil field is
// left unchanged.
type CardUpdate struct {
	Question   *string `json:"question" validate:"omitempty,min=1,max=2000"`
	AnswerText *string `json:"answer_text" validate:"omitempty,max=2000"`
	Status     *string `json:"status" validate:"omitempty,oneof=easy medium hard"`
}
