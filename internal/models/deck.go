package models

import (
	"time"
)

// Deck represents a flashcard deck owned by a single user. FilePath
// points at the uploaded thumbnail image on disk, relative to the
// storage root.
type Deck struct {
	ID          int64     `json:"id" db:"deck_id"`
	OwnerID     int64     `json:"owner_id" db:"owner_id"`
	Title       string    `json:"title" db:"title" validate:"required,min=1,max=200"`
	Description string    `json:"description" db:"description" validate:"max=2000"`
	FilePath    string    `json:"file_path" db:"file_path"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// NewDeck creates a new Deck for the given owner.
func NewDeck(ownerID int64, title, description string) *Deck {
	now := time.Now()
	return &Deck{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TableName returns the database table name for the Deck model.
func (d *Deck) TableName() string {
	return "decks"
}

// DeckUpdate represents the mutable fields of a deck. A nil field is
// left unchanged.
type DeckUpdate struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}
