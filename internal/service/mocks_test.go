package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/omnilingu/backend/internal/models"
	"github.com/omnilingu/backend/internal/utils"
)

// In-memory mock repositories shared by the service tests.

type MockUserRepository struct {
	users        map[int64]*models.User
	usersByEmail map[string]*models.User
	nextID       int64
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:        make(map[int64]*models.User),
		usersByEmail: make(map[string]*models.User),
		nextID:       1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if _, ok := m.usersByEmail[user.Email]; ok {
		return utils.NewDuplicateError("User", "email", user.Email)
	}
	user.ID = m.nextID
	m.nextID++

	m.users[user.ID] = user
	m.usersByEmail[user.Email] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("User", id)
	}
	return user, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := m.usersByEmail[email]
	if !ok {
		return nil, utils.NewNotFoundError("User", email)
	}
	return user, nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	user, ok := m.users[id]
	if !ok {
		return utils.NewNotFoundError("User", id)
	}
	delete(m.usersByEmail, user.Email)
	delete(m.users, id)
	return nil
}

func (m *MockUserRepository) ChangePassword(ctx context.Context, id int64, passwordHash string) error {
	user, ok := m.users[id]
	if !ok {
		return utils.NewNotFoundError("User", id)
	}
	user.PasswordHash = passwordHash
	return nil
}

func (m *MockUserRepository) SetResetCredential(ctx context.Context, id int64, token string, expiry time.Time) error {
	user, ok := m.users[id]
	if !ok {
		return utils.NewNotFoundError("User", id)
	}
	user.ResetToken = &token
	user.ResetExpiry = &expiry
	return nil
}

func (m *MockUserRepository) ClearResetCredential(ctx context.Context, id int64) error {
	user, ok := m.users[id]
	if !ok {
		return utils.NewNotFoundError("User", id)
	}
	user.ResetToken = nil
	user.ResetExpiry = nil
	return nil
}

func (m *MockUserRepository) ClearExpiredResetCredentials(ctx context.Context, now time.Time) (int64, error) {
	var cleared int64
	for _, user := range m.users {
		if user.ResetExpiry != nil && user.ResetExpiry.Before(now) {
			user.ResetToken = nil
			user.ResetExpiry = nil
			cleared++
		}
	}
	return cleared, nil
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := m.usersByEmail[email]
	return ok, nil
}

type MockDeckRepository struct {
	decks  map[int64]*models.Deck
	nextID int64
}

func NewMockDeckRepository() *MockDeckRepository {
	return &MockDeckRepository{
		decks:  make(map[int64]*models.Deck),
		nextID: 1,
	}
}

func (m *MockDeckRepository) Create(ctx context.Context, deck *models.Deck) error {
	deck.ID = m.nextID
	m.nextID++
	m.decks[deck.ID] = deck
	return nil
}

func (m *MockDeckRepository) GetByID(ctx context.Context, id int64) (*models.Deck, error) {
	deck, ok := m.decks[id]
	if !ok {
		return nil, utils.NewNotFoundError("Deck", id)
	}
	return deck, nil
}

func (m *MockDeckRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Deck, error) {
	decks := make([]*models.Deck, 0)
	for _, deck := range m.decks {
		if deck.OwnerID == ownerID {
			decks = append(decks, deck)
		}
	}
	sort.Slice(decks, func(i, j int) bool { return decks[i].CreatedAt.After(decks[j].CreatedAt) })
	return decks, nil
}

func (m *MockDeckRepository) Update(ctx context.Context, deck *models.Deck) error {
	if _, ok := m.decks[deck.ID]; !ok {
		return utils.NewNotFoundError("Deck", deck.ID)
	}
	m.decks[deck.ID] = deck
	return nil
}

func (m *MockDeckRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.decks[id]; !ok {
		return utils.NewNotFoundError("Deck", id)
	}
	delete(m.decks, id)
	return nil
}

func (m *MockDeckRepository) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var removed int64
	for id, deck := range m.decks {
		if deck.OwnerID == ownerID {
			delete(m.decks, id)
			removed++
		}
	}
	return removed, nil
}

type MockCardRepository struct {
	cards  map[int64]*models.Card
	nextID int64
}

func NewMockCardRepository() *MockCardRepository {
	return &MockCardRepository{
		cards:  make(map[int64]*models.Card),
		nextID: 1,
	}
}

func (m *MockCardRepository) Create(ctx context.Context, card *models.Card) error {
	card.ID = m.nextID
	m.nextID++
	m.cards[card.ID] = card
	return nil
}

func (m *MockCardRepository) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	card, ok := m.cards[id]
	if !ok {
		return nil, utils.NewNotFoundError("Card", id)
	}
	return card, nil
}

// sortedByDeck returns a deck's cards ordered by ID, matching the
// ORDER BY card_id the real repository uses.
func (m *MockCardRepository) sortedByDeck(deckID int64) []*models.Card {
	cards := make([]*models.Card, 0)
	for _, card := range m.cards {
		if card.DeckID == deckID {
			cards = append(cards, card)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	return cards
}

func (m *MockCardRepository) ListByDeck(ctx context.Context, deckID int64) ([]*models.Card, error) {
	return m.sortedByDeck(deckID), nil
}

func (m *MockCardRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Card, error) {
	cards := make([]*models.Card, 0)
	for _, card := range m.cards {
		if card.OwnerID == ownerID {
			cards = append(cards, card)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	return cards, nil
}

func (m *MockCardRepository) Update(ctx context.Context, card *models.Card) error {
	if _, ok := m.cards[card.ID]; !ok {
		return utils.NewNotFoundError("Card", card.ID)
	}
	m.cards[card.ID] = card
	return nil
}

func (m *MockCardRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.cards[id]; !ok {
		return utils.NewNotFoundError("Card", id)
	}
	delete(m.cards, id)
	return nil
}

func (m *MockCardRepository) DeleteByDeck(ctx context.Context, deckID int64) (int64, error) {
	var removed int64
	for id, card := range m.cards {
		if card.DeckID == deckID {
			delete(m.cards, id)
			removed++
		}
	}
	return removed, nil
}

func (m *MockCardRepository) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var removed int64
	for id, card := range m.cards {
		if card.OwnerID == ownerID {
			delete(m.cards, id)
			removed++
		}
	}
	return removed, nil
}

func (m *MockCardRepository) CountByDeckAndStatus(ctx context.Context, deckID int64, status string) (int, error) {
	count := 0
	for _, card := range m.cards {
		if card.DeckID == deckID && card.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *MockCardRepository) GetByDeckStatusOffset(ctx context.Context, deckID int64, status string, offset int) (*models.Card, error) {
	matching := make([]*models.Card, 0)
	for _, card := range m.sortedByDeck(deckID) {
		if card.Status == status {
			matching = append(matching, card)
		}
	}
	if offset < 0 || offset >= len(matching) {
		return nil, utils.NewNotFoundError("Card", fmt.Sprintf("deck %d status %s offset %d", deckID, status, offset))
	}
	return matching[offset], nil
}

// MockFileRemover records every removal attempt, empty paths included,
// so tests can assert on the exact sequence.
type MockFileRemover struct {
	mu       sync.Mutex
	Attempts []string
}

func NewMockFileRemover() *MockFileRemover {
	return &MockFileRemover{}
}

func (m *MockFileRemover) Remove(relPath string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Attempts = append(m.Attempts, relPath)
}

func (m *MockFileRemover) Removed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Attempts))
	copy(out, m.Attempts)
	return out
}

// MockEmailSender records sent mail and signals on a channel so tests
// can wait for the background send.
type MockEmailSender struct {
	mu    sync.Mutex
	Sent  []string // reset links, in send order
	Err   error
	Done  chan struct{}
	names []string
}

func NewMockEmailSender() *MockEmailSender {
	return &MockEmailSender{Done: make(chan struct{}, 16)}
}

func (m *MockEmailSender) SendPasswordResetEmail(toEmail, toName, resetLink string) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, resetLink)
	m.names = append(m.names, toName)
	err := m.Err
	m.mu.Unlock()
	m.Done <- struct{}{}
	return err
}

func (m *MockEmailSender) SentLinks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Sent))
	copy(out, m.Sent)
	return out
}
