package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/giftcard-service/internal/auth"
	"github.com/spec-kit/giftcard-service/internal/domain"
	"github.com/spec-kit/giftcard-service/internal/repository"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
	}
	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]string{}}
}

func (s *fakeSessionStore) Save(_ context.Context, sessionID, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = userID
	return nil
}

func (s *fakeSessionStore) Lookup(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.sessions[sessionID]
	if !ok {
		return "", auth.ErrSessionNotFound
	}
	return userID, nil
}

func (s *fakeSessionStore) Revoke(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// fakeGiftCardRepo evaluates filters in memory with the same semantics as the SQL.
type fakeGiftCardRepo struct {
	mu     sync.Mutex
	cards  map[string]domain.GiftCard
	clock  time.Time
	writes int
}

func newFakeGiftCardRepo() *fakeGiftCardRepo {
	return &fakeGiftCardRepo{
		cards: map[string]domain.GiftCard{},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *fakeGiftCardRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *fakeGiftCardRepo) Create(_ context.Context, card *domain.GiftCard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.tick()
	card.ID = uuid.NewString()
	card.CreatedAt = now
	card.UpdatedAt = now
	r.cards[card.ID] = *card
	r.writes++
	return nil
}

func (r *fakeGiftCardRepo) GetForOwner(_ context.Context, ownerID, id string) (*domain.GiftCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	card, ok := r.cards[id]
	if !ok || card.UserID != ownerID {
		return nil, pgx.ErrNoRows
	}
	return &card, nil
}

func (r *fakeGiftCardRepo) Search(_ context.Context, filter repository.GiftCardFilter) ([]domain.GiftCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.GiftCard{}
	for _, card := range r.cards {
		if matches(card, filter) {
			out = append(out, card)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeGiftCardRepo) SetUsed(_ context.Context, ownerID, id string, isUsed bool) (*domain.GiftCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	card, ok := r.cards[id]
	if !ok || card.UserID != ownerID {
		return nil, pgx.ErrNoRows
	}
	card.IsUsed = isUsed
	card.UpdatedAt = r.tick()
	r.cards[id] = card
	r.writes++
	return &card, nil
}

func (r *fakeGiftCardRepo) Update(_ context.Context, card *domain.GiftCard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.cards[card.ID]
	if !ok || stored.UserID != card.UserID {
		return pgx.ErrNoRows
	}
	card.UpdatedAt = r.tick()
	r.cards[card.ID] = *card
	r.writes++
	return nil
}

func (r *fakeGiftCardRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cards)
}

func matches(card domain.GiftCard, f repository.GiftCardFilter) bool {
	if card.UserID != f.OwnerID {
		return false
	}
	if !containsFold(&card.Code, f.Code) {
		return false
	}
	if f.MinAmount != nil && card.Amount < *f.MinAmount {
		return false
	}
	if f.MaxAmount != nil && card.Amount > *f.MaxAmount {
		return false
	}
	if !containsFold(card.RecipientName, f.RecipientName) {
		return false
	}
	if !containsFold(card.RecipientEmail, f.RecipientEmail) {
		return false
	}
	if f.IsUsed != nil && card.IsUsed != *f.IsUsed {
		return false
	}
	return true
}

func containsFold(value, term *string) bool {
	if term == nil || strings.TrimSpace(*term) == "" {
		return true
	}
	if value == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*value), strings.ToLower(strings.TrimSpace(*term)))
}
