package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/giftcard-service/internal/domain"
	"github.com/spec-kit/giftcard-service/internal/events"
	"github.com/spec-kit/giftcard-service/internal/issuer"
	"github.com/spec-kit/giftcard-service/internal/observability"
	"github.com/spec-kit/giftcard-service/internal/repository"
	apperrors "github.com/spec-kit/giftcard-service/pkg/util/errorutil"
)

const maxRecipientNameLength = 255

var fieldValidator = validator.New()

// GiftCardService coordinates owner-scoped gift card workflows.
type GiftCardService struct {
	cards        repository.GiftCardRepository
	issuer       issuer.Issuer
	dispatcher   events.Dispatcher
	metrics      *observability.Metrics
	logger       *zap.Logger
	issueTimeout time.Duration
}

// GiftCardDependencies bundles collaborators for the gift card service.
type GiftCardDependencies struct {
	CardRepo     repository.GiftCardRepository
	Issuer       issuer.Issuer
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	IssueTimeout time.Duration
}

// GiftCardCreateInput describes a new card request.
type GiftCardCreateInput struct {
	Amount         int64
	RecipientName  *string
	RecipientEmail *string
}

// GiftCardFilter describes optional search constraints.
type GiftCardFilter struct {
	Code           *string
	MinAmount      *int64
	MaxAmount      *int64
	RecipientName  *string
	RecipientEmail *string
	IsUsed         *bool
}

// GiftCardUpdateInput is a partial update; nil fields are left untouched.
// Code is accepted only when it equals the stored code.
type GiftCardUpdateInput struct {
	Code           *string
	Amount         *int64
	IsUsed         *bool
	RecipientName  *string
	RecipientEmail *string
	SentAt         *time.Time
	ReceivedAt     *time.Time
}

// NewGiftCardService constructs the service.
func NewGiftCardService(deps GiftCardDependencies) *GiftCardService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GiftCardService{
		cards:        deps.CardRepo,
		issuer:       deps.Issuer,
		dispatcher:   deps.Dispatcher,
		metrics:      deps.Metrics,
		logger:       logger,
		issueTimeout: deps.IssueTimeout,
	}
}

// Create issues a code and persists a new unused card for the owner.
// Nothing is written when the issuer fails.
func (s *GiftCardService) Create(ctx context.Context, ownerID string, input GiftCardCreateInput) (*domain.GiftCard, error) {
	if ownerID == "" {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	if input.Amount <= 0 {
		return nil, apperrors.NewInvalidAmount()
	}
	name, email, err := normalizeRecipient(input.RecipientName, input.RecipientEmail)
	if err != nil {
		return nil, err
	}

	code, err := s.issueCode(ctx, input.Amount)
	if err != nil {
		s.metrics.IssuerFailed()
		s.logger.Warn("issuer failed", zap.String("owner_id", ownerID), zap.Int64("amount", input.Amount), zap.Error(err))
		return nil, apperrors.NewIssuerError(err)
	}

	card := &domain.GiftCard{
		UserID:         ownerID,
		Code:           code,
		Amount:         input.Amount,
		IsUsed:         false,
		RecipientName:  name,
		RecipientEmail: email,
	}
	if err := s.cards.Create(ctx, card); err != nil {
		return nil, fmt.Errorf("persist gift card: %w", err)
	}
	s.metrics.GiftCardIssued()

	s.publishEvent(ctx, events.Event{
		Type:       events.EventGiftCardCreated,
		GiftCardID: card.ID,
		OwnerID:    ownerID,
		Payload: events.GiftCardCreatedPayload{
			Amount:         card.Amount,
			RecipientEmail: card.RecipientEmail,
		},
	})
	return card, nil
}

// Search returns the owner's cards matching every provided constraint, newest first.
func (s *GiftCardService) Search(ctx context.Context, ownerID string, filter GiftCardFilter) ([]domain.GiftCard, error) {
	if ownerID == "" {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	repoFilter := repository.GiftCardFilter{
		OwnerID:        ownerID,
		Code:           filter.Code,
		MinAmount:      filter.MinAmount,
		MaxAmount:      filter.MaxAmount,
		RecipientName:  filter.RecipientName,
		RecipientEmail: filter.RecipientEmail,
		IsUsed:         filter.IsUsed,
	}
	cards, err := s.cards.Search(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("search gift cards: %w", err)
	}
	if cards == nil {
		cards = []domain.GiftCard{}
	}
	return cards, nil
}

// UpdateStatus sets the used flag on one of the owner's cards.
func (s *GiftCardService) UpdateStatus(ctx context.Context, ownerID, cardID string, isUsed bool) (*domain.GiftCard, error) {
	card, err := s.getOwned(ctx, ownerID, cardID)
	if err != nil {
		return nil, err
	}
	if card.IsUsed == isUsed {
		return card, nil
	}

	oldIsUsed := card.IsUsed
	updated, err := s.cards.SetUsed(ctx, ownerID, card.ID, isUsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("gift card")
		}
		return nil, fmt.Errorf("update gift card status: %w", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventGiftCardStatusChanged,
		GiftCardID: updated.ID,
		OwnerID:    ownerID,
		Payload: events.GiftCardStatusChangedPayload{
			OldIsUsed: oldIsUsed,
			NewIsUsed: updated.IsUsed,
		},
	})
	return updated, nil
}

// Update applies a partial update to one of the owner's cards.
func (s *GiftCardService) Update(ctx context.Context, ownerID, cardID string, input GiftCardUpdateInput) (*domain.GiftCard, error) {
	if ownerID == "" {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	if input.Amount != nil && *input.Amount <= 0 {
		return nil, apperrors.NewInvalidAmount()
	}

	card, err := s.getOwned(ctx, ownerID, cardID)
	if err != nil {
		return nil, err
	}
	if input.Code != nil && strings.TrimSpace(*input.Code) != card.Code {
		return nil, apperrors.NewInvalidInput("code cannot be changed", map[string]any{"field": "code"})
	}

	changed := []string{}
	if input.Amount != nil && *input.Amount != card.Amount {
		card.Amount = *input.Amount
		changed = append(changed, "amount")
	}
	if input.IsUsed != nil && *input.IsUsed != card.IsUsed {
		card.IsUsed = *input.IsUsed
		changed = append(changed, "is_used")
	}
	if input.RecipientName != nil || input.RecipientEmail != nil {
		name, email, err := normalizeRecipient(input.RecipientName, input.RecipientEmail)
		if err != nil {
			return nil, err
		}
		if input.RecipientName != nil {
			card.RecipientName = name
			changed = append(changed, "recipient_name")
		}
		if input.RecipientEmail != nil {
			card.RecipientEmail = email
			changed = append(changed, "recipient_email")
		}
	}
	if input.SentAt != nil {
		sentAt := input.SentAt.UTC()
		card.SentAt = &sentAt
		changed = append(changed, "sent_at")
	}
	if input.ReceivedAt != nil {
		receivedAt := input.ReceivedAt.UTC()
		card.ReceivedAt = &receivedAt
		changed = append(changed, "received_at")
	}
	if len(changed) == 0 {
		return card, nil
	}

	if err := s.cards.Update(ctx, card); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("gift card")
		}
		return nil, fmt.Errorf("update gift card: %w", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventGiftCardUpdated,
		GiftCardID: card.ID,
		OwnerID:    ownerID,
		Payload:    events.GiftCardUpdatedPayload{Fields: changed},
	})
	return card, nil
}

// getOwned loads a card only if ownerID owns it. Missing, foreign and
// malformed ids all yield the same NotFound error.
func (s *GiftCardService) getOwned(ctx context.Context, ownerID, cardID string) (*domain.GiftCard, error) {
	if ownerID == "" {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	if _, err := uuid.Parse(cardID); err != nil {
		return nil, apperrors.NewNotFound("gift card")
	}
	card, err := s.cards.GetForOwner(ctx, ownerID, cardID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("gift card")
		}
		return nil, fmt.Errorf("load gift card: %w", err)
	}
	if !card.OwnedBy(ownerID) {
		return nil, apperrors.NewNotFound("gift card")
	}
	return card, nil
}

func (s *GiftCardService) issueCode(ctx context.Context, amount int64) (string, error) {
	if s.issuer == nil {
		return "", errors.New("no issuer configured")
	}
	if s.issueTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.issueTimeout)
		defer cancel()
	}
	code, err := s.issuer.Issue(ctx, amount)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(code) == "" {
		return "", errors.New("issuer returned an empty code")
	}
	return code, nil
}

func (s *GiftCardService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed",
			zap.String("event_type", string(event.Type)),
			zap.String("gift_card_id", event.GiftCardID),
			zap.Error(err))
	}
}

// normalizeRecipient trims the optional recipient fields; blank values become nil.
func normalizeRecipient(name, email *string) (*string, *string, error) {
	normName := trimmedOrNil(name)
	normEmail := trimmedOrNil(email)
	if normName != nil && utf8.RuneCountInString(*normName) > maxRecipientNameLength {
		return nil, nil, apperrors.NewInvalidInput(
			fmt.Sprintf("recipient name must be at most %d characters", maxRecipientNameLength),
			map[string]any{"field": "recipient_name"})
	}
	if normEmail != nil {
		if err := fieldValidator.Var(*normEmail, "email"); err != nil {
			return nil, nil, apperrors.NewInvalidInput("recipient email is invalid", map[string]any{"field": "recipient_email"})
		}
	}
	return normName, normEmail, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
