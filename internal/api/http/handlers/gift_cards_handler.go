package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/giftcard-service/internal/api/dto"
	"github.com/spec-kit/giftcard-service/internal/auth"
	"github.com/spec-kit/giftcard-service/internal/domain"
	"github.com/spec-kit/giftcard-service/internal/service"
	apperrors "github.com/spec-kit/giftcard-service/pkg/util/errorutil"
)

// GiftCardManager is the slice of the gift card service the endpoints need.
type GiftCardManager interface {
	Create(ctx context.Context, ownerID string, input service.GiftCardCreateInput) (*domain.GiftCard, error)
	Search(ctx context.Context, ownerID string, filter service.GiftCardFilter) ([]domain.GiftCard, error)
	UpdateStatus(ctx context.Context, ownerID, cardID string, isUsed bool) (*domain.GiftCard, error)
	Update(ctx context.Context, ownerID, cardID string, input service.GiftCardUpdateInput) (*domain.GiftCard, error)
}

// GiftCardsHandler manages the owner's gift card endpoints.
type GiftCardsHandler struct {
	service GiftCardManager
}

// NewGiftCardsHandler constructs handler.
func NewGiftCardsHandler(giftCardService GiftCardManager) *GiftCardsHandler {
	return &GiftCardsHandler{service: giftCardService}
}

// Create POST /api/giftcards.
func (h *GiftCardsHandler) Create(c *fiber.Ctx) error {
	ownerID, err := ownerFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateGiftCardRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}

	card, err := h.service.Create(c.UserContext(), ownerID, service.GiftCardCreateInput{
		Amount:         req.Amount,
		RecipientName:  req.RecipientName,
		RecipientEmail: req.RecipientEmail,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"ok": true, "card": dto.NewGiftCardResponse(card)})
}

// Search GET /api/giftcards.
func (h *GiftCardsHandler) Search(c *fiber.Ctx) error {
	ownerID, err := ownerFrom(c)
	if err != nil {
		return err
	}
	filter, err := parseGiftCardQuery(c)
	if err != nil {
		return err
	}

	cards, err := h.service.Search(c.UserContext(), ownerID, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "cards": dto.NewGiftCardListResponse(cards)})
}

// UpdateStatus PATCH /api/giftcards/:id/status.
func (h *GiftCardsHandler) UpdateStatus(c *fiber.Ctx) error {
	ownerID, err := ownerFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateGiftCardStatusRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}

	card, err := h.service.UpdateStatus(c.UserContext(), ownerID, c.Params("id"), *req.IsUsed)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "card": dto.NewGiftCardResponse(card)})
}

// Update PATCH /api/giftcards/:id.
func (h *GiftCardsHandler) Update(c *fiber.Ctx) error {
	ownerID, err := ownerFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateGiftCardRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}

	card, err := h.service.Update(c.UserContext(), ownerID, c.Params("id"), service.GiftCardUpdateInput{
		Code:           req.Code,
		Amount:         req.Amount,
		IsUsed:         req.IsUsed,
		RecipientName:  req.RecipientName,
		RecipientEmail: req.RecipientEmail,
		SentAt:         req.SentAt,
		ReceivedAt:     req.ReceivedAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "card": dto.NewGiftCardResponse(card)})
}

func ownerFrom(c *fiber.Ctx) (string, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return "", apperrors.NewUnauthenticated("authentication required")
	}
	return principal.User.ID, nil
}

func parseGiftCardQuery(c *fiber.Ctx) (service.GiftCardFilter, error) {
	var filter service.GiftCardFilter
	var err error

	filter.Code = queryString(c, "code")
	filter.RecipientName = queryString(c, "recipientName")
	filter.RecipientEmail = queryString(c, "recipientEmail")

	if filter.MinAmount, err = queryInt64(c, "minAmount"); err != nil {
		return filter, err
	}
	if filter.MaxAmount, err = queryInt64(c, "maxAmount"); err != nil {
		return filter, err
	}
	if filter.IsUsed, err = queryBool(c, "isUsed"); err != nil {
		return filter, err
	}
	return filter, nil
}

func queryString(c *fiber.Ctx, key string) *string {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	return &raw
}

func queryInt64(c *fiber.Ctx, key string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperrors.NewInvalidInput("query parameter must be an integer", map[string]any{"field": key})
	}
	return &v, nil
}

func queryBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.NewInvalidInput("query parameter must be true or false", map[string]any{"field": key})
	}
	return &v, nil
}
