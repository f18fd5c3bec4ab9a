package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/giftcard-service/internal/domain"
)

const giftCardColumns = `id, user_id, code, amount, is_used, recipient_name, recipient_email,
               sent_at, received_at, created_at, updated_at`

// GiftCardRepository encapsulates gift card persistence. Every read and write is owner scoped.
type GiftCardRepository interface {
	Create(ctx context.Context, card *domain.GiftCard) error
	GetForOwner(ctx context.Context, ownerID, id string) (*domain.GiftCard, error)
	Search(ctx context.Context, filter GiftCardFilter) ([]domain.GiftCard, error)
	SetUsed(ctx context.Context, ownerID, id string, isUsed bool) (*domain.GiftCard, error)
	Update(ctx context.Context, card *domain.GiftCard) error
}

type giftCardRepository struct {
	db DBTX
}

// NewGiftCardRepository instantiates repository.
func NewGiftCardRepository(db DBTX) GiftCardRepository {
	return &giftCardRepository{db: db}
}

func (r *giftCardRepository) Create(ctx context.Context, card *domain.GiftCard) error {
	const query = `
        INSERT INTO gift_cards (user_id, code, amount, is_used, recipient_name, recipient_email, sent_at, received_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		card.UserID,
		card.Code,
		card.Amount,
		card.IsUsed,
		card.RecipientName,
		card.RecipientEmail,
		card.SentAt,
		card.ReceivedAt,
	).Scan(&card.ID, &card.CreatedAt, &card.UpdatedAt)
}

func (r *giftCardRepository) GetForOwner(ctx context.Context, ownerID, id string) (*domain.GiftCard, error) {
	const query = `SELECT ` + giftCardColumns + `
        FROM gift_cards WHERE id=$1 AND user_id=$2`
	return scanGiftCard(r.db.QueryRow(ctx, query, id, ownerID))
}

func (r *giftCardRepository) Search(ctx context.Context, filter GiftCardFilter) ([]domain.GiftCard, error) {
	where, args := filter.Where()
	query := `SELECT ` + giftCardColumns + `
        FROM gift_cards WHERE ` + where + `
        ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGiftCards(rows)
}

func (r *giftCardRepository) SetUsed(ctx context.Context, ownerID, id string, isUsed bool) (*domain.GiftCard, error) {
	const query = `
        UPDATE gift_cards SET is_used=$1, updated_at=NOW()
        WHERE id=$2 AND user_id=$3
        RETURNING ` + giftCardColumns
	return scanGiftCard(r.db.QueryRow(ctx, query, isUsed, id, ownerID))
}

func (r *giftCardRepository) Update(ctx context.Context, card *domain.GiftCard) error {
	const query = `
        UPDATE gift_cards SET amount=$1, is_used=$2, recipient_name=$3, recipient_email=$4,
            sent_at=$5, received_at=$6, updated_at=NOW()
        WHERE id=$7 AND user_id=$8
        RETURNING updated_at`
	return r.db.QueryRow(ctx, query,
		card.Amount,
		card.IsUsed,
		card.RecipientName,
		card.RecipientEmail,
		card.SentAt,
		card.ReceivedAt,
		card.ID,
		card.UserID,
	).Scan(&card.UpdatedAt)
}

func scanGiftCard(row pgx.Row) (*domain.GiftCard, error) {
	var card domain.GiftCard
	if err := row.Scan(
		&card.ID,
		&card.UserID,
		&card.Code,
		&card.Amount,
		&card.IsUsed,
		&card.RecipientName,
		&card.RecipientEmail,
		&card.SentAt,
		&card.ReceivedAt,
		&card.CreatedAt,
		&card.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &card, nil
}

func scanGiftCards(rows pgx.Rows) ([]domain.GiftCard, error) {
	result := []domain.GiftCard{}
	for rows.Next() {
		card, err := scanGiftCard(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *card)
	}
	return result, rows.Err()
}
