package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestGiftCardFilterOwnerOnly(t *testing.T) {
	where, args := GiftCardFilter{OwnerID: "owner-1"}.Where()

	assert.Equal(t, "user_id = $1", where)
	assert.Equal(t, []any{"owner-1"}, args)
}

func TestGiftCardFilterAllPredicates(t *testing.T) {
	filter := GiftCardFilter{
		OwnerID:        "owner-1",
		Code:           strPtr("amzn"),
		MinAmount:      int64Ptr(1000),
		MaxAmount:      int64Ptr(5000),
		RecipientName:  strPtr("Taro"),
		RecipientEmail: strPtr("example.com"),
		IsUsed:         boolPtr(false),
	}

	where, args := filter.Where()

	assert.Equal(t,
		"user_id = $1 AND code ILIKE $2 AND amount >= $3 AND amount <= $4 AND "+
			"recipient_name ILIKE $5 AND recipient_email ILIKE $6 AND is_used = $7",
		where)
	assert.Equal(t, []any{"owner-1", "%amzn%", int64(1000), int64(5000), "%Taro%", "%example.com%", false}, args)
}

func TestGiftCardFilterSkipsBlankText(t *testing.T) {
	filter := GiftCardFilter{
		OwnerID:       "owner-1",
		Code:          strPtr("   "),
		RecipientName: strPtr(""),
		IsUsed:        boolPtr(true),
	}

	where, args := filter.Where()

	assert.Equal(t, "user_id = $1 AND is_used = $2", where)
	assert.Equal(t, []any{"owner-1", true}, args)
}

func TestGiftCardFilterEscapesWildcards(t *testing.T) {
	filter := GiftCardFilter{OwnerID: "o", Code: strPtr(`50%_off\`)}

	_, args := filter.Where()

	assert.Equal(t, `%50\%\_off\\%`, args[1])
}

func TestFoldPredicatesOrderOnlyRenumbers(t *testing.T) {
	a := predicate{column: "amount", op: ">=", value: int64(1)}
	b := predicate{column: "is_used", op: "=", value: true}

	w1, args1 := foldPredicates([]predicate{a, b}, 1)
	w2, args2 := foldPredicates([]predicate{b, a}, 1)

	assert.Equal(t, "amount >= $1 AND is_used = $2", w1)
	assert.Equal(t, "is_used = $1 AND amount >= $2", w2)
	assert.ElementsMatch(t, args1, args2)
}

func TestFoldPredicatesEmpty(t *testing.T) {
	where, args := foldPredicates(nil, 1)
	assert.Equal(t, "TRUE", where)
	assert.Empty(t, args)
}
