// Package issuer mints claim codes for new gift cards.
package issuer

//go:generate mockgen -destination=mocks/issuer_mock.go -package=mocks . Issuer

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/spec-kit/giftcard-service/internal/config"
)

const (
	codePrefix   = "AMZN"
	codeLength   = 9
	codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var (
	// ErrNotConfigured is returned when no API key is available.
	ErrNotConfigured = errors.New("issuer api key is not configured")
	// ErrInvalidAmount is returned for non-positive face values.
	ErrInvalidAmount = errors.New("issuer amount must be positive")
)

// Issuer returns a claim code for the given face amount. Codes are not
// guaranteed to be unique and calls are not idempotent.
type Issuer interface {
	Issue(ctx context.Context, amount int64) (string, error)
}

// Stub imitates the upstream issuing API without calling it.
type Stub struct {
	apiKey string
}

// NewStub builds a stub issuer from config.
func NewStub(cfg config.IssuerConfig) *Stub {
	return &Stub{apiKey: strings.TrimSpace(cfg.APIKey)}
}

func (s *Stub) Issue(ctx context.Context, amount int64) (string, error) {
	if s.apiKey == "" {
		return "", ErrNotConfigured
	}
	if amount <= 0 {
		return "", ErrInvalidAmount
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow(len(codePrefix) + codeLength)
	sb.WriteString(codePrefix)
	limit := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate gift card code: %w", err)
		}
		sb.WriteByte(codeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}
