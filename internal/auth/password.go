package auth

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch signals a password that does not match its stored hash.
var ErrPasswordMismatch = errors.New("password mismatch")

// dummyHash is compared against when the account does not exist, so unknown
// usernames cost the same bcrypt work as wrong passwords.
var (
	dummyHash     []byte
	dummyHashOnce sync.Once
)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}

// BurnComparison performs a throwaway comparison at the given cost.
func BurnComparison(plain string, cost int) {
	dummyHashOnce.Do(func() {
		if cost < bcrypt.MinCost {
			cost = bcrypt.DefaultCost
		}
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("giftcard-service"), cost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}
