package paywall

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ReceiptClaims are the claims carried by an unlock receipt.
type ReceiptClaims struct {
	Provider string `json:"provider"`
	Phone    string `json:"phone"`
	jwt.RegisteredClaims
}

// ReceiptIssuer mints and verifies signed unlock receipts. The secret is
// session-scoped by default, so receipts prove an unlock happened in this
// process rather than granting anything across restarts.
type ReceiptIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewReceiptIssuer creates an issuer with the given signing secret. An
// empty secret gets a random session-scoped one.
func NewReceiptIssuer(secret string, ttl time.Duration) *ReceiptIssuer {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		_, _ = rand.Read(key)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ReceiptIssuer{secret: key, ttl: ttl}
}

// Issue signs a receipt for a confirmed payment.
func (i *ReceiptIssuer) Issue(provider, maskedPhone string) (string, error) {
	now := time.Now()
	claims := &ReceiptClaims{
		Provider: provider,
		Phone:    maskedPhone,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign receipt: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a receipt, returning its claims.
func (i *ReceiptIssuer) Verify(receipt string) (*ReceiptClaims, error) {
	if receipt == "" {
		return nil, fmt.Errorf("receipt is empty")
	}

	claims := &ReceiptClaims{}
	token, err := jwt.ParseWithClaims(receipt, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse receipt: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("receipt is not valid")
	}
	return claims, nil
}
