// Package identity resolves the owner id attached to every request. Callers
// presenting a valid signed token keep a durable id; everyone else is minted
// a fresh guest id for that call only, so guest carts survive only as long as
// the caller replays an issued token.
package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	OwnerID string `json:"ownerId"`
	Guest   bool   `json:"guest"`
	jwt.RegisteredClaims
}

// NewGuestID mints an ephemeral owner id.
func NewGuestID() string {
	return "guest_" + uuid.NewString()
}

// IssueToken signs a token binding ownerID for ttl. Token issuance itself is
// an external concern; this is the mint used by issuers and tests.
func IssueToken(secret []byte, ownerID string, guest bool, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		OwnerID: ownerID,
		Guest:   guest,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseToken(secret []byte, token string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return Claims{}, err
	}
	return claims, nil
}
