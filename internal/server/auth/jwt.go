// Package auth issues and verifies the HS256 access tokens handed out after
// a wallet login.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/shipmarket/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the profile and wallet the token was issued to.
type Claims struct {
	jwt.RegisteredClaims
	ProfileID string `json:"pid"`
	Wallet    string `json:"wal"`
}

// Identity is the caller resolved from a valid access token.
type Identity struct {
	ProfileID string
	Wallet    string
}

func GenerateToken(id Identity, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ProfileID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		ProfileID: id.ProfileID,
		Wallet:    id.Wallet,
	})

	return token.SignedString(secretKey)
}

// ParseToken validates tokenString and returns the identity it carries.
// An expired token yields common.ErrTokenExpired; any other failure
// common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.ProfileID == "" {
		return nil, common.ErrInvalidToken
	}

	return &Identity{ProfileID: claims.ProfileID, Wallet: claims.Wallet}, nil
}
