package service

import (
	"errors"
	"fmt"

	"bloglist/internal/apperror"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the identity carried by a bearer token.
type TokenClaims struct {
	Username string
	ID       string
}

// Claims defines JWT claims. No exp or iat: tokens never expire and issuing
// the same identity with the same secret yields the same token.
type Claims struct {
	Username string `json:"username"`
	ID       string `json:"id"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Issue signs the claims with HS256.
func (m *TokenManager) Issue(c TokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Username: c.Username,
		ID:       c.ID,
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and returns the claims. An empty token is
// TokenMissing; anything that fails verification is TokenInvalid.
func (m *TokenManager) Parse(accessToken string) (TokenClaims, error) {
	if accessToken == "" {
		return TokenClaims{}, apperror.ErrTokenMissing
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		msg := "token invalid"
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			msg = "token signature invalid"
		}
		return TokenClaims{}, apperror.New(apperror.TokenInvalid, msg, err)
	}
	if !token.Valid {
		return TokenClaims{}, apperror.ErrTokenInvalid
	}
	return TokenClaims{Username: claims.Username, ID: claims.ID}, nil
}
