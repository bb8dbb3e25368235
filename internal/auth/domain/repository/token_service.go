package repository

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService defines the contract for minting and verifying session tokens.
type TokenService interface {
	GenerateToken(ctx context.Context, userID, sessionID string) (string, error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims binds a user identity to one login session. The token itself is
// never stored server-side; validity is signature + expiry + a live session
// entry on the user document.
type Claims struct {
	UserID    string `json:"id"`
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}
