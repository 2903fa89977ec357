package service

import (
	"context"

	"storyforge/internal/models"
)

// AuthService manages account registration and token lifecycle.
type AuthService interface {
	// Register creates a new account. The password is peppered and bcrypt
	// hashed before storage; the plaintext never leaves this call.
	Register(ctx context.Context, email, nickname, password string) (*models.Account, error)
	// Login verifies credentials and issues an access/refresh token pair.
	Login(ctx context.Context, email, password string) (*models.TokenDetails, error)
	// Logout revokes both tokens of a pair.
	Logout(ctx context.Context, accessUUID, refreshUUID string) error
	// Refresh rotates a token pair given a valid refresh token.
	Refresh(ctx context.Context, refreshToken string) (*models.TokenDetails, error)
	// VerifyAccessToken parses and validates an access token string, checking
	// it has not been revoked.
	VerifyAccessToken(ctx context.Context, tokenString string) (*models.Claims, error)
	// ParseToken validates a token's signature and expiry without a store
	// lookup. Used to extract the refresh jti on logout.
	ParseToken(tokenString string) (*models.Claims, error)
}
