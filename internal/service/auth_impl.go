package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"storyforge/internal/config"
	"storyforge/internal/interfaces"
	"storyforge/internal/models"
)

const tokenIssuer = "storyforge"

// Compile-time check to ensure authServiceImpl implements AuthService
var _ AuthService = (*authServiceImpl)(nil)

type authServiceImpl struct {
	accountRepo interfaces.AccountRepository
	tokenRepo   interfaces.TokenRepository
	cfg         *config.Config
	logger      *zap.Logger
}

// NewAuthService creates a new instance of authServiceImpl.
func NewAuthService(accountRepo interfaces.AccountRepository, tokenRepo interfaces.TokenRepository, cfg *config.Config, logger *zap.Logger) AuthService {
	return &authServiceImpl{
		accountRepo: accountRepo,
		tokenRepo:   tokenRepo,
		cfg:         cfg,
		logger:      logger.Named("AuthService"),
	}
}

// Register creates a new account.
func (s *authServiceImpl) Register(ctx context.Context, email, nickname, password string) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	nickname = strings.TrimSpace(nickname)

	logFields := []zap.Field{zap.String("email", email), zap.String("nickname", nickname)}
	s.logger.Info("Registering new account", logFields...)

	if _, err := mail.ParseAddress(email); err != nil {
		s.logger.Warn("Registration attempt with invalid email format", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("invalid email format: %w", models.ErrInvalidInput)
	}
	if nickname == "" || password == "" {
		s.logger.Warn("Registration attempt with empty nickname or password", logFields...)
		return nil, models.ErrInvalidInput
	}

	// Pre-check both unique fields so the caller gets the right field-level
	// error; the database constraint remains the authority under races.
	existing, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrAccountNotFound) {
		s.logger.Error("Error checking existing email during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("error checking existing email: %w", err)
	}
	if existing != nil {
		s.logger.Warn("Registration attempt for existing email", logFields...)
		return nil, models.ErrEmailTaken
	}

	existing, err = s.accountRepo.GetByNickname(ctx, nickname)
	if err != nil && !errors.Is(err, models.ErrAccountNotFound) {
		s.logger.Error("Error checking existing nickname during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("error checking existing nickname: %w", err)
	}
	if existing != nil {
		s.logger.Warn("Registration attempt for existing nickname", logFields...)
		return nil, models.ErrNicknameTaken
	}

	hashedPassword, err := hashPassword(password, s.cfg.PasswordPepper)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		Email:        email,
		Nickname:     nickname,
		PasswordHash: hashedPassword,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		// Uniqueness errors are already mapped by the repository.
		if !errors.Is(err, models.ErrEmailTaken) && !errors.Is(err, models.ErrNicknameTaken) {
			s.logger.Error("Failed to create account via repository", append(logFields, zap.Error(err))...)
		}
		return nil, err
	}

	s.logger.Info("Account registered successfully", append(logFields, zap.Int64("accountID", account.ID))...)
	return account, nil
}

// Login authenticates an account by email and returns token details.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*models.TokenDetails, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.logger.Info("Login attempt", zap.String("email", email))

	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			s.logger.Warn("Login failed: account not found", zap.String("email", email))
			return nil, models.ErrInvalidCredentials
		}
		s.logger.Error("Login failed: error getting account from repository", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if !checkPasswordHash(password, account.PasswordHash, s.cfg.PasswordPepper) {
		s.logger.Warn("Login failed: invalid password", zap.String("email", email), zap.Int64("accountID", account.ID))
		return nil, models.ErrInvalidCredentials
	}

	td, err := s.createTokens(account.ID)
	if err != nil {
		s.logger.Error("Failed to create tokens during login", zap.Error(err), zap.Int64("accountID", account.ID))
		return nil, fmt.Errorf("failed to create tokens: %w", err)
	}

	if err := s.tokenRepo.SetToken(ctx, account.ID, td); err != nil {
		s.logger.Error("Failed to save token details during login", zap.Error(err), zap.Int64("accountID", account.ID))
		return nil, fmt.Errorf("failed to save token details: %w", err)
	}

	s.logger.Info("Account logged in successfully", zap.Int64("accountID", account.ID))
	return td, nil
}

// Logout removes the access and refresh tokens from the store.
func (s *authServiceImpl) Logout(ctx context.Context, accessUUID, refreshUUID string) error {
	log := s.logger.With(zap.String("accessUUID", accessUUID), zap.String("refreshUUID", refreshUUID))
	log.Debug("Attempting to logout account by deleting tokens")

	deletedCount, err := s.tokenRepo.DeleteTokens(ctx, accessUUID, refreshUUID)
	if err != nil {
		// Tokens may already have expired; log and report success anyway.
		log.Error("Failed to delete tokens during logout", zap.Error(err))
	}

	if deletedCount > 0 {
		log.Info("Tokens deleted successfully during logout", zap.Int64("deletedCount", deletedCount))
	} else {
		log.Info("No tokens found to delete during logout (already expired or logged out)")
	}
	return nil
}

// Refresh issues new access and refresh tokens based on a valid refresh token.
func (s *authServiceImpl) Refresh(ctx context.Context, refreshTokenString string) (*models.TokenDetails, error) {
	s.logger.Info("Token refresh attempt")

	claims, err := s.parseToken(refreshTokenString)
	if err != nil {
		return nil, err
	}

	refreshUUID := claims.ID
	s.logger.Debug("Refresh token parsed successfully", zap.Int64("accountID", claims.AccountID), zap.String("refreshUUID", refreshUUID))

	accountID, err := s.tokenRepo.GetAccountIDByRefreshUUID(ctx, refreshUUID)
	if err != nil {
		if errors.Is(err, models.ErrTokenNotFound) {
			s.logger.Warn("Refresh attempt with revoked token", zap.String("refreshUUID", refreshUUID))
			return nil, models.ErrTokenNotFound
		}
		s.logger.Error("Error checking refresh token existence", zap.Error(err), zap.String("refreshUUID", refreshUUID))
		return nil, fmt.Errorf("error checking refresh token existence: %w", err)
	}

	if accountID != claims.AccountID {
		s.logger.Error("Refresh token account ID mismatch",
			zap.Int64("tokenAccountID", claims.AccountID),
			zap.Int64("storeAccountID", accountID),
			zap.String("refreshUUID", refreshUUID),
		)
		return nil, models.ErrTokenInvalid
	}

	newTd, err := s.createTokens(claims.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to create new tokens during refresh: %w", err)
	}

	if _, delErr := s.tokenRepo.DeleteTokens(ctx, refreshUUID); delErr != nil {
		s.logger.Error("Non-critical: failed to delete old refresh token during refresh", zap.Error(delErr), zap.String("refreshUUID", refreshUUID))
	}

	if err := s.tokenRepo.SetToken(ctx, claims.AccountID, newTd); err != nil {
		s.logger.Error("Failed to save new token details during refresh", zap.Error(err), zap.Int64("accountID", claims.AccountID))
		return nil, fmt.Errorf("failed to save new token details: %w", err)
	}

	s.logger.Info("Token refreshed successfully", zap.Int64("accountID", claims.AccountID))
	return newTd, nil
}

// VerifyAccessToken parses and validates an access token string.
func (s *authServiceImpl) VerifyAccessToken(ctx context.Context, tokenString string) (*models.Claims, error) {
	s.logger.Debug("Verifying access token")

	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}

	accessUUID := claims.ID
	if _, err := s.tokenRepo.GetAccountIDByAccessUUID(ctx, accessUUID); err != nil {
		if errors.Is(err, models.ErrTokenNotFound) {
			s.logger.Debug("Access token not found in store (revoked/logged out)", zap.String("accessUUID", accessUUID))
			return nil, models.ErrTokenInvalid
		}
		s.logger.Error("Error checking access token existence", zap.Error(err), zap.String("accessUUID", accessUUID))
		return nil, fmt.Errorf("error checking access token existence: %w", err)
	}

	s.logger.Debug("Access token verified successfully", zap.Int64("accountID", claims.AccountID), zap.String("accessUUID", accessUUID))
	return claims, nil
}

// ParseToken validates the token signature and expiry without consulting the
// token store.
func (s *authServiceImpl) ParseToken(tokenString string) (*models.Claims, error) {
	return s.parseToken(tokenString)
}

func (s *authServiceImpl) parseToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.logger.Debug("Token verification failed: expired")
			return nil, models.ErrTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenMalformed) {
			s.logger.Warn("Token verification failed: malformed")
			return nil, models.ErrTokenMalformed
		}
		s.logger.Error("Failed to parse token", zap.Error(err))
		return nil, models.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid {
		s.logger.Warn("Token verification failed (invalid claims type or signature)")
		return nil, models.ErrTokenInvalid
	}
	return claims, nil
}

// createTokens generates a new access and refresh token pair for an account.
func (s *authServiceImpl) createTokens(accountID int64) (*models.TokenDetails, error) {
	s.logger.Debug("Creating new token pair", zap.Int64("accountID", accountID))

	now := time.Now()
	td := &models.TokenDetails{
		AccessUUID:  uuid.NewString(),
		RefreshUUID: uuid.NewString(),
		AtExpires:   now.Add(s.cfg.AccessTokenTTL).Unix(),
		RtExpires:   now.Add(s.cfg.RefreshTokenTTL).Unix(),
	}

	var err error
	td.AccessToken, err = s.signToken(accountID, td.AccessUUID, td.AtExpires, now)
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err), zap.Int64("accountID", accountID))
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	td.RefreshToken, err = s.signToken(accountID, td.RefreshUUID, td.RtExpires, now)
	if err != nil {
		s.logger.Error("Failed to sign refresh token", zap.Error(err), zap.Int64("accountID", accountID))
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return td, nil
}

func (s *authServiceImpl) signToken(accountID int64, jti string, expires int64, now time.Time) (string, error) {
	claims := &models.Claims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(time.Unix(expires, 0)),
			Subject:   strconv.FormatInt(accountID, 10),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
