package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-link-keeper/internal/config"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/utils"
	"github.com/MKhiriev/go-link-keeper/models"
)

const defaultTokenDuration = 24 * time.Hour

// authService issues and verifies the bearer tokens of the remote store.
// Account management belongs to the authentication collaborator; the store
// only needs to know who is calling.
type authService struct {
	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	tokenIssuer string

	tokenDuration time.Duration

	logger *logger.Logger
}

func NewAuthService(cfg config.App, logger *logger.Logger) (AuthService, error) {
	if cfg.TokenSignKey == "" || cfg.TokenIssuer == "" {
		return nil, ErrInvalidTokenSettings
	}

	duration := cfg.TokenDuration
	if duration <= 0 {
		duration = defaultTokenDuration
	}

	return &authService{
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: duration,
		logger:        logger,
	}, nil
}

// CreateToken issues a signed JWT whose subject is userID.
func (a *authService) CreateToken(ctx context.Context, userID string) (models.Token, error) {
	if userID == "" {
		return models.Token{}, ErrEmptyUserID
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, userID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken verifies signature, issuer and expiry. Every failure is reported
// as ErrTokenIsExpired so callers never branch on JWT internals.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Msg("token rejected")
		return models.Token{}, ErrTokenIsExpired
	}

	return token, nil
}
