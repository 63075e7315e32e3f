package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/models"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/repositories"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/utils"
)

// PasswordResetTokenTTL is how long a reset token stays usable after issuance.
const PasswordResetTokenTTL = 2 * time.Hour

// TokenService manages opaque tokens. Lookups of unknown tokens return (nil, nil).
type TokenService interface {
	FindByToken(ctx context.Context, token string) (*models.Token, error)
	DeleteToken(ctx context.Context, id uuid.UUID) (*models.Token, error)

	// GeneratePasswordResetToken revokes the user's previous reset tokens and issues a new one.
	// The raw value is returned for delivery; callers must not log it.
	GeneratePasswordResetToken(ctx context.Context, userID uuid.UUID, requestIP string) (string, error)

	DeleteTokensOfType(ctx context.Context, userID uuid.UUID, tokenType string) (int64, error)
}

type tokenService struct {
	tokenRepo repositories.TokenRepository
	logger    logrus.FieldLogger
	now       func() time.Time
}

func NewTokenService(tokenRepo repositories.TokenRepository, logger logrus.FieldLogger) TokenService {
	return &tokenService{
		tokenRepo: tokenRepo,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *tokenService) FindByToken(ctx context.Context, token string) (*models.Token, error) {
	t, err := s.tokenRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	return t, nil
}

func (s *tokenService) DeleteToken(ctx context.Context, id uuid.UUID) (*models.Token, error) {
	t, err := s.tokenRepo.DeleteByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete token %s: %w", id, err)
	}
	return t, nil
}

func (s *tokenService) GeneratePasswordResetToken(ctx context.Context, userID uuid.UUID, requestIP string) (string, error) {
	token := &models.Token{
		ID:         uuid.New(),
		OwnedByID:  userID,
		Token:      uuid.NewString(),
		Type:       models.TokenTypeResetPassword,
		Scopes:     models.ScopeReset,
		DeviceName: models.DeviceNamePasswordReset,
		DeviceIP:   requestIP,
		ExpiresAt:  s.now().Add(PasswordResetTokenTTL),
	}

	if err := s.tokenRepo.ReplaceOwnerToken(ctx, token); err != nil {
		if errors.Is(err, repositories.ErrTokenConflict) {
			return "", &utils.AppError{
				StatusCode: http.StatusConflict,
				Code:       utils.ErrCodeConflict,
				Message:    "A reset token could not be issued, please retry",
				Err:        err,
			}
		}
		return "", fmt.Errorf("store reset token: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"expires_at": token.ExpiresAt,
	}).Info("Issued password reset token")
	return token.Token, nil
}

func (s *tokenService) DeleteTokensOfType(ctx context.Context, userID uuid.UUID, tokenType string) (int64, error) {
	n, err := s.tokenRepo.DeleteByOwnerAndType(ctx, userID, tokenType)
	if err != nil {
		return 0, fmt.Errorf("revoke %s tokens: %w", tokenType, err)
	}
	return n, nil
}
