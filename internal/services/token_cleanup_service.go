package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/repositories"
)

// expiredTokenRetentionMonths is how long an expired token is kept before cleanup removes it.
const expiredTokenRetentionMonths = 3

// TokenCleanupService removes tokens that expired long ago. Running it again is harmless.
type TokenCleanupService interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

type tokenCleanupService struct {
	tokenRepo repositories.TokenRepository
	logger    logrus.FieldLogger
	now       func() time.Time
}

func NewTokenCleanupService(tokenRepo repositories.TokenRepository, logger logrus.FieldLogger) TokenCleanupService {
	return &tokenCleanupService{
		tokenRepo: tokenRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// CleanupExpired deletes tokens whose expiresAt is strictly before now minus three months.
func (s *tokenCleanupService) CleanupExpired(ctx context.Context) (int64, error) {
	cutoff := s.now().AddDate(0, -expiredTokenRetentionMonths, 0)

	deleted, err := s.tokenRepo.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		s.logger.WithError(err).WithField("cutoff", cutoff).Error("Failed to cleanup expired tokens")
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"cutoff":  cutoff,
		"deleted": deleted,
	}).Info("Expired token cleanup completed successfully.")
	return deleted, nil
}
