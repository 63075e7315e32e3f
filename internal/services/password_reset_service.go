package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/models"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/repositories"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/utils"
)

// ErrInvalidResetToken covers unknown, expired, already used and wrong-type tokens alike.
var ErrInvalidResetToken = errors.New("invalid or expired reset token")

type PasswordResetService interface {
	// RequestReset issues a reset token and mails it. Unknown emails succeed silently.
	RequestReset(ctx context.Context, email, requestIP string) error

	// RequestResetForUser is the admin-initiated variant. Unknown users are a 404 AppError.
	RequestResetForUser(ctx context.Context, userID uuid.UUID, requestIP string) error

	// ResetPassword consumes token and sets newPassword on its owner.
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type passwordResetService struct {
	userRepo repositories.UserRepository
	tokens   TokenService
	mailer   Mailer
	resetURL string
	logger   logrus.FieldLogger
}

func NewPasswordResetService(
	userRepo repositories.UserRepository,
	tokens TokenService,
	mailer Mailer,
	resetURL string,
	logger logrus.FieldLogger,
) PasswordResetService {
	return &passwordResetService{
		userRepo: userRepo,
		tokens:   tokens,
		mailer:   mailer,
		resetURL: resetURL,
		logger:   logger,
	}
}

func (s *passwordResetService) RequestReset(ctx context.Context, email, requestIP string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("lookup user for reset: %w", err)
	}
	if user == nil {
		s.logger.WithField("ip", requestIP).Info("Password reset requested for unknown email")
		return nil
	}

	return s.issueAndSend(ctx, user, requestIP)
}

func (s *passwordResetService) RequestResetForUser(ctx context.Context, userID uuid.UUID, requestIP string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("lookup user for reset: %w", err)
	}
	if user == nil {
		return &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "User not found",
			Err:        repositories.ErrUserNotFound,
		}
	}
	return s.issueAndSend(ctx, user, requestIP)
}

func (s *passwordResetService) issueAndSend(ctx context.Context, user *models.User, requestIP string) error {
	token, err := s.tokens.GeneratePasswordResetToken(ctx, user.ID, requestIP)
	if err != nil {
		return err
	}
	return s.mailer.SendPasswordReset(ctx, user.Email, s.resetLink(token))
}

func (s *passwordResetService) resetLink(token string) string {
	sep := "?"
	if strings.Contains(s.resetURL, "?") {
		sep = "&"
	}
	return s.resetURL + sep + "token=" + url.QueryEscape(token)
}

func (s *passwordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if !utils.PasswordFitsBcrypt(newPassword) {
		return &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeValidation,
			Message:    "Password must be at most 72 bytes",
			Err:        utils.ErrPasswordTooLong,
		}
	}

	t, err := s.tokens.FindByToken(ctx, token)
	if err != nil {
		return err
	}
	if t == nil || t.Type != models.TokenTypeResetPassword {
		return ErrInvalidResetToken
	}

	if t.IsExpired() {
		if _, err := s.tokens.DeleteToken(ctx, t.ID); err != nil {
			s.logger.WithError(err).WithField("token_id", t.ID).Warn("Failed to delete expired reset token")
		}
		return ErrInvalidResetToken
	}

	// Hash before consuming: a failure here must leave the link usable.
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	// Deleting first makes the token single use even under concurrent submissions.
	consumed, err := s.tokens.DeleteToken(ctx, t.ID)
	if err != nil {
		return err
	}
	if consumed == nil {
		return ErrInvalidResetToken
	}

	if err := s.userRepo.UpdatePassword(ctx, consumed.OwnedByID, hash); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("update password: %w", err)
	}

	s.logger.WithField("user_id", consumed.OwnedByID).Info("Password reset completed")
	return nil
}
