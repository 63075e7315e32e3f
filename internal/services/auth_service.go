package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/middleware"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/models"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/repositories"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/utils"
)

// ErrInvalidCredentials is returned for every failed login or refresh, whatever the cause.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthResult is an issued access token and the account it belongs to.
type AuthResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *models.User
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, rawToken string) (*AuthResult, error)

	// Logout revokes the caller's outstanding reset tokens. Access tokens are stateless
	// and simply expire.
	Logout(ctx context.Context, identity *models.Identity) (int64, error)
}

type authService struct {
	userRepo     repositories.UserRepository
	tokens       TokenService
	jwtService   JWTService
	verifier     *middleware.Verifier
	refreshGrace time.Duration
	logger       logrus.FieldLogger
}

func NewAuthService(
	userRepo repositories.UserRepository,
	tokens TokenService,
	jwtService JWTService,
	verifier *middleware.Verifier,
	refreshGrace time.Duration,
	logger logrus.FieldLogger,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		tokens:       tokens,
		jwtService:   jwtService,
		verifier:     verifier,
		refreshGrace: refreshGrace,
		logger:       logger,
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// burnPasswordCheck spends the same bcrypt work as a real check so unknown
// emails are not distinguishable by response time.
func burnPasswordCheck(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = utils.HashPassword(uuid.NewString())
	})
	utils.CheckPasswordHash(password, dummyHash)
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		burnPasswordCheck(password)
		s.logger.Info("Login failed: unknown email")
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.logger.WithField("user_id", user.ID).Info("Login failed: wrong password")
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *authService) Refresh(ctx context.Context, rawToken string) (*AuthResult, error) {
	identity, err := s.verifier.VerifyAllowExpired(rawToken, s.refreshGrace)
	if err != nil {
		s.logger.WithError(err).Info("Refresh rejected")
		return nil, ErrInvalidCredentials
	}

	userID, err := uuid.Parse(identity.UserID)
	if err != nil {
		s.logger.WithField("sub", identity.UserID).Info("Refresh rejected: subject is not a user id")
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		s.logger.WithField("user_id", userID).Info("Refresh rejected: user no longer exists")
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *authService) issue(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("user_id", user.ID).Info("Access token issued")
	return &AuthResult{AccessToken: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) Logout(ctx context.Context, identity *models.Identity) (int64, error) {
	userID, err := uuid.Parse(identity.UserID)
	if err != nil {
		// Tokens from other issuers may carry non-uuid subjects; there is nothing of theirs to revoke.
		return 0, nil
	}

	revoked, err := s.tokens.DeleteTokensOfType(ctx, userID, models.TokenTypeResetPassword)
	if err != nil {
		return 0, err
	}
	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"revoked": revoked,
	}).Info("User logged out")
	return revoked, nil
}
