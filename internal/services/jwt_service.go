package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/config"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/middleware"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/models"
)

var errUnsupportedSigningMethod = errors.New("unsupported signing method")

// JWTService signs access tokens in the shape middleware.Verifier accepts.
type JWTService interface {
	GenerateAccessToken(user *models.User) (token string, expiresAt time.Time, err error)
}

type jwtService struct {
	secret []byte
	method jwt.SigningMethod
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTService(cfg *config.Config) JWTService {
	return &jwtService{
		secret: cfg.JWTSecret,
		method: jwt.GetSigningMethod(cfg.JWTAlgorithm),
		issuer: cfg.JWTIssuer,
		ttl:    cfg.AccessTokenTTL,
		now:    time.Now,
	}
}

func (j *jwtService) GenerateAccessToken(user *models.User) (string, time.Time, error) {
	if j.method == nil {
		return "", time.Time{}, errUnsupportedSigningMethod
	}

	now := j.now()
	expiresAt := now.Add(j.ttl)
	roles := user.Roles
	if roles == nil {
		roles = []models.Role{}
	}

	claims := middleware.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
		Email: user.Email,
		Roles: models.RolesFromList(roles),
	}

	signed, err := jwt.NewWithClaims(j.method, claims).SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, expiresAt, nil
}
