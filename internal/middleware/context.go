package middleware

import (
	"context"

	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/models"
)

type contextKey string

const (
	ContextKeyIdentity = contextKey("identity")
	ContextKeyRawToken = contextKey("rawToken")
)

func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, identity)
}

// IdentityFromContext returns the identity attached by AuthMiddleware.
func IdentityFromContext(ctx context.Context) (*models.Identity, bool) {
	identity, ok := ctx.Value(ContextKeyIdentity).(*models.Identity)
	return identity, ok && identity != nil
}

func withRawToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ContextKeyRawToken, token)
}

// RawTokenFromContext returns the unverified bearer token stored by PresenceMiddleware.
func RawTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(ContextKeyRawToken).(string)
	return token, ok && token != ""
}
