package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TokenTypeResetPassword = "reset_password"

	ScopeReset = "reset"

	// DeviceNamePasswordReset labels reset tokens; they are not bound to a real device.
	DeviceNamePasswordReset = "password-reset"
)

// Token is an opaque credential row. Field names match the persisted schema.
type Token struct {
	ID         uuid.UUID `json:"id"`
	OwnedByID  uuid.UUID `json:"ownedById"`
	Token      string    `json:"token"`
	Type       string    `json:"type"`
	Scopes     string    `json:"scopes"`
	DeviceName string    `json:"deviceName"`
	DeviceIP   string    `json:"deviceIp"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

func (t *Token) IsExpired() bool {
	return t.IsExpiredAt(time.Now())
}

func (t *Token) IsExpiredAt(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
