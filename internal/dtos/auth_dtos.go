package dtos

import "github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/models"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,bcrypt_max"`
}

// AccessTokenResponse is the data part of a successful login or refresh.
type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresAt   int64  `json:"expiresAt"`
	ExpiresIn   int64  `json:"expiresIn"`
}

type MeResponse struct {
	UserID string        `json:"userId"`
	Email  string        `json:"email,omitempty"`
	Roles  []models.Role `json:"roles"`
}

type LogoutResponse struct {
	RevokedTokens int64 `json:"revokedTokens"`
}
