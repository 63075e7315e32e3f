package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/dtos"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/middleware"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/services"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/utils"
)

type AuthController struct {
	authService services.AuthService
}

func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

func accessTokenResponse(res *services.AuthResult) dtos.AccessTokenResponse {
	return dtos.AccessTokenResponse{
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   res.ExpiresAt.Unix(),
		ExpiresIn:   int64(time.Until(res.ExpiresAt).Seconds()),
	}
}

// Login handles POST /auth/v1/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := c.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeInvalidCredentials, "Invalid email or password", nil)
			return
		}
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithEnvelope(w, http.StatusOK, "Login successful", accessTokenResponse(res))
}

// Refresh handles POST /auth/v1/refresh. The bearer token was only checked for presence.
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	raw, ok := middleware.RawTokenFromContext(r.Context())
	if !ok {
		utils.RespondUnauthorized(w)
		return
	}

	res, err := c.authService.Refresh(r.Context(), raw)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.RespondUnauthorized(w)
			return
		}
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithEnvelope(w, http.StatusOK, "Token refreshed", accessTokenResponse(res))
}

// Me handles GET /auth/v1/me
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utils.RespondUnauthorized(w)
		return
	}

	utils.RespondWithEnvelope(w, http.StatusOK, "OK", dtos.MeResponse{
		UserID: identity.UserID,
		Email:  identity.Email,
		Roles:  identity.Roles,
	})
}

// Logout handles POST /auth/v1/logout
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utils.RespondUnauthorized(w)
		return
	}

	revoked, err := c.authService.Logout(r.Context(), identity)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithEnvelope(w, http.StatusOK, "Logged out", dtos.LogoutResponse{RevokedTokens: revoked})
}
