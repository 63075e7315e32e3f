package controllers

import (
	"errors"
	"net/http"

	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/dtos"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/services"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/utils"
)

const forgotPasswordMessage = "If an account exists for this email, a reset link has been sent"

type PasswordController struct {
	resetService services.PasswordResetService
	proxies      utils.TrustedProxies
}

func NewPasswordController(resetService services.PasswordResetService, proxies utils.TrustedProxies) *PasswordController {
	return &PasswordController{resetService: resetService, proxies: proxies}
}

// ForgotPassword always answers 200 once the payload is valid, so callers cannot
// discover which emails have accounts.
func (c *PasswordController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dtos.ForgotPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := c.resetService.RequestReset(r.Context(), req.Email, c.proxies.ClientIP(r)); err != nil {
		utils.Logger.WithError(err).Error("Password reset request failed")
	}

	utils.RespondWithEnvelope(w, http.StatusOK, forgotPasswordMessage, nil)
}

func (c *PasswordController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dtos.ResetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := c.resetService.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidResetToken) {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidResetToken, "Reset link is invalid or has expired", nil)
			return
		}
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithEnvelope(w, http.StatusOK, "Password updated", nil)
}
