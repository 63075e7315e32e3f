package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/dtos"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/middleware"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/services"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/utils"
)

type AdminController struct {
	cleanupService services.TokenCleanupService
	resetService   services.PasswordResetService
	proxies        utils.TrustedProxies
}

func NewAdminController(
	cleanupService services.TokenCleanupService,
	resetService services.PasswordResetService,
	proxies utils.TrustedProxies,
) *AdminController {
	return &AdminController{cleanupService: cleanupService, resetService: resetService, proxies: proxies}
}

// CleanupTokens runs the expired token cleanup immediately.
func (c *AdminController) CleanupTokens(w http.ResponseWriter, r *http.Request) {
	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		utils.Logger.WithField("admin_id", identity.UserID).Info("Manual token cleanup requested")
	}

	deleted, err := c.cleanupService.CleanupExpired(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithEnvelope(w, http.StatusOK, "Token cleanup completed", dtos.TokenCleanupResponse{Deleted: deleted})
}

// SendPasswordReset mails a reset link to the user named in the path.
// Unlike the public forgot-password route, failures are reported.
func (c *AdminController) SendPasswordReset(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid user id", nil, err)
		return
	}

	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		utils.Logger.WithFields(logrus.Fields{
			"admin_id": identity.UserID,
			"user_id":  userID,
		}).Info("Admin requested password reset")
	}

	if err := c.resetService.RequestResetForUser(r.Context(), userID, c.proxies.ClientIP(r)); err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithEnvelope(w, http.StatusOK, "Password reset email sent", nil)
}
