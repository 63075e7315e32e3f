package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/app"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/config"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/controllers"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/middleware"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/models"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/repositories"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/routes"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/services"
	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/utils"
)

const (
	cleanupJobTimeout = 5 * time.Minute
	shutdownTimeout   = 15 * time.Second
)

func main() {
	utils.InitLogger(config.Name())
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize application:", err)
	}
	defer application.Close()

	//----------------------------------------------------------------------
	// Repositories
	//----------------------------------------------------------------------
	userRepo := repositories.NewUserRepository(application.DB)
	tokenRepo := repositories.NewTokenRepository(application.DB)

	//----------------------------------------------------------------------
	// Services
	//----------------------------------------------------------------------
	verifier := middleware.NewVerifier(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.JWTIssuer, utils.Logger)

	var mailer services.Mailer
	if cfg.SendGridAPIKey != "" {
		mailer = services.NewSendGridMailer(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.LDFlag_SendgridSandboxMode, utils.Logger)
	} else {
		mailer = services.NewLogMailer(utils.Logger)
	}

	jwtService := services.NewJWTService(cfg)
	tokenService := services.NewTokenService(tokenRepo, utils.Logger)
	tokenCleanupService := services.NewTokenCleanupService(tokenRepo, utils.Logger)
	passwordResetService := services.NewPasswordResetService(userRepo, tokenService, mailer, cfg.ResetPasswordURL, utils.Logger)
	authService := services.NewAuthService(userRepo, tokenService, jwtService, verifier, cfg.RefreshGrace, utils.Logger)

	//----------------------------------------------------------------------
	// Controllers
	//----------------------------------------------------------------------
	healthController := controllers.NewHealthController(application)
	authController := controllers.NewAuthController(authService)
	passwordController := controllers.NewPasswordController(passwordResetService, cfg.TrustedProxies)
	adminController := controllers.NewAdminController(tokenCleanupService, passwordResetService, cfg.TrustedProxies)

	//----------------------------------------------------------------------
	// Router
	//----------------------------------------------------------------------
	router := mux.NewRouter()

	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods("GET")

	// Public
	router.HandleFunc(routes.AuthLogin, authController.Login).Methods("POST")
	router.HandleFunc(routes.PasswordForgot, passwordController.ForgotPassword).Methods("POST")
	router.HandleFunc(routes.PasswordReset, passwordController.ResetPassword).Methods("POST")

	// Presence only; the refresh handler verifies the token itself
	router.Handle(
		routes.AuthRefresh,
		middleware.PresenceMiddleware(utils.Logger)(http.HandlerFunc(authController.Refresh)),
	).Methods("POST")

	// Protected
	protected := router.PathPrefix(routes.AuthBase).Subrouter()
	protected.Use(middleware.AuthMiddleware(verifier))
	protected.HandleFunc("/me", authController.Me).Methods("GET")
	protected.HandleFunc("/logout", authController.Logout).Methods("POST")

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	admin.HandleFunc("/tokens/cleanup", adminController.CleanupTokens).Methods("POST")
	admin.HandleFunc("/users/{id}/password-reset", adminController.SendPasswordReset).Methods("POST")

	//----------------------------------------------------------------------
	// Expired token cleanup via cron
	//----------------------------------------------------------------------
	c := cron.New()
	_, schErr := c.AddFunc(cfg.TokenCleanupSchedule, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), cleanupJobTimeout)
		defer cancel()
		if _, e := tokenCleanupService.CleanupExpired(jobCtx); e != nil {
			utils.Logger.WithError(e).Error("Scheduled token cleanup failed")
		}
	})
	if schErr != nil {
		utils.Logger.WithError(schErr).Fatal("Failed to schedule token cleanup job")
	}
	c.Start()

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           co.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Logger.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	utils.Logger.Info("Shutdown signal received")

	<-c.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.Logger.WithError(err).Error("Graceful shutdown failed")
	}
}
