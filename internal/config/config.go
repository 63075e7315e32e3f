package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	ld "github.com/launchdarkly/go-server-sdk/v7"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	cron "github.com/robfig/cron/v3"

	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/utils"
)

// Config holds all application configuration. It is built once in main and
// passed down explicitly; nothing reads the environment after startup.
type Config struct {
	AppName string
	AppPort string
	AppUrl  string
	DBUrl   string

	JWTSecret      []byte
	JWTAlgorithm   string
	JWTIssuer      string
	AccessTokenTTL time.Duration
	RefreshGrace   time.Duration

	TokenCleanupSchedule string

	// Peers whose X-Forwarded-For / X-Real-IP headers are believed. Empty trusts none.
	TrustedProxies utils.TrustedProxies

	SendGridAPIKey    string
	SendGridFromEmail string
	ResetPasswordURL  string

	LDSDKKey string

	// Static flags fetched once from LaunchDarkly (or env when LD is not configured)
	LDFlag_SendgridSandboxMode bool
	LDFlag_CORSHighSecurity    bool
}

const (
	DefaultAppName              = "auth-service"
	DefaultJWTAlgorithm         = "HS256"
	DefaultAccessTokenTTL       = 15 * time.Minute
	DefaultRefreshGrace         = 7 * 24 * time.Hour
	DefaultTokenCleanupSchedule = "15 3 * * *"
	DefaultLDContextKind        = "service"
	MinJWTSecretLength          = 32
	LDConnectionTimeout         = 5 * time.Second
)

// AppName may be overridden with ldflags at build time.
var AppName string

var supportedAlgorithms = map[string]bool{"HS256": true, "HS384": true, "HS512": true}

// Name is the application name used for logging before the full config is loaded.
func Name() string {
	return firstNonEmpty(AppName, os.Getenv("APP_NAME"), DefaultAppName)
}

// LoadConfig reads the environment, fetches LaunchDarkly flags when configured,
// and exits the process on any configuration error.
func LoadConfig() *Config {
	cfg, err := FromEnv()
	if err != nil {
		utils.Logger.WithError(err).Fatal("Invalid configuration")
	}

	if cfg.LDSDKKey != "" {
		if err := loadStaticFlags(cfg); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to load LaunchDarkly flags")
		}
	}

	utils.Logger.Infof("Loaded config for app: %s", cfg.AppName)
	return cfg
}

// FromEnv builds a Config from environment variables without touching LaunchDarkly.
func FromEnv() (*Config, error) {
	var errs []error

	cfg := &Config{
		AppName:           Name(),
		AppPort:           os.Getenv("APP_PORT"),
		AppUrl:            os.Getenv("APP_URL"),
		DBUrl:             os.Getenv("DB_URL"),
		JWTAlgorithm:      strings.ToUpper(firstNonEmpty(os.Getenv("JWT_ALGORITHM"), DefaultJWTAlgorithm)),
		SendGridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		SendGridFromEmail: os.Getenv("SENDGRID_FROM_EMAIL"),
		ResetPasswordURL:  os.Getenv("RESET_PASSWORD_URL"),
		LDSDKKey:          os.Getenv("LD_SDK_KEY"),
	}
	cfg.JWTIssuer = firstNonEmpty(os.Getenv("JWT_ISSUER"), cfg.AppName)
	cfg.TokenCleanupSchedule = firstNonEmpty(os.Getenv("TOKEN_CLEANUP_SCHEDULE"), DefaultTokenCleanupSchedule)

	if cfg.AppPort == "" {
		errs = append(errs, errors.New("APP_PORT env var is missing"))
	}
	if cfg.DBUrl == "" {
		errs = append(errs, errors.New("DB_URL env var is missing"))
	}

	secret := os.Getenv("JWT_SECRET")
	switch {
	case secret == "":
		errs = append(errs, errors.New("JWT_SECRET env var is missing"))
	case len(secret) < MinJWTSecretLength:
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", MinJWTSecretLength))
	default:
		cfg.JWTSecret = []byte(secret)
	}

	if !supportedAlgorithms[cfg.JWTAlgorithm] {
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q is not supported", cfg.JWTAlgorithm))
	}

	var err error
	if cfg.AccessTokenTTL, err = durationEnv("JWT_ACCESS_TTL", DefaultAccessTokenTTL); err != nil {
		errs = append(errs, err)
	}
	if cfg.RefreshGrace, err = durationEnv("JWT_REFRESH_GRACE", DefaultRefreshGrace); err != nil {
		errs = append(errs, err)
	}
	if cfg.LDFlag_SendgridSandboxMode, err = boolEnv("SENDGRID_SANDBOX_MODE", false); err != nil {
		errs = append(errs, err)
	}
	if cfg.LDFlag_CORSHighSecurity, err = boolEnv("CORS_HIGH_SECURITY", true); err != nil {
		errs = append(errs, err)
	}

	if cfg.TrustedProxies, err = utils.ParseTrustedProxies(os.Getenv("TRUSTED_PROXIES")); err != nil {
		errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: %w", err))
	}

	if _, err := cron.ParseStandard(cfg.TokenCleanupSchedule); err != nil {
		errs = append(errs, fmt.Errorf("TOKEN_CLEANUP_SCHEDULE %q: %w", cfg.TokenCleanupSchedule, err))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// loadStaticFlags overrides env-derived flags with LaunchDarkly values.
func loadStaticFlags(cfg *Config) error {
	ldClient, err := ld.MakeClient(cfg.LDSDKKey, LDConnectionTimeout)
	if err != nil {
		return fmt.Errorf("%w: create LaunchDarkly client: %v", utils.ErrExternalServiceFailure, err)
	}
	defer ldClient.Close()

	if !ldClient.Initialized() {
		return fmt.Errorf("%w: LaunchDarkly client failed to initialize", utils.ErrExternalServiceFailure)
	}

	kind := firstNonEmpty(os.Getenv("LD_CONTEXT_KIND"), DefaultLDContextKind)
	context := ldcontext.NewWithKind(ldcontext.Kind(kind), cfg.AppName)

	sandbox, err := ldClient.BoolVariation("sendgrid_sandbox_mode", context, cfg.LDFlag_SendgridSandboxMode)
	if err != nil {
		return fmt.Errorf("sendgrid_sandbox_mode flag: %w", err)
	}
	utils.Logger.Debugf("sendgrid_sandbox_mode flag: %t", sandbox)

	corsHigh, err := ldClient.BoolVariation("cors_high_security", context, cfg.LDFlag_CORSHighSecurity)
	if err != nil {
		return fmt.Errorf("cors_high_security flag: %w", err)
	}
	utils.Logger.Debugf("cors_high_security flag: %t", corsHigh)

	cfg.LDFlag_SendgridSandboxMode = sandbox
	cfg.LDFlag_CORSHighSecurity = corsHigh
	return nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

func boolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
