package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/models"
)

var (
	// ErrMissingCredential means no Authorization header was sent.
	ErrMissingCredential = errors.New("missing credential")

	// ErrInvalidCredential covers malformed headers and every verification failure.
	ErrInvalidCredential = errors.New("invalid credential")
)

// AccessClaims is the payload of an access token. Roles may arrive as a list or as a
// JSON document encoded in a string; models.RawRoles keeps both shapes.
type AccessClaims struct {
	jwt.RegisteredClaims
	Email string          `json:"email,omitempty"`
	Roles models.RawRoles `json:"roles"`
}

// Verifier checks bearer credentials against the process signing secret.
// It holds no mutable state and is safe for concurrent use.
type Verifier struct {
	secret    []byte
	algorithm string
	issuer    string
	logger    logrus.FieldLogger
}

// NewVerifier accepts tokens signed with algorithm (an HMAC method name) and secret.
// An empty issuer disables the iss check.
func NewVerifier(secret []byte, algorithm, issuer string, logger logrus.FieldLogger) *Verifier {
	return &Verifier{
		secret:    secret,
		algorithm: algorithm,
		issuer:    issuer,
		logger:    logger,
	}
}

// ExtractBearer returns the token from an `Authorization: Bearer <token>` header value.
func ExtractBearer(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", ErrMissingCredential
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", fmt.Errorf("%w: expected Bearer scheme", ErrInvalidCredential)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: empty bearer token", ErrInvalidCredential)
	}
	return token, nil
}

// VerifyHeader extracts and verifies the bearer token in an Authorization header value.
func (v *Verifier) VerifyHeader(header string) (*models.Identity, error) {
	token, err := ExtractBearer(header)
	if err != nil {
		return nil, err
	}
	return v.Verify(token)
}

// Verify checks signature, algorithm, expiry and issuer, then normalizes the claims.
func (v *Verifier) Verify(tokenString string) (*models.Identity, error) {
	claims, err := v.parse(tokenString)
	if err != nil {
		return nil, err
	}
	return v.identity(claims), nil
}

// VerifyAllowExpired is Verify with expiry tolerated up to grace past exp.
// The signature and issuer are still enforced.
func (v *Verifier) VerifyAllowExpired(tokenString string, grace time.Duration) (*models.Identity, error) {
	claims, err := v.parse(tokenString, jwt.WithLeeway(grace))
	if err != nil {
		return nil, err
	}
	return v.identity(claims), nil
}

func (v *Verifier) parse(tokenString string, extra ...jwt.ParserOption) (*AccessClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{v.algorithm}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	opts = append(opts, extra...)

	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: token not valid", ErrInvalidCredential)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidCredential)
	}
	return claims, nil
}

// identity resolves the roles claim. A malformed claim degrades to no roles.
func (v *Verifier) identity(claims *AccessClaims) *models.Identity {
	roles, err := claims.Roles.Resolve()
	if err != nil {
		v.logger.WithError(err).WithFields(logrus.Fields{
			"sub":        claims.Subject,
			"roles_kind": claims.Roles.Kind.String(),
		}).Warn("Could not decode roles claim; continuing with no roles")
		roles = []models.Role{}
	}
	for _, r := range roles {
		if !r.IsValid() {
			v.logger.WithFields(logrus.Fields{
				"sub":  claims.Subject,
				"role": string(r),
			}).Warn("Token carries an unknown role tag")
		}
	}

	return &models.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Roles:  roles,
	}
}
