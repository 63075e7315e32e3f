package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/models"
)

const unauthorizedBody = `{"message":"Unauthorized","data":{}}`

func serve(h http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestAuthMiddleware_AttachesIdentity(t *testing.T) {
	v, _ := newTestVerifier(t)
	claims := baseClaims(time.Now().Add(time.Hour))
	claims["roles"] = []string{"ROLE_USER"}
	token := signMap(t, jwt.SigningMethodHS256, testSecret, claims)

	var got *models.Identity
	h := AuthMiddleware(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := serve(h, "Bearer "+token)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	require.NotNil(t, got)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, []models.Role{models.RoleUser}, got.Roles)
}

func TestAuthMiddleware_RejectionsLookAlike(t *testing.T) {
	v, _ := newTestVerifier(t)
	expired := signMap(t, jwt.SigningMethodHS256, testSecret, baseClaims(time.Now().Add(-time.Hour)))
	forged := signMap(t, jwt.SigningMethodHS256, []byte("ffffffffffffffffffffffffffffffff"), baseClaims(time.Now().Add(time.Hour)))

	headers := map[string]string{
		"no header":    "",
		"wrong scheme": "Basic abc",
		"expired":      "Bearer " + expired,
		"wrong secret": "Bearer " + forged,
		"garbage":      "Bearer garbage",
	}

	for name, header := range headers {
		t.Run(name, func(t *testing.T) {
			called := false
			h := AuthMiddleware(v)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				called = true
			}))

			rr := serve(h, header)
			assert.False(t, called, "handler must not run")
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.JSONEq(t, unauthorizedBody, rr.Body.String())
		})
	}
}

func TestPresenceMiddleware(t *testing.T) {
	logger, _ := logtest.NewNullLogger()

	var raw string
	h := PresenceMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ = RawTokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("unverified token passes", func(t *testing.T) {
		rr := serve(h, "Bearer whatever-this-is")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "whatever-this-is", raw)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		raw = ""
		rr := serve(h, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, unauthorizedBody, rr.Body.String())
		assert.Empty(t, raw)
	})
}

func TestRequireRoles(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	gate := RequireRoles(models.RoleAdmin, models.RoleManager)(ok)

	run := func(identity *models.Identity) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		if identity != nil {
			req = req.WithContext(WithIdentity(req.Context(), identity))
		}
		rr := httptest.NewRecorder()
		gate.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, run(&models.Identity{UserID: "a", Roles: []models.Role{models.RoleManager}}).Code)

	rr := run(&models.Identity{UserID: "b", Roles: []models.Role{models.RoleUser}})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.JSONEq(t, `{"message":"Forbidden","data":{}}`, rr.Body.String())

	assert.Equal(t, http.StatusUnauthorized, run(nil).Code)
}
