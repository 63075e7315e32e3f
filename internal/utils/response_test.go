package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondUnauthorized(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondUnauthorized(rec)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Unauthorized","data":{}}`, rec.Body.String())
}

func TestRespondWithEnvelope_Data(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithEnvelope(rec, http.StatusOK, "ok", map[string]string{"id": "42"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"ok","data":{"id":"42"}}`, rec.Body.String())
}

func TestHandleAppError(t *testing.T) {
	t.Run("app error keeps status and code", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleAppError(rec, &AppError{
			StatusCode: http.StatusConflict,
			Code:       ErrCodeConflict,
			Message:    "already there",
			Err:        errors.New("dup"),
		})
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.JSONEq(t, `{"code":"conflict","message":"already there"}`, rec.Body.String())
	})

	t.Run("plain error is a 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleAppError(rec, errors.New("db down"))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), ErrCodeInternal)
		assert.NotContains(t, rec.Body.String(), "db down")
	})
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("battery staple", hash))
}
