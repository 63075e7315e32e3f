package utils

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

const (
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeValidation         = "validation_error"
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeInvalidResetToken  = "invalid_reset_token"
	ErrCodeInternal           = "internal_server_error"
	ErrCodeNotFound           = "not_found"
	ErrCodeConflict           = "conflict"
	ErrCodeExternalService    = "external_service_failure"
)

// Messages used by the authorization gates. Every rejection looks the same to the client.
const (
	MessageUnauthorized = "Unauthorized"
	MessageForbidden    = "Forbidden"
)

// ErrorResponse carries a machine code and a public message. Details is optional.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Envelope is the success/rejection shape shared with the web frontend.
type Envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// RespondErrorWithCode builds a JSON error response with a standard
// code and message. The optional `details` is included if non-nil.
func RespondErrorWithCode(
	w http.ResponseWriter,
	status int,
	errorCode string,
	publicMessage string,
	details any,
	devErrs ...error,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errBody := ErrorResponse{
		Code:    errorCode,
		Message: publicMessage,
	}
	if details != nil {
		errBody.Details = details
	}
	_ = json.NewEncoder(w).Encode(errBody)

	fields := logrus.Fields{"status": status, "code": errorCode}
	if len(devErrs) > 0 && devErrs[0] != nil {
		fields["error"] = devErrs[0].Error()
	}
	if status >= http.StatusInternalServerError {
		Logger.WithFields(fields).Error(publicMessage)
	} else {
		Logger.WithFields(fields).Warn(publicMessage)
	}
}

// RespondWithJSON for successful cases
func RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondWithEnvelope wraps data as {"message": ..., "data": ...}. A nil data becomes {}.
func RespondWithEnvelope(w http.ResponseWriter, status int, message string, data any) {
	if data == nil {
		data = struct{}{}
	}
	RespondWithJSON(w, status, Envelope{Message: message, Data: data})
}

// RespondUnauthorized writes the uniform 401 body. Callers log the cause themselves;
// nothing about it reaches the client.
func RespondUnauthorized(w http.ResponseWriter) {
	RespondWithEnvelope(w, http.StatusUnauthorized, MessageUnauthorized, nil)
}

// RespondForbidden writes the uniform 403 body.
func RespondForbidden(w http.ResponseWriter) {
	RespondWithEnvelope(w, http.StatusForbidden, MessageForbidden, nil)
}
