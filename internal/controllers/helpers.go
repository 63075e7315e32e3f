package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/utils"
)

var validate = newValidator()

// newValidator adds bcrypt_max, a byte-length bound for anything that ends up hashed.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("bcrypt_max", func(fl validator.FieldLevel) bool {
		return utils.PasswordFitsBcrypt(fl.Field().String())
	})
	return v
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// On failure it has already written the error response.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", validationDetails(err), err)
		return false
	}
	return true
}

// validationDetails maps field names to the failed rule.
func validationDetails(err error) map[string]string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
