package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by all handlers; validator.Validate caches struct metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON name so clients can map errors onto form inputs.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldError is one failed rule on one request field.
type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

type validationResponse struct {
	Error  string       `json:"error"`
	Errors []fieldError `json:"errors"`
}

// decodeAndValidate decodes the JSON body into dst and runs its validate tags.
// On failure it writes a 400 response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeValidationError(w, err)
		return false
	}
	return true
}

func writeValidationError(w http.ResponseWriter, err error) {
	resp := validationResponse{Error: "validation_failed", Errors: []fieldError{}}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			resp.Errors = append(resp.Errors, fieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(resp)
}
