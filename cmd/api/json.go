package main

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

// Indian mobile numbers: optional +91 or 0 prefix, then 10 digits starting 6-9.
var indianPhone = regexp.MustCompile(`^(?:\+91|0)?[6-9][0-9]{9}$`)

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	Validate.RegisterValidation("inphone", func(fl validator.FieldLevel) bool {
		return indianPhone.MatchString(fl.Field().String())
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// it parses body into Go struct.
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1_048_578 //1mb
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(data)
}

// writeJSONError writes the plain {"error": "..."} shape used for client
// mistakes.
func writeJSONError(w http.ResponseWriter, status int, message string) error {
	type envelope struct {
		Error string `json:"error"`
	}

	return writeJSON(w, status, &envelope{Error: message})
}

// errorDetail is the {"error": {...}} shape used when the server or the
// payment provider failed.
type errorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
	Code    string `json:"code"`
}

func writeJSONErrorDetail(w http.ResponseWriter, status int, detail errorDetail) error {
	type envelope struct {
		Error errorDetail `json:"error"`
	}

	return writeJSON(w, status, &envelope{Error: detail})
}
