package payments

import (
	"errors"

	"github.com/stripe/stripe-go/v79"
)

// CodeNotInitialized is the error code clients use to tell a misconfigured
// server apart from a failed payment.
const CodeNotInitialized = "stripe_not_initialized"

var ErrGatewayUninitialized = errors.New("payments: gateway not initialized")

// ValidationError means the caller sent a missing or invalid field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

// ProviderError wraps whatever the payment provider returned. Message, Type
// and Code are copied as-is so the frontend can show them.
type ProviderError struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
	Code    string `json:"code"`
	Err     error  `json:"-"`
}

func (e *ProviderError) Error() string { return e.Message }

func (e *ProviderError) Unwrap() error { return e.Err }

// wrapProviderError converts a provider SDK error into a ProviderError.
func wrapProviderError(err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}

	out := &ProviderError{Message: err.Error(), Code: "500", Err: err}

	var se *stripe.Error
	if errors.As(err, &se) {
		out.Message = se.Msg
		out.Type = string(se.Type)
		if se.Code != "" {
			out.Code = string(se.Code)
		}
	}
	return out
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
