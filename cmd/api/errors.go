package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"himalayanbjj/internal/payments"
)

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONErrorDetail(w, http.StatusInternalServerError, errorDetail{
		Message: "Internal server error",
		Code:    "500",
	})
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusBadRequest, err.Error())
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("not found error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusNotFound, "not found")
}

func (app *application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	writeJSONError(w, http.StatusMethodNotAllowed, fmt.Sprintf("method %s not allowed", r.Method))
}

func (app *application) unauthorizedBasicErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized basic error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	w.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)

	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter time.Duration) {
	app.logger.Warnw("rate limit exceeded", "method", r.Method, "path", r.URL.Path, "ip", r.RemoteAddr)

	secs := int(retryAfter.Round(time.Second).Seconds())
	if secs < 1 {
		secs = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(secs))

	writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded, retry after: "+strconv.Itoa(secs)+"s")
}

func (app *application) serviceUnavailableResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("service unavailable", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusServiceUnavailable, err.Error())
}

const msgNotInitialized = "Stripe is not initialized. Check server configuration."

// paymentErrorResponse maps an error from the payment manager onto the
// response contract: validation 400, uninitialized gateway 500 with a
// distinct code, provider failures 500 with the provider's fields. Every
// 500 uses the nested {"error":{...}} shape.
func (app *application) paymentErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var ve *payments.ValidationError
	var pe *payments.ProviderError

	switch {
	case errors.As(err, &ve):
		app.badRequestResponse(w, r, ve)

	case errors.Is(err, payments.ErrGatewayUninitialized):
		app.logger.Errorw("payment gateway not initialized", "method", r.Method, "path", r.URL.Path)
		writeJSONErrorDetail(w, http.StatusInternalServerError, errorDetail{
			Message: msgNotInitialized,
			Code:    payments.CodeNotInitialized,
		})

	case errors.As(err, &pe):
		app.logger.Errorw("payment provider error",
			"method", r.Method,
			"path", r.URL.Path,
			"message", pe.Message,
			"type", pe.Type,
			"code", pe.Code,
			"error", pe.Err,
		)
		writeJSONErrorDetail(w, http.StatusInternalServerError, errorDetail{
			Message: pe.Message,
			Type:    pe.Type,
			Code:    pe.Code,
		})

	default:
		app.internalServerError(w, r, err)
	}
}

// intentErrorResponse is paymentErrorResponse for /create-payment-intent,
// whose callers read an uninitialized gateway as a flat
// {"error": "...", "code": "stripe_not_initialized"} body.
func (app *application) intentErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, payments.ErrGatewayUninitialized) {
		app.logger.Errorw("payment gateway not initialized", "method", r.Method, "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": msgNotInitialized,
			"code":  payments.CodeNotInitialized,
		})
		return
	}
	app.paymentErrorResponse(w, r, err)
}
