package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"himalayanbjj/internal/catalog"
	"himalayanbjj/internal/payments"

	"github.com/go-chi/chi/v5"
)

// providerTimeout bounds every handler that talks to Stripe. The Stripe
// client has its own, shorter, HTTP timeout.
const providerTimeout = 15 * time.Second

type createPaymentIntentPayload struct {
	Amount    int64  `json:"amount"`
	ProgramID string `json:"programId" validate:"max=100"`
}

// createPaymentIntentHandler godoc
//
//	@Summary		Create a payment intent
//	@Description	Creates a Stripe payment intent in INR and returns its client secret for the embedded card form.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Param			payload			body		createPaymentIntentPayload	true	"Amount in paise and program id"
//	@Param			Idempotency-Key	header		string						false	"Forwarded to Stripe"
//	@Success		200				{object}	payments.PaymentIntentResult
//	@Failure		400				{object}	error	"Missing amount"
//	@Failure		500				{object}	error	"Gateway not initialized or Stripe error"
//	@Router			/create-payment-intent [post]
func (app *application) createPaymentIntentHandler(w http.ResponseWriter, r *http.Request) {
	var payload createPaymentIntentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), providerTimeout)
	defer cancel()

	app.logger.Infow("creating payment intent", "amount", payload.Amount, "program", payload.ProgramID)

	res, err := app.payments.CreatePaymentIntent(ctx, payments.PaymentIntentParams{
		Amount:         payload.Amount,
		ProgramID:      payload.ProgramID,
		IdempotencyKey: idempotencyKey(r),
	})
	if err != nil {
		app.intentErrorResponse(w, r, err)
		return
	}

	app.logger.Infow("payment intent created", "id", res.ID, "program", payload.ProgramID)

	writeJSON(w, http.StatusOK, map[string]string{"clientSecret": res.ClientSecret})
}

type createCheckoutSessionPayload struct {
	PriceID     string `json:"price_id"`
	Quantity    int64  `json:"quantity"`
	Name        string `json:"name"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

// createCheckoutSessionHandler godoc
//
//	@Summary		Create a hosted checkout session (form post)
//	@Description	Accepts a form or JSON body with either a Stripe price id or an inline product, and answers with a 303 redirect to Stripe Checkout.
//	@Tags			Payments
//	@Accept			json,x-www-form-urlencoded
//	@Param			payload	body	createCheckoutSessionPayload	true	"price_id and quantity, or name, amount and description"
//	@Success		303
//	@Failure		400	{object}	error	"Missing required parameters"
//	@Failure		500	{object}	error	"Gateway not initialized or Stripe error"
//	@Router			/create-checkout-session [post]
func (app *application) createCheckoutSessionHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := readCheckoutSessionPayload(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var item payments.LineItemSpec
	if strings.TrimSpace(payload.PriceID) != "" {
		item, err = payments.NewPriceLineItem(payload.PriceID, payload.Quantity)
	} else {
		item, err = payments.NewInlineLineItem(payload.Name, payload.Description, payload.Amount, payload.Quantity)
	}
	if err != nil {
		app.paymentErrorResponse(w, r, err)
		return
	}

	res, err := app.startCheckoutSession(r, item, "")
	if err != nil {
		app.paymentErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, res.URL, http.StatusSeeOther)
}

type apiCheckoutSessionPayload struct {
	ProgramID   string `json:"programId" validate:"required,max=100"`
	Amount      int64  `json:"amount"`
	Name        string `json:"name" validate:"max=200"`
	Description string `json:"description" validate:"max=1000"`
}

// apiCreateCheckoutSessionHandler godoc
//
//	@Summary		Create a hosted checkout session (JSON)
//	@Description	Creates a Stripe Checkout session for a program and returns its URL. The product name defaults to the program's catalog name.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Param			payload			body		apiCheckoutSessionPayload	true	"Program and amount in paise"
//	@Param			Idempotency-Key	header		string						false	"Forwarded to Stripe"
//	@Success		200				{object}	payments.CheckoutSessionResult
//	@Failure		400				{object}	error	"Missing programId or amount"
//	@Failure		500				{object}	error	"Gateway not initialized or Stripe error"
//	@Router			/api/create-checkout-session [post]
func (app *application) apiCreateCheckoutSessionHandler(w http.ResponseWriter, r *http.Request) {
	var payload apiCheckoutSessionPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if strings.TrimSpace(payload.ProgramID) == "" || payload.Amount <= 0 {
		app.badRequestResponse(w, r, errors.New("Missing required parameters: programId and amount"))
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		name = catalog.Name(payload.ProgramID)
	}
	description := strings.TrimSpace(payload.Description)
	if program, ok := catalog.Lookup(payload.ProgramID); ok && description == "" {
		description = program.Description
	}

	item, err := payments.NewInlineLineItem(name, description, payload.Amount, 1)
	if err != nil {
		app.paymentErrorResponse(w, r, err)
		return
	}

	res, err := app.startCheckoutSession(r, item, payload.ProgramID)
	if err != nil {
		app.paymentErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": res.URL})
}

func (app *application) startCheckoutSession(r *http.Request, item payments.LineItemSpec, programID string) (payments.CheckoutSessionResult, error) {
	origin := payments.ResolveOrigin(r.Header.Get("Origin"), r.Referer(), app.config.frontendURL, app.config.allowedOrigins)
	successURL, cancelURL := payments.ReturnURLs(origin)

	ctx, cancel := context.WithTimeout(r.Context(), providerTimeout)
	defer cancel()

	res, err := app.payments.CreateCheckoutSession(ctx, payments.CheckoutSessionParams{
		LineItem:       item,
		ProgramID:      programID,
		SuccessURL:     successURL,
		CancelURL:      cancelURL,
		IdempotencyKey: idempotencyKey(r),
	})
	if err != nil {
		return res, err
	}

	app.logger.Infow("checkout session created", "id", res.ID, "program", programID, "origin", origin)
	return res, nil
}

// readCheckoutSessionPayload accepts both a classic HTML form post and JSON.
func readCheckoutSessionPayload(w http.ResponseWriter, r *http.Request) (createCheckoutSessionPayload, error) {
	var payload createCheckoutSessionPayload

	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "application/x-www-form-urlencoded") && !strings.HasPrefix(ct, "multipart/form-data") {
		if err := readJSON(w, r, &payload); err != nil && !errors.Is(err, io.EOF) {
			return payload, err
		}
		return payload, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1_048_578)
	if err := r.ParseForm(); err != nil {
		return payload, err
	}

	payload.PriceID = r.PostForm.Get("price_id")
	payload.Name = r.PostForm.Get("name")
	payload.Description = r.PostForm.Get("description")

	var err error
	if payload.Quantity, err = formInt(r, "quantity"); err != nil {
		return payload, err
	}
	if payload.Amount, err = formInt(r, "amount"); err != nil {
		return payload, err
	}
	return payload, nil
}

func formInt(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(r.PostForm.Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return v, nil
}

func idempotencyKey(r *http.Request) string {
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if len(key) > 255 {
		return ""
	}
	return key
}

// checkoutSessionStatusHandler godoc
//
//	@Summary		Look up a checkout session
//	@Description	Returns Stripe's view of a checkout session so the success page can confirm payment server-side.
//	@Tags			Payments
//	@Produce		json
//	@Param			sessionID	path		string	true	"Checkout session id"
//	@Success		200			{object}	sessionStatusResponse
//	@Failure		404			{object}	error	"Demo or unknown session"
//	@Failure		500			{object}	error	"Gateway not initialized or Stripe error"
//	@Router			/checkout-session/{sessionID} [get]
func (app *application) checkoutSessionStatusHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	// simulated checkouts never reach Stripe
	if strings.HasPrefix(sessionID, "demo_") || strings.HasPrefix(sessionID, "form_") {
		app.notFoundResponse(w, r, fmt.Errorf("session %s is a demo session", sessionID))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), providerTimeout)
	defer cancel()

	st, err := app.payments.CheckoutSessionStatus(ctx, sessionID)
	if err != nil {
		var pe *payments.ProviderError
		if errors.As(err, &pe) && pe.Code == "resource_missing" {
			app.notFoundResponse(w, r, err)
			return
		}
		app.paymentErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionStatusResponse{SessionStatus: st, Paid: st.Paid()})
}

type sessionStatusResponse struct {
	payments.SessionStatus
	Paid bool `json:"paid"`
}

// webhookHandler godoc
//
//	@Summary		Stripe webhook
//	@Description	Verifies the Stripe-Signature header and logs payment events.
//	@Tags			Payments
//	@Accept			json
//	@Success		200
//	@Failure		400	{object}	error	"Bad signature"
//	@Failure		503	{object}	error	"Webhook secret not configured"
//	@Router			/webhook [post]
func (app *application) webhookHandler(w http.ResponseWriter, r *http.Request) {
	if !app.webhooks.Enabled() {
		app.serviceUnavailableResponse(w, r, payments.ErrWebhookDisabled)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 65536))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	evt, err := app.webhooks.Verify(body, r.Header.Get("Stripe-Signature"))
	if err != nil {
		if payments.IsValidation(err) {
			app.badRequestResponse(w, r, err)
			return
		}
		app.serviceUnavailableResponse(w, r, err)
		return
	}

	switch evt.Type {
	case "checkout.session.completed", "payment_intent.succeeded":
		app.logger.Infow("payment completed",
			"event", evt.ID, "type", evt.Type, "object", evt.ObjectID,
			"program", evt.ProgramID, "amount", evt.Amount, "status", evt.PaymentStatus)
	case "payment_intent.payment_failed", "checkout.session.expired":
		app.logger.Warnw("payment not completed",
			"event", evt.ID, "type", evt.Type, "object", evt.ObjectID, "program", evt.ProgramID)
	default:
		app.logger.Debugw("webhook ignored", "event", evt.ID, "type", evt.Type)
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
