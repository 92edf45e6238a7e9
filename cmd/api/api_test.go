package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"himalayanbjj/internal/mailer"
	"himalayanbjj/internal/payments"
	"himalayanbjj/internal/ratelimiter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"
)

type stubProvider struct {
	mu sync.Mutex

	intentCalls  int
	sessionCalls int
	statusCalls  int

	lastIntent  payments.PaymentIntentParams
	lastSession payments.CheckoutSessionParams

	intentErr  error
	sessionErr error
	status     payments.SessionStatus
	statusErr  error
}

func (s *stubProvider) CreatePaymentIntent(_ context.Context, p payments.PaymentIntentParams) (payments.PaymentIntentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intentCalls++
	s.lastIntent = p
	if s.intentErr != nil {
		return payments.PaymentIntentResult{}, s.intentErr
	}
	return payments.PaymentIntentResult{ID: "pi_123", ClientSecret: "secret_abc"}, nil
}

func (s *stubProvider) CreateCheckoutSession(_ context.Context, p payments.CheckoutSessionParams) (payments.CheckoutSessionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionCalls++
	s.lastSession = p
	if s.sessionErr != nil {
		return payments.CheckoutSessionResult{}, s.sessionErr
	}
	return payments.CheckoutSessionResult{ID: "cs_test_123", URL: "https://checkout.stripe.com/c/pay/cs_test_123"}, nil
}

func (s *stubProvider) GetCheckoutSession(_ context.Context, id string) (payments.SessionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusCalls++
	if s.statusErr != nil {
		return payments.SessionStatus{}, s.statusErr
	}
	st := s.status
	st.ID = id
	return st, nil
}

type sentMail struct {
	template string
	to       string
	data     any
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) Send(templateFile, toName, toEmail string, data any) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return -1, m.err
	}
	m.sent = append(m.sent, sentMail{template: templateFile, to: toEmail, data: data})
	return 200, nil
}

const testWebhookSecret = "whsec_test"

func newTestApplication(t *testing.T, provider payments.Provider) (*application, *recordingMailer) {
	t.Helper()

	mail := &recordingMailer{}
	app := &application{
		config: config{
			addr:           ":0",
			env:            "test",
			apiURL:         "localhost:4242",
			frontendURL:    "https://himalayan-bjj.com/",
			allowedOrigins: defaultAllowedOrigins,
			mail: mailConfig{
				studioInbox: "info@himalayan-bjj.com",
			},
			auth: authConfig{
				basic: basicConfig{user: "admin", pass: "secret"},
			},
			rateLimiter: ratelimiter.Config{RequestsPerTimeFrame: 20, TimeFrame: time.Minute, Enabled: false},
		},
		logger:      zap.NewNop().Sugar(),
		payments:    payments.NewPaymentManager(provider, provider != nil),
		webhooks:    payments.NewWebhookVerifier(testWebhookSecret),
		mailer:      mail,
		rateLimiter: ratelimiter.NewFixedWindowLimiter(20, time.Minute),
	}
	return app, mail
}

func executeRequest(req *http.Request, mux http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestPing(t *testing.T) {
	t.Run("gateway up", func(t *testing.T) {
		app, _ := newTestApplication(t, &stubProvider{})
		rr := executeRequest(httptest.NewRequest(http.MethodGet, "/ping", nil), app.mount())

		require.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, true, body["credentialAvailable"])
		assert.Equal(t, true, body["gatewayInitialized"])
		_, err := time.Parse(time.RFC3339Nano, body["timestamp"].(string))
		assert.NoError(t, err)
	})

	t.Run("gateway down still answers 200", func(t *testing.T) {
		app, _ := newTestApplication(t, nil)
		rr := executeRequest(httptest.NewRequest(http.MethodGet, "/ping", nil), app.mount())

		require.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, false, body["credentialAvailable"])
		assert.Equal(t, false, body["gatewayInitialized"])
	})
}

func TestCreatePaymentIntent(t *testing.T) {
	t.Run("returns the client secret", func(t *testing.T) {
		stub := &stubProvider{}
		app, _ := newTestApplication(t, stub)

		req := jsonRequest(http.MethodPost, "/create-payment-intent", `{"amount":1000,"programId":"test-program"}`)
		req.Header.Set("Idempotency-Key", "attempt-1")
		rr := executeRequest(req, app.mount())

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.JSONEq(t, `{"clientSecret":"secret_abc"}`, rr.Body.String())
		assert.Equal(t, 1, stub.intentCalls)
		assert.EqualValues(t, 1000, stub.lastIntent.Amount)
		assert.Equal(t, "test-program", stub.lastIntent.ProgramID)
		assert.Equal(t, "attempt-1", stub.lastIntent.IdempotencyKey)
	})

	for _, body := range []string{`{}`, `{"programId":"beginner"}`, `{"amount":0}`, `{"amount":-5}`} {
		t.Run("missing amount "+body, func(t *testing.T) {
			stub := &stubProvider{}
			app, _ := newTestApplication(t, stub)

			rr := executeRequest(jsonRequest(http.MethodPost, "/create-payment-intent", body), app.mount())

			require.Equal(t, http.StatusBadRequest, rr.Code)
			assert.JSONEq(t, `{"error":"Missing amount parameter"}`, rr.Body.String())
			assert.Zero(t, stub.intentCalls)
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		stub := &stubProvider{}
		app, _ := newTestApplication(t, stub)

		rr := executeRequest(jsonRequest(http.MethodPost, "/create-payment-intent", `{"amount":`), app.mount())

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Zero(t, stub.intentCalls)
	})

	t.Run("uninitialized gateway", func(t *testing.T) {
		app, _ := newTestApplication(t, nil)

		rr := executeRequest(jsonRequest(http.MethodPost, "/create-payment-intent", `{"amount":1000}`), app.mount())

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, payments.CodeNotInitialized, body["code"])
		assert.Equal(t, "Stripe is not initialized. Check server configuration.", body["error"])
	})

	t.Run("stripe error fields are passed through", func(t *testing.T) {
		stub := &stubProvider{intentErr: &stripe.Error{
			Msg:  "Your card was declined.",
			Type: stripe.ErrorTypeCard,
			Code: stripe.ErrorCodeCardDeclined,
		}}
		app, _ := newTestApplication(t, stub)

		rr := executeRequest(jsonRequest(http.MethodPost, "/create-payment-intent", `{"amount":1000}`), app.mount())

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"error":{"message":"Your card was declined.","type":"card_error","code":"card_declined"}}`, rr.Body.String())
	})

	t.Run("transport error keeps its message", func(t *testing.T) {
		stub := &stubProvider{intentErr: errors.New("dial tcp: connection refused")}
		app, _ := newTestApplication(t, stub)

		rr := executeRequest(jsonRequest(http.MethodPost, "/create-payment-intent", `{"amount":1000}`), app.mount())

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"error":{"message":"dial tcp: connection refused","code":"500"}}`, rr.Body.String())
	})
}

func TestAPICreateCheckoutSession(t *testing.T) {
	t.Run("uses the catalog name", func(t *testing.T) {
		stub := &stubProvider{}
		app, _ := newTestApplication(t, stub)

		req := jsonRequest(http.MethodPost, "/api/create-checkout-session", `{"programId":"beginner","amount":1000000}`)
		req.Header.Set("Origin", "http://localhost:5173")
		rr := executeRequest(req, app.mount())

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.JSONEq(t, `{"url":"https://checkout.stripe.com/c/pay/cs_test_123"}`, rr.Body.String())

		item := stub.lastSession.LineItem
		assert.False(t, item.IsPrice())
		assert.Equal(t, "Beginner BJJ Program", item.Name())
		assert.EqualValues(t, 1000000, item.UnitAmount())
		assert.EqualValues(t, 1, item.Quantity())
		assert.Equal(t, "beginner", stub.lastSession.ProgramID)
		assert.Equal(t, "http://localhost:5173/payment-success?session_id={CHECKOUT_SESSION_ID}", stub.lastSession.SuccessURL)
		assert.Equal(t, "http://localhost:5173/payment-cancelled", stub.lastSession.CancelURL)
	})

	t.Run("unknown program falls back to the default name", func(t *testing.T) {
		stub := &stubProvider{}
		app, _ := newTestApplication(t, stub)

		rr := executeRequest(jsonRequest(http.MethodPost, "/api/create-checkout-session", `{"programId":"open-mat","amount":50000}`), app.mount())

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "BJJ Program", stub.lastSession.LineItem.Name())
		// no Origin or Referer: FRONTEND_URL without its trailing slash
		assert.Equal(t, "https://himalayan-bjj.com/payment-cancelled", stub.lastSession.CancelURL)
	})

	t.Run("unlisted origin returns buyers to the studio site", func(t *testing.T) {
		stub := &stubProvider{}
		app, _ := newTestApplication(t, stub)

		req := jsonRequest(http.MethodPost, "/api/create-checkout-session", `{"programId":"beginner","amount":1000000}`)
		req.Header.Set("Origin", "https://evil.example")
		req.Header.Set("Referer", "https://evil.example/buy")
		rr := executeRequest(req, app.mount())

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "https://himalayan-bjj.com/payment-success?session_id={CHECKOUT_SESSION_ID}", stub.lastSession.SuccessURL)
		assert.Equal(t, "https://himalayan-bjj.com/payment-cancelled", stub.lastSession.CancelURL)
	})

	t.Run("uninitialized gateway uses the nested error shape", func(t *testing.T) {
		app, _ := newTestApplication(t, nil)

		rr := executeRequest(jsonRequest(http.MethodPost, "/api/create-checkout-session", `{"programId":"beginner","amount":1000000}`), app.mount())

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"error":{"message":"Stripe is not initialized. Check server configuration.","code":"stripe_not_initialized"}}`, rr.Body.String())
	})

	t.Run("explicit name wins", func(t *testing.T) {
		stub := &stubProvider{}
		app, _ := newTestApplication(t, stub)

		rr := executeRequest(jsonRequest(http.MethodPost, "/api/create-checkout-session",
			`{"programId":"beginner","amount":500,"name":"Trial week","description":"Seven days"}`), app.mount())

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Trial week", stub.lastSession.LineItem.Name())
		assert.Equal(t, "Seven days", stub.lastSession.LineItem.Description())
	})

	for _, body := range []string{`{"amount":1000}`, `{"programId":"beginner"}`, `{"programId":"  ","amount":1000}`} {
		t.Run("rejects "+body, func(t *testing.T) {
			stub := &stubProvider{}
			app, _ := newTestApplication(t, stub)

			rr := executeRequest(jsonRequest(http.MethodPost, "/api/create-checkout-session", body), app.mount())

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Zero(t, stub.sessionCalls)
		})
	}
}

func TestCreateCheckoutSessionForm(t *testing.T) {
	formRequest := func(values url.Values) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/create-checkout-session", strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req
	}

	t.Run("price id redirects to stripe", func(t *testing.T) {
		stub := &stubProvider{}
		app, _ := newTestApplication(t, stub)

		req := formRequest(url.Values{"price_id": {"price_123"}, "quantity": {"2"}})
		req.Header.Set("Referer", "https://himalayan-bjj.vercel.app/programs/beginner")
		rr := executeRequest(req, app.mount())

		require.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_123", rr.Header().Get("Location"))
		assert.True(t, stub.lastSession.LineItem.IsPrice())
		assert.Equal(t, "price_123", stub.lastSession.LineItem.PriceID())
		assert.EqualValues(t, 2, stub.lastSession.LineItem.Quantity())
		assert.Equal(t, "https://himalayan-bjj.vercel.app/payment-cancelled", stub.lastSession.CancelURL)
	})

	t.Run("inline product", func(t *testing.T) {
		stub := &stubProvider{}
		app, _ := newTestApplication(t, stub)

		rr := executeRequest(formRequest(url.Values{"name": {"Private BJJ Lessons"}, "amount": {"3000000"}}), app.mount())

		require.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "Private BJJ Lessons", stub.lastSession.LineItem.Name())
		assert.EqualValues(t, 1, stub.lastSession.LineItem.Quantity())
	})

	t.Run("json body works too", func(t *testing.T) {
		stub := &stubProvider{}
		app, _ := newTestApplication(t, stub)

		rr := executeRequest(jsonRequest(http.MethodPost, "/create-checkout-session", `{"name":"Open mat","amount":20000}`), app.mount())

		assert.Equal(t, http.StatusSeeOther, rr.Code)
	})

	t.Run("neither price nor product", func(t *testing.T) {
		stub := &stubProvider{}
		app, _ := newTestApplication(t, stub)

		rr := executeRequest(formRequest(url.Values{"description": {"nothing else"}}), app.mount())

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"Missing required parameters: either price_id or name and amount are required"}`, rr.Body.String())
		assert.Zero(t, stub.sessionCalls)
	})

	t.Run("bad quantity", func(t *testing.T) {
		stub := &stubProvider{}
		app, _ := newTestApplication(t, stub)

		rr := executeRequest(formRequest(url.Values{"price_id": {"price_123"}, "quantity": {"two"}}), app.mount())

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Zero(t, stub.sessionCalls)
	})
}

func TestCheckoutSessionStatus(t *testing.T) {
	t.Run("paid session", func(t *testing.T) {
		stub := &stubProvider{status: payments.SessionStatus{
			Status:        "complete",
			PaymentStatus: "paid",
			AmountTotal:   1000000,
			Currency:      "inr",
			ProgramID:     "beginner",
		}}
		app, _ := newTestApplication(t, stub)

		rr := executeRequest(httptest.NewRequest(http.MethodGet, "/checkout-session/cs_test_123", nil), app.mount())

		require.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, "cs_test_123", body["id"])
		assert.Equal(t, "paid", body["paymentStatus"])
		assert.Equal(t, true, body["paid"])
	})

	t.Run("demo sessions never reach stripe", func(t *testing.T) {
		stub := &stubProvider{}
		app, _ := newTestApplication(t, stub)

		rr := executeRequest(httptest.NewRequest(http.MethodGet, "/checkout-session/demo_1234", nil), app.mount())

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Zero(t, stub.statusCalls)
	})

	t.Run("unpaid session", func(t *testing.T) {
		stub := &stubProvider{status: payments.SessionStatus{Status: "open", PaymentStatus: "unpaid"}}
		app, _ := newTestApplication(t, stub)

		rr := executeRequest(httptest.NewRequest(http.MethodGet, "/checkout-session/cs_test_open", nil), app.mount())

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, false, decodeBody(t, rr)["paid"])
	})

	t.Run("missing session", func(t *testing.T) {
		stub := &stubProvider{statusErr: &stripe.Error{Msg: "No such checkout.session", Code: stripe.ErrorCodeResourceMissing}}
		app, _ := newTestApplication(t, stub)

		rr := executeRequest(httptest.NewRequest(http.MethodGet, "/checkout-session/cs_gone", nil), app.mount())

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestWebhook(t *testing.T) {
	payload := `{"id":"evt_1","object":"event","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","object":"payment_intent","amount":1000,"status":"succeeded","metadata":{"programId":"beginner"}}}}`

	t.Run("valid signature", func(t *testing.T) {
		app, _ := newTestApplication(t, &stubProvider{})
		signed := webhookSignedPayload(payload)

		req := jsonRequest(http.MethodPost, "/webhook", string(signed.Payload))
		req.Header.Set("Stripe-Signature", signed.Header)
		rr := executeRequest(req, app.mount())

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"received":true}`, rr.Body.String())
	})

	t.Run("bad signature", func(t *testing.T) {
		app, _ := newTestApplication(t, &stubProvider{})

		req := jsonRequest(http.MethodPost, "/webhook", payload)
		req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
		rr := executeRequest(req, app.mount())

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("disabled without secret", func(t *testing.T) {
		app, _ := newTestApplication(t, &stubProvider{})
		app.webhooks = payments.NewWebhookVerifier("")

		rr := executeRequest(jsonRequest(http.MethodPost, "/webhook", payload), app.mount())

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}

func webhookSignedPayload(payload string) *webhook.SignedPayload {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})
}

func TestPrograms(t *testing.T) {
	app, _ := newTestApplication(t, &stubProvider{})
	mux := app.mount()

	rr := executeRequest(httptest.NewRequest(http.MethodGet, "/programs", nil), mux)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 4)
	assert.Equal(t, "beginner", list[0]["id"])

	rr = executeRequest(httptest.NewRequest(http.MethodGet, "/programs/advanced-course", nil), mux)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Jiu Jitsu Instructor Program", decodeBody(t, rr)["name"])

	rr = executeRequest(httptest.NewRequest(http.MethodGet, "/programs/yoga", nil), mux)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestContact(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		app, mail := newTestApplication(t, &stubProvider{})

		rr := executeRequest(jsonRequest(http.MethodPost, "/contact",
			`{"name":"Tenzin","email":"tenzin@example.com","phone":"+91 98765-43210","message":"Kids classes?"}`), app.mount())

		require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())
		require.Len(t, mail.sent, 1)
		assert.Equal(t, mailer.ContactTemplate, mail.sent[0].template)
		assert.Equal(t, "info@himalayan-bjj.com", mail.sent[0].to)
		assert.Equal(t, "+919876543210", mail.sent[0].data.(contactPayload).Phone)
	})

	for name, body := range map[string]string{
		"missing message": `{"name":"Tenzin","email":"tenzin@example.com"}`,
		"bad email":       `{"name":"Tenzin","email":"not-an-email","message":"hi"}`,
		"bad phone":       `{"name":"Tenzin","email":"tenzin@example.com","phone":"12345","message":"hi"}`,
		"unknown field":   `{"name":"Tenzin","email":"tenzin@example.com","message":"hi","extra":1}`,
	} {
		t.Run(name, func(t *testing.T) {
			app, mail := newTestApplication(t, &stubProvider{})

			rr := executeRequest(jsonRequest(http.MethodPost, "/contact", body), app.mount())

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Empty(t, mail.sent)
		})
	}

	t.Run("mail failure", func(t *testing.T) {
		app, mail := newTestApplication(t, &stubProvider{})
		mail.err = errors.New("smtp down")

		rr := executeRequest(jsonRequest(http.MethodPost, "/contact",
			`{"name":"Tenzin","email":"tenzin@example.com","message":"hi"}`), app.mount())

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "smtp down")
	})
}

func TestSignup(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		app, mail := newTestApplication(t, &stubProvider{})

		rr := executeRequest(jsonRequest(http.MethodPost, "/signup",
			`{"name":"Pema","email":"pema@example.com","phone":"9876543210","program":"beginners-course","beltColor":"White","newsletter":true}`), app.mount())

		require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())
		assert.Equal(t, "beginner", decodeBody(t, rr)["program"])
		require.Len(t, mail.sent, 1)
		data := mail.sent[0].data.(signupData)
		assert.Equal(t, "Beginner BJJ Program", data.ProgramName)
		assert.Equal(t, "white", data.BeltColor)
	})

	t.Run("unknown program", func(t *testing.T) {
		app, mail := newTestApplication(t, &stubProvider{})

		rr := executeRequest(jsonRequest(http.MethodPost, "/signup",
			`{"name":"Pema","email":"pema@example.com","phone":"9876543210","program":"yoga"}`), app.mount())

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, mail.sent)
	})

	t.Run("bad belt", func(t *testing.T) {
		app, _ := newTestApplication(t, &stubProvider{})

		rr := executeRequest(jsonRequest(http.MethodPost, "/signup",
			`{"name":"Pema","email":"pema@example.com","phone":"9876543210","program":"beginner","beltColor":"green"}`), app.mount())

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestCORS(t *testing.T) {
	app, _ := newTestApplication(t, &stubProvider{})
	mux := app.mount()

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/create-payment-intent", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type, Idempotency-Key")
		return executeRequest(req, mux)
	}

	rr := preflight("http://localhost:5173")
	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = preflight("https://evil.example.com")
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter(t *testing.T) {
	stub := &stubProvider{}
	app, _ := newTestApplication(t, stub)
	app.config.rateLimiter = ratelimiter.Config{RequestsPerTimeFrame: 2, TimeFrame: time.Minute, Enabled: true}
	app.rateLimiter = ratelimiter.NewFixedWindowLimiter(2, time.Minute)
	mux := app.mount()

	send := func() *httptest.ResponseRecorder {
		req := jsonRequest(http.MethodPost, "/create-payment-intent", `{"amount":1000}`)
		req.RemoteAddr = "203.0.113.7:51234"
		return executeRequest(req, mux)
	}

	assert.Equal(t, http.StatusOK, send().Code)
	assert.Equal(t, http.StatusOK, send().Code)

	rr := send()
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
	assert.Equal(t, 2, stub.intentCalls)

	// session lookups reach Stripe too and share the budget
	req := httptest.NewRequest(http.MethodGet, "/checkout-session/cs_test_123", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	assert.Equal(t, http.StatusTooManyRequests, executeRequest(req, mux).Code)
	assert.Zero(t, stub.statusCalls)

	// ping is not limited
	assert.Equal(t, http.StatusOK, executeRequest(httptest.NewRequest(http.MethodGet, "/ping", nil), mux).Code)
}

func TestRecoverPanic(t *testing.T) {
	app, _ := newTestApplication(t, &stubProvider{})

	h := app.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("sk_live_should_not_leak")
	}))
	rr := executeRequest(httptest.NewRequest(http.MethodGet, "/", nil), h)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":{"message":"Internal server error","code":"500"}}`, rr.Body.String())
}

func TestDebugVarsRequiresBasicAuth(t *testing.T) {
	app, _ := newTestApplication(t, &stubProvider{})
	mux := app.mount()

	rr := executeRequest(httptest.NewRequest(http.MethodGet, "/debug/vars", nil), mux)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))

	req := httptest.NewRequest(http.MethodGet, "/debug/vars", nil)
	req.SetBasicAuth("admin", "wrong")
	assert.Equal(t, http.StatusUnauthorized, executeRequest(req, mux).Code)

	req = httptest.NewRequest(http.MethodGet, "/debug/vars", nil)
	req.SetBasicAuth("admin", "secret")
	assert.Equal(t, http.StatusOK, executeRequest(req, mux).Code)
}

func TestUnknownRoute(t *testing.T) {
	app, _ := newTestApplication(t, &stubProvider{})

	rr := executeRequest(httptest.NewRequest(http.MethodGet, "/nope", nil), app.mount())

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rr.Body.String())
}
