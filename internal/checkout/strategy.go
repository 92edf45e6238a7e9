package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Outcome is what a strategy produced for a purchase. Next is one of
// ShowingEmbeddedForm, Redirecting or Succeeded.
type Outcome struct {
	Next         State
	SessionID    string
	ClientSecret string
	RedirectURL  string
}

// Strategy is one way of taking the money.
type Strategy interface {
	Name() string
	Begin(ctx context.Context, p Purchase, idempotencyKey string) (Outcome, error)
}

// Confirmer submits the embedded card form to the provider and returns the
// payment intent id.
type Confirmer interface {
	ConfirmPayment(ctx context.Context, clientSecret string) (string, error)
}

type ConfirmFunc func(ctx context.Context, clientSecret string) (string, error)

func (f ConfirmFunc) ConfirmPayment(ctx context.Context, clientSecret string) (string, error) {
	return f(ctx, clientSecret)
}

// Simulated never calls the server. It holds Loading for Delay and then
// succeeds with a locally generated session id.
type Simulated struct {
	Delay  time.Duration
	Prefix string
}

const DefaultSimulatedDelay = 1500 * time.Millisecond

func NewSimulated() *Simulated {
	return &Simulated{Delay: DefaultSimulatedDelay, Prefix: "demo_"}
}

func (s *Simulated) Name() string { return "simulated" }

func (s *Simulated) Begin(ctx context.Context, p Purchase, _ string) (Outcome, error) {
	if err := sleepOrDone(ctx, s.Delay); err != nil {
		return Outcome{}, err
	}
	return Outcome{Next: Succeeded, SessionID: s.Prefix + uuid.NewString()}, nil
}

// intentCreator is the part of Client the embedded strategy needs.
type intentCreator interface {
	CreatePaymentIntent(ctx context.Context, amount int64, programID, idempotencyKey string) (string, error)
}

// Embedded creates a payment intent and hands its client secret to the
// provider's card form.
type Embedded struct {
	api intentCreator
}

func NewEmbedded(api intentCreator) *Embedded { return &Embedded{api: api} }

func (e *Embedded) Name() string { return "embedded" }

func (e *Embedded) Begin(ctx context.Context, p Purchase, idempotencyKey string) (Outcome, error) {
	if p.Amount <= 0 {
		return Outcome{}, errInvalidAmount
	}
	secret, err := e.api.CreatePaymentIntent(ctx, p.Amount, p.ProgramID, idempotencyKey)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Next: ShowingEmbeddedForm, ClientSecret: secret}, nil
}

type sessionCreator interface {
	CreateCheckoutSession(ctx context.Context, p Purchase, idempotencyKey string) (string, error)
}

// Hosted asks the server for a hosted checkout URL and redirects there.
type Hosted struct {
	api sessionCreator
}

func NewHosted(api sessionCreator) *Hosted { return &Hosted{api: api} }

func (h *Hosted) Name() string { return "hosted" }

func (h *Hosted) Begin(ctx context.Context, p Purchase, idempotencyKey string) (Outcome, error) {
	if p.Amount <= 0 {
		return Outcome{}, errInvalidAmount
	}
	raw, err := h.api.CreateCheckoutSession(ctx, p, idempotencyKey)
	if err != nil {
		return Outcome{}, err
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Outcome{}, fmt.Errorf("checkout url %q is not absolute", raw)
	}
	return Outcome{Next: Redirecting, RedirectURL: raw}, nil
}

var errInvalidAmount = errors.New("checkout: amount must be positive")

func sleepOrDone(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
