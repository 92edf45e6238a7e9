// Package checkout drives a single checkout attempt from the buy button to a
// success page, a provider card form or a hosted checkout redirect.
package checkout

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInFlight = errors.New("checkout: a purchase is already in progress")
	ErrClosed   = errors.New("checkout: controller closed")
	ErrState    = errors.New("checkout: action not allowed in current state")
)

const (
	msgUnavailable = "Payment service is temporarily unavailable. Please try again later."
	msgGeneric     = "Failed to process checkout. Please try again later or contact support."
)

// Controller is the checkout state machine. It is safe for concurrent use;
// the purchase control is expected to call Purchase on every press.
type Controller struct {
	strategy Strategy
	logger   *zap.SugaredLogger
	onChange func(Snapshot)

	mu         sync.Mutex
	snap       Snapshot
	attempt    uint64
	confirming bool
	closed     bool
}

type Option func(*Controller)

// WithObserver registers fn to receive every state change. fn is called with
// the controller lock released.
func WithObserver(fn func(Snapshot)) Option {
	return func(c *Controller) { c.onChange = fn }
}

func NewController(strategy Strategy, logger *zap.SugaredLogger, opts ...Option) *Controller {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	c := &Controller{strategy: strategy, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Purchase starts a checkout attempt. Only one attempt can be in flight;
// a second call while Loading returns ErrInFlight without contacting the
// server.
func (c *Controller) Purchase(ctx context.Context, p Purchase) error {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return ErrClosed
	case c.snap.State == Loading:
		c.mu.Unlock()
		return ErrInFlight
	case c.snap.State != Idle:
		c.mu.Unlock()
		return ErrState
	}
	c.attempt++
	attempt := c.attempt
	key := uuid.NewString()
	snap := c.setLocked(Snapshot{State: Loading})
	c.mu.Unlock()
	c.notify(snap)

	c.logger.Infow("checkout started", "strategy", c.strategy.Name(), "program", p.ProgramID, "amount", p.Amount)

	out, err := c.strategy.Begin(ctx, p, key)

	c.mu.Lock()
	if c.closed || attempt != c.attempt {
		c.mu.Unlock()
		c.logger.Debugw("checkout result ignored", "strategy", c.strategy.Name())
		return ErrClosed
	}
	if err != nil {
		c.mu.Unlock()
		c.fail(err)
		return err
	}

	next := Snapshot{State: out.Next}
	switch out.Next {
	case ShowingEmbeddedForm:
		next.ClientSecret = out.ClientSecret
	case Redirecting:
		next.RedirectURL = out.RedirectURL
	case Succeeded:
		next.SessionID = out.SessionID
		next.SuccessURL = successURL("session_id", out.SessionID)
	default:
		c.mu.Unlock()
		err := errors.New("checkout: strategy returned invalid state " + out.Next.String())
		c.fail(err)
		return err
	}
	snap = c.setLocked(next)
	c.mu.Unlock()
	c.notify(snap)

	c.logger.Infow("checkout advanced", "strategy", c.strategy.Name(), "state", out.Next.String())
	return nil
}

// Confirm submits the embedded card form. It is only valid while the form is
// shown.
func (c *Controller) Confirm(ctx context.Context, confirmer Confirmer) error {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return ErrClosed
	case c.snap.State != ShowingEmbeddedForm:
		c.mu.Unlock()
		return ErrState
	case c.confirming:
		c.mu.Unlock()
		return ErrInFlight
	}
	c.confirming = true
	attempt := c.attempt
	secret := c.snap.ClientSecret
	c.mu.Unlock()

	intentID, err := confirmer.ConfirmPayment(ctx, secret)

	c.mu.Lock()
	c.confirming = false
	if c.closed || attempt != c.attempt {
		c.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		c.mu.Unlock()
		c.fail(err)
		return err
	}
	snap := c.setLocked(Snapshot{
		State:      Succeeded,
		SessionID:  intentID,
		SuccessURL: successURL("payment_intent", intentID),
	})
	c.mu.Unlock()
	c.notify(snap)
	return nil
}

// Close tears the controller down. Results that arrive afterwards are
// dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// fail records the failure and returns the controller to Idle so the user
// can try again.
func (c *Controller) fail(err error) {
	msg := UserMessage(err)
	c.logger.Warnw("checkout failed", "strategy", c.strategy.Name(), "error", err)

	c.mu.Lock()
	failed := c.setLocked(Snapshot{State: Failed, Error: msg})
	idle := c.setLocked(Snapshot{State: Idle, Error: msg})
	c.mu.Unlock()

	c.notify(failed)
	c.notify(idle)
}

func (c *Controller) setLocked(s Snapshot) Snapshot {
	c.snap = s
	return s
}

func (c *Controller) notify(s Snapshot) {
	if c.onChange != nil {
		c.onChange(s)
	}
}

// UserMessage turns a checkout error into text fit for the page.
func UserMessage(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		if apiErr.Unavailable() {
			return msgUnavailable
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return msgGeneric
	case errors.Is(err, errInvalidAmount):
		return "Invalid amount for this program."
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return msgGeneric
	default:
		var ce *ConfirmError
		if errors.As(err, &ce) && ce.Message != "" {
			return ce.Message
		}
		return msgGeneric
	}
}

// ConfirmError is returned by a Confirmer when the provider rejects the card.
type ConfirmError struct {
	Message string
}

func (e *ConfirmError) Error() string { return "checkout: confirm: " + e.Message }

func successURL(param, id string) string {
	return "/payment-success?" + url.Values{param: {id}}.Encode()
}
