package payments

import (
	"context"
	"strings"
)

// PaymentManager validates purchase requests and forwards them to the
// provider. It is built once at start-up and only read afterwards.
type PaymentManager struct {
	provider      Provider
	hasCredential bool
}

// NewPaymentManager wraps provider. A nil provider means initialization
// failed; every purchase then fails with ErrGatewayUninitialized.
func NewPaymentManager(provider Provider, hasCredential bool) *PaymentManager {
	return &PaymentManager{provider: provider, hasCredential: hasCredential}
}

// Ping reports readiness without calling the provider.
func (m *PaymentManager) Ping() ReadinessStatus {
	return ReadinessStatus{
		CredentialAvailable: m.hasCredential,
		GatewayInitialized:  m.provider != nil,
	}
}

func (m *PaymentManager) CreatePaymentIntent(ctx context.Context, p PaymentIntentParams) (PaymentIntentResult, error) {
	if p.Amount <= 0 {
		return PaymentIntentResult{}, invalid("Missing amount parameter")
	}
	if m.provider == nil {
		return PaymentIntentResult{}, ErrGatewayUninitialized
	}

	res, err := m.provider.CreatePaymentIntent(ctx, p)
	if err != nil {
		return PaymentIntentResult{}, wrapProviderError(err)
	}
	return res, nil
}

func (m *PaymentManager) CreateCheckoutSession(ctx context.Context, p CheckoutSessionParams) (CheckoutSessionResult, error) {
	if !p.LineItem.valid() {
		return CheckoutSessionResult{}, invalid("Missing required parameters: either price_id or name and amount are required")
	}
	if strings.TrimSpace(p.SuccessURL) == "" || strings.TrimSpace(p.CancelURL) == "" {
		return CheckoutSessionResult{}, invalid("could not determine return URLs for checkout")
	}
	if m.provider == nil {
		return CheckoutSessionResult{}, ErrGatewayUninitialized
	}

	res, err := m.provider.CreateCheckoutSession(ctx, p)
	if err != nil {
		return CheckoutSessionResult{}, wrapProviderError(err)
	}
	return res, nil
}

// CheckoutSessionStatus looks a session up at the provider.
func (m *PaymentManager) CheckoutSessionStatus(ctx context.Context, id string) (SessionStatus, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return SessionStatus{}, invalid("Missing session id")
	}
	if m.provider == nil {
		return SessionStatus{}, ErrGatewayUninitialized
	}

	st, err := m.provider.GetCheckoutSession(ctx, id)
	if err != nil {
		return SessionStatus{}, wrapProviderError(err)
	}
	return st, nil
}
