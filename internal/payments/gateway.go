package payments

import "context"

// Provider is the external payment provider as seen by the adapter.
type Provider interface {
	CreatePaymentIntent(ctx context.Context, p PaymentIntentParams) (PaymentIntentResult, error)
	CreateCheckoutSession(ctx context.Context, p CheckoutSessionParams) (CheckoutSessionResult, error)
	GetCheckoutSession(ctx context.Context, id string) (SessionStatus, error)
}
