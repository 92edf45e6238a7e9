package payments

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const DefaultTimeout = 10 * time.Second

// StripeProvider talks to Stripe through stripe-go. Requests are bounded by
// the configured timeout and never retried.
type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(secretKey string, timeout time.Duration, logger *zap.SugaredLogger) (*StripeProvider, error) {
	if secretKey == "" {
		return nil, errors.New("STRIPE_SECRET_KEY is not set")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	// stripe logs every request at info; keep only warnings and errors.
	stripeLogger := logger.Desugar().
		WithOptions(zap.IncreaseLevel(zapcore.WarnLevel)).
		Named("stripe").
		Sugar()

	httpClient := &http.Client{Timeout: timeout}
	backend := func(kind stripe.SupportedBackend) stripe.Backend {
		return stripe.GetBackendWithConfig(kind, &stripe.BackendConfig{
			HTTPClient:        httpClient,
			MaxNetworkRetries: stripe.Int64(0),
			LeveledLogger:     stripeLogger,
		})
	}

	api := client.New(secretKey, &stripe.Backends{
		API:     backend(stripe.APIBackend),
		Connect: backend(stripe.ConnectBackend),
		Uploads: backend(stripe.UploadsBackend),
	})

	return &StripeProvider{api: api}, nil
}

func (s *StripeProvider) CreatePaymentIntent(ctx context.Context, p PaymentIntentParams) (PaymentIntentResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(p.Amount),
		Currency: stripe.String(Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("programId", p.ProgramID)
	if p.IdempotencyKey != "" {
		params.SetIdempotencyKey(p.IdempotencyKey)
	}

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return PaymentIntentResult{}, err
	}

	return PaymentIntentResult{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (s *StripeProvider) CreateCheckoutSession(ctx context.Context, p CheckoutSessionParams) (CheckoutSessionResult, error) {
	item := &stripe.CheckoutSessionLineItemParams{
		Quantity: stripe.Int64(p.LineItem.Quantity()),
	}
	if p.LineItem.IsPrice() {
		item.Price = stripe.String(p.LineItem.PriceID())
	} else {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(p.LineItem.Name()),
		}
		if d := p.LineItem.Description(); d != "" {
			product.Description = stripe.String(d)
		}
		item.PriceData = &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:    stripe.String(p.LineItem.Currency()),
			ProductData: product,
			UnitAmount:  stripe.Int64(p.LineItem.UnitAmount()),
		}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          []*stripe.CheckoutSessionLineItemParams{item},
		SuccessURL:         stripe.String(p.SuccessURL),
		CancelURL:          stripe.String(p.CancelURL),
	}
	params.Context = ctx
	if p.ProgramID != "" {
		params.AddMetadata("programId", p.ProgramID)
	}
	if p.IdempotencyKey != "" {
		params.SetIdempotencyKey(p.IdempotencyKey)
	}

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return CheckoutSessionResult{}, err
	}

	return CheckoutSessionResult{ID: sess.ID, URL: sess.URL}, nil
}

func (s *StripeProvider) GetCheckoutSession(ctx context.Context, id string) (SessionStatus, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return SessionStatus{}, err
	}

	return SessionStatus{
		ID:            sess.ID,
		Status:        string(sess.Status),
		PaymentStatus: string(sess.PaymentStatus),
		AmountTotal:   sess.AmountTotal,
		Currency:      string(sess.Currency),
		ProgramID:     sess.Metadata["programId"],
	}, nil
}
