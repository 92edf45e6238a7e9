package payments

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v79/webhook"
)

var ErrWebhookDisabled = errors.New("payments: webhook secret not configured")

// WebhookEvent is the subset of a provider event the server logs.
type WebhookEvent struct {
	ID            string
	Type          string
	ObjectID      string
	ProgramID     string
	Amount        int64
	PaymentStatus string
}

type WebhookVerifier struct {
	secret string
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret}
}

func (v *WebhookVerifier) Enabled() bool { return v != nil && v.secret != "" }

// Verify checks the Stripe-Signature header against the endpoint secret and
// decodes the event.
func (v *WebhookVerifier) Verify(payload []byte, signature string) (WebhookEvent, error) {
	if !v.Enabled() {
		return WebhookEvent{}, ErrWebhookDisabled
	}

	evt, err := webhook.ConstructEventWithOptions(payload, signature, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return WebhookEvent{}, invalid(fmt.Sprintf("webhook signature verification failed: %v", err))
	}

	out := WebhookEvent{ID: evt.ID, Type: string(evt.Type)}
	if evt.Data == nil || len(evt.Data.Raw) == 0 {
		return out, nil
	}

	var obj struct {
		ID            string            `json:"id"`
		Amount        int64             `json:"amount"`
		AmountTotal   int64             `json:"amount_total"`
		PaymentStatus string            `json:"payment_status"`
		Status        string            `json:"status"`
		Metadata      map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(evt.Data.Raw, &obj); err != nil {
		return WebhookEvent{}, invalid(fmt.Sprintf("webhook object decode: %v", err))
	}

	out.ObjectID = obj.ID
	out.ProgramID = obj.Metadata["programId"]
	out.Amount = obj.AmountTotal
	if out.Amount == 0 {
		out.Amount = obj.Amount
	}
	out.PaymentStatus = obj.PaymentStatus
	if out.PaymentStatus == "" {
		out.PaymentStatus = obj.Status
	}
	return out, nil
}
