package payments

// Currency is fixed for every purchase the studio takes.
const Currency = "inr"

// PaymentIntentParams is what the adapter sends to the provider to open an
// embedded card checkout. Amount is in paise.
type PaymentIntentParams struct {
	Amount         int64
	ProgramID      string
	IdempotencyKey string
}

// PaymentIntentResult carries the client secret the browser needs to mount
// the provider's payment element.
type PaymentIntentResult struct {
	ID           string `json:"id,omitempty"`
	ClientSecret string `json:"clientSecret"`
}

// CheckoutSessionParams describes a hosted checkout session.
type CheckoutSessionParams struct {
	LineItem       LineItemSpec
	ProgramID      string
	SuccessURL     string
	CancelURL      string
	IdempotencyKey string
}

type CheckoutSessionResult struct {
	ID  string `json:"id,omitempty"`
	URL string `json:"url"`
}

// SessionStatus is the provider's view of a checkout session, used by the
// success page to confirm payment server-side.
type SessionStatus struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	AmountTotal   int64  `json:"amountTotal"`
	Currency      string `json:"currency"`
	ProgramID     string `json:"programId,omitempty"`
}

// Paid reports whether the provider has collected the money.
func (s SessionStatus) Paid() bool {
	return s.PaymentStatus == "paid" || s.PaymentStatus == "no_payment_required"
}

type ReadinessStatus struct {
	CredentialAvailable bool `json:"credentialAvailable"`
	GatewayInitialized  bool `json:"gatewayInitialized"`
}
