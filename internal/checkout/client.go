package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultTimeout = 8 * time.Second

// APIError is a non-2xx answer from the payment server.
type APIError struct {
	Status  int
	Message string
	Type    string
	Code    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("payment api: http=%d code=%s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("payment api: http=%d: %s", e.Status, e.Message)
}

// Unavailable reports whether the server said its gateway is not configured.
func (e *APIError) Unavailable() bool {
	return e.Code == "stripe_not_initialized"
}

// Client calls the payment server's purchase endpoints.
type Client struct {
	BaseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type PingResponse struct {
	Status              string    `json:"status"`
	Timestamp           time.Time `json:"timestamp"`
	CredentialAvailable bool      `json:"credentialAvailable"`
	GatewayInitialized  bool      `json:"gatewayInitialized"`
}

func (c *Client) Ping(ctx context.Context) (PingResponse, error) {
	var out PingResponse
	err := c.do(ctx, http.MethodGet, "/ping", nil, "", &out)
	return out, err
}

// CreatePaymentIntent posts {amount, programId} and returns the client secret.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount int64, programID, idempotencyKey string) (string, error) {
	payload := map[string]any{
		"amount":    amount,
		"programId": programID,
	}

	var out struct {
		ClientSecret string `json:"clientSecret"`
	}
	if err := c.do(ctx, http.MethodPost, "/create-payment-intent", payload, idempotencyKey, &out); err != nil {
		return "", err
	}
	if out.ClientSecret == "" {
		return "", errors.New("payment api: response without clientSecret")
	}
	return out.ClientSecret, nil
}

// CreateCheckoutSession posts to the JSON checkout endpoint and returns the
// hosted checkout URL.
func (c *Client) CreateCheckoutSession(ctx context.Context, p Purchase, idempotencyKey string) (string, error) {
	payload := map[string]any{
		"programId": p.ProgramID,
		"amount":    p.Amount,
	}
	if p.Name != "" {
		payload["name"] = p.Name
	}
	if p.Description != "" {
		payload["description"] = p.Description
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/create-checkout-session", payload, idempotencyKey, &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", errors.New("payment api: response without url")
	}
	return out.URL, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, idempotencyKey string, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("payment api %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("payment api %s read: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("payment api %s decode: %w body=%s", path, err, string(raw))
	}
	return nil
}

// decodeAPIError understands both {"error":"msg"} and
// {"error":{"message","type","code"}} bodies.
func decodeAPIError(status int, raw []byte) error {
	apiErr := &APIError{Status: status}

	var env struct {
		Error json.RawMessage `json:"error"`
		Code  string          `json:"code"`
	}
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Error) == 0 {
		apiErr.Message = strings.TrimSpace(string(raw))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
		return apiErr
	}
	apiErr.Code = env.Code

	var msg string
	if err := json.Unmarshal(env.Error, &msg); err == nil {
		apiErr.Message = msg
		return apiErr
	}

	var detail struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(env.Error, &detail); err == nil {
		apiErr.Message = detail.Message
		apiErr.Type = detail.Type
		if detail.Code != "" {
			apiErr.Code = detail.Code
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
