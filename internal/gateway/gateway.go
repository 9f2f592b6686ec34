// Package gateway talks to the external Razorpay-style payment processor.
// Only payment-intent creation goes over the wire; callback verification is
// handled locally by the payment package.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// IntentRequest asks the gateway to create a payment intent. Amount is in
// the currency's smallest unit, already rounded.
type IntentRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Intent is the gateway's record of a created payment intent.
type Intent struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type PaymentGateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}

type restClient struct {
	http      *http.Client
	baseURL   string
	keyID     string
	keySecret string
}

// NewRestClient builds a PaymentGateway over the gateway's REST API,
// authenticated with the key id/secret pair. Requests carry a bounded
// timeout independent of the caller's context.
func NewRestClient(baseURL, keyID, keySecret string) PaymentGateway {
	return &restClient{
		http:      &http.Client{Timeout: 10 * time.Second},
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
	}
}

func (c *restClient) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(c.keyID, c.keySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a bounded slice of the body for the error message; the
		// gateway's error text never contains our credentials.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("payment gateway returned %d: %s", resp.StatusCode, msg)
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}
	return &intent, nil
}
