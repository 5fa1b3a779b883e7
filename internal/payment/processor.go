// Package payment is the card-processor client. The backend issues a payment
// authorization (client secret); this package hands the card details and that
// authorization to the processor's confirm endpoint. The processor settles
// with the card network itself; the storefront only learns the outcome.
package payment

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

	"storefront/internal/logging"
)

// Card is the card input collected by the payment page. Never persisted.
type Card struct {
	Number   string `json:"number"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
	CVC      string `json:"cvc"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Intent is the processor's view of a payment intent after confirmation.
type Intent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount int64  `json:"amount"`
}

// ProcessorError is a decline or other processor-reported failure. Its
// message is shown to the user as-is.
type ProcessorError struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ProcessorError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("payment failed (%s)", e.Code)
}

type errorEnvelope struct {
	Error *ProcessorError `json:"error"`
}

// Client confirms card payments against the processor API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logging.Logger
}

// New creates a processor client.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     logging.Get(logging.CategoryCheckout),
	}
}

// IntentIDFromSecret extracts the intent id from a client secret of the form
// pi_123_secret_456.
func IntentIDFromSecret(clientSecret string) (string, error) {
	idx := strings.Index(clientSecret, "_secret_")
	if !strings.HasPrefix(clientSecret, "pi_") || idx < 0 {
		return "", fmt.Errorf("malformed client secret")
	}
	return clientSecret[:idx], nil
}

// ConfirmCardPayment confirms the intent identified by clientSecret with the
// given card. A processor decline comes back as *ProcessorError; anything
// else is a transport or protocol failure.
func (c *Client) ConfirmCardPayment(ctx context.Context, clientSecret string, card Card) (Intent, error) {
	intentID, err := IntentIDFromSecret(clientSecret)
	if err != nil {
		return Intent{}, err
	}

	payload := map[string]interface{}{
		"client_secret": clientSecret,
		"payment_method": map[string]interface{}{
			"card": card,
			"billing_details": map[string]string{
				"name":  card.Name,
				"email": card.Email,
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Intent{}, fmt.Errorf("encode confirm request: %w", err)
	}

	u := fmt.Sprintf("%s/v1/payment_intents/%s/confirm", c.baseURL, intentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return Intent{}, fmt.Errorf("build confirm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Intent{}, fmt.Errorf("confirm payment: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Intent{}, fmt.Errorf("read confirm response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env errorEnvelope
		if json.Unmarshal(data, &env) == nil && env.Error != nil {
			c.log.Warn("processor declined intent %s: %s", intentID, env.Error.Message)
			return Intent{}, env.Error
		}
		return Intent{}, fmt.Errorf("confirm payment: HTTP %d", resp.StatusCode)
	}

	var intent Intent
	if err := json.Unmarshal(data, &intent); err != nil {
		return Intent{}, fmt.Errorf("decode confirm response: %w", err)
	}
	if intent.Status != "succeeded" {
		return intent, &ProcessorError{
			Code:    "intent_not_succeeded",
			Message: fmt.Sprintf("payment not completed (status %s)", intent.Status),
		}
	}
	return intent, nil
}

// IsDecline reports whether err is a processor-reported failure rather than a
// transport problem.
func IsDecline(err error) bool {
	var pe *ProcessorError
	return errors.As(err, &pe)
}
