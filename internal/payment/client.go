// Package payment creates payment intents with the external processor and
// records the correlation fields on the order.
package payment

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
)

// Intent is the processor's handle for a payment attempt.
type Intent struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret,omitempty"`
}

// Client talks to the payment processor's HTTP API.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
}

func NewClient(apiURL, apiKey string) *Client {
	http := resty.New().
		SetBaseURL(apiURL).
		SetAuthToken(apiKey).
		SetTimeout(10 * time.Second)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "payment-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &Client{http: http, breaker: breaker}
}

// CreateIntent registers a payment intent for the amount. The idempotency
// key guards against double charges on retried requests.
func (c *Client) CreateIntent(amount decimal.Decimal, currency, orderRef string) (Intent, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		var intent Intent
		resp, err := c.http.R().
			SetHeader("Idempotency-Key", uuid.New().String()).
			SetBody(map[string]any{
				// processors take the amount in minor units
				"amount":   amount.Mul(decimal.NewFromInt(100)).IntPart(),
				"currency": currency,
				"metadata": map[string]string{"order_ref": orderRef},
			}).
			SetResult(&intent).
			Post("/v1/payment_intents")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("payment api returned %s", resp.Status())
		}
		return intent, nil
	})
	if err != nil {
		return Intent{}, err
	}
	return result.(Intent), nil
}
