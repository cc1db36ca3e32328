package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeClient creates card payment intents through the Stripe API.
type StripeClient struct {
	api *client.API
}

// NewStripeClient constructs a StripeClient from the configured secret key.
func NewStripeClient(secretKey string) (*StripeClient, error) {
	if strings.TrimSpace(secretKey) == "" {
		return nil, errors.New("stripe secret key is required")
	}

	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeClient{api: api}, nil
}

// CreateIntent stages a usd card charge for the given amount in minor units
// and returns the client secret the browser needs to confirm it.
func (c *StripeClient) CreateIntent(ctx context.Context, amount int64) (string, error) {
	if c == nil || c.api == nil {
		return "", errors.New("stripe client is not initialized")
	}
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if amount <= 0 {
		return "", fmt.Errorf("amount must be positive, got %d", amount)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
	}
	params.Context = ctx

	intent, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}

	return intent.ClientSecret, nil
}
