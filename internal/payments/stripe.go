package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var ErrNotConfigured = errors.New("stripe secret key not configured")

// StripeIntents creates card payment intents through the Stripe API.
type StripeIntents struct {
	sc *client.API
}

// NewStripeIntents returns a client for key. An empty key yields a client
// whose calls fail with ErrNotConfigured.
func NewStripeIntents(key string) *StripeIntents {
	if key == "" {
		return &StripeIntents{}
	}
	return &StripeIntents{sc: client.New(key, nil)}
}

func (s *StripeIntents) CreateCardIntent(ctx context.Context, amount int64, currency string) (string, error) {
	if s.sc == nil {
		return "", ErrNotConfigured
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := s.sc.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return pi.ClientSecret, nil
}
