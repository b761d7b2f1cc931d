// Package payment creates payment intents with Stripe.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// CurrencyUSD is the only currency the portal charges in.
const CurrencyUSD = string(stripe.CurrencyUSD)

// ErrDeclined is returned when Stripe rejects the request itself
// (card errors, invalid amounts) as opposed to transport failures.
var ErrDeclined = errors.New("payment intent declined")

// Intent is the subset of a Stripe PaymentIntent the API hands back.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
}

// StripeGateway creates PaymentIntents through the Stripe API.
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway creates a gateway authenticated with the given secret key.
func NewStripeGateway(secretKey string) *StripeGateway {
	return NewStripeGatewayWithBackends(secretKey, nil)
}

// NewStripeGatewayWithBackends creates a gateway that talks to custom
// backends. A nil backends uses the public Stripe API.
func NewStripeGatewayWithBackends(secretKey string, backends *stripe.Backends) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, backends)
	return &StripeGateway{api: api}
}

// CreateIntent creates a card PaymentIntent for amount, in the currency's
// smallest unit.
func (g *StripeGateway) CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && isClientError(stripeErr.HTTPStatusCode) {
			return nil, fmt.Errorf("%w: %s", ErrDeclined, stripeErr.Msg)
		}
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}

func isClientError(status int) bool {
	return status >= 400 && status < 500 && status != 429
}
