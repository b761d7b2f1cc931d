package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/careerhub/careerhub/internal/metrics"
	"github.com/careerhub/careerhub/internal/payment"
)

// Payment errors.
var (
	ErrInvalidPrice     = errors.New("price must be a positive amount")
	ErrPaymentsDisabled = errors.New("payments are not configured")
)

// IntentCreator creates payment intents with a provider.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (*payment.Intent, error)
}

// PaymentService turns a displayed price into a provider payment intent.
type PaymentService struct {
	creator IntentCreator
	metrics metrics.Recorder
}

// NewPaymentService creates a new PaymentService. A nil creator disables payments.
func NewPaymentService(creator IntentCreator, recorder metrics.Recorder) *PaymentService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &PaymentService{creator: creator, metrics: recorder}
}

// CreateIntent charges price dollars in USD by card.
func (s *PaymentService) CreateIntent(ctx context.Context, price float64) (*payment.Intent, error) {
	if s.creator == nil {
		return nil, ErrPaymentsDisabled
	}

	amount, err := toCents(price)
	if err != nil {
		return nil, err
	}

	intent, err := s.creator.CreateIntent(ctx, amount, payment.CurrencyUSD)
	if err != nil {
		s.metrics.IncPaymentIntentCreated("failed")
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	s.metrics.IncPaymentIntentCreated("success")
	return intent, nil
}

// maxAmountCents is the largest amount Stripe accepts for USD charges.
const maxAmountCents = 99999999

// toCents converts a dollar price to whole cents, rounding to the nearest cent.
func toCents(price float64) (int64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, ErrInvalidPrice
	}
	cents := math.Round(price * 100)
	if cents < 1 || cents > maxAmountCents {
		return 0, ErrInvalidPrice
	}
	return int64(cents), nil
}
