package payment

import (
	"context"
)

// ClientInterface defines the contract for the payment provider client.
// This interface allows for mocking in tests.
type ClientInterface interface {
	// GetPaymentIntent fetches the authoritative state of a payment by its
	// provider-assigned id. Returns ErrNotFound (wrapped) when the provider
	// does not know the id and ErrUnavailable (wrapped) on timeouts or
	// 5xx-class responses.
	GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error)
	// GetSubscription fetches the authoritative state of a recurring
	// agreement by its provider-assigned id. Same error contract as
	// GetPaymentIntent.
	GetSubscription(ctx context.Context, id string) (*Subscription, error)
}
