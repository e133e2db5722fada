package reconcile

import (
	"log"

	"giveflow/internal/domain/donation"
	"giveflow/internal/domain/subscription"
)

// paymentStatusMap is the fixed table from the provider's payment vocabulary
// to the local donation status enum. Anything the provider adds later falls
// through to pending so a provider API addition never breaks reconciliation.
var paymentStatusMap = map[string]donation.Status{
	"succeeded":               donation.StatusCompleted,
	"payment_failed":          donation.StatusFailed,
	"failed":                  donation.StatusFailed,
	"canceled":                donation.StatusCancelled,
	"processing":              donation.StatusPending,
	"requires_payment_method": donation.StatusPending,
	"requires_confirmation":   donation.StatusPending,
	"requires_action":         donation.StatusPending,
	"requires_capture":        donation.StatusPending,
}

// MapPaymentStatus maps a provider payment status to the local enum.
// Unknown statuses map to pending and are logged for review.
func MapPaymentStatus(providerStatus string) donation.Status {
	if mapped, ok := paymentStatusMap[providerStatus]; ok {
		return mapped
	}
	log.Printf("Unknown provider payment status %q, defaulting to pending", providerStatus)
	return donation.StatusPending
}

var subscriptionStatusMap = map[string]subscription.Status{
	"active":     subscription.StatusActive,
	"trialing":   subscription.StatusTrialing,
	"past_due":   subscription.StatusPastDue,
	"canceled":   subscription.StatusCanceled,
	"incomplete": subscription.StatusIncomplete,
	"unpaid":     subscription.StatusUnpaid,
}

// MapSubscriptionStatus maps a provider subscription status to the local
// enum. The cancel-at-period-end flag refines an active agreement into
// canceled_at_period_end. Unknown statuses map to incomplete and are logged.
func MapSubscriptionStatus(providerStatus string, cancelAtPeriodEnd bool) subscription.Status {
	mapped, ok := subscriptionStatusMap[providerStatus]
	if !ok {
		log.Printf("Unknown provider subscription status %q, defaulting to incomplete", providerStatus)
		return subscription.StatusIncomplete
	}
	if mapped == subscription.StatusActive && cancelAtPeriodEnd {
		return subscription.StatusCanceledAtPeriodEnd
	}
	return mapped
}
