package reconcile

import (
	"testing"

	"giveflow/internal/domain/donation"
	"giveflow/internal/domain/subscription"
)

func TestMapPaymentStatus(t *testing.T) {
	tests := []struct {
		name           string
		providerStatus string
		want           donation.Status
	}{
		{"Succeeded maps to completed", "succeeded", donation.StatusCompleted},
		{"Payment failed maps to failed", "payment_failed", donation.StatusFailed},
		{"Failed maps to failed", "failed", donation.StatusFailed},
		{"Canceled maps to cancelled", "canceled", donation.StatusCancelled},
		{"Processing maps to pending", "processing", donation.StatusPending},
		{"Requires payment method maps to pending", "requires_payment_method", donation.StatusPending},
		{"Requires confirmation maps to pending", "requires_confirmation", donation.StatusPending},
		{"Requires action maps to pending", "requires_action", donation.StatusPending},
		{"Requires capture maps to pending", "requires_capture", donation.StatusPending},
		{"Unknown status maps to pending", "some_future_status", donation.StatusPending},
		{"Empty status maps to pending", "", donation.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapPaymentStatus(tt.providerStatus); got != tt.want {
				t.Errorf("MapPaymentStatus(%q) = %s, want %s", tt.providerStatus, got, tt.want)
			}
		})
	}
}

func TestMapSubscriptionStatus(t *testing.T) {
	tests := []struct {
		name              string
		providerStatus    string
		cancelAtPeriodEnd bool
		want              subscription.Status
	}{
		{"Active maps to active", "active", false, subscription.StatusActive},
		{"Active with pending cancel refines", "active", true, subscription.StatusCanceledAtPeriodEnd},
		{"Trialing maps to trialing", "trialing", false, subscription.StatusTrialing},
		{"Trialing ignores cancel flag", "trialing", true, subscription.StatusTrialing},
		{"Past due maps to past_due", "past_due", false, subscription.StatusPastDue},
		{"Canceled maps to canceled", "canceled", false, subscription.StatusCanceled},
		{"Canceled ignores cancel flag", "canceled", true, subscription.StatusCanceled},
		{"Incomplete maps to incomplete", "incomplete", false, subscription.StatusIncomplete},
		{"Unpaid maps to unpaid", "unpaid", false, subscription.StatusUnpaid},
		{"Unknown status maps to incomplete", "paused", false, subscription.StatusIncomplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapSubscriptionStatus(tt.providerStatus, tt.cancelAtPeriodEnd); got != tt.want {
				t.Errorf("MapSubscriptionStatus(%q, %t) = %s, want %s",
					tt.providerStatus, tt.cancelAtPeriodEnd, got, tt.want)
			}
		})
	}
}
