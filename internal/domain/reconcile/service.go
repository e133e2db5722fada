package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log"

	"giveflow/internal/domain/donation"
	"giveflow/internal/domain/donor"
	"giveflow/internal/domain/organization"
	"giveflow/internal/domain/subscription"
	"giveflow/internal/infrastructure/payment"
)

// Service brings local donation and subscription records into agreement
// with the payment provider's source of truth. Every invocation is
// stateless: all decisions derive from the provider's current response and
// the local row, read fresh.
type Service struct {
	client       payment.ClientInterface
	donationRepo donation.Repository
	subRepo      subscription.Repository
	donorRepo    donor.Repository
	orgRepo      organization.Repository
}

// NewService creates a new reconciliation service. The provider client is
// injected; its lifecycle belongs to the process bootstrap.
func NewService(
	client payment.ClientInterface,
	donationRepo donation.Repository,
	subRepo subscription.Repository,
	donorRepo donor.Repository,
	orgRepo organization.Repository,
) *Service {
	return &Service{
		client:       client,
		donationRepo: donationRepo,
		subRepo:      subRepo,
		donorRepo:    donorRepo,
		orgRepo:      orgRepo,
	}
}

// DonationParams identifies the payment to reconcile and carries enough
// context to create the local record on first observation.
type DonationParams struct {
	ExternalRef    string
	DonorID        int64
	OrganizationID int64
	ExpectedAmount float64
	Currency       string
	Method         donation.Method
}

// DonationOutcome is the result of one reconciliation pass.
type DonationOutcome struct {
	Donation *donation.Donation `json:"donation"`
	// Credited reports whether the organization balance was incremented by
	// this invocation. At most one invocation per external reference id
	// ever reports true.
	Credited bool `json:"credited"`
}

// ReconcileDonation fetches the authoritative payment state and brings the
// local record into agreement, applying the balance credit exactly once on
// the first transition into completed.
//
// A record already in completed status never regresses, regardless of what
// the provider reports afterwards (guards against out-of-order or duplicate
// webhook delivery). Provider metadata is merged, never replaced.
func (s *Service) ReconcileDonation(ctx context.Context, params DonationParams) (*DonationOutcome, error) {
	if err := s.validateDonationParams(ctx, params); err != nil {
		return nil, err
	}

	local, err := s.donationRepo.GetByExternalRef(ctx, params.ExternalRef)
	if err != nil {
		return nil, fmt.Errorf("failed to look up donation %s: %w", params.ExternalRef, err)
	}

	// Provider is consulted before any local write so an id unknown to the
	// provider never leaves a local record behind.
	intent, err := s.client.GetPaymentIntent(ctx, params.ExternalRef)
	if err != nil {
		return nil, s.translateProviderError(params.ExternalRef, err)
	}

	amount, err := intent.GetAmount()
	if err != nil {
		return nil, fmt.Errorf("provider returned unparseable amount for %s: %w", params.ExternalRef, err)
	}

	if local == nil {
		// First observation: the insert races any concurrent webhook
		// delivery; the loser transparently receives the winner's row.
		local, err = s.donationRepo.GetOrCreate(ctx, donation.CreateParams{
			ExternalRef:    params.ExternalRef,
			DonorID:        params.DonorID,
			OrganizationID: params.OrganizationID,
			Amount:         params.ExpectedAmount,
			Currency:       params.Currency,
			Method:         params.Method,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create donation %s: %w", params.ExternalRef, err)
		}
	}

	mapped := MapPaymentStatus(intent.Status)

	var receiptURL *string
	if intent.ReceiptURL != "" {
		receiptURL = &intent.ReceiptURL
	}

	// Forward-only transition rule: completed is terminal. A later pass may
	// still pick up new diagnostic metadata, but never the status.
	if local.Status.IsTerminalSuccess() {
		merged, err := s.donationRepo.MergeMetadata(ctx, params.ExternalRef, intent.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to merge metadata for %s: %w", params.ExternalRef, err)
		}
		return &DonationOutcome{Donation: merged, Credited: false}, nil
	}

	if mapped == donation.StatusCompleted {
		updated, credited, err := s.donationRepo.CompleteAndCredit(ctx, params.ExternalRef, amount, receiptURL, intent.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to complete donation %s: %w", params.ExternalRef, err)
		}
		if credited {
			log.Printf("Donation %s completed, credited %.2f %s to organization %d",
				params.ExternalRef, amount, local.Currency, local.OrganizationID)
		}
		return &DonationOutcome{Donation: updated, Credited: credited}, nil
	}

	updated, err := s.donationRepo.ApplyStatus(ctx, params.ExternalRef, donation.ApplyParams{
		Status:     mapped,
		Amount:     amount,
		ReceiptURL: receiptURL,
		Metadata:   intent.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update donation %s: %w", params.ExternalRef, err)
	}
	return &DonationOutcome{Donation: updated, Credited: false}, nil
}

// SubscriptionParams identifies the agreement to reconcile.
type SubscriptionParams struct {
	ExternalRef    string
	DonorID        int64
	OrganizationID int64
	PackageID      *int64
}

// SubscriptionOutcome is the result of one subscription reconciliation pass.
type SubscriptionOutcome struct {
	Subscription *subscription.Subscription `json:"subscription"`
}

// ReconcileSubscription fetches the authoritative agreement state and brings
// the local record into agreement. Canceled is terminal; reactivation only
// happens through a brand-new external reference id.
func (s *Service) ReconcileSubscription(ctx context.Context, params SubscriptionParams) (*SubscriptionOutcome, error) {
	if params.ExternalRef == "" {
		return nil, validationError("external reference id is required")
	}
	if params.DonorID <= 0 || params.OrganizationID <= 0 {
		return nil, validationError("donor id and organization id must be positive")
	}
	if err := s.resolveOwners(ctx, params.DonorID, params.OrganizationID); err != nil {
		return nil, err
	}

	local, err := s.subRepo.GetByExternalRef(ctx, params.ExternalRef)
	if err != nil {
		return nil, fmt.Errorf("failed to look up subscription %s: %w", params.ExternalRef, err)
	}

	providerSub, err := s.client.GetSubscription(ctx, params.ExternalRef)
	if err != nil {
		return nil, s.translateProviderError(params.ExternalRef, err)
	}

	amount, err := providerSub.GetAmount()
	if err != nil {
		return nil, fmt.Errorf("provider returned unparseable amount for %s: %w", params.ExternalRef, err)
	}
	periodStart, err := providerSub.GetPeriodStart()
	if err != nil {
		return nil, fmt.Errorf("provider returned unparseable period for %s: %w", params.ExternalRef, err)
	}
	periodEnd, err := providerSub.GetPeriodEnd()
	if err != nil {
		return nil, fmt.Errorf("provider returned unparseable period for %s: %w", params.ExternalRef, err)
	}
	if periodStart != nil && periodEnd != nil && periodEnd.Before(*periodStart) {
		return nil, validationError("provider returned period end %s before period start %s for %s",
			periodEnd.Format("2006-01-02"), periodStart.Format("2006-01-02"), params.ExternalRef)
	}

	if local == nil {
		local, err = s.subRepo.GetOrCreate(ctx, subscription.CreateParams{
			ExternalRef:    params.ExternalRef,
			DonorID:        params.DonorID,
			OrganizationID: params.OrganizationID,
			PackageID:      params.PackageID,
			Amount:         amount,
			IntervalUnit:   providerSub.Interval,
			IntervalCount:  providerSub.IntervalCount,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create subscription %s: %w", params.ExternalRef, err)
		}
	}

	if local.Status.IsTerminal() {
		return &SubscriptionOutcome{Subscription: local}, nil
	}

	mapped := MapSubscriptionStatus(providerSub.Status, providerSub.CancelAtPeriodEnd)
	updated, err := s.subRepo.ApplyStatus(ctx, params.ExternalRef, subscription.ApplyParams{
		Status:             mapped,
		Amount:             amount,
		IntervalUnit:       providerSub.Interval,
		IntervalCount:      providerSub.IntervalCount,
		CurrentPeriodStart: periodStart,
		CurrentPeriodEnd:   periodEnd,
		CancelAtPeriodEnd:  providerSub.CancelAtPeriodEnd,
		Metadata:           providerSub.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update subscription %s: %w", params.ExternalRef, err)
	}
	return &SubscriptionOutcome{Subscription: updated}, nil
}

func (s *Service) validateDonationParams(ctx context.Context, params DonationParams) error {
	if params.ExternalRef == "" {
		return validationError("external reference id is required")
	}
	if params.DonorID <= 0 || params.OrganizationID <= 0 {
		return validationError("donor id and organization id must be positive")
	}
	return s.resolveOwners(ctx, params.DonorID, params.OrganizationID)
}

func (s *Service) resolveOwners(ctx context.Context, donorID, organizationID int64) error {
	d, err := s.donorRepo.GetByID(ctx, donorID)
	if err != nil {
		return fmt.Errorf("failed to resolve donor %d: %w", donorID, err)
	}
	if d == nil {
		return validationError("donor %d does not exist", donorID)
	}
	org, err := s.orgRepo.GetByID(ctx, organizationID)
	if err != nil {
		return fmt.Errorf("failed to resolve organization %d: %w", organizationID, err)
	}
	if org == nil {
		return validationError("organization %d does not exist", organizationID)
	}
	return nil
}

func (s *Service) translateProviderError(externalRef string, err error) error {
	switch {
	case errors.Is(err, payment.ErrNotFound):
		return notFoundError(externalRef, err)
	case errors.Is(err, payment.ErrUnavailable):
		return providerUnavailableError(err)
	default:
		return fmt.Errorf("provider call failed for %s: %w", externalRef, err)
	}
}
