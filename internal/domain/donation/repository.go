package donation

import (
	"context"
)

// Repository defines the interface for donation data access.
//
// All mutations are keyed by the provider-assigned external reference id,
// which carries a uniqueness constraint in the store.
type Repository interface {
	GetByExternalRef(ctx context.Context, externalRef string) (*Donation, error)
	// GetOrCreate inserts a pending donation or, when another writer won the
	// insert race, returns the existing row. The uniqueness conflict is never
	// surfaced to the caller.
	GetOrCreate(ctx context.Context, params CreateParams) (*Donation, error)
	// ApplyStatus writes a non-terminal status transition. Rows already in
	// completed status are left untouched and returned as-is; metadata is
	// merged, never replaced.
	ApplyStatus(ctx context.Context, externalRef string, params ApplyParams) (*Donation, error)
	// CompleteAndCredit marks the donation completed and credits the owning
	// organization's balance in one atomic unit of work. The returned bool
	// reports whether the credit was applied by this call; a donation whose
	// balance was already applied is returned unchanged with false.
	CompleteAndCredit(ctx context.Context, externalRef string, amount float64, receiptURL *string, metadata map[string]string) (*Donation, bool, error)
	// MergeMetadata unions new provider fields into the stored metadata
	// without touching status or amount.
	MergeMetadata(ctx context.Context, externalRef string, metadata map[string]string) (*Donation, error)
	ListByOrganizationID(ctx context.Context, organizationID int64, limit, offset int) ([]*Donation, error)
	ListByDonorID(ctx context.Context, donorID int64, limit, offset int) ([]*Donation, error)
}
