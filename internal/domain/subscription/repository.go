package subscription

import (
	"context"
)

// Repository defines the interface for subscription data access.
type Repository interface {
	GetByExternalRef(ctx context.Context, externalRef string) (*Subscription, error)
	// GetOrCreate inserts an incomplete subscription or returns the existing
	// row when another writer won the insert race.
	GetOrCreate(ctx context.Context, params CreateParams) (*Subscription, error)
	// ApplyStatus writes provider-derived state. Rows already canceled are
	// left untouched and returned as-is; metadata is merged, never replaced.
	ApplyStatus(ctx context.Context, externalRef string, params ApplyParams) (*Subscription, error)
	ListByOrganizationID(ctx context.Context, organizationID int64, limit, offset int) ([]*Subscription, error)
	ListByDonorID(ctx context.Context, donorID int64, limit, offset int) ([]*Subscription, error)
}
