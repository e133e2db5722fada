package organization

import (
	"context"
)

// Repository defines the interface for organization data access.
// Balance credits happen inside the donation repository's completion
// transaction, not here.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Organization, error)
	GetByID(ctx context.Context, id int64) (*Organization, error)
	List(ctx context.Context, limit, offset int) ([]*Organization, error)
}
