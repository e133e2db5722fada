package donor

import (
	"context"
)

// Repository defines the interface for donor data access.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Donor, error)
	GetByID(ctx context.Context, id int64) (*Donor, error)
	GetByEmail(ctx context.Context, email string) (*Donor, error)
	List(ctx context.Context, limit, offset int) ([]*Donor, error)
}
