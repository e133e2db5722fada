package operator

import (
	"context"
	"time"
)

// Operator is a staff account allowed to trigger manual reconciliation
// and manage donors/organizations.
type Operator struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreateParams struct {
	Email        string
	Name         string
	PasswordHash string
}

// Repository defines the interface for operator data access.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Operator, error)
	Create(ctx context.Context, params CreateParams) (*Operator, error)
}
