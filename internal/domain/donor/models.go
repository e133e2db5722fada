package donor

import (
	"time"
)

// Donor is the owner of donations and subscriptions.
type Donor struct {
	ID                 int64     `json:"id"`
	Email              string    `json:"email"`
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	ProviderCustomerID *string   `json:"providerCustomerId,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type CreateParams struct {
	Email              string
	FirstName          string
	LastName           string
	ProviderCustomerID *string
}
