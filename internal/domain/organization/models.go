package organization

import (
	"time"
)

// Organization is the counterparty credited by completed donations.
// Balance is a running total maintained by the reconciliation routine:
// it equals the sum of completed donation amounts credited exactly once each.
type Organization struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateParams struct {
	Name  string
	Email string
}
