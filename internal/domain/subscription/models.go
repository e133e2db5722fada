package subscription

import (
	"time"
)

// Status is the local lifecycle state of a recurring-payment agreement.
type Status string

const (
	StatusActive              Status = "active"
	StatusTrialing            Status = "trialing"
	StatusPastDue             Status = "past_due"
	StatusCanceled            Status = "canceled"
	StatusCanceledAtPeriodEnd Status = "canceled_at_period_end"
	StatusIncomplete          Status = "incomplete"
	StatusUnpaid              Status = "unpaid"
)

// IsTerminal reports whether the agreement can never change state again.
// Reactivation happens through a brand-new external reference id.
func (s Status) IsTerminal() bool {
	return s == StatusCanceled
}

type Subscription struct {
	ID                 int64             `json:"id"`
	ExternalRef        string            `json:"externalRef"` // Provider's subscription id, unique
	DonorID            int64             `json:"donorId"`
	OrganizationID     int64             `json:"organizationId"`
	PackageID          *int64            `json:"packageId,omitempty"`
	Status             Status            `json:"status"`
	Amount             float64           `json:"amount"`
	IntervalUnit       string            `json:"intervalUnit"` // "day", "week", "month", "year"
	IntervalCount      int               `json:"intervalCount"`
	CurrentPeriodStart *time.Time        `json:"currentPeriodStart,omitempty"`
	CurrentPeriodEnd   *time.Time        `json:"currentPeriodEnd,omitempty"`
	CancelAtPeriodEnd  bool              `json:"cancelAtPeriodEnd"`
	Metadata           map[string]string `json:"metadata,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// CreateParams holds the fields for the first observation of an agreement.
type CreateParams struct {
	ExternalRef    string
	DonorID        int64
	OrganizationID int64
	PackageID      *int64
	Amount         float64
	IntervalUnit   string
	IntervalCount  int
	Metadata       map[string]string
}

// ApplyParams carries provider-derived state for an update.
type ApplyParams struct {
	Status             Status
	Amount             float64
	IntervalUnit       string
	IntervalCount      int
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	CancelAtPeriodEnd  bool
	Metadata           map[string]string
}
