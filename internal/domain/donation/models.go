package donation

import (
	"time"
)

// Status is the local lifecycle state of a donation payment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsTerminalSuccess reports whether the status must never be overwritten.
func (s Status) IsTerminalSuccess() bool {
	return s == StatusCompleted
}

// Method identifies how the money moves.
type Method string

const (
	MethodCard      Method = "card"
	MethodBankDebit Method = "bank_debit"
)

type Donation struct {
	ID             int64             `json:"id"`
	ExternalRef    string            `json:"externalRef"` // Provider's payment intent id, unique
	DonorID        int64             `json:"donorId"`
	OrganizationID int64             `json:"organizationId"`
	Amount         float64           `json:"amount"`
	Currency       string            `json:"currency"`
	Method         Method            `json:"method"`
	Status         Status            `json:"status"`
	BalanceApplied bool              `json:"balanceApplied"`
	ReceiptURL     *string           `json:"receiptUrl,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// CreateParams holds the fields for a first observation of a payment.
// Status always starts as pending; reconciliation moves it forward.
type CreateParams struct {
	ExternalRef    string
	DonorID        int64
	OrganizationID int64
	Amount         float64
	Currency       string
	Method         Method
	Metadata       map[string]string
}

// ApplyParams carries provider-derived state for a non-terminal update.
type ApplyParams struct {
	Status     Status
	Amount     float64
	ReceiptURL *string
	Metadata   map[string]string
}
