package http

import (
	"encoding/json"
	"net/http"

	"giveflow/internal/domain/donation"
	"giveflow/internal/domain/reconcile"
)

// ReconcileHandler exposes operator-triggered repair for payments whose
// webhooks were missed. Unlike the webhook endpoint, failures surface
// directly to the caller.
type ReconcileHandler struct {
	service *reconcile.Service
}

func NewReconcileHandler(service *reconcile.Service) *ReconcileHandler {
	return &ReconcileHandler{service: service}
}

type reconcileRequest struct {
	ExternalRef    string  `json:"externalRef"`
	DonorID        int64   `json:"donorId"`
	OrganizationID int64   `json:"organizationId"`
	Kind           string  `json:"kind"` // "donation" (default) or "subscription"
	ExpectedAmount float64 `json:"expectedAmount,omitempty"`
	Currency       string  `json:"currency,omitempty"`
	Method         string  `json:"method,omitempty"`
	PackageID      *int64  `json:"packageId,omitempty"`
}

// HandleReconcile runs one reconciliation pass for an explicit external
// reference id.
func (h *ReconcileHandler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req reconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	switch req.Kind {
	case "subscription":
		outcome, err := h.service.ReconcileSubscription(r.Context(), reconcile.SubscriptionParams{
			ExternalRef:    req.ExternalRef,
			DonorID:        req.DonorID,
			OrganizationID: req.OrganizationID,
			PackageID:      req.PackageID,
		})
		if err != nil {
			writeReconcileError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, outcome)

	case "", "donation":
		method := donation.MethodCard
		if req.Method == string(donation.MethodBankDebit) {
			method = donation.MethodBankDebit
		}
		currency := req.Currency
		if currency == "" {
			currency = "USD"
		}
		outcome, err := h.service.ReconcileDonation(r.Context(), reconcile.DonationParams{
			ExternalRef:    req.ExternalRef,
			DonorID:        req.DonorID,
			OrganizationID: req.OrganizationID,
			ExpectedAmount: req.ExpectedAmount,
			Currency:       currency,
			Method:         method,
		})
		if err != nil {
			writeReconcileError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, outcome)

	default:
		http.Error(w, "kind must be donation or subscription", http.StatusBadRequest)
	}
}
