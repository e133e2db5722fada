package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"giveflow/internal/domain/donation"
	"giveflow/internal/domain/reconcile"
)

const (
	webhookBodyLimit       = 1024 * 1024 // 1 MiB
	webhookSignatureHeader = "X-Payment-Signature"
)

// WebhookHandler receives provider-originated event notifications.
//
// Delivery is at-least-once and possibly out of order, so the handler is a
// thin adapter: verify the signature, extract the external reference id, run
// reconciliation, and acknowledge with 200 regardless of internal outcome to
// keep the provider from building a retry storm. Internal failures go to the
// log only.
type WebhookHandler struct {
	service *reconcile.Service
	secret  []byte
}

func NewWebhookHandler(service *reconcile.Service, secret string) *WebhookHandler {
	return &WebhookHandler{service: service, secret: []byte(secret)}
}

type webhookEvent struct {
	ID   string           `json:"id"`
	Type string           `json:"type"`
	Data webhookEventData `json:"data"`
}

type webhookEventData struct {
	ID             string `json:"id"` // External reference id
	DonorID        int64  `json:"donor_id"`
	OrganizationID int64  `json:"organization_id"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	Method         string `json:"payment_method_type"`
	PackageID      *int64 `json:"package_id,omitempty"`
}

// HandleEvent processes one webhook delivery.
//
// SECURITY: the signature check is the authentication mechanism for this
// endpoint; there is no other credential on provider requests.
func (h *WebhookHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	if !h.verifySignature(body, r.Header.Get(webhookSignatureHeader)) {
		http.Error(w, "Invalid signature", http.StatusBadRequest)
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "Invalid event payload", http.StatusBadRequest)
		return
	}
	if event.Data.ID == "" {
		http.Error(w, "Event is missing an external reference id", http.StatusBadRequest)
		return
	}

	// From here on the delivery is acknowledged no matter what happens
	// internally; the provider's retries cannot fix our failures.
	h.process(r, event)

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *WebhookHandler) process(r *http.Request, event webhookEvent) {
	switch {
	case strings.HasPrefix(event.Type, "payment_intent."):
		method := donation.MethodCard
		if event.Data.Method == string(donation.MethodBankDebit) {
			method = donation.MethodBankDebit
		}
		outcome, err := h.service.ReconcileDonation(r.Context(), reconcile.DonationParams{
			ExternalRef:    event.Data.ID,
			DonorID:        event.Data.DonorID,
			OrganizationID: event.Data.OrganizationID,
			Currency:       event.Data.Currency,
			Method:         method,
		})
		if err != nil {
			log.Printf("Webhook %s: failed to reconcile donation %s: %v", event.ID, event.Data.ID, err)
			return
		}
		log.Printf("Webhook %s: donation %s now %s (credited=%t)",
			event.ID, event.Data.ID, outcome.Donation.Status, outcome.Credited)

	case strings.HasPrefix(event.Type, "subscription."):
		outcome, err := h.service.ReconcileSubscription(r.Context(), reconcile.SubscriptionParams{
			ExternalRef:    event.Data.ID,
			DonorID:        event.Data.DonorID,
			OrganizationID: event.Data.OrganizationID,
			PackageID:      event.Data.PackageID,
		})
		if err != nil {
			log.Printf("Webhook %s: failed to reconcile subscription %s: %v", event.ID, event.Data.ID, err)
			return
		}
		log.Printf("Webhook %s: subscription %s now %s",
			event.ID, event.Data.ID, outcome.Subscription.Status)

	default:
		log.Printf("Webhook %s: ignoring event type %q", event.ID, event.Type)
	}
}

func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, h.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}
