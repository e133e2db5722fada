package http

import (
	"log"
	"net/http"
	"strconv"

	"giveflow/internal/domain/subscription"
)

type SubscriptionHandler struct {
	subRepo subscription.Repository
}

func NewSubscriptionHandler(subRepo subscription.Repository) *SubscriptionHandler {
	return &SubscriptionHandler{subRepo: subRepo}
}

// HandleListSubscriptions returns subscriptions for an organization or a donor.
func (h *SubscriptionHandler) HandleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	if orgIDStr := r.URL.Query().Get("organizationId"); orgIDStr != "" {
		orgID, err := strconv.ParseInt(orgIDStr, 10, 64)
		if err != nil || orgID <= 0 {
			http.Error(w, "Invalid organizationId", http.StatusBadRequest)
			return
		}
		subs, err := h.subRepo.ListByOrganizationID(r.Context(), orgID, limit, offset)
		if err != nil {
			log.Printf("Error listing subscriptions for organization %d: %v", orgID, err)
			http.Error(w, "Failed to list subscriptions", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, subs)
		return
	}

	if donorIDStr := r.URL.Query().Get("donorId"); donorIDStr != "" {
		donorID, err := strconv.ParseInt(donorIDStr, 10, 64)
		if err != nil || donorID <= 0 {
			http.Error(w, "Invalid donorId", http.StatusBadRequest)
			return
		}
		subs, err := h.subRepo.ListByDonorID(r.Context(), donorID, limit, offset)
		if err != nil {
			log.Printf("Error listing subscriptions for donor %d: %v", donorID, err)
			http.Error(w, "Failed to list subscriptions", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, subs)
		return
	}

	http.Error(w, "organizationId or donorId is required", http.StatusBadRequest)
}

// HandleGetSubscription returns a single subscription by external reference id.
func (h *SubscriptionHandler) HandleGetSubscription(w http.ResponseWriter, r *http.Request) {
	externalRef := r.PathValue("externalRef")
	if externalRef == "" {
		http.Error(w, "externalRef is required", http.StatusBadRequest)
		return
	}

	s, err := h.subRepo.GetByExternalRef(r.Context(), externalRef)
	if err != nil {
		log.Printf("Error getting subscription %s: %v", externalRef, err)
		http.Error(w, "Failed to get subscription", http.StatusInternalServerError)
		return
	}
	if s == nil {
		http.Error(w, "Subscription not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, s)
}
