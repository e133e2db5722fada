package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"giveflow/internal/domain/donation"
	"giveflow/internal/domain/donor"
	"giveflow/internal/domain/organization"
)

type DonationHandler struct {
	donationRepo donation.Repository
	donorRepo    donor.Repository
	orgRepo      organization.Repository
}

func NewDonationHandler(donationRepo donation.Repository, donorRepo donor.Repository, orgRepo organization.Repository) *DonationHandler {
	return &DonationHandler{
		donationRepo: donationRepo,
		donorRepo:    donorRepo,
		orgRepo:      orgRepo,
	}
}

type createDonationRequest struct {
	ExternalRef    string  `json:"externalRef"`
	DonorID        int64   `json:"donorId"`
	OrganizationID int64   `json:"organizationId"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency,omitempty"`
	Method         string  `json:"method,omitempty"` // card or bank_debit, defaults to card
}

// HandleCreateDonation records the first observation of a payment at
// initiation time. The record starts pending; reconciliation moves it
// forward once the provider reports a terminal status.
func (h *DonationHandler) HandleCreateDonation(w http.ResponseWriter, r *http.Request) {
	var req createDonationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.ExternalRef == "" {
		http.Error(w, "externalRef is required", http.StatusBadRequest)
		return
	}
	if req.DonorID <= 0 || req.OrganizationID <= 0 {
		http.Error(w, "donorId and organizationId must be positive", http.StatusBadRequest)
		return
	}
	if req.Amount < 0 {
		http.Error(w, "amount must not be negative", http.StatusBadRequest)
		return
	}

	d, err := h.donorRepo.GetByID(r.Context(), req.DonorID)
	if err != nil {
		log.Printf("Error resolving donor %d: %v", req.DonorID, err)
		http.Error(w, "Failed to resolve donor", http.StatusInternalServerError)
		return
	}
	if d == nil {
		http.Error(w, "Donor not found", http.StatusNotFound)
		return
	}

	org, err := h.orgRepo.GetByID(r.Context(), req.OrganizationID)
	if err != nil {
		log.Printf("Error resolving organization %d: %v", req.OrganizationID, err)
		http.Error(w, "Failed to resolve organization", http.StatusInternalServerError)
		return
	}
	if org == nil {
		http.Error(w, "Organization not found", http.StatusNotFound)
		return
	}

	method := donation.MethodCard
	if req.Method == string(donation.MethodBankDebit) {
		method = donation.MethodBankDebit
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	created, err := h.donationRepo.GetOrCreate(r.Context(), donation.CreateParams{
		ExternalRef:    req.ExternalRef,
		DonorID:        req.DonorID,
		OrganizationID: req.OrganizationID,
		Amount:         req.Amount,
		Currency:       currency,
		Method:         method,
	})
	if err != nil {
		log.Printf("Error creating donation %s: %v", req.ExternalRef, err)
		http.Error(w, "Failed to create donation", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// HandleListDonations returns donations for an organization or a donor.
func (h *DonationHandler) HandleListDonations(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	if orgIDStr := r.URL.Query().Get("organizationId"); orgIDStr != "" {
		orgID, err := strconv.ParseInt(orgIDStr, 10, 64)
		if err != nil || orgID <= 0 {
			http.Error(w, "Invalid organizationId", http.StatusBadRequest)
			return
		}
		donations, err := h.donationRepo.ListByOrganizationID(r.Context(), orgID, limit, offset)
		if err != nil {
			log.Printf("Error listing donations for organization %d: %v", orgID, err)
			http.Error(w, "Failed to list donations", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, donations)
		return
	}

	if donorIDStr := r.URL.Query().Get("donorId"); donorIDStr != "" {
		donorID, err := strconv.ParseInt(donorIDStr, 10, 64)
		if err != nil || donorID <= 0 {
			http.Error(w, "Invalid donorId", http.StatusBadRequest)
			return
		}
		donations, err := h.donationRepo.ListByDonorID(r.Context(), donorID, limit, offset)
		if err != nil {
			log.Printf("Error listing donations for donor %d: %v", donorID, err)
			http.Error(w, "Failed to list donations", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, donations)
		return
	}

	http.Error(w, "organizationId or donorId is required", http.StatusBadRequest)
}

// HandleGetDonation returns a single donation by external reference id.
func (h *DonationHandler) HandleGetDonation(w http.ResponseWriter, r *http.Request) {
	externalRef := r.PathValue("externalRef")
	if externalRef == "" {
		http.Error(w, "externalRef is required", http.StatusBadRequest)
		return
	}

	d, err := h.donationRepo.GetByExternalRef(r.Context(), externalRef)
	if err != nil {
		log.Printf("Error getting donation %s: %v", externalRef, err)
		http.Error(w, "Failed to get donation", http.StatusInternalServerError)
		return
	}
	if d == nil {
		http.Error(w, "Donation not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsedOffset, err := strconv.Atoi(offsetStr); err == nil && parsedOffset >= 0 {
			offset = parsedOffset
		}
	}
	return limit, offset
}
