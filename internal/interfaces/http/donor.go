package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"giveflow/internal/domain/donor"
	"giveflow/internal/infrastructure/postgres"
)

type DonorHandler struct {
	donorRepo donor.Repository
}

func NewDonorHandler(donorRepo donor.Repository) *DonorHandler {
	return &DonorHandler{donorRepo: donorRepo}
}

type createDonorRequest struct {
	Email              string  `json:"email"`
	FirstName          string  `json:"firstName"`
	LastName           string  `json:"lastName"`
	ProviderCustomerID *string `json:"providerCustomerId,omitempty"`
}

// HandleCreateDonor registers a new donor.
func (h *DonorHandler) HandleCreateDonor(w http.ResponseWriter, r *http.Request) {
	var req createDonorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.FirstName == "" {
		http.Error(w, "Email and firstName are required", http.StatusBadRequest)
		return
	}

	d, err := h.donorRepo.Create(r.Context(), donor.CreateParams{
		Email:              req.Email,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		ProviderCustomerID: req.ProviderCustomerID,
	})
	if err != nil {
		if errors.Is(err, postgres.ErrDuplicateEmail) {
			http.Error(w, "Donor with this email already exists", http.StatusConflict)
			return
		}
		log.Printf("Error creating donor: %v", err)
		http.Error(w, "Failed to create donor", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, d)
}

// HandleListDonors returns all donors, paginated.
func (h *DonorHandler) HandleListDonors(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	donors, err := h.donorRepo.List(r.Context(), limit, offset)
	if err != nil {
		log.Printf("Error listing donors: %v", err)
		http.Error(w, "Failed to list donors", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, donors)
}

// HandleGetDonor returns a single donor by id.
func (h *DonorHandler) HandleGetDonor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid donor id", http.StatusBadRequest)
		return
	}

	d, err := h.donorRepo.GetByID(r.Context(), id)
	if err != nil {
		log.Printf("Error getting donor %d: %v", id, err)
		http.Error(w, "Failed to get donor", http.StatusInternalServerError)
		return
	}
	if d == nil {
		http.Error(w, "Donor not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, d)
}
