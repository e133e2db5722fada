package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"giveflow/internal/domain/organization"
)

type OrganizationHandler struct {
	orgRepo organization.Repository
}

func NewOrganizationHandler(orgRepo organization.Repository) *OrganizationHandler {
	return &OrganizationHandler{orgRepo: orgRepo}
}

type createOrganizationRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HandleCreateOrganization registers a new receiving organization.
func (h *OrganizationHandler) HandleCreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req createOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" || req.Email == "" {
		http.Error(w, "Name and email are required", http.StatusBadRequest)
		return
	}

	org, err := h.orgRepo.Create(r.Context(), organization.CreateParams{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		log.Printf("Error creating organization: %v", err)
		http.Error(w, "Failed to create organization", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, org)
}

// HandleListOrganizations returns all organizations, paginated.
func (h *OrganizationHandler) HandleListOrganizations(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	orgs, err := h.orgRepo.List(r.Context(), limit, offset)
	if err != nil {
		log.Printf("Error listing organizations: %v", err)
		http.Error(w, "Failed to list organizations", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, orgs)
}

// HandleGetOrganization returns a single organization by id.
func (h *OrganizationHandler) HandleGetOrganization(w http.ResponseWriter, r *http.Request) {
	org, ok := h.fetch(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, org)
}

type balanceResponse struct {
	OrganizationID int64   `json:"organizationId"`
	Balance        float64 `json:"balance"`
}

// HandleGetBalance returns the organization's credited balance.
func (h *OrganizationHandler) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	org, ok := h.fetch(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{
		OrganizationID: org.ID,
		Balance:        org.Balance,
	})
}

func (h *OrganizationHandler) fetch(w http.ResponseWriter, r *http.Request) (*organization.Organization, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid organization id", http.StatusBadRequest)
		return nil, false
	}

	org, err := h.orgRepo.GetByID(r.Context(), id)
	if err != nil {
		log.Printf("Error getting organization %d: %v", id, err)
		http.Error(w, "Failed to get organization", http.StatusInternalServerError)
		return nil, false
	}
	if org == nil {
		http.Error(w, "Organization not found", http.StatusNotFound)
		return nil, false
	}
	return org, true
}
