package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"giveflow/internal/domain/donation"
	"giveflow/internal/domain/donor"
)

func TestHandleCreateDonation(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		donorRepo      *MockDonorRepo
		expectedStatus int
	}{
		{
			name:           "Success",
			body:           `{"externalRef": "pi_abc123", "donorId": 6, "organizationId": 4, "amount": 10.00}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing external reference",
			body:           `{"donorId": 6, "organizationId": 4, "amount": 10.00}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Non-positive donor id",
			body:           `{"externalRef": "pi_abc123", "donorId": 0, "organizationId": 4}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Negative amount",
			body:           `{"externalRef": "pi_abc123", "donorId": 6, "organizationId": 4, "amount": -5}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Unknown donor",
			body: `{"externalRef": "pi_abc123", "donorId": 99, "organizationId": 4, "amount": 10.00}`,
			donorRepo: &MockDonorRepo{
				GetByIDFunc: func(ctx context.Context, id int64) (*donor.Donor, error) {
					return nil, nil
				},
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Invalid body",
			body:           `{not json`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			donorRepo := tt.donorRepo
			if donorRepo == nil {
				donorRepo = &MockDonorRepo{}
			}
			handler := NewDonationHandler(&MockDonationRepo{}, donorRepo, &MockOrgRepo{})

			req := httptest.NewRequest(http.MethodPost, "/api/donations", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			handler.HandleCreateDonation(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("expected %d, got %d: %s", tt.expectedStatus, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestHandleGetDonation(t *testing.T) {
	donationRepo := &MockDonationRepo{
		GetByExternalRefFunc: func(ctx context.Context, externalRef string) (*donation.Donation, error) {
			if externalRef == "pi_abc123" {
				return &donation.Donation{ExternalRef: externalRef, Status: donation.StatusCompleted}, nil
			}
			return nil, nil
		},
	}
	handler := NewDonationHandler(donationRepo, &MockDonorRepo{}, &MockOrgRepo{})

	t.Run("Found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/donations/pi_abc123", nil)
		req.SetPathValue("externalRef", "pi_abc123")
		rr := httptest.NewRecorder()
		handler.HandleGetDonation(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "pi_abc123") {
			t.Errorf("expected donation in body, got %s", rr.Body.String())
		}
	})

	t.Run("Not Found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/donations/pi_missing", nil)
		req.SetPathValue("externalRef", "pi_missing")
		rr := httptest.NewRecorder()
		handler.HandleGetDonation(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rr.Code)
		}
	})
}

func TestHandleListDonations_RequiresOwnerFilter(t *testing.T) {
	handler := NewDonationHandler(&MockDonationRepo{}, &MockDonorRepo{}, &MockOrgRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/donations", nil)
	rr := httptest.NewRecorder()
	handler.HandleListDonations(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without a filter, got %d", rr.Code)
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"Defaults", "", 50, 0},
		{"Explicit values", "limit=10&offset=20", 10, 20},
		{"Invalid limit falls back", "limit=abc", 50, 0},
		{"Negative offset falls back", "offset=-5", 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/donations?"+tt.query, nil)
			limit, offset := parsePagination(req)
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("parsePagination() = (%d, %d), want (%d, %d)", limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}
