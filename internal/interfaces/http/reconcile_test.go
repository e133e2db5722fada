package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"giveflow/internal/domain/donor"
	"giveflow/internal/domain/reconcile"
	"giveflow/internal/infrastructure/payment"
)

func postReconcile(handler *ReconcileHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/reconcile", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.HandleReconcile(rr, req)
	return rr
}

func TestHandleReconcile_DonationSuccess(t *testing.T) {
	handler := NewReconcileHandler(newTestService(nil, nil))

	rr := postReconcile(handler, `{"externalRef": "pi_abc123", "donorId": 6, "organizationId": 4, "expectedAmount": 10.00}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"credited":true`) {
		t.Errorf("expected credited outcome, got %s", rr.Body.String())
	}
}

func TestHandleReconcile_ValidationError(t *testing.T) {
	handler := NewReconcileHandler(newTestService(nil, nil))

	rr := postReconcile(handler, `{"donorId": 6, "organizationId": 4}`)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), string(reconcile.KindValidation)) {
		t.Errorf("expected validation kind in body, got %s", rr.Body.String())
	}
}

func TestHandleReconcile_UnknownDonor(t *testing.T) {
	donorRepo := &MockDonorRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*donor.Donor, error) {
			return nil, nil
		},
	}
	svc := reconcile.NewService(&MockPaymentClient{}, &MockDonationRepo{}, &MockSubscriptionRepo{}, donorRepo, &MockOrgRepo{})
	handler := NewReconcileHandler(svc)

	rr := postReconcile(handler, `{"externalRef": "pi_abc123", "donorId": 99, "organizationId": 4}`)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown donor, got %d", rr.Code)
	}
}

func TestHandleReconcile_ProviderNotFound(t *testing.T) {
	client := &MockPaymentClient{
		GetPaymentIntentFunc: func(ctx context.Context, id string) (*payment.PaymentIntent, error) {
			return nil, payment.ErrNotFound
		},
	}
	handler := NewReconcileHandler(newTestService(client, nil))

	rr := postReconcile(handler, `{"externalRef": "pi_unknown", "donorId": 6, "organizationId": 4}`)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), string(reconcile.KindNotFound)) {
		t.Errorf("expected not_found kind in body, got %s", rr.Body.String())
	}
}

func TestHandleReconcile_ProviderUnavailable(t *testing.T) {
	client := &MockPaymentClient{
		GetPaymentIntentFunc: func(ctx context.Context, id string) (*payment.PaymentIntent, error) {
			return nil, payment.ErrUnavailable
		},
	}
	handler := NewReconcileHandler(newTestService(client, nil))

	rr := postReconcile(handler, `{"externalRef": "pi_abc123", "donorId": 6, "organizationId": 4}`)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rr.Code)
	}
}

func TestHandleReconcile_SubscriptionKind(t *testing.T) {
	handler := NewReconcileHandler(newTestService(nil, nil))

	rr := postReconcile(handler, `{"externalRef": "sub_xyz789", "donorId": 6, "organizationId": 4, "kind": "subscription"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "sub_xyz789") {
		t.Errorf("expected subscription in body, got %s", rr.Body.String())
	}
}

func TestHandleReconcile_InvalidKind(t *testing.T) {
	handler := NewReconcileHandler(newTestService(nil, nil))

	rr := postReconcile(handler, `{"externalRef": "pi_abc123", "donorId": 6, "organizationId": 4, "kind": "refund"}`)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid kind, got %d", rr.Code)
	}
}

func TestHandleReconcile_InvalidBody(t *testing.T) {
	handler := NewReconcileHandler(newTestService(nil, nil))

	rr := postReconcile(handler, `{not json`)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid body, got %d", rr.Code)
	}
}

func TestHandleReconcile_MethodNotAllowed(t *testing.T) {
	handler := NewReconcileHandler(newTestService(nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/reconcile", nil)
	rr := httptest.NewRecorder()
	handler.HandleReconcile(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rr.Code)
	}
}
