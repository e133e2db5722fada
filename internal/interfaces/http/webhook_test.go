package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"giveflow/internal/domain/donation"
	"giveflow/internal/domain/donor"
	"giveflow/internal/domain/organization"
	"giveflow/internal/domain/reconcile"
	"giveflow/internal/domain/subscription"
	"giveflow/internal/infrastructure/payment"
)

const testWebhookSecret = "whsec_test_secret"

// MockPaymentClient implements payment.ClientInterface
type MockPaymentClient struct {
	GetPaymentIntentFunc func(ctx context.Context, id string) (*payment.PaymentIntent, error)
	GetSubscriptionFunc  func(ctx context.Context, id string) (*payment.Subscription, error)
}

func (m *MockPaymentClient) GetPaymentIntent(ctx context.Context, id string) (*payment.PaymentIntent, error) {
	if m.GetPaymentIntentFunc != nil {
		return m.GetPaymentIntentFunc(ctx, id)
	}
	return &payment.PaymentIntent{ID: id, Status: "succeeded", AmountString: "10.00"}, nil
}

func (m *MockPaymentClient) GetSubscription(ctx context.Context, id string) (*payment.Subscription, error) {
	if m.GetSubscriptionFunc != nil {
		return m.GetSubscriptionFunc(ctx, id)
	}
	return &payment.Subscription{ID: id, Status: "active", AmountString: "15.00"}, nil
}

// MockDonationRepo implements donation.Repository
type MockDonationRepo struct {
	GetByExternalRefFunc  func(ctx context.Context, externalRef string) (*donation.Donation, error)
	CompleteAndCreditFunc func(ctx context.Context, externalRef string, amount float64, receiptURL *string, metadata map[string]string) (*donation.Donation, bool, error)
}

func (m *MockDonationRepo) GetByExternalRef(ctx context.Context, externalRef string) (*donation.Donation, error) {
	if m.GetByExternalRefFunc != nil {
		return m.GetByExternalRefFunc(ctx, externalRef)
	}
	return nil, nil
}

func (m *MockDonationRepo) GetOrCreate(ctx context.Context, params donation.CreateParams) (*donation.Donation, error) {
	return &donation.Donation{
		ExternalRef:    params.ExternalRef,
		DonorID:        params.DonorID,
		OrganizationID: params.OrganizationID,
		Status:         donation.StatusPending,
	}, nil
}

func (m *MockDonationRepo) ApplyStatus(ctx context.Context, externalRef string, params donation.ApplyParams) (*donation.Donation, error) {
	return &donation.Donation{ExternalRef: externalRef, Status: params.Status, Amount: params.Amount}, nil
}

func (m *MockDonationRepo) CompleteAndCredit(ctx context.Context, externalRef string, amount float64, receiptURL *string, metadata map[string]string) (*donation.Donation, bool, error) {
	if m.CompleteAndCreditFunc != nil {
		return m.CompleteAndCreditFunc(ctx, externalRef, amount, receiptURL, metadata)
	}
	return &donation.Donation{ExternalRef: externalRef, Status: donation.StatusCompleted, Amount: amount, BalanceApplied: true}, true, nil
}

func (m *MockDonationRepo) MergeMetadata(ctx context.Context, externalRef string, metadata map[string]string) (*donation.Donation, error) {
	return &donation.Donation{ExternalRef: externalRef, Status: donation.StatusCompleted, Metadata: metadata}, nil
}

func (m *MockDonationRepo) ListByOrganizationID(ctx context.Context, organizationID int64, limit, offset int) ([]*donation.Donation, error) {
	return nil, nil
}

func (m *MockDonationRepo) ListByDonorID(ctx context.Context, donorID int64, limit, offset int) ([]*donation.Donation, error) {
	return nil, nil
}

// MockSubscriptionRepo implements subscription.Repository
type MockSubscriptionRepo struct{}

func (m *MockSubscriptionRepo) GetByExternalRef(ctx context.Context, externalRef string) (*subscription.Subscription, error) {
	return nil, nil
}

func (m *MockSubscriptionRepo) GetOrCreate(ctx context.Context, params subscription.CreateParams) (*subscription.Subscription, error) {
	return &subscription.Subscription{
		ExternalRef:    params.ExternalRef,
		DonorID:        params.DonorID,
		OrganizationID: params.OrganizationID,
		Status:         subscription.StatusIncomplete,
	}, nil
}

func (m *MockSubscriptionRepo) ApplyStatus(ctx context.Context, externalRef string, params subscription.ApplyParams) (*subscription.Subscription, error) {
	return &subscription.Subscription{ExternalRef: externalRef, Status: params.Status, Amount: params.Amount}, nil
}

func (m *MockSubscriptionRepo) ListByOrganizationID(ctx context.Context, organizationID int64, limit, offset int) ([]*subscription.Subscription, error) {
	return nil, nil
}

func (m *MockSubscriptionRepo) ListByDonorID(ctx context.Context, donorID int64, limit, offset int) ([]*subscription.Subscription, error) {
	return nil, nil
}

// MockDonorRepo implements donor.Repository
type MockDonorRepo struct {
	GetByIDFunc func(ctx context.Context, id int64) (*donor.Donor, error)
}

func (m *MockDonorRepo) Create(ctx context.Context, params donor.CreateParams) (*donor.Donor, error) {
	return nil, nil
}

func (m *MockDonorRepo) GetByID(ctx context.Context, id int64) (*donor.Donor, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &donor.Donor{ID: id}, nil
}

func (m *MockDonorRepo) GetByEmail(ctx context.Context, email string) (*donor.Donor, error) {
	return nil, nil
}

func (m *MockDonorRepo) List(ctx context.Context, limit, offset int) ([]*donor.Donor, error) {
	return nil, nil
}

// MockOrgRepo implements organization.Repository
type MockOrgRepo struct {
	GetByIDFunc func(ctx context.Context, id int64) (*organization.Organization, error)
}

func (m *MockOrgRepo) Create(ctx context.Context, params organization.CreateParams) (*organization.Organization, error) {
	return nil, nil
}

func (m *MockOrgRepo) GetByID(ctx context.Context, id int64) (*organization.Organization, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &organization.Organization{ID: id}, nil
}

func (m *MockOrgRepo) List(ctx context.Context, limit, offset int) ([]*organization.Organization, error) {
	return nil, nil
}

func newTestService(client *MockPaymentClient, donationRepo *MockDonationRepo) *reconcile.Service {
	if client == nil {
		client = &MockPaymentClient{}
	}
	if donationRepo == nil {
		donationRepo = &MockDonationRepo{}
	}
	return reconcile.NewService(client, donationRepo, &MockSubscriptionRepo{}, &MockDonorRepo{}, &MockOrgRepo{})
}

func signBody(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(handler *WebhookHandler, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payment", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("X-Payment-Signature", signature)
	}
	rr := httptest.NewRecorder()
	handler.HandleEvent(rr, req)
	return rr
}

func TestHandleEvent_ValidPaymentEvent(t *testing.T) {
	creditCalls := 0
	donationRepo := &MockDonationRepo{
		CompleteAndCreditFunc: func(ctx context.Context, externalRef string, amount float64, receiptURL *string, metadata map[string]string) (*donation.Donation, bool, error) {
			creditCalls++
			return &donation.Donation{ExternalRef: externalRef, Status: donation.StatusCompleted, Amount: amount}, true, nil
		},
	}
	handler := NewWebhookHandler(newTestService(nil, donationRepo), testWebhookSecret)

	body := []byte(`{
		"id": "evt_001",
		"type": "payment_intent.succeeded",
		"data": {"id": "pi_abc123", "donor_id": 6, "organization_id": 4, "amount": "10.00", "currency": "USD"}
	}`)

	rr := postWebhook(handler, body, signBody(body))

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"received":true`) {
		t.Errorf("expected acknowledgment body, got %s", rr.Body.String())
	}
	if creditCalls != 1 {
		t.Errorf("expected one credit call, got %d", creditCalls)
	}
}

func TestHandleEvent_InvalidSignature(t *testing.T) {
	handler := NewWebhookHandler(newTestService(nil, nil), testWebhookSecret)

	body := []byte(`{"id": "evt_001", "type": "payment_intent.succeeded", "data": {"id": "pi_abc123"}}`)

	rr := postWebhook(handler, body, "deadbeef")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad signature, got %d", rr.Code)
	}
}

func TestHandleEvent_MissingSignature(t *testing.T) {
	handler := NewWebhookHandler(newTestService(nil, nil), testWebhookSecret)

	body := []byte(`{"id": "evt_001", "type": "payment_intent.succeeded", "data": {"id": "pi_abc123"}}`)

	rr := postWebhook(handler, body, "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing signature, got %d", rr.Code)
	}
}

func TestHandleEvent_MalformedPayload(t *testing.T) {
	handler := NewWebhookHandler(newTestService(nil, nil), testWebhookSecret)

	body := []byte(`{not json`)

	rr := postWebhook(handler, body, signBody(body))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed payload, got %d", rr.Code)
	}
}

func TestHandleEvent_MissingExternalRef(t *testing.T) {
	handler := NewWebhookHandler(newTestService(nil, nil), testWebhookSecret)

	body := []byte(`{"id": "evt_001", "type": "payment_intent.succeeded", "data": {}}`)

	rr := postWebhook(handler, body, signBody(body))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing external reference, got %d", rr.Code)
	}
}

func TestHandleEvent_InternalFailureStillAcknowledged(t *testing.T) {
	// Provider lookups failing must not surface to the webhook sender;
	// retries cannot fix our side.
	client := &MockPaymentClient{
		GetPaymentIntentFunc: func(ctx context.Context, id string) (*payment.PaymentIntent, error) {
			return nil, payment.ErrUnavailable
		},
	}
	handler := NewWebhookHandler(newTestService(client, nil), testWebhookSecret)

	body := []byte(`{
		"id": "evt_002",
		"type": "payment_intent.succeeded",
		"data": {"id": "pi_abc123", "donor_id": 6, "organization_id": 4}
	}`)

	rr := postWebhook(handler, body, signBody(body))
	if rr.Code != http.StatusOK {
		t.Errorf("expected 200 despite internal failure, got %d", rr.Code)
	}
}

func TestHandleEvent_UnhandledTypeAcknowledged(t *testing.T) {
	handler := NewWebhookHandler(newTestService(nil, nil), testWebhookSecret)

	body := []byte(`{"id": "evt_003", "type": "charge.refunded", "data": {"id": "ch_999"}}`)

	rr := postWebhook(handler, body, signBody(body))
	if rr.Code != http.StatusOK {
		t.Errorf("expected 200 for unhandled event type, got %d", rr.Code)
	}
}

func TestHandleEvent_MethodNotAllowed(t *testing.T) {
	handler := NewWebhookHandler(newTestService(nil, nil), testWebhookSecret)

	req := httptest.NewRequest(http.MethodGet, "/api/webhooks/payment", nil)
	rr := httptest.NewRecorder()
	handler.HandleEvent(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rr.Code)
	}
}
