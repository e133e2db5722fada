package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultTimeout      = 15 * time.Second
	paymentIntentsPath  = "/v1/payment_intents"
	subscriptionsPath   = "/v1/subscriptions"
	maxErrorBodyBytes   = 4096
	authorizationHeader = "Authorization"
	authorizationScheme = "Bearer "
)

// ErrNotFound is returned (wrapped) when the provider does not know the
// requested id. The caller must not create local state for such ids.
var ErrNotFound = errors.New("payment provider: not found")

// ErrUnavailable is returned (wrapped) on timeouts, transport failures and
// 5xx-class responses. Safe to retry; no local state should change.
var ErrUnavailable = errors.New("payment provider: unavailable")

// Client handles communication with the payment provider API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new payment provider client with a bounded timeout.
// The client is constructed once at bootstrap and injected; nothing in this
// package holds global state.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// PaymentIntent represents a payment as reported by the provider.
type PaymentIntent struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"` // Provider vocabulary, see reconcile.MapPaymentStatus
	AmountString string            `json:"amount"` // API returns amount as string
	Currency     string            `json:"currency"`
	Method       string            `json:"payment_method_type"` // "card" or "bank_debit"
	ReceiptURL   string            `json:"receipt_url"`
	CreatedAt    string            `json:"created_at"` // RFC 3339
	Metadata     map[string]string `json:"metadata"`
}

// GetAmount returns the amount as a float64.
func (p *PaymentIntent) GetAmount() (float64, error) {
	if p.AmountString == "" {
		return 0, nil
	}
	amount, err := strconv.ParseFloat(p.AmountString, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount '%s': %w", p.AmountString, err)
	}
	return amount, nil
}

// Subscription represents a recurring agreement as reported by the provider.
type Subscription struct {
	ID                 string            `json:"id"`
	Status             string            `json:"status"`
	AmountString       string            `json:"amount"`
	Currency           string            `json:"currency"`
	Interval           string            `json:"interval"` // "day", "week", "month", "year"
	IntervalCount      int               `json:"interval_count"`
	PlanID             string            `json:"plan_id"`
	CurrentPeriodStart string            `json:"current_period_start"` // RFC 3339
	CurrentPeriodEnd   string            `json:"current_period_end"`   // RFC 3339
	CancelAtPeriodEnd  bool              `json:"cancel_at_period_end"`
	Metadata           map[string]string `json:"metadata"`
}

// GetAmount returns the amount as a float64.
func (s *Subscription) GetAmount() (float64, error) {
	if s.AmountString == "" {
		return 0, nil
	}
	amount, err := strconv.ParseFloat(s.AmountString, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount '%s': %w", s.AmountString, err)
	}
	return amount, nil
}

// GetPeriodStart parses and returns the current period start.
func (s *Subscription) GetPeriodStart() (*time.Time, error) {
	return parseRFC3339(s.CurrentPeriodStart, "current_period_start")
}

// GetPeriodEnd parses and returns the current period end.
func (s *Subscription) GetPeriodEnd() (*time.Time, error) {
	return parseRFC3339(s.CurrentPeriodEnd, "current_period_end")
}

func parseRFC3339(value, field string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s '%s': %w", field, value, err)
	}
	return &t, nil
}

// GetPaymentIntent fetches the current state of a payment intent.
func (c *Client) GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	var intent PaymentIntent
	if err := c.get(ctx, paymentIntentsPath+"/"+id, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// GetSubscription fetches the current state of a subscription.
func (c *Client) GetSubscription(ctx context.Context, id string) (*Subscription, error) {
	var sub Subscription
	if err := c.get(ctx, subscriptionsPath+"/"+id, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(authorizationHeader, authorizationScheme+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode >= 500:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, body)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("provider returned status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}
	return nil
}
