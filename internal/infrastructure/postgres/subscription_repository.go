package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"giveflow/internal/domain/subscription"
)

const subscriptionColumns = `id, external_ref, donor_id, organization_id, package_id, status, amount,
	       interval_unit, interval_count, current_period_start, current_period_end,
	       cancel_at_period_end, metadata, created_at, updated_at`

type SubscriptionRepository struct {
	db *DB
}

func NewSubscriptionRepository(db *DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Ensure SubscriptionRepository implements the domain interface
var _ subscription.Repository = (*SubscriptionRepository)(nil)

func scanSubscription(row rowScanner) (*subscription.Subscription, error) {
	var s subscription.Subscription
	var packageID sql.NullInt64
	var periodStart, periodEnd sql.NullTime
	var metadata []byte

	err := row.Scan(
		&s.ID, &s.ExternalRef, &s.DonorID, &s.OrganizationID, &packageID,
		&s.Status, &s.Amount, &s.IntervalUnit, &s.IntervalCount,
		&periodStart, &periodEnd, &s.CancelAtPeriodEnd, &metadata,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if packageID.Valid {
		s.PackageID = &packageID.Int64
	}
	if periodStart.Valid {
		s.CurrentPeriodStart = &periodStart.Time
	}
	if periodEnd.Valid {
		s.CurrentPeriodEnd = &periodEnd.Time
	}
	if err := scanMetadata(metadata, &s.Metadata); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionRepository) GetByExternalRef(ctx context.Context, externalRef string) (*subscription.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE external_ref = $1
	`

	s, err := scanSubscription(r.db.QueryRowContext(ctx, query, externalRef))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return s, nil
}

// GetOrCreate inserts an incomplete subscription keyed by external reference
// id. On a uniqueness conflict the existing row is fetched and returned.
func (r *SubscriptionRepository) GetOrCreate(ctx context.Context, params subscription.CreateParams) (*subscription.Subscription, error) {
	metadata, err := metadataValue(params.Metadata)
	if err != nil {
		return nil, err
	}

	intervalUnit := params.IntervalUnit
	if intervalUnit == "" {
		intervalUnit = "month"
	}
	intervalCount := params.IntervalCount
	if intervalCount <= 0 {
		intervalCount = 1
	}

	query := `
		INSERT INTO subscriptions (external_ref, donor_id, organization_id, package_id, status,
		                           amount, interval_unit, interval_count, metadata)
		VALUES ($1, $2, $3, $4, 'incomplete', $5, $6, $7, $8)
		ON CONFLICT (external_ref) DO NOTHING
		RETURNING ` + subscriptionColumns + `
	`

	s, err := scanSubscription(r.db.QueryRowContext(
		ctx, query,
		params.ExternalRef, params.DonorID, params.OrganizationID, params.PackageID,
		params.Amount, intervalUnit, intervalCount, metadata,
	))
	if err == sql.ErrNoRows {
		existing, err := r.GetByExternalRef(ctx, params.ExternalRef)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("subscription %s vanished after insert conflict", params.ExternalRef)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	return s, nil
}

// ApplyStatus writes provider-derived state. Canceled rows are terminal;
// the WHERE guard leaves them untouched and the current row is returned.
func (r *SubscriptionRepository) ApplyStatus(ctx context.Context, externalRef string, params subscription.ApplyParams) (*subscription.Subscription, error) {
	metadata, err := metadataValue(params.Metadata)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE subscriptions
		SET status = $2,
		    amount = $3,
		    interval_unit = COALESCE(NULLIF($4, ''), interval_unit),
		    interval_count = CASE WHEN $5 > 0 THEN $5 ELSE interval_count END,
		    current_period_start = COALESCE($6, current_period_start),
		    current_period_end = COALESCE($7, current_period_end),
		    cancel_at_period_end = $8,
		    metadata = metadata || $9::jsonb,
		    updated_at = CURRENT_TIMESTAMP
		WHERE external_ref = $1 AND status <> 'canceled'
		RETURNING ` + subscriptionColumns + `
	`

	s, err := scanSubscription(r.db.QueryRowContext(
		ctx, query,
		externalRef, params.Status, params.Amount, params.IntervalUnit, params.IntervalCount,
		params.CurrentPeriodStart, params.CurrentPeriodEnd, params.CancelAtPeriodEnd, metadata,
	))
	if err == sql.ErrNoRows {
		return r.GetByExternalRef(ctx, externalRef)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}
	return s, nil
}

func (r *SubscriptionRepository) ListByOrganizationID(ctx context.Context, organizationID int64, limit, offset int) ([]*subscription.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE organization_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, organizationID, limit, offset)
}

func (r *SubscriptionRepository) ListByDonorID(ctx context.Context, donorID int64, limit, offset int) ([]*subscription.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE donor_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, donorID, limit, offset)
}

func (r *SubscriptionRepository) list(ctx context.Context, query string, args ...any) ([]*subscription.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*subscription.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscriptions: %w", err)
	}
	return subs, nil
}
