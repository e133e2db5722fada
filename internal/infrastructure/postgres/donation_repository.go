package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"giveflow/internal/domain/donation"
)

const donationColumns = `id, external_ref, donor_id, organization_id, amount, currency, method,
	       status, balance_applied, receipt_url, metadata, created_at, updated_at`

type DonationRepository struct {
	db *DB
}

func NewDonationRepository(db *DB) *DonationRepository {
	return &DonationRepository{db: db}
}

// Ensure DonationRepository implements the domain interface
var _ donation.Repository = (*DonationRepository)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDonation(row rowScanner) (*donation.Donation, error) {
	var d donation.Donation
	var receiptURL sql.NullString
	var metadata []byte

	err := row.Scan(
		&d.ID, &d.ExternalRef, &d.DonorID, &d.OrganizationID,
		&d.Amount, &d.Currency, &d.Method,
		&d.Status, &d.BalanceApplied, &receiptURL, &metadata,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if receiptURL.Valid {
		d.ReceiptURL = &receiptURL.String
	}
	if err := scanMetadata(metadata, &d.Metadata); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DonationRepository) GetByExternalRef(ctx context.Context, externalRef string) (*donation.Donation, error) {
	query := `
		SELECT ` + donationColumns + `
		FROM donations
		WHERE external_ref = $1
	`

	d, err := scanDonation(r.db.QueryRowContext(ctx, query, externalRef))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get donation: %w", err)
	}
	return d, nil
}

// GetOrCreate inserts a pending donation keyed by external reference id.
// On a uniqueness conflict the existing row is fetched and returned; the
// conflict is never surfaced to the caller.
func (r *DonationRepository) GetOrCreate(ctx context.Context, params donation.CreateParams) (*donation.Donation, error) {
	metadata, err := metadataValue(params.Metadata)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO donations (external_ref, donor_id, organization_id, amount, currency, method, status, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending', $7)
		ON CONFLICT (external_ref) DO NOTHING
		RETURNING ` + donationColumns + `
	`

	d, err := scanDonation(r.db.QueryRowContext(
		ctx, query,
		params.ExternalRef, params.DonorID, params.OrganizationID,
		params.Amount, params.Currency, params.Method, metadata,
	))
	if err == sql.ErrNoRows {
		// A concurrent creator won the insert race; their row wins.
		existing, err := r.GetByExternalRef(ctx, params.ExternalRef)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("donation %s vanished after insert conflict", params.ExternalRef)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create donation: %w", err)
	}
	return d, nil
}

// ApplyStatus writes a non-terminal transition. The WHERE guard keeps
// completed rows untouched even when a stale event arrives late; in that
// case the current row is returned unchanged.
func (r *DonationRepository) ApplyStatus(ctx context.Context, externalRef string, params donation.ApplyParams) (*donation.Donation, error) {
	metadata, err := metadataValue(params.Metadata)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE donations
		SET status = $2,
		    amount = $3,
		    receipt_url = COALESCE($4, receipt_url),
		    metadata = metadata || $5::jsonb,
		    updated_at = CURRENT_TIMESTAMP
		WHERE external_ref = $1 AND status <> 'completed'
		RETURNING ` + donationColumns + `
	`

	d, err := scanDonation(r.db.QueryRowContext(
		ctx, query,
		externalRef, params.Status, params.Amount, params.ReceiptURL, metadata,
	))
	if err == sql.ErrNoRows {
		return r.GetByExternalRef(ctx, externalRef)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update donation: %w", err)
	}
	return d, nil
}

// CompleteAndCredit marks the donation completed and credits the owning
// organization inside one transaction. The balance_applied guard in the
// UPDATE makes the credit at-most-once per external reference id: a second
// caller matches no row and gets the current state back with credited=false.
func (r *DonationRepository) CompleteAndCredit(ctx context.Context, externalRef string, amount float64, receiptURL *string, metadata map[string]string) (*donation.Donation, bool, error) {
	metadataJSON, err := metadataValue(metadata)
	if err != nil {
		return nil, false, err
	}

	var completed *donation.Donation
	credited := false

	err = r.db.WithinTx(ctx, func(tx *sql.Tx) error {
		query := `
			UPDATE donations
			SET status = 'completed',
			    balance_applied = TRUE,
			    amount = $2,
			    receipt_url = COALESCE($3, receipt_url),
			    metadata = metadata || $4::jsonb,
			    updated_at = CURRENT_TIMESTAMP
			WHERE external_ref = $1 AND NOT balance_applied
			RETURNING ` + donationColumns + `
		`

		d, err := scanDonation(tx.QueryRowContext(ctx, query, externalRef, amount, receiptURL, metadataJSON))
		if err == sql.ErrNoRows {
			// Balance already applied by an earlier pass; nothing to do.
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to complete donation: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE organizations
			SET balance = balance + $1, updated_at = CURRENT_TIMESTAMP
			WHERE id = $2
		`, d.Amount, d.OrganizationID)
		if err != nil {
			return fmt.Errorf("failed to credit organization %d: %w", d.OrganizationID, err)
		}

		completed = d
		credited = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if completed == nil {
		current, err := r.GetByExternalRef(ctx, externalRef)
		if err != nil {
			return nil, false, err
		}
		return current, false, nil
	}
	return completed, credited, nil
}

// MergeMetadata unions new provider fields into the stored metadata without
// touching status, amount or the balance flag.
func (r *DonationRepository) MergeMetadata(ctx context.Context, externalRef string, metadata map[string]string) (*donation.Donation, error) {
	metadataJSON, err := metadataValue(metadata)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE donations
		SET metadata = metadata || $2::jsonb,
		    updated_at = CURRENT_TIMESTAMP
		WHERE external_ref = $1
		RETURNING ` + donationColumns + `
	`

	d, err := scanDonation(r.db.QueryRowContext(ctx, query, externalRef, metadataJSON))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to merge donation metadata: %w", err)
	}
	return d, nil
}

func (r *DonationRepository) ListByOrganizationID(ctx context.Context, organizationID int64, limit, offset int) ([]*donation.Donation, error) {
	query := `
		SELECT ` + donationColumns + `
		FROM donations
		WHERE organization_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, organizationID, limit, offset)
}

func (r *DonationRepository) ListByDonorID(ctx context.Context, donorID int64, limit, offset int) ([]*donation.Donation, error) {
	query := `
		SELECT ` + donationColumns + `
		FROM donations
		WHERE donor_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, donorID, limit, offset)
}

func (r *DonationRepository) list(ctx context.Context, query string, args ...any) ([]*donation.Donation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	defer rows.Close()

	var donations []*donation.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan donation: %w", err)
		}
		donations = append(donations, d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating donations: %w", err)
	}
	return donations, nil
}
