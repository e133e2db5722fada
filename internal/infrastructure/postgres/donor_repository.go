package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"giveflow/internal/domain/donor"
)

// ErrDuplicateEmail is returned when a donor with the same email already exists.
var ErrDuplicateEmail = errors.New("donor email already registered")

const pqUniqueViolation = "23505"

type DonorRepository struct {
	db *DB
}

func NewDonorRepository(db *DB) *DonorRepository {
	return &DonorRepository{db: db}
}

// Ensure DonorRepository implements the domain interface
var _ donor.Repository = (*DonorRepository)(nil)

func scanDonor(row rowScanner) (*donor.Donor, error) {
	var d donor.Donor
	var providerCustomerID sql.NullString

	err := row.Scan(
		&d.ID, &d.Email, &d.FirstName, &d.LastName,
		&providerCustomerID, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if providerCustomerID.Valid {
		d.ProviderCustomerID = &providerCustomerID.String
	}
	return &d, nil
}

func (r *DonorRepository) Create(ctx context.Context, params donor.CreateParams) (*donor.Donor, error) {
	query := `
		INSERT INTO donors (email, first_name, last_name, provider_customer_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, first_name, last_name, provider_customer_id, created_at, updated_at
	`

	d, err := scanDonor(r.db.QueryRowContext(
		ctx, query,
		params.Email, params.FirstName, params.LastName, params.ProviderCustomerID,
	))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create donor: %w", err)
	}
	return d, nil
}

func (r *DonorRepository) GetByID(ctx context.Context, id int64) (*donor.Donor, error) {
	query := `
		SELECT id, email, first_name, last_name, provider_customer_id, created_at, updated_at
		FROM donors
		WHERE id = $1
	`

	d, err := scanDonor(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get donor: %w", err)
	}
	return d, nil
}

func (r *DonorRepository) GetByEmail(ctx context.Context, email string) (*donor.Donor, error) {
	query := `
		SELECT id, email, first_name, last_name, provider_customer_id, created_at, updated_at
		FROM donors
		WHERE email = $1
	`

	d, err := scanDonor(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get donor by email: %w", err)
	}
	return d, nil
}

func (r *DonorRepository) List(ctx context.Context, limit, offset int) ([]*donor.Donor, error) {
	query := `
		SELECT id, email, first_name, last_name, provider_customer_id, created_at, updated_at
		FROM donors
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list donors: %w", err)
	}
	defer rows.Close()

	var donors []*donor.Donor
	for rows.Next() {
		d, err := scanDonor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan donor: %w", err)
		}
		donors = append(donors, d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating donors: %w", err)
	}
	return donors, nil
}
