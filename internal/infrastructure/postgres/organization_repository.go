package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"giveflow/internal/domain/organization"
)

type OrganizationRepository struct {
	db *DB
}

func NewOrganizationRepository(db *DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// Ensure OrganizationRepository implements the domain interface
var _ organization.Repository = (*OrganizationRepository)(nil)

func (r *OrganizationRepository) Create(ctx context.Context, params organization.CreateParams) (*organization.Organization, error) {
	query := `
		INSERT INTO organizations (name, email)
		VALUES ($1, $2)
		RETURNING id, name, email, balance, created_at, updated_at
	`

	var org organization.Organization
	err := r.db.QueryRowContext(ctx, query, params.Name, params.Email).Scan(
		&org.ID, &org.Name, &org.Email, &org.Balance, &org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}
	return &org, nil
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id int64) (*organization.Organization, error) {
	query := `
		SELECT id, name, email, balance, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`

	var org organization.Organization
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&org.ID, &org.Name, &org.Email, &org.Balance, &org.CreatedAt, &org.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return &org, nil
}

func (r *OrganizationRepository) List(ctx context.Context, limit, offset int) ([]*organization.Organization, error) {
	query := `
		SELECT id, name, email, balance, created_at, updated_at
		FROM organizations
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*organization.Organization
	for rows.Next() {
		var org organization.Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.Email, &org.Balance, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, &org)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating organizations: %w", err)
	}
	return orgs, nil
}
