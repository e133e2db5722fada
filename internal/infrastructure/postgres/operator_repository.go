package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"giveflow/internal/domain/operator"
)

type OperatorRepository struct {
	db *DB
}

func NewOperatorRepository(db *DB) *OperatorRepository {
	return &OperatorRepository{db: db}
}

// Ensure OperatorRepository implements the domain interface
var _ operator.Repository = (*OperatorRepository)(nil)

func (r *OperatorRepository) GetByEmail(ctx context.Context, email string) (*operator.Operator, error) {
	query := `
		SELECT id, email, name, password_hash, created_at
		FROM operators
		WHERE email = $1
	`

	var op operator.Operator
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&op.ID, &op.Email, &op.Name, &op.PasswordHash, &op.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get operator: %w", err)
	}
	return &op, nil
}

func (r *OperatorRepository) Create(ctx context.Context, params operator.CreateParams) (*operator.Operator, error) {
	query := `
		INSERT INTO operators (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, name, password_hash, created_at
	`

	var op operator.Operator
	err := r.db.QueryRowContext(ctx, query, params.Email, params.Name, params.PasswordHash).Scan(
		&op.ID, &op.Email, &op.Name, &op.PasswordHash, &op.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operator: %w", err)
	}
	return &op, nil
}
