package sqlite

import (
	"context"

	"github.com/simplereimbursement/membership/internal/membership/domain"
)

type credentialsRepo struct {
	q dbtx
}

func (r *credentialsRepo) CreateCredential(ctx context.Context, c domain.Credential) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO credentials (user_id, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.UserID, c.Email, c.PasswordHash, c.CreatedAt, c.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *credentialsRepo) GetCredentialByEmail(ctx context.Context, email string) (domain.Credential, error) {
	var c domain.Credential
	err := r.q.QueryRowContext(ctx, `
		SELECT user_id, email, password_hash, created_at, updated_at
		FROM credentials WHERE email = ?`, email,
	).Scan(&c.UserID, &c.Email, &c.PasswordHash, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Credential{}, mapNotFound(err)
	}
	return c, nil
}
