package sqlite

import (
	"context"
	"database/sql"

	"github.com/simplereimbursement/membership/internal/membership/domain"
)

type usersRepo struct {
	q dbtx
}

const userColumns = `id, organization_id, email, name, role, permissions,
	manager_id, status, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUserFrom(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, orgID, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE organization_id = ? AND email = ?`,
		orgID, email)
	return scanUserFrom(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	permissions, err := marshalPermissions(u.Permissions)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, `
		INSERT INTO users (
			id, organization_id, email, name, role, permissions,
			manager_id, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.OrganizationID, u.Email, u.Name, string(u.Role), permissions,
		mapStringNull(u.ManagerID), string(u.Status), u.CreatedAt, u.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) ListByOrganization(ctx context.Context, orgID string) ([]domain.User, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE organization_id = ?
		ORDER BY created_at`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUserFrom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *usersRepo) DisableUser(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET status = 'disabled', updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = 'active'`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func scanUserFrom(sc rowScanner) (domain.User, error) {
	var u domain.User
	var role, status, permissions string
	var managerID sql.NullString

	err := sc.Scan(
		&u.ID, &u.OrganizationID, &u.Email, &u.Name, &role, &permissions,
		&managerID, &status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.Role = domain.Role(role)
	u.Status = domain.UserStatus(status)
	u.ManagerID = mapNullString(managerID)
	u.Permissions, err = unmarshalPermissions(permissions)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}
