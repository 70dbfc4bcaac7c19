package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/simplereimbursement/membership/internal/membership/domain"
	"github.com/simplereimbursement/membership/internal/membership/store"
)

type invitationsRepo struct {
	q dbtx
}

const invitationColumns = `id, code, email, name, role, permissions,
	organization_id, approval_group_id, manager_id, status,
	created_by, created_at, expires_at, accepted_at, accepted_by`

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	permissions, err := marshalPermissions(inv.Permissions)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, `
		INSERT INTO invitations (
			id, code, email, name, role, permissions,
			organization_id, approval_group_id, manager_id, status,
			created_by, created_at, expires_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Code, inv.Email, inv.Name, string(inv.Role), permissions,
		inv.OrganizationID, inv.ApprovalGroupID, mapStringNull(inv.ManagerID), string(inv.Status),
		inv.CreatedBy, inv.CreatedAt, inv.ExpiresAt,
	)
	return mapConstraint(err)
}

func (r *invitationsRepo) GetInvitationByCode(ctx context.Context, code string) (domain.Invitation, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE code = ?`, code)
	return scanInvitation(row)
}

func (r *invitationsRepo) GetPendingInvitationByEmail(ctx context.Context, orgID, email string) (domain.Invitation, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations
		WHERE organization_id = ? AND email = ? AND status = 'pending'`,
		orgID, email,
	)
	return scanInvitation(row)
}

func (r *invitationsRepo) MarkInvitationAccepted(ctx context.Context, id, acceptedBy string, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE invitations
		SET status = 'accepted', accepted_at = ?, accepted_by = ?
		WHERE id = ? AND status = 'pending'`,
		at, acceptedBy, id,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *invitationsRepo) MarkInvitationRevoked(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE invitations SET status = 'revoked'
		WHERE id = ? AND status = 'pending'`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *invitationsRepo) MarkInvitationExpired(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE invitations SET status = 'expired'
		WHERE id = ? AND status = 'pending'`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *invitationsRepo) ListExpiredPending(ctx context.Context, now time.Time) ([]domain.Invitation, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+invitationColumns+` FROM invitations
		WHERE status = 'pending' AND expires_at < ?
		ORDER BY expires_at`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInvitations(rows)
}

func (r *invitationsRepo) ListByOrganization(ctx context.Context, orgID string) ([]domain.Invitation, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+invitationColumns+` FROM invitations
		WHERE organization_id = ?
		ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInvitations(rows)
}

// requireAffected turns a zero-row update into ErrNotFound. Conditional
// status flips lean on this to stay race-safe.
func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitationFrom(sc rowScanner) (domain.Invitation, error) {
	var inv domain.Invitation
	var role, status, permissions string
	var managerID, acceptedBy sql.NullString
	var acceptedAt sql.NullTime

	err := sc.Scan(
		&inv.ID, &inv.Code, &inv.Email, &inv.Name, &role, &permissions,
		&inv.OrganizationID, &inv.ApprovalGroupID, &managerID, &status,
		&inv.CreatedBy, &inv.CreatedAt, &inv.ExpiresAt, &acceptedAt, &acceptedBy,
	)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}

	inv.Role = domain.Role(role)
	inv.Status = domain.InvitationStatus(status)
	inv.ManagerID = mapNullString(managerID)
	inv.AcceptedBy = mapNullString(acceptedBy)
	if acceptedAt.Valid {
		t := acceptedAt.Time
		inv.AcceptedAt = &t
	}
	inv.Permissions, err = unmarshalPermissions(permissions)
	if err != nil {
		return domain.Invitation{}, err
	}
	return inv, nil
}

func scanInvitation(row *sql.Row) (domain.Invitation, error) {
	return scanInvitationFrom(row)
}

func collectInvitations(rows *sql.Rows) ([]domain.Invitation, error) {
	var out []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitationFrom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
