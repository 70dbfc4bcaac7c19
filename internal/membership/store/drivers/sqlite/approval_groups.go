package sqlite

import (
	"context"

	"github.com/simplereimbursement/membership/internal/membership/domain"
)

type approvalGroupsRepo struct {
	q dbtx
}

func (r *approvalGroupsRepo) GetApprovalGroup(ctx context.Context, orgID, id string) (domain.ApprovalGroup, error) {
	var g domain.ApprovalGroup
	err := r.q.QueryRowContext(ctx, `
		SELECT id, organization_id, name, description, workflow_id, created_at, updated_at
		FROM approval_groups
		WHERE organization_id = ? AND id = ?`, orgID, id,
	).Scan(&g.ID, &g.OrganizationID, &g.Name, &g.Description, &g.WorkflowID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return domain.ApprovalGroup{}, mapNotFound(err)
	}
	return g, nil
}

func (r *approvalGroupsRepo) CreateApprovalGroup(ctx context.Context, g domain.ApprovalGroup) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO approval_groups (
			id, organization_id, name, description, workflow_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.OrganizationID, g.Name, g.Description, g.WorkflowID, g.CreatedAt, g.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *approvalGroupsRepo) ListByOrganization(ctx context.Context, orgID string) ([]domain.ApprovalGroup, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, organization_id, name, description, workflow_id, created_at, updated_at
		FROM approval_groups
		WHERE organization_id = ?
		ORDER BY created_at`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ApprovalGroup
	for rows.Next() {
		var g domain.ApprovalGroup
		if err := rows.Scan(&g.ID, &g.OrganizationID, &g.Name, &g.Description, &g.WorkflowID, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
