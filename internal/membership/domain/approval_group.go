package domain

import "time"

// DefaultApprovalGroupID is created at organization provisioning time and
// always exists.
const DefaultApprovalGroupID = "default"

// ApprovalGroup names an approval-workflow configuration assigned to users
// at invite time.
type ApprovalGroup struct {
	ID             string
	OrganizationID string
	Name           string
	Description    string
	WorkflowID     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
