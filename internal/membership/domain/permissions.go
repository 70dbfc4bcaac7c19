package domain

import "fmt"

// MaxApprovalLevel bounds approver level grants.
const MaxApprovalLevel = 5

// ApproverGrant describes whether a user can approve expenses and at which
// workflow levels.
type ApproverGrant struct {
	IsApprover bool  `json:"isApprover"`
	Levels     []int `json:"levels"`
}

// Permissions is the capability bundle carried by users and invitations.
// The role determines the default bundle; invitations may override it.
type Permissions struct {
	Submitter bool          `json:"submitter"`
	Viewer    bool          `json:"viewer"`
	Approver  ApproverGrant `json:"approver"`
}

// DefaultPermissions returns the capability bundle implied by a role.
func DefaultPermissions(role Role) Permissions {
	switch role {
	case RoleOrgAdmin:
		return Permissions{
			Submitter: true,
			Viewer:    true,
			Approver: ApproverGrant{
				IsApprover: true,
				Levels:     []int{1, 2, 3, 4, 5},
			},
		}
	case RoleApprover:
		return Permissions{
			Submitter: true,
			Viewer:    true,
			Approver: ApproverGrant{
				IsApprover: true,
				Levels:     []int{1},
			},
		}
	default:
		return Permissions{Submitter: true, Viewer: true}
	}
}

// Validate checks the bundle against the fixed schema. A bundle is
// constructed once at issuance time and never re-derived ad hoc.
func (p Permissions) Validate() error {
	if !p.Approver.IsApprover && len(p.Approver.Levels) > 0 {
		return fmt.Errorf("approver levels set but isApprover is false")
	}
	if p.Approver.IsApprover && len(p.Approver.Levels) == 0 {
		return fmt.Errorf("approver has no levels")
	}
	seen := make(map[int]struct{}, len(p.Approver.Levels))
	for _, lvl := range p.Approver.Levels {
		if lvl < 1 || lvl > MaxApprovalLevel {
			return fmt.Errorf("approval level %d out of range 1..%d", lvl, MaxApprovalLevel)
		}
		if _, dup := seen[lvl]; dup {
			return fmt.Errorf("duplicate approval level %d", lvl)
		}
		seen[lvl] = struct{}{}
	}
	return nil
}
