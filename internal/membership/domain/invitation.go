package domain

import "time"

// DefaultInvitationTTL is how long an invitation stays acceptable.
const DefaultInvitationTTL = 7 * 24 * time.Hour

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationExpired  InvitationStatus = "expired"
	InvitationRevoked  InvitationStatus = "revoked"
)

// Invitation is a pending claim on one seat of the organization's license
// ledger. The claim is reserved at issuance and released on expiry or
// revocation; acceptance converts it into a User.
type Invitation struct {
	ID              string
	Code            string // short unique human-typeable code
	Email           string
	Name            string
	Role            Role
	Permissions     Permissions
	OrganizationID  string
	ApprovalGroupID string
	ManagerID       string // optional
	Status          InvitationStatus
	CreatedBy       string
	CreatedAt       time.Time
	ExpiresAt       time.Time
	AcceptedAt      *time.Time
	AcceptedBy      string
}

// ExpiredAt reports whether the invitation is past its expiry at the given
// time. The stored status may lag behind; read paths must consult this
// rather than trusting the status field alone.
func (i Invitation) ExpiredAt(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
