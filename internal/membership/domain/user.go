package domain

import "time"

// Role is a user's role within their organization. It determines the seat
// class consumed and the default permission bundle.
type Role string

const (
	RoleOrgAdmin Role = "org_admin"
	RoleApprover Role = "approver"
	RoleUser     Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleOrgAdmin, RoleApprover, RoleUser:
		return true
	}
	return false
}

// SeatClass returns the license class a role consumes. Only org admins
// consume admin seats; approvers are regular seats with extra capabilities.
func (r Role) SeatClass() SeatClass {
	if r == RoleOrgAdmin {
		return SeatClassAdmin
	}
	return SeatClassUser
}

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserDisabled UserStatus = "disabled"
)

// User is an organization member. Every user belongs to exactly one
// organization; removal soft-disables rather than deletes.
type User struct {
	ID             string
	OrganizationID string
	Email          string
	Name           string
	Role           Role
	Permissions    Permissions
	ManagerID      string // optional
	Status         UserStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
