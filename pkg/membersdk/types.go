package membersdk

import "time"

// ErrorResponse is the standard error envelope returned by every endpoint.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g. "invalid_request",
	// "insufficient_licenses")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`

	// Details carries per-row messages for batch validation failures
	Details []string `json:"details,omitempty"`
}

// ============================================================================
// Organizations
// ============================================================================

// CreateOrganizationRequest provisions a new organization with its founding
// admin account and seat allocation.
type CreateOrganizationRequest struct {
	Name          string `json:"name"`
	AdminName     string `json:"admin_name"`
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"admin_password"`
	AdminSeats    int    `json:"admin_seats"`
	UserSeats     int    `json:"user_seats"`

	// BillingPeriod is "monthly" or "yearly"
	BillingPeriod string `json:"billing_period"`
}

// LicenseCount is one seat class of the license ledger.
type LicenseCount struct {
	Total int `json:"total"`
	Used  int `json:"used"`
}

// Licenses is the per-class seat ledger of an organization.
type Licenses struct {
	Admin LicenseCount `json:"admin"`
	User  LicenseCount `json:"user"`
}

// OrganizationResponse is returned after provisioning.
type OrganizationResponse struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	SubscriptionStatus string   `json:"subscription_status"`
	BillingPeriod      string   `json:"billing_period"`
	Licenses           Licenses `json:"licenses"`
	AdminUserID        string   `json:"admin_user_id"`
}

// UpdateLicensesRequest changes purchased seat totals. Omitted classes are
// left untouched.
type UpdateLicensesRequest struct {
	AdminTotal *int `json:"admin_total,omitempty"`
	UserTotal  *int `json:"user_total,omitempty"`
}

// ============================================================================
// Sessions
// ============================================================================

// SessionRequest is an email/password login.
type SessionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse carries the minted bearer token.
type SessionResponse struct {
	// Token is the signed JWT to present as "Bearer {token}"
	Token string `json:"token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type"`

	// ExpiresAt is when the token stops being accepted
	ExpiresAt time.Time `json:"expires_at"`

	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	Role           string `json:"role"`
}

// ============================================================================
// Invitations
// ============================================================================

// Permissions is the capability bundle assigned to an invitee. Leave nil to
// use the role's default bundle.
type Permissions struct {
	Submitter bool `json:"submitter"`
	Viewer    bool `json:"viewer"`
	Approver  struct {
		IsApprover bool  `json:"isApprover"`
		Levels     []int `json:"levels"`
	} `json:"approver"`
}

// InviteRow is one invitee of a batch.
type InviteRow struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`

	// Role is one of org_admin, approver, user
	Role string `json:"role"`

	// ApprovalGroupID defaults to "default" when omitted
	ApprovalGroupID string `json:"approval_group_id,omitempty"`
	ManagerID       string `json:"manager_id,omitempty"`

	Permissions *Permissions `json:"permissions,omitempty"`
}

// IssueInvitesRequest is a batch of invitations. The batch is all-or-nothing:
// any validation or license failure creates no invitations at all.
type IssueInvitesRequest struct {
	Invites []InviteRow `json:"invites"`
}

// Invitation is the API view of one invitation.
type Invitation struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IssueInvitesResponse summarizes a successful batch.
type IssueInvitesResponse struct {
	Created      int          `json:"created"`
	EmailsSent   int          `json:"emails_sent"`
	EmailsFailed int          `json:"emails_failed"`
	Invitations  []Invitation `json:"invitations"`
}

// ValidateInviteResponse is what the accept page shows for a live code.
type ValidateInviteResponse struct {
	OrganizationName string    `json:"organization_name"`
	Email            string    `json:"email"`
	Name             string    `json:"name,omitempty"`
	Role             string    `json:"role"`
	InvitedBy        string    `json:"invited_by"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// AcceptInviteRequest redeems a code into an account.
type AcceptInviteRequest struct {
	// Name overrides the invited name when set
	Name     string `json:"name,omitempty"`
	Password string `json:"password"`
}

// AcceptInviteResponse confirms account creation.
type AcceptInviteResponse struct {
	Success bool   `json:"success"`
	UID     string `json:"uid"`
}

// ============================================================================
// Users
// ============================================================================

// User is the API view of an organization member.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ManagerID string    `json:"manager_id,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ListUsersResponse wraps the member list.
type ListUsersResponse struct {
	Users []User `json:"users"`
}

// ============================================================================
// System
// ============================================================================

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the livez and readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
