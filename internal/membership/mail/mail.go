// Package mail delivers transactional email for the membership flows. The
// only message today is the invitation email; welcome mail reuses the same
// plumbing.
package mail

import "context"

// InviteEmail carries everything the invitation template needs.
type InviteEmail struct {
	To               string
	RecipientName    string
	OrganizationName string
	InviterName      string
	Code             string
	AcceptURL        string
	ExpiresInDays    int
}

// WelcomeEmail is sent after an invitation is accepted.
type WelcomeEmail struct {
	To               string
	RecipientName    string
	OrganizationName string
	SignInURL        string
}

// Sender delivers membership email. Delivery failures must not roll back the
// state change that triggered the message; callers log and move on.
type Sender interface {
	SendInvite(ctx context.Context, msg InviteEmail) error
	SendWelcome(ctx context.Context, msg WelcomeEmail) error
}
