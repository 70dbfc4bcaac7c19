package mail

import (
	"context"
	"sync"
)

// Noop drops all mail. Default when SMTP is not configured.
type Noop struct{}

func (Noop) SendInvite(ctx context.Context, msg InviteEmail) error   { return nil }
func (Noop) SendWelcome(ctx context.Context, msg WelcomeEmail) error { return nil }

// Recorder captures sent mail for assertions in tests.
type Recorder struct {
	mu       sync.Mutex
	Invites  []InviteEmail
	Welcomes []WelcomeEmail
}

func (r *Recorder) SendInvite(ctx context.Context, msg InviteEmail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Invites = append(r.Invites, msg)
	return nil
}

func (r *Recorder) SendWelcome(ctx context.Context, msg WelcomeEmail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Welcomes = append(r.Welcomes, msg)
	return nil
}
