// Package identity abstracts account storage and password verification. The
// local driver keeps argon2id credentials in the membership database;
// deployments delegating sign-in to an external IdP supply their own driver
// and never store passwords here.
package identity

import (
	"context"
	"errors"

	"github.com/simplereimbursement/membership/internal/membership/store"
)

var ErrInvalidCredentials = errors.New("identity: invalid credentials")

// Provider creates and authenticates accounts.
type Provider interface {
	// CreateAccount stores a credential for a new user. The creds repo is
	// passed in so callers can hand over a transaction-scoped repository,
	// keeping account creation atomic with the membership write.
	CreateAccount(ctx context.Context, creds store.Credentials, userID, email, password string) error

	// Authenticate verifies email/password and returns the user id.
	// Lookup misses and password mismatches both return
	// ErrInvalidCredentials so callers cannot probe for known emails.
	Authenticate(ctx context.Context, email, password string) (string, error)
}
