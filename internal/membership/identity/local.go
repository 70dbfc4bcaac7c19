package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/simplereimbursement/membership/internal/membership/domain"
	"github.com/simplereimbursement/membership/internal/membership/store"
	"github.com/simplereimbursement/membership/pkg/cryptox"
)

// Local is the built-in identity driver. Passwords are stored as argon2id
// hashes in the credentials table.
type Local struct {
	Store store.Store
}

func NewLocal(s store.Store) *Local {
	return &Local{Store: s}
}

func (l *Local) CreateAccount(ctx context.Context, creds store.Credentials, userID, email, password string) error {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return creds.CreateCredential(ctx, domain.Credential{
		UserID:       userID,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (l *Local) Authenticate(ctx context.Context, email, password string) (string, error) {
	cred, err := l.Store.Credentials().GetCredentialByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a hash anyway so misses take as long as mismatches.
			_, _ = cryptox.HashPassword(password)
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := cryptox.VerifyPassword(password, cred.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	return cred.UserID, nil
}
