package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/simplereimbursement/membership/internal/membership/domain"
	"github.com/simplereimbursement/membership/internal/membership/identity"
	"github.com/simplereimbursement/membership/internal/membership/store"
	"github.com/simplereimbursement/membership/pkg/jwtx"
	"github.com/simplereimbursement/membership/pkg/slogx"
)

// Session is a minted login token plus its subject.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

// SessionService exchanges credentials for signed session tokens.
type SessionService struct {
	Store    store.Store
	Identity identity.Provider
	Signer   jwtx.Signer

	// Issuer is stamped into the iss claim and must match what the
	// verifier enforces.
	Issuer string

	// TTL is the session token lifetime. Zero means jwtx.DefaultSessionTTL.
	TTL time.Duration
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return jwtx.DefaultSessionTTL
}

// Login verifies credentials and mints a session token. Disabled users and
// unknown emails both come back as ErrInvalidLogin.
func (s *SessionService) Login(ctx context.Context, email, password string) (Session, error) {
	log := slogx.FromContext(ctx)

	// 1. Authenticate against the identity provider.
	userID, err := s.Identity.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			log.Warn("failed login attempt", slog.String("email", email))
			return Session{}, ErrInvalidLogin
		}
		return Session{}, err
	}

	// 2. Resolve the membership; a credential without an active user is a
	// removed member and must not get a token.
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrInvalidLogin
		}
		return Session{}, err
	}
	if user.Status != domain.UserActive {
		log.Warn("login attempt by disabled user", slog.String("user_id", userID))
		return Session{}, ErrInvalidLogin
	}

	// 3. Mint the token.
	now := time.Now()
	claims := jwtx.NewSessionClaims(user.ID, user.OrganizationID, string(user.Role), user.Name, s.ttl(), s.Issuer, now)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		return Session{}, err
	}

	log.Debug("session created",
		slog.String("user_id", user.ID),
		slog.String("org_id", user.OrganizationID),
	)
	return Session{
		Token:     token,
		ExpiresAt: now.Add(s.ttl()),
		User:      user,
	}, nil
}
