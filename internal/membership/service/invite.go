package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	netmail "net/mail"
	"strings"
	"time"

	"github.com/simplereimbursement/membership/internal/membership/domain"
	"github.com/simplereimbursement/membership/internal/membership/identity"
	"github.com/simplereimbursement/membership/internal/membership/mail"
	"github.com/simplereimbursement/membership/internal/membership/store"
	"github.com/simplereimbursement/membership/pkg/cryptox"
	"github.com/simplereimbursement/membership/pkg/idx"
	"github.com/simplereimbursement/membership/pkg/slogx"
)

// codeRerollAttempts bounds how often issuance re-rolls a colliding invite
// code before giving up. With a 34^8 code space collisions are vanishingly
// rare; the bound exists so a broken RNG cannot loop forever.
const codeRerollAttempts = 5

// InviteRequest is one row of an invitation batch.
type InviteRequest struct {
	Email           string
	Name            string
	Role            domain.Role
	ApprovalGroupID string
	ManagerID       string

	// Permissions overrides the role's default bundle when set.
	Permissions *domain.Permissions
}

// IssueResult summarizes a successful batch issuance.
type IssueResult struct {
	Invitations  []domain.Invitation
	Created      int
	EmailsSent   int
	EmailsFailed int
}

// InviteSummary is what an anonymous holder of a code may learn about it.
type InviteSummary struct {
	OrganizationName string
	Email            string
	Name             string
	Role             domain.Role
	InvitedBy        string
	ExpiresAt        time.Time
}

// InviteService issues, validates, accepts and revokes invitations. Seat
// accounting is delegated to the LicenseService and always shares the
// issuance transaction.
type InviteService struct {
	Store    store.Store
	Licenses *LicenseService
	Identity identity.Provider
	Mailer   mail.Sender

	// AppURL is the public frontend base used to build accept links.
	AppURL string

	// TTL is how long issued invitations stay acceptable. Zero means
	// domain.DefaultInvitationTTL.
	TTL time.Duration
}

func (s *InviteService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return domain.DefaultInvitationTTL
}

// IssueBatch validates and issues a batch of invitations for an organization.
// It performs the following steps:
// 1. Verifies the actor is an org admin of the target organization
// 2. Validates every row (email syntax, in-batch duplicates, pending
//    invitations, existing accounts) and collects all problems
// 3. Checks aggregate seat demand per class against availability
// 4. Reserves seats and inserts all invitation rows in one transaction
// 5. Sends invitation emails best-effort, counting failures
func (s *InviteService) IssueBatch(ctx context.Context, actorID, orgID string, reqs []InviteRequest) (IssueResult, error) {
	log := slogx.FromContext(ctx)

	if len(reqs) == 0 {
		return IssueResult{}, &ValidationFailedError{Problems: []string{"batch is empty"}}
	}

	// 1. Authorize: the actor must be an active org admin of this org.
	actor, err := s.Store.Users().GetUserByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return IssueResult{}, ErrUnauthorized
		}
		return IssueResult{}, err
	}
	if actor.OrganizationID != orgID || actor.Role != domain.RoleOrgAdmin || actor.Status != domain.UserActive {
		log.Warn("invitation issuance denied",
			slog.String("actor_id", actorID),
			slog.String("org_id", orgID),
		)
		return IssueResult{}, ErrUnauthorized
	}

	org, err := s.Store.Organizations().GetOrganizationByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return IssueResult{}, ErrOrganizationNotFound
		}
		return IssueResult{}, err
	}

	// 2. Row validation. Everything wrong is collected so the caller can
	// fix the whole batch in one pass.
	var problems []string
	reclaimed := false
	seenEmails := make(map[string]int, len(reqs))
	for i := range reqs {
		reqs[i].Email = strings.ToLower(strings.TrimSpace(reqs[i].Email))
		email := reqs[i].Email

		if _, err := netmail.ParseAddress(email); err != nil {
			problems = append(problems, fmt.Sprintf("row %d: invalid email %q", i, email))
			continue
		}
		if first, dup := seenEmails[email]; dup {
			problems = append(problems, fmt.Sprintf("row %d: duplicate of row %d (%s)", i, first, email))
			continue
		}
		seenEmails[email] = i

		if !reqs[i].Role.Valid() {
			problems = append(problems, fmt.Sprintf("row %d: invalid role %q", i, reqs[i].Role))
			continue
		}
		if reqs[i].Permissions != nil {
			if err := reqs[i].Permissions.Validate(); err != nil {
				problems = append(problems, fmt.Sprintf("row %d: %v", i, err))
				continue
			}
		}

		pending, err := s.Store.Invitations().GetPendingInvitationByEmail(ctx, orgID, email)
		switch {
		case err == nil:
			if !pending.ExpiredAt(time.Now().UTC()) {
				problems = append(problems, fmt.Sprintf("row %d: %s already has a pending invitation", i, email))
				continue
			}
			// The housekeeping pass has not caught up with this hold yet.
			// Reclaim it here so the email can be re-invited immediately.
			if err := s.expireStaleInvitation(ctx, pending); err != nil {
				return IssueResult{}, err
			}
			reclaimed = true
		case !errors.Is(err, store.ErrNotFound):
			return IssueResult{}, err
		}

		if _, err := s.Store.Users().GetUserByEmail(ctx, orgID, email); err == nil {
			problems = append(problems, fmt.Sprintf("row %d: %s is already a member", i, email))
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return IssueResult{}, err
		}

		// Login emails are unique across organizations, so an account in
		// any organization blocks the invitation.
		if _, err := s.Store.Credentials().GetCredentialByEmail(ctx, email); err == nil {
			problems = append(problems, fmt.Sprintf("row %d: %s is already registered to an account", i, email))
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return IssueResult{}, err
		}

		groupID := reqs[i].ApprovalGroupID
		if groupID == "" {
			reqs[i].ApprovalGroupID = domain.DefaultApprovalGroupID
			groupID = domain.DefaultApprovalGroupID
		}
		if _, err := s.Store.ApprovalGroups().GetApprovalGroup(ctx, orgID, groupID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return IssueResult{}, ErrApprovalGroupNotFound
			}
			return IssueResult{}, err
		}
	}
	if len(problems) > 0 {
		log.Warn("invitation batch failed validation",
			slog.String("org_id", orgID),
			slog.Int("problems", len(problems)),
		)
		return IssueResult{}, &ValidationFailedError{Problems: problems}
	}

	// The ledger snapshot predates any reclaimed holds; re-read it so the
	// demand check below sees the returned seats.
	if reclaimed {
		org, err = s.Store.Organizations().GetOrganizationByID(ctx, orgID)
		if err != nil {
			return IssueResult{}, err
		}
	}

	// 3. Aggregate seat demand per class, checked up front so an
	// over-demand batch fails before any row is written.
	demand := map[domain.SeatClass]int{}
	for _, r := range reqs {
		demand[r.Role.SeatClass()]++
	}
	for _, class := range domain.SeatClasses {
		if demand[class] > org.Licenses.ForClass(class).Available() {
			return IssueResult{}, &InsufficientLicensesError{
				Class:     class,
				Needed:    demand[class],
				Available: org.Licenses.ForClass(class).Available(),
			}
		}
	}

	// 4. Build the invitation rows.
	now := time.Now().UTC()
	invitations := make([]domain.Invitation, 0, len(reqs))
	for _, r := range reqs {
		permissions := domain.DefaultPermissions(r.Role)
		if r.Permissions != nil {
			permissions = *r.Permissions
		}
		invitations = append(invitations, domain.Invitation{
			ID:              idx.New().String(),
			Email:           r.Email,
			Name:            r.Name,
			Role:            r.Role,
			Permissions:     permissions,
			OrganizationID:  orgID,
			ApprovalGroupID: r.ApprovalGroupID,
			ManagerID:       r.ManagerID,
			Status:          domain.InvitationPending,
			CreatedBy:       actorID,
			CreatedAt:       now,
			ExpiresAt:       now.Add(s.ttl()),
		})
	}

	// 5. Reserve seats and insert everything in one transaction. The
	// conditional reserve re-checks availability, so a concurrent batch
	// cannot oversubscribe between step 3 and here.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, class := range domain.SeatClasses {
			if err := s.Licenses.ReserveSeats(ctx, tx, orgID, class, demand[class]); err != nil {
				return err
			}
		}
		for i := range invitations {
			if err := s.createWithFreshCode(ctx, tx, &invitations[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return IssueResult{}, err
	}

	// 6. Emails are best-effort: issuance already succeeded, so delivery
	// failures are counted and logged, never rolled back.
	result := IssueResult{Invitations: invitations, Created: len(invitations)}
	for _, inv := range invitations {
		msg := mail.InviteEmail{
			To:               inv.Email,
			RecipientName:    inv.Name,
			OrganizationName: org.Name,
			InviterName:      actor.Name,
			Code:             inv.Code,
			AcceptURL:        fmt.Sprintf("%s/invite/%s", strings.TrimRight(s.AppURL, "/"), inv.Code),
			ExpiresInDays:    int(s.ttl().Hours() / 24),
		}
		if err := s.Mailer.SendInvite(ctx, msg); err != nil {
			log.Error("failed to send invitation email",
				slog.String("invitation_id", inv.ID),
				slog.Any("error", err),
			)
			result.EmailsFailed++
			continue
		}
		result.EmailsSent++
	}

	log.Info("invitation batch issued",
		slog.String("org_id", orgID),
		slog.Int("created", result.Created),
		slog.Int("emails_sent", result.EmailsSent),
		slog.Int("emails_failed", result.EmailsFailed),
	)
	return result, nil
}

// expireStaleInvitation flips a pending invitation past its expiry and
// returns its seat, the same way the housekeeping pass does for a whole
// organization. A missed conditional flip means an acceptance or a
// housekeeping pass got there first, which leaves nothing to release.
func (s *InviteService) expireStaleInvitation(ctx context.Context, inv domain.Invitation) error {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Invitations().MarkInvitationExpired(ctx, inv.ID); err != nil {
			return err
		}
		return s.Licenses.ReleaseSeats(ctx, tx, inv.OrganizationID, inv.Role.SeatClass(), 1)
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// createWithFreshCode inserts the invitation, re-rolling the code on the
// unlikely collision with an existing one.
func (s *InviteService) createWithFreshCode(ctx context.Context, tx store.Tx, inv *domain.Invitation) error {
	for attempt := 0; attempt < codeRerollAttempts; attempt++ {
		code, err := cryptox.GenerateInviteCode()
		if err != nil {
			return err
		}
		inv.Code = code

		err = tx.Invitations().CreateInvitation(ctx, *inv)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrAlreadyExists) {
			return err
		}
	}
	return fmt.Errorf("could not find a free invite code after %d attempts", codeRerollAttempts)
}

// Validate resolves a code into the summary shown on the accept page.
func (s *InviteService) Validate(ctx context.Context, code string) (InviteSummary, error) {
	inv, org, err := s.lookup(ctx, code)
	if err != nil {
		return InviteSummary{}, err
	}

	invitedBy := inv.CreatedBy
	if inviter, err := s.Store.Users().GetUserByID(ctx, inv.CreatedBy); err == nil {
		invitedBy = inviter.Name
	}

	return InviteSummary{
		OrganizationName: org.Name,
		Email:            inv.Email,
		Name:             inv.Name,
		Role:             inv.Role,
		InvitedBy:        invitedBy,
		ExpiresAt:        inv.ExpiresAt,
	}, nil
}

// Accept redeems an invitation, creating the user and their credential.
// It performs the following steps:
// 1. Resolves the code (not found / expired / already used)
// 2. In one transaction: creates the user, flips the invitation to accepted
//    conditional on it still being pending, and stores the credential
// 3. Sends a welcome email best-effort
// A replay with the same code returns ErrInvitationAlreadyUsed and creates
// nothing; a lost race on the conditional flip surfaces the same way.
func (s *InviteService) Accept(ctx context.Context, code, name, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if password == "" {
		return domain.User{}, &ValidationFailedError{Problems: []string{"password is required"}}
	}

	inv, org, err := s.lookup(ctx, code)
	if err != nil {
		return domain.User{}, err
	}

	if name == "" {
		name = inv.Name
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:             idx.New().String(),
		OrganizationID: inv.OrganizationID,
		Email:          inv.Email,
		Name:           name,
		Role:           inv.Role,
		Permissions:    inv.Permissions,
		ManagerID:      inv.ManagerID,
		Status:         domain.UserActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// The conditional flip goes first: if another acceptance won the
		// race the whole transaction rolls back before any user exists.
		if err := tx.Invitations().MarkInvitationAccepted(ctx, inv.ID, user.ID, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvitationAlreadyUsed
			}
			return err
		}
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}
		return s.Identity.CreateAccount(ctx, tx.Credentials(), user.ID, user.Email, password)
	})
	if err != nil {
		// Credential emails are unique across organizations. The email can
		// gain an account elsewhere between issuance and acceptance; the
		// invitation stays pending so the admin can revoke it.
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailAlreadyRegistered
		}
		return domain.User{}, err
	}

	if err := s.Mailer.SendWelcome(ctx, mail.WelcomeEmail{
		To:               user.Email,
		RecipientName:    user.Name,
		OrganizationName: org.Name,
		SignInURL:        strings.TrimRight(s.AppURL, "/") + "/login",
	}); err != nil {
		log.Error("failed to send welcome email",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	log.Info("invitation accepted",
		slog.String("invitation_id", inv.ID),
		slog.String("user_id", user.ID),
		slog.String("org_id", user.OrganizationID),
	)
	return user, nil
}

// Revoke cancels a pending invitation and returns its seat to the pool.
func (s *InviteService) Revoke(ctx context.Context, actorID, code string) error {
	log := slogx.FromContext(ctx)

	normalized := cryptox.NormalizeInviteCode(code)
	inv, err := s.Store.Invitations().GetInvitationByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvitationNotFound
		}
		return err
	}

	actor, err := s.Store.Users().GetUserByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUnauthorized
		}
		return err
	}
	if actor.OrganizationID != inv.OrganizationID || actor.Role != domain.RoleOrgAdmin {
		return ErrUnauthorized
	}

	if inv.Status != domain.InvitationPending {
		return ErrInvitationAlreadyUsed
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Invitations().MarkInvitationRevoked(ctx, inv.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvitationAlreadyUsed
			}
			return err
		}
		return s.Licenses.ReleaseSeats(ctx, tx, inv.OrganizationID, inv.Role.SeatClass(), 1)
	})
	if err != nil {
		return err
	}

	log.Info("invitation revoked",
		slog.String("invitation_id", inv.ID),
		slog.String("org_id", inv.OrganizationID),
	)
	return nil
}

// ListByOrganization returns an organization's invitations for the admin UI.
func (s *InviteService) ListByOrganization(ctx context.Context, orgID string) ([]domain.Invitation, error) {
	return s.Store.Invitations().ListByOrganization(ctx, orgID)
}

// lookup resolves a code to its invitation and organization, mapping store
// misses and lifecycle states to the public sentinel errors. Expiry wins
// over the stored status: the housekeeping pass may lag behind the clock.
func (s *InviteService) lookup(ctx context.Context, code string) (domain.Invitation, domain.Organization, error) {
	normalized := cryptox.NormalizeInviteCode(code)
	if !cryptox.ValidInviteCode(normalized) {
		return domain.Invitation{}, domain.Organization{}, ErrInvitationNotFound
	}

	inv, err := s.Store.Invitations().GetInvitationByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, domain.Organization{}, ErrInvitationNotFound
		}
		return domain.Invitation{}, domain.Organization{}, err
	}

	if inv.ExpiredAt(time.Now()) {
		return domain.Invitation{}, domain.Organization{}, ErrInvitationExpired
	}
	if inv.Status != domain.InvitationPending {
		if inv.Status == domain.InvitationExpired {
			return domain.Invitation{}, domain.Organization{}, ErrInvitationExpired
		}
		return domain.Invitation{}, domain.Organization{}, ErrInvitationAlreadyUsed
	}

	org, err := s.Store.Organizations().GetOrganizationByID(ctx, inv.OrganizationID)
	if err != nil {
		return domain.Invitation{}, domain.Organization{}, err
	}
	return inv, org, nil
}
