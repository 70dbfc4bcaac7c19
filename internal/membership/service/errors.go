package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/simplereimbursement/membership/internal/membership/domain"
)

var (
	ErrUnauthorized          = errors.New("actor is not allowed to perform this action")
	ErrOrganizationNotFound  = errors.New("organization not found")
	ErrApprovalGroupNotFound = errors.New("approval group not found")

	ErrInvitationNotFound    = errors.New("invitation not found")
	ErrInvitationExpired     = errors.New("invitation has expired")
	ErrInvitationAlreadyUsed = errors.New("invitation has already been used")

	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidLogin    = errors.New("invalid email or password")
	ErrSeatTotalTooLow = errors.New("seat total is below current usage")
	ErrUnknownWebhook  = errors.New("unhandled webhook event")
)

// InsufficientLicensesError reports per-class seat demand against what the
// organization still has available. It aborts an entire invitation batch.
type InsufficientLicensesError struct {
	Class     domain.SeatClass
	Needed    int
	Available int
}

func (e *InsufficientLicensesError) Error() string {
	return fmt.Sprintf("insufficient %s licenses: need %d, have %d available",
		e.Class, e.Needed, e.Available)
}

// IsInsufficientLicenses unwraps err into an InsufficientLicensesError.
func IsInsufficientLicenses(err error) (*InsufficientLicensesError, bool) {
	var lic *InsufficientLicensesError
	if errors.As(err, &lic) {
		return lic, true
	}
	return nil, false
}

// ValidationFailedError collects every per-row problem found while checking
// an invitation batch, so the caller can fix them all in one pass.
type ValidationFailedError struct {
	Problems []string
}

func (e *ValidationFailedError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// IsValidationFailed unwraps err into a ValidationFailedError.
func IsValidationFailed(err error) (*ValidationFailedError, bool) {
	var v *ValidationFailedError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
