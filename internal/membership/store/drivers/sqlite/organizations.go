package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/simplereimbursement/membership/internal/membership/domain"
	"github.com/simplereimbursement/membership/internal/membership/store"
)

type organizationsRepo struct {
	q dbtx
}

const organizationColumns = `id, name, billing_customer_id, subscription_id,
	billing_period, subscription_status,
	admin_seats_total, admin_seats_used, user_seats_total, user_seats_used,
	settings, created_at, updated_at`

func (r *organizationsRepo) GetOrganizationByID(ctx context.Context, id string) (domain.Organization, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+organizationColumns+` FROM organizations WHERE id = ?`, id)
	return scanOrganization(row)
}

func (r *organizationsRepo) GetOrganizationBySubscriptionID(ctx context.Context, subscriptionID string) (domain.Organization, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+organizationColumns+` FROM organizations WHERE subscription_id = ?`, subscriptionID)
	return scanOrganization(row)
}

func (r *organizationsRepo) CreateOrganization(ctx context.Context, org domain.Organization) error {
	settings, err := marshalSettings(org.Settings)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, `
		INSERT INTO organizations (
			id, name, billing_customer_id, subscription_id,
			billing_period, subscription_status,
			admin_seats_total, admin_seats_used,
			user_seats_total, user_seats_used,
			settings, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		org.ID, org.Name, org.BillingCustomerID, org.SubscriptionID,
		org.BillingPeriod, string(org.SubscriptionStatus),
		org.Licenses.Admin.Total, org.Licenses.Admin.Used,
		org.Licenses.User.Total, org.Licenses.User.Used,
		settings, org.CreatedAt, org.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *organizationsRepo) ReserveSeats(ctx context.Context, orgID string, class domain.SeatClass, n int) error {
	totalCol, usedCol := seatColumns(class)

	// Conditional increment: the WHERE clause is the whole point. Two
	// racing reservations both run this statement, but only the one that
	// still fits past the limit matches a row.
	res, err := r.q.ExecContext(ctx, fmt.Sprintf(`
		UPDATE organizations
		SET %[1]s = %[1]s + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND %[1]s + ? <= %[2]s`, usedCol, totalCol),
		n, orgID, n,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Distinguish a missing org from an over-limit reservation.
		if _, err := r.GetOrganizationByID(ctx, orgID); err != nil {
			return err
		}
		return store.ErrInsufficientSeats
	}
	return nil
}

func (r *organizationsRepo) ReleaseSeats(ctx context.Context, orgID string, class domain.SeatClass, n int) error {
	_, usedCol := seatColumns(class)

	res, err := r.q.ExecContext(ctx, fmt.Sprintf(`
		UPDATE organizations
		SET %[1]s = MAX(%[1]s - ?, 0), updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, usedCol),
		n, orgID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *organizationsRepo) UpdateSeatTotals(ctx context.Context, orgID string, class domain.SeatClass, total int) error {
	totalCol, usedCol := seatColumns(class)

	res, err := r.q.ExecContext(ctx, fmt.Sprintf(`
		UPDATE organizations
		SET %[1]s = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND %[2]s <= ?`, totalCol, usedCol),
		total, orgID, total,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := r.GetOrganizationByID(ctx, orgID); err != nil {
			return err
		}
		return store.ErrSeatTotalBelowUsed
	}
	return nil
}

func (r *organizationsRepo) UpdateSubscriptionStatus(ctx context.Context, orgID string, status domain.SubscriptionStatus) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE organizations
		SET subscription_status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		string(status), orgID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanOrganization(row *sql.Row) (domain.Organization, error) {
	var org domain.Organization
	var status, settings string

	err := row.Scan(
		&org.ID, &org.Name, &org.BillingCustomerID, &org.SubscriptionID,
		&org.BillingPeriod, &status,
		&org.Licenses.Admin.Total, &org.Licenses.Admin.Used,
		&org.Licenses.User.Total, &org.Licenses.User.Used,
		&settings, &org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		return domain.Organization{}, mapNotFound(err)
	}

	org.SubscriptionStatus = domain.SubscriptionStatus(status)
	org.Settings, err = unmarshalSettings(settings)
	if err != nil {
		return domain.Organization{}, err
	}
	return org, nil
}
