package http

import (
	"github.com/simplereimbursement/membership/internal/membership/domain"
	"github.com/simplereimbursement/membership/pkg/membersdk"
)

func toSDKLicenses(l domain.Licenses) membersdk.Licenses {
	return membersdk.Licenses{
		Admin: membersdk.LicenseCount{Total: l.Admin.Total, Used: l.Admin.Used},
		User:  membersdk.LicenseCount{Total: l.User.Total, Used: l.User.Used},
	}
}

func toSDKInvitation(inv domain.Invitation) membersdk.Invitation {
	return membersdk.Invitation{
		ID:        inv.ID,
		Code:      inv.Code,
		Email:     inv.Email,
		Name:      inv.Name,
		Role:      string(inv.Role),
		Status:    string(inv.Status),
		ExpiresAt: inv.ExpiresAt,
		CreatedAt: inv.CreatedAt,
	}
}

func toSDKUser(u domain.User) membersdk.User {
	return membersdk.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		ManagerID: u.ManagerID,
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
	}
}

func fromSDKPermissions(p *membersdk.Permissions) *domain.Permissions {
	if p == nil {
		return nil
	}
	return &domain.Permissions{
		Submitter: p.Submitter,
		Viewer:    p.Viewer,
		Approver: domain.ApproverGrant{
			IsApprover: p.Approver.IsApprover,
			Levels:     p.Approver.Levels,
		},
	}
}
