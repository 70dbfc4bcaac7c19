package domain

import "time"

// SeatClass is a purchased capacity unit class. Admin seats and user seats
// are priced and counted separately.
type SeatClass string

const (
	SeatClassAdmin SeatClass = "admin"
	SeatClassUser  SeatClass = "user"
)

// SeatClasses lists every seat class in a stable order.
var SeatClasses = []SeatClass{SeatClassAdmin, SeatClassUser}

// SubscriptionStatus mirrors the billing provider's subscription state.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// LicenseCount is the seat ledger for one class.
// Invariant: 0 <= Used <= Total at all times.
type LicenseCount struct {
	Total int `json:"total"`
	Used  int `json:"used"`
}

// Available returns the number of unclaimed seats.
func (c LicenseCount) Available() int { return c.Total - c.Used }

// Licenses holds the per-class seat ledgers of an organization.
type Licenses struct {
	Admin LicenseCount `json:"admin"`
	User  LicenseCount `json:"user"`
}

// ForClass returns the ledger for the given seat class.
func (l Licenses) ForClass(class SeatClass) LicenseCount {
	if class == SeatClassAdmin {
		return l.Admin
	}
	return l.User
}

// ApprovalThreshold is one row of an approval workflow's threshold table:
// expenses up to Amount require Levels approval levels. The configuration is
// stored per organization; evaluation against expenses happens elsewhere.
type ApprovalThreshold struct {
	Amount float64 `json:"amount"`
	Levels int     `json:"levels"`
}

// ApprovalWorkflow is a named threshold table assignable to approval groups.
type ApprovalWorkflow struct {
	Name       string              `json:"name"`
	Levels     int                 `json:"levels"`
	Thresholds []ApprovalThreshold `json:"thresholds"`
}

// Settings is the organization-level configuration blob.
type Settings struct {
	ApprovalWorkflows map[string]ApprovalWorkflow `json:"approvalWorkflows"`
	ExpenseCategories []string                    `json:"expenseCategories"`
	DefaultCurrency   string                      `json:"defaultCurrency"`
}

// DefaultSettings returns the configuration a freshly provisioned
// organization starts with.
func DefaultSettings() Settings {
	return Settings{
		ApprovalWorkflows: map[string]ApprovalWorkflow{
			"default": {
				Name:   "Default Workflow",
				Levels: 1,
				Thresholds: []ApprovalThreshold{
					{Amount: 100, Levels: 1},
					{Amount: 500, Levels: 2},
					{Amount: 1000, Levels: 3},
				},
			},
		},
		ExpenseCategories: []string{
			"Travel", "Meals", "Office Supplies", "Software",
			"Hardware", "Events", "Other",
		},
		DefaultCurrency: "USD",
	}
}

type Organization struct {
	ID                 string
	Name               string
	BillingCustomerID  string
	SubscriptionID     string
	BillingPeriod      string // monthly or yearly
	SubscriptionStatus SubscriptionStatus
	Licenses           Licenses
	Settings           Settings
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
