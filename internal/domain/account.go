package domain

import "time"

// Plan enumerates billing plans.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

const (
	// FreePlanCredits is the allotment granted to free accounts on each
	// daily reset.
	FreePlanCredits = 10

	// ProPlanCredits is the sentinel stored for pro accounts. Admission
	// never consults the balance once a plan is pro.
	ProPlanCredits = -1

	// ProPlanPrice is the one-time upgrade price recorded on receipts.
	ProPlanPrice = 199
)

// Account represents a registered user profile with its entitlement state.
type Account struct {
	ID              string
	Email           string
	PasswordHash    string
	Plan            Plan
	Credits         int
	LastCreditReset time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsFree reports whether the account is on the free plan.
func (a Account) IsFree() bool {
	return a.Plan == PlanFree
}
