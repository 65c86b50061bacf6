// internal/lifecycle/status.go
package lifecycle

import "time"

// Status defines the nodes of the deal lifecycle graph.
type Status string

const (
	StatusDraft             Status = "draft"
	StatusScoping           Status = "scoping"
	StatusSubmitted         Status = "submitted"
	StatusUnderReview       Status = "under_review"
	StatusRevisionRequested Status = "revision_requested"
	StatusNegotiating       Status = "negotiating"
	StatusApproved          Status = "approved"
	StatusContractDrafting  Status = "contract_drafting"
	StatusClientReview      Status = "client_review"
	StatusSigned            Status = "signed"
	StatusLost              Status = "lost"
)

// AllStatuses lists every lifecycle status in pipeline order.
var AllStatuses = []Status{
	StatusDraft,
	StatusScoping,
	StatusSubmitted,
	StatusUnderReview,
	StatusRevisionRequested,
	StatusNegotiating,
	StatusApproved,
	StatusContractDrafting,
	StatusClientReview,
	StatusSigned,
	StatusLost,
}

// Role defines the actors that move deals through the lifecycle.
type Role string

const (
	RoleSeller   Role = "seller"
	RoleApprover Role = "approver"
	RoleLegal    Role = "legal"
	RoleAdmin    Role = "admin"
)

// Priority is the seller-assigned priority on a deal.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// DealRecord is the read-only view of a deal this package works with.
// The persistence layer owns the row; callers map it into this struct
// and hand it in. Missing timestamps are tolerated (see DaysInStatus).
type DealRecord struct {
	ID               int
	Title            string
	Status           Status
	Priority         Priority
	RevisionCount    int
	AnnualRevenue    float64
	GrowthAmbition   float64
	DraftExpiresAt   *time.Time
	LastStatusChange *time.Time
	CreatedAt        *time.Time
}

// Value returns the monetary figure used as the deal's value proxy.
// Scoping-stage deals have no committed revenue yet, so ambition wins there.
func (d DealRecord) Value() float64 {
	if d.Status == StatusScoping && d.GrowthAmbition > 0 {
		return d.GrowthAmbition
	}
	if d.AnnualRevenue > 0 {
		return d.AnnualRevenue
	}
	if d.GrowthAmbition > 0 {
		return d.GrowthAmbition
	}
	return 0
}

// DaysInStatus returns whole days the deal has sat in its current status.
// Falls back to created_at, then to "now" itself, so a record with no
// timestamps degrades to zero days instead of failing.
func (d DealRecord) DaysInStatus(now time.Time) int {
	ts := d.LastStatusChange
	if ts == nil {
		ts = d.CreatedAt
	}
	if ts == nil {
		return 0
	}
	days := int(now.Sub(*ts).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
