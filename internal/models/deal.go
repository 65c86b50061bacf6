package models

import (
	"time"

	"dealdesk/internal/lifecycle"
)

// Deal is the persisted deal row. Status/priority are stored as plain
// strings; the lifecycle engine works on the typed view from Record().
type Deal struct {
	ID             int     `json:"id"`
	ClientID       int     `json:"client_id"`
	OwnerID        int     `json:"owner_id"`
	Title          string  `json:"title"`
	Status         string  `json:"status"`
	Priority       string  `json:"priority"`
	RevisionCount  int     `json:"revision_count"`
	AnnualRevenue  float64 `json:"annual_revenue"`
	GrowthAmbition float64 `json:"growth_ambition"`

	DraftExpiresAt   *time.Time `json:"draft_expires_at,omitempty"`
	LastStatusChange *time.Time `json:"last_status_change,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Record maps the row into the read-only view the lifecycle engine consumes.
func (d *Deal) Record() lifecycle.DealRecord {
	rec := lifecycle.DealRecord{
		ID:               d.ID,
		Title:            d.Title,
		Status:           lifecycle.Status(d.Status),
		Priority:         lifecycle.Priority(d.Priority),
		RevisionCount:    d.RevisionCount,
		AnnualRevenue:    d.AnnualRevenue,
		GrowthAmbition:   d.GrowthAmbition,
		DraftExpiresAt:   d.DraftExpiresAt,
		LastStatusChange: d.LastStatusChange,
	}
	if !d.CreatedAt.IsZero() {
		created := d.CreatedAt
		rec.CreatedAt = &created
	}
	return rec
}

// StatusHistoryEntry is one append-only record of a status change.
type StatusHistoryEntry struct {
	ID         int       `json:"id"`
	DealID     int       `json:"deal_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ActorID    int       `json:"actor_id"`
	Comment    string    `json:"comment,omitempty"`
	ChangedAt  time.Time `json:"changed_at"`
}
