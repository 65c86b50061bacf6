// internal/lifecycle/flow.go
package lifecycle

import (
	"fmt"
	"time"
)

// FlowStatus is the derived health of a deal in its current status.
type FlowStatus string

const (
	FlowOnTrack        FlowStatus = "on_track"
	FlowNeedsAttention FlowStatus = "needs_attention"
)

// FlowUrgency grades how loudly a needs_attention deal should surface.
type FlowUrgency string

const (
	UrgencyNormal    FlowUrgency = "normal"
	UrgencyAttention FlowUrgency = "attention"
	UrgencyUrgent    FlowUrgency = "urgent"
)

// FlowClassification is recomputed on every call and never stored.
type FlowClassification struct {
	FlowStatus     FlowStatus  `json:"flow_status"`
	Reason         string      `json:"reason"`
	DaysInStatus   int         `json:"days_in_status"`
	ActionRequired bool        `json:"action_required"`
	UrgencyLevel   FlowUrgency `json:"urgency_level"`
}

// Threshold is the per-status day-count pair for the timing fallback.
type Threshold struct {
	Normal         int `yaml:"normal" json:"normal"`
	NeedsAttention int `yaml:"needs_attention" json:"needs_attention"`
}

// Ожидаемые сроки по статусам (дни). Переопределяются из конфига.
var defaultThresholds = map[Status]Threshold{
	StatusScoping:          {Normal: 3, NeedsAttention: 7},
	StatusSubmitted:        {Normal: 1, NeedsAttention: 3},
	StatusUnderReview:      {Normal: 3, NeedsAttention: 5},
	StatusNegotiating:      {Normal: 3, NeedsAttention: 7},
	StatusApproved:         {Normal: 2, NeedsAttention: 5},
	StatusContractDrafting: {Normal: 2, NeedsAttention: 4},
	StatusClientReview:     {Normal: 3, NeedsAttention: 7},
}

const largeDealRevenue = 5_000_000 // tighter SLA above this annual revenue

// Classifier decides whether a deal is healthy in its current status.
// Pure: identical (deal, now) inputs always produce the same result.
type Classifier struct {
	thresholds map[Status]Threshold
}

// Classify runs the ordered rule list: terminal shortcut, business-risk
// overrides (first match wins), then the per-status timing threshold.
func (c *Classifier) Classify(d DealRecord, now time.Time) FlowClassification {
	days := d.DaysInStatus(now)

	// 1) финальные и черновики не трекаем
	if d.Status == StatusSigned || d.Status == StatusLost || d.Status == StatusDraft {
		return onTrack(fmt.Sprintf("deal is %s", d.Status), days)
	}

	// 2) business-risk overrides, fixed order, first match wins
	if d.Status == StatusRevisionRequested {
		return needsAttention(
			fmt.Sprintf("revision requested %d days ago; seller response is outstanding", days),
			days, UrgencyAttention)
	}
	if d.Status == StatusNegotiating && days > 7 {
		return needsAttention(
			fmt.Sprintf("negotiation has been open for %d days", days),
			days, UrgencyAttention)
	}
	if d.RevisionCount >= 2 {
		return needsAttention(
			fmt.Sprintf("deal has been revised %d times", d.RevisionCount),
			days, UrgencyAttention)
	}
	if d.DraftExpiresAt != nil {
		daysLeft := int(d.DraftExpiresAt.Sub(now).Hours() / 24)
		if d.DraftExpiresAt.Before(now) {
			return needsAttention("deal draft has expired", days, UrgencyUrgent)
		}
		if daysLeft <= 3 {
			return needsAttention(
				fmt.Sprintf("deal draft expires in %d days", daysLeft),
				days, UrgencyUrgent)
		}
	}
	if (d.Priority == PriorityHigh || d.Priority == PriorityCritical) && days > 1 {
		return needsAttention(
			fmt.Sprintf("%s priority deal has been idle for %d days", d.Priority, days),
			days, UrgencyUrgent)
	}
	if d.Status == StatusSubmitted && days > 3 {
		return needsAttention(
			fmt.Sprintf("deal has been submitted for %d days without review", days),
			days, UrgencyAttention)
	}
	if d.Status == StatusApproved && days > 5 {
		return needsAttention(
			fmt.Sprintf("deal was approved %d days ago and is still not in drafting", days),
			days, UrgencyAttention)
	}
	if d.Status == StatusContractDrafting && days > 4 {
		return needsAttention(
			fmt.Sprintf("contract has been in drafting for %d days", days),
			days, UrgencyAttention)
	}
	if d.Status == StatusClientReview && days > 7 {
		return needsAttention(
			fmt.Sprintf("client has been reviewing for %d days", days),
			days, UrgencyAttention)
	}
	if d.AnnualRevenue > largeDealRevenue && days > 2 {
		return needsAttention(
			fmt.Sprintf("large deal idle for %d days", days),
			days, UrgencyUrgent)
	}

	// 3) timing fallback per status
	th, ok := c.thresholds[d.Status]
	if !ok {
		// 4) unconfigured status is not an error
		return onTrack(fmt.Sprintf("status %s is not tracked", d.Status), days)
	}
	if days >= th.NeedsAttention {
		return needsAttention(
			fmt.Sprintf("%d days in %s, expected at most %d", days, d.Status, th.NeedsAttention),
			days, UrgencyAttention)
	}
	return onTrack(
		fmt.Sprintf("%d days in %s, within the expected %d", days, d.Status, th.NeedsAttention),
		days)
}

func onTrack(reason string, days int) FlowClassification {
	return FlowClassification{
		FlowStatus:   FlowOnTrack,
		Reason:       reason,
		DaysInStatus: days,
		UrgencyLevel: UrgencyNormal,
	}
}

func needsAttention(reason string, days int, urgency FlowUrgency) FlowClassification {
	return FlowClassification{
		FlowStatus:     FlowNeedsAttention,
		Reason:         reason,
		DaysInStatus:   days,
		ActionRequired: true,
		UrgencyLevel:   urgency,
	}
}
