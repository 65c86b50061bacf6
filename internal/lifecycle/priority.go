// internal/lifecycle/priority.go
package lifecycle

import (
	"fmt"
	"sort"
	"time"
)

// maxPriorityItems bounds the worklist a role sees.
const maxPriorityItems = 10

// ActionType names what the UI should let the actor do with an item.
type ActionType string

const (
	ActionResumeDraft     ActionType = "resume_draft"
	ActionCompleteScoping ActionType = "complete_scoping"
	ActionStartReview     ActionType = "start_review"
	ActionReviewApprove   ActionType = "review_approve"
	ActionSubmitRevision  ActionType = "submit_revision"
	ActionFollowUp        ActionType = "follow_up"
	ActionLegalReview     ActionType = "legal_review"
	ActionSendContract    ActionType = "send_contract"
	ActionChaseClient     ActionType = "chase_client"
	ActionReviewDeal      ActionType = "review_deal"
)

// ItemUrgency is the worklist bucket, distinct from the classifier's grades.
type ItemUrgency string

const (
	ItemLow    ItemUrgency = "low"
	ItemMedium ItemUrgency = "medium"
	ItemHigh   ItemUrgency = "high"
)

var urgencyRank = map[ItemUrgency]int{ItemLow: 0, ItemMedium: 1, ItemHigh: 2}

// PriorityItem is one entry of a role's worklist. Built fresh per call.
type PriorityItem struct {
	ID          string      `json:"id"`
	DealID      int         `json:"deal_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Urgency     ItemUrgency `json:"urgency"`
	ActionType  ActionType  `json:"action_type"`
	ActionLabel string      `json:"action_label"`
	DaysOverdue int         `json:"days_overdue"`
}

// Какие статусы вообще интересны роли. Черновики идут отдельной полосой.
var relevantStatuses = map[Role]map[Status]bool{
	RoleSeller: {
		StatusScoping:           true,
		StatusUnderReview:       true,
		StatusRevisionRequested: true,
		StatusNegotiating:       true,
		StatusContractDrafting:  true,
	},
	RoleApprover: {
		StatusSubmitted:         true,
		StatusUnderReview:       true,
		StatusRevisionRequested: true,
	},
	RoleLegal: {
		StatusApproved:         true,
		StatusContractDrafting: true,
		StatusClientReview:     true,
	},
	RoleAdmin: {
		StatusScoping:           true,
		StatusSubmitted:         true,
		StatusUnderReview:       true,
		StatusRevisionRequested: true,
		StatusNegotiating:       true,
		StatusApproved:          true,
		StatusContractDrafting:  true,
		StatusClientReview:      true,
	},
}

type actionDef struct {
	Type  ActionType
	Label string
}

var actionsByRole = map[Role]map[Status]actionDef{
	RoleSeller: {
		StatusScoping:           {ActionCompleteScoping, "Complete Scoping"},
		StatusUnderReview:       {ActionFollowUp, "Follow Up Review"},
		StatusRevisionRequested: {ActionSubmitRevision, "Submit Revision"},
		StatusNegotiating:       {ActionFollowUp, "Follow Up Negotiation"},
		StatusContractDrafting:  {ActionFollowUp, "Track Contract"},
	},
	RoleApprover: {
		StatusSubmitted:         {ActionStartReview, "Start Review"},
		StatusUnderReview:       {ActionReviewApprove, "Review & Approve"},
		StatusRevisionRequested: {ActionFollowUp, "Track Revision"},
	},
	RoleLegal: {
		StatusApproved:         {ActionLegalReview, "Legal Review"},
		StatusContractDrafting: {ActionSendContract, "Send Contract"},
		StatusClientReview:     {ActionChaseClient, "Chase Client"},
	},
	RoleAdmin: {
		StatusScoping:           {ActionCompleteScoping, "Complete Scoping"},
		StatusSubmitted:         {ActionStartReview, "Start Review"},
		StatusUnderReview:       {ActionReviewApprove, "Review & Approve"},
		StatusRevisionRequested: {ActionFollowUp, "Track Revision"},
		StatusNegotiating:       {ActionFollowUp, "Follow Up Negotiation"},
		StatusApproved:          {ActionLegalReview, "Legal Review"},
		StatusContractDrafting:  {ActionSendContract, "Send Contract"},
		StatusClientReview:      {ActionChaseClient, "Chase Client"},
	},
}

// Ranker turns raw deal records plus a role into a bounded, ordered worklist.
type Ranker struct {
	classifier *Classifier
}

// NeedsAttention reports whether a deal's status is relevant to the role's
// worklist at all. Status-only; urgency is decided later.
func (r *Ranker) NeedsAttention(d DealRecord, role Role) bool {
	return relevantStatuses[role][d.Status]
}

// Rank filters, labels, scores and sorts deals for the role. The result is
// a fresh slice of at most ten items.
func (r *Ranker) Rank(deals []DealRecord, role Role, now time.Time) []PriorityItem {
	items := make([]PriorityItem, 0, len(deals))
	seenDrafts := map[int]bool{}

	// Черновики: отдельная полоса для seller/admin, без дублей.
	if role == RoleSeller || role == RoleAdmin {
		for _, d := range deals {
			if d.Status != StatusDraft || seenDrafts[d.ID] {
				continue
			}
			seenDrafts[d.ID] = true
			days := d.DaysInStatus(now)
			items = append(items, PriorityItem{
				ID:          fmt.Sprintf("draft-%d", d.ID),
				DealID:      d.ID,
				Title:       d.Title,
				Description: fmt.Sprintf("draft saved %d days ago", days),
				Urgency:     ItemLow,
				ActionType:  ActionResumeDraft,
				ActionLabel: "Resume Draft",
				DaysOverdue: days,
			})
		}
	}

	for _, d := range deals {
		if !r.NeedsAttention(d, role) {
			continue
		}
		fc := r.classifier.Classify(d, now)
		action, ok := actionsByRole[role][d.Status]
		if !ok {
			action = actionDef{ActionReviewDeal, "Review Deal"}
		}
		items = append(items, PriorityItem{
			ID:          fmt.Sprintf("deal-%d", d.ID),
			DealID:      d.ID,
			Title:       d.Title,
			Description: fc.Reason,
			Urgency:     itemUrgency(fc, d),
			ActionType:  action.Type,
			ActionLabel: action.Label,
			DaysOverdue: r.daysOverdue(d, fc.DaysInStatus),
		})
	}

	draftsFirst := role == RoleSeller
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if draftsFirst && (a.ActionType == ActionResumeDraft) != (b.ActionType == ActionResumeDraft) {
			return a.ActionType == ActionResumeDraft
		}
		if urgencyRank[a.Urgency] != urgencyRank[b.Urgency] {
			return urgencyRank[a.Urgency] > urgencyRank[b.Urgency]
		}
		return a.DaysOverdue > b.DaysOverdue
	})

	if len(items) > maxPriorityItems {
		items = items[:maxPriorityItems]
	}
	return items
}

// itemUrgency is max(classifier signal, value heuristic).
func itemUrgency(fc FlowClassification, d DealRecord) ItemUrgency {
	u := ItemLow
	switch fc.UrgencyLevel {
	case UrgencyUrgent:
		u = ItemHigh
	case UrgencyAttention:
		u = ItemMedium
	}
	switch v := d.Value(); {
	case v >= 1_000_000:
		u = maxUrgency(u, ItemHigh)
	case v >= 500_000:
		u = maxUrgency(u, ItemMedium)
	}
	return u
}

func maxUrgency(a, b ItemUrgency) ItemUrgency {
	if urgencyRank[b] > urgencyRank[a] {
		return b
	}
	return a
}

// daysOverdue counts days past the status's normal window; for untracked
// statuses raw age is the best available signal.
func (r *Ranker) daysOverdue(d DealRecord, days int) int {
	th, ok := r.classifier.thresholds[d.Status]
	if !ok {
		return days
	}
	if over := days - th.Normal; over > 0 {
		return over
	}
	return 0
}
