package lifecycle

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankBoundedToTenItems(t *testing.T) {
	r := newTestEngine(t).Ranker
	var deals []DealRecord
	for i := 1; i <= 40; i++ {
		deals = append(deals, DealRecord{
			ID:               i,
			Title:            fmt.Sprintf("deal %d", i),
			Status:           StatusUnderReview,
			LastStatusChange: daysAgo(i % 9),
		})
	}
	items := r.Rank(deals, RoleApprover, testNow)
	assert.LessOrEqual(t, len(items), 10)
}

func TestRankSortedByUrgencyThenOverdue(t *testing.T) {
	r := newTestEngine(t).Ranker
	deals := []DealRecord{
		{ID: 1, Status: StatusUnderReview, LastStatusChange: daysAgo(1)},
		{ID: 2, Status: StatusUnderReview, Priority: PriorityCritical, LastStatusChange: daysAgo(3)},
		{ID: 3, Status: StatusSubmitted, LastStatusChange: daysAgo(6)},
		{ID: 4, Status: StatusSubmitted, LastStatusChange: daysAgo(9)},
		{ID: 5, Status: StatusRevisionRequested, LastStatusChange: daysAgo(2)},
	}
	items := r.Rank(deals, RoleApprover, testNow)
	require.NotEmpty(t, items)

	for i := 1; i < len(items); i++ {
		prev, cur := items[i-1], items[i]
		require.GreaterOrEqual(t, urgencyRank[prev.Urgency], urgencyRank[cur.Urgency],
			"item %d breaks urgency ordering", i)
		if prev.Urgency == cur.Urgency {
			assert.GreaterOrEqual(t, prev.DaysOverdue, cur.DaysOverdue,
				"item %d breaks overdue ordering", i)
		}
	}
	// the critical-priority deal leads
	assert.Equal(t, 2, items[0].DealID)
	assert.Equal(t, ItemHigh, items[0].Urgency)
}

func TestRankSellerDraftsLeadTheWorklist(t *testing.T) {
	r := newTestEngine(t).Ranker
	deals := []DealRecord{
		{ID: 1, Title: "big one", Status: StatusUnderReview, Priority: PriorityHigh, LastStatusChange: daysAgo(4)},
		{ID: 2, Title: "half-finished", Status: StatusDraft, CreatedAt: daysAgo(1)},
	}
	items := r.Rank(deals, RoleSeller, testNow)
	require.Len(t, items, 2)

	assert.Equal(t, ActionResumeDraft, items[0].ActionType)
	assert.Equal(t, ItemLow, items[0].Urgency)
	assert.Equal(t, "Resume Draft", items[0].ActionLabel)
	assert.Equal(t, 2, items[0].DealID)
	// the urgent review item still follows the draft for sellers
	assert.Equal(t, 1, items[1].DealID)
	assert.Equal(t, ItemHigh, items[1].Urgency)
}

func TestRankDraftsDeduplicated(t *testing.T) {
	r := newTestEngine(t).Ranker
	d := DealRecord{ID: 7, Title: "dup", Status: StatusDraft, CreatedAt: daysAgo(2)}
	items := r.Rank([]DealRecord{d, d, d}, RoleSeller, testNow)
	require.Len(t, items, 1)
	assert.Equal(t, "draft-7", items[0].ID)
}

func TestRankRoleRelevanceFilter(t *testing.T) {
	r := newTestEngine(t).Ranker
	deals := []DealRecord{
		{ID: 1, Status: StatusApproved, LastStatusChange: daysAgo(1)},
		{ID: 2, Status: StatusContractDrafting, LastStatusChange: daysAgo(1)},
		{ID: 3, Status: StatusSubmitted, LastStatusChange: daysAgo(1)},
		{ID: 4, Status: StatusSigned},
	}

	legal := r.Rank(deals, RoleLegal, testNow)
	require.Len(t, legal, 2)
	for _, it := range legal {
		assert.Contains(t, []int{1, 2}, it.DealID)
	}

	approver := r.Rank(deals, RoleApprover, testNow)
	require.Len(t, approver, 1)
	assert.Equal(t, 3, approver[0].DealID)

	// terminal deals never surface
	for _, it := range r.Rank(deals, RoleAdmin, testNow) {
		assert.NotEqual(t, 4, it.DealID)
	}
}

func TestRankActionLabels(t *testing.T) {
	r := newTestEngine(t).Ranker

	tests := []struct {
		role   Role
		status Status
		label  string
		action ActionType
	}{
		{RoleApprover, StatusUnderReview, "Review & Approve", ActionReviewApprove},
		{RoleLegal, StatusApproved, "Legal Review", ActionLegalReview},
		{RoleLegal, StatusContractDrafting, "Send Contract", ActionSendContract},
		{RoleSeller, StatusScoping, "Complete Scoping", ActionCompleteScoping},
		{RoleSeller, StatusRevisionRequested, "Submit Revision", ActionSubmitRevision},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.status), func(t *testing.T) {
			items := r.Rank([]DealRecord{{ID: 1, Status: tt.status, LastStatusChange: daysAgo(1)}}, tt.role, testNow)
			require.Len(t, items, 1)
			assert.Equal(t, tt.label, items[0].ActionLabel)
			assert.Equal(t, tt.action, items[0].ActionType)
		})
	}
}

func TestRankValueHeuristicPromotesUrgency(t *testing.T) {
	r := newTestEngine(t).Ranker

	million := r.Rank([]DealRecord{
		{ID: 1, Status: StatusUnderReview, AnnualRevenue: 1_200_000, LastStatusChange: daysAgo(1)},
	}, RoleApprover, testNow)
	require.Len(t, million, 1)
	assert.Equal(t, ItemHigh, million[0].Urgency)

	half := r.Rank([]DealRecord{
		{ID: 2, Status: StatusUnderReview, AnnualRevenue: 600_000, LastStatusChange: daysAgo(1)},
	}, RoleApprover, testNow)
	require.Len(t, half, 1)
	assert.Equal(t, ItemMedium, half[0].Urgency)
}

func TestRankScopingPrefersGrowthAmbition(t *testing.T) {
	r := newTestEngine(t).Ranker
	items := r.Rank([]DealRecord{
		{ID: 1, Status: StatusScoping, AnnualRevenue: 100, GrowthAmbition: 2_000_000, LastStatusChange: daysAgo(1)},
	}, RoleSeller, testNow)
	require.Len(t, items, 1)
	assert.Equal(t, ItemHigh, items[0].Urgency)
}

func TestRankReturnsFreshSlice(t *testing.T) {
	r := newTestEngine(t).Ranker
	deals := []DealRecord{{ID: 1, Status: StatusUnderReview, LastStatusChange: daysAgo(1)}}

	a := r.Rank(deals, RoleApprover, testNow)
	b := r.Rank(deals, RoleApprover, testNow)
	require.Len(t, a, 1)
	a[0].Title = "mutated"
	assert.NotEqual(t, a[0].Title, b[0].Title)
}
