package lifecycle

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	ts := testNow.AddDate(0, 0, -n)
	return &ts
}

func TestClassifyTerminalShortcut(t *testing.T) {
	c := newTestEngine(t).Classifier
	for _, s := range []Status{StatusSigned, StatusLost, StatusDraft} {
		fc := c.Classify(DealRecord{Status: s, LastStatusChange: daysAgo(30)}, testNow)
		assert.Equal(t, FlowOnTrack, fc.FlowStatus)
		assert.False(t, fc.ActionRequired)
		assert.Equal(t, fmt.Sprintf("deal is %s", s), fc.Reason)
	}
}

func TestClassifyRevisionRequestedAlwaysFlagged(t *testing.T) {
	c := newTestEngine(t).Classifier
	for _, ago := range []int{0, 1, 30} {
		fc := c.Classify(DealRecord{Status: StatusRevisionRequested, LastStatusChange: daysAgo(ago)}, testNow)
		assert.Equal(t, FlowNeedsAttention, fc.FlowStatus, "%d days ago", ago)
		assert.True(t, fc.ActionRequired)
	}
}

func TestClassifyBusinessRiskOverrides(t *testing.T) {
	c := newTestEngine(t).Classifier

	tests := []struct {
		name    string
		deal    DealRecord
		urgency FlowUrgency
	}{
		{
			"stale negotiation",
			DealRecord{Status: StatusNegotiating, LastStatusChange: daysAgo(8)},
			UrgencyAttention,
		},
		{
			"repeated revisions override zero elapsed days",
			DealRecord{Status: StatusNegotiating, RevisionCount: 2, LastStatusChange: daysAgo(0)},
			UrgencyAttention,
		},
		{
			"draft expiring soon",
			DealRecord{Status: StatusScoping, DraftExpiresAt: daysAgo(-2), LastStatusChange: daysAgo(0)},
			UrgencyUrgent,
		},
		{
			"high priority deal left idle",
			DealRecord{Status: StatusUnderReview, Priority: PriorityHigh, LastStatusChange: daysAgo(2)},
			UrgencyUrgent,
		},
		{
			"submitted stuck before triage",
			DealRecord{Status: StatusSubmitted, LastStatusChange: daysAgo(4)},
			UrgencyAttention,
		},
		{
			"approved but not in drafting",
			DealRecord{Status: StatusApproved, LastStatusChange: daysAgo(6)},
			UrgencyAttention,
		},
		{
			"contract drafting dragging",
			DealRecord{Status: StatusContractDrafting, LastStatusChange: daysAgo(5)},
			UrgencyAttention,
		},
		{
			"client sitting on the contract",
			DealRecord{Status: StatusClientReview, LastStatusChange: daysAgo(8)},
			UrgencyAttention,
		},
		{
			"large deal tighter SLA",
			DealRecord{Status: StatusUnderReview, AnnualRevenue: 6_000_000, LastStatusChange: daysAgo(3)},
			UrgencyUrgent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := c.Classify(tt.deal, testNow)
			assert.Equal(t, FlowNeedsAttention, fc.FlowStatus)
			assert.True(t, fc.ActionRequired)
			assert.Equal(t, tt.urgency, fc.UrgencyLevel)
		})
	}
}

func TestClassifyExpiredVsExpiringDraftMessages(t *testing.T) {
	c := newTestEngine(t).Classifier

	expired := c.Classify(DealRecord{Status: StatusScoping, DraftExpiresAt: daysAgo(1)}, testNow)
	require.Equal(t, FlowNeedsAttention, expired.FlowStatus)
	assert.Contains(t, expired.Reason, "expired")

	expiring := c.Classify(DealRecord{Status: StatusScoping, DraftExpiresAt: daysAgo(-2)}, testNow)
	require.Equal(t, FlowNeedsAttention, expiring.FlowStatus)
	assert.Contains(t, expiring.Reason, "expires in 2 days")
}

func TestClassifySubmittedScenario(t *testing.T) {
	c := newTestEngine(t).Classifier
	fc := c.Classify(DealRecord{Status: StatusSubmitted, LastStatusChange: daysAgo(4)}, testNow)
	assert.Equal(t, FlowNeedsAttention, fc.FlowStatus)
	assert.Contains(t, fc.Reason, "4")
	assert.Contains(t, fc.Reason, "submitted")
	assert.Equal(t, 4, fc.DaysInStatus)
}

func TestClassifyFreshNegotiationOnTrack(t *testing.T) {
	c := newTestEngine(t).Classifier
	fc := c.Classify(DealRecord{
		Status:           StatusNegotiating,
		Priority:         PriorityLow,
		LastStatusChange: daysAgo(2),
	}, testNow)
	assert.Equal(t, FlowOnTrack, fc.FlowStatus)
	assert.False(t, fc.ActionRequired)
}

func TestClassifyThresholdCrossing(t *testing.T) {
	c := newTestEngine(t).Classifier
	th := c.thresholds[StatusUnderReview]

	for days := 0; days < th.NeedsAttention; days++ {
		fc := c.Classify(DealRecord{Status: StatusUnderReview, LastStatusChange: daysAgo(days)}, testNow)
		assert.Equal(t, FlowOnTrack, fc.FlowStatus, "day %d", days)
	}
	for _, days := range []int{th.NeedsAttention, th.NeedsAttention + 1, th.NeedsAttention + 10} {
		fc := c.Classify(DealRecord{Status: StatusUnderReview, LastStatusChange: daysAgo(days)}, testNow)
		assert.Equal(t, FlowNeedsAttention, fc.FlowStatus, "day %d", days)
	}
}

func TestClassifyActionRequiredImpliesNeedsAttention(t *testing.T) {
	c := newTestEngine(t).Classifier
	deals := []DealRecord{
		{Status: StatusSubmitted, LastStatusChange: daysAgo(10)},
		{Status: StatusUnderReview, LastStatusChange: daysAgo(1)},
		{Status: StatusRevisionRequested},
		{Status: StatusSigned},
		{Status: StatusNegotiating, RevisionCount: 3},
	}
	for _, d := range deals {
		fc := c.Classify(d, testNow)
		if fc.ActionRequired {
			assert.Equal(t, FlowNeedsAttention, fc.FlowStatus)
		}
	}
}

func TestClassifyMissingTimestampsDegradeToZeroDays(t *testing.T) {
	c := newTestEngine(t).Classifier
	fc := c.Classify(DealRecord{Status: StatusUnderReview}, testNow)
	assert.Equal(t, 0, fc.DaysInStatus)
	assert.Equal(t, FlowOnTrack, fc.FlowStatus)
}

func TestClassifyIsPure(t *testing.T) {
	c := newTestEngine(t).Classifier
	deal := DealRecord{
		Status:           StatusNegotiating,
		Priority:         PriorityHigh,
		AnnualRevenue:    2_500_000,
		LastStatusChange: daysAgo(3),
	}
	first := c.Classify(deal, testNow)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Classify(deal, testNow))
	}
}

func TestClassifyThresholdOverrideFromOptions(t *testing.T) {
	eng, err := New(Options{Thresholds: map[Status]Threshold{
		StatusUnderReview: {Normal: 1, NeedsAttention: 2},
	}})
	require.NoError(t, err)

	fc := eng.Classify(DealRecord{Status: StatusUnderReview, LastStatusChange: daysAgo(2)}, testNow)
	assert.Equal(t, FlowNeedsAttention, fc.FlowStatus)
}
