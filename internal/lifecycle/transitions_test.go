package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New(Options{})
	require.NoError(t, err)
	return eng
}

func TestGuardValidatesAtLoad(t *testing.T) {
	eng := newTestEngine(t)
	require.NotNil(t, eng.Guard)
}

func TestEveryNonTerminalStatusHasAdminTransitions(t *testing.T) {
	g := newTestEngine(t).Guard
	for _, s := range AllStatuses {
		if g.IsTerminal(s) {
			continue
		}
		assert.NotEmpty(t, g.AvailableTransitions(s, RoleAdmin), "status %s", s)
	}
}

func TestTerminalStatusesHaveNoTransitionsForAnyRole(t *testing.T) {
	g := newTestEngine(t).Guard
	for _, role := range []Role{RoleSeller, RoleApprover, RoleLegal, RoleAdmin} {
		assert.Empty(t, g.AvailableTransitions(StatusSigned, role))
		assert.Empty(t, g.AvailableTransitions(StatusLost, role))
	}
}

func TestRoleEdgesNeverExceedGlobalGraph(t *testing.T) {
	g := newTestEngine(t).Guard
	for role, table := range g.roles {
		for from, targets := range table {
			for _, to := range targets {
				assert.True(t, contains(g.graph[from], to),
					"role %s has edge %s -> %s outside the global graph", role, from, to)
			}
		}
	}
}

func TestCanTransition(t *testing.T) {
	g := newTestEngine(t).Guard

	tests := []struct {
		name    string
		from    Status
		to      Status
		role    Role
		allowed bool
	}{
		{"seller submits a draft", StatusDraft, StatusSubmitted, RoleSeller, true},
		{"seller cannot approve", StatusUnderReview, StatusApproved, RoleSeller, false},
		{"approver approves from review", StatusUnderReview, StatusApproved, RoleApprover, true},
		{"approver cannot sign", StatusClientReview, StatusSigned, RoleApprover, false},
		{"legal sends contract", StatusContractDrafting, StatusClientReview, RoleLegal, true},
		{"legal signs after client review", StatusClientReview, StatusSigned, RoleLegal, true},
		{"admin can do anything the graph allows", StatusNegotiating, StatusApproved, RoleAdmin, true},
		{"nobody resurrects a lost deal", StatusLost, StatusDraft, RoleAdmin, false},
		{"no edge back to draft", StatusScoping, StatusDraft, RoleAdmin, false},
		{"unknown role fails closed", StatusDraft, StatusSubmitted, Role("intern"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := g.CanTransition(tt.from, tt.to, tt.role)
			assert.Equal(t, tt.allowed, dec.Allowed)
			if !tt.allowed {
				assert.NotEmpty(t, dec.Reason, "denials must carry a reason")
			}
		})
	}
}

func TestDenialReasonNamesTheParties(t *testing.T) {
	g := newTestEngine(t).Guard
	dec := g.CanTransition(StatusUnderReview, StatusApproved, RoleSeller)
	require.False(t, dec.Allowed)
	assert.Contains(t, dec.Reason, "seller")
	assert.Contains(t, dec.Reason, "under_review")
	assert.Contains(t, dec.Reason, "approved")
}

func TestLostReachableFromEveryNonTerminalStatusForAdmin(t *testing.T) {
	g := newTestEngine(t).Guard
	for _, s := range AllStatuses {
		if g.IsTerminal(s) {
			continue
		}
		assert.True(t, g.CanTransition(s, StatusLost, RoleAdmin).Allowed, "status %s", s)
	}
}

func TestAvailableTransitionsFollowGraphOrder(t *testing.T) {
	g := newTestEngine(t).Guard
	got := g.AvailableTransitions(StatusUnderReview, RoleApprover)
	assert.Equal(t, []Status{StatusRevisionRequested, StatusNegotiating, StatusApproved, StatusLost}, got)
}
