// internal/lifecycle/transitions.go
package lifecycle

import "fmt"

// Допустимые переходы статусов. Единый граф; роли получают подмножества.
// lost доступен из любого нефинального статуса (сделка умерла).
var defaultTransitions = map[Status][]Status{
	StatusDraft:             {StatusScoping, StatusSubmitted, StatusLost},
	StatusScoping:           {StatusSubmitted, StatusLost},
	StatusSubmitted:         {StatusUnderReview, StatusLost},
	StatusUnderReview:       {StatusRevisionRequested, StatusNegotiating, StatusApproved, StatusLost},
	StatusRevisionRequested: {StatusSubmitted, StatusLost},
	StatusNegotiating:       {StatusApproved, StatusRevisionRequested, StatusLost},
	StatusApproved:          {StatusContractDrafting, StatusLost},
	StatusContractDrafting:  {StatusClientReview, StatusLost},
	StatusClientReview:      {StatusSigned, StatusContractDrafting, StatusLost},
	StatusSigned:            {},
	StatusLost:              {},
}

// Role-scoped edges. Always a subset of defaultTransitions; admin gets the
// full graph (built in newGuard, not declared here, so the two can never
// drift apart).
var defaultRoleTransitions = map[Role]map[Status][]Status{
	RoleSeller: {
		StatusDraft:             {StatusScoping, StatusSubmitted, StatusLost},
		StatusScoping:           {StatusSubmitted, StatusLost},
		StatusRevisionRequested: {StatusSubmitted, StatusLost},
		StatusNegotiating:       {StatusLost},
		StatusClientReview:      {StatusLost},
	},
	RoleApprover: {
		StatusSubmitted:   {StatusUnderReview, StatusLost},
		StatusUnderReview: {StatusRevisionRequested, StatusNegotiating, StatusApproved, StatusLost},
		StatusNegotiating: {StatusApproved, StatusRevisionRequested, StatusLost},
	},
	RoleLegal: {
		StatusApproved:         {StatusContractDrafting, StatusLost},
		StatusContractDrafting: {StatusClientReview, StatusLost},
		StatusClientReview:     {StatusSigned, StatusContractDrafting, StatusLost},
	},
}

// TransitionDecision is the guard's answer: denial is data, not an error.
type TransitionDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Guard answers which status transitions exist and which roles may perform
// them. Tables are built once and never mutated afterwards.
type Guard struct {
	graph map[Status][]Status
	roles map[Role]map[Status][]Status
}

func newGuard() (*Guard, error) {
	g := &Guard{
		graph: defaultTransitions,
		roles: map[Role]map[Status][]Status{
			RoleSeller:   defaultRoleTransitions[RoleSeller],
			RoleApprover: defaultRoleTransitions[RoleApprover],
			RoleLegal:    defaultRoleTransitions[RoleLegal],
			RoleAdmin:    defaultTransitions, // admin == глобальный граф
		},
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// validate enforces the load-time invariants on the tables. A broken table
// is a programming error, so this runs once at construction and never again.
func (g *Guard) validate() error {
	for _, s := range AllStatuses {
		edges, ok := g.graph[s]
		if !ok {
			return fmt.Errorf("transitions: status %q missing from graph", s)
		}
		if g.IsTerminal(s) {
			if len(edges) != 0 {
				return fmt.Errorf("transitions: terminal status %q has outgoing edges", s)
			}
			continue
		}
		if len(edges) == 0 {
			return fmt.Errorf("transitions: non-terminal status %q has no outgoing edges", s)
		}
		for _, to := range edges {
			if to == s {
				return fmt.Errorf("transitions: self-loop on %q", s)
			}
			if to == StatusDraft {
				return fmt.Errorf("transitions: edge %q -> draft; draft is entry-only", s)
			}
		}
	}
	for role, table := range g.roles {
		for from, targets := range table {
			for _, to := range targets {
				if !contains(g.graph[from], to) {
					return fmt.Errorf("transitions: role %q granted %q -> %q, not in global graph", role, from, to)
				}
			}
		}
	}
	// admin must match the global graph exactly
	admin := g.roles[RoleAdmin]
	for _, s := range AllStatuses {
		if len(admin[s]) != len(g.graph[s]) {
			return fmt.Errorf("transitions: admin edges for %q diverge from global graph", s)
		}
	}
	return nil
}

// CanTransition reports whether role may move a deal from current to target.
// Fails closed: unknown statuses and missing role tables deny with a reason.
func (g *Guard) CanTransition(current, target Status, role Role) TransitionDecision {
	if g.IsTerminal(current) {
		return TransitionDecision{
			Reason: fmt.Sprintf("deal is %s; no further transitions are possible", current),
		}
	}
	table, ok := g.roles[role]
	if !ok {
		return TransitionDecision{
			Reason: fmt.Sprintf("role %q has no transition permissions", role),
		}
	}
	allowed, ok := table[current]
	if !ok || !contains(allowed, target) {
		return TransitionDecision{
			Reason: fmt.Sprintf("role %q may not move a deal from %s to %s", role, current, target),
		}
	}
	return TransitionDecision{Allowed: true}
}

// AvailableTransitions returns the statuses role may move a deal in current
// to, in graph order. Empty for terminal statuses and unknown roles.
func (g *Guard) AvailableTransitions(current Status, role Role) []Status {
	table, ok := g.roles[role]
	if !ok {
		return []Status{}
	}
	allowed := table[current]
	// preserve global graph order so dropdowns are stable
	out := make([]Status, 0, len(allowed))
	for _, to := range g.graph[current] {
		if contains(allowed, to) {
			out = append(out, to)
		}
	}
	return out
}

// IsTerminal reports whether status has no outgoing edges.
func (g *Guard) IsTerminal(s Status) bool {
	return s == StatusSigned || s == StatusLost
}

func contains(list []Status, s Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
