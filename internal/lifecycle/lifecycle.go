// Package lifecycle is the deal lifecycle governance engine: the status
// transition graph with role-scoped permissions, the flow classifier that
// decides whether a deal needs follow-up, and the priority ranker that
// builds per-role worklists. Everything here is pure and side-effect free;
// the evaluation instant is always passed in by the caller.
package lifecycle

import "time"

// Options tunes the engine at construction. Zero value gives the defaults.
type Options struct {
	// Thresholds overrides the per-status day-count pairs used by the
	// classifier's timing fallback. Statuses not present keep the default.
	Thresholds map[Status]Threshold
}

// Engine bundles the three components built from one validated config.
type Engine struct {
	Guard      *Guard
	Classifier *Classifier
	Ranker     *Ranker
}

// New builds the engine and validates the transition tables. An invalid
// table is a deployment error, so errors here should abort startup.
func New(opts Options) (*Engine, error) {
	guard, err := newGuard()
	if err != nil {
		return nil, err
	}

	thresholds := make(map[Status]Threshold, len(defaultThresholds))
	for s, th := range defaultThresholds {
		thresholds[s] = th
	}
	for s, th := range opts.Thresholds {
		thresholds[s] = th
	}

	classifier := &Classifier{thresholds: thresholds}
	return &Engine{
		Guard:      guard,
		Classifier: classifier,
		Ranker:     &Ranker{classifier: classifier},
	}, nil
}

// Classify is a convenience passthrough to the classifier.
func (e *Engine) Classify(d DealRecord, now time.Time) FlowClassification {
	return e.Classifier.Classify(d, now)
}

// Rank is a convenience passthrough to the ranker.
func (e *Engine) Rank(deals []DealRecord, role Role, now time.Time) []PriorityItem {
	return e.Ranker.Rank(deals, role, now)
}
