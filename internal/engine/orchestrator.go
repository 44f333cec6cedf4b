// Package engine coordinates role resolution and termination into one
// best-effort, strictly ordered shutdown run.
package engine

import (
	"context"
	"time"

	"github.com/stackdown/stackdown/internal/config"
	"github.com/stackdown/stackdown/internal/metrics"
	"github.com/stackdown/stackdown/internal/resolve"
)

// roleResolver is the slice of resolve.Resolver the orchestrator needs.
type roleResolver interface {
	Resolve(role *config.Role) (int, resolve.Strategy, error)
}

// Orchestrator walks the declared role order, resolves each role to a pid
// and applies the termination protocol, collecting per-role outcomes. One
// role's failure never blocks the roles after it.
type Orchestrator struct {
	resolver roleResolver
	term     *Terminator
}

// New constructs an orchestrator from a resolver and a terminator.
func New(resolver roleResolver, term *Terminator) *Orchestrator {
	return &Orchestrator{resolver: resolver, term: term}
}

// RoleResult records the outcome of one role within a run.
type RoleResult struct {
	Role     string
	PID      int
	Strategy resolve.Strategy
	Outcome  Outcome
	Err      error
}

// Summary aggregates the results of a complete run.
type Summary struct {
	Results []RoleResult
	Elapsed time.Duration
}

// Failed reports whether any role requires manual attention.
func (s *Summary) Failed() bool {
	for _, res := range s.Results {
		if res.Outcome == OutcomeKillFailed {
			return true
		}
	}
	return false
}

// Count returns how many roles ended with the given outcome.
func (s *Summary) Count(outcome Outcome) int {
	n := 0
	for _, res := range s.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// Run processes the roles strictly in the order given. The returned error is
// non-nil only when the context was cancelled; roles not yet reached are
// simply absent from the summary then.
func (o *Orchestrator) Run(ctx context.Context, roles []*config.Role, events chan<- Event) (*Summary, error) {
	started := time.Now()
	summary := &Summary{Results: make([]RoleResult, 0, len(roles))}
	defer func() { summary.Elapsed = time.Since(started) }()

	for _, role := range roles {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		pid, strategy, err := o.resolver.Resolve(role)
		if err != nil {
			sendEvent(events, role.Name, pid, EventTypeError, "resolution degraded", err)
		}
		if pid <= 0 {
			sendEvent(events, role.Name, 0, EventTypeAbsent, "not running", nil)
			metrics.RecordOutcome(role.Name, string(OutcomeNotRunning))
			summary.Results = append(summary.Results, RoleResult{
				Role:    role.Name,
				Outcome: OutcomeNotRunning,
				Err:     err,
			})
			continue
		}

		begin := time.Now()
		outcome, runErr := o.term.Terminate(ctx, pid, role.Name, role.Timeout, events)
		metrics.ObserveTermination(role.Name, time.Since(begin))
		metrics.RecordOutcome(role.Name, string(outcome))
		summary.Results = append(summary.Results, RoleResult{
			Role:     role.Name,
			PID:      pid,
			Strategy: strategy,
			Outcome:  outcome,
		})
		if runErr != nil {
			return summary, runErr
		}
	}
	return summary, nil
}
