package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/stackdown/stackdown/internal/hostproc"
	"github.com/stackdown/stackdown/internal/metrics"
)

// Outcome is the terminal result of one role's termination protocol.
type Outcome string

const (
	OutcomeNotRunning  Outcome = "not-running"
	OutcomeStopped     Outcome = "stopped-gracefully"
	OutcomeForceKilled Outcome = "force-killed"
	OutcomeKillFailed  Outcome = "kill-failed"
)

// Terminator drives a resolved process through the graceful-then-forceful
// shutdown protocol: liveness probe, polite signal, bounded one-second
// polling, then a single forceful escalation.
type Terminator struct {
	insp   hostproc.Inspector
	signal hostproc.Signaller
	poll   time.Duration
	settle time.Duration
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewTerminator constructs a terminator over the provided host capabilities.
func NewTerminator(insp hostproc.Inspector, signal hostproc.Signaller) *Terminator {
	return &Terminator{
		insp:   insp,
		signal: signal,
		poll:   time.Second,
		settle: time.Second,
		sleep:  sleepContext,
	}
}

// Terminate runs the protocol against pid with the role's grace budget. The
// returned error is non-nil only when the context was cancelled mid-protocol;
// every operational failure is folded into the outcome instead so one role
// can never abort the rest of the run.
func (t *Terminator) Terminate(ctx context.Context, pid int, role string, grace time.Duration, events chan<- Event) (Outcome, error) {
	if !t.insp.Alive(pid) {
		sendEvent(events, role, pid, EventTypeAbsent, "process already gone", nil)
		return OutcomeNotRunning, nil
	}

	sendEvent(events, role, pid, EventTypeStopping, "sending polite termination signal", nil)
	if err := t.signal.Terminate(pid); err != nil {
		// Typically EPERM; the forceful signal would fail the same way.
		sendEvent(events, role, pid, EventTypeFailed, "polite signal failed", err)
		return OutcomeKillFailed, nil
	}

	polls := int(grace / t.poll)
	if polls < 1 {
		polls = 1
	}
	for i := 0; i < polls; i++ {
		if err := t.sleep(ctx, t.poll); err != nil {
			return OutcomeKillFailed, err
		}
		if !t.insp.Alive(pid) {
			sendEvent(events, role, pid, EventTypeStopped, "stopped gracefully", nil)
			return OutcomeStopped, nil
		}
	}

	sendEvent(events, role, pid, EventTypeKilled,
		fmt.Sprintf("still running after %s, escalating to forceful signal", grace), nil)
	metrics.RecordEscalation(role)
	if err := t.signal.Kill(pid); err != nil {
		sendEvent(events, role, pid, EventTypeFailed, "forceful signal failed", err)
		return OutcomeKillFailed, nil
	}
	if err := t.sleep(ctx, t.settle); err != nil {
		return OutcomeKillFailed, err
	}
	if t.insp.Alive(pid) {
		sendEvent(events, role, pid, EventTypeFailed, "still alive after forceful signal", nil)
		return OutcomeKillFailed, nil
	}
	sendEvent(events, role, pid, EventTypeKilled, "stopped by forceful signal", nil)
	return OutcomeForceKilled, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
