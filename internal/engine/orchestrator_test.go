package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stackdown/stackdown/internal/config"
	"github.com/stackdown/stackdown/internal/resolve"
)

// stubResolver resolves from a fixed pid table, consulting the fake host so a
// process that has been stopped resolves to nothing on the next run.
type stubResolver struct {
	host  *fakeHost
	pids  map[string]int
	errs  map[string]error
	order []string
}

func (s *stubResolver) Resolve(role *config.Role) (int, resolve.Strategy, error) {
	s.order = append(s.order, role.Name)
	if err := s.errs[role.Name]; err != nil {
		return 0, resolve.StrategyNone, err
	}
	pid := s.pids[role.Name]
	if pid == 0 || !s.host.Alive(pid) {
		return 0, resolve.StrategyNone, nil
	}
	return pid, resolve.StrategyPattern, nil
}

func testRoles(names ...string) []*config.Role {
	roles := make([]*config.Role, 0, len(names))
	for _, name := range names {
		roles = append(roles, &config.Role{Name: name, Pattern: name, Timeout: 3 * time.Second})
	}
	return roles
}

func runOrchestrator(t *testing.T, orch *Orchestrator, roles []*config.Role) *Summary {
	t.Helper()
	events := make(chan Event, 64)
	summary, err := orch.Run(context.Background(), roles, events)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	close(events)
	return summary
}

func TestRunAttemptsEveryRoleInOrder(t *testing.T) {
	host := newFakeHost()
	host.alive[100] = true
	host.alive[300] = true
	host.ignoreTerm[100] = true
	host.ignoreKill[100] = true

	resolver := &stubResolver{host: host, pids: map[string]int{"worker": 100, "web": 300}}
	orch := New(resolver, newTestTerminator(host))

	roles := testRoles("worker", "scheduler", "web")
	summary := runOrchestrator(t, orch, roles)

	wantOrder := []string{"worker", "scheduler", "web"}
	if len(resolver.order) != len(wantOrder) {
		t.Fatalf("expected %d resolutions, got %v", len(wantOrder), resolver.order)
	}
	for i, name := range wantOrder {
		if resolver.order[i] != name {
			t.Fatalf("resolution %d: expected %s, got %s", i, name, resolver.order[i])
		}
	}

	if len(summary.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(summary.Results))
	}
	if summary.Results[0].Outcome != OutcomeKillFailed {
		t.Fatalf("worker: expected %s, got %s", OutcomeKillFailed, summary.Results[0].Outcome)
	}
	if summary.Results[1].Outcome != OutcomeNotRunning {
		t.Fatalf("scheduler: expected %s, got %s", OutcomeNotRunning, summary.Results[1].Outcome)
	}
	if summary.Results[2].Outcome != OutcomeStopped {
		t.Fatalf("web: expected %s, got %s", OutcomeStopped, summary.Results[2].Outcome)
	}
	if !summary.Failed() {
		t.Fatal("expected summary to report failure")
	}
}

func TestRunResolutionErrorDoesNotAbort(t *testing.T) {
	host := newFakeHost()
	host.alive[300] = true

	resolver := &stubResolver{
		host: host,
		pids: map[string]int{"web": 300},
		errs: map[string]error{"worker": context.DeadlineExceeded},
	}
	orch := New(resolver, newTestTerminator(host))

	summary := runOrchestrator(t, orch, testRoles("worker", "web"))
	if len(summary.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(summary.Results))
	}
	if summary.Results[0].Outcome != OutcomeNotRunning {
		t.Fatalf("worker: expected %s, got %s", OutcomeNotRunning, summary.Results[0].Outcome)
	}
	if summary.Results[1].Outcome != OutcomeStopped {
		t.Fatalf("web: expected %s, got %s", OutcomeStopped, summary.Results[1].Outcome)
	}
	if summary.Failed() {
		t.Fatal("a resolution error must not count as failure")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	host := newFakeHost()
	host.alive[100] = true
	host.alive[200] = true

	resolver := &stubResolver{host: host, pids: map[string]int{"worker": 100, "web": 200}}
	orch := New(resolver, newTestTerminator(host))
	roles := testRoles("worker", "web")

	first := runOrchestrator(t, orch, roles)
	if got := first.Count(OutcomeStopped); got != 2 {
		t.Fatalf("first run: expected 2 stopped, got %d", got)
	}

	termsBefore := host.terms[100] + host.terms[200]
	second := runOrchestrator(t, orch, roles)
	if got := second.Count(OutcomeNotRunning); got != 2 {
		t.Fatalf("second run: expected 2 not-running, got %d", got)
	}
	if after := host.terms[100] + host.terms[200]; after != termsBefore {
		t.Fatalf("second run sent signals: %d -> %d", termsBefore, after)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	host := newFakeHost()
	resolver := &stubResolver{host: host}
	orch := New(resolver, newTestTerminator(host))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := orch.Run(ctx, testRoles("worker"), nil)
	if err == nil {
		t.Fatal("expected context error")
	}
	if len(summary.Results) != 0 {
		t.Fatalf("expected no results, got %d", len(summary.Results))
	}
}
