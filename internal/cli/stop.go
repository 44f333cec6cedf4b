package cli

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/stackdown/stackdown/internal/engine"
	"github.com/stackdown/stackdown/internal/hostproc"
	"github.com/stackdown/stackdown/internal/resolve"
)

var errStopIncomplete = errors.New("one or more processes survived the forceful signal")

func newStopCmd(ctx *context) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Resolve every role and stop it in order",
		RunE:  runStop(ctx),
	}
}

func runStop(ctx *context) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		env, err := ctx.environment()
		if err != nil {
			return err
		}
		if err := env.Validate(); err != nil {
			return err
		}
		roles, err := ctx.roles(env)
		if err != nil {
			return err
		}

		insp := hostproc.NewInspector()
		ports := hostproc.DetectPortResolver()
		ctx.logger.WithField("backend", ports.Describe()).Debug("port lookup backend selected")

		resolver := resolve.New(env, insp, ports)
		term := engine.NewTerminator(insp, hostproc.NewSignaller())
		orch := engine.New(resolver, term)

		events := make(chan engine.Event, 64)
		var printer sync.WaitGroup
		printer.Add(1)
		go func() {
			defer printer.Done()
			for evt := range events {
				logEvent(ctx.logger, evt)
			}
		}()

		summary, runErr := orch.Run(cmd.Context(), roles, events)
		close(events)
		printer.Wait()

		printSummary(cmd.OutOrStdout(), summary)
		if runErr != nil {
			return fmt.Errorf("shutdown interrupted: %w", runErr)
		}
		if summary.Failed() {
			return errStopIncomplete
		}
		return nil
	}
}

func printSummary(w io.Writer, s *engine.Summary) {
	fmt.Fprintf(w, "Shutdown finished in %s: %d stopped, %d force-killed, %d not running, %d failed.\n",
		s.Elapsed.Round(timeRounding),
		s.Count(engine.OutcomeStopped),
		s.Count(engine.OutcomeForceKilled),
		s.Count(engine.OutcomeNotRunning),
		s.Count(engine.OutcomeKillFailed))
}
