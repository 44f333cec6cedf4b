package cli

import (
	stdcontext "context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stackdown/stackdown/internal/config"
)

func NewRootCmd() *cobra.Command {
	root, _ := newRootCommand()
	return root
}

func newRootCommand() (*cobra.Command, *context) {
	var (
		rootDir      string
		manifestPath string
	)

	root := &cobra.Command{
		Use:   "stackdown",
		Short: "Stop a running bench-style application stack",
		Long: "stackdown resolves each process of a locally running application stack " +
			"(workers, scheduler, watchers, web and socket servers, redis stores) to a " +
			"live pid and shuts it down in dependency order, politely first and " +
			"forcefully when it has to.",
	}

	root.PersistentFlags().
		StringVarP(&rootDir, "root", "r", ".", "Path to the stack root directory")
	root.PersistentFlags().
		StringVarP(&manifestPath, "file", "f", "shutdown.yaml", "Path to an optional role manifest")

	ctx := &context{rootDir: &rootDir, manifestPath: &manifestPath, logger: newLogger()}

	root.RunE = runStop(ctx)
	root.AddCommand(newStopCmd(ctx))
	root.AddCommand(newStatusCmd(ctx))
	root.AddCommand(newOrderCmd(ctx))

	root.SilenceUsage = true
	root.SilenceErrors = true

	return root, ctx
}

// Execute runs the CLI entrypoint. Exit status 2 flags a bad run location,
// distinct from status 1 for a process that survived the forceful signal.
func Execute() {
	ctx, stop := signal.NotifyContext(stdcontext.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	root.SetContext(ctx)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, config.ErrEnvironmentInvalid) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

type context struct {
	rootDir      *string
	manifestPath *string
	logger       *logrus.Logger
}

func (c *context) environment() (*config.Env, error) {
	return config.NewEnv(*c.rootDir)
}

func (c *context) roles(env *config.Env) ([]*config.Role, error) {
	return config.RolesFor(env, *c.manifestPath)
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger
}
