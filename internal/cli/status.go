package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stackdown/stackdown/internal/hostproc"
	"github.com/stackdown/stackdown/internal/resolve"
)

func newStatusCmd(ctx *context) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report which roles are running without signalling anything",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			resolver := resolve.New(env, hostproc.NewInspector(), hostproc.DetectPortResolver())
			for _, role := range roles {
				pid, strategy, err := resolver.Resolve(role)
				switch {
				case pid > 0:
					fmt.Fprintf(cmd.OutOrStdout(), "%-16s pid %d (via %s)\n", role.Name, pid, strategy)
				case err != nil:
					fmt.Fprintf(cmd.OutOrStdout(), "%-16s not running (%v)\n", role.Name, err)
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "%-16s not running\n", role.Name)
				}
			}
			return nil
		},
	}
}
