package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newOrderCmd(ctx *context) *cobra.Command {
	return &cobra.Command{
		Use:   "order",
		Short: "Print the fixed shutdown order",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.environment()
			if err != nil {
				return err
			}
			roles, err := ctx.roles(env)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Shutdown order:")
			for i, role := range roles {
				fmt.Fprintf(cmd.OutOrStdout(), "  %d. %s (grace %s)\n", i+1, role.Name, role.Timeout)
			}
			return nil
		},
	}
}
