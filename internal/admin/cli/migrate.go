package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/umbra/internal/server/repositories/repomanager"
	"github.com/spf13/cobra"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepos(cmd, rootOpts, func(ctx context.Context, e *env) error {
				return runMigrate(ctx, cmd, e)
			})
		},
	}
}

func runMigrate(ctx context.Context, cmd *cobra.Command, e *env) error {
	if e.repos.Backend() != repomanager.BackendSQL {
		fmt.Fprintln(cmd.OutOrStdout(), "file backend: nothing to migrate")
		return nil
	}
	if err := e.repos.RunMigrations(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
	return nil
}
