package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/umbra/internal/common"
	"github.com/spf13/cobra"
)

func NewProgressCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Inspect player progress",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Show completed levels and the last page of a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepos(cmd, rootOpts, func(ctx context.Context, e *env) error {
				return runProgressShow(ctx, cmd, e, args[0])
			})
		},
	})

	return cmd
}

func runProgressShow(ctx context.Context, cmd *cobra.Command, e *env, name string) error {
	name = common.NormalizeUsername(name)

	ok, err := e.repos.Users().Exists(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %q not found", name)
	}

	st, err := e.repos.Progress().GetState(ctx, name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	completed := "-"
	if len(st.Completed) > 0 {
		completed = strings.Join(st.Completed, ", ")
	}
	lastPage := "-"
	if st.LastPage != nil {
		lastPage = *st.LastPage
	}
	fmt.Fprintf(out, "user:      %s\n", name)
	fmt.Fprintf(out, "completed: %s\n", completed)
	fmt.Fprintf(out, "last page: %s\n", lastPage)
	return nil
}
