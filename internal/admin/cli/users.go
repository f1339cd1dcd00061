package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/umbra/internal/common"
	"github.com/dmitrijs2005/umbra/internal/server/services"
	"github.com/spf13/cobra"
)

func NewUsersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage player accounts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Create an account, prompting for the password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepos(cmd, rootOpts, func(ctx context.Context, e *env) error {
				return runUsersAdd(ctx, cmd, e, args[0])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepos(cmd, rootOpts, func(ctx context.Context, e *env) error {
				return runUsersList(ctx, cmd, e)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete an account together with its progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepos(cmd, rootOpts, func(ctx context.Context, e *env) error {
				return runUsersDelete(ctx, cmd, e, args[0])
			})
		},
	})

	return cmd
}

func userService(e *env) *services.UserService {
	return services.NewUserService(e.repos, []byte(e.cfg.SecretKey), e.cfg.SessionValidityDuration, e.logger)
}

func runUsersAdd(ctx context.Context, cmd *cobra.Command, e *env, name string) error {
	pw, err := getPassword(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	u, err := userService(e).Register(ctx, name, string(pw))
	switch {
	case errors.Is(err, common.ErrorValidation):
		return fmt.Errorf("username and password must not be empty")
	case errors.Is(err, common.ErrorAlreadyExists):
		return fmt.Errorf("user %q already exists", common.NormalizeUsername(name))
	case err != nil:
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "user %s created\n", u.Username)
	return nil
}

func runUsersList(ctx context.Context, cmd *cobra.Command, e *env) error {
	users, err := userService(e).List(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "USERNAME\tCREATED")
	for _, u := range users {
		created := "-"
		if !u.CreatedAt.IsZero() {
			created = u.CreatedAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\n", u.Username, created)
	}
	return w.Flush()
}

func runUsersDelete(ctx context.Context, cmd *cobra.Command, e *env, name string) error {
	if err := userService(e).Delete(ctx, name); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("user %q not found", common.NormalizeUsername(name))
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "user %s deleted\n", common.NormalizeUsername(name))
	return nil
}
