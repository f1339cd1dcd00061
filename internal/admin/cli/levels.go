package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/umbra/internal/server/levels"
	"github.com/dmitrijs2005/umbra/internal/server/models"
	levelrepo "github.com/dmitrijs2005/umbra/internal/server/repositories/levels"
	"github.com/spf13/cobra"
)

func NewLevelsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "Inspect and load the level catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List levels with their kind and next page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepos(cmd, rootOpts, func(ctx context.Context, e *env) error {
				return runLevelsList(ctx, cmd, e)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Upsert a JSON or YAML catalog file into the configured store",
		Long: `Upsert every level of a catalog file into the configured store.

The file is validated as a whole first; nothing is written if any level
is invalid. Existing levels with the same id are replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepos(cmd, rootOpts, func(ctx context.Context, e *env) error {
				return runLevelsImport(ctx, cmd, e, args[0])
			})
		},
	})

	return cmd
}

func runLevelsList(ctx context.Context, cmd *cobra.Command, e *env) error {
	defs, err := e.repos.Levels().List(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tNEXT")
	for _, d := range defs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.ID, levelKind(d), d.Next)
	}
	return w.Flush()
}

func levelKind(d models.LevelDefinition) string {
	switch {
	case d.Type != "":
		return d.Type
	case d.Answer != nil:
		return string(levels.KindAnswer)
	}
	return "open"
}

func runLevelsImport(ctx context.Context, cmd *cobra.Command, e *env, path string) error {
	defs, err := levelrepo.LoadFile(path)
	if err != nil {
		return err
	}
	if _, err := levels.NewCatalog(defs); err != nil {
		return err
	}
	if err := e.repos.Levels().Upsert(ctx, defs); err != nil {
		return err
	}

	e.logger.Info(ctx, "levels imported", "file", path, "levels", len(defs), "backend", e.repos.Backend())
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d levels\n", len(defs))
	return nil
}
