// Package cli implements umbra-admin, the operator command line for the game
// server's stores. It loads configuration the same way the server does, so
// the same config file, environment and DSN select the same backend.
//
// Commands:
//   - migrate: apply the relational schema
//   - levels list | levels import <file>
//   - users add <name> | users list | users delete <name>
//   - progress show <name>
package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/umbra/internal/logging"
	"github.com/dmitrijs2005/umbra/internal/server/config"
	"github.com/dmitrijs2005/umbra/internal/server/repositories/repomanager"
	"github.com/spf13/cobra"
)

// RootOptions holds the global flags. Empty values leave the loaded config
// as it is.
type RootOptions struct {
	ConfigFile string
	DSN        string
	DataDir    string
	LevelsFile string
}

// openRepos is a test seam for repomanager.New.
var openRepos = repomanager.New

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "umbra-admin",
		Short:         "Umbra operator tools",
		Long:          "Maintain the users, progress and level catalog of an Umbra server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "JSON config file")
	cmd.PersistentFlags().StringVarP(&opts.DSN, "dsn", "d", "", "database DSN (empty uses the JSON files)")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data", "", "data directory of the file backend")
	cmd.PersistentFlags().StringVar(&opts.LevelsFile, "levels", "", "level catalog file")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewLevelsCommand(opts))
	cmd.AddCommand(NewUsersCommand(opts))
	cmd.AddCommand(NewProgressCommand(opts))

	return cmd
}

// loadConfig builds the server config, overlaying the global flags.
func (o *RootOptions) loadConfig() (cfg *config.Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("config: %v", r)
		}
	}()

	var args []string
	if o.ConfigFile != "" {
		args = append(args, "-c", o.ConfigFile)
	}
	cfg = config.LoadConfigFrom(args)

	if o.DSN != "" {
		cfg.DatabaseDSN = o.DSN
	}
	if o.DataDir != "" {
		cfg.DataDir = o.DataDir
	}
	if o.LevelsFile != "" {
		cfg.LevelsFile = o.LevelsFile
	}
	return cfg, nil
}

// env is what a command runs against.
type env struct {
	cfg    *config.Config
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

// withRepos opens the configured stores, runs fn and closes them.
func withRepos(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, e *env) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.NewJSONLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}

	repos, err := openRepos(ctx, repomanager.Options{
		DSN:        cfg.DatabaseDSN,
		DataDir:    cfg.DataDir,
		LevelsFile: cfg.LevelsPath(),
	})
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer repos.Close()

	return fn(ctx, &env{cfg: cfg, repos: repos, logger: logger})
}
