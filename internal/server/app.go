// Package server initializes and runs the game server. It opens the
// configured stores, loads the level catalog, picks the asset source and
// serves HTTP until the process is signalled.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/umbra/internal/common"
	"github.com/dmitrijs2005/umbra/internal/logging"
	"github.com/dmitrijs2005/umbra/internal/server/assets"
	"github.com/dmitrijs2005/umbra/internal/server/config"
	"github.com/dmitrijs2005/umbra/internal/server/levels"
	levelrepo "github.com/dmitrijs2005/umbra/internal/server/repositories/levels"
	"github.com/dmitrijs2005/umbra/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/umbra/internal/server/rest"
	"github.com/dmitrijs2005/umbra/internal/server/services"
)

const generatedSecretSize = 32

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	http   *rest.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	return newApp(ctx, c, logger)
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	logger.Info(ctx, "Loaded config", "config", c.String())

	repos, err := repomanager.New(ctx, repomanager.Options{
		DSN:        c.DatabaseDSN,
		DataDir:    c.DataDir,
		LevelsFile: c.LevelsPath(),
	})
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	app, err := build(ctx, c, logger, repos)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}
	return app, nil
}

func build(ctx context.Context, c *config.Config, logger logging.Logger, repos repomanager.RepositoryManager) (*App, error) {
	if err := repos.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	if repos.Backend() == repomanager.BackendSQL {
		if err := seedLevels(ctx, repos.Levels(), c.LevelsPath(), logger); err != nil {
			return nil, err
		}
	}

	catalog, err := levels.Load(ctx, repos.Levels())
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "Level catalog loaded", "backend", repos.Backend(), "levels", catalog.Len())

	secret := c.SecretKey
	if secret == "" {
		secret, err = common.MakeRandHexString(generatedSecretSize)
		if err != nil {
			return nil, fmt.Errorf("secret generation error: %w", err)
		}
		logger.Warn(ctx, "No secret key configured, sessions will not survive a restart")
	}

	src, err := newAssetSource(ctx, c)
	if err != nil {
		return nil, err
	}

	us := services.NewUserService(repos, []byte(secret), c.SessionValidityDuration, logger)
	gs := services.NewProgressionService(catalog, repos.Progress(), logger)
	ps := services.NewProgressService(repos.Progress(), logger)

	hs := rest.NewHTTPServer(c.EndpointAddrHTTP, logger, us, gs, ps, src, []byte(secret), c.ShutdownTimeout)

	return &App{config: c, logger: logger, repos: repos, http: hs}, nil
}

func newAssetSource(ctx context.Context, c *config.Config) (assets.Source, error) {
	if c.UseS3() {
		src, err := assets.NewS3Source(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		return src, nil
	}
	return assets.NewDirSource(c.WebDir), nil
}

// seedLevels fills an empty levels table from the catalog file, so a fresh
// database starts with the same levels as the file backend. A missing file
// leaves the table empty.
func seedLevels(ctx context.Context, repo levelrepo.Repository, path string, logger logging.Logger) error {
	current, err := repo.List(ctx)
	if err != nil {
		return err
	}
	if len(current) > 0 {
		return nil
	}

	defs, err := levelrepo.LoadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn(ctx, "Levels table is empty and no catalog file found", "path", path)
			return nil
		}
		return err
	}

	if _, err := levels.NewCatalog(defs); err != nil {
		return fmt.Errorf("seed levels from %s: %w", path, err)
	}
	if err := repo.Upsert(ctx, defs); err != nil {
		return err
	}

	logger.Info(ctx, "Seeded levels table", "path", path, "levels", len(defs))
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "storage close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
