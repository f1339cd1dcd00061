package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/umbra/internal/common"
	"github.com/dmitrijs2005/umbra/internal/logging"
	"github.com/dmitrijs2005/umbra/internal/server/config"
	"github.com/dmitrijs2005/umbra/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogJSON = `{
  "level1": {"answer": "echo", "next": "/pages/level2/"},
  "level8": {"type": "login", "user": "admin", "pass": "hunter2", "next": "/pages/level9/"}
}`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.DataDir = t.TempDir()
	c.WebDir = t.TempDir()
	c.ShutdownTimeout = time.Second
	require.NoError(t, os.WriteFile(filepath.Join(c.DataDir, "levels.json"), []byte(catalogJSON), 0o600))
	return c
}

func TestNewApp_FileBackend(t *testing.T) {
	c := testConfig(t)

	app, err := newApp(context.Background(), c, logging.NopLogger{})
	require.NoError(t, err)
	assert.Equal(t, repomanager.BackendFile, app.repos.Backend())
	assert.FileExists(t, filepath.Join(c.DataDir, repomanager.UsersFileName))
	assert.FileExists(t, filepath.Join(c.DataDir, repomanager.ProgressFileName))
}

func TestNewApp_MissingCatalog(t *testing.T) {
	c := testConfig(t)
	c.LevelsFile = filepath.Join(c.DataDir, "absent.json")

	_, err := newApp(context.Background(), c, logging.NopLogger{})
	assert.Error(t, err)
}

func TestNewApp_SQLiteSeedsLevels(t *testing.T) {
	c := testConfig(t)
	c.DatabaseDSN = "sqlite://" + filepath.Join(t.TempDir(), "umbra.db")

	app, err := newApp(context.Background(), c, logging.NopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.repos.Close() })

	defs, err := app.repos.Levels().List(context.Background())
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "level1", defs[0].ID)
	assert.Equal(t, "login", defs[1].Type)
}

func TestSeedLevels_KeepsExistingRows(t *testing.T) {
	c := testConfig(t)
	c.DatabaseDSN = "sqlite://" + filepath.Join(t.TempDir(), "umbra.db")

	app, err := newApp(context.Background(), c, logging.NopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.repos.Close() })

	require.NoError(t, os.WriteFile(c.LevelsPath(), []byte(`{"other": {"next": "/"}}`), 0o600))
	require.NoError(t, seedLevels(context.Background(), app.repos.Levels(), c.LevelsPath(), logging.NopLogger{}))

	defs, err := app.repos.Levels().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, defs, 2)
}

func TestSeedLevels_NoCatalogFile(t *testing.T) {
	c := testConfig(t)
	c.DatabaseDSN = "sqlite://" + filepath.Join(t.TempDir(), "umbra.db")
	c.LevelsFile = filepath.Join(c.DataDir, "absent.json")

	app, err := newApp(context.Background(), c, logging.NopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.repos.Close() })

	defs, err := app.repos.Levels().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	c := testConfig(t)
	app, err := newApp(context.Background(), c, logging.NopLogger{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestNewApp_ReservedLevelIDFailsOnEveryBackend(t *testing.T) {
	for name, dsn := range map[string]string{
		"file":   "",
		"sqlite": "sqlite://" + filepath.Join(t.TempDir(), "umbra.db"),
	} {
		t.Run(name, func(t *testing.T) {
			c := testConfig(t)
			c.DatabaseDSN = dsn
			require.NoError(t, os.WriteFile(c.LevelsPath(), []byte(`{"last_page": {"next": "/pages/x"}}`), 0o600))

			_, err := newApp(context.Background(), c, logging.NopLogger{})
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}
