package repomanager

import (
	"context"
	"path/filepath"

	"github.com/dmitrijs2005/umbra/internal/filex"
	"github.com/dmitrijs2005/umbra/internal/server/repositories/levels"
	"github.com/dmitrijs2005/umbra/internal/server/repositories/progress"
	"github.com/dmitrijs2005/umbra/internal/server/repositories/users"
)

const (
	UsersFileName    = "users.json"
	ProgressFileName = "progress.json"
	LevelsFileName   = "levels.json"
)

// FileRepositoryManager keeps users and progress as JSON documents in one
// directory. The progress store checks users through the users store.
type FileRepositoryManager struct {
	dir      string
	users    *users.FileRepository
	progress *progress.FileRepository
	levels   *levels.FileRepository
}

// NewFileRepositoryManager creates dataDir if needed and loads the stores. An
// empty levelsFile means dataDir/levels.json.
func NewFileRepositoryManager(dataDir, levelsFile string) (*FileRepositoryManager, error) {
	dir, err := filex.EnsureDir(dataDir)
	if err != nil {
		return nil, err
	}
	if levelsFile == "" {
		levelsFile = filepath.Join(dir, LevelsFileName)
	}

	u, err := users.NewFileRepository(filepath.Join(dir, UsersFileName))
	if err != nil {
		return nil, err
	}
	p, err := progress.NewFileRepository(filepath.Join(dir, ProgressFileName), u)
	if err != nil {
		return nil, err
	}

	return &FileRepositoryManager{
		dir:      dir,
		users:    u,
		progress: p,
		levels:   levels.NewFileRepository(levelsFile),
	}, nil
}

func (m *FileRepositoryManager) Backend() string { return BackendFile }

func (m *FileRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *FileRepositoryManager) Users() users.Repository { return m.users }

func (m *FileRepositoryManager) Progress() progress.Repository { return m.progress }

func (m *FileRepositoryManager) Levels() levels.Repository { return m.levels }

// Dir is the absolute data directory.
func (m *FileRepositoryManager) Dir() string { return m.dir }

func (m *FileRepositoryManager) Close() error { return nil }
