package levels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dmitrijs2005/umbra/internal/filex"
	"github.com/dmitrijs2005/umbra/internal/server/models"
	"gopkg.in/yaml.v3"
)

// FileRepository reads and writes a catalog file keyed by level id:
//
//	{"level1": {"answer": "echo", "next": "/pages/level2/"}}
//
// Files ending in .yaml or .yml use the same shape in YAML.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadFile parses the catalog file at path.
func LoadFile(path string) ([]models.LevelDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level catalog: %w", err)
	}
	return Decode(data, isYAML(path))
}

// Decode parses catalog data and returns the definitions ordered by id.
func Decode(data []byte, asYAML bool) ([]models.LevelDefinition, error) {
	raw := map[string]models.LevelDefinition{}
	var err error
	if asYAML {
		err = yaml.Unmarshal(data, &raw)
	} else {
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("decode level catalog: %w", err)
	}

	defs := make([]models.LevelDefinition, 0, len(raw))
	for id, def := range raw {
		def.ID = id
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs, nil
}

func encode(defs map[string]models.LevelDefinition, asYAML bool) ([]byte, error) {
	if asYAML {
		return yaml.Marshal(defs)
	}
	return json.MarshalIndent(defs, "", "  ")
}

func (r *FileRepository) List(ctx context.Context) ([]models.LevelDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return LoadFile(r.path)
}

// Upsert merges defs into the catalog file, creating it when missing.
func (r *FileRepository) Upsert(ctx context.Context, defs []models.LevelDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	merged := map[string]models.LevelDefinition{}
	current, err := LoadFile(r.path)
	switch {
	case err == nil:
		for _, d := range current {
			merged[d.ID] = d
		}
	case errors.Is(err, fs.ErrNotExist):
		if _, err := filex.EnsureDir(filepath.Dir(r.path)); err != nil {
			return err
		}
	default:
		return err
	}

	for _, d := range defs {
		merged[d.ID] = d
	}

	data, err := encode(merged, isYAML(r.path))
	if err != nil {
		return fmt.Errorf("encode level catalog: %w", err)
	}
	return filex.WriteFileAtomic(r.path, data)
}
