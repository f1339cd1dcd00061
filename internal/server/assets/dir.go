package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/dmitrijs2005/umbra/internal/common"
)

// DirSource reads assets from a file system, normally a local directory.
type DirSource struct {
	fsys fs.FS
}

// NewDirSource serves files below root.
func NewDirSource(root string) *DirSource {
	return &DirSource{fsys: os.DirFS(root)}
}

// NewFSSource serves files from fsys.
func NewFSSource(fsys fs.FS) *DirSource {
	return &DirSource{fsys: fsys}
}

func (s *DirSource) Open(ctx context.Context, name string) (*Asset, error) {
	name = cleanName(name)
	if name == "" || !fs.ValidPath(name) {
		return nil, common.ErrorNotFound
	}

	info, err := fs.Stat(s.fsys, name)
	if err != nil {
		return nil, notFound(err)
	}
	if info.IsDir() {
		name = path.Join(name, IndexFile)
		if info, err = fs.Stat(s.fsys, name); err != nil {
			return nil, notFound(err)
		}
		if info.IsDir() {
			return nil, common.ErrorNotFound
		}
	}

	f, err := s.fsys.Open(name)
	if err != nil {
		return nil, notFound(err)
	}

	return &Asset{
		Name:        name,
		Body:        f,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		ContentType: contentType(name, ""),
	}, nil
}

func notFound(err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("open asset: %w", err)
}
