package users

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/umbra/internal/common"
	"github.com/dmitrijs2005/umbra/internal/filex"
	"github.com/dmitrijs2005/umbra/internal/server/models"
)

// FileRepository stores every user in a JSON document
// {"<username>": "<digest>"}, the layout the legacy server wrote, so its
// users.json can be reused as is.
//
// The file is the only copy of the state. Reads decode it afresh and every
// change reloads it under a lock file shared with other processes (the
// operator CLI), so writes made elsewhere are never overwritten.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

// NewFileRepository checks path, creating it as an empty document if missing.
func NewFileRepository(path string) (*FileRepository, error) {
	hashes := map[string]string{}
	if err := filex.ReadJSONOrInit(path, &hashes, map[string]string{}); err != nil {
		return nil, err
	}
	return &FileRepository{path: path}, nil
}

func (r *FileRepository) load() (map[string]string, error) {
	hashes := map[string]string{}
	if err := filex.ReadJSON(r.path, &hashes); err != nil {
		return nil, err
	}
	return hashes, nil
}

// modify runs fn on the current document and writes it back when fn
// returns nil.
func (r *FileRepository) modify(ctx context.Context, fn func(hashes map[string]string) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return filex.WithLock(ctx, r.path, func() error {
		hashes, err := r.load()
		if err != nil {
			return err
		}
		if err := fn(hashes); err != nil {
			return err
		}
		return filex.WriteJSONAtomic(r.path, hashes)
	})
}

func (r *FileRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	err := r.modify(ctx, func(hashes map[string]string) error {
		if _, ok := hashes[user.Username]; ok {
			return common.ErrorAlreadyExists
		}
		hashes[user.Username] = user.PasswordHash
		return nil
	})
	if err != nil {
		return nil, err
	}

	created := *user
	return &created, nil
}

func (r *FileRepository) GetUserByLogin(ctx context.Context, username string) (*models.User, error) {
	hashes, err := r.load()
	if err != nil {
		return nil, err
	}

	hash, ok := hashes[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.User{Username: username, PasswordHash: hash}, nil
}

func (r *FileRepository) Exists(ctx context.Context, username string) (bool, error) {
	hashes, err := r.load()
	if err != nil {
		return false, err
	}

	_, ok := hashes[username]
	return ok, nil
}

func (r *FileRepository) Delete(ctx context.Context, username string) error {
	return r.modify(ctx, func(hashes map[string]string) error {
		if _, ok := hashes[username]; !ok {
			return common.ErrorNotFound
		}
		delete(hashes, username)
		return nil
	})
}

func (r *FileRepository) List(ctx context.Context) ([]*models.User, error) {
	hashes, err := r.load()
	if err != nil {
		return nil, err
	}

	result := make([]*models.User, 0, len(hashes))
	for name, hash := range hashes {
		result = append(result, &models.User{Username: name, PasswordHash: hash})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result, nil
}
