package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/umbra/internal/common"
	"github.com/dmitrijs2005/umbra/internal/filex"
	"github.com/dmitrijs2005/umbra/internal/server/models"
)

// lastPageKey shares the per-user object with level ids in the on-disk
// layout, so it can never be used as a level id here.
const lastPageKey = "last_page"

// userEntry is one player's object in progress.json:
//
//	{"level1": true, "level2": true, "last_page": "/pages/level3/"}
type userEntry struct {
	completed map[string]bool
	lastPage  *string
}

func (e *userEntry) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(e.completed)+1)
	for id := range e.completed {
		m[id] = true
	}
	if e.lastPage != nil {
		m[lastPageKey] = *e.lastPage
	}
	return json.Marshal(m)
}

func (e *userEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.completed = make(map[string]bool, len(raw))
	for k, v := range raw {
		if k == lastPageKey {
			var page *string
			if err := json.Unmarshal(v, &page); err != nil {
				return fmt.Errorf("%s: %w", lastPageKey, err)
			}
			e.lastPage = page
			continue
		}
		var done bool
		if err := json.Unmarshal(v, &done); err != nil {
			return fmt.Errorf("level %q: %w", k, err)
		}
		if done {
			e.completed[k] = true
		}
	}
	return nil
}

// FileRepository stores all progress in progress.json. The file is the only
// copy of the state: reads decode it afresh and every change reloads it under
// a lock file shared with other processes (the operator CLI), so a write made
// elsewhere is never overwritten.
type FileRepository struct {
	mu    sync.Mutex
	path  string
	users UserChecker
}

// NewFileRepository checks path, creating it as {} if missing.
func NewFileRepository(path string, users UserChecker) (*FileRepository, error) {
	data := map[string]*userEntry{}
	if err := filex.ReadJSONOrInit(path, &data, map[string]any{}); err != nil {
		return nil, err
	}
	return &FileRepository{path: path, users: users}, nil
}

func (r *FileRepository) load() (map[string]*userEntry, error) {
	data := map[string]*userEntry{}
	if err := filex.ReadJSON(r.path, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// modify runs fn on the current document and writes it back when fn reports
// a change.
func (r *FileRepository) modify(ctx context.Context, fn func(data map[string]*userEntry) (bool, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return filex.WithLock(ctx, r.path, func() error {
		data, err := r.load()
		if err != nil {
			return err
		}
		changed, err := fn(data)
		if err != nil || !changed {
			return err
		}
		return filex.WriteJSONAtomic(r.path, data)
	})
}

// update applies fn to the user's entry, creating it when missing. The user
// is looked up under the progress lock, which a purge also needs, so a
// concurrent delete cannot leave an orphaned entry behind.
func (r *FileRepository) update(ctx context.Context, username string, fn func(e *userEntry)) error {
	return r.modify(ctx, func(data map[string]*userEntry) (bool, error) {
		ok, err := r.users.Exists(ctx, username)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, common.ErrorNotFound
		}

		e := data[username]
		if e == nil {
			e = &userEntry{completed: map[string]bool{}}
			data[username] = e
		}
		fn(e)
		return true, nil
	})
}

func (r *FileRepository) MarkCompleted(ctx context.Context, username, levelID string) error {
	// The catalog refuses this id; it would collide with the last page key.
	if levelID == lastPageKey {
		return fmt.Errorf("%w: level id %q is reserved", common.ErrorValidation, levelID)
	}
	return r.update(ctx, username, func(e *userEntry) {
		e.completed[levelID] = true
	})
}

func (r *FileRepository) SetLastPage(ctx context.Context, username, path string) error {
	return r.update(ctx, username, func(e *userEntry) {
		p := path
		e.lastPage = &p
	})
}

func (r *FileRepository) GetState(ctx context.Context, username string) (*models.ProgressState, error) {
	data, err := r.load()
	if err != nil {
		return nil, err
	}

	state := &models.ProgressState{Completed: []string{}}
	e := data[username]
	if e == nil {
		return state, nil
	}
	for id := range e.completed {
		state.Completed = append(state.Completed, id)
	}
	sort.Strings(state.Completed)
	state.LastPage = e.lastPage
	return state, nil
}

func (r *FileRepository) Purge(ctx context.Context, username string) error {
	return r.modify(ctx, func(data map[string]*userEntry) (bool, error) {
		if _, ok := data[username]; !ok {
			return false, nil
		}
		delete(data, username)
		return true, nil
	})
}
