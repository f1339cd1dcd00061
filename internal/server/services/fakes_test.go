package services

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/umbra/internal/server/models"
)

type fakeProgressRepo struct {
	mu        sync.Mutex
	completed map[string]map[string]bool
	lastPage  map[string]string

	markErr  error
	pageErr  error
	marks    int
	purged   []string
	purgeErr error
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{completed: map[string]map[string]bool{}, lastPage: map[string]string{}}
}

func (f *fakeProgressRepo) MarkCompleted(ctx context.Context, username, levelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marks++
	if f.markErr != nil {
		return f.markErr
	}
	if f.completed[username] == nil {
		f.completed[username] = map[string]bool{}
	}
	f.completed[username][levelID] = true
	return nil
}

func (f *fakeProgressRepo) SetLastPage(ctx context.Context, username, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pageErr != nil {
		return f.pageErr
	}
	f.lastPage[username] = path
	return nil
}

func (f *fakeProgressRepo) GetState(ctx context.Context, username string) (*models.ProgressState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := &models.ProgressState{Completed: []string{}}
	for id := range f.completed[username] {
		st.Completed = append(st.Completed, id)
	}
	sort.Strings(st.Completed)
	if p, ok := f.lastPage[username]; ok {
		st.LastPage = &p
	}
	return st, nil
}

func (f *fakeProgressRepo) Purge(ctx context.Context, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.purgeErr != nil {
		return f.purgeErr
	}
	f.purged = append(f.purged, username)
	delete(f.completed, username)
	delete(f.lastPage, username)
	return nil
}
