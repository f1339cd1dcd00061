package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/umbra/internal/common"
	"github.com/dmitrijs2005/umbra/internal/logging"
	"github.com/dmitrijs2005/umbra/internal/server/levels"
	"github.com/dmitrijs2005/umbra/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func newProgression(t *testing.T) (*ProgressionService, *fakeProgressRepo) {
	t.Helper()
	catalog, err := levels.NewCatalog([]models.LevelDefinition{
		{ID: "level1", Answer: strp("Echo"), Next: "/pages/level2/"},
		{ID: "level8", Type: models.LevelTypeLogin, User: "Admin", Pass: "Hunter2", Next: "/pages/level9/"},
		{ID: "free", Next: "/pages/free-next/"},
	})
	require.NoError(t, err)

	repo := newFakeProgressRepo()
	return NewProgressionService(catalog, repo, logging.NopLogger{}), repo
}

func TestValidate_AnswerIsCaseInsensitive(t *testing.T) {
	svc, repo := newProgression(t)
	ctx := context.Background()

	for _, answer := range []string{"echo", "ECHO", "  Echo  "} {
		res, err := svc.Validate(ctx, "alice", "level1", levels.Submission{"answer": answer})
		require.NoError(t, err)
		assert.Equal(t, &ValidationResult{Accepted: true, Next: "/pages/level2/"}, res, answer)
	}

	st, _ := repo.GetState(ctx, "alice")
	assert.Equal(t, []string{"level1"}, st.Completed)
}

func TestValidate_WrongAnswerRecordsNothing(t *testing.T) {
	svc, repo := newProgression(t)

	for _, sub := range []levels.Submission{
		{"answer": "wrong"},
		{},
		{"answer": 42},
	} {
		res, err := svc.Validate(context.Background(), "alice", "level1", sub)
		require.NoError(t, err)
		assert.False(t, res.Accepted)
		assert.Empty(t, res.Next)
	}
	assert.Zero(t, repo.marks)
}

func TestValidate_UnknownLevel(t *testing.T) {
	svc, repo := newProgression(t)

	res, err := svc.Validate(context.Background(), "alice", "level99", levels.Submission{"answer": "x"})
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Zero(t, repo.marks)
}

func TestValidate_LoginRule(t *testing.T) {
	svc, repo := newProgression(t)
	ctx := context.Background()

	res, err := svc.Validate(ctx, "alice", "level8", levels.Submission{"user": "admin", "pass": "wrong"})
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Zero(t, repo.marks)

	res, err = svc.Validate(ctx, "alice", "level8", levels.Submission{"user": " ADMIN ", "pass": "hunter2"})
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, "/pages/level9/", res.Next)
}

func TestValidate_NoChecksAccepts(t *testing.T) {
	svc, _ := newProgression(t)

	res, err := svc.Validate(context.Background(), "alice", "free", levels.Submission{})
	require.NoError(t, err)
	assert.True(t, res.Accepted)
}

func TestValidate_StorageErrorIsNotAccepted(t *testing.T) {
	svc, repo := newProgression(t)
	repo.markErr = errors.New("disk full")

	res, err := svc.Validate(context.Background(), "alice", "level1", levels.Submission{"answer": "echo"})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "disk full")
}

func TestValidate_UnknownUserIsUnauthorized(t *testing.T) {
	svc, repo := newProgression(t)
	repo.markErr = common.ErrorNotFound

	_, err := svc.Validate(context.Background(), "ghost", "level1", levels.Submission{"answer": "echo"})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}
