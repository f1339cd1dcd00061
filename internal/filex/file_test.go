package filex

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNestedDirectory(t *testing.T) {
	tmp := t.TempDir()
	want := filepath.Join(tmp, "data", "nested")

	got, err := EnsureDir(want)
	require.NoError(t, err)
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	_, err := EnsureDir(dir)
	require.NoError(t, err)
	_, err = EnsureDir(dir)
	require.NoError(t, err)
}

func TestEnsureDir_FailsWhenPathIsFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o600))

	_, err := EnsureDir(f)
	require.Error(t, err)
}

func TestReadJSONOrInit_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "users.json")

	var got map[string]string
	require.NoError(t, ReadJSONOrInit(path, &got, map[string]string{}))
	assert.Empty(t, got)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestReadJSONOrInit_ReadsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"alice":"digest"}`), 0o600))

	var got map[string]string
	require.NoError(t, ReadJSONOrInit(path, &got, map[string]string{}))
	assert.Equal(t, map[string]string{"alice": "digest"}, got)
}

func TestReadJSONOrInit_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`{ nope`), 0o600))

	var got map[string]string
	require.Error(t, ReadJSONOrInit(path, &got, map[string]string{}))
}

func TestWriteJSONAtomic_ReplacesAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "progress.json")

	require.NoError(t, WriteJSONAtomic(path, map[string]int{"a": 1}))
	require.NoError(t, WriteJSONAtomic(path, map[string]int{"b": 2}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2}`, string(raw))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must be cleaned up")
}

func TestWriteJSONAtomic_MissingDir(t *testing.T) {
	err := WriteJSONAtomic(filepath.Join(t.TempDir(), "absent", "x.json"), 1)
	require.Error(t, err)
}

func TestWriteJSONAtomic_UnencodableValue(t *testing.T) {
	err := WriteJSONAtomic(filepath.Join(t.TempDir(), "x.json"), make(chan int))
	require.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.yaml")

	require.NoError(t, WriteFileAtomic(path, []byte("a: 1\n")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(raw))
}

func TestReadJSON_MissingFileLeavesValue(t *testing.T) {
	got := map[string]string{"keep": "me"}
	require.NoError(t, ReadJSON(filepath.Join(t.TempDir(), "absent.json"), &got))
	assert.Equal(t, map[string]string{"keep": "me"}, got)
}

func TestReadJSON_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`{ nope`), 0o600))

	var got map[string]string
	assert.Error(t, ReadJSON(path, &got))
}

func TestWithLock_RunsFnAndReleases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")

	calls := 0
	for i := 0; i < 2; i++ {
		require.NoError(t, WithLock(context.Background(), path, func() error {
			calls++
			return nil
		}))
	}
	assert.Equal(t, 2, calls)
	assert.FileExists(t, path+LockSuffix)
}

func TestWithLock_ReturnsFnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	boom := errors.New("boom")

	err := WithLock(context.Background(), path, func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestWithLock_WaitsForOtherHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")

	other := flock.New(path + LockSuffix)
	require.NoError(t, other.Lock())
	t.Cleanup(func() { _ = other.Unlock() })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := WithLock(ctx, path, func() error {
		t.Fatal("fn ran while another holder had the lock")
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWithLock_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone", "users.json")
	err := WithLock(context.Background(), path, func() error { return nil })
	assert.Error(t, err)
}
