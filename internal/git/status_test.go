package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (string, *gogit.Worktree) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return dir, wt
}

func commitAll(t *testing.T, wt *gogit.Worktree) {
	t.Helper()
	_, err := wt.Add(".")
	require.NoError(t, err)
	_, err = wt.Commit("snapshot", &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "test",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)
}

func TestLoadOutsideRepository(t *testing.T) {
	status, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, status)
	// a nil status answers queries
	assert.Equal(t, StateNone, status.State("/anything"))
}

func TestUntrackedFileIsNew(t *testing.T) {
	dir, _ := initRepo(t)
	path := filepath.Join(dir, "fresh.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	status, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, StateNew, status.State(path))
}

func TestStagedFile(t *testing.T) {
	dir, wt := initRepo(t)
	path := filepath.Join(dir, "staged.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	_, err := wt.Add("staged.txt")
	require.NoError(t, err)

	status, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, StateStaged, status.State(path))
}

func TestModifiedFile(t *testing.T) {
	dir, wt := initRepo(t)
	path := filepath.Join(dir, "tracked.txt")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))
	commitAll(t, wt)
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))

	status, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, StateModified, status.State(path))
}

func TestCleanFile(t *testing.T) {
	dir, wt := initRepo(t)
	path := filepath.Join(dir, "tracked.txt")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))
	commitAll(t, wt)

	status, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, StateNone, status.State(path))
	assert.False(t, status.Changed(path))
}

func TestDirectoryAggregatesDescendants(t *testing.T) {
	dir, _ := initRepo(t)
	sub := filepath.Join(dir, "src", "deep")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "new.go"), []byte("x"), 0o644))

	status, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, StateNew, status.State(filepath.Join(dir, "src")))
	assert.True(t, status.Changed(filepath.Join(dir, "src")))
}

func TestLoadFromSubdirectory(t *testing.T) {
	dir, _ := initRepo(t)
	sub := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	path := filepath.Join(sub, "new.go")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	status, err := Load(sub)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, StateNew, status.State(path))
}
