package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIgnoresNothingWithoutRules(t *testing.T) {
	dir := t.TempDir()
	ig := NewBuilder(dir).Build()

	assert.False(t, ig.IsIgnored(filepath.Join(dir, "test.txt")))
	assert.False(t, ig.IsIgnored(filepath.Join(dir, "test2.txt")))
}

func TestImplicitGitExclusion(t *testing.T) {
	dir := t.TempDir()
	ig := NewBuilder(dir).Build()

	assert.True(t, ig.IsIgnored(filepath.Join(dir, ".git")))
	assert.True(t, ig.IsIgnored(filepath.Join(dir, ".git", "HEAD")))
}

func TestUserGlobs(t *testing.T) {
	dir := t.TempDir()
	ig := NewBuilder(dir).Globs([]string{"test.txt"}).Build()

	assert.True(t, ig.IsIgnored(filepath.Join(dir, "test.txt")))
	assert.False(t, ig.IsIgnored(filepath.Join(dir, "test2.txt")))
}

func TestDirectoryGlobHidesContents(t *testing.T) {
	dir := t.TempDir()
	ig := NewBuilder(dir).Globs([]string{"test"}).Build()

	assert.True(t, ig.IsIgnored(filepath.Join(dir, "test")))
	assert.True(t, ig.IsIgnored(filepath.Join(dir, "test", "x")))
	assert.False(t, ig.IsIgnored(filepath.Join(dir, "test2")))
}

func TestUsesGitignore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("/test2.txt\n"), 0o644))
	ig := NewBuilder(dir).Build()

	assert.False(t, ig.IsIgnored(filepath.Join(dir, "test.txt")))
	assert.True(t, ig.IsIgnored(filepath.Join(dir, "test2.txt")))
}

func TestCanOptOutOfGitignore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("/test2.txt\n"), 0o644))
	ig := NewBuilder(dir).UseGitignore(false).Build()

	assert.False(t, ig.IsIgnored(filepath.Join(dir, "test.txt")))
	assert.False(t, ig.IsIgnored(filepath.Join(dir, "test2.txt")))
}

func TestGitignoreMatchesUnderAncestors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("secret\n"), 0o644))
	ig := NewBuilder(dir).Build()

	assert.True(t, ig.IsIgnored(filepath.Join(dir, "secret")))
	assert.True(t, ig.IsIgnored(filepath.Join(dir, "secret", "deep", "file.txt")))
}

func TestCombinedSemantics(t *testing.T) {
	// S6: user glob "test" plus gitignore "/skip.txt" leaves only keep.txt.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("/skip.txt\n"), 0o644))
	ig := NewBuilder(dir).Globs([]string{"test"}).Build()

	assert.True(t, ig.IsIgnored(filepath.Join(dir, "test", "x")))
	assert.True(t, ig.IsIgnored(filepath.Join(dir, "test")))
	assert.True(t, ig.IsIgnored(filepath.Join(dir, "skip.txt")))
	assert.False(t, ig.IsIgnored(filepath.Join(dir, "keep.txt")))
}

func TestPathsOutsideRootAreKept(t *testing.T) {
	dir := t.TempDir()
	ig := NewBuilder(dir).Globs([]string{"*"}).Build()

	assert.False(t, ig.IsIgnored("/somewhere/else.txt"))
	assert.False(t, ig.IsIgnored(dir), "the root itself is never ignored")
}
