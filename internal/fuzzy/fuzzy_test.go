package fuzzy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicobject/vaultdex/internal/index"
	"github.com/atomicobject/vaultdex/internal/vaultpath"
)

func TestScoreOrderedSubsequence(t *testing.T) {
	_, ok := Score("abc", "xaxbxc")
	assert.True(t, ok)
	_, ok = Score("cba", "xaxbxc")
	assert.False(t, ok)
}

func TestScoreSmartCase(t *testing.T) {
	_, ok := Score("foo", "FOO.md")
	assert.True(t, ok, "lowercase query should match case-insensitively")
	_, ok = Score("Foo", "foo.md")
	assert.False(t, ok, "uppercase letter in query should force case-sensitive matching")
}

func TestScorePrefersBoundaryAndContiguous(t *testing.T) {
	contiguous, ok := Score("abc", "abc-rest")
	require.True(t, ok)
	scattered, ok := Score("abc", "a-b-c-rest")
	require.True(t, ok)
	assert.Greater(t, contiguous, scattered)
}

func writeVaultFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

func TestSearchFilenamesRanksAndLimits(t *testing.T) {
	dir := t.TempDir()
	writeVaultFile(t, dir, "notes/project-plan.md", "body\n")
	writeVaultFile(t, dir, "notes/other.md", "body\n")

	v, err := vaultpath.Open(dir)
	require.NoError(t, err)
	idx, err := index.Build(v)
	require.NoError(t, err)

	hits := SearchFilenames(idx, "plan", 5)
	require.Len(t, hits, 1)
	assert.Equal(t, "notes/project-plan.md", hits[0].Path)
}

func TestSearchContentFindsBestLine(t *testing.T) {
	dir := t.TempDir()
	writeVaultFile(t, dir, "notes/a.md", "intro\nthe quick brown fox\nmore text\n")

	v, err := vaultpath.Open(dir)
	require.NoError(t, err)
	idx, err := index.Build(v)
	require.NoError(t, err)

	hits, err := SearchContent(v, idx, "quick fox", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, uint32(2), hits[0].Line)
}
