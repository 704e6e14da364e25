package linkresolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicobject/vaultdex/internal/index"
	"github.com/atomicobject/vaultdex/internal/vaultpath"
)

func writeVaultFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

func TestResolverPreferenceDupAndAlias(t *testing.T) {
	dir := t.TempDir()
	writeVaultFile(t, dir, "notes/dup.md", "body\n")
	writeVaultFile(t, dir, "other/dup.md", "body\n")
	writeVaultFile(t, dir, "notes/Target.md", "---\naliases: [AltName]\n---\nbody\n")
	writeVaultFile(t, dir, "notes/source.md", "[[dup]] [[AltName]]\n")

	v, err := vaultpath.Open(dir)
	require.NoError(t, err)
	idx, err := index.Build(v)
	require.NoError(t, err)

	r := New(idx)

	res := r.Resolve("dup", "notes/source.md")
	require.Equal(t, Resolved, res.Status)
	assert.Equal(t, "notes/dup.md", res.Path)

	res = r.Resolve("AltName", "notes/source.md")
	require.Equal(t, Resolved, res.Status)
	assert.Equal(t, "notes/Target.md", res.Path)
}

func TestResolverAmbiguousWithoutSourcePreference(t *testing.T) {
	dir := t.TempDir()
	writeVaultFile(t, dir, "a/dup.md", "body\n")
	writeVaultFile(t, dir, "b/dup.md", "body\n")
	writeVaultFile(t, dir, "c/source.md", "[[dup]]\n")

	v, err := vaultpath.Open(dir)
	require.NoError(t, err)
	idx, err := index.Build(v)
	require.NoError(t, err)

	r := New(idx)
	res := r.Resolve("dup", "c/source.md")
	require.Equal(t, Ambiguous, res.Status)
	assert.Equal(t, []string{"a/dup.md", "b/dup.md"}, res.Candidates)
}

func TestResolverMissing(t *testing.T) {
	dir := t.TempDir()
	writeVaultFile(t, dir, "notes/a.md", "body\n")

	v, err := vaultpath.Open(dir)
	require.NoError(t, err)
	idx, err := index.Build(v)
	require.NoError(t, err)

	r := New(idx)
	res := r.Resolve("NoSuchNote", "notes/a.md")
	assert.Equal(t, Missing, res.Status)
}

func TestResolverPathWithExtensionProbing(t *testing.T) {
	dir := t.TempDir()
	writeVaultFile(t, dir, "notes/target.md", "body\n")
	writeVaultFile(t, dir, "notes/source.md", "[[notes/target]]\n")

	v, err := vaultpath.Open(dir)
	require.NoError(t, err)
	idx, err := index.Build(v)
	require.NoError(t, err)

	r := New(idx)
	res := r.Resolve("notes/target", "notes/source.md")
	require.Equal(t, Resolved, res.Status)
	assert.Equal(t, "notes/target.md", res.Path)
}
