package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicobject/vaultdex/internal/embed"
	"github.com/atomicobject/vaultdex/internal/index"
	"github.com/atomicobject/vaultdex/internal/vaultpath"
)

func writeVaultFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func openTestVault(t *testing.T) (*vaultpath.Vault, *index.VaultIndex) {
	t.Helper()
	root := t.TempDir()
	writeVaultFile(t, root, "notes/a.md", "---\ntags: [people]\n---\n\n#project See [[B]].\n\n- [ ] call Dana\n")
	writeVaultFile(t, root, "notes/b.md", "# B\n\nBacklinked note.\n")
	v, err := vaultpath.Open(root)
	require.NoError(t, err)

	idx := index.New()
	for _, rel := range []string{"notes/a.md", "notes/b.md"} {
		p, err := vaultpath.New(rel)
		require.NoError(t, err)
		_, err = idx.UpsertPath(v, p)
		require.NoError(t, err)
	}
	return v, idx
}

func TestWriteFullIndexPopulatesAllTables(t *testing.T) {
	v, idx := openTestVault(t)
	ctx := context.Background()

	s, err := Open(filepath.Join(t.TempDir(), "index.sqlite"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.WriteFullIndex(ctx, idx))

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts.Files)
	assert.EqualValues(t, 2, counts.Notes)
	assert.GreaterOrEqual(t, counts.Tags, int64(1))
	assert.GreaterOrEqual(t, counts.Tasks, int64(1))
	assert.GreaterOrEqual(t, counts.Links, int64(1))

	_ = v
}

func TestUpsertPathReplacesExistingRows(t *testing.T) {
	v, idx := openTestVault(t)
	ctx := context.Background()

	s, err := Open(filepath.Join(t.TempDir(), "index.sqlite"))
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.WriteFullIndex(ctx, idx))

	writeVaultFile(t, v.Root(), "notes/a.md", "#newtag another pass, no tasks, no links.\n")
	p, err := vaultpath.New("notes/a.md")
	require.NoError(t, err)
	_, err = idx.UpsertPath(v, p)
	require.NoError(t, err)

	file, _ := idx.File("notes/a.md")
	note, _ := idx.Note("notes/a.md")
	require.NoError(t, s.UpsertPath(ctx, file, note))

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, counts.Tasks)
	assert.EqualValues(t, 0, counts.Links)
}

func TestRemovePathCascades(t *testing.T) {
	_, idx := openTestVault(t)
	ctx := context.Background()

	s, err := Open(filepath.Join(t.TempDir(), "index.sqlite"))
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.WriteFullIndex(ctx, idx))

	require.NoError(t, s.RemovePath(ctx, "notes/a.md"))

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts.Files)
	assert.EqualValues(t, 1, counts.Notes)

	var tagCount int64
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tags WHERE path = 'notes/a.md'`).Scan(&tagCount))
	assert.EqualValues(t, 0, tagCount)
}

func TestOpenDefaultUsesDotObsidianDir(t *testing.T) {
	root := t.TempDir()
	writeVaultFile(t, root, "notes/only.md", "hello\n")
	v, err := vaultpath.Open(root)
	require.NoError(t, err)

	s, err := OpenDefault(v)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(DefaultDBPath(v))
	require.NoError(t, err)
}

func TestChunkEmbeddingsRoundTripAndSearch(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "index.sqlite"))
	require.NoError(t, err)
	defer s.Close()

	// chunk_embeddings has a foreign key on files(path); seed a files row first.
	_, idx := openTestVault(t)
	require.NoError(t, s.WriteFullIndex(ctx, idx))

	chunks := []embed.Chunk{
		{Index: 0, Text: "alpha", Breadcrumb: "A > Intro", Heading: "Intro", Hash: "h0"},
		{Index: 1, Text: "beta", Breadcrumb: "A > Body", Heading: "Body", Hash: "h1"},
	}
	vecs := []embed.Vector{{1, 0}, {0, 1}}
	require.NoError(t, s.UpsertChunkEmbeddings(ctx, "notes/a.md", chunks, vecs))

	hashes, err := s.ChunkHashes(ctx, "notes/a.md")
	require.NoError(t, err)
	assert.Equal(t, "h0", hashes[0])
	assert.Equal(t, "h1", hashes[1])

	hits, err := s.SearchChunks(ctx, embed.Vector{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Intro", hits[0].Heading)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
}
