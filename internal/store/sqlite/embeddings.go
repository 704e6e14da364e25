package sqlite

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/atomicobject/vaultdex/internal/embed"
)

// ScoredChunk is one brute-force nearest-neighbor hit.
type ScoredChunk struct {
	Path       string
	ChunkIndex int
	Breadcrumb string
	Heading    string
	Score      float64
}

// UpsertChunkEmbeddings replaces every chunk-embedding row for path with the
// given chunks and vectors, which must be parallel slices. Called after the
// embedding provider returns its vectors for a (re)indexed note; chunk rows
// for a path are always fully rewritten together since chunk boundaries
// shift whenever the note's content changes.
func (s *Store) UpsertChunkEmbeddings(ctx context.Context, path string, chunks []embed.Chunk, vecs []embed.Vector) error {
	if len(chunks) != len(vecs) {
		return fmt.Errorf("sqlite: %d chunks but %d vectors for %s", len(chunks), len(vecs), path)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunk_embeddings WHERE path = ?`, path); err != nil {
		return fmt.Errorf("clear chunk embeddings: %w", err)
	}

	now := time.Now().Unix()
	for i, c := range chunks {
		blob := embedToBytes(vecs[i])
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chunk_embeddings(path, chunk_index, breadcrumb, heading, content_hash, embedding, dimensions, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			path, c.Index, c.Breadcrumb, c.Heading, c.Hash, blob, len(vecs[i]), now)
		if err != nil {
			return fmt.Errorf("insert chunk embedding: %w", err)
		}
	}

	return tx.Commit()
}

// ChunkHashes returns the content hash stored for each chunk index of path,
// so a caller can skip re-embedding chunks whose text hasn't changed.
func (s *Store) ChunkHashes(ctx context.Context, path string) (map[int]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT chunk_index, content_hash FROM chunk_embeddings WHERE path = ?`, path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int]string)
	for rows.Next() {
		var idx int
		var hash string
		if err := rows.Scan(&idx, &hash); err != nil {
			return nil, err
		}
		out[idx] = hash
	}
	return out, rows.Err()
}

// SearchChunks scores every stored chunk embedding against query by cosine
// similarity and returns the topK highest-scoring hits, brute force: the
// corpus sizes this tool operates on (a single vault's notes) make an
// approximate nearest-neighbor index unnecessary, the same call the
// reference implementation's own SQLite adapter makes.
func (s *Store) SearchChunks(ctx context.Context, query embed.Vector, topK int) ([]ScoredChunk, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path, chunk_index, breadcrumb, heading, embedding FROM chunk_embeddings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []ScoredChunk
	for rows.Next() {
		var path, breadcrumb, heading string
		var idx int
		var blob []byte
		if err := rows.Scan(&path, &idx, &breadcrumb, &heading, &blob); err != nil {
			return nil, err
		}
		vec := bytesToEmbed(blob)
		hits = append(hits, ScoredChunk{
			Path:       path,
			ChunkIndex: idx,
			Breadcrumb: breadcrumb,
			Heading:    heading,
			Score:      embed.CosineSimilarity(query, vec),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// RemoveChunkEmbeddings drops every chunk row for path; RemovePath already
// does this via its own DELETE, this is exposed separately for callers that
// only want to invalidate embeddings (e.g. the embedding provider changed)
// without touching the rest of the index.
func (s *Store) RemoveChunkEmbeddings(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM chunk_embeddings WHERE path = ?`, path)
	return err
}

func embedToBytes(v embed.Vector) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToEmbed(b []byte) embed.Vector {
	v := make(embed.Vector, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
