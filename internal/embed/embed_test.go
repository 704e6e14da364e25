package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderUnknownAndNone(t *testing.T) {
	_, err := NewProvider(ProviderConfig{Provider: "none"})
	require.Error(t, err)

	_, err = NewProvider(ProviderConfig{Provider: "bogus"})
	require.Error(t, err)
}

func TestOpenAIProviderEmbedTexts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var body struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Input, 2)

		resp := map[string]any{
			"data": []map[string]any{
				{"embedding": []float32{1, 0}},
				{"embedding": []float32{0, 1}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p, err := NewProvider(ProviderConfig{Provider: "openai", APIKey: "sk-test", Endpoint: srv.URL})
	require.NoError(t, err)

	vecs, err := p.EmbedTexts(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, Vector{1, 0}, vecs[0])
	assert.Equal(t, 2, p.Dimensions())
}

func TestOllamaProviderEmbedsEachTextSeparately(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]any{"embedding": []float32{0.5, 0.5}})
	}))
	defer srv.Close()

	p, err := NewProvider(ProviderConfig{Provider: "ollama", Model: "nomic-embed-text", Endpoint: srv.URL})
	require.NoError(t, err)

	vecs, err := p.EmbedTexts(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Len(t, vecs, 3)
	assert.Equal(t, 3, calls)
}

func TestCleanMarkdownForEmbeddingStripsLinksAndFrontmatter(t *testing.T) {
	src := "---\ntags: [a]\n---\n\nSee [[Other Note|label]] and [site](https://example.com).\n\n```go\ncode stays out\n```\n"
	got := CleanMarkdownForEmbedding(src)
	assert.Contains(t, got, "label")
	assert.Contains(t, got, "site")
	assert.NotContains(t, got, "code stays out")
	assert.NotContains(t, got, "https")
	assert.NotContains(t, got, "tags")
}

func TestChunkNoteProducesBreadcrumbs(t *testing.T) {
	content := "# Intro\n" + repeat("word ", 500) + "\n\n## Details\n" + repeat("more ", 500)
	chunks := ChunkNote("notes/a.md", "My Note", content)
	require.NotEmpty(t, chunks)
	assert.Contains(t, chunks[0].Breadcrumb, "My Note")
	assert.Contains(t, chunks[0].Breadcrumb, "Intro")
	assert.Contains(t, chunks[len(chunks)-1].Breadcrumb, "Details")
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}

func TestCosineSimilarityIdenticalVectors(t *testing.T) {
	v := Vector{1, 2, 3}
	assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity(Vector{}, Vector{1}))
}

func TestDistanceToCosineClamps(t *testing.T) {
	assert.InDelta(t, 1.0, DistanceToCosine(0), 1e-9)
	assert.Equal(t, float32(0), DistanceToCosine(10))
}
