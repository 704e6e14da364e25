package mcp

import (
	"github.com/atomicobject/vaultdex/pkg/cache"
	"github.com/atomicobject/vaultdex/pkg/embeddings"
	"github.com/atomicobject/vaultdex/pkg/embeddings/sqlite"
	"github.com/atomicobject/vaultdex/pkg/obsidian"
)

// Config holds configuration for MCP tools
type Config struct {
	Vault          *obsidian.Vault
	VaultPath      string
	Debug          bool
	SuppressedTags []string
	ReadWrite      bool
	Cache          *cache.Service
	AnalysisCache  *cache.AnalysisCache
	Embeddings     *sqlite.Store
	EmbedProvider  embeddings.Provider
	EmbeddingsPath string
	EmbeddingsOn   bool
}
