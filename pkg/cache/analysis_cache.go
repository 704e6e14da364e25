package cache

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/atomicobject/vaultdex/pkg/obsidian"
)

// SnapshotProvider is implemented by cache.Service to expose entries and a version counter.
type SnapshotProvider interface {
	EntriesSnapshot(context.Context) ([]Entry, error)
	Version() uint64
}

// AnalysisCache memoizes backlink computations keyed by cache version and options.
// Graph-analysis results (HITS/communities/components) are computed fresh per
// request by internal/graph.Analyze, which runs over an in-memory index
// rather than re-walking the vault, so they aren't memoized here.
type AnalysisCache struct {
	provider SnapshotProvider

	mu           sync.Mutex
	version      uint64
	backlinks    map[backlinkKey]map[string][]obsidian.Backlink
	maxBacklinks int
	backlinkKeys []backlinkKey
}

// NewAnalysisCache constructs a cache bound to a snapshot provider (typically Service).
func NewAnalysisCache(provider SnapshotProvider) *AnalysisCache {
	return &AnalysisCache{
		provider:     provider,
		backlinks:    make(map[backlinkKey]map[string][]obsidian.Backlink),
		maxBacklinks: 64,
	}
}

// Backlinks first calls the provider's Refresh (when it has one) so pending
// changes bump the version, then returns cached backlinks when the provider
// version matches; otherwise it recomputes.
func (c *AnalysisCache) Backlinks(vaultPath string, note obsidian.NoteManager, targets []string, options obsidian.WikilinkOptions, suppressedTags []string) (map[string][]obsidian.Backlink, error) {
	if r, ok := c.provider.(interface{ Refresh(context.Context) error }); ok {
		if err := r.Refresh(context.Background()); err != nil {
			return nil, err
		}
	}
	version := c.provider.Version()

	key := backlinkKey{
		targets:       hashStrings(normalizeTargets(targets)),
		skipAnchors:   options.SkipAnchors,
		skipEmbeds:    options.SkipEmbeds,
		suppressedKey: hashStrings(normalizeTagsLower(suppressedTags)),
	}

	c.mu.Lock()
	if version != c.version {
		c.backlinks = make(map[backlinkKey]map[string][]obsidian.Backlink)
		c.version = version
	}
	if cached, ok := c.backlinks[key]; ok {
		c.mu.Unlock()
		return cloneBacklinks(cached), nil
	}
	c.mu.Unlock()

	result, err := obsidian.CollectBacklinks(vaultPath, note, targets, options, suppressedTags)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.backlinks[key] = result
	c.backlinkKeys = append(c.backlinkKeys, key)
	if c.maxBacklinks > 0 && len(c.backlinkKeys) > c.maxBacklinks {
		oldest := c.backlinkKeys[0]
		c.backlinkKeys = c.backlinkKeys[1:]
		delete(c.backlinks, oldest)
	}
	c.mu.Unlock()

	return cloneBacklinks(result), nil
}

type backlinkKey struct {
	targets       string
	skipAnchors   bool
	skipEmbeds    bool
	suppressedKey string
}

func normalizeTargets(targets []string) []string {
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, obsidian.NormalizePath(obsidian.AddMdSuffix(t)))
	}
	sort.Strings(out)
	return out
}

func normalizeTagsLower(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		nt := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(t, "#")))
		if nt != "" {
			out = append(out, nt)
		}
	}
	sort.Strings(out)
	return out
}

func hashStrings(items []string) string {
	return strings.Join(items, "|")
}

func cloneBacklinks(src map[string][]obsidian.Backlink) map[string][]obsidian.Backlink {
	out := make(map[string][]obsidian.Backlink, len(src))
	for k, v := range src {
		copied := make([]obsidian.Backlink, len(v))
		copy(copied, v)
		out[k] = copied
	}
	return out
}
