package fuzzy

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/atomicobject/vaultdex/internal/index"
	"github.com/atomicobject/vaultdex/internal/vaultpath"
)

// SearchFilenames scores every indexed file's relative path against query
// and returns the top `limit` hits, highest score first, ties broken by
// path.
func SearchFilenames(idx *index.VaultIndex, query string, limit int) []index.SearchHit {
	q := strings.TrimSpace(query)
	if q == "" || limit == 0 {
		return nil
	}

	var hits []index.SearchHit
	for _, f := range idx.AllFiles() {
		if score, ok := Score(q, f.Path); ok {
			hits = append(hits, index.SearchHit{Path: f.Path, Score: score})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Path < hits[j].Path
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// SearchContent reads every note's text and scores its non-empty lines
// against query, keeping the best-scoring line per note. Expensive: it
// reads every markdown/canvas file from disk.
func SearchContent(v *vaultpath.Vault, idx *index.VaultIndex, query string, limit int) ([]index.ContentSearchHit, error) {
	q := strings.TrimSpace(query)
	if q == "" || limit == 0 {
		return nil, nil
	}

	var hits []index.ContentSearchHit
	for _, f := range idx.AllFiles() {
		if f.Kind != index.FileMarkdown && f.Kind != index.FileCanvas {
			continue
		}
		rel, err := vaultpath.New(f.Path)
		if err != nil {
			continue
		}
		abs := v.ToAbs(rel)
		content, err := os.ReadFile(abs)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", abs, err)
		}

		var bestScore int
		var bestLine uint32
		var bestText string
		haveBest := false
		for i, line := range strings.Split(string(content), "\n") {
			lt := strings.TrimSpace(line)
			if lt == "" {
				continue
			}
			if score, ok := Score(q, lt); ok {
				lineNo := uint32(i + 1)
				if !haveBest || score > bestScore {
					haveBest = true
					bestScore = score
					bestLine = lineNo
					bestText = line
				}
			}
		}
		if haveBest {
			hits = append(hits, index.ContentSearchHit{Path: f.Path, Score: bestScore, Line: bestLine, LineText: bestText})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].Path != hits[j].Path {
			return hits[i].Path < hits[j].Path
		}
		return hits[i].Line < hits[j].Line
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}
