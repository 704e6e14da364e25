// Package graph derives the backlink graph from per-note link occurrences
// plus the resolver: no pointers are stored between notes, so an
// incremental update only needs to replace one note's occurrence list.
package graph

import (
	"sort"

	"github.com/atomicobject/vaultdex/internal/index"
	"github.com/atomicobject/vaultdex/internal/linkresolve"
	"github.com/atomicobject/vaultdex/internal/parse"
)

// ResolvedLink pairs a link occurrence with the outcome of resolving it.
type ResolvedLink struct {
	Source     string
	Link       parse.Link
	Status     linkresolve.Status
	Target     string   // Status == Resolved
	Candidates []string // Status == Ambiguous
}

// Backlink is one inbound link occurrence recorded against its target.
type Backlink struct {
	Source string
	Link   parse.Link
}

// Index is the derived backlink graph: every resolved internal link
// grouped by its target, plus the set of links that failed to resolve.
type Index struct {
	Unresolved int
	Ambiguous  int
	Issues     []ResolvedLink
	inbound    map[string][]Backlink
}

// Backlinks returns the inbound links recorded for target, in
// (source, location) order.
func (g *Index) Backlinks(target string) []Backlink {
	return g.inbound[target]
}

// Targets returns every target path with at least one backlink.
func (g *Index) Targets() []string {
	out := make([]string, 0, len(g.inbound))
	for t := range g.inbound {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// UnresolvedIssues returns issues whose target couldn't be found at all.
func (g *Index) UnresolvedIssues() []ResolvedLink {
	var out []ResolvedLink
	for _, i := range g.Issues {
		if i.Status == linkresolve.Missing {
			out = append(out, i)
		}
	}
	return out
}

// AmbiguousIssues returns issues whose reference matched more than one file.
func (g *Index) AmbiguousIssues() []ResolvedLink {
	var out []ResolvedLink
	for _, i := range g.Issues {
		if i.Status == linkresolve.Ambiguous {
			out = append(out, i)
		}
	}
	return out
}

// Build resolves every internal link occurrence in idx and groups the
// results into a backlink graph.
func Build(idx *index.VaultIndex) *Index {
	resolver := linkresolve.New(idx)
	out := &Index{inbound: make(map[string][]Backlink)}

	for _, pair := range idx.NotesIter() {
		source := pair.Path
		for _, link := range pair.Note.LinkOccurrences {
			if link.Target.Kind != parse.TargetInternal {
				continue
			}
			res := resolver.ResolveTarget(link.Target, source)
			switch res.Status {
			case linkresolve.Resolved:
				out.inbound[res.Path] = append(out.inbound[res.Path], Backlink{Source: source, Link: link})
			case linkresolve.Missing:
				out.Unresolved++
				out.Issues = append(out.Issues, ResolvedLink{Source: source, Link: link, Status: res.Status})
			case linkresolve.Ambiguous:
				out.Ambiguous++
				out.Issues = append(out.Issues, ResolvedLink{Source: source, Link: link, Status: res.Status, Candidates: res.Candidates})
			}
		}
	}

	for target, links := range out.inbound {
		sortBacklinks(links)
		out.inbound[target] = links
	}
	sort.Slice(out.Issues, func(i, j int) bool {
		if out.Issues[i].Source != out.Issues[j].Source {
			return out.Issues[i].Source < out.Issues[j].Source
		}
		return out.Issues[i].Link.Location.Less(out.Issues[j].Link.Location)
	})

	return out
}

func sortBacklinks(links []Backlink) {
	sort.Slice(links, func(i, j int) bool {
		if links[i].Source != links[j].Source {
			return links[i].Source < links[j].Source
		}
		return links[i].Link.Location.Less(links[j].Link.Location)
	})
}
