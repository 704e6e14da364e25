package graph

import (
	"crypto/sha1"
	"encoding/hex"
	"io"
	"math"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/atomicobject/vaultdex/internal/index"
	"github.com/atomicobject/vaultdex/internal/linkresolve"
	"github.com/atomicobject/vaultdex/internal/parse"
)

// AuthorityScore pairs a note with its HITS authority/hub scores.
type AuthorityScore struct {
	Path      string
	Authority float64
	Hub       float64
}

// AuthorityBucket summarizes a slice of the authority-score distribution.
type AuthorityBucket struct {
	Low     float64
	High    float64
	Count   int
	Example string
}

// AuthorityStats captures coarse percentiles/mean for authority scores.
type AuthorityStats struct {
	Mean float64
	P50  float64
	P75  float64
	P90  float64
	P95  float64
	P99  float64
	Max  float64
}

// Recency summarizes modification recency for a group of notes.
type Recency struct {
	LatestPath    string
	LatestAgeDays float64
	RecentCount   int
	WindowDays    int
}

// TagCount is a tag and its occurrence count within some node set.
type TagCount struct {
	Tag   string
	Count int
}

// Node carries the per-note output of Analyze: degree, HITS scores,
// component/community membership, and its outgoing neighbor set.
type Node struct {
	Path          string
	Inbound       int
	Outbound      int
	Hub           float64
	Authority     float64
	Community     string
	SCC           string
	WeakComponent string
	Neighbors     []string
	Tags          []string
}

// CommunitySummary describes one label-propagation community.
type CommunitySummary struct {
	ID               string
	Nodes            []string
	TopTags          []TagCount
	TopAuthority     []AuthorityScore
	AuthorityBuckets []AuthorityBucket
	AuthorityStats   *AuthorityStats
	Recency          *Recency
	Anchor           string
	Density          float64
	Bridges          []string
}

// AnalysisOptions narrows or reshapes the graph before analysis runs.
type AnalysisOptions struct {
	ExcludedPaths map[string]struct{}
	IncludedPaths map[string]struct{}
	MinDegree     int
	MutualOnly    bool
	// RecencyCascade lets inferred recency propagate beyond direct
	// neighbors (bounded to recencyPropagationPasses hops).
	RecencyCascade bool
}

// Analysis is the full result of Analyze: per-node HITS/community/component
// membership plus vault-level component and community summaries.
type Analysis struct {
	Nodes            map[string]Node
	Communities      []CommunitySummary
	StrongComponents [][]string
	WeakComponents   [][]string
	Orphans          []string
	NodeCount        int
	EdgeCount        int
}

const (
	communityRecencyWindowDays = 30
	recencyPropagationPasses   = 2
	neighborFreshWindow        = 180 * 24 * time.Hour
	neighborStalenessOffset    = 7 * 24 * time.Hour
	neighborSampleLimit        = 5
)

var frontmatterDateKeys = []string{"event_date", "meeting_date", "updated", "modified", "date", "created"}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// Analyze builds the resolved wikilink adjacency for idx, then runs HITS,
// label-propagation community detection, and strongly/weakly connected
// component analysis over it. Edges are whatever the resolver can resolve
// internally; unresolved and ambiguous links (see Build/Index) play no part
// in this analysis.
func Analyze(idx *index.VaultIndex, opts AnalysisOptions) *Analysis {
	resolver := linkresolve.New(idx)

	adjacency := make(map[string]map[string]struct{})
	tagsByPath := make(map[string][]string)
	timeByPath := make(map[string]time.Time)

	for _, pair := range idx.NotesIter() {
		src := pair.Path
		if _, skip := opts.ExcludedPaths[src]; skip {
			continue
		}
		if len(opts.IncludedPaths) > 0 {
			if _, ok := opts.IncludedPaths[src]; !ok {
				continue
			}
		}
		if _, ok := adjacency[src]; !ok {
			adjacency[src] = make(map[string]struct{})
		}
		tagsByPath[src] = pair.Note.Tags
		timeByPath[src] = contentTime(pair.Note, pair.Path, idx)
	}

	for _, pair := range idx.NotesIter() {
		src := pair.Path
		if _, ok := adjacency[src]; !ok {
			continue
		}
		for _, link := range pair.Note.LinkOccurrences {
			if link.Target.Kind != parse.TargetInternal {
				continue
			}
			res := resolver.ResolveTarget(link.Target, src)
			if res.Status != linkresolve.Resolved || res.Path == src {
				continue
			}
			if _, ok := adjacency[res.Path]; !ok {
				continue
			}
			adjacency[src][res.Path] = struct{}{}
		}
	}

	if opts.MutualOnly {
		adjacency = filterMutualEdges(adjacency)
	}
	if opts.MinDegree > 0 {
		adjacency = filterByMinDegree(adjacency, opts.MinDegree)
	}

	nodeStats := make(map[string]struct{ in, out int }, len(adjacency))
	for n := range adjacency {
		nodeStats[n] = struct{ in, out int }{}
	}
	edgeCount := 0
	for src, targets := range adjacency {
		s := nodeStats[src]
		s.out = len(targets)
		nodeStats[src] = s
		edgeCount += len(targets)
		for dst := range targets {
			d := nodeStats[dst]
			d.in++
			nodeStats[dst] = d
		}
	}

	sccs := stronglyConnectedComponents(adjacency)
	sccID := assignIDs(sccs, "scc")
	weak := weakComponents(adjacency)
	weakID := assignIDs(weak, "comp")
	labels := labelPropagation(adjacency)
	hits := computeHITS(adjacency)

	nodes := make(map[string]Node, len(adjacency))
	for path, st := range nodeStats {
		nodes[path] = Node{
			Path:          path,
			Inbound:       st.in,
			Outbound:      st.out,
			Hub:           hits.Hubs[path],
			Authority:     hits.Authorities[path],
			Community:     labels[path],
			SCC:           sccID[path],
			WeakComponent: weakID[path],
			Neighbors:     sortedKeys(adjacency[path]),
			Tags:          tagsByPath[path],
		}
	}

	effectiveTimes := applyNeighborRecency(adjacency, timeByPath, time.Now(), opts.RecencyCascade)
	communities := summarizeCommunities(labels, nodes, tagsByPath, effectiveTimes)
	bridges := computeBridges(adjacency, nodes, communities)
	attachBridges(communities, bridges)

	return &Analysis{
		Nodes:            nodes,
		Communities:      communities,
		StrongComponents: sccs,
		WeakComponents:   weak,
		Orphans:          orphans(nodeStats),
		NodeCount:        len(adjacency),
		EdgeCount:        edgeCount,
	}
}

func orphans(stats map[string]struct{ in, out int }) []string {
	var out []string
	for path, s := range stats {
		if s.in == 0 && s.out == 0 {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

// contentTime resolves a note's effective timestamp: frontmatter date-ish
// fields win, falling back to the file's modification time.
func contentTime(note index.NoteMeta, path string, idx *index.VaultIndex) time.Time {
	if note.Fields != nil {
		for _, key := range frontmatterDateKeys {
			if v, ok := note.Fields.Get(key); ok {
				if t, ok := parseFieldTime(v); ok {
					return t
				}
			}
		}
	}
	if f, ok := idx.File(path); ok {
		return f.MTime
	}
	return time.Time{}
}

func parseFieldTime(v parse.FieldValue) (time.Time, bool) {
	if v.Kind != parse.FieldString {
		return time.Time{}, false
	}
	s := strings.TrimSpace(v.Str)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func stronglyConnectedComponents(adjacency map[string]map[string]struct{}) [][]string {
	idx := 0
	indexMap := make(map[string]int)
	lowlink := make(map[string]int)
	onStack := make(map[string]bool)
	var stack []string
	var components [][]string

	var visit func(v string)
	visit = func(v string) {
		indexMap[v] = idx
		lowlink[v] = idx
		idx++
		stack = append(stack, v)
		onStack[v] = true

		for w := range adjacency[v] {
			if _, seen := indexMap[w]; !seen {
				visit(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] && indexMap[w] < lowlink[v] {
				lowlink[v] = indexMap[w]
			}
		}

		if lowlink[v] == indexMap[v] {
			var component []string
			for {
				n := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[n] = false
				component = append(component, n)
				if n == v {
					break
				}
			}
			sort.Strings(component)
			components = append(components, component)
		}
	}

	var nodes []string
	for node := range adjacency {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	for _, node := range nodes {
		if _, visited := indexMap[node]; !visited {
			visit(node)
		}
	}

	sort.Slice(components, func(i, j int) bool {
		if len(components[i]) == len(components[j]) {
			return components[i][0] < components[j][0]
		}
		return len(components[i]) > len(components[j])
	})
	return components
}

func weakComponents(adjacency map[string]map[string]struct{}) [][]string {
	visited := make(map[string]bool)
	var comps [][]string

	for node := range adjacency {
		if visited[node] {
			continue
		}
		queue := []string{node}
		visited[node] = true
		var comp []string
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			comp = append(comp, cur)

			for neigh := range adjacency[cur] {
				if !visited[neigh] {
					visited[neigh] = true
					queue = append(queue, neigh)
				}
			}
			for neigh, targets := range adjacency {
				if _, ok := targets[cur]; ok && !visited[neigh] {
					visited[neigh] = true
					queue = append(queue, neigh)
				}
			}
		}
		sort.Strings(comp)
		comps = append(comps, comp)
	}

	sort.Slice(comps, func(i, j int) bool {
		if len(comps[i]) == len(comps[j]) {
			return comps[i][0] < comps[j][0]
		}
		return len(comps[i]) > len(comps[j])
	})
	return comps
}

func assignIDs(components [][]string, prefix string) map[string]string {
	ids := make(map[string]string)
	for i, comp := range components {
		id := prefix + strconv.Itoa(i)
		for _, node := range comp {
			ids[node] = id
		}
	}
	return ids
}

// labelPropagation runs synchronous label propagation on an undirected view
// of adjacency to find loosely connected communities.
func labelPropagation(adjacency map[string]map[string]struct{}) map[string]string {
	neighbors := make(map[string]map[string]struct{}, len(adjacency))
	for src, targets := range adjacency {
		if _, ok := neighbors[src]; !ok {
			neighbors[src] = make(map[string]struct{})
		}
		for dst := range targets {
			if src == dst {
				continue
			}
			neighbors[src][dst] = struct{}{}
			if _, ok := neighbors[dst]; !ok {
				neighbors[dst] = make(map[string]struct{})
			}
			neighbors[dst][src] = struct{}{}
		}
	}
	for node := range adjacency {
		if _, ok := neighbors[node]; !ok {
			neighbors[node] = make(map[string]struct{})
		}
	}

	labels := make(map[string]string, len(neighbors))
	for node := range neighbors {
		labels[node] = node
	}

	var nodes []string
	for node := range neighbors {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	const maxIter = 20
	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for _, node := range nodes {
			counts := make(map[string]int)
			for neigh := range neighbors[node] {
				counts[labels[neigh]]++
			}
			if len(counts) == 0 {
				continue
			}
			var bestLabel string
			bestCount := -1
			for label, count := range counts {
				if count > bestCount || (count == bestCount && label < bestLabel) {
					bestLabel = label
					bestCount = count
				}
			}
			if bestLabel != "" && bestLabel != labels[node] {
				labels[node] = bestLabel
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return labels
}

// hitsResult holds the hub/authority scores from one computeHITS run.
type hitsResult struct {
	Hubs        map[string]float64
	Authorities map[string]float64
}

// computeHITS runs Kleinberg's HITS algorithm: hub measures how well a note
// curates links to good authorities, authority measures how often a note is
// referenced by good hubs.
func computeHITS(adjacency map[string]map[string]struct{}) hitsResult {
	const iterations = 30

	if len(adjacency) == 0 {
		return hitsResult{Hubs: map[string]float64{}, Authorities: map[string]float64{}}
	}

	reverse := make(map[string]map[string]struct{}, len(adjacency))
	for node := range adjacency {
		reverse[node] = make(map[string]struct{})
	}
	for src, targets := range adjacency {
		for dst := range targets {
			if _, ok := reverse[dst]; !ok {
				reverse[dst] = make(map[string]struct{})
			}
			reverse[dst][src] = struct{}{}
		}
	}

	hub := make(map[string]float64, len(adjacency))
	auth := make(map[string]float64, len(adjacency))
	for node := range adjacency {
		hub[node] = 1.0
		auth[node] = 1.0
	}

	for i := 0; i < iterations; i++ {
		newAuth := make(map[string]float64, len(adjacency))
		for node := range adjacency {
			sum := 0.0
			for src := range reverse[node] {
				sum += hub[src]
			}
			newAuth[node] = sum
		}

		newHub := make(map[string]float64, len(adjacency))
		for node, targets := range adjacency {
			sum := 0.0
			for dst := range targets {
				sum += newAuth[dst]
			}
			newHub[node] = sum
		}

		authNorm, hubNorm := 0.0, 0.0
		for node := range adjacency {
			authNorm += newAuth[node] * newAuth[node]
			hubNorm += newHub[node] * newHub[node]
		}
		authNorm = math.Sqrt(authNorm)
		hubNorm = math.Sqrt(hubNorm)

		if authNorm > 0 {
			for node := range adjacency {
				newAuth[node] /= authNorm
			}
		}
		if hubNorm > 0 {
			for node := range adjacency {
				newHub[node] /= hubNorm
			}
		}
		auth, hub = newAuth, newHub
	}

	return hitsResult{Hubs: hub, Authorities: auth}
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func filterMutualEdges(adjacency map[string]map[string]struct{}) map[string]map[string]struct{} {
	mutual := make(map[string]map[string]struct{}, len(adjacency))
	for src := range adjacency {
		mutual[src] = make(map[string]struct{})
	}
	for src, targets := range adjacency {
		for dst := range targets {
			if _, ok := adjacency[dst][src]; ok {
				mutual[src][dst] = struct{}{}
			}
		}
	}
	return mutual
}

func filterByMinDegree(adjacency map[string]map[string]struct{}, min int) map[string]map[string]struct{} {
	adj := adjacency
	for {
		inDeg := make(map[string]int)
		for _, targets := range adj {
			for dst := range targets {
				inDeg[dst]++
			}
		}

		var toRemove []string
		for node, targets := range adj {
			if len(targets)+inDeg[node] < min {
				toRemove = append(toRemove, node)
			}
		}
		if len(toRemove) == 0 {
			break
		}
		for _, n := range toRemove {
			delete(adj, n)
		}
		for _, targets := range adj {
			for dst := range targets {
				if _, ok := adj[dst]; !ok {
					delete(targets, dst)
				}
			}
		}
	}
	return adj
}

func applyNeighborRecency(adjacency map[string]map[string]struct{}, baseTimes map[string]time.Time, now time.Time, cascade bool) map[string]time.Time {
	inbound := make(map[string][]string)
	for src, targets := range adjacency {
		for dst := range targets {
			inbound[dst] = append(inbound[dst], src)
		}
	}

	var nodes []string
	for node := range adjacency {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	clampedBase := make(map[string]time.Time, len(baseTimes))
	for path, ts := range baseTimes {
		if ts.IsZero() {
			continue
		}
		if ts.After(now) {
			ts = now
		}
		clampedBase[path] = ts
	}

	if !cascade {
		return recencyPass(nodes, adjacency, inbound, clampedBase, clampedBase)
	}

	current := make(map[string]time.Time, len(adjacency))
	for _, node := range nodes {
		if ts := clampedBase[node]; !ts.IsZero() {
			current[node] = ts
		}
	}
	for pass := 0; pass < recencyPropagationPasses; pass++ {
		current = recencyPass(nodes, adjacency, inbound, clampedBase, current)
	}
	return current
}

func recencyPass(nodes []string, adjacency map[string]map[string]struct{}, inbound map[string][]string, base map[string]time.Time, neighborTimes map[string]time.Time) map[string]time.Time {
	type neighborTime struct {
		path string
		ts   time.Time
	}

	now := time.Now()
	effective := make(map[string]time.Time, len(adjacency))

	workerCount := runtime.NumCPU()
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(nodes) {
		workerCount = len(nodes)
	}
	if workerCount == 0 {
		return effective
	}
	chunkSize := (len(nodes) + workerCount - 1) / workerCount
	partials := make([]map[string]time.Time, workerCount)

	var wg sync.WaitGroup
	for w := 0; w < workerCount; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > len(nodes) {
			end = len(nodes)
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(i int, slice []string) {
			defer wg.Done()
			local := make(map[string]time.Time, len(slice))
			for _, node := range slice {
				best := base[node]

				seen := make(map[string]struct{})
				var neighbors []neighborTime
				for dst := range adjacency[node] {
					if ts := neighborTimes[dst]; !ts.IsZero() {
						if _, dup := seen[dst]; !dup {
							seen[dst] = struct{}{}
							neighbors = append(neighbors, neighborTime{path: dst, ts: ts})
						}
					}
				}
				for _, src := range inbound[node] {
					if ts := neighborTimes[src]; !ts.IsZero() {
						if _, dup := seen[src]; !dup {
							seen[src] = struct{}{}
							neighbors = append(neighbors, neighborTime{path: src, ts: ts})
						}
					}
				}

				sort.Slice(neighbors, func(a, b int) bool { return neighbors[a].ts.After(neighbors[b].ts) })
				if len(neighbors) > neighborSampleLimit {
					neighbors = neighbors[:neighborSampleLimit]
				}

				for _, n := range neighbors {
					age := now.Sub(n.ts)
					if age > neighborFreshWindow {
						continue
					}
					adjusted := n.ts.Add(-neighborStalenessOffset)
					if best.IsZero() || adjusted.After(best) {
						best = adjusted
					}
				}
				if !best.IsZero() {
					local[node] = best
				}
			}
			partials[i] = local
		}(w, nodes[start:end])
	}
	wg.Wait()

	for _, part := range partials {
		for k, v := range part {
			effective[k] = v
		}
	}
	return effective
}

func summarizeCommunities(labels map[string]string, nodes map[string]Node, tags map[string][]string, modTimes map[string]time.Time) []CommunitySummary {
	grouped := make(map[string][]string)
	for node, label := range labels {
		grouped[label] = append(grouped[label], node)
	}

	var summaries []CommunitySummary
	for id, members := range grouped {
		sort.Strings(members)
		anchor := anchorForCommunity(members, nodes)
		buckets, stats := authorityBuckets(members, nodes)
		summaries = append(summaries, CommunitySummary{
			ID:               communityID(id, anchor, members),
			Nodes:            members,
			TopAuthority:     topAuthorityNodes(members, nodes, 5),
			AuthorityBuckets: buckets,
			AuthorityStats:   stats,
			Recency:          communityRecency(members, modTimes, communityRecencyWindowDays),
			TopTags:          topTagsForCommunity(members, tags, 5),
			Anchor:           anchor,
			Density:          density(members, nodes),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		ri, rj := summaries[i].Recency, summaries[j].Recency
		if ri != nil && rj != nil && ri.LatestAgeDays != rj.LatestAgeDays {
			return ri.LatestAgeDays < rj.LatestAgeDays
		}
		if ri != nil && rj == nil {
			return true
		}
		if ri == nil && rj != nil {
			return false
		}
		if len(summaries[i].Nodes) == len(summaries[j].Nodes) {
			return summaries[i].ID < summaries[j].ID
		}
		return len(summaries[i].Nodes) > len(summaries[j].Nodes)
	})
	return summaries
}

func topAuthorityNodes(members []string, nodes map[string]Node, limit int) []AuthorityScore {
	type pr struct {
		path           string
		authority, hub float64
	}
	var list []pr
	for _, m := range members {
		list = append(list, pr{path: m, authority: nodes[m].Authority, hub: nodes[m].Hub})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].authority == list[j].authority {
			return list[i].path < list[j].path
		}
		return list[i].authority > list[j].authority
	})
	if len(list) > limit {
		list = list[:limit]
	}
	out := make([]AuthorityScore, len(list))
	for i, item := range list {
		out[i] = AuthorityScore{Path: item.path, Authority: item.authority, Hub: item.hub}
	}
	return out
}

func authorityBuckets(members []string, nodes map[string]Node) ([]AuthorityBucket, *AuthorityStats) {
	if len(members) == 0 {
		return nil, nil
	}
	type pr struct {
		path string
		val  float64
	}
	values := make([]pr, 0, len(members))
	for _, m := range members {
		values = append(values, pr{path: m, val: nodes[m].Authority})
	}
	sort.Slice(values, func(i, j int) bool { return values[i].val > values[j].val })

	bucketCount := bucketCountFor(len(values))
	buckets := make([]AuthorityBucket, 0, bucketCount)
	size := int(math.Ceil(float64(len(values)) / float64(bucketCount)))
	for i := 0; i < len(values); i += size {
		end := i + size
		if end > len(values) {
			end = len(values)
		}
		segment := values[i:end]
		buckets = append(buckets, AuthorityBucket{
			Low:     segment[len(segment)-1].val,
			High:    segment[0].val,
			Count:   len(segment),
			Example: segment[0].path,
		})
	}

	vals := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		vals[i] = v.val
		sum += v.val
	}
	mean := sum / float64(len(vals))
	sort.Float64s(vals)
	p := func(q float64) float64 {
		if len(vals) == 1 {
			return vals[0]
		}
		i := int(math.Ceil(q*float64(len(vals)))) - 1
		if i < 0 {
			i = 0
		}
		if i >= len(vals) {
			i = len(vals) - 1
		}
		return vals[i]
	}
	stats := &AuthorityStats{
		Mean: mean,
		P50:  p(0.50),
		P75:  p(0.75),
		P90:  p(0.90),
		P95:  p(0.95),
		P99:  p(0.99),
		Max:  vals[len(vals)-1],
	}
	return buckets, stats
}

func bucketCountFor(size int) int {
	if size <= 0 {
		return 0
	}
	c := int(math.Ceil(math.Sqrt(float64(size))))
	if c < 5 {
		c = 5
	}
	if c > 10 {
		c = 10
	}
	return c
}

func communityRecency(members []string, modTimes map[string]time.Time, windowDays int) *Recency {
	if len(members) == 0 || windowDays <= 0 {
		return nil
	}
	var latestPath string
	var latestTime time.Time
	recentCount := 0
	window := time.Duration(windowDays) * 24 * time.Hour
	now := time.Now()

	for _, m := range members {
		mt, ok := modTimes[m]
		if !ok || mt.IsZero() {
			continue
		}
		if latestTime.IsZero() || mt.After(latestTime) {
			latestTime, latestPath = mt, m
		}
		if now.Sub(mt) <= window {
			recentCount++
		}
	}
	if latestTime.IsZero() && recentCount == 0 {
		return nil
	}
	age := 0.0
	if !latestTime.IsZero() {
		age = now.Sub(latestTime).Hours() / 24.0
		if age < 0 {
			age = 0
		}
	}
	return &Recency{LatestPath: latestPath, LatestAgeDays: age, RecentCount: recentCount, WindowDays: windowDays}
}

func anchorForCommunity(members []string, nodes map[string]Node) string {
	if len(members) == 0 {
		return ""
	}
	type pr struct {
		path string
		val  float64
	}
	var list []pr
	for _, m := range members {
		list = append(list, pr{path: m, val: nodes[m].Authority})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].val == list[j].val {
			return list[i].path < list[j].path
		}
		return list[i].val > list[j].val
	})
	return list[0].path
}

func density(members []string, nodes map[string]Node) float64 {
	if len(members) < 2 {
		return 0
	}
	var totalDegree int
	for _, m := range members {
		totalDegree += nodes[m].Inbound + nodes[m].Outbound
	}
	n := float64(len(members))
	return (float64(totalDegree) / n) / (n - 1)
}

func communityID(label, anchor string, members []string) string {
	h := sha1.New()
	io.WriteString(h, label)
	io.WriteString(h, "|")
	io.WriteString(h, anchor)
	io.WriteString(h, "|")
	for _, m := range members {
		io.WriteString(h, m)
		io.WriteString(h, ";")
	}
	sum := hex.EncodeToString(h.Sum(nil))
	if len(sum) > 8 {
		sum = sum[:8]
	}
	return "c" + sum
}

func topTagsForCommunity(members []string, tags map[string][]string, limit int) []TagCount {
	counts := make(map[string]int)
	for _, m := range members {
		for _, t := range tags[m] {
			counts[strings.ToLower(t)]++
		}
	}
	type kv struct {
		tag   string
		count int
	}
	var list []kv
	for tag, count := range counts {
		list = append(list, kv{tag: tag, count: count})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].count == list[j].count {
			return list[i].tag < list[j].tag
		}
		return list[i].count > list[j].count
	})
	if len(list) > limit {
		list = list[:limit]
	}
	out := make([]TagCount, len(list))
	for i, item := range list {
		out[i] = TagCount{Tag: item.tag, Count: item.count}
	}
	return out
}

func computeBridges(adjacency map[string]map[string]struct{}, nodes map[string]Node, comms []CommunitySummary) map[string][]string {
	communityByNode := make(map[string]string)
	for _, c := range comms {
		for _, n := range c.Nodes {
			communityByNode[n] = c.ID
		}
	}

	bridgeCount := make(map[string]int)
	for src, targets := range adjacency {
		for dst := range targets {
			if communityByNode[src] != "" && communityByNode[src] != communityByNode[dst] {
				bridgeCount[src]++
				bridgeCount[dst]++
			}
		}
	}

	result := make(map[string][]string)
	for _, c := range comms {
		var candidates []string
		for _, n := range c.Nodes {
			if bridgeCount[n] > 0 {
				candidates = append(candidates, n)
			}
		}
		sort.Slice(candidates, func(i, j int) bool {
			if bridgeCount[candidates[i]] == bridgeCount[candidates[j]] {
				return nodes[candidates[i]].Authority > nodes[candidates[j]].Authority
			}
			return bridgeCount[candidates[i]] > bridgeCount[candidates[j]]
		})
		if len(candidates) > 5 {
			candidates = candidates[:5]
		}
		result[c.ID] = candidates
	}
	return result
}

func attachBridges(comms []CommunitySummary, bridges map[string][]string) {
	for i := range comms {
		if bs, ok := bridges[comms[i].ID]; ok {
			comms[i].Bridges = bs
		}
	}
}

// CommunityMembershipLookup returns a map from note path to its community summary for quick lookups.
func CommunityMembershipLookup(communities []CommunitySummary) map[string]*CommunitySummary {
	lookup := make(map[string]*CommunitySummary)
	for i := range communities {
		comm := &communities[i]
		for _, node := range comm.Nodes {
			lookup[node] = comm
		}
	}
	return lookup
}

// CommunityInternalEdges counts directed edges whose endpoints both live in the community.
func CommunityInternalEdges(comm *CommunitySummary, nodes map[string]Node) int {
	if comm == nil {
		return 0
	}
	memberSet := make(map[string]struct{}, len(comm.Nodes))
	for _, n := range comm.Nodes {
		memberSet[n] = struct{}{}
	}

	edgeCount := 0
	for _, n := range comm.Nodes {
		node := nodes[n]
		for _, neigh := range node.Neighbors {
			if _, ok := memberSet[neigh]; ok {
				edgeCount++
			}
		}
	}
	return edgeCount
}
