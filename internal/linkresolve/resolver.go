// Package linkresolve turns the raw reference text inside a link into a
// concrete vault path, using the same precedence chain Obsidian itself
// applies: exact relative path, case-insensitive relative path, filename,
// stem, alias, with source-directory preference used to break ties.
package linkresolve

import (
	"sort"
	"strings"

	"github.com/atomicobject/vaultdex/internal/index"
	"github.com/atomicobject/vaultdex/internal/parse"
)

// Result is the outcome of resolving a link reference.
type Result struct {
	Status     Status
	Path       string   // Resolved
	Candidates []string // Ambiguous, sorted
}

type Status int

const (
	Missing Status = iota
	Resolved
	Ambiguous
)

// Resolver is a snapshot of a VaultIndex's paths, bucketed for fast lookup
// by relative path, filename, stem, and alias. Build once per index
// snapshot; stale once the index changes underneath it.
type Resolver struct {
	byRel       map[string]string
	byRelLower  map[string]string
	byFilename  map[string][]string
	byFileLower map[string][]string
	byStem      map[string][]string
	byStemLower map[string][]string
	byAlias     map[string][]string
	noteExts    []string
}

// New builds a Resolver from a snapshot of idx.
func New(idx *index.VaultIndex) *Resolver {
	r := &Resolver{
		byRel:       make(map[string]string),
		byRelLower:  make(map[string]string),
		byFilename:  make(map[string][]string),
		byFileLower: make(map[string][]string),
		byStem:      make(map[string][]string),
		byStemLower: make(map[string][]string),
		byAlias:     make(map[string][]string),
	}

	extSet := make(map[string]struct{})
	for _, f := range idx.AllFiles() {
		r.byRel[f.Path] = f.Path
		r.byRelLower[strings.ToLower(f.Path)] = f.Path

		name := baseName(f.Path)
		r.byFilename[name] = append(r.byFilename[name], f.Path)
		lname := strings.ToLower(name)
		r.byFileLower[lname] = append(r.byFileLower[lname], f.Path)

		if f.Kind == index.FileMarkdown || f.Kind == index.FileCanvas {
			stem := stemOf(name)
			if stem != "" {
				r.byStem[stem] = append(r.byStem[stem], f.Path)
				r.byStemLower[strings.ToLower(stem)] = append(r.byStemLower[strings.ToLower(stem)], f.Path)
			}
			if ext := extOf(name); ext != "" {
				extSet[strings.ToLower(ext)] = struct{}{}
			}
		}
	}
	for ext := range extSet {
		r.noteExts = append(r.noteExts, ext)
	}
	sort.Strings(r.noteExts)

	for _, pair := range idx.NotesIter() {
		for _, a := range pair.Note.Aliases {
			key := strings.ToLower(a)
			r.byAlias[key] = append(r.byAlias[key], pair.Path)
		}
	}

	return r
}

// ResolveTarget resolves a LinkTarget; only TargetInternal references are
// resolvable, every other kind reports Missing.
func (r *Resolver) ResolveTarget(target parse.LinkTarget, source string) Result {
	if target.Kind != parse.TargetInternal {
		return Result{Status: Missing}
	}
	return r.Resolve(target.Reference, source)
}

// Resolve resolves a raw reference string relative to source, the path of
// the note containing the link (used to break ties between same-named
// candidates in different directories).
func (r *Resolver) Resolve(reference, source string) Result {
	decoded := percentDecode(reference)
	ref := strings.TrimSpace(decoded)
	if ref == "" {
		return Result{Status: Missing}
	}

	if strings.Contains(ref, "/") {
		if p, ok := r.byRel[ref]; ok {
			return resolved(p)
		}
		if p, ok := r.byRelLower[strings.ToLower(ref)]; ok {
			return resolved(p)
		}
		if !hasExtension(ref) {
			var candidates []string
			for _, ext := range r.noteExts {
				cand := ref + "." + ext
				if p, ok := r.byRel[cand]; ok {
					candidates = append(candidates, p)
				} else if p, ok := r.byRelLower[strings.ToLower(cand)]; ok {
					candidates = append(candidates, p)
				}
			}
			return pick(candidates)
		}
		return Result{Status: Missing}
	}

	if hasExtension(ref) {
		if v, ok := r.byFilename[ref]; ok {
			return pickPreferSource(v, source)
		}
		if v, ok := r.byFileLower[strings.ToLower(ref)]; ok {
			return pickPreferSource(v, source)
		}
		return Result{Status: Missing}
	}

	var candidates []string
	candidates = append(candidates, r.byStem[ref]...)
	candidates = append(candidates, r.byStemLower[strings.ToLower(ref)]...)
	candidates = append(candidates, r.byAlias[strings.ToLower(ref)]...)
	if len(candidates) > 0 {
		return pickPreferSource(candidates, source)
	}

	if p, ok := r.byRel[ref]; ok {
		return resolved(p)
	}
	if p, ok := r.byRelLower[strings.ToLower(ref)]; ok {
		return resolved(p)
	}

	return Result{Status: Missing}
}

func resolved(path string) Result {
	return Result{Status: Resolved, Path: path}
}

func pick(candidates []string) Result {
	candidates = dedupSorted(candidates)
	switch len(candidates) {
	case 0:
		return Result{Status: Missing}
	case 1:
		return resolved(candidates[0])
	default:
		return Result{Status: Ambiguous, Candidates: candidates}
	}
}

func pickPreferSource(candidates []string, source string) Result {
	candidates = dedupSorted(candidates)
	if len(candidates) <= 1 {
		return pick(candidates)
	}

	srcDir := dirOf(source)
	var sameDir []string
	for _, c := range candidates {
		if dirOf(c) == srcDir {
			sameDir = append(sameDir, c)
		}
	}
	if len(sameDir) > 0 {
		return pickShortestOrAmbiguous(sameDir)
	}
	return pickShortestOrAmbiguous(candidates)
}

func pickShortestOrAmbiguous(candidates []string) Result {
	candidates = dedupSorted(candidates)
	if len(candidates) == 0 {
		return Result{Status: Missing}
	}
	if len(candidates) == 1 {
		return resolved(candidates[0])
	}

	bestLen := -1
	var best []string
	for _, c := range candidates {
		l := len(c)
		switch {
		case bestLen == -1 || l < bestLen:
			bestLen = l
			best = []string{c}
		case l == bestLen:
			best = append(best, c)
		}
	}

	if len(best) == 1 {
		return resolved(best[0])
	}
	return Result{Status: Ambiguous, Candidates: best}
}

func dedupSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func hasExtension(path string) bool {
	i := strings.LastIndexByte(path, '.')
	return i >= 0 && i < len(path)-1
}

func baseName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

func dirOf(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return ""
}

func extOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[i+1:]
	}
	return ""
}

func stemOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}

func percentDecode(s string) string {
	if !strings.ContainsAny(s, "%\\") {
		return s
	}
	b := []byte(s)
	out := make([]byte, 0, len(b))
	i := 0
	for i < len(b) {
		if b[i] == '%' && i+2 < len(b) {
			if hi, ok := fromHex(b[i+1]); ok {
				if lo, ok2 := fromHex(b[i+2]); ok2 {
					out = append(out, hi<<4|lo)
					i += 3
					continue
				}
			}
		}
		if b[i] == '\\' {
			out = append(out, '/')
		} else {
			out = append(out, b[i])
		}
		i++
	}
	return string(out)
}

func fromHex(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return 10 + (b - 'a'), true
	case b >= 'A' && b <= 'F':
		return 10 + (b - 'A'), true
	default:
		return 0, false
	}
}
