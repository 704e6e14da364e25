// Package linkhealth walks every internal link occurrence in a vault and
// reports which ones fail to resolve, point at an ambiguous target, or
// name a heading/block that doesn't exist in the target note.
package linkhealth

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/atomicobject/vaultdex/internal/index"
	"github.com/atomicobject/vaultdex/internal/linkresolve"
	"github.com/atomicobject/vaultdex/internal/parse"
	"github.com/atomicobject/vaultdex/internal/vaultpath"
)

// IssueReason discriminates why a link occurrence was flagged.
type IssueReason int

const (
	MissingTarget IssueReason = iota
	AmbiguousTarget
	MissingHeading
	MissingBlock
)

// Issue is one broken link occurrence.
type Issue struct {
	Source     string
	Link       parse.Link
	Reason     IssueReason
	Candidates []string // AmbiguousTarget
	Heading    string   // MissingHeading
	Block      string   // MissingBlock
}

// Report summarizes every internal link occurrence in the vault.
type Report struct {
	TotalInternalOccurrences int
	OK                       int
	Broken                   []Issue
}

type targetCache struct {
	headings     map[string]struct{}
	headingSlugs map[string]struct{}
	blocks       map[string]struct{}
}

// Build walks every note's link occurrences and validates each internal
// reference against the resolver, then validates any heading/block
// subpath against the resolved target's own content.
func Build(v *vaultpath.Vault, idx *index.VaultIndex) (Report, error) {
	resolver := linkresolve.New(idx)
	cache := make(map[string]targetCache)

	var report Report

	for _, pair := range idx.NotesIter() {
		sourcePath := pair.Path
		for _, link := range pair.Note.LinkOccurrences {
			if link.Target.Kind != parse.TargetInternal {
				continue
			}
			report.TotalInternalOccurrences++

			res := resolver.Resolve(link.Target.Reference, sourcePath)
			switch res.Status {
			case linkresolve.Missing:
				report.Broken = append(report.Broken, Issue{Source: sourcePath, Link: link, Reason: MissingTarget})
				continue
			case linkresolve.Ambiguous:
				report.Broken = append(report.Broken, Issue{Source: sourcePath, Link: link, Reason: AmbiguousTarget, Candidates: res.Candidates})
				continue
			}

			if link.Subpath.Kind != parse.SubpathNone {
				check, heading, block, err := validateSubpath(v, idx, cache, res.Path, link.Subpath)
				if err != nil {
					return Report{}, err
				}
				switch check {
				case subpathMissingHeading:
					report.Broken = append(report.Broken, Issue{Source: sourcePath, Link: link, Reason: MissingHeading, Heading: heading})
					continue
				case subpathMissingBlock:
					report.Broken = append(report.Broken, Issue{Source: sourcePath, Link: link, Reason: MissingBlock, Block: block})
					continue
				}
			}

			report.OK++
		}
	}

	return report, nil
}

type subpathCheck int

const (
	subpathOK subpathCheck = iota
	subpathMissingHeading
	subpathMissingBlock
)

func validateSubpath(v *vaultpath.Vault, idx *index.VaultIndex, cache map[string]targetCache, target string, subpath parse.Subpath) (subpathCheck, string, string, error) {
	file, ok := idx.File(target)
	if !ok {
		return subpathOK, "", "", nil
	}
	if file.Kind != index.FileMarkdown && file.Kind != index.FileCanvas {
		return subpathOK, "", "", nil
	}

	t, ok := cache[target]
	if !ok {
		rel, err := vaultpath.New(target)
		if err != nil {
			return subpathOK, "", "", err
		}
		abs := v.ToAbs(rel)
		content, err := os.ReadFile(abs)
		if err != nil {
			return subpathOK, "", "", fmt.Errorf("read %s: %w", abs, err)
		}
		headings, headingSlugs, blocks := indexTargets(string(content))
		t = targetCache{headings: headings, headingSlugs: headingSlugs, blocks: blocks}
		cache[target] = t
	}

	switch subpath.Kind {
	case parse.SubpathHeading:
		want := strings.TrimSpace(subpath.Value)
		if want == "" {
			return subpathOK, "", "", nil
		}
		wantLower := strings.ToLower(want)
		if _, ok := t.headings[wantLower]; ok {
			return subpathOK, "", "", nil
		}
		if _, ok := t.headingSlugs[slugify(want)]; ok {
			return subpathOK, "", "", nil
		}
		return subpathMissingHeading, want, "", nil
	case parse.SubpathBlock:
		want := strings.TrimSpace(subpath.Value)
		if want == "" {
			return subpathOK, "", "", nil
		}
		if _, ok := t.blocks[want]; ok {
			return subpathOK, "", "", nil
		}
		return subpathMissingBlock, "", want, nil
	default:
		return subpathOK, "", "", nil
	}
}

func indexTargets(text string) (headings, headingSlugs, blocks map[string]struct{}) {
	headings = make(map[string]struct{})
	headingSlugs = make(map[string]struct{})
	blocks = make(map[string]struct{})

	inFenced := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "```") {
			inFenced = !inFenced
			continue
		}
		if inFenced {
			continue
		}

		if h, ok := parseHeading(trimmed); ok {
			hl := strings.ToLower(h)
			headings[hl] = struct{}{}
			headingSlugs[slugify(hl)] = struct{}{}
		}
		if b, ok := parseBlockID(trimmed); ok {
			blocks[b] = struct{}{}
		}
	}
	return headings, headingSlugs, blocks
}

func parseHeading(line string) (string, bool) {
	i := 0
	for i < len(line) && line[i] == '#' {
		i++
	}
	if i == 0 || i > 6 {
		return "", false
	}
	if i >= len(line) || line[i] != ' ' {
		return "", false
	}
	title := strings.TrimSpace(line[i+1:])
	if title == "" {
		return "", false
	}
	return title, true
}

func parseBlockID(line string) (string, bool) {
	idx := strings.LastIndexByte(line, '^')
	if idx < 0 || idx+1 >= len(line) {
		return "", false
	}
	if idx > 0 {
		prev := rune(line[idx-1])
		if prev != ' ' && prev != '\t' {
			return "", false
		}
	}
	rest := line[idx+1:]
	end := 0
	for end < len(rest) {
		c := rest[end]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return "", false
	}
	return rest[:end], true
}

func slugify(s string) string {
	var out strings.Builder
	lastDash := false
	for _, c := range s {
		lc := toLowerRune(c)
		switch {
		case lc >= 'a' && lc <= 'z' || lc >= '0' && lc <= '9':
			out.WriteRune(lc)
			lastDash = false
		case (isSpace(lc) || lc == '-' || lc == '_' || lc == '/') && out.Len() > 0 && !lastDash:
			out.WriteByte('-')
			lastDash = true
		}
	}
	res := strings.TrimRight(out.String(), "-")
	return res
}

func toLowerRune(c rune) rune {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// SortIssues orders issues by (source, line, column) for deterministic
// reporting.
func SortIssues(issues []Issue) {
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Source != issues[j].Source {
			return issues[i].Source < issues[j].Source
		}
		return issues[i].Link.Location.Less(issues[j].Link.Location)
	})
}
