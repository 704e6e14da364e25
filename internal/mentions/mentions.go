// Package mentions scans every other note's body text for plain-text
// occurrences of a target note's stem, title, or aliases that were never
// turned into a link.
package mentions

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/atomicobject/vaultdex/internal/index"
	"github.com/atomicobject/vaultdex/internal/vaultpath"
)

// Mention is one unlinked textual reference to a note.
type Mention struct {
	Source   string
	Target   string
	Line     uint32
	Term     string
	LineText string
}

// Find scans every note other than target for unlinked mentions of its
// stem, title, and aliases, stopping once limit results are collected. A
// limit of 0 means no results; target not being an indexed note also
// yields no results.
func Find(v *vaultpath.Vault, idx *index.VaultIndex, target string, limit int) ([]Mention, error) {
	note, ok := idx.Note(target)
	if !ok || limit == 0 {
		return nil, nil
	}

	rel, err := vaultpath.New(target)
	if err != nil {
		return nil, err
	}
	terms := mentionTerms(rel, note)
	if len(terms) == 0 {
		return nil, nil
	}

	var out []Mention
	for _, path := range idx.NotesIterPaths() {
		if path == target {
			continue
		}
		sourceRel, err := vaultpath.New(path)
		if err != nil {
			continue
		}
		abs := v.ToAbs(sourceRel)
		content, err := os.ReadFile(abs)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", abs, err)
		}
		for _, m := range scanMentionsInText(path, target, terms, string(content)) {
			out = append(out, m)
			if len(out) >= limit {
				return out, nil
			}
		}
	}
	return out, nil
}

func mentionTerms(target vaultpath.Path, note index.NoteMeta) []string {
	set := make(map[string]struct{})
	if stem := strings.TrimSpace(target.Stem()); stem != "" {
		set[strings.ToLower(stem)] = struct{}{}
	}
	if title := strings.TrimSpace(note.Title); title != "" {
		set[strings.ToLower(title)] = struct{}{}
	}
	for _, a := range note.Aliases {
		if a = strings.TrimSpace(a); a != "" {
			set[strings.ToLower(a)] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func scanMentionsInText(source, target string, terms []string, text string) []Mention {
	var out []Mention
	body, bodyStartLine := splitFrontmatterText(text)

	inFenced := false
	lineNo := bodyStartLine
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "```") {
			inFenced = !inFenced
			lineNo++
			continue
		}
		if inFenced {
			lineNo++
			continue
		}

		cleaned := stripLinkSpans(line)
		hay := strings.ToLower(cleaned)

		for _, term := range terms {
			if term == "" {
				continue
			}
			if findWordish(hay, term) {
				out = append(out, Mention{Source: source, Target: target, Line: lineNo, Term: term, LineText: line})
			}
		}
		lineNo++
	}
	return out
}

// splitFrontmatterText returns the body (everything after a closed
// frontmatter fence, or the whole text if there is none) and the 1-based
// line number the body's first line carries in the original document.
func splitFrontmatterText(content string) (string, uint32) {
	var rest string
	switch {
	case strings.HasPrefix(content, "---\n"):
		rest = content[len("---\n"):]
	case strings.HasPrefix(content, "---\r\n"):
		rest = content[len("---\r\n"):]
	default:
		return content, 1
	}

	idx := 0
	for idx < len(rest) {
		lineEnd := len(rest)
		if off := strings.IndexByte(rest[idx:], '\n'); off >= 0 {
			lineEnd = idx + off + 1
		}
		line := strings.TrimRight(rest[idx:lineEnd], "\r\n")
		if line == "---" {
			body := rest[lineEnd:]
			consumed := content[:len(content)-len(body)]
			startLine := uint32(1 + strings.Count(consumed, "\n"))
			return body, startLine
		}
		idx = lineEnd
	}

	return content, 1
}

func stripLinkSpans(line string) string {
	var out strings.Builder
	b := []byte(line)
	i := 0
	for i < len(b) {
		if b[i] == '[' && i+1 < len(b) && b[i+1] == '[' {
			if end := findBytes(b, i+2, ']', ']'); end >= 0 {
				out.WriteByte(' ')
				i = end + 2
				continue
			}
		}
		if b[i] == '!' && i+2 < len(b) && b[i+1] == '[' && b[i+2] == '[' {
			if end := findBytes(b, i+3, ']', ']'); end >= 0 {
				out.WriteByte(' ')
				i = end + 2
				continue
			}
		}

		if b[i] == '[' || (b[i] == '!' && i+1 < len(b) && b[i+1] == '[') {
			start := i
			if b[i] == '!' {
				start = i + 1
			}
			if closeBr := strings.IndexByte(line[start+1:], ']'); closeBr >= 0 {
				j := start + 1 + closeBr
				if j+1 < len(b) && b[j+1] == '(' {
					if closeParen := strings.IndexByte(line[j+2:], ')'); closeParen >= 0 {
						out.WriteByte(' ')
						i = j + 2 + closeParen + 1
						continue
					}
				}
			}
		}

		if b[i] == '<' {
			if off := strings.IndexByte(line[i+1:], '>'); off >= 0 {
				out.WriteByte(' ')
				i = i + 1 + off + 1
				continue
			}
		}

		out.WriteByte(b[i])
		i++
	}
	return out.String()
}

func findBytes(b []byte, from int, a, c byte) int {
	i := from
	for i+1 < len(b) {
		if b[i] == a && b[i+1] == c {
			return i
		}
		i++
	}
	return -1
}

func findWordish(hay, needle string) bool {
	start := 0
	for {
		pos := strings.Index(hay[start:], needle)
		if pos < 0 {
			return false
		}
		i := start + pos
		j := i + len(needle)
		if hasWordBoundary(hay, i, j, needle) {
			return true
		}
		start = i + 1
	}
}

func hasWordBoundary(hay string, i, j int, needle string) bool {
	first := byte(' ')
	last := byte(' ')
	if len(needle) > 0 {
		first = needle[0]
		last = needle[len(needle)-1]
	}
	leftOK := true
	if isWordByte(first) {
		leftOK = i == 0 || !isWordByte(hay[i-1])
	}
	rightOK := true
	if isWordByte(last) {
		rightOK = j >= len(hay) || !isWordByte(hay[j])
	}
	return leftOK && rightOK
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_'
}
