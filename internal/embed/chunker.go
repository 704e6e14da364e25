package embed

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	minChunkChars    = 400
	targetChunkChars = 1200
	maxChunkChars    = 1800
	overlapChars     = 200
)

var (
	headingRE        = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	frontmatterBlock = regexp.MustCompile(`(?s)^\s*---\r?\n(.*?)\r?\n---\s*\r?\n`)
)

type heldSection struct {
	level   int
	heading string
	lines   []string
}

// ChunkNote splits a note's raw content into heading-scoped chunks, each
// carrying a breadcrumb trail (Title > Heading > Subheading) so a retrieved
// chunk can be shown with its place in the document. targetChunkChars is
// advisory; only minChunkChars/maxChunkChars are enforced.
func ChunkNote(path, title, content string) []Chunk {
	frontmatter := extractFrontmatterMap(content)
	body := stripFrontmatterBlock(content)

	sections := splitIntoSections(body)
	if len(sections) == 0 {
		sections = []heldSection{{level: 1, heading: title, lines: strings.Split(body, "\n")}}
	}
	sections = coalesceShortSections(sections)

	var chunks []Chunk
	breadcrumbStack := []string{title}

	for _, sec := range sections {
		for len(breadcrumbStack) > 1 && len(breadcrumbStack)-1 >= sec.level {
			breadcrumbStack = breadcrumbStack[:len(breadcrumbStack)-1]
		}
		breadcrumbStack = append(breadcrumbStack, strings.TrimSpace(sec.heading))
		breadcrumb := strings.Join(breadcrumbStack, " > ")

		bodyText := strings.TrimSpace(strings.Join(sec.lines, "\n"))
		if bodyText == "" {
			continue
		}

		parts := splitWithOverlap(bodyText, maxChunkChars, overlapChars)
		for partIdx, part := range parts {
			text := buildChunkText(path, title, breadcrumb, frontmatter, part, len(parts), partIdx+1)
			chunks = append(chunks, Chunk{
				Index:      len(chunks),
				Text:       text,
				Breadcrumb: breadcrumb,
				Heading:    sec.heading,
				Hash:       hashText(text),
			})
		}
	}

	return chunks
}

func stripFrontmatterBlock(content string) string {
	loc := frontmatterBlock.FindStringIndex(content)
	if len(loc) == 2 && loc[0] == 0 {
		return content[loc[1]:]
	}
	return content
}

func splitIntoSections(body string) []heldSection {
	lines := strings.Split(body, "\n")
	var sections []heldSection
	current := heldSection{level: 1}
	inCode := false

	flush := func() {
		if len(current.lines) == 0 && strings.TrimSpace(current.heading) == "" {
			return
		}
		sections = append(sections, current)
	}

	for _, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		trim := strings.TrimSpace(line)
		if strings.HasPrefix(trim, "```") || strings.HasPrefix(trim, "~~~") {
			inCode = !inCode
		}
		if inCode {
			current.lines = append(current.lines, line)
			continue
		}
		if m := headingRE.FindStringSubmatch(trim); m != nil {
			flush()
			current = heldSection{level: len(m[1]), heading: strings.TrimSpace(m[2])}
			continue
		}
		current.lines = append(current.lines, line)
	}
	flush()
	return sections
}

func coalesceShortSections(sections []heldSection) []heldSection {
	var out []heldSection
	for i := 0; i < len(sections); i++ {
		sec := sections[i]
		text := strings.Join(sec.lines, "\n")
		for len(text) < minChunkChars && i+1 < len(sections) {
			next := sections[i+1]
			sec.lines = append(sec.lines, "")
			sec.lines = append(sec.lines, next.lines...)
			text = strings.Join(sec.lines, "\n")
			i++
		}
		out = append(out, sec)
	}
	return out
}

func splitWithOverlap(text string, maxChars, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return []string{text}
	}
	var parts []string
	start := 0
	for start < len(runes) {
		end := start + maxChars
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
		if end == len(runes) {
			break
		}
		start = end - overlap
		if start < 0 {
			start = 0
		}
	}
	return parts
}

func buildChunkText(path, title, breadcrumb string, frontmatter map[string]interface{}, body string, totalParts, partNumber int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\n", title)
	fmt.Fprintf(&sb, "Path: %s\n", path)
	fmt.Fprintf(&sb, "Headings: %s\n", breadcrumb)
	if fm := summarizeFrontmatter(frontmatter); fm != "" {
		fmt.Fprintf(&sb, "Frontmatter: %s\n", fm)
	}
	if totalParts > 1 {
		fmt.Fprintf(&sb, "Chunk: %d/%d\n", partNumber, totalParts)
	}
	sb.WriteString("\n")
	sb.WriteString(body)
	return sb.String()
}

func summarizeFrontmatter(fm map[string]interface{}) string {
	if len(fm) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fm))
	for k := range fm {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		switch t := fm[k].(type) {
		case string:
			if strings.TrimSpace(t) != "" {
				parts = append(parts, fmt.Sprintf("%s=%s", k, t))
			}
		case []interface{}:
			var vals []string
			for _, item := range t {
				if s, ok := item.(string); ok {
					vals = append(vals, s)
				}
			}
			if len(vals) > 0 {
				parts = append(parts, fmt.Sprintf("%s=%s", k, strings.Join(vals, ",")))
			}
		default:
			parts = append(parts, fmt.Sprintf("%s=%v", k, t))
		}
		if len(parts) >= 6 {
			break
		}
	}
	return strings.Join(parts, "; ")
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func extractFrontmatterMap(content string) map[string]interface{} {
	loc := frontmatterBlock.FindStringSubmatchIndex(content)
	if len(loc) < 4 || loc[0] != 0 {
		return nil
	}
	start, end := loc[2], loc[3]
	if start < 0 || end < 0 || end <= start {
		return nil
	}
	var fm map[string]interface{}
	if err := yaml.Unmarshal([]byte(content[start:end]), &fm); err != nil || fm == nil {
		return nil
	}
	return fm
}
