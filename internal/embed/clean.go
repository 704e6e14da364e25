package embed

import (
	"strings"
	"unicode"
)

// CleanMarkdownForEmbedding strips frontmatter, fenced code blocks, and
// markdown/wikilink syntax down to plain words, collapsing the result to
// single-spaced text suitable for an embedding prompt: the model should see
// prose, not punctuation and link furniture.
func CleanMarkdownForEmbedding(text string) string {
	body := stripFrontmatterForEmbedding(text)

	var out strings.Builder
	inFenced := false

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "```") {
			inFenced = !inFenced
			continue
		}
		if inFenced {
			continue
		}

		out.WriteString(cleanLine(line))
		out.WriteByte(' ')
	}

	return normalizeWhitespace(out.String())
}

func stripFrontmatterForEmbedding(text string) string {
	rest, ok := strings.CutPrefix(text, "---\n")
	if !ok {
		rest, ok = strings.CutPrefix(text, "---\r\n")
		if !ok {
			return text
		}
	}
	idx := 0
	for idx < len(rest) {
		end := strings.IndexByte(rest[idx:], '\n')
		var lineEnd int
		if end < 0 {
			lineEnd = len(rest)
		} else {
			lineEnd = idx + end + 1
		}
		line := strings.TrimRight(rest[idx:lineEnd], "\r\n")
		if line == "---" {
			return rest[lineEnd:]
		}
		idx = lineEnd
	}
	return text
}

// cleanLine replaces wikilinks and markdown links with their visible label
// text, then maps every remaining non-alphanumeric, non-space rune to a
// single space.
func cleanLine(line string) string {
	var out strings.Builder
	runes := []rune(line)
	i := 0
	for i < len(runes) {
		if i+1 < len(runes) && runes[i] == '[' && runes[i+1] == '[' {
			if inner, end, ok := scanUntil(runes, i+2, "]]"); ok {
				out.WriteString(extractLinkLabel(inner))
				out.WriteByte(' ')
				i = end + 2
				continue
			}
		}
		if runes[i] == '[' {
			if label, endLabel, ok := scanUntil(runes, i+1, "]"); ok {
				if endLabel+1 < len(runes) && runes[endLabel+1] == '(' {
					if _, endURL, ok := scanUntil(runes, endLabel+2, ")"); ok {
						out.WriteString(label)
						out.WriteByte(' ')
						i = endURL + 1
						continue
					}
				}
			}
		}

		c := runes[i]
		if unicode.IsLetter(c) || unicode.IsDigit(c) || unicode.IsSpace(c) {
			out.WriteRune(c)
		} else {
			out.WriteByte(' ')
		}
		i++
	}
	return out.String()
}

// scanUntil finds the first occurrence of delim at or after start, returning
// the text before it and the rune index where delim begins.
func scanUntil(runes []rune, start int, delim string) (string, int, bool) {
	d := []rune(delim)
	if start < 0 {
		start = 0
	}
	for i := start; i+len(d) <= len(runes); i++ {
		if runesEqual(runes[i:i+len(d)], d) {
			return string(runes[start:i]), i, true
		}
	}
	return "", 0, false
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func extractLinkLabel(inner string) string {
	text := strings.TrimSpace(inner)
	if left, right, ok := strings.Cut(text, "|"); ok {
		right = strings.TrimSpace(right)
		if right != "" {
			text = right
		} else {
			text = strings.TrimSpace(left)
		}
	}
	if left, _, ok := strings.Cut(text, "#"); ok {
		text = strings.TrimSpace(left)
	}
	if left, _, ok := strings.Cut(text, "^"); ok {
		text = strings.TrimSpace(left)
	}
	return text
}

func normalizeWhitespace(s string) string {
	var out strings.Builder
	lastSpace := false
	for _, c := range s {
		if unicode.IsSpace(c) {
			if !lastSpace {
				out.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		out.WriteRune(c)
		lastSpace = false
	}
	return strings.TrimSpace(out.String())
}
