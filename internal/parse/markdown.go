package parse

import (
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseMarkdownNote parses note content into a ParsedNote. relStem is the
// file's stem (no extension), used as the title fallback.
func ParseMarkdownNote(relStem string, content string) ParsedNote {
	fm, body, bodyStartLine := splitFrontmatter(content)

	tagSet := map[string]struct{}{}
	if fm.Kind == FrontmatterValid {
		for _, t := range extractFrontmatterTags(fm.Value) {
			tagSet[t] = struct{}{}
		}
	}

	inlineTags, links, occs, fields, tasks := extractInlineTagsLinksFields(body, bodyStartLine)
	for _, t := range inlineTags {
		tagSet[t] = struct{}{}
	}

	title := extractTitle(relStem, fm, body)

	return ParsedNote{
		Title:           title,
		Tags:            sortedKeys(tagSet),
		Links:           dedupTargets(links),
		LinkOccurrences: occs,
		Frontmatter:     fm,
		InlineFields:    fields,
		Tasks:           tasks,
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func dedupTargets(in []LinkTarget) []LinkTarget {
	seen := map[string]LinkTarget{}
	for _, t := range in {
		seen[t.Key()] = t
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]LinkTarget, 0, len(keys))
	for _, k := range keys {
		out = append(out, seen[k])
	}
	return out
}

// splitFrontmatter scans for a leading "---\n"/"---\r\n" fence and a closing
// line whose trimmed content is exactly "---". Returns the frontmatter
// status, the body (everything after the closing fence, or the whole
// content if there is none), and the 1-based line number the body starts at.
func splitFrontmatter(content string) (Frontmatter, string, uint32) {
	rest, ok := stripFrontmatterPrefix(content)
	if !ok {
		return Frontmatter{Kind: FrontmatterNone}, content, 1
	}

	idx := 0
	for idx < len(rest) {
		lineEnd := len(rest)
		if nl := strings.IndexByte(rest[idx:], '\n'); nl >= 0 {
			lineEnd = idx + nl + 1
		}
		line := rest[idx:lineEnd]
		lineTrim := strings.TrimRight(line, "\r\n")
		if lineTrim == "---" {
			fmText := rest[:idx]
			body := rest[lineEnd:]
			startLine := 1 + uint32(strings.Count(content[:len(content)-len(body)], "\n"))

			var decoded map[string]interface{}
			if err := yaml.Unmarshal([]byte(fmText), &decoded); err != nil {
				return Frontmatter{Kind: FrontmatterBroken, Error: err.Error()}, body, startLine
			}
			if decoded == nil {
				decoded = map[string]interface{}{}
			}
			return Frontmatter{Kind: FrontmatterValid, Value: decoded}, body, startLine
		}
		idx = lineEnd
	}

	return Frontmatter{Kind: FrontmatterBroken, Error: "frontmatter fence not closed"}, content, 1
}

func stripFrontmatterPrefix(content string) (string, bool) {
	if rest, ok := strings.CutPrefix(content, "---\n"); ok {
		return rest, true
	}
	if rest, ok := strings.CutPrefix(content, "---\r\n"); ok {
		return rest, true
	}
	return content, false
}

func extractFrontmatterTags(fm map[string]interface{}) []string {
	out := map[string]struct{}{}
	for _, key := range []string{"tags", "tag"} {
		v, ok := fm[key]
		if !ok {
			continue
		}
		for _, t := range extractTagsFromYAMLValue(v) {
			out[t] = struct{}{}
		}
	}
	return sortedKeys(out)
}

func extractTagsFromYAMLValue(v interface{}) []string {
	out := map[string]struct{}{}
	switch t := v.(type) {
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok {
				if tag, ok := normalizeTag(s); ok {
					out[tag] = struct{}{}
				}
			}
		}
	case string:
		for _, part := range strings.FieldsFunc(t, func(c rune) bool {
			return c == ',' || isSpace(c)
		}) {
			if tag, ok := normalizeTag(part); ok {
				out[tag] = struct{}{}
			}
		}
	}
	return sortedKeys(out)
}

func isSpace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func extractTitle(relStem string, fm Frontmatter, body string) string {
	if fm.Kind == FrontmatterValid {
		if v, ok := fm.Value["title"]; ok {
			if s, ok := v.(string); ok {
				s = strings.TrimSpace(s)
				if s != "" {
					return s
				}
			}
		}
	}

	inFenced := false
	for _, line := range splitLines(body) {
		if isFence(line) {
			inFenced = !inFenced
			continue
		}
		if inFenced {
			continue
		}
		if h, ok := strings.CutPrefix(line, "# "); ok {
			h = strings.TrimSpace(h)
			if h != "" {
				return h
			}
		}
	}

	if relStem == "" {
		return "untitled"
	}
	return relStem
}

// splitLines splits on "\n" the way Rust's str::lines() does: a trailing
// "\r" is stripped, and a final empty trailing element from a trailing
// newline is dropped.
func splitLines(s string) []string {
	parts := strings.Split(s, "\n")
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\r")
	}
	return parts
}

func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "```")
}

func extractInlineTagsLinksFields(body string, bodyStartLine uint32) ([]string, []LinkTarget, []Link, []KV, []Task) {
	tagSet := map[string]struct{}{}
	var links []LinkTarget
	var occs []Link
	var fields []KV
	var tasks []Task
	inFenced := false

	for ix, line := range splitLines(body) {
		if isFence(line) {
			inFenced = !inFenced
			continue
		}
		if inFenced {
			continue
		}

		for _, t := range extractInlineTagsFromLine(line) {
			tagSet[t] = struct{}{}
		}

		lineNo := bodyStartLine + uint32(ix)
		targets, lineOccs := extractLinksFromLine(line, lineNo)
		links = append(links, targets...)
		occs = append(occs, lineOccs...)

		fields = append(fields, extractInlineFieldsFromLine(line)...)

		if status, text, ok := parseTaskLine(line); ok {
			tasks = append(tasks, Task{Line: lineNo, Status: status, Text: text})
		}
	}

	return sortedKeys(tagSet), links, occs, fields, tasks
}

func parseTaskLine(line string) (TaskStatus, string, bool) {
	rest := strings.TrimLeft(line, " \t")

	matched := false
	for _, prefix := range []string{"- ", "* ", "+ "} {
		if r, ok := strings.CutPrefix(rest, prefix); ok {
			rest = r
			matched = true
			break
		}
	}
	if !matched {
		i := 0
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}
		if i == 0 || i+1 >= len(rest) {
			return 0, "", false
		}
		punct := rest[i]
		if punct != '.' && punct != ')' {
			return 0, "", false
		}
		if rest[i+1] != ' ' {
			return 0, "", false
		}
		rest = rest[i+2:]
	}

	if len(rest) < 3 || rest[0] != '[' || rest[2] != ']' {
		return 0, "", false
	}
	var status TaskStatus
	switch rest[1] {
	case ' ':
		status = TaskTodo
	case 'x', 'X':
		status = TaskDone
	case '>':
		status = TaskInProgress
	case '-':
		status = TaskCancelled
	case '?':
		status = TaskBlocked
	default:
		return 0, "", false
	}
	text := strings.TrimLeft(rest[3:], " \t")
	return status, text, true
}

func extractInlineFieldsFromLine(line string) []KV {
	out := extractBracketedFields(line)
	out = append(out, extractBareFields(line)...)
	return out
}

func extractBracketedFields(line string) []KV {
	var out []KV
	i := 0
	for i < len(line) {
		if line[i] != '[' {
			i++
			continue
		}
		start := i + 1
		j := start
		for j < len(line) && line[j] != ']' {
			j++
		}
		if j >= len(line) {
			break
		}
		inner := line[start:j]
		if kv, ok := parseFieldKV(inner); ok {
			out = append(out, kv)
		}
		i = j + 1
	}
	return out
}

func extractBareFields(line string) []KV {
	var out []KV
	ranges := bracketRanges(line)

	i := 0
	for i+1 < len(line) {
		if line[i] != ':' || line[i+1] != ':' {
			i++
			continue
		}
		inBracket := false
		for _, r := range ranges {
			if i >= r[0] && i < r[1] {
				inBracket = true
				break
			}
		}
		if inBracket {
			i += 2
			continue
		}

		keyEnd := i
		ks := keyEnd
		for ks > 0 && isFieldKeyChar(rune(line[ks-1])) {
			ks--
		}
		if ks == keyEnd {
			i += 2
			continue
		}

		key := strings.TrimSpace(line[ks:keyEnd])
		if key == "" {
			i += 2
			continue
		}

		value := strings.TrimSpace(line[i+2:])
		if value == "" {
			i += 2
			continue
		}

		out = append(out, KV{Key: key, Value: value})
		break
	}
	return out
}

func bracketRanges(line string) [][2]int {
	var out [][2]int
	i := 0
	for i < len(line) {
		if line[i] != '[' {
			i++
			continue
		}
		start := i
		i++
		for i < len(line) && line[i] != ']' {
			i++
		}
		if i < len(line) && line[i] == ']' {
			out = append(out, [2]int{start, i + 1})
			i++
		}
	}
	return out
}

func parseFieldKV(inner string) (KV, bool) {
	k, v, found := strings.Cut(inner, "::")
	if !found {
		return KV{}, false
	}
	k = strings.TrimSpace(k)
	v = strings.TrimSpace(v)
	if k == "" || v == "" {
		return KV{}, false
	}
	return KV{Key: k, Value: v}, true
}

func isFieldKeyChar(c rune) bool {
	if c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
		return true
	}
	switch c {
	case '_', '-', '/', '.':
		return true
	}
	return false
}

func extractInlineTagsFromLine(line string) []string {
	out := map[string]struct{}{}
	i := 0
	for i < len(line) {
		if line[i] != '#' {
			i++
			continue
		}
		if i+1 < len(line) && line[i+1] == ' ' {
			i++
			continue
		}
		if i > 0 {
			prev := rune(line[i-1])
			if isAlnum(prev) || prev == '/' {
				i++
				continue
			}
		}
		j := i + 1
		for j < len(line) && isTagChar(rune(line[j])) {
			j++
		}
		if j > i+1 {
			raw := line[i+1 : j]
			if tag, ok := normalizeTag(raw); ok {
				out[tag] = struct{}{}
			}
		}
		if j > i+1 {
			i = j
		} else {
			i++
		}
	}
	return sortedKeys(out)
}

func isAlnum(c rune) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isTagChar(c rune) bool {
	if isAlnum(c) {
		return true
	}
	switch c {
	case '_', '-', '/':
		return true
	}
	return false
}

func normalizeTag(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "#")
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	s = strings.Trim(s, "/")
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return strings.ToLower(s), true
}

// ExtractFrontmatterAliases reads "aliases"/"alias" from a decoded
// frontmatter map, accepting either a sequence or a single string.
func ExtractFrontmatterAliases(fm map[string]interface{}) []string {
	out := map[string]struct{}{}
	for _, key := range []string{"aliases", "alias"} {
		v, ok := fm[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case []interface{}:
			for _, item := range t {
				if s, ok := item.(string); ok {
					s = strings.TrimSpace(s)
					if s != "" {
						out[strings.ToLower(s)] = struct{}{}
					}
				}
			}
		case string:
			s := strings.TrimSpace(t)
			if s != "" {
				out[strings.ToLower(s)] = struct{}{}
			}
		}
	}
	return sortedKeys(out)
}
