package parse

import "strings"

func extractLinksFromLine(line string, lineNo uint32) ([]LinkTarget, []Link) {
	var targets []LinkTarget
	var occs []Link

	t, o := extractWikilinksAndEmbeds(line, lineNo)
	targets = append(targets, t...)
	occs = append(occs, o...)

	t, o = extractMarkdownLinksAndEmbeds(line, lineNo)
	targets = append(targets, t...)
	occs = append(occs, o...)

	t, o = extractAutoURLs(line, lineNo)
	targets = append(targets, t...)
	occs = append(occs, o...)

	return targets, occs
}

// extractWikilinksAndEmbeds finds [[...]] and ![[...]] spans. Column is the
// 1-based offset of the opening '[' even for embeds (the '!' is not part of
// the column).
func extractWikilinksAndEmbeds(line string, lineNo uint32) ([]LinkTarget, []Link) {
	var targets []LinkTarget
	var occs []Link

	i := 0
	for i+1 < len(line) {
		embed := false
		start := i
		if line[i] == '!' && i+2 < len(line) && line[i+1] == '[' && line[i+2] == '[' {
			embed = true
			start = i + 1
		}

		if start+1 < len(line) && line[start] == '[' && line[start+1] == '[' {
			j := start + 2
			found := false
			for j+1 < len(line) {
				if line[j] == ']' && line[j+1] == ']' {
					inner := line[start+2 : j]
					if target, subpath, display, ok := normalizeWikilinkComponents(inner); ok {
						targets = append(targets, target)
						occs = append(occs, Link{
							Kind:     LinkWiki,
							Embed:    embed,
							Display:  display,
							Target:   target,
							Subpath:  subpath,
							Location: Location{Line: lineNo, Column: uint32(start + 1)},
							Raw:      inner,
						})
					}
					i = j + 2
					found = true
					break
				}
				j++
			}
			if !found {
				break
			}
			continue
		}

		i++
	}

	return targets, occs
}

func extractMarkdownLinksAndEmbeds(line string, lineNo uint32) ([]LinkTarget, []Link) {
	var targets []LinkTarget
	var occs []Link

	i := 0
	for i < len(line) {
		embed := false
		start := i
		if line[i] == '!' {
			embed = true
			start = i + 1
		}
		if start >= len(line) || line[start] != '[' {
			i++
			continue
		}
		j := start + 1
		for j < len(line) && line[j] != ']' {
			j++
		}
		if j >= len(line) || j+1 >= len(line) || line[j+1] != '(' {
			i++
			continue
		}
		display := line[start+1 : j]

		k := j + 2
		for k < len(line) && line[k] != ')' {
			k++
		}
		if k >= len(line) {
			break
		}
		raw := line[j+2 : k]
		if target, subpath, ok := normalizeMarkdownTarget(raw); ok {
			kind := LinkMarkdown
			if target.Kind == TargetObsidianURI {
				kind = LinkObsidianURI
			}
			disp := ""
			if strings.TrimSpace(display) != "" {
				disp = display
			}
			occs = append(occs, Link{
				Kind:     kind,
				Embed:    embed,
				Display:  disp,
				Target:   target,
				Subpath:  subpath,
				Location: Location{Line: lineNo, Column: uint32(start + 1)},
				Raw:      raw,
			})
			targets = append(targets, target)
		}

		i = k + 1
	}

	return targets, occs
}

func extractAutoURLs(line string, lineNo uint32) ([]LinkTarget, []Link) {
	var targets []LinkTarget
	var occs []Link

	i := 0
	for i < len(line) {
		if line[i] != '<' {
			i++
			continue
		}
		start := i
		i++
		j := i
		for j < len(line) && line[j] != '>' {
			j++
		}
		if j >= len(line) {
			break
		}
		inner := strings.TrimSpace(line[i:j])
		if strings.HasPrefix(inner, "http://") || strings.HasPrefix(inner, "https://") || strings.HasPrefix(inner, "mailto:") {
			target := LinkTarget{Kind: TargetExternalURL, URL: inner}
			targets = append(targets, target)
			occs = append(occs, Link{
				Kind:     LinkAutoURL,
				Embed:    false,
				Target:   target,
				Location: Location{Line: lineNo, Column: uint32(start + 1)},
				Raw:      inner,
			})
		}
		i = j + 1
	}

	return targets, occs
}

// normalizeWikilinkComponents splits raw ("Target#Heading|Alias") into a
// target, optional subpath (block checked before heading), and optional
// display alias.
func normalizeWikilinkComponents(raw string) (LinkTarget, Subpath, string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return LinkTarget{}, Subpath{}, "", false
	}

	beforeAlias := s
	display := ""
	if left, right, ok := strings.Cut(s, "|"); ok {
		beforeAlias = strings.TrimSpace(left)
		display = strings.TrimSpace(right)
	}

	targetRaw := beforeAlias
	subpath := Subpath{}
	if left, right, ok := strings.Cut(beforeAlias, "^"); ok {
		targetRaw = strings.TrimSpace(left)
		block := strings.TrimSpace(right)
		if block != "" {
			subpath = Subpath{Kind: SubpathBlock, Value: block}
		}
	} else if left, right, ok := strings.Cut(beforeAlias, "#"); ok {
		targetRaw = strings.TrimSpace(left)
		heading := strings.TrimSpace(right)
		if heading != "" {
			subpath = Subpath{Kind: SubpathHeading, Value: heading}
		}
	}

	targetRaw = strings.TrimSpace(targetRaw)
	if targetRaw == "" {
		return LinkTarget{}, Subpath{}, "", false
	}

	return LinkTarget{Kind: TargetInternal, Reference: targetRaw}, subpath, display, true
}

func normalizeMarkdownTarget(raw string) (LinkTarget, Subpath, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return LinkTarget{}, Subpath{}, false
	}

	if strings.HasPrefix(s, "obsidian://") {
		return LinkTarget{Kind: TargetObsidianURI, Raw: s}, Subpath{}, true
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "mailto:") {
		return LinkTarget{Kind: TargetExternalURL, URL: s}, Subpath{}, true
	}

	if left, right, ok := strings.Cut(s, "#"); ok {
		left = strings.TrimSpace(left)
		right = strings.TrimSpace(right)
		if left == "" {
			return LinkTarget{}, Subpath{}, false
		}
		subpath := Subpath{}
		if right != "" {
			subpath = Subpath{Kind: SubpathHeading, Value: right}
		}
		return LinkTarget{Kind: TargetInternal, Reference: left}, subpath, true
	}

	return LinkTarget{Kind: TargetInternal, Reference: s}, Subpath{}, true
}
