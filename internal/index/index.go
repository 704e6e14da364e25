package index

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/atomicobject/vaultdex/internal/parse"
	"github.com/atomicobject/vaultdex/internal/vaultpath"
)

// VaultIndex is the writer-lock-guarded aggregate: files, notes, and their
// reverse indexes. The zero value is ready to use.
type VaultIndex struct {
	mu        sync.RWMutex
	files     map[string]FileMeta
	notes     map[string]NoteMeta
	fileTags  map[string][]string
	fileLinks map[string][]parse.LinkTarget
	tags      map[string]map[string]struct{} // tag -> set<path>
}

func New() *VaultIndex {
	return &VaultIndex{
		files:     make(map[string]FileMeta),
		notes:     make(map[string]NoteMeta),
		fileTags:  make(map[string][]string),
		fileLinks: make(map[string][]parse.LinkTarget),
		tags:      make(map[string]map[string]struct{}),
	}
}

// Build walks the vault root and upserts every indexable file.
func Build(v *vaultpath.Vault) (*VaultIndex, error) {
	idx := New()
	err := filepath.WalkDir(v.Root(), func(absPath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, convErr := v.ToRel(absPath)
		if convErr != nil {
			return nil
		}
		if !v.IsIndexableRel(rel) {
			return nil
		}
		if _, upErr := idx.UpsertPath(v, rel); upErr != nil {
			return upErr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// UpsertPath stats and (for notes) reads+parses the file at rel, replacing
// its FileMeta/NoteMeta and returning the resulting reverse-index delta. A
// missing file is treated as a remove; a non-regular file is a no-op.
func (idx *VaultIndex) UpsertPath(v *vaultpath.Vault, rel vaultpath.Path) (IndexDelta, error) {
	if !v.IsIndexableRel(rel) {
		return IndexDelta{}, nil
	}

	abs := v.ToAbs(rel)
	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return idx.RemovePath(rel.String()), nil
	}
	if err != nil {
		return IndexDelta{}, fmt.Errorf("stat %s: %w", abs, err)
	}
	if !info.Mode().IsRegular() {
		return IndexDelta{}, nil
	}

	kind := fileKindFromPath(v, rel)
	relStr := rel.String()
	file := FileMeta{Path: relStr, Kind: kind, MTime: info.ModTime(), Size: info.Size()}

	var newTags []string
	var newLinks []parse.LinkTarget
	var noteMeta *NoteMeta

	if kind == FileMarkdown || kind == FileCanvas {
		content, readErr := os.ReadFile(abs)
		if readErr != nil {
			return IndexDelta{}, fmt.Errorf("read %s: %w", abs, readErr)
		}
		parsed := parse.ParseMarkdownNote(rel.Stem(), string(content))

		fields := parse.NewFieldMap()
		var aliases []string
		var fm FrontmatterStatus
		switch parsed.Frontmatter.Kind {
		case parse.FrontmatterNone:
			fm = FrontmatterStatus{Kind: FrontmatterNone}
		case parse.FrontmatterValid:
			topLevel := parse.ExtractTopLevelFrontmatterFields(parsed.Frontmatter.Value)
			for _, k := range topLevel.Keys() {
				v, _ := topLevel.Get(k)
				fields.Merge(k, v)
			}
			aliases = parse.ExtractFrontmatterAliases(parsed.Frontmatter.Value)
			fm = FrontmatterStatus{Kind: FrontmatterValid}
		case parse.FrontmatterBroken:
			fm = FrontmatterStatus{Kind: FrontmatterBroken, Error: parsed.Frontmatter.Error}
		}

		for _, kv := range parsed.InlineFields {
			k, ok := parse.NormalizeFieldKey(kv.Key)
			if !ok {
				continue
			}
			fields.Merge(k, parse.InlineValueToFieldValue(kv.Value))
		}

		tasks := make([]Task, 0, len(parsed.Tasks))
		for _, t := range parsed.Tasks {
			tasks = append(tasks, Task{Path: relStr, Line: t.Line, Status: t.Status, Text: t.Text})
		}

		noteMeta = &NoteMeta{
			File:            file,
			Title:           parsed.Title,
			Aliases:         aliases,
			Tags:            parsed.Tags,
			Links:           parsed.Links,
			LinkOccurrences: parsed.LinkOccurrences,
			Frontmatter:     fm,
			Fields:          fields,
			Tasks:           tasks,
		}
		newTags = parsed.Tags
		newLinks = parsed.Links
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.files[relStr] = file
	oldTags, hadTags := idx.fileTags[relStr]
	oldLinks, hadLinks := idx.fileLinks[relStr]
	idx.fileTags[relStr] = newTags
	idx.fileLinks[relStr] = newLinks

	if noteMeta != nil {
		idx.notes[relStr] = *noteMeta
	} else {
		delete(idx.notes, relStr)
	}

	delta := idx.reconcileTagIndexLocked(relStr, oldTags, hadTags, newTags)
	delta.AddedLinks, delta.RemovedLinks = diffLinks(oldLinks, hadLinks, newLinks)
	return delta, nil
}

// RemovePath drops FileMeta/NoteMeta and their reverse-index entries,
// returning a delta with all prior tags/links marked removed.
func (idx *VaultIndex) RemovePath(rel string) IndexDelta {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.files, rel)
	delete(idx.notes, rel)

	oldTags := idx.fileTags[rel]
	delete(idx.fileTags, rel)
	oldLinks := idx.fileLinks[rel]
	delete(idx.fileLinks, rel)

	for _, tag := range oldTags {
		if set, ok := idx.tags[tag]; ok {
			delete(set, rel)
			if len(set) == 0 {
				delete(idx.tags, tag)
			}
		}
	}

	return IndexDelta{
		RemovedTags:  append([]string(nil), oldTags...),
		RemovedLinks: append([]parse.LinkTarget(nil), oldLinks...),
	}
}

func (idx *VaultIndex) reconcileTagIndexLocked(rel string, old []string, hadOld bool, newTags []string) IndexDelta {
	_ = hadOld
	oldSet := toSet(old)
	newSet := toSet(newTags)

	var added, removed []string
	for t := range newSet {
		if _, ok := oldSet[t]; !ok {
			added = append(added, t)
		}
	}
	for t := range oldSet {
		if _, ok := newSet[t]; !ok {
			removed = append(removed, t)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)

	for _, t := range added {
		if idx.tags[t] == nil {
			idx.tags[t] = make(map[string]struct{})
		}
		idx.tags[t][rel] = struct{}{}
	}
	for _, t := range removed {
		if set, ok := idx.tags[t]; ok {
			delete(set, rel)
			if len(set) == 0 {
				delete(idx.tags, t)
			}
		}
	}

	return IndexDelta{AddedTags: added, RemovedTags: removed}
}

func diffLinks(old []parse.LinkTarget, hadOld bool, newLinks []parse.LinkTarget) ([]parse.LinkTarget, []parse.LinkTarget) {
	_ = hadOld
	oldSet := make(map[string]parse.LinkTarget, len(old))
	for _, l := range old {
		oldSet[l.Key()] = l
	}
	newSet := make(map[string]parse.LinkTarget, len(newLinks))
	for _, l := range newLinks {
		newSet[l.Key()] = l
	}

	var added, removed []parse.LinkTarget
	var addedKeys, removedKeys []string
	for k := range newSet {
		if _, ok := oldSet[k]; !ok {
			addedKeys = append(addedKeys, k)
		}
	}
	for k := range oldSet {
		if _, ok := newSet[k]; !ok {
			removedKeys = append(removedKeys, k)
		}
	}
	sort.Strings(addedKeys)
	sort.Strings(removedKeys)
	for _, k := range addedKeys {
		added = append(added, newSet[k])
	}
	for _, k := range removedKeys {
		removed = append(removed, oldSet[k])
	}
	return added, removed
}

func toSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, i := range items {
		out[i] = struct{}{}
	}
	return out
}

func fileKindFromPath(v *vaultpath.Vault, rel vaultpath.Path) FileKind {
	ext := rel.Ext()
	cfg := v.Config()
	for _, e := range cfg.NoteExtensions {
		if strings.EqualFold(e, ext) {
			switch ext {
			case "md":
				return FileMarkdown
			case "canvas":
				return FileCanvas
			default:
				return FileOther
			}
		}
	}
	for _, e := range cfg.AttachmentExtensions {
		if strings.EqualFold(e, ext) {
			return FileAttachment
		}
	}
	return FileOther
}
