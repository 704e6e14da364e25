package index

import (
	"sort"

	"github.com/atomicobject/vaultdex/internal/parse"
)

// Note returns a copy of the NoteMeta at path, if any.
func (idx *VaultIndex) Note(path string) (NoteMeta, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	n, ok := idx.notes[path]
	return n, ok
}

// File returns a copy of the FileMeta at path, if any.
func (idx *VaultIndex) File(path string) (FileMeta, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	f, ok := idx.files[path]
	return f, ok
}

// AllFiles returns a snapshot slice of every FileMeta.
func (idx *VaultIndex) AllFiles() []FileMeta {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]FileMeta, 0, len(idx.files))
	for _, f := range idx.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// AllTags returns every tag with at least one tagged file, sorted.
func (idx *VaultIndex) AllTags() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]string, 0, len(idx.tags))
	for t := range idx.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// FilesWithTag returns the sorted set of paths tagged with tag.
func (idx *VaultIndex) FilesWithTag(tag string) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	set, ok := idx.tags[tag]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// OutgoingLinks returns the link targets recorded for the file at from.
func (idx *VaultIndex) OutgoingLinks(from string) []parse.LinkTarget {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return append([]parse.LinkTarget(nil), idx.fileLinks[from]...)
}

// NotesIterPaths returns every indexed note path, sorted.
func (idx *VaultIndex) NotesIterPaths() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]string, 0, len(idx.notes))
	for p := range idx.notes {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// NotesIter returns a snapshot of every (path, NoteMeta) pair, sorted by path.
func (idx *VaultIndex) NotesIter() []struct {
	Path string
	Note NoteMeta
} {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]struct {
		Path string
		Note NoteMeta
	}, 0, len(idx.notes))
	for p, n := range idx.notes {
		out = append(out, struct {
			Path string
			Note NoteMeta
		}{p, n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// NotesWithFrontmatter returns paths whose frontmatter is not None.
func (idx *VaultIndex) NotesWithFrontmatter() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var out []string
	for p, n := range idx.notes {
		if n.Frontmatter.Kind != FrontmatterNone {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// NotesWithoutFrontmatter returns paths whose frontmatter is None.
func (idx *VaultIndex) NotesWithoutFrontmatter() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var out []string
	for p, n := range idx.notes {
		if n.Frontmatter.Kind == FrontmatterNone {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// NotesWithBrokenFrontmatter returns (path, error) pairs for broken frontmatter.
func (idx *VaultIndex) NotesWithBrokenFrontmatter() []struct {
	Path  string
	Error string
} {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var out []struct {
		Path  string
		Error string
	}
	for p, n := range idx.notes {
		if n.Frontmatter.Kind == FrontmatterBroken {
			out = append(out, struct {
				Path  string
				Error string
			}{p, n.Frontmatter.Error})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// FrontmatterReport counts notes by frontmatter status.
func (idx *VaultIndex) FrontmatterReport() FrontmatterReport {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var r FrontmatterReport
	for _, n := range idx.notes {
		switch n.Frontmatter.Kind {
		case FrontmatterNone:
			r.None++
		case FrontmatterValid:
			r.Valid++
		case FrontmatterBroken:
			r.Broken++
		}
	}
	return r
}

// NoteTasks returns the tasks recorded for path, if any.
func (idx *VaultIndex) NoteTasks(path string) ([]Task, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	n, ok := idx.notes[path]
	if !ok {
		return nil, false
	}
	return append([]Task(nil), n.Tasks...), true
}

// AllTasks returns every task across every note, in path order.
func (idx *VaultIndex) AllTasks() []Task {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	paths := make([]string, 0, len(idx.notes))
	for p := range idx.notes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	var out []Task
	for _, p := range paths {
		out = append(out, idx.notes[p].Tasks...)
	}
	return out
}
