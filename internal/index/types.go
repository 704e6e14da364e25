// Package index is the primary in-memory data store: files, notes, and the
// tag/link reverse indexes, mutated transactionally via Upsert/Remove.
package index

import (
	"time"

	"github.com/atomicobject/vaultdex/internal/parse"
)

type FileKind int

const (
	FileMarkdown FileKind = iota
	FileCanvas
	FileAttachment
	FileOther
)

type FileMeta struct {
	Path  string
	Kind  FileKind
	MTime time.Time
	Size  int64
}

type NoteMeta struct {
	File            FileMeta
	Title           string
	Aliases         []string // sorted, lowercased
	Tags            []string // sorted
	Links           []parse.LinkTarget
	LinkOccurrences []parse.Link
	Frontmatter     FrontmatterStatus
	Fields          *parse.FieldMap
	Tasks           []Task
}

type FrontmatterStatusKind int

const (
	FrontmatterNone FrontmatterStatusKind = iota
	FrontmatterValid
	FrontmatterBroken
)

type FrontmatterStatus struct {
	Kind  FrontmatterStatusKind
	Error string
}

type FrontmatterReport struct {
	None   int
	Valid  int
	Broken int
}

type Task struct {
	Path   string
	Line   uint32
	Status parse.TaskStatus
	Text   string
}

// IndexDelta is the set-difference of tags and link targets produced by an
// upsert or remove.
type IndexDelta struct {
	AddedTags    []string
	RemovedTags  []string
	AddedLinks   []parse.LinkTarget
	RemovedLinks []parse.LinkTarget
}

// IsEmpty reports whether the delta changed nothing.
func (d IndexDelta) IsEmpty() bool {
	return len(d.AddedTags) == 0 && len(d.RemovedTags) == 0 &&
		len(d.AddedLinks) == 0 && len(d.RemovedLinks) == 0
}

type SearchHit struct {
	Path  string
	Score int
}

type ContentSearchHit struct {
	Path     string
	Score    int
	Line     uint32
	LineText string
}
