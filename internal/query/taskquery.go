package query

import (
	"sort"
	"strings"

	"github.com/atomicobject/vaultdex/internal/index"
	"github.com/atomicobject/vaultdex/internal/parse"
)

// TaskHit is one task matched by a TaskQuery.
type TaskHit struct {
	Path   string
	Line   uint32
	Status parse.TaskStatus
	Text   string
}

// TaskQuery builds a filtered, limited selection over every note's tasks.
type TaskQuery struct {
	pathPrefix string
	hasPrefix  bool
	status     parse.TaskStatus
	hasStatus  bool
	contains   string
	hasLimit   bool
	limit      int
}

// AllTasks starts an empty query matching every task in the vault.
func AllTasks() TaskQuery {
	return TaskQuery{}
}

func (q TaskQuery) FromPathPrefix(prefix string) TaskQuery {
	q.pathPrefix = prefix
	q.hasPrefix = true
	return q
}

func (q TaskQuery) Status(s parse.TaskStatus) TaskQuery {
	q.status = s
	q.hasStatus = true
	return q
}

func (q TaskQuery) ContainsText(needle string) TaskQuery {
	q.contains = needle
	return q
}

func (q TaskQuery) Limit(n int) TaskQuery {
	q.limit = n
	q.hasLimit = true
	return q
}

// Execute runs the query against idx, returning matching tasks ordered by
// (path, line).
func (q TaskQuery) Execute(idx *index.VaultIndex) []TaskHit {
	var out []TaskHit
	for _, pair := range idx.NotesIter() {
		if q.hasPrefix && !strings.HasPrefix(pair.Path, q.pathPrefix) {
			continue
		}
		for _, t := range pair.Note.Tasks {
			if q.hasStatus && t.Status != q.status {
				continue
			}
			if q.contains != "" && !strings.Contains(t.Text, q.contains) {
				continue
			}
			out = append(out, TaskHit{Path: t.Path, Line: t.Line, Status: t.Status, Text: t.Text})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Line < out[j].Line
	})

	if q.hasLimit && len(out) > q.limit {
		out = out[:q.limit]
	}
	return out
}
