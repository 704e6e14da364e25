// Package query provides a small fluent builder for filtering and sorting
// notes by tag, path prefix, and field predicates, plus a matching builder
// over tasks.
package query

import (
	"sort"
	"strings"

	"github.com/atomicobject/vaultdex/internal/index"
	"github.com/atomicobject/vaultdex/internal/parse"
)

type cmpOp int

const (
	cmpGt cmpOp = iota
	cmpGte
	cmpLt
	cmpLte
)

type sortDir int

const (
	SortAsc sortDir = iota
	SortDesc
)

type sortKeyKind int

const (
	sortByPath sortKeyKind = iota
	sortByField
)

type sortSpec struct {
	kind  sortKeyKind
	field string
	dir   sortDir
}

type predicateKind int

const (
	predFieldExists predicateKind = iota
	predFieldEq
	predFieldContains
	predFieldCmp
)

type predicate struct {
	kind   predicateKind
	key    string
	value  parse.FieldValue
	needle string
	op     cmpOp
	rhs    float64
}

// Hit is one note matched by a Query.
type Hit struct {
	Path string
}

// Query builds a filtered, sorted, limited selection over indexed notes.
type Query struct {
	pathPrefix string
	hasPrefix  bool
	tag        string
	hasTag     bool
	predicates []predicate
	sort       *sortSpec
	limit      int
	hasLimit   bool
}

// Notes starts an empty query matching every indexed note.
func Notes() Query {
	return Query{}
}

func (q Query) FromPathPrefix(prefix string) Query {
	q.pathPrefix = prefix
	q.hasPrefix = true
	return q
}

func (q Query) FromTag(tag string) Query {
	t := strings.ToLower(strings.TrimSpace(tag))
	t = strings.TrimPrefix(t, "#")
	q.tag = t
	q.hasTag = true
	return q
}

// WhereField starts a predicate builder scoped to key.
func (q Query) WhereField(key string) FieldPredicateBuilder {
	return FieldPredicateBuilder{q: q, key: key}
}

func (q Query) SortByPath(dir sortDir) Query {
	q.sort = &sortSpec{kind: sortByPath, dir: dir}
	return q
}

func (q Query) SortByField(key string, dir sortDir) Query {
	k, ok := parse.NormalizeFieldKey(key)
	if !ok {
		return q
	}
	q.sort = &sortSpec{kind: sortByField, field: k, dir: dir}
	return q
}

func (q Query) Limit(n int) Query {
	q.limit = n
	q.hasLimit = true
	return q
}

// Execute runs the query against idx, returning matching notes.
func (q Query) Execute(idx *index.VaultIndex) []Hit {
	var candidates []string
	if q.hasTag {
		candidates = idx.FilesWithTag(q.tag)
	} else {
		candidates = idx.NotesIterPaths()
	}

	if q.hasPrefix {
		filtered := candidates[:0:0]
		for _, p := range candidates {
			if strings.HasPrefix(p, q.pathPrefix) {
				filtered = append(filtered, p)
			}
		}
		candidates = filtered
	}

	filtered := candidates[:0:0]
	for _, p := range candidates {
		note, ok := idx.Note(p)
		if !ok {
			continue
		}
		matches := true
		for _, pred := range q.predicates {
			if !evalPredicate(pred, note) {
				matches = false
				break
			}
		}
		if matches {
			filtered = append(filtered, p)
		}
	}
	candidates = filtered

	if q.sort != nil {
		sortCandidates(idx, candidates, *q.sort)
	}

	if q.hasLimit && len(candidates) > q.limit {
		candidates = candidates[:q.limit]
	}

	hits := make([]Hit, len(candidates))
	for i, p := range candidates {
		hits[i] = Hit{Path: p}
	}
	return hits
}

// FieldPredicateBuilder accumulates one predicate on a specific field key,
// returning a Query once the predicate is finalized.
type FieldPredicateBuilder struct {
	q   Query
	key string
}

func (b FieldPredicateBuilder) normKey() (string, bool) {
	return parse.NormalizeFieldKey(b.key)
}

func (b FieldPredicateBuilder) Exists() Query {
	k, ok := b.normKey()
	if !ok {
		return b.q
	}
	b.q.predicates = append(b.q.predicates, predicate{kind: predFieldExists, key: k})
	return b.q
}

func (b FieldPredicateBuilder) Eq(v parse.FieldValue) Query {
	k, ok := b.normKey()
	if !ok {
		return b.q
	}
	b.q.predicates = append(b.q.predicates, predicate{kind: predFieldEq, key: k, value: v})
	return b.q
}

func (b FieldPredicateBuilder) Contains(needle string) Query {
	k, ok := b.normKey()
	if !ok {
		return b.q
	}
	b.q.predicates = append(b.q.predicates, predicate{kind: predFieldContains, key: k, needle: needle})
	return b.q
}

func (b FieldPredicateBuilder) Gt(rhs float64) Query  { return b.cmp(cmpGt, rhs) }
func (b FieldPredicateBuilder) Gte(rhs float64) Query { return b.cmp(cmpGte, rhs) }
func (b FieldPredicateBuilder) Lt(rhs float64) Query  { return b.cmp(cmpLt, rhs) }
func (b FieldPredicateBuilder) Lte(rhs float64) Query { return b.cmp(cmpLte, rhs) }

func (b FieldPredicateBuilder) cmp(op cmpOp, rhs float64) Query {
	k, ok := b.normKey()
	if !ok {
		return b.q
	}
	b.q.predicates = append(b.q.predicates, predicate{kind: predFieldCmp, key: k, op: op, rhs: rhs})
	return b.q
}

func evalPredicate(pred predicate, note index.NoteMeta) bool {
	v, ok := note.Fields.Get(pred.key)
	switch pred.kind {
	case predFieldExists:
		return ok
	case predFieldEq:
		if !ok {
			return false
		}
		return fieldEq(v, pred.value)
	case predFieldContains:
		if !ok {
			return false
		}
		return fieldContains(v, pred.needle)
	case predFieldCmp:
		if !ok {
			return false
		}
		return fieldCmp(v, pred.op, pred.rhs)
	}
	return false
}

func fieldEq(a, b parse.FieldValue) bool {
	if a.Kind == parse.FieldList {
		for _, it := range a.List {
			if fieldValueEqual(it, b) {
				return true
			}
		}
		return false
	}
	return fieldValueEqual(a, b)
}

func fieldValueEqual(a, b parse.FieldValue) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case parse.FieldNull:
		return true
	case parse.FieldBool:
		return a.Bool == b.Bool
	case parse.FieldNumber:
		return a.Number == b.Number
	case parse.FieldString:
		return a.Str == b.Str
	default:
		return false
	}
}

func fieldContains(v parse.FieldValue, needle string) bool {
	switch v.Kind {
	case parse.FieldString:
		return strings.Contains(v.Str, needle)
	case parse.FieldList:
		for _, it := range v.List {
			if it.Kind == parse.FieldString && strings.Contains(it.Str, needle) {
				return true
			}
		}
	}
	return false
}

func fieldCmp(v parse.FieldValue, op cmpOp, rhs float64) bool {
	switch v.Kind {
	case parse.FieldNumber:
		return cmpNum(v.Number, rhs, op)
	case parse.FieldList:
		for _, it := range v.List {
			if it.Kind == parse.FieldNumber && cmpNum(it.Number, rhs, op) {
				return true
			}
		}
	}
	return false
}

func cmpNum(left, right float64, op cmpOp) bool {
	switch op {
	case cmpGt:
		return left > right
	case cmpGte:
		return left >= right
	case cmpLt:
		return left < right
	default:
		return left <= right
	}
}

func sortCandidates(idx *index.VaultIndex, paths []string, spec sortSpec) {
	switch spec.kind {
	case sortByPath:
		sort.Slice(paths, func(i, j int) bool {
			if spec.dir == SortAsc {
				return paths[i] < paths[j]
			}
			return paths[i] > paths[j]
		})
	case sortByField:
		type keyed struct {
			path string
			val  *sortValue
		}
		rows := make([]keyed, len(paths))
		for i, p := range paths {
			var sv *sortValue
			if note, ok := idx.Note(p); ok {
				sv = sortValueForField(note.Fields, spec.field)
			}
			rows[i] = keyed{path: p, val: sv}
		}
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := rows[i], rows[j]
			switch {
			case a.val == nil && b.val == nil:
				return a.path < b.path
			case a.val == nil:
				return false
			case b.val == nil:
				return true
			default:
				cmp := a.val.compare(*b.val)
				if cmp == 0 {
					return a.path < b.path
				}
				if spec.dir == SortAsc {
					return cmp < 0
				}
				return cmp > 0
			}
		})
		for i, r := range rows {
			paths[i] = r.path
		}
	}
}

// sortValue mirrors the scaled-integer/string ordering used to compare
// heterogeneous field values: numbers (and bools, as 0/1) compare by a
// fixed-point integer, strings compare lexically, and a number always
// sorts before a string.
type sortValue struct {
	isNumber bool
	num      int64
	str      string
}

func (s sortValue) compare(o sortValue) int {
	if s.isNumber != o.isNumber {
		if s.isNumber {
			return -1
		}
		return 1
	}
	if s.isNumber {
		switch {
		case s.num < o.num:
			return -1
		case s.num > o.num:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(s.str, o.str)
}

func sortValueForField(fields *parse.FieldMap, key string) *sortValue {
	v, ok := fields.Get(key)
	if !ok {
		return nil
	}
	return sortValueFromFieldValue(v)
}

func sortValueFromFieldValue(v parse.FieldValue) *sortValue {
	switch v.Kind {
	case parse.FieldNumber:
		return &sortValue{isNumber: true, num: int64(v.Number * 1_000_000)}
	case parse.FieldString:
		return &sortValue{str: v.Str}
	case parse.FieldBool:
		n := int64(0)
		if v.Bool {
			n = 1
		}
		return &sortValue{isNumber: true, num: n}
	case parse.FieldList:
		for _, it := range v.List {
			if sv := sortValueFromFieldValue(it); sv != nil {
				return sv
			}
		}
	}
	return nil
}
