package service

import (
	"github.com/fsnotify/fsnotify"

	"github.com/atomicobject/vaultdex/internal/vaultpath"
)

type opKind int

const (
	opUpsert opKind = iota
	opRemove
	opRename
	opNoop
)

type op struct {
	Kind  opKind
	Path  string // Upsert, Remove
	From  string // Rename
	To    string // Rename
	Cause Cause
}

// eventsToOps coalesces a raw fsnotify batch into at most one upsert op and
// at most one remove op per path (a path both written and removed in one
// batch yields both, in arrival order), keeping the highest-ranked cause
// among the events merged into each op, and dropping chmod-only noise (metadata touches, including
// ones we generate ourselves by reading files, create self-trigger loops
// if treated as real changes).
//
// fsnotify never delivers a single from/to rename event the way the
// original's notify-based watcher can on some platforms: a rename surfaces
// as two independent single-path events, a Rename op on the old name and a
// Create on the new one. Both land in the same debounced batch for an
// ordinary single-file rename, so renameRemovals below tracks paths that
// left via a Rename op in arrival order, and the pairing pass at the end
// reunites each one with the next still-unclaimed upsert (normally the new
// name's Create) that follows it in the same batch into a single
// Rename{from,to} op. A Rename op with no such upsert after it (move out of
// the vault entirely) falls back to a plain Remove.
func eventsToOps(v *vaultpath.Vault, batch []fsnotify.Event) []op {
	var ops []op
	upsertIx := make(map[string]int)
	removeIx := make(map[string]int)
	var renameRemovals []string

	for _, ev := range batch {
		if ev.Op&fsnotify.Chmod == fsnotify.Chmod && ev.Op == fsnotify.Chmod {
			continue
		}

		kind := watchKindFromOp(ev.Op)
		cause := Cause{Kind: CauseWatch, WatchKind: kind}

		switch {
		case ev.Op&fsnotify.Rename == fsnotify.Rename:
			rel, ok := toVaultPath(v, ev.Name)
			if !ok {
				continue
			}
			if ix, ok := removeIx[rel]; ok {
				ops[ix].Cause = mergeCause(ops[ix].Cause, cause)
				continue
			}
			removeIx[rel] = len(ops)
			renameRemovals = append(renameRemovals, rel)
			ops = append(ops, op{Kind: opRemove, Path: rel, Cause: cause})

		case ev.Op&fsnotify.Remove == fsnotify.Remove:
			rel, ok := toVaultPath(v, ev.Name)
			if !ok {
				continue
			}
			if ix, ok := removeIx[rel]; ok {
				ops[ix].Cause = mergeCause(ops[ix].Cause, cause)
				continue
			}
			removeIx[rel] = len(ops)
			ops = append(ops, op{Kind: opRemove, Path: rel, Cause: cause})

		default:
			rel, ok := toVaultPath(v, ev.Name)
			if !ok || !v.IsIndexableRel(mustPath(rel)) {
				continue
			}
			if ix, ok := upsertIx[rel]; ok {
				ops[ix].Cause = mergeCause(ops[ix].Cause, cause)
				continue
			}
			upsertIx[rel] = len(ops)
			ops = append(ops, op{Kind: opUpsert, Path: rel, Cause: cause})
		}
	}

	return pairRenames(ops, renameRemovals)
}

// pairRenames reunites each rename-flagged removal, in the order it
// appeared in the batch, with the first still-unclaimed upsert op that
// follows it in that same batch, turning both into a single Rename op.
func pairRenames(ops []op, renameRemovals []string) []op {
	if len(renameRemovals) == 0 {
		return ops
	}

	removeIxByPath := make(map[string]int, len(ops))
	for i, o := range ops {
		if o.Kind == opRemove {
			removeIxByPath[o.Path] = i
		}
	}

	for _, from := range renameRemovals {
		fromIx, ok := removeIxByPath[from]
		if !ok || ops[fromIx].Kind != opRemove {
			continue
		}
		for toIx := fromIx + 1; toIx < len(ops); toIx++ {
			if ops[toIx].Kind != opUpsert {
				continue
			}
			cause := mergeCause(ops[fromIx].Cause, ops[toIx].Cause)
			to := ops[toIx].Path
			ops[fromIx] = op{Kind: opRename, From: from, To: to, Cause: cause}
			ops[toIx] = op{Kind: opNoop}
			break
		}
	}

	out := ops[:0]
	for _, o := range ops {
		if o.Kind == opNoop {
			continue
		}
		out = append(out, o)
	}
	return out
}

func watchKindFromOp(fop fsnotify.Op) WatchKind {
	switch {
	case fop&fsnotify.Create == fsnotify.Create:
		return WatchCreate
	case fop&fsnotify.Remove == fsnotify.Remove:
		return WatchRemove
	case fop&fsnotify.Rename == fsnotify.Rename:
		return WatchRename
	case fop&fsnotify.Write == fsnotify.Write:
		return WatchWrite
	case fop&fsnotify.Chmod == fsnotify.Chmod:
		return WatchChmod
	default:
		return WatchOther
	}
}

func toVaultPath(v *vaultpath.Vault, abs string) (string, bool) {
	rel, err := v.ToRel(abs)
	if err != nil {
		return "", false
	}
	return rel.String(), true
}

func mustPath(rel string) vaultpath.Path {
	p, _ := vaultpath.New(rel)
	return p
}
