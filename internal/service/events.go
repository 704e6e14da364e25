package service

import "github.com/atomicobject/vaultdex/internal/index"

// WatchKind classifies the filesystem event that triggered a reindex.
type WatchKind int

const (
	WatchCreate WatchKind = iota
	WatchWrite
	WatchRemove
	WatchRename
	WatchChmod
	WatchOther
)

// CauseKind discriminates why a reindex happened.
type CauseKind int

const (
	CauseManual CauseKind = iota
	CauseInitialBuild
	CauseWatch
)

// Cause records why a given path was reindexed, and (for watch-triggered
// causes) which kind of filesystem event it was. Ranked so that when a
// debounce window coalesces several causes for the same path, the most
// significant one wins.
type Cause struct {
	Kind      CauseKind
	WatchKind WatchKind
}

// rank orders causes so a coalesced batch keeps the most significant one:
// an explicit removal always wins over a mere write, and any real change
// outranks passive metadata noise.
func (c Cause) rank() int {
	switch c.Kind {
	case CauseManual:
		return 100
	case CauseInitialBuild:
		return 10
	default:
		switch c.WatchKind {
		case WatchRemove:
			return 90
		case WatchRename:
			return 80
		case WatchCreate:
			return 70
		case WatchWrite:
			return 60
		case WatchChmod:
			return 40
		default:
			return 20
		}
	}
}

// mergeCause keeps whichever of old/new ranks higher, preferring new on ties.
func mergeCause(old, new Cause) Cause {
	if new.rank() >= old.rank() {
		return new
	}
	return old
}

// EventKind discriminates Event variants.
type EventKind int

const (
	EventIndexed EventKind = iota
	EventRemoved
	EventRenamed
	EventError
)

// Event is one notification published after a reindex batch is applied.
type Event struct {
	Kind  EventKind
	Path  string // Indexed, Removed
	From  string // Renamed
	To    string // Renamed
	Cause Cause
	Delta index.IndexDelta
	Error string // EventError
}
