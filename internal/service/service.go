// Package service owns a vault's live index: an initial build, a
// debounced fsnotify watcher that keeps it current, and a broadcast of
// what changed after each reindex batch.
package service

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/atomicobject/vaultdex/internal/index"
	"github.com/atomicobject/vaultdex/internal/vaultlog"
	"github.com/atomicobject/vaultdex/internal/vaultpath"
)

// Service builds and maintains a VaultIndex for one vault, optionally
// keeping it current via a filesystem watcher.
type Service struct {
	vault *vaultpath.Vault

	idx atomic.Pointer[index.VaultIndex]

	events *broadcaster

	watcher   *fsnotify.Watcher
	watchedMu sync.Mutex
	watched   map[string]struct{}

	cancel context.CancelFunc
	done   chan struct{}
}

// New constructs a Service with an empty index; call BuildIndex before
// relying on query results.
func New(v *vaultpath.Vault) *Service {
	s := &Service{
		vault:   v,
		events:  newBroadcaster(),
		watched: make(map[string]struct{}),
	}
	s.idx.Store(index.New())
	return s
}

// Vault returns the vault this service manages.
func (s *Service) Vault() *vaultpath.Vault { return s.vault }

// Index returns the current index pointer. Callers should treat it as
// read-only; a rebuild swaps in a new instance, while watch batches update
// the current instance in place.
func (s *Service) Index() *index.VaultIndex {
	return s.idx.Load()
}

// Subscribe returns a channel of future events and an unsubscribe func.
func (s *Service) Subscribe() (<-chan Event, func()) {
	return s.events.Subscribe()
}

// BuildIndex walks the vault and replaces the current index wholesale.
func (s *Service) BuildIndex() error {
	built, err := index.Build(s.vault)
	if err != nil {
		return err
	}
	s.idx.Store(built)
	return nil
}

// StartWatching installs an fsnotify watcher over the vault tree and
// begins the debounced reindex loop. Calling it twice is a no-op.
func (s *Service) StartWatching(ctx context.Context) error {
	if s.watcher != nil {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	s.watcher = w

	if err := s.addWatchesRecursive(s.vault.Root()); err != nil {
		_ = w.Close()
		s.watcher = nil
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.watchLoop(runCtx, s.vault.Config().WatchDebounce)
	return nil
}

// Shutdown stops the watcher and waits for the watch loop to exit.
func (s *Service) Shutdown() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.done != nil {
		<-s.done
	}
	if s.watcher != nil {
		_ = s.watcher.Close()
		s.watcher = nil
	}
}

func (s *Service) addWatchesRecursive(root string) error {
	return fileWalk(root, func(path string, isDir bool) error {
		if isDir {
			return s.addWatch(path)
		}
		return nil
	})
}

func (s *Service) addWatch(path string) error {
	s.watchedMu.Lock()
	if _, ok := s.watched[path]; ok {
		s.watchedMu.Unlock()
		return nil
	}
	s.watched[path] = struct{}{}
	s.watchedMu.Unlock()
	return s.watcher.Add(path)
}

func (s *Service) dropWatch(path string) {
	s.watchedMu.Lock()
	delete(s.watched, path)
	s.watchedMu.Unlock()
	_ = s.watcher.Remove(path)
}

// fileWalk is a minimal directory walker used only for initial watch
// registration; it does not apply vault ignore rules since every
// directory (even an ignored one) still needs a watch to observe its
// eventual removal, mirroring the teacher's "always watch directories"
// comment in its own crawl.
func fileWalk(root string, fn func(path string, isDir bool) error) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := fn(root, true); err != nil {
		return err
	}
	for _, e := range entries {
		full := root + string(os.PathSeparator) + e.Name()
		if e.IsDir() {
			if err := fileWalk(full, fn); err != nil {
				return err
			}
			continue
		}
		if err := fn(full, false); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) watchLoop(ctx context.Context, debounce time.Duration) {
	defer close(s.done)

	var pending []fsnotify.Event
	var timer *time.Timer
	var timerC <-chan time.Time

	armDebounce := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
		} else {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
		}
		timerC = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			pending = append(pending, ev)
			armDebounce()

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			vaultlog.Default().Warn("watcher error", "vault", s.vault.Root(), "error", err)
			s.events.Publish(Event{Kind: EventError, Error: err.Error()})

		case <-timerC:
			timerC = nil
			if len(pending) == 0 {
				continue
			}
			batch := pending
			pending = nil
			s.applyBatch(batch)
		}
	}
}

func (s *Service) applyBatch(batch []fsnotify.Event) {
	ops := eventsToOps(s.vault, batch)
	idx := s.idx.Load()

	for _, op := range ops {
		switch op.Kind {
		case opUpsert:
			s.applyUpsert(idx, op.Path, op.Cause)
		case opRemove:
			delta := idx.RemovePath(op.Path)
			s.events.Publish(Event{Kind: EventRemoved, Path: op.Path, Cause: op.Cause, Delta: delta})
		case opRename:
			removed := idx.RemovePath(op.From)
			added, addErr := s.upsertPath(idx, op.To)
			if addErr != nil {
				s.events.Publish(Event{Kind: EventError, Path: op.To, Error: addErr.Error()})
				added = index.IndexDelta{}
			}
			delta := index.IndexDelta{
				AddedTags:    added.AddedTags,
				RemovedTags:  removed.RemovedTags,
				AddedLinks:   added.AddedLinks,
				RemovedLinks: removed.RemovedLinks,
			}
			s.events.Publish(Event{Kind: EventRenamed, From: op.From, To: op.To, Cause: op.Cause, Delta: delta})
		}
	}
}

func (s *Service) applyUpsert(idx *index.VaultIndex, path string, cause Cause) {
	delta, err := s.upsertPath(idx, path)
	if err != nil {
		if os.IsNotExist(err) {
			delta := idx.RemovePath(path)
			s.events.Publish(Event{Kind: EventRemoved, Path: path, Cause: cause, Delta: delta})
			return
		}
		s.events.Publish(Event{Kind: EventError, Path: path, Error: err.Error()})
		return
	}
	s.events.Publish(Event{Kind: EventIndexed, Path: path, Cause: cause, Delta: delta})
}

func (s *Service) upsertPath(idx *index.VaultIndex, path string) (index.IndexDelta, error) {
	rel, err := vaultpath.New(path)
	if err != nil {
		return index.IndexDelta{}, err
	}
	abs := s.vault.ToAbs(rel)
	info, statErr := os.Stat(abs)
	if statErr == nil && info.IsDir() {
		_ = s.addWatch(abs)
		return index.IndexDelta{}, nil
	}
	return idx.UpsertPath(s.vault, rel)
}
