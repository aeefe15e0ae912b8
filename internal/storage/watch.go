package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/julianstephens/worktrack/internal/constants"
	"github.com/julianstephens/worktrack/internal/logger"
)

// EventType describes which persisted file changed.
type EventType int

const (
	// EventEntriesChanged indicates the entry log was rewritten.
	EventEntriesChanged EventType = iota
	// EventConfigChanged indicates the config file was rewritten.
	EventConfigChanged
)

// Event is emitted by Store.Watch when a persisted file changes on disk.
type Event struct {
	Type EventType
	Path string
}

var watchThrottle = 100 * time.Millisecond

// Watch streams change events for the entry log and config until ctx is cancelled.
// Writes made through this Store are reported too, since every write is a rename.
// The channel is closed once ctx is done or the watcher fails.
func (s *Store) Watch(ctx context.Context) (<-chan Event, error) {
	if err := os.MkdirAll(s.dir, constants.DirPerm); err != nil {
		return nil, fmt.Errorf("store: ensure data dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	// Watch the directory rather than the files: atomic renames replace the inode.
	if err := watcher.Add(s.dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("store: watch %s: %w", s.dir, err)
	}

	events := make(chan Event, 16)

	go func() {
		defer close(events)
		defer func() {
			if err := watcher.Close(); err != nil {
				logger.Warn("store: watcher close failed", "error", err)
			}
		}()

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
				// Drop when the consumer is behind; its next reload sees the latest state.
			}
		}

		throttle := newEventThrottle(watchThrottle)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("store: watcher error", "error", err)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Rename) {
					continue
				}
				switch filepath.Base(evt.Name) {
				case constants.DataFileName:
					throttle.Enqueue(Event{Type: EventEntriesChanged, Path: s.dataPath}, send)
				case constants.ConfigFileName:
					throttle.Enqueue(Event{Type: EventConfigChanged, Path: s.configPath}, send)
				}
			}
		}
	}()

	return events, nil
}

// eventThrottle coalesces bursts of notifications into one event per type.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[EventType]Event
	delay   time.Duration
	stopped bool
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[EventType]Event),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.pending[ev.Type] = ev
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
}

// flush holds mu while sending so nothing is sent after Stop returns.
func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timer = nil
	if t.stopped {
		return
	}
	pending := t.pending
	t.pending = make(map[EventType]Event)
	for _, ev := range pending {
		send(ev)
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
