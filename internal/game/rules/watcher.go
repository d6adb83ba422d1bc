package rules

import (
	"sort"
	"sync"
)

// Watcher observes match events and accumulates some derived state.
type Watcher interface {
	// Watch is called for every published event.
	Watch(event Event)

	// Reset clears whatever the watcher has accumulated.
	Reset()

	// Key uniquely names the watcher within a WatcherSet.
	Key() string
}

// WatcherSet fans events out to a group of watchers and lets callers look
// them up by key.
type WatcherSet struct {
	mu       sync.RWMutex
	watchers map[string]Watcher
	handle   int
	bus      *EventBus
}

// NewWatcherSet creates an empty set.
func NewWatcherSet() *WatcherSet {
	return &WatcherSet{watchers: make(map[string]Watcher), handle: -1}
}

// Add registers w, replacing any watcher with the same key.
func (ws *WatcherSet) Add(w Watcher) {
	if w == nil {
		return
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.watchers[w.Key()] = w
}

// Get returns the watcher registered under key.
func (ws *WatcherSet) Get(key string) (Watcher, bool) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	w, ok := ws.watchers[key]
	return w, ok
}

// Keys lists registered keys in order.
func (ws *WatcherSet) Keys() []string {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	keys := make([]string, 0, len(ws.watchers))
	for k := range ws.watchers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Watch delivers event to every watcher in key order.
func (ws *WatcherSet) Watch(event Event) {
	for _, k := range ws.Keys() {
		if w, ok := ws.Get(k); ok {
			w.Watch(event)
		}
	}
}

// Reset resets every watcher.
func (ws *WatcherSet) Reset() {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	for _, w := range ws.watchers {
		w.Reset()
	}
}

// Attach subscribes the set to bus. A set can be attached to one bus at a
// time; attaching again moves it.
func (ws *WatcherSet) Attach(bus *EventBus) {
	ws.Detach()
	if bus == nil {
		return
	}
	ws.mu.Lock()
	ws.bus = bus
	ws.mu.Unlock()
	handle := bus.Subscribe(ws.Watch)
	ws.mu.Lock()
	ws.handle = handle
	ws.mu.Unlock()
}

// Detach unsubscribes the set from its bus.
func (ws *WatcherSet) Detach() {
	ws.mu.Lock()
	bus, handle := ws.bus, ws.handle
	ws.bus, ws.handle = nil, -1
	ws.mu.Unlock()
	if bus != nil {
		bus.Unsubscribe(handle)
	}
}
