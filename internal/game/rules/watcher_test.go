package rules

import "testing"

type countingWatcher struct {
	key   string
	seen  int
	types []EventType
}

func (w *countingWatcher) Watch(e Event) {
	w.seen++
	w.types = append(w.types, e.Type)
}
func (w *countingWatcher) Reset()      { w.seen = 0; w.types = nil }
func (w *countingWatcher) Key() string { return w.key }

func TestWatcherSetAttachAndDetach(t *testing.T) {
	bus := NewEventBus()
	set := NewWatcherSet()
	a := &countingWatcher{key: "a"}
	b := &countingWatcher{key: "b"}
	set.Add(a)
	set.Add(b)
	set.Add(nil)

	set.Attach(bus)
	bus.Publish(NewEvent(EventTilesDrafted, 1, "alice"))
	bus.Publish(NewEvent(EventTurnPassed, 1, "bob"))
	if a.seen != 2 || b.seen != 2 {
		t.Fatalf("expected both watchers to see 2 events, got %d/%d", a.seen, b.seen)
	}

	set.Detach()
	bus.Publish(NewEvent(EventMatchEnded, 1, ""))
	if a.seen != 2 {
		t.Fatalf("detached set must not receive events, got %d", a.seen)
	}
}

func TestWatcherSetReattachMoves(t *testing.T) {
	first, second := NewEventBus(), NewEventBus()
	set := NewWatcherSet()
	w := &countingWatcher{key: "w"}
	set.Add(w)

	set.Attach(first)
	set.Attach(second)
	first.Publish(NewEvent(EventRoundStarted, 1, ""))
	second.Publish(NewEvent(EventRoundStarted, 1, ""))
	if w.seen != 1 {
		t.Fatalf("expected only the second bus to deliver, got %d", w.seen)
	}
}

func TestWatcherSetLookupAndReset(t *testing.T) {
	set := NewWatcherSet()
	set.Add(&countingWatcher{key: "z"})
	set.Add(&countingWatcher{key: "m"})

	keys := set.Keys()
	if len(keys) != 2 || keys[0] != "m" || keys[1] != "z" {
		t.Fatalf("expected sorted keys [m z], got %v", keys)
	}

	set.Watch(NewEvent(EventTilesDrafted, 1, "alice"))
	w, ok := set.Get("z")
	if !ok {
		t.Fatal("expected watcher z")
	}
	if w.(*countingWatcher).seen != 1 {
		t.Fatalf("expected 1 event, got %d", w.(*countingWatcher).seen)
	}

	set.Reset()
	if w.(*countingWatcher).seen != 0 {
		t.Fatal("reset did not clear watcher")
	}
	if _, ok := set.Get("missing"); ok {
		t.Fatal("unexpected watcher for missing key")
	}
}
