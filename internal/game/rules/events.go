package rules

import (
	"sync"
	"time"
)

// EventType indicates the category of a match event.
type EventType string

const (
	// Round events
	EventRoundStarted    EventType = "ROUND_STARTED"
	EventSupplyRecycled  EventType = "SUPPLY_RECYCLED"
	EventFactoryRefilled EventType = "FACTORY_REFILLED"
	EventSupplyShort     EventType = "SUPPLY_SHORT"

	// Draft events
	EventTilesDrafted      EventType = "TILES_DRAFTED"
	EventTilesToCenter     EventType = "TILES_TO_CENTER"
	EventFirstTokenClaimed EventType = "FIRST_TOKEN_CLAIMED"
	EventTurnPassed        EventType = "TURN_PASSED"

	// Resolution events
	EventWallTilePlaced  EventType = "WALL_TILE_PLACED"
	EventBoardLiquidated EventType = "BOARD_LIQUIDATED"
	EventEndBonusApplied EventType = "END_BONUS_APPLIED"
	EventMatchEnded      EventType = "MATCH_ENDED"
)

// Event is a single notification published on the bus. Fields that do not
// apply to an event type are left at their zero value.
type Event struct {
	Type      EventType
	Round     int
	Player    string // Player the event concerns, if any
	Source    int    // Factory id, or -1 for the center
	Color     string // Tile color name
	Amount    int    // Tile count, points or penalty
	Flag      bool   // Overflow, token claimed, etc.
	Timestamp time.Time
	Metadata  map[string]string
}

// NewEvent creates an event with common fields populated.
func NewEvent(eventType EventType, round int, player string) Event {
	return Event{
		Type:      eventType,
		Round:     round,
		Player:    player,
		Source:    -1,
		Timestamp: time.Now(),
		Metadata:  make(map[string]string),
	}
}

// NewEventWithAmount creates an event with an amount value.
func NewEventWithAmount(eventType EventType, round int, player string, amount int) Event {
	evt := NewEvent(eventType, round, player)
	evt.Amount = amount
	return evt
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

type subscription struct {
	handle    int
	eventType EventType // empty means every type
	callback  Listener
}

// EventBus provides a synchronous publish/subscribe implementation with type
// filtering. Listeners are called in subscription order.
type EventBus struct {
	mu         sync.RWMutex
	subs       []subscription
	nextHandle int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	return bus.add("", listener)
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, listener Listener) int {
	if eventType == "" {
		return -1
	}
	return bus.add(eventType, listener)
}

func (bus *EventBus) add(eventType EventType, listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.subs = append(bus.subs, subscription{handle: handle, eventType: eventType, callback: listener})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, s := range bus.subs {
		if s.handle == handle {
			bus.subs = append(bus.subs[:i], bus.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to all matching listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	subs := make([]subscription, len(bus.subs))
	copy(subs, bus.subs)
	bus.mu.RUnlock()

	for _, s := range subs {
		if s.eventType == "" || s.eventType == event.Type {
			s.callback(event)
		}
	}
}

// PublishBatch publishes several events in order.
func (bus *EventBus) PublishBatch(events []Event) {
	for _, event := range events {
		bus.Publish(event)
	}
}
