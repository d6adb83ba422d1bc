package match

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tiledraft/tiledraft-go/internal/game"
	"github.com/tiledraft/tiledraft-go/internal/game/rules"
	"github.com/tiledraft/tiledraft-go/internal/game/watchers"
)

// ErrMatchNotFound is returned when no match has the requested id.
var ErrMatchNotFound = errors.New("match not found")

// Match wraps a single game with its own lock so callers on different
// goroutines can share it.
type Match struct {
	ID         string
	CreateTime time.Time

	mu       sync.Mutex
	game     *game.Game
	watchers *rules.WatcherSet
	endTime  *time.Time
}

// Summary is a short description of a match for listings.
type Summary struct {
	ID         string     `json:"id"`
	Players    []string   `json:"players"`
	Round      int        `json:"round"`
	Phase      string     `json:"phase"`
	Ended      bool       `json:"ended"`
	CreateTime time.Time  `json:"create_time"`
	EndTime    *time.Time `json:"end_time,omitempty"`
}

// Snapshot is the full state of a match plus its registry metadata.
type Snapshot struct {
	ID         string                          `json:"id"`
	CreateTime time.Time                       `json:"create_time"`
	EndTime    *time.Time                      `json:"end_time,omitempty"`
	Checksum   string                          `json:"checksum"`
	State      game.Snapshot                   `json:"state"`
	Stats      map[string]watchers.PlayerStats `json:"stats"`
}

// Step applies a draft under the match lock.
func (m *Match) Step(d game.Draft) (game.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out, err := m.game.Step(d)
	if out.MatchEnded && m.endTime == nil {
		now := time.Now()
		m.endTime = &now
	}
	return out, err
}

// View runs fn with exclusive access to the underlying game. fn must not
// keep the pointer after it returns.
func (m *Match) View(fn func(g *game.Game)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.game)
}

// Snapshot returns a consistent copy of the match.
func (m *Match) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.game.Snapshot()
	return Snapshot{
		ID:         m.ID,
		CreateTime: m.CreateTime,
		EndTime:    cloneTime(m.endTime),
		Checksum:   state.Checksum(),
		State:      state,
		Stats:      watchers.Collect(m.watchers),
	}
}

// Summary returns a short description of the match.
func (m *Match) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	players := m.game.Players()
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return Summary{
		ID:         m.ID,
		Players:    names,
		Round:      m.game.Round(),
		Phase:      m.game.Phase().String(),
		Ended:      m.game.Ended(),
		CreateTime: m.CreateTime,
		EndTime:    cloneTime(m.endTime),
	}
}

// Ended reports whether the match is over.
func (m *Match) Ended() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.Ended()
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	t := *src
	return &t
}

// Manager keeps every running match in the process.
type Manager struct {
	matches map[string]*Match
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewManager creates an empty registry.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		matches: make(map[string]*Match),
		logger:  logger,
	}
}

// Create starts a new match and registers it under a fresh id. The standard
// stat watchers are attached to the match's event bus before the first deal.
func (m *Manager) Create(opts game.Options) (*Match, error) {
	id := uuid.New().String()
	if opts.Events == nil {
		opts.Events = rules.NewEventBus()
	}
	stats := watchers.Standard()
	stats.Attach(opts.Events)

	g, err := game.New(opts, m.logger.With(zap.String("match_id", id)))
	if err != nil {
		stats.Detach()
		return nil, fmt.Errorf("create match: %w", err)
	}
	match := &Match{
		ID:         id,
		CreateTime: time.Now(),
		game:       g,
		watchers:   stats,
	}

	m.mu.Lock()
	m.matches[id] = match
	m.mu.Unlock()

	m.logger.Info("match created",
		zap.String("match_id", id),
		zap.Strings("players", opts.Players),
		zap.Uint64("seed", g.Seed()),
	)
	return match, nil
}

// Get retrieves a match by id.
func (m *Manager) Get(id string) (*Match, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	match, ok := m.matches[id]
	return match, ok
}

// Step applies a draft to the match with the given id.
func (m *Manager) Step(id string, d game.Draft) (game.Outcome, error) {
	match, ok := m.Get(id)
	if !ok {
		return game.Outcome{}, fmt.Errorf("%s: %w", id, ErrMatchNotFound)
	}
	out, err := match.Step(d)
	if err != nil {
		m.logger.Error("match step failed",
			zap.String("match_id", id),
			zap.Error(err),
		)
	}
	return out, err
}

// Remove drops a match from the registry. It reports whether it existed.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	match, ok := m.matches[id]
	if !ok {
		return false
	}
	match.watchers.Detach()
	delete(m.matches, id)
	m.logger.Info("match removed", zap.String("match_id", id))
	return true
}

// List returns summaries of every match, oldest first.
func (m *Manager) List() []Summary {
	m.mu.RLock()
	matches := make([]*Match, 0, len(m.matches))
	for _, match := range m.matches {
		matches = append(matches, match)
	}
	m.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreateTime.Equal(matches[j].CreateTime) {
			return matches[i].CreateTime.Before(matches[j].CreateTime)
		}
		return matches[i].ID < matches[j].ID
	})

	out := make([]Summary, len(matches))
	for i, match := range matches {
		out[i] = match.Summary()
	}
	return out
}

// ActiveCount returns the number of matches still in progress.
func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, match := range m.matches {
		if !match.Ended() {
			count++
		}
	}
	return count
}
