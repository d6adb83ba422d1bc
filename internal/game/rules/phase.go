package rules

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPhaseTransition is returned when the tracker is asked to move to a phase
// that cannot follow the current one.
var ErrPhaseTransition = errors.New("illegal phase transition")

// Phase represents the broad phases of a match.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseDrafting
	PhaseLiquidating
	PhaseEnded
)

var phaseNames = map[Phase]string{
	PhaseSetup:       "SETUP",
	PhaseDrafting:    "DRAFTING",
	PhaseLiquidating: "LIQUIDATING",
	PhaseEnded:       "ENDED",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// MarshalText renders the phase name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// next lists the phases each phase may move to.
var next = map[Phase][]Phase{
	PhaseSetup:       {PhaseDrafting},
	PhaseDrafting:    {PhaseLiquidating},
	PhaseLiquidating: {PhaseDrafting, PhaseEnded},
}

// RoundTracker tracks the phase, the round number and whose turn it is.
type RoundTracker struct {
	phase   Phase
	round   int
	turn    int
	current int
	players []string
}

// NewRoundTracker creates a tracker in the setup phase with the first player
// to act.
func NewRoundTracker(players []string) *RoundTracker {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = strings.TrimSpace(p)
	}
	return &RoundTracker{players: names}
}

// Phase returns the phase currently in progress.
func (rt *RoundTracker) Phase() Phase { return rt.phase }

// Round returns the current round number (1-based once drafting has begun).
func (rt *RoundTracker) Round() int { return rt.round }

// Turn returns the number of drafts taken so far this round.
func (rt *RoundTracker) Turn() int { return rt.turn }

// Current returns the index of the player who has the turn.
func (rt *RoundTracker) Current() int { return rt.current }

// CurrentPlayer returns the name of the player who has the turn.
func (rt *RoundTracker) CurrentPlayer() string {
	if len(rt.players) == 0 {
		return ""
	}
	return rt.players[rt.current]
}

// Players returns the seating order.
func (rt *RoundTracker) Players() []string {
	out := make([]string, len(rt.players))
	copy(out, rt.players)
	return out
}

// Ended reports whether the match is over.
func (rt *RoundTracker) Ended() bool { return rt.phase == PhaseEnded }

// AdvanceTurn passes the turn to the next player in seating order and
// returns the new current index.
func (rt *RoundTracker) AdvanceTurn() int {
	if len(rt.players) > 0 {
		rt.current = (rt.current + 1) % len(rt.players)
	}
	rt.turn++
	return rt.current
}

// BeginRound starts drafting for the next round with starter to act first.
func (rt *RoundTracker) BeginRound(starter int) error {
	if err := rt.transition(PhaseDrafting); err != nil {
		return err
	}
	if starter < 0 || starter >= len(rt.players) {
		starter = 0
	}
	rt.round++
	rt.turn = 0
	rt.current = starter
	return nil
}

// BeginLiquidation closes drafting for the current round.
func (rt *RoundTracker) BeginLiquidation() error {
	return rt.transition(PhaseLiquidating)
}

// End finishes the match.
func (rt *RoundTracker) End() error {
	return rt.transition(PhaseEnded)
}

func (rt *RoundTracker) transition(to Phase) error {
	for _, p := range next[rt.phase] {
		if p == to {
			rt.phase = to
			return nil
		}
	}
	return fmt.Errorf("%s -> %s: %w", rt.phase, to, ErrPhaseTransition)
}
