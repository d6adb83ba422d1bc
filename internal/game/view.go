package game

import (
	"github.com/tiledraft/tiledraft-go/internal/game/board"
	"github.com/tiledraft/tiledraft-go/internal/game/rules"
	"github.com/tiledraft/tiledraft-go/internal/game/tiles"
)

// FactoryView is a read-only copy of one factory display.
type FactoryView struct {
	ID    int                 `json:"id"`
	Tiles map[tiles.Color]int `json:"tiles"`
	Count int                 `json:"count"`
}

// CenterView is a read-only copy of the center pool.
type CenterView struct {
	Tiles          map[tiles.Color]int `json:"tiles"`
	Count          int                 `json:"count"`
	TokenAvailable bool                `json:"token_available"`
}

// PlayerView is a read-only copy of one player's board.
type PlayerView struct {
	Seat         int                           `json:"seat"`
	Name         string                        `json:"name"`
	Score        int                           `json:"score"`
	PatternLines [board.Size]board.PatternLine `json:"pattern_lines"`
	Wall         board.Wall                    `json:"wall"`
	Floor        []board.FloorTile             `json:"floor"`
	FloorPenalty int                           `json:"floor_penalty"`
	Complete     bool                          `json:"complete"`
	Bonus        *board.Bonus                  `json:"bonus,omitempty"`
}

// SupplyView summarises the draw bag and discard pile.
type SupplyView struct {
	Bag          map[tiles.Color]int `json:"bag"`
	Discard      map[tiles.Color]int `json:"discard"`
	BagCount     int                 `json:"bag_count"`
	DiscardCount int                 `json:"discard_count"`
	Total        int                 `json:"total"`
}

// Snapshot is a value copy of the whole match, safe to hand to renderers
// and to encode as JSON.
type Snapshot struct {
	Phase            rules.Phase   `json:"phase"`
	Round            int           `json:"round"`
	Turn             int           `json:"turn"`
	CurrentPlayer    int           `json:"current_player"`
	FirstTokenHolder int           `json:"first_token_holder"`
	Factories        []FactoryView `json:"factories"`
	Center           CenterView    `json:"center"`
	Players          []PlayerView  `json:"players"`
	Supply           SupplyView    `json:"supply"`
	Winners          []int         `json:"winners,omitempty"`
}

// Factories returns copies of every factory display in id order.
func (g *Game) Factories() []FactoryView {
	out := make([]FactoryView, len(g.factories))
	for i, f := range g.factories {
		out[i] = FactoryView{ID: f.ID(), Tiles: f.stock.Map(), Count: f.Count()}
	}
	return out
}

// Center returns a copy of the center pool.
func (g *Game) Center() CenterView {
	return CenterView{
		Tiles:          g.center.stock.Map(),
		Count:          g.center.Count(),
		TokenAvailable: g.center.TokenAvailable(),
	}
}

// Players returns copies of every board in seating order.
func (g *Game) Players() []PlayerView {
	out := make([]PlayerView, len(g.players))
	for i, p := range g.players {
		out[i] = PlayerView{
			Seat:         i,
			Name:         p.Name(),
			Score:        p.Score(),
			PatternLines: p.PatternLines(),
			Wall:         p.Wall(),
			Floor:        p.Floor(),
			FloorPenalty: p.FloorPenalty(),
			Complete:     p.Complete(),
		}
		if i < len(g.bonuses) {
			bonus := g.bonuses[i]
			out[i].Bonus = &bonus
		}
	}
	return out
}

// Supply returns the bag and discard counts.
func (g *Game) Supply() SupplyView {
	return SupplyView{
		Bag:          g.supply.Bag().Map(),
		Discard:      g.supply.DiscardPile().Map(),
		BagCount:     g.supply.BagCount(),
		DiscardCount: g.supply.DiscardCount(),
		Total:        g.supply.Total(),
	}
}

// CurrentPlayer returns the seat whose turn it is.
func (g *Game) CurrentPlayer() int { return g.tracker.Current() }

// CurrentPlayerName returns the name of the player whose turn it is.
func (g *Game) CurrentPlayerName() string { return g.tracker.CurrentPlayer() }

// FirstTokenHolder returns the seat that took the token this round, if any.
func (g *Game) FirstTokenHolder() (int, bool) {
	return g.firstTokenHolder, g.firstTokenHolder >= 0
}

// Round returns the current round number, starting at 1.
func (g *Game) Round() int { return g.tracker.Round() }

// Phase returns the match phase.
func (g *Game) Phase() rules.Phase { return g.tracker.Phase() }

// Ended reports whether the match is over.
func (g *Game) Ended() bool { return g.tracker.Ended() }

// Seed returns the sampler seed, so a match can be replayed with the same
// draws.
func (g *Game) Seed() uint64 { return g.sampler.Seed() }

// Snapshot copies the full match state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Phase:            g.tracker.Phase(),
		Round:            g.tracker.Round(),
		Turn:             g.tracker.Turn(),
		CurrentPlayer:    g.tracker.Current(),
		FirstTokenHolder: g.firstTokenHolder,
		Factories:        g.Factories(),
		Center:           g.Center(),
		Players:          g.Players(),
		Supply:           g.Supply(),
	}
	if g.tracker.Ended() {
		s.Winners = g.Winners()
	}
	return s
}
