package watchers

import (
	"strconv"
	"sync"

	"github.com/tiledraft/tiledraft-go/internal/game/rules"
)

// Watcher keys.
const (
	DraftKey = "DraftWatcher"
	WallKey  = "WallWatcher"
)

// DraftStats summarises one player's drafting.
type DraftStats struct {
	Drafts        int `json:"drafts"`
	TilesTaken    int `json:"tiles_taken"`
	Overflowed    int `json:"overflowed"`
	CenterDrafts  int `json:"center_drafts"`
	FirstTokens   int `json:"first_tokens"`
	TilesToCenter int `json:"tiles_to_center"`
}

// DraftWatcher tracks drafting activity per player.
type DraftWatcher struct {
	mu    sync.Mutex
	stats map[string]*DraftStats
}

// NewDraftWatcher creates a new draft watcher.
func NewDraftWatcher() *DraftWatcher {
	return &DraftWatcher{stats: make(map[string]*DraftStats)}
}

// Key implements rules.Watcher.
func (w *DraftWatcher) Key() string { return DraftKey }

// Watch implements rules.Watcher.
func (w *DraftWatcher) Watch(event rules.Event) {
	if event.Player == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	switch event.Type {
	case rules.EventTilesDrafted:
		s := w.player(event.Player)
		s.Drafts++
		s.TilesTaken += event.Amount
		if event.Source < 0 {
			s.CenterDrafts++
		}
		if event.Flag {
			n, _ := strconv.Atoi(event.Metadata["overflow"])
			s.Overflowed += n
		}
	case rules.EventFirstTokenClaimed:
		w.player(event.Player).FirstTokens++
	case rules.EventTilesToCenter:
		w.player(event.Player).TilesToCenter += event.Amount
	}
}

func (w *DraftWatcher) player(name string) *DraftStats {
	s, ok := w.stats[name]
	if !ok {
		s = &DraftStats{}
		w.stats[name] = s
	}
	return s
}

// Reset clears the watcher's state.
func (w *DraftWatcher) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stats = make(map[string]*DraftStats)
}

// Stats returns a copy of the per-player totals.
func (w *DraftWatcher) Stats() map[string]DraftStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string]DraftStats, len(w.stats))
	for name, s := range w.stats {
		out[name] = *s
	}
	return out
}

// WallStats summarises one player's liquidations.
type WallStats struct {
	TilesPlaced   int `json:"tiles_placed"`
	PlacementPts  int `json:"placement_points"`
	BestPlacement int `json:"best_placement"`
	ScoreDeltas   int `json:"score_deltas"`
	EndBonus      int `json:"end_bonus"`
}

// WallWatcher tracks wall placements and score changes per player.
type WallWatcher struct {
	mu    sync.Mutex
	stats map[string]*WallStats
}

// NewWallWatcher creates a new wall watcher.
func NewWallWatcher() *WallWatcher {
	return &WallWatcher{stats: make(map[string]*WallStats)}
}

// Key implements rules.Watcher.
func (w *WallWatcher) Key() string { return WallKey }

// Watch implements rules.Watcher.
func (w *WallWatcher) Watch(event rules.Event) {
	if event.Player == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	switch event.Type {
	case rules.EventWallTilePlaced:
		s := w.player(event.Player)
		s.TilesPlaced++
		s.PlacementPts += event.Amount
		s.BestPlacement = max(s.BestPlacement, event.Amount)
	case rules.EventBoardLiquidated:
		w.player(event.Player).ScoreDeltas += event.Amount
	case rules.EventEndBonusApplied:
		w.player(event.Player).EndBonus += event.Amount
	}
}

func (w *WallWatcher) player(name string) *WallStats {
	s, ok := w.stats[name]
	if !ok {
		s = &WallStats{}
		w.stats[name] = s
	}
	return s
}

// Reset clears the watcher's state.
func (w *WallWatcher) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stats = make(map[string]*WallStats)
}

// Stats returns a copy of the per-player totals.
func (w *WallWatcher) Stats() map[string]WallStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string]WallStats, len(w.stats))
	for name, s := range w.stats {
		out[name] = *s
	}
	return out
}

// PlayerStats combines both watchers for one player.
type PlayerStats struct {
	Draft DraftStats `json:"draft"`
	Wall  WallStats  `json:"wall"`
}

// Standard registers the default watchers on a new set.
func Standard() *rules.WatcherSet {
	set := rules.NewWatcherSet()
	set.Add(NewDraftWatcher())
	set.Add(NewWallWatcher())
	return set
}

// Collect merges the standard watchers' totals by player name.
func Collect(set *rules.WatcherSet) map[string]PlayerStats {
	out := make(map[string]PlayerStats)
	if w, ok := set.Get(DraftKey); ok {
		if dw, ok := w.(*DraftWatcher); ok {
			for name, s := range dw.Stats() {
				ps := out[name]
				ps.Draft = s
				out[name] = ps
			}
		}
	}
	if w, ok := set.Get(WallKey); ok {
		if ww, ok := w.(*WallWatcher); ok {
			for name, s := range ww.Stats() {
				ps := out[name]
				ps.Wall = s
				out[name] = ps
			}
		}
	}
	return out
}
