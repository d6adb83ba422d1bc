package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tiledraft/tiledraft-go/internal/game/board"
	"github.com/tiledraft/tiledraft-go/internal/game/rules"
	"github.com/tiledraft/tiledraft-go/internal/game/tiles"
)

// ErrInvalidState marks a broken invariant. It is the same value the tiles
// package returns so callers only need one errors.Is check.
var ErrInvalidState = tiles.ErrInvalidState

// ErrUnsupportedPlayerCount is returned by New for anything but 2 or 3 players.
var ErrUnsupportedPlayerCount = fmt.Errorf("unsupported player count: %w", ErrInvalidState)

// ErrDuplicatePlayer is returned by New when two seats share a name.
var ErrDuplicatePlayer = errors.New("duplicate player name")

const (
	// CenterSource as a draft source means "take from the center pool".
	CenterSource = -1
	// FloorRow as a target row sends every drafted tile to the floor line.
	FloorRow = board.FloorRow

	MinPlayers = 2
	MaxPlayers = 3
)

// FactoriesFor returns the number of factory displays for a player count.
func FactoriesFor(players int) int {
	return 2*players + 1
}

// Options configures a new match.
type Options struct {
	Players       []string
	TilesPerColor int    // zero means tiles.DefaultPerColor
	Seed          uint64 // zero means seed from entropy
	SkipEndBonus  bool
	Events        *rules.EventBus // optional; a private bus is created when nil
}

// Draft is one player move: take Color from Factory (or CenterSource) and
// put it on pattern line Row (or FloorRow).
type Draft struct {
	Factory int         `json:"factory"`
	Color   tiles.Color `json:"color"`
	Row     int         `json:"row"`
}

// RejectReason explains why a draft was refused.
type RejectReason int

const (
	ReasonNone RejectReason = iota
	ReasonMatchEnded
	ReasonIllegalPlacement
	ReasonNoSuchFactory
	ReasonColorUnavailable
)

var reasonNames = map[RejectReason]string{
	ReasonNone:             "NONE",
	ReasonMatchEnded:       "MATCH_ENDED",
	ReasonIllegalPlacement: "ILLEGAL_PLACEMENT",
	ReasonNoSuchFactory:    "NO_SUCH_FACTORY",
	ReasonColorUnavailable: "COLOR_UNAVAILABLE",
}

func (r RejectReason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("REASON_%d", int(r))
}

// MarshalText renders the reason name.
func (r RejectReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Outcome is the result of a Step. A rejected outcome leaves the match
// exactly as it was.
type Outcome struct {
	Accepted   bool         `json:"accepted"`
	Reason     RejectReason `json:"reason,omitempty"`
	Taken      int          `json:"taken,omitempty"`
	Overflow   int          `json:"overflow,omitempty"`
	FirstToken bool         `json:"first_token,omitempty"`
	RoundEnded bool         `json:"round_ended,omitempty"`
	MatchEnded bool         `json:"match_ended,omitempty"`
}

func rejected(reason RejectReason) Outcome {
	return Outcome{Reason: reason}
}

// Game is a single match. It is not safe for concurrent use; see the match
// package for a registry that serialises access.
type Game struct {
	logger *zap.Logger
	opts   Options

	sampler   *tiles.Sampler
	supply    *tiles.Supply
	factories []*Factory
	center    *Center
	players   []*board.Board
	tracker   *rules.RoundTracker
	events    *rules.EventBus

	firstTokenHolder int // -1 while the token is in the center
	lineTiles        int // pattern-line tiles when the round was dealt
	bonuses          []board.Bonus
}

// New seats the players, builds the factories and deals the first round.
func New(opts Options, logger *zap.Logger) (*Game, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := len(opts.Players)
	if n < MinPlayers || n > MaxPlayers {
		return nil, fmt.Errorf("%d players: %w", n, ErrUnsupportedPlayerCount)
	}

	names := make([]string, n)
	seen := make(map[string]bool, n)
	for i, name := range opts.Players {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("player%d", i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("%q: %w", name, ErrDuplicatePlayer)
		}
		seen[name] = true
		names[i] = name
	}

	events := opts.Events
	if events == nil {
		events = rules.NewEventBus()
	}

	g := &Game{
		logger:           logger,
		opts:             opts,
		sampler:          tiles.NewSampler(opts.Seed),
		supply:           tiles.NewSupply(opts.TilesPerColor),
		center:           newCenter(),
		tracker:          rules.NewRoundTracker(names),
		events:           events,
		firstTokenHolder: -1,
	}
	for i := 0; i < FactoriesFor(n); i++ {
		g.factories = append(g.factories, newFactory(i))
	}
	for _, name := range names {
		g.players = append(g.players, board.New(name))
	}

	if err := g.startRound(0); err != nil {
		return nil, err
	}

	g.logger.Info("match started",
		zap.Strings("players", names),
		zap.Int("factories", len(g.factories)),
		zap.Int("tiles", g.supply.Total()),
		zap.Uint64("seed", g.sampler.Seed()),
	)
	return g, nil
}

// Events returns the bus the match publishes on.
func (g *Game) Events() *rules.EventBus { return g.events }

// IsSupplyExhausted reports whether every factory and the center are empty.
// The token does not count.
func (g *Game) IsSupplyExhausted() bool {
	for _, f := range g.factories {
		if !f.Empty() {
			return false
		}
	}
	return g.center.Count() == 0
}

// Step validates and applies one draft for the current player. Illegal drafts
// come back as a rejected Outcome with a nil error. A non-nil error means an
// invariant broke and the match should not continue.
func (g *Game) Step(d Draft) (Outcome, error) {
	if g.tracker.Ended() {
		return rejected(ReasonMatchEnded), nil
	}

	seat := g.tracker.Current()
	player := g.players[seat]
	if !player.CanPlace(d.Color, d.Row) {
		return rejected(ReasonIllegalPlacement), nil
	}

	out := Outcome{Accepted: true}
	switch {
	case d.Factory == CenterSource:
		if g.center.CountOf(d.Color) == 0 {
			return rejected(ReasonColorUnavailable), nil
		}
		n, tookToken, _ := g.center.TakeColor(d.Color)
		out.Taken = n
		if tookToken {
			out.FirstToken = true
			g.firstTokenHolder = seat
			player.AddFirstToken()
			g.publish(rules.NewEvent(rules.EventFirstTokenClaimed, g.tracker.Round(), player.Name()))
		}
	case d.Factory < 0 || d.Factory >= len(g.factories):
		return rejected(ReasonNoSuchFactory), nil
	default:
		f := g.factories[d.Factory]
		if !f.HasColor(d.Color) {
			return rejected(ReasonColorUnavailable), nil
		}
		stock := f.TakeAll()
		out.Taken = stock.RemoveAll(d.Color)
		if !stock.Empty() {
			evt := rules.NewEventWithAmount(rules.EventTilesToCenter, g.tracker.Round(), player.Name(), stock.Total())
			evt.Source = f.ID()
			g.publish(evt)
		}
		g.center.AddAll(stock)
	}

	floorBefore := len(player.Floor())
	player.Place(d.Color, out.Taken, d.Row)
	out.Overflow = len(player.Floor()) - floorBefore

	evt := rules.NewEventWithAmount(rules.EventTilesDrafted, g.tracker.Round(), player.Name(), out.Taken)
	evt.Source = d.Factory
	evt.Color = d.Color.String()
	evt.Flag = out.Overflow > 0
	evt.Metadata["row"] = strconv.Itoa(d.Row)
	evt.Metadata["overflow"] = strconv.Itoa(out.Overflow)
	g.publish(evt)

	g.logger.Debug("draft accepted",
		zap.String("player", player.Name()),
		zap.Int("source", d.Factory),
		zap.String("color", d.Color.String()),
		zap.Int("row", d.Row),
		zap.Int("taken", out.Taken),
		zap.Int("overflow", out.Overflow),
	)

	g.tracker.AdvanceTurn()
	if g.IsSupplyExhausted() {
		out.RoundEnded = true
		ended, err := g.endRound()
		if err != nil {
			return out, err
		}
		out.MatchEnded = ended
	} else {
		g.publish(rules.NewEvent(rules.EventTurnPassed, g.tracker.Round(), g.CurrentPlayerName()))
	}

	if err := g.checkConservation(); err != nil {
		return out, err
	}
	return out, nil
}

// endRound liquidates every board and either deals the next round or ends
// the match. The match ends when a wall row is complete, when no tile is left
// to deal, or when the round placed no tile on a pattern line or the wall.
func (g *Game) endRound() (bool, error) {
	round := g.tracker.Round()
	if err := g.tracker.BeginLiquidation(); err != nil {
		return false, fmt.Errorf("round %d: %w", round, errors.Join(ErrInvalidState, err))
	}

	progressed := g.patternLineTiles() > g.lineTiles
	ended := false
	for _, p := range g.players {
		res := p.Liquidate()
		g.supply.DiscardAll(res.Discarded)
		if res.Complete {
			ended = true
		}
		if len(res.Placed) > 0 {
			progressed = true
		}

		batch := make([]rules.Event, 0, len(res.Placed)+1)
		for _, placed := range res.Placed {
			evt := rules.NewEventWithAmount(rules.EventWallTilePlaced, round, p.Name(), placed.Points)
			evt.Color = placed.Color.String()
			batch = append(batch, evt)
		}
		evt := rules.NewEventWithAmount(rules.EventBoardLiquidated, round, p.Name(), res.ScoreDelta)
		evt.Flag = res.Complete
		batch = append(batch, evt)
		g.events.PublishBatch(batch)

		g.logger.Debug("board liquidated",
			zap.String("player", p.Name()),
			zap.Int("round", round),
			zap.Int("placed", len(res.Placed)),
			zap.Int("penalty", res.Penalty),
			zap.Int("score_delta", res.ScoreDelta),
			zap.Int("score", p.Score()),
		)
	}

	switch {
	case ended:
	case g.supply.Available() == 0:
		g.logger.Info("no tiles left to deal, ending match", zap.Int("round", round))
		ended = true
	case !progressed:
		g.logger.Info("round placed no tiles, ending match", zap.Int("round", round))
		ended = true
	}
	if ended {
		return true, g.finish()
	}

	starter := 0
	if g.firstTokenHolder >= 0 {
		starter = g.firstTokenHolder
	}
	g.firstTokenHolder = -1
	return false, g.startRound(starter)
}

// startRound recycles the discard pile if needed, refills every factory in
// order and puts the token back in the center.
func (g *Game) startRound(starter int) error {
	needed := TilesPerFactory * len(g.factories)
	if g.supply.EnsureCapacity(needed) {
		g.publish(rules.NewEventWithAmount(rules.EventSupplyRecycled, g.tracker.Round()+1, "", g.supply.BagCount()))
		g.logger.Debug("discard pile recycled", zap.Int("bag", g.supply.BagCount()))
	}

	dealt := 0
	for _, f := range g.factories {
		drawn, err := f.Refill(g.supply, g.sampler)
		if err != nil {
			return fmt.Errorf("refill factory %d: %w", f.ID(), err)
		}
		dealt += drawn
		evt := rules.NewEventWithAmount(rules.EventFactoryRefilled, g.tracker.Round()+1, "", drawn)
		evt.Source = f.ID()
		g.publish(evt)
	}
	if dealt < needed {
		g.publish(rules.NewEventWithAmount(rules.EventSupplyShort, g.tracker.Round()+1, "", needed-dealt))
		g.logger.Info("supply short, factories partially filled",
			zap.Int("needed", needed),
			zap.Int("dealt", dealt),
		)
	}

	g.supply.DiscardAll(g.center.Reset())

	if err := g.tracker.BeginRound(starter); err != nil {
		return errors.Join(ErrInvalidState, err)
	}
	g.lineTiles = g.patternLineTiles()
	g.publish(rules.NewEvent(rules.EventRoundStarted, g.tracker.Round(), g.tracker.CurrentPlayer()))
	return nil
}

// finish applies the end bonuses and closes the match.
func (g *Game) finish() error {
	if err := g.tracker.End(); err != nil {
		return errors.Join(ErrInvalidState, err)
	}
	g.bonuses = make([]board.Bonus, len(g.players))
	if !g.opts.SkipEndBonus {
		for i, p := range g.players {
			g.bonuses[i] = p.ApplyEndBonus()
			if total := g.bonuses[i].Total(); total > 0 {
				g.publish(rules.NewEventWithAmount(rules.EventEndBonusApplied, g.tracker.Round(), p.Name(), total))
			}
		}
	}

	winners := g.Winners()
	names := make([]string, len(winners))
	for i, w := range winners {
		names[i] = g.players[w].Name()
	}
	evt := rules.NewEvent(rules.EventMatchEnded, g.tracker.Round(), strings.Join(names, ","))
	evt.Amount = g.players[winners[0]].Score()
	g.publish(evt)

	g.logger.Info("match ended",
		zap.Int("rounds", g.tracker.Round()),
		zap.Strings("winners", names),
		zap.Int("winning_score", evt.Amount),
	)
	return nil
}

// Winners returns the seats with the best score. Ties go to the player with
// the most complete wall rows; players still tied share the win.
func (g *Game) Winners() []int {
	best := []int{0}
	for i := 1; i < len(g.players); i++ {
		switch cmp := compareStanding(g.players[i], g.players[best[0]]); {
		case cmp > 0:
			best = []int{i}
		case cmp == 0:
			best = append(best, i)
		}
	}
	return best
}

func compareStanding(a, b *board.Board) int {
	if a.Score() != b.Score() {
		return a.Score() - b.Score()
	}
	return a.CompleteRows() - b.CompleteRows()
}

func (g *Game) patternLineTiles() int {
	n := 0
	for _, p := range g.players {
		for _, line := range p.PatternLines() {
			n += line.Count
		}
	}
	return n
}

// checkConservation verifies that no tile was created or lost.
func (g *Game) checkConservation() error {
	total := g.supply.BagCount() + g.supply.DiscardCount() + g.center.Count()
	for _, f := range g.factories {
		total += f.Count()
	}
	for _, p := range g.players {
		total += p.TileCount()
	}
	if total != g.supply.Total() {
		return fmt.Errorf("tile count %d, want %d: %w", total, g.supply.Total(), ErrInvalidState)
	}
	return nil
}

func (g *Game) publish(evt rules.Event) {
	g.events.Publish(evt)
}
