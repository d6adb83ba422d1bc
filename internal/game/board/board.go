package board

import (
	"strings"

	"github.com/tiledraft/tiledraft-go/internal/game/tiles"
)

// FloorRow is the target row meaning "send every tile to the floor line".
const FloorRow = -1

// FloorPenalties is the per-slot penalty schedule; slots past the end cost nothing.
var FloorPenalties = []int{-1, -1, -2, -2, -2, -3, -3}

// PatternLine is a staging row. It holds a single color; Count == 0 means empty.
type PatternLine struct {
	Color    tiles.Color `json:"color"`
	Count    int         `json:"count"`
	Capacity int         `json:"capacity"`
}

// Full reports whether the line has reached its capacity.
func (l PatternLine) Full() bool { return l.Count >= l.Capacity }

// Empty reports whether the line holds no tiles.
func (l PatternLine) Empty() bool { return l.Count == 0 }

// FloorTile is one floor line slot: a colored tile or the first-player marker.
type FloorTile struct {
	Color      tiles.Color `json:"color"`
	FirstToken bool        `json:"first_token,omitempty"`
}

// WallPlacement records a tile moved onto the wall during liquidation.
type WallPlacement struct {
	Row    int         `json:"row"`
	Column int         `json:"column"`
	Color  tiles.Color `json:"color"`
	Points int         `json:"points"`
}

// Liquidation is the outcome of resolving a board at the end of a round.
type Liquidation struct {
	Discarded  tiles.Bag[tiles.Color]
	Complete   bool
	Placed     []WallPlacement
	Penalty    int
	ScoreDelta int
}

// Bonus breaks down the end-of-match bonus.
type Bonus struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
	Colors  int `json:"colors"`
}

// Total sums every bonus component.
func (b Bonus) Total() int { return b.Rows + b.Columns + b.Colors }

// End-of-match bonus values.
const (
	RowBonus    = 2
	ColumnBonus = 7
	ColorBonus  = 10
)

// Board is one player's pattern lines, wall, floor line and score.
type Board struct {
	name  string
	lines [Size]PatternLine
	wall  Wall
	floor []FloorTile
	score int
}

// New creates an empty board for the named player.
func New(name string) *Board {
	b := &Board{
		name:  strings.TrimSpace(name),
		wall:  newWall(),
		floor: make([]FloorTile, 0, len(FloorPenalties)),
	}
	for i := range b.lines {
		b.lines[i].Capacity = i + 1
	}
	return b
}

// Name returns the player name.
func (b *Board) Name() string { return b.name }

// Score returns the current score.
func (b *Board) Score() int { return b.score }

// PatternLines returns a copy of the pattern lines.
func (b *Board) PatternLines() [Size]PatternLine { return b.lines }

// Wall returns a copy of the wall.
func (b *Board) Wall() Wall { return b.wall }

// Floor returns a copy of the floor line.
func (b *Board) Floor() []FloorTile {
	out := make([]FloorTile, len(b.floor))
	copy(out, b.floor)
	return out
}

// CanPlace reports whether tiles of color may target row. The floor row is
// always legal.
func (b *Board) CanPlace(color tiles.Color, row int) bool {
	if row == FloorRow {
		return true
	}
	if row < 0 || row >= Size {
		return false
	}
	line := b.lines[row]
	if !line.Empty() && line.Color != color {
		return false
	}
	return !b.wall.filledColor(row, color)
}

// Place puts n tiles of color on row, overflowing past capacity onto the floor.
// Callers check CanPlace first.
func (b *Board) Place(color tiles.Color, n, row int) {
	overflow := n
	if row != FloorRow {
		line := &b.lines[row]
		room := line.Capacity - line.Count
		take := min(n, room)
		if take > 0 {
			line.Color = color
			line.Count += take
		}
		overflow = n - take
	}
	for i := 0; i < overflow; i++ {
		b.floor = append(b.floor, FloorTile{Color: color})
	}
}

// AddFirstToken puts the first-player marker on the floor line.
func (b *Board) AddFirstToken() {
	b.floor = append(b.floor, FloorTile{FirstToken: true})
}

// HasFirstToken reports whether the marker is on the floor line.
func (b *Board) HasFirstToken() bool {
	for _, t := range b.floor {
		if t.FirstToken {
			return true
		}
	}
	return false
}

// FloorPenalty is the penalty the current floor line would cost.
func (b *Board) FloorPenalty() int {
	return floorPenalty(len(b.floor))
}

func floorPenalty(n int) int {
	penalty := 0
	for i := 0; i < n && i < len(FloorPenalties); i++ {
		penalty += FloorPenalties[i]
	}
	return penalty
}

// Liquidate resolves the board at the end of a round. Full pattern lines move
// one tile to the wall and discard the rest; floor tiles are discarded and
// their penalty applied. Lines resolve top to bottom, so a tile placed earlier
// in the same liquidation counts as a neighbour for later ones.
func (b *Board) Liquidate() Liquidation {
	res := Liquidation{Discarded: tiles.NewBag[tiles.Color]()}

	for r := range b.lines {
		line := &b.lines[r]
		if line.Empty() || !line.Full() {
			continue
		}
		c := WallColumn(r, line.Color)
		b.wall[r][c].Filled = true
		points := b.wall.placementScore(r, c)
		res.Placed = append(res.Placed, WallPlacement{Row: r, Column: c, Color: line.Color, Points: points})
		res.ScoreDelta += points
		res.Discarded.Add(line.Color, line.Count-1)
		*line = PatternLine{Capacity: line.Capacity}
	}

	for _, t := range b.floor {
		if !t.FirstToken {
			res.Discarded.Add(t.Color, 1)
		}
	}
	res.Penalty = floorPenalty(len(b.floor))
	res.ScoreDelta += res.Penalty
	b.floor = b.floor[:0]

	before := b.score
	b.score = max(0, b.score+res.ScoreDelta)
	res.ScoreDelta = b.score - before
	res.Complete = b.Complete()
	return res
}

// Complete reports whether any wall row is fully filled.
func (b *Board) Complete() bool {
	return b.CompleteRows() > 0
}

// CompleteRows counts fully filled wall rows.
func (b *Board) CompleteRows() int {
	n := 0
	for r := 0; r < Size; r++ {
		if b.wall.rowComplete(r) {
			n++
		}
	}
	return n
}

// FilledCells counts filled wall cells.
func (b *Board) FilledCells() int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.wall[r][c].Filled {
				n++
			}
		}
	}
	return n
}

// TileCount is the number of tiles the board currently holds: pattern lines,
// colored floor tiles and filled wall cells.
func (b *Board) TileCount() int {
	n := b.FilledCells()
	for _, l := range b.lines {
		n += l.Count
	}
	for _, t := range b.floor {
		if !t.FirstToken {
			n++
		}
	}
	return n
}

// EndBonus computes the end-of-match bonus without applying it.
func (b *Board) EndBonus() Bonus {
	var bonus Bonus
	for i := 0; i < Size; i++ {
		if b.wall.rowComplete(i) {
			bonus.Rows += RowBonus
		}
		if b.wall.columnComplete(i) {
			bonus.Columns += ColumnBonus
		}
	}
	for _, color := range tiles.Colors {
		if b.wall.colorComplete(color) {
			bonus.Colors += ColorBonus
		}
	}
	return bonus
}

// ApplyEndBonus adds the end-of-match bonus to the score and returns it.
func (b *Board) ApplyEndBonus() Bonus {
	bonus := b.EndBonus()
	b.score += bonus.Total()
	return bonus
}
