package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/tiledraft/tiledraft-go/internal/game"
	"github.com/tiledraft/tiledraft-go/internal/game/board"
	"github.com/tiledraft/tiledraft-go/internal/game/rules"
	"github.com/tiledraft/tiledraft-go/internal/game/tiles"
	"github.com/tiledraft/tiledraft-go/internal/game/watchers"
)

var colorGlyphs = map[tiles.Color]byte{
	tiles.Blue:   'B',
	tiles.Yellow: 'Y',
	tiles.Red:    'R',
	tiles.Black:  'K',
	tiles.White:  'W',
}

const (
	emptySlot = '_'
	emptyCell = '.'
	markerTok = '1'
)

func glyph(c tiles.Color) byte {
	if g, ok := colorGlyphs[c]; ok {
		return g
	}
	return '?'
}

// counts renders "blue=2 red=1" in color order.
func counts(m map[tiles.Color]int) string {
	parts := make([]string, 0, len(m))
	for _, c := range tiles.Colors {
		if n := m[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", c, n))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

// Render writes the whole match state as plain text.
func Render(w io.Writer, s game.Snapshot) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Round %d  (%s)\n", s.Round, s.Phase)
	if len(s.Players) > 0 && s.Phase != rules.PhaseEnded {
		fmt.Fprintf(&b, "Current player: %s\n", s.Players[s.CurrentPlayer].Name)
	}
	if s.FirstTokenHolder >= 0 && s.FirstTokenHolder < len(s.Players) {
		fmt.Fprintf(&b, "First token: %s\n", s.Players[s.FirstTokenHolder].Name)
	} else if s.Center.TokenAvailable {
		b.WriteString("First token: center\n")
	}

	for _, f := range s.Factories {
		fmt.Fprintf(&b, "Factory %d: %s\n", f.ID, counts(f.Tiles))
	}
	fmt.Fprintf(&b, "Center: %s\n", counts(s.Center.Tiles))
	fmt.Fprintf(&b, "Bag: %d  Discard: %d\n", s.Supply.BagCount, s.Supply.DiscardCount)

	for _, p := range s.Players {
		b.WriteByte('\n')
		renderPlayer(&b, p)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderPlayer(b *strings.Builder, p game.PlayerView) {
	fmt.Fprintf(b, "%s: %d points\n", p.Name, p.Score)
	for r, line := range p.PatternLines {
		fmt.Fprintf(b, "%d: %s -> %s\n", r, patternLine(line), wallRow(p.Wall, r))
	}
	floor := make([]byte, len(p.Floor))
	for i, t := range p.Floor {
		if t.FirstToken {
			floor[i] = markerTok
		} else {
			floor[i] = glyph(t.Color)
		}
	}
	fmt.Fprintf(b, "Floor: %s (%d)\n", string(floor), p.FloorPenalty)
	if p.Bonus != nil && p.Bonus.Total() > 0 {
		fmt.Fprintf(b, "Bonus: rows +%d, columns +%d, colors +%d\n", p.Bonus.Rows, p.Bonus.Columns, p.Bonus.Colors)
	}
}

// patternLine right-aligns a line so every row ends at the wall.
func patternLine(l board.PatternLine) string {
	out := make([]byte, 0, board.Size)
	for i := l.Capacity; i < board.Size; i++ {
		out = append(out, ' ')
	}
	for i := l.Count; i < l.Capacity; i++ {
		out = append(out, emptySlot)
	}
	for i := 0; i < l.Count; i++ {
		out = append(out, glyph(l.Color))
	}
	return string(out)
}

func wallRow(w board.Wall, r int) string {
	out := make([]byte, board.Size)
	for c, cell := range w[r] {
		if cell.Filled {
			out[c] = glyph(cell.Color)
		} else {
			out[c] = emptyCell
		}
	}
	return string(out)
}

// DescribeOutcome turns a step result into a one-line message.
func DescribeOutcome(out game.Outcome) string {
	if !out.Accepted {
		return "Rejected: " + strings.ToLower(strings.ReplaceAll(out.Reason.String(), "_", " "))
	}
	msg := fmt.Sprintf("Took %d tile(s)", out.Taken)
	if out.Overflow > 0 {
		msg += fmt.Sprintf(", %d to the floor", out.Overflow)
	}
	if out.FirstToken {
		msg += ", took the first token"
	}
	switch {
	case out.MatchEnded:
		msg += ". Match over."
	case out.RoundEnded:
		msg += ". Round over."
	default:
		msg += "."
	}
	return msg
}

// RenderResult writes the final standings.
func RenderResult(w io.Writer, s game.Snapshot) error {
	var b strings.Builder
	b.WriteString("Final scores:\n")
	winners := make(map[int]bool, len(s.Winners))
	for _, seat := range s.Winners {
		winners[seat] = true
	}
	for _, p := range s.Players {
		mark := ""
		if winners[p.Seat] {
			mark = "  *winner*"
		}
		fmt.Fprintf(&b, "  %s: %d%s\n", p.Name, p.Score, mark)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderStats prints the per-player draft and wall totals in seat order.
func RenderStats(w io.Writer, s game.Snapshot, stats map[string]watchers.PlayerStats) error {
	var b strings.Builder
	b.WriteString("Stats:\n")
	for _, p := range s.Players {
		st := stats[p.Name]
		fmt.Fprintf(&b, "  %s: %d drafts, %d tiles, %d to floor, %d placed for %d points (best %d)\n",
			p.Name, st.Draft.Drafts, st.Draft.TilesTaken, st.Draft.Overflowed,
			st.Wall.TilesPlaced, st.Wall.PlacementPts, st.Wall.BestPlacement)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
