package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/tiledraft/tiledraft-go/internal/game/board"
	"github.com/tiledraft/tiledraft-go/internal/game/tiles"
)

// Checksum returns a SHA-256 over a canonical rendering of the match state.
// Two matches with the same checksum are in the same position.
func (g *Game) Checksum() string {
	return g.Snapshot().Checksum()
}

// Checksum hashes the canonical rendering of the snapshot.
func (s Snapshot) Checksum() string {
	sum := sha256.Sum256([]byte(s.canonical()))
	return hex.EncodeToString(sum[:])
}

// canonical renders the snapshot independent of map iteration order.
func (s Snapshot) canonical() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "MATCH:%s|%d|%d|%d|%d\n",
		s.Phase, s.Round, s.Turn, s.CurrentPlayer, s.FirstTokenHolder)

	for _, f := range s.Factories {
		fmt.Fprintf(&buf, "FACTORY:%d|%s\n", f.ID, colorCounts(f.Tiles))
	}
	fmt.Fprintf(&buf, "CENTER:%s|%t\n", colorCounts(s.Center.Tiles), s.Center.TokenAvailable)
	fmt.Fprintf(&buf, "BAG:%s\n", colorCounts(s.Supply.Bag))
	fmt.Fprintf(&buf, "DISCARD:%s\n", colorCounts(s.Supply.Discard))

	for _, p := range s.Players {
		fmt.Fprintf(&buf, "PLAYER:%d|%s|%d\n", p.Seat, p.Name, p.Score)
		for r, l := range p.PatternLines {
			fmt.Fprintf(&buf, "  LINE:%d|%s|%d\n", r, l.Color, l.Count)
		}
		for r := 0; r < board.Size; r++ {
			var row strings.Builder
			for c := 0; c < board.Size; c++ {
				if p.Wall[r][c].Filled {
					row.WriteByte('x')
				} else {
					row.WriteByte('.')
				}
			}
			fmt.Fprintf(&buf, "  WALL:%d|%s\n", r, row.String())
		}
		floor := make([]string, len(p.Floor))
		for i, t := range p.Floor {
			if t.FirstToken {
				floor[i] = "first"
			} else {
				floor[i] = t.Color.String()
			}
		}
		fmt.Fprintf(&buf, "  FLOOR:%s\n", strings.Join(floor, ","))
	}

	return buf.String()
}

func colorCounts(counts map[tiles.Color]int) string {
	parts := make([]string, 0, len(tiles.Colors))
	for _, c := range tiles.Colors {
		if n := counts[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", c, n))
		}
	}
	return strings.Join(parts, ",")
}
