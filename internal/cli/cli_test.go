package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tiledraft/tiledraft-go/internal/game"
	"github.com/tiledraft/tiledraft-go/internal/game/board"
	"github.com/tiledraft/tiledraft-go/internal/game/tiles"
	"github.com/tiledraft/tiledraft-go/internal/game/watchers"
)

func TestParseDraft(t *testing.T) {
	tests := []struct {
		line string
		want game.Draft
	}{
		{"0,red,1", game.Draft{Factory: 0, Color: tiles.Red, Row: 1}},
		{",blue,4", game.Draft{Factory: game.CenterSource, Color: tiles.Blue, Row: 4}},
		{"2,white,", game.Draft{Factory: 2, Color: tiles.White, Row: game.FloorRow}},
		{",black,", game.Draft{Factory: game.CenterSource, Color: tiles.Black, Row: game.FloorRow}},
		{"  3 , Yellow , 0 \n", game.Draft{Factory: 3, Color: tiles.Yellow, Row: 0}},
		{"9,red,7", game.Draft{Factory: 9, Color: tiles.Red, Row: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseDraft(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDraftErrors(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{"", ErrInputFields},
		{"0,red", ErrInputFields},
		{"0,red,1,2", ErrInputFields},
		{"x,red,1", ErrInputFactory},
		{"-1,red,1", ErrInputFactory},
		{"0,green,1", ErrInputColor},
		{"0,,1", ErrInputColor},
		{"0,red,two", ErrInputRow},
		{"0,red,-1", ErrInputRow},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := ParseDraft(tt.line)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestIsQuit(t *testing.T) {
	assert.True(t, IsQuit("q"))
	assert.True(t, IsQuit(" QUIT \n"))
	assert.True(t, IsQuit("exit"))
	assert.False(t, IsQuit("0,red,1"))
}

func TestPatternLineAlignment(t *testing.T) {
	assert.Equal(t, "    _", patternLine(board.PatternLine{Capacity: 1}))
	assert.Equal(t, "  _RR", patternLine(board.PatternLine{Color: tiles.Red, Count: 2, Capacity: 3}))
	assert.Equal(t, "KKKKK", patternLine(board.PatternLine{Color: tiles.Black, Count: 5, Capacity: 5}))
}

func TestRenderSnapshot(t *testing.T) {
	g, err := game.New(game.Options{Players: []string{"jack", "me"}, Seed: 4}, zaptest.NewLogger(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, g.Snapshot()))
	out := buf.String()

	assert.Contains(t, out, "Round 1  (DRAFTING)")
	assert.Contains(t, out, "Current player: jack")
	assert.Contains(t, out, "First token: center")
	for i := 0; i < 5; i++ {
		assert.Contains(t, out, "Factory "+string(rune('0'+i))+": ")
	}
	assert.Contains(t, out, "Center: -")
	assert.Contains(t, out, "Bag: 5  Discard: 0")
	assert.Contains(t, out, "jack: 0 points")
	assert.Contains(t, out, "me: 0 points")
	assert.Contains(t, out, "0:     _ -> .....")
	assert.Contains(t, out, "Floor:  (0)")
}

func TestDescribeOutcome(t *testing.T) {
	assert.Equal(t, "Rejected: illegal placement", DescribeOutcome(game.Outcome{Reason: game.ReasonIllegalPlacement}))
	assert.Equal(t, "Took 3 tile(s), 1 to the floor, took the first token.",
		DescribeOutcome(game.Outcome{Accepted: true, Taken: 3, Overflow: 1, FirstToken: true}))
	assert.Equal(t, "Took 2 tile(s). Round over.", DescribeOutcome(game.Outcome{Accepted: true, Taken: 2, RoundEnded: true}))
	assert.Equal(t, "Took 1 tile(s). Match over.",
		DescribeOutcome(game.Outcome{Accepted: true, Taken: 1, RoundEnded: true, MatchEnded: true}))
}

func TestRenderResult(t *testing.T) {
	snap := game.Snapshot{
		Players: []game.PlayerView{{Seat: 0, Name: "jack", Score: 12}, {Seat: 1, Name: "me", Score: 30}},
		Winners: []int{1},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderResult(&buf, snap))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "  jack: 12", lines[1])
	assert.Equal(t, "  me: 30  *winner*", lines[2])
}

func TestRenderStats(t *testing.T) {
	snap := game.Snapshot{
		Players: []game.PlayerView{{Seat: 0, Name: "jack"}, {Seat: 1, Name: "me"}},
	}
	stats := map[string]watchers.PlayerStats{
		"me": {
			Draft: watchers.DraftStats{Drafts: 3, TilesTaken: 7, Overflowed: 1},
			Wall:  watchers.WallStats{TilesPlaced: 2, PlacementPts: 3, BestPlacement: 2},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderStats(&buf, snap, stats))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "  jack: 0 drafts, 0 tiles, 0 to floor, 0 placed for 0 points (best 0)", lines[1])
	assert.Equal(t, "  me: 3 drafts, 7 tiles, 1 to floor, 2 placed for 3 points (best 2)", lines[2])
}
