package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tiledraft/tiledraft-go/internal/game"
	"github.com/tiledraft/tiledraft-go/internal/game/tiles"
)

// Input errors. They are meant to be shown to the player, who then retries.
var (
	ErrInputFields  = errors.New("expected three comma-separated fields: factory,color,row")
	ErrInputFactory = errors.New("factory must be a number or empty for the center")
	ErrInputColor   = errors.New("unknown color")
	ErrInputRow     = errors.New("row must be a number or empty for the floor")
)

// ParseDraft reads one move in the form "factory,color,row". An empty
// factory drafts from the center; an empty row sends the tiles to the floor.
//
//	0,red,1   factory 0, red tiles, pattern line 1
//	,blue,4   center, blue tiles, pattern line 4
//	2,white,  factory 2, white tiles, floor line
func ParseDraft(line string) (game.Draft, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != 3 {
		return game.Draft{}, fmt.Errorf("%q: %w", line, ErrInputFields)
	}

	factory, err := optionalIndex(fields[0], game.CenterSource)
	if err != nil {
		return game.Draft{}, fmt.Errorf("%q: %w", fields[0], ErrInputFactory)
	}

	color, err := tiles.ParseColor(fields[1])
	if err != nil {
		return game.Draft{}, fmt.Errorf("%q: %w", strings.TrimSpace(fields[1]), ErrInputColor)
	}

	row, err := optionalIndex(fields[2], game.FloorRow)
	if err != nil {
		return game.Draft{}, fmt.Errorf("%q: %w", fields[2], ErrInputRow)
	}

	return game.Draft{Factory: factory, Color: color, Row: row}, nil
}

// optionalIndex parses a non-negative integer, returning empty for a blank field.
func optionalIndex(field string, empty int) (int, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return empty, nil
	}
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative index %d", n)
	}
	return n, nil
}

// IsQuit reports whether the line asks to leave the match.
func IsQuit(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "q", "quit", "exit":
		return true
	}
	return false
}
