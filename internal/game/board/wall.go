package board

import "github.com/tiledraft/tiledraft-go/internal/game/tiles"

// Size is the number of pattern lines and the wall's width and height.
const Size = 5

// WallCell is a single wall position with its predetermined color.
type WallCell struct {
	Color  tiles.Color `json:"color"`
	Filled bool        `json:"filled"`
}

// Wall is the 5x5 permanent grid. Cells only ever go from empty to filled.
type Wall [Size][Size]WallCell

// newWall lays out the fixed pattern: each row is the color order shifted
// one column to the right of the row above.
func newWall() Wall {
	var w Wall
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			w[r][c] = WallCell{Color: WallColor(r, c)}
		}
	}
	return w
}

// WallColor returns the predetermined color at row r, column c.
func WallColor(r, c int) tiles.Color {
	return tiles.Colors[((c-r)%Size+Size)%Size]
}

// WallColumn returns the column in row r that holds color.
func WallColumn(r int, color tiles.Color) int {
	for c := 0; c < Size; c++ {
		if WallColor(r, c) == color {
			return c
		}
	}
	return -1
}

// filledColor reports whether row r already has color on the wall.
func (w *Wall) filledColor(r int, color tiles.Color) bool {
	c := WallColumn(r, color)
	return c >= 0 && w[r][c].Filled
}

// rowComplete reports whether every cell of row r is filled.
func (w *Wall) rowComplete(r int) bool {
	for c := 0; c < Size; c++ {
		if !w[r][c].Filled {
			return false
		}
	}
	return true
}

func (w *Wall) columnComplete(c int) bool {
	for r := 0; r < Size; r++ {
		if !w[r][c].Filled {
			return false
		}
	}
	return true
}

func (w *Wall) colorComplete(color tiles.Color) bool {
	for r := 0; r < Size; r++ {
		if !w.filledColor(r, color) {
			return false
		}
	}
	return true
}

// run counts filled cells walking from (r, c) in direction (dr, dc),
// not including the starting cell.
func (w *Wall) run(r, c, dr, dc int) int {
	n := 0
	for {
		r, c = r+dr, c+dc
		if r < 0 || r >= Size || c < 0 || c >= Size || !w[r][c].Filled {
			return n
		}
		n++
	}
}

// placementScore scores a tile just placed at (r, c): the length of the
// horizontal run plus the length of the vertical run, where a direction with
// no neighbours contributes nothing unless both are empty.
func (w *Wall) placementScore(r, c int) int {
	horizontal := w.run(r, c, 0, -1) + w.run(r, c, 0, 1)
	vertical := w.run(r, c, -1, 0) + w.run(r, c, 1, 0)

	score := 0
	if horizontal > 0 {
		score += horizontal + 1
	}
	if vertical > 0 {
		score += vertical + 1
	}
	if score == 0 {
		score = 1
	}
	return score
}
