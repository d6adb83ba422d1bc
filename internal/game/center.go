package game

import (
	"github.com/tiledraft/tiledraft-go/internal/game/tiles"
)

// Center is the shared pool that collects leftovers from factory drafts and
// holds the first-player token until someone drafts from it.
type Center struct {
	stock          tiles.Bag[tiles.Color]
	tokenAvailable bool
}

func newCenter() *Center {
	return &Center{stock: tiles.NewBag[tiles.Color](), tokenAvailable: true}
}

// Add puts count tiles of color into the pool.
func (c *Center) Add(color tiles.Color, count int) {
	c.stock.Add(color, count)
}

// AddAll merges a set of tiles into the pool.
func (c *Center) AddAll(b tiles.Bag[tiles.Color]) {
	c.stock.Merge(b)
}

// TakeColor removes every tile of color. The first successful take of a
// round also claims the token. ok is false when the pool has none of the
// color, in which case nothing changes.
func (c *Center) TakeColor(color tiles.Color) (n int, tookToken bool, ok bool) {
	n = c.stock.RemoveAll(color)
	if n == 0 {
		return 0, false, false
	}
	if c.tokenAvailable {
		c.tokenAvailable = false
		tookToken = true
	}
	return n, tookToken, true
}

// Reset empties the pool and puts the token back. Callers route any
// leftover tiles elsewhere first.
func (c *Center) Reset() tiles.Bag[tiles.Color] {
	left := c.stock.Drain()
	c.tokenAvailable = true
	return left
}

// Count is the number of tiles in the pool.
func (c *Center) Count() int { return c.stock.Total() }

// CountOf is the number of tiles of color in the pool.
func (c *Center) CountOf(color tiles.Color) int { return c.stock.Count(color) }

// TokenAvailable reports whether the first-player token is still in the pool.
func (c *Center) TokenAvailable() bool { return c.tokenAvailable }

// Stock returns a copy of the pool contents.
func (c *Center) Stock() tiles.Bag[tiles.Color] { return c.stock.Clone() }
