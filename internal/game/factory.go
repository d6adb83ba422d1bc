package game

import (
	"github.com/tiledraft/tiledraft-go/internal/game/tiles"
)

// TilesPerFactory is the number of tiles a display receives each round.
const TilesPerFactory = 4

// Factory is a single factory display. Its id is assigned once by the
// controller and never changes.
type Factory struct {
	id    int
	stock tiles.Bag[tiles.Color]
}

func newFactory(id int) *Factory {
	return &Factory{id: id, stock: tiles.NewBag[tiles.Color]()}
}

// ID returns the display index.
func (f *Factory) ID() int { return f.id }

// Refill draws up to TilesPerFactory tiles into the display one at a time.
// It stops early when the bag runs dry and returns how many tiles it drew.
func (f *Factory) Refill(supply *tiles.Supply, sampler *tiles.Sampler) (int, error) {
	drawn := 0
	for drawn < TilesPerFactory && supply.BagCount() > 0 {
		c, err := supply.DrawOne(sampler)
		if err != nil {
			return drawn, err
		}
		f.stock.Add(c, 1)
		drawn++
	}
	return drawn, nil
}

// HasColor reports whether the display holds at least one tile of color.
func (f *Factory) HasColor(color tiles.Color) bool {
	return f.stock.Count(color) > 0
}

// Count is the number of tiles on the display.
func (f *Factory) Count() int { return f.stock.Total() }

// Empty reports whether the display has been drafted or never filled.
func (f *Factory) Empty() bool { return f.stock.Empty() }

// TakeAll empties the display and returns everything it held.
func (f *Factory) TakeAll() tiles.Bag[tiles.Color] {
	return f.stock.Drain()
}

// Stock returns a copy of the display contents.
func (f *Factory) Stock() tiles.Bag[tiles.Color] { return f.stock.Clone() }
