package tiles

import "fmt"

// DefaultPerColor is the number of tiles of each color in a fresh supply.
const DefaultPerColor = 5

// Supply owns the draw bag and the discard pile.
type Supply struct {
	bag     Bag[Color]
	discard Bag[Color]
	total   int
}

// NewSupply fills the bag with perColor tiles of every color.
func NewSupply(perColor int) *Supply {
	if perColor <= 0 {
		perColor = DefaultPerColor
	}
	s := &Supply{
		bag:     NewBag[Color](),
		discard: NewBag[Color](),
		total:   perColor * NumColors,
	}
	for _, c := range Colors {
		s.bag.Add(c, perColor)
	}
	return s
}

// DrawOne removes a single sampled tile from the bag.
func (s *Supply) DrawOne(sampler *Sampler) (Color, error) {
	if s.bag.Empty() {
		return 0, fmt.Errorf("draw from empty bag: %w", ErrInvalidState)
	}
	c, err := Pick(sampler, s.bag)
	if err != nil {
		return 0, err
	}
	s.bag.Remove(c, 1)
	return c, nil
}

// EnsureCapacity recycles the discard pile into the bag when the bag holds
// fewer than needed tiles. It reports whether a recycle happened.
func (s *Supply) EnsureCapacity(needed int) bool {
	if s.bag.Total() >= needed || s.discard.Empty() {
		return false
	}
	s.bag.Merge(s.discard.Drain())
	return true
}

// Discard adds count tiles of color to the discard pile.
func (s *Supply) Discard(color Color, count int) {
	s.discard.Add(color, count)
}

// DiscardAll adds a whole bag of tiles to the discard pile.
func (s *Supply) DiscardAll(tiles Bag[Color]) {
	s.discard.Merge(tiles)
}

// BagCount is the number of tiles left to draw.
func (s *Supply) BagCount() int { return s.bag.Total() }

// DiscardCount is the number of tiles waiting to be recycled.
func (s *Supply) DiscardCount() int { return s.discard.Total() }

// Available is the number of tiles the supply could still hand out.
func (s *Supply) Available() int { return s.bag.Total() + s.discard.Total() }

// Total is the configured size of the whole tile set.
func (s *Supply) Total() int { return s.total }

// Bag returns a copy of the draw bag.
func (s *Supply) Bag() Bag[Color] { return s.bag.Clone() }

// DiscardPile returns a copy of the discard pile.
func (s *Supply) DiscardPile() Bag[Color] { return s.discard.Clone() }
