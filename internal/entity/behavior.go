package entity

import "market_go/internal/domain"

// Behavior decides, after each clearing pass, whether an entity moves
// its curve along the price axis. React receives the state of the
// entity's own city and returns the shift to apply; ok=false leaves
// the curve where it is.
type Behavior interface {
	React(state domain.MarketState) (shift domain.Price, ok bool)
}

// NoOp never moves.
type NoOp struct{}

func (NoOp) React(domain.MarketState) (domain.Price, bool) {
	return domain.ZeroPrice, false
}

// Anchor follows the local price drift. It remembers the price seen on
// the previous pass and shifts its curve by Step times the change, so
// an anchored entity slowly re-centers on wherever its city settles.
// Non-equilibrium passes are skipped and also reset the reference
// point, since sentinel prices carry no usable level.
type Anchor struct {
	Step float64

	prev    domain.Price
	hasPrev bool
}

// NewAnchor creates an Anchor with the given follow factor in (0, 1].
func NewAnchor(step float64) *Anchor {
	return &Anchor{Step: step}
}

func (a *Anchor) React(state domain.MarketState) (domain.Price, bool) {
	if !state.IsEquilibrium() {
		a.hasPrev = false
		return domain.ZeroPrice, false
	}
	if !a.hasPrev {
		a.prev = state.Price
		a.hasPrev = true
		return domain.ZeroPrice, false
	}
	delta := state.Price.Sub(a.prev)
	a.prev = state.Price
	if delta.IsZero() {
		return domain.ZeroPrice, false
	}
	return delta.Mul(a.Step), true
}
