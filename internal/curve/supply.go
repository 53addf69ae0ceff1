package curve

import "market_go/internal/domain"

// Supply is a Function interpreted as aggregate willingness to sell at
// each price. Same empty-state semantics as Demand.
type Supply struct {
	fn *Function
}

// ZeroSupply returns the empty supply (no curve contributed yet).
func ZeroSupply() Supply { return Supply{} }

// NewSupply builds a supply curve from breakpoints.
func NewSupply(points []Point) Supply {
	return Supply{fn: New(points)}
}

// IsZero reports whether no curve has been contributed.
func (s Supply) IsZero() bool { return s.fn == nil }

// Fn returns the underlying curve, substituting the canonical zero
// curve for the empty state.
func (s Supply) Fn() *Function {
	if s.fn == nil {
		return Zero()
	}
	return s.fn
}

// ValueAt evaluates the supply at a price; the empty state is 0
// everywhere.
func (s Supply) ValueAt(p domain.Price) domain.Volume {
	if s.fn == nil {
		return domain.ZeroVolume
	}
	return s.fn.ValueAt(p)
}

// Add combines another supply into this one.
func (s Supply) Add(o Supply) Supply {
	if o.fn == nil {
		return s
	}
	if s.fn == nil {
		return o
	}
	return Supply{fn: s.fn.Add(o.fn)}
}

// Sub removes a previously added supply.
func (s Supply) Sub(o Supply) Supply {
	if o.fn == nil {
		return s
	}
	if s.fn == nil {
		return Supply{fn: o.fn.Negate()}
	}
	return Supply{fn: s.fn.Sub(o.fn)}
}

// ShiftBy translates the curve along the price axis.
func (s Supply) ShiftBy(delta domain.Price) Supply {
	if s.fn == nil {
		return s
	}
	return Supply{fn: s.fn.Shift(delta)}
}

// Intersect resolves a demand against this supply; delegates to
// Demand.Intersect so there is a single classification path.
func (s Supply) Intersect(d Demand) domain.MarketState {
	return d.Intersect(s)
}
