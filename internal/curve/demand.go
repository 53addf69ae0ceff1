package curve

import "market_go/internal/domain"

// Demand is a Function interpreted as aggregate willingness to buy at
// each price. The zero value holds no curve at all: combining an empty
// contributor with a real curve is a no-op rather than an extra
// breakpoint, so "no curve yet" is represented as absence, not as a
// degenerate one-point Function.
type Demand struct {
	fn *Function
}

// ZeroDemand returns the empty demand (no curve contributed yet).
func ZeroDemand() Demand { return Demand{} }

// NewDemand builds a demand curve from breakpoints. Panics on an empty
// point set, same as New.
func NewDemand(points []Point) Demand {
	return Demand{fn: New(points)}
}

// IsZero reports whether no curve has been contributed.
func (d Demand) IsZero() bool { return d.fn == nil }

// Fn returns the underlying curve, substituting the canonical zero
// curve for the empty state.
func (d Demand) Fn() *Function {
	if d.fn == nil {
		return Zero()
	}
	return d.fn
}

// ValueAt evaluates the demand at a price; the empty state is 0
// everywhere.
func (d Demand) ValueAt(p domain.Price) domain.Volume {
	if d.fn == nil {
		return domain.ZeroVolume
	}
	return d.fn.ValueAt(p)
}

// Add combines another demand into this one. Absence is the additive
// identity on either side.
func (d Demand) Add(o Demand) Demand {
	if o.fn == nil {
		return d
	}
	if d.fn == nil {
		return o
	}
	return Demand{fn: d.fn.Add(o.fn)}
}

// Sub removes a previously added demand. Subtracting from the empty
// state stores the negated curve directly.
func (d Demand) Sub(o Demand) Demand {
	if o.fn == nil {
		return d
	}
	if d.fn == nil {
		return Demand{fn: o.fn.Negate()}
	}
	return Demand{fn: d.fn.Sub(o.fn)}
}

// ShiftBy translates the curve along the price axis.
func (d Demand) ShiftBy(delta domain.Price) Demand {
	if d.fn == nil {
		return d
	}
	return Demand{fn: d.fn.Shift(delta)}
}

// Intersect resolves this demand against a supply and classifies the
// outcome. A crossing is an equilibrium. Diverging curves are classified
// by their boundary values: demand still above supply at the high-price
// extreme means unmet demand (under-supply); demand below supply at the
// low-price extreme means excess supply (over-supply). Any other
// diverging configuration is reported as Undefined rather than coerced.
func (d Demand) Intersect(s Supply) domain.MarketState {
	df, sf := d.Fn(), s.Fn()
	if price, vol, ok := df.Intersect(sf); ok {
		return domain.Equilibrium(price, vol, vol)
	}
	switch {
	case df.Right().Val.GreaterThan(sf.Right().Val):
		return domain.UnderSupply()
	case df.Left().Val.LessThan(sf.Left().Val):
		return domain.OverSupply()
	default:
		return domain.Undefined()
	}
}
