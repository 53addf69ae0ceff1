package domain

import (
	"math"
	"strconv"
)

// Price is a finite point on the price axis. The zero value is a valid
// price of 0. Construction from NaN is a programmer error and panics;
// routing every arithmetic result back through NewPrice keeps the
// no-NaN invariant checked at the point of corruption.
type Price struct {
	v float64
}

// MinPrice and MaxPrice are reserved sentinels standing in for -inf/+inf.
// They mark cities in permanent over-/under-supply during arbitrage
// comparisons and must never appear as a curve breakpoint.
var (
	MinPrice = Price{-math.MaxFloat64}
	MaxPrice = Price{math.MaxFloat64}

	ZeroPrice = Price{}
)

// NewPrice wraps a float64. Panics on NaN.
func NewPrice(v float64) Price {
	if math.IsNaN(v) {
		panic("domain: Price constructed from NaN")
	}
	return Price{v}
}

// Float64 returns the underlying value.
func (p Price) Float64() float64 { return p.v }

func (p Price) Add(o Price) Price { return NewPrice(p.v + o.v) }
func (p Price) Sub(o Price) Price { return NewPrice(p.v - o.v) }
func (p Price) Neg() Price        { return Price{-p.v} }

// Mul scales the price by a plain scalar.
func (p Price) Mul(k float64) Price { return NewPrice(p.v * k) }

// Div divides the price by a plain scalar.
func (p Price) Div(k float64) Price { return NewPrice(p.v / k) }

// Abs returns the absolute value.
func (p Price) Abs() Price {
	if p.v < 0 {
		return Price{-p.v}
	}
	return p
}

// Cmp returns -1, 0 or 1 per the total order on prices.
func (p Price) Cmp(o Price) int {
	switch {
	case p.v < o.v:
		return -1
	case p.v > o.v:
		return 1
	default:
		return 0
	}
}

func (p Price) Equal(o Price) bool              { return p.v == o.v }
func (p Price) LessThan(o Price) bool           { return p.v < o.v }
func (p Price) LessThanOrEqual(o Price) bool    { return p.v <= o.v }
func (p Price) GreaterThan(o Price) bool        { return p.v > o.v }
func (p Price) GreaterThanOrEqual(o Price) bool { return p.v >= o.v }
func (p Price) IsZero() bool                    { return p.v == 0 }

func (p Price) String() string {
	return strconv.FormatFloat(p.v, 'g', -1, 64)
}
