package domain

import (
	"math"
	"strconv"
)

// Volume is a finite traded quantity. Same contract as Price: total
// order, NaN-free arithmetic, reserved min/max sentinels.
type Volume struct {
	v float64
}

var (
	MinVolume = Volume{-math.MaxFloat64}
	MaxVolume = Volume{math.MaxFloat64}

	ZeroVolume = Volume{}
)

// NewVolume wraps a float64. Panics on NaN.
func NewVolume(v float64) Volume {
	if math.IsNaN(v) {
		panic("domain: Volume constructed from NaN")
	}
	return Volume{v}
}

// Float64 returns the underlying value.
func (v Volume) Float64() float64 { return v.v }

func (v Volume) Add(o Volume) Volume { return NewVolume(v.v + o.v) }
func (v Volume) Sub(o Volume) Volume { return NewVolume(v.v - o.v) }
func (v Volume) Neg() Volume         { return Volume{-v.v} }

// Mul scales the volume by a plain scalar.
func (v Volume) Mul(k float64) Volume { return NewVolume(v.v * k) }

// Div divides the volume by a plain scalar.
func (v Volume) Div(k float64) Volume { return NewVolume(v.v / k) }

// Abs returns the absolute value.
func (v Volume) Abs() Volume {
	if v.v < 0 {
		return Volume{-v.v}
	}
	return v
}

// Cmp returns -1, 0 or 1 per the total order on volumes.
func (v Volume) Cmp(o Volume) int {
	switch {
	case v.v < o.v:
		return -1
	case v.v > o.v:
		return 1
	default:
		return 0
	}
}

func (v Volume) Equal(o Volume) bool              { return v.v == o.v }
func (v Volume) LessThan(o Volume) bool           { return v.v < o.v }
func (v Volume) LessThanOrEqual(o Volume) bool    { return v.v <= o.v }
func (v Volume) GreaterThan(o Volume) bool        { return v.v > o.v }
func (v Volume) GreaterThanOrEqual(o Volume) bool { return v.v >= o.v }
func (v Volume) IsZero() bool                     { return v.v == 0 }

func (v Volume) String() string {
	return strconv.FormatFloat(v.v, 'g', -1, 64)
}
