// Package curve implements the piecewise-linear breakpoint algebra that
// demand and supply curves are built from. A Function is immutable once
// constructed; every operator returns a new breakpoint set.
package curve

import (
	"sort"

	"market_go/internal/domain"
)

// Tolerance is the absolute bracket width at which bisection stops
// during intersection. Results are approximate by design: after chains of
// Add/Shift the breakpoint grids of two operands are misaligned and
// large, and bisection sidesteps segment-matching bookkeeping at
// O(log(1/tolerance)) evaluations.
const Tolerance = 1e-6

// Point is one breakpoint of a piecewise-linear curve.
type Point struct {
	Arg domain.Price
	Val domain.Volume
}

// Function is an ordered set of breakpoints, at least one, strictly
// increasing by Arg. Between breakpoints the value is linearly
// interpolated; outside the breakpoint range it is clamped to the
// boundary value, never extrapolated. Monotonicity in value is an
// economic convention of the callers, not enforced here.
type Function struct {
	pts []Point
}

// New builds a Function from a non-empty point set. The input is copied
// and sorted by argument. An empty set or duplicate arguments are
// invariant violations and panic.
func New(points []Point) *Function {
	if len(points) == 0 {
		panic("curve: Function constructed from empty point set")
	}
	pts := make([]Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool { return pts[i].Arg.LessThan(pts[j].Arg) })
	for i := 1; i < len(pts); i++ {
		if pts[i].Arg.Equal(pts[i-1].Arg) {
			panic("curve: duplicate breakpoint argument " + pts[i].Arg.String())
		}
	}
	return &Function{pts: pts}
}

// Zero returns the canonical zero curve: a single breakpoint at (0, 0).
func Zero() *Function {
	return &Function{pts: []Point{{Arg: domain.ZeroPrice, Val: domain.ZeroVolume}}}
}

// Left returns the leftmost breakpoint; its value is the curve's value
// everywhere below the breakpoint range.
func (f *Function) Left() Point { return f.pts[0] }

// Right returns the rightmost breakpoint.
func (f *Function) Right() Point { return f.pts[len(f.pts)-1] }

// Points returns a copy of the breakpoint set.
func (f *Function) Points() []Point {
	pts := make([]Point, len(f.pts))
	copy(pts, f.pts)
	return pts
}

// ValueAt evaluates the curve at arg: clamped outside the breakpoint
// range, linearly interpolated between breakpoints.
func (f *Function) ValueAt(arg domain.Price) domain.Volume {
	if arg.LessThanOrEqual(f.pts[0].Arg) {
		return f.pts[0].Val
	}
	last := len(f.pts) - 1
	if arg.GreaterThanOrEqual(f.pts[last].Arg) {
		return f.pts[last].Val
	}

	// First breakpoint at or beyond arg; the clamp checks above
	// guarantee 1 <= i <= last.
	i := sort.Search(len(f.pts), func(k int) bool {
		return f.pts[k].Arg.GreaterThanOrEqual(arg)
	})
	if f.pts[i].Arg.Equal(arg) {
		return f.pts[i].Val
	}

	a, b := f.pts[i-1], f.pts[i]
	t := arg.Sub(a.Arg).Float64() / b.Arg.Sub(a.Arg).Float64()
	return domain.NewVolume(a.Val.Float64() + t*(b.Val.Sub(a.Val).Float64()))
}

// Add returns f+g on the union of both operands' breakpoint arguments.
// The union is the minimal grid on which the pointwise sum is still
// exactly piecewise-linear; a coarser grid would lose vertices.
func (f *Function) Add(g *Function) *Function {
	return f.combine(g, 1)
}

// Sub returns f-g, on the same union grid as Add.
func (f *Function) Sub(g *Function) *Function {
	return f.combine(g, -1)
}

func (f *Function) combine(g *Function, sign float64) *Function {
	grid := acquireGrid()
	defer releaseGrid(grid)

	args := mergeArgs(f.pts, g.pts, *grid)
	pts := make([]Point, 0, len(args))
	for _, a := range args {
		v := f.ValueAt(a).Float64() + sign*g.ValueAt(a).Float64()
		pts = append(pts, Point{Arg: a, Val: domain.NewVolume(v)})
	}
	return &Function{pts: pts}
}

// mergeArgs merges the argument positions of two sorted breakpoint sets
// into dst, deduplicated.
func mergeArgs(a, b []Point, dst []domain.Price) []domain.Price {
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var next domain.Price
		switch {
		case i == len(a):
			next = b[j].Arg
			j++
		case j == len(b):
			next = a[i].Arg
			i++
		case a[i].Arg.LessThan(b[j].Arg):
			next = a[i].Arg
			i++
		case b[j].Arg.LessThan(a[i].Arg):
			next = b[j].Arg
			j++
		default: // equal
			next = a[i].Arg
			i++
			j++
		}
		dst = append(dst, next)
	}
	return dst
}

// Shift translates every argument by delta; values are untouched.
// Shifting left is shifting by -delta.
func (f *Function) Shift(delta domain.Price) *Function {
	pts := make([]Point, len(f.pts))
	for i, p := range f.pts {
		pts[i] = Point{Arg: p.Arg.Add(delta), Val: p.Val}
	}
	return &Function{pts: pts}
}

// Negate negates arguments and values symmetrically. It turns an empty
// "subtract" into a stored negated curve without an extra addition.
func (f *Function) Negate() *Function {
	pts := make([]Point, len(f.pts))
	for i, p := range f.pts {
		// Reversed copy keeps the argument order strictly increasing.
		pts[len(f.pts)-1-i] = Point{Arg: p.Arg.Neg(), Val: p.Val.Neg()}
	}
	return &Function{pts: pts}
}

// Intersect finds an argument where f and g cross. If one curve is
// strictly above the other at both extremes of the combined argument
// range the curves diverge without crossing and ok is false — that is a
// market condition (unmet demand or unmet supply), not a numeric
// failure. Otherwise bisection narrows the bracket to Tolerance and the
// midpoint argument with the lower curve's value there is returned.
func (f *Function) Intersect(g *Function) (arg domain.Price, val domain.Volume, ok bool) {
	lo := f.Left().Arg
	if g.Left().Arg.LessThan(lo) {
		lo = g.Left().Arg
	}
	hi := f.Right().Arg
	if g.Right().Arg.GreaterThan(hi) {
		hi = g.Right().Arg
	}

	dLo := f.ValueAt(lo).Sub(g.ValueAt(lo))
	dHi := f.ValueAt(hi).Sub(g.ValueAt(hi))
	if dLo.GreaterThan(domain.ZeroVolume) && dHi.GreaterThan(domain.ZeroVolume) {
		return domain.ZeroPrice, domain.ZeroVolume, false
	}
	if dLo.LessThan(domain.ZeroVolume) && dHi.LessThan(domain.ZeroVolume) {
		return domain.ZeroPrice, domain.ZeroVolume, false
	}

	// Keep the half-bracket on which the ordering at lo is preserved.
	loAbove := dLo.GreaterThan(domain.ZeroVolume)
	tol := domain.NewPrice(Tolerance)
	for hi.Sub(lo).GreaterThan(tol) {
		mid := lo.Add(hi.Sub(lo).Div(2))
		dMid := f.ValueAt(mid).Sub(g.ValueAt(mid))
		if dMid.GreaterThan(domain.ZeroVolume) == loAbove && !dMid.IsZero() {
			lo = mid
		} else {
			hi = mid
		}
	}

	arg = lo.Add(hi.Sub(lo).Div(2))
	fv, gv := f.ValueAt(arg), g.ValueAt(arg)
	val = fv
	if gv.LessThan(fv) {
		val = gv
	}
	return arg, val, true
}
