package entity

import (
	"testing"

	"market_go/internal/curve"
	"market_go/internal/domain"
)

func eq(p, d, s float64) domain.MarketState {
	return domain.Equilibrium(domain.NewPrice(p), domain.NewVolume(d), domain.NewVolume(s))
}

func TestNoOp_NeverShifts(t *testing.T) {
	var b Behavior = NoOp{}
	if _, ok := b.React(eq(10, 1, 1)); ok {
		t.Fatal("NoOp reacted")
	}
	if _, ok := b.React(domain.UnderSupply()); ok {
		t.Fatal("NoOp reacted to sentinel state")
	}
}

func TestAnchor_FollowsPriceDrift(t *testing.T) {
	a := NewAnchor(0.5)

	// First observation only sets the reference point.
	if _, ok := a.React(eq(10, 1, 1)); ok {
		t.Fatal("anchor shifted on first observation")
	}

	shift, ok := a.React(eq(14, 1, 1))
	if !ok {
		t.Fatal("anchor did not follow a price move")
	}
	if got := shift.Float64(); got != 2 {
		t.Fatalf("shift = %v, want 2", got)
	}

	// Unchanged price produces no shift.
	if _, ok := a.React(eq(14, 1, 1)); ok {
		t.Fatal("anchor shifted on flat price")
	}
}

func TestAnchor_SentinelResetsReference(t *testing.T) {
	a := NewAnchor(1)
	a.React(eq(10, 1, 1))

	if _, ok := a.React(domain.OverSupply()); ok {
		t.Fatal("anchor reacted to sentinel state")
	}

	// After the reset the next equilibrium is a fresh reference, not a
	// move relative to the pre-sentinel price.
	if _, ok := a.React(eq(50, 1, 1)); ok {
		t.Fatal("anchor shifted right after reset")
	}
	shift, ok := a.React(eq(51, 1, 1))
	if !ok || shift.Float64() != 1 {
		t.Fatalf("shift = %v, ok = %v, want 1, true", shift.Float64(), ok)
	}
}

func TestNewProducer_AssignsID(t *testing.T) {
	p := NewProducer(1, curve.ZeroSupply(), nil)
	c := NewConsumer(1, curve.ZeroDemand(), nil)
	if p.ID == c.ID {
		t.Fatal("expected distinct entity ids")
	}
}
