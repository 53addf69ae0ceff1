package domain

import "fmt"

// StateKind tags the MarketState variant.
type StateKind int

const (
	// StateUndefined means no price has been computed yet, or the group
	// intersection produced an unrecognized divergence pattern.
	StateUndefined StateKind = iota
	// StateUnderSupply marks demand that stays positive even at the
	// high-price extreme (unmet demand).
	StateUnderSupply
	// StateOverSupply marks supply exceeding demand even at the
	// low-price extreme.
	StateOverSupply
	// StateEquilibrium carries a resolved price and cleared volumes.
	StateEquilibrium
)

// String returns the string representation of StateKind.
func (k StateKind) String() string {
	switch k {
	case StateUndefined:
		return "UNDEFINED"
	case StateUnderSupply:
		return "UNDER_SUPPLY"
	case StateOverSupply:
		return "OVER_SUPPLY"
	case StateEquilibrium:
		return "EQUILIBRIUM"
	default:
		return "UNKNOWN"
	}
}

// MarketState is a tagged variant: Undefined | UnderSupply | OverSupply |
// Equilibrium{price, demand volume, supply volume}. Price and the volume
// fields are meaningful only under StateEquilibrium. In networked markets
// the two volumes may legitimately differ: transport flow implied by
// price differentials absorbs the local imbalance.
type MarketState struct {
	Kind         StateKind
	Price        Price
	DemandVolume Volume
	SupplyVolume Volume
}

// Undefined returns the initial, not-yet-computed state.
func Undefined() MarketState { return MarketState{Kind: StateUndefined} }

// UnderSupply returns the unmet-demand degenerate state.
func UnderSupply() MarketState { return MarketState{Kind: StateUnderSupply} }

// OverSupply returns the excess-supply degenerate state.
func OverSupply() MarketState { return MarketState{Kind: StateOverSupply} }

// Equilibrium returns a resolved state.
func Equilibrium(price Price, demand, supply Volume) MarketState {
	return MarketState{
		Kind:         StateEquilibrium,
		Price:        price,
		DemandVolume: demand,
		SupplyVolume: supply,
	}
}

// IsEquilibrium reports whether the state carries a resolved price.
func (s MarketState) IsEquilibrium() bool { return s.Kind == StateEquilibrium }

func (s MarketState) String() string {
	if s.Kind != StateEquilibrium {
		return s.Kind.String()
	}
	return fmt.Sprintf("EQUILIBRIUM(price=%s demand=%s supply=%s)",
		s.Price, s.DemandVolume, s.SupplyVolume)
}
