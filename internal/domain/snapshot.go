package domain

// CitySnapshot is the externally visible view of one city after a pass.
// Price and volume pointers are nil exactly when the city's state is not
// EQUILIBRIUM.
type CitySnapshot struct {
	CityID       int      `json:"city_id"`
	Name         string   `json:"name"`
	State        string   `json:"state"`
	Price        *float64 `json:"price,omitempty"`
	DemandVolume *float64 `json:"demand_volume,omitempty"`
	SupplyVolume *float64 `json:"supply_volume,omitempty"`
}

// TurnSnapshot is a point-in-time view of the whole market after one
// simulated turn. It is what gets persisted, broadcast and charted.
type TurnSnapshot struct {
	Turn   uint64         `json:"turn"`
	Cities []CitySnapshot `json:"cities"`
}

// NewCitySnapshot flattens a MarketState into its snapshot form.
func NewCitySnapshot(id int, name string, st MarketState) CitySnapshot {
	snap := CitySnapshot{
		CityID: id,
		Name:   name,
		State:  st.Kind.String(),
	}
	if st.IsEquilibrium() {
		price := st.Price.Float64()
		demand := st.DemandVolume.Float64()
		supply := st.SupplyVolume.Float64()
		snap.Price = &price
		snap.DemandVolume = &demand
		snap.SupplyVolume = &supply
	}
	return snap
}
