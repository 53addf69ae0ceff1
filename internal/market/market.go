// Package market owns the per-city aggregated demand/supply curves and
// the equilibrium resolver that turns them into prices.
package market

import (
	"sync"

	"market_go/internal/curve"
	"market_go/internal/domain"
	"market_go/internal/geography"
)

// CityData is the per-city slice of market state: the aggregate curves
// every registered entity has contributed into, plus the result of the
// last resolver pass. It is overwritten wholesale each pass, never
// partially mutated.
type CityData struct {
	Demand curve.Demand
	Supply curve.Supply
	State  domain.MarketState
}

// PassStats summarizes one resolver pass.
type PassStats struct {
	Groups int
	Cities int
}

// Market is the root aggregate: a geography plus city data keyed by id.
// UpdatePrices is the only writer of MarketState; accessors take the
// read side so external observers (feed, storage) see a consistent
// snapshot of the last completed pass.
type Market struct {
	mu   sync.RWMutex
	geo  *geography.Geography
	data map[geography.CityID]*CityData
}

// New builds a market over a geography. Every city starts with empty
// aggregates and an Undefined state.
func New(geo *geography.Geography) *Market {
	data := make(map[geography.CityID]*CityData, geo.CityCount())
	for _, id := range geo.CityIDs() {
		data[id] = &CityData{
			Demand: curve.ZeroDemand(),
			Supply: curve.ZeroSupply(),
			State:  domain.Undefined(),
		}
	}
	return &Market{geo: geo, data: data}
}

// Geography returns the underlying city graph.
func (m *Market) Geography() *geography.Geography { return m.geo }

func (m *Market) cityData(op string, id geography.CityID) (*CityData, error) {
	cd, ok := m.data[id]
	if !ok {
		return nil, domain.NewCityError(op, int(id), domain.ErrUnknownCity)
	}
	return cd, nil
}

// AddProducer folds a producer's supply curve into the city aggregate.
// Registration never triggers re-solving.
func (m *Market) AddProducer(id geography.CityID, s curve.Supply) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cd, err := m.cityData("add_producer", id)
	if err != nil {
		return err
	}
	cd.Supply = cd.Supply.Add(s)
	return nil
}

// RemoveProducer subtracts a previously added supply curve.
func (m *Market) RemoveProducer(id geography.CityID, s curve.Supply) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cd, err := m.cityData("remove_producer", id)
	if err != nil {
		return err
	}
	cd.Supply = cd.Supply.Sub(s)
	return nil
}

// AddConsumer folds a consumer's demand curve into the city aggregate.
func (m *Market) AddConsumer(id geography.CityID, d curve.Demand) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cd, err := m.cityData("add_consumer", id)
	if err != nil {
		return err
	}
	cd.Demand = cd.Demand.Add(d)
	return nil
}

// RemoveConsumer subtracts a previously added demand curve.
func (m *Market) RemoveConsumer(id geography.CityID, d curve.Demand) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cd, err := m.cityData("remove_consumer", id)
	if err != nil {
		return err
	}
	cd.Demand = cd.Demand.Sub(d)
	return nil
}

// SeedPrice installs a starting equilibrium at the given price, with
// volumes read off the city's current aggregates. Scenario files use
// this to bias the first partitioning pass.
func (m *Market) SeedPrice(id geography.CityID, price domain.Price) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cd, err := m.cityData("seed_price", id)
	if err != nil {
		return err
	}
	cd.State = domain.Equilibrium(price, cd.Demand.ValueAt(price), cd.Supply.ValueAt(price))
	return nil
}

// State returns the city's market state from the last completed pass.
func (m *Market) State(id geography.CityID) (domain.MarketState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cd, err := m.cityData("state", id)
	if err != nil {
		return domain.MarketState{}, err
	}
	return cd.State, nil
}

// Prices returns the per-city resolved price; nil exactly when the
// city's state is not Equilibrium.
func (m *Market) Prices() map[geography.CityID]*domain.Price {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make(map[geography.CityID]*domain.Price, len(m.data))
	for id, cd := range m.data {
		if cd.State.IsEquilibrium() {
			p := cd.State.Price
			res[id] = &p
		} else {
			res[id] = nil
		}
	}
	return res
}

// DemandVolumes returns the per-city cleared demand volume; nil when
// the city is not in equilibrium.
func (m *Market) DemandVolumes() map[geography.CityID]*domain.Volume {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make(map[geography.CityID]*domain.Volume, len(m.data))
	for id, cd := range m.data {
		if cd.State.IsEquilibrium() {
			v := cd.State.DemandVolume
			res[id] = &v
		} else {
			res[id] = nil
		}
	}
	return res
}

// SupplyVolumes returns the per-city cleared supply volume; nil when
// the city is not in equilibrium.
func (m *Market) SupplyVolumes() map[geography.CityID]*domain.Volume {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make(map[geography.CityID]*domain.Volume, len(m.data))
	for id, cd := range m.data {
		if cd.State.IsEquilibrium() {
			v := cd.State.SupplyVolume
			res[id] = &v
		} else {
			res[id] = nil
		}
	}
	return res
}

// Snapshot flattens the whole market into its externally visible form,
// cities in ascending id order.
func (m *Market) Snapshot(turn uint64) domain.TurnSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := domain.TurnSnapshot{Turn: turn}
	for _, id := range m.geo.CityIDs() {
		city, _ := m.geo.City(id)
		snap.Cities = append(snap.Cities, domain.NewCitySnapshot(int(id), city.Name, m.data[id].State))
	}
	return snap
}

// ResetPrices discards all computed state back to Undefined without
// touching the registered demand/supply aggregates.
func (m *Market) ResetPrices() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, cd := range m.data {
		cd.State = domain.Undefined()
	}
}
