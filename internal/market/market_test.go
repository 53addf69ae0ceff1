package market

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market_go/internal/curve"
	"market_go/internal/domain"
	"market_go/internal/geography"
)

func pts(vals ...float64) []curve.Point {
	if len(vals)%2 != 0 {
		panic("pts: need arg/value pairs")
	}
	res := make([]curve.Point, 0, len(vals)/2)
	for i := 0; i < len(vals); i += 2 {
		res = append(res, curve.Point{
			Arg: domain.NewPrice(vals[i]),
			Val: domain.NewVolume(vals[i+1]),
		})
	}
	return res
}

// singleCityMarket has one city clearing at price 2, volume 2.
func singleCityMarket(t *testing.T) *Market {
	t.Helper()
	geo := geography.New()
	require.NoError(t, geo.AddCity(geography.City{ID: 1, Name: "Aldora"}))

	m := New(geo)
	require.NoError(t, m.AddConsumer(1, curve.NewDemand(pts(0, 4, 4, 0))))
	require.NoError(t, m.AddProducer(1, curve.NewSupply(pts(0, 0, 4, 4))))
	return m
}

// twoCityMarket links two cities whose isolated equilibria are 2 and 22.
func twoCityMarket(t *testing.T, cost float64) *Market {
	t.Helper()
	geo := geography.New()
	require.NoError(t, geo.AddCity(geography.City{ID: 1, Name: "Aldora"}))
	require.NoError(t, geo.AddCity(geography.City{ID: 2, Name: "Breva"}))
	require.NoError(t, geo.AddConnection(1, 2, domain.NewPrice(cost)))

	m := New(geo)
	require.NoError(t, m.AddConsumer(1, curve.NewDemand(pts(0, 4, 4, 0))))
	require.NoError(t, m.AddProducer(1, curve.NewSupply(pts(0, 0, 4, 4))))
	require.NoError(t, m.AddConsumer(2, curve.NewDemand(pts(20, 4, 24, 0))))
	require.NoError(t, m.AddProducer(2, curve.NewSupply(pts(20, 0, 24, 4))))
	return m
}

func requirePrice(t *testing.T, m *Market, id geography.CityID) domain.Price {
	t.Helper()
	st, err := m.State(id)
	require.NoError(t, err)
	require.True(t, st.IsEquilibrium(), "city %d: expected equilibrium, got %v", id, st)
	return st.Price
}

func TestSingleCity_ClearsAtCrossing(t *testing.T) {
	m := singleCityMarket(t)

	stats := m.UpdatePrices()
	assert.Equal(t, 1, stats.Groups)
	assert.Equal(t, 1, stats.Cities)

	st, err := m.State(1)
	require.NoError(t, err)
	require.True(t, st.IsEquilibrium())
	assert.InDelta(t, 2.0, st.Price.Float64(), 1e-5)
	assert.InDelta(t, 2.0, st.DemandVolume.Float64(), 1e-5)
	assert.InDelta(t, 2.0, st.SupplyVolume.Float64(), 1e-5)
}

func TestTwoCities_UnprofitableArbitrage_ClearsIndependently(t *testing.T) {
	m := twoCityMarket(t, 100)
	require.NoError(t, m.SeedPrice(1, domain.NewPrice(10)))
	require.NoError(t, m.SeedPrice(2, domain.NewPrice(60)))

	stats := m.UpdatePrices()
	assert.Equal(t, 2, stats.Groups, "gap 50 below cost 100 must keep singleton groups")

	assert.InDelta(t, 2.0, requirePrice(t, m, 1).Float64(), 1e-5)
	assert.InDelta(t, 22.0, requirePrice(t, m, 2).Float64(), 1e-5)
}

func TestTwoCities_ProfitableArbitrage_GapEqualsCost(t *testing.T) {
	m := twoCityMarket(t, 5)
	require.NoError(t, m.SeedPrice(1, domain.NewPrice(5)))
	require.NoError(t, m.SeedPrice(2, domain.NewPrice(25)))

	stats := m.UpdatePrices()
	require.Equal(t, 1, stats.Groups, "gap 20 at or above cost 5 must merge the cities")

	p1 := requirePrice(t, m, 1)
	p2 := requirePrice(t, m, 2)
	assert.InDelta(t, 5.0, p2.Sub(p1).Float64(), 1e-9,
		"arbitrage fully exploited: prices differ by exactly the transport cost")

	// The joint solve routes the imbalance through transport: the cheap
	// city produces, the expensive one consumes.
	st1, _ := m.State(1)
	st2, _ := m.State(2)
	assert.InDelta(t, 0.0, st1.DemandVolume.Float64(), 1e-4)
	assert.InDelta(t, 4.0, st1.SupplyVolume.Float64(), 1e-4)
	assert.InDelta(t, 4.0, st2.DemandVolume.Float64(), 1e-4)
	assert.InDelta(t, 0.0, st2.SupplyVolume.Float64(), 1e-4)
}

func TestUpdatePrices_FixedPointOnceStable(t *testing.T) {
	m := twoCityMarket(t, 5)
	require.NoError(t, m.SeedPrice(1, domain.NewPrice(5)))
	require.NoError(t, m.SeedPrice(2, domain.NewPrice(25)))

	m.UpdatePrices()
	m.UpdatePrices()
	second := m.Snapshot(0)
	m.UpdatePrices()
	third := m.Snapshot(0)

	require.Len(t, third.Cities, len(second.Cities))
	for i := range second.Cities {
		a, b := second.Cities[i], third.Cities[i]
		assert.Equal(t, a.State, b.State, "city %d state changed at the fixed point", a.CityID)
		if a.Price != nil && b.Price != nil {
			assert.InDelta(t, *a.Price, *b.Price, 1e-9)
		}
	}
}

func TestSimulate_RunsNPasses(t *testing.T) {
	m := singleCityMarket(t)
	stats := m.Simulate(3)
	assert.Equal(t, 1, stats.Groups)

	st, err := m.State(1)
	require.NoError(t, err)
	assert.True(t, st.IsEquilibrium())
}

func TestResetPrices_KeepsAggregates(t *testing.T) {
	m := singleCityMarket(t)
	m.UpdatePrices()
	first, _ := m.State(1)
	require.True(t, first.IsEquilibrium())

	m.ResetPrices()
	st, err := m.State(1)
	require.NoError(t, err)
	assert.Equal(t, domain.StateUndefined, st.Kind)

	// Aggregates survived the reset: the next pass resolves the same
	// equilibrium from scratch.
	m.UpdatePrices()
	again, _ := m.State(1)
	require.True(t, again.IsEquilibrium())
	assert.InDelta(t, first.Price.Float64(), again.Price.Float64(), 1e-9)
}

func TestRegistration_UnknownCity(t *testing.T) {
	m := singleCityMarket(t)

	err := m.AddProducer(42, curve.NewSupply(pts(0, 0, 1, 1)))
	assert.ErrorIs(t, err, domain.ErrUnknownCity)
	assert.ErrorIs(t, m.AddConsumer(42, curve.NewDemand(pts(0, 1, 1, 0))), domain.ErrUnknownCity)
	assert.ErrorIs(t, m.SeedPrice(42, domain.ZeroPrice), domain.ErrUnknownCity)

	_, err = m.State(42)
	assert.ErrorIs(t, err, domain.ErrUnknownCity)

	var cityErr *domain.CityError
	require.True(t, errors.As(err, &cityErr))
	assert.Equal(t, 42, cityErr.CityID)
}

func TestRemoveProducer_RestoresAggregate(t *testing.T) {
	m := singleCityMarket(t)
	extra := curve.NewSupply(pts(0, 1, 4, 5))

	require.NoError(t, m.AddProducer(1, extra))
	require.NoError(t, m.RemoveProducer(1, extra))

	m.UpdatePrices()
	st, _ := m.State(1)
	require.True(t, st.IsEquilibrium())
	assert.InDelta(t, 2.0, st.Price.Float64(), 1e-5,
		"add then remove must leave the original equilibrium")
}

func TestPrices_NilExactlyWhenNotEquilibrium(t *testing.T) {
	geo := geography.New()
	require.NoError(t, geo.AddCity(geography.City{ID: 1, Name: "Aldora"}))
	require.NoError(t, geo.AddCity(geography.City{ID: 2, Name: "Breva"}))

	m := New(geo)
	// City 1 clears; city 2 has demand that never falls to zero against
	// an empty supply, which is permanent under-supply.
	require.NoError(t, m.AddConsumer(1, curve.NewDemand(pts(0, 4, 4, 0))))
	require.NoError(t, m.AddProducer(1, curve.NewSupply(pts(0, 0, 4, 4))))
	require.NoError(t, m.AddConsumer(2, curve.NewDemand(pts(0, 4, 4, 1))))

	m.UpdatePrices()

	prices := m.Prices()
	require.NotNil(t, prices[1])
	assert.Nil(t, prices[2])

	st2, _ := m.State(2)
	assert.Equal(t, domain.StateUnderSupply, st2.Kind)

	demands := m.DemandVolumes()
	supplies := m.SupplyVolumes()
	assert.NotNil(t, demands[1])
	assert.NotNil(t, supplies[1])
	assert.Nil(t, demands[2])
	assert.Nil(t, supplies[2])
}

func TestSeedPrice_InstallsEquilibrium(t *testing.T) {
	m := singleCityMarket(t)
	require.NoError(t, m.SeedPrice(1, domain.NewPrice(1)))

	st, _ := m.State(1)
	require.True(t, st.IsEquilibrium())
	assert.InDelta(t, 1.0, st.Price.Float64(), 1e-12)
	assert.InDelta(t, 3.0, st.DemandVolume.Float64(), 1e-12)
	assert.InDelta(t, 1.0, st.SupplyVolume.Float64(), 1e-12)
}

func TestSnapshot_OrderedAndTagged(t *testing.T) {
	m := twoCityMarket(t, 100)
	m.UpdatePrices()

	snap := m.Snapshot(7)
	require.Len(t, snap.Cities, 2)
	assert.Equal(t, uint64(7), snap.Turn)
	assert.Equal(t, 1, snap.Cities[0].CityID)
	assert.Equal(t, "Aldora", snap.Cities[0].Name)
	assert.Equal(t, 2, snap.Cities[1].CityID)
	assert.Equal(t, "EQUILIBRIUM", snap.Cities[0].State)
}
