package market

import (
	"sync"

	"market_go/internal/curve"
	"market_go/internal/domain"
)

// clearGroup solves one price group: every member's curves are shifted
// by minus its offset into the root frame, summed, and intersected.
// On equilibrium each member gets its local price (group price plus
// offset) and volumes read off its OWN unshifted curves — those need
// not match each other, transport between cities absorbs the imbalance.
// A degenerate group result is assigned to every member verbatim.
func (m *Market) clearGroup(g *group) {
	demand := curve.ZeroDemand()
	supply := curve.ZeroSupply()
	for _, mem := range g.members {
		cd := m.data[mem.city]
		demand = demand.Add(cd.Demand.ShiftBy(mem.offset.Neg()))
		supply = supply.Add(cd.Supply.ShiftBy(mem.offset.Neg()))
	}

	st := demand.Intersect(supply)
	if !st.IsEquilibrium() {
		for _, mem := range g.members {
			m.data[mem.city].State = st
		}
		return
	}

	for _, mem := range g.members {
		cd := m.data[mem.city]
		local := st.Price.Add(mem.offset)
		cd.State = domain.Equilibrium(local, cd.Demand.ValueAt(local), cd.Supply.ValueAt(local))
	}
}

// UpdatePrices runs exactly one pass: partition the graph into price
// groups, clear each group, write back per-city state. Groups touch
// disjoint cities, so they are cleared concurrently with a barrier
// before returning; the next pass's partitioning observes all writes.
// Group membership depends on the very prices being solved for, so
// callers iterate this until the gaps stabilize — there is no automatic
// convergence check.
func (m *Market) UpdatePrices() PassStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	groups := m.partition()

	var wg sync.WaitGroup
	for i := range groups {
		wg.Add(1)
		go func(g *group) {
			defer wg.Done()
			m.clearGroup(g)
		}(&groups[i])
	}
	wg.Wait()

	return PassStats{Groups: len(groups), Cities: len(m.data)}
}

// Simulate runs n passes and returns the stats of the last one.
func (m *Market) Simulate(n int) PassStats {
	var stats PassStats
	for i := 0; i < n; i++ {
		stats = m.UpdatePrices()
	}
	return stats
}
