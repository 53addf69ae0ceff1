package market

import (
	"market_go/internal/domain"
	"market_go/internal/geography"
)

// member is one city of a price group together with its accumulated
// price offset relative to the group root: the signed sum of transport
// costs walked along the discovery path. The offset expresses the
// member's curves in the root's price frame; after the group-wide solve,
// local price = group price + offset.
type member struct {
	city   geography.CityID
	offset domain.Price
}

// group is a maximal set of cities whose current price gaps meet or
// exceed the connecting transport costs, so arbitrage ties them into a
// single joint market. Members are kept in discovery order, which makes
// the curve summation order deterministic for a given topology.
type group struct {
	root    geography.CityID
	members []member
}

// effectivePrice maps a city's state to the price used in arbitrage
// comparisons. Permanently under-/over-supplied cities behave as
// infinitely price-inelastic, hence the sentinels. The second return is
// false for states that contribute no price at all.
func effectivePrice(st domain.MarketState) (domain.Price, bool) {
	switch st.Kind {
	case domain.StateEquilibrium:
		return st.Price, true
	case domain.StateUnderSupply:
		return domain.MaxPrice, true
	case domain.StateOverSupply:
		return domain.MinPrice, true
	default:
		return domain.ZeroPrice, false
	}
}

// edgeJoins decides whether the edge u->v pulls v into u's group, and
// if so whether v sits on the higher-priced side (offset grows by the
// transport cost) or the lower-priced side (offset shrinks). An
// undefined endpoint degrades the edge to a zero-vs-zero comparison
// that only a free edge survives.
func (m *Market) edgeJoins(u, v geography.CityID, cost domain.Price) (joins, higher bool) {
	pu, uok := effectivePrice(m.data[u].State)
	pv, vok := effectivePrice(m.data[v].State)
	if !uok || !vok {
		return cost.IsZero(), true
	}
	gap := pu.Sub(pv).Abs()
	return gap.GreaterThanOrEqual(cost), pv.GreaterThanOrEqual(pu)
}

// partition splits the city graph into price groups: a depth-first
// search from every unvisited city, pulling in each unvisited neighbor
// whose price gap is at or above the edge's transport cost. The walk
// uses an explicit stack — city graphs can be large and cyclic, and the
// visited set is the only cycle-breaking needed. Callers must hold the
// write lock.
func (m *Market) partition() []group {
	visited := make(map[geography.CityID]bool, len(m.data))
	var groups []group

	for _, rootID := range m.geo.CityIDs() {
		if visited[rootID] {
			continue
		}
		g := group{root: rootID}
		stack := []member{{city: rootID, offset: domain.ZeroPrice}}
		visited[rootID] = true

		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			g.members = append(g.members, cur)

			for _, conn := range m.geo.Connections(cur.city) {
				if visited[conn.To] {
					continue
				}
				joins, higher := m.edgeJoins(cur.city, conn.To, conn.Cost)
				if !joins {
					continue
				}
				visited[conn.To] = true
				offset := cur.offset
				if higher {
					offset = offset.Add(conn.Cost)
				} else {
					offset = offset.Sub(conn.Cost)
				}
				stack = append(stack, member{city: conn.To, offset: offset})
			}
		}
		groups = append(groups, g)
	}
	return groups
}
