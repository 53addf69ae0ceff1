// Package geography holds the static city graph the market operates on:
// cities plus symmetric, transport-costed connections.
package geography

import (
	"fmt"
	"sort"

	"market_go/internal/domain"
)

// CityID identifies a city within one geography.
type CityID int

// City is a node of the transport network.
type City struct {
	ID   CityID
	Name string
}

// Connection is one directed half of a transport link. The reverse half
// is always inserted alongside it, so adjacency lists can be walked
// without special-casing direction.
type Connection struct {
	From CityID
	To   CityID
	Cost domain.Price
}

// Geography is the adjacency structure: cities by id plus per-city
// connection lists. It is a static input and is not mutated after the
// market is built on top of it.
type Geography struct {
	cities      map[CityID]City
	connections map[CityID][]Connection
}

// New returns an empty geography.
func New() *Geography {
	return &Geography{
		cities:      make(map[CityID]City),
		connections: make(map[CityID][]Connection),
	}
}

// AddCity registers a city. Duplicate ids are rejected.
func (g *Geography) AddCity(city City) error {
	if _, ok := g.cities[city.ID]; ok {
		return fmt.Errorf("add_city %d: %w", city.ID, domain.ErrDuplicateCity)
	}
	g.cities[city.ID] = city
	return nil
}

// AddConnection links two cities with a transport cost, inserting the
// reverse edge alongside the forward one. Both endpoints must exist.
func (g *Geography) AddConnection(from, to CityID, cost domain.Price) error {
	if _, ok := g.cities[from]; !ok {
		return domain.NewCityError("add_connection", int(from), domain.ErrUnknownCity)
	}
	if _, ok := g.cities[to]; !ok {
		return domain.NewCityError("add_connection", int(to), domain.ErrUnknownCity)
	}
	g.connections[from] = append(g.connections[from], Connection{From: from, To: to, Cost: cost})
	g.connections[to] = append(g.connections[to], Connection{From: to, To: from, Cost: cost})
	return nil
}

// City looks up a city by id.
func (g *Geography) City(id CityID) (City, error) {
	city, ok := g.cities[id]
	if !ok {
		return City{}, domain.NewCityError("city", int(id), domain.ErrUnknownCity)
	}
	return city, nil
}

// Connections returns the outgoing half-edges of a city. The slice is
// shared; callers must not mutate it.
func (g *Geography) Connections(id CityID) []Connection {
	return g.connections[id]
}

// CityIDs returns all city ids in ascending order, giving traversals a
// deterministic starting sequence.
func (g *Geography) CityIDs() []CityID {
	ids := make([]CityID, 0, len(g.cities))
	for id := range g.cities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CityCount returns the number of cities.
func (g *Geography) CityCount() int { return len(g.cities) }
