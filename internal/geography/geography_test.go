package geography

import (
	"errors"
	"testing"

	"market_go/internal/domain"
)

func TestGeography_AddCity_Duplicate(t *testing.T) {
	g := New()
	if err := g.AddCity(City{ID: 1, Name: "Aldora"}); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	err := g.AddCity(City{ID: 1, Name: "Aldora again"})
	if !errors.Is(err, domain.ErrDuplicateCity) {
		t.Errorf("expected ErrDuplicateCity, got %v", err)
	}
}

func TestGeography_AddConnection_Symmetric(t *testing.T) {
	g := New()
	g.AddCity(City{ID: 1, Name: "Aldora"})
	g.AddCity(City{ID: 2, Name: "Breva"})

	if err := g.AddConnection(1, 2, domain.NewPrice(5)); err != nil {
		t.Fatalf("add connection failed: %v", err)
	}

	fwd := g.Connections(1)
	rev := g.Connections(2)
	if len(fwd) != 1 || len(rev) != 1 {
		t.Fatalf("expected one half-edge per endpoint, got %d/%d", len(fwd), len(rev))
	}
	if fwd[0].To != 2 || rev[0].To != 1 {
		t.Error("reverse edge not inserted alongside the forward one")
	}
	if !fwd[0].Cost.Equal(rev[0].Cost) {
		t.Error("both directions must carry the same cost")
	}
}

func TestGeography_AddConnection_UnknownEndpoint(t *testing.T) {
	g := New()
	g.AddCity(City{ID: 1, Name: "Aldora"})

	err := g.AddConnection(1, 99, domain.NewPrice(1))
	if !errors.Is(err, domain.ErrUnknownCity) {
		t.Errorf("expected ErrUnknownCity, got %v", err)
	}

	var cityErr *domain.CityError
	if !errors.As(err, &cityErr) || cityErr.CityID != 99 {
		t.Errorf("expected CityError for id 99, got %v", err)
	}
}

func TestGeography_CityIDs_Sorted(t *testing.T) {
	g := New()
	for _, id := range []CityID{5, 1, 3} {
		g.AddCity(City{ID: id})
	}

	ids := g.CityIDs()
	want := []CityID{1, 3, 5}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
	if g.CityCount() != 3 {
		t.Errorf("expected 3 cities, got %d", g.CityCount())
	}
}

func TestGeography_City_Lookup(t *testing.T) {
	g := New()
	g.AddCity(City{ID: 7, Name: "Corvel"})

	city, err := g.City(7)
	if err != nil || city.Name != "Corvel" {
		t.Errorf("lookup failed: %v %v", city, err)
	}
	if _, err := g.City(8); !errors.Is(err, domain.ErrUnknownCity) {
		t.Errorf("expected ErrUnknownCity, got %v", err)
	}
}
