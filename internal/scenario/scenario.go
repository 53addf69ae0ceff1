// Package scenario loads a complete market setup from a YAML file:
// cities, transport connections, producer/consumer curves and optional
// seed prices.
package scenario

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"market_go/internal/curve"
	"market_go/internal/domain"
	"market_go/internal/entity"
	"market_go/internal/geography"
	"market_go/internal/market"
)

// Scenario is a fully wired market plus the entities registered in it.
type Scenario struct {
	Name      string
	Market    *market.Market
	Producers []*entity.Producer
	Consumers []*entity.Consumer
}

type scenarioFile struct {
	Name   string `yaml:"name"`
	Cities []struct {
		ID   int    `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"cities"`
	Connections []struct {
		From int             `yaml:"from"`
		To   int             `yaml:"to"`
		Cost decimal.Decimal `yaml:"cost"`
	} `yaml:"connections"`
	Prices []struct {
		City  int             `yaml:"city"`
		Price decimal.Decimal `yaml:"price"`
	} `yaml:"prices"`
	Producers []entityDef `yaml:"producers"`
	Consumers []entityDef `yaml:"consumers"`
}

type entityDef struct {
	City int `yaml:"city"`
	// Curve is a list of [price, volume] pairs.
	Curve [][]decimal.Decimal `yaml:"curve"`
	// AnchorStep, when positive, attaches a price-following behavior.
	AnchorStep float64 `yaml:"anchor_step"`
}

// Load reads and builds a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse builds a scenario from YAML bytes. All validation failures
// wrap domain.ErrInvalidScenario.
func Parse(data []byte) (*Scenario, error) {
	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidScenario, err)
	}
	if len(file.Cities) == 0 {
		return nil, fmt.Errorf("%w: no cities", domain.ErrInvalidScenario)
	}

	geo := geography.New()
	for _, c := range file.Cities {
		if err := geo.AddCity(geography.City{ID: geography.CityID(c.ID), Name: c.Name}); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidScenario, err)
		}
	}
	for _, conn := range file.Connections {
		if conn.Cost.IsNegative() {
			return nil, fmt.Errorf("%w: negative cost on connection %d-%d",
				domain.ErrInvalidScenario, conn.From, conn.To)
		}
		cost, _ := conn.Cost.Float64()
		err := geo.AddConnection(geography.CityID(conn.From), geography.CityID(conn.To), domain.NewPrice(cost))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidScenario, err)
		}
	}

	m := market.New(geo)
	sc := &Scenario{Name: file.Name, Market: m}

	for i, def := range file.Producers {
		points, err := curvePoints(def.Curve)
		if err != nil {
			return nil, fmt.Errorf("%w: producer %d: %v", domain.ErrInvalidScenario, i, err)
		}
		p := entity.NewProducer(geography.CityID(def.City), curve.NewSupply(points), behaviorFor(def))
		if err := m.AddProducer(p.City, p.Supply); err != nil {
			return nil, fmt.Errorf("%w: producer %d: %v", domain.ErrInvalidScenario, i, err)
		}
		sc.Producers = append(sc.Producers, p)
	}
	for i, def := range file.Consumers {
		points, err := curvePoints(def.Curve)
		if err != nil {
			return nil, fmt.Errorf("%w: consumer %d: %v", domain.ErrInvalidScenario, i, err)
		}
		c := entity.NewConsumer(geography.CityID(def.City), curve.NewDemand(points), behaviorFor(def))
		if err := m.AddConsumer(c.City, c.Demand); err != nil {
			return nil, fmt.Errorf("%w: consumer %d: %v", domain.ErrInvalidScenario, i, err)
		}
		sc.Consumers = append(sc.Consumers, c)
	}

	// Seeds go in after registration so volumes reflect the aggregates.
	for _, seed := range file.Prices {
		price, _ := seed.Price.Float64()
		if err := m.SeedPrice(geography.CityID(seed.City), domain.NewPrice(price)); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidScenario, err)
		}
	}

	return sc, nil
}

func curvePoints(pairs [][]decimal.Decimal) ([]curve.Point, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("empty curve")
	}
	points := make([]curve.Point, 0, len(pairs))
	seen := make(map[float64]bool, len(pairs))
	for _, pair := range pairs {
		if len(pair) != 2 {
			return nil, fmt.Errorf("curve point needs exactly a price and a volume, got %d values", len(pair))
		}
		arg, _ := pair[0].Float64()
		val, _ := pair[1].Float64()
		if seen[arg] {
			return nil, fmt.Errorf("duplicate curve price %s", pair[0])
		}
		seen[arg] = true
		if val < 0 {
			return nil, fmt.Errorf("negative volume %s", pair[1])
		}
		points = append(points, curve.Point{
			Arg: domain.NewPrice(arg),
			Val: domain.NewVolume(val),
		})
	}
	return points, nil
}

func behaviorFor(def entityDef) entity.Behavior {
	if def.AnchorStep > 0 {
		return entity.NewAnchor(def.AnchorStep)
	}
	return nil
}
