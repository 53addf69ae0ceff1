package app

import (
	"log/slog"

	"market_go/internal/infra"
	"market_go/internal/infra/storage"
	"market_go/internal/scenario"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config   *infra.Config
	Storage  *storage.Storage
	Scenario *scenario.Scenario
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads config, wires logging, opens storage and builds the
// scenario's market.
func (b *Bootstrap) Initialize(configPath string) error {
	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)
	slog.Info("Bootstrapping",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version))

	// 3. Initialize Storage (optional)
	if cfg.Storage.Path != "" {
		store, err := storage.NewStorage(cfg.Storage.Path, cfg.Storage.PriceStep)
		if err != nil {
			return err
		}
		b.Storage = store
		slog.Info("Database initialized", slog.String("path", cfg.Storage.Path))
	}

	// 4. Load Scenario
	sc, err := scenario.Load(cfg.Simulation.ScenarioPath)
	if err != nil {
		return err
	}
	b.Scenario = sc
	slog.Info("Scenario loaded",
		slog.String("name", sc.Name),
		slog.Int("cities", sc.Market.Geography().CityCount()),
		slog.Int("producers", len(sc.Producers)),
		slog.Int("consumers", len(sc.Consumers)))

	return nil
}
