package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"market_go/internal/app"
	"market_go/internal/chart"
	"market_go/internal/engine"
	"market_go/internal/feed"
	"market_go/internal/geography"
	"market_go/internal/infra"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	flag.Parse()

	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		slog.Error("Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := bootstrap.Config

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Live Feed Server (optional)
	var hub *feed.Hub
	var httpSrv *http.Server
	if cfg.Server.Enabled {
		hub = feed.NewHub()
		go hub.Run(ctx)

		mux := http.NewServeMux()
		mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
			feed.ServeWS(hub, w, r)
		})
		httpSrv = &http.Server{Addr: cfg.Server.Addr, Handler: mux}
		go func() {
			slog.Info("Feed server started", slog.String("addr", cfg.Server.Addr))
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Feed server failed", slog.Any("error", err))
			}
		}()
	}

	// 5. Runner Wiring
	var store engine.Store
	if bootstrap.Storage != nil {
		store = bootstrap.Storage
	}
	var broadcaster engine.Broadcaster
	if hub != nil {
		broadcaster = hub
	}

	runner := engine.NewRunner(bootstrap.Scenario.Market, store, broadcaster, nil)

	// Entities were already registered with the market by the scenario
	// loader; hand them to the runner so behaviors fire.
	for _, p := range bootstrap.Scenario.Producers {
		runner.TrackProducer(p)
	}
	for _, c := range bootstrap.Scenario.Consumers {
		runner.TrackConsumer(c)
	}

	// 6. Simulation
	start := time.Now()
	if err := runner.RunTurns(ctx, cfg.Simulation.Turns); err != nil {
		slog.Warn("Simulation stopped early", slog.Any("error", err))
	}
	snap := infra.GlobalMetrics.Snapshot()
	slog.Info("Simulation finished",
		slog.Uint64("turns", snap.PassesCompleted),
		slog.Int64("groups_last_pass", snap.GroupsLastPass),
		slog.Int64("avg_pass_ns", snap.AvgLatencyNs),
		slog.Duration("elapsed", time.Since(start)))

	// 7. Chart Rendering (optional, needs persisted history)
	if cfg.Chart.Enabled && bootstrap.Storage != nil {
		renderChart(ctx, bootstrap)
	}

	if httpSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Feed server shutdown failed", slog.Any("error", err))
		}
	}

	slog.Info("Shutting down gracefully...")
}

func renderChart(ctx context.Context, bootstrap *app.Bootstrap) {
	cfg := bootstrap.Config
	history, err := bootstrap.Storage.PriceHistory(ctx)
	if err != nil {
		slog.Error("Failed to load price history", slog.Any("error", err))
		return
	}

	geo := bootstrap.Scenario.Market.Geography()
	series := make([]chart.Series, 0, len(history))
	for id, points := range history {
		name := ""
		if city, err := geo.City(geography.CityID(id)); err == nil {
			name = city.Name
		}
		s := chart.Series{CityID: id, Name: name}
		for _, p := range points {
			s.Points = append(s.Points, chart.Point{Turn: p.Turn, Price: p.Price})
		}
		series = append(series, s)
	}

	if err := chart.Render(series, cfg.Chart.Width, cfg.Chart.Height, cfg.Chart.OutputPath); err != nil {
		slog.Error("Failed to render chart", slog.Any("error", err))
		return
	}
	slog.Info("Chart written", slog.String("path", cfg.Chart.OutputPath))
}
