package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"market_go/internal/domain"
	"market_go/internal/entity"
	"market_go/internal/infra"
	"market_go/internal/market"

	"github.com/google/uuid"
)

// Store persists finished turns.
type Store interface {
	SaveTurn(ctx context.Context, snap domain.TurnSnapshot) error
}

// Broadcaster pushes finished turns to live subscribers.
type Broadcaster interface {
	Broadcast(snap domain.TurnSnapshot)
}

// Runner drives the market through turns. Each turn runs one clearing
// pass, publishes the resulting snapshot, then lets entity behaviors
// react before the next pass. The Runner is the only writer of the
// entity registry and MUST be driven from a single goroutine.
type Runner struct {
	market    *market.Market
	producers []*entity.Producer
	consumers []*entity.Consumer

	store Store
	feed  Broadcaster

	// Boundary: used to notify UI or other systems of finished turns
	onTurn func(domain.TurnSnapshot)

	turn uint64
}

// NewRunner creates a runner. store, feed and onTurn may each be nil.
func NewRunner(m *market.Market, store Store, feed Broadcaster, onTurn func(domain.TurnSnapshot)) *Runner {
	return &Runner{
		market: m,
		store:  store,
		feed:   feed,
		onTurn: onTurn,
	}
}

// AddProducer registers the producer's curve with its city and tracks
// the entity for behavior updates.
func (r *Runner) AddProducer(p *entity.Producer) error {
	if err := r.market.AddProducer(p.City, p.Supply); err != nil {
		return err
	}
	r.producers = append(r.producers, p)
	return nil
}

// AddConsumer registers the consumer's curve with its city.
func (r *Runner) AddConsumer(c *entity.Consumer) error {
	if err := r.market.AddConsumer(c.City, c.Demand); err != nil {
		return err
	}
	r.consumers = append(r.consumers, c)
	return nil
}

// TrackProducer adopts a producer whose curve is already registered
// with the market, e.g. one built by the scenario loader.
func (r *Runner) TrackProducer(p *entity.Producer) {
	r.producers = append(r.producers, p)
}

// TrackConsumer adopts an already registered consumer.
func (r *Runner) TrackConsumer(c *entity.Consumer) {
	r.consumers = append(r.consumers, c)
}

// RemoveProducer withdraws the producer's curve and forgets the entity.
func (r *Runner) RemoveProducer(id uuid.UUID) error {
	for i, p := range r.producers {
		if p.ID == id {
			if err := r.market.RemoveProducer(p.City, p.Supply); err != nil {
				return err
			}
			r.producers = append(r.producers[:i], r.producers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("unknown producer %s", id)
}

// RemoveConsumer withdraws the consumer's curve and forgets the entity.
func (r *Runner) RemoveConsumer(id uuid.UUID) error {
	for i, c := range r.consumers {
		if c.ID == id {
			if err := r.market.RemoveConsumer(c.City, c.Demand); err != nil {
				return err
			}
			r.consumers = append(r.consumers[:i], r.consumers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("unknown consumer %s", id)
}

// Turn returns the number of completed turns.
func (r *Runner) Turn() uint64 { return r.turn }

// RunTurns executes n turns, stopping early when ctx is canceled.
func (r *Runner) RunTurns(ctx context.Context, n int) error {
	slog.Info("Runner started", slog.Int("turns", n))

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("CRITICAL_PANIC_DETECTED", slog.Any("panic", rec))
			r.DumpState("panic_dump.json")
			panic(fmt.Sprintf("HALTED: %v", rec))
		}
	}()

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			slog.Info("Runner stopping...")
			return ctx.Err()
		default:
		}
		r.runTurn(ctx)
	}
	return nil
}

func (r *Runner) runTurn(ctx context.Context) {
	start := time.Now()
	stats := r.market.UpdatePrices()
	r.turn++

	snap := r.market.Snapshot(r.turn)
	infra.GlobalMetrics.RecordPass(time.Since(start).Nanoseconds(), stats.Groups, stats.Cities)

	for _, c := range snap.Cities {
		if c.State == domain.StateUndefined.String() {
			slog.Warn("city cleared without a usable price",
				slog.Int("city", c.CityID),
				slog.Uint64("turn", r.turn))
		}
	}

	// History is reporting, not a WAL. A failed write is logged and the
	// simulation keeps going.
	if r.store != nil {
		if err := r.store.SaveTurn(ctx, snap); err != nil {
			infra.GlobalMetrics.RecordError()
			slog.Error("failed to persist turn",
				slog.Uint64("turn", r.turn),
				slog.Any("error", err))
		}
	}

	if r.feed != nil {
		r.feed.Broadcast(snap)
	}
	if r.onTurn != nil {
		r.onTurn(snap)
	}

	r.applyBehaviors()
}

// applyBehaviors lets each entity observe its city and move its curve.
// Moves take effect on the next pass.
func (r *Runner) applyBehaviors() {
	for _, p := range r.producers {
		if p.Behavior == nil {
			continue
		}
		st, err := r.market.State(p.City)
		if err != nil {
			continue
		}
		shift, ok := p.Behavior.React(st)
		if !ok || shift.IsZero() {
			continue
		}
		if err := r.market.RemoveProducer(p.City, p.Supply); err != nil {
			continue
		}
		p.Supply = p.Supply.ShiftBy(shift)
		r.market.AddProducer(p.City, p.Supply)
	}

	for _, c := range r.consumers {
		if c.Behavior == nil {
			continue
		}
		st, err := r.market.State(c.City)
		if err != nil {
			continue
		}
		shift, ok := c.Behavior.React(st)
		if !ok || shift.IsZero() {
			continue
		}
		if err := r.market.RemoveConsumer(c.City, c.Demand); err != nil {
			continue
		}
		c.Demand = c.Demand.ShiftBy(shift)
		r.market.AddConsumer(c.City, c.Demand)
	}
}

// DumpState writes the last snapshot to a file (for post-mortem).
func (r *Runner) DumpState(filename string) {
	slog.Info("Dumping internal state...", slog.String("file", filename))

	data := struct {
		Turn     uint64              `json:"turn"`
		Snapshot domain.TurnSnapshot `json:"snapshot"`
	}{
		Turn:     r.turn,
		Snapshot: r.market.Snapshot(r.turn),
	}

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal state", slog.Any("error", err))
		return
	}

	if err := os.WriteFile(filename, b, 0644); err != nil {
		slog.Error("Failed to write state dump", slog.Any("error", err))
	}
}
