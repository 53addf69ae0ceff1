package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"market_go/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TurnRecord is one city's result from one clearing pass.
type TurnRecord struct {
	ID           uint   `gorm:"primaryKey"`
	Turn         uint64 `gorm:"index"`
	CityID       int    `gorm:"index"`
	CityName     string
	State        string
	Price        *string
	DemandVolume *string
	SupplyVolume *string
	CreatedAt    time.Time
}

// PricePoint is a single equilibrium price observation for a city.
type PricePoint struct {
	Turn  uint64
	Price float64
}

// Storage persists pass history to SQLite
type Storage struct {
	db   *gorm.DB
	step decimal.Decimal
}

// NewStorage opens (or creates) the SQLite database at path. Numeric
// values are quantized to step before being stored; a zero step keeps
// the default micro-unit granularity.
func NewStorage(path string, step decimal.Decimal) (*Storage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&TurnRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if step.IsZero() {
		step = decimal.New(1, -6)
	}
	return &Storage{db: db, step: step}, nil
}

// SaveTurn writes every city result from one snapshot in a single batch.
func (s *Storage) SaveTurn(ctx context.Context, snap domain.TurnSnapshot) error {
	records := make([]TurnRecord, 0, len(snap.Cities))
	for _, c := range snap.Cities {
		records = append(records, TurnRecord{
			Turn:         snap.Turn,
			CityID:       c.CityID,
			CityName:     c.Name,
			State:        c.State,
			Price:        s.quantize(c.Price),
			DemandVolume: s.quantize(c.DemandVolume),
			SupplyVolume: s.quantize(c.SupplyVolume),
		})
	}
	if len(records) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&records).Error
}

// PriceHistory returns the equilibrium price series per city, ordered
// by turn. Cities that never reached equilibrium are absent.
func (s *Storage) PriceHistory(ctx context.Context) (map[int][]PricePoint, error) {
	var records []TurnRecord
	err := s.db.WithContext(ctx).
		Where("state = ?", domain.StateEquilibrium.String()).
		Order("turn asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	history := make(map[int][]PricePoint)
	for _, r := range records {
		if r.Price == nil {
			continue
		}
		p, err := decimal.NewFromString(*r.Price)
		if err != nil {
			return nil, fmt.Errorf("corrupt price for city %d at turn %d: %w", r.CityID, r.Turn, err)
		}
		f, _ := p.Float64()
		history[r.CityID] = append(history[r.CityID], PricePoint{Turn: r.Turn, Price: f})
	}
	return history, nil
}

// quantize rounds v to the configured step and renders it as a decimal
// string. Sentinel states carry no value, so nil passes through.
func (s *Storage) quantize(v *float64) *string {
	if v == nil {
		return nil
	}
	d := decimal.NewFromFloat(*v)
	q := d.Div(s.step).Round(0).Mul(s.step).String()
	return &q
}
