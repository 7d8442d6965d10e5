package usage

import (
	"context"
	"fmt"

	"wanderlust/internal/modules/conversation"
)

// ledger is the persistence surface Service needs; *Store implements it.
type ledger interface {
	Insert(ctx context.Context, rec conversation.TurnRecord) error
	CountByOutcome(ctx context.Context) (map[conversation.Outcome]int64, error)
	TopCities(ctx context.Context, limit int) ([]CityCount, error)
}

// Service records resolved turns and summarises them.
type Service struct {
	store ledger
}

// NewService creates a Service backed by the given Store.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// RecordTurn implements conversation.TurnRecorder.
func (s *Service) RecordTurn(ctx context.Context, rec conversation.TurnRecord) error {
	if rec.TurnID == "" {
		return fmt.Errorf("usage: turn record without id")
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		return fmt.Errorf("usage: insert turn: %w", err)
	}
	return nil
}

// Summary returns totals by outcome and the most requested cities.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	counts, err := s.store.CountByOutcome(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("usage: count outcomes: %w", err)
	}
	top, err := s.store.TopCities(ctx, DefaultTopCities)
	if err != nil {
		return Summary{}, fmt.Errorf("usage: top cities: %w", err)
	}

	sum := Summary{
		Delivered: counts[conversation.OutcomeDelivered],
		Failed:    counts[conversation.OutcomeFailed],
		TopCities: top,
	}
	for _, n := range counts {
		sum.Total += n
	}
	if sum.TopCities == nil {
		sum.TopCities = []CityCount{}
	}
	return sum, nil
}
