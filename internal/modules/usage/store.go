package usage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"wanderlust/internal/modules/conversation"
)

// Store handles turn_log persistence.
type Store struct {
	db *pgxpool.Pool
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Insert appends one turn. A repeated turn_id is silently skipped (ON CONFLICT DO NOTHING).
func (s *Store) Insert(ctx context.Context, rec conversation.TurnRecord) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO turn_log (turn_id, session_id, query, city_name, outcome, error, started_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (turn_id) DO NOTHING
	`, rec.TurnID, rec.SessionID, rec.Query, rec.CityName, string(rec.Outcome), rec.Error,
		rec.StartedAt, rec.Duration.Milliseconds())
	return err
}

// CountByOutcome returns the number of turns per outcome.
func (s *Store) CountByOutcome(ctx context.Context) (map[conversation.Outcome]int64, error) {
	rows, err := s.db.Query(ctx, `SELECT outcome, COUNT(*) FROM turn_log GROUP BY outcome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[conversation.Outcome]int64)
	for rows.Next() {
		var outcome string
		var n int64
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, err
		}
		out[conversation.Outcome(outcome)] = n
	}
	return out, rows.Err()
}

// TopCities returns the most delivered cities, most frequent first.
func (s *Store) TopCities(ctx context.Context, limit int) ([]CityCount, error) {
	rows, err := s.db.Query(ctx, `
		SELECT city_name, COUNT(*) AS turns
		FROM turn_log
		WHERE outcome = $1 AND city_name <> ''
		GROUP BY city_name
		ORDER BY turns DESC, city_name ASC
		LIMIT $2
	`, string(conversation.OutcomeDelivered), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CityCount
	for rows.Next() {
		var c CityCount
		if err := rows.Scan(&c.CityName, &c.Turns); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
