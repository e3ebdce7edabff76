package runlog

import (
	"context"
	"database/sql"
)

// postgresService expects the run_history table to be provisioned by
// the deployment's migrations, matching the sqlite schema.
type postgresService struct {
	db *sql.DB
}

func (s *postgresService) Close() error { return s.db.Close() }

func (s *postgresService) RecordRun(ctx context.Context, rec *Record) (uint64, error) {
	if err := rec.validate(); err != nil {
		return 0, err
	}
	var id uint64
	err := s.db.QueryRowContext(ctx, `
INSERT INTO run_history (user_id, seed, class, victory, final_chips, turns_played,
    turns_won, combats_won, damage_dealt, chips_won, chips_lost, highest_bet,
    started_at, ended_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING id`,
		int64(rec.UserID), rec.Seed, rec.Class, rec.Victory, rec.FinalChips,
		rec.TurnsPlayed, rec.TurnsWon, rec.CombatsWon, rec.DamageDealt,
		rec.ChipsWon, rec.ChipsLost, rec.HighestBet,
		rec.StartedAt.UTC(), rec.EndedAt.UTC()).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *postgresService) ListRecent(ctx context.Context, userID uint64, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, seed, class, victory, final_chips, turns_played, turns_won,
    combats_won, damage_dealt, chips_won, chips_lost, highest_bet, started_at, ended_at
FROM run_history WHERE user_id = $1 ORDER BY id DESC LIMIT $2`,
		int64(userID), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Seed, &rec.Class, &rec.Victory,
			&rec.FinalChips, &rec.TurnsPlayed, &rec.TurnsWon, &rec.CombatsWon,
			&rec.DamageDealt, &rec.ChipsWon, &rec.ChipsLost, &rec.HighestBet,
			&rec.StartedAt, &rec.EndedAt); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}
