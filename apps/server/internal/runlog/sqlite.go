package runlog

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type sqliteService struct {
	db *sql.DB
}

// NewSQLiteServiceFromEnv opens (or creates) the local run history
// database. RUNLOG_SQLITE_PATH overrides the default location.
func NewSQLiteServiceFromEnv() (Service, string, error) {
	path := strings.TrimSpace(os.Getenv("RUNLOG_SQLITE_PATH"))
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		path = filepath.Join(dir, "FiftyTwo", "fiftytwo_local.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, "", err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, "", err
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, "", err
		}
	}
	if err := ensureRunlogSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, "", err
	}

	return &sqliteService{db: db}, "sqlite:" + path, nil
}

func ensureRunlogSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS run_history (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id      INTEGER NOT NULL,
    seed         INTEGER NOT NULL,
    class        TEXT    NOT NULL,
    victory      INTEGER NOT NULL,
    final_chips  INTEGER NOT NULL,
    turns_played INTEGER NOT NULL,
    turns_won    INTEGER NOT NULL,
    combats_won  INTEGER NOT NULL,
    damage_dealt INTEGER NOT NULL,
    chips_won    INTEGER NOT NULL,
    chips_lost   INTEGER NOT NULL,
    highest_bet  INTEGER NOT NULL,
    started_at   TEXT    NOT NULL,
    ended_at     TEXT    NOT NULL
)`); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx, `
CREATE INDEX IF NOT EXISTS idx_run_history_user
ON run_history (user_id, id DESC)`)
	return err
}

func (s *sqliteService) Close() error { return s.db.Close() }

func (s *sqliteService) RecordRun(ctx context.Context, rec *Record) (uint64, error) {
	if err := rec.validate(); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `
INSERT INTO run_history (user_id, seed, class, victory, final_chips, turns_played,
    turns_won, combats_won, damage_dealt, chips_won, chips_lost, highest_bet,
    started_at, ended_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(rec.UserID), rec.Seed, rec.Class, boolToInt(rec.Victory), rec.FinalChips,
		rec.TurnsPlayed, rec.TurnsWon, rec.CombatsWon, rec.DamageDealt,
		rec.ChipsWon, rec.ChipsLost, rec.HighestBet,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.EndedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (s *sqliteService) ListRecent(ctx context.Context, userID uint64, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, seed, class, victory, final_chips, turns_played, turns_won,
    combats_won, damage_dealt, chips_won, chips_lost, highest_bet, started_at, ended_at
FROM run_history WHERE user_id = ? ORDER BY id DESC LIMIT ?`,
		int64(userID), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		var (
			rec       Record
			victory   int
			startedAt string
			endedAt   string
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Seed, &rec.Class, &victory,
			&rec.FinalChips, &rec.TurnsPlayed, &rec.TurnsWon, &rec.CombatsWon,
			&rec.DamageDealt, &rec.ChipsWon, &rec.ChipsLost, &rec.HighestBet,
			&startedAt, &endedAt); err != nil {
			return nil, err
		}
		rec.Victory = victory != 0
		if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			rec.StartedAt = t
		}
		if t, err := time.Parse(time.RFC3339Nano, endedAt); err == nil {
			rec.EndedAt = t
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
