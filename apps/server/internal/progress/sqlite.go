package progress

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type sqliteService struct {
	db *sql.DB
}

// NewSQLiteServiceFromEnv opens (or creates) the local progress
// database. PROGRESS_SQLITE_PATH overrides the default location next
// to the auth database.
func NewSQLiteServiceFromEnv() (Service, string, error) {
	path := strings.TrimSpace(os.Getenv("PROGRESS_SQLITE_PATH"))
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
	if err := ensureProgressSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, "", err
	}

	return &sqliteService{db: db}, "sqlite:" + path, nil
}

func ensureProgressSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS run_progress (
    user_id               INTEGER PRIMARY KEY,
    highest_completed_act INTEGER NOT NULL DEFAULT 0,
    completed_acts        TEXT    NOT NULL DEFAULT '[]',
    unlocked_trinkets     TEXT    NOT NULL DEFAULT '[]',
    settings_toml         TEXT    NOT NULL DEFAULT '',
    updated_at            TEXT    NOT NULL
)`)
	return err
}

func (s *sqliteService) Close() error { return s.db.Close() }

func (s *sqliteService) GetProgress(ctx context.Context, userID uint64) (*Progress, error) {
	if userID == 0 {
		return defaultProgress(0), nil
	}
	sp, err := s.readOrInsert(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProgress(userID, sp), nil
}

func (s *sqliteService) CompleteAct(ctx context.Context, userID uint64, actID int, unlocks []string) (*Progress, error) {
	if userID == 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if actID <= 0 {
		return nil, fmt.Errorf("invalid act id: %d", actID)
	}
	sp, err := s.readOrInsert(ctx, userID)
	if err != nil {
		return nil, err
	}
	if actID > sp.HighestCompletedAct+1 {
		return nil, ErrActLocked
	}
	applyCompletion(sp, actID, unlocks)
	if err := s.write(ctx, userID, sp); err != nil {
		return nil, err
	}
	return toProgress(userID, sp), nil
}

func (s *sqliteService) SaveSettings(ctx context.Context, userID uint64, settingsTOML string) error {
	if userID == 0 {
		return fmt.Errorf("invalid user id")
	}
	sp, err := s.readOrInsert(ctx, userID)
	if err != nil {
		return err
	}
	sp.SettingsTOML = settingsTOML
	sp.UpdatedAt = time.Now().UTC()
	return s.write(ctx, userID, sp)
}

func (s *sqliteService) LoadSettings(ctx context.Context, userID uint64) (string, error) {
	var blob string
	err := s.db.QueryRowContext(ctx,
		`SELECT settings_toml FROM run_progress WHERE user_id = ?`, int64(userID)).Scan(&blob)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return blob, nil
}

func (s *sqliteService) readOrInsert(ctx context.Context, userID uint64) (*storedProgress, error) {
	var (
		highest      int
		actsJSON     string
		trinketsJSON string
		settingsTOML string
		updatedAt    string
	)
	err := s.db.QueryRowContext(ctx, `
SELECT highest_completed_act, completed_acts, unlocked_trinkets, settings_toml, updated_at
FROM run_progress WHERE user_id = ?`, int64(userID)).
		Scan(&highest, &actsJSON, &trinketsJSON, &settingsTOML, &updatedAt)
	if err == sql.ErrNoRows {
		sp := &storedProgress{UpdatedAt: time.Now().UTC()}
		if err := s.write(ctx, userID, sp); err != nil {
			return nil, err
		}
		return sp, nil
	}
	if err != nil {
		return nil, err
	}

	sp := &storedProgress{HighestCompletedAct: highest, SettingsTOML: settingsTOML}
	if err := json.Unmarshal([]byte(actsJSON), &sp.CompletedActs); err != nil {
		return nil, fmt.Errorf("decode completed_acts for user %d: %w", userID, err)
	}
	if err := json.Unmarshal([]byte(trinketsJSON), &sp.UnlockedTrinkets); err != nil {
		return nil, fmt.Errorf("decode unlocked_trinkets for user %d: %w", userID, err)
	}
	if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		sp.UpdatedAt = t
	}
	return sp, nil
}

func (s *sqliteService) write(ctx context.Context, userID uint64, sp *storedProgress) error {
	actsJSON, err := marshalJSON(emptySlice(sp.CompletedActs))
	if err != nil {
		return err
	}
	trinketsJSON, err := marshalJSON(emptySliceStr(sp.UnlockedTrinkets))
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO run_progress (user_id, highest_completed_act, completed_acts, unlocked_trinkets, settings_toml, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    highest_completed_act = excluded.highest_completed_act,
    completed_acts        = excluded.completed_acts,
    unlocked_trinkets     = excluded.unlocked_trinkets,
    settings_toml         = excluded.settings_toml,
    updated_at            = excluded.updated_at`,
		int64(userID), sp.HighestCompletedAct, actsJSON, trinketsJSON, sp.SettingsTOML,
		sp.UpdatedAt.Format(time.RFC3339Nano))
	return err
}

func emptySlice(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

func emptySliceStr(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
