package progress

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// postgresService expects the run_progress table to be provisioned by
// the deployment's migrations, matching the sqlite schema.
type postgresService struct {
	db *sql.DB
}

func (s *postgresService) Close() error { return s.db.Close() }

func (s *postgresService) GetProgress(ctx context.Context, userID uint64) (*Progress, error) {
	if userID == 0 {
		return defaultProgress(0), nil
	}
	sp, err := s.readOrInsert(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProgress(userID, sp), nil
}

func (s *postgresService) CompleteAct(ctx context.Context, userID uint64, actID int, unlocks []string) (*Progress, error) {
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

func (s *postgresService) SaveSettings(ctx context.Context, userID uint64, settingsTOML string) error {
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

func (s *postgresService) LoadSettings(ctx context.Context, userID uint64) (string, error) {
	var blob string
	err := s.db.QueryRowContext(ctx,
		`SELECT settings_toml FROM run_progress WHERE user_id = $1`, int64(userID)).Scan(&blob)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return blob, nil
}

func (s *postgresService) readOrInsert(ctx context.Context, userID uint64) (*storedProgress, error) {
	var (
		highest      int
		actsJSON     string
		trinketsJSON string
		settingsTOML string
		updatedAt    time.Time
	)
	err := s.db.QueryRowContext(ctx, `
SELECT highest_completed_act, completed_acts, unlocked_trinkets, settings_toml, updated_at
FROM run_progress WHERE user_id = $1`, int64(userID)).
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

	sp := &storedProgress{
		HighestCompletedAct: highest,
		SettingsTOML:        settingsTOML,
		UpdatedAt:           updatedAt,
	}
	if err := json.Unmarshal([]byte(actsJSON), &sp.CompletedActs); err != nil {
		return nil, fmt.Errorf("decode completed_acts for user %d: %w", userID, err)
	}
	if err := json.Unmarshal([]byte(trinketsJSON), &sp.UnlockedTrinkets); err != nil {
		return nil, fmt.Errorf("decode unlocked_trinkets for user %d: %w", userID, err)
	}
	return sp, nil
}

func (s *postgresService) write(ctx context.Context, userID uint64, sp *storedProgress) error {
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
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id) DO UPDATE SET
    highest_completed_act = EXCLUDED.highest_completed_act,
    completed_acts        = EXCLUDED.completed_acts,
    unlocked_trinkets     = EXCLUDED.unlocked_trinkets,
    settings_toml         = EXCLUDED.settings_toml,
    updated_at            = EXCLUDED.updated_at`,
		int64(userID), sp.HighestCompletedAct, actsJSON, trinketsJSON, sp.SettingsTOML, sp.UpdatedAt)
	return err
}
