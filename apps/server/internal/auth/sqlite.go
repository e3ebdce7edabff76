package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"golang.org/x/crypto/bcrypt"
)

const defaultLocalDBName = "fiftytwo_local.db"

const sqliteTimeout = 5 * time.Second

// SQLiteManager backs the Service with a local database file, the
// desktop-build default where runs never leave the machine.
type SQLiteManager struct {
	db         *sql.DB
	sessionTTL time.Duration
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS players (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL,
    password_hash TEXT,
    created_at_ms INTEGER NOT NULL,
    last_seen_at_ms INTEGER NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS uq_players_username_ci ON players(lower(username));
CREATE TABLE IF NOT EXISTS sessions (
    token TEXT PRIMARY KEY,
    player_id INTEGER NOT NULL,
    issued_at_ms INTEGER NOT NULL,
    expires_at_ms INTEGER NOT NULL,
    FOREIGN KEY(player_id) REFERENCES players(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_sessions_player ON sessions(player_id, expires_at_ms DESC);
`

func NewSQLiteManagerFromEnv() (*SQLiteManager, error) {
	dbPath, err := localDatabasePathFromEnv()
	if err != nil {
		return nil, err
	}
	return NewSQLiteManager(dbPath, sessionTTLFromEnv())
}

func NewSQLiteManager(dbPath string, sessionTTL time.Duration) (*SQLiteManager, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	if dbPath != ":memory:" {
		if parent := filepath.Dir(dbPath); parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// Serialize through one connection; modernc's driver has no shared
	// cache and WAL handles readers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), sqliteTimeout)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteManager{db: db, sessionTTL: sessionTTL}, nil
}

func (m *SQLiteManager) Close() error {
	if m == nil || m.db == nil {
		return nil
	}
	return m.db.Close()
}

func (m *SQLiteManager) Register(username, password string) (uint64, string, error) {
	if err := validateUsername(username); err != nil {
		return 0, "", err
	}
	if err := validatePassword(password); err != nil {
		return 0, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqliteTimeout)
	defer cancel()

	nowMs := time.Now().UTC().UnixMilli()
	playerID, token, err := m.insertPlayer(ctx, normalizeUsername(username), string(hash), nowMs)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return 0, "", ErrUsernameTaken
		}
		return 0, "", err
	}
	return playerID, token, nil
}

func (m *SQLiteManager) Login(username, password string) (uint64, string, error) {
	normalized := normalizeUsername(username)
	if normalized == "" || password == "" {
		return 0, "", ErrInvalidCredentials
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqliteTimeout)
	defer cancel()

	var playerID uint64
	var hash sql.NullString
	err := m.db.QueryRowContext(ctx, `
SELECT id, password_hash FROM players WHERE username = ?
`, normalized).Scan(&playerID, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", ErrInvalidCredentials
		}
		return 0, "", err
	}
	// Guest rows have no hash.
	if !hash.Valid || hash.String == "" {
		return 0, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(hash.String), []byte(password)) != nil {
		return 0, "", ErrInvalidCredentials
	}

	nowMs := time.Now().UTC().UnixMilli()
	if _, err := m.db.ExecContext(ctx, `
UPDATE players SET last_seen_at_ms = ? WHERE id = ?
`, nowMs, playerID); err != nil {
		return 0, "", err
	}
	token, err := m.issueSession(ctx, playerID, nowMs)
	if err != nil {
		return 0, "", err
	}
	return playerID, token, nil
}

func (m *SQLiteManager) ResolveOrCreateGuest(token string) (uint64, string, bool) {
	token = strings.TrimSpace(token)
	if token != "" {
		if playerID, _, ok := m.ResolveSession(token); ok {
			return playerID, token, true
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqliteTimeout)
	defer cancel()

	nowMs := time.Now().UTC().UnixMilli()
	for i := 0; i < 5; i++ {
		playerID, fresh, err := m.insertPlayer(ctx, guestUsername(), "", nowMs)
		if err != nil {
			if isSQLiteUniqueViolation(err) {
				continue
			}
			return 0, "", false
		}
		return playerID, fresh, false
	}
	return 0, "", false
}

func (m *SQLiteManager) ResolveSession(token string) (uint64, string, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, "", false
	}
	ctx, cancel := context.WithTimeout(context.Background(), sqliteTimeout)
	defer cancel()

	nowMs := time.Now().UTC().UnixMilli()
	res, err := m.db.ExecContext(ctx, `
UPDATE sessions
SET expires_at_ms = ?
WHERE token = ?
  AND expires_at_ms > ?
`, nowMs+m.sessionTTL.Milliseconds(), token, nowMs)
	if err != nil {
		return 0, "", false
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return 0, "", false
	}

	var playerID uint64
	var username string
	err = m.db.QueryRowContext(ctx, `
SELECT p.id, p.username
FROM sessions AS s
JOIN players AS p ON p.id = s.player_id
WHERE s.token = ?
`, token).Scan(&playerID, &username)
	if err != nil {
		return 0, "", false
	}
	_, _ = m.db.ExecContext(ctx, `
UPDATE players SET last_seen_at_ms = ? WHERE id = ?
`, nowMs, playerID)
	return playerID, username, true
}

func (m *SQLiteManager) Logout(token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sqliteTimeout)
	defer cancel()
	_, _ = m.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
}

// insertPlayer creates a player row and its first session in one
// transaction. An empty hash stores NULL, marking a guest.
func (m *SQLiteManager) insertPlayer(ctx context.Context, username, hash string, nowMs int64) (uint64, string, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, "", err
	}
	defer tx.Rollback()

	var storedHash any
	if hash != "" {
		storedHash = hash
	}
	res, err := tx.ExecContext(ctx, `
INSERT INTO players (username, password_hash, created_at_ms, last_seen_at_ms)
VALUES (?, ?, ?, ?)
`, username, storedHash, nowMs, nowMs)
	if err != nil {
		return 0, "", err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, "", err
	}

	token := newSessionToken()
	if _, err := tx.ExecContext(ctx, `
INSERT INTO sessions (token, player_id, issued_at_ms, expires_at_ms)
VALUES (?, ?, ?, ?)
`, token, id, nowMs, nowMs+m.sessionTTL.Milliseconds()); err != nil {
		return 0, "", err
	}
	if err := tx.Commit(); err != nil {
		return 0, "", err
	}
	return uint64(id), token, nil
}

func (m *SQLiteManager) issueSession(ctx context.Context, playerID uint64, nowMs int64) (string, error) {
	token := newSessionToken()
	if _, err := m.db.ExecContext(ctx, `
INSERT INTO sessions (token, player_id, issued_at_ms, expires_at_ms)
VALUES (?, ?, ?, ?)
`, token, playerID, nowMs, nowMs+m.sessionTTL.Milliseconds()); err != nil {
		return "", err
	}
	return token, nil
}

func localDatabasePathFromEnv() (string, error) {
	for _, key := range []string{"AUTH_LOCAL_DATABASE_PATH", "LOCAL_DATABASE_PATH"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return filepath.Clean(v), nil
		}
	}
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "FiftyTwo", defaultLocalDBName), nil
}

func isSQLiteUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
