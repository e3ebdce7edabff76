package auth

import (
	"fmt"
	"os"
	"strings"
)

const (
	AuthModeMemory = "memory"
	AuthModeSQLite = "sqlite"
	AuthModeDB     = "db"
)

func authModeFromEnv() string {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("AUTH_MODE")))
	switch raw {
	case AuthModeDB, "postgres", "postgresql":
		return AuthModeDB
	case AuthModeSQLite, "local":
		return AuthModeSQLite
	case "", AuthModeMemory, "mem":
		return AuthModeMemory
	default:
		return raw
	}
}

// NewServiceFromEnv picks the auth backend from AUTH_MODE: in-memory
// for throwaway servers, sqlite for the local desktop build, postgres
// for hosted play. The mode string is returned for startup logging.
func NewServiceFromEnv() (Service, string, error) {
	mode := authModeFromEnv()

	switch mode {
	case AuthModeDB:
		manager, err := NewPostgresManagerFromEnv()
		if err != nil {
			return nil, mode, err
		}
		return manager, mode, nil
	case AuthModeSQLite:
		manager, err := NewSQLiteManagerFromEnv()
		if err != nil {
			return nil, mode, err
		}
		return manager, mode, nil
	case AuthModeMemory:
		return NewManager(), mode, nil
	default:
		return nil, mode, fmt.Errorf("invalid AUTH_MODE %q (supported: %s, %s, %s)", mode, AuthModeMemory, AuthModeSQLite, AuthModeDB)
	}
}
