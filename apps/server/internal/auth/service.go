package auth

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service is the player identity contract consumed by the gateway and
// the HTTP handlers. A player is either registered (username plus
// password) or a guest minted on first connect; both kinds hold runs,
// progress, and history under the same player id.
type Service interface {
	Register(username, password string) (playerID uint64, sessionToken string, err error)
	Login(username, password string) (playerID uint64, sessionToken string, err error)

	// ResolveOrCreateGuest returns the player behind a live token, or
	// mints a guest player with a fresh token when the token is
	// missing or stale. resumed is true on the first path.
	ResolveOrCreateGuest(token string) (playerID uint64, sessionToken string, resumed bool)

	ResolveSession(token string) (playerID uint64, username string, ok bool)
	Logout(token string)
	Close() error
}

const defaultSessionTTL = 30 * 24 * time.Hour

var (
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_.-]{2,31}$`)

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func validateUsername(username string) error {
	if !usernamePattern.MatchString(strings.TrimSpace(username)) {
		return ErrInvalidUsername
	}
	return nil
}

func validatePassword(password string) error {
	// bcrypt truncates past 72 bytes.
	if len(password) < 6 || len(password) > 72 {
		return ErrInvalidPassword
	}
	return nil
}

func newSessionToken() string {
	return uuid.NewString()
}

func guestUsername() string {
	return "guest_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
