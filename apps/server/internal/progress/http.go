package progress

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"fiftytwo-lite/settings"

	"fiftytwo-lite/apps/server/internal/auth"
)

type HTTPHandler struct {
	auth     auth.Service
	progress Service
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPHandler(authService auth.Service, progressService Service) *HTTPHandler {
	return &HTTPHandler{auth: authService, progress: progressService}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/progress", h.handleProgress)
	mux.HandleFunc("/api/settings", h.handleSettings)
}

func (h *HTTPHandler) handleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID, ok := h.resolveUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid session token")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	p, err := h.progress.GetProgress(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "query progress failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"highest_completed_act": p.HighestCompletedAct,
		"completed_acts":        p.CompletedActs,
		"unlocked_trinkets":     p.UnlockedTrinkets,
		"updated_at":            p.UpdatedAt,
	})
}

// handleSettings serves the player's settings blob as TOML. Writes
// are normalized through the settings package so stored blobs are
// always valid and clamped.
func (h *HTTPHandler) handleSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.resolveUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid session token")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		blob, err := h.progress.LoadSettings(ctx, userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "query settings failed")
			return
		}
		if blob == "" {
			defaults := settings.Defaults()
			out, err := defaults.Marshal()
			if err != nil {
				writeError(w, http.StatusInternalServerError, "encode settings failed")
				return
			}
			blob = string(out)
		}
		w.Header().Set("Content-Type", "application/toml")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, blob)

	case http.MethodPut:
		body, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
		if err != nil {
			writeError(w, http.StatusBadRequest, "read request body failed")
			return
		}
		s := settings.Defaults()
		if err := s.Unmarshal(body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid settings document")
			return
		}
		s.Validate()
		normalized, err := s.Marshal()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "encode settings failed")
			return
		}
		if err := h.progress.SaveSettings(ctx, userID, string(normalized)); err != nil {
			writeError(w, http.StatusInternalServerError, "store settings failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"saved": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *HTTPHandler) resolveUserID(r *http.Request) (uint64, bool) {
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return 0, false
	}
	userID, _, ok := h.auth.ResolveSession(token)
	if !ok {
		return 0, false
	}
	return userID, true
}

func bearerToken(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
}

// IsActLocked reports whether err is the act gating error, for
// handlers that surface it as a conflict.
func IsActLocked(err error) bool {
	return errors.Is(err, ErrActLocked)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
