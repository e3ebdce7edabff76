package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authMux(t *testing.T) (*http.ServeMux, *Manager) {
	t.Helper()
	m := NewManager()
	mux := http.NewServeMux()
	NewHTTPHandler(m).RegisterRoutes(mux)
	return mux, m
}

func postJSON(t *testing.T, mux *http.ServeMux, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginOverHTTP(t *testing.T) {
	mux, _ := authMux(t)

	rec := postJSON(t, mux, "/api/auth/register", `{"username":"alice_01","password":"secret12"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var reg sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))
	require.NotZero(t, reg.UserID)
	require.NotEmpty(t, reg.SessionToken)

	rec = postJSON(t, mux, "/api/auth/register", `{"username":"alice_01","password":"secret12"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = postJSON(t, mux, "/api/auth/login", `{"username":"alice_01","password":"secret12"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, mux, "/api/auth/login", `{"username":"alice_01","password":"wrong-one"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGuestEndpointMintsAndResumes(t *testing.T) {
	mux, _ := authMux(t)

	rec := postJSON(t, mux, "/api/auth/guest", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var first sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	require.NotEmpty(t, first.SessionToken)
	assert.False(t, first.Resumed)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/guest", nil)
	req.Header.Set("Authorization", "Bearer "+first.SessionToken)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var second sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.True(t, second.Resumed)
	assert.Equal(t, first.UserID, second.UserID)
}

func TestMeAndLogout(t *testing.T) {
	mux, _ := authMux(t)

	rec := postJSON(t, mux, "/api/auth/register", `{"username":"alice_01","password":"secret12"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var reg sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+reg.SessionToken)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var who whoamiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &who))
	assert.Equal(t, "alice_01", who.Username)

	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+reg.SessionToken)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+reg.SessionToken)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBadRequestsOverHTTP(t *testing.T) {
	mux, _ := authMux(t)

	rec := postJSON(t, mux, "/api/auth/register", `{nope`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/register", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
