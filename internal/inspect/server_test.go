package inspect

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tiledraft/tiledraft-go/internal/game"
	"github.com/tiledraft/tiledraft-go/internal/match"
)

func newTestServer(t *testing.T) (*Server, *match.Manager) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	mgr := match.NewManager(logger)
	return New(mgr, logger), mgr
}

func do(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, mgr := newTestServer(t)
	_, err := mgr.Create(game.Options{Players: []string{"jack", "me"}, Seed: 1})
	require.NoError(t, err)

	rec := do(t, s, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"))
	assert.JSONEq(t, `{"ok":true,"active_matches":1}`, rec.Body.String())
}

func TestListAndGetMatch(t *testing.T) {
	s, mgr := newTestServer(t)
	m, err := mgr.Create(game.Options{Players: []string{"jack", "me"}, Seed: 2})
	require.NoError(t, err)

	rec := do(t, s, http.MethodGet, "/matches")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []match.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, m.ID, list[0].ID)
	assert.Equal(t, []string{"jack", "me"}, list[0].Players)

	rec = do(t, s, http.MethodGet, "/matches/"+m.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	var snap map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, m.ID, snap["id"])
	assert.Equal(t, m.Snapshot().Checksum, snap["checksum"])
	state, ok := snap["state"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "DRAFTING", state["phase"])
}

func TestUnknownMatch(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/matches/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "match_not_found")
}

func TestReadOnly(t *testing.T) {
	s, mgr := newTestServer(t)
	m, err := mgr.Create(game.Options{Players: []string{"jack", "me"}, Seed: 3})
	require.NoError(t, err)
	before := m.Snapshot().Checksum

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		rec := do(t, s, method, "/matches/"+m.ID)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
	}
	assert.Equal(t, before, m.Snapshot().Checksum)

	rec := do(t, s, http.MethodGet, "/does/not/exist")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
