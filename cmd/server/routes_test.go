package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiliankoe/acrodash/internal/auth"
	"github.com/kiliankoe/acrodash/internal/config"
	"github.com/kiliankoe/acrodash/internal/game"
	"github.com/kiliankoe/acrodash/internal/stats"
)

func newTestRouter(t *testing.T, devLogin bool) (*gin.Engine, *game.RoomManager, *stats.FileStore, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, err := stats.NewFile(t.TempDir() + "/results.log")
	require.NoError(t, err)
	rm := game.NewRoomManager(game.DefaultConfig())
	t.Cleanup(rm.Close)
	tokens := auth.NewTokenManager("test", time.Hour)
	r := gin.New()
	routes(r, rm, store, tokens, devLogin)
	return r, rm, store, tokens
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRoomsEndpoint(t *testing.T) {
	r, rm, _, _ := newTestRouter(t, false)
	require.NoError(t, rm.Join("lobby", game.Player{ID: "s1", Username: "alice"}))

	w := do(r, http.MethodGet, "/api/rooms", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]game.RoomStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 1, got["lobby"].Players)
	assert.Equal(t, game.PhaseWaiting, got["lobby"].Phase)
}

func TestStatsEndpoint(t *testing.T) {
	r, _, store, _ := newTestRouter(t, false)
	require.NoError(t, store.RecordMatchResult(context.Background(), game.MatchResult{Username: "alice", Points: 4}))

	w := do(r, http.MethodGet, "/api/stats/alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	var ps stats.PlayerStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ps))
	assert.Equal(t, 4, ps.Points)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/stats/bob", "").Code)
}

func TestDevTokenEndpoint(t *testing.T) {
	r, _, _, tokens := newTestRouter(t, true)
	w := do(r, http.MethodPost, "/api/dev/token", `{"username":"carol"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct{ Token string }
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	user, err := tokens.Verify(body.Token)
	require.NoError(t, err)
	assert.Equal(t, "carol", user)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/dev/token", `{"username":"  "}`).Code)

	off, _, _, _ := newTestRouter(t, false)
	assert.Equal(t, http.StatusNotFound, do(off, http.MethodPost, "/api/dev/token", `{"username":"carol"}`).Code)
}

func TestOpenStatsDrivers(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{StatsDriver: "sqlite", SQLitePath: dir + "/db/acrodash.db"}
	s, err := openStats(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	cfg = config.Config{StatsDriver: "none"}
	s, err = openStats(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, stats.Nop{}, s)

	_, err = openStats(context.Background(), config.Config{StatsDriver: "postgres"})
	assert.Error(t, err)
	_, err = openStats(context.Background(), config.Config{StatsDriver: "mongo"})
	assert.Error(t, err)
}

func TestModerationChain(t *testing.T) {
	chain := moderationChain(config.Config{ModerationWords: []string{"badger"}})
	require.Len(t, chain, 1)
	assert.False(t, chain.IsClean(context.Background(), "Big Angry Badger"))
	assert.True(t, chain.IsClean(context.Background(), "Big Angry Bear"))

	chain = moderationChain(config.Config{OpenAIKey: "k", OllamaHost: "http://localhost:1"})
	assert.Len(t, chain, 3)
}

func TestCorsConfig(t *testing.T) {
	assert.True(t, corsConfig([]string{"*"}).AllowAllOrigins)
	cc := corsConfig([]string{"http://a.test"})
	assert.False(t, cc.AllowAllOrigins)
	assert.True(t, cc.AllowCredentials)
}
