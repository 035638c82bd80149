package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"gomoku/engine"
)

func newTestServer(t *testing.T) (*server, *httptest.Server) {
	t.Helper()
	prev := GetConfig()
	cfg := DefaultConfig()
	cfg.Engine = testEngineConfig()
	require.NoError(t, configStore.Update(cfg))
	t.Cleanup(func() { require.NoError(t, configStore.Update(prev)) })

	srv := newServer(cfg, zerolog.Nop())
	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)
	return srv, ts
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var reader *bytes.Reader
	if s, ok := body.(string); ok {
		reader = bytes.NewReader([]byte(s))
	} else {
		reader = bytes.NewReader(mustMarshal(body))
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestPingAndStatus(t *testing.T) {
	_, ts := newTestServer(t)
	var ping map[string]bool
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, ts.URL+"/api/ping", nil, &ping))
	require.True(t, ping["ok"])

	var status StatusResponse
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, ts.URL+"/api/status", nil, &status))
	require.Equal(t, "not_started", status.Status)
	require.Equal(t, 15, status.BoardSize)
	require.Len(t, status.Board, 15)
	require.Equal(t, 1, status.NextPlayer)
	require.Equal(t, "ai_vs_human", status.Settings.Mode)
}

func TestStartAndMove(t *testing.T) {
	_, ts := newTestServer(t)
	var status StatusResponse
	code := doJSON(t, http.MethodPost, ts.URL+"/api/start", `{"settings": {"mode": "human_vs_human"}}`, &status)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "running", status.Status)
	require.Equal(t, "human_vs_human", status.Settings.Mode)

	code = doJSON(t, http.MethodPost, ts.URL+"/api/move", engine.Move{X: 7, Y: 7}, &status)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, status.Board[7][7])
	require.Equal(t, 2, status.NextPlayer)
	require.Len(t, status.History, 1)
	require.Equal(t, &engine.Move{X: 7, Y: 7}, status.LastMove)

	var failure map[string]string
	code = doJSON(t, http.MethodPost, ts.URL+"/api/move", engine.Move{X: 7, Y: 7}, &failure)
	require.Equal(t, http.StatusBadRequest, code)
	require.Contains(t, failure["error"], "occupied")

	code = doJSON(t, http.MethodPost, ts.URL+"/api/move", `{"x": `, &failure)
	require.Equal(t, http.StatusBadRequest, code)

	require.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, ts.URL+"/api/stop", nil, &status))
	require.Equal(t, "not_started", status.Status)
	code = doJSON(t, http.MethodPost, ts.URL+"/api/move", engine.Move{X: 1, Y: 1}, &failure)
	require.Equal(t, http.StatusConflict, code)
}

func TestEngineFirstPlaysAndFillsCache(t *testing.T) {
	srv, ts := newTestServer(t)
	var status StatusResponse
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, ts.URL+"/api/start", map[string]bool{"engine_first": true}, &status))
	require.Equal(t, 2, status.Settings.HumanPlayer, "human plays white")

	waitForTick(t, srv.controller.Tick)
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, ts.URL+"/api/status", nil, &status))
	require.Equal(t, 1, status.Board[7][7], "engine opens in the centre")
	require.NotNil(t, status.LastStats)

	var cache cacheStatusResponse
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, ts.URL+"/api/cache", nil, &cache))
	require.Contains(t, cache.Players, "black")
	require.NotContains(t, cache.Players, "white")
	require.Equal(t, 2048, cache.Players["black"].Capacity)

	var analytics analyticsResponse
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, ts.URL+"/api/analytics", nil, &analytics))
	require.Len(t, analytics.Decisions, 1)
	require.Equal(t, "black", analytics.Decisions[0].Player)

	require.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, ts.URL+"/api/cache/clear", nil, &cache))
	require.Zero(t, cache.Players["black"].Count)
}

func TestSettingsMergeConfig(t *testing.T) {
	_, ts := newTestServer(t)
	var status StatusResponse
	code := doJSON(t, http.MethodPost, ts.URL+"/api/settings", `{"config": {"time_budget_ms": 1234}}`, &status)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 1234, status.Config.TimeBudgetMs)
	require.Equal(t, testEngineConfig().Schedule, status.Config.Schedule)
	require.Equal(t, 1234, GetConfig().Engine.TimeBudgetMs)

	var failure map[string]string
	code = doJSON(t, http.MethodPost, ts.URL+"/api/settings", `{"config": {"board_size": 2}}`, &failure)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, 15, GetConfig().Engine.BoardSize)
	for _, body := range []string{`{"config": {"board_size": 1000000}}`, `{"config": {"tt_size": 1099511627776}}`} {
		code = doJSON(t, http.MethodPost, ts.URL+"/api/settings", body, &failure)
		require.Equal(t, http.StatusBadRequest, code, body)
	}
	require.Equal(t, testEngineConfig().TTSize, GetConfig().Engine.TTSize)

	code = doJSON(t, http.MethodPost, ts.URL+"/api/settings", `{"settings": {"mode": "ai_vs_ai"}}`, &status)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ai_vs_ai", status.Settings.Mode)
}

func TestHintEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	var hint hintResponse
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, ts.URL+"/api/hint", nil, &hint))
	require.Empty(t, hint.Candidates)

	doJSON(t, http.MethodPost, ts.URL+"/api/start", `{"settings": {"mode": "human_vs_human"}}`, nil)
	doJSON(t, http.MethodPost, ts.URL+"/api/move", engine.Move{X: 7, Y: 7}, nil)
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, ts.URL+"/api/hint?limit=3", nil, &hint))
	require.Equal(t, 2, hint.Player)
	require.Len(t, hint.Candidates, 3)

	var failure map[string]string
	require.Equal(t, http.StatusBadRequest, doJSON(t, http.MethodGet, ts.URL+"/api/hint?limit=x", nil, &failure))
}

func TestWebsocketStreamsMoves(t *testing.T) {
	srv, ts := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv.run(ctx)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() wsMessage {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var msg wsMessage
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}
	require.Equal(t, "status", read().Type, "greeting snapshot")

	doJSON(t, http.MethodPost, ts.URL+"/api/start", `{"settings": {"mode": "human_vs_human"}}`, nil)
	require.Equal(t, "reset", read().Type)

	doJSON(t, http.MethodPost, ts.URL+"/api/move", engine.Move{X: 4, Y: 4}, nil)
	msg := read()
	require.Equal(t, "history", msg.Type)
	var history historyPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &history))
	require.Equal(t, []historyEntryDTO{{X: 4, Y: 4, Player: 1, ElapsedMs: history.History[0].ElapsedMs}}, history.History)
	require.Equal(t, "status", read().Type)

	require.NoError(t, conn.WriteJSON(wsMessage{Type: "request_status"}))
	msg = read()
	require.Equal(t, "status", msg.Type)
	var status StatusResponse
	require.NoError(t, json.Unmarshal(msg.Payload, &status))
	require.Equal(t, 1, status.Board[4][4])
}
