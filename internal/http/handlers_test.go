package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Fandor1in/padel-miniapp/internal/auth"
	"github.com/Fandor1in/padel-miniapp/internal/config"
	"github.com/Fandor1in/padel-miniapp/internal/league"
	"github.com/Fandor1in/padel-miniapp/internal/metrics"
	"github.com/Fandor1in/padel-miniapp/internal/notifier"
	"github.com/Fandor1in/padel-miniapp/internal/processor"
	"github.com/Fandor1in/padel-miniapp/internal/pubsub"
	"github.com/Fandor1in/padel-miniapp/internal/telegram"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverEnv struct {
	server   *Server
	store    *league.MockStore
	verifier *telegram.MockVerifier
	sessions *auth.Sessions

	alice, bob, carol, dave *league.Player
}

// setupTestServer initializes a server against the in-memory store and mock
// collaborators.
func setupTestServer(t *testing.T) *serverEnv {
	t.Helper()

	store := league.NewMock()
	env := &serverEnv{
		store:    store,
		verifier: telegram.NewMock(),
		sessions: auth.New("test-secret", time.Hour),
		alice:    store.AddPlayer(league.Player{Name: "Alice", TelegramID: 1, Rating: 1000}),
		bob:      store.AddPlayer(league.Player{Name: "Bob", TelegramID: 2, Rating: 1000}),
		carol:    store.AddPlayer(league.Player{Name: "Carol", TelegramID: 3, Rating: 1000}),
		dave:     store.AddPlayer(league.Player{Name: "Dave", TelegramID: 4, Rating: 1000}),
	}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	proc := processor.New(store, notifier.NewMock(), metricsSvc, pubsub.NewMock("TEST"),
		config.RatingConfig{Seed: 1000, KPair: 32, KPlayer: 24}, config.ConfirmConfig{})

	env.server = NewServer(config.Config{}, proc, env.verifier, env.sessions, metricsSvc, metricsHandler)
	return env
}

func (e *serverEnv) request(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	e.server.ServeHTTP(recorder, req)
	return recorder
}

func (e *serverEnv) tokenFor(t *testing.T, playerID string) string {
	t.Helper()
	token, err := e.sessions.Issue(playerID)
	require.NoError(t, err)
	return token
}

func (e *serverEnv) reportMatch(t *testing.T) string {
	t.Helper()
	resp := e.request(t, http.MethodPost, "/api/matches", e.tokenFor(t, e.alice.ID), processor.ReportMatchRequest{
		Date:        "2026-08-30",
		PartnerID:   e.bob.ID,
		Opponent1ID: e.carol.ID,
		Opponent2ID: e.dave.ID,
		Sets:        []processor.SetInput{{P1: 6, P2: 4}, {P1: 6, P2: 3}},
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var match league.ExpandedMatch
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &match))
	return match.Match.ID
}

func TestHealthCheck(t *testing.T) {
	env := setupTestServer(t)
	resp := env.request(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "OK!", resp.Body.String())
}

func TestAuthHandler_IssuesTokenAndJoins(t *testing.T) {
	env := setupTestServer(t)
	env.verifier.ParseFunc = func(initData string) (telegram.Identity, error) {
		return telegram.Identity{UserID: 99, FirstName: "Eve", Username: "eve"}, nil
	}

	resp := env.request(t, http.MethodPost, "/api/auth", "", map[string]string{"init_data": "signed-payload"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body struct {
		Token  string        `json:"token"`
		Player league.Player `json:"player"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "Eve", body.Player.Name)
	assert.Equal(t, 1000, body.Player.Rating)
	assert.Equal(t, []string{"signed-payload"}, env.verifier.VerifyCalls)

	// The token authenticates subsequent calls.
	me := env.request(t, http.MethodGet, "/api/me", body.Token, nil)
	require.Equal(t, http.StatusOK, me.Code)
	var player league.Player
	require.NoError(t, json.Unmarshal(me.Body.Bytes(), &player))
	assert.Equal(t, body.Player.ID, player.ID)
}

func TestAuthHandler_RejectsBadSignature(t *testing.T) {
	env := setupTestServer(t)
	env.verifier.VerifyFunc = func(initData string) error {
		return errors.New("bad signature")
	}

	resp := env.request(t, http.MethodPost, "/api/auth", "", map[string]string{"init_data": "tampered"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthHandler_MissingInitData(t *testing.T) {
	env := setupTestServer(t)
	resp := env.request(t, http.MethodPost, "/api/auth", "", map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthMiddleware(t *testing.T) {
	env := setupTestServer(t)

	t.Run("missing credentials", func(t *testing.T) {
		resp := env.request(t, http.MethodGet, "/api/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		resp := env.request(t, http.MethodGet, "/api/me", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("init data header for a joined player", func(t *testing.T) {
		env.verifier.ParseFunc = func(initData string) (telegram.Identity, error) {
			return telegram.Identity{UserID: env.alice.TelegramID}, nil
		}
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("X-Telegram-Init-Data", "signed-payload")
		recorder := httptest.NewRecorder()
		env.server.ServeHTTP(recorder, req)
		require.Equal(t, http.StatusOK, recorder.Code)

		var player league.Player
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &player))
		assert.Equal(t, env.alice.ID, player.ID)
	})

	t.Run("init data for an unknown user", func(t *testing.T) {
		env.verifier.ParseFunc = func(initData string) (telegram.Identity, error) {
			return telegram.Identity{UserID: 12345}, nil
		}
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("X-Telegram-Init-Data", "signed-payload")
		recorder := httptest.NewRecorder()
		env.server.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestListPlayersHandler(t *testing.T) {
	env := setupTestServer(t)
	resp := env.request(t, http.MethodGet, "/api/players", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var players []league.Player
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &players))
	assert.Len(t, players, 4)
}

func TestReportAndConfirmFlow(t *testing.T) {
	env := setupTestServer(t)
	matchID := env.reportMatch(t)

	resp := env.request(t, http.MethodPost, fmt.Sprintf("/api/matches/%s/confirm", matchID), env.tokenFor(t, env.carol.ID), nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var match league.ExpandedMatch
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &match))
	assert.Equal(t, league.StatusConfirmed, match.Match.Status)
	assert.Equal(t, 1016, match.Pair1.Pair.Rating)
}

func TestConfirmByReporterSideIsForbidden(t *testing.T) {
	env := setupTestServer(t)
	matchID := env.reportMatch(t)

	resp := env.request(t, http.MethodPost, fmt.Sprintf("/api/matches/%s/confirm", matchID), env.tokenFor(t, env.alice.ID), nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestConfirmUnknownMatchIsNotFound(t *testing.T) {
	env := setupTestServer(t)
	resp := env.request(t, http.MethodPost, "/api/matches/recMissing/confirm", env.tokenFor(t, env.carol.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestReportMatchValidationError(t *testing.T) {
	env := setupTestServer(t)
	resp := env.request(t, http.MethodPost, "/api/matches", env.tokenFor(t, env.alice.ID), processor.ReportMatchRequest{
		Date:        "2026-08-30",
		PartnerID:   env.bob.ID,
		Opponent1ID: env.carol.ID,
		Opponent2ID: env.dave.ID,
		Sets:        []processor.SetInput{{P1: 6, P2: 5}, {P1: 6, P2: 3}},
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION", body.Error.Kind)
}

func TestRejectThenConfirmConflicts(t *testing.T) {
	env := setupTestServer(t)
	matchID := env.reportMatch(t)

	reject := env.request(t, http.MethodPost, fmt.Sprintf("/api/matches/%s/reject", matchID), env.tokenFor(t, env.dave.ID), nil)
	require.Equal(t, http.StatusOK, reject.Code)

	confirm := env.request(t, http.MethodPost, fmt.Sprintf("/api/matches/%s/confirm", matchID), env.tokenFor(t, env.carol.ID), nil)
	assert.Equal(t, http.StatusConflict, confirm.Code)
}

func TestDisputeStoresReason(t *testing.T) {
	env := setupTestServer(t)
	matchID := env.reportMatch(t)

	resp := env.request(t, http.MethodPost, fmt.Sprintf("/api/matches/%s/dispute", matchID), env.tokenFor(t, env.carol.ID), map[string]string{"reason": "wrong score"})
	require.Equal(t, http.StatusOK, resp.Code)

	var match league.ExpandedMatch
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &match))
	assert.Equal(t, league.StatusDisputed, match.Match.Status)
	assert.Equal(t, "wrong score", match.Match.DisputeReason)
}

func TestDisputeWithoutBody(t *testing.T) {
	env := setupTestServer(t)
	matchID := env.reportMatch(t)

	resp := env.request(t, http.MethodPost, fmt.Sprintf("/api/matches/%s/dispute", matchID), env.tokenFor(t, env.carol.ID), nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var match league.ExpandedMatch
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &match))
	assert.Equal(t, league.StatusDisputed, match.Match.Status)
	assert.Empty(t, match.Match.DisputeReason)
}

func TestRejectStoresReason(t *testing.T) {
	env := setupTestServer(t)
	matchID := env.reportMatch(t)

	resp := env.request(t, http.MethodPost, fmt.Sprintf("/api/matches/%s/reject", matchID), env.tokenFor(t, env.dave.ID), map[string]string{"reason": "we never played"})
	require.Equal(t, http.StatusOK, resp.Code)

	var match league.ExpandedMatch
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &match))
	assert.Equal(t, league.StatusRejected, match.Match.Status)
	assert.Equal(t, "we never played", match.Match.DisputeReason)
}

func TestListMatchesHandler(t *testing.T) {
	env := setupTestServer(t)
	matchID := env.reportMatch(t)

	resp := env.request(t, http.MethodGet, "/api/matches", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var matches []league.ExpandedMatch
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, matchID, matches[0].Match.ID)

	bad := env.request(t, http.MethodGet, "/api/matches?limit=zero", "", nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestGetMatchHandler(t *testing.T) {
	env := setupTestServer(t)
	matchID := env.reportMatch(t)

	resp := env.request(t, http.MethodGet, "/api/matches/"+matchID, "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var match league.ExpandedMatch
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &match))
	assert.Equal(t, "6-4 6-3", match.Match.Score)
	assert.Len(t, match.Sets, 2)
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupTestServer(t)
	resp := env.request(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "padel_matches_reported_total")
}

func TestCORSPreflight(t *testing.T) {
	env := setupTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/players", nil)
	req.Header.Set("Origin", "https://miniapp.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	recorder := httptest.NewRecorder()
	env.server.ServeHTTP(recorder, req)
	assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
}
