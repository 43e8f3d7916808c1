package http

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/match-ladder/internal/authz"
	"github.com/mauv0809/match-ladder/internal/config"
	"github.com/mauv0809/match-ladder/internal/database"
	"github.com/mauv0809/match-ladder/internal/http/handlers"
	"github.com/mauv0809/match-ladder/internal/league"
	"github.com/mauv0809/match-ladder/internal/match"
	"github.com/mauv0809/match-ladder/internal/metrics"
	"github.com/mauv0809/match-ladder/internal/notifier"
	"github.com/mauv0809/match-ladder/internal/processor"
	"github.com/mauv0809/match-ladder/internal/pubsub"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	testSlackSigningSecret = "test-signing-secret"
	testAdminToken         = "test-admin-token"
)

type testServer struct {
	*Server
	db       *sql.DB
	notifier *notifier.Mock
	pubsub   *pubsub.MockPubSubClient
}

// setupTestServer initializes a new server with a seeded in-memory database and mock clients.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	_, err = db.Exec(`
		INSERT INTO seasons (id, name, created_at) VALUES ('s1', 'Season 1', 0);
		INSERT INTO divisions (id, season_id, region, level, team_size) VALUES ('d1', 's1', 'EUROPE', 1, 2);
		INSERT INTO teams (id, name, season_id, division_id, region) VALUES
			('t-a', 'Aces', 's1', 'd1', 'EUROPE'),
			('t-b', 'Blasters', 's1', 'd1', 'EUROPE'),
			('t-c', 'Comets', 's1', 'd1', 'EUROPE'),
			('t-d', 'Dragons', 's1', 'd1', 'EUROPE');
	`)
	require.NoError(t, err)

	cfg := config.Config{
		AdminToken: testAdminToken,
		Slack:      config.SlackConfig{SigningSecret: testSlackSigningSecret},
	}
	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	notif := notifier.NewMock()
	ps := pubsub.NewMock()
	proc := processor.New(notif, metricsSvc, ps)
	leagueSvc := league.NewService(league.NewStore(db), proc, metricsSvc, 8)
	reconciler := match.NewReconciler(match.NewStore(db), proc, metricsSvc)

	server := NewServer(db, leagueSvc, reconciler, metricsSvc, metrics.NewMetricsHandler(reg), cfg, notif, proc)
	return &testServer{Server: server, db: db, notifier: notif, pubsub: ps}
}

func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func adminRequest(t *testing.T, method, target string, body any) *http.Request {
	req := jsonRequest(t, method, target, body)
	req.Header.Set("Authorization", "Bearer "+testAdminToken)
	return req
}

func teamRequest(t *testing.T, teamID string, body any) *http.Request {
	req := jsonRequest(t, http.MethodPost, "/match/report", body)
	req.Header.Set(teamIDsHeader, teamID)
	return req
}

// createSlackCommandRequest creates an http.Request suitable for testing Slack slash commands,
// including the necessary signature and timestamp headers for verification.
func createSlackCommandRequest(t *testing.T, targetURL string, form url.Values, signingSecret string) *http.Request {
	t.Helper()

	body := form.Encode()
	req := httptest.NewRequest(http.MethodPost, targetURL, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := time.Now().Unix()
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))

	baseString := fmt.Sprintf("v0:%d:%s", timestamp, body)
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(h.Sum(nil)))

	return req
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error
}

func (s *testServer) generate(t *testing.T) {
	t.Helper()
	rr := s.do(t, adminRequest(t, http.MethodPost, "/league/schedule-generate", map[string]any{
		"seasonId": "s1", "region": "EUROPE", "level": 1, "startAtIso": "2026-01-05T18:00:00Z",
	}))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func (s *testServer) firstMatch(t *testing.T) league.ScheduledMatch {
	t.Helper()
	rr := s.do(t, httptest.NewRequest(http.MethodGet, "/league/schedule?week=1", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var matches []league.ScheduledMatch
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &matches))
	require.NotEmpty(t, matches)
	return matches[0]
}

func TestHealthCheckHandler(t *testing.T) {
	server := setupTestServer(t)

	rr := server.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestMetricsEndpoint(t *testing.T) {
	server := setupTestServer(t)
	server.generate(t)

	rr := server.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ladder_fixtures_created_total 6")
}

func TestGenerateScheduleHandler(t *testing.T) {
	t.Run("admin creates fixtures once", func(t *testing.T) {
		server := setupTestServer(t)
		body := map[string]any{"seasonId": "s1", "region": "EUROPE", "level": 1, "weeks": 3}

		rr := server.do(t, adminRequest(t, http.MethodPost, "/league/schedule-generate", body))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.JSONEq(t, `{"created": 6}`, rr.Body.String())

		rr = server.do(t, adminRequest(t, http.MethodPost, "/league/schedule-generate", body))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"created": 0}`, rr.Body.String())

		calls := server.pubsub.Calls()
		require.Len(t, calls, 2)
		assert.Equal(t, pubsub.EventScheduleGenerated, calls[0].Topic)
	})

	t.Run("dry run persists nothing", func(t *testing.T) {
		server := setupTestServer(t)
		rr := server.do(t, adminRequest(t, http.MethodPost, "/league/schedule-generate?dry_run=true",
			map[string]any{"seasonId": "s1", "region": "EUROPE", "level": 1, "weeks": 1}))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"created": 2, "dryRun": true}`, rr.Body.String())

		var count int
		require.NoError(t, server.db.QueryRow(`SELECT COUNT(*) FROM matches`).Scan(&count))
		assert.Zero(t, count)
		assert.Len(t, server.notifier.SendScheduleGeneratedCalls, 1)
	})

	t.Run("rejections", func(t *testing.T) {
		server := setupTestServer(t)
		valid := map[string]any{"seasonId": "s1", "region": "EUROPE", "level": 1}

		rr := server.do(t, jsonRequest(t, http.MethodPost, "/league/schedule-generate", valid))
		assert.Equal(t, http.StatusForbidden, rr.Code, "missing admin token")

		req := jsonRequest(t, http.MethodPost, "/league/schedule-generate", valid)
		req.Header.Set("Authorization", "Bearer wrong")
		assert.Equal(t, http.StatusForbidden, server.do(t, req).Code)

		tests := []struct {
			name   string
			body   any
			status int
		}{
			{"missing fields", map[string]any{"region": "EUROPE"}, http.StatusBadRequest},
			{"unknown region", map[string]any{"seasonId": "s1", "region": "MARS", "level": 1}, http.StatusBadRequest},
			{"zero weeks", map[string]any{"seasonId": "s1", "region": "EUROPE", "level": 1, "weeks": 0}, http.StatusBadRequest},
			{"bad start", map[string]any{"seasonId": "s1", "region": "EUROPE", "level": 1, "startAtIso": "tomorrow"}, http.StatusBadRequest},
			{"unknown division", map[string]any{"seasonId": "s1", "region": "ASIA", "level": 1}, http.StatusNotFound},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				rr := server.do(t, adminRequest(t, http.MethodPost, "/league/schedule-generate", tc.body))
				assert.Equal(t, tc.status, rr.Code, rr.Body.String())
				assert.NotEmpty(t, decodeError(t, rr))
			})
		}

		req = httptest.NewRequest(http.MethodPost, "/league/schedule-generate", strings.NewReader("{"))
		req.Header.Set("Authorization", "Bearer "+testAdminToken)
		assert.Equal(t, http.StatusBadRequest, server.do(t, req).Code)
	})
}

func TestReportResultHandler(t *testing.T) {
	server := setupTestServer(t)
	server.generate(t)
	m := server.firstMatch(t)
	home, away := m.HomeTeam.ID, m.AwayTeam.ID

	t.Run("validation", func(t *testing.T) {
		rr := server.do(t, teamRequest(t, home, map[string]any{"matchId": m.ID, "myScore": 3, "theirScore": 1}))
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = server.do(t, teamRequest(t, home, map[string]any{"matchId": m.ID, "teamId": home, "myScore": 3}))
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = server.do(t, teamRequest(t, home, map[string]any{"matchId": m.ID, "teamId": home, "myScore": 2, "theirScore": 1}))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeError(t, rr), "score")
	})

	t.Run("not found", func(t *testing.T) {
		rr := server.do(t, teamRequest(t, home, map[string]any{"matchId": "missing", "teamId": home, "myScore": 3, "theirScore": 1}))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("forbidden", func(t *testing.T) {
		outsider := "t-a"
		for _, id := range []string{"t-a", "t-b", "t-c", "t-d"} {
			if id != home && id != away {
				outsider = id
				break
			}
		}
		rr := server.do(t, teamRequest(t, outsider, map[string]any{"matchId": m.ID, "teamId": outsider, "myScore": 3, "theirScore": 1}))
		assert.Equal(t, http.StatusForbidden, rr.Code, "team not in match")

		rr = server.do(t, teamRequest(t, away, map[string]any{"matchId": m.ID, "teamId": home, "myScore": 3, "theirScore": 1}))
		assert.Equal(t, http.StatusForbidden, rr.Code, "caller acting for another team")
	})

	t.Run("two sides agree", func(t *testing.T) {
		rr := server.do(t, teamRequest(t, home, map[string]any{"matchId": m.ID, "teamId": home, "myScore": 3, "theirScore": 2, "notes": "tight"}))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.JSONEq(t, `{"state": "pending_other_team"}`, rr.Body.String())

		rr = server.do(t, teamRequest(t, away, map[string]any{"matchId": m.ID, "teamId": away, "myScore": 1, "theirScore": 3}))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.JSONEq(t, `{"state": "confirmed", "homeScore": 3, "awayScore": 2}`, rr.Body.String())

		rr = server.do(t, teamRequest(t, away, map[string]any{"matchId": m.ID, "teamId": away, "myScore": 1, "theirScore": 3}))
		assert.JSONEq(t, `{"state": "already_confirmed"}`, rr.Body.String())

		calls := server.pubsub.Calls()
		require.NotEmpty(t, calls)
		assert.Equal(t, pubsub.EventMatchConfirmed, calls[len(calls)-1].Topic)
	})

	t.Run("standings reflect the result", func(t *testing.T) {
		rr := server.do(t, httptest.NewRequest(http.MethodGet, "/league/standings?seasonId=s1&region=EUROPE", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		var standings []league.Standing
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &standings))
		require.Len(t, standings, 4)
		assert.Equal(t, home, standings[0].TeamID)
		assert.Equal(t, 3, standings[0].Points)
	})
}

func TestReadHandlers(t *testing.T) {
	server := setupTestServer(t)
	server.generate(t)

	rr := server.do(t, httptest.NewRequest(http.MethodGet, "/league/schedule?seasonId=s1&level=1", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var all []league.ScheduledMatch
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &all))
	assert.Len(t, all, 6)

	rr = server.do(t, httptest.NewRequest(http.MethodGet, "/league/schedule?week=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = server.do(t, httptest.NewRequest(http.MethodGet, "/team/schedule?teamId=t-a", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var teamMatches []league.ScheduledMatch
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &teamMatches))
	assert.Len(t, teamMatches, 3)

	rr = server.do(t, httptest.NewRequest(http.MethodGet, "/team/schedule", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = server.do(t, httptest.NewRequest(http.MethodGet, "/match/unreported?teamId=t-a", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var next league.ScheduledMatch
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &next))
	assert.Equal(t, 1, next.WeekNumber)

	rr = server.do(t, httptest.NewRequest(http.MethodGet, "/match/unreported?teamId=nobody", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "null", strings.TrimSpace(rr.Body.String()))
}

func TestMatchEventsHandler(t *testing.T) {
	server := setupTestServer(t)

	data, err := msgpack.Marshal(pubsub.MatchResultEvent{MatchID: "m1", HomeTeamName: "Aces", AwayTeamName: "Comets"})
	require.NoError(t, err)
	var envelope pubsub.PushEnvelope
	envelope.Message.Data = base64.StdEncoding.EncodeToString(data)
	envelope.Message.Attributes = map[string]string{pubsub.AttributeEventType: string(pubsub.EventMatchNeedsResolution)}

	rr := server.do(t, jsonRequest(t, http.MethodPost, "/pubsub/match-events", envelope))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, server.notifier.SendNeedsResolutionCalls, 1)
	assert.Equal(t, "m1", server.notifier.SendNeedsResolutionCalls[0].MatchID)

	rr = server.do(t, httptest.NewRequest(http.MethodPost, "/pubsub/match-events", strings.NewReader("nope")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStandingsCommandHandler(t *testing.T) {
	server := setupTestServer(t)
	var gotFilter league.StandingsFilter
	var gotCount int
	server.notifier.FormatStandingsResponseFunc = func(standings []league.Standing, filter league.StandingsFilter) (any, error) {
		gotFilter, gotCount = filter, len(standings)
		return slack.NewBlockMessage(), nil
	}

	form := url.Values{}
	form.Set("text", "europe 1")
	rr := server.do(t, createSlackCommandRequest(t, "/slack/command/standings", form, testSlackSigningSecret))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, league.StandingsFilter{Region: league.RegionEurope, Level: 1}, gotFilter)
	assert.Equal(t, 4, gotCount)

	rr = server.do(t, createSlackCommandRequest(t, "/slack/command/standings", form, "wrong-secret"))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/slack/command/standings", strings.NewReader(form.Encode()))
	rr = server.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "unsigned request")
}

func TestParamsMiddlewareDryRun(t *testing.T) {
	var seen bool
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = handlers.IsDryRunFromContext(r)
	}), paramsMiddleware)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x?dry_run=true&verbose=true", nil))
	assert.True(t, seen)
}

func TestAuthMiddleware(t *testing.T) {
	var caps []string
	var admin bool
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := authz.FromContext(r.Context())
		caps, admin = c.Teams(), c.Admin
		io.WriteString(w, "ok")
	}), authMiddleware(testAdminToken))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(teamIDsHeader, "t-b, t-a,,")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, []string{"t-a", "t-b"}, caps)
	assert.False(t, admin)

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+testAdminToken)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, admin)

	noToken := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin = authz.FromContext(r.Context()).Admin
	}), authMiddleware(""))
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer ")
	noToken.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, admin, "an unset admin token never matches")
}
