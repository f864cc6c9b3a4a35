package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/sugarlog/internal/client/config"
	"github.com/dmitrijs2005/sugarlog/internal/client/gateway"
	"github.com/dmitrijs2005/sugarlog/internal/logging"
	"github.com/stretchr/testify/require"
)

// fakeServer is a minimal SugarLog API: anonymous login hands out "tok",
// the daily status requires it and the profile endpoint can be switched to
// answer 401.
type fakeServer struct {
	*httptest.Server
	expire atomic.Bool
	down   atomic.Bool
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/anonymous", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":true,"token":"tok","data":{"id":"u1","isAnonymous":true}}`))
	})
	mux.HandleFunc("GET /api/user/daily-status", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":false,"message":"unauthorized"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":true,"data":{"date":"2025-03-01","totalGrams":12,"goalGrams":25,"remainingGrams":13,"logsCount":1,"streak":4}}`))
	})
	mux.HandleFunc("GET /api/user/profile", func(w http.ResponseWriter, r *http.Request) {
		if fs.expire.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":false,"message":"jwt expired"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":true,"data":{"id":"u1","name":"Ann","isAnonymous":true,"dailyGoal":25}}`))
	})
	mux.HandleFunc("GET /api/healthz", func(w http.ResponseWriter, r *http.Request) {
		if fs.down.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":true}`))
	})
	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

func testConfig(baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIBaseURL = baseURL + "/api"
	cfg.LogLevel = "error"
	cfg.Ephemeral = true
	return cfg
}

func newWiredApp(t *testing.T, cfg *config.Config) (*App, *bytes.Buffer) {
	t.Helper()
	a, err := NewApp(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.authService.Close(context.Background()) })

	var out bytes.Buffer
	a.out = &out
	a.log = logging.Discard()
	return a, &out
}

func TestNewApp_RejectsBadBaseURL(t *testing.T) {
	cfg := testConfig("")
	cfg.APIBaseURL = "not a url"
	_, err := NewApp(cfg)
	require.Error(t, err)
}

func TestApp_StartThenStatus(t *testing.T) {
	srv := newFakeServer(t)
	a, out := newWiredApp(t, testConfig(srv.URL))
	ctx := context.Background()

	require.False(t, a.isLoggedIn())
	require.NoError(t, a.Start(ctx))
	require.True(t, a.isLoggedIn())
	require.Equal(t, "guest", a.userName)
	require.Equal(t, ModeOnline, a.mode())

	require.NoError(t, a.Status(ctx))
	require.Contains(t, out.String(), "2025-03-01: 12g of 25g, 13g left")
	require.Contains(t, out.String(), "streak: 4")
}

func TestApp_ExpiredSessionIsClearedAndReported(t *testing.T) {
	srv := newFakeServer(t)
	a, out := newWiredApp(t, testConfig(srv.URL))
	ctx := context.Background()

	require.NoError(t, a.Start(ctx))
	srv.expire.Store(true)

	err := a.Profile(ctx)
	require.ErrorIs(t, err, gateway.ErrUnauthorized)
	require.Contains(t, out.String(), gateway.MsgSessionExpired)
	require.False(t, a.isLoggedIn())
	require.Empty(t, a.userName)
}

func TestApp_UnreachableServerSwitchesOffline(t *testing.T) {
	srv := newFakeServer(t)
	cfg := testConfig(srv.URL)
	srv.Close()

	a, out := newWiredApp(t, cfg)
	a.setMode(ModeOnline)

	err := a.Status(context.Background())
	require.ErrorIs(t, err, gateway.ErrUnavailable)
	require.Contains(t, out.String(), gateway.MsgNetwork)
	require.Equal(t, ModeOffline, a.mode())
}

func TestApp_DurableSessionSurvivesRestart(t *testing.T) {
	srv := newFakeServer(t)
	cfg := testConfig(srv.URL)
	cfg.Ephemeral = false
	cfg.DataDir = t.TempDir()

	a, err := NewApp(cfg)
	require.NoError(t, err)
	a.out, a.log = &bytes.Buffer{}, logging.Discard()
	require.NoError(t, a.Start(context.Background()))
	require.NoError(t, a.authService.Close(context.Background()))

	b, _ := newWiredApp(t, cfg)
	require.True(t, b.isLoggedIn())
	require.NoError(t, b.Status(context.Background()))
}

func TestApp_ResumeOpensAnonymousSession(t *testing.T) {
	srv := newFakeServer(t)
	a, _ := newWiredApp(t, testConfig(srv.URL))

	a.resume(context.Background())
	require.True(t, a.isLoggedIn())
	require.Equal(t, "(guest online)", a.getStatus())
}

func TestApp_ResumeOfflineWithoutSessionDisables(t *testing.T) {
	srv := newFakeServer(t)
	cfg := testConfig(srv.URL)
	srv.Close()

	a, _ := newWiredApp(t, cfg)
	a.resume(context.Background())
	require.False(t, a.isLoggedIn())
	require.Equal(t, ModeDisabled, a.mode())
}

func TestSetMode_ChangesAndLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	app := &App{log: logging.New(&buf, "info")}

	app.setMode(ModeOnline)
	require.Equal(t, ModeOnline, app.mode())
	require.Contains(t, buf.String(), "mode=online")

	buf.Reset()
	app.setMode(ModeOnline)
	require.Empty(t, buf.String())

	app.setMode(ModeOffline)
	require.Equal(t, ModeOffline, app.mode())
	require.Contains(t, buf.String(), "mode=offline")
}

func TestGetStatus(t *testing.T) {
	require.Equal(t, "", (&App{}).getStatus())
	require.Equal(t, "(alice )", (&App{userName: "alice"}).getStatus())
	require.Equal(t, "(alice offline)", (&App{userName: "alice", Mode: ModeOffline}).getStatus())
}

func TestStartOnlineStatusWatcher_FollowsHealth(t *testing.T) {
	srv := newFakeServer(t)
	a, _ := newWiredApp(t, testConfig(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return a.mode() == ModeOnline }, 2*time.Second, 5*time.Millisecond)
	srv.down.Store(true)
	require.Eventually(t, func() bool { return a.mode() == ModeOffline }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestPing_PrintsBaseURL(t *testing.T) {
	srv := newFakeServer(t)
	a, out := newWiredApp(t, testConfig(srv.URL))

	require.NoError(t, a.Ping(context.Background()))
	require.True(t, strings.HasPrefix(out.String(), srv.URL+"/api is up"))
}

func TestApp_DisabledSurvivesProbesUntilStart(t *testing.T) {
	srv := newFakeServer(t)
	a, _ := newWiredApp(t, testConfig(srv.URL))
	ctx := context.Background()

	a.setMode(ModeDisabled)

	a.checkOnline(ctx)
	require.Equal(t, ModeDisabled, a.mode())

	srv.down.Store(true)
	a.checkOnline(ctx)
	require.Error(t, a.Ping(ctx))
	require.Equal(t, ModeDisabled, a.mode())

	srv.down.Store(false)
	require.NoError(t, a.Start(ctx))
	require.Equal(t, ModeOnline, a.mode())

	srv.down.Store(true)
	a.checkOnline(ctx)
	require.Equal(t, ModeOffline, a.mode())
}
