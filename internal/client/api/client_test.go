package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/sugarlog/internal/client/gateway"
	"github.com/dmitrijs2005/sugarlog/internal/client/session"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type route struct {
	status int
	body   string
}

type captured struct {
	method string
	uri    string
	auth   string
	body   map[string]any
}

// fakeAPI serves canned responses keyed by "METHOD path" and records the
// last request it received.
type fakeAPI struct {
	routes map[string]route

	mu   sync.Mutex
	last captured
}

func (f *fakeAPI) got() captured {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func newFakeAPI(t *testing.T, routes map[string]route) (*fakeAPI, *httptest.Server) {
	t.Helper()
	f := &fakeAPI{routes: routes}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := captured{method: r.Method, uri: r.URL.RequestURI(), auth: r.Header.Get("Authorization")}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &c.body)
		}
		f.mu.Lock()
		f.last = c
		f.mu.Unlock()

		rt, ok := f.routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"no route"}`)
			return
		}
		w.WriteHeader(rt.status)
		_, _ = io.WriteString(w, rt.body)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func newClient(t *testing.T, baseURL string, store session.Store) *HTTPClient {
	t.Helper()
	gw, err := gateway.New(baseURL, store)
	require.NoError(t, err)
	return New(gw)
}

func TestAnonymousLogin_StoresToken(t *testing.T) {
	f, srv := newFakeAPI(t, map[string]route{
		"POST /auth/anonymous": {200, `{"status":true,"token":"abc","data":{"id":"u1","isAnonymous":true}}`},
	})
	store := session.NewMemoryStore()
	c := newClient(t, srv.URL, store)

	user, err := c.AnonymousLogin(context.Background(), "device-123")
	require.NoError(t, err)
	assert.Equal(t, &User{ID: "u1", IsAnonymous: true}, user)

	got, ok := store.Get(context.Background())
	require.True(t, ok)
	assert.Equal(t, "abc", got)

	assert.Equal(t, "POST", f.got().method)
	assert.Equal(t, map[string]any{"deviceUuid": "device-123"}, f.got().body)
	assert.Empty(t, f.got().auth, "store was empty before the call")
}

func TestUpgrade_SendsCredentialsAndReplacesToken(t *testing.T) {
	f, srv := newFakeAPI(t, map[string]route{
		"POST /auth/upgrade": {200, `{"status":true,"token":"full","data":{"id":"u1","email":"a@b.c"}}`},
	})
	store := session.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), "anon"))
	c := newClient(t, srv.URL, store)

	user, err := c.Upgrade(context.Background(), "a@b.c", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", user.Email)
	assert.False(t, user.IsAnonymous)

	assert.Equal(t, "Bearer anon", f.got().auth)
	assert.Equal(t, map[string]any{"email": "a@b.c", "password": "s3cret!"}, f.got().body)

	got, _ := store.Get(context.Background())
	assert.Equal(t, "full", got)
}

func TestAnyEndpoint_401ClearsStore(t *testing.T) {
	_, srv := newFakeAPI(t, map[string]route{
		"GET /user/daily-status": {401, `{"message":"expired"}`},
	})
	store := session.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), "abc"))
	c := newClient(t, srv.URL, store)

	_, err := c.DailyStatus(context.Background())
	ge, ok := gateway.AsError(err)
	require.True(t, ok)
	assert.Equal(t, 401, ge.Status)
	assert.Equal(t, "expired", ge.Message)

	_, present := store.Get(context.Background())
	assert.False(t, present)
}

func TestHistory_Offline(t *testing.T) {
	_, srv := newFakeAPI(t, nil)
	url := srv.URL
	srv.Close()

	c := newClient(t, url, session.NewMemoryStore())

	_, err := c.History(context.Background(), 5)
	ge, ok := gateway.AsError(err)
	require.True(t, ok)
	assert.True(t, ge.IsTransport())
	assert.Equal(t, gateway.MsgNetwork, gateway.MessageFor(err))
}

func TestUpdateProfile_ValidationMessage(t *testing.T) {
	f, srv := newFakeAPI(t, map[string]route{
		"PUT /user/profile": {422, `{"message":"name too short"}`},
	})
	c := newClient(t, srv.URL, session.NewMemoryStore())

	name := "x"
	_, err := c.UpdateProfile(context.Background(), ProfileUpdate{Name: &name})
	require.Error(t, err)
	assert.Equal(t, "name too short", gateway.MessageFor(err))
	assert.Equal(t, map[string]any{"name": "x"}, f.got().body, "unset fields are omitted")
}

func TestHistory_LimitQuery(t *testing.T) {
	at := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
	f, srv := newFakeAPI(t, map[string]route{
		"GET /logs/history": {200, `{"status":true,"data":[
			{"id":"l1","grams":12.5,"food":"soda","loggedAt":"2026-03-01T08:30:00Z","action":"walk 10 min"},
			{"id":"l2","grams":4,"loggedAt":"2026-03-01T08:30:00Z","completedAt":"2026-03-01T08:30:00Z"}
		]}`},
	})
	c := newClient(t, srv.URL, session.NewMemoryStore())

	entries, err := c.History(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "/logs/history?limit=5", f.got().uri)

	want := []LogEntry{
		{ID: "l1", Grams: 12.5, Food: "soda", LoggedAt: at, Action: "walk 10 min"},
		{ID: "l2", Grams: 4, LoggedAt: at, CompletedAt: &at},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, entries[0].Completed())
	assert.True(t, entries[1].Completed())

	_, err = c.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "/logs/history", f.got().uri)
}

func TestHistory_NullDataIsEmpty(t *testing.T) {
	_, srv := newFakeAPI(t, map[string]route{
		"GET /logs/history": {200, `{"status":true,"data":null}`},
	})
	c := newClient(t, srv.URL, session.NewMemoryStore())

	entries, err := c.History(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEndpoints_MethodsPathsAndBodies(t *testing.T) {
	f, srv := newFakeAPI(t, map[string]route{
		"GET /user/profile":          {200, `{"status":true,"data":{"id":"u1","name":"Ann","dailyGoal":25}}`},
		"GET /user/daily-status":     {200, `{"status":true,"data":{"date":"2026-03-01","totalGrams":10,"goalGrams":25,"remainingGrams":15,"logsCount":2,"streak":4}}`},
		"POST /logs/sugar":           {201, `{"status":true,"data":{"id":"l9","grams":7}}`},
		"POST /logs/action-complete": {200, `{"status":true,"data":{"id":"l9","grams":7,"completedAt":"2026-03-01T09:00:00Z"}}`},
		"POST /health/sync":          {200, `{"status":true,"data":{"imported":2,"skipped":1}}`},
		"GET /healthz":               {200, `{"status":"ok"}`},
	})
	store := session.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), "tok"))
	c := newClient(t, srv.URL, store)
	ctx := context.Background()

	p, err := c.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Profile{ID: "u1", Name: "Ann", DailyGoal: 25}, p)
	assert.Equal(t, "Bearer tok", f.got().auth)

	ds, err := c.DailyStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15.0, ds.RemainingGrams)
	assert.Equal(t, 4, ds.Streak)

	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	le, err := c.LogSugar(ctx, SugarLog{Grams: 7, Food: "cookie", LoggedAt: at, Extra: map[string]any{"mood": "ok"}})
	require.NoError(t, err)
	assert.Equal(t, "l9", le.ID)
	assert.Equal(t, map[string]any{
		"grams":    7.0,
		"food":     "cookie",
		"loggedAt": "2026-03-01T08:00:00Z",
		"extra":    map[string]any{"mood": "ok"},
	}, f.got().body)

	done, err := c.CompleteAction(ctx, "l9")
	require.NoError(t, err)
	assert.True(t, done.Completed())
	assert.Equal(t, map[string]any{"logId": "l9"}, f.got().body)

	res, err := c.SyncHealth(ctx, HealthSync{Source: "cli", Samples: []HealthSample{
		{Type: "steps", Value: 1200, StartDate: at, EndDate: at.Add(time.Hour)},
	}})
	require.NoError(t, err)
	assert.Equal(t, &SyncResult{Imported: 2, Skipped: 1}, res)
	assert.Equal(t, "POST", f.got().method)
	assert.Equal(t, "/health/sync", f.got().uri)

	require.NoError(t, c.Health(ctx), "healthz body shape is not checked")
	assert.Equal(t, "/healthz", f.got().uri)

	got, _ := store.Get(ctx)
	assert.Equal(t, "tok", got, "successful calls without token leave the store alone")
}

func TestHealth_ServerError(t *testing.T) {
	_, srv := newFakeAPI(t, map[string]route{
		"GET /healthz": {500, `{"message":"db down"}`},
	})
	c := newClient(t, srv.URL, session.NewMemoryStore())

	err := c.Health(context.Background())
	require.Error(t, err)
	assert.Equal(t, gateway.MsgServer, gateway.MessageFor(err))
}
