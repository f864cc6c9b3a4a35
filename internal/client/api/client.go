// Package api exposes the SugarLog endpoints as typed calls. Each method is
// a thin wrapper over one gateway request with a fixed endpoint and method,
// so it inherits the gateway's contract: every error is a *gateway.Error,
// and a "token" in a successful response becomes the stored credential.
package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/sugarlog/internal/client/gateway"
)

// Endpoint paths, relative to the configured base address.
const (
	PathAnonymousLogin = "/auth/anonymous"
	PathUpgrade        = "/auth/upgrade"
	PathProfile        = "/user/profile"
	PathDailyStatus    = "/user/daily-status"
	PathLogSugar       = "/logs/sugar"
	PathHistory        = "/logs/history"
	PathActionComplete = "/logs/action-complete"
	PathHealthSync     = "/health/sync"
	PathHealthz        = "/healthz"
)

type Client interface {
	AnonymousLogin(ctx context.Context, deviceUUID string) (*User, error)
	Upgrade(ctx context.Context, email, password string) (*User, error)
	Profile(ctx context.Context) (*Profile, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (*Profile, error)
	DailyStatus(ctx context.Context) (*DailyStatus, error)
	LogSugar(ctx context.Context, entry SugarLog) (*LogEntry, error)
	History(ctx context.Context, limit int) ([]LogEntry, error)
	CompleteAction(ctx context.Context, logID string) (*LogEntry, error)
	SyncHealth(ctx context.Context, payload HealthSync) (*SyncResult, error)
	Health(ctx context.Context) error
}

type HTTPClient struct {
	gw gateway.Doer
}

func New(gw gateway.Doer) *HTTPClient {
	return &HTTPClient{gw: gw}
}

func call[T any](ctx context.Context, gw gateway.Doer, endpoint string, spec gateway.RequestSpec) (*T, error) {
	env, err := gateway.Call[T](ctx, gw, endpoint, spec)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *HTTPClient) AnonymousLogin(ctx context.Context, deviceUUID string) (*User, error) {
	body := struct {
		DeviceUUID string `json:"deviceUuid"`
	}{deviceUUID}
	return call[User](ctx, c.gw, PathAnonymousLogin, gateway.Post(body))
}

func (c *HTTPClient) Upgrade(ctx context.Context, email, password string) (*User, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}
	return call[User](ctx, c.gw, PathUpgrade, gateway.Post(body))
}

func (c *HTTPClient) Profile(ctx context.Context) (*Profile, error) {
	return call[Profile](ctx, c.gw, PathProfile, gateway.Get())
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, update ProfileUpdate) (*Profile, error) {
	return call[Profile](ctx, c.gw, PathProfile, gateway.Put(update))
}

func (c *HTTPClient) DailyStatus(ctx context.Context) (*DailyStatus, error) {
	return call[DailyStatus](ctx, c.gw, PathDailyStatus, gateway.Get())
}

func (c *HTTPClient) LogSugar(ctx context.Context, entry SugarLog) (*LogEntry, error) {
	return call[LogEntry](ctx, c.gw, PathLogSugar, gateway.Post(entry))
}

// History returns the most recent logs. A non-positive limit leaves the page
// size to the server.
func (c *HTTPClient) History(ctx context.Context, limit int) ([]LogEntry, error) {
	endpoint := PathHistory
	if limit > 0 {
		endpoint += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}
	entries, err := call[[]LogEntry](ctx, c.gw, endpoint, gateway.Get())
	if err != nil {
		return nil, err
	}
	return *entries, nil
}

func (c *HTTPClient) CompleteAction(ctx context.Context, logID string) (*LogEntry, error) {
	body := struct {
		LogID string `json:"logId"`
	}{logID}
	return call[LogEntry](ctx, c.gw, PathActionComplete, gateway.Post(body))
}

func (c *HTTPClient) SyncHealth(ctx context.Context, payload HealthSync) (*SyncResult, error) {
	return call[SyncResult](ctx, c.gw, PathHealthSync, gateway.Post(payload))
}

// Health checks liveness. Any JSON body on 2xx counts as alive; its shape is
// not inspected.
func (c *HTTPClient) Health(ctx context.Context) error {
	_, err := c.gw.Do(ctx, PathHealthz, gateway.Get())
	return err
}
