package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/sugarlog/internal/buildinfo"
	"github.com/dmitrijs2005/sugarlog/internal/client/api"
	"github.com/dmitrijs2005/sugarlog/internal/client/config"
	"github.com/dmitrijs2005/sugarlog/internal/client/gateway"
	"github.com/dmitrijs2005/sugarlog/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/sugarlog/internal/client/services"
	"github.com/dmitrijs2005/sugarlog/internal/client/session"
	"github.com/dmitrijs2005/sugarlog/internal/client/storage"
	"github.com/dmitrijs2005/sugarlog/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

// pingTimeout bounds a single liveness probe of the watcher.
const pingTimeout = 3 * time.Second

type App struct {
	config         *config.Config
	log            logging.Logger
	authService    services.AuthService
	trackerService services.TrackerService
	reader         *bufio.Reader
	out            io.Writer
	userName       string

	mu   sync.Mutex
	Mode Mode
}

// NewApp opens local storage, builds the session store and the gateway, and
// wires the services on top of them. In ephemeral mode both the database
// and the credential live in memory only.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	logger := logging.New(os.Stderr, c.LogLevel)

	var (
		db    *sql.DB
		store session.Store
		err   error
	)
	if c.Ephemeral {
		db, err = storage.OpenInMemory(ctx)
	} else {
		db, err = storage.OpenDataDir(ctx, c.DataDir)
	}
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	if c.Ephemeral {
		store = session.NewMemoryStore()
	} else {
		store = session.NewSQLiteStore(metadata.NewSQLiteRepository(db), logger)
	}

	gw, err := gateway.New(c.APIBaseURL, store,
		gateway.WithHTTPClient(&http.Client{Timeout: c.RequestTimeout}),
		gateway.WithLogger(logger.With("component", "gateway")),
		gateway.WithUserAgent(buildinfo.UserAgent()),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	apiClient := api.New(gw)

	return &App{
		config:         c,
		log:            logger,
		authService:    services.NewAuthService(apiClient, store, db),
		trackerService: services.NewTrackerService(apiClient),
		reader:         bufio.NewReader(os.Stdin),
		out:            os.Stdout,
	}, nil
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

func (a *App) setMode(mode Mode) {
	a.switchMode(mode, true)
}

// setConnectivity records a probe result. A disabled app stays disabled
// until a session is started.
func (a *App) setConnectivity(mode Mode) {
	a.switchMode(mode, false)
}

func (a *App) switchMode(mode Mode, force bool) {
	a.mu.Lock()
	if !force && a.Mode == ModeDisabled {
		a.mu.Unlock()
		return
	}
	changed := a.Mode != mode
	a.Mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "switched mode", "mode", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.authService.Close(ctx)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.authService.LoggedIn(context.Background())
}

// StartOnlineStatusWatcher probes the API every interval and flips the
// mode between online and offline. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.authService.Ping(pctx)
	cancel()

	if err != nil {
		a.setConnectivity(ModeOffline)
		return
	}
	a.setConnectivity(ModeOnline)
}
