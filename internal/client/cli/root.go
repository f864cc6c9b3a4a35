package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if m := a.mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// resume restores the previous session or opens a new anonymous one. When
// the server cannot be reached and there is no stored session, the client
// runs in disabled mode until "start" succeeds.
func (a *App) resume(ctx context.Context) {
	if a.isLoggedIn() {
		if id, err := a.authService.Whoami(ctx); err == nil {
			if id.Email != "" {
				a.userName = id.Email
			} else {
				a.userName = "guest"
			}
		}
		a.checkOnline(ctx)
		return
	}

	if err := a.Start(ctx); err != nil {
		a.setMode(ModeDisabled)
	}
}

// Root runs the interactive session and blocks until the user exits or
// stdin is closed.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to SugarLog CLI (type 'help' for commands)")

	a.resume(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
