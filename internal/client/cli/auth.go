package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sugarlog/internal/client/api"
	"github.com/dmitrijs2005/sugarlog/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getGrams = GetGrams
var getPassword = GetPassword

func (a *App) rememberUser(u *api.User) {
	switch {
	case u == nil:
		a.userName = ""
	case u.Email != "":
		a.userName = u.Email
	default:
		a.userName = "guest"
	}
}

// Start opens an anonymous session for this device.
func (a *App) Start(ctx context.Context) error {
	u, err := a.authService.Start(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}
	a.rememberUser(u)
	a.setMode(ModeOnline)
	fmt.Fprintln(a.out, "Session started.")
	return nil
}

// Upgrade prompts for e-mail and password and attaches them to the current
// session. The password is wiped before returning.
func (a *App) Upgrade(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.authService.Upgrade(ctx, email, password)
	if err != nil {
		return a.fail(ctx, err)
	}
	a.rememberUser(u)
	fmt.Fprintln(a.out, "Account saved. You can now sign in with", u.Email)
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	id, err := a.authService.Whoami(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}

	fmt.Fprintf(a.out, "device:    %s\n", orDash(id.DeviceUUID))
	fmt.Fprintf(a.out, "user:      %s\n", orDash(id.UserID))
	fmt.Fprintf(a.out, "email:     %s\n", orDash(id.Email))
	fmt.Fprintf(a.out, "logged in: %t\n", id.LoggedIn)
	if id.Claims != nil && !id.Claims.ExpiresAt.IsZero() {
		state := "valid"
		if id.Claims.Expired(time.Now()) {
			state = "expired"
		}
		fmt.Fprintf(a.out, "expires:   %s (%s)\n", formatTime(id.Claims.ExpiresAt), state)
	}
	return nil
}

// Logout drops the session. "logout device" also forgets the device
// identifier so the next start creates a new anonymous account.
func (a *App) Logout(ctx context.Context, args []string) error {
	forget := len(args) > 0 && args[0] == "device"
	if err := a.authService.Logout(ctx, forget); err != nil {
		return a.fail(ctx, err)
	}
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) Ping(ctx context.Context) error {
	start := time.Now()
	if err := a.authService.Ping(ctx); err != nil {
		return a.fail(ctx, err)
	}
	a.setConnectivity(ModeOnline)
	fmt.Fprintf(a.out, "%s is up (%s)\n", a.config.APIBaseURL, time.Since(start).Round(time.Millisecond))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
