// Package services contains application services for the SugarLog client.
// This file defines the authentication service: device identity, anonymous
// sessions, upgrading to an e-mail account, logout and liveness.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sugarlog/internal/client/api"
	"github.com/dmitrijs2005/sugarlog/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/sugarlog/internal/client/session"
	"github.com/dmitrijs2005/sugarlog/internal/common"
	"github.com/dmitrijs2005/sugarlog/internal/dbx"
	"github.com/google/uuid"
)

var (
	ErrNotLoggedIn  = errors.New("not logged in")
	ErrInvalidInput = errors.New("invalid input")
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Start: open an anonymous session bound to this device's identifier,
//     creating the identifier on first use.
//   - Upgrade: turn the current session into an e-mail/password account.
//   - Logout: drop the credential and the cached account details; with
//     forgetDevice the device identifier is dropped too.
//   - LoggedIn / Whoami: inspect local state only, no network I/O.
//   - Ping: check server liveness.
type AuthService interface {
	Start(ctx context.Context) (*api.User, error)
	Upgrade(ctx context.Context, email string, password []byte) (*api.User, error)
	Logout(ctx context.Context, forgetDevice bool) error
	LoggedIn(ctx context.Context) bool
	Whoami(ctx context.Context) (*Identity, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Identity is the locally known state of the session.
type Identity struct {
	DeviceUUID string
	UserID     string
	Email      string
	LoggedIn   bool
	// Claims is set when the credential is a decodable JWT.
	Claims *session.Claims
}

// authService is backed by the API client, the session store and the local
// database holding device and account metadata.
type authService struct {
	client api.Client
	store  session.Store
	db     *sql.DB
}

// NewAuthService constructs an AuthService bound to the API client, the
// session store and the local database.
func NewAuthService(client api.Client, store session.Store, db *sql.DB) AuthService {
	return &authService{client: client, store: store, db: db}
}

func (a *authService) getMetadataRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(a.db)
}

// deviceUUID returns the persisted device identifier, generating and
// storing one on first use.
func (a *authService) deviceUUID(ctx context.Context) (string, error) {
	repo := a.getMetadataRepo()

	v, err := repo.Get(ctx, common.MetaKeyDeviceUUID)
	if err == nil && len(v) > 0 {
		return string(v), nil
	}
	if err != nil && !errors.Is(err, metadata.ErrNotFound) {
		return "", fmt.Errorf("read device id: %w", err)
	}

	id := uuid.NewString()
	if err := repo.Set(ctx, common.MetaKeyDeviceUUID, []byte(id)); err != nil {
		return "", fmt.Errorf("save device id: %w", err)
	}
	return id, nil
}

// Start performs the anonymous login. The credential returned by the server
// is stored by the gateway; here only the account details are cached.
func (a *authService) Start(ctx context.Context) (*api.User, error) {
	id, err := a.deviceUUID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := a.client.AnonymousLogin(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := a.saveAccount(ctx, user); err != nil {
		return nil, fmt.Errorf("account data saving error: %w", err)
	}
	return user, nil
}

// Upgrade attaches e-mail and password to the current session. The password
// slice is wiped before returning.
func (a *authService) Upgrade(ctx context.Context, email string, password []byte) (*api.User, error) {
	defer common.WipeByteArray(password)

	email = strings.TrimSpace(email)
	if email == "" || len(password) == 0 {
		return nil, fmt.Errorf("%w: e-mail and password are required", ErrInvalidInput)
	}
	if !a.LoggedIn(ctx) {
		return nil, ErrNotLoggedIn
	}

	user, err := a.client.Upgrade(ctx, email, string(password))
	if err != nil {
		return nil, err
	}
	if user.Email == "" {
		user.Email = email
	}

	if err := a.saveAccount(ctx, user); err != nil {
		return nil, fmt.Errorf("account data saving error: %w", err)
	}
	return user, nil
}

// saveAccount caches user id and e-mail in a single transaction. An
// anonymous user has no e-mail, so a stale one is removed.
func (a *authService) saveAccount(ctx context.Context, user *api.User) error {
	return dbx.WithTx(ctx, a.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.MetaKeyUserID, []byte(user.ID)); err != nil {
			return err
		}
		if user.Email == "" {
			return repo.Delete(ctx, common.MetaKeyEmail)
		}
		return repo.Set(ctx, common.MetaKeyEmail, []byte(user.Email))
	})
}

func (a *authService) Logout(ctx context.Context, forgetDevice bool) error {
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	keys := []string{common.MetaKeyUserID, common.MetaKeyEmail}
	if forgetDevice {
		keys = append(keys, common.MetaKeyDeviceUUID)
	}
	if err := a.getMetadataRepo().Delete(ctx, keys...); err != nil {
		return fmt.Errorf("clear account data: %w", err)
	}
	return nil
}

func (a *authService) LoggedIn(ctx context.Context) bool {
	_, ok := a.store.Get(ctx)
	return ok
}

func (a *authService) Whoami(ctx context.Context) (*Identity, error) {
	repo := a.getMetadataRepo()
	id := &Identity{}

	for key, dst := range map[string]*string{
		common.MetaKeyDeviceUUID: &id.DeviceUUID,
		common.MetaKeyUserID:     &id.UserID,
		common.MetaKeyEmail:      &id.Email,
	} {
		v, err := repo.Get(ctx, key)
		if errors.Is(err, metadata.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		*dst = string(v)
	}

	if token, ok := a.store.Get(ctx); ok {
		id.LoggedIn = true
		if claims, ok := session.Inspect(token); ok {
			id.Claims = &claims
		}
	}
	return id, nil
}

// Ping proxies a liveness check to the API.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Health(ctx)
}

// Close releases the local database.
func (a *authService) Close(ctx context.Context) error {
	return a.db.Close()
}
