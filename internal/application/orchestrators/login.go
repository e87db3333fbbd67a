package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"suivi/internal/domain/account"
)

// Authentication errors. ErrInvalidCredentials deliberately covers both an
// unknown username and a wrong password.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountLocked      = errors.New("account is temporarily locked")
)

// AccountStoreForLogin defines the account store interface needed by Login.
type AccountStoreForLogin interface {
	GetByUsername(ctx context.Context, username string) (account.Account, error)
	Save(ctx context.Context, entity account.Account) error
}

// LoginInput carries the submitted credentials.
type LoginInput struct {
	Username string
	Password string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AccountStore AccountStoreForLogin
}

// LoginResult is the authenticated account.
type LoginResult struct {
	Account account.Account
}

// ExecuteLogin authenticates a username/password pair. Five consecutive
// failures lock the account for fifteen minutes; a successful login clears
// the counter.
// POST: the failed-login state of the account reflects this attempt
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	entity, err := deps.AccountStore.GetByUsername(ctx, input.Username)
	if err != nil {
		slog.Info("auth_event", "event", "login_unknown_user", "username", input.Username)
		return LoginResult{}, ErrInvalidCredentials
	}
	if entity.IsLocked() {
		slog.Info("auth_event", "event", "login_locked", "username", input.Username)
		return LoginResult{}, ErrAccountLocked
	}
	if err := entity.CheckPassword(input.Password); err != nil {
		entity.RecordFailedLogin()
		if saveErr := deps.AccountStore.Save(ctx, entity); saveErr != nil {
			return LoginResult{}, fmt.Errorf("login: %w", saveErr)
		}
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "failures", entity.FailedLogins)
		return LoginResult{}, ErrInvalidCredentials
	}
	if entity.FailedLogins > 0 || !entity.LockedUntil.IsZero() {
		entity.ResetFailedLogins()
		if err := deps.AccountStore.Save(ctx, entity); err != nil {
			return LoginResult{}, fmt.Errorf("login: %w", err)
		}
	}
	slog.Info("auth_event", "event", "login_ok", "username", input.Username, "role", entity.Role)
	return LoginResult{Account: entity}, nil
}
