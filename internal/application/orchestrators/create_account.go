package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"suivi/internal/domain/account"
	"suivi/internal/domain/participant"
)

// Account creation errors
var (
	ErrUsernameTaken     = errors.New("username is already taken")
	ErrParticipantLinked = errors.New("participant already has an account")
)

// AccountStoreForCreate defines the account store interface needed by CreateAccount.
type AccountStoreForCreate interface {
	GetByUsername(ctx context.Context, username string) (account.Account, error)
	GetByParticipantCEF(ctx context.Context, cef string) (account.Account, error)
	Save(ctx context.Context, entity account.Account) error
	Count(ctx context.Context) (int, error)
}

// ParticipantStoreForCreate defines the participant lookup for user accounts.
type ParticipantStoreForCreate interface {
	GetByCEF(ctx context.Context, cef string) (participant.Participant, error)
}

// CreateAccountInput carries the fields of a new login.
type CreateAccountInput struct {
	Username       string
	Password       string
	Role           string
	ParticipantCEF string // required for RoleUser
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	AccountStore     AccountStoreForCreate
	ParticipantStore ParticipantStoreForCreate
	Now              func() time.Time
}

// CreateAccountResult reports the created account.
type CreateAccountResult struct {
	Account account.Account
}

// ExecuteCreateAccount creates a login. A user account must reference an
// existing participant, and a participant can hold at most one login.
// POST: the account exists with a hashed password, or nothing changed
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (CreateAccountResult, error) {
	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}

	entity := account.Account{
		ID:             uuid.NewString(),
		Username:       input.Username,
		Role:           input.Role,
		ParticipantCEF: input.ParticipantCEF,
		CreatedAt:      now,
	}
	if err := entity.Validate(); err != nil {
		return CreateAccountResult{}, err
	}
	if err := entity.SetPassword(input.Password); err != nil {
		return CreateAccountResult{}, err
	}

	if _, err := deps.AccountStore.GetByUsername(ctx, input.Username); err == nil {
		return CreateAccountResult{}, fmt.Errorf("%w: %s", ErrUsernameTaken, input.Username)
	}
	if entity.Role == account.RoleUser {
		if _, err := deps.ParticipantStore.GetByCEF(ctx, input.ParticipantCEF); err != nil {
			return CreateAccountResult{}, fmt.Errorf("create account: %w", err)
		}
		if _, err := deps.AccountStore.GetByParticipantCEF(ctx, input.ParticipantCEF); err == nil {
			return CreateAccountResult{}, fmt.Errorf("%w: %s", ErrParticipantLinked, input.ParticipantCEF)
		}
	}

	if err := deps.AccountStore.Save(ctx, entity); err != nil {
		return CreateAccountResult{}, fmt.Errorf("create account: %w", err)
	}
	slog.Info("account_created", "username", entity.Username, "role", entity.Role)
	return CreateAccountResult{Account: entity}, nil
}

// SeedAdminInput carries the bootstrap admin credentials from configuration.
type SeedAdminInput struct {
	Username string
	Password string
}

// ExecuteSeedAdmin creates the initial admin login when no account exists
// yet. A populated account table makes this a no-op, so restarts never
// overwrite a changed admin password.
// POST: at least one admin account exists
func ExecuteSeedAdmin(ctx context.Context, input SeedAdminInput, deps CreateAccountDeps) error {
	n, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if n > 0 {
		return nil
	}
	_, err = ExecuteCreateAccount(ctx, CreateAccountInput{
		Username: input.Username,
		Password: input.Password,
		Role:     account.RoleAdmin,
	}, deps)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	slog.Info("admin_seeded", "username", input.Username)
	return nil
}
