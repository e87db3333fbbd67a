package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"suivi/internal/domain/account"
)

// AccountStoreForPassword defines the account store interface shared by
// ChangePassword and ResetPassword.
type AccountStoreForPassword interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	Save(ctx context.Context, entity account.Account) error
}

// ChangePasswordInput carries a self-service password change.
type ChangePasswordInput struct {
	AccountID   string
	OldPassword string
	NewPassword string
}

// ChangePasswordDeps holds dependencies for ChangePassword.
type ChangePasswordDeps struct {
	AccountStore AccountStoreForPassword
}

// ExecuteChangePassword replaces an account's password after verifying the
// current one.
// POST: the new hash is stored, or the account is unchanged
func ExecuteChangePassword(ctx context.Context, input ChangePasswordInput, deps ChangePasswordDeps) error {
	entity, err := deps.AccountStore.GetByID(ctx, input.AccountID)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if err := entity.CheckPassword(input.OldPassword); err != nil {
		return err
	}
	if err := entity.SetPassword(input.NewPassword); err != nil {
		return err
	}
	if err := deps.AccountStore.Save(ctx, entity); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	slog.Info("auth_event", "event", "password_changed", "username", entity.Username)
	return nil
}
