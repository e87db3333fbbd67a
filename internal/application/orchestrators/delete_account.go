package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"suivi/internal/domain/account"
)

// ErrLastAdmin reports an attempt to delete the only admin account.
var ErrLastAdmin = errors.New("cannot delete the last admin account")

// AccountStoreForDelete defines the account store interface needed by DeleteAccount.
type AccountStoreForDelete interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	List(ctx context.Context) ([]account.Account, error)
	Delete(ctx context.Context, id string) error
}

// DeleteAccountInput names the account to remove.
type DeleteAccountInput struct {
	ID string
}

// DeleteAccountDeps holds dependencies for DeleteAccount.
type DeleteAccountDeps struct {
	AccountStore AccountStoreForDelete
}

// ExecuteDeleteAccount removes a login. The last admin account cannot be
// deleted, otherwise nobody could administer the application anymore.
// POST: the account is gone, or ErrLastAdmin
func ExecuteDeleteAccount(ctx context.Context, input DeleteAccountInput, deps DeleteAccountDeps) error {
	entity, err := deps.AccountStore.GetByID(ctx, input.ID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if entity.IsAdmin() {
		all, err := deps.AccountStore.List(ctx)
		if err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		admins := 0
		for _, a := range all {
			if a.IsAdmin() {
				admins++
			}
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}
	if err := deps.AccountStore.Delete(ctx, input.ID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	slog.Info("account_deleted", "username", entity.Username, "role", entity.Role)
	return nil
}
