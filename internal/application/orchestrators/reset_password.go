package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"suivi/internal/domain/account"
	"suivi/internal/domain/participant"
)

// ErrNoLinkedParticipant reports a reset on an account without a
// participant record to derive the password from.
var ErrNoLinkedParticipant = errors.New("account has no linked participant")

// ParticipantStoreForReset defines the participant lookup needed by ResetPassword.
type ParticipantStoreForReset interface {
	GetByCEF(ctx context.Context, cef string) (participant.Participant, error)
}

// ResetPasswordInput names the account to reset.
type ResetPasswordInput struct {
	AccountID string
}

// ResetPasswordDeps holds dependencies for ResetPassword.
type ResetPasswordDeps struct {
	AccountStore     AccountStoreForPassword
	ParticipantStore ParticipantStoreForReset
}

// ResetPasswordResult returns the regenerated password in clear, once.
type ResetPasswordResult struct {
	Password string
}

// ExecuteResetPassword restores a user account's password to its
// provisioning value, derived from the linked participant's name and CEF.
// The rule is deterministic, so a reset reproduces exactly the password
// the participant was originally issued. The lockout state is cleared.
// POST: the account accepts the returned password
func ExecuteResetPassword(ctx context.Context, input ResetPasswordInput, deps ResetPasswordDeps) (ResetPasswordResult, error) {
	entity, err := deps.AccountStore.GetByID(ctx, input.AccountID)
	if err != nil {
		return ResetPasswordResult{}, fmt.Errorf("reset password: %w", err)
	}
	if entity.ParticipantCEF == "" {
		return ResetPasswordResult{}, ErrNoLinkedParticipant
	}
	p, err := deps.ParticipantStore.GetByCEF(ctx, entity.ParticipantCEF)
	if err != nil {
		return ResetPasswordResult{}, fmt.Errorf("reset password: %w", err)
	}
	password := account.GeneratePassword(p.Nom, p.CEF)
	if err := entity.SetProvisionedPassword(password); err != nil {
		return ResetPasswordResult{}, fmt.Errorf("reset password: %w", err)
	}
	entity.ResetFailedLogins()
	if err := deps.AccountStore.Save(ctx, entity); err != nil {
		return ResetPasswordResult{}, fmt.Errorf("reset password: %w", err)
	}
	slog.Info("auth_event", "event", "password_reset", "username", entity.Username)
	return ResetPasswordResult{Password: password}, nil
}
