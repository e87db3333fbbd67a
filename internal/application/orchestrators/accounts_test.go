package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"suivi/internal/domain/account"
	"suivi/internal/domain/participant"
)

// mockAccountStore covers every account store interface the orchestrators use.
type mockAccountStore struct {
	byID map[string]account.Account
}

func newMockAccountStore(accounts ...account.Account) *mockAccountStore {
	m := &mockAccountStore{byID: make(map[string]account.Account)}
	for _, a := range accounts {
		m.byID[a.ID] = a
	}
	return m
}

func (m *mockAccountStore) GetByID(_ context.Context, id string) (account.Account, error) {
	a, ok := m.byID[id]
	if !ok {
		return account.Account{}, errors.New("not found")
	}
	return a, nil
}

func (m *mockAccountStore) GetByUsername(_ context.Context, username string) (account.Account, error) {
	for _, a := range m.byID {
		if a.Username == username {
			return a, nil
		}
	}
	return account.Account{}, errors.New("not found")
}

func (m *mockAccountStore) GetByParticipantCEF(_ context.Context, cef string) (account.Account, error) {
	for _, a := range m.byID {
		if a.ParticipantCEF == cef {
			return a, nil
		}
	}
	return account.Account{}, errors.New("not found")
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.byID[a.ID] = a
	return nil
}

func (m *mockAccountStore) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func (m *mockAccountStore) List(_ context.Context) ([]account.Account, error) {
	out := make([]account.Account, 0, len(m.byID))
	for _, a := range m.byID {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockAccountStore) Count(_ context.Context) (int, error) {
	return len(m.byID), nil
}

type mockParticipantLookup struct {
	byCEF map[string]participant.Participant
}

func (m *mockParticipantLookup) GetByCEF(_ context.Context, cef string) (participant.Participant, error) {
	p, ok := m.byCEF[cef]
	if !ok {
		return participant.Participant{}, fmt.Errorf("%w: %s", participant.ErrNotFound, cef)
	}
	return p, nil
}

func createDeps(accounts *mockAccountStore) CreateAccountDeps {
	return CreateAccountDeps{
		AccountStore: accounts,
		ParticipantStore: &mockParticipantLookup{byCEF: map[string]participant.Participant{
			"C1": {CEF: "C1", Nom: "Dupont", Prenom: "Jean"},
		}},
	}
}

func TestExecuteCreateAccount_User(t *testing.T) {
	accounts := newMockAccountStore()
	result, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Username:       "C1",
		Password:       "Dupont@1234",
		Role:           account.RoleUser,
		ParticipantCEF: "C1",
	}, createDeps(accounts))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Account.ID == "" {
		t.Error("expected a generated id")
	}
	if result.Account.PasswordHash == "" || result.Account.PasswordHash == "Dupont@1234" {
		t.Error("password must be stored hashed")
	}
}

func TestExecuteCreateAccount_UsernameTaken(t *testing.T) {
	accounts := newMockAccountStore(account.Account{ID: "x", Username: "C1", Role: account.RoleAdmin})
	_, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Username: "C1", Password: "Password1", Role: account.RoleAdmin,
	}, createDeps(accounts))
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestExecuteCreateAccount_ParticipantAlreadyLinked(t *testing.T) {
	accounts := newMockAccountStore(account.Account{
		ID: "x", Username: "other", Role: account.RoleUser, ParticipantCEF: "C1",
	})
	_, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Username: "C1", Password: "Dupont@1234", Role: account.RoleUser, ParticipantCEF: "C1",
	}, createDeps(accounts))
	if !errors.Is(err, ErrParticipantLinked) {
		t.Errorf("expected ErrParticipantLinked, got %v", err)
	}
}

func TestExecuteCreateAccount_UserNeedsParticipant(t *testing.T) {
	_, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Username: "u", Password: "Password1", Role: account.RoleUser,
	}, createDeps(newMockAccountStore()))
	if !errors.Is(err, account.ErrMissingParticipant) {
		t.Errorf("expected ErrMissingParticipant, got %v", err)
	}
}

func TestExecuteSeedAdmin(t *testing.T) {
	accounts := newMockAccountStore()
	deps := createDeps(accounts)
	input := SeedAdminInput{Username: "admin", Password: "ChangeMe!2024"}

	if err := ExecuteSeedAdmin(context.Background(), input, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts.byID) != 1 {
		t.Fatalf("expected a seeded admin, got %d accounts", len(accounts.byID))
	}

	// A second run must not touch the populated table.
	if err := ExecuteSeedAdmin(context.Background(), input, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts.byID) != 1 {
		t.Errorf("seed must be a no-op on a populated table, got %d accounts", len(accounts.byID))
	}
}

func TestExecuteDeleteAccount_LastAdmin(t *testing.T) {
	accounts := newMockAccountStore(account.Account{ID: "a1", Username: "admin", Role: account.RoleAdmin})
	err := ExecuteDeleteAccount(context.Background(), DeleteAccountInput{ID: "a1"},
		DeleteAccountDeps{AccountStore: accounts})
	if !errors.Is(err, ErrLastAdmin) {
		t.Fatalf("expected ErrLastAdmin, got %v", err)
	}
	if _, ok := accounts.byID["a1"]; !ok {
		t.Error("last admin must not be deleted")
	}
}

func TestExecuteDeleteAccount(t *testing.T) {
	accounts := newMockAccountStore(
		account.Account{ID: "a1", Username: "admin", Role: account.RoleAdmin},
		account.Account{ID: "a2", Username: "admin2", Role: account.RoleAdmin},
		account.Account{ID: "u1", Username: "C1", Role: account.RoleUser, ParticipantCEF: "C1"},
	)
	deps := DeleteAccountDeps{AccountStore: accounts}

	if err := ExecuteDeleteAccount(context.Background(), DeleteAccountInput{ID: "u1"}, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := accounts.byID["u1"]; ok {
		t.Error("user account not deleted")
	}
	// With a second admin present, deleting one admin is allowed.
	if err := ExecuteDeleteAccount(context.Background(), DeleteAccountInput{ID: "a2"}, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExecuteResetPassword(t *testing.T) {
	user := account.Account{ID: "u1", Username: "C1", Role: account.RoleUser, ParticipantCEF: "C1"}
	if err := user.SetPassword("SomethingElse1"); err != nil {
		t.Fatalf("hash: %v", err)
	}
	user.FailedLogins = 4
	accounts := newMockAccountStore(user)

	result, err := ExecuteResetPassword(context.Background(), ResetPasswordInput{AccountID: "u1"},
		ResetPasswordDeps{
			AccountStore: accounts,
			ParticipantStore: &mockParticipantLookup{byCEF: map[string]participant.Participant{
				"C1": {CEF: "C1", Nom: "Dupont Jean", Prenom: "Jean"},
			}},
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// "C1" carries a single digit; the provisioning rule still applies.
	if result.Password != "Dupont@1" {
		t.Errorf("unexpected reset password: %q", result.Password)
	}
	saved := accounts.byID["u1"]
	if saved.CheckPassword(result.Password) != nil {
		t.Error("account does not accept the reset password")
	}
	if saved.FailedLogins != 0 {
		t.Error("reset must clear the lockout state")
	}
}

func TestExecuteResetPassword_ShortDerivedPassword(t *testing.T) {
	user := account.Account{ID: "u1", Username: "C1", Role: account.RoleUser, ParticipantCEF: "C1"}
	if err := user.SetPassword("SomethingElse1"); err != nil {
		t.Fatalf("hash: %v", err)
	}
	accounts := newMockAccountStore(user)

	result, err := ExecuteResetPassword(context.Background(), ResetPasswordInput{AccountID: "u1"},
		ResetPasswordDeps{
			AccountStore: accounts,
			ParticipantStore: &mockParticipantLookup{byCEF: map[string]participant.Participant{
				"C1": {CEF: "C1", Nom: "Ng Wei", Prenom: "Wei"},
			}},
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Four characters: the derivation rule is exempt from the length floor.
	if result.Password != "Ng@1" {
		t.Errorf("unexpected reset password: %q", result.Password)
	}
	updated := accounts.byID["u1"]
	if updated.CheckPassword("Ng@1") != nil {
		t.Error("account does not accept the derived password")
	}
}

func TestExecuteResetPassword_NoParticipant(t *testing.T) {
	accounts := newMockAccountStore(account.Account{ID: "a1", Username: "admin", Role: account.RoleAdmin})
	_, err := ExecuteResetPassword(context.Background(), ResetPasswordInput{AccountID: "a1"},
		ResetPasswordDeps{
			AccountStore:     accounts,
			ParticipantStore: &mockParticipantLookup{},
		})
	if !errors.Is(err, ErrNoLinkedParticipant) {
		t.Errorf("expected ErrNoLinkedParticipant, got %v", err)
	}
}
