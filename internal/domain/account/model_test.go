package account

import (
	"testing"
	"time"
)

func TestGeneratePassword(t *testing.T) {
	tests := []struct {
		name string
		nom  string
		cef  string
		want string
	}{
		{"compound family name keeps first token", "Dupont Jean", "P123456", "Dupont@1234"},
		{"plain name and numeric cef", "Martin", "10002", "Martin@1000"},
		{"digits scattered in cef", "Bernard", "A1B2C3D4E5", "Bernard@1234"},
		{"fewer than four digits", "Petit", "X12", "Petit@12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GeneratePassword(tt.nom, tt.cef); got != tt.want {
				t.Errorf("GeneratePassword(%q, %q) = %q, want %q", tt.nom, tt.cef, got, tt.want)
			}
		})
	}
}

func TestGeneratePassword_Deterministic(t *testing.T) {
	a := GeneratePassword("Dupont", "P123456")
	b := GeneratePassword("Dupont", "P123456")
	if a != b {
		t.Errorf("same inputs produced different passwords: %q vs %q", a, b)
	}
}

func TestSetAndCheckPassword(t *testing.T) {
	var a Account
	if err := a.SetPassword("Dupont@1234"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.PasswordHash == "Dupont@1234" {
		t.Error("password must be stored hashed")
	}
	if err := a.CheckPassword("Dupont@1234"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := a.CheckPassword("wrong"); err != ErrWrongPassword {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
}

func TestSetPassword_Validation(t *testing.T) {
	var a Account
	if err := a.SetPassword(""); err != ErrEmptyPassword {
		t.Errorf("expected ErrEmptyPassword, got %v", err)
	}
	if err := a.SetPassword("short"); err != ErrPasswordTooShort {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestSetProvisionedPassword(t *testing.T) {
	var a Account
	if err := a.SetProvisionedPassword(""); err != ErrEmptyPassword {
		t.Errorf("expected ErrEmptyPassword, got %v", err)
	}
	// Generated passwords can be short; only user-chosen ones carry the floor.
	if err := a.SetProvisionedPassword("Ng@1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.CheckPassword("Ng@1") != nil {
		t.Error("stored hash does not verify")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		account Account
		wantErr error
	}{
		{"valid admin", Account{Username: "admin", Role: RoleAdmin}, nil},
		{"valid user", Account{Username: "10001", Role: RoleUser, ParticipantCEF: "10001"}, nil},
		{"empty username", Account{Role: RoleAdmin}, ErrEmptyUsername},
		{"bad role", Account{Username: "x", Role: "root"}, ErrInvalidRole},
		{"user without participant", Account{Username: "10001", Role: RoleUser}, ErrMissingParticipant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.account.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLockout(t *testing.T) {
	var a Account
	for i := 0; i < 4; i++ {
		a.RecordFailedLogin()
	}
	if a.IsLocked() {
		t.Error("account locked before the fifth failure")
	}
	a.RecordFailedLogin()
	if !a.IsLocked() {
		t.Error("account not locked after five failures")
	}
	if a.LockedUntil.Before(time.Now().Add(14 * time.Minute)) {
		t.Error("lock window shorter than expected")
	}

	a.ResetFailedLogins()
	if a.IsLocked() || a.FailedLogins != 0 {
		t.Error("reset did not clear the lockout")
	}
}
