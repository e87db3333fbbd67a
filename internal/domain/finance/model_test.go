package finance

import "testing"

func TestNewRecord(t *testing.T) {
	r := NewRecord()
	if r.InscriptionStatus != StatusPending {
		t.Errorf("expected pending status, got %q", r.InscriptionStatus)
	}
	if r.InscriptionPayment != 0 {
		t.Errorf("expected zero inscription payment, got %v", r.InscriptionPayment)
	}
	if len(r.MonthlyPayments) != 0 {
		t.Errorf("expected empty monthly map, got %v", r.MonthlyPayments)
	}
}

func TestApplyMonthly(t *testing.T) {
	r := NewRecord()
	r.ApplyMonthly("2024-09", 200)
	if r.MonthlyPayments["2024-09"] != 200 {
		t.Errorf("expected 200 for 2024-09, got %v", r.MonthlyPayments["2024-09"])
	}

	// Overwrite replaces, never accumulates.
	r.ApplyMonthly("2024-09", 150)
	if r.MonthlyPayments["2024-09"] != 150 {
		t.Errorf("expected overwrite to 150, got %v", r.MonthlyPayments["2024-09"])
	}

	// Zero removes the key entirely.
	r.ApplyMonthly("2024-09", 0)
	if _, ok := r.MonthlyPayments["2024-09"]; ok {
		t.Error("expected month removed after zero amount")
	}

	// Negative behaves like zero.
	r.ApplyMonthly("2024-10", 100)
	r.ApplyMonthly("2024-10", -5)
	if _, ok := r.MonthlyPayments["2024-10"]; ok {
		t.Error("expected month removed after negative amount")
	}
}

func TestApplyMonthly_NilMap(t *testing.T) {
	var r Record
	r.ApplyMonthly("2024-09", 100)
	if r.MonthlyPayments["2024-09"] != 100 {
		t.Errorf("expected lazy map creation, got %v", r.MonthlyPayments)
	}
}

func TestApplyInscription(t *testing.T) {
	r := NewRecord()
	r.ApplyInscription(100, 150)
	if r.InscriptionStatus != StatusPending {
		t.Errorf("partial payment should stay pending, got %q", r.InscriptionStatus)
	}
	r.ApplyInscription(150, 150)
	if r.InscriptionStatus != StatusPaid {
		t.Errorf("full payment should be paid, got %q", r.InscriptionStatus)
	}
	// A later smaller amount reverts the status.
	r.ApplyInscription(50, 150)
	if r.InscriptionStatus != StatusPending {
		t.Errorf("reduced payment should revert to pending, got %q", r.InscriptionStatus)
	}
}

func TestTotalsAndBalance(t *testing.T) {
	r := NewRecord()
	r.ApplyInscription(150, 150)
	r.ApplyMonthly("2024-09", 200)
	r.ApplyMonthly("2024-10", 200)

	if got := r.TotalMonthly(); got != 400 {
		t.Errorf("TotalMonthly() = %v, want 400", got)
	}
	if got := r.TotalPaid(); got != 550 {
		t.Errorf("TotalPaid() = %v, want 550", got)
	}
	// Balance ignores the inscription payment.
	if got := r.Balance(2400); got != -2000 {
		t.Errorf("Balance() = %v, want -2000", got)
	}
}
