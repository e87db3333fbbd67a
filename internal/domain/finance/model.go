package finance

import "errors"

// ErrUnknownKind reports a payment kind outside the supported set.
var ErrUnknownKind = errors.New("unknown payment kind")

// Inscription status constants.
const (
	StatusPaid    = "Payé"
	StatusPending = "En attente"
)

// Payment action kinds.
const (
	KindMonthly     = "monthly"
	KindInscription = "inscription"
)

// Record is the financial state of one participant. Created lazily on the
// first payment; everything derivable (totals, balance) is recomputed on read
// and never stored.
type Record struct {
	InscriptionStatus  string
	InscriptionPayment float64
	MonthlyPayments    map[string]float64 // month value ("2024-09") -> amount
}

// NewRecord returns the default record used before any payment exists.
// POST: status pending, zero inscription payment, empty monthly map
func NewRecord() Record {
	return Record{
		InscriptionStatus: StatusPending,
		MonthlyPayments:   make(map[string]float64),
	}
}

// ApplyMonthly records a monthly tuition payment. A zero or negative amount
// removes the month's entry: absence of the key is the representation of
// "no payment", a stored zero never is.
// PRE: month is a month value like "2024-09"
// POST: MonthlyPayments[month] == amount when amount > 0, key absent otherwise
func (r *Record) ApplyMonthly(month string, amount float64) {
	if r.MonthlyPayments == nil {
		r.MonthlyPayments = make(map[string]float64)
	}
	if amount > 0 {
		r.MonthlyPayments[month] = amount
		return
	}
	delete(r.MonthlyPayments, month)
}

// ApplyInscription records the cumulative registration payment and derives
// the inscription status against the participant's registration fee.
// PRE: registrationFee is the participant's FraisInscription
// POST: status is StatusPaid iff amount >= registrationFee
func (r *Record) ApplyInscription(amount, registrationFee float64) {
	r.InscriptionPayment = amount
	if amount >= registrationFee {
		r.InscriptionStatus = StatusPaid
	} else {
		r.InscriptionStatus = StatusPending
	}
}

// TotalMonthly sums all recorded monthly payments.
// INVARIANT: Record fields are not mutated
func (r Record) TotalMonthly() float64 {
	var total float64
	for _, amount := range r.MonthlyPayments {
		total += amount
	}
	return total
}

// TotalPaid is the registration payment plus all monthly payments.
// INVARIANT: Record fields are not mutated
func (r Record) TotalPaid() float64 {
	return r.InscriptionPayment + r.TotalMonthly()
}

// Balance is the monthly total minus the tuition fee; negative while tuition
// remains due.
// PRE: tuitionFee is the participant's FraisFormation
func (r Record) Balance(tuitionFee float64) float64 {
	return r.TotalMonthly() - tuitionFee
}
