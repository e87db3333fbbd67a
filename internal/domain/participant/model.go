package participant

import (
	"errors"
	"sort"
	"strings"

	"suivi/internal/domain/calendar"
)

// Max length constants for imported fields.
const (
	MaxNameLength  = 100
	MaxGroupLength = 50
)

// Domain errors
var (
	ErrEmptyCEF   = errors.New("participant CEF cannot be empty")
	ErrEmptyNom   = errors.New("participant nom cannot be empty")
	ErrEmptyGroup = errors.New("participant groupe cannot be empty")
	ErrNotFound   = errors.New("participant not found")
)

// Participant is one trainee of a training year. CEF is the immutable
// business key; a participant belongs to exactly one group within one
// training year.
type Participant struct {
	CEF                string
	Nom                string
	Prenom             string
	Groupe             string
	TrainingYear       string
	MHAnnuelleAffectee float64 // annual allotted hours
	FraisInscription   float64 // registration fee
	FraisFormation     float64 // tuition fee
}

// Validate checks if the Participant has valid data.
// PRE: Participant struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (p *Participant) Validate() error {
	if strings.TrimSpace(p.CEF) == "" {
		return ErrEmptyCEF
	}
	if strings.TrimSpace(p.Nom) == "" {
		return ErrEmptyNom
	}
	if len(p.Nom) > MaxNameLength || len(p.Prenom) > MaxNameLength {
		return errors.New("participant name cannot exceed 100 characters")
	}
	if strings.TrimSpace(p.Groupe) == "" {
		return ErrEmptyGroup
	}
	if len(p.Groupe) > MaxGroupLength {
		return errors.New("participant groupe cannot exceed 50 characters")
	}
	return calendar.ValidateTrainingYear(p.TrainingYear)
}

// FullName returns the display name, family name first.
// INVARIANT: Participant fields are not mutated
func (p *Participant) FullName() string {
	return strings.TrimSpace(p.Nom + " " + p.Prenom)
}

// Groups returns the distinct group identifiers present in a roster, sorted.
// POST: empty group identifiers are omitted
func Groups(roster []Participant) []string {
	seen := make(map[string]bool, len(roster))
	var groups []string
	for _, p := range roster {
		if p.Groupe == "" || seen[p.Groupe] {
			continue
		}
		seen[p.Groupe] = true
		groups = append(groups, p.Groupe)
	}
	sort.Strings(groups)
	return groups
}

// FilterByGroup returns the roster members belonging to the group.
// INVARIANT: the input slice is not mutated
func FilterByGroup(roster []Participant, group string) []Participant {
	var out []Participant
	for _, p := range roster {
		if p.Groupe == group {
			out = append(out, p)
		}
	}
	return out
}
