package orchestrators

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"suivi/internal/adapters/email"
	"suivi/internal/domain/account"
	"suivi/internal/domain/calendar"
	"suivi/internal/domain/participant"
)

// Import errors
var (
	ErrEmptyImport     = errors.New("import file contains no participant rows")
	ErrMissingColumn   = errors.New("import file is missing a mandatory column")
	ErrDuplicateCEF    = errors.New("import file contains a duplicate CEF")
	ErrMalformedImport = errors.New("import file is malformed")
)

// requiredColumns are the headers an import file must carry, in any order.
var requiredColumns = []string{
	"cef", "nom", "prenom", "groupe",
	"mhAnnuelleAffectee", "fraisInscription", "fraisFormation",
}

// ParticipantStoreForImport defines the participant store interface needed by ImportParticipants.
type ParticipantStoreForImport interface {
	ReplaceForYear(ctx context.Context, trainingYear string, roster []participant.Participant) error
}

// AccountStoreForImport defines the account store interface needed by ImportParticipants.
type AccountStoreForImport interface {
	ListLinkedCEFs(ctx context.Context) (map[string]bool, error)
	Save(ctx context.Context, entity account.Account) error
}

// ImportParticipantsInput carries the CSV payload and its target year.
type ImportParticipantsInput struct {
	TrainingYear string
	Reader       io.Reader
	AdminEmail   string // credential summary recipient, optional
}

// ImportParticipantsDeps holds dependencies for ImportParticipants.
type ImportParticipantsDeps struct {
	ParticipantStore ParticipantStoreForImport
	AccountStore     AccountStoreForImport
	EmailSender      email.Sender
	Now              func() time.Time
}

// ProvisionedCredential is one freshly created participant login.
type ProvisionedCredential struct {
	CEF      string
	FullName string
	Password string
}

// ImportParticipantsResult reports how the roster changed.
type ImportParticipantsResult struct {
	Imported    int
	Provisioned []ProvisionedCredential
}

// ExecuteImportParticipants replaces one training year's roster from a CSV
// file and provisions a login for every participant that has none. The
// whole file is rejected on the first structural problem; a partial import
// never happens. Passwords follow the deterministic provisioning rule and
// are returned in clear once, then only their hashes survive.
// PRE: Input.Reader yields a CSV file with a header row
// POST: the year's roster is replaced and accounts exist for every row, or
// nothing changed
func ExecuteImportParticipants(ctx context.Context, input ImportParticipantsInput, deps ImportParticipantsDeps) (ImportParticipantsResult, error) {
	if err := calendar.ValidateTrainingYear(input.TrainingYear); err != nil {
		return ImportParticipantsResult{}, err
	}

	roster, err := parseRoster(input.Reader, input.TrainingYear)
	if err != nil {
		return ImportParticipantsResult{}, err
	}
	if len(roster) == 0 {
		return ImportParticipantsResult{}, ErrEmptyImport
	}

	if err := deps.ParticipantStore.ReplaceForYear(ctx, input.TrainingYear, roster); err != nil {
		return ImportParticipantsResult{}, fmt.Errorf("import participants: %w", err)
	}

	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}

	linked, err := deps.AccountStore.ListLinkedCEFs(ctx)
	if err != nil {
		return ImportParticipantsResult{}, fmt.Errorf("import participants: %w", err)
	}

	var provisioned []ProvisionedCredential
	for _, p := range roster {
		if linked[p.CEF] {
			continue // existing login survives a re-import
		}
		password := account.GeneratePassword(p.Nom, p.CEF)
		acct := account.Account{
			ID:             uuid.NewString(),
			Username:       p.CEF,
			Role:           account.RoleUser,
			ParticipantCEF: p.CEF,
			CreatedAt:      now,
		}
		if err := acct.SetProvisionedPassword(password); err != nil {
			return ImportParticipantsResult{}, fmt.Errorf("import participants: hash password for %s: %w", p.CEF, err)
		}
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			return ImportParticipantsResult{}, fmt.Errorf("import participants: save account for %s: %w", p.CEF, err)
		}
		provisioned = append(provisioned, ProvisionedCredential{
			CEF:      p.CEF,
			FullName: p.FullName(),
			Password: password,
		})
	}

	if deps.EmailSender != nil && input.AdminEmail != "" && len(provisioned) > 0 {
		sendCredentialSummary(ctx, deps.EmailSender, input.AdminEmail, input.TrainingYear, provisioned)
	}

	slog.Info("participants_imported", "training_year", input.TrainingYear, "rows", len(roster), "provisioned", len(provisioned))
	return ImportParticipantsResult{Imported: len(roster), Provisioned: provisioned}, nil
}

// parseRoster reads and validates the whole CSV before anything is stored.
func parseRoster(r io.Reader, trainingYear string) ([]participant.Participant, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	var roster []participant.Participant
	seen := make(map[string]bool)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedImport, line, err)
		}
		field := func(name string) string {
			i := index[name]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		p := participant.Participant{
			CEF:                field("cef"),
			Nom:                field("nom"),
			Prenom:             field("prenom"),
			Groupe:             field("groupe"),
			TrainingYear:       trainingYear,
			MHAnnuelleAffectee: parseAmount(field("mhAnnuelleAffectee")),
			FraisInscription:   parseAmount(field("fraisInscription")),
			FraisFormation:     parseAmount(field("fraisFormation")),
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedImport, line, err)
		}
		if seen[p.CEF] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCEF, p.CEF)
		}
		seen[p.CEF] = true
		roster = append(roster, p)
	}
	return roster, nil
}

// parseAmount tolerates a decimal comma and defaults to zero on anything
// unparseable, matching how hand-edited spreadsheets arrive.
func parseAmount(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}

func sendCredentialSummary(ctx context.Context, sender email.Sender, to, trainingYear string, credentials []ProvisionedCredential) {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Import %s : %d compte(s) créé(s).</p><ul>", trainingYear, len(credentials))
	for _, c := range credentials {
		fmt.Fprintf(&b, "<li>%s (%s), mot de passe initial : %s</li>", c.FullName, c.CEF, c.Password)
	}
	b.WriteString("</ul><p>Chaque stagiaire doit changer son mot de passe à la première connexion.</p>")

	_, err := sender.Send(ctx, email.SendRequest{
		To:      []string{to},
		Subject: fmt.Sprintf("Comptes stagiaires %s", trainingYear),
		HTML:    b.String(),
	})
	if err != nil {
		slog.Error("credential_summary_failed", "to", to, "error", err)
	}
}
