package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"suivi/internal/adapters/export"
	"suivi/internal/adapters/http/middleware"
	"suivi/internal/application/listutil"
	"suivi/internal/application/orchestrators"
	"suivi/internal/application/projections"
	accountDomain "suivi/internal/domain/account"
	"suivi/internal/domain/calendar"
	participantDomain "suivi/internal/domain/participant"
)

// timeNow is a variable for testability.
var timeNow = time.Now

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/login", handleLogin)
	mux.HandleFunc("/api/logout", handleLogout)
	mux.HandleFunc("/api/me", handleMe)
	mux.HandleFunc("/api/change-password", handleChangePassword)

	mux.HandleFunc("/api/years", handleYears)
	mux.HandleFunc("/api/calendar", handleCalendar)

	mux.HandleFunc("/api/participants", handleParticipants)
	mux.HandleFunc("/api/participants/export", handleParticipantsExport)
	mux.HandleFunc("/api/participants/import", handleParticipantsImport)

	mux.HandleFunc("/api/week", handleWeek)
	mux.HandleFunc("/api/absences", handleAbsences)
	mux.HandleFunc("/api/commit", handleCommit)
	mux.HandleFunc("/api/history", handleHistory)

	mux.HandleFunc("/api/statistics", handleStatistics)
	mux.HandleFunc("/api/receipt", handleReceipt)

	mux.HandleFunc("/api/finances", handleFinances)
	mux.HandleFunc("/api/finances/export", handleFinancesExport)
	mux.HandleFunc("/api/payments", handlePayments)

	mux.HandleFunc("/api/accounts", handleAccounts)
	mux.HandleFunc("/api/accounts/delete", handleAccountDelete)
	mux.HandleFunc("/api/accounts/reset-password", handleAccountResetPassword)
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details to callers.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requireAdmin blocks the request unless an admin session is present.
func requireAdmin(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return middleware.Session{}, false
	}
	if session.Role != accountDomain.RoleAdmin {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return middleware.Session{}, false
	}
	return session, true
}

// requireSession blocks unauthenticated requests but accepts any role.
func requireSession(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return middleware.Session{}, false
	}
	return session, true
}

// handleLogin handles POST /api/login.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Username: body.Username,
		Password: body.Password,
	}, orchestrators.LoginDeps{AccountStore: stores.AccountStore})
	if err != nil {
		if errors.Is(err, orchestrators.ErrAccountLocked) {
			http.Error(w, err.Error(), http.StatusTooManyRequests)
			return
		}
		if errors.Is(err, orchestrators.ErrInvalidCredentials) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		internalError(w, err)
		return
	}

	acct := result.Account
	token, err := sessions.Create(acct.ID, acct.Username, acct.Role, acct.ParticipantCEF)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]any{
		"username":       acct.Username,
		"role":           acct.Role,
		"participantCEF": acct.ParticipantCEF,
	})
}

// handleLogout handles POST /api/logout.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleMe handles GET /api/me: the current session's identity.
func handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"username":       session.Username,
		"role":           session.Role,
		"participantCEF": session.ParticipantCEF,
	})
}

// handleChangePassword handles POST /api/change-password.
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var body struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		AccountID:   session.AccountID,
		OldPassword: body.OldPassword,
		NewPassword: body.NewPassword,
	}, orchestrators.ChangePasswordDeps{AccountStore: stores.AccountStore})
	if err != nil {
		if errors.Is(err, accountDomain.ErrWrongPassword) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		if errors.Is(err, accountDomain.ErrPasswordTooShort) || errors.Is(err, accountDomain.ErrEmptyPassword) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleYears handles GET (list) and POST (add) and DELETE on /api/years.
func handleYears(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		if _, ok := requireSession(w, r); !ok {
			return
		}
		years, err := stores.TrainingYearStore.List(r.Context())
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"years": years})

	case "POST":
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		var body struct {
			Year string `json:"year"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		err := orchestrators.ExecuteAddTrainingYear(r.Context(), orchestrators.AddTrainingYearInput{
			Year: body.Year,
		}, orchestrators.AddTrainingYearDeps{TrainingYearStore: stores.TrainingYearStore})
		if err != nil {
			if errors.Is(err, calendar.ErrInvalidTrainingYear) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if errors.Is(err, orchestrators.ErrYearExists) {
				http.Error(w, err.Error(), http.StatusConflict)
				return
			}
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)

	case "DELETE":
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		year := r.URL.Query().Get("year")
		result, err := orchestrators.ExecuteDeleteTrainingYear(r.Context(), orchestrators.DeleteTrainingYearInput{
			Year: year,
		}, orchestrators.DeleteTrainingYearDeps{DeletionStore: stores.DeletionStore})
		if err != nil {
			if errors.Is(err, calendar.ErrInvalidTrainingYear) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"participantsRemoved": len(result.RemovedCEFs)})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleCalendar handles GET /api/calendar?year=: the months of a training
// year with their weeks, ready for the attendance grid.
func handleCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}
	year := r.URL.Query().Get("year")
	if err := calendar.ValidateTrainingYear(year); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	type weekJSON struct {
		Index int      `json:"index"`
		Label string   `json:"label"`
		Dates []string `json:"dates"`
	}
	type monthJSON struct {
		Value string     `json:"value"`
		Label string     `json:"label"`
		Weeks []weekJSON `json:"weeks"`
	}

	var months []monthJSON
	for _, m := range calendar.MonthsForTrainingYear(year) {
		mj := monthJSON{Value: m.Value, Label: m.Label}
		for i, week := range calendar.WeeksForMonth(m.Value) {
			mj.Weeks = append(mj.Weeks, weekJSON{Index: i, Label: calendar.WeekLabel(week), Dates: week})
		}
		months = append(months, mj)
	}
	writeJSON(w, http.StatusOK, map[string]any{"trainingYear": year, "months": months})
}

// handleParticipants handles GET /api/participants?year=&group=.
// Admins see the whole roster; a user session is narrowed to its own record.
func handleParticipants(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	if session.Role != accountDomain.RoleAdmin {
		p, err := stores.ParticipantStore.GetByCEF(r.Context(), session.ParticipantCEF)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"participants": []participantDomain.Participant{p}})
		return
	}

	year := r.URL.Query().Get("year")
	roster, err := stores.ParticipantStore.ListByYear(r.Context(), year)
	if err != nil {
		internalError(w, err)
		return
	}
	if group := r.URL.Query().Get("group"); group != "" && group != "all" {
		roster = participantDomain.FilterByGroup(roster, group)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"participants": roster,
		"groups":       participantDomain.Groups(roster),
	})
}

// handleParticipantsExport handles GET /api/participants/export?year=: the
// roster as a CSV in the import file shape.
func handleParticipantsExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	year := r.URL.Query().Get("year")
	roster, err := stores.ParticipantStore.ListByYear(r.Context(), year)
	if err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"stagiaires-%s.csv\"", year))
	if err := export.WriteRosterCSV(w, roster); err != nil {
		slog.Error("roster_export_failed", "error", err.Error())
	}
}

// handleParticipantsImport handles POST /api/participants/import?year=.
// The body is the CSV file; multipart uploads use the "file" field.
func handleParticipantsImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	reader := r.Body
	if f, _, err := r.FormFile("file"); err == nil {
		defer f.Close()
		reader = f
	}

	result, err := orchestrators.ExecuteImportParticipants(r.Context(), orchestrators.ImportParticipantsInput{
		TrainingYear: r.URL.Query().Get("year"),
		Reader:       reader,
		AdminEmail:   adminEmailAddress,
	}, orchestrators.ImportParticipantsDeps{
		ParticipantStore: stores.ParticipantStore,
		AccountStore:     stores.AccountStore,
		EmailSender:      emailSender,
		Now:              timeNow,
	})
	if err != nil {
		if errors.Is(err, calendar.ErrInvalidTrainingYear) ||
			errors.Is(err, orchestrators.ErrEmptyImport) ||
			errors.Is(err, orchestrators.ErrMissingColumn) ||
			errors.Is(err, orchestrators.ErrDuplicateCEF) ||
			errors.Is(err, orchestrators.ErrMalformedImport) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"imported":    result.Imported,
		"provisioned": result.Provisioned,
	})
}

// handleWeek handles GET /api/week?year=&month=&week=&group=: the live
// attendance grid of one week.
func handleWeek(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	q := r.URL.Query()
	weekIndex, _ := strconv.Atoi(q.Get("week"))
	result, err := projections.QueryGetWeekSnapshot(r.Context(), projections.GetWeekSnapshotQuery{
		TrainingYear: q.Get("year"),
		MonthValue:   q.Get("month"),
		WeekIndex:    weekIndex,
		Group:        q.Get("group"),
	}, projections.GetWeekSnapshotDeps{
		ParticipantStore: stores.ParticipantStore,
		AbsenceStore:     stores.AbsenceStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleAbsences handles POST /api/absences: one ledger flag.
func handleAbsences(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	var body struct {
		CEF    string `json:"cef"`
		Date   string `json:"date"`
		Absent bool   `json:"absent"`
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	err := orchestrators.ExecuteRecordAbsence(r.Context(), orchestrators.RecordAbsenceInput{
		CEF:    body.CEF,
		Date:   body.Date,
		Absent: body.Absent,
	}, orchestrators.RecordAbsenceDeps{AbsenceStore: stores.AbsenceStore})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCommit handles POST /api/commit: aggregate one week into history.
func handleCommit(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	var body struct {
		TrainingYear string `json:"trainingYear"`
		Month        string `json:"month"`
		WeekIndex    int    `json:"weekIndex"`
		Group        string `json:"group"`
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	result, err := orchestrators.ExecuteCommitWeek(r.Context(), orchestrators.CommitWeekInput{
		TrainingYear: body.TrainingYear,
		MonthValue:   body.Month,
		WeekIndex:    body.WeekIndex,
		Group:        body.Group,
	}, orchestrators.CommitWeekDeps{
		ParticipantStore: stores.ParticipantStore,
		AbsenceStore:     stores.AbsenceStore,
		HistoryStore:     stores.HistoryStore,
		Now:              timeNow,
	})
	if err != nil {
		if errors.Is(err, calendar.ErrInvalidTrainingYear) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entryIDs": result.EntryIDs})
}

// handleHistory handles GET /api/history?year=&group=&page=&per_page=.
// A user session only sees entries mentioning its own participant.
func handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	query := projections.GetHistoryQuery{
		TrainingYear: q.Get("year"),
		Group:        q.Get("group"),
	}
	if session.Role != accountDomain.RoleAdmin {
		query.ForCEF = session.ParticipantCEF
	}
	result, err := projections.QueryGetHistory(r.Context(), query, projections.GetHistoryDeps{
		HistoryStore: stores.HistoryStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	params := listutil.ParsePageParams(q)
	info := listutil.NewPageInfo(params.Page, params.PerPage, len(result.Items))
	start, end := info.Slice()
	writeJSON(w, http.StatusOK, map[string]any{
		"items":      result.Items[start:end],
		"page":       info.Page,
		"perPage":    info.PerPage,
		"total":      info.Total,
		"totalPages": info.TotalPages,
	})
}

// handleStatistics handles GET /api/statistics?year=&group=.
// A user session gets only its own line of the per-participant table.
func handleStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	result, err := projections.QueryGetStatistics(r.Context(), projections.GetStatisticsQuery{
		TrainingYear: q.Get("year"),
		Group:        q.Get("group"),
	}, projections.GetStatisticsDeps{
		ParticipantStore: stores.ParticipantStore,
		AbsenceStore:     stores.AbsenceStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	if session.Role != accountDomain.RoleAdmin {
		var own []projections.ParticipantStats
		for _, stats := range result.Participants {
			if stats.CEF == session.ParticipantCEF {
				own = append(own, stats)
				break
			}
		}
		result.Participants = own
	}
	writeJSON(w, http.StatusOK, result)
}

// handleReceipt handles GET /api/receipt?cef=&from=&to=.
// A user session may only request its own receipt.
func handleReceipt(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	cef := q.Get("cef")
	if session.Role != accountDomain.RoleAdmin {
		cef = session.ParticipantCEF
	}
	result, err := projections.QueryGetReceipt(r.Context(), projections.GetReceiptQuery{
		CEF:      cef,
		FromDate: q.Get("from"),
		ToDate:   q.Get("to"),
	}, projections.GetReceiptDeps{
		ParticipantStore: stores.ParticipantStore,
		AbsenceStore:     stores.AbsenceStore,
	})
	if err != nil {
		if errors.Is(err, participantDomain.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleFinances handles GET /api/finances?year=&group=.
func handleFinances(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	result, err := projections.QueryGetFinancialReport(r.Context(), projections.GetFinancialReportQuery{
		TrainingYear: q.Get("year"),
		Group:        q.Get("group"),
	}, projections.GetFinancialReportDeps{
		ParticipantStore: stores.ParticipantStore,
		FinanceStore:     stores.FinanceStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	if session.Role != accountDomain.RoleAdmin {
		var own []projections.FinancialLine
		for _, line := range result.Lines {
			if line.CEF == session.ParticipantCEF {
				own = append(own, line)
				break
			}
		}
		result = projections.GetFinancialReportResult{Lines: own}
		for _, line := range own {
			result.TotalPaid += line.TotalPaid
			result.TotalBalance += line.Balance
		}
	}
	writeJSON(w, http.StatusOK, result)
}

// handleFinancesExport handles GET /api/finances/export?year=&group=: the
// financial report as a spreadsheet-friendly CSV.
func handleFinancesExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	q := r.URL.Query()
	year := q.Get("year")
	result, err := projections.QueryGetFinancialReport(r.Context(), projections.GetFinancialReportQuery{
		TrainingYear: year,
		Group:        q.Get("group"),
	}, projections.GetFinancialReportDeps{
		ParticipantStore: stores.ParticipantStore,
		FinanceStore:     stores.FinanceStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"bilan-financier-%s.csv\"", year))
	if err := export.WriteFinancialReportCSV(w, year, result); err != nil {
		slog.Error("financial_export_failed", "error", err.Error())
	}
}

// handlePayments handles POST /api/payments: one financial mutation.
func handlePayments(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	var body struct {
		CEF    string  `json:"cef"`
		Kind   string  `json:"kind"`
		Month  string  `json:"month"`
		Amount float64 `json:"amount"`
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	err := orchestrators.ExecuteRecordPayment(r.Context(), orchestrators.RecordPaymentInput{
		CEF:        body.CEF,
		Kind:       body.Kind,
		MonthValue: body.Month,
		Amount:     body.Amount,
	}, orchestrators.RecordPaymentDeps{
		ParticipantStore: stores.ParticipantStore,
		FinanceStore:     stores.FinanceStore,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAccounts handles GET (list) and POST (create) on /api/accounts.
func handleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		all, err := stores.AccountStore.List(r.Context())
		if err != nil {
			internalError(w, err)
			return
		}
		type accountJSON struct {
			ID             string    `json:"id"`
			Username       string    `json:"username"`
			Role           string    `json:"role"`
			ParticipantCEF string    `json:"participantCEF,omitempty"`
			CreatedAt      time.Time `json:"createdAt"`
			Locked         bool      `json:"locked"`
		}
		out := make([]accountJSON, 0, len(all))
		for _, a := range all {
			out = append(out, accountJSON{
				ID:             a.ID,
				Username:       a.Username,
				Role:           a.Role,
				ParticipantCEF: a.ParticipantCEF,
				CreatedAt:      a.CreatedAt,
				Locked:         a.IsLocked(),
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"accounts": out})

	case "POST":
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		var body struct {
			Username       string `json:"username"`
			Password       string `json:"password"`
			Role           string `json:"role"`
			ParticipantCEF string `json:"participantCEF"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		result, err := orchestrators.ExecuteCreateAccount(r.Context(), orchestrators.CreateAccountInput{
			Username:       body.Username,
			Password:       body.Password,
			Role:           body.Role,
			ParticipantCEF: body.ParticipantCEF,
		}, orchestrators.CreateAccountDeps{
			AccountStore:     stores.AccountStore,
			ParticipantStore: stores.ParticipantStore,
			Now:              timeNow,
		})
		if err != nil {
			if errors.Is(err, orchestrators.ErrUsernameTaken) || errors.Is(err, orchestrators.ErrParticipantLinked) {
				http.Error(w, err.Error(), http.StatusConflict)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"id":       result.Account.ID,
			"username": result.Account.Username,
			"role":     result.Account.Role,
		})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleAccountDelete handles POST /api/accounts/delete.
func handleAccountDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	var body struct {
		ID string `json:"id"`
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	err := orchestrators.ExecuteDeleteAccount(r.Context(), orchestrators.DeleteAccountInput{
		ID: body.ID,
	}, orchestrators.DeleteAccountDeps{AccountStore: stores.AccountStore})
	if err != nil {
		if errors.Is(err, orchestrators.ErrLastAdmin) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		internalError(w, err)
		return
	}
	sessions.DeleteByAccountID(body.ID)
	w.WriteHeader(http.StatusNoContent)
}

// handleAccountResetPassword handles POST /api/accounts/reset-password.
// Returns the regenerated provisioning password so the admin can hand it over.
func handleAccountResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	var body struct {
		ID string `json:"id"`
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	result, err := orchestrators.ExecuteResetPassword(r.Context(), orchestrators.ResetPasswordInput{
		AccountID: body.ID,
	}, orchestrators.ResetPasswordDeps{
		AccountStore:     stores.AccountStore,
		ParticipantStore: stores.ParticipantStore,
	})
	if err != nil {
		if errors.Is(err, orchestrators.ErrNoLinkedParticipant) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"password": result.Password})
}
