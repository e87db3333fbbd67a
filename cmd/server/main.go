package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	_ "modernc.org/sqlite"

	emailPkg "suivi/internal/adapters/email"
	web "suivi/internal/adapters/http"
	"suivi/internal/adapters/storage"
	absenceStorePkg "suivi/internal/adapters/storage/absence"
	accountStorePkg "suivi/internal/adapters/storage/account"
	deletionStorePkg "suivi/internal/adapters/storage/deletion"
	financeStorePkg "suivi/internal/adapters/storage/finance"
	historyStorePkg "suivi/internal/adapters/storage/history"
	participantStorePkg "suivi/internal/adapters/storage/participant"
	trainingYearStorePkg "suivi/internal/adapters/storage/trainingyear"
	"suivi/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("SUIVI_DB", "suivi.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Health check
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	log.Println("Database initialized successfully!")

	acctStore := accountStorePkg.NewSQLiteStore(db)
	partStore := participantStorePkg.NewSQLiteStore(db)
	yearStore := trainingYearStorePkg.NewSQLiteStore(db)
	stores := &web.Stores{
		AccountStore:      acctStore,
		ParticipantStore:  partStore,
		AbsenceStore:      absenceStorePkg.NewSQLiteStore(db),
		HistoryStore:      historyStorePkg.NewSQLiteStore(db),
		FinanceStore:      financeStorePkg.NewSQLiteStore(db),
		TrainingYearStore: yearStore,
		DeletionStore:     deletionStorePkg.NewSQLiteStore(db),
	}

	// Seed default admin account if no accounts exist
	adminUser := envOrDefault("SUIVI_ADMIN_USER", "admin")
	adminPassword := envOrDefault("SUIVI_ADMIN_PASSWORD", "ChangeMe!2024")
	seedDeps := orchestrators.SeedDemoDeps{
		TrainingYearStore: yearStore,
		ParticipantStore:  partStore,
		AccountStore:      acctStore,
		ParticipantLookup: partStore,
	}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), orchestrators.SeedAdminInput{
		Username: adminUser,
		Password: adminPassword,
	}, orchestrators.CreateAccountDeps{AccountStore: acctStore, ParticipantStore: partStore}); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Seed the default set of selectable training years
	if err := orchestrators.ExecuteSeedTrainingYears(context.Background(), seedDeps); err != nil {
		log.Fatalf("failed to seed training years: %v", err)
	}

	// Seed a demo roster and login for development only
	if os.Getenv("SUIVI_ENV") != "production" {
		if err := orchestrators.ExecuteSeedDemo(context.Background(), seedDeps); err != nil {
			log.Fatalf("failed to seed demo data: %v", err)
		}
		log.Println("Demo seed data loaded (dev mode)")
	}

	// Configure email sender
	resendKey := os.Getenv("SUIVI_RESEND_KEY")
	emailFrom := envOrDefault("SUIVI_RESEND_FROM", "Suivi des Absences <noreply@example.org>")
	adminEmail := envOrDefault("SUIVI_ADMIN_EMAIL", "")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), adminEmail)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), adminEmail)
		if os.Getenv("SUIVI_ENV") == "production" {
			log.Println("WARNING: SUIVI_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set SUIVI_RESEND_KEY for real delivery)")
		}
	}

	// Create HTTP handler with middleware
	mux := web.NewMux("static", stores)

	// Start server
	addr := envOrDefault("SUIVI_ADDR", ":8080")
	log.Printf("Suivi %s starting on %s (env=%s)", version, addr, envOrDefault("SUIVI_ENV", "development"))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
