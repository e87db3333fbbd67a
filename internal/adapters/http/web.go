package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"suivi/internal/adapters/email"
	"suivi/internal/adapters/http/middleware"
	absenceStore "suivi/internal/adapters/storage/absence"
	accountStore "suivi/internal/adapters/storage/account"
	deletionStore "suivi/internal/adapters/storage/deletion"
	financeStore "suivi/internal/adapters/storage/finance"
	historyStore "suivi/internal/adapters/storage/history"
	participantStore "suivi/internal/adapters/storage/participant"
	trainingYearStore "suivi/internal/adapters/storage/trainingyear"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore      accountStore.Store
	ParticipantStore  participantStore.Store
	AbsenceStore      absenceStore.Store
	HistoryStore      historyStore.Store
	FinanceStore      financeStore.Store
	TrainingYearStore trainingYearStore.Store
	DeletionStore     deletionStore.Store
}

// loadCSRFKey reads the CSRF secret from SUIVI_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("SUIVI_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("SUIVI_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("SUIVI_ENV") == "production" {
		log.Fatal("SUIVI_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set SUIVI_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Import summary recipient
var adminEmailAddress string

// SetEmailSender sets the global email sender for the application. The
// sender carries its own from-address.
func SetEmailSender(sender email.Sender, adminEmail string) {
	emailSender = sender
	adminEmailAddress = adminEmail
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores) http.Handler {
	stores = s
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("SUIVI_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: SecurityHeaders -> CSRF -> Auth -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
	)
}
