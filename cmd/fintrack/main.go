package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	database "github.com/fintrackhq/fintrack/db"
	"github.com/fintrackhq/fintrack/internal/alerts"
	"github.com/fintrackhq/fintrack/internal/assistant"
	"github.com/fintrackhq/fintrack/internal/identity"
	"github.com/fintrackhq/fintrack/internal/ledger/application"
	"github.com/fintrackhq/fintrack/internal/ledger/infrastructure"
	"github.com/fintrackhq/fintrack/internal/ledger/interfaces"
	"github.com/fintrackhq/fintrack/internal/readings"
	"github.com/fintrackhq/fintrack/internal/reminders"
	"github.com/fintrackhq/fintrack/internal/savings"
	"github.com/fintrackhq/fintrack/internal/tenant"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

type Response struct {
	Message string `json:"message"`
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("Started %s %s", r.Method, r.URL.Path)

		next.ServeHTTP(w, r)

		log.Printf("Completed %s in %v", r.URL.Path, time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string, errors ...[]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}
	if len(errors) > 0 && len(errors[0]) > 0 {
		payload["errors"] = errors[0]
	}
	respondJSON(w, status, payload)
}

type Server struct {
	router           *http.ServeMux
	authMiddleware   func(http.Handler) http.Handler
	dbService        *database.DBService
	sessionHandler   *interfaces.SessionHandler
	ledgerHandler    *interfaces.LedgerHandler
	savingsHandler   *savings.Handler
	remindersHandler *reminders.Handler
	readingsHandler  *readings.Handler
	alertsHandler    *alerts.Handler
	assistantHandler *assistant.Handler
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func checkConfiguration() error {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, continuing with system environment variables")
	}

	if os.Getenv("JWT_SECRET") == "" {
		return errors.New("no JWT_SECRET Provided")
	}
	return nil
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.dbService.Health())
}

func (s *Server) RegisterRoutes() {
	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))
	publicRoutes.Handle("GET /api/health", http.HandlerFunc(s.handleHealth))

	// Protected routes (using JWT Access Token Middleware)
	protectedRoutes := http.NewServeMux()

	// session lifecycle events feeding the bridge
	protectedRoutes.Handle("POST /api/protected/session/start",
		s.authMiddleware(http.HandlerFunc(s.sessionHandler.StartSession)))
	protectedRoutes.Handle("POST /api/protected/session/end",
		s.authMiddleware(http.HandlerFunc(s.sessionHandler.EndSession)))

	// LEDGER API
	protectedRoutes.Handle("GET /api/protected/ledger",
		s.authMiddleware(http.HandlerFunc(s.ledgerHandler.GetLedger)))
	protectedRoutes.Handle("GET /api/protected/ledger/summary",
		s.authMiddleware(http.HandlerFunc(s.ledgerHandler.GetSummary)))
	protectedRoutes.Handle("POST /api/protected/ledger/income",
		s.authMiddleware(http.HandlerFunc(s.ledgerHandler.AddIncome)))
	protectedRoutes.Handle("POST /api/protected/ledger/budgets",
		s.authMiddleware(http.HandlerFunc(s.ledgerHandler.AddBudget)))
	protectedRoutes.Handle("POST /api/protected/ledger/payments",
		s.authMiddleware(http.HandlerFunc(s.ledgerHandler.ProcessPayment)))
	protectedRoutes.Handle("POST /api/protected/ledger/transactions/refresh",
		s.authMiddleware(http.HandlerFunc(s.ledgerHandler.RefreshTransactions)))

	// SAVINGS GOALS API
	protectedRoutes.Handle("GET /api/protected/savings-goals",
		s.authMiddleware(http.HandlerFunc(s.savingsHandler.GetGoals)))
	protectedRoutes.Handle("POST /api/protected/savings-goals",
		s.authMiddleware(http.HandlerFunc(s.savingsHandler.CreateGoal)))
	protectedRoutes.Handle("POST /api/protected/savings-goals/{goalID}/contributions",
		s.authMiddleware(http.HandlerFunc(s.savingsHandler.AddContribution)))

	// REMINDERS API
	protectedRoutes.Handle("GET /api/protected/reminders",
		s.authMiddleware(http.HandlerFunc(s.remindersHandler.GetReminders)))
	protectedRoutes.Handle("POST /api/protected/reminders",
		s.authMiddleware(http.HandlerFunc(s.remindersHandler.CreateReminder)))
	protectedRoutes.Handle("POST /api/protected/reminders/{reminderID}/complete",
		s.authMiddleware(http.HandlerFunc(s.remindersHandler.CompleteReminder)))
	protectedRoutes.Handle("DELETE /api/protected/reminders/{reminderID}",
		s.authMiddleware(http.HandlerFunc(s.remindersHandler.DeleteReminder)))

	// READINGS API
	protectedRoutes.Handle("GET /api/protected/readings",
		s.authMiddleware(http.HandlerFunc(s.readingsHandler.GetReadings)))
	protectedRoutes.Handle("POST /api/protected/readings",
		s.authMiddleware(http.HandlerFunc(s.readingsHandler.CreateReading)))
	protectedRoutes.Handle("PUT /api/protected/readings/{readingID}",
		s.authMiddleware(http.HandlerFunc(s.readingsHandler.UpdateReading)))
	protectedRoutes.Handle("DELETE /api/protected/readings/{readingID}",
		s.authMiddleware(http.HandlerFunc(s.readingsHandler.DeleteReading)))

	// ALERTS API
	protectedRoutes.Handle("GET /api/protected/alerts",
		s.authMiddleware(http.HandlerFunc(s.alertsHandler.GetUnread)))
	protectedRoutes.Handle("POST /api/protected/alerts/{alertID}/read",
		s.authMiddleware(http.HandlerFunc(s.alertsHandler.MarkRead)))

	// ASSISTANT API
	if s.assistantHandler != nil {
		protectedRoutes.Handle("POST /api/protected/assistant",
			s.authMiddleware(http.HandlerFunc(s.assistantHandler.Ask)))
	}

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}

func main() {
	if err := checkConfiguration(); err != nil {
		log.Fatalf("Missing configuration, update to start server")
	}

	dbService, err := database.NewDBService()
	if err != nil {
		log.Fatalf("Could not initialize database: %v", err)
	}
	defer dbService.Close()

	budgetRepo := infrastructure.NewBudgetRepository(dbService.DB)
	incomeRepo := infrastructure.NewIncomeRepository(dbService.DB)
	transactionRepo := infrastructure.NewTransactionRepository(dbService.DB)
	scopeResolver := tenant.NewResolver(dbService.DB)

	bridge := application.NewSessionBridge(scopeResolver, budgetRepo, incomeRepo, transactionRepo)
	events := make(chan identity.Event, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bridge.Run(ctx, events)

	verifier := identity.NewJWTVerifier()
	authMiddleware := identity.AccessTokenMiddleware(verifier)

	sessionHandler := interfaces.NewSessionHandler(events, respondJSON, respondError)
	ledgerHandler := interfaces.NewLedgerHandler(
		func(userID string) (interfaces.LedgerService, bool) {
			state, ok := bridge.Ledger(userID)
			if !ok {
				return nil, false
			}
			return state, true
		},
		respondJSON,
		respondError,
	)

	goalRepo := savings.NewGoalRepository(dbService.DB)
	savingsHandler := savings.NewHandler(savings.NewService(goalRepo), scopeResolver, respondJSON, respondError)

	reminderRepo := reminders.NewReminderRepository(dbService.DB)
	remindersHandler := reminders.NewHandler(reminders.NewService(reminderRepo), respondJSON, respondError)

	readingRepo := readings.NewReadingRepository(dbService.DB)
	readingsHandler := readings.NewHandler(readings.NewService(readingRepo), scopeResolver, respondJSON, respondError)

	alertRepo := alerts.NewAlertRepository(dbService.DB)
	alertsHandler := alerts.NewHandler(alertRepo, scopeResolver, respondJSON, respondError)

	var assistantHandler *assistant.Handler
	if assistantURL := os.Getenv("ASSISTANT_API_URL"); assistantURL != "" {
		assistantHandler = assistant.NewHandler(assistant.NewClient(assistantURL), respondJSON, respondError)
	} else {
		log.Println("ASSISTANT_API_URL not set, assistant endpoint disabled")
	}

	server := &Server{
		authMiddleware:   authMiddleware,
		dbService:        dbService,
		sessionHandler:   sessionHandler,
		ledgerHandler:    ledgerHandler,
		savingsHandler:   savingsHandler,
		remindersHandler: remindersHandler,
		readingsHandler:  readingsHandler,
		alertsHandler:    alertsHandler,
		assistantHandler: assistantHandler,
	}
	server.RegisterRoutes()

	dueScanner := reminders.NewDueScanner(reminderRepo, scopeResolver, alertRepo)
	if err := StartDueScanScheduler(dueScanner); err != nil {
		log.Fatalf("Scheduler didn't start, stoping the app ...")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	handler := loggingMiddleware(http.HandlerFunc(server.router.ServeHTTP))
	log.Printf("Server starting on port %s...", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func StartDueScanScheduler(scanner *reminders.DueScanner) error {
	c := cron.New()
	// Daily morning scan --> 0 8 * * *
	_, err := c.AddFunc("0 8 * * *", func() {
		err := scanner.Scan(context.Background())
		if err != nil {
			log.Printf("Error scanning due reminders: %v", err)
		} else {
			log.Println("Due reminders scanned successfully.")
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	return nil
}
