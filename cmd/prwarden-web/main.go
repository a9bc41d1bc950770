// Package main is the prwarden webhook server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/go-github/v60/github"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/prwarden/prwarden-bot/internal/core/config"
	"github.com/prwarden/prwarden-bot/internal/core/hook"
	ghclient "github.com/prwarden/prwarden-bot/internal/integrations/github"
	"github.com/prwarden/prwarden-bot/internal/integrations/notify"
	"github.com/prwarden/prwarden-bot/internal/integrations/tracker"
	"github.com/prwarden/prwarden-bot/internal/rules"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	secret := os.Getenv("WEBHOOK_SECRET")
	if secret == "" {
		log.Fatal("WEBHOOK_SECRET environment variable is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	cfg := loadConfig()
	deps, err := initDependencies(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize dependencies: %v", err)
	}

	hookRouter := hook.NewRouter()
	rules.RegisterAll(hookRouter)

	handler := &webhookHandler{
		secret: []byte(secret),
		router: hookRouter,
		deps:   deps,
	}

	// Setup HTTP router
	router := mux.NewRouter()
	router.HandleFunc("/webhook", handler.handle).Methods("POST")
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			log.Printf("Failed to write health response: %v", err)
		}
	}).Methods("GET")

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("prwarden webhook server starting on port %s (dry-run=%v)", port, deps.DryRun)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// loadConfig discovers and loads the bot configuration, falling back to
// defaults when no file is present.
func loadConfig() *config.Config {
	path := config.FindConfigPath(os.Getenv("PRWARDEN_CONFIG"))
	if path == "" {
		log.Println("No configuration file found, using defaults")
		return config.Default()
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config from %s: %v", path, err)
	}
	log.Printf("Loaded config from %s", path)
	return cfg
}

// initDependencies builds the dependency container from config and env.
func initDependencies(cfg *config.Config) (*hook.Dependencies, error) {
	deps := &hook.Dependencies{
		Config: cfg,
		DryRun: os.Getenv("DRY_RUN") == "true" || os.Getenv("DRY_RUN") == "1",
	}

	host, err := newHostClient()
	if err != nil {
		return nil, err
	}
	deps.Host = host

	if cfg.Tracker.URL != "" {
		trackerClient, err := tracker.New(cfg.Tracker.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to init tracker client: %w", err)
		}
		deps.Tracker = trackerClient
	} else {
		log.Println("Tracker URL missing - running without reviewer assignment")
	}

	deps.Notifier = notify.New(cfg.Notify.TeamWebhookURL, cfg.Notify.DebugWebhookURL)

	return deps, nil
}

// newHostClient prefers GitHub App installation auth (required for the
// Checks API) and falls back to a personal access token.
func newHostClient() (*ghclient.Client, error) {
	appID := os.Getenv("GITHUB_APP_ID")
	installID := os.Getenv("GITHUB_INSTALLATION_ID")
	keyPath := os.Getenv("GITHUB_PRIVATE_KEY")

	if appID != "" && installID != "" && keyPath != "" {
		app, err := strconv.ParseInt(appID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid GITHUB_APP_ID: %w", err)
		}
		install, err := strconv.ParseInt(installID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid GITHUB_INSTALLATION_ID: %w", err)
		}
		log.Println("Authenticating as GitHub App installation")
		return ghclient.NewAppClient(app, install, keyPath)
	}

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("either GITHUB_TOKEN or GITHUB_APP_ID/GITHUB_INSTALLATION_ID/GITHUB_PRIVATE_KEY is required")
	}
	return ghclient.NewClient(context.Background(), token), nil
}

// webhookHandler validates, parses and dispatches webhook deliveries.
type webhookHandler struct {
	secret []byte
	router *hook.Router
	deps   *hook.Dependencies
}

func (h *webhookHandler) handle(w http.ResponseWriter, r *http.Request) {
	delivery := github.DeliveryID(r)
	if delivery == "" {
		delivery = uuid.NewString()
	}

	payload, err := github.ValidatePayload(r, h.secret)
	if err != nil {
		log.Printf("[webhook] Rejected delivery %s: %v", delivery, err)
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	eventType := github.WebHookType(r)
	parsed, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		log.Printf("[webhook] Failed to parse delivery %s (%s): %v", delivery, eventType, err)
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	switch ev := parsed.(type) {
	case *github.PingEvent:
		log.Printf("[webhook] Received ping, webhook setup successful")
		w.WriteHeader(http.StatusOK)
		return
	case *github.PullRequestEvent:
		evt, ok := hook.FromGitHub(ev)
		if !ok {
			log.Printf("[webhook] Ignoring pull_request action %q (delivery %s)", ev.GetAction(), delivery)
			w.WriteHeader(http.StatusOK)
			return
		}
		log.Printf("[webhook] Delivery %s: %s for PR #%d", delivery, evt.Action, evt.PR.Number)
		// Deliveries are handled concurrently; handlers share no state.
		go h.router.Dispatch(context.Background(), h.deps, evt)
		w.WriteHeader(http.StatusAccepted)
		return
	default:
		log.Printf("[webhook] Ignoring event type %q (delivery %s)", eventType, delivery)
		w.WriteHeader(http.StatusOK)
	}
}
