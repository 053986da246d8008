// ABOUTME: Gateway orchestrator that wires store, router, and dispatcher into an HTTP server
// ABOUTME: Manages route registration, serving, and graceful shutdown lifecycle

package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iapetus-ai/intent-gateway/internal/config"
	"github.com/iapetus-ai/intent-gateway/internal/match"
	"github.com/iapetus-ai/intent-gateway/internal/notify"
	"github.com/iapetus-ai/intent-gateway/internal/router"
	"github.com/iapetus-ai/intent-gateway/internal/store"
)

// Gateway orchestrates the intent-gateway server components.
// The store handle is opened once and lives for the life of the process.
type Gateway struct {
	config     *config.Config
	store      store.Store
	router     *router.Router
	httpServer *http.Server
	logger     *slog.Logger
}

// initStore creates and returns a store based on config and environment.
func initStore(cfg *config.Config) (store.Store, error) {
	dbPath := cfg.Database.Path
	if envPath := os.Getenv("INTENT_GATEWAY_DB_PATH"); envPath != "" {
		dbPath = envPath
	}

	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}
	return s, nil
}

// resolveAPIKey returns the CRM credential from config or environment.
// The config value normally comes from ${CRM_API_KEY} expansion already;
// the direct env lookup covers deployments with no crm section at all.
func resolveAPIKey(cfg *config.Config) string {
	if cfg.CRM.APIKey != "" {
		return cfg.CRM.APIKey
	}
	return os.Getenv("CRM_API_KEY")
}

// New creates a new Gateway instance with the given configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Gateway, error) {
	s, err := initStore(cfg)
	if err != nil {
		return nil, err
	}

	dispatcher := notify.NewCRMDispatcher(resolveAPIKey(cfg), cfg.CRM.WebhookURL, logger)
	matcher := match.New(cfg.Fallback.MinScore)
	rt := router.New(s, dispatcher, matcher, router.Options{
		LeadCaptureSurfacesFailure: cfg.Router.LeadCaptureSurfacesFailure,
	}, logger)

	g := &Gateway{
		config: cfg,
		store:  s,
		router: rt,
		logger: logger.With("component", "gateway"),
	}

	mux := http.NewServeMux()

	// Platform webhook - the always-200 contract applies here only
	mux.HandleFunc("/webhook", g.handleWebhook)

	// Health endpoints
	mux.HandleFunc("/health", g.handleHealth)
	mux.HandleFunc("/health/ready", g.handleReady)

	// Operator API for the client-managed knowledge base and the audit log
	mux.HandleFunc("/api/knowledge", g.handleKnowledge)
	mux.HandleFunc("/api/knowledge/", g.handleKnowledgeByID)
	mux.HandleFunc("/api/audit", g.handleAuditList)

	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, promhttp.Handler())
		logger.Info("metrics endpoint enabled", "path", cfg.Metrics.Path)
	}

	g.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return g, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
// Returns nil on graceful shutdown, or an error if the server fails.
func (g *Gateway) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", g.config.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on HTTP address: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		g.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := g.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		g.logger.Info("context canceled, initiating shutdown")
	case serverErr = <-errCh:
		g.logger.Error("server error", "error", serverErr)
	}

	shutdownErr := g.gracefulShutdown()

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() intentionally since the original context is already canceled.
func (g *Gateway) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return g.Shutdown(ctx)
}

// Shutdown gracefully stops the HTTP server and releases resources.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.logger.Info("shutting down gateway")

	var errs []error
	if err := g.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
	}
	if err := g.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store close: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}

// handleHealth returns 200 OK if the server is alive.
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady returns 200 OK if the store answers a ping.
func (g *Gateway) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := g.store.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("store unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
