// Package httpapi exposes the activity workflows as a JSON HTTP service.
//
// The caller is identified by the X-EcoQuest-User header, which is trusted as
// a local identity; there is no authentication.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/ecoquest/internal/activity"
	"github.com/rshade/ecoquest/internal/logging"
)

// Request headers.
const (
	HeaderUser     = "X-EcoQuest-User"
	HeaderEmail    = "X-EcoQuest-Email"
	HeaderUsername = "X-EcoQuest-Username"
	HeaderRole     = "X-EcoQuest-Role"
	HeaderTraceID  = "X-Trace-Id"

	roleAdmin    = "admin"
	maxBodyBytes = 1 << 20
)

// Options configures a Server.
type Options struct {
	Logger zerolog.Logger
	Audit  logging.AuditLogger
}

// Server serves the HTTP API.
type Server struct {
	svc    *activity.Service
	logger zerolog.Logger
	audit  logging.AuditLogger
}

// NewServer returns a Server for svc.
func NewServer(svc *activity.Service, opts Options) *Server {
	audit := opts.Audit
	if audit == nil {
		audit = logging.NewAuditLogger(logging.AuditLoggerConfig{})
	}
	return &Server{
		svc:    svc,
		logger: logging.ComponentLogger(opts.Logger, "httpapi"),
		audit:  audit,
	}
}

// Routes returns the handler with every endpoint and middleware attached.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/categories", s.handleCategories)
	mux.HandleFunc("/v1/calculate", s.handleCalculate)
	mux.HandleFunc("/v1/activities", s.handleActivities)
	mux.HandleFunc("/v1/activities/{id}", s.handleActivity)
	mux.HandleFunc("/v1/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("/v1/garden", s.handleGarden)
	mux.HandleFunc("/v1/summary", s.handleSummary)
	mux.HandleFunc("/v1/insights", s.handleInsights)
	mux.HandleFunc("/v1/dashboard", s.handleDashboard)
	mux.HandleFunc("/v1/settings/target", s.handleTarget)
	mux.HandleFunc("/v1/admin/stats", s.handleAdminStats)
	mux.HandleFunc("/", s.handleNotFound)

	return s.withRecover(s.withTrace(mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		const shutdownGrace = 5 * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownGrace)
		defer cancel()
		s.logger.Info().Msg("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}
