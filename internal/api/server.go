package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/staffgate/internal/audit"
	"github.com/nerrad567/staffgate/internal/auth"
	"github.com/nerrad567/staffgate/internal/events"
	"github.com/nerrad567/staffgate/internal/infrastructure/config"
	"github.com/nerrad567/staffgate/internal/infrastructure/logging"
	"github.com/nerrad567/staffgate/internal/profile"
	"github.com/nerrad567/staffgate/internal/telemetry"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// HealthChecker is implemented by every dependency reported on /health.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StatsProvider reports connection pool statistics. *sql.DB and
// *database.DB both satisfy it.
type StatsProvider interface {
	Stats() sql.DBStats
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	Logger   *logging.Logger
	Auth     *auth.Service
	Profiles profile.Repository

	// Optional.
	Audit     audit.Repository
	Telemetry telemetry.Recorder
	Events    events.Publisher
	Checks    map[string]HealthChecker // keyed by component name
	DBStats   StatsProvider
	Version   string
}

// Server is the HTTP API server.
//
// It is created with New() and started with Start().
type Server struct {
	cfg       config.APIConfig
	logger    *logging.Logger
	auth      *auth.Service
	profiles  profile.Repository
	auditRepo audit.Repository
	audit     *audit.Writer
	telemetry telemetry.Recorder
	events    events.Publisher
	checks    map[string]HealthChecker
	dbStats   StatsProvider
	version   string
	startTime time.Time
	server    *http.Server
	cancel    context.CancelFunc
}

// New creates a new API server with the given dependencies.
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("auth service is required")
	}
	if deps.Profiles == nil {
		return nil, fmt.Errorf("profile repository is required")
	}

	s := &Server{
		cfg:       deps.Config,
		logger:    deps.Logger,
		auth:      deps.Auth,
		profiles:  deps.Profiles,
		auditRepo: deps.Audit,
		telemetry: deps.Telemetry,
		events:    deps.Events,
		checks:    deps.Checks,
		dbStats:   deps.DBStats,
		version:   deps.Version,
		startTime: time.Now(),
	}
	if s.telemetry == nil {
		s.telemetry = telemetry.Nop()
	}
	if s.events == nil {
		s.events = events.Nop{}
	}
	if s.auditRepo != nil {
		s.audit = audit.NewWriter(s.auditRepo, s.logger.Logger, audit.DefaultBufferSize)
	}

	return s, nil
}

// Start starts the audit writer and launches the HTTP listener in a
// background goroutine. Stop it with Close().
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	if s.audit != nil {
		s.audit.Start(srvCtx)
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", s.server.Addr)
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close waits up to 10 seconds for in-flight requests, then flushes the
// audit queue.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	err := s.server.Shutdown(ctx)

	if s.cancel != nil {
		s.cancel()
	}
	s.audit.Stop()

	if err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck reports whether the server has been started.
func (s *Server) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("api health check: %w", err)
	}
	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	return nil
}
