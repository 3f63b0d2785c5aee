// staffgate - account registration, session tokens and employee profiles.
//
// This is the main entry point for the staffgate service. It loads
// configuration, opens and migrates the SQLite store, connects the optional
// telemetry (InfluxDB) and event (MQTT) sinks, and serves the HTTP API
// until SIGINT or SIGTERM.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nerrad567/staffgate/migrations"

	"github.com/nerrad567/staffgate/internal/api"
	"github.com/nerrad567/staffgate/internal/audit"
	"github.com/nerrad567/staffgate/internal/auth"
	"github.com/nerrad567/staffgate/internal/events"
	"github.com/nerrad567/staffgate/internal/infrastructure/config"
	"github.com/nerrad567/staffgate/internal/infrastructure/database"
	"github.com/nerrad567/staffgate/internal/infrastructure/influxdb"
	"github.com/nerrad567/staffgate/internal/infrastructure/logging"
	"github.com/nerrad567/staffgate/internal/infrastructure/mqtt"
	"github.com/nerrad567/staffgate/internal/profile"
	"github.com/nerrad567/staffgate/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path. It is only read when present.
const defaultConfigPath = "configs/config.yaml"

// ephemeralSecretBytes is the size of the dev-mode signing secret.
const ephemeralSecretBytes = 32

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
// It returns nil on clean shutdown.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting staffgate",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if configPath == "" {
		log.Info("configuration loaded", "path", "defaults")
	} else {
		log.Info("configuration loaded", "path", configPath)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	if cfg.Security.JWT.Secret == "" {
		secret, genErr := ephemeralSecret()
		if genErr != nil {
			return fmt.Errorf("generating dev-mode secret: %w", genErr)
		}
		cfg.Security.JWT.Secret = secret
		log.Warn("dev mode: using an ephemeral token secret, sessions will not survive a restart")
	}

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	authService, err := newAuthService(cfg, db, log)
	if err != nil {
		return err
	}

	checks := map[string]api.HealthChecker{"database": db}

	recorder := telemetry.Nop()
	if cfg.InfluxDB.Enabled {
		influxClient, connErr := influxdb.Connect(cfg.InfluxDB)
		if connErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", connErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		recorder = telemetry.New(influxClient)
		checks["influxdb"] = influxClient
	} else {
		log.Info("InfluxDB disabled")
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.MQTT.Enabled {
		mqttClient, connErr := mqtt.Connect(cfg.MQTT)
		if connErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", connErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
			"topic_prefix", mqttClient.Topics().Prefix(),
		)

		mqttPublisher := events.NewMQTTPublisher(mqttClient, log.Logger, events.DefaultBufferSize)
		mqttPublisher.Start(ctx)
		// Stops before the client closes so queued events are flushed.
		defer func() {
			log.Info("stopping event publisher")
			mqttPublisher.Stop()
		}()
		publisher = mqttPublisher
		checks["mqtt"] = mqttClient
	} else {
		log.Info("MQTT disabled")
	}

	server, err := api.New(api.Deps{
		Config:    cfg.API,
		Logger:    log,
		Auth:      authService,
		Profiles:  profile.NewSQLiteRepository(db.DB),
		Audit:     audit.NewSQLiteRepository(db.DB),
		Telemetry: recorder,
		Events:    publisher,
		Checks:    checks,
		DBStats:   db,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	if err := healthCheck(ctx, checks); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred calls run in reverse order:
	// 1. API server (drains requests, flushes the audit queue)
	// 2. Event publisher and MQTT (if enabled)
	// 3. InfluxDB (if enabled)
	// 4. Database

	log.Info("staffgate stopped")
	return nil
}

// newAuthService builds the password hasher, token service and account
// store from configuration.
func newAuthService(cfg *config.Config, db *database.DB, log *logging.Logger) (*auth.Service, error) {
	hasher, err := auth.NewHasherForAlgorithm(cfg.Security.Password.Algorithm, cfg.Security.Password.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("creating password hasher: %w", err)
	}

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret: cfg.Security.JWT.Secret,
		Issuer: cfg.Security.JWT.Issuer,
		TTL:    cfg.GetAccessTokenTTL(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	service, err := auth.NewService(auth.NewAccountRepository(db.DB), hasher, tokens, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("creating auth service: %w", err)
	}
	log.Info("auth service initialised",
		"algorithm", cfg.Security.Password.Algorithm,
		"token_ttl", tokens.TTL().String(),
	)
	return service, nil
}

// getConfigPath returns the configuration file path.
// STAFFGATE_CONFIG wins; otherwise the default path is used when the file
// exists, and an empty path (built-in defaults) when it does not.
func getConfigPath() string {
	if path := os.Getenv("STAFFGATE_CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

// ephemeralSecret returns a random hex secret for dev mode.
func ephemeralSecret() (string, error) {
	buf := make([]byte, ephemeralSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// healthCheck verifies every connected dependency before serving.
func healthCheck(ctx context.Context, checks map[string]api.HealthChecker) error {
	var errs []error
	for name, c := range checks {
		if err := c.HealthCheck(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
