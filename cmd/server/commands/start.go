package commands

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/a1exx55/server-backend-sub000/internal/api"
	"github.com/a1exx55/server-backend-sub000/internal/auth"
	"github.com/a1exx55/server-backend-sub000/internal/config"
	"github.com/a1exx55/server-backend-sub000/internal/logger"
	"github.com/a1exx55/server-backend-sub000/internal/telemetry"
	"github.com/a1exx55/server-backend-sub000/pkg/store"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the upload server",
	Long: `Start the upload service's HTTPS server.

Configuration is loaded from --config, or from the default location at
$XDG_CONFIG_HOME/uploadsvc/config.yaml if --config is omitted. The config
file is watched for changes while the server runs: logging level/format
are hot-reloaded without a restart. Upload settings are read once at
startup; changing them takes a restart.`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	configPath := GetConfigFile()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryShutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "uploadsvc",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}()

	logger.Info("configuration loaded", "source", configSource(configPath))
	if telemetry.IsEnabled() {
		logger.Info("telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	} else {
		logger.Info("telemetry disabled")
	}

	st, err := store.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database store: %w", err)
	}

	if err := ensureAdminUser(ctx, st, cfg.Admin); err != nil {
		return fmt.Errorf("failed to ensure admin user: %w", err)
	}

	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		Secret:               cfg.JWT.Secret,
		Issuer:               cfg.JWT.Issuer,
		AccessTokenDuration:  cfg.JWT.AccessTokenDuration,
		RefreshTokenDuration: cfg.JWT.RefreshTokenDuration,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	watcher, err := config.NewWatcher(effectiveConfigPath(configPath), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize config watcher: %w", err)
	}
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start config watcher: %w", err)
	}
	defer watcher.Stop()

	apiServer, err := api.NewServer(cfg.Server, cfg.Upload, jwtService, st)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- apiServer.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("server is running", "addr", apiServer.Addr())

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("shutdown signal received, initiating graceful shutdown")
		cancel()

		if err := <-serverDone; err != nil {
			logger.Error("server shutdown error", "error", err)
			return err
		}
		logger.Info("server stopped gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("server error", "error", err)
			return err
		}
		logger.Info("server stopped")
	}

	return nil
}

// ensureAdminUser creates the bootstrap admin account on first run. If
// cfg.PasswordHash is empty, a random password is generated and printed
// once, since it cannot be recovered later.
func ensureAdminUser(ctx context.Context, st store.Store, cfg config.AdminConfig) error {
	passwordHash := cfg.PasswordHash
	var generatedPassword string

	if passwordHash == "" {
		var err error
		generatedPassword, err = randomPassword()
		if err != nil {
			return fmt.Errorf("failed to generate admin password: %w", err)
		}
		passwordHash, err = auth.HashPassword(generatedPassword)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
	}

	created, err := st.EnsureAdminUser(ctx, passwordHash)
	if err != nil {
		return err
	}
	if created && generatedPassword != "" {
		logger.Info("admin user created", "username", cfg.Username)
		fmt.Printf("\n*** IMPORTANT: admin user created with password: %s ***\n", generatedPassword)
		fmt.Println("Please save this password. It will not be shown again.")
		fmt.Println()
	}
	return nil
}

func randomPassword() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// effectiveConfigPath resolves the path the watcher should follow: the
// explicit --config value, or the default location Load falls back to.
func effectiveConfigPath(configPath string) string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func configSource(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if config.DefaultConfigExists() {
		return config.DefaultConfigPath()
	}
	return "defaults"
}
