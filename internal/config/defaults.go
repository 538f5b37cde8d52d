package config

import (
	"strings"
	"time"

	"github.com/a1exx55/server-backend-sub000/pkg/store"
)

// ApplyDefaults fills in zero-valued fields with sensible defaults. Explicit
// values from file/env are preserved.
func ApplyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	cfg.Database.ApplyDefaults()
	applyJWTDefaults(&cfg.JWT)
	applyUploadDefaults(&cfg.Upload)
	applyLoggingDefaults(&cfg.Logging)
	applyMetricsDefaults(&cfg.Metrics)
	applyAdminDefaults(&cfg.Admin)
	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8443"
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 15 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
}

func applyJWTDefaults(cfg *JWTConfig) {
	if cfg.Issuer == "" {
		cfg.Issuer = "uploadsvc"
	}
	if cfg.AccessTokenDuration == 0 {
		cfg.AccessTokenDuration = 15 * time.Minute
	}
	if cfg.RefreshTokenDuration == 0 {
		cfg.RefreshTokenDuration = 7 * 24 * time.Hour
	}
}

func applyUploadDefaults(cfg *UploadConfig) {
	if cfg.ChunkCap == 0 {
		cfg.ChunkCap = 10 * 1024 * 1024 // 10MiB
	}
	if cfg.OperationsTimeout == 0 {
		cfg.OperationsTimeout = 30 * time.Second
	}
	if cfg.OutputDirectory == "" {
		cfg.OutputDirectory = "/var/lib/uploadsvc/uploads"
	}
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Enabled && cfg.Port == 0 {
		cfg.Port = 9090
	}
}

func applyAdminDefaults(cfg *AdminConfig) {
	if cfg.Username == "" {
		cfg.Username = store.AdminUsername
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}
}

// DefaultConfig returns a Config with all defaults applied, used when no
// config file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
