package config

import (
	"fmt"
	"strings"
)

// Validate checks a loaded Config for missing or out-of-range values.
// It runs after ApplyDefaults, so zero values here indicate a genuine
// configuration error rather than an omitted field.
func Validate(cfg *Config) error {
	if err := validateServer(&cfg.Server); err != nil {
		return err
	}
	if err := cfg.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := validateJWT(&cfg.JWT); err != nil {
		return err
	}
	if err := validateUpload(&cfg.Upload); err != nil {
		return err
	}
	if err := validateLogging(&cfg.Logging); err != nil {
		return err
	}
	if err := validateMetrics(&cfg.Metrics); err != nil {
		return err
	}
	if err := validateTelemetry(&cfg.Telemetry); err != nil {
		return err
	}
	return nil
}

func validateServer(cfg *ServerConfig) error {
	if cfg.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	if cfg.TLSCertFile == "" {
		return fmt.Errorf("server.tls_cert_file is required")
	}
	if cfg.TLSKeyFile == "" {
		return fmt.Errorf("server.tls_key_file is required")
	}
	return nil
}

func validateJWT(cfg *JWTConfig) error {
	if len(cfg.Secret) < 32 {
		return fmt.Errorf("jwt.secret must be at least 32 characters")
	}
	if cfg.AccessTokenDuration <= 0 {
		return fmt.Errorf("jwt.access_token_duration must be positive")
	}
	if cfg.RefreshTokenDuration <= 0 {
		return fmt.Errorf("jwt.refresh_token_duration must be positive")
	}
	if cfg.RefreshTokenDuration <= cfg.AccessTokenDuration {
		return fmt.Errorf("jwt.refresh_token_duration must exceed jwt.access_token_duration")
	}
	return nil
}

func validateUpload(cfg *UploadConfig) error {
	if cfg.OutputDirectory == "" {
		return fmt.Errorf("upload.output_directory is required")
	}
	if cfg.ChunkCap < 0 {
		return fmt.Errorf("upload.chunk_cap must not be negative")
	}
	return nil
}

var validLogLevels = map[string]bool{
	"DEBUG": true, "INFO": true, "WARN": true, "ERROR": true,
}

func validateLogging(cfg *LoggingConfig) error {
	if cfg.Output == "" {
		return fmt.Errorf("logging.output is required")
	}
	level := strings.ToUpper(cfg.Level)
	if !validLogLevels[level] {
		return fmt.Errorf("logging.level must be one of DEBUG, INFO, WARN, ERROR, got %q", cfg.Level)
	}
	switch cfg.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", cfg.Format)
	}
	return nil
}

func validateMetrics(cfg *MetricsConfig) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", cfg.Port)
	}
	return nil
}

func validateTelemetry(cfg *TelemetryConfig) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Endpoint == "" {
		return fmt.Errorf("telemetry.endpoint is required when telemetry is enabled")
	}
	if cfg.SampleRate < 0 || cfg.SampleRate > 1 {
		return fmt.Errorf("telemetry.sample_rate must be between 0 and 1, got %v", cfg.SampleRate)
	}
	return nil
}
