// Package config loads the upload service's configuration from a YAML file,
// environment variables, and defaults, and watches the file for changes.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/a1exx55/server-backend-sub000/internal/multipart"
	"github.com/a1exx55/server-backend-sub000/pkg/store"
)

// Config is the top-level configuration for the upload service.
//
// Configuration sources, in order of precedence:
//  1. Environment variables (SERVER_*)
//  2. Configuration file (YAML)
//  3. Default values
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Database store.Config   `mapstructure:"database" yaml:"database"`
	JWT      JWTConfig      `mapstructure:"jwt" yaml:"jwt"`
	Upload   UploadConfig   `mapstructure:"upload" yaml:"upload"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`
	Admin     AdminConfig     `mapstructure:"admin" yaml:"admin"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
}

// ServerConfig controls the HTTPS listener.
type ServerConfig struct {
	// ListenAddr is the address the HTTPS server binds to, e.g. ":8443".
	ListenAddr string `mapstructure:"listen_addr" validate:"required" yaml:"listen_addr"`

	// TLSCertFile and TLSKeyFile are paths to the server's certificate and key.
	TLSCertFile string `mapstructure:"tls_cert_file" validate:"required" yaml:"tls_cert_file"`
	TLSKeyFile  string `mapstructure:"tls_key_file" validate:"required" yaml:"tls_key_file"`

	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// JWTConfig controls access/refresh token issuance.
type JWTConfig struct {
	// Secret is the HMAC signing key. Must be at least 32 characters.
	Secret string `mapstructure:"secret" validate:"required,min=32" yaml:"secret"`

	Issuer               string        `mapstructure:"issuer" yaml:"issuer"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration" yaml:"access_token_duration"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration" yaml:"refresh_token_duration"`
}

// UploadConfig maps directly onto multipart.Settings.
type UploadConfig struct {
	// ChunkCap is the maximum size, in bytes, of the receiver's working buffer.
	ChunkCap int `mapstructure:"chunk_cap" validate:"omitempty,min=1" yaml:"chunk_cap"`

	// OperationsTimeout bounds individual reads in async mode.
	OperationsTimeout time.Duration `mapstructure:"operations_timeout" yaml:"operations_timeout"`

	// OutputDirectory is the root directory uploaded files are written under.
	// Per-user subdirectories are created beneath it by the handler layer.
	OutputDirectory string `mapstructure:"output_directory" validate:"required" yaml:"output_directory"`
}

// Settings converts the loaded UploadConfig into multipart.Settings, leaving
// OnHeader/OnBody for the caller to attach.
func (c UploadConfig) Settings() multipart.Settings {
	return multipart.Settings{
		ChunkCap:          c.ChunkCap,
		OperationsTimeout: c.OperationsTimeout,
		OutputDirectory:   c.OutputDirectory,
	}
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level: DEBUG, INFO, WARN, ERROR.
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format is text or json.
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output is stdout, stderr, or a file path.
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// MetricsConfig configures the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Port    int  `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
}

// AdminConfig configures the initial admin user, created on first boot.
type AdminConfig struct {
	Username     string `mapstructure:"username" yaml:"username"`
	PasswordHash string `mapstructure:"password_hash" yaml:"password_hash,omitempty"`
}

// TelemetryConfig controls optional OpenTelemetry tracing export.
type TelemetryConfig struct {
	Enabled    bool    `mapstructure:"enabled" yaml:"enabled"`
	Endpoint   string  `mapstructure:"endpoint" yaml:"endpoint"`
	Insecure   bool    `mapstructure:"insecure" yaml:"insecure"`
	SampleRate float64 `mapstructure:"sample_rate" validate:"omitempty,min=0,max=1" yaml:"sample_rate"`
}

// Load reads configuration from the given file path (or the default
// location if empty), overlays environment variables, applies defaults,
// and validates the result. If no config file exists, Load returns
// DefaultConfig() as is, without environment overrides or validation.
func Load(configPath string) (*Config, error) {
	// ExperimentalBindStruct lets Unmarshal pick up SERVER_* overrides for
	// keys the config file does not mention.
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	if !found {
		cfg := DefaultConfig()
		return cfg, nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper wires environment variable overrides (SERVER_* prefix, "_" as
// the nested-key separator) and the config file search path.
func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("SERVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}

	v.AddConfigPath(configDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

// configDir returns the directory that holds the default config file.
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "uploadsvc")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "uploadsvc")
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}
