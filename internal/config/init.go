package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// sampleConfigTemplate is written out by InitConfig/InitConfigToPath. %s is
// replaced with a freshly generated JWT secret.
const sampleConfigTemplate = `# uploadsvc Configuration File
#
# All values below may be overridden with SERVER_<SECTION>_<KEY>
# environment variables, e.g. SERVER_LOGGING_LEVEL=DEBUG.

server:
  listen_addr: ":8443"
  tls_cert_file: "/etc/uploadsvc/tls/server.crt"
  tls_key_file: "/etc/uploadsvc/tls/server.key"
  read_timeout: 15s
  write_timeout: 15s
  idle_timeout: 60s
  shutdown_timeout: 30s

database:
  type: "postgres"
  postgres:
    host: "localhost"
    port: 5432
    user: "uploadsvc"
    password: ""
    database: "uploadsvc"
    sslmode: "disable"

jwt:
  # Generated on init. Replace with your own secret in production:
  #   export SERVER_JWT_SECRET=$(openssl rand -hex 32)
  secret: "%s"
  issuer: "uploadsvc"
  access_token_duration: 15m
  refresh_token_duration: 168h

upload:
  chunk_cap: 10485760
  operations_timeout: 30s
  output_directory: "/var/lib/uploadsvc/uploads"

logging:
  level: "INFO"
  format: "text"
  output: "stdout"

metrics:
  enabled: false
  port: 9090

admin:
  username: "admin"

telemetry:
  enabled: false
  endpoint: "localhost:4317"
  insecure: true
  sample_rate: 1.0
`

// InitConfig writes a sample configuration file to the default location,
// returning the path it was written to. It fails if the file already
// exists unless force is set.
func InitConfig(force bool) (string, error) {
	path := DefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath writes a sample configuration file to path, failing if
// it already exists unless force is set.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	secret, err := randomHexSecret(32)
	if err != nil {
		return fmt.Errorf("failed to generate JWT secret: %w", err)
	}

	content := fmt.Sprintf(sampleConfigTemplate, secret)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfigExists reports whether a config file exists at the default
// location.
func DefaultConfigExists() bool {
	_, err := os.Stat(DefaultConfigPath())
	return err == nil
}

func randomHexSecret(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
