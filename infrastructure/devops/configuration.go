package devops

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

type SlackConfig struct {
	Token          string `yaml:"token"`
	AlertChannelID string `yaml:"alert_channel_id"`
}

type ReportArchiveConfig struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

type Config struct {
	Port          string              `yaml:"port"`
	DSN           string              `yaml:"dsn"`
	JWTSecret     string              `yaml:"jwt_secret"`
	TokenTTLHours int                 `yaml:"token_ttl_hours"`
	CORSOrigins   []string            `yaml:"cors_origins"`
	Slack         SlackConfig         `yaml:"slack"`
	ReportArchive ReportArchiveConfig `yaml:"report_archive"`
}

var (
	once    sync.Once
	cfg     *Config
	loadErr error
)

// Load reads the service configuration once per process. The file path
// comes from CONFIG_FILE, defaulting to ./config.yaml; DSN, JWT_SECRET and
// PORT environment variables override the file so containers can inject
// secrets without mounting one.
func Load() (*Config, error) {
	once.Do(func() {
		path := os.Getenv("CONFIG_FILE")
		if path == "" {
			path = "config.yaml"
		}

		parsed := &Config{
			Port:          "5000",
			TokenTTLHours: 168,
		}
		raw, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// env-only configuration is fine
		case err != nil:
			loadErr = fmt.Errorf("read config %s: %w", path, err)
			return
		default:
			if err := yaml.Unmarshal(raw, parsed); err != nil {
				loadErr = fmt.Errorf("unmarshal yaml: %w", err)
				return
			}
		}

		if v := os.Getenv("DSN"); v != "" {
			parsed.DSN = v
		}
		if v := os.Getenv("JWT_SECRET"); v != "" {
			parsed.JWTSecret = v
		}
		if v := os.Getenv("PORT"); v != "" {
			parsed.Port = v
		}

		if parsed.DSN == "" {
			loadErr = fmt.Errorf("no DSN configured (set dsn in %s or the DSN env var)", path)
			return
		}
		if parsed.JWTSecret == "" {
			loadErr = fmt.Errorf("no JWT secret configured")
			return
		}
		cfg = parsed
	})
	return cfg, loadErr
}
