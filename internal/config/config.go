// Package config loads the CLI configuration: which tenant to talk to, how
// to authenticate and how chatty to be. Files may be YAML or JSON; JSON is
// standardized first so comments and trailing commas are fine.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/stuartf/oae-rest/internal/json"
)

// Config represents the CLI configuration, loaded from a YAML or JSON file
// and overridable through OAE_* environment variables.
type Config struct {
	// Host is the tenant base URL, for example "https://tenant1.oae.example".
	Host string `yaml:"host" json:"host"`

	// HostHeader overrides the Host header while still dialing Host, for
	// addressing a tenant through a shared front end.
	HostHeader string `yaml:"host-header,omitempty" json:"host-header,omitempty"`

	// Username and Password select password authentication. The session is
	// established transparently on the first request.
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`

	// Session reuses an existing session token instead of logging in.
	Session string `yaml:"session,omitempty" json:"session,omitempty"`

	// Headers are attached to every request.
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`

	// Referer overrides the default referer (Host plus a trailing slash).
	Referer string `yaml:"referer,omitempty" json:"referer,omitempty"`

	// Insecure disables TLS certificate verification.
	Insecure bool `yaml:"insecure" json:"insecure"`

	// RequestTimeoutSecs bounds each call; zero keeps the library default.
	RequestTimeoutSecs int `yaml:"request-timeout" json:"request-timeout"`

	// Debug enables debug logging.
	Debug bool `yaml:"debug" json:"debug"`

	// LoggingToFile sends logs to a rotating file under LogDir instead of
	// stderr.
	LoggingToFile bool   `yaml:"logging-to-file" json:"logging-to-file"`
	LogDir        string `yaml:"log-dir,omitempty" json:"log-dir,omitempty"`
}

// NewDefaultConfig creates a Config with defaults, enough to run against a
// local development tenant.
func NewDefaultConfig() *Config {
	return &Config{
		Host: "http://localhost:2001",
	}
}

// DefaultPath returns the conventional config location, ~/.oae/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".oae", "config.yaml")
}

// GenerateDefaultYAML renders NewDefaultConfig as YAML, used to seed a
// fresh config file.
func GenerateDefaultYAML() []byte {
	data, err := yaml.Marshal(NewDefaultConfig())
	if err != nil {
		return []byte("host: \"http://localhost:2001\"\n")
	}
	return data
}

// LoadConfig reads the file at configFile, applies environment overrides
// and validates the result.
func LoadConfig(configFile string) (*Config, error) {
	return LoadConfigOptional(configFile, false)
}

// LoadConfigOptional is LoadConfig, except a missing file yields the
// defaults when optional is true. Environment overrides still apply, so a
// fully env-driven setup needs no file at all.
func LoadConfigOptional(configFile string, optional bool) (*Config, error) {
	cfg := NewDefaultConfig()

	data, err := os.ReadFile(configFile)
	switch {
	case err == nil && len(data) > 0:
		if err = unmarshalConfig(configFile, data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case err == nil:
		// Empty file, keep defaults.
	case optional && (os.IsNotExist(err) || errors.Is(err, syscall.EISDIR)):
		// Missing and optional, keep defaults.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.applyEnv()
	cfg.Headers = NormalizeHeaders(cfg.Headers)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func unmarshalConfig(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc", ".hujson":
		// hujson tolerates comments and trailing commas in hand-written
		// config files.
		standardized, err := hujson.Standardize(data)
		if err != nil {
			return err
		}
		return json.Unmarshal(standardized, cfg)
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

// applyEnv lets OAE_* variables override file values. A .env file loaded by
// the caller lands here too.
func (c *Config) applyEnv() {
	if v := os.Getenv("OAE_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("OAE_HOST_HEADER"); v != "" {
		c.HostHeader = v
	}
	if v := os.Getenv("OAE_USERNAME"); v != "" {
		c.Username = v
	}
	if v := os.Getenv("OAE_PASSWORD"); v != "" {
		c.Password = v
	}
	if v := os.Getenv("OAE_SESSION"); v != "" {
		c.Session = v
	}
	if v := os.Getenv("OAE_INSECURE"); v != "" {
		c.Insecure = parseBool(v, c.Insecure)
	}
	if v := os.Getenv("OAE_DEBUG"); v != "" {
		c.Debug = parseBool(v, c.Debug)
	}
}

func parseBool(s string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return b
}

// Validate checks the loaded configuration for contradictions before any
// request is attempted.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Host, validation.Required, validation.By(checkBaseURL)),
		validation.Field(&c.Password, validation.Required.When(c.Username != "").Error("required when username is set")),
		validation.Field(&c.Username, validation.Required.When(c.Password != "").Error("required when password is set")),
		validation.Field(&c.RequestTimeoutSecs, validation.Min(0)),
	)
}

func checkBaseURL(value interface{}) error {
	s, _ := value.(string)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return errors.New("must be an absolute http or https URL")
	}
	return nil
}

// RequestTimeout returns the configured per-call timeout, or zero when the
// library default should stand.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSecs <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

// NormalizeHeaders trims header keys and values and removes empty pairs.
func NormalizeHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	clean := make(map[string]string, len(headers))
	for k, v := range headers {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		clean[key] = val
	}
	if len(clean) == 0 {
		return nil
	}
	return clean
}
