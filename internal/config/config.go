// Package config provides centralized configuration for the lovenote server.
// Values come from an optional YAML file, a .env file and the environment,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all server configuration values.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	// CORSOrigin is the allowed CORS origin. Defaults to "*".
	CORSOrigin string `mapstructure:"cors_origin"`
	// FrontendDir, when set, is served as a single-page app.
	FrontendDir     string        `mapstructure:"frontend_dir"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LLMConfig selects the remote model and its credentials.
type LLMConfig struct {
	// Provider is one of "gemini", "openai", "claude", "stub".
	Provider string `mapstructure:"provider"`
	// Model overrides the provider's default model when set.
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
	// Timeout bounds a single attempt with one credential.
	Timeout time.Duration `mapstructure:"timeout"`
	// APIKeys is the ordered credential pool. Load puts keys found in the
	// provider's environment variables first.
	APIKeys []string `mapstructure:"api_keys"`
}

// StorageConfig selects the artifact backend.
type StorageConfig struct {
	// Backend is "postgres", "sqlite", "redis", "memory" or empty to infer
	// it from URL.
	Backend  string `mapstructure:"backend"`
	URL      string `mapstructure:"url"`
	MaxConns int    `mapstructure:"max_conns"`
	MinConns int    `mapstructure:"min_conns"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// envBindings maps config keys onto the plain environment variable names
// deployments already use. LOVENOTE_<SECTION>_<KEY> works for every key.
var envBindings = map[string][]string{
	"server.port":         {"PORT"},
	"server.cors_origin":  {"CORS_ORIGIN"},
	"server.frontend_dir": {"FRONTEND_DIR"},
	"llm.provider":        {"LLM_PROVIDER"},
	"llm.model":           {"LLM_MODEL"},
	"llm.base_url":        {"LLM_BASE_URL"},
	"llm.timeout":         {"LLM_TIMEOUT"},
	"storage.backend":     {"STORAGE_BACKEND"},
	"storage.url":         {"DATABASE_URL"},
	"logging.level":       {"LOG_LEVEL"},
	"logging.format":      {"LOG_FORMAT"},
}

// CredentialEnvKeys lists, in priority order, the environment variables
// holding API keys for a provider.
func CredentialEnvKeys(provider string) []string {
	switch provider {
	case "openai":
		return []string{"OPENAI_API_KEY", "OPENAI_API_KEY1", "OPENAI_API_KEY2", "OPENAI_API_KEY3"}
	case "claude":
		return []string{"ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY1", "ANTHROPIC_API_KEY2", "ANTHROPIC_API_KEY3"}
	case "gemini":
		return []string{"GOOGLE_API_KEY", "GOOGLE_API_KEY1", "GOOGLE_API_KEY2", "GOOGLE_API_KEY3", "GEMINI_API_KEY"}
	default:
		return nil
	}
}

// Load reads configuration. path names a YAML file; when empty, config.yaml
// is looked up in the working directory and ./configs and may be absent.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(".env.local", ".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("LOVENOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envBindings {
		args := append([]string{key, "LOVENOTE_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	cfg.LLM.APIKeys = append(envCredentials(cfg.LLM.Provider), nonBlank(cfg.LLM.APIKeys)...)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.cors_origin", "*")
	v.SetDefault("server.frontend_dir", "")
	v.SetDefault("server.max_body_bytes", 16<<20)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.api_keys", []string{})

	v.SetDefault("storage.backend", "")
	v.SetDefault("storage.url", "")
	v.SetDefault("storage.max_conns", 10)
	v.SetDefault("storage.min_conns", 1)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// loadEnvFiles loads the files that exist. Variables already set in the
// environment win. A file that exists but does not parse is an error.
func loadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load env file %s: %w", p, err)
		}
	}
	return nil
}

func envCredentials(provider string) []string {
	var keys []string
	for _, name := range CredentialEnvKeys(provider) {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			keys = append(keys, v)
		}
	}
	return keys
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if c.Server.MaxBodyBytes < 0 {
		errs = append(errs, errors.New("server.max_body_bytes must not be negative"))
	}
	switch c.LLM.Provider {
	case "gemini", "openai", "claude", "stub":
	default:
		errs = append(errs, fmt.Errorf("llm.provider %q is not one of gemini, openai, claude, stub", c.LLM.Provider))
	}
	if c.LLM.Timeout < 0 {
		errs = append(errs, errors.New("llm.timeout must not be negative"))
	}
	switch c.Storage.Backend {
	case "", "postgres", "sqlite", "redis", "memory":
	default:
		errs = append(errs, fmt.Errorf("storage.backend %q is not one of postgres, sqlite, redis, memory", c.Storage.Backend))
	}
	if c.Storage.MaxConns < 0 || c.Storage.MinConns < 0 {
		errs = append(errs, errors.New("storage connection limits must not be negative"))
	}
	if c.Storage.MaxConns > 0 && c.Storage.MinConns > c.Storage.MaxConns {
		errs = append(errs, errors.New("storage.min_conns must not exceed storage.max_conns"))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q is not json or console", c.Logging.Format))
	}
	return errors.Join(errs...)
}
