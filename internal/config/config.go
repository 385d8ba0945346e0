package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gravitrone/gerby-reader/internal/api"
	"github.com/gravitrone/gerby-reader/internal/render"
)

// Config holds reader configuration stored at ~/.gerby/config.
type Config struct {
	APIURL     string        `yaml:"api_url"`
	JSONP      bool          `yaml:"jsonp,omitempty"`
	Sanitize   bool          `yaml:"sanitize,omitempty"`
	MathJaxURL string        `yaml:"mathjax_url"`
	Listen     string        `yaml:"listen"`
	Timeout    time.Duration `yaml:"timeout,omitempty"`
	LogLevel   string        `yaml:"log_level,omitempty"`
}

// Environment overrides, also read from a .env file in the working directory.
const (
	EnvAPIURL = "GERBY_API_URL"
	EnvListen = "GERBY_LISTEN"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:     api.DefaultBaseURL,
		MathJaxURL: render.DefaultMathJaxURL,
		Listen:     "127.0.0.1:8080",
		LogLevel:   "info",
	}
}

// Path returns the config file path.
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".gerby", "config")
}

// Load reads the config file if present, fills unset fields with defaults and
// applies environment overrides. A missing file is not an error.
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path())
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		var fromFile Config
		if err := yaml.Unmarshal(data, &fromFile); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		cfg.merge(fromFile)
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		cfg.Listen = v
	}

	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("config timeout must not be negative: %s", cfg.Timeout)
	}
	return &cfg, nil
}

func (c *Config) merge(o Config) {
	if o.APIURL != "" {
		c.APIURL = o.APIURL
	}
	if o.MathJaxURL != "" {
		c.MathJaxURL = o.MathJaxURL
	}
	if o.Listen != "" {
		c.Listen = o.Listen
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	c.JSONP = o.JSONP
	c.Sanitize = o.Sanitize
	c.Timeout = o.Timeout
}

// loadDotEnv reads ./.env without overriding variables already set.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load .env: %w", err)
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// ClientOptions translates the config into api client options.
func (c *Config) ClientOptions() []api.Option {
	var opts []api.Option
	if c.Timeout > 0 {
		opts = append(opts, api.WithTimeout(c.Timeout))
	}
	if c.JSONP {
		opts = append(opts, api.WithJSONP(api.DefaultCallback))
	}
	return opts
}

// RendererOptions translates the config into renderer options.
func (c *Config) RendererOptions() []render.Option {
	if c.Sanitize {
		return []render.Option{render.Sanitized()}
	}
	return nil
}
