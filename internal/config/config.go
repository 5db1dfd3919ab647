package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model.
// It captures the site to talk to, notification timing and local storage.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	HTTP      HTTPConfig      `yaml:"http"`
	Reactions ReactionsConfig `yaml:"reactions"`
	Composer  ComposerConfig  `yaml:"composer"`
	Notify    NotifyConfig    `yaml:"notify"`
	Storage   StorageConfig   `yaml:"storage"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Log       LogConfig       `yaml:"log"`
}

type SiteConfig struct {
	// Site root, e.g. https://tutorials.example.com. TUTORLY_BASE_URL overrides it.
	BaseURL string `yaml:"baseURL"`
	// Route variant: "rpc" (/ajax/...) or "rest" (/api/...)
	Routes string `yaml:"routes"`
	// Anti-forgery header and cookie names
	CSRFHeader string `yaml:"csrfHeader"`
	CSRFCookie string `yaml:"csrfCookie"`
	// Static anti-forgery token. If empty, read TUTORLY_CSRF_TOKEN, then the cookie jar
	CSRFToken string `yaml:"csrfToken"`
	// Session cookie installed into the jar. If empty, read TUTORLY_SESSION_COOKIE
	SessionCookieName string `yaml:"sessionCookieName"`
	SessionCookie     string `yaml:"sessionCookie"`
}

type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	// Client-side request rate; bursts of clicks beyond this wait, they are never retried
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type ReactionsConfig struct {
	// Re-enable a control after the server rejected the reaction (status 0).
	// The site leaves it disabled, so this defaults to false.
	ReenableOnReject bool `yaml:"reenableOnReject"`
}

type ComposerConfig struct {
	// Clear the form and reply context after a successful submission.
	ResetOnSuccess bool `yaml:"resetOnSuccess"`
}

type NotifyConfig struct {
	ConfirmDismiss    time.Duration `yaml:"confirmDismiss"`
	UnreachableText   string        `yaml:"unreachableText"`
	RejectedText      string        `yaml:"rejectedText"`
	CommentQueuedText string        `yaml:"commentQueuedText"`
}

type StorageConfig struct {
	// Interaction journal; empty disables it
	DBPath string `yaml:"dbPath"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		Site: SiteConfig{
			BaseURL:           "http://localhost:8000",
			Routes:            "rpc",
			CSRFHeader:        "X-CSRFToken",
			CSRFCookie:        "csrftoken",
			SessionCookieName: "sessionid",
		},
		HTTP: HTTPConfig{Timeout: 15 * time.Second, RPS: 5, Burst: 10},
		Notify: NotifyConfig{
			ConfirmDismiss:    3 * time.Second,
			UnreachableText:   "Could not reach the server. Please try again later.",
			RejectedText:      "Something went wrong while saving your request.",
			CommentQueuedText: "Your comment was submitted and will be published after moderation.",
		},
		Storage: StorageConfig{DBPath: "./tutorly.db"},
		Log:     LogConfig{Level: "info"},
	}
}

// ResolveEnv fills in config fields from environment variables if not set.
// TUTORLY_BASE_URL and TUTORLY_LOG_LEVEL override the file when present.
// A .env file in the working directory is read first; it never overrides
// variables that are already exported.
func (c *Config) ResolveEnv() {
	_ = godotenv.Load()
	if v := os.Getenv("TUTORLY_BASE_URL"); v != "" {
		c.Site.BaseURL = v
	}
	if c.Site.CSRFToken == "" {
		c.Site.CSRFToken = os.Getenv("TUTORLY_CSRF_TOKEN")
	}
	if c.Site.SessionCookie == "" {
		c.Site.SessionCookie = os.Getenv("TUTORLY_SESSION_COOKIE")
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = os.Getenv("TUTORLY_METRICS_ADDR")
	}
	if v := os.Getenv("TUTORLY_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks the fields the client cannot run without.
func (c Config) Validate() error {
	if c.Site.BaseURL == "" {
		return errors.New("site.baseURL is empty")
	}
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("site.baseURL %q is not an absolute url", c.Site.BaseURL)
	}
	switch c.Site.Routes {
	case "rpc", "rest":
	default:
		return fmt.Errorf("site.routes must be rpc or rest, got %q", c.Site.Routes)
	}
	if c.Site.CSRFHeader == "" {
		return errors.New("site.csrfHeader is empty")
	}
	return nil
}

// Load reads YAML config from path. Missing fields keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
