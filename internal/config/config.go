package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const (
	appName = "marketpulse"

	EnvAIKey    = "MARKETPULSE_AI_KEY"
	EnvLogLevel = "MARKETPULSE_LOG_LEVEL"
)

// Source is one article feed. Type is rss, atom or json.
type Source struct {
	Name    string  `yaml:"name"`
	Type    string  `yaml:"type"`
	URL     string  `yaml:"url"`
	Enabled bool    `yaml:"enabled"`
	Weight  float64 `yaml:"weight,omitempty"`
}

type AIConfig struct {
	Provider string `yaml:"provider"` // "claude" or "openai"
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	RefreshCron string `yaml:"refresh_cron"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

type Config struct {
	RefreshInterval string       `yaml:"refresh_interval"`
	Retention       string       `yaml:"retention"`
	MaxAge          string       `yaml:"max_age"`
	FetchTimeout    string       `yaml:"fetch_timeout"`
	JSONRateLimit   float64      `yaml:"json_rate_limit"`
	BriefSize       int          `yaml:"brief_size,omitempty"`
	DefaultTopic    string       `yaml:"topic,omitempty"`
	NavBaseURL      string       `yaml:"nav_base_url"`
	Sources         []Source     `yaml:"sources"`
	Server          ServerConfig `yaml:"server"`
	Log             LogConfig    `yaml:"log"`
	AI              *AIConfig    `yaml:"ai,omitempty"`
}

// AIEnabled returns true if AI is configured with a valid API key.
func (c *Config) AIEnabled() bool {
	return c.AI != nil && c.AIKey() != ""
}

// AIKey returns the resolved API key (config or env var).
func (c *Config) AIKey() string {
	if c.AI != nil && c.AI.APIKey != "" {
		return c.AI.APIKey
	}
	return os.Getenv(EnvAIKey)
}

func (c *Config) RefreshDuration() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

func (c *Config) RetentionDuration() time.Duration {
	return parseDays(c.Retention, 30*24*time.Hour)
}

// MaxAgeDuration is how old an article may be before fetchers drop it.
func (c *Config) MaxAgeDuration() time.Duration {
	return parseDays(c.MaxAge, 14*24*time.Hour)
}

func (c *Config) FetchTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil || d <= 0 {
		return 20 * time.Second
	}
	return d
}

// parseDays accepts "Nd" day syntax as well as time.ParseDuration input.
func parseDays(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func (c *Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

func (c *Config) SourceNames() []string {
	var names []string
	for _, s := range c.EnabledSources() {
		names = append(names, s.Name)
	}
	return names
}

// SourceWeights returns the configured relevance weight per source name.
func (c *Config) SourceWeights() map[string]float64 {
	w := map[string]float64{}
	for _, s := range c.Sources {
		if s.Weight > 0 {
			w[s.Name] = s.Weight
		}
	}
	return w
}

// GetBriefSize returns the briefing size, defaulting to 5.
func (c *Config) GetBriefSize() int {
	if c.BriefSize <= 0 {
		return 5
	}
	return c.BriefSize
}

func (c *Config) ServerAddr() string {
	if c.Server.Addr == "" {
		return ":8080"
	}
	return c.Server.Addr
}

// RefreshCron is a six-field (with seconds) cron spec.
func (c *Config) RefreshCron() string {
	if c.Server.RefreshCron == "" {
		return "0 */15 * * * *"
	}
	return c.Server.RefreshCron
}

// LogLevel prefers MARKETPULSE_LOG_LEVEL over the file setting.
func (c *Config) LogLevel() string {
	if v := os.Getenv(EnvLogLevel); v != "" {
		return v
	}
	if c.Log.Level == "" {
		return "info"
	}
	return c.Log.Level
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, appName, appName+".db")
}

// LogPath is where the TUI writes its log.
func LogPath() string {
	return filepath.Join(xdg.StateHome, appName, appName+".log")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path (DefaultConfigPath when empty), writing the
// embedded defaults there on first run. Keys missing from the file keep their
// default values and default sources are merged in by name. A .env file next
// to the config or in the working directory is loaded first.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	loadEnv(filepath.Join(filepath.Dir(path), ".env"), ".env")

	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Non-fatal: embedded defaults still apply.
			_ = writeDefaults(path)
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := *defaults
	cfg.Sources = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	mergeDefaultSources(&cfg, defaults)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadEnv loads every existing dotenv file. Variables already set win.
func loadEnv(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}

// mergeDefaultSources refreshes the type and URL of sources that share a name
// with a default and appends defaults the user does not have yet.
func mergeDefaultSources(cfg, defaults *Config) {
	index := map[string]int{}
	for i, s := range cfg.Sources {
		index[strings.ToLower(s.Name)] = i
	}
	for _, d := range defaults.Sources {
		if i, ok := index[strings.ToLower(d.Name)]; ok {
			cfg.Sources[i].URL = d.URL
			cfg.Sources[i].Type = d.Type
			continue
		}
		cfg.Sources = append(cfg.Sources, d)
	}
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	validTypes := map[string]bool{"rss": true, "atom": true, "json": true}
	for i, s := range cfg.Sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if s.URL == "" {
			return fmt.Errorf("source %q: url is required", s.Name)
		}
		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("source %q: invalid url: %w", s.Name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("source %q: url scheme must be http or https, got %q", s.Name, u.Scheme)
		}
		if !validTypes[s.Type] {
			return fmt.Errorf("source %q: unknown type %q (valid: rss, atom, json)", s.Name, s.Type)
		}
		if s.Weight < 0 || s.Weight > 1 {
			return fmt.Errorf("source %q: weight must be between 0 and 1, got %v", s.Name, s.Weight)
		}
	}
	if cfg.AI != nil && cfg.AI.Provider != "" && cfg.AI.Provider != "claude" && cfg.AI.Provider != "openai" {
		return fmt.Errorf("ai: unknown provider %q (valid: claude, openai)", cfg.AI.Provider)
	}
	return nil
}
