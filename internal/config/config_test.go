package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if len(cfg.Sources) == 0 {
		t.Error("expected at least one default source")
	}
	if cfg.RefreshInterval == "" {
		t.Error("expected refresh_interval to be set")
	}
	if err := validate(cfg); err != nil {
		t.Errorf("embedded defaults do not validate: %v", err)
	}
}

func TestRefreshDuration(t *testing.T) {
	cfg := &Config{RefreshInterval: "30m"}
	if d := cfg.RefreshDuration(); d.Minutes() != 30 {
		t.Errorf("expected 30m, got %v", d)
	}

	cfg.RefreshInterval = "invalid"
	if d := cfg.RefreshDuration(); d.Minutes() != 15 {
		t.Errorf("expected 15m default for invalid interval, got %v", d)
	}
}

func TestRetentionDuration(t *testing.T) {
	tests := []struct {
		input    string
		wantDays int
	}{
		{"90d", 90},
		{"7d", 7},
		{"720h", 30},
		{"", 30},        // default
		{"invalid", 30}, // fallback to default
	}
	for _, tt := range tests {
		cfg := &Config{Retention: tt.input}
		got := cfg.RetentionDuration()
		if got.Hours() != float64(tt.wantDays*24) {
			t.Errorf("RetentionDuration(%q) = %v, want %dd", tt.input, got, tt.wantDays)
		}
	}
}

func TestMaxAgeDuration(t *testing.T) {
	if got := (&Config{}).MaxAgeDuration().Hours(); got != 14*24 {
		t.Errorf("default max age = %vh, want 336h", got)
	}
	if got := (&Config{MaxAge: "3d"}).MaxAgeDuration().Hours(); got != 72 {
		t.Errorf("max age 3d = %vh, want 72h", got)
	}
}

func TestEnabledSources(t *testing.T) {
	cfg := &Config{
		Sources: []Source{
			{Name: "A", Enabled: true},
			{Name: "B", Enabled: false},
			{Name: "C", Enabled: true},
		},
	}
	enabled := cfg.EnabledSources()
	if len(enabled) != 2 {
		t.Fatalf("expected 2 enabled sources, got %d", len(enabled))
	}
	if enabled[0].Name != "A" || enabled[1].Name != "C" {
		t.Errorf("unexpected enabled sources: %v", enabled)
	}
}

func TestSourceNames(t *testing.T) {
	cfg := &Config{
		Sources: []Source{
			{Name: "Alpha", Enabled: true},
			{Name: "Beta", Enabled: false},
			{Name: "Gamma", Enabled: true},
		},
	}
	names := cfg.SourceNames()
	if len(names) != 2 || names[0] != "Alpha" || names[1] != "Gamma" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestSourceWeights(t *testing.T) {
	cfg := &Config{Sources: []Source{
		{Name: "Reuters", Weight: 0.9},
		{Name: "Blog"},
	}}
	w := cfg.SourceWeights()
	if w["Reuters"] != 0.9 {
		t.Errorf("Reuters weight = %v, want 0.9", w["Reuters"])
	}
	if _, ok := w["Blog"]; ok {
		t.Error("unweighted source should be absent")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	content := `refresh_interval: 2h
server:
  addr: ":9090"
sources:
  - name: Test
    type: json
    url: https://example.com/api/articles
    enabled: true
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RefreshInterval != "2h" {
		t.Errorf("expected 2h, got %s", cfg.RefreshInterval)
	}
	if cfg.ServerAddr() != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.ServerAddr())
	}
	if cfg.RefreshCron() != "0 */15 * * * *" {
		t.Errorf("expected default cron, got %s", cfg.RefreshCron())
	}
	if cfg.MaxAge != "14d" {
		t.Errorf("expected default max_age to carry over, got %q", cfg.MaxAge)
	}
	if cfg.Sources[0].Name != "Test" {
		t.Errorf("expected first source name Test, got %s", cfg.Sources[0].Name)
	}
	if len(cfg.Sources) <= 1 {
		t.Errorf("expected default sources to be merged, got %d total", len(cfg.Sources))
	}
}

func TestLoadNonexistentFallsBackToDefaults(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Sources) == 0 {
		t.Error("expected default sources when config doesn't exist")
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Errorf("expected defaults written to %s: %v", cfgPath, err)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `sources:
  - name: Bad
    type: csv
    url: https://example.com
    enabled: true
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(cfgPath); err == nil {
		t.Error("expected validation error")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvAIKey+"=from-dotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfgPath, []byte("ai:\n  provider: claude\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAIKey, "")
	os.Unsetenv(EnvAIKey)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.AIEnabled() || cfg.AIKey() != "from-dotenv" {
		t.Errorf("expected key from .env, got %q", cfg.AIKey())
	}
}

func TestAIKeyPrecedence(t *testing.T) {
	t.Setenv(EnvAIKey, "from-env")
	cfg := &Config{AI: &AIConfig{Provider: "claude", APIKey: "from-file"}}
	if cfg.AIKey() != "from-file" {
		t.Errorf("config key should win, got %q", cfg.AIKey())
	}
	cfg.AI.APIKey = ""
	if cfg.AIKey() != "from-env" {
		t.Errorf("expected env fallback, got %q", cfg.AIKey())
	}
	if (&Config{}).AIEnabled() {
		t.Error("AI should be disabled without an ai section")
	}
}

func TestLogLevelOverride(t *testing.T) {
	cfg := &Config{Log: LogConfig{Level: "warn"}}
	t.Setenv(EnvLogLevel, "")
	if cfg.LogLevel() != "warn" {
		t.Errorf("expected warn, got %s", cfg.LogLevel())
	}
	t.Setenv(EnvLogLevel, "debug")
	if cfg.LogLevel() != "debug" {
		t.Errorf("expected env override debug, got %s", cfg.LogLevel())
	}
}

func TestGetBriefSize(t *testing.T) {
	if got := (&Config{}).GetBriefSize(); got != 5 {
		t.Errorf("expected default brief size 5, got %d", got)
	}
	if got := (&Config{BriefSize: 10}).GetBriefSize(); got != 10 {
		t.Errorf("expected brief size 10, got %d", got)
	}
}

func TestMergeDefaultSources(t *testing.T) {
	cfg := &Config{
		Sources: []Source{
			{Name: "Existing", Type: "rss", URL: "https://example.com/feed", Enabled: true},
			{Name: "Shared", Type: "rss", URL: "https://old.com/feed", Enabled: false},
		},
	}
	defaults := &Config{
		Sources: []Source{
			{Name: "Shared", Type: "atom", URL: "https://new.com/feed", Enabled: true},
			{Name: "NewSource", Type: "rss", URL: "https://new-source.com/feed", Enabled: true},
		},
	}
	mergeDefaultSources(cfg, defaults)

	if len(cfg.Sources) != 3 {
		t.Fatalf("expected 3 sources after merge, got %d", len(cfg.Sources))
	}
	if cfg.Sources[0].Name != "Existing" {
		t.Errorf("expected first source Existing, got %s", cfg.Sources[0].Name)
	}
	if cfg.Sources[1].URL != "https://new.com/feed" || cfg.Sources[1].Type != "atom" {
		t.Errorf("expected Shared refreshed, got %+v", cfg.Sources[1])
	}
	if cfg.Sources[1].Enabled {
		t.Error("merge must keep the user's enabled flag")
	}
	if cfg.Sources[2].Name != "NewSource" {
		t.Errorf("expected NewSource appended, got %s", cfg.Sources[2].Name)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"missing name", Config{Sources: []Source{{Type: "rss", URL: "https://example.com"}}}, true},
		{"missing url", Config{Sources: []Source{{Name: "Test", Type: "rss"}}}, true},
		{"invalid type", Config{Sources: []Source{{Name: "Test", Type: "csv", URL: "https://example.com"}}}, true},
		{"file scheme", Config{Sources: []Source{{Name: "Test", Type: "rss", URL: "file:///etc/passwd"}}}, true},
		{"weight range", Config{Sources: []Source{{Name: "Test", Type: "rss", URL: "https://example.com", Weight: 2}}}, true},
		{"bad provider", Config{AI: &AIConfig{Provider: "bard"}}, true},
		{"https rss", Config{Sources: []Source{{Name: "Test", Type: "rss", URL: "https://example.com/feed"}}}, false},
		{"http atom", Config{Sources: []Source{{Name: "Test", Type: "atom", URL: "http://example.com/feed"}}}, false},
		{"json", Config{Sources: []Source{{Name: "Test", Type: "json", URL: "https://example.com/api"}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(&tt.cfg)
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
