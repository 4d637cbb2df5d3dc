package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", nil},
		{"single", "a", []string{"a"}},
		{"spaces", " a , b ,c ", []string{"a", "b", "c"}},
		{"quotes", `"a", 'b'`, []string{"a", "b"}},
		{"empty parts", "a,,b,", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndTrim(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitAndTrim(%q) = %v, want %v", tt.input, result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestGetenvInt(t *testing.T) {
	t.Setenv("TEST_INT_VALID", "42")
	t.Setenv("TEST_INT_INVALID", "abc")

	if got := getenvInt("TEST_INT_VALID", 1); got != 42 {
		t.Errorf("getenvInt() = %d, want 42", got)
	}
	if got := getenvInt("TEST_INT_INVALID", 7); got != 7 {
		t.Errorf("getenvInt() with invalid value = %d, want default 7", got)
	}
	if got := getenvInt("TEST_INT_MISSING", 3); got != 3 {
		t.Errorf("getenvInt() with missing value = %d, want default 3", got)
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{"true value", "TEST_BOOL", "true", false, true},
		{"false value", "TEST_BOOL_FALSE", "false", true, false},
		{"invalid value uses default", "TEST_BOOL_INVALID", "invalid", true, true},
		{"missing variable uses default", "TEST_BOOL_MISSING", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func validConfig() *Config {
	return &Config{
		StoreBackend:    BackendFile,
		StorePath:       "./data/bot.json",
		ImportFormat:    "bookmarks",
		SearchCacheSize: 10,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"unknown backend", func(c *Config) { c.StoreBackend = "sqlite" }, true},
		{"file backend without path", func(c *Config) { c.StorePath = "" }, true},
		{"badger backend", func(c *Config) { c.StoreBackend = BackendBadger; c.BadgerDir = "/tmp/b" }, false},
		{"badger backend without dir", func(c *Config) { c.StoreBackend = BackendBadger }, true},
		{"redis backend without addr", func(c *Config) { c.StoreBackend = BackendRedis }, true},
		{"redis backend", func(c *Config) { c.StoreBackend = BackendRedis; c.RedisAddr = "localhost:6379" }, false},
		{"redis password required but empty", func(c *Config) {
			c.RedisAddr = "localhost:6379"
			c.RedisPasswordRequired = true
		}, true},
		{"password only checked when redis enabled", func(c *Config) { c.RedisPasswordRequired = true }, false},
		{"bad import format", func(c *Config) { c.ImportFile = "b.yaml"; c.ImportFormat = "widgets" }, true},
		{"import format ignored without file", func(c *Config) { c.ImportFormat = "widgets" }, false},
		{"zero cache size", func(c *Config) { c.SearchCacheSize = 0 }, true},
		{"negative retention", func(c *Config) { c.Retention = -time.Hour }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	if cfg.StoreBackend != BackendFile {
		t.Errorf("StoreBackend = %q, want %q", cfg.StoreBackend, BackendFile)
	}
	if cfg.StorePath != "./data/bot.json" {
		t.Errorf("StorePath = %q", cfg.StorePath)
	}
	if cfg.DigestSchedule != "0 6 * * *" {
		t.Errorf("DigestSchedule = %q", cfg.DigestSchedule)
	}
	if cfg.Retention != 0 {
		t.Errorf("Retention = %v, want 0 (disabled)", cfg.Retention)
	}
	if cfg.RedisEnabled() {
		t.Error("RedisEnabled() should be false without an address")
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "LINKBOT_STORE_PATH=/srv/linkbot/bot.json\nLINKBOT_ALLOWED_HOSTS=bot.example.com, api.example.com\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides existing variables; make sure t.Setenv restores them.
	t.Setenv("LINKBOT_STORE_PATH", "")
	t.Setenv("LINKBOT_ALLOWED_HOSTS", "")
	_ = os.Unsetenv("LINKBOT_STORE_PATH")
	_ = os.Unsetenv("LINKBOT_ALLOWED_HOSTS")

	cfg := Load(path)

	if cfg.StorePath != "/srv/linkbot/bot.json" {
		t.Errorf("StorePath = %q", cfg.StorePath)
	}
	if len(cfg.AllowedHosts) != 2 || cfg.AllowedHosts[1] != "api.example.com" {
		t.Errorf("AllowedHosts = %v", cfg.AllowedHosts)
	}
}

func TestLoadPanicsOnInvalidCombination(t *testing.T) {
	t.Setenv("LINKBOT_STORE_BACKEND", "redis")
	t.Setenv("LINKBOT_REDIS_ADDR", "")

	defer func() {
		if r := recover(); r == nil {
			t.Error("Load() should panic when the redis backend has no address")
		}
	}()
	Load(filepath.Join(t.TempDir(), "missing.env"))
}
