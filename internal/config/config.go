package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Storage
	StoreBackend string // "file" | "badger" | "redis"
	StorePath    string // JSON document path for the file backend
	BadgerDir    string // data directory for the badger backend
	TermsFile    string // optional YAML term table (empty = built-in table)

	// Search cache
	SearchCacheSize int64         // in-process cache entries
	SearchCacheTTL  time.Duration // entry lifetime (memory and redis)

	// Jobs digest
	DigestEnabled  bool
	DigestSchedule string // cron spec, ex: "0 6 * * *"

	// Resource retention
	Retention  time.Duration // 0 = keep forever
	GCInterval time.Duration

	// Homepage import (optional, empty file = disabled)
	ImportFile     string
	ImportFormat   string // "services" | "bookmarks"
	ImportInterval time.Duration

	// Redis (optional unless StoreBackend is "redis")
	RedisAddr             string        // ex: "localhost:6379", empty = disabled
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password when redis is enabled
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// Write rate limiting (per client IP)
	WriteBurst        int
	WriteRefillPerMin int

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict ops endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

// Load reads .env files (when present) and then the environment.
// Variables already set in the environment win over .env values.
func Load(envFiles ...string) *Config {
	loadDotEnv(envFiles...)

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LINKBOT_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("LINKBOT_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("LINKBOT_REQUEST_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("LINKBOT_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LINKBOT_PRETTY_LOG", false),

		// Storage
		StoreBackend: strings.ToLower(getenv("LINKBOT_STORE_BACKEND", BackendFile)),
		StorePath:    getenv("LINKBOT_STORE_PATH", "./data/bot.json"),
		BadgerDir:    getenv("LINKBOT_BADGER_DIR", "./data/badger"),
		TermsFile:    getenv("LINKBOT_TERMS_FILE", ""),

		// Search cache
		SearchCacheSize: int64(getenvInt("LINKBOT_SEARCH_CACHE_SIZE", 1024)),
		SearchCacheTTL:  mustDuration("LINKBOT_SEARCH_CACHE_TTL", 10*time.Minute),

		// Digest
		DigestEnabled:  mustBool("LINKBOT_DIGEST_ENABLED", true),
		DigestSchedule: getenv("LINKBOT_DIGEST_SCHEDULE", "0 6 * * *"),

		// Retention
		Retention:  mustDuration("LINKBOT_RETENTION", 0),
		GCInterval: mustDuration("LINKBOT_GC_INTERVAL", 24*time.Hour),

		// Homepage import
		ImportFile:     getenv("LINKBOT_IMPORT_FILE", ""),
		ImportFormat:   getenv("LINKBOT_IMPORT_FORMAT", "bookmarks"),
		ImportInterval: mustDuration("LINKBOT_IMPORT_INTERVAL", 24*time.Hour),

		// Redis settings
		RedisAddr:             getenv("LINKBOT_REDIS_ADDR", ""),
		RedisUser:             getenv("LINKBOT_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("LINKBOT_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("LINKBOT_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("LINKBOT_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Rate limiting
		WriteBurst:        getenvInt("LINKBOT_WRITE_BURST", 10),
		WriteRefillPerMin: getenvInt("LINKBOT_WRITE_REFILL_PER_MIN", 30),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("LINKBOT_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("LINKBOT_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("LINKBOT_TRUST_PROXY", false),
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// Validate checks combinations that individual getters cannot.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendFile:
		if c.StorePath == "" {
			return errors.New("LINKBOT_STORE_PATH is required for the file backend")
		}
	case BackendBadger:
		if c.BadgerDir == "" {
			return errors.New("LINKBOT_BADGER_DIR is required for the badger backend")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return errors.New("LINKBOT_REDIS_ADDR is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown LINKBOT_STORE_BACKEND %q", c.StoreBackend)
	}

	if c.RedisEnabled() && c.RedisPasswordRequired && c.RedisPassword == "" {
		return errors.New("LINKBOT_REDIS_PASSWORD is required when LINKBOT_REDIS_PASSWORD_REQUIRED=true")
	}
	if c.ImportFile != "" && c.ImportFormat != "services" && c.ImportFormat != "bookmarks" {
		return fmt.Errorf("LINKBOT_IMPORT_FORMAT must be services or bookmarks, got %q", c.ImportFormat)
	}
	if c.SearchCacheSize <= 0 {
		return fmt.Errorf("LINKBOT_SEARCH_CACHE_SIZE must be > 0, got %d", c.SearchCacheSize)
	}
	if c.Retention < 0 {
		return fmt.Errorf("LINKBOT_RETENTION must be >= 0, got %v", c.Retention)
	}
	return nil
}

// RedisEnabled reports whether a Redis address is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// loadDotEnv loads the given files (default ".env"); missing files are ignored.
func loadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(fmt.Sprintf("❌ FATAL: cannot parse env file %s: %v", f, err))
		}
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
