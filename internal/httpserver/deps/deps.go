package deps

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/linkbot/internal/categorize"
	"github.com/MrSnakeDoc/linkbot/internal/index"
	"github.com/MrSnakeDoc/linkbot/internal/logger"
	"github.com/MrSnakeDoc/linkbot/internal/search"
	"github.com/MrSnakeDoc/linkbot/internal/store"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time                // for testing, defaults to time.Now
	AllowedHosts  []string                        // Host headers allowed to access the server
	AllowedCIDRS  []string                        // IPs allowed to access readyz/infra/reload endpoints
	TrustProxy    bool                            // true if running behind a trusted reverse proxy (e.g., cloudflared)
	Store         *store.Store                    // resources and jobs
	Search        *search.Engine                  // tiered search
	Categorizer   *categorize.Categorizer         // term table, suggestions
	StoreBackend  string                          // "file" | "badger" | "redis"
	RedisClient   *redis.Client                   // nil when redis is not configured
	MemoryIndex   *index.MemoryIndex              // nil when the search cache lives in redis
	ReloadTrigger chan struct{}                   // manual import trigger (nil if import disabled)
	WriteLimit    func(http.Handler) http.Handler // shared rate limiter for write routes (nil = none)
}

// Now returns TimeNow() or time.Now().
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
