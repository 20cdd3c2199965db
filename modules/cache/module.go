package cache

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/storage"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/storage/redis/v3"
)

// DefaultTTL is how long cached task records stay valid. Override with
// CACHE_TTL (a Go duration string, e.g. "90s").
const DefaultTTL = 5 * time.Minute

const (
	keyPrefix       = "task:"
	defaultPoolSize = 50
)

// PluginModule provides the task cache as a mono plugin module.
// Plugins start first and stop last, so the cache port is available
// before the task module initializes.
type PluginModule struct {
	container types.ServiceContainer
	storage   storage.Storage
	service   CacheService
	redisAddr string
	prefix    string
	ttl       time.Duration
	poolSize  int
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates a cache plugin for the given Redis address.
// TTL and connection pool size come from CACHE_TTL and CACHE_POOL_SIZE
// when set, with defaults otherwise.
func NewPluginModule(redisAddr string) *PluginModule {
	return &PluginModule{
		redisAddr: redisAddr,
		prefix:    keyPrefix,
		ttl:       ttlFromEnv(),
		poolSize:  poolSizeFromEnv(),
	}
}

func ttlFromEnv() time.Duration {
	raw := os.Getenv("CACHE_TTL")
	if raw == "" {
		return DefaultTTL
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("[cache] Ignoring invalid CACHE_TTL %q, using %s", raw, DefaultTTL)
		return DefaultTTL
	}
	return d
}

func poolSizeFromEnv() int {
	raw := os.Getenv("CACHE_POOL_SIZE")
	if raw == "" {
		return defaultPoolSize
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		log.Printf("[cache] Ignoring invalid CACHE_POOL_SIZE %q, using %d", raw, defaultPoolSize)
		return defaultPoolSize
	}
	return n
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "cache"
}

// Start connects to Redis and builds the cache service.
func (m *PluginModule) Start(_ context.Context) error {
	host, port := parseRedisAddr(m.redisAddr)
	m.storage = redis.New(redis.Config{
		Host:     host,
		Port:     port,
		PoolSize: m.poolSize,
	})
	m.service = NewCacheService(m.storage, m.prefix, m.ttl)
	log.Printf("[cache] Connected to Redis at %s (prefix: %s, TTL: %s)", m.redisAddr, m.prefix, m.ttl)
	return nil
}

// Stop closes the Redis connection. Plugins stop after regular modules.
func (m *PluginModule) Stop(_ context.Context) error {
	if m.service != nil {
		if err := m.service.Close(); err != nil {
			return fmt.Errorf("failed to close cache connection: %w", err)
		}
	}
	log.Println("[cache] Plugin stopped")
	return nil
}

// SetContainer sets the service container for this plugin.
func (m *PluginModule) SetContainer(container types.ServiceContainer) {
	m.container = container
}

// Container returns the service container for this plugin.
func (m *PluginModule) Container() types.ServiceContainer {
	return m.container
}

// Port returns the CacheService interface consumed by other modules.
func (m *PluginModule) Port() CacheService {
	return m.service
}

// Health returns the current health status.
func (m *PluginModule) Health(_ context.Context) mono.HealthStatus {
	if m.storage == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "storage not initialized",
		}
	}

	if _, err := m.storage.Get("__health_check__"); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("health check failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"redis_addr": m.redisAddr,
			"prefix":     m.prefix,
			"ttl":        m.ttl.String(),
		},
	}
}

// parseRedisAddr parses "host:port", falling back to 127.0.0.1:6379
// for missing or invalid values.
func parseRedisAddr(addr string) (string, int) {
	const defaultHost = "127.0.0.1"
	const defaultPort = 6379

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return defaultHost, defaultPort
	}
	if host == "" {
		host = defaultHost
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = defaultPort
	}
	return host, port
}
