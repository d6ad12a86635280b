package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/storage/redis/v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Backend selects where snapshots are written.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendSQLite Backend = "sqlite"
	BackendRedis  Backend = "redis"
)

// Options configures the snapshot plugin.
type Options struct {
	Backend   Backend
	DBPath    string
	RedisAddr string
	Prefix    string
	TTL       time.Duration
}

// PluginModule exposes a snapshot Store to the cart and wishlist modules.
// Plugins start before and stop after regular modules, so stores can flush
// their last snapshot during shutdown.
type PluginModule struct {
	container types.ServiceContainer
	store     Store
	opts      Options
	logger    types.Logger
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates the snapshot plugin.
func NewPluginModule(opts Options, logger types.Logger) *PluginModule {
	if opts.Backend == "" {
		opts.Backend = BackendMemory
	}
	return &PluginModule{opts: opts, logger: logger}
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "snapshot"
}

// Start opens the configured backend.
func (m *PluginModule) Start(_ context.Context) error {
	switch m.opts.Backend {
	case BackendMemory:
		m.store = NewMemoryStore()

	case BackendSQLite:
		db, err := gorm.Open(sqlite.Open(m.opts.DBPath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			return fmt.Errorf("failed to open snapshot database: %w", err)
		}
		store, err := NewSQLStore(db)
		if err != nil {
			return err
		}
		m.store = store

	case BackendRedis:
		host, port := parseRedisAddr(m.opts.RedisAddr)
		storage := redis.New(redis.Config{
			Host:     host,
			Port:     port,
			PoolSize: 50,
		})
		m.store = NewKVStore(storage, m.opts.Prefix, m.opts.TTL)

	default:
		return fmt.Errorf("unknown snapshot backend %q", m.opts.Backend)
	}

	m.logger.Info("Snapshot plugin started",
		"backend", string(m.opts.Backend),
		"prefix", m.opts.Prefix,
		"ttl", m.opts.TTL.String())
	return nil
}

// Stop closes the backend.
func (m *PluginModule) Stop(_ context.Context) error {
	if m.store == nil {
		return nil
	}
	if err := m.store.Close(); err != nil {
		m.logger.Error("Failed to close snapshot backend", "error", err)
		return fmt.Errorf("failed to close snapshot backend: %w", err)
	}
	m.logger.Info("Snapshot plugin stopped")
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

// Port returns the Store consumers persist through. It is nil before Start.
func (m *PluginModule) Port() Store {
	return m.store
}

// Health checks the backend with a read of a key that never exists.
func (m *PluginModule) Health(ctx context.Context) mono.HealthStatus {
	if m.store == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "store not initialized",
		}
	}

	var discard json.RawMessage
	if _, err := m.store.Load(ctx, "__health_check__", &discard); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("health check failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"backend": string(m.opts.Backend),
			"prefix":  m.opts.Prefix,
		},
	}
}

// parseRedisAddr splits "host:port", falling back to 127.0.0.1:6379.
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
