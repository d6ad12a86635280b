// Package catalog provides the product catalog module: a GORM + SQLite
// repository, an optional Redis read-through cache, and availability
// queries answered by the inventory resolver.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options configures the catalog module.
type Options struct {
	DBPath       string
	CacheEnabled bool
	RedisAddr    string
	CacheTTL     time.Duration
	SeedDemoData bool
}

// CatalogModule serves product data to the other modules.
type CatalogModule struct {
	opts    Options
	db      *gorm.DB
	cache   ProductCache
	service *Service
	logger  types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*CatalogModule)(nil)
	_ mono.ServiceProviderModule = (*CatalogModule)(nil)
	_ mono.HealthCheckableModule = (*CatalogModule)(nil)
)

// NewModule creates a new CatalogModule.
func NewModule(opts Options, logger types.Logger) *CatalogModule {
	if opts.DBPath == "" {
		opts.DBPath = "catalog.db"
	}
	return &CatalogModule{opts: opts, logger: logger}
}

// Name returns the module name.
func (m *CatalogModule) Name() string {
	return "catalog"
}

// RegisterServices registers request-reply services in the service container.
// Subjects are prefixed by the framework: services.catalog.<name>.
func (m *CatalogModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "get-product", json.Unmarshal, json.Marshal, m.getProduct,
	); err != nil {
		return fmt.Errorf("failed to register get-product service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-products", json.Unmarshal, json.Marshal, m.listProducts,
	); err != nil {
		return fmt.Errorf("failed to register list-products service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "create-product", json.Unmarshal, json.Marshal, m.createProduct,
	); err != nil {
		return fmt.Errorf("failed to register create-product service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "availability", json.Unmarshal, json.Marshal, m.availability,
	); err != nil {
		return fmt.Errorf("failed to register availability service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "selection", json.Unmarshal, json.Marshal, m.selection,
	); err != nil {
		return fmt.Errorf("failed to register selection service: %w", err)
	}

	m.logger.Info("Registered services",
		"services", "services.catalog.{get-product,list-products,create-product,availability,selection}")
	return nil
}

// Start opens the database, connects the cache and seeds demo data.
func (m *CatalogModule) Start(ctx context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.opts.DBPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	repo := NewRepository(db)
	if err := repo.Migrate(); err != nil {
		return err
	}

	m.cache = nopCache{}
	if m.opts.CacheEnabled {
		client := redis.NewClient(&redis.Options{
			Addr:         m.opts.RedisAddr,
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return fmt.Errorf("failed to connect to Redis at %s: %w", m.opts.RedisAddr, err)
		}
		m.cache = NewRedisCache(client, "catalog:product:", m.opts.CacheTTL)
		m.logger.Info("Product cache enabled", "redis_addr", m.opts.RedisAddr, "ttl", m.opts.CacheTTL.String())
	}

	m.service = NewService(repo, m.cache, m.logger)

	if m.opts.SeedDemoData {
		seeded, err := m.service.Seed(ctx)
		if err != nil {
			return err
		}
		if seeded > 0 {
			m.logger.Info("Seeded demo products", "count", seeded)
		}
	}

	m.logger.Info("Catalog module started", "db_path", m.opts.DBPath)
	return nil
}

// Stop closes the cache and the database connection.
func (m *CatalogModule) Stop(_ context.Context) error {
	if m.cache != nil {
		if err := m.cache.Close(); err != nil {
			m.logger.Warn("Failed to close product cache", "error", err)
		}
	}
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	m.logger.Info("Catalog module stopped")
	return nil
}

// Health performs a health check on the catalog module.
func (m *CatalogModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get sql.DB: %v", err),
		}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": "sqlite",
			"path":   m.opts.DBPath,
			"cache":  m.service.CacheStats(),
		},
	}
}
