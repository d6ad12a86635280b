package main

import (
	"context"
	"log"
	"os"
	"strings"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/example/storefront-inventory/config"
	apimod "github.com/example/storefront-inventory/modules/api"
	cartmod "github.com/example/storefront-inventory/modules/cart"
	catalogmod "github.com/example/storefront-inventory/modules/catalog"
	checkoutmod "github.com/example/storefront-inventory/modules/checkout"
	"github.com/example/storefront-inventory/modules/snapshot"
	wishlistmod "github.com/example/storefront-inventory/modules/wishlist"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Println("=== Storefront Inventory ===")
	log.Printf("HTTP: %s", cfg.HTTPAddr)
	log.Printf("Catalog DB: %s", cfg.DBPath)
	log.Printf("Snapshot backend: %s", cfg.SnapshotBackend)
	if cfg.CatalogCacheEnabled || cfg.SnapshotBackend == string(snapshot.BackendRedis) {
		log.Printf("Redis: %s", cfg.RedisAddr)
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(selectLevel(cfg.LogLevel,
			mono.LogLevelDebug, mono.LogLevelInfo, mono.LogLevelWarn, mono.LogLevelError)),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}
	logger := app.Logger()

	// Cart and wishlist modules receive the plugin through SetPlugin("snapshot", ...).
	snapshotPlugin := snapshot.NewPluginModule(snapshot.Options{
		Backend:   snapshot.Backend(cfg.SnapshotBackend),
		DBPath:    cfg.SnapshotDBPath,
		RedisAddr: cfg.RedisAddr,
		Prefix:    cfg.SnapshotPrefix,
		TTL:       cfg.SnapshotTTL,
	}, logger.WithModule("snapshot"))
	if err := app.RegisterPlugin(snapshotPlugin, "snapshot"); err != nil {
		log.Fatalf("Failed to register snapshot plugin: %v", err)
	}

	catalogModule := catalogmod.NewModule(catalogmod.Options{
		DBPath:       cfg.DBPath,
		CacheEnabled: cfg.CatalogCacheEnabled,
		RedisAddr:    cfg.RedisAddr,
		CacheTTL:     cfg.CatalogCacheTTL,
		SeedDemoData: cfg.SeedDemoData,
	}, logger.WithModule("catalog"))
	cartModule := cartmod.NewModule(cfg.MaxSessions, logger.WithModule("cart"))
	wishlistModule := wishlistmod.NewModule(cfg.MaxSessions, logger.WithModule("wishlist"))
	checkoutModule := checkoutmod.NewModule(logger.WithModule("checkout"))
	apiModule := apimod.NewModule(cfg.HTTPAddr, logger.WithModule("api"))

	app.Register(catalogModule)
	app.Register(cartModule)
	app.Register(wishlistModule)
	app.Register(checkoutModule)
	app.Register(apiModule)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	log.Println("=== Application Started ===")
	log.Printf("API available at http://localhost%s", cfg.HTTPAddr)
	log.Println("Endpoints:")
	log.Println("  GET    /health                               - Health check")
	log.Println("  GET    /api/v1/products                      - List products")
	log.Println("  POST   /api/v1/products                      - Create product")
	log.Println("  GET    /api/v1/products/:id                  - Get product")
	log.Println("  GET    /api/v1/products/:id/availability     - Variant availability (?size=&color=)")
	log.Println("  GET    /api/v1/products/:id/selection        - Validate a selection (?size=&color=&quantity=)")
	log.Println("  GET    /api/v1/cart                          - Current cart")
	log.Println("  POST   /api/v1/cart/items                    - Add to cart")
	log.Println("  PATCH  /api/v1/cart/items                    - Update line quantity")
	log.Println("  DELETE /api/v1/cart/items                    - Remove line (?product_id=&size_id=&color_id=)")
	log.Println("  DELETE /api/v1/cart                          - Clear cart")
	log.Println("  POST   /api/v1/cart/checkout                 - Hand cart to checkout")
	log.Println("  POST   /api/v1/checkout/complete             - Complete order")
	log.Println("  GET    /api/v1/checkout/handoffs             - List checkout handoffs")
	log.Println("  GET    /api/v1/wishlist                      - Current wishlist")
	log.Println("  POST   /api/v1/wishlist/items                - Add to wishlist")
	log.Println("  DELETE /api/v1/wishlist/items/:productId     - Remove from wishlist")
	log.Println("  DELETE /api/v1/wishlist                      - Clear wishlist")
	log.Println("")
	log.Printf("Sessions are identified by the %s header or %s cookie", apimod.SessionHeader, apimod.SessionCookie)
	log.Println("Press Ctrl+C to shutdown")

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

// selectLevel maps a configured level name onto one of the given levels.
// Unknown names fall back to info; config validation rejects them earlier.
func selectLevel[T any](name string, debug, info, warn, errorLevel T) T {
	switch strings.ToLower(name) {
	case "debug":
		return debug
	case "warn":
		return warn
	case "error":
		return errorLevel
	default:
		return info
	}
}
