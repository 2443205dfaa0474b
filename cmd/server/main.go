package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campuseats/cart"
	"campuseats/catalog"
	"campuseats/config"
	"campuseats/database"
	"campuseats/graphql"
	"campuseats/handlers"
	"campuseats/logging"
	"campuseats/pricing"
	"campuseats/worker"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// main wires the catalog source, the background refresher and the HTTP server.
func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, closeSrc, err := openSource(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.CatalogSource).Msg("Failed to open catalog source")
	}
	defer closeSrc()

	options := pricing.DefaultCatalog()
	if cfg.OptionsFile != "" {
		options, err = pricing.LoadCatalog(cfg.OptionsFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.OptionsFile).Msg("Failed to load option catalog")
		}
	}

	cache := catalog.NewCache()
	refresherDone := worker.StartCatalogRefresher(ctx, src, cache, cfg.RefreshInterval, cfg.RefreshConcurrency)

	carts := cart.NewRegistry(options, cfg.CartMaxSessions)
	defer carts.Close()
	sweeperDone := carts.StartSweeper(ctx, cfg.CartIdleTimeout/2, cfg.CartIdleTimeout)

	mux := handlers.NewMux(handlers.Deps{
		Catalog:        cache,
		Options:        options,
		Carts:          carts,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", handlers.SessionHeader},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down server")

		// Close cart streams first so hijacked websocket handlers return.
		carts.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("source", cfg.CatalogSource).Msg("Server starting")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}

	<-refresherDone
	<-sweeperDone
	log.Info().Msg("Server stopped")
}

// openSource returns the configured catalog source and a func releasing it.
func openSource(ctx context.Context, cfg config.Config) (catalog.Source, func(), error) {
	switch cfg.CatalogSource {
	case config.SourceGraphQL:
		if cfg.GraphQLEndpoint == "" {
			return nil, nil, errors.New("GRAPHQL_ENDPOINT environment variable not set")
		}
		return graphql.NewClient(cfg.GraphQLEndpoint, cfg.GraphQLToken), func() {}, nil

	case config.SourceSQLite, config.SourcePostgres:
		driver := database.DriverPostgres
		if cfg.CatalogSource == config.SourceSQLite {
			driver = database.DriverSQLite
		}
		db, err := database.Connect(driver, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store := database.NewCatalogStore(db)
		if err := store.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { db.Close() }, nil

	default:
		return nil, nil, errors.New("unknown CATALOG_SOURCE " + cfg.CatalogSource)
	}
}
