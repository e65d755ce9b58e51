// Package app boots the membership site API server.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cardly-iq/cardly/internal/cache"
	"github.com/cardly-iq/cardly/internal/config"
	"github.com/cardly-iq/cardly/internal/db"
	"github.com/cardly-iq/cardly/internal/http/api/admin"
	"github.com/cardly-iq/cardly/internal/http/api/front"
	"github.com/cardly-iq/cardly/internal/i18n"
	"github.com/cardly-iq/cardly/internal/settings"
	"github.com/cardly-iq/cardly/internal/storage"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Migrate opens the database and runs migrations.
func Migrate(ctx context.Context, configPath string) error {
	cfg, errLoad := config.Load(config.ResolveConfigPath(configPath))
	if errLoad != nil {
		return errLoad
	}
	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	return db.Migrate(conn)
}

// RunServer boots the API server and blocks until ctx is cancelled.
func RunServer(ctx context.Context, configPath string) error {
	cfg, errLoad := config.Load(config.ResolveConfigPath(configPath))
	if errLoad != nil {
		return errLoad
	}
	config.SetupLogging(cfg.Log)

	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	if errRefresh := settings.Refresh(ctx, conn); errRefresh != nil {
		return errRefresh
	}
	settings.StartRefresher(ctx, conn)

	resolver, errResolver := i18n.NewResolver()
	if errResolver != nil {
		return errResolver
	}

	store, errStore := storage.NewFileStore(cfg.Storage.Dir, cfg.Storage.PublicBaseURL)
	if errStore != nil {
		return errStore
	}

	var cacheClient *cache.Cache
	if cfg.Redis.Addr != "" {
		client, errCache := cache.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL())
		if errCache != nil {
			log.WithError(errCache).Warn("redis unavailable, serving directory without cache")
		} else {
			cacheClient = client
			defer func() { _ = cacheClient.Close() }()
		}
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	front.RegisterFrontRoutes(engine, conn, resolver, store, cacheClient)
	admin.RegisterAdminRoutes(engine, conn, cfg.JWT, cacheClient)
	engine.Static(cfg.Storage.PublicBaseURL, store.Dir())

	server := &http.Server{
		Addr:    cfg.Listen,
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("listen", cfg.Listen).Info("server started")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			return errShutdown
		}
		log.Info("server stopped")
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}
